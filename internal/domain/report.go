package domain

// ReportFilters são os filtros já validados de uma requisição de relatório
type ReportFilters struct {
	Window       PeriodWindow
	Cities       []string
	CampaignIDs  []string
	Granularity  Granularity
	LookbackDays int
}

// PeriodInfo descreve as janelas usadas no relatório (datas inclusivas)
type PeriodInfo struct {
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	PreviousStartDate string `json:"previous_start_date"`
	PreviousEndDate   string `json:"previous_end_date"`
	Days              int    `json:"days"`
	LookbackDays      int    `json:"lookback_days,omitempty"`
}

// SourceStatus indica se uma fonte contribuiu para o relatório ou foi degradada
type SourceStatus struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// KPICard é o bloco de KPI consumido pelo dashboard. Os campos de comparação
// são null quando a base é zero.
type KPICard struct {
	Key               string      `json:"key"`
	Value             float64     `json:"value"`
	Previous          float64     `json:"previous"`
	HistoricalAverage float64     `json:"historical_average"`
	VsPrevious        *Comparison `json:"vs_previous"`
	VsHistorical      *Comparison `json:"vs_historical"`
}

type BreakdownRow struct {
	Key     string  `json:"key"`
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

type CategoryBreakdown struct {
	Category      string  `json:"category"`
	Orders        int     `json:"orders"`
	Revenue       float64 `json:"revenue"`
	AverageTicket float64 `json:"average_ticket"`
	Share         float64 `json:"share"`
}

type DashboardDay struct {
	Date         string  `json:"date"`
	Revenue      float64 `json:"revenue"`
	Orders       int     `json:"orders"`
	AdSpend      float64 `json:"ad_spend"`
	Sessions     int     `json:"sessions"`
	Appointments int     `json:"appointments"`
}

type DashboardReport struct {
	Period      PeriodInfo              `json:"period"`
	KPIs        []KPICard               `json:"kpis"`
	ROAS        *float64                `json:"roas"`
	Series      []DashboardDay          `json:"series"`
	Attribution []CategoryBreakdown     `json:"attribution"`
	Sources     map[string]SourceStatus `json:"sources"`
}

type SalesDay struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type CountryBreakdown struct {
	Country      string  `json:"country"`
	Orders       int     `json:"orders"`
	LocalRevenue float64 `json:"local_revenue"`
	Revenue      float64 `json:"revenue"`
}

type ProductRow struct {
	Title    string  `json:"title"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type SalesReport struct {
	Period       PeriodInfo              `json:"period"`
	KPIs         []KPICard               `json:"kpis"`
	Series       []SalesDay              `json:"series"`
	Attribution  []CategoryBreakdown     `json:"attribution"`
	Countries    []CountryBreakdown      `json:"countries"`
	Breakdown    []BreakdownRow          `json:"breakdown"`
	TopProducts  []ProductRow            `json:"top_products"`
	StoreRanking []StoreRankingItem      `json:"store_ranking"`
	Sources      map[string]SourceStatus `json:"sources"`
}

type AdsDay struct {
	Date        string  `json:"date"`
	Spend       float64 `json:"spend"`
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
}

type CampaignRow struct {
	CampaignID   string  `json:"campaign_id"`
	CampaignName string  `json:"campaign_name"`
	Spend        float64 `json:"spend"`
	Impressions  int     `json:"impressions"`
	Clicks       int     `json:"clicks"`
	CTR          float64 `json:"ctr"`
	CPC          float64 `json:"cpc"`
}

type AdsReport struct {
	Period    PeriodInfo              `json:"period"`
	KPIs      []KPICard               `json:"kpis"`
	ROAS      *float64                `json:"roas"`
	Series    []AdsDay                `json:"series"`
	Campaigns []CampaignRow           `json:"campaigns"`
	Breakdown []BreakdownRow          `json:"breakdown"`
	Sources   map[string]SourceStatus `json:"sources"`
}

type AnalyticsDay struct {
	Date      string  `json:"date"`
	Sessions  int     `json:"sessions"`
	Users     int     `json:"users"`
	NewUsers  int     `json:"new_users"`
	PageViews int     `json:"page_views"`
	Bounce    float64 `json:"bounce_rate"`
}

type AnalyticsReport struct {
	Period         PeriodInfo              `json:"period"`
	KPIs           []KPICard               `json:"kpis"`
	Series         []AnalyticsDay          `json:"series"`
	TrafficSources []TrafficSource         `json:"traffic_sources"`
	TopPages       []PageStat              `json:"top_pages"`
	Breakdown      []BreakdownRow          `json:"breakdown"`
	Sources        map[string]SourceStatus `json:"sources"`
}

type AppointmentsDay struct {
	Date     string `json:"date"`
	Medicion int    `json:"medicion"`
	Fitting  int    `json:"fitting"`
	Total    int    `json:"total"`
}

type AppointmentCategoryRow struct {
	Category        string   `json:"category"`
	Appointments    int      `json:"appointments"`
	Canceled        int      `json:"canceled"`
	ConvertedOrders int      `json:"converted_orders"`
	Revenue         float64  `json:"revenue"`
	ConversionRate  *float64 `json:"conversion_rate"`
}

type AppointmentsReport struct {
	Period     PeriodInfo               `json:"period"`
	KPIs       []KPICard                `json:"kpis"`
	Series     []AppointmentsDay        `json:"series"`
	Categories []AppointmentCategoryRow `json:"categories"`
	Sources    map[string]SourceStatus  `json:"sources"`
}
