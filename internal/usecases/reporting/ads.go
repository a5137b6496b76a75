package reporting

import (
	"context"
	"sort"

	"github.com/vfg2006/retail-dashboard-api/internal/domain"
	report "github.com/vfg2006/retail-dashboard-api/internal/reporting"
	"golang.org/x/sync/errgroup"
)

// Ads monta o relatório de gasto do Meta. O ROAS depende dos pedidos e fica null
// quando a fonte de pedidos falha.
func (s *Service) Ads(ctx context.Context, filters domain.ReportFilters) (*domain.AdsReport, error) {
	started := s.now()

	p, err := s.newPlan(filters)
	if err != nil {
		return nil, err
	}

	var (
		adSpend report.SourceResult[[]*domain.AdSpendRecord]
		orders  report.SourceResult[[]*domain.Order]
	)

	var g errgroup.Group
	g.Go(func() error {
		adSpend = s.fetchAdSpend(ctx, p.history, p.filters.CampaignIDs)
		return nil
	})
	g.Go(func() error {
		orders = s.fetchOrders(ctx, p.window, p.filters.Cities)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := adSpend.Value()
	spendValues := adSpendValues(records, func(r *domain.AdSpendRecord) float64 { return r.Spend })
	impressionValues := adSpendValues(records, func(r *domain.AdSpendRecord) float64 { return float64(r.Impressions) })
	clickValues := adSpendValues(records, func(r *domain.AdSpendRecord) float64 { return float64(r.Clicks) })

	current := summarizeAds(adSpendIn(records, p.window))
	previous := summarizeAds(adSpendIn(records, p.previous))

	var roas *float64
	if orders.OK() {
		roas = report.ROAS(sumRevenue(ordersIn(orders.Value(), p.window), s.normalizer), current.Spend)
	}

	return &domain.AdsReport{
		Period: report.NewPeriodInfo(p.window, p.lookback),
		KPIs: []domain.KPICard{
			kpi("spend", spendValues, p),
			kpi("impressions", impressionValues, p),
			kpi("clicks", clickValues, p),
			report.RatioKPICard("ctr", current.CTR, previous.CTR),
			report.RatioKPICard("cpc", current.CPC, previous.CPC),
		},
		ROAS:      roas,
		Series:    s.adsSeries(p.window, adSpendIn(records, p.window)),
		Campaigns: campaignRows(adSpendIn(records, p.window)),
		Breakdown: report.GroupBy(s.inWindow(spendValues, p.window), p.filters.Granularity),
		Sources:   s.finish(ctx, ReportAds, started, adSpend, orders),
	}, nil
}

// summarizeAds soma os registros e calcula CTR (%) e CPC com proteção para zero
func summarizeAds(records []*domain.AdSpendRecord) domain.CampaignRow {
	var row domain.CampaignRow
	for _, record := range records {
		row.Spend += record.Spend
		row.Impressions += record.Impressions
		row.Clicks += record.Clicks
	}

	row.CTR = round(report.SafeDivide(float64(row.Clicks), float64(row.Impressions)) * 100)
	row.CPC = round(report.SafeDivide(row.Spend, float64(row.Clicks)))
	row.Spend = round(row.Spend)

	return row
}

func campaignRows(records []*domain.AdSpendRecord) []domain.CampaignRow {
	byCampaign := make(map[string][]*domain.AdSpendRecord)
	names := make(map[string]string)

	for _, record := range records {
		byCampaign[record.CampaignID] = append(byCampaign[record.CampaignID], record)
		if names[record.CampaignID] == "" {
			names[record.CampaignID] = record.CampaignName
		}
	}

	rows := make([]domain.CampaignRow, 0, len(byCampaign))
	for campaignID, campaignRecords := range byCampaign {
		row := summarizeAds(campaignRecords)
		row.CampaignID = campaignID
		row.CampaignName = names[campaignID]
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Spend != rows[j].Spend {
			return rows[i].Spend > rows[j].Spend
		}
		return rows[i].CampaignID < rows[j].CampaignID
	})

	return rows
}

func (s *Service) adsSeries(window domain.PeriodWindow, records []*domain.AdSpendRecord) []domain.AdsDay {
	axis := report.DailyAxis(window)

	index := make(map[string]int, len(axis))
	series := make([]domain.AdsDay, len(axis))
	for i, key := range axis {
		series[i] = domain.AdsDay{Date: key}
		index[key] = i
	}

	for _, record := range records {
		i, ok := index[s.dayKey(record.Date)]
		if !ok {
			continue
		}
		series[i].Spend += record.Spend
		series[i].Impressions += record.Impressions
		series[i].Clicks += record.Clicks
	}

	for i := range series {
		series[i].Spend = round(series[i].Spend)
	}

	return series
}
