package domain

import "time"

type TrafficSource struct {
	Source   string `json:"source"`
	Medium   string `json:"medium"`
	Sessions int    `json:"sessions"`
}

type PageStat struct {
	Path      string `json:"path"`
	PageViews int    `json:"page_views"`
}

// AnalyticsSnapshot é o resumo diário de uma propriedade do Google Analytics
type AnalyticsSnapshot struct {
	Date           time.Time       `json:"date"`
	Sessions       int             `json:"sessions"`
	Users          int             `json:"users"`
	NewUsers       int             `json:"new_users"`
	PageViews      int             `json:"page_views"`
	BounceRate     float64         `json:"bounce_rate"`
	TrafficSources []TrafficSource `json:"traffic_sources"`
	TopPages       []PageStat      `json:"top_pages"`
}

type AnalyticsFilter struct {
	Window PeriodWindow
}
