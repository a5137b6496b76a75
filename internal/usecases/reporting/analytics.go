package reporting

import (
	"context"
	"sort"
	"strings"

	"github.com/vfg2006/retail-dashboard-api/internal/domain"
	report "github.com/vfg2006/retail-dashboard-api/internal/reporting"
)

// Analytics monta o relatório de tráfego do Google Analytics
func (s *Service) Analytics(ctx context.Context, filters domain.ReportFilters) (*domain.AnalyticsReport, error) {
	started := s.now()

	p, err := s.newPlan(filters)
	if err != nil {
		return nil, err
	}

	analytics := s.fetchAnalytics(ctx, p.history)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshots := analytics.Value()
	sessionValues := analyticsValues(snapshots, func(a *domain.AnalyticsSnapshot) float64 { return float64(a.Sessions) })
	userValues := analyticsValues(snapshots, func(a *domain.AnalyticsSnapshot) float64 { return float64(a.Users) })
	newUserValues := analyticsValues(snapshots, func(a *domain.AnalyticsSnapshot) float64 { return float64(a.NewUsers) })
	pageViewValues := analyticsValues(snapshots, func(a *domain.AnalyticsSnapshot) float64 { return float64(a.PageViews) })

	current := snapshotsIn(snapshots, p.window)
	previous := snapshotsIn(snapshots, p.previous)

	return &domain.AnalyticsReport{
		Period: report.NewPeriodInfo(p.window, p.lookback),
		KPIs: []domain.KPICard{
			kpi("sessions", sessionValues, p),
			kpi("users", userValues, p),
			kpi("new_users", newUserValues, p),
			kpi("page_views", pageViewValues, p),
			report.RatioKPICard("bounce_rate", weightedBounceRate(current), weightedBounceRate(previous)),
		},
		Series:         s.analyticsSeries(p.window, current),
		TrafficSources: trafficSources(current),
		TopPages:       topPages(current, topPagesLimit),
		Breakdown:      report.GroupBy(s.inWindow(sessionValues, p.window), p.filters.Granularity),
		Sources:        s.finish(ctx, ReportAnalytics, started, analytics),
	}, nil
}

// weightedBounceRate pondera a taxa de rejeição diária pelas sessões do dia
func weightedBounceRate(snapshots []*domain.AnalyticsSnapshot) float64 {
	var weighted, sessions float64
	for _, snapshot := range snapshots {
		weighted += snapshot.BounceRate * float64(snapshot.Sessions)
		sessions += float64(snapshot.Sessions)
	}
	return report.SafeDivide(weighted, sessions)
}

func (s *Service) analyticsSeries(window domain.PeriodWindow, snapshots []*domain.AnalyticsSnapshot) []domain.AnalyticsDay {
	axis := report.DailyAxis(window)

	index := make(map[string]int, len(axis))
	series := make([]domain.AnalyticsDay, len(axis))
	for i, key := range axis {
		series[i] = domain.AnalyticsDay{Date: key}
		index[key] = i
	}

	byDay := make(map[int][]*domain.AnalyticsSnapshot)
	for _, snapshot := range snapshots {
		i, ok := index[s.dayKey(snapshot.Date)]
		if !ok {
			continue
		}
		series[i].Sessions += snapshot.Sessions
		series[i].Users += snapshot.Users
		series[i].NewUsers += snapshot.NewUsers
		series[i].PageViews += snapshot.PageViews
		byDay[i] = append(byDay[i], snapshot)
	}

	for i, daySnapshots := range byDay {
		series[i].Bounce = round(weightedBounceRate(daySnapshots))
	}

	return series
}

func trafficSources(snapshots []*domain.AnalyticsSnapshot) []domain.TrafficSource {
	type key struct {
		source string
		medium string
	}

	bySource := make(map[key]*domain.TrafficSource)
	for _, snapshot := range snapshots {
		for _, source := range snapshot.TrafficSources {
			k := key{source: strings.ToLower(source.Source), medium: strings.ToLower(source.Medium)}
			row, ok := bySource[k]
			if !ok {
				row = &domain.TrafficSource{Source: source.Source, Medium: source.Medium}
				bySource[k] = row
			}
			row.Sessions += source.Sessions
		}
	}

	rows := make([]domain.TrafficSource, 0, len(bySource))
	for _, row := range bySource {
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Sessions != rows[j].Sessions {
			return rows[i].Sessions > rows[j].Sessions
		}
		if rows[i].Source != rows[j].Source {
			return rows[i].Source < rows[j].Source
		}
		return rows[i].Medium < rows[j].Medium
	})

	return rows
}

func topPages(snapshots []*domain.AnalyticsSnapshot, limit int) []domain.PageStat {
	byPath := make(map[string]int)
	for _, snapshot := range snapshots {
		for _, page := range snapshot.TopPages {
			byPath[page.Path] += page.PageViews
		}
	}

	rows := make([]domain.PageStat, 0, len(byPath))
	for path, views := range byPath {
		rows = append(rows, domain.PageStat{Path: path, PageViews: views})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PageViews != rows[j].PageViews {
			return rows[i].PageViews > rows[j].PageViews
		}
		return rows[i].Path < rows[j].Path
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	return rows
}
