package reporting

import (
	"context"

	"github.com/vfg2006/retail-dashboard-api/internal/domain"
	report "github.com/vfg2006/retail-dashboard-api/internal/reporting"
	"golang.org/x/sync/errgroup"
)

// Dashboard cruza as quatro fontes. Cada fonte que falhar vira vazio e aparece em "sources".
func (s *Service) Dashboard(ctx context.Context, filters domain.ReportFilters) (*domain.DashboardReport, error) {
	started := s.now()

	p, err := s.newPlan(filters)
	if err != nil {
		return nil, err
	}

	var (
		orders       report.SourceResult[[]*domain.Order]
		appointments report.SourceResult[[]*domain.Appointment]
		adSpend      report.SourceResult[[]*domain.AdSpendRecord]
		analytics    report.SourceResult[[]*domain.AnalyticsSnapshot]
	)

	// as buscas não devolvem erro: a falha fica no SourceResult e o relatório
	// sai parcial. O errgroup só sincroniza as goroutines.
	var g errgroup.Group
	g.Go(func() error {
		orders = s.fetchOrders(ctx, p.history, p.filters.Cities)
		return nil
	})
	g.Go(func() error {
		appointments = s.fetchAppointments(ctx, p.withLookback(p.history), p.filters.Cities, true)
		return nil
	})
	g.Go(func() error {
		adSpend = s.fetchAdSpend(ctx, p.history, p.filters.CampaignIDs)
		return nil
	})
	g.Go(func() error {
		analytics = s.fetchAnalytics(ctx, p.history)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	revenueValues := report.RevenueValues(orders.Value(), s.normalizer)
	orderValues := report.CountValues(report.OrderDates(orders.Value()))
	appointmentValues := report.CountValues(report.ActiveAppointmentDates(appointments.Value()))
	spendValues := adSpendValues(adSpend.Value(), func(r *domain.AdSpendRecord) float64 { return r.Spend })
	sessionValues := analyticsValues(analytics.Value(), func(a *domain.AnalyticsSnapshot) float64 { return float64(a.Sessions) })

	currentRevenue := report.Aggregate(revenueValues, p.window)
	previousRevenue := report.Aggregate(revenueValues, p.previous)
	currentSpend := report.Aggregate(spendValues, p.window)

	kpis := []domain.KPICard{
		kpi("revenue", revenueValues, p),
		kpi("orders", orderValues, p),
		report.RatioKPICard("average_ticket", currentRevenue.Average, previousRevenue.Average),
		kpi("ad_spend", spendValues, p),
		kpi("sessions", sessionValues, p),
		kpi("appointments", appointmentValues, p),
	}

	var roas *float64
	if orders.OK() {
		roas = report.ROAS(currentRevenue.Total, currentSpend.Total)
	}

	currentOrders := ordersIn(orders.Value(), p.window)
	attribution := report.Attribute(currentOrders, appointments.Value(), p.lookback)

	return &domain.DashboardReport{
		Period:      report.NewPeriodInfo(p.window, p.lookback),
		KPIs:        kpis,
		ROAS:        roas,
		Series:      s.dashboardSeries(p.window, revenueValues, orderValues, spendValues, sessionValues, appointmentValues),
		Attribution: report.CategoryBreakdown(currentOrders, attribution, s.normalizer),
		Sources:     s.finish(ctx, ReportDashboard, started, orders, appointments, adSpend, analytics),
	}, nil
}

func (s *Service) dashboardSeries(window domain.PeriodWindow, revenue, orders, spend, sessions, appointments []domain.DatedValue) []domain.DashboardDay {
	axis := report.DailyAxis(window)

	days := make(map[string]*domain.DashboardDay, len(axis))
	series := make([]domain.DashboardDay, len(axis))
	for i, key := range axis {
		series[i] = domain.DashboardDay{Date: key}
		days[key] = &series[i]
	}

	add := func(values []domain.DatedValue, apply func(day *domain.DashboardDay, value float64)) {
		for _, value := range s.inWindow(values, window) {
			if day, ok := days[s.dayKey(value.Date)]; ok {
				apply(day, value.Value)
			}
		}
	}

	add(revenue, func(day *domain.DashboardDay, value float64) { day.Revenue += value })
	add(orders, func(day *domain.DashboardDay, value float64) { day.Orders += int(value) })
	add(spend, func(day *domain.DashboardDay, value float64) { day.AdSpend += value })
	add(sessions, func(day *domain.DashboardDay, value float64) { day.Sessions += int(value) })
	add(appointments, func(day *domain.DashboardDay, value float64) { day.Appointments += int(value) })

	for i := range series {
		series[i].Revenue = round(series[i].Revenue)
		series[i].AdSpend = round(series[i].AdSpend)
	}

	return series
}
