package reporting

import (
	"context"

	"github.com/vfg2006/retail-dashboard-api/internal/domain"
	report "github.com/vfg2006/retail-dashboard-api/internal/reporting"
	"golang.org/x/sync/errgroup"
)

// Sales monta o relatório de vendas do Shopify. Sem citas, todos os pedidos ficam como "none".
func (s *Service) Sales(ctx context.Context, filters domain.ReportFilters) (*domain.SalesReport, error) {
	started := s.now()

	p, err := s.newPlan(filters)
	if err != nil {
		return nil, err
	}

	var (
		orders       report.SourceResult[[]*domain.Order]
		appointments report.SourceResult[[]*domain.Appointment]
	)

	var g errgroup.Group
	g.Go(func() error {
		orders = s.fetchOrders(ctx, p.history, p.filters.Cities)
		return nil
	})
	g.Go(func() error {
		appointments = s.fetchAppointments(ctx, p.withLookback(p.window), p.filters.Cities, true)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	revenueValues := report.RevenueValues(orders.Value(), s.normalizer)
	orderValues := report.CountValues(report.OrderDates(orders.Value()))

	currentRevenue := report.Aggregate(revenueValues, p.window)
	previousRevenue := report.Aggregate(revenueValues, p.previous)

	currentOrders := ordersIn(orders.Value(), p.window)
	previousOrders := ordersIn(orders.Value(), p.previous)
	attribution := report.Attribute(currentOrders, appointments.Value(), p.lookback)

	return &domain.SalesReport{
		Period: report.NewPeriodInfo(p.window, p.lookback),
		KPIs: []domain.KPICard{
			kpi("revenue", revenueValues, p),
			kpi("orders", orderValues, p),
			report.RatioKPICard("average_ticket", currentRevenue.Average, previousRevenue.Average),
			report.RatioKPICard("customers", float64(uniqueCustomers(currentOrders)), float64(uniqueCustomers(previousOrders))),
		},
		Series:       s.salesSeries(p.window, currentOrders),
		Attribution:  report.CategoryBreakdown(currentOrders, attribution, s.normalizer),
		Countries:    report.CountryBreakdown(currentOrders, s.normalizer),
		Breakdown:    report.GroupBy(s.inWindow(revenueValues, p.window), p.filters.Granularity),
		TopProducts:  report.TopProducts(currentOrders, s.normalizer, topProductsLimit),
		StoreRanking: report.RankStores(currentOrders, previousOrders, s.normalizer),
		Sources:      s.finish(ctx, ReportSales, started, orders, appointments),
	}, nil
}

func (s *Service) salesSeries(window domain.PeriodWindow, orders []*domain.Order) []domain.SalesDay {
	axis := report.DailyAxis(window)

	index := make(map[string]int, len(axis))
	series := make([]domain.SalesDay, len(axis))
	for i, key := range axis {
		series[i] = domain.SalesDay{Date: key}
		index[key] = i
	}

	for _, order := range orders {
		i, ok := index[s.dayKey(order.CreatedAt)]
		if !ok {
			continue
		}
		series[i].Orders++
		series[i].Revenue += s.normalizer.OrderRevenue(order)
	}

	for i := range series {
		series[i].Revenue = round(series[i].Revenue)
	}

	return series
}

func uniqueCustomers(orders []*domain.Order) int {
	customers := make(map[string]struct{}, len(orders))
	for _, order := range orders {
		if order.HasCustomer() {
			customers[domain.NormalizeEmail(order.CustomerEmail)] = struct{}{}
		}
	}
	return len(customers)
}
