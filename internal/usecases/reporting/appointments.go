package reporting

import (
	"context"
	"time"

	"github.com/vfg2006/retail-dashboard-api/internal/domain"
	report "github.com/vfg2006/retail-dashboard-api/internal/reporting"
	"golang.org/x/sync/errgroup"
)

// Appointments mostra a ocupação por categoria e a conversão das citas em pedidos.
// As citas canceladas são buscadas para serem contadas à parte.
func (s *Service) Appointments(ctx context.Context, filters domain.ReportFilters) (*domain.AppointmentsReport, error) {
	started := s.now()

	p, err := s.newPlan(filters)
	if err != nil {
		return nil, err
	}

	ordersWindow := domain.PeriodWindow{Start: p.previous.Start, End: p.window.End}
	appointmentsWindow := p.history
	if lookbackWindow := p.withLookback(ordersWindow); lookbackWindow.Start.Before(appointmentsWindow.Start) {
		appointmentsWindow.Start = lookbackWindow.Start
	}

	var (
		appointments report.SourceResult[[]*domain.Appointment]
		orders       report.SourceResult[[]*domain.Order]
	)

	var g errgroup.Group
	g.Go(func() error {
		appointments = s.fetchAppointments(ctx, appointmentsWindow, p.filters.Cities, false)
		return nil
	})
	g.Go(func() error {
		orders = s.fetchOrders(ctx, ordersWindow, p.filters.Cities)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all := appointments.Value()
	activeValues := report.CountValues(report.ActiveAppointmentDates(all))
	canceledValues := report.CountValues(canceledAppointmentDates(all))

	currentOrders := ordersIn(orders.Value(), p.window)
	previousOrders := ordersIn(orders.Value(), p.previous)

	categories := s.appointmentCategories(
		appointmentsIn(all, p.window),
		currentOrders,
		report.Attribute(currentOrders, all, p.lookback),
	)
	previousCategories := s.appointmentCategories(
		appointmentsIn(all, p.previous),
		previousOrders,
		report.Attribute(previousOrders, all, p.lookback),
	)

	current := summarizeConversion(categories)
	previous := summarizeConversion(previousCategories)

	return &domain.AppointmentsReport{
		Period: report.NewPeriodInfo(p.window, p.lookback),
		KPIs: []domain.KPICard{
			kpi("appointments", activeValues, p),
			kpi("canceled", canceledValues, p),
			report.RatioKPICard("converted_orders", float64(current.converted), float64(previous.converted)),
			report.RatioKPICard("attributed_revenue", current.revenue, previous.revenue),
			report.RatioKPICard("conversion_rate", current.rate, previous.rate),
		},
		Series:     s.appointmentsSeries(p.window, appointmentsIn(all, p.window)),
		Categories: categories,
		Sources:    s.finish(ctx, ReportAppointments, started, appointments, orders),
	}, nil
}

func canceledAppointmentDates(appointments []*domain.Appointment) []time.Time {
	dates := make([]time.Time, 0)
	for _, appointment := range appointments {
		if appointment != nil && appointment.IsCanceled() {
			dates = append(dates, appointment.Datetime)
		}
	}
	return dates
}

// appointmentCategories cruza as citas da janela com os pedidos atribuídos a cada categoria.
// A taxa de conversão fica null quando a categoria não teve citas ativas.
func (s *Service) appointmentCategories(appointments []*domain.Appointment, orders []*domain.Order, attribution report.Attribution) []domain.AppointmentCategoryRow {
	rows := make(map[domain.Category]*domain.AppointmentCategoryRow, len(domain.Categories))
	for _, category := range domain.Categories {
		rows[category] = &domain.AppointmentCategoryRow{Category: category.Label()}
	}

	for _, appointment := range appointments {
		category, ok := domain.ParseCategory(appointment.Category)
		if !ok {
			continue
		}

		if appointment.IsCanceled() {
			rows[category].Canceled++
			continue
		}
		rows[category].Appointments++
	}

	for _, order := range orders {
		row, ok := rows[attribution.CategoryOf(order.ID)]
		if !ok {
			continue
		}
		row.ConvertedOrders++
		row.Revenue += s.normalizer.OrderRevenue(order)
	}

	result := make([]domain.AppointmentCategoryRow, 0, len(domain.Categories))
	for _, category := range domain.Categories {
		row := rows[category]
		row.Revenue = round(row.Revenue)
		if row.Appointments > 0 {
			rate := round(float64(row.ConvertedOrders) / float64(row.Appointments) * 100)
			row.ConversionRate = &rate
		}
		result = append(result, *row)
	}

	return result
}

type conversionSummary struct {
	appointments int
	converted    int
	revenue      float64
	rate         float64
}

func summarizeConversion(rows []domain.AppointmentCategoryRow) conversionSummary {
	var summary conversionSummary
	for _, row := range rows {
		summary.appointments += row.Appointments
		summary.converted += row.ConvertedOrders
		summary.revenue += row.Revenue
	}

	summary.rate = report.SafeDivide(float64(summary.converted), float64(summary.appointments)) * 100
	return summary
}

func (s *Service) appointmentsSeries(window domain.PeriodWindow, appointments []*domain.Appointment) []domain.AppointmentsDay {
	axis := report.DailyAxis(window)

	index := make(map[string]int, len(axis))
	series := make([]domain.AppointmentsDay, len(axis))
	for i, key := range axis {
		series[i] = domain.AppointmentsDay{Date: key}
		index[key] = i
	}

	for _, appointment := range appointments {
		if appointment.IsCanceled() {
			continue
		}

		i, ok := index[s.dayKey(appointment.Datetime)]
		if !ok {
			continue
		}

		switch category, _ := domain.ParseCategory(appointment.Category); category {
		case domain.CategoryMedicion:
			series[i].Medicion++
		case domain.CategoryFitting:
			series[i].Fitting++
		}
		series[i].Total++
	}

	return series
}
