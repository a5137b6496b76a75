package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vfg2006/retail-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/retail-dashboard-api/internal/config"
	"github.com/vfg2006/retail-dashboard-api/internal/domain"
	"github.com/vfg2006/retail-dashboard-api/internal/metrics"
	report "github.com/vfg2006/retail-dashboard-api/internal/reporting"
	"github.com/vfg2006/retail-dashboard-api/pkg/log"
)

const (
	ReportDashboard    = "dashboard"
	ReportSales        = "sales"
	ReportAds          = "ads"
	ReportAnalytics    = "analytics"
	ReportAppointments = "appointments"

	MaxLookbackDays      = 365
	DefaultMaxWindowDays = 731

	topProductsLimit = 10
	topPagesLimit    = 10
)

var ErrInvalidPeriod = errors.New("período inválido")

// Reporter monta os relatórios consumidos pelo dashboard
type Reporter interface {
	Dashboard(ctx context.Context, filters domain.ReportFilters) (*domain.DashboardReport, error)
	Sales(ctx context.Context, filters domain.ReportFilters) (*domain.SalesReport, error)
	Ads(ctx context.Context, filters domain.ReportFilters) (*domain.AdsReport, error)
	Analytics(ctx context.Context, filters domain.ReportFilters) (*domain.AnalyticsReport, error)
	Appointments(ctx context.Context, filters domain.ReportFilters) (*domain.AppointmentsReport, error)
}

type Service struct {
	orderRepo       repository.OrderRepository
	appointmentRepo repository.AppointmentRepository
	adSpendRepo     repository.AdSpendRepository
	analyticsRepo   repository.AnalyticsRepository
	normalizer      report.CurrencyNormalizer
	metrics         *metrics.Metrics

	defaultLookback int
	fetchTimeout    time.Duration
	historyDays     int
	maxWindowDays   int
	location        *time.Location
	now             func() time.Time
}

func NewService(
	cfg *config.Config,
	orderRepo repository.OrderRepository,
	appointmentRepo repository.AppointmentRepository,
	adSpendRepo repository.AdSpendRepository,
	analyticsRepo repository.AnalyticsRepository,
	m *metrics.Metrics,
) *Service {
	location := cfg.Report.Location
	if location == nil {
		location = time.UTC
	}

	maxWindowDays := cfg.Report.MaxWindowDays
	if maxWindowDays <= 0 {
		maxWindowDays = DefaultMaxWindowDays
	}

	return &Service{
		orderRepo:       orderRepo,
		appointmentRepo: appointmentRepo,
		adSpendRepo:     adSpendRepo,
		analyticsRepo:   analyticsRepo,
		normalizer:      report.NewCurrencyNormalizer(cfg.Report.MXNToEURRate),
		metrics:         m,
		defaultLookback: cfg.Report.AttributionLookbackDays,
		fetchTimeout:    cfg.Report.FetchTimeout,
		historyDays:     cfg.Report.HistoryDays,
		maxWindowDays:   maxWindowDays,
		location:        location,
		now:             time.Now,
	}
}

func (s *Service) Location() *time.Location {
	return s.location
}

// plan reúne as janelas usadas por um relatório
type plan struct {
	filters  domain.ReportFilters
	window   domain.PeriodWindow
	previous domain.PeriodWindow
	history  domain.PeriodWindow
	lookback int
}

func (s *Service) newPlan(filters domain.ReportFilters) (plan, error) {
	window := filters.Window
	if window.IsZero() || !window.Start.Before(window.End) {
		return plan{}, ErrInvalidPeriod
	}
	if days := window.Days(); days > s.maxWindowDays {
		return plan{}, fmt.Errorf("%w: %d dias excede o limite de %d", ErrInvalidPeriod, days, s.maxWindowDays)
	}

	lookback := filters.LookbackDays
	if lookback == 0 {
		lookback = s.defaultLookback
	}
	if lookback < 1 || lookback > MaxLookbackDays {
		return plan{}, report.ErrInvalidLookback
	}

	if filters.Granularity == "" {
		filters.Granularity = domain.GranularityDay
	}

	previous := window.Previous()

	// o histórico sempre cobre ao menos a janela anterior
	historyStart := window.Start.AddDate(0, 0, -s.historyDays)
	if previous.Start.Before(historyStart) {
		historyStart = previous.Start
	}

	return plan{
		filters:  filters,
		window:   window,
		previous: previous,
		history:  domain.PeriodWindow{Start: historyStart, End: window.End},
		lookback: lookback,
	}, nil
}

// withLookback estende o início da janela para trás pelos dias de atribuição
func (p plan) withLookback(window domain.PeriodWindow) domain.PeriodWindow {
	return domain.PeriodWindow{
		Start: window.Start.AddDate(0, 0, -p.lookback),
		End:   window.End,
	}
}

func (s *Service) fetchOrders(ctx context.Context, window domain.PeriodWindow, cities []string) report.SourceResult[[]*domain.Order] {
	return report.Fetch(ctx, report.SourceOrders, s.fetchTimeout, func(ctx context.Context) ([]*domain.Order, error) {
		return s.orderRepo.ListOrders(ctx, domain.OrderFilter{Window: window, Cities: cities})
	})
}

func (s *Service) fetchAppointments(ctx context.Context, window domain.PeriodWindow, cities []string, excludeCanceled bool) report.SourceResult[[]*domain.Appointment] {
	return report.Fetch(ctx, report.SourceAppointments, s.fetchTimeout, func(ctx context.Context) ([]*domain.Appointment, error) {
		return s.appointmentRepo.ListAppointments(ctx, domain.AppointmentFilter{
			Window:          window,
			ExcludeCanceled: excludeCanceled,
			Cities:          cities,
		})
	})
}

func (s *Service) fetchAdSpend(ctx context.Context, window domain.PeriodWindow, campaignIDs []string) report.SourceResult[[]*domain.AdSpendRecord] {
	return report.Fetch(ctx, report.SourceAds, s.fetchTimeout, func(ctx context.Context) ([]*domain.AdSpendRecord, error) {
		records, err := s.adSpendRepo.ListAdSpend(ctx, domain.AdSpendFilter{Window: window, CampaignIDs: campaignIDs})
		if err != nil {
			return nil, err
		}

		for _, record := range records {
			record.Date = s.localDate(record.Date)
		}
		return records, nil
	})
}

func (s *Service) fetchAnalytics(ctx context.Context, window domain.PeriodWindow) report.SourceResult[[]*domain.AnalyticsSnapshot] {
	return report.Fetch(ctx, report.SourceAnalytics, s.fetchTimeout, func(ctx context.Context) ([]*domain.AnalyticsSnapshot, error) {
		snapshots, err := s.analyticsRepo.ListSnapshots(ctx, domain.AnalyticsFilter{Window: window})
		if err != nil {
			return nil, err
		}

		for _, snapshot := range snapshots {
			snapshot.Date = s.localDate(snapshot.Date)
		}
		return snapshots, nil
	})
}

// localDate reinterpreta colunas DATE (lidas como meia-noite UTC) no fuso do relatório
func (s *Service) localDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.location)
}

// finish loga e contabiliza as fontes degradadas e devolve o mapa "sources"
func (s *Service) finish(ctx context.Context, name string, started time.Time, outcomes ...report.SourceOutcome) map[string]domain.SourceStatus {
	sources := report.Sources(outcomes...)

	for source, status := range sources {
		if status.OK {
			continue
		}

		log.ForContext(ctx).WithFields(log.Fields{
			"report": name,
			"source": source,
		}).Warnf("Fonte degradada para vazio: %s", status.Error)
		s.metrics.RecordSourceFailure(name, source)
	}

	s.metrics.RecordReport(name, s.now().Sub(started))

	return sources
}

// kpi monta o card com janela atual, anterior e média histórica
func kpi(key string, values []domain.DatedValue, p plan) domain.KPICard {
	return report.NewKPICard(
		key,
		report.Aggregate(values, p.window),
		report.Aggregate(values, p.previous),
		report.HistoricalAverage(values, p.history, p.window),
	)
}

// inWindow filtra os valores da janela já convertidos para o fuso do relatório
func (s *Service) inWindow(values []domain.DatedValue, window domain.PeriodWindow) []domain.DatedValue {
	filtered := make([]domain.DatedValue, 0, len(values))
	for _, value := range values {
		if window.Contains(value.Date) {
			filtered = append(filtered, domain.DatedValue{Date: value.Date.In(s.location), Value: value.Value})
		}
	}
	return filtered
}

func (s *Service) dayKey(t time.Time) string {
	return report.DayKey(t, s.location)
}

func ordersIn(orders []*domain.Order, window domain.PeriodWindow) []*domain.Order {
	filtered := make([]*domain.Order, 0, len(orders))
	for _, order := range orders {
		if order != nil && window.Contains(order.CreatedAt) {
			filtered = append(filtered, order)
		}
	}
	return filtered
}

func sumRevenue(orders []*domain.Order, normalizer report.CurrencyNormalizer) float64 {
	var total float64
	for _, order := range orders {
		total += normalizer.OrderRevenue(order)
	}
	return total
}
