package reporting

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/retail-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/retail-dashboard-api/internal/config"
	"github.com/vfg2006/retail-dashboard-api/internal/domain"
	"github.com/vfg2006/retail-dashboard-api/internal/metrics"
	report "github.com/vfg2006/retail-dashboard-api/internal/reporting"
	"go.uber.org/mock/gomock"
)

type testRepos struct {
	orders       *mocks.MockOrderRepository
	appointments *mocks.MockAppointmentRepository
	adSpend      *mocks.MockAdSpendRepository
	analytics    *mocks.MockAnalyticsRepository
}

func newTestService(t *testing.T, location *time.Location) (*Service, testRepos, *metrics.Metrics) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repos := testRepos{
		orders:       mocks.NewMockOrderRepository(ctrl),
		appointments: mocks.NewMockAppointmentRepository(ctrl),
		adSpend:      mocks.NewMockAdSpendRepository(ctrl),
		analytics:    mocks.NewMockAnalyticsRepository(ctrl),
	}

	registry := prometheus.NewRegistry()
	m := metrics.NewMetricsWithRegistry("test", registry, registry)

	cfg := &config.Config{
		Report: config.Report{
			AttributionLookbackDays: 30,
			MXNToEURRate:            0.05,
			FetchTimeout:            time.Second,
			HistoryDays:             30,
			Location:                location,
		},
	}

	service := NewService(cfg, repos.orders, repos.appointments, repos.adSpend, repos.analytics, m)
	return service, repos, m
}

func marchWindow(t *testing.T, location *time.Location) domain.PeriodWindow {
	t.Helper()
	window, err := domain.NewPeriodWindow(
		time.Date(2024, 3, 1, 0, 0, 0, 0, location),
		time.Date(2024, 3, 10, 0, 0, 0, 0, location),
	)
	require.NoError(t, err)
	return window
}

func at(day, hour int) time.Time {
	return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC)
}

func findKPI(t *testing.T, kpis []domain.KPICard, key string) domain.KPICard {
	t.Helper()
	for _, card := range kpis {
		if card.Key == key {
			return card
		}
	}
	require.Failf(t, "kpi não encontrado", "key=%s", key)
	return domain.KPICard{}
}

func TestService_Dashboard(t *testing.T) {
	service, repos, m := newTestService(t, time.UTC)
	window := marchWindow(t, time.UTC)

	orders := []*domain.Order{
		{ID: "o1", CustomerEmail: "A@x.com", TotalPrice: 100, CurrencyCountry: "ES", City: "Madrid", CreatedAt: at(2, 10)},
		{ID: "o2", TotalPrice: 1000, CurrencyCountry: "MX", City: "CDMX", CreatedAt: at(5, 12)},
		{ID: "o3", CustomerEmail: "b@x.com", TotalPrice: 75, CurrencyCountry: "ES", City: "Madrid", CreatedAt: time.Date(2024, 2, 25, 10, 0, 0, 0, time.UTC)},
	}
	appointments := []*domain.Appointment{
		{ID: "a1", CustomerEmail: "a@x.com", Category: "Medición", Datetime: at(1, 9), Status: domain.AppointmentStatusBooked},
	}

	repos.orders.EXPECT().ListOrders(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
			assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), filter.Window.Start)
			assert.Equal(t, window.End, filter.Window.End)
			return orders, nil
		})
	repos.appointments.EXPECT().ListAppointments(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
			assert.True(t, filter.ExcludeCanceled)
			assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), filter.Window.Start)
			return appointments, nil
		})
	repos.adSpend.EXPECT().ListAdSpend(gomock.Any(), gomock.Any()).Return([]*domain.AdSpendRecord{
		{Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), CampaignID: "c1", Spend: 30},
	}, nil)
	repos.analytics.EXPECT().ListSnapshots(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	result, err := service.Dashboard(context.Background(), domain.ReportFilters{Window: window})
	require.NoError(t, err)

	assert.True(t, result.Sources[report.SourceOrders].OK)
	assert.True(t, result.Sources[report.SourceAppointments].OK)
	assert.True(t, result.Sources[report.SourceAds].OK)
	assert.False(t, result.Sources[report.SourceAnalytics].OK)
	assert.Contains(t, result.Sources[report.SourceAnalytics].Error, "connection refused")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SourceFailures.WithLabelValues(ReportDashboard, report.SourceAnalytics)))

	revenue := findKPI(t, result.KPIs, "revenue")
	assert.InDelta(t, 150, revenue.Value, 0.001)
	assert.InDelta(t, 75, revenue.Previous, 0.001)
	require.NotNil(t, revenue.VsPrevious)
	assert.InDelta(t, 100, revenue.VsPrevious.PercentChange, 0.001)
	// histórico de 30 dias (31/01 a 29/02) com um único pedido de 75 => 25 em 10 dias
	assert.InDelta(t, 25, revenue.HistoricalAverage, 0.001)
	require.NotNil(t, revenue.VsHistorical)
	assert.InDelta(t, 500, revenue.VsHistorical.PercentChange, 0.001)

	sessions := findKPI(t, result.KPIs, "sessions")
	assert.Zero(t, sessions.Value)
	assert.Nil(t, sessions.VsPrevious)
	assert.Nil(t, sessions.VsHistorical)

	require.NotNil(t, result.ROAS)
	assert.InDelta(t, 5, *result.ROAS, 0.001)

	require.Len(t, result.Series, 10)
	assert.Equal(t, "2024-03-01", result.Series[0].Date)
	assert.Equal(t, 1, result.Series[0].Appointments)
	assert.InDelta(t, 100, result.Series[1].Revenue, 0.001)
	assert.InDelta(t, 30, result.Series[1].AdSpend, 0.001)
	assert.InDelta(t, 50, result.Series[4].Revenue, 0.001)
	assert.Equal(t, "2024-03-10", result.Series[9].Date)

	require.Len(t, result.Attribution, 3)
	assert.Equal(t, "medición", result.Attribution[0].Category)
	assert.Equal(t, 1, result.Attribution[0].Orders)
	assert.Equal(t, "none", result.Attribution[2].Category)
	assert.Equal(t, 1, result.Attribution[2].Orders)
	assert.InDelta(t, 50, result.Attribution[2].Revenue, 0.001)

	assert.Equal(t, "2024-03-01", result.Period.StartDate)
	assert.Equal(t, "2024-03-10", result.Period.EndDate)
	assert.Equal(t, "2024-02-20", result.Period.PreviousStartDate)
	assert.Equal(t, 30, result.Period.LookbackDays)
}

func TestService_Dashboard_AllSourcesFail(t *testing.T) {
	service, repos, _ := newTestService(t, time.UTC)

	repos.orders.EXPECT().ListOrders(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
	repos.appointments.EXPECT().ListAppointments(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
	repos.adSpend.EXPECT().ListAdSpend(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
	repos.analytics.EXPECT().ListSnapshots(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

	result, err := service.Dashboard(context.Background(), domain.ReportFilters{Window: marchWindow(t, time.UTC)})
	require.NoError(t, err)

	for _, status := range result.Sources {
		assert.False(t, status.OK)
	}
	assert.Nil(t, result.ROAS)
	assert.Len(t, result.Series, 10)
	for _, card := range result.KPIs {
		assert.Zero(t, card.Value)
		assert.Nil(t, card.VsPrevious)
	}
}

func TestService_Ads_SourceTimeout(t *testing.T) {
	service, repos, _ := newTestService(t, time.UTC)
	service.fetchTimeout = 20 * time.Millisecond

	repos.adSpend.EXPECT().ListAdSpend(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ domain.AdSpendFilter) ([]*domain.AdSpendRecord, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})
	repos.orders.EXPECT().ListOrders(gomock.Any(), gomock.Any()).Return([]*domain.Order{
		{ID: "o1", TotalPrice: 100, CurrencyCountry: "ES", CreatedAt: at(2, 10)},
	}, nil)

	result, err := service.Ads(context.Background(), domain.ReportFilters{Window: marchWindow(t, time.UTC)})
	require.NoError(t, err)

	assert.False(t, result.Sources[report.SourceAds].OK)
	assert.Contains(t, result.Sources[report.SourceAds].Error, context.DeadlineExceeded.Error())
	assert.True(t, result.Sources[report.SourceOrders].OK)
	assert.Nil(t, result.ROAS)
	assert.Empty(t, result.Campaigns)
	assert.Len(t, result.Series, 10)
}

func TestService_Ads(t *testing.T) {
	service, repos, _ := newTestService(t, time.UTC)

	repos.adSpend.EXPECT().ListAdSpend(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, filter domain.AdSpendFilter) ([]*domain.AdSpendRecord, error) {
			assert.Equal(t, []string{"c1", "c2"}, filter.CampaignIDs)
			return []*domain.AdSpendRecord{
				{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), CampaignID: "c1", CampaignName: "Primavera", Spend: 40, Impressions: 1000, Clicks: 20},
				{Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), CampaignID: "c2", CampaignName: "Bodas", Spend: 60, Impressions: 3000, Clicks: 30},
				{Date: time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC), CampaignID: "c1", CampaignName: "Primavera", Spend: 50, Impressions: 1000, Clicks: 10},
			}, nil
		})
	repos.orders.EXPECT().ListOrders(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

	result, err := service.Ads(context.Background(), domain.ReportFilters{
		Window:      marchWindow(t, time.UTC),
		CampaignIDs: []string{"c1", "c2"},
		Granularity: domain.GranularityWeek,
	})
	require.NoError(t, err)

	assert.Nil(t, result.ROAS, "sem pedidos o ROAS não pode ser calculado")

	spend := findKPI(t, result.KPIs, "spend")
	assert.InDelta(t, 100, spend.Value, 0.001)
	assert.InDelta(t, 50, spend.Previous, 0.001)

	ctr := findKPI(t, result.KPIs, "ctr")
	assert.InDelta(t, 1.25, ctr.Value, 0.001)
	assert.InDelta(t, 1, ctr.Previous, 0.001)

	cpc := findKPI(t, result.KPIs, "cpc")
	assert.InDelta(t, 2, cpc.Value, 0.001)
	assert.InDelta(t, 5, cpc.Previous, 0.001)

	require.Len(t, result.Campaigns, 2)
	assert.Equal(t, "c2", result.Campaigns[0].CampaignID)
	assert.Equal(t, "Bodas", result.Campaigns[0].CampaignName)
	assert.InDelta(t, 1, result.Campaigns[0].CTR, 0.001)
	assert.InDelta(t, 2, result.Campaigns[0].CPC, 0.001)

	require.Len(t, result.Breakdown, 1)
	assert.Equal(t, "2024-W09", result.Breakdown[0].Key)
	assert.InDelta(t, 100, result.Breakdown[0].Total, 0.001)
}

func TestService_Sales_AppointmentsDegraded(t *testing.T) {
	service, repos, _ := newTestService(t, time.UTC)

	repos.orders.EXPECT().ListOrders(gomock.Any(), gomock.Any()).Return([]*domain.Order{
		{ID: "o1", CustomerEmail: "a@x.com", TotalPrice: 100, CurrencyCountry: "ES", City: "Madrid", CreatedAt: at(2, 10),
			LineItems: []domain.LineItem{{Title: "Traje", Quantity: 1, Price: 100}}},
		{ID: "o2", CustomerEmail: "b@x.com", TotalPrice: 4000, CurrencyCountry: "MX", City: "CDMX", CreatedAt: at(3, 10),
			LineItems: []domain.LineItem{{Title: "Camisa", Quantity: 2, Price: 2000}}},
		{ID: "o3", CustomerEmail: "c@x.com", TotalPrice: 300, CurrencyCountry: "MX", City: "CDMX", CreatedAt: time.Date(2024, 2, 25, 10, 0, 0, 0, time.UTC)},
		{ID: "o4", CustomerEmail: "d@x.com", TotalPrice: 50, CurrencyCountry: "ES", City: "Madrid", CreatedAt: time.Date(2024, 2, 26, 10, 0, 0, 0, time.UTC)},
	}, nil)
	repos.appointments.EXPECT().ListAppointments(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
			assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), filter.Window.Start)
			return nil, errors.New("acuity indisponível")
		})

	result, err := service.Sales(context.Background(), domain.ReportFilters{Window: marchWindow(t, time.UTC)})
	require.NoError(t, err)

	assert.False(t, result.Sources[report.SourceAppointments].OK)

	require.Len(t, result.Attribution, 3)
	assert.Zero(t, result.Attribution[0].Orders)
	assert.Zero(t, result.Attribution[1].Orders)
	assert.Equal(t, 2, result.Attribution[2].Orders)
	assert.InDelta(t, 100, result.Attribution[2].Share, 0.001)

	require.Len(t, result.Countries, 2)
	assert.Equal(t, "CDMX", result.StoreRanking[0].City)
	assert.Equal(t, 1, result.StoreRanking[0].Position)
	assert.Equal(t, 2, result.StoreRanking[0].PreviousPosition)
	assert.Equal(t, 1, result.StoreRanking[0].PositionChange)

	require.Len(t, result.TopProducts, 2)
	assert.Equal(t, "Camisa", result.TopProducts[0].Title)
	assert.InDelta(t, 200, result.TopProducts[0].Revenue, 0.001)

	customers := findKPI(t, result.KPIs, "customers")
	assert.Equal(t, float64(2), customers.Value)
}

func TestService_Sales_SparseHistory(t *testing.T) {
	service, repos, _ := newTestService(t, time.UTC)

	window, err := domain.NewPeriodWindow(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// o histórico consultado começa em 31/01, mas só existe venda em 29/02
	repos.orders.EXPECT().ListOrders(gomock.Any(), gomock.Any()).Return([]*domain.Order{
		{ID: "o1", TotalPrice: 100, CurrencyCountry: "ES", City: "Madrid", CreatedAt: time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC)},
		{ID: "o2", TotalPrice: 100, CurrencyCountry: "ES", City: "Madrid", CreatedAt: at(3, 10)},
	}, nil)
	repos.appointments.EXPECT().ListAppointments(gomock.Any(), gomock.Any()).Return(nil, nil)

	result, err := service.Sales(context.Background(), domain.ReportFilters{Window: window})
	require.NoError(t, err)

	revenue := findKPI(t, result.KPIs, "revenue")
	assert.InDelta(t, 100, revenue.Value, 0.001)
	assert.InDelta(t, 100, revenue.HistoricalAverage, 0.001)
	require.NotNil(t, revenue.VsHistorical)
	assert.InDelta(t, 0, revenue.VsHistorical.PercentChange, 0.001)
}

func TestService_Appointments(t *testing.T) {
	service, repos, _ := newTestService(t, time.UTC)

	repos.appointments.EXPECT().ListAppointments(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
			assert.False(t, filter.ExcludeCanceled)
			return []*domain.Appointment{
				{ID: "1", CustomerEmail: "a@x.com", Category: "medición", Datetime: at(1, 9), Status: domain.AppointmentStatusBooked},
				{ID: "2", CustomerEmail: "b@x.com", Category: "medicion", Datetime: at(2, 9), Status: domain.AppointmentStatusBooked},
				{ID: "3", CustomerEmail: "c@x.com", Category: "fitting", Datetime: at(2, 11), Status: domain.AppointmentStatusCanceled},
				{ID: "4", CustomerEmail: "d@x.com", Category: "fitting", Datetime: at(3, 11), Status: domain.AppointmentStatusRescheduled},
			}, nil
		})
	repos.orders.EXPECT().ListOrders(gomock.Any(), gomock.Any()).Return([]*domain.Order{
		{ID: "o1", CustomerEmail: "a@x.com", TotalPrice: 100, CurrencyCountry: "ES", CreatedAt: at(4, 10)},
		{ID: "o2", CustomerEmail: "c@x.com", TotalPrice: 100, CurrencyCountry: "ES", CreatedAt: at(4, 10)},
	}, nil)

	result, err := service.Appointments(context.Background(), domain.ReportFilters{Window: marchWindow(t, time.UTC)})
	require.NoError(t, err)

	require.Len(t, result.Categories, 2)

	medicion := result.Categories[0]
	assert.Equal(t, "medición", medicion.Category)
	assert.Equal(t, 2, medicion.Appointments)
	assert.Equal(t, 1, medicion.ConvertedOrders)
	require.NotNil(t, medicion.ConversionRate)
	assert.InDelta(t, 50, *medicion.ConversionRate, 0.001)

	fitting := result.Categories[1]
	assert.Equal(t, 1, fitting.Appointments)
	assert.Equal(t, 1, fitting.Canceled)
	assert.Zero(t, fitting.ConvertedOrders, "cita cancelada não atribui pedido")
	require.NotNil(t, fitting.ConversionRate)
	assert.Zero(t, *fitting.ConversionRate)

	appointments := findKPI(t, result.KPIs, "appointments")
	assert.Equal(t, float64(3), appointments.Value)
	canceled := findKPI(t, result.KPIs, "canceled")
	assert.Equal(t, float64(1), canceled.Value)

	require.Len(t, result.Series, 10)
	assert.Equal(t, 1, result.Series[0].Medicion)
	assert.Equal(t, 1, result.Series[1].Total)
	assert.Equal(t, 1, result.Series[2].Fitting)
}

func TestService_Analytics(t *testing.T) {
	service, repos, _ := newTestService(t, time.UTC)

	repos.analytics.EXPECT().ListSnapshots(gomock.Any(), gomock.Any()).Return([]*domain.AnalyticsSnapshot{
		{
			Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Sessions: 100, Users: 80, PageViews: 300, BounceRate: 40,
			TrafficSources: []domain.TrafficSource{{Source: "google", Medium: "organic", Sessions: 60}, {Source: "instagram", Medium: "social", Sessions: 40}},
			TopPages:       []domain.PageStat{{Path: "/trajes", PageViews: 120}},
		},
		{
			Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Sessions: 300, Users: 200, PageViews: 600, BounceRate: 60,
			TrafficSources: []domain.TrafficSource{{Source: "Google", Medium: "Organic", Sessions: 100}},
			TopPages:       []domain.PageStat{{Path: "/trajes", PageViews: 80}, {Path: "/citas", PageViews: 150}},
		},
	}, nil)

	result, err := service.Analytics(context.Background(), domain.ReportFilters{Window: marchWindow(t, time.UTC)})
	require.NoError(t, err)

	sessions := findKPI(t, result.KPIs, "sessions")
	assert.Equal(t, float64(400), sessions.Value)
	assert.Nil(t, sessions.VsPrevious)

	bounce := findKPI(t, result.KPIs, "bounce_rate")
	assert.InDelta(t, 55, bounce.Value, 0.001)

	require.Len(t, result.TrafficSources, 2)
	assert.Equal(t, "google", result.TrafficSources[0].Source)
	assert.Equal(t, 160, result.TrafficSources[0].Sessions)

	require.Len(t, result.TopPages, 2)
	assert.Equal(t, "/trajes", result.TopPages[0].Path)
	assert.Equal(t, 200, result.TopPages[0].PageViews)

	assert.Len(t, result.Series, 10)
	assert.InDelta(t, 60, result.Series[1].Bounce, 0.001)
}

func TestService_DateColumnsUseReportTimezone(t *testing.T) {
	location, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)

	service, repos, _ := newTestService(t, location)

	repos.analytics.EXPECT().ListSnapshots(gomock.Any(), gomock.Any()).Return([]*domain.AnalyticsSnapshot{
		{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Sessions: 10},
	}, nil)

	result, err := service.Analytics(context.Background(), domain.ReportFilters{Window: marchWindow(t, location)})
	require.NoError(t, err)

	require.Len(t, result.Series, 10)
	assert.Equal(t, "2024-03-01", result.Series[0].Date)
	assert.Equal(t, 10, result.Series[0].Sessions)
}

func TestService_InvalidFilters(t *testing.T) {
	service, _, _ := newTestService(t, time.UTC)
	ctx := context.Background()

	_, err := service.Sales(ctx, domain.ReportFilters{})
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = service.Dashboard(ctx, domain.ReportFilters{Window: marchWindow(t, time.UTC), LookbackDays: 366})
	assert.ErrorIs(t, err, report.ErrInvalidLookback)

	_, err = service.Appointments(ctx, domain.ReportFilters{Window: marchWindow(t, time.UTC), LookbackDays: -1})
	assert.ErrorIs(t, err, report.ErrInvalidLookback)

	tooLong := domain.PeriodWindow{
		Start: time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	_, err = service.Sales(ctx, domain.ReportFilters{Window: tooLong})
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestService_CanceledRequest(t *testing.T) {
	service, repos, _ := newTestService(t, time.UTC)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repos.analytics.EXPECT().ListSnapshots(gomock.Any(), gomock.Any()).Return(nil, context.Canceled)

	_, err := service.Analytics(ctx, domain.ReportFilters{Window: marchWindow(t, time.UTC)})
	assert.ErrorIs(t, err, context.Canceled)
}
