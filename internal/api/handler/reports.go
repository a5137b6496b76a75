package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/retail-dashboard-api/internal/domain"
	report "github.com/vfg2006/retail-dashboard-api/internal/reporting"
	"github.com/vfg2006/retail-dashboard-api/internal/usecases/reporting"
	"github.com/vfg2006/retail-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/retail-dashboard-api/pkg/log"
	"github.com/vfg2006/retail-dashboard-api/pkg/middleware"
	"github.com/vfg2006/retail-dashboard-api/pkg/utils"
)

const (
	PresetToday      = "today"
	PresetYesterday  = "yesterday"
	PresetLast7Days  = "last7days"
	PresetLast30Days = "last30days"
	PresetLast90Days = "last90days"
	PresetThisMonth  = "thisMonth"
	PresetLastMonth  = "lastMonth"
	PresetThisYear   = "thisYear"

	defaultPreset = PresetLast30Days
)

var errInvalidQuery = errors.New("parâmetro inválido")

// ReportClock resolve os presets relativos ao dia atual no fuso dos relatórios.
// MaxWindowDays zerado usa o limite padrão do serviço.
type ReportClock struct {
	Location      *time.Location
	Now           func() time.Time
	MaxWindowDays int
}

func (c ReportClock) today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	location := c.Location
	if location == nil {
		location = time.UTC
	}
	return domain.TruncateDay(now().In(location))
}

func (c ReportClock) maxWindowDays() int {
	if c.MaxWindowDays <= 0 {
		return reporting.DefaultMaxWindowDays
	}
	return c.MaxWindowDays
}

func (c ReportClock) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// PresetWindow devolve a janela de um preset, com as datas inclusivas
func (c ReportClock) PresetWindow(preset string) (domain.PeriodWindow, error) {
	today := c.today()
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	var start, end time.Time
	switch preset {
	case PresetToday:
		start, end = today, today
	case PresetYesterday:
		start = today.AddDate(0, 0, -1)
		end = start
	case PresetLast7Days:
		start, end = today.AddDate(0, 0, -6), today
	case PresetLast30Days:
		start, end = today.AddDate(0, 0, -29), today
	case PresetLast90Days:
		start, end = today.AddDate(0, 0, -89), today
	case PresetThisMonth:
		start, end = firstOfMonth, today
	case PresetLastMonth:
		start = firstOfMonth.AddDate(0, -1, 0)
		end = firstOfMonth.AddDate(0, 0, -1)
	case PresetThisYear:
		start = time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
		end = today
	default:
		return domain.PeriodWindow{}, errors.Wrapf(errInvalidQuery, "preset desconhecido: %q", preset)
	}

	return domain.NewPeriodWindow(start, end)
}

// ParseReportFilters lê os filtros comuns a todos os relatórios a partir da query string
func ParseReportFilters(r *http.Request, clock ReportClock) (domain.ReportFilters, error) {
	query := r.URL.Query()
	filters := domain.ReportFilters{
		Cities:      splitCSV(query.Get("city")),
		CampaignIDs: splitCSV(query.Get("campaign")),
	}

	window, err := parseWindow(query.Get("startDate"), query.Get("endDate"), query.Get("preset"), clock)
	if err != nil {
		return domain.ReportFilters{}, err
	}
	filters.Window = window

	granularity, err := domain.ParseGranularity(query.Get("granularity"))
	if err != nil {
		return domain.ReportFilters{}, errors.Wrap(errInvalidQuery, err.Error())
	}
	filters.Granularity = granularity

	if raw := query.Get("lookbackDays"); raw != "" {
		lookback, err := strconv.Atoi(raw)
		if err != nil || lookback < 1 || lookback > reporting.MaxLookbackDays {
			return domain.ReportFilters{}, errors.Wrap(errInvalidQuery, report.ErrInvalidLookback.Error())
		}
		filters.LookbackDays = lookback
	}

	return filters, nil
}

func parseWindow(startRaw, endRaw, preset string, clock ReportClock) (domain.PeriodWindow, error) {
	if startRaw == "" && endRaw == "" {
		if preset == "" {
			preset = defaultPreset
		}
		return clock.PresetWindow(preset)
	}

	if startRaw == "" || endRaw == "" {
		return domain.PeriodWindow{}, errors.Wrap(errInvalidQuery, "startDate e endDate devem ser informados juntos")
	}

	startDate, err := utils.ParseDate(startRaw)
	if err != nil {
		return domain.PeriodWindow{}, errors.Wrapf(errInvalidQuery, "startDate inválido: %s", startRaw)
	}
	endDate, err := utils.ParseDate(endRaw)
	if err != nil {
		return domain.PeriodWindow{}, errors.Wrapf(errInvalidQuery, "endDate inválido: %s", endRaw)
	}

	location := clock.location()
	start := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, location)
	end := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, location)

	window, err := domain.NewPeriodWindow(start, end)
	if err != nil {
		return domain.PeriodWindow{}, errors.Wrap(errInvalidQuery, err.Error())
	}
	if days, limit := window.Days(), clock.maxWindowDays(); days > limit {
		return domain.PeriodWindow{}, errors.Wrapf(errInvalidQuery, "período de %d dias excede o limite de %d", days, limit)
	}
	return window, nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}

	var values []string
	for _, value := range strings.Split(raw, ",") {
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
	}
	return values
}

// scopeCities aplica as lojas vinculadas ao usuário. Sem cidade na query, o
// usuário restrito vê apenas as suas lojas.
func scopeCities(claims *domain.Claims, filters domain.ReportFilters) (domain.ReportFilters, error) {
	if !claims.HasStoreScope() {
		return filters, nil
	}

	if len(filters.Cities) == 0 {
		filters.Cities = append([]string(nil), claims.UserStores...)
		return filters, nil
	}

	for _, city := range filters.Cities {
		if !claims.CanAccessCity(city) {
			return filters, errors.Wrapf(report.ErrCityNotAllowed, "cidade %s", city)
		}
	}
	return filters, nil
}

func reportHandler[T any](name string, build func(context.Context, domain.ReportFilters) (T, error), clock ReportClock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context()).WithField("report", name)
		middleware.Annotate(w, "report", name)

		userClaims := middleware.ClaimsFromContext(r.Context())
		if userClaims == nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		filters, err := ParseReportFilters(r, clock)
		if err != nil {
			logger.WithFields(log.Fields{
				"query": r.URL.RawQuery,
				"error": err.Error(),
			}).Warn("reports: parâmetros inválidos")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		filters, err = scopeCities(userClaims, filters)
		if err != nil {
			logger.WithFields(log.Fields{
				"user_id": userClaims.UserID,
				"error":   err.Error(),
			}).Warn("reports: cidade fora das lojas vinculadas")
			apiErrors.WriteError(w, apiErrors.ErrStoreNotAllowed, err.Error(), map[string]any{"allowed": userClaims.UserStores})
			return
		}

		logger.WithFields(log.Fields{
			"start_date": filters.Window.Start.Format(time.DateOnly),
			"end_date":   filters.Window.LastDay().Format(time.DateOnly),
			"cities":     filters.Cities,
		}).Debug("reports: montando relatório")

		data, err := build(r.Context(), filters)
		if err != nil {
			logger.WithError(err).Error("reports: falha ao montar relatório")
			switch {
			case errors.Is(err, report.ErrInvalidLookback), errors.Is(err, reporting.ErrInvalidPeriod):
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			default:
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao montar relatório", nil)
			}
			return
		}

		apiErrors.WriteSuccess(w, http.StatusOK, data)
	}
}

func GetDashboardReport(service reporting.Reporter, clock ReportClock) http.HandlerFunc {
	return reportHandler(reporting.ReportDashboard, service.Dashboard, clock)
}

func GetSalesReport(service reporting.Reporter, clock ReportClock) http.HandlerFunc {
	return reportHandler(reporting.ReportSales, service.Sales, clock)
}

func GetAdsReport(service reporting.Reporter, clock ReportClock) http.HandlerFunc {
	return reportHandler(reporting.ReportAds, service.Ads, clock)
}

func GetAnalyticsReport(service reporting.Reporter, clock ReportClock) http.HandlerFunc {
	return reportHandler(reporting.ReportAnalytics, service.Analytics, clock)
}

func GetAppointmentsReport(service reporting.Reporter, clock ReportClock) http.HandlerFunc {
	return reportHandler(reporting.ReportAppointments, service.Appointments, clock)
}
