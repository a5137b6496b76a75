package reporting

import (
	"github.com/vfg2006/retail-dashboard-api/internal/domain"
	"github.com/vfg2006/retail-dashboard-api/pkg/utils"
)

func round(value float64) float64 {
	return utils.RoundWithTwoDecimalPlace(value)
}

func adSpendValues(records []*domain.AdSpendRecord, value func(*domain.AdSpendRecord) float64) []domain.DatedValue {
	values := make([]domain.DatedValue, 0, len(records))
	for _, record := range records {
		if record != nil {
			values = append(values, domain.DatedValue{Date: record.Date, Value: value(record)})
		}
	}
	return values
}

func analyticsValues(snapshots []*domain.AnalyticsSnapshot, value func(*domain.AnalyticsSnapshot) float64) []domain.DatedValue {
	values := make([]domain.DatedValue, 0, len(snapshots))
	for _, snapshot := range snapshots {
		if snapshot != nil {
			values = append(values, domain.DatedValue{Date: snapshot.Date, Value: value(snapshot)})
		}
	}
	return values
}

func appointmentsIn(appointments []*domain.Appointment, window domain.PeriodWindow) []*domain.Appointment {
	filtered := make([]*domain.Appointment, 0, len(appointments))
	for _, appointment := range appointments {
		if appointment != nil && window.Contains(appointment.Datetime) {
			filtered = append(filtered, appointment)
		}
	}
	return filtered
}

func adSpendIn(records []*domain.AdSpendRecord, window domain.PeriodWindow) []*domain.AdSpendRecord {
	filtered := make([]*domain.AdSpendRecord, 0, len(records))
	for _, record := range records {
		if record != nil && window.Contains(record.Date) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

func snapshotsIn(snapshots []*domain.AnalyticsSnapshot, window domain.PeriodWindow) []*domain.AnalyticsSnapshot {
	filtered := make([]*domain.AnalyticsSnapshot, 0, len(snapshots))
	for _, snapshot := range snapshots {
		if snapshot != nil && window.Contains(snapshot.Date) {
			filtered = append(filtered, snapshot)
		}
	}
	return filtered
}
