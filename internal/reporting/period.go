package reporting

import (
	"github.com/vfg2006/retail-dashboard-api/internal/domain"
)

// Aggregate soma os registros que caem dentro da janela
func Aggregate(records []domain.DatedValue, window domain.PeriodWindow) domain.Aggregate {
	var result domain.Aggregate

	for _, record := range records {
		if !window.Contains(record.Date) {
			continue
		}

		result.Total += record.Value
		result.Count++
	}

	if result.Count > 0 {
		result.Average = result.Total / float64(result.Count)
	}

	return result
}

// Compare devolve nil quando a base não é positiva
func Compare(current, baseline domain.Aggregate) *domain.Comparison {
	if baseline.Total <= 0 {
		return nil
	}

	absolute := current.Total - baseline.Total

	return &domain.Comparison{
		AbsoluteChange: absolute,
		PercentChange:  absolute / baseline.Total * 100,
	}
}

// HistoricalAverage projeta a taxa diária do histórico consultado para a quantidade
// de dias da janela atual. O histórico vai de history.Start até current.Start e
// dias sem registro contam como zero.
func HistoricalAverage(records []domain.DatedValue, history, current domain.PeriodWindow) domain.Aggregate {
	base := domain.PeriodWindow{Start: history.Start, End: current.Start}

	span := base.Days()
	if span <= 0 {
		return domain.Aggregate{}
	}

	past := Aggregate(records, base)
	if past.Count == 0 {
		return domain.Aggregate{}
	}

	return domain.Aggregate{
		Total:   past.Total / float64(span) * float64(current.Days()),
		Count:   past.Count,
		Average: past.Average,
	}
}
