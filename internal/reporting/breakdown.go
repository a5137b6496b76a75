package reporting

import (
	"fmt"
	"sort"
	"time"

	"github.com/vfg2006/retail-dashboard-api/internal/domain"
)

// BucketKey trunca a data na granularidade pedida. Semanas seguem a ISO 8601 (início na segunda).
func BucketKey(t time.Time, granularity domain.Granularity) string {
	switch granularity {
	case domain.GranularityWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case domain.GranularityMonth:
		return t.Format("2006-01")
	case domain.GranularityYear:
		return t.Format("2006")
	default:
		return t.Format(time.DateOnly)
	}
}

// GroupBy agrupa os registros por chave de data, em ordem crescente
func GroupBy(records []domain.DatedValue, granularity domain.Granularity) []domain.BreakdownRow {
	buckets := make(map[string]*domain.BreakdownRow)

	for _, record := range records {
		key := BucketKey(record.Date, granularity)

		row, ok := buckets[key]
		if !ok {
			row = &domain.BreakdownRow{Key: key}
			buckets[key] = row
		}

		row.Total += record.Value
		row.Count++
	}

	rows := make([]domain.BreakdownRow, 0, len(buckets))
	for _, row := range buckets {
		if row.Count > 0 {
			row.Average = row.Total / float64(row.Count)
		}
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Key < rows[j].Key
	})

	return rows
}
