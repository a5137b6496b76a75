package domain

import (
	"sort"
	"time"
)

// AdSpendRecord representa o gasto diário de uma campanha do Meta
type AdSpendRecord struct {
	Date         time.Time `json:"date"`
	Spend        float64   `json:"spend"`
	Impressions  int       `json:"impressions"`
	Clicks       int       `json:"clicks"`
	CampaignID   string    `json:"campaign_id"`
	CampaignName string    `json:"campaign_name"`
}

type AdSpendFilter struct {
	Window      PeriodWindow
	CampaignIDs []string
}

// MergeAdSpend soma registros da mesma campanha no mesmo dia.
// O resultado é ordenado por data e depois por campanha.
func MergeAdSpend(records []*AdSpendRecord) []*AdSpendRecord {
	type key struct {
		date     string
		campaign string
	}

	merged := make(map[key]*AdSpendRecord, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}

		k := key{date: record.Date.Format(time.DateOnly), campaign: record.CampaignID}
		existing, ok := merged[k]
		if !ok {
			copied := *record
			merged[k] = &copied
			continue
		}

		existing.Spend += record.Spend
		existing.Impressions += record.Impressions
		existing.Clicks += record.Clicks
		if existing.CampaignName == "" {
			existing.CampaignName = record.CampaignName
		}
	}

	result := make([]*AdSpendRecord, 0, len(merged))
	for _, record := range merged {
		result = append(result, record)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].CampaignID < result[j].CampaignID
	})

	return result
}
