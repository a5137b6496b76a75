package metadomain

type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Paging struct {
	Cursors Cursors `json:"cursors"`
	Next    string  `json:"next"`
}

// CampaignInsight é uma linha de /act_{id}/insights com level=campaign e time_increment=1.
// A Graph API devolve os números como string.
type CampaignInsight struct {
	AccountID    string `json:"account_id"`
	CampaignID   string `json:"campaign_id"`
	CampaignName string `json:"campaign_name"`
	Clicks       string `json:"clicks"`
	DateStart    string `json:"date_start"`
	DateStop     string `json:"date_stop"`
	Impressions  string `json:"impressions"`
	Spend        string `json:"spend"`
}

type CampaignInsightsPage struct {
	Data   []CampaignInsight `json:"data"`
	Paging Paging            `json:"paging"`
}
