package metaclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	metadomain "github.com/vfg2006/retail-dashboard-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/retail-dashboard-api/pkg/log"
)

const (
	insightsFields = "account_id,campaign_id,campaign_name,spend,impressions,clicks"
	pageLimit      = 500
	maxPages       = 100
)

// GetDailyCampaignInsights devolve uma linha por campanha por dia no intervalo [since, until],
// seguindo a paginação até o fim
func (c *MetaClient) GetDailyCampaignInsights(ctx context.Context, accountID string, since, until time.Time) ([]metadomain.CampaignInsight, error) {
	if !strings.HasPrefix(accountID, "act_") {
		accountID = "act_" + accountID
	}

	timeRange := fmt.Sprintf("{\"since\":\"%s\",\"until\":\"%s\"}", since.Format(time.DateOnly), until.Format(time.DateOnly))

	params := url.Values{}
	params.Add("level", "campaign")
	params.Add("time_increment", "1")
	params.Add("fields", insightsFields)
	params.Add("time_range", timeRange)
	params.Add("limit", fmt.Sprint(pageLimit))
	params.Add("access_token", c.accessToken)

	next := fmt.Sprintf("%s/%s/insights?%s", strings.TrimRight(c.url, "/"), accountID, params.Encode())

	insights := make([]metadomain.CampaignInsight, 0)
	for page := 0; next != ""; page++ {
		if page >= maxPages {
			return nil, fmt.Errorf("meta: limite de %d páginas atingido para %s", maxPages, accountID)
		}

		body, err := c.get(ctx, next)
		if err != nil {
			return nil, err
		}

		var response metadomain.CampaignInsightsPage
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, fmt.Errorf("erro ao decodificar JSON: %w", err)
		}

		insights = append(insights, response.Data...)
		next = response.Paging.Next
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"account_id": accountID,
		"rows":       len(insights),
	}).Debug("meta: insights diários obtidos")

	return insights, nil
}
