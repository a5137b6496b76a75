package meta

import (
	"context"
	"fmt"
	"strconv"
	"time"

	metadomain "github.com/vfg2006/retail-dashboard-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/retail-dashboard-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/retail-dashboard-api/internal/config"
	"github.com/vfg2006/retail-dashboard-api/internal/domain"
	"github.com/vfg2006/retail-dashboard-api/pkg/log"
	"github.com/vfg2006/retail-dashboard-api/pkg/utils"
)

// Integrator é o contrato usado pela ingestão de gasto em anúncios
type Integrator interface {
	GetDailyAdSpend(ctx context.Context, since, until time.Time) ([]*domain.AdSpendRecord, error)
}

type MetaIntegrator struct {
	accountIDs []string
	location   *time.Location
	Client     metaclient.Client
}

func New(cfg *config.Config, client metaclient.Client) *MetaIntegrator {
	location := cfg.Report.Location
	if location == nil {
		location = time.UTC
	}

	return &MetaIntegrator{
		accountIDs: cfg.Meta.AdAccountIDs,
		location:   location,
		Client:     client,
	}
}

// GetDailyAdSpend busca o gasto diário por campanha de todas as contas configuradas.
// Linhas da mesma campanha no mesmo dia são somadas. Só falha quando nenhuma conta responde.
func (s *MetaIntegrator) GetDailyAdSpend(ctx context.Context, since, until time.Time) ([]*domain.AdSpendRecord, error) {
	logger := log.ForContext(ctx)

	if len(s.accountIDs) == 0 {
		logger.Warn("meta: nenhuma conta de anúncios configurada")
		return []*domain.AdSpendRecord{}, nil
	}

	records := make([]*domain.AdSpendRecord, 0)
	var lastErr error
	failed := 0

	for _, accountID := range s.accountIDs {
		insights, err := s.Client.GetDailyCampaignInsights(ctx, accountID, since, until)
		if err != nil {
			logger.WithFields(log.Fields{
				"account_id": accountID,
				"error":      err.Error(),
			}).Error("meta: falha ao obter insights da conta")
			lastErr = err
			failed++
			continue
		}

		for i := range insights {
			record, err := s.factoryAdSpendRecord(&insights[i])
			if err != nil {
				logger.WithFields(log.Fields{
					"account_id":  accountID,
					"campaign_id": insights[i].CampaignID,
					"error":       err.Error(),
				}).Warn("meta: linha de insight ignorada")
				continue
			}
			records = append(records, record)
		}
	}

	if failed == len(s.accountIDs) {
		return nil, fmt.Errorf("meta: todas as contas falharam: %w", lastErr)
	}

	return domain.MergeAdSpend(records), nil
}

func (s *MetaIntegrator) factoryAdSpendRecord(insight *metadomain.CampaignInsight) (*domain.AdSpendRecord, error) {
	if insight.CampaignID == "" {
		return nil, fmt.Errorf("campaign_id vazio")
	}

	date, err := time.ParseInLocation(time.DateOnly, insight.DateStart, s.location)
	if err != nil {
		return nil, fmt.Errorf("date_start inválido %q: %w", insight.DateStart, err)
	}

	spend, err := parseFloat(insight.Spend)
	if err != nil {
		return nil, fmt.Errorf("spend inválido %q: %w", insight.Spend, err)
	}

	impressions, err := parseInt(insight.Impressions)
	if err != nil {
		return nil, fmt.Errorf("impressions inválido %q: %w", insight.Impressions, err)
	}

	clicks, err := parseInt(insight.Clicks)
	if err != nil {
		return nil, fmt.Errorf("clicks inválido %q: %w", insight.Clicks, err)
	}

	return &domain.AdSpendRecord{
		Date:         date,
		Spend:        utils.RoundWithTwoDecimalPlace(spend),
		Impressions:  impressions,
		Clicks:       clicks,
		CampaignID:   insight.CampaignID,
		CampaignName: insight.CampaignName,
	}, nil
}

// a Graph API omite métricas zeradas
func parseFloat(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func parseInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
