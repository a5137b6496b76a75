package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/retail-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/retail-dashboard-api/internal/domain"
)

const (
	adSpendTable     = "ad_spend"
	adSpendBatchSize = 500
)

type AdSpendRepository interface {
	ListAdSpend(ctx context.Context, filter domain.AdSpendFilter) ([]*domain.AdSpendRecord, error)
	UpsertDaily(ctx context.Context, records []*domain.AdSpendRecord) (int, error)
}

type adSpendRepository struct {
	conn postgres.Conn
}

func NewAdSpendRepository(conn *postgres.Connection) AdSpendRepository {
	return &adSpendRepository{
		conn: conn,
	}
}

func buildListAdSpendQuery(filter domain.AdSpendFilter) (string, []interface{}, error) {
	queryBuilder := squirrel.
		Select(
			"s.date",
			"s.spend",
			"s.impressions",
			"s.clicks",
			"s.campaign_id",
			"s.campaign_name",
		).
		From(adSpendTable + " s").
		OrderBy("s.date ASC", "s.campaign_id ASC").
		PlaceholderFormat(squirrel.Dollar)

	if !filter.Window.IsZero() {
		queryBuilder = queryBuilder.Where(squirrel.And{
			squirrel.GtOrEq{"s.date": filter.Window.Start.Format(time.DateOnly)},
			squirrel.Lt{"s.date": filter.Window.End.Format(time.DateOnly)},
		})
	}

	if len(filter.CampaignIDs) > 0 {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"s.campaign_id": filter.CampaignIDs})
	}

	return queryBuilder.ToSql()
}

// ListAdSpend devolve os registros já somados por (dia, campanha)
func (r *adSpendRepository) ListAdSpend(ctx context.Context, filter domain.AdSpendFilter) ([]*domain.AdSpendRecord, error) {
	sqlQuery, args, err := buildListAdSpendQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query de gasto em anúncios: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.AdSpendRecord, 0)
	for rows.Next() {
		var (
			record       domain.AdSpendRecord
			campaignName *string
		)

		if err := rows.Scan(
			&record.Date,
			&record.Spend,
			&record.Impressions,
			&record.Clicks,
			&record.CampaignID,
			&campaignName,
		); err != nil {
			return nil, fmt.Errorf("erro ao ler gasto em anúncios: %w", err)
		}

		record.CampaignName = derefString(campaignName)
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante iteração: %w", err)
	}

	return domain.MergeAdSpend(records), nil
}

func buildUpsertAdSpendQuery(records []*domain.AdSpendRecord) (string, []interface{}, error) {
	queryBuilder := squirrel.
		Insert(adSpendTable).
		Columns("date", "campaign_id", "campaign_name", "spend", "impressions", "clicks", "updated_at").
		Suffix(`ON CONFLICT (date, campaign_id) DO UPDATE SET
			campaign_name = EXCLUDED.campaign_name,
			spend = EXCLUDED.spend,
			impressions = EXCLUDED.impressions,
			clicks = EXCLUDED.clicks,
			updated_at = EXCLUDED.updated_at`).
		PlaceholderFormat(squirrel.Dollar)

	now := time.Now().UTC()
	for _, record := range records {
		queryBuilder = queryBuilder.Values(
			record.Date.Format(time.DateOnly),
			record.CampaignID,
			record.CampaignName,
			record.Spend,
			record.Impressions,
			record.Clicks,
			now,
		)
	}

	return queryBuilder.ToSql()
}

// UpsertDaily soma registros repetidos antes de gravar, já que o ON CONFLICT
// não aceita a mesma chave duas vezes no mesmo comando.
func (r *adSpendRepository) UpsertDaily(ctx context.Context, records []*domain.AdSpendRecord) (int, error) {
	merged := domain.MergeAdSpend(records)
	if len(merged) == 0 {
		return 0, nil
	}

	err := r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for start := 0; start < len(merged); start += adSpendBatchSize {
			end := start + adSpendBatchSize
			if end > len(merged) {
				end = len(merged)
			}

			sqlQuery, args, err := buildUpsertAdSpendQuery(merged[start:end])
			if err != nil {
				return fmt.Errorf("erro ao construir a query: %w", err)
			}

			if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
				return fmt.Errorf("erro ao gravar gasto em anúncios: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(merged), nil
}
