package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/retail-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/retail-dashboard-api/internal/domain"
	"github.com/vfg2006/retail-dashboard-api/pkg/log"
)

const (
	analyticsSnapshotsTable = "analytics_snapshots gs"
)

type AnalyticsRepository interface {
	ListSnapshots(ctx context.Context, filter domain.AnalyticsFilter) ([]*domain.AnalyticsSnapshot, error)
}

type analyticsRepository struct {
	conn postgres.Queryer
}

func NewAnalyticsRepository(conn *postgres.Connection) AnalyticsRepository {
	return &analyticsRepository{
		conn: conn,
	}
}

func buildListSnapshotsQuery(filter domain.AnalyticsFilter) (string, []interface{}, error) {
	queryBuilder := squirrel.
		Select(
			"gs.date",
			"gs.sessions",
			"gs.users",
			"gs.new_users",
			"gs.page_views",
			"gs.bounce_rate",
			"gs.traffic_sources",
			"gs.top_pages",
		).
		From(analyticsSnapshotsTable).
		OrderBy("gs.date ASC").
		PlaceholderFormat(squirrel.Dollar)

	if !filter.Window.IsZero() {
		queryBuilder = queryBuilder.Where(squirrel.And{
			squirrel.GtOrEq{"gs.date": filter.Window.Start.Format(time.DateOnly)},
			squirrel.Lt{"gs.date": filter.Window.End.Format(time.DateOnly)},
		})
	}

	return queryBuilder.ToSql()
}

func (r *analyticsRepository) ListSnapshots(ctx context.Context, filter domain.AnalyticsFilter) ([]*domain.AnalyticsSnapshot, error) {
	sqlQuery, args, err := buildListSnapshotsQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query de analytics: %w", err)
	}
	defer rows.Close()

	snapshots := make([]*domain.AnalyticsSnapshot, 0)
	for rows.Next() {
		var (
			snapshot       domain.AnalyticsSnapshot
			bounceRate     *float64
			trafficSources []byte
			topPages       []byte
		)

		if err := rows.Scan(
			&snapshot.Date,
			&snapshot.Sessions,
			&snapshot.Users,
			&snapshot.NewUsers,
			&snapshot.PageViews,
			&bounceRate,
			&trafficSources,
			&topPages,
		); err != nil {
			return nil, fmt.Errorf("erro ao ler snapshot de analytics: %w", err)
		}

		if bounceRate != nil {
			snapshot.BounceRate = *bounceRate
		}

		if len(trafficSources) > 0 {
			if err := json.Unmarshal(trafficSources, &snapshot.TrafficSources); err != nil {
				log.ForContext(ctx).WithError(err).Warnf("analytics: traffic_sources inválido em %s", snapshot.Date.Format(time.DateOnly))
			}
		}

		if len(topPages) > 0 {
			if err := json.Unmarshal(topPages, &snapshot.TopPages); err != nil {
				log.ForContext(ctx).WithError(err).Warnf("analytics: top_pages inválido em %s", snapshot.Date.Format(time.DateOnly))
			}
		}

		snapshots = append(snapshots, &snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante iteração: %w", err)
	}

	return snapshots, nil
}
