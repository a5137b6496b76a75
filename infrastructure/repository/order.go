package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/vfg2006/retail-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/retail-dashboard-api/internal/domain"
	"github.com/vfg2006/retail-dashboard-api/pkg/log"
)

const (
	ordersTable = "orders o"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type OrderRepository interface {
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
}

type orderRepository struct {
	conn postgres.Queryer
}

func NewOrderRepository(conn *postgres.Connection) OrderRepository {
	return &orderRepository{
		conn: conn,
	}
}

func buildListOrdersQuery(filter domain.OrderFilter) (string, []interface{}, error) {
	queryBuilder := squirrel.
		Select(
			"o.id",
			"o.customer_email",
			"o.total_price",
			"o.currency_country",
			"o.city",
			"o.created_at",
			"o.tags",
			"o.line_items",
		).
		From(ordersTable).
		OrderBy("o.created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	if !filter.Window.IsZero() {
		queryBuilder = queryBuilder.Where(squirrel.And{
			squirrel.GtOrEq{"o.created_at": filter.Window.Start},
			squirrel.Lt{"o.created_at": filter.Window.End},
		})
	}

	if len(filter.Countries) > 0 {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"upper(o.currency_country)": upperAll(filter.Countries)})
	}

	if len(filter.Cities) > 0 {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"lower(o.city)": lowerAll(filter.Cities)})
	}

	if len(filter.CustomerEmails) > 0 {
		emails := make([]string, 0, len(filter.CustomerEmails))
		for _, email := range filter.CustomerEmails {
			emails = append(emails, domain.NormalizeEmail(email))
		}
		queryBuilder = queryBuilder.Where(squirrel.Eq{"lower(trim(o.customer_email))": emails})
	}

	return queryBuilder.ToSql()
}

func (r *orderRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	sqlQuery, args, err := buildListOrdersQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query de pedidos: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		var (
			order     domain.Order
			email     *string
			country   *string
			city      *string
			lineItems []byte
		)

		if err := rows.Scan(
			&order.ID,
			&email,
			&order.TotalPrice,
			&country,
			&city,
			&order.CreatedAt,
			pq.Array(&order.Tags),
			&lineItems,
		); err != nil {
			return nil, fmt.Errorf("erro ao ler pedido: %w", err)
		}

		order.CustomerEmail = derefString(email)
		order.CurrencyCountry = strings.ToUpper(strings.TrimSpace(derefString(country)))
		order.City = strings.TrimSpace(derefString(city))

		if len(lineItems) > 0 {
			if err := json.Unmarshal(lineItems, &order.LineItems); err != nil {
				log.ForContext(ctx).WithError(err).Warnf("orders: line_items inválidos no pedido %s", order.ID)
			}
		}

		orders = append(orders, &order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante iteração: %w", err)
	}

	return orders, nil
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func lowerAll(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		result = append(result, strings.ToLower(strings.TrimSpace(value)))
	}
	return result
}

func upperAll(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		result = append(result, strings.ToUpper(strings.TrimSpace(value)))
	}
	return result
}
