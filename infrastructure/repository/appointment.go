package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/retail-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/retail-dashboard-api/internal/domain"
)

const (
	appointmentsTable = "appointments a"
)

type AppointmentRepository interface {
	ListAppointments(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
}

type appointmentRepository struct {
	conn postgres.Queryer
}

func NewAppointmentRepository(conn *postgres.Connection) AppointmentRepository {
	return &appointmentRepository{
		conn: conn,
	}
}

func buildListAppointmentsQuery(filter domain.AppointmentFilter) (string, []interface{}, error) {
	queryBuilder := squirrel.
		Select(
			"a.id",
			"a.customer_email",
			"a.category",
			"a.datetime",
			"a.status",
			"a.city",
		).
		From(appointmentsTable).
		OrderBy("a.datetime ASC", "a.id ASC").
		PlaceholderFormat(squirrel.Dollar)

	if !filter.Window.IsZero() {
		queryBuilder = queryBuilder.Where(squirrel.And{
			squirrel.GtOrEq{"a.datetime": filter.Window.Start},
			squirrel.Lt{"a.datetime": filter.Window.End},
		})
	}

	if filter.ExcludeCanceled {
		queryBuilder = queryBuilder.Where(squirrel.NotEq{"lower(a.status)": []string{"canceled", "cancelled"}})
	}

	if len(filter.CustomerEmails) > 0 {
		emails := make([]string, 0, len(filter.CustomerEmails))
		for _, email := range filter.CustomerEmails {
			emails = append(emails, domain.NormalizeEmail(email))
		}
		queryBuilder = queryBuilder.Where(squirrel.Eq{"lower(trim(a.customer_email))": emails})
	}

	if len(filter.Categories) > 0 {
		categories := make([]string, 0, len(filter.Categories)+1)
		for _, category := range filter.Categories {
			categories = append(categories, string(category))
			if category == domain.CategoryMedicion {
				categories = append(categories, "medicion")
			}
		}
		queryBuilder = queryBuilder.Where(squirrel.Eq{"lower(a.category)": categories})
	}

	if len(filter.Cities) > 0 {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"lower(a.city)": lowerAll(filter.Cities)})
	}

	return queryBuilder.ToSql()
}

func (r *appointmentRepository) ListAppointments(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	sqlQuery, args, err := buildListAppointmentsQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query de citas: %w", err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		var (
			appointment domain.Appointment
			email       *string
			category    *string
			status      *string
			city        *string
		)

		if err := rows.Scan(
			&appointment.ID,
			&email,
			&category,
			&appointment.Datetime,
			&status,
			&city,
		); err != nil {
			return nil, fmt.Errorf("erro ao ler cita: %w", err)
		}

		appointment.CustomerEmail = derefString(email)
		appointment.Category = derefString(category)
		appointment.Status = domain.AppointmentStatus(strings.ToLower(strings.TrimSpace(derefString(status))))
		appointment.City = strings.TrimSpace(derefString(city))

		appointments = append(appointments, &appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante iteração: %w", err)
	}

	return appointments, nil
}
