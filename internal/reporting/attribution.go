package reporting

import (
	"sort"
	"time"

	"github.com/vfg2006/retail-dashboard-api/internal/domain"
)

// Attribution associa o ID do pedido à categoria da cita que o originou.
// domain.CategoryNone indica pedido sem cita.
type Attribution map[string]domain.Category

// CategoryOf devolve CategoryNone para pedidos desconhecidos
func (a Attribution) CategoryOf(orderID string) domain.Category {
	if a == nil {
		return domain.CategoryNone
	}

	return a[orderID]
}

// Attribute atribui a cada pedido a categoria da cita não cancelada mais recente do
// mesmo cliente, desde que ela aconteça até lookbackDays antes do pedido.
// Em empate de horário vence a cita de menor ID.
func Attribute(orders []*domain.Order, appointments []*domain.Appointment, lookbackDays int) Attribution {
	attribution := make(Attribution, len(orders))

	for _, order := range orders {
		if order != nil {
			attribution[order.ID] = domain.CategoryNone
		}
	}

	if lookbackDays <= 0 {
		return attribution
	}

	byCustomer := groupAppointmentsByCustomer(appointments)
	lookback := time.Duration(lookbackDays) * 24 * time.Hour

	for _, order := range orders {
		if !order.HasCustomer() {
			continue
		}

		customerAppointments := byCustomer[domain.NormalizeEmail(order.CustomerEmail)]
		chosen := latestQualifying(customerAppointments, order.CreatedAt, lookback)
		if chosen == nil {
			continue
		}

		category, _ := domain.ParseCategory(chosen.Category)
		attribution[order.ID] = category
	}

	return attribution
}

// groupAppointmentsByCustomer descarta citas canceladas e ordena cada cliente por (Datetime, ID)
func groupAppointmentsByCustomer(appointments []*domain.Appointment) map[string][]*domain.Appointment {
	grouped := make(map[string][]*domain.Appointment)

	for _, appointment := range appointments {
		if appointment == nil || appointment.IsCanceled() {
			continue
		}

		email := domain.NormalizeEmail(appointment.CustomerEmail)
		if email == "" {
			continue
		}

		grouped[email] = append(grouped[email], appointment)
	}

	for _, list := range grouped {
		sort.SliceStable(list, func(i, j int) bool {
			if !list[i].Datetime.Equal(list[j].Datetime) {
				return list[i].Datetime.Before(list[j].Datetime)
			}
			return list[i].ID < list[j].ID
		})
	}

	return grouped
}

// latestQualifying espera a lista já ordenada
func latestQualifying(sorted []*domain.Appointment, orderTime time.Time, lookback time.Duration) *domain.Appointment {
	// primeiro índice com cita depois do pedido
	idx := sort.Search(len(sorted), func(i int) bool {
		return sorted[i].Datetime.After(orderTime)
	})

	candidate := idx - 1
	if candidate < 0 {
		return nil
	}

	if orderTime.Sub(sorted[candidate].Datetime) > lookback {
		return nil
	}

	for candidate > 0 && sorted[candidate-1].Datetime.Equal(sorted[candidate].Datetime) {
		candidate--
	}

	return sorted[candidate]
}
