package domain

import (
	"strings"
	"time"
)

// Category é o tipo de cita do Acuity usado na atribuição.
// CategoryNone significa "sem cita" (pedido orgânico online).
type Category string

const (
	CategoryNone     Category = ""
	CategoryMedicion Category = "medición"
	CategoryFitting  Category = "fitting"
)

// Categories lista as categorias conhecidas na ordem em que aparecem nos relatórios
var Categories = []Category{CategoryMedicion, CategoryFitting}

// Label devolve o nome exibido nas tabelas de breakdown
func (c Category) Label() string {
	if c == CategoryNone {
		return "none"
	}
	return string(c)
}

// ParseCategory converte a string vinda do Acuity. O segundo retorno é false
// para categorias desconhecidas.
func ParseCategory(raw string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "medición", "medicion":
		return CategoryMedicion, true
	case "fitting":
		return CategoryFitting, true
	default:
		return CategoryNone, false
	}
}

type AppointmentStatus string

const (
	AppointmentStatusBooked      AppointmentStatus = "booked"
	AppointmentStatusCanceled    AppointmentStatus = "canceled"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
)

// Appointment representa uma cita do Acuity
type Appointment struct {
	ID            string            `json:"id"`
	CustomerEmail string            `json:"customer_email"`
	Category      string            `json:"category"`
	Datetime      time.Time         `json:"datetime"`
	Status        AppointmentStatus `json:"status"`
	City          string            `json:"city"`
}

// IsCanceled aceita as duas grafias que chegam do Acuity
func (a *Appointment) IsCanceled() bool {
	status := strings.ToLower(strings.TrimSpace(string(a.Status)))
	return status == string(AppointmentStatusCanceled) || status == "cancelled"
}

type AppointmentFilter struct {
	Window          PeriodWindow
	ExcludeCanceled bool
	CustomerEmails  []string
	Categories      []Category
	Cities          []string
}
