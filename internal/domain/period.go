package domain

import (
	"fmt"
	"time"
)

// PeriodWindow é um intervalo semiaberto [Start, End)
type PeriodWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewPeriodWindow monta a janela a partir de datas inclusivas (como chegam da query string)
func NewPeriodWindow(startDate, endDate time.Time) (PeriodWindow, error) {
	start := TruncateDay(startDate)
	end := TruncateDay(endDate).AddDate(0, 0, 1)

	if !start.Before(end) {
		return PeriodWindow{}, fmt.Errorf("a data de início não pode ser posterior à data de fim")
	}

	return PeriodWindow{Start: start, End: end}, nil
}

// Days devolve a quantidade de dias de calendário cobertos pela janela.
// Um End fora da meia-noite conta o seu dia como coberto.
func (w PeriodWindow) Days() int {
	if !w.Start.Before(w.End) {
		return 0
	}

	end := w.End.In(w.Start.Location())
	days := dayNumber(end) - dayNumber(w.Start)
	if end.After(TruncateDay(end)) {
		days++
	}
	return int(days)
}

// dayNumber conta os dias de calendário desde a época Unix, ignorando horário e fuso
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

func (w PeriodWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Previous devolve a janela imediatamente anterior com o mesmo tamanho
func (w PeriodWindow) Previous() PeriodWindow {
	return PeriodWindow{
		Start: w.Start.AddDate(0, 0, -w.Days()),
		End:   w.Start,
	}
}

// LastDay devolve o último dia incluído na janela
func (w PeriodWindow) LastDay() time.Time {
	return TruncateDay(w.End.AddDate(0, 0, -1))
}

func (w PeriodWindow) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// TruncateDay zera o horário preservando a location
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DatedValue é a unidade mínima agregada pelos relatórios
type DatedValue struct {
	Date  time.Time
	Value float64
}

// Aggregate é o resultado de somar valores dentro de uma janela
type Aggregate struct {
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// Comparison é nil quando não existe base de comparação
type Comparison struct {
	AbsoluteChange float64 `json:"absolute_change"`
	PercentChange  float64 `json:"percent_change"`
}

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

func ParseGranularity(raw string) (Granularity, error) {
	switch Granularity(raw) {
	case "":
		return GranularityDay, nil
	case GranularityDay, GranularityWeek, GranularityMonth, GranularityYear:
		return Granularity(raw), nil
	default:
		return "", fmt.Errorf("granularidade inválida: %s", raw)
	}
}
