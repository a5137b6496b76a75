package reporting

import (
	"context"
	"time"

	"github.com/vfg2006/retail-dashboard-api/internal/domain"
)

const (
	SourceOrders       = "orders"
	SourceAppointments = "appointments"
	SourceAds          = "ads"
	SourceAnalytics    = "analytics"
)

// SourceResult é o retorno tipado de uma busca em uma fonte de dados.
// Err != nil significa que a fonte deve ser degradada para vazio.
type SourceResult[T any] struct {
	Source string
	Data   T
	Err    error
}

func (r SourceResult[T]) OK() bool {
	return r.Err == nil
}

// Value devolve o zero value de T quando a fonte falhou
func (r SourceResult[T]) Value() T {
	if r.Err != nil {
		var zero T
		return zero
	}
	return r.Data
}

func (r SourceResult[T]) SourceName() string {
	return r.Source
}

func (r SourceResult[T]) Status() domain.SourceStatus {
	if r.Err != nil {
		return domain.SourceStatus{OK: false, Error: r.Err.Error()}
	}
	return domain.SourceStatus{OK: true}
}

// SourceOutcome permite montar o mapa de status com resultados de tipos diferentes
type SourceOutcome interface {
	SourceName() string
	Status() domain.SourceStatus
}

// Sources monta o mapa "sources" devolvido em todos os relatórios
func Sources(outcomes ...SourceOutcome) map[string]domain.SourceStatus {
	statuses := make(map[string]domain.SourceStatus, len(outcomes))
	for _, outcome := range outcomes {
		statuses[outcome.SourceName()] = outcome.Status()
	}
	return statuses
}

// Fetch executa fn com timeout próprio. Timeout é tratado igual a qualquer outra falha.
func Fetch[T any](ctx context.Context, source string, timeout time.Duration, fn func(ctx context.Context) (T, error)) SourceResult[T] {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	data, err := fn(ctx)
	if err != nil {
		var zero T
		return SourceResult[T]{Source: source, Data: zero, Err: &SourceError{Source: source, Err: err}}
	}

	return SourceResult[T]{Source: source, Data: data}
}
