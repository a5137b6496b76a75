package reporting

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/retail-dashboard-api/internal/domain"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func mustWindow(t *testing.T, start, end time.Time) domain.PeriodWindow {
	t.Helper()
	window, err := domain.NewPeriodWindow(start, end)
	require.NoError(t, err)
	return window
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		current  domain.Aggregate
		baseline domain.Aggregate
		expected *domain.Comparison
	}{
		{
			name:     "150 contra 100 - variação de 50%",
			current:  domain.Aggregate{Total: 150},
			baseline: domain.Aggregate{Total: 100},
			expected: &domain.Comparison{AbsoluteChange: 50, PercentChange: 50},
		},
		{
			name:     "Queda de 100 para 25",
			current:  domain.Aggregate{Total: 25},
			baseline: domain.Aggregate{Total: 100},
			expected: &domain.Comparison{AbsoluteChange: -75, PercentChange: -75},
		},
		{
			name:     "Base zero - sem comparação",
			current:  domain.Aggregate{Total: 150},
			baseline: domain.Aggregate{Total: 0},
			expected: nil,
		},
		{
			name:     "Atual e base zero - sem comparação",
			current:  domain.Aggregate{},
			baseline: domain.Aggregate{},
			expected: nil,
		},
		{
			name:     "Base negativa - sem comparação",
			current:  domain.Aggregate{Total: 10},
			baseline: domain.Aggregate{Total: -5},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Compare(tt.current, tt.baseline)

			if tt.expected == nil {
				assert.Nil(t, result)
				return
			}

			require.NotNil(t, result)
			assert.InDelta(t, tt.expected.AbsoluteChange, result.AbsoluteChange, 0.0001)
			assert.InDelta(t, tt.expected.PercentChange, result.PercentChange, 0.0001)
			assert.False(t, math.IsNaN(result.PercentChange))
			assert.False(t, math.IsInf(result.PercentChange, 0))
		})
	}
}

func TestAggregate(t *testing.T) {
	window := mustWindow(t, day(2024, 3, 1), day(2024, 3, 3))

	t.Run("Soma apenas registros dentro da janela semiaberta", func(t *testing.T) {
		records := []domain.DatedValue{
			{Date: day(2024, 2, 29), Value: 1000},
			{Date: day(2024, 3, 1), Value: 10},
			{Date: day(2024, 3, 3).Add(23 * time.Hour), Value: 20},
			{Date: day(2024, 3, 4), Value: 500},
		}

		result := Aggregate(records, window)

		assert.Equal(t, 30.0, result.Total)
		assert.Equal(t, 2, result.Count)
		assert.Equal(t, 15.0, result.Average)
	})

	t.Run("Sem registros - zero e não NaN", func(t *testing.T) {
		current := Aggregate(nil, window)
		baseline := Aggregate(nil, window.Previous())

		assert.Equal(t, 0.0, current.Total)
		assert.Equal(t, 0.0, current.Average)
		assert.False(t, math.IsNaN(current.Average))
		assert.Nil(t, Compare(current, baseline))
	})
}

func TestHistoricalAverage(t *testing.T) {
	current := mustWindow(t, day(2024, 3, 1), day(2024, 3, 10))
	history := domain.PeriodWindow{Start: day(2024, 2, 10), End: current.End}

	t.Run("Projeta a taxa diária para o tamanho da janela atual", func(t *testing.T) {
		// 20 dias de histórico (10/02 a 29/02) somando 200 => 10 por dia
		records := []domain.DatedValue{
			{Date: day(2024, 1, 15), Value: 5000}, // antes do histórico consultado
			{Date: day(2024, 2, 10), Value: 100},
			{Date: day(2024, 2, 20), Value: 100},
			{Date: day(2024, 3, 5), Value: 9999},
		}

		result := HistoricalAverage(records, history, current)

		assert.InDelta(t, 100.0, result.Total, 0.0001)
		assert.Equal(t, 2, result.Count)
	})

	t.Run("Dias sem registro no início do histórico contam como zero", func(t *testing.T) {
		current := mustWindow(t, day(2024, 3, 1), day(2024, 3, 30))
		history := domain.PeriodWindow{Start: day(2024, 1, 31), End: current.End}
		records := []domain.DatedValue{
			{Date: day(2024, 2, 29), Value: 100},
			{Date: day(2024, 3, 3), Value: 100},
		}

		result := HistoricalAverage(records, history, current)

		assert.InDelta(t, 100.0, result.Total, 0.0001)

		comparison := Compare(Aggregate(records, current), result)
		require.NotNil(t, comparison)
		assert.InDelta(t, 0.0, comparison.PercentChange, 0.0001)
	})

	t.Run("Sem histórico - agregado zerado e comparação nula", func(t *testing.T) {
		records := []domain.DatedValue{{Date: day(2024, 3, 2), Value: 50}}

		result := HistoricalAverage(records, history, current)

		assert.Equal(t, domain.Aggregate{}, result)
		assert.Nil(t, Compare(Aggregate(records, current), result))
	})

	t.Run("Histórico vazio quando começa junto com a janela atual", func(t *testing.T) {
		records := []domain.DatedValue{{Date: day(2024, 2, 20), Value: 50}}

		result := HistoricalAverage(records, current, current)

		assert.Equal(t, domain.Aggregate{}, result)
	})
}

func TestPeriodWindow(t *testing.T) {
	window := mustWindow(t, day(2024, 3, 1), day(2024, 3, 31))

	assert.Equal(t, 31, window.Days())

	previous := window.Previous()
	assert.Equal(t, day(2024, 1, 30), previous.Start)
	assert.Equal(t, window.Start, previous.End)
	assert.Equal(t, window.Days(), previous.Days())

	_, err := domain.NewPeriodWindow(day(2024, 3, 2), day(2024, 3, 1))
	assert.Error(t, err)
}

func TestPeriodWindow_Days(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	tests := []struct {
		name   string
		window domain.PeriodWindow
		want   int
	}{
		{
			name:   "janela vazia",
			window: domain.PeriodWindow{},
			want:   0,
		},
		{
			name:   "fim antes do início",
			window: domain.PeriodWindow{Start: day(2024, 3, 2), End: day(2024, 3, 1)},
			want:   0,
		},
		{
			name:   "fim fora da meia-noite conta o dia",
			window: domain.PeriodWindow{Start: day(2024, 3, 1), End: time.Date(2024, 3, 2, 6, 0, 0, 0, time.UTC)},
			want:   2,
		},
		{
			name: "mudança de horário de verão",
			window: domain.PeriodWindow{
				Start: time.Date(2024, 3, 30, 0, 0, 0, 0, madrid),
				End:   time.Date(2024, 4, 2, 0, 0, 0, 0, madrid),
			},
			want: 3,
		},
		{
			name:   "calendário inteiro",
			window: mustWindow(t, day(1, 1, 1), day(9999, 12, 31)),
			want:   3652059,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.window.Days())
		})
	}
}
