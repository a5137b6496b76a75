package reporting

import (
	"sort"
	"strings"
	"time"

	"github.com/vfg2006/retail-dashboard-api/internal/domain"
	"github.com/vfg2006/retail-dashboard-api/pkg/utils"
)

// DailyAxis devolve uma chave YYYY-MM-DD para cada dia da janela, sem buracos
func DailyAxis(window domain.PeriodWindow) []string {
	axis := make([]string, 0, window.Days())
	for day := domain.TruncateDay(window.Start); day.Before(window.End); day = day.AddDate(0, 0, 1) {
		axis = append(axis, day.Format(time.DateOnly))
	}
	return axis
}

// DayKey converte o timestamp para o fuso do relatório antes de truncar
func DayKey(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(time.DateOnly)
}

func NewPeriodInfo(window domain.PeriodWindow, lookbackDays int) domain.PeriodInfo {
	previous := window.Previous()

	return domain.PeriodInfo{
		StartDate:         window.Start.Format(time.DateOnly),
		EndDate:           window.LastDay().Format(time.DateOnly),
		PreviousStartDate: previous.Start.Format(time.DateOnly),
		PreviousEndDate:   previous.LastDay().Format(time.DateOnly),
		Days:              window.Days(),
		LookbackDays:      lookbackDays,
	}
}

func NewKPICard(key string, current, previous, historical domain.Aggregate) domain.KPICard {
	return domain.KPICard{
		Key:               key,
		Value:             utils.RoundWithTwoDecimalPlace(current.Total),
		Previous:          utils.RoundWithTwoDecimalPlace(previous.Total),
		HistoricalAverage: utils.RoundWithTwoDecimalPlace(historical.Total),
		VsPrevious:        roundComparison(Compare(current, previous)),
		VsHistorical:      roundComparison(Compare(current, historical)),
	}
}

// RatioKPICard é usado para métricas derivadas (ticket médio, CTR, bounce rate)
// onde o valor já vem calculado e a média histórica não se aplica.
func RatioKPICard(key string, current, previous float64) domain.KPICard {
	return NewKPICard(key, domain.Aggregate{Total: current}, domain.Aggregate{Total: previous}, domain.Aggregate{})
}

func roundComparison(c *domain.Comparison) *domain.Comparison {
	if c == nil {
		return nil
	}

	return &domain.Comparison{
		AbsoluteChange: utils.RoundWithTwoDecimalPlace(c.AbsoluteChange),
		PercentChange:  utils.RoundWithTwoDecimalPlace(c.PercentChange),
	}
}

// SafeDivide devolve 0 quando o denominador não é positivo
func SafeDivide(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return numerator / denominator
}

// ROAS é nil quando não houve gasto
func ROAS(revenue, spend float64) *float64 {
	if spend <= 0 {
		return nil
	}

	roas := utils.RoundWithTwoDecimalPlace(revenue / spend)
	return &roas
}

// RevenueValues gera um DatedValue por pedido com a receita normalizada
func RevenueValues(orders []*domain.Order, normalizer CurrencyNormalizer) []domain.DatedValue {
	values := make([]domain.DatedValue, 0, len(orders))
	for _, order := range orders {
		if order == nil {
			continue
		}
		values = append(values, domain.DatedValue{Date: order.CreatedAt, Value: normalizer.OrderRevenue(order)})
	}
	return values
}

// CountValues gera um DatedValue de valor 1 para cada data
func CountValues(dates []time.Time) []domain.DatedValue {
	values := make([]domain.DatedValue, 0, len(dates))
	for _, date := range dates {
		values = append(values, domain.DatedValue{Date: date, Value: 1})
	}
	return values
}

func OrderDates(orders []*domain.Order) []time.Time {
	dates := make([]time.Time, 0, len(orders))
	for _, order := range orders {
		if order != nil {
			dates = append(dates, order.CreatedAt)
		}
	}
	return dates
}

// ActiveAppointmentDates ignora citas canceladas
func ActiveAppointmentDates(appointments []*domain.Appointment) []time.Time {
	dates := make([]time.Time, 0, len(appointments))
	for _, appointment := range appointments {
		if appointment != nil && !appointment.IsCanceled() {
			dates = append(dates, appointment.Datetime)
		}
	}
	return dates
}

// CategoryBreakdown sempre devolve medición, fitting e none, nesta ordem
func CategoryBreakdown(orders []*domain.Order, attribution Attribution, normalizer CurrencyNormalizer) []domain.CategoryBreakdown {
	categories := append(append([]domain.Category{}, domain.Categories...), domain.CategoryNone)

	rows := make(map[domain.Category]*domain.CategoryBreakdown, len(categories))
	for _, category := range categories {
		rows[category] = &domain.CategoryBreakdown{Category: category.Label()}
	}

	var totalRevenue float64
	for _, order := range orders {
		if order == nil {
			continue
		}

		row, ok := rows[attribution.CategoryOf(order.ID)]
		if !ok {
			row = rows[domain.CategoryNone]
		}

		revenue := normalizer.OrderRevenue(order)
		row.Orders++
		row.Revenue += revenue
		totalRevenue += revenue
	}

	result := make([]domain.CategoryBreakdown, 0, len(categories))
	for _, category := range categories {
		row := rows[category]
		row.AverageTicket = utils.RoundWithTwoDecimalPlace(SafeDivide(row.Revenue, float64(row.Orders)))
		row.Share = utils.RoundWithTwoDecimalPlace(SafeDivide(row.Revenue, totalRevenue) * 100)
		row.Revenue = utils.RoundWithTwoDecimalPlace(row.Revenue)
		result = append(result, *row)
	}

	return result
}

// CountryBreakdown agrupa por país mantendo a receita local e a normalizada
func CountryBreakdown(orders []*domain.Order, normalizer CurrencyNormalizer) []domain.CountryBreakdown {
	byCountry := make(map[string]*domain.CountryBreakdown)

	for _, order := range orders {
		if order == nil {
			continue
		}

		country := strings.ToUpper(strings.TrimSpace(order.CurrencyCountry))
		if country == "" {
			country = domain.CountrySpain
		}

		row, ok := byCountry[country]
		if !ok {
			row = &domain.CountryBreakdown{Country: country}
			byCountry[country] = row
		}

		row.Orders++
		row.LocalRevenue += order.TotalPrice
		row.Revenue += normalizer.OrderRevenue(order)
	}

	result := make([]domain.CountryBreakdown, 0, len(byCountry))
	for _, row := range byCountry {
		row.LocalRevenue = utils.RoundWithTwoDecimalPlace(row.LocalRevenue)
		row.Revenue = utils.RoundWithTwoDecimalPlace(row.Revenue)
		result = append(result, *row)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Revenue != result[j].Revenue {
			return result[i].Revenue > result[j].Revenue
		}
		return result[i].Country < result[j].Country
	})

	return result
}

// TopProducts soma os itens por título. O preço do item está na moeda do pedido.
func TopProducts(orders []*domain.Order, normalizer CurrencyNormalizer, limit int) []domain.ProductRow {
	byTitle := make(map[string]*domain.ProductRow)

	for _, order := range orders {
		if order == nil {
			continue
		}

		for _, item := range order.LineItems {
			title := strings.TrimSpace(item.Title)
			if title == "" {
				continue
			}

			row, ok := byTitle[title]
			if !ok {
				row = &domain.ProductRow{Title: title}
				byTitle[title] = row
			}

			row.Quantity += item.Quantity
			row.Revenue += normalizer.Normalize(item.Price*float64(item.Quantity), order.CurrencyCountry)
		}
	}

	result := make([]domain.ProductRow, 0, len(byTitle))
	for _, row := range byTitle {
		row.Revenue = utils.RoundWithTwoDecimalPlace(row.Revenue)
		result = append(result, *row)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Revenue != result[j].Revenue {
			return result[i].Revenue > result[j].Revenue
		}
		return result[i].Title < result[j].Title
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result
}

// RankStores ordena as cidades pela receita normalizada e calcula a variação de posição
// em relação à janela anterior. Pedidos sem cidade ficam de fora do ranking.
func RankStores(current, previous []*domain.Order, normalizer CurrencyNormalizer) []domain.StoreRankingItem {
	currentRanking := rankByCity(current, normalizer)
	previousRanking := rankByCity(previous, normalizer)

	before := make(map[string]domain.StoreRankingItem, len(previousRanking))
	for _, item := range previousRanking {
		before[strings.ToLower(item.City)] = item
	}

	for i := range currentRanking {
		ranking := &currentRanking[i]

		rankingBefore, exists := before[strings.ToLower(ranking.City)]
		if exists {
			ranking.PreviousPosition = rankingBefore.Position
			ranking.PreviousRevenue = rankingBefore.Revenue
			ranking.PositionChange = rankingBefore.Position - ranking.Position
		}
	}

	return currentRanking
}

func rankByCity(orders []*domain.Order, normalizer CurrencyNormalizer) []domain.StoreRankingItem {
	byCity := make(map[string]*domain.StoreRankingItem)

	for _, order := range orders {
		if order == nil {
			continue
		}

		city := strings.TrimSpace(order.City)
		if city == "" {
			continue
		}

		key := strings.ToLower(city)
		item, ok := byCity[key]
		if !ok {
			item = &domain.StoreRankingItem{City: city}
			byCity[key] = item
		}

		item.Orders++
		item.Revenue += normalizer.OrderRevenue(order)
	}

	rankings := make([]domain.StoreRankingItem, 0, len(byCity))
	for _, item := range byCity {
		item.Revenue = utils.RoundWithTwoDecimalPlace(item.Revenue)
		rankings = append(rankings, *item)
	}

	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].Revenue != rankings[j].Revenue {
			return rankings[i].Revenue > rankings[j].Revenue
		}
		return rankings[i].City < rankings[j].City
	})

	for i := range rankings {
		rankings[i].Position = i + 1
	}

	return rankings
}
