package domain

// StoreRankingItem é a posição de uma loja (cidade) pela receita normalizada no período.
// PositionChange positivo = subiu, negativo = desceu, 0 = manteve ou sem posição anterior.
type StoreRankingItem struct {
	City             string  `json:"city"`
	Revenue          float64 `json:"revenue"`
	Orders           int     `json:"orders"`
	Position         int     `json:"position"`
	PreviousRevenue  float64 `json:"previous_revenue"`
	PreviousPosition int     `json:"previous_position"`
	PositionChange   int     `json:"position_change"`
}
