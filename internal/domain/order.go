package domain

import (
	"strings"
	"time"
)

const (
	CountrySpain  = "ES"
	CountryMexico = "MX"
)

// LineItem representa um produto dentro de um pedido do Shopify
type LineItem struct {
	Title    string  `json:"title"`
	SKU      string  `json:"sku"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Order representa um pedido do Shopify já ingerido no banco.
// TotalPrice está na moeda local do país (CurrencyCountry).
type Order struct {
	ID              string     `json:"id"`
	CustomerEmail   string     `json:"customer_email"`
	TotalPrice      float64    `json:"total_price"`
	CurrencyCountry string     `json:"currency_country"`
	City            string     `json:"city"`
	CreatedAt       time.Time  `json:"created_at"`
	Tags            []string   `json:"tags"`
	LineItems       []LineItem `json:"line_items"`
}

// HasCustomer indica se o pedido pode participar da atribuição
func (o *Order) HasCustomer() bool {
	return o != nil && NormalizeEmail(o.CustomerEmail) != ""
}

// OrderFilter define os filtros aceitos pela tabela de pedidos
type OrderFilter struct {
	Window         PeriodWindow
	Countries      []string
	Cities         []string
	CustomerEmails []string
}

// NormalizeEmail deixa o email em um formato comparável entre fontes
func NormalizeEmail(email string) string {
	email = strings.ToLower(email)
	email = strings.TrimSpace(email)
	return strings.ReplaceAll(email, " ", "")
}
