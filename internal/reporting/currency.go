package reporting

import (
	"strings"

	"github.com/vfg2006/retail-dashboard-api/internal/domain"
)

// DefaultMXNToEURRate é a taxa estática usada quando nenhuma outra é configurada
const DefaultMXNToEURRate = 0.05

// CurrencyNormalizer converte valores em moeda local para EUR
type CurrencyNormalizer struct {
	mxnRate float64
}

func NewCurrencyNormalizer(mxnRate float64) CurrencyNormalizer {
	if mxnRate <= 0 {
		mxnRate = DefaultMXNToEURRate
	}

	return CurrencyNormalizer{mxnRate: mxnRate}
}

// Normalize só converte pedidos do México. Qualquer outro país (inclusive vazio
// ou desconhecido) é tratado como se já estivesse em EUR.
func (n CurrencyNormalizer) Normalize(amount float64, countryCode string) float64 {
	if strings.EqualFold(strings.TrimSpace(countryCode), domain.CountryMexico) {
		return amount * n.mxnRate
	}

	return amount
}

// OrderRevenue devolve o total do pedido já normalizado
func (n CurrencyNormalizer) OrderRevenue(order *domain.Order) float64 {
	if order == nil {
		return 0
	}

	return n.Normalize(order.TotalPrice, order.CurrencyCountry)
}

func (n CurrencyNormalizer) Rate() float64 {
	return n.mxnRate
}
