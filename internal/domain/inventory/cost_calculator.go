package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/domain"
)

// AverageCost costo promedio ponderado tras una entrada por compra.
// nuevo = (existencia*costoActual + cantEntrada*costoEntrada) / (existencia + cantEntrada)
// Se redondea a domain.CostScale decimales, la escala de products.cost_price.
func AverageCost(stockQty int64, currentCost decimal.Decimal, inQty int64, inCost decimal.Decimal) decimal.Decimal {
	total := stockQty + inQty
	if total <= 0 {
		return decimal.Zero
	}
	num := decimal.NewFromInt(stockQty).Mul(currentCost).Add(decimal.NewFromInt(inQty).Mul(inCost))
	return num.DivRound(decimal.NewFromInt(total), domain.CostScale)
}
