package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Product producto del catálogo. Lo administra el maestro de entidades;
// el ledger y los pedidos solo lo leen por ID.
type Product struct {
	ID        string
	Code      string // código único del producto
	Name      string
	CostPrice decimal.Decimal
	SalePrice decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Margin margen porcentual sobre el costo: (venta-costo)/costo*100. Cero si el costo es 0.
func (p *Product) Margin() decimal.Decimal {
	if p.CostPrice.IsZero() {
		return decimal.Zero
	}
	return p.SalePrice.Sub(p.CostPrice).Div(p.CostPrice).Mul(hundred).Round(2)
}

// UnitProfit ganancia por unidad vendida.
func (p *Product) UnitProfit() decimal.Decimal {
	return p.SalePrice.Sub(p.CostPrice)
}
