package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/domain"
)

// StockStatus clasificación derivada de la existencia.
type StockStatus string

const (
	StockOutOfStock StockStatus = "out_of_stock"
	StockLow        StockStatus = "low"
	StockFull       StockStatus = "full"
	StockNormal     StockStatus = "normal"
)

// StockRecord existencia actual de un producto (1:1 con Product).
// Solo el ledger la modifica, a través de Apply.
type StockRecord struct {
	ProductID  string
	CurrentQty int64
	MinQty     int64
	MaxQty     int64 // 0 = sin máximo
	Location   string
	UpdatedAt  time.Time
}

// NeedsRestock true si la existencia está en o bajo el mínimo.
func (s *StockRecord) NeedsRestock() bool {
	return s.CurrentQty <= s.MinQty
}

// Status out_of_stock > low > full > normal, en ese orden de precedencia.
func (s *StockRecord) Status() StockStatus {
	switch {
	case s.CurrentQty == 0:
		return StockOutOfStock
	case s.NeedsRestock():
		return StockLow
	case s.MaxQty > 0 && s.CurrentQty >= s.MaxQty:
		return StockFull
	default:
		return StockNormal
	}
}

// OccupancyPct porcentaje de ocupación respecto al máximo (0 si no hay máximo).
func (s *StockRecord) OccupancyPct() decimal.Decimal {
	if s.MaxQty <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(s.CurrentQty).Div(decimal.NewFromInt(s.MaxQty)).Mul(hundred).Round(2)
}

// Apply aplica un movimiento sobre la existencia y devuelve cantidad previa y posterior.
// Si la salida dejaría la existencia negativa no modifica nada.
func (s *StockRecord) Apply(dir Direction, qty int64, now time.Time) (prior, post int64, err error) {
	if qty <= 0 {
		return 0, 0, domain.Validation("qty", "debe ser mayor que cero")
	}
	prior = s.CurrentQty
	switch dir {
	case DirectionIn:
		post = prior + qty
	case DirectionOut:
		if prior < qty {
			return prior, prior, domain.InsufficientStock(s.ProductID, prior, qty)
		}
		post = prior - qty
	default:
		return 0, 0, domain.Validation("direction", "debe ser in u out")
	}
	s.CurrentQty = post
	s.UpdatedAt = now
	return prior, post, nil
}
