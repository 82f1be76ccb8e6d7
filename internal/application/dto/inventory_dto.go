package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/stock/movements.
type RecordMovementRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Direction string           `json:"direction" validate:"required,oneof=in out"`
	Quantity  int64            `json:"quantity" validate:"gt=0"`
	Reason    string           `json:"reason" validate:"required,oneof=purchase sale return adjustment loss transfer"`
	Notes     string           `json:"notes,omitempty" validate:"max=500"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"` // solo entradas por compra
}

// MovementResponse movimiento del diario.
type MovementResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Direction string    `json:"direction"`
	Quantity  int64     `json:"quantity"`
	Reason    string    `json:"reason"`
	Notes     string    `json:"notes,omitempty"`
	Actor     string    `json:"actor"`
	PriorQty  int64     `json:"prior_qty"`
	PostQty   int64     `json:"post_qty"`
	CreatedAt time.Time `json:"created_at"`
}

// SetThresholdsRequest body para PUT /api/stock/:productID/thresholds.
type SetThresholdsRequest struct {
	MinQty   int64  `json:"min_qty" validate:"gte=0"`
	MaxQty   int64  `json:"max_qty" validate:"gte=0"`
	Location string `json:"location,omitempty" validate:"max=100"`
}

// StockResponse existencia con estado derivado.
type StockResponse struct {
	ProductID    string          `json:"product_id"`
	ProductCode  string          `json:"product_code"`
	ProductName  string          `json:"product_name"`
	CurrentQty   int64           `json:"current_qty"`
	MinQty       int64           `json:"min_qty"`
	MaxQty       int64           `json:"max_qty"`
	Location     string          `json:"location,omitempty"`
	NeedsRestock bool            `json:"needs_restock"`
	Status       string          `json:"stock_status"`
	OccupancyPct decimal.Decimal `json:"occupancy_pct"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// RestockSuggestionDTO sugerencia de reposición para un producto en o bajo su mínimo.
type RestockSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	ProductCode        string          `json:"product_code"`
	ProductName        string          `json:"product_name"`
	CurrentQty         int64           `json:"current_qty"`
	MinQty             int64           `json:"min_qty"`
	MaxQty             int64           `json:"max_qty"`
	Status             string          `json:"stock_status"`
	SuggestedOrderQty  int64           `json:"suggested_order_qty"`  // hasta el máximo, o 2*min si no hay máximo
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	MarginPct          decimal.Decimal `json:"margin_pct"`
	Priority           int             `json:"priority"` // 1 = más urgente
}
