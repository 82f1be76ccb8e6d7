package entity

import "time"

// Direction sentido del movimiento.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Valid true si es in u out.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// MovementReason motivo del movimiento.
type MovementReason string

const (
	ReasonPurchase   MovementReason = "purchase"
	ReasonSale       MovementReason = "sale"
	ReasonReturn     MovementReason = "return"
	ReasonAdjustment MovementReason = "adjustment"
	ReasonLoss       MovementReason = "loss"
	ReasonTransfer   MovementReason = "transfer"
)

// Valid true si el motivo es uno de los conocidos.
func (r MovementReason) Valid() bool {
	switch r {
	case ReasonPurchase, ReasonSale, ReasonReturn, ReasonAdjustment, ReasonLoss, ReasonTransfer:
		return true
	}
	return false
}

// Movement registro inmutable del diario de stock.
type Movement struct {
	ID        string
	ProductID string
	Direction Direction
	Qty       int64
	Reason    MovementReason
	Notes     string
	Actor     string
	PriorQty  int64
	PostQty   int64
	CreatedAt time.Time
}
