package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	CustomerID       string          `json:"customer_id" validate:"required"`
	PaymentMethod    string          `json:"payment_method" validate:"required,oneof=cash credit_card debit_card pix bank_slip transfer"`
	Discount         decimal.Decimal `json:"discount"`
	Freight          decimal.Decimal `json:"freight"`
	Notes            string          `json:"notes,omitempty" validate:"max=1000"`
	ExpectedDelivery *time.Time      `json:"expected_delivery,omitempty"`
}

// OrderLineRequest body para agregar o actualizar una línea.
// UnitPrice en cero toma el precio de venta del producto.
type OrderLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// SetChargesRequest body para PUT /api/orders/:id/charges.
type SetChargesRequest struct {
	Discount decimal.Decimal `json:"discount"`
	Freight  decimal.Decimal `json:"freight"`
}

// OrderLineResponse línea en respuestas.
type OrderLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Position  int             `json:"position"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderResponse pedido con líneas y totales.
type OrderResponse struct {
	ID               string              `json:"id"`
	Number           string              `json:"number"`
	CustomerID       string              `json:"customer_id"`
	SellerID         string              `json:"seller_id,omitempty"`
	Status           string              `json:"status"`
	PaymentMethod    string              `json:"payment_method"`
	Lines            []OrderLineResponse `json:"lines"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	Discount         decimal.Decimal     `json:"discount"`
	Freight          decimal.Decimal     `json:"freight"`
	Total            decimal.Decimal     `json:"total"`
	Notes            string              `json:"notes,omitempty"`
	ExpectedDelivery *time.Time          `json:"expected_delivery,omitempty"`
	DeliveredAt      *time.Time          `json:"delivered_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}
