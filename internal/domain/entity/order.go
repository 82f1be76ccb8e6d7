package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del pedido.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPicking   OrderStatus = "picking"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCanceled  OrderStatus = "canceled"
)

// PaymentMethod forma de pago de pedidos, facturas y cuentas.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentPix        PaymentMethod = "pix"
	PaymentBankSlip   PaymentMethod = "bank_slip"
	PaymentTransfer   PaymentMethod = "transfer"
)

// Valid true si es una forma de pago conocida.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentPix, PaymentBankSlip, PaymentTransfer:
		return true
	}
	return false
}

// Order cabecera del pedido con sus líneas.
type Order struct {
	ID               string
	Number           string
	CustomerID       string
	SellerID         string
	Status           OrderStatus
	Lines            []OrderLine
	Subtotal         decimal.Decimal
	Discount         decimal.Decimal
	Freight          decimal.Decimal
	Total            decimal.Decimal
	PaymentMethod    PaymentMethod
	Notes            string
	ExpectedDelivery *time.Time
	DeliveredAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RecomputeTotals subtotal = Σ total de línea; total = subtotal - descuento + flete.
func (o *Order) RecomputeTotals() {
	subtotal := decimal.Zero
	for i := range o.Lines {
		o.Lines[i].ComputeTotal()
		subtotal = subtotal.Add(o.Lines[i].LineTotal)
	}
	o.Subtotal = subtotal
	o.Total = subtotal.Sub(o.Discount).Add(o.Freight)
}

// Line busca una línea por ID.
func (o *Order) Line(lineID string) (*OrderLine, bool) {
	for i := range o.Lines {
		if o.Lines[i].ID == lineID {
			return &o.Lines[i], true
		}
	}
	return nil, false
}

// NextPosition posición para una línea nueva.
func (o *Order) NextPosition() int {
	max := 0
	for _, l := range o.Lines {
		if l.Position > max {
			max = l.Position
		}
	}
	return max + 1
}

// OrderLine línea del pedido.
type OrderLine struct {
	ID        string
	OrderID   string
	ProductID string
	Position  int
	Qty       int64
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	LineTotal decimal.Decimal
}

// Gross cantidad * precio unitario, antes de descuento.
func (l *OrderLine) Gross() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Qty))
}

// ComputeTotal line_total = qty*unit_price - discount.
func (l *OrderLine) ComputeTotal() {
	l.LineTotal = l.Gross().Sub(l.Discount)
}
