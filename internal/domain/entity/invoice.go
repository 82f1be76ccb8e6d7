package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado de la factura.
type InvoiceStatus string

const (
	InvoicePending  InvoiceStatus = "pending"
	InvoicePaid     InvoiceStatus = "paid"
	InvoiceOverdue  InvoiceStatus = "overdue"
	InvoiceCanceled InvoiceStatus = "canceled"
)

// Invoice factura emitida a partir de un pedido (1:1). Total es una foto del
// total del pedido al emitir y no se recalcula después.
type Invoice struct {
	ID            string
	Number        string
	OrderID       string
	Status        InvoiceStatus
	Total         decimal.Decimal
	PaidAmount    decimal.Decimal
	PaymentMethod PaymentMethod
	IssueDate     time.Time
	DueDate       time.Time
	PaidDate      *time.Time
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Balance saldo pendiente.
func (i *Invoice) Balance() decimal.Decimal {
	b := i.Total.Sub(i.PaidAmount)
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}

// DaysUntilDue días hasta el vencimiento (negativo si ya venció).
func (i *Invoice) DaysUntilDue(today time.Time) int {
	return daysBetween(today, i.DueDate)
}

// IsLate vencida y no pagada.
func (i *Invoice) IsLate(today time.Time) bool {
	return Truncate(i.DueDate).Before(Truncate(today)) && i.Status != InvoicePaid && i.Status != InvoiceCanceled
}

// Truncate deja solo la fecha (UTC, 00:00).
func Truncate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(Truncate(to).Sub(Truncate(from)).Hours() / 24)
}
