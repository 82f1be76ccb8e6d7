package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind cuenta por cobrar o por pagar.
type AccountKind string

const (
	AccountReceivable AccountKind = "receivable"
	AccountPayable    AccountKind = "payable"
)

// AccountStatus estado de la cuenta.
type AccountStatus string

const (
	AccountOpen     AccountStatus = "open"
	AccountSettled  AccountStatus = "settled"
	AccountOverdue  AccountStatus = "overdue"
	AccountCanceled AccountStatus = "canceled"
)

// PayableCategory categoría de una cuenta por pagar.
type PayableCategory string

const (
	CategorySupplier    PayableCategory = "supplier"
	CategorySalary      PayableCategory = "salary"
	CategoryRent        PayableCategory = "rent"
	CategoryEnergy      PayableCategory = "energy"
	CategoryWater       PayableCategory = "water"
	CategoryInternet    PayableCategory = "internet"
	CategoryTaxes       PayableCategory = "taxes"
	CategoryMaintenance PayableCategory = "maintenance"
	CategoryMarketing   PayableCategory = "marketing"
	CategoryOther       PayableCategory = "other"
)

// Valid true si la categoría es conocida.
func (c PayableCategory) Valid() bool {
	switch c {
	case CategorySupplier, CategorySalary, CategoryRent, CategoryEnergy, CategoryWater,
		CategoryInternet, CategoryTaxes, CategoryMaintenance, CategoryMarketing, CategoryOther:
		return true
	}
	return false
}

// Account cuenta por cobrar o por pagar. Se liquida una sola vez.
// Interest, Fine y Discount son informativos; el nominal es Amount.
type Account struct {
	ID             string
	Kind           AccountKind
	CounterpartyID string // cliente (cobrar) o proveedor (pagar; opcional)
	InvoiceID      string // opcional, solo cuentas por cobrar
	Description    string
	Amount         decimal.Decimal
	PaidAmount     decimal.Decimal
	Interest       decimal.Decimal
	Fine           decimal.Decimal
	Discount       decimal.Decimal
	Category       PayableCategory
	DocumentNumber string
	PaymentMethod  PaymentMethod
	DueDate        time.Time
	PaidDate       *time.Time
	Status         AccountStatus
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DaysUntilDue días hasta el vencimiento (negativo si ya venció).
func (a *Account) DaysUntilDue(today time.Time) int {
	return daysBetween(today, a.DueDate)
}
