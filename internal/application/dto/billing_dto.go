package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices.
// PaymentMethod vacío toma la forma de pago del pedido.
type CreateInvoiceRequest struct {
	OrderID       string    `json:"order_id" validate:"required"`
	DueDate       time.Time `json:"due_date" validate:"required"`
	PaymentMethod string    `json:"payment_method,omitempty" validate:"omitempty,oneof=cash credit_card debit_card pix bank_slip transfer"`
	Notes         string    `json:"notes,omitempty" validate:"max=1000"`
}

// RegisterPaymentRequest body para POST /api/invoices/:id/payments.
type RegisterPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// InvoiceResponse factura en respuestas.
type InvoiceResponse struct {
	ID            string          `json:"id"`
	Number        string          `json:"number"`
	OrderID       string          `json:"order_id"`
	Status        string          `json:"status"`
	Total         decimal.Decimal `json:"total"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Balance       decimal.Decimal `json:"balance"`
	PaymentMethod string          `json:"payment_method"`
	IssueDate     string          `json:"issue_date"`
	DueDate       string          `json:"due_date"`
	DaysUntilDue  int             `json:"days_until_due"`
	PaidDate      *time.Time      `json:"paid_date,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// CreateReceivableRequest body para POST /api/receivables.
type CreateReceivableRequest struct {
	CustomerID     string          `json:"customer_id" validate:"required"`
	InvoiceID      string          `json:"invoice_id,omitempty"`
	Description    string          `json:"description" validate:"required,max=255"`
	Amount         decimal.Decimal `json:"amount"`
	Interest       decimal.Decimal `json:"interest"`
	Fine           decimal.Decimal `json:"fine"`
	Discount       decimal.Decimal `json:"discount"`
	DocumentNumber string          `json:"document_number,omitempty"`
	PaymentMethod  string          `json:"payment_method,omitempty" validate:"omitempty,oneof=cash credit_card debit_card pix bank_slip transfer"`
	DueDate        time.Time       `json:"due_date" validate:"required"`
	Notes          string          `json:"notes,omitempty"`
}

// CreatePayableRequest body para POST /api/payables. SupplierID es opcional
// (salarios, servicios, impuestos).
type CreatePayableRequest struct {
	SupplierID     string          `json:"supplier_id,omitempty"`
	Category       string          `json:"category" validate:"required,oneof=supplier salary rent energy water internet taxes maintenance marketing other"`
	Description    string          `json:"description" validate:"required,max=255"`
	Amount         decimal.Decimal `json:"amount"`
	Interest       decimal.Decimal `json:"interest"`
	Fine           decimal.Decimal `json:"fine"`
	Discount       decimal.Decimal `json:"discount"`
	DocumentNumber string          `json:"document_number,omitempty"`
	PaymentMethod  string          `json:"payment_method,omitempty" validate:"omitempty,oneof=cash credit_card debit_card pix bank_slip transfer"`
	DueDate        time.Time       `json:"due_date" validate:"required"`
	Notes          string          `json:"notes,omitempty"`
}

// SettleRequest body para POST /api/{receivables,payables}/:id/settle.
// Amount nil liquida por el valor nominal.
type SettleRequest struct {
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// AccountResponse cuenta por cobrar o por pagar.
type AccountResponse struct {
	ID             string          `json:"id"`
	Kind           string          `json:"kind"`
	CounterpartyID string          `json:"counterparty_id,omitempty"`
	InvoiceID      string          `json:"invoice_id,omitempty"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	Interest       decimal.Decimal `json:"interest"`
	Fine           decimal.Decimal `json:"fine"`
	Discount       decimal.Decimal `json:"discount"`
	Category       string          `json:"category,omitempty"`
	DocumentNumber string          `json:"document_number,omitempty"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	Status         string          `json:"status"`
	DueDate        string          `json:"due_date"`
	DaysUntilDue   int             `json:"days_until_due"`
	PaidDate       *time.Time      `json:"paid_date,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

// NumberResponse respuesta de POST /api/numbering/:docType/next.
type NumberResponse struct {
	DocumentType string `json:"document_type"`
	Number       string `json:"number"`
}

// NextNumberRequest body opcional; año/mes en cero toman el mes actual.
type NextNumberRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}
