package billing

import (
	"context"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// InvoiceLineForPDF línea del pedido con los datos del producto para imprimir.
type InvoiceLineForPDF struct {
	entity.OrderLine
	ProductCode string
	ProductName string
}

// InvoiceDocument todo lo necesario para la representación impresa de una factura.
type InvoiceDocument struct {
	Invoice  *entity.Invoice
	Order    *entity.Order
	Customer *entity.Party
	Lines    []InvoiceLineForPDF
}

// InvoicePDFGenerator genera el PDF de una factura. Implementación en infrastructure/pdf.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}
