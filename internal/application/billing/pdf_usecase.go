package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

// PDFUseCase genera la representación impresa (PDF) de una factura.
type PDFUseCase struct {
	repos     repository.Repos
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(repos repository.Repos, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{repos: repos, generator: generator}
}

// InvoicePDF arma el documento (factura, pedido, cliente y líneas) y lo pasa al generador.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura, su pedido o el cliente no existen.
func (uc *PDFUseCase) InvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.repos.Invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.NotFound("factura", invoiceID)
	}

	order, err := uc.repos.Orders.GetByID(ctx, inv.OrderID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener pedido: %w", err)
	}
	if order == nil {
		return nil, "", domain.NotFound("pedido", inv.OrderID)
	}

	customer, err := uc.repos.Parties.GetByID(ctx, order.CustomerID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if customer == nil {
		return nil, "", domain.NotFound("cliente", order.CustomerID)
	}

	lines := make([]InvoiceLineForPDF, 0, len(order.Lines))
	for _, l := range order.Lines {
		row := InvoiceLineForPDF{OrderLine: l, ProductCode: l.ProductID, ProductName: "Producto " + l.ProductID}
		if p, pErr := uc.repos.Products.GetByID(ctx, l.ProductID); pErr == nil && p != nil {
			row.ProductCode = p.Code
			row.ProductName = p.Name
		}
		lines = append(lines, row)
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, InvoiceDocument{
		Invoice:  inv,
		Order:    order,
		Customer: customer,
		Lines:    lines,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", inv.Number), nil
}
