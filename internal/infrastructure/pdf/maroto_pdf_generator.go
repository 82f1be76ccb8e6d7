// Package pdf genera la representación impresa de una factura.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor             │  N° Factura + Emisión/Vence   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + NIT/CC + contacto  │ Pedido + forma pago │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Código | Descripción | P.Unit | Desc | Total │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / Flete / TOTAL / Saldo      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	appbilling "github.com/jhoicas/erp-ledger/internal/application/billing"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var statusLabels = map[entity.InvoiceStatus]string{
	entity.InvoicePending:  "PENDIENTE",
	entity.InvoicePaid:     "PAGADA",
	entity.InvoiceOverdue:  "VENCIDA",
	entity.InvoiceCanceled: "ANULADA",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	issuer  string
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador. issuer es el nombre que encabeza el documento.
func NewMarotoPDFGenerator(issuer string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{
		issuer:  nonEmpty(issuer, "ERP"),
		printer: message.NewPrinter(language.Spanish),
	}
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, doc appbilling.InvoiceDocument) ([]byte, error) {
	if doc.Invoice == nil || doc.Order == nil {
		return nil, fmt.Errorf("pdf: factura y pedido son obligatorios")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+doc.Invoice.Number, true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(doc.Invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.customerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range g.tableLineRows(doc.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(doc.Invoice, doc.Order))

	if doc.Invoice.Notes != "" {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Notas: "+doc.Invoice.Notes, props.Text{Size: 8, Top: 3, Color: colorGray}),
		)))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) headerRow(inv *entity.Invoice) core.Row {
	statusColor := colorGray
	if inv.Status == entity.InvoiceOverdue || inv.Status == entity.InvoiceCanceled {
		statusColor = colorDanger
	}
	return row.New(22).Add(
		col.New(7).Add(
			text.New(g.issuer, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(statusLabels[inv.Status], props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 10, Color: statusColor,
			}),
		),
		col.New(5).Add(
			text.New("FACTURA DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(inv.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Emisión: "+inv.IssueDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Vence: "+inv.DueDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 17, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoPDFGenerator) customerRow(doc appbilling.InvoiceDocument) core.Row {
	name, taxID, email, phone := "-", "-", "-", "-"
	if c := doc.Customer; c != nil {
		name = nonEmpty(c.Name, "-")
		taxID = nonEmpty(c.TaxID, "-")
		email = nonEmpty(c.Email, "-")
		phone = nonEmpty(c.Phone, "-")
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("NIT/CC: %s   |   Email: %s   |   Tel: %s", taxID, email, phone),
				props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Pedido "+doc.Order.Number, props.Text{
				Size: 8, Align: align.Right, Top: 6,
			}),
			text.New("Forma de pago: "+nonEmpty(string(doc.Invoice.PaymentMethod), "-"), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Código", 2, align.Left),
		h("Descripción", 4, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Desc.", 1, align.Right),
		h("Total", 2, align.Right),
	)
}

func (g *MarotoPDFGenerator) tableLineRows(lines []appbilling.InvoiceLineForPDF) []core.Row {
	cell := func(s string, a align.Type) core.Component {
		return text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1})
	}
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(cell(g.printer.Sprintf("%d", l.Qty), align.Center)),
			col.New(2).Add(cell(l.ProductCode, align.Left)),
			col.New(4).Add(cell(nonEmpty(l.ProductName, l.ProductID), align.Left)),
			col.New(2).Add(cell(g.money(l.UnitPrice), align.Right)),
			col.New(1).Add(cell(g.money(l.Discount), align.Right)),
			col.New(2).Add(cell(g.money(l.LineTotal), align.Right)),
		))
	}
	return result
}

func (g *MarotoPDFGenerator) totalsRow(inv *entity.Invoice, o *entity.Order) core.Row {
	labels := []string{"Subtotal:", "Descuento:", "Flete:", "TOTAL:", "Pagado:", "Saldo:"}
	values := []decimal.Decimal{o.Subtotal, o.Discount.Neg(), o.Freight, inv.Total, inv.PaidAmount, inv.Balance()}

	left, right := col.New(3), col.New(3)
	for i := range labels {
		top := float64(i) * 5
		style, color := fontstyle.Normal, colorGray
		if labels[i] == "TOTAL:" || labels[i] == "Saldo:" {
			style, color = fontstyle.Bold, colorPrimary
		}
		left.Add(text.New(labels[i], props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		}))
		right.Add(text.New(g.money(values[i]), props.Text{
			Style: style, Size: 9, Align: align.Right, Right: 1, Top: top, Color: color,
		}))
	}
	return row.New(32).Add(col.New(6), left, right)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea con separadores del español: 1234.5 → "$1.234,50".
func (g *MarotoPDFGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
