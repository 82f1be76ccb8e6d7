package lifecycle

import (
	"time"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// Eventos de factura y de cuentas.
const (
	Pay    Event = "pay"
	Age    Event = "age"
	Cancel Event = "cancel"
)

// Invoices máquina de estados de la factura.
var Invoices = newMachine("factura", map[entity.InvoiceStatus]map[Event]entity.InvoiceStatus{
	entity.InvoicePending: {
		Pay:    entity.InvoicePaid,
		Age:    entity.InvoiceOverdue,
		Cancel: entity.InvoiceCanceled,
	},
	entity.InvoiceOverdue: {
		Pay:    entity.InvoicePaid,
		Cancel: entity.InvoiceCanceled,
	},
}, entity.InvoicePaid, entity.InvoiceCanceled)

// DeriveInvoiceStatus se evalúa en cada escritura de la factura:
// pagado >= total -> paid; si no, vencida y pending -> overdue; si no, sin cambio.
func DeriveInvoiceStatus(inv *entity.Invoice, today time.Time) (entity.InvoiceStatus, error) {
	if inv.Status == entity.InvoiceCanceled {
		return inv.Status, nil
	}
	if inv.PaidAmount.GreaterThanOrEqual(inv.Total) {
		if inv.Status == entity.InvoicePaid {
			return inv.Status, nil
		}
		return Invoices.Fire(inv.Status, Pay)
	}
	if inv.Status == entity.InvoicePending && entity.Truncate(inv.DueDate).Before(entity.Truncate(today)) {
		return Invoices.Fire(inv.Status, Age)
	}
	return inv.Status, nil
}
