package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/application/numbering"
	"github.com/jhoicas/erp-ledger/internal/application/ports"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/lifecycle"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
	"github.com/jhoicas/erp-ledger/pkg/logger"
)

// InvoiceUseCase emisión, pagos y envejecimiento de facturas.
// Una factura por pedido; su total es una foto del total del pedido al emitir.
type InvoiceUseCase struct {
	txRunner   ports.TxRunner
	repos      repository.Repos
	numbers    *numbering.Authority
	authorizer ports.Authorizer
	log        *logger.Logger
	now        func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner ports.TxRunner,
	repos repository.Repos,
	numbers *numbering.Authority,
	authorizer ports.Authorizer,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:   txRunner,
		repos:      repos,
		numbers:    numbers,
		authorizer: authorizer,
		log:        log.Component("invoices"),
		now:        time.Now,
	}
}

// CreateInvoice emite la factura de un pedido. El pedido queda bloqueado durante la
// emisión, así que dos emisiones concurrentes para el mismo pedido se serializan y la
// segunda recibe ErrConflict.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, actor entity.Actor, in dto.CreateInvoiceRequest) (*entity.Invoice, error) {
	if err := ports.Authorize(uc.authorizer, actor, ports.ActionIssueInvoice); err != nil {
		return nil, err
	}
	fields := map[string]string{}
	if in.OrderID == "" {
		fields["order_id"] = "requerido"
	}
	if in.DueDate.IsZero() {
		fields["due_date"] = "requerido"
	}
	if in.PaymentMethod != "" && !entity.PaymentMethod(in.PaymentMethod).Valid() {
		fields["payment_method"] = "forma de pago desconocida"
	}
	if len(fields) > 0 {
		return nil, domain.ValidationFields(fields)
	}

	var inv *entity.Invoice
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		order, err := r.Orders.GetForUpdate(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.NotFound("pedido", in.OrderID)
		}
		if order.Status == entity.OrderCanceled {
			return domain.StateTransition("el pedido %s está cancelado; no se puede facturar", order.Number)
		}
		existing, err := r.Invoices.GetByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.Conflict("el pedido %s ya tiene la factura %s", order.Number, existing.Number)
		}
		if !order.Total.IsPositive() {
			return domain.Validation("total", "el total del pedido debe ser mayor que cero")
		}

		now := uc.now()
		number, err := uc.numbers.Issue(ctx, r.Sequences, numbering.DocInvoice, now)
		if err != nil {
			return err
		}
		method := entity.PaymentMethod(in.PaymentMethod)
		if method == "" {
			method = order.PaymentMethod
		}
		i := &entity.Invoice{
			ID:            uuid.New().String(),
			Number:        number,
			OrderID:       order.ID,
			Status:        entity.InvoicePending,
			Total:         order.Total,
			PaidAmount:    decimal.Zero,
			PaymentMethod: method,
			IssueDate:     now,
			DueDate:       in.DueDate,
			Notes:         in.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if i.Status, err = lifecycle.DeriveInvoiceStatus(i, now); err != nil {
			return err
		}
		if err := r.Invoices.Create(ctx, i); err != nil {
			return err
		}
		inv = i
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("number", inv.Number).
		Str("order_id", inv.OrderID).
		Str("total", inv.Total.String()).
		Msg("factura emitida")
	return inv, nil
}

// RegisterPayment abona a la factura. paid + amount no puede superar el total.
func (uc *InvoiceUseCase) RegisterPayment(ctx context.Context, actor entity.Actor, invoiceID string, amount decimal.Decimal) (*entity.Invoice, error) {
	if err := ports.Authorize(uc.authorizer, actor, ports.ActionRegisterPayment); err != nil {
		return nil, err
	}
	var inv *entity.Invoice
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		i, err := lockInvoice(ctx, r, invoiceID)
		if err != nil {
			return err
		}
		if err := applyPayment(i, amount, uc.now()); err != nil {
			return err
		}
		if err := r.Invoices.Update(ctx, i); err != nil {
			return err
		}
		inv = i
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("amount", amount.String()).
		Str("status", string(inv.Status)).
		Msg("pago registrado")
	return inv, nil
}

// Recheck vuelve a derivar el estado (envejecimiento) y lo persiste si cambió.
func (uc *InvoiceUseCase) Recheck(ctx context.Context, invoiceID string) (*entity.Invoice, error) {
	var inv *entity.Invoice
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		i, err := lockInvoice(ctx, r, invoiceID)
		if err != nil {
			return err
		}
		now := uc.now()
		next, err := lifecycle.DeriveInvoiceStatus(i, now)
		if err != nil {
			return err
		}
		inv = i
		if next == i.Status {
			return nil
		}
		uc.log.Info().Str("invoice_id", i.ID).Str("from", string(i.Status)).Str("to", string(next)).Msg("factura reevaluada")
		i.Status = next
		i.UpdatedAt = now
		return r.Invoices.Update(ctx, i)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Cancel pending/overdue -> canceled.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, actor entity.Actor, invoiceID string) (*entity.Invoice, error) {
	if err := ports.Authorize(uc.authorizer, actor, ports.ActionCancelInvoice); err != nil {
		return nil, err
	}
	var inv *entity.Invoice
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		i, err := lockInvoice(ctx, r, invoiceID)
		if err != nil {
			return err
		}
		if i.Status, err = lifecycle.Invoices.Fire(i.Status, lifecycle.Cancel); err != nil {
			return err
		}
		i.UpdatedAt = uc.now()
		if err := r.Invoices.Update(ctx, i); err != nil {
			return err
		}
		inv = i
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("invoice_id", inv.ID).Str("actor", actor.ID).Msg("factura cancelada")
	return inv, nil
}

// GetInvoice factura por ID.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.repos.Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NotFound("factura", id)
	}
	return inv, nil
}

// ListOverdue facturas pending/overdue con vencimiento anterior a asOf.
func (uc *InvoiceUseCase) ListOverdue(ctx context.Context, asOf time.Time) ([]*entity.Invoice, error) {
	if asOf.IsZero() {
		asOf = uc.now()
	}
	return uc.repos.Invoices.ListOverdue(ctx, asOf)
}

// applyPayment suma amount al pagado y deriva el estado. No persiste.
func applyPayment(inv *entity.Invoice, amount decimal.Decimal, now time.Time) error {
	if inv.Status == entity.InvoiceCanceled || inv.Status == entity.InvoicePaid {
		return domain.StateTransition("la factura %s está %s; no admite pagos", inv.Number, inv.Status)
	}
	if !amount.IsPositive() {
		return domain.Validation("amount", "debe ser mayor que cero")
	}
	if !domain.HasScale(amount, domain.MoneyScale) {
		return domain.Validation("amount", "máximo 2 decimales")
	}
	if inv.PaidAmount.Add(amount).GreaterThan(inv.Total) {
		return domain.Validation("amount", "supera el saldo de la factura ("+inv.Balance().StringFixed(2)+")")
	}
	inv.PaidAmount = inv.PaidAmount.Add(amount)
	next, err := lifecycle.DeriveInvoiceStatus(inv, now)
	if err != nil {
		return err
	}
	inv.Status = next
	if next == entity.InvoicePaid {
		inv.PaidDate = &now
	}
	inv.UpdatedAt = now
	return nil
}

func lockInvoice(ctx context.Context, r repository.Repos, id string) (*entity.Invoice, error) {
	inv, err := r.Invoices.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NotFound("factura", id)
	}
	return inv, nil
}
