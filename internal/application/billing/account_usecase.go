package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/application/ports"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/lifecycle"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
	"github.com/jhoicas/erp-ledger/pkg/logger"
)

// AccountUseCase cuentas por cobrar y por pagar.
// Una cuenta se liquida una sola vez y nunca por encima de su valor nominal.
type AccountUseCase struct {
	txRunner   ports.TxRunner
	repos      repository.Repos
	authorizer ports.Authorizer
	log        *logger.Logger
	now        func() time.Time
}

// NewAccountUseCase construye el caso de uso.
func NewAccountUseCase(txRunner ports.TxRunner, repos repository.Repos, authorizer ports.Authorizer, log *logger.Logger) *AccountUseCase {
	return &AccountUseCase{
		txRunner:   txRunner,
		repos:      repos,
		authorizer: authorizer,
		log:        log.Component("accounts"),
		now:        time.Now,
	}
}

type accountInput struct {
	description    string
	amount         decimal.Decimal
	interest       decimal.Decimal
	fine           decimal.Decimal
	discount       decimal.Decimal
	documentNumber string
	paymentMethod  string
	dueDate        time.Time
	notes          string
}

func (in accountInput) validate(fields map[string]string) {
	if in.description == "" {
		fields["description"] = "requerido"
	}
	if !in.amount.IsPositive() {
		fields["amount"] = "debe ser mayor que cero"
	}
	for name, v := range map[string]decimal.Decimal{"amount": in.amount, "interest": in.interest, "fine": in.fine, "discount": in.discount} {
		if name != "amount" && v.IsNegative() {
			fields[name] = "no puede ser negativo"
		}
		domain.CheckMoney(fields, name, v)
	}
	if in.paymentMethod != "" && !entity.PaymentMethod(in.paymentMethod).Valid() {
		fields["payment_method"] = "forma de pago desconocida"
	}
	if in.dueDate.IsZero() {
		fields["due_date"] = "requerido"
	}
}

func (uc *AccountUseCase) newAccount(kind entity.AccountKind, in accountInput) *entity.Account {
	now := uc.now()
	acc := &entity.Account{
		ID:             uuid.New().String(),
		Kind:           kind,
		Description:    in.description,
		Amount:         in.amount,
		PaidAmount:     decimal.Zero,
		Interest:       in.interest,
		Fine:           in.fine,
		Discount:       in.discount,
		DocumentNumber: in.documentNumber,
		PaymentMethod:  entity.PaymentMethod(in.paymentMethod),
		DueDate:        in.dueDate,
		Status:         entity.AccountOpen,
		Notes:          in.notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	// una cuenta recién creada ya vencida nace overdue
	if st, err := lifecycle.DeriveAccountStatus(acc, now); err == nil {
		acc.Status = st
	}
	return acc
}

// CreateReceivable cuenta por cobrar independiente, opcionalmente asociada a una factura.
func (uc *AccountUseCase) CreateReceivable(ctx context.Context, actor entity.Actor, in dto.CreateReceivableRequest) (*entity.Account, error) {
	if err := ports.Authorize(uc.authorizer, actor, ports.ActionManageAccount); err != nil {
		return nil, err
	}
	fields := map[string]string{}
	if in.CustomerID == "" {
		fields["customer_id"] = "requerido"
	}
	base := accountInput{
		description: in.Description, amount: in.Amount, interest: in.Interest, fine: in.Fine,
		discount: in.Discount, documentNumber: in.DocumentNumber, paymentMethod: in.PaymentMethod,
		dueDate: in.DueDate, notes: in.Notes,
	}
	base.validate(fields)
	if len(fields) > 0 {
		return nil, domain.ValidationFields(fields)
	}

	acc := uc.newAccount(entity.AccountReceivable, base)
	acc.CounterpartyID = in.CustomerID
	acc.InvoiceID = in.InvoiceID
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		if err := requireParty(ctx, r, in.CustomerID, entity.PartyClient); err != nil {
			return err
		}
		if in.InvoiceID != "" {
			inv, err := r.Invoices.GetByID(ctx, in.InvoiceID)
			if err != nil {
				return err
			}
			if inv == nil {
				return domain.NotFound("factura", in.InvoiceID)
			}
		}
		return r.Accounts.Create(ctx, acc)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("account_id", acc.ID).Str("kind", string(acc.Kind)).Str("amount", acc.Amount.String()).Msg("cuenta creada")
	return acc, nil
}

// CreatePayable cuenta por pagar. El proveedor es opcional.
func (uc *AccountUseCase) CreatePayable(ctx context.Context, actor entity.Actor, in dto.CreatePayableRequest) (*entity.Account, error) {
	if err := ports.Authorize(uc.authorizer, actor, ports.ActionManageAccount); err != nil {
		return nil, err
	}
	fields := map[string]string{}
	if !entity.PayableCategory(in.Category).Valid() {
		fields["category"] = "categoría desconocida"
	}
	base := accountInput{
		description: in.Description, amount: in.Amount, interest: in.Interest, fine: in.Fine,
		discount: in.Discount, documentNumber: in.DocumentNumber, paymentMethod: in.PaymentMethod,
		dueDate: in.DueDate, notes: in.Notes,
	}
	base.validate(fields)
	if len(fields) > 0 {
		return nil, domain.ValidationFields(fields)
	}

	acc := uc.newAccount(entity.AccountPayable, base)
	acc.CounterpartyID = in.SupplierID
	acc.Category = entity.PayableCategory(in.Category)
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		if in.SupplierID != "" {
			if err := requireParty(ctx, r, in.SupplierID, entity.PartySupplier); err != nil {
				return err
			}
		}
		return r.Accounts.Create(ctx, acc)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("account_id", acc.ID).Str("kind", string(acc.Kind)).Str("amount", acc.Amount.String()).Msg("cuenta creada")
	return acc, nil
}

// CreateReceivableFromInvoice cuenta por cobrar por el saldo de una factura:
// cliente del pedido, vencimiento y forma de pago de la factura.
func (uc *AccountUseCase) CreateReceivableFromInvoice(ctx context.Context, actor entity.Actor, invoiceID string) (*entity.Account, error) {
	if err := ports.Authorize(uc.authorizer, actor, ports.ActionManageAccount); err != nil {
		return nil, err
	}
	var acc *entity.Account
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		inv, err := lockInvoice(ctx, r, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status == entity.InvoiceCanceled || inv.Status == entity.InvoicePaid {
			return domain.StateTransition("la factura %s está %s", inv.Number, inv.Status)
		}
		order, err := r.Orders.GetByID(ctx, inv.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.NotFound("pedido", inv.OrderID)
		}
		acc = uc.newAccount(entity.AccountReceivable, accountInput{
			description:    "Factura " + inv.Number,
			amount:         inv.Balance(),
			documentNumber: inv.Number,
			paymentMethod:  string(inv.PaymentMethod),
			dueDate:        inv.DueDate,
		})
		acc.CounterpartyID = order.CustomerID
		acc.InvoiceID = inv.ID
		return r.Accounts.Create(ctx, acc)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("account_id", acc.ID).Str("invoice_id", acc.InvoiceID).Msg("cuenta por cobrar desde factura")
	return acc, nil
}

// SettleReceivable liquida una cuenta por cobrar. amount nil liquida por el nominal.
func (uc *AccountUseCase) SettleReceivable(ctx context.Context, actor entity.Actor, id string, amount *decimal.Decimal) (*entity.Account, error) {
	return uc.settle(ctx, actor, entity.AccountReceivable, id, amount)
}

// SettlePayable liquida una cuenta por pagar.
func (uc *AccountUseCase) SettlePayable(ctx context.Context, actor entity.Actor, id string, amount *decimal.Decimal) (*entity.Account, error) {
	return uc.settle(ctx, actor, entity.AccountPayable, id, amount)
}

func (uc *AccountUseCase) settle(ctx context.Context, actor entity.Actor, kind entity.AccountKind, id string, amount *decimal.Decimal) (*entity.Account, error) {
	if err := ports.Authorize(uc.authorizer, actor, ports.ActionSettleAccount); err != nil {
		return nil, err
	}
	var acc *entity.Account
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		a, err := lockAccount(ctx, r, kind, id)
		if err != nil {
			return err
		}
		next, err := lifecycle.Accounts.Fire(a.Status, lifecycle.Settle)
		if err != nil {
			return err
		}
		paid := a.Amount
		if amount != nil {
			paid = *amount
		}
		if !domain.HasScale(paid, domain.MoneyScale) {
			return domain.Validation("amount", "máximo 2 decimales")
		}
		if !paid.IsPositive() || paid.GreaterThan(a.Amount) {
			return domain.Validation("amount", "debe ser mayor que cero y no superar el nominal ("+a.Amount.StringFixed(2)+")")
		}
		now := uc.now()
		if a.Kind == entity.AccountReceivable && a.InvoiceID != "" {
			if err := uc.payLinkedInvoice(ctx, r, a.InvoiceID, paid, now); err != nil {
				return err
			}
		}
		a.PaidAmount = paid
		a.PaidDate = &now
		a.Status = next
		a.UpdatedAt = now
		if err := r.Accounts.Update(ctx, a); err != nil {
			return err
		}
		acc = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("account_id", acc.ID).
		Str("kind", string(acc.Kind)).
		Str("paid", acc.PaidAmount.String()).
		Str("actor", actor.ID).
		Msg("cuenta liquidada")
	return acc, nil
}

// payLinkedInvoice registra el pago en la factura asociada, acotado a su saldo.
// Una factura ya pagada o cancelada no recibe nada.
func (uc *AccountUseCase) payLinkedInvoice(ctx context.Context, r repository.Repos, invoiceID string, amount decimal.Decimal, now time.Time) error {
	inv, err := lockInvoice(ctx, r, invoiceID)
	if err != nil {
		return err
	}
	if inv.Status == entity.InvoicePaid || inv.Status == entity.InvoiceCanceled {
		return nil
	}
	pay := decimal.Min(amount, inv.Balance())
	if !pay.IsPositive() {
		return nil
	}
	if err := applyPayment(inv, pay, now); err != nil {
		return err
	}
	return r.Invoices.Update(ctx, inv)
}

// Cancel open/overdue -> canceled.
func (uc *AccountUseCase) Cancel(ctx context.Context, actor entity.Actor, kind entity.AccountKind, id string) (*entity.Account, error) {
	if err := ports.Authorize(uc.authorizer, actor, ports.ActionManageAccount); err != nil {
		return nil, err
	}
	var acc *entity.Account
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		a, err := lockAccount(ctx, r, kind, id)
		if err != nil {
			return err
		}
		if a.Status, err = lifecycle.Accounts.Fire(a.Status, lifecycle.Cancel); err != nil {
			return err
		}
		a.UpdatedAt = uc.now()
		if err := r.Accounts.Update(ctx, a); err != nil {
			return err
		}
		acc = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("account_id", acc.ID).Str("actor", actor.ID).Msg("cuenta cancelada")
	return acc, nil
}

// Recheck envejece la cuenta si su vencimiento ya pasó.
func (uc *AccountUseCase) Recheck(ctx context.Context, kind entity.AccountKind, id string) (*entity.Account, error) {
	var acc *entity.Account
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		a, err := lockAccount(ctx, r, kind, id)
		if err != nil {
			return err
		}
		now := uc.now()
		next, err := lifecycle.DeriveAccountStatus(a, now)
		if err != nil {
			return err
		}
		acc = a
		if next == a.Status {
			return nil
		}
		a.Status = next
		a.UpdatedAt = now
		return r.Accounts.Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// GetAccount cuenta por ID y tipo.
func (uc *AccountUseCase) GetAccount(ctx context.Context, kind entity.AccountKind, id string) (*entity.Account, error) {
	a, err := uc.repos.Accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil || a.Kind != kind {
		return nil, domain.NotFound(accountNoun(kind), id)
	}
	return a, nil
}

// ListOverdue cuentas open/overdue del tipo con vencimiento anterior a asOf.
func (uc *AccountUseCase) ListOverdue(ctx context.Context, kind entity.AccountKind, asOf time.Time) ([]*entity.Account, error) {
	if asOf.IsZero() {
		asOf = uc.now()
	}
	return uc.repos.Accounts.ListOverdue(ctx, kind, asOf)
}

func lockAccount(ctx context.Context, r repository.Repos, kind entity.AccountKind, id string) (*entity.Account, error) {
	a, err := r.Accounts.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil || a.Kind != kind {
		return nil, domain.NotFound(accountNoun(kind), id)
	}
	return a, nil
}

func accountNoun(kind entity.AccountKind) string {
	if kind == entity.AccountPayable {
		return "cuenta por pagar"
	}
	return "cuenta por cobrar"
}

func requireParty(ctx context.Context, r repository.Repos, id string, kind entity.PartyKind) error {
	p, err := r.Parties.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil || p.Kind != kind {
		if kind == entity.PartySupplier {
			return domain.NotFound("proveedor", id)
		}
		return domain.NotFound("cliente", id)
	}
	return nil
}
