package ports

import (
	"context"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, con repositorios atados a ella.
// Si fn devuelve error se hace Rollback y ningún cambio queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, r repository.Repos) error) error
}

// Acciones autorizables del núcleo.
const (
	ActionRecordMovement  = "stock.record_movement"
	ActionSetThresholds   = "stock.set_thresholds"
	ActionManageOrder     = "order.manage"
	ActionAdvanceOrder    = "order.advance"
	ActionCancelOrder     = "order.cancel"
	ActionIssueInvoice    = "invoice.issue"
	ActionRegisterPayment = "invoice.register_payment"
	ActionCancelInvoice   = "invoice.cancel"
	ActionManageAccount   = "account.manage"
	ActionSettleAccount   = "account.settle"
	ActionIssueNumber     = "numbering.issue"
	ActionImportCatalog   = "catalog.import"
)

// Authorizer responde "¿puede este actor ejecutar esta acción?".
// Devuelve nil o un error domain.ErrPermission.
type Authorizer interface {
	Authorize(actor entity.Actor, action string) error
}

// Authorize aplica el authorizer si existe; sin authorizer se permite todo.
func Authorize(a Authorizer, actor entity.Actor, action string) error {
	if a == nil {
		return nil
	}
	return a.Authorize(actor, action)
}
