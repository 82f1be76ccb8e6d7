package repository

import (
	"context"
	"time"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// InvoiceRepository facturas. Create falla con domain.ErrConflict si el pedido ya tiene factura.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	GetByOrderID(ctx context.Context, orderID string) (*entity.Invoice, error)
	Update(ctx context.Context, inv *entity.Invoice) error
	// ListOverdue status en (pending, overdue) y due_date < asOf.
	ListOverdue(ctx context.Context, asOf time.Time) ([]*entity.Invoice, error)
}

// AccountRepository cuentas por cobrar y por pagar.
type AccountRepository interface {
	Create(ctx context.Context, acc *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Account, error)
	Update(ctx context.Context, acc *entity.Account) error
	// ListOverdue status en (open, overdue) y due_date < asOf.
	ListOverdue(ctx context.Context, kind entity.AccountKind, asOf time.Time) ([]*entity.Account, error)
}

// SequenceRepository contador atómico por (tipo de documento, año, mes).
type SequenceRepository interface {
	// Increment suma 1 y devuelve el nuevo valor en una sola operación atómica.
	Increment(ctx context.Context, docType string, year, month int) (int64, error)
}
