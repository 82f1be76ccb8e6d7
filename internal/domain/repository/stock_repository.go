package repository

import (
	"context"
	"time"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// StockRepository existencia por producto. Get y GetForUpdate devuelven un registro
// en cero si el producto aún no tiene fila.
type StockRepository interface {
	Get(ctx context.Context, productID string) (*entity.StockRecord, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, productID string) (*entity.StockRecord, error)
	Upsert(ctx context.Context, rec *entity.StockRecord) error
	ListNeedsRestock(ctx context.Context) ([]*entity.StockRecord, error)
}

// MovementFilter filtros del diario de movimientos.
type MovementFilter struct {
	ProductID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// MovementRepository diario append-only de movimientos.
type MovementRepository interface {
	Create(ctx context.Context, m *entity.Movement) error
	// List devuelve los movimientos del producto, más recientes primero.
	List(ctx context.Context, f MovementFilter) ([]*entity.Movement, error)
}
