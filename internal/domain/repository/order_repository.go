package repository

import (
	"context"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// OrderRepository pedidos y sus líneas. GetByID y GetForUpdate cargan las líneas
// ordenadas por posición y devuelven (nil, nil) si no existe.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea la cabecera; las líneas leídas después son una foto consistente.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// Update persiste cabecera: estado, cargos y totales.
	Update(ctx context.Context, o *entity.Order) error
	CreateLine(ctx context.Context, l *entity.OrderLine) error
	UpdateLine(ctx context.Context, l *entity.OrderLine) error
	DeleteLine(ctx context.Context, orderID, lineID string) error
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*entity.Order, error)
}
