package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// ProductRepository puerto de lectura (y alta mínima) del maestro de productos.
// UpdateCost solo la usa el diario al promediar el costo de una compra.
// GetByID devuelve (nil, nil) si no existe.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Create(ctx context.Context, p *entity.Product) error
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal, at time.Time) error
}

// PartyRepository puerto del maestro de clientes y proveedores.
type PartyRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Party, error)
	Create(ctx context.Context, p *entity.Party) error
}
