package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/application/ports"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/erp-ledger/internal/domain/inventory"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
	"github.com/jhoicas/erp-ledger/pkg/logger"
)

// LedgerUseCase diario de movimientos y existencia por producto.
// Cada movimiento bloquea la fila de stock del producto (SELECT FOR UPDATE),
// aplica el delta y guarda el movimiento en la misma transacción.
type LedgerUseCase struct {
	txRunner   ports.TxRunner
	repos      repository.Repos
	authorizer ports.Authorizer
	log        *logger.Logger
	now        func() time.Time
}

// NewLedgerUseCase construye el caso de uso. repos son los repositorios de lectura (pool).
func NewLedgerUseCase(txRunner ports.TxRunner, repos repository.Repos, authorizer ports.Authorizer, log *logger.Logger) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:   txRunner,
		repos:      repos,
		authorizer: authorizer,
		log:        log.Component("ledger"),
		now:        time.Now,
	}
}

// MovementInput entrada para registrar un movimiento.
type MovementInput struct {
	ProductID string
	Direction entity.Direction
	Qty       int64
	Reason    entity.MovementReason
	Notes     string
	UnitCost  *decimal.Decimal // compra: recalcula el costo promedio del producto
}

func (in MovementInput) validate() error {
	fields := map[string]string{}
	if in.ProductID == "" {
		fields["product_id"] = "requerido"
	}
	if !in.Direction.Valid() {
		fields["direction"] = "debe ser in u out"
	}
	if in.Qty <= 0 {
		fields["quantity"] = "debe ser mayor que cero"
	}
	if !in.Reason.Valid() {
		fields["reason"] = "motivo desconocido"
	}
	if in.UnitCost != nil {
		switch {
		case in.Direction != entity.DirectionIn || in.Reason != entity.ReasonPurchase:
			fields["unit_cost"] = "solo aplica a entradas por compra"
		case in.UnitCost.IsNegative():
			fields["unit_cost"] = "no puede ser negativo"
		case !domain.HasScale(*in.UnitCost, domain.CostScale):
			fields["unit_cost"] = "máximo 4 decimales"
		}
	}
	if len(fields) > 0 {
		return domain.ValidationFields(fields)
	}
	return nil
}

// RecordMovement registra un movimiento en su propia transacción.
// Una salida mayor que la existencia falla con ErrInsufficientStock y no escribe nada.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, actor entity.Actor, in MovementInput) (*entity.Movement, error) {
	if err := ports.Authorize(uc.authorizer, actor, ports.ActionRecordMovement); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		m, err := uc.ApplyInTx(ctx, r, actor, in)
		mov = m
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("product_id", in.ProductID).
			Str("direction", string(in.Direction)).
			Int64("qty", in.Qty).
			Msg("movimiento rechazado")
		return nil, err
	}
	uc.log.Info().
		Str("product_id", mov.ProductID).
		Str("direction", string(mov.Direction)).
		Int64("prior_qty", mov.PriorQty).
		Int64("post_qty", mov.PostQty).
		Msg("movimiento registrado")
	return mov, nil
}

// ApplyInTx aplica el movimiento con los repositorios de la transacción del llamador
// (ej. despacho de un pedido). No valida permisos.
func (uc *LedgerUseCase) ApplyInTx(ctx context.Context, r repository.Repos, actor entity.Actor, in MovementInput) (*entity.Movement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	product, err := r.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", in.ProductID)
	}

	// Bloquea la fila de stock del producto hasta el commit
	rec, err := r.Stock.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	prior, post, err := rec.Apply(in.Direction, in.Qty, now)
	if err != nil {
		return nil, err
	}
	if err := r.Stock.Upsert(ctx, rec); err != nil {
		return nil, err
	}
	if in.UnitCost != nil {
		cost := domaininv.AverageCost(prior, product.CostPrice, in.Qty, *in.UnitCost)
		if err := r.Products.UpdateCost(ctx, product.ID, cost, now); err != nil {
			return nil, err
		}
	}
	mov := &entity.Movement{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		Direction: in.Direction,
		Qty:       in.Qty,
		Reason:    in.Reason,
		Notes:     in.Notes,
		Actor:     actor.ID,
		PriorQty:  prior,
		PostQty:   post,
		CreatedAt: now,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// GetStock existencia actual con estado derivado.
func (uc *LedgerUseCase) GetStock(ctx context.Context, productID string) (*dto.StockResponse, error) {
	product, err := uc.repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", productID)
	}
	rec, err := uc.repos.Stock.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toStockResponse(product, rec), nil
}

// SetThresholds fija mínimo, máximo y ubicación. max=0 significa sin máximo.
func (uc *LedgerUseCase) SetThresholds(ctx context.Context, actor entity.Actor, productID string, in dto.SetThresholdsRequest) (*dto.StockResponse, error) {
	if err := ports.Authorize(uc.authorizer, actor, ports.ActionSetThresholds); err != nil {
		return nil, err
	}
	fields := map[string]string{}
	if in.MinQty < 0 {
		fields["min_qty"] = "no puede ser negativo"
	}
	if in.MaxQty < 0 {
		fields["max_qty"] = "no puede ser negativo"
	} else if in.MaxQty > 0 && in.MaxQty < in.MinQty {
		fields["max_qty"] = "debe ser mayor o igual al mínimo"
	}
	if len(fields) > 0 {
		return nil, domain.ValidationFields(fields)
	}

	var out *dto.StockResponse
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		product, err := r.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NotFound("producto", productID)
		}
		rec, err := r.Stock.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		rec.MinQty = in.MinQty
		rec.MaxQty = in.MaxQty
		rec.Location = in.Location
		rec.UpdatedAt = uc.now()
		if err := r.Stock.Upsert(ctx, rec); err != nil {
			return err
		}
		out = toStockResponse(product, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListMovements diario de un producto, más recientes primero.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, productID string, from, to *time.Time, page dto.PageRequest) ([]dto.MovementResponse, error) {
	page.DefaultPage()
	movs, err := uc.repos.Movements.List(ctx, repository.MovementFilter{
		ProductID: productID,
		From:      from,
		To:        to,
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, ToMovementResponse(m))
	}
	return out, nil
}

// ToMovementResponse mapea un movimiento a su DTO.
func ToMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Direction: string(m.Direction),
		Quantity:  m.Qty,
		Reason:    string(m.Reason),
		Notes:     m.Notes,
		Actor:     m.Actor,
		PriorQty:  m.PriorQty,
		PostQty:   m.PostQty,
		CreatedAt: m.CreatedAt,
	}
}

func toStockResponse(p *entity.Product, rec *entity.StockRecord) *dto.StockResponse {
	return &dto.StockResponse{
		ProductID:    rec.ProductID,
		ProductCode:  p.Code,
		ProductName:  p.Name,
		CurrentQty:   rec.CurrentQty,
		MinQty:       rec.MinQty,
		MaxQty:       rec.MaxQty,
		Location:     rec.Location,
		NeedsRestock: rec.NeedsRestock(),
		Status:       string(rec.Status()),
		OccupancyPct: rec.OccupancyPct(),
		UpdatedAt:    rec.UpdatedAt,
	}
}
