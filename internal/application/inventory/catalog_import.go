package inventory

import (
	"context"

	"github.com/jhoicas/erp-ledger/internal/application/ports"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

// ImportResult conteo de una carga de catálogo.
type ImportResult struct {
	Products int
	Parties  int
	Skipped  int
	Opening  int // movimientos de saldo inicial
}

// ImportCatalog carga el maestro en una sola transacción. Productos y terceros
// que ya existen se omiten. Para cada producto nuevo se fijan umbrales y
// ubicación, y la existencia inicial entra como movimiento de ajuste para que
// quede en el diario.
func (uc *LedgerUseCase) ImportCatalog(ctx context.Context, actor entity.Actor, products []entity.Product, parties []entity.Party, stock []entity.StockRecord) (ImportResult, error) {
	if err := ports.Authorize(uc.authorizer, actor, ports.ActionImportCatalog); err != nil {
		return ImportResult{}, err
	}
	byProduct := make(map[string]entity.StockRecord, len(stock))
	for _, s := range stock {
		byProduct[s.ProductID] = s
	}

	var res ImportResult
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		res = ImportResult{}
		for i := range products {
			p := products[i]
			existing, err := r.Products.GetByID(ctx, p.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				res.Skipped++
				continue
			}
			if err := r.Products.Create(ctx, &p); err != nil {
				return err
			}
			res.Products++

			s, ok := byProduct[p.ID]
			if !ok {
				continue
			}
			rec, err := r.Stock.GetForUpdate(ctx, p.ID)
			if err != nil {
				return err
			}
			rec.MinQty, rec.MaxQty, rec.Location = s.MinQty, s.MaxQty, s.Location
			rec.UpdatedAt = uc.now()
			if err := r.Stock.Upsert(ctx, rec); err != nil {
				return err
			}
			if s.CurrentQty > 0 {
				if _, err := uc.ApplyInTx(ctx, r, actor, MovementInput{
					ProductID: p.ID,
					Direction: entity.DirectionIn,
					Qty:       s.CurrentQty,
					Reason:    entity.ReasonAdjustment,
					Notes:     "saldo inicial",
				}); err != nil {
					return err
				}
				res.Opening++
			}
		}
		for i := range parties {
			p := parties[i]
			existing, err := r.Parties.GetByID(ctx, p.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				res.Skipped++
				continue
			}
			if err := r.Parties.Create(ctx, &p); err != nil {
				return err
			}
			res.Parties++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	uc.log.Info().
		Int("products", res.Products).
		Int("parties", res.Parties).
		Int("skipped", res.Skipped).
		Str("actor", actor.ID).
		Msg("catálogo importado")
	return res, nil
}
