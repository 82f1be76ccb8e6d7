package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

// ReplenishmentUseCase lista de productos en o bajo su mínimo con la cantidad sugerida de compra.
type ReplenishmentUseCase struct {
	repos repository.Repos
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(repos repository.Repos) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{repos: repos}
}

// ListNeedsRestock devuelve los productos con needs_restock, del más urgente al menos urgente.
func (uc *ReplenishmentUseCase) ListNeedsRestock(ctx context.Context) ([]dto.RestockSuggestionDTO, error) {
	records, err := uc.repos.Stock.ListNeedsRestock(ctx)
	if err != nil {
		return nil, err
	}
	suggestions := make([]dto.RestockSuggestionDTO, 0, len(records))
	for _, rec := range records {
		product, err := uc.repos.Products.GetByID(ctx, rec.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.Active {
			continue
		}

		// Objetivo: llenar hasta el máximo; sin máximo, el doble del mínimo.
		target := rec.MaxQty
		if target <= 0 {
			target = 2 * rec.MinQty
		}
		suggested := target - rec.CurrentQty
		if suggested < 0 {
			suggested = 0
		}

		suggestions = append(suggestions, dto.RestockSuggestionDTO{
			ProductID:          rec.ProductID,
			ProductCode:        product.Code,
			ProductName:        product.Name,
			CurrentQty:         rec.CurrentQty,
			MinQty:             rec.MinQty,
			MaxQty:             rec.MaxQty,
			Status:             string(rec.Status()),
			SuggestedOrderQty:  suggested,
			UnitCost:           product.CostPrice,
			EstimatedOrderCost: product.CostPrice.Mul(decimal.NewFromInt(suggested)),
			MarginPct:          product.Margin(),
		})
	}

	// Primero los agotados, luego mayor déficit bajo el mínimo, luego mayor margen.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if (a.CurrentQty == 0) != (b.CurrentQty == 0) {
			return a.CurrentQty == 0
		}
		defA, defB := a.MinQty-a.CurrentQty, b.MinQty-b.CurrentQty
		if defA != defB {
			return defA > defB
		}
		return a.MarginPct.GreaterThan(b.MarginPct)
	})

	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
