package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-ledger/internal/application/inventory"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/infrastructure/memory"
)

func TestListNeedsRestock_OrdenYCantidadSugerida(t *testing.T) {
	store := memory.NewStore()
	store.Seed([]entity.Product{
		{ID: "a", Code: "A", CostPrice: decimal.NewFromInt(10), SalePrice: decimal.NewFromInt(15), Active: true},
		{ID: "b", Code: "B", CostPrice: decimal.NewFromInt(4), SalePrice: decimal.NewFromInt(5), Active: true},
		{ID: "c", Code: "C", CostPrice: decimal.NewFromInt(1), SalePrice: decimal.NewFromInt(2), Active: true},
		{ID: "d", Code: "D", CostPrice: decimal.NewFromInt(1), SalePrice: decimal.NewFromInt(2), Active: false},
	}, nil, []entity.StockRecord{
		{ProductID: "a", CurrentQty: 3, MinQty: 5, MaxQty: 20},  // déficit 2
		{ProductID: "b", CurrentQty: 0, MinQty: 5},              // agotado
		{ProductID: "c", CurrentQty: 50, MinQty: 5, MaxQty: 80}, // no necesita
		{ProductID: "d", CurrentQty: 0, MinQty: 5},              // inactivo
	})
	uc := inventory.NewReplenishmentUseCase(store.Repos())

	list, err := uc.ListNeedsRestock(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "b", list[0].ProductID)
	assert.Equal(t, 1, list[0].Priority)
	assert.Equal(t, int64(10), list[0].SuggestedOrderQty, "sin máximo: 2*min - actual")
	assert.True(t, decimal.NewFromInt(40).Equal(list[0].EstimatedOrderCost))

	assert.Equal(t, "a", list[1].ProductID)
	assert.Equal(t, int64(17), list[1].SuggestedOrderQty, "con máximo: max - actual")
	assert.True(t, decimal.NewFromInt(50).Equal(list[1].MarginPct))
}
