package inventory_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/erp-ledger/internal/application/auth"
	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/application/inventory"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
	"github.com/jhoicas/erp-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/erp-ledger/pkg/logger"
)

var bodeguero = entity.Actor{ID: "u-bod", Role: entity.RoleBodeguero}

func setup(t *testing.T, stock ...entity.StockRecord) (*inventory.LedgerUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.Seed([]entity.Product{
		{ID: "p1", Code: "SKU-1", Name: "Tornillo", CostPrice: decimal.NewFromInt(2), SalePrice: decimal.NewFromInt(3), Active: true},
		{ID: "p2", Code: "SKU-2", Name: "Tuerca", CostPrice: decimal.NewFromInt(1), SalePrice: decimal.NewFromInt(2), Active: true},
	}, nil, stock)
	uc := inventory.NewLedgerUseCase(store, store.Repos(), auth.NewRolePolicy(), logger.Nop())
	return uc, store
}

func out(productID string, qty int64) inventory.MovementInput {
	return inventory.MovementInput{ProductID: productID, Direction: entity.DirectionOut, Qty: qty, Reason: entity.ReasonSale}
}

func TestRecordMovement_Escenario10_7_2(t *testing.T) {
	uc, store := setup(t, entity.StockRecord{ProductID: "p1", CurrentQty: 10, MinQty: 5})
	ctx := context.Background()

	m, err := uc.RecordMovement(ctx, bodeguero, out("p1", 3))
	require.NoError(t, err)
	assert.Equal(t, int64(10), m.PriorQty)
	assert.Equal(t, int64(7), m.PostQty)
	assert.Equal(t, "u-bod", m.Actor)
	st, err := uc.GetStock(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "normal", st.Status)

	_, err = uc.RecordMovement(ctx, bodeguero, out("p1", 5))
	require.NoError(t, err)
	st, err = uc.GetStock(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.CurrentQty)
	assert.Equal(t, "low", st.Status)
	assert.True(t, st.NeedsRestock)

	_, err = uc.RecordMovement(ctx, bodeguero, out("p1", 5))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	st, err = uc.GetStock(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.CurrentQty, "el fallo no modifica la existencia")
	movs, err := store.Repos().Movements.List(ctx, repository.MovementFilter{ProductID: "p1"})
	require.NoError(t, err)
	assert.Len(t, movs, 2, "el movimiento rechazado no queda en el diario")
}

func TestRecordMovement_PostIgualPriorMasMenosQty(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()
	inputs := []inventory.MovementInput{
		{ProductID: "p2", Direction: entity.DirectionIn, Qty: 20, Reason: entity.ReasonPurchase},
		out("p2", 4),
		{ProductID: "p2", Direction: entity.DirectionIn, Qty: 1, Reason: entity.ReasonReturn},
		out("p2", 17),
	}
	for _, in := range inputs {
		_, err := uc.RecordMovement(ctx, bodeguero, in)
		require.NoError(t, err)
	}

	movs, err := store.Repos().Movements.List(ctx, repository.MovementFilter{ProductID: "p2"})
	require.NoError(t, err)
	require.Len(t, movs, 4)
	for _, m := range movs {
		if m.Direction == entity.DirectionIn {
			assert.Equal(t, m.PriorQty+m.Qty, m.PostQty)
		} else {
			assert.Equal(t, m.PriorQty-m.Qty, m.PostQty)
		}
	}
	st, err := uc.GetStock(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, movs[0].PostQty, st.CurrentQty, "la existencia coincide con el último post_qty")
	assert.Equal(t, int64(0), st.CurrentQty)
	assert.Equal(t, "out_of_stock", st.Status)
}

func TestRecordMovement_Validaciones(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	_, err := uc.RecordMovement(ctx, bodeguero, inventory.MovementInput{ProductID: "p1", Direction: "in", Qty: 0, Reason: "compra"})
	require.ErrorIs(t, err, domain.ErrValidation)
	fields := domain.FieldErrors(err)
	assert.Contains(t, fields, "quantity")
	assert.Contains(t, fields, "reason")

	_, err = uc.RecordMovement(ctx, bodeguero, out("no-existe", 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.RecordMovement(ctx, entity.Actor{ID: "x", Role: entity.RoleFinanzas}, out("p1", 1))
	assert.ErrorIs(t, err, domain.ErrPermission)
}

func TestRecordMovement_SalidasConcurrentesNuncaNegativo(t *testing.T) {
	uc, _ := setup(t, entity.StockRecord{ProductID: "p1", CurrentQty: 10})
	ctx := context.Background()

	var ok, rejected atomic.Int32
	var g errgroup.Group
	for i := 0; i < 25; i++ {
		g.Go(func() error {
			_, err := uc.RecordMovement(ctx, bodeguero, out("p1", 1))
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(10), ok.Load())
	assert.Equal(t, int32(15), rejected.Load())
	st, err := uc.GetStock(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), st.CurrentQty)
}

func TestSetThresholds(t *testing.T) {
	uc, _ := setup(t, entity.StockRecord{ProductID: "p1", CurrentQty: 40})
	ctx := context.Background()

	st, err := uc.SetThresholds(ctx, bodeguero, "p1", dto.SetThresholdsRequest{MinQty: 10, MaxQty: 40, Location: "A-01"})
	require.NoError(t, err)
	assert.Equal(t, "full", st.Status)
	assert.Equal(t, "A-01", st.Location)
	assert.True(t, decimal.NewFromInt(100).Equal(st.OccupancyPct))

	_, err = uc.SetThresholds(ctx, bodeguero, "p1", dto.SetThresholdsRequest{MinQty: 10, MaxQty: 5})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListMovements_Paginado(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := uc.RecordMovement(ctx, bodeguero, inventory.MovementInput{
			ProductID: "p1", Direction: entity.DirectionIn, Qty: int64(i + 1), Reason: entity.ReasonPurchase,
		})
		require.NoError(t, err)
	}
	page, err := uc.ListMovements(ctx, "p1", nil, nil, dto.PageRequest{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(4), page[0].Quantity, "más recientes primero")
	assert.Equal(t, int64(3), page[1].Quantity)
}

func TestRecordMovement_CompraPromediaElCosto(t *testing.T) {
	uc, store := setup(t, entity.StockRecord{ProductID: "p1", CurrentQty: 10})
	ctx := context.Background()
	cost := decimal.NewFromInt(4)

	_, err := uc.RecordMovement(ctx, bodeguero, inventory.MovementInput{
		ProductID: "p1", Direction: entity.DirectionIn, Qty: 10, Reason: entity.ReasonPurchase, UnitCost: &cost,
	})
	require.NoError(t, err)
	p, err := store.Repos().Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(3).Equal(p.CostPrice), "(10*2 + 10*4) / 20, got %s", p.CostPrice)

	_, err = uc.RecordMovement(ctx, bodeguero, inventory.MovementInput{
		ProductID: "p1", Direction: entity.DirectionOut, Qty: 1, Reason: entity.ReasonSale, UnitCost: &cost,
	})
	assert.Equal(t, "unit_cost", firstField(err))
}

func firstField(err error) string {
	for k := range domain.FieldErrors(err) {
		return k
	}
	return ""
}
