package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

func TestStockRecord_Escenario_10_7_2_Falla(t *testing.T) {
	s := &entity.StockRecord{ProductID: "p1", CurrentQty: 10, MinQty: 5}
	now := time.Now()

	prior, post, err := s.Apply(entity.DirectionOut, 3, now)
	require.NoError(t, err)
	assert.Equal(t, int64(10), prior)
	assert.Equal(t, int64(7), post)
	assert.Equal(t, entity.StockNormal, s.Status())

	_, post, err = s.Apply(entity.DirectionOut, 5, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), post)
	assert.True(t, s.NeedsRestock())
	assert.Equal(t, entity.StockLow, s.Status())

	_, _, err = s.Apply(entity.DirectionOut, 5, now)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(2), s.CurrentQty, "una salida rechazada no modifica la existencia")
}

func TestStockRecord_Status(t *testing.T) {
	cases := []struct {
		name string
		rec  entity.StockRecord
		want entity.StockStatus
	}{
		{"agotado aunque min=0", entity.StockRecord{CurrentQty: 0, MinQty: 0}, entity.StockOutOfStock},
		{"bajo igual al minimo", entity.StockRecord{CurrentQty: 5, MinQty: 5}, entity.StockLow},
		{"lleno", entity.StockRecord{CurrentQty: 100, MinQty: 5, MaxQty: 100}, entity.StockFull},
		{"sin maximo nunca lleno", entity.StockRecord{CurrentQty: 1000, MinQty: 5}, entity.StockNormal},
		{"normal", entity.StockRecord{CurrentQty: 50, MinQty: 5, MaxQty: 100}, entity.StockNormal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.rec.Status())
		})
	}
}

func TestStockRecord_ApplyValida(t *testing.T) {
	s := &entity.StockRecord{ProductID: "p1", CurrentQty: 4}
	_, _, err := s.Apply(entity.DirectionIn, 0, time.Now())
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, _, err = s.Apply(entity.Direction("sideways"), 1, time.Now())
	assert.ErrorIs(t, err, domain.ErrValidation)

	prior, post, err := s.Apply(entity.DirectionIn, 6, time.Now())
	require.NoError(t, err)
	assert.Equal(t, prior+6, post)
	assert.Equal(t, int64(10), s.CurrentQty)
}

func TestStockRecord_OccupancyPct(t *testing.T) {
	s := entity.StockRecord{CurrentQty: 25, MaxQty: 200}
	assert.True(t, decimal.RequireFromString("12.5").Equal(s.OccupancyPct()))
	s.MaxQty = 0
	assert.True(t, s.OccupancyPct().IsZero())
}

func TestProduct_Margin(t *testing.T) {
	p := entity.Product{CostPrice: decimal.NewFromInt(80), SalePrice: decimal.NewFromInt(100)}
	assert.True(t, decimal.NewFromInt(25).Equal(p.Margin()))
	assert.True(t, decimal.NewFromInt(20).Equal(p.UnitProfit()))
	p.CostPrice = decimal.Zero
	assert.True(t, p.Margin().IsZero())
}
