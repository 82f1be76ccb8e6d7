package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestOrder_RecomputeTotals_Escenario65y75(t *testing.T) {
	o := &entity.Order{
		Lines: []entity.OrderLine{
			{Qty: 2, UnitPrice: dec("10"), Discount: dec("0")},
			{Qty: 1, UnitPrice: dec("50"), Discount: dec("5")},
		},
	}
	o.RecomputeTotals()
	assert.True(t, dec("65").Equal(o.Subtotal))
	assert.True(t, dec("65").Equal(o.Total))
	assert.True(t, dec("20").Equal(o.Lines[0].LineTotal))
	assert.True(t, dec("45").Equal(o.Lines[1].LineTotal))

	o.Freight = dec("10")
	o.RecomputeTotals()
	assert.True(t, dec("75").Equal(o.Total))
}

func TestOrder_NextPositionYLine(t *testing.T) {
	o := &entity.Order{Lines: []entity.OrderLine{{ID: "a", Position: 1}, {ID: "b", Position: 4}}}
	assert.Equal(t, 5, o.NextPosition())
	l, ok := o.Line("b")
	assert.True(t, ok)
	assert.Equal(t, 4, l.Position)
	_, ok = o.Line("zz")
	assert.False(t, ok)
}

func TestInvoice_DaysUntilDueYBalance(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	inv := entity.Invoice{
		Total:      dec("100"),
		PaidAmount: dec("30"),
		DueDate:    time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
		Status:     entity.InvoicePending,
	}
	assert.Equal(t, -3, inv.DaysUntilDue(today))
	assert.True(t, inv.IsLate(today))
	assert.True(t, dec("70").Equal(inv.Balance()))

	inv.PaidAmount = dec("120")
	assert.True(t, inv.Balance().IsZero())
}

func TestPaymentMethodYCategoria_Valid(t *testing.T) {
	assert.True(t, entity.PaymentPix.Valid())
	assert.False(t, entity.PaymentMethod("cheque").Valid())
	assert.True(t, entity.CategoryRent.Valid())
	assert.False(t, entity.PayableCategory("viajes").Valid())
}
