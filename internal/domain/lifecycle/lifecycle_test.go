package lifecycle_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/lifecycle"
)

func TestOrders_CaminoFeliz(t *testing.T) {
	s := entity.OrderPending
	for _, ev := range []lifecycle.Event{
		lifecycle.OrderConfirm, lifecycle.OrderStartPicking, lifecycle.OrderShip, lifecycle.OrderDeliver,
	} {
		next, err := lifecycle.Orders.Fire(s, ev)
		require.NoError(t, err, "evento %s desde %s", ev, s)
		s = next
	}
	assert.Equal(t, entity.OrderDelivered, s)
	assert.True(t, lifecycle.Orders.IsTerminal(s))
}

func TestOrders_ConfirmSoloDesdePending(t *testing.T) {
	for _, from := range []entity.OrderStatus{
		entity.OrderConfirmed, entity.OrderPicking, entity.OrderShipped, entity.OrderDelivered, entity.OrderCanceled,
	} {
		_, err := lifecycle.Orders.Fire(from, lifecycle.OrderConfirm)
		assert.ErrorIs(t, err, domain.ErrStateTransition, "confirm desde %s", from)
	}
}

func TestOrders_CancelDesdeNoTerminales(t *testing.T) {
	for _, from := range []entity.OrderStatus{
		entity.OrderPending, entity.OrderConfirmed, entity.OrderPicking, entity.OrderShipped,
	} {
		to, err := lifecycle.Orders.Fire(from, lifecycle.OrderCancel)
		require.NoError(t, err)
		assert.Equal(t, entity.OrderCanceled, to)
	}
	for _, from := range []entity.OrderStatus{entity.OrderDelivered, entity.OrderCanceled} {
		_, err := lifecycle.Orders.Fire(from, lifecycle.OrderCancel)
		assert.ErrorIs(t, err, domain.ErrStateTransition)
	}
}

func TestOrders_NoSeSaltanEstados(t *testing.T) {
	assert.False(t, lifecycle.Orders.Can(entity.OrderPending, lifecycle.OrderShip))
	assert.False(t, lifecycle.Orders.Can(entity.OrderConfirmed, lifecycle.OrderDeliver))
}

func TestDeriveInvoiceStatus(t *testing.T) {
	today := time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)
	hundred := decimal.NewFromInt(100)

	cases := []struct {
		name   string
		inv    entity.Invoice
		expect entity.InvoiceStatus
	}{
		{"pagada completa", entity.Invoice{Status: entity.InvoicePending, Total: hundred, PaidAmount: hundred, DueDate: tomorrow}, entity.InvoicePaid},
		{"vencida pasa a overdue", entity.Invoice{Status: entity.InvoicePending, Total: hundred, DueDate: yesterday}, entity.InvoiceOverdue},
		{"vence hoy sigue pending", entity.Invoice{Status: entity.InvoicePending, Total: hundred, DueDate: today}, entity.InvoicePending},
		{"overdue pagada", entity.Invoice{Status: entity.InvoiceOverdue, Total: hundred, PaidAmount: hundred, DueDate: yesterday}, entity.InvoicePaid},
		{"overdue parcial sin cambio", entity.Invoice{Status: entity.InvoiceOverdue, Total: hundred, PaidAmount: decimal.NewFromInt(10), DueDate: yesterday}, entity.InvoiceOverdue},
		{"cancelada no cambia", entity.Invoice{Status: entity.InvoiceCanceled, Total: hundred, DueDate: yesterday}, entity.InvoiceCanceled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := lifecycle.DeriveInvoiceStatus(&tc.inv, today)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func TestAccounts_DobleLiquidacion(t *testing.T) {
	s, err := lifecycle.Accounts.Fire(entity.AccountOpen, lifecycle.Settle)
	require.NoError(t, err)
	_, err = lifecycle.Accounts.Fire(s, lifecycle.Settle)
	assert.ErrorIs(t, err, domain.ErrStateTransition)
}

func TestDeriveAccountStatus(t *testing.T) {
	today := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	acc := entity.Account{Status: entity.AccountOpen, DueDate: today.AddDate(0, 0, -2)}
	got, err := lifecycle.DeriveAccountStatus(&acc, today)
	require.NoError(t, err)
	assert.Equal(t, entity.AccountOverdue, got)

	acc.Status = entity.AccountSettled
	got, err = lifecycle.DeriveAccountStatus(&acc, today)
	require.NoError(t, err)
	assert.Equal(t, entity.AccountSettled, got)
}
