package billing

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// AgingReport resultado de un barrido de vencimientos.
type AgingReport struct {
	Invoices    int
	Receivables int
	Payables    int
}

// Total documentos cuyo estado cambió en el barrido.
func (r AgingReport) Total() int { return r.Invoices + r.Receivables + r.Payables }

// SweepOverdue reevalúa facturas y cuentas con vencimiento anterior a asOf y
// cuenta solo las que cambiaron de estado. Facturas, cuentas por cobrar y por
// pagar se recorren en paralelo; cada documento se reevalúa en su propia
// transacción.
func SweepOverdue(ctx context.Context, invoices *InvoiceUseCase, accounts *AccountUseCase, asOf time.Time) (AgingReport, error) {
	var rep AgingReport
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := invoices.ListOverdue(gctx, asOf)
		if err != nil {
			return err
		}
		changed := 0
		for _, inv := range list {
			before := inv.Status
			after, err := invoices.Recheck(gctx, inv.ID)
			if err != nil {
				return err
			}
			if after.Status != before {
				changed++
			}
		}
		rep.Invoices = changed
		return nil
	})
	for _, kind := range []entity.AccountKind{entity.AccountReceivable, entity.AccountPayable} {
		g.Go(func() error {
			list, err := accounts.ListOverdue(gctx, kind, asOf)
			if err != nil {
				return err
			}
			changed := 0
			for _, acc := range list {
				before := acc.Status
				after, err := accounts.Recheck(gctx, kind, acc.ID)
				if err != nil {
					return err
				}
				if after.Status != before {
					changed++
				}
			}
			if kind == entity.AccountReceivable {
				rep.Receivables = changed
			} else {
				rep.Payables = changed
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return AgingReport{}, err
	}
	return rep, nil
}
