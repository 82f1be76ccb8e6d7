// agingcheck reevalúa el vencimiento de facturas y cuentas abiertas.
// Pensado para cron o un job programado; no hay planificador interno.
//
// Uso: go run ./cmd/agingcheck [-as-of 2026-01-31]
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jhoicas/erp-ledger/internal/application/billing"
	"github.com/jhoicas/erp-ledger/internal/bootstrap"
	"github.com/jhoicas/erp-ledger/pkg/config"
	"github.com/jhoicas/erp-ledger/pkg/logger"
)

func main() {
	asOfFlag := flag.String("as-of", "", "fecha de corte YYYY-MM-DD (por defecto ahora)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("agingcheck")

	asOf := time.Now()
	if *asOfFlag != "" {
		if asOf, err = time.Parse(time.DateOnly, *asOfFlag); err != nil {
			log.Error().Err(err).Str("as_of", *asOfFlag).Msg("fecha de corte inválida")
			os.Exit(2)
		}
	}

	if err := run(cfg, log, asOf); err != nil {
		log.Error().Err(err).Msg("barrido de vencimientos")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger, asOf time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	storage, err := bootstrap.OpenStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer storage.Close()
	svc, err := bootstrap.NewServices(ctx, cfg, storage, log)
	if err != nil {
		return err
	}

	rep, err := billing.SweepOverdue(ctx, svc.Invoices, svc.Accounts, asOf)
	if err != nil {
		return err
	}
	log.Info().
		Time("as_of", asOf).
		Int("invoices", rep.Invoices).
		Int("receivables", rep.Receivables).
		Int("payables", rep.Payables).
		Msg("vencimientos reevaluados")
	return nil
}
