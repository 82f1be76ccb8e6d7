// seed carga el maestro inicial (productos, clientes, proveedores y saldos)
// desde un CSV exportado de otro sistema. Productos y terceros existentes se
// omiten; las existencias iniciales quedan en el diario como ajuste.
//
// Uso: go run ./cmd/seed [-charset iso-8859-1] catalogo.csv
// Sin argumento usa SEED_FILE.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/erp-ledger/internal/bootstrap"
	"github.com/jhoicas/erp-ledger/internal/infrastructure/catalog"
	"github.com/jhoicas/erp-ledger/pkg/config"
	"github.com/jhoicas/erp-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	charset := flag.String("charset", cfg.Store.SeedCharset, "codificación del archivo: utf-8, iso-8859-1, windows-1252")
	flag.Parse()

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")
	path := cfg.Store.SeedFile
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "uso: seed [-charset iso-8859-1] catalogo.csv")
		os.Exit(2)
	}

	if err := run(cfg, log, path, *charset); err != nil {
		log.Error().Err(err).Str("file", path).Msg("carga de catálogo")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger, path, charset string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	cat, err := catalog.Load(f, charset, time.Now())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// El almacén en memoria ya se precarga con SEED_FILE; aquí solo tiene sentido postgres.
	cfg.Store.Driver = config.StorePostgres
	cfg.Store.SeedFile = ""
	storage, err := bootstrap.OpenStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer storage.Close()
	cfg.Numbering.Backend = config.NumberingDatabase
	svc, err := bootstrap.NewServices(ctx, cfg, storage, log)
	if err != nil {
		return err
	}

	res, err := svc.Ledger.ImportCatalog(ctx, bootstrap.SystemActor, cat.Products, cat.Parties, cat.Stock)
	if err != nil {
		return err
	}
	log.Info().
		Str("file", path).
		Int("products", res.Products).
		Int("parties", res.Parties).
		Int("skipped", res.Skipped).
		Int("opening_movements", res.Opening).
		Msg("catálogo cargado")
	return nil
}
