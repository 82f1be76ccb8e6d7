// Package bootstrap arma el almacenamiento y los casos de uso a partir de la
// configuración. Lo comparten cmd/api, cmd/agingcheck y cmd/seed.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/erp-ledger/internal/application/auth"
	"github.com/jhoicas/erp-ledger/internal/application/billing"
	"github.com/jhoicas/erp-ledger/internal/application/inventory"
	"github.com/jhoicas/erp-ledger/internal/application/numbering"
	"github.com/jhoicas/erp-ledger/internal/application/ports"
	"github.com/jhoicas/erp-ledger/internal/application/sales"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
	"github.com/jhoicas/erp-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/erp-ledger/internal/infrastructure/catalog"
	"github.com/jhoicas/erp-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/erp-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/erp-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/erp-ledger/pkg/config"
	"github.com/jhoicas/erp-ledger/pkg/logger"
)

// Storage unidad de trabajo y repositorios de lectura del driver elegido.
type Storage struct {
	Tx    ports.TxRunner
	Repos repository.Repos
	close []func()
	// catálogo leído de SEED_FILE, pendiente de importar por el diario
	seed *catalog.Catalog
}

// Close libera pool y clientes en orden inverso.
func (s *Storage) Close() {
	for i := len(s.close) - 1; i >= 0; i-- {
		s.close[i]()
	}
}

// OpenStorage abre postgres (con migraciones si MIGRATE_ON_START) o el almacén en memoria.
func OpenStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Storage, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		store := memory.NewStore()
		st := &Storage{Tx: store, Repos: store.Repos()}
		if cfg.Store.SeedFile != "" {
			cat, err := readCatalog(cfg.Store.SeedFile, cfg.Store.SeedCharset)
			if err != nil {
				return nil, err
			}
			st.seed = cat
		}
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return st, nil

	case config.StorePostgres:
		if cfg.DB.MigrateOnStart {
			if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
				return nil, err
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB, postgres.DefaultPoolOptions())
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		tx := postgres.NewTxRunner(pool, cfg.Store.MaxRetries, log)
		return &Storage{Tx: tx, Repos: tx.Repos(), close: []func(){pool.Close}}, nil
	}
	return nil, fmt.Errorf("STORE_DRIVER desconocido %q", cfg.Store.Driver)
}

func readCatalog(path, charset string) (*catalog.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir catálogo: %w", err)
	}
	defer f.Close()
	return catalog.Load(f, charset, time.Now())
}

// SystemActor actor de las cargas que no vienen de un usuario (seed).
var SystemActor = entity.Actor{ID: "system", Role: entity.RoleAdmin}

// Services casos de uso listos para exponer.
type Services struct {
	Ledger        *inventory.LedgerUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Orders        *sales.OrderUseCase
	Invoices      *billing.InvoiceUseCase
	Accounts      *billing.AccountUseCase
	InvoicePDF    *billing.PDFUseCase
	Numbering     *numbering.Authority
}

// NumberingConfig traduce la configuración de numeración.
func NumberingConfig(cfg config.NumberingConfig) numbering.Config {
	return numbering.Config{
		Prefixes: map[string]string{
			numbering.DocOrder:   cfg.OrderPrefix,
			numbering.DocInvoice: cfg.InvoicePrefix,
		},
		PadWidth: cfg.PadWidth,
	}
}

// NewServices construye los casos de uso sobre st. Con NUMBERING_BACKEND=redis
// conecta el contador Redis y registra su cierre en st. Un catálogo pendiente
// (SEED_FILE en memoria) se importa por el diario antes de devolver.
func NewServices(ctx context.Context, cfg *config.Config, st *Storage, log *logger.Logger) (*Services, error) {
	var counter numbering.Counter
	if cfg.Numbering.Backend == config.NumberingRedis {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		st.close = append(st.close, func() { _ = client.Close() })
		counter = cache.NewRedisSequence(client, "")
		log.Info().Str("addr", cfg.Redis.Addr).Msg("numeración con contador Redis")
	}

	policy := auth.NewRolePolicy()
	numbers := numbering.NewAuthority(st.Tx, counter, policy, NumberingConfig(cfg.Numbering), log)
	ledger := inventory.NewLedgerUseCase(st.Tx, st.Repos, policy, log)
	if st.seed != nil {
		res, err := ledger.ImportCatalog(ctx, SystemActor, st.seed.Products, st.seed.Parties, st.seed.Stock)
		if err != nil {
			return nil, fmt.Errorf("precargar catálogo: %w", err)
		}
		st.seed = nil
		log.Info().Int("products", res.Products).Int("parties", res.Parties).Msg("catálogo precargado en memoria")
	}
	orders := sales.NewOrderUseCase(st.Tx, st.Repos, numbers, policy, log)
	if cfg.Orders.DeductStockOnShip {
		orders.WithStockLedger(ledger)
	}

	return &Services{
		Ledger:        ledger,
		Replenishment: inventory.NewReplenishmentUseCase(st.Repos),
		Orders:        orders,
		Invoices:      billing.NewInvoiceUseCase(st.Tx, st.Repos, numbers, policy, log),
		Accounts:      billing.NewAccountUseCase(st.Tx, st.Repos, policy, log),
		InvoicePDF:    billing.NewPDFUseCase(st.Repos, infrapdf.NewMarotoPDFGenerator(cfg.App.Name)),
		Numbering:     numbers,
	}, nil
}
