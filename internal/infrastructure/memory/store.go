// Package memory implementa los repositorios sobre mapas en memoria.
// Se usa en modo desarrollo (STORE_DRIVER=memory) y en los tests de casos de uso.
//
// Cada transacción trabaja sobre una copia del estado confirmado y la publica
// al final si fn no devolvió error. Las transacciones se serializan con un mutex,
// así que cada operación es lineal respecto a las demás. El estado publicado no
// se vuelve a modificar: las lecturas fuera de transacción no necesitan lock.
package memory

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jhoicas/erp-ledger/internal/application/ports"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

type state struct {
	products  map[string]entity.Product
	parties   map[string]entity.Party
	stock     map[string]entity.StockRecord
	movements []entity.Movement
	orders    map[string]entity.Order // cabeceras, sin líneas
	lines     map[string][]entity.OrderLine
	invoices  map[string]entity.Invoice
	accounts  map[string]entity.Account
	sequences map[string]int64
}

func newState() *state {
	return &state{
		products:  map[string]entity.Product{},
		parties:   map[string]entity.Party{},
		stock:     map[string]entity.StockRecord{},
		orders:    map[string]entity.Order{},
		lines:     map[string][]entity.OrderLine{},
		invoices:  map[string]entity.Invoice{},
		accounts:  map[string]entity.Account{},
		sequences: map[string]int64{},
	}
}

func (s *state) clone() *state {
	c := &state{
		products:  cloneMap(s.products),
		parties:   cloneMap(s.parties),
		stock:     cloneMap(s.stock),
		movements: append([]entity.Movement(nil), s.movements...),
		orders:    cloneMap(s.orders),
		lines:     make(map[string][]entity.OrderLine, len(s.lines)),
		invoices:  cloneMap(s.invoices),
		accounts:  cloneMap(s.accounts),
		sequences: cloneMap(s.sequences),
	}
	for k, v := range s.lines {
		c.lines[k] = append([]entity.OrderLine(nil), v...)
	}
	return c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// Store almacén en memoria; implementa ports.TxRunner.
type Store struct {
	txMu    sync.Mutex
	current atomic.Pointer[state]
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(newState())
	return s
}

// Run ejecuta fn sobre una copia del estado y la publica si no hubo error.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, r repository.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	staged := s.current.Load().clone()
	if err := fn(ctx, reposFor(func() *state { return staged })); err != nil {
		return err
	}
	s.current.Store(staged)
	return nil
}

// Repos repositorios fuera de transacción, solo para lectura del último estado
// confirmado. Las escrituras van siempre por Run.
func (s *Store) Repos() repository.Repos {
	return reposFor(s.current.Load)
}

func reposFor(st func() *state) repository.Repos {
	return repository.Repos{
		Products:  &productRepo{st: st},
		Parties:   &partyRepo{st: st},
		Stock:     &stockRepo{st: st},
		Movements: &movementRepo{st: st},
		Orders:    &orderRepo{st: st},
		Invoices:  &invoiceRepo{st: st},
		Accounts:  &accountRepo{st: st},
		Sequences: &sequenceRepo{st: st},
	}
}

// Seed carga productos, terceros y existencias iniciales (dev y tests).
func (s *Store) Seed(products []entity.Product, parties []entity.Party, stock []entity.StockRecord) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	next := s.current.Load().clone()
	for _, p := range products {
		next.products[p.ID] = p
	}
	for _, p := range parties {
		next.parties[p.ID] = p
	}
	for _, r := range stock {
		next.stock[r.ProductID] = r
	}
	s.current.Store(next)
}
