package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*productRepo)(nil)
	_ repository.PartyRepository    = (*partyRepo)(nil)
	_ repository.StockRepository    = (*stockRepo)(nil)
	_ repository.MovementRepository = (*movementRepo)(nil)
	_ repository.OrderRepository    = (*orderRepo)(nil)
	_ repository.InvoiceRepository  = (*invoiceRepo)(nil)
	_ repository.AccountRepository  = (*accountRepo)(nil)
	_ repository.SequenceRepository = (*sequenceRepo)(nil)
)

// ── productos y terceros ──────────────────────────────────────────────────────

type productRepo struct{ st func() *state }

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.st().products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	st := r.st()
	for _, other := range st.products {
		if other.Code == p.Code {
			return domain.Conflict("código de producto %s duplicado", p.Code)
		}
	}
	st.products[p.ID] = *p
	return nil
}

func (r *productRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal, at time.Time) error {
	st := r.st()
	p, ok := st.products[id]
	if !ok {
		return domain.NotFound("producto", id)
	}
	p.CostPrice, p.UpdatedAt = cost, at
	st.products[id] = p
	return nil
}

type partyRepo struct{ st func() *state }

func (r *partyRepo) GetByID(_ context.Context, id string) (*entity.Party, error) {
	p, ok := r.st().parties[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *partyRepo) Create(_ context.Context, p *entity.Party) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	r.st().parties[p.ID] = *p
	return nil
}

// ── stock y diario ────────────────────────────────────────────────────────────

type stockRepo struct{ st func() *state }

func (r *stockRepo) Get(_ context.Context, productID string) (*entity.StockRecord, error) {
	rec, ok := r.st().stock[productID]
	if !ok {
		return &entity.StockRecord{ProductID: productID}, nil
	}
	return &rec, nil
}

// GetForUpdate en memoria la transacción ya es exclusiva.
func (r *stockRepo) GetForUpdate(ctx context.Context, productID string) (*entity.StockRecord, error) {
	return r.Get(ctx, productID)
}

func (r *stockRepo) Upsert(_ context.Context, rec *entity.StockRecord) error {
	if rec.CurrentQty < 0 {
		return fmt.Errorf("upsert stock: cantidad negativa para %s", rec.ProductID)
	}
	r.st().stock[rec.ProductID] = *rec
	return nil
}

func (r *stockRepo) ListNeedsRestock(_ context.Context) ([]*entity.StockRecord, error) {
	out := []*entity.StockRecord{}
	for _, rec := range r.st().stock {
		if rec.NeedsRestock() {
			rec := rec
			out = append(out, &rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

type movementRepo struct{ st func() *state }

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	st := r.st()
	st.movements = append(st.movements, *m)
	return nil
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	st := r.st()
	out := []*entity.Movement{}
	// más recientes primero: el diario es append-only, se recorre al revés
	for i := len(st.movements) - 1; i >= 0; i-- {
		m := st.movements[i]
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		out = append(out, &m)
	}
	return paginate(out, f.Limit, f.Offset), nil
}

// ── pedidos ───────────────────────────────────────────────────────────────────

type orderRepo struct{ st func() *state }

func (r *orderRepo) Create(_ context.Context, o *entity.Order) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	st := r.st()
	for _, other := range st.orders {
		if other.Number == o.Number {
			return domain.Conflict("número de pedido %s duplicado", o.Number)
		}
	}
	h := *o
	h.Lines = nil
	st.orders[o.ID] = h
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	st := r.st()
	o, ok := st.orders[id]
	if !ok {
		return nil, nil
	}
	o.Lines = append([]entity.OrderLine(nil), st.lines[id]...)
	sort.SliceStable(o.Lines, func(i, j int) bool { return o.Lines[i].Position < o.Lines[j].Position })
	return &o, nil
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) Update(_ context.Context, o *entity.Order) error {
	st := r.st()
	if _, ok := st.orders[o.ID]; !ok {
		return domain.NotFound("pedido", o.ID)
	}
	h := *o
	h.Lines = nil
	st.orders[o.ID] = h
	return nil
}

func (r *orderRepo) CreateLine(_ context.Context, l *entity.OrderLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	st := r.st()
	st.lines[l.OrderID] = append(st.lines[l.OrderID], *l)
	return nil
}

func (r *orderRepo) UpdateLine(_ context.Context, l *entity.OrderLine) error {
	lines := r.st().lines[l.OrderID]
	for i := range lines {
		if lines[i].ID == l.ID {
			lines[i] = *l
			return nil
		}
	}
	return domain.NotFound("línea", l.ID)
}

func (r *orderRepo) DeleteLine(_ context.Context, orderID, lineID string) error {
	st := r.st()
	lines := st.lines[orderID]
	for i := range lines {
		if lines[i].ID == lineID {
			st.lines[orderID] = append(lines[:i:i], lines[i+1:]...)
			return nil
		}
	}
	return domain.NotFound("línea", lineID)
}

func (r *orderRepo) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*entity.Order, error) {
	st := r.st()
	out := []*entity.Order{}
	for id, o := range st.orders {
		if o.CustomerID != customerID {
			continue
		}
		full, _ := r.GetByID(ctx, id)
		out = append(out, full)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

// ── facturas ──────────────────────────────────────────────────────────────────

type invoiceRepo struct{ st func() *state }

func (r *invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	st := r.st()
	for _, other := range st.invoices {
		if other.OrderID == inv.OrderID {
			return domain.Conflict("el pedido %s ya tiene factura", inv.OrderID)
		}
		if other.Number == inv.Number {
			return domain.Conflict("número de factura %s duplicado", inv.Number)
		}
	}
	st.invoices[inv.ID] = *inv
	return nil
}

func (r *invoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	inv, ok := r.st().invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *invoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *invoiceRepo) GetByOrderID(_ context.Context, orderID string) (*entity.Invoice, error) {
	for _, inv := range r.st().invoices {
		if inv.OrderID == orderID {
			return &inv, nil
		}
	}
	return nil, nil
}

func (r *invoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	st := r.st()
	if _, ok := st.invoices[inv.ID]; !ok {
		return domain.NotFound("factura", inv.ID)
	}
	st.invoices[inv.ID] = *inv
	return nil
}

func (r *invoiceRepo) ListOverdue(_ context.Context, asOf time.Time) ([]*entity.Invoice, error) {
	cut := entity.Truncate(asOf)
	out := []*entity.Invoice{}
	for _, inv := range r.st().invoices {
		if inv.Status != entity.InvoicePending && inv.Status != entity.InvoiceOverdue {
			continue
		}
		if entity.Truncate(inv.DueDate).Before(cut) {
			inv := inv
			out = append(out, &inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

// ── cuentas ───────────────────────────────────────────────────────────────────

type accountRepo struct{ st func() *state }

func (r *accountRepo) Create(_ context.Context, acc *entity.Account) error {
	if acc.ID == "" {
		acc.ID = uuid.New().String()
	}
	r.st().accounts[acc.ID] = *acc
	return nil
}

func (r *accountRepo) GetByID(_ context.Context, id string) (*entity.Account, error) {
	acc, ok := r.st().accounts[id]
	if !ok {
		return nil, nil
	}
	return &acc, nil
}

func (r *accountRepo) GetForUpdate(ctx context.Context, id string) (*entity.Account, error) {
	return r.GetByID(ctx, id)
}

func (r *accountRepo) Update(_ context.Context, acc *entity.Account) error {
	st := r.st()
	if _, ok := st.accounts[acc.ID]; !ok {
		return domain.NotFound("cuenta", acc.ID)
	}
	st.accounts[acc.ID] = *acc
	return nil
}

func (r *accountRepo) ListOverdue(_ context.Context, kind entity.AccountKind, asOf time.Time) ([]*entity.Account, error) {
	cut := entity.Truncate(asOf)
	out := []*entity.Account{}
	for _, acc := range r.st().accounts {
		if acc.Kind != kind || (acc.Status != entity.AccountOpen && acc.Status != entity.AccountOverdue) {
			continue
		}
		if entity.Truncate(acc.DueDate).Before(cut) {
			acc := acc
			out = append(out, &acc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

// ── numeración ────────────────────────────────────────────────────────────────

type sequenceRepo struct{ st func() *state }

func (r *sequenceRepo) Increment(_ context.Context, docType string, year, month int) (int64, error) {
	key := fmt.Sprintf("%s:%04d:%02d", docType, year, month)
	st := r.st()
	st.sequences[key]++
	return st.sequences[key], nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
