package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo cuentas por cobrar (receivables) y por pagar (payables), una tabla por tipo.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

type accountTable struct {
	kind       entity.AccountKind
	name       string
	selectCols string
}

var (
	receivables = accountTable{
		kind:       entity.AccountReceivable,
		name:       "receivables",
		selectCols: `id, customer_id, COALESCE(invoice_id, ''), '' AS category, description, amount, paid_amount,
			interest, fine, discount, document_number, payment_method, due_date, paid_date, status, notes, created_at, updated_at`,
	}
	payables = accountTable{
		kind:       entity.AccountPayable,
		name:       "payables",
		selectCols: `id, COALESCE(supplier_id, ''), '' AS invoice_id, category, description, amount, paid_amount,
			interest, fine, discount, document_number, payment_method, due_date, paid_date, status, notes, created_at, updated_at`,
	}
)

func tableFor(kind entity.AccountKind) accountTable {
	if kind == entity.AccountPayable {
		return payables
	}
	return receivables
}

func (t accountTable) scan(row pgx.Row) (*entity.Account, error) {
	var (
		a                        entity.Account
		category, method, status string
	)
	err := row.Scan(&a.ID, &a.CounterpartyID, &a.InvoiceID, &category, &a.Description, &a.Amount, &a.PaidAmount,
		&a.Interest, &a.Fine, &a.Discount, &a.DocumentNumber, &method, &a.DueDate, &a.PaidDate, &status, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Kind = t.kind
	a.Category = entity.PayableCategory(category)
	a.PaymentMethod = entity.PaymentMethod(method)
	a.Status = entity.AccountStatus(status)
	return &a, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create inserta la cuenta en la tabla de su tipo.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	var err error
	switch a.Kind {
	case entity.AccountReceivable:
		_, err = r.q.Exec(ctx, `
			INSERT INTO receivables (id, customer_id, invoice_id, description, amount, paid_amount, interest, fine, discount,
				document_number, payment_method, due_date, paid_date, status, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
			a.ID, a.CounterpartyID, nullable(a.InvoiceID), a.Description, a.Amount, a.PaidAmount, a.Interest, a.Fine, a.Discount,
			a.DocumentNumber, string(a.PaymentMethod), a.DueDate, a.PaidDate, string(a.Status), a.Notes, a.CreatedAt, a.UpdatedAt)
	case entity.AccountPayable:
		_, err = r.q.Exec(ctx, `
			INSERT INTO payables (id, supplier_id, category, description, amount, paid_amount, interest, fine, discount,
				document_number, payment_method, due_date, paid_date, status, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
			a.ID, nullable(a.CounterpartyID), string(a.Category), a.Description, a.Amount, a.PaidAmount, a.Interest, a.Fine, a.Discount,
			a.DocumentNumber, string(a.PaymentMethod), a.DueDate, a.PaidDate, string(a.Status), a.Notes, a.CreatedAt, a.UpdatedAt)
	default:
		return fmt.Errorf("insert account: tipo desconocido %q", a.Kind)
	}
	if err != nil {
		return fmt.Errorf("insert %s: %w", a.Kind, err)
	}
	return nil
}

// GetByID busca en cobrar y luego en pagar.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.find(ctx, id, "")
}

// GetForUpdate igual que GetByID pero con la fila bloqueada.
func (r *AccountRepo) GetForUpdate(ctx context.Context, id string) (*entity.Account, error) {
	return r.find(ctx, id, " FOR UPDATE")
}

func (r *AccountRepo) find(ctx context.Context, id, suffix string) (*entity.Account, error) {
	for _, t := range []accountTable{receivables, payables} {
		a, err := t.scan(r.q.QueryRow(ctx, `SELECT `+t.selectCols+` FROM `+t.name+` WHERE id = $1`+suffix, id))
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get %s: %w", t.kind, err)
		}
	}
	return nil, nil
}

// Update persiste pagado, estado y fechas.
func (r *AccountRepo) Update(ctx context.Context, a *entity.Account) error {
	t := tableFor(a.Kind)
	tag, err := r.q.Exec(ctx, `
		UPDATE `+t.name+` SET paid_amount = $2, interest = $3, fine = $4, discount = $5, payment_method = $6,
			due_date = $7, paid_date = $8, status = $9, notes = $10, updated_at = $11
		WHERE id = $1`,
		a.ID, a.PaidAmount, a.Interest, a.Fine, a.Discount, string(a.PaymentMethod),
		a.DueDate, a.PaidDate, string(a.Status), a.Notes, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update %s: %w", a.Kind, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("cuenta", a.ID)
	}
	return nil
}

// ListOverdue cuentas open/overdue con vencimiento anterior a asOf (índice status, due_date).
func (r *AccountRepo) ListOverdue(ctx context.Context, kind entity.AccountKind, asOf time.Time) ([]*entity.Account, error) {
	t := tableFor(kind)
	rows, err := r.q.Query(ctx, `
		SELECT `+t.selectCols+` FROM `+t.name+`
		WHERE status IN ('open', 'overdue') AND due_date < $1::date
		ORDER BY due_date, id`, entity.Truncate(asOf))
	if err != nil {
		return nil, fmt.Errorf("list overdue %s: %w", kind, err)
	}
	defer rows.Close()
	out := []*entity.Account{}
	for rows.Next() {
		a, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
