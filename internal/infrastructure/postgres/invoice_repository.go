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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo facturas sobre PostgreSQL. invoices.order_id es UNIQUE.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, number, order_id, status, total, paid_amount, payment_method,
	issue_date, due_date, paid_date, notes, created_at, updated_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var (
		inv            entity.Invoice
		status, method string
	)
	err := row.Scan(&inv.ID, &inv.Number, &inv.OrderID, &status, &inv.Total, &inv.PaidAmount, &method,
		&inv.IssueDate, &inv.DueDate, &inv.PaidDate, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.Status = entity.InvoiceStatus(status)
	inv.PaymentMethod = entity.PaymentMethod(method)
	return &inv, nil
}

// Create inserta la factura. Un segundo insert para el mismo pedido viola invoices_order_id_key.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.Number, inv.OrderID, string(inv.Status), inv.Total, inv.PaidAmount, string(inv.PaymentMethod),
		inv.IssueDate, inv.DueDate, inv.PaidDate, inv.Notes, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if constraintName(err) == "invoices_order_id_key" {
				return domain.Conflict("el pedido %s ya tiene factura", inv.OrderID)
			}
			return domain.Conflict("número de factura %s duplicado", inv.Number)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID factura por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.one(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetForUpdate factura por ID con la fila bloqueada.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.one(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

// GetByOrderID factura del pedido, si existe.
func (r *InvoiceRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Invoice, error) {
	return r.one(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE order_id = $1`, orderID)
}

func (r *InvoiceRepo) one(ctx context.Context, query string, arg any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// Update persiste estado, pagado y fechas. Total no cambia después de emitir.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE invoices SET status = $2, paid_amount = $3, payment_method = $4, due_date = $5,
			paid_date = $6, notes = $7, updated_at = $8
		WHERE id = $1`,
		inv.ID, string(inv.Status), inv.PaidAmount, string(inv.PaymentMethod), inv.DueDate,
		inv.PaidDate, inv.Notes, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("factura", inv.ID)
	}
	return nil
}

// ListOverdue facturas pending/overdue con vencimiento anterior a asOf (índice status, due_date).
func (r *InvoiceRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+invoiceColumns+` FROM invoices
		WHERE status IN ('pending', 'overdue') AND due_date < $1::date
		ORDER BY due_date, number`, entity.Truncate(asOf))
	if err != nil {
		return nil, fmt.Errorf("list overdue invoices: %w", err)
	}
	defer rows.Close()
	out := []*entity.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
