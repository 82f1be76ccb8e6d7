package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos y líneas sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, number, customer_id, seller_id, status, subtotal, discount, freight, total,
	payment_method, notes, expected_delivery, delivered_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var (
		o              entity.Order
		status, method string
	)
	err := row.Scan(&o.ID, &o.Number, &o.CustomerID, &o.SellerID, &status, &o.Subtotal, &o.Discount, &o.Freight, &o.Total,
		&method, &o.Notes, &o.ExpectedDelivery, &o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	o.PaymentMethod = entity.PaymentMethod(method)
	return &o, nil
}

// Create inserta la cabecera del pedido. Las líneas se crean aparte.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.Number, o.CustomerID, o.SellerID, string(o.Status), o.Subtotal, o.Discount, o.Freight, o.Total,
		string(o.PaymentMethod), o.Notes, o.ExpectedDelivery, o.DeliveredAt, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("número de pedido %s duplicado", o.Number)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID pedido con líneas ordenadas por posición.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera y luego lee las líneas.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) get(ctx context.Context, query, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if o.Lines, err = r.lines(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepo) lines(ctx context.Context, orderID string) ([]entity.OrderLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, position, qty, unit_price, discount, line_total
		FROM order_lines WHERE order_id = $1 ORDER BY position`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	out := []entity.OrderLine{}
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Position, &l.Qty, &l.UnitPrice, &l.Discount, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Update persiste estado, cargos, totales y fechas de la cabecera.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders SET status = $2, subtotal = $3, discount = $4, freight = $5, total = $6,
			payment_method = $7, notes = $8, expected_delivery = $9, delivered_at = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		o.ID, string(o.Status), o.Subtotal, o.Discount, o.Freight, o.Total,
		string(o.PaymentMethod), o.Notes, o.ExpectedDelivery, o.DeliveredAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("pedido", o.ID)
	}
	return nil
}

// CreateLine inserta una línea.
func (r *OrderRepo) CreateLine(ctx context.Context, l *entity.OrderLine) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO order_lines (id, order_id, product_id, position, qty, unit_price, discount, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		l.ID, l.OrderID, l.ProductID, l.Position, l.Qty, l.UnitPrice, l.Discount, l.LineTotal)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("posición %d repetida en el pedido", l.Position)
		}
		return fmt.Errorf("insert order line: %w", err)
	}
	return nil
}

// UpdateLine reemplaza producto, cantidad, precio, descuento y total de la línea.
func (r *OrderRepo) UpdateLine(ctx context.Context, l *entity.OrderLine) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE order_lines SET product_id = $3, qty = $4, unit_price = $5, discount = $6, line_total = $7
		WHERE id = $1 AND order_id = $2`,
		l.ID, l.OrderID, l.ProductID, l.Qty, l.UnitPrice, l.Discount, l.LineTotal)
	if err != nil {
		return fmt.Errorf("update order line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("línea", l.ID)
	}
	return nil
}

// DeleteLine elimina una línea del pedido.
func (r *OrderRepo) DeleteLine(ctx context.Context, orderID, lineID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM order_lines WHERE id = $1 AND order_id = $2`, lineID, orderID)
	if err != nil {
		return fmt.Errorf("delete order line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("línea", lineID)
	}
	return nil
}

// ListByCustomer pedidos del cliente, más recientes primero (índice customer_id, created_at).
func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE customer_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := []*entity.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// las líneas se leen después de cerrar rows: una tx no admite dos consultas abiertas
	for _, o := range out {
		if o.Lines, err = r.lines(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}
