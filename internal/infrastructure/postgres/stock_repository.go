package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `product_id, current_qty, min_qty, max_qty, location, updated_at`

func scanStock(row pgx.Row, rec *entity.StockRecord) error {
	return row.Scan(&rec.ProductID, &rec.CurrentQty, &rec.MinQty, &rec.MaxQty, &rec.Location, &rec.UpdatedAt)
}

// Get obtiene la existencia actual; sin fila devuelve un registro en cero.
func (r *StockRepo) Get(ctx context.Context, productID string) (*entity.StockRecord, error) {
	var rec entity.StockRecord
	err := scanStock(r.q.QueryRow(ctx, `SELECT `+stockColumns+` FROM stock_records WHERE product_id = $1`, productID), &rec)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockRecord{ProductID: productID}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &rec, nil
}

// GetForUpdate asegura que la fila exista y la bloquea (SELECT FOR UPDATE).
// Sin el insert previo, dos primeras entradas concurrentes no tendrían fila que bloquear.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID string) (*entity.StockRecord, error) {
	if _, err := r.q.Exec(ctx,
		`INSERT INTO stock_records (product_id) VALUES ($1) ON CONFLICT (product_id) DO NOTHING`, productID); err != nil {
		return nil, fmt.Errorf("ensure stock row: %w", err)
	}
	var rec entity.StockRecord
	err := scanStock(r.q.QueryRow(ctx, `SELECT `+stockColumns+` FROM stock_records WHERE product_id = $1 FOR UPDATE`, productID), &rec)
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &rec, nil
}

// Upsert inserta o actualiza existencia y umbrales.
func (r *StockRepo) Upsert(ctx context.Context, rec *entity.StockRecord) error {
	query := `
		INSERT INTO stock_records (product_id, current_qty, min_qty, max_qty, location, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_id)
		DO UPDATE SET current_qty = EXCLUDED.current_qty, min_qty = EXCLUDED.min_qty,
		              max_qty = EXCLUDED.max_qty, location = EXCLUDED.location, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, rec.ProductID, rec.CurrentQty, rec.MinQty, rec.MaxQty, rec.Location, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListNeedsRestock productos en o bajo su mínimo.
func (r *StockRepo) ListNeedsRestock(ctx context.Context) ([]*entity.StockRecord, error) {
	rows, err := r.q.Query(ctx, `SELECT `+stockColumns+` FROM stock_records WHERE current_qty <= min_qty ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("list restock: %w", err)
	}
	defer rows.Close()
	out := []*entity.StockRecord{}
	for rows.Next() {
		var rec entity.StockRecord
		if err := scanStock(rows, &rec); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
