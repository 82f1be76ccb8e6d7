package postgres

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-ledger/internal/domain"
)

func TestClasificacionDeErroresPg(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "invoices_order_id_key"}
	wrapped := fmt.Errorf("insert invoice: %w", unique)
	assert.True(t, isUniqueViolation(wrapped))
	assert.Equal(t, "invoices_order_id_key", constraintName(wrapped))
	assert.False(t, isRetryable(wrapped))

	assert.True(t, isRetryable(fmt.Errorf("commit transaction: %w", &pgconn.PgError{Code: "40001"})))
	assert.True(t, isRetryable(&pgconn.PgError{Code: "40P01"}))
	assert.False(t, isRetryable(fmt.Errorf("cualquier otro")))
	assert.Equal(t, "", pgCode(nil))
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/erp?sslmode=disable", migrateURL("postgres://u:p@db:5432/erp?sslmode=disable"))
	assert.Equal(t, "pgx5://db/erp", migrateURL("postgresql://db/erp"))
	assert.Equal(t, "pgx5://ya", migrateURL("pgx5://ya"))
}

func TestMigracionesEmbebidas(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	assert.Contains(t, files, "migrations/000001_init.up.sql")
	assert.Contains(t, files, "migrations/000001_init.down.sql")

	up, err := migrationsFS.ReadFile("migrations/000001_init.up.sql")
	require.NoError(t, err)
	for _, idx := range []string{
		"ON stock_movements (product_id, created_at)",
		"ON orders (customer_id, created_at)",
		"ON invoices (status, due_date)",
		"ON receivables (status, due_date)",
		"ON payables (status, due_date)",
		"CONSTRAINT invoices_order_id_key UNIQUE (order_id)",
		"PRIMARY KEY (document_type, year, month)",
	} {
		assert.Contains(t, string(up), idx)
	}
}

func TestMigraciones_EscalasDeImportes(t *testing.T) {
	up, err := migrationsFS.ReadFile("migrations/000001_init.up.sql")
	require.NoError(t, err)
	money := fmt.Sprintf("NUMERIC(14, %d)", domain.MoneyScale)
	for _, col := range []string{"sale_price  ", "unit_price  ", "line_total  ", "total           ", "amount           "} {
		assert.Contains(t, string(up), col+money, col)
	}

	cost, err := migrationsFS.ReadFile("migrations/000002_cost_price_scale.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(cost), fmt.Sprintf("cost_price TYPE NUMERIC(14, %d)", domain.CostScale),
		"products.cost_price guarda la escala de AverageCost")
}
