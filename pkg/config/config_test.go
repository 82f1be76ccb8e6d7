package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	// variables vacías cuentan como no definidas
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("NUMBERING_BACKEND", "")
	t.Setenv("TX_MAX_RETRIES", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.Store.Driver)
	assert.Equal(t, NumberingDatabase, cfg.Numbering.Backend)
	assert.Equal(t, 3, cfg.Store.MaxRetries)
	assert.Equal(t, "FAT", cfg.Numbering.InvoicePrefix)
	assert.Equal(t, 5, cfg.Numbering.PadWidth)
	assert.False(t, cfg.Orders.DeductStockOnShip)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("NUMBERING_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("TX_MAX_RETRIES", "5")
	t.Setenv("INVOICE_NUMBER_PREFIX", "FV")
	t.Setenv("NUMBER_PAD_WIDTH", "6")
	t.Setenv("DEDUCT_STOCK_ON_SHIP", "true")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.App.IsDevelopment())
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, 5, cfg.Store.MaxRetries)
	assert.Equal(t, NumberingRedis, cfg.Numbering.Backend)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, "FV", cfg.Numbering.InvoicePrefix)
	assert.Equal(t, "", cfg.Numbering.OrderPrefix)
	assert.Equal(t, 6, cfg.Numbering.PadWidth)
	assert.True(t, cfg.Orders.DeductStockOnShip)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestLoad_DriverDesconocido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("NUMBERING_BACKEND", "database")
	_, err := Load()
	assert.ErrorContains(t, err, "STORE_DRIVER")
}

func TestDSN_EscapaContraseña(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "erp", Password: "p@ss/word", DBName: "erp", SSLMode: "disable"}
	assert.Equal(t, "postgres://erp:p%40ss%2Fword@db:5432/erp?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
