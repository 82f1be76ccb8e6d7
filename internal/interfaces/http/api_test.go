package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-ledger/internal/application/auth"
	"github.com/jhoicas/erp-ledger/internal/application/billing"
	"github.com/jhoicas/erp-ledger/internal/application/inventory"
	"github.com/jhoicas/erp-ledger/internal/application/numbering"
	"github.com/jhoicas/erp-ledger/internal/application/sales"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/erp-ledger/internal/interfaces/http"
	"github.com/jhoicas/erp-ledger/pkg/logger"
)

type fakePDF struct{}

func (fakePDF) GenerateInvoicePDF(_ context.Context, doc billing.InvoiceDocument) ([]byte, error) {
	return []byte("%PDF-fake " + doc.Invoice.Number), nil
}

// newAPI arma la API completa sobre el almacén en memoria.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	store.Seed([]entity.Product{
		{ID: "p10", Code: "P10", Name: "Tornillo", SalePrice: decimal.NewFromInt(10), CostPrice: decimal.NewFromInt(6), Active: true},
		{ID: "p50", Code: "P50", Name: "Taladro", SalePrice: decimal.NewFromInt(50), CostPrice: decimal.NewFromInt(30), Active: true},
	}, []entity.Party{
		{ID: "c1", Kind: entity.PartyClient, Name: "Cliente Uno", Active: true},
		{ID: "s1", Kind: entity.PartySupplier, Name: "Proveedor", Active: true},
	}, nil)

	log := logger.Nop()
	policy := auth.NewRolePolicy()
	repos := store.Repos()
	numbers := numbering.NewAuthority(store, nil, policy, numbering.DefaultConfig(), log)
	ledger := inventory.NewLedgerUseCase(store, repos, policy, log)

	deps := apphttp.RouterDeps{
		Ledger:        ledger,
		Replenishment: inventory.NewReplenishmentUseCase(repos),
		Orders:        sales.NewOrderUseCase(store, repos, numbers, policy, log).WithStockLedger(ledger),
		Invoices:      billing.NewInvoiceUseCase(store, repos, numbers, policy, log),
		Accounts:      billing.NewAccountUseCase(store, repos, policy, log),
		InvoicePDF:    billing.NewPDFUseCase(repos, fakePDF{}),
		Numbering:     numbers,
		JWTSecret:     testJWTSecret,
		JWTIssuer:     testIssuer,
	}
	return apphttp.NewApp("erp-test", deps, log)
}

type apiResponse struct {
	status int
	header http.Header
	raw    []byte
}

func (r apiResponse) json(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(r.raw, &out), string(r.raw))
	return out
}

func (r apiResponse) list(t *testing.T) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(r.raw, &out), string(r.raw))
	return out
}

func call(t *testing.T, app *fiber.App, method, path, role string, body any) apiResponse {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return apiResponse{status: resp.StatusCode, header: resp.Header, raw: raw}
}

func dec(t *testing.T, v any) decimal.Decimal {
	t.Helper()
	switch x := v.(type) {
	case string:
		return decimal.RequireFromString(x)
	case float64:
		return decimal.NewFromFloat(x)
	}
	t.Fatalf("valor decimal inesperado: %#v", v)
	return decimal.Zero
}

func TestAPI_Health(t *testing.T) {
	app := newAPI(t)
	r := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, r.status)
	assert.NotEmpty(t, r.header.Get("X-Request-ID"))
}

func TestAPI_SinToken(t *testing.T) {
	app := newAPI(t)
	r := call(t, app, http.MethodGet, "/api/stock/p10", "", nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)
}

func TestAPI_EscenarioDeStock(t *testing.T) {
	app := newAPI(t)

	r := call(t, app, http.MethodPut, "/api/stock/p10/thresholds", "bodeguero", map[string]any{"min_qty": 5, "max_qty": 20})
	require.Equal(t, http.StatusOK, r.status, string(r.raw))

	r = call(t, app, http.MethodPost, "/api/stock/movements", "bodeguero",
		map[string]any{"product_id": "p10", "direction": "in", "quantity": 10, "reason": "purchase"})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	assert.EqualValues(t, 10, r.json(t)["post_qty"])

	r = call(t, app, http.MethodPost, "/api/stock/movements", "bodeguero",
		map[string]any{"product_id": "p10", "direction": "out", "quantity": 3, "reason": "sale"})
	require.Equal(t, http.StatusCreated, r.status)
	r = call(t, app, http.MethodGet, "/api/stock/p10", "vendedor", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.EqualValues(t, 7, r.json(t)["current_qty"])
	assert.Equal(t, "normal", r.json(t)["stock_status"])

	r = call(t, app, http.MethodPost, "/api/stock/movements", "bodeguero",
		map[string]any{"product_id": "p10", "direction": "out", "quantity": 5, "reason": "sale"})
	require.Equal(t, http.StatusCreated, r.status)
	r = call(t, app, http.MethodGet, "/api/stock/p10", "bodeguero", nil)
	assert.EqualValues(t, 2, r.json(t)["current_qty"])
	assert.Equal(t, "low", r.json(t)["stock_status"])

	r = call(t, app, http.MethodPost, "/api/stock/movements", "bodeguero",
		map[string]any{"product_id": "p10", "direction": "out", "quantity": 5, "reason": "sale"})
	assert.Equal(t, http.StatusConflict, r.status)
	assert.Equal(t, "INSUFFICIENT_STOCK", r.json(t)["code"])

	r = call(t, app, http.MethodGet, "/api/stock/p10", "bodeguero", nil)
	assert.EqualValues(t, 2, r.json(t)["current_qty"], "el movimiento rechazado no escribe")

	r = call(t, app, http.MethodGet, "/api/stock/restock", "bodeguero", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.EqualValues(t, 1, r.json(t)["total"])

	r = call(t, app, http.MethodGet, "/api/stock/p10/movements?limit=2", "bodeguero", nil)
	require.Equal(t, http.StatusOK, r.status)
	movs := r.list(t)
	require.Len(t, movs, 2)
	assert.EqualValues(t, 2, movs[0]["post_qty"], "más recientes primero")
}

func TestAPI_ValidacionConCampos(t *testing.T) {
	app := newAPI(t)
	r := call(t, app, http.MethodPost, "/api/stock/movements", "bodeguero",
		map[string]any{"direction": "sideways", "quantity": 0, "reason": "purchase"})
	require.Equal(t, http.StatusBadRequest, r.status)

	body := r.json(t)
	assert.Equal(t, "VALIDATION", body["code"])
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok, string(r.raw))
	assert.Contains(t, fields, "product_id")
	assert.Contains(t, fields, "direction")
	assert.Contains(t, fields, "quantity")
}

func TestAPI_CuerpoInvalido(t *testing.T) {
	app := newAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, "vendedor"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_PermisoPorAccion(t *testing.T) {
	app := newAPI(t)
	r := call(t, app, http.MethodPost, "/api/stock/movements", "vendedor",
		map[string]any{"product_id": "p10", "direction": "in", "quantity": 1, "reason": "purchase"})
	assert.Equal(t, http.StatusForbidden, r.status)
	assert.Equal(t, "FORBIDDEN", r.json(t)["code"])
}

func TestAPI_NoEncontrado(t *testing.T) {
	app := newAPI(t)
	r := call(t, app, http.MethodGet, "/api/orders/no-existe", "vendedor", nil)
	assert.Equal(t, http.StatusNotFound, r.status)
	assert.Equal(t, "NOT_FOUND", r.json(t)["code"])
}

// createOrder pedido de 65 (2x10 + 1x50 - 5) con flete 10: total 75.
func createOrder(t *testing.T, app *fiber.App) string {
	t.Helper()
	r := call(t, app, http.MethodPost, "/api/orders", "vendedor", map[string]any{"customer_id": "c1", "payment_method": "pix"})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	orderID := r.json(t)["id"].(string)

	r = call(t, app, http.MethodPost, "/api/orders/"+orderID+"/lines", "vendedor", map[string]any{"product_id": "p10", "quantity": 2})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	r = call(t, app, http.MethodPost, "/api/orders/"+orderID+"/lines", "vendedor",
		map[string]any{"product_id": "p50", "quantity": 1, "unit_price": "50", "discount": "5"})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	assert.True(t, dec(t, r.json(t)["total"]).Equal(decimal.NewFromInt(65)))

	r = call(t, app, http.MethodPut, "/api/orders/"+orderID+"/charges", "vendedor", map[string]any{"freight": "10"})
	require.Equal(t, http.StatusOK, r.status, string(r.raw))
	assert.True(t, dec(t, r.json(t)["total"]).Equal(decimal.NewFromInt(75)))
	return orderID
}

func TestAPI_CicloDelPedido(t *testing.T) {
	app := newAPI(t)
	orderID := createOrder(t, app)

	r := call(t, app, http.MethodPost, "/api/orders/"+orderID+"/pick", "vendedor", nil)
	assert.Equal(t, http.StatusConflict, r.status)
	assert.Equal(t, "STATE_TRANSITION", r.json(t)["code"])

	for _, step := range []string{"confirm", "pick"} {
		r = call(t, app, http.MethodPost, "/api/orders/"+orderID+"/"+step, "vendedor", nil)
		require.Equal(t, http.StatusOK, r.status, step+": "+string(r.raw))
	}

	// sin stock el despacho falla y el pedido sigue en picking
	r = call(t, app, http.MethodPost, "/api/orders/"+orderID+"/ship", "bodeguero", nil)
	assert.Equal(t, http.StatusConflict, r.status)
	assert.Equal(t, "INSUFFICIENT_STOCK", r.json(t)["code"])

	for _, p := range []string{"p10", "p50"} {
		r = call(t, app, http.MethodPost, "/api/stock/movements", "bodeguero",
			map[string]any{"product_id": p, "direction": "in", "quantity": 5, "reason": "purchase"})
		require.Equal(t, http.StatusCreated, r.status)
	}
	r = call(t, app, http.MethodPost, "/api/orders/"+orderID+"/ship", "bodeguero", nil)
	require.Equal(t, http.StatusOK, r.status, string(r.raw))
	r = call(t, app, http.MethodGet, "/api/stock/p10", "bodeguero", nil)
	assert.EqualValues(t, 3, r.json(t)["current_qty"])

	r = call(t, app, http.MethodPost, "/api/orders/"+orderID+"/deliver", "vendedor", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "delivered", r.json(t)["status"])
	assert.NotEmpty(t, r.json(t)["delivered_at"])

	r = call(t, app, http.MethodPost, "/api/orders/"+orderID+"/cancel", "vendedor", nil)
	assert.Equal(t, http.StatusConflict, r.status, "delivered es terminal")

	r = call(t, app, http.MethodGet, "/api/orders?customer_id=c1", "vendedor", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Len(t, r.list(t), 1)

	r = call(t, app, http.MethodGet, "/api/orders", "vendedor", nil)
	assert.Equal(t, http.StatusBadRequest, r.status)
}

func TestAPI_LineaSeQuitaYSeActualiza(t *testing.T) {
	app := newAPI(t)
	orderID := createOrder(t, app)

	r := call(t, app, http.MethodGet, "/api/orders/"+orderID, "vendedor", nil)
	lines := r.json(t)["lines"].([]any)
	require.Len(t, lines, 2)
	first := lines[0].(map[string]any)["id"].(string)

	r = call(t, app, http.MethodPut, "/api/orders/"+orderID+"/lines/"+first, "vendedor", map[string]any{"product_id": "p10", "quantity": 4})
	require.Equal(t, http.StatusOK, r.status, string(r.raw))
	assert.True(t, dec(t, r.json(t)["total"]).Equal(decimal.NewFromInt(95)), "4x10 + 45 + 10")

	r = call(t, app, http.MethodDelete, "/api/orders/"+orderID+"/lines/"+first, "vendedor", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.True(t, dec(t, r.json(t)["total"]).Equal(decimal.NewFromInt(55)))
}

func TestAPI_FacturaPagoYCuentas(t *testing.T) {
	app := newAPI(t)
	orderID := createOrder(t, app)

	invoiceBody := map[string]any{"order_id": orderID, "due_date": "2099-01-31T00:00:00Z"}
	r := call(t, app, http.MethodPost, "/api/invoices", "finanzas", invoiceBody)
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	inv := r.json(t)
	invoiceID := inv["id"].(string)
	assert.Equal(t, "pending", inv["status"])
	assert.Equal(t, "pix", inv["payment_method"])
	assert.Regexp(t, `^FAT\d{6}00001$`, inv["number"])
	assert.True(t, dec(t, inv["total"]).Equal(decimal.NewFromInt(75)))

	r = call(t, app, http.MethodPost, "/api/invoices", "finanzas", invoiceBody)
	assert.Equal(t, http.StatusConflict, r.status)
	assert.Equal(t, "CONFLICT", r.json(t)["code"])

	r = call(t, app, http.MethodPost, "/api/invoices/"+invoiceID+"/payments", "vendedor", map[string]any{"amount": "10"})
	assert.Equal(t, http.StatusForbidden, r.status)

	r = call(t, app, http.MethodPost, "/api/invoices/"+invoiceID+"/payments", "finanzas", map[string]any{"amount": "25"})
	require.Equal(t, http.StatusOK, r.status, string(r.raw))
	assert.True(t, dec(t, r.json(t)["balance"]).Equal(decimal.NewFromInt(50)))

	r = call(t, app, http.MethodPost, "/api/receivables/from-invoice/"+invoiceID, "finanzas", nil)
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	rec := r.json(t)
	recID := rec["id"].(string)
	assert.Equal(t, "c1", rec["counterparty_id"])
	assert.True(t, dec(t, rec["amount"]).Equal(decimal.NewFromInt(50)))

	r = call(t, app, http.MethodPost, "/api/receivables/"+recID+"/settle", "finanzas", nil)
	require.Equal(t, http.StatusOK, r.status, string(r.raw))
	assert.Equal(t, "settled", r.json(t)["status"])

	r = call(t, app, http.MethodPost, "/api/receivables/"+recID+"/settle", "finanzas", nil)
	assert.Equal(t, http.StatusConflict, r.status)
	assert.Equal(t, "STATE_TRANSITION", r.json(t)["code"])

	r = call(t, app, http.MethodGet, "/api/invoices/"+invoiceID, "finanzas", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "paid", r.json(t)["status"])
	assert.NotEmpty(t, r.json(t)["paid_date"])

	r = call(t, app, http.MethodGet, "/api/invoices/"+invoiceID+"/pdf", "finanzas", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "application/pdf", r.header.Get("Content-Type"))
	assert.Contains(t, r.header.Get("Content-Disposition"), inv["number"].(string))
	assert.True(t, bytes.HasPrefix(r.raw, []byte("%PDF")))
}

func TestAPI_CuentasVencidas(t *testing.T) {
	app := newAPI(t)

	r := call(t, app, http.MethodPost, "/api/payables", "finanzas", map[string]any{
		"category": "rent", "description": "arriendo bodega", "amount": "1200", "due_date": "2020-01-05T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	pay := r.json(t)
	assert.Equal(t, "overdue", pay["status"])

	r = call(t, app, http.MethodGet, "/api/payables/overdue", "finanzas", nil)
	require.Equal(t, http.StatusOK, r.status)
	require.Len(t, r.list(t), 1)

	r = call(t, app, http.MethodGet, "/api/payables/overdue?as_of=2019-12-31", "finanzas", nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Empty(t, r.list(t))

	r = call(t, app, http.MethodPost, "/api/payables/"+pay["id"].(string)+"/settle", "finanzas", map[string]any{"amount": "2000"})
	assert.Equal(t, http.StatusBadRequest, r.status, "no se liquida por más del nominal")

	r = call(t, app, http.MethodPost, "/api/payables", "finanzas", map[string]any{"description": "x", "amount": "1"})
	require.Equal(t, http.StatusBadRequest, r.status)
	fields := r.json(t)["fields"].(map[string]any)
	assert.Contains(t, fields, "category")
	assert.Contains(t, fields, "due_date")

	r = call(t, app, http.MethodPost, "/api/receivables", "finanzas", map[string]any{
		"customer_id": "s1", "description": "no es cliente", "amount": "10", "due_date": "2099-01-01T00:00:00Z",
	})
	assert.GreaterOrEqual(t, r.status, http.StatusBadRequest)
	assert.Less(t, r.status, http.StatusInternalServerError)
}

func TestAPI_Numeracion(t *testing.T) {
	app := newAPI(t)

	r := call(t, app, http.MethodPost, "/api/numbering/invoice/next", "finanzas", map[string]any{"year": 2030, "month": 1})
	assert.Equal(t, http.StatusForbidden, r.status)

	r = call(t, app, http.MethodPost, "/api/numbering/invoice/next", "admin", map[string]any{"year": 2030, "month": 1})
	require.Equal(t, http.StatusCreated, r.status, string(r.raw))
	assert.Equal(t, "FAT20300100001", r.json(t)["number"])

	r = call(t, app, http.MethodPost, "/api/numbering/INVOICE/next", "admin", map[string]any{"year": 2030, "month": 1})
	require.Equal(t, http.StatusCreated, r.status)
	assert.Equal(t, "FAT20300100002", r.json(t)["number"])

	r = call(t, app, http.MethodPost, "/api/numbering/order/next", "admin", map[string]any{"year": 2030, "month": 13})
	assert.Equal(t, http.StatusBadRequest, r.status)
}
