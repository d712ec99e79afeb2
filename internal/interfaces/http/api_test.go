package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-beras/internal/application/dto"
	"github.com/jhoicas/pos-beras/internal/application/inventory"
	"github.com/jhoicas/pos-beras/internal/application/report"
	"github.com/jhoicas/pos-beras/internal/application/usecase"
	"github.com/jhoicas/pos-beras/internal/domain"
	inv "github.com/jhoicas/pos-beras/internal/domain/inventory"
	"github.com/jhoicas/pos-beras/internal/infrastructure/sqlite"
	apphttp "github.com/jhoicas/pos-beras/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/pos-beras/pkg/jwt"
)

// newAPI arma la API completa sobre una base SQLite temporal.
func newAPI(t *testing.T, secret string) *fiber.App {
	t.Helper()
	return newAPIWithTimeout(t, secret, 5*time.Second)
}

func newAPIWithTimeout(t *testing.T, secret string, txTimeout time.Duration) *fiber.App {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "pos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	read := store.Repos()
	reports := sqlite.NewReportRepository(store.DB())
	coord := inventory.NewCoordinator(
		sqlite.NewTxRunner(store.DB(), txTimeout, zerolog.Nop()),
		read,
		inventory.NewRecorder(inv.SaleCodeGenerator{Prefix: "TRX"}),
		zerolog.Nop(),
	)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Coordinator:   coord,
		ProductUC:     usecase.NewProductUseCase(read.Products, coord),
		CustomerUC:    usecase.NewCustomerUseCase(read.Customers),
		SaleQuery:     usecase.NewSaleQueryUseCase(read.Sales),
		Replenishment: inventory.NewReplenishmentUseCase(read.Products, reports),
		Reports:       report.NewAggregator(reports, time.UTC, 10),
		JWTSecret:     secret,
		Log:           zerolog.Nop(),
		AppName:       "pos-beras-test",
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path string, body any, auth string) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func createProduct(t *testing.T, app *fiber.App, name string, price, qty int64) string {
	t.Helper()
	resp, body := call(t, app, http.MethodPost, "/api/products", dto.CreateProductRequest{
		Name: name, Category: "beras", UnitPrice: price, Cost: price * 8 / 10, MinQty: 5, OpeningQty: qty,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var p dto.ProductResponse
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, qty, p.Quantity)
	return p.ID
}

func TestHealth(t *testing.T) {
	app := newAPI(t, "")
	resp, body := call(t, app, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ok")
}

func TestAPI_TimeoutOpaco(t *testing.T) {
	app := newAPIWithTimeout(t, "", time.Nanosecond)

	resp, body := call(t, app, http.MethodPost, "/api/products", dto.CreateProductRequest{
		Name: "Beras Rojolele 5kg", Category: "beras", UnitPrice: 70000, Cost: 56000, OpeningQty: 10,
	}, "")
	require.Equal(t, http.StatusGatewayTimeout, resp.StatusCode, string(body))
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "TIMEOUT", e.Code)
	assert.Equal(t, domain.ErrTimeout.Error(), e.Message)
	assert.NotContains(t, string(body), "begin transaction")
	assert.NotContains(t, string(body), "deadline")
}

func TestAPI_VentaYConsulta(t *testing.T) {
	app := newAPI(t, "")
	p := createProduct(t, app, "Beras Pandan Wangi 5kg", 75000, 50)

	resp, body := call(t, app, http.MethodPost, "/api/sales", dto.CreateSaleRequest{
		Buyer: "Bu Sari", Tendered: 200000,
		Lines: []dto.SaleLineRequest{{ProductID: p, Quantity: 2}},
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var sale dto.CreateSaleResponse
	require.NoError(t, json.Unmarshal(body, &sale))
	assert.NotEmpty(t, sale.TransactionID)
	assert.Equal(t, int64(150000), sale.Total)
	assert.Equal(t, int64(50000), sale.Change)
	assert.Equal(t, "committed", sale.State)

	resp, body = call(t, app, http.MethodGet, "/api/sales/"+sale.Code, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.SaleResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, sale.TransactionID, got.ID)
	require.Len(t, got.Lines, 1)

	resp, _ = call(t, app, http.MethodGet, "/api/sales/TRX000", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_VentaSinStock(t *testing.T) {
	app := newAPI(t, "")
	p := createProduct(t, app, "Beras Merah 1kg", 25000, 50)
	q := createProduct(t, app, "Beras Ketan 1kg", 30000, 3)

	resp, body := call(t, app, http.MethodPost, "/api/sales", dto.CreateSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: p, Quantity: 10}, {ProductID: q, Quantity: 5}},
	}, "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)
	require.NotNil(t, e.Details)
	assert.Equal(t, q, e.Details.ProductID)
	assert.Equal(t, 2, e.Details.Line)
	assert.Equal(t, int64(5), e.Details.Requested)
	require.NotNil(t, e.Details.Available)
	assert.Equal(t, int64(3), *e.Details.Available)

	resp, body = call(t, app, http.MethodGet, "/api/products/"+p, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var prod dto.ProductResponse
	require.NoError(t, json.Unmarshal(body, &prod))
	assert.Equal(t, int64(50), prod.Quantity)
}

func TestAPI_ErroresDeValidacion(t *testing.T) {
	app := newAPI(t, "")
	p := createProduct(t, app, "Beras IR64 5kg", 60000, 10)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"venta vacía", http.MethodPost, "/api/sales", dto.CreateSaleRequest{}, http.StatusBadRequest, "EMPTY_ORDER"},
		{"cantidad cero", http.MethodPost, "/api/sales", dto.CreateSaleRequest{Lines: []dto.SaleLineRequest{{ProductID: p}}}, http.StatusBadRequest, "INVALID_QUANTITY"},
		{"producto inexistente", http.MethodPost, "/api/sales", dto.CreateSaleRequest{Lines: []dto.SaleLineRequest{{ProductID: "nope", Quantity: 1}}}, http.StatusNotFound, "NOT_FOUND"},
		{"entrada sin proveedor", http.MethodPost, "/api/stock/receipts", dto.ReceiptRequest{ProductID: p, Quantity: 5}, http.StatusBadRequest, "MISSING_SUPPLIER"},
		{"entrada cantidad negativa", http.MethodPost, "/api/stock/receipts", dto.ReceiptRequest{ProductID: p, Quantity: -5, Supplier: "Toko Jaya"}, http.StatusBadRequest, "INVALID_QUANTITY"},
		{"lote vacío", http.MethodPost, "/api/stock/receipts/batch", dto.ReceiptBatchRequest{}, http.StatusBadRequest, "EMPTY_BATCH"},
		{"traslado sin destino", http.MethodPost, "/api/stock/transfers", dto.TransferRequest{Items: []dto.TransferItemRequest{{ProductID: p, Quantity: 1}}}, http.StatusBadRequest, "MISSING_DESTINATION"},
		{"devolución sin líneas", http.MethodPost, "/api/returns", dto.CreateReturnRequest{Kind: "sale", Reference: "x"}, http.StatusBadRequest, "EMPTY_BATCH"},
		{"devolución referencia inexistente", http.MethodPost, "/api/returns", dto.CreateReturnRequest{Kind: "sale", Reference: "TRX999", Lines: []dto.ReturnLineRequest{{ProductID: p, Quantity: 1}}}, http.StatusNotFound, "NOT_FOUND"},
		{"stock negativo", http.MethodPut, "/api/products/" + p + "/stock", map[string]int64{"quantity": -1}, http.StatusBadRequest, "INVALID_QUANTITY"},
		{"fecha inválida", http.MethodGet, "/api/reports/summary?from=18-10-2026", nil, http.StatusBadRequest, "VALIDATION"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := call(t, app, tc.method, tc.path, tc.body, "")
			assert.Equal(t, tc.status, resp.StatusCode, string(body))
			var e dto.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &e))
			assert.Equal(t, tc.code, e.Code)
		})
	}
}

func TestAPI_EntradasTrasladosYDevoluciones(t *testing.T) {
	app := newAPI(t, "")
	p := createProduct(t, app, "Beras Curah 1kg", 1000, 50)

	resp, body := call(t, app, http.MethodPost, "/api/stock/receipts", dto.ReceiptRequest{ProductID: p, Quantity: 20, Supplier: "Toko Jaya"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var mv dto.MovementResponse
	require.NoError(t, json.Unmarshal(body, &mv))
	assert.NotEmpty(t, mv.MovementID)
	require.Len(t, mv.Stock, 1)
	assert.Equal(t, int64(70), mv.Stock[0].Current)

	resp, body = call(t, app, http.MethodPost, "/api/stock/transfers", dto.TransferRequest{Items: []dto.TransferItemRequest{
		{ProductID: p, Quantity: 100, Destination: "Cabang Bekasi"},
	}}, "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), p)

	resp, body = call(t, app, http.MethodPost, "/api/sales", dto.CreateSaleRequest{Lines: []dto.SaleLineRequest{{ProductID: p, Quantity: 5}}}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var sale dto.CreateSaleResponse
	require.NoError(t, json.Unmarshal(body, &sale))

	resp, body = call(t, app, http.MethodPost, "/api/returns", dto.CreateReturnRequest{
		Kind: "sale", Reference: sale.Code, Lines: []dto.ReturnLineRequest{{ProductID: p, Quantity: 3}},
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var ret dto.CreateReturnResponse
	require.NoError(t, json.Unmarshal(body, &ret))
	assert.Equal(t, int64(3000), ret.Total)

	resp, body = call(t, app, http.MethodGet, "/api/reports/reconciliation", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var recon []dto.ReconciliationDTO
	require.NoError(t, json.Unmarshal(body, &recon))
	require.Len(t, recon, 1)
	assert.True(t, recon[0].Balanced)
	assert.Equal(t, int64(68), recon[0].OnHand)

	resp, body = call(t, app, http.MethodGet, "/api/reports/summary", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary dto.SummaryDTO
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, int64(5000), summary.GrossSales)
	assert.Equal(t, int64(2000), summary.NetSales)
}

func TestAPI_CorreccionSoloAdmin(t *testing.T) {
	app := newAPI(t, testJWTSecret)
	admin := tokenForRole(t, pkgjwt.RoleAdmin)
	kasir := tokenForRole(t, pkgjwt.RoleKasir)

	resp, body := call(t, app, http.MethodPost, "/api/products", dto.CreateProductRequest{Name: "Beras Hitam", UnitPrice: 40000, MinQty: 5, OpeningQty: 10}, kasir)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var p dto.ProductResponse
	require.NoError(t, json.Unmarshal(body, &p))

	resp, _ = call(t, app, http.MethodPut, "/api/products/"+p.ID+"/stock", map[string]int64{"quantity": 4}, kasir)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = call(t, app, http.MethodPut, "/api/products/"+p.ID+"/stock", map[string]int64{"quantity": 4}, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var mv dto.MovementResponse
	require.NoError(t, json.Unmarshal(body, &mv))
	assert.Equal(t, int64(10), mv.Stock[0].Previous)
	assert.Equal(t, int64(4), mv.Stock[0].Current)

	resp, _ = call(t, app, http.MethodGet, "/api/products", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = call(t, app, http.MethodGet, "/api/products/low-stock", nil, kasir)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), p.ID)

	resp, body = call(t, app, http.MethodGet, "/api/stock/replenishment", nil, kasir)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var repl struct {
		Total          int                              `json:"total"`
		Replenishments []dto.ReplenishmentSuggestionDTO `json:"replenishments"`
	}
	require.NoError(t, json.Unmarshal(body, &repl))
	require.Equal(t, 1, repl.Total)
	assert.Equal(t, int64(8), repl.Replenishments[0].IdealStock)
	assert.Equal(t, int64(4), repl.Replenishments[0].SuggestedOrderQty)
	assert.Equal(t, 1, repl.Replenishments[0].Priority)

	resp, _ = call(t, app, http.MethodDelete, "/api/products/"+p.ID, nil, admin)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, body = call(t, app, http.MethodGet, "/api/products", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(body), p.ID)
}

func TestAPI_Clientes(t *testing.T) {
	app := newAPI(t, "")
	resp, body := call(t, app, http.MethodPost, "/api/customers", dto.CreateCustomerRequest{Name: "Warung Bu Tini", Category: "Grosir"}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, _ = call(t, app, http.MethodPost, "/api/customers", dto.CreateCustomerRequest{Name: " "}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = call(t, app, http.MethodGet, "/api/reports/customers", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var shares []dto.CategoryShareDTO
	require.NoError(t, json.Unmarshal(body, &shares))
	require.Len(t, shares, 1)
	assert.Equal(t, "grosir", shares[0].Category)
	assert.Equal(t, int64(100), shares[0].Percent)
}
