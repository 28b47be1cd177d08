//go:build integration

package router_test

// Runs the HTTP API against real Postgres and Redis containers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"shoppos/internal/config"
	"shoppos/internal/infra"
	"shoppos/internal/middleware"
	"shoppos/internal/router"
	"shoppos/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

type idBody struct {
	ID string `json:"id"`
}

// ── Environment ──────────────────────────────────────────────────────────────

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("shoppos_test"),
		tcPostgres.WithUsername("shoppos"),
		tcPostgres.WithPassword("shoppos"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(pgC) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(rdC) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                   8000,
		Env:                    "test",
		WorkerPoolSize:         1,
		AllowedOrigins:         "*",
		DatabaseURL:            pgURL,
		ConnectionOverridePath: filepath.Join(t.TempDir(), "connection.json"),
		RedisURL:               rdURL,
		JWTSecret:              "test-secret-key",
		JWTExpirationHours:     8,
		JWTRefreshHours:        24,
		RateLimit:              "1000-M",
		LoginRateLimit:         "100-M",
		ReceiptStoragePath:     t.TempDir(),
		LowStockThreshold:      5,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = infra.CloseDatabase(db) })

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	setup := service.NewSetupService(infra.NewConnectionStore(cfg.ConnectionOverridePath), cfg.DatabaseURL, infra.PingDSN, nil)
	limiters, err := middleware.NewLimiters(cfg.RateLimit, cfg.LoginRateLimit)
	require.NoError(t, err)
	r, err := router.New(router.Deps{Config: cfg, Redis: rdb, Mailer: infra.NewMailer(cfg), Setup: setup, Limiters: limiters}, db)
	require.NoError(t, err)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func signUp(t *testing.T, srv *httptest.Server, username string) (token, role string) {
	t.Helper()
	resp := do(t, srv, "POST", "/v1/auth/signup",
		jsonBody(t, map[string]string{"username": username, "password": "password123"}), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body struct {
		AccessToken string `json:"access_token"`
		User        struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	decodeJSON(t, resp, &body)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken, body.User.Role
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestIntegration_CreditSaleLifecycle(t *testing.T) {
	srv := setupServer(t)
	token, role := signUp(t, srv, "owner")
	require.Equal(t, "admin", role)

	// 1. Product
	resp := do(t, srv, "POST", "/v1/products",
		jsonBody(t, map[string]any{"name": "Milk", "price": 30, "cost": 20, "stock": 10}), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product idBody
	decodeJSON(t, resp, &product)

	// 2. Credit customer
	resp = do(t, srv, "POST", "/v1/credit-customers",
		jsonBody(t, map[string]any{"name": "Asha", "phone": "555-0101"}), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var customer idBody
	decodeJSON(t, resp, &customer)

	// 3. Credit checkout
	resp = do(t, srv, "POST", "/v1/sales", jsonBody(t, map[string]any{
		"items":          []map[string]any{{"product_id": product.ID, "quantity": 2}},
		"payment_method": "credit",
		"customer_id":    customer.ID,
	}), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sale struct {
		ID    string          `json:"id"`
		Total decimal.Decimal `json:"total"`
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	decodeJSON(t, resp, &sale)
	assert.True(t, decimal.NewFromInt(60).Equal(sale.Total), "total %s", sale.Total)
	require.Len(t, sale.Items, 1)

	var stock struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, do(t, srv, "GET", "/v1/products/"+product.ID, nil, token), &stock)
	assert.Equal(t, 8, stock.Stock)

	// 4. Buying more than is on hand fails without touching stock
	resp = do(t, srv, "POST", "/v1/sales", jsonBody(t, map[string]any{
		"items":          []map[string]any{{"product_id": product.ID, "quantity": 50}},
		"payment_method": "cash",
	}), token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// 5. Payment against the balance
	resp = do(t, srv, "POST", "/v1/credit-customers/"+customer.ID+"/payments",
		jsonBody(t, map[string]any{"amount": 25, "description": "cash at counter"}), token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var balance struct {
		TotalCredit decimal.Decimal `json:"total_credit"`
	}
	decodeJSON(t, resp, &balance)
	assert.True(t, decimal.NewFromInt(35).Equal(balance.TotalCredit), "balance %s", balance.TotalCredit)

	resp = do(t, srv, "GET", "/v1/credit-customers/reconcile", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var drift []map[string]any
	decodeJSON(t, resp, &drift)
	assert.Empty(t, drift)

	// 6. Partial refund with restock
	resp = do(t, srv, "POST", "/v1/refunds", jsonBody(t, map[string]any{
		"sale_id": sale.ID,
		"items":   []map[string]any{{"sale_item_id": sale.Items[0].ID, "quantity": 1}},
		"reason":  "damaged",
		"restock": true,
	}), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	decodeJSON(t, do(t, srv, "GET", "/v1/products/"+product.ID, nil, token), &stock)
	assert.Equal(t, 9, stock.Stock)

	// Refunding more than remains is rejected
	resp = do(t, srv, "POST", "/v1/refunds", jsonBody(t, map[string]any{
		"sale_id": sale.ID,
		"items":   []map[string]any{{"sale_item_id": sale.Items[0].ID, "quantity": 2}},
		"reason":  "again",
	}), token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// 7. Profit report
	resp = do(t, srv, "GET", "/v1/reports/profit", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profit struct {
		Revenue   decimal.Decimal `json:"revenue"`
		NetProfit decimal.Decimal `json:"net_profit"`
	}
	decodeJSON(t, resp, &profit)
	assert.True(t, decimal.NewFromInt(60).Equal(profit.Revenue), "revenue %s", profit.Revenue)
	assert.True(t, decimal.NewFromInt(10).Equal(profit.NetProfit), "net %s", profit.NetProfit)
}

func TestIntegration_PagePermissions(t *testing.T) {
	srv := setupServer(t)
	adminToken, _ := signUp(t, srv, "owner")
	cashierToken, role := signUp(t, srv, "clerk")
	require.Equal(t, "cashier", role)

	resp := do(t, srv, "GET", "/v1/settings", nil, cashierToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, srv, "GET", "/v1/settings", nil, adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, srv, "GET", "/v1/products", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
