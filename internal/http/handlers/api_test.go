package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"orderdesk/internal/domain"
	"orderdesk/internal/http/handlers"
	"orderdesk/internal/notify"
	"orderdesk/internal/repos"
)

func testApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, repos.EnsureSchema(db))
	t.Cleanup(func() { _ = db.Close() })

	db.MustExec(`INSERT INTO suppliers(id,name,email,reliability) VALUES
	  (1,'TechDistributor Inc','orders@techdist.com',4.5)`)
	db.MustExec(`INSERT INTO products(id,name,price,quantity,category,weight,supplier_id) VALUES
	  (1,'Laptop Pro 15',999.99,15,'Electronics',2.5,1),
	  (3,'Desk Lamp',10.00,6,'Accessories',1.0,1)`)
	db.MustExec(`INSERT INTO customers(id,name,email,phone,tier,loyalty_points,address) VALUES
	  (1,'Alice Smith','alice@email.com','555-0101','gold',0,'123 Main St, CA 94102'),
	  (2,'Eve Wilson','eve@email.com','555-0105','standard',0,'654 Maple Dr')`)

	app := fiber.New()
	handlers.NewDeps(db, notify.LogNotifier{}).Register(app.Group("/api/v1"))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func lampOrderBody(qty int) map[string]any {
	return map[string]any{
		"customer_id": 2,
		"items": []map[string]any{
			{"product_id": 3, "quantity": qty, "unit_price": 10.00},
		},
		"payment": map[string]any{
			"method": "credit_card", "valid": true,
			"card_number": "4111111111111111", "amount": 500.0,
		},
		"shipping_method": "standard",
	}
}

func TestSubmitOrderEndpoint(t *testing.T) {
	app := testApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/orders", lampOrderBody(1))
	require.Equal(t, http.StatusCreated, status, "body: %v", body)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "pending", body["status"])

	status, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/orders/%v", body["id"]), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pending", body["status"])
}

func TestSubmitOrderErrorMapping(t *testing.T) {
	app := testApp(t)

	t.Run("unknown customer is 404", func(t *testing.T) {
		body := lampOrderBody(1)
		body["customer_id"] = 999
		status, _ := doJSON(t, app, http.MethodPost, "/api/v1/orders", body)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("oversell is 409", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPost, "/api/v1/orders", lampOrderBody(100))
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("insufficient payment is 402", func(t *testing.T) {
		body := lampOrderBody(1)
		body["payment"].(map[string]any)["amount"] = 0.01
		status, _ := doJSON(t, app, http.MethodPost, "/api/v1/orders", body)
		assert.Equal(t, http.StatusPaymentRequired, status)
	})

	t.Run("zero quantity is 400", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPost, "/api/v1/orders", lampOrderBody(0))
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("bad order id is 400", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodGet, "/api/v1/orders/abc", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("unknown order is 404", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodGet, "/api/v1/orders/999", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestOrderLifecycleEndpoints(t *testing.T) {
	app := testApp(t)

	status, order := doJSON(t, app, http.MethodPost, "/api/v1/orders", lampOrderBody(1))
	require.Equal(t, http.StatusCreated, status)
	id := fmt.Sprintf("%v", order["id"])

	status, shipped := doJSON(t, app, http.MethodPost, "/api/v1/orders/"+id+"/ship", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "shipped", shipped["status"])
	assert.NotEmpty(t, shipped["tracking_number"])

	// Cancelling after shipping conflicts.
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/orders/"+id+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/orders/"+id+"/status",
		map[string]any{"status": "delivered"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "delivered", body["status"])
}

func TestCatalogEndpoints(t *testing.T) {
	app := testApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]any{
		"id": 50, "name": "Monitor 27", "price": 249.99, "quantity": 3,
		"category": "Electronics", "weight": 4.0, "supplier_id": 1,
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]any{
		"id": -1, "name": "Broken",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/products/50/restock",
		map[string]any{"quantity": 10, "supplier_id": 1})
	require.Equal(t, http.StatusOK, status)

	// Wrong supplier conflicts.
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/products/50/restock",
		map[string]any{"quantity": 10, "supplier_id": 42})
	assert.Equal(t, http.StatusConflict, status)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/products/low-stock?threshold=6", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var low []domain.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&low))
	assert.Len(t, low, 1)
	assert.Equal(t, int64(3), low[0].ID)
}

func TestPromotionAndReportEndpoints(t *testing.T) {
	app := testApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/promotions", map[string]any{
		"id": 9, "code": "FALL20", "discount_percent": 20, "min_purchase": 50,
		"valid_until": domain.FormatTime(time.Now().Add(48 * time.Hour)),
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/promotions", map[string]any{
		"id": 10, "code": "bad code!", "discount_percent": 20,
		"valid_until": domain.FormatTime(time.Now()),
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/orders", lampOrderBody(2))
	require.Equal(t, http.StatusCreated, status)

	q := url.Values{}
	q.Set("start", domain.FormatTime(time.Now().Add(-time.Hour)))
	q.Set("end", domain.FormatTime(time.Now().Add(time.Hour)))
	status, report := doJSON(t, app, http.MethodGet, "/api/v1/reports/sales?"+q.Encode(), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), report["total_orders"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/reports/sales", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, notified := doJSON(t, app, http.MethodPost, "/api/v1/marketing/notify",
		map[string]any{"segment": "gold", "message": "VIP sale"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), notified["notified"])
}

func TestCustomerEndpoints(t *testing.T) {
	app := testApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/customers", map[string]any{
		"id": 7, "name": "Frank Ocean", "email": "frank@email.com",
		"tier": "platinum", "address": "456 Oak Ave, NY 10001",
	})
	require.Equal(t, http.StatusCreated, status)
	// Unknown tiers fall back to standard.
	assert.Equal(t, "standard", body["tier"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/customers", map[string]any{
		"id": 8, "name": "No Email",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/customers/7/lifetime-value", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["lifetime_value"])
}
