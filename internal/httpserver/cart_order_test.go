package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"osebo-storefront/internal/checkout"
	"osebo-storefront/internal/domain"
)

func doAdminRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("X-API-KEY", "test-admin-key")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func cartWithLine() *domain.Cart {
	return &domain.Cart{
		ID:    "cart-1",
		State: "active",
		Lines: []domain.CartLine{
			{ID: "line-1", CartID: "cart-1", ProductID: "p1", VariantID: "v1", Title: "Accra Tee", UnitPriceCents: 10000, Quantity: 2},
		},
	}
}

func TestCartRequiresToken(t *testing.T) {
	router := newTestRouter(t, defaultTestDeps())
	rec := doRequest(router, http.MethodGet, "/api/cart", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGetCartComputesSummary(t *testing.T) {
	d := defaultTestDeps()
	d.carts.cart = cartWithLine()
	router := newTestRouter(t, d)

	rec := doRequest(router, http.MethodGet, "/api/cart", "guest-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"subtotalCents":20000`) || !strings.Contains(body, `"taxCents":1500`) || !strings.Contains(body, `"totalCents":21500`) {
		t.Fatalf("unexpected summary: %s", body)
	}
}

func TestAddCartItem(t *testing.T) {
	d := defaultTestDeps()
	d.carts.cart = cartWithLine()
	router := newTestRouter(t, d)

	body := `{"productId":"p1","variantId":"v1","quantity":2}`
	rec := doRequest(router, http.MethodPost, "/api/cart/items", "session-token", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestPlaceOrder(t *testing.T) {
	d := defaultTestDeps()
	d.orders.order = &domain.Order{ID: "ord-1", Status: domain.OrderStatusPending, PaymentMethod: "cash-on-delivery", TotalCents: 34250}
	router := newTestRouter(t, d)

	rec := doRequest(router, http.MethodPost, "/api/orders", "guest-token", `{}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"id":"ord-1"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestPlaceOrderValidationErrors(t *testing.T) {
	d := defaultTestDeps()
	d.orders.placeErr = checkout.FieldErrors{"phone": "phone must be a valid Ghana number (+233 or 0 followed by 9 digits)"}
	router := newTestRouter(t, d)

	rec := doRequest(router, http.MethodPost, "/api/orders", "guest-token", `{}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"phone"`) {
		t.Fatalf("field errors missing: %s", rec.Body.String())
	}
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	d := defaultTestDeps()
	d.orders.placeErr = &domain.InsufficientStockError{
		Shortages: []domain.StockShortage{{ProductID: "p1", VariantID: "v1", Requested: 5, Available: 2}},
	}
	router := newTestRouter(t, d)

	rec := doRequest(router, http.MethodPost, "/api/orders", "guest-token", `{}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"shortages"`) {
		t.Fatalf("shortages missing: %s", rec.Body.String())
	}
}

func TestGetOrderHidesOtherCustomers(t *testing.T) {
	owner := "cust-2"
	d := defaultTestDeps()
	d.orders.order = &domain.Order{ID: "ord-1", CustomerID: &owner}
	router := newTestRouter(t, d)

	// session-token belongs to cust-1
	rec := doRequest(router, http.MethodGet, "/api/orders/ord-1", "session-token", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAdminRequiresAPIKey(t *testing.T) {
	router := newTestRouter(t, defaultTestDeps())

	req := doRequest(router, http.MethodGet, "/api/admin/orders", "", "")
	if req.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", req.Code)
	}
}

func TestAdminListOrders(t *testing.T) {
	d := defaultTestDeps()
	d.orders.order = &domain.Order{ID: "ord-1", Status: domain.OrderStatusPending}
	router := newTestRouter(t, d)

	rec := doAdminRequest(router, http.MethodGet, "/api/admin/orders?status=pending&limit=10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if d.orders.listed.Status != "pending" || d.orders.listed.Limit != 10 {
		t.Fatalf("filter not passed through: %+v", d.orders.listed)
	}
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	d := defaultTestDeps()
	d.orders.order = &domain.Order{ID: "ord-1", Status: domain.OrderStatusPending}
	router := newTestRouter(t, d)

	rec := doAdminRequest(router, http.MethodPatch, "/api/admin/orders/ord-1/status", `{"status":"confirmed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"status":"confirmed"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
