package httpserver

import (
	"net/http"
	"strings"
	"testing"

	"osebo-storefront/internal/domain"
	customersvc "osebo-storefront/internal/service/customer"
)

func TestGuestHandler(t *testing.T) {
	router := newTestRouter(t, defaultTestDeps())
	rec := doRequest(router, http.MethodPost, "/api/auth/guest", "", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"guestId":"guest-1"`) || !strings.Contains(body, `"token":"guest-token"`) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestSignupHandler(t *testing.T) {
	d := defaultTestDeps()
	d.customers.session = &customersvc.Session{
		Token:    "session-token",
		Customer: domain.Customer{ID: "cust-1", Email: "ama@example.com"},
	}
	router := newTestRouter(t, d)

	body := `{"email":"ama@example.com","password":"hunter2hunter2","firstName":"Ama"}`
	rec := doRequest(router, http.MethodPost, "/api/auth/signup", "", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"email":"ama@example.com"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestSignupHandlerDuplicate(t *testing.T) {
	d := defaultTestDeps()
	d.customers.signupErr = domain.ErrAlreadyExists
	router := newTestRouter(t, d)

	body := `{"email":"ama@example.com","password":"hunter2hunter2","firstName":"Ama"}`
	rec := doRequest(router, http.MethodPost, "/api/auth/signup", "", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	d := defaultTestDeps()
	d.customers.loginErr = customersvc.ErrInvalidCredentials
	router := newTestRouter(t, d)

	body := `{"email":"ama@example.com","password":"wrong"}`
	rec := doRequest(router, http.MethodPost, "/api/auth/login", "", body)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestMeHandlerUnauthorized(t *testing.T) {
	router := newTestRouter(t, defaultTestDeps())
	rec := doRequest(router, http.MethodGet, "/api/me", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	// a guest token is not enough for /me
	rec = doRequest(router, http.MethodGet, "/api/me", "guest-token", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for guest token, got %d", rec.Code)
	}
}

func TestMeHandlerSuccess(t *testing.T) {
	d := defaultTestDeps()
	d.customers.session = &customersvc.Session{
		Token:    "session-token",
		Customer: domain.Customer{ID: "cust-1", Email: "me@example.com", PasswordHash: "secret"},
	}
	router := newTestRouter(t, d)

	rec := doRequest(router, http.MethodGet, "/api/me", "session-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"email":"me@example.com"`) {
		t.Fatalf("unexpected body: %s", body)
	}
	if strings.Contains(body, "secret") {
		t.Fatalf("password hash leaked: %s", body)
	}
}
