package customer

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"osebo-storefront/internal/domain"
	tokenrepo "osebo-storefront/internal/repository/token"
)

type stubCustomerRepo struct {
	byEmail map[string]*domain.Customer
	nextID  int
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{byEmail: map[string]*domain.Customer{}}
}

func (s *stubCustomerRepo) Create(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	if _, exists := s.byEmail[c.Email]; exists {
		return nil, domain.ErrAlreadyExists
	}
	s.nextID++
	c.ID = "cust-" + string(rune('0'+s.nextID))
	s.byEmail[c.Email] = &c
	return &c, nil
}

func (s *stubCustomerRepo) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	c, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (s *stubCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	for _, c := range s.byEmail {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

type stubTokenRepo struct {
	tokens map[string]tokenrepo.Token
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: map[string]tokenrepo.Token{}}
}

func (s *stubTokenRepo) Create(_ context.Context, t tokenrepo.Token) error {
	s.tokens[t.Token] = t
	return nil
}

func (s *stubTokenRepo) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	t, ok := s.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (s *stubTokenRepo) Delete(_ context.Context, token string) error {
	if _, ok := s.tokens[token]; !ok {
		return domain.ErrNotFound
	}
	delete(s.tokens, token)
	return nil
}

type stubClaimer struct {
	claims [][2]string
}

func (s *stubClaimer) ClaimGuestCart(_ context.Context, guestID, customerID string) error {
	s.claims = append(s.claims, [2]string{guestID, customerID})
	return nil
}

func testService() (*Service, *stubClaimer, *TokenManager) {
	tokens := &TokenManager{repo: newStubTokenRepo(), now: time.Now}
	claimer := &stubClaimer{}
	svc := &Service{
		repo:   newStubCustomerRepo(),
		tokens: tokens,
		carts:  claimer,
		logger: log.New(io.Discard, "", 0),
	}
	return svc, claimer, tokens
}

func signup() SignupInput {
	return SignupInput{
		Email:     "Ama@Example.com",
		Password:  "hunter2hunter2",
		FirstName: "Ama",
		LastName:  "Mensah",
		Phone:     "0241234567",
	}
}

func TestSignupAndLogin(t *testing.T) {
	svc, _, tokens := testService()
	ctx := context.Background()

	session, err := svc.Signup(ctx, signup())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if session.Customer.Email != "ama@example.com" {
		t.Fatalf("email not normalized: %s", session.Customer.Email)
	}
	if session.Customer.PasswordHash != "" {
		t.Fatal("password hash leaked in session")
	}
	if session.Token == "" {
		t.Fatal("expected a session token")
	}
	customerID, err := tokens.ResolveCustomer(ctx, session.Token)
	if err != nil || customerID != session.Customer.ID {
		t.Fatalf("token does not resolve to customer: %v %q", err, customerID)
	}

	login, err := svc.Login(ctx, LoginInput{Email: "AMA@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.Customer.ID != session.Customer.ID {
		t.Fatal("login returned a different customer")
	}
}

func TestSignupRejectsBadInput(t *testing.T) {
	svc, _, _ := testService()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*SignupInput)
	}{
		{"bad email", func(in *SignupInput) { in.Email = "not-an-email" }},
		{"short password", func(in *SignupInput) { in.Password = "short" }},
		{"missing first name", func(in *SignupInput) { in.FirstName = "  " }},
		{"bad phone", func(in *SignupInput) { in.Phone = "12345" }},
	}
	for _, tc := range cases {
		in := signup()
		tc.mutate(&in)
		if _, err := svc.Signup(ctx, in); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _, _ := testService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, signup()); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	_, err := svc.Signup(ctx, signup())
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := testService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, signup()); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	_, err := svc.Login(ctx, LoginInput{Email: "ama@example.com", Password: "wrongwrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "hunter2hunter2"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email should look like bad credentials, got %v", err)
	}
}

func TestLoginClaimsGuestCart(t *testing.T) {
	svc, claimer, _ := testService()
	ctx := context.Background()

	session, err := svc.Signup(ctx, signup())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if _, err := svc.Login(ctx, LoginInput{Email: "ama@example.com", Password: "hunter2hunter2", GuestID: "guest-7"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	found := false
	for _, claim := range claimer.claims {
		if claim[0] == "guest-7" && claim[1] == session.Customer.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("guest cart not claimed: %v", claimer.claims)
	}
}

func TestTokenExpiry(t *testing.T) {
	repo := newStubTokenRepo()
	manager := &TokenManager{repo: repo, now: time.Now}

	token, err := manager.IssueSession(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	manager.now = func() time.Time { return time.Now().Add(sessionTTL + time.Hour) }
	_, err = manager.ResolveCustomer(context.Background(), token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	// expired token is deleted on resolve
	if _, ok := repo.tokens[token]; ok {
		t.Fatal("expired token should be deleted")
	}
}

func TestLogoutTwice(t *testing.T) {
	svc, _, _ := testService()
	ctx := context.Background()

	session, err := svc.Signup(ctx, signup())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if err := svc.Logout(ctx, session.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if err := svc.Logout(ctx, session.Token); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
}
