package customer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"osebo-storefront/internal/domain"
	tokenrepo "osebo-storefront/internal/repository/token"
)

const sessionTTL = 30 * 24 * time.Hour

var ErrTokenExpired = errors.New("token expired")

// TokenManager issues and resolves opaque bearer tokens backed by the
// tokens table.
type TokenManager struct {
	repo tokenRepo
	now  func() time.Time
}

type tokenRepo interface {
	Create(ctx context.Context, token tokenrepo.Token) error
	Get(ctx context.Context, token string) (*tokenrepo.Token, error)
	Delete(ctx context.Context, token string) error
}

func NewTokenManager(repo tokenrepo.Repository) *TokenManager {
	return &TokenManager{repo: repo, now: time.Now}
}

// IssueSession creates a customer session token.
func (m *TokenManager) IssueSession(ctx context.Context, customerID string) (string, error) {
	t := tokenrepo.Token{
		Token:      uuid.NewString(),
		CustomerID: &customerID,
		Kind:       "session",
		ExpiresAt:  m.now().Add(sessionTTL),
	}
	if err := m.repo.Create(ctx, t); err != nil {
		return "", err
	}
	return t.Token, nil
}

// Resolve returns the stored token, deleting and rejecting expired ones.
func (m *TokenManager) Resolve(ctx context.Context, token string) (*tokenrepo.Token, error) {
	t, err := m.repo.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if m.now().After(t.ExpiresAt) {
		_ = m.repo.Delete(ctx, token)
		return nil, ErrTokenExpired
	}
	return t, nil
}

// ResolveCustomer returns the customer id behind a session token.
func (m *TokenManager) ResolveCustomer(ctx context.Context, token string) (string, error) {
	t, err := m.Resolve(ctx, token)
	if err != nil {
		return "", err
	}
	if t.Kind != "session" || t.CustomerID == nil {
		return "", domain.ErrNotFound
	}
	return *t.CustomerID, nil
}

// Revoke deletes a token. Logging out twice is fine.
func (m *TokenManager) Revoke(ctx context.Context, token string) error {
	err := m.repo.Delete(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}
