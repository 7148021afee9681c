// Package guest hands out anonymous shopper identities so a cart can exist
// before signup. A guest is just a uuid behind a long-lived bearer token.
package guest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"osebo-storefront/internal/domain"
	tokenrepo "osebo-storefront/internal/repository/token"
)

const guestTTL = 90 * 24 * time.Hour

type Service struct {
	repo tokenRepo
	now  func() time.Time
}

type tokenRepo interface {
	Create(ctx context.Context, token tokenrepo.Token) error
	Get(ctx context.Context, token string) (*tokenrepo.Token, error)
	Delete(ctx context.Context, token string) error
}

func New(repo tokenrepo.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Begin mints a fresh guest identity and its token.
func (s *Service) Begin(ctx context.Context) (guestID, token string, err error) {
	guestID = uuid.NewString()
	t := tokenrepo.Token{
		Token:     uuid.NewString(),
		GuestID:   &guestID,
		Kind:      "guest",
		ExpiresAt: s.now().Add(guestTTL),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return "", "", err
	}
	return guestID, t.Token, nil
}

// Resolve returns the guest id behind a token, rejecting expired or
// non-guest tokens.
func (s *Service) Resolve(ctx context.Context, token string) (string, error) {
	t, err := s.repo.Get(ctx, token)
	if err != nil {
		return "", err
	}
	if s.now().After(t.ExpiresAt) {
		_ = s.repo.Delete(ctx, token)
		return "", domain.ErrNotFound
	}
	if t.Kind != "guest" || t.GuestID == nil {
		return "", domain.ErrNotFound
	}
	return *t.GuestID, nil
}
