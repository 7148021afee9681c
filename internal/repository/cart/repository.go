package cart

import (
	"context"

	"osebo-storefront/internal/domain"
)

type CreateCartInput struct {
	CustomerID *string
	GuestID    *string
	Currency   string
}

type Repository interface {
	Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetActiveByCustomer(ctx context.Context, customerID string) (*domain.Cart, error)
	GetActiveByGuest(ctx context.Context, guestID string) (*domain.Cart, error)
	// ReplaceLines swaps the cart's lines for the given set in one transaction.
	ReplaceLines(ctx context.Context, cartID string, lines []domain.CartLine) error
	// AssignCustomerToGuest attaches a guest's active cart to a customer,
	// used when a guest logs in.
	AssignCustomerToGuest(ctx context.Context, guestID, customerID string) (*domain.Cart, error)
	SetState(ctx context.Context, cartID, state string) error
}
