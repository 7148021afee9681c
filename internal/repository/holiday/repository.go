package holiday

import (
	"context"

	"osebo-storefront/internal/delivery"
)

type Repository interface {
	// ListAll returns every configured holiday; entries with Year 0 recur
	// annually.
	ListAll(ctx context.Context) ([]delivery.Holiday, error)
	Upsert(ctx context.Context, h delivery.Holiday) error
}
