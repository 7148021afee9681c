package order

import (
	"context"
	"time"

	"osebo-storefront/internal/domain"
)

// ListFilter narrows admin order listings.
type ListFilter struct {
	Status string
	Limit  int
	Offset int
}

// DailyStat is one day of the admin revenue report.
type DailyStat struct {
	Day          time.Time `json:"day"`
	OrderCount   int       `json:"orderCount"`
	RevenueCents int64     `json:"revenueCents"`
}

// ProductStat is one row of the top-products report.
type ProductStat struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
}

type Repository interface {
	// Create persists the order and decrements variant stock in one
	// transaction. If any variant lacks stock, nothing is written and a
	// *domain.InsufficientStockError lists every shortage.
	Create(ctx context.Context, order domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error)
	RevenueByDay(ctx context.Context, since time.Time) ([]DailyStat, error)
	TopProducts(ctx context.Context, since time.Time, limit int) ([]ProductStat, error)
}
