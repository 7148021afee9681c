package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
)

// StockShortage describes one variant whose requested quantity exceeds stock.
type StockShortage struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// InsufficientStockError is returned when an order cannot be fulfilled.
// It lists every short variant, not just the first.
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("variant %s: requested %d, available %d", s.VariantID, s.Requested, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}
