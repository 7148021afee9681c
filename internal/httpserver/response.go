package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"osebo-storefront/internal/checkout"
	"osebo-storefront/internal/domain"
	"osebo-storefront/internal/payment"
	ordersvc "osebo-storefront/internal/service/order"
)

// respondError maps service errors onto HTTP statuses. Field-level
// validation failures come back as a per-field map so the storefront can
// render them inline.
func respondError(c *gin.Context, err error) {
	var fieldErrs checkout.FieldErrors
	if errors.As(err, &fieldErrs) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": fieldErrs})
		return
	}
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusConflict, gin.H{"error": "insufficient stock", "shortages": stockErr.Shortages})
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, ordersvc.ErrEmptyCart):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "cart is empty"})
	case errors.Is(err, payment.ErrUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
