package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"osebo-storefront/internal/domain"
	productsvc "osebo-storefront/internal/service/product"
)

// adminSaveProductHandler serves both create (POST) and update (PUT with id
// in the path).
func adminSaveProductHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productsvc.SaveInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if id := c.Param("id"); id != "" {
			req.ID = id
		}
		product, err := svc.Save(c.Request.Context(), req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status := http.StatusOK
		if c.Request.Method == http.MethodPost {
			status = http.StatusCreated
		}
		c.JSON(status, product)
	}
}

func adminDeleteProductHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func adminSetStockHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Stock int `json:"stock"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := svc.SetVariantStock(c.Request.Context(), c.Param("id"), req.Stock); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			} else {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}
		c.Status(http.StatusNoContent)
	}
}
