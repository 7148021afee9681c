package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"osebo-storefront/internal/domain"
	cartsvc "osebo-storefront/internal/service/cart"
)

type cartResponse struct {
	Cart    *domain.Cart    `json:"cart"`
	Summary cartsvc.Summary `json:"summary"`
}

func renderCart(c *gin.Context, cart *domain.Cart) {
	c.JSON(http.StatusOK, cartResponse{Cart: cart, Summary: cartsvc.Summarize(*cart)})
}

func getCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.GetOrCreate(c.Request.Context(), ownerFromContext(c))
		if err != nil {
			respondError(c, err)
			return
		}
		renderCart(c, cart)
	}
}

func addCartItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartsvc.AddItemInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cart, err := svc.AddItem(c.Request.Context(), ownerFromContext(c), req)
		if err != nil {
			respondError(c, err)
			return
		}
		renderCart(c, cart)
	}
}

func updateCartItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Quantity int `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cart, err := svc.UpdateLine(c.Request.Context(), ownerFromContext(c), c.Param("lineId"), req.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		renderCart(c, cart)
	}
}

func removeCartItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.RemoveLine(c.Request.Context(), ownerFromContext(c), c.Param("lineId"))
		if err != nil {
			respondError(c, err)
			return
		}
		renderCart(c, cart)
	}
}

func clearCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.Clear(c.Request.Context(), ownerFromContext(c))
		if err != nil {
			respondError(c, err)
			return
		}
		renderCart(c, cart)
	}
}
