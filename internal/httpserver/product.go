package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"osebo-storefront/internal/region"
)

func listProductsHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.List(c.Request.Context(), c.Query("category"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
	}
}

func getProductHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := svc.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func listRegionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"regions":         region.List(),
		"defaultFeeCents": region.DefaultFeeCents,
	})
}
