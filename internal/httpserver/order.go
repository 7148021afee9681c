package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"osebo-storefront/internal/checkout"
	"osebo-storefront/internal/domain"
	"osebo-storefront/internal/metrics"
	orderrepo "osebo-storefront/internal/repository/order"
)

func placeOrderHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form checkout.Form
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		order, err := svc.Place(c.Request.Context(), ownerFromContext(c), form)
		if err != nil {
			respondError(c, err)
			return
		}
		metrics.OrdersTotal.WithLabelValues(order.PaymentMethod).Inc()
		c.JSON(http.StatusCreated, order)
	}
}

func getOrderHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		// customer orders are only visible to their owner
		if order.CustomerID != nil && *order.CustomerID != c.GetString(ctxCustomerID) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func myOrdersHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.ListForCustomer(c.Request.Context(), c.GetString(ctxCustomerID))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
	}
}

// verifyPaymentHandler is the paystack callback target: the reference is the
// order id.
func verifyPaymentHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.ConfirmPayment(c.Request.Context(), c.Param("reference"))
		if err != nil {
			metrics.PaymentFailures.Inc()
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func deliveryDatesHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		dates := svc.DeliveryDates()
		out := make([]string, 0, len(dates))
		for _, d := range dates {
			out = append(out, d.Format(checkout.DateLayout))
		}
		c.JSON(http.StatusOK, gin.H{"dates": out, "timeWindows": checkout.TimeWindows})
	}
}

func adminListOrdersHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		orders, err := svc.List(c.Request.Context(), orderrepo.ListFilter{
			Status: c.Query("status"),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
	}
}

func adminUpdateOrderStatusHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status string `json:"status"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		order, err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			} else {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			}
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func adminSummaryHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
		if err != nil || days < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		since := time.Now().AddDate(0, 0, -days)
		summary, err := svc.Summary(c.Request.Context(), since)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}
