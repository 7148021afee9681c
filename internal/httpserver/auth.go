package httpserver

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"osebo-storefront/internal/domain"
	cartsvc "osebo-storefront/internal/service/cart"
	customersvc "osebo-storefront/internal/service/customer"
)

const (
	ctxCustomerID = "customerID"
	ctxGuestID    = "guestID"
	ctxToken      = "token"
)

// identityMiddleware resolves an optional bearer token into a customer or
// guest identity. Requests without a token pass through anonymous.
func identityMiddleware(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		c.Set(ctxToken, token)
		if customerID, err := deps.Sessions.ResolveCustomer(c.Request.Context(), token); err == nil {
			c.Set(ctxCustomerID, customerID)
			c.Next()
			return
		}
		if guestID, err := deps.GuestSvc.Resolve(c.Request.Context(), token); err == nil {
			c.Set(ctxGuestID, guestID)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func requireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxCustomerID) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// requireOwner admits customers and guests alike; carts and checkout need
// some identity to hang the cart on.
func requireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxCustomerID) == "" && c.GetString(ctxGuestID) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "a guest or customer token is required"})
			return
		}
		c.Next()
	}
}

func ownerFromContext(c *gin.Context) cartsvc.Owner {
	return cartsvc.Owner{
		CustomerID: c.GetString(ctxCustomerID),
		GuestID:    c.GetString(ctxGuestID),
	}
}

func adminAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin api disabled"})
			return
		}
		provided := c.GetHeader("X-API-KEY")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
			return
		}
		c.Next()
	}
}

func guestHandler(svc GuestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID, token, err := svc.Begin(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"guestId": guestID, "token": token})
	}
}

func signupHandler(svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req customersvc.SignupInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		req.GuestID = c.GetString(ctxGuestID)
		session, err := svc.Signup(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				c.JSON(http.StatusConflict, gin.H{"error": "an account with this email already exists"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, session)
	}
}

func loginHandler(svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req customersvc.LoginInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		req.GuestID = c.GetString(ctxGuestID)
		session, err := svc.Login(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, customersvc.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

func logoutHandler(svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetString(ctxToken)
		if token == "" {
			c.JSON(http.StatusNoContent, nil)
			return
		}
		if err := svc.Logout(c.Request.Context(), token); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func meHandler(svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, err := svc.Get(c.Request.Context(), c.GetString(ctxCustomerID))
		if err != nil {
			respondError(c, err)
			return
		}
		out := *customer
		out.PasswordHash = ""
		c.JSON(http.StatusOK, out)
	}
}
