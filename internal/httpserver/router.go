package httpserver

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"osebo-storefront/internal/checkout"
	"osebo-storefront/internal/domain"
	"osebo-storefront/internal/metrics"
	orderrepo "osebo-storefront/internal/repository/order"
	cartsvc "osebo-storefront/internal/service/cart"
	customersvc "osebo-storefront/internal/service/customer"
	ordersvc "osebo-storefront/internal/service/order"
	productsvc "osebo-storefront/internal/service/product"
)

// Deps are the services the router dispatches to. Declared as interfaces so
// handler tests can stub them.
type Deps struct {
	ProductSvc  ProductService
	CartSvc     CartService
	OrderSvc    OrderService
	CustomerSvc CustomerService
	GuestSvc    GuestService
	Sessions    SessionResolver
}

type Options struct {
	AllowedOrigins []string
	AdminAPIKey    string
}

type ProductService interface {
	List(ctx context.Context, category string) ([]domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Save(ctx context.Context, in productsvc.SaveInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	SetVariantStock(ctx context.Context, variantID string, stock int) error
}

type CartService interface {
	GetOrCreate(ctx context.Context, owner cartsvc.Owner) (*domain.Cart, error)
	AddItem(ctx context.Context, owner cartsvc.Owner, in cartsvc.AddItemInput) (*domain.Cart, error)
	UpdateLine(ctx context.Context, owner cartsvc.Owner, lineID string, quantity int) (*domain.Cart, error)
	RemoveLine(ctx context.Context, owner cartsvc.Owner, lineID string) (*domain.Cart, error)
	Clear(ctx context.Context, owner cartsvc.Owner) (*domain.Cart, error)
}

type OrderService interface {
	Place(ctx context.Context, owner cartsvc.Owner, form checkout.Form) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	ListForCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	ConfirmPayment(ctx context.Context, reference string) (*domain.Order, error)
	DeliveryDates() []time.Time
	List(ctx context.Context, filter orderrepo.ListFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error)
	Summary(ctx context.Context, since time.Time) (*ordersvc.Analytics, error)
}

type CustomerService interface {
	Signup(ctx context.Context, in customersvc.SignupInput) (*customersvc.Session, error)
	Login(ctx context.Context, in customersvc.LoginInput) (*customersvc.Session, error)
	Logout(ctx context.Context, token string) error
	Get(ctx context.Context, id string) (*domain.Customer, error)
}

type GuestService interface {
	Begin(ctx context.Context) (guestID, token string, err error)
	Resolve(ctx context.Context, token string) (string, error)
}

type SessionResolver interface {
	ResolveCustomer(ctx context.Context, token string) (string, error)
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, opts Options) (*gin.Engine, error) {
	if err := validateDeps(deps); err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), metrics.Middleware())

	corsCfg := cors.DefaultConfig()
	if len(opts.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = opts.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-API-KEY")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(identityMiddleware(deps))

	api.GET("/products", listProductsHandler(deps.ProductSvc))
	api.GET("/products/:slug", getProductHandler(deps.ProductSvc))
	api.GET("/regions", listRegionsHandler)
	api.GET("/delivery-dates", deliveryDatesHandler(deps.OrderSvc))

	api.POST("/auth/guest", guestHandler(deps.GuestSvc))
	api.POST("/auth/signup", signupHandler(deps.CustomerSvc))
	api.POST("/auth/login", loginHandler(deps.CustomerSvc))
	api.POST("/auth/logout", logoutHandler(deps.CustomerSvc))
	api.GET("/me", requireCustomer(), meHandler(deps.CustomerSvc))
	api.GET("/me/orders", requireCustomer(), myOrdersHandler(deps.OrderSvc))

	cart := api.Group("/cart", requireOwner())
	cart.GET("", getCartHandler(deps.CartSvc))
	cart.POST("/items", addCartItemHandler(deps.CartSvc))
	cart.PATCH("/items/:lineId", updateCartItemHandler(deps.CartSvc))
	cart.DELETE("/items/:lineId", removeCartItemHandler(deps.CartSvc))
	cart.DELETE("", clearCartHandler(deps.CartSvc))

	api.POST("/orders", requireOwner(), placeOrderHandler(deps.OrderSvc))
	api.GET("/orders/:id", getOrderHandler(deps.OrderSvc))
	api.GET("/payments/verify/:reference", verifyPaymentHandler(deps.OrderSvc))

	admin := api.Group("/admin", adminAuthMiddleware(opts.AdminAPIKey))
	admin.GET("/orders", adminListOrdersHandler(deps.OrderSvc))
	admin.PATCH("/orders/:id/status", adminUpdateOrderStatusHandler(deps.OrderSvc))
	admin.POST("/products", adminSaveProductHandler(deps.ProductSvc))
	admin.PUT("/products/:id", adminSaveProductHandler(deps.ProductSvc))
	admin.DELETE("/products/:id", adminDeleteProductHandler(deps.ProductSvc))
	admin.PATCH("/variants/:id/stock", adminSetStockHandler(deps.ProductSvc))
	admin.GET("/analytics/summary", adminSummaryHandler(deps.OrderSvc))

	return router, nil
}

func validateDeps(deps Deps) error {
	if deps.ProductSvc == nil || deps.CartSvc == nil || deps.OrderSvc == nil ||
		deps.CustomerSvc == nil || deps.GuestSvc == nil || deps.Sessions == nil {
		return errors.New("httpserver: missing dependency")
	}
	return nil
}
