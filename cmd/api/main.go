package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"osebo-storefront/internal/config"
	"osebo-storefront/internal/db"
	"osebo-storefront/internal/delivery"
	"osebo-storefront/internal/httpserver"
	"osebo-storefront/internal/payment"
	cartrepo "osebo-storefront/internal/repository/cart"
	customerrepo "osebo-storefront/internal/repository/customer"
	holidayrepo "osebo-storefront/internal/repository/holiday"
	orderrepo "osebo-storefront/internal/repository/order"
	productrepo "osebo-storefront/internal/repository/product"
	tokenrepo "osebo-storefront/internal/repository/token"
	cartsvc "osebo-storefront/internal/service/cart"
	customersvc "osebo-storefront/internal/service/customer"
	guestsvc "osebo-storefront/internal/service/guest"
	ordersvc "osebo-storefront/internal/service/order"
	productsvc "osebo-storefront/internal/service/product"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	holidays, err := holidayrepo.NewPostgres(dbpool).ListAll(ctx)
	if err != nil || len(holidays) == 0 {
		if err != nil {
			logger.Printf("load holidays: %v, using built-in calendar", err)
		}
		holidays = delivery.GhanaHolidays()
	}
	scheduler := delivery.NewScheduler(holidays)

	productRepo := productrepo.NewPostgres(dbpool, logger)
	productService := productsvc.New(productRepo)
	cartRepo := cartrepo.NewPostgres(dbpool)
	cartService := cartsvc.New(cartRepo, productRepo)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	tokenManager := customersvc.NewTokenManager(tokenRepo)
	customerRepo := customerrepo.NewPostgres(dbpool, logger)
	customerService := customersvc.New(customerRepo, tokenManager, cartService, logger)
	guestService := guestsvc.New(tokenRepo)
	paymentClient := payment.NewClient(cfg.PaystackBaseURL, cfg.PaystackSecretKey, cfg.PaystackCallbackURL, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	orderService := ordersvc.New(orderRepo, cartService, paymentClient, scheduler, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		ProductSvc:  productService,
		CartSvc:     cartService,
		OrderSvc:    orderService,
		CustomerSvc: customerService,
		GuestSvc:    guestService,
		Sessions:    tokenManager,
	}, httpserver.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AdminAPIKey:    cfg.AdminAPIKey,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
