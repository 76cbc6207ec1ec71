// main.go
package main

import (
	"context"
	"net/http"
	"os"

	"go-marketplace/config"
	"go-marketplace/controllers"
	"go-marketplace/metrics"
	"go-marketplace/middleware"
	"go-marketplace/payment"
	"go-marketplace/repository"
	"go-marketplace/routes"
	"go-marketplace/services"
	"go-marketplace/utils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "marketplace").Logger()

	// Set the JWT secret key
	if cfg.JWTSecret != "" {
		utils.JwtKey = []byte(cfg.JWTSecret)
	}

	// Connect to MongoDB
	client := utils.ConnectDB(cfg.MongoURI)
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			logger.Fatal().Err(err).Msg("mongo disconnect failed")
		}
	}()
	db := client.Database(cfg.DBName)

	// Stores
	cartRepo := repository.NewMongoCartRepository(db)
	productRepo := repository.NewMongoProductRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)
	userRepo := repository.NewMongoUserRepository(db)

	// External collaborators
	emailService := utils.NewEmailService(cfg.PostmarkToken, cfg.EmailSender)
	var gateway payment.Gateway
	if cfg.StripeKey != "" {
		gateway = payment.NewStripeGateway(cfg.StripeKey, cfg.Currency, cfg.FrontendOrigin)
	} else {
		logger.Warn().Msg("STRIPE_SECRET_KEY not set, gateway payments disabled")
	}

	// Engine services
	paymentService := payment.NewService(orderRepo, userRepo, gateway, emailService, logger)
	cartService := services.NewCartService(cartRepo, productRepo, logger)
	checkoutService := services.NewCheckoutService(cartRepo, productRepo, orderRepo, userRepo, paymentService, emailService, cfg.DeliveryFee, logger)
	fulfillmentService := services.NewFulfillmentService(orderRepo, logger)
	dashboardService := services.NewDashboardService(productRepo, orderRepo)

	// Controllers
	productController := controllers.NewProductController(productRepo)
	cartController := controllers.NewCartController(cartService)
	orderController := controllers.NewOrderController(checkoutService, fulfillmentService, paymentService)
	adminController := controllers.NewAdminController(fulfillmentService, dashboardService)

	// Set up the router
	serverMetrics := metrics.NewServerMetrics()
	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(serverMetrics.Middleware)
	router.Handle("/metrics", serverMetrics.Handler()).Methods("GET")
	routes.RegisterRoutes(router, productController, cartController, orderController, adminController)

	logger.Info().Str("port", cfg.Port).Msg("server starting")
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
