package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/SafinArnob/E-Shop-Management-System/api/routes"
	"github.com/SafinArnob/E-Shop-Management-System/internal/auth"
	"github.com/SafinArnob/E-Shop-Management-System/internal/cart"
	"github.com/SafinArnob/E-Shop-Management-System/internal/discounts"
	"github.com/SafinArnob/E-Shop-Management-System/internal/orders"
	"github.com/SafinArnob/E-Shop-Management-System/internal/products"
	"github.com/SafinArnob/E-Shop-Management-System/internal/support"
	"github.com/SafinArnob/E-Shop-Management-System/internal/users"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/config"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/db"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/logger"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/metrics"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/migrate"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	commerceMetrics := metrics.NewCommerceMetrics(prometheus.DefaultRegisterer)

	userRepo := users.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	discountRepo := discounts.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	ticketRepo := support.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	cartValidator, err := cart.NewValidator(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart validator", err)
		os.Exit(1)
	}

	discountEngine, err := discounts.NewEngine(discountRepo, time.Now)
	if err != nil {
		logg.Error(context.Background(), "failed to create discount engine", err)
		os.Exit(1)
	}

	discountService, err := discounts.NewService(discountRepo, discountEngine, commerceMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create discount service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Tx:        dbClient,
		Orders:    orderRepo,
		Cart:      cartRepo,
		OrdersTx:  func(tx *gorm.DB) orders.OrderStore { return orderRepo.WithTx(tx) },
		CartTx:    func(tx *gorm.DB) orders.CartStore { return cartRepo.WithTx(tx) },
		Validator: cartValidator,
		Engine:    discountEngine,
		Metrics:   commerceMetrics,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	supportService, err := support.NewService(ticketRepo, time.Now)
	if err != nil {
		logg.Error(context.Background(), "failed to create support service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			authService,
			productService,
			cartService,
			discountService,
			orderService,
			supportService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
