package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-api/config"
	"storefront-api/controllers"
	"storefront-api/database"
	"storefront-api/kafka"
	"storefront-api/logger"
	"storefront-api/middleware"
	"storefront-api/repository"
	"storefront-api/routes"
	"storefront-api/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type eventPublisher interface {
	services.EventPublisher
	Close()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Initialize(os.Getenv("ENV"))
	defer logger.Sync()

	cfg, err := config.Load(ctx)
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	client, db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		zap.L().Fatal("Could not connect to MongoDB", zap.Error(err))
	}
	defer func() { _ = database.Close(client) }()

	if err := database.EnsureIndexes(ctx, db); err != nil {
		zap.L().Fatal("Failed to create indexes", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			zap.L().Warn("Redis unavailable, product cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var events eventPublisher = kafka.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		events = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaCartTopic)
		zap.L().Info("Publishing cart events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaCartTopic))
	}
	defer events.Close()

	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	userRepo := repository.NewUserRepository(db)

	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	authService := services.NewAuthService(userRepo, tokenService)
	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(productRepo, cartRepo, events, cfg.CartMaxAttempts)

	controllers.RegisterValidators()
	handlers := routes.Handlers{
		Auth:     controllers.NewAuthController(authService),
		Products: controllers.NewProductController(productService, controllers.NewCacheManager(redisClient, cfg.ProductCacheTTL)),
		Cart:     controllers.NewCartController(cartService),
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := routes.NewRouter(handlers, routes.Options{
		Logger:         zap.L(),
		Tokens:         tokenService,
		Limiter:        middleware.NewRateLimiter(ctx, rate.Every(time.Minute/100), 50, 5*time.Minute),
		Metrics:        middleware.NewMetrics("storefront", registry),
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("Storefront API is running", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	zap.L().Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Shutdown error", zap.Error(err))
	}
	zap.L().Info("Server shutdown complete")
}
