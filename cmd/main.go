package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	promclient "github.com/prometheus/client_golang/prometheus"
	redisClient "github.com/redis/go-redis/v9"

	_ "github.com/sm8ta/auth_microservice/docs"
	handlers "github.com/sm8ta/auth_microservice/internal/adapter/handler/http"
	"github.com/sm8ta/auth_microservice/internal/adapter/hasher"
	"github.com/sm8ta/auth_microservice/internal/adapter/logger"
	"github.com/sm8ta/auth_microservice/internal/adapter/memory"
	"github.com/sm8ta/auth_microservice/internal/adapter/postgres/migrations"
	"github.com/sm8ta/auth_microservice/internal/adapter/postgres/repository"
	"github.com/sm8ta/auth_microservice/internal/adapter/prometheus"
	"github.com/sm8ta/auth_microservice/internal/adapter/redis"
	"github.com/sm8ta/auth_microservice/internal/adapter/token"
	"github.com/sm8ta/auth_microservice/internal/config"
	"github.com/sm8ta/auth_microservice/internal/core/ports"
	"github.com/sm8ta/auth_microservice/internal/core/services"
)

const shutdownTimeout = 10 * time.Second

// @title Auth Microservice API
// @version 1.0
// @description Account registration, sign in and bearer token sessions

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Loading environment
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Set logger
	loggerAdapter := logger.NewLoggerAdapter(cfg.App.Env)
	loggerAdapter.Info("Starting the application", map[string]interface{}{
		"app":     cfg.App.Name,
		"env":     cfg.App.Env,
		"version": cfg.App.Version,
	})

	ctx := context.Background()

	// Account store
	var accountRepo ports.AccountRepository
	switch cfg.DB.Driver {
	case config.StoreDriverMemory:
		loggerAdapter.Warn("Using in-memory account store; accounts are lost on restart", nil)
		accountRepo = memory.NewAccountRepository()
	default:
		db, err := sql.Open("postgres", cfg.DB.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: ", err)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			log.Fatal("Failed to ping database: ", err)
		}

		// Migrate DB
		if err := migrations.Up(ctx, db); err != nil {
			log.Fatal("Failed to run migrations: ", err)
		}
		accountRepo = repository.NewAccountRepository(db)
	}

	// Cache
	var cacheAdapter ports.CachePort
	if cfg.Redis.Address != "" {
		redisConn := redisClient.NewClient(&redisClient.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		defer redisConn.Close()

		if _, err := redisConn.Ping(ctx).Result(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		cacheAdapter = redis.NewRedisAdapter(redisConn)
	} else {
		loggerAdapter.Warn("REDIS_ADDRESS not set; lookup cache and rate limiting are disabled", nil)
		cacheAdapter = redis.NewNoopAdapter()
	}

	// Observability
	metrics := prometheus.NewPrometheusAdapter(cfg.App.Name, promclient.DefaultRegisterer)

	// Credentials and tokens
	codec, err := hasher.NewCodec(cfg.Hash.Algorithm, cfg.Hash.Cost, cfg.Hash.Workers)
	if err != nil {
		log.Fatal("Failed to init credential codec: ", err)
	}
	tokenService, err := token.NewJWTTokenService(cfg.Token.Secret, cfg.Token.Duration, loggerAdapter)
	if err != nil {
		log.Fatal("Failed to init token service: ", err)
	}

	// Services
	accountService := services.NewAccountService(accountRepo, codec, tokenService, loggerAdapter, metrics)
	authService := services.NewAuthService(accountRepo, codec, tokenService, loggerAdapter, cacheAdapter, metrics, cfg.Redis.CacheTTL)

	// Init router
	router, err := handlers.NewRouter(
		cfg.HTTP,
		cfg.RateLimit,
		tokenService,
		cacheAdapter,
		loggerAdapter,
		handlers.NewAccountHandler(accountService, loggerAdapter, metrics),
		handlers.NewAuthHandler(authService, loggerAdapter, metrics),
		handlers.NewHealthHandler(accountRepo, cfg.App.Version, loggerAdapter, metrics),
	)
	if err != nil {
		log.Fatal("Error initializing router:", err)
	}

	server := &http.Server{
		Addr:              cfg.HTTP.ListenAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		loggerAdapter.Info("Starting the HTTP server", map[string]interface{}{
			"addr": server.Addr,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Error starting the HTTP server:", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	loggerAdapter.Info("Application is running", nil)

	<-stop

	loggerAdapter.Info("Shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		loggerAdapter.Error("HTTP server shutdown failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	loggerAdapter.Info("Application stopped", nil)
}
