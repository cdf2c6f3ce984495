package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/backend"
	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpapi"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/order"
	"storefront/internal/session"
	"storefront/internal/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx := context.Background()

	kv, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.L().Fatal("failed to open storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer closeStore()

	api := backend.NewClient(cfg.BackendURL, backend.Options{
		Timeout:   cfg.BackendTimeout,
		RateLimit: cfg.BackendRateLimit,
		Burst:     cfg.BackendBurst,
	})

	router, err := newServer(ctx, cfg, kv, api)
	if err != nil {
		logger.L().Fatal("failed to build server", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * cfg.BackendTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.L().Info("storefront server running", zap.String("port", cfg.AppPort), zap.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.L().Error("server forced to shutdown", zap.Error(err))
	}
}

// backendAPI is everything the storefront needs from the backend client.
type backendAPI interface {
	order.Backend
	session.ClientFinder
	httpapi.ProductSource
}

// openStore returns the key-value store selected by STORAGE_DRIVER and a
// func releasing it.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		database, err := db.NewDatabase(cfg)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewPostgresStore(database), func() { database.Close() }, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, err
		}
		return storage.NewRedisStore(client), func() { client.Close() }, nil

	default:
		return storage.NewMemoryStore(), func() {}, nil
	}
}

func newServer(ctx context.Context, cfg *config.Config, kv storage.Store, api backendAPI) (http.Handler, error) {
	cartStore, err := cart.NewStore(ctx, kv, storage.Key(cfg.StorageNamespace, "cart"))
	if err != nil {
		return nil, err
	}
	holder, err := session.NewHolder(ctx, kv, storage.Key(cfg.StorageNamespace, "session"))
	if err != nil {
		return nil, err
	}

	commitMetrics := &metrics.Checkout{}
	pipeline := order.NewPipeline(api, order.WithMetrics(commitMetrics))
	wizard := checkout.NewWizard(cartStore, holder, pipeline)

	handler := httpapi.NewHandler(httpapi.Deps{
		Cart:     cartStore,
		Session:  holder,
		Wizard:   wizard,
		Products: api,
		Clients:  api,
		Metrics:  commitMetrics,
	})

	return httpapi.NewRouter(handler, httpapi.RouterOptions{
		AllowedOrigin: cfg.AllowedOrigin,
		RateLimiter:   httpapi.NewRateLimiter(),
	}), nil
}
