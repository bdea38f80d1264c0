package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	os.Exit(exitCode(logger, run(cfg, logger)))
}

// exitCode logs err and flushes logger. It runs after run's deferred
// cleanup, so nothing is skipped by the os.Exit that follows.
func exitCode(logger *zap.Logger, err error) int {
	code := 0
	if err != nil {
		logger.Error("storefront stopped", zap.Error(err))
		code = 1
	}
	_ = logger.Sync()
	return code
}

func run(cfg config.Config, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- cart storage ---
	backend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.close()

	persister := cart.NewBlobPersister(backend.store, cfg.StorageKey)
	store := cart.NewStore(ctx, persister, logger.Named("cart"), cart.WithPersistTimeout(cfg.PersistTimeout))

	// --- commerce API ---
	sharedHTTP := &http.Client{Timeout: cfg.UpstreamTimeout}
	commerce := clients.NewClient("commerce-api", cfg.CommerceURL, cfg.CommerceToken, sharedHTTP)
	catalogClient := clients.NewCatalogClient(commerce, logger.Named("catalog"))
	orderClient := clients.NewOrderClient(commerce)

	// --- events ---
	var publisher checkout.EventsPublisher
	if cfg.RabbitMQURL != "" {
		conn, err := events.Dial(cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		var seq events.SequenceRepository = events.NewMemorySequence()
		if backend.sqlDB != nil {
			seq = events.NewSequenceRepository(backend.sqlDB)
		}
		rp, err := events.NewRabbitPublisher(conn, seq, events.PublisherOptions{Logger: logger.Named("events")})
		if err != nil {
			return fmt.Errorf("events publisher: %w", err)
		}
		defer rp.Close()
		publisher = rp
	} else {
		logger.Info("RABBITMQ_URL not set, order events disabled")
	}

	svc := checkout.NewService(store, orderClient, publisher, persister.Key(), logger.Named("checkout"))

	// --- HTTP ---
	h := httpapi.NewHandler(store, catalogClient, svc, logger.Named("http"))
	h.HealthProbes = []func(context.Context) clients.HealthResult{
		func(ctx context.Context) clients.HealthResult { return clients.CheckHealth(ctx, commerce, "/website/product/product-types") },
	}
	router := httpapi.NewRouter(httpapi.Deps{
		Logger:           logger.Named("http"),
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Handler:          h,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr), zap.String("storage", string(cfg.Storage)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return nil
}

// backend is the opened cart storage plus whatever must be closed with it.
type backend struct {
	store storage.BlobStore
	// set only for postgres; also backs the event sequence table
	sqlDB   *sql.DB
	closers []func()
}

func (b *backend) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (*backend, error) {
	b := &backend{}

	switch cfg.Storage {
	case config.StorageMemory:
		b.store = storage.NewMemoryStore()

	case config.StorageFile:
		fs, err := storage.NewFileStore(cfg.StorageDir)
		if err != nil {
			return nil, fmt.Errorf("file storage: %w", err)
		}
		b.store = fs

	case config.StoragePostgres:
		if cfg.RunMigrations {
			if err := db.RunMigrations(cfg.DatabaseDSN, logger.Named("migrate")); err != nil {
				return nil, fmt.Errorf("db migrate: %w", err)
			}
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		b.closers = append(b.closers, pool.Close)

		sqlDB, err := db.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			b.close()
			return nil, fmt.Errorf("db open: %w", err)
		}
		b.closers = append(b.closers, func() { _ = sqlDB.Close() })

		b.store = storage.NewPostgresStore(pool)
		b.sqlDB = sqlDB

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis connect: %w", err)
		}
		b.closers = append(b.closers, func() { _ = client.Close() })
		b.store = storage.NewRedisStore(client, "storefront:", cfg.RedisTTL)

	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}

	logger.Info("cart storage ready", zap.String("kind", string(cfg.Storage)))
	return b, nil
}
