package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/reviewme/catalog/internal/cache"
	"github.com/reviewme/catalog/internal/config"
	"github.com/reviewme/catalog/internal/event"
	handler "github.com/reviewme/catalog/internal/handler/http"
	"github.com/reviewme/catalog/internal/repository/postgres"
	"github.com/reviewme/catalog/internal/service"
	"github.com/reviewme/catalog/pkg/database"
	"github.com/reviewme/catalog/pkg/health"
	"github.com/reviewme/catalog/pkg/kafka"
	"github.com/reviewme/catalog/pkg/middleware"
	"github.com/reviewme/catalog/pkg/tracing"
)

// App wires configuration, storage, messaging and the HTTP server together.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	pool     *pgxpool.Pool
	producer *kafka.Producer
	server   *http.Server

	shutdownTracer func(context.Context) error
}

// New builds the application: connects to the database, runs migrations,
// sets up the optional cache and event producer, and assembles the router.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	shutdownTracer, err := tracing.InitTracer(ctx, cfg.Tracing())
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.shutdownTracer = shutdownTracer

	database.SetSlowQueryLogging(cfg.SlowQueryThreshold, logger)

	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	a.pool = pool

	if err := database.RunMigrations(ctx, pool, postgres.Migrations(), logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	prometheus.MustRegister(database.NewPoolStatsCollector(pool, cfg.ServiceName))

	var productCache cache.ProductCache = cache.NewNoopProductCache()
	if cfg.CacheEnabled {
		client, err := database.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		productCache = cache.NewRedisProductCache(client, cfg.CacheTTL, logger)
	}

	var events service.EventPublisher = event.NewNoopPublisher()
	if cfg.EventsEnabled {
		a.producer = kafka.NewProducer(kafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		events = event.NewPublisher(a.producer, logger)
	}

	productRepo := postgres.NewProductRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)

	aggregator := service.NewRatingAggregator(reviewRepo, productRepo, productCache)
	productSvc := service.NewProductService(productRepo, productCache, events, logger)
	reviewSvc := service.NewReviewService(reviewRepo, productRepo, aggregator, events, logger)

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if a.producer != nil {
		healthHandler.Register("kafka", a.producer.Ping)
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(handler.RouterConfig{
		ServiceName: cfg.ServiceName,
		Logger:      logger,
		CORS:        corsCfg,
		PprofCIDRs:  cfg.PprofAllowedCIDRs,
	},
		handler.NewProductHandler(productSvc, logger),
		handler.NewReviewHandler(reviewSvc, logger),
		healthHandler,
	)

	a.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return a, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	a.Close(shutdownCtx)

	return nil
}

// Close releases the app's resources. Safe to call once after Run returns.
func (a *App) Close(ctx context.Context) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("close kafka producer", slog.String("error", err.Error()))
		}
	}

	if a.pool != nil {
		a.pool.Close()
	}

	if a.shutdownTracer != nil {
		if err := a.shutdownTracer(ctx); err != nil {
			a.logger.Warn("shutdown tracer", slog.String("error", err.Error()))
		}
	}
}
