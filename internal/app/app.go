package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/LotusGo/internal/cart"
	"github.com/utafrali/LotusGo/internal/catalog"
	"github.com/utafrali/LotusGo/internal/config"
	"github.com/utafrali/LotusGo/internal/event"
	handler "github.com/utafrali/LotusGo/internal/handler/http"
	"github.com/utafrali/LotusGo/internal/localstore"
	"github.com/utafrali/LotusGo/internal/remote"
	"github.com/utafrali/LotusGo/internal/repository"
	"github.com/utafrali/LotusGo/internal/repository/memory"
	redisrepo "github.com/utafrali/LotusGo/internal/repository/redis"
	"github.com/utafrali/LotusGo/internal/wishlist"
	"github.com/utafrali/LotusGo/pkg/database"
	"github.com/utafrali/LotusGo/pkg/health"
	"github.com/utafrali/LotusGo/pkg/httpclient"
	pkgkafka "github.com/utafrali/LotusGo/pkg/kafka"
	"github.com/utafrali/LotusGo/pkg/tracing"
)

// App wires together all dependencies and runs the catalog service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "lotus-catalog",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Connect to Redis. The service degrades to an in-process store when
	// Redis is unreachable, so cart, wishlist, and merchant products survive
	// only for the life of the process in that mode.
	var kv repository.KV
	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Warn("redis unavailable, falling back to in-memory storage",
			slog.String("addr", cfg.RedisAddr),
			slog.String("error", err.Error()),
		)
		rdb = nil
		kv = memory.NewKV()
	} else {
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
		kv = redisrepo.NewKV(rdb, time.Duration(cfg.StateTTLHours)*time.Hour)
	}

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Upstream catalog client with retries and a circuit breaker.
	clientCfg := httpclient.DefaultConfig()
	clientCfg.Timeout = time.Duration(cfg.UpstreamTimeoutMs) * time.Millisecond
	upstream := httpclient.NewCircuitBreakerClient(
		httpclient.New(clientCfg),
		httpclient.DefaultCircuitBreakerConfig("catalog-upstream"),
		logger,
	)
	remoteClient := remote.NewClient(cfg.UpstreamBaseURL, upstream, logger)

	// Build the dependency graph.
	eventProducer := event.NewProducer(producer, logger)
	local := localstore.New(kv, logger)
	catalogService := catalog.NewService(local, remoteClient, eventProducer, logger,
		time.Duration(cfg.AddProductDelayMs)*time.Millisecond)
	cartStore := cart.NewStore(kv, eventProducer, logger)
	wishlistStore := wishlist.NewStore(kv, eventProducer, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	if rdb != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	healthHandler.Register("upstream", func(ctx context.Context) error {
		_, err := remoteClient.FetchCategories(ctx)
		return err
	})

	// HTTP router.
	router := handler.NewRouter(catalogService, cartStore, wishlistStore, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Flush pending spans.
	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}

	// Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	// Close Redis client.
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
