package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"grindccat/internal/cache"
	"grindccat/internal/config"
	"grindccat/internal/database"
	"grindccat/internal/database/migration"
	handlers "grindccat/internal/http/handler"
	"grindccat/internal/http/middleware"
	"grindccat/internal/logging"
	"grindccat/internal/metrics"
	"grindccat/internal/otel"
	"grindccat/internal/repository/postgres"
	"grindccat/internal/service"
	"grindccat/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Grind CCAT API
// @version 1.0
// @description Timed CCAT practice tests: question draws, attempts, results and leaderboard.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.Location()).With("api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server_failed", err, nil)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, log *logging.Logger) error {
	shutdownTracing, err := otel.Init(ctx, database.ApplicationName, log)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Error("tracing_shutdown_failed", err, nil)
		}
	}()

	// PostgreSQL with pooling via database/sql, schema created on first boot
	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		return err
	}

	countsCache := newCache(ctx, cfg.Redis, log)
	defer countsCache.Close()

	archive, err := newArchive(ctx, cfg.MinIO, log)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	quizMetrics, err := metrics.New(reg)
	if err != nil {
		return err
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	app := newApp(db, cfg, log, handlers.Services{
		Questions: service.NewQuestionService(postgres.NewQuestionPostgres(db), countsCache, cfg.Quiz, quizMetrics, log),
		Attempts:  service.NewAttemptService(postgres.NewAttemptPostgres(db), quizMetrics),
		Results:   service.NewResultService(postgres.NewTestResultPostgres(db), archive, cfg.Quiz, quizMetrics, log),
	}, promMiddleware, reg)

	addr := listenAddr(cfg)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	log.Info("server_starting", map[string]any{"listen_addr": addr, "public_addr": cfg.AppHost})
	return serve(ctx, app, ln, log)
}

// listenAddr is APP_LISTEN_HOST:PORT. An empty host listens on every interface.
func listenAddr(cfg *config.AppConfig) string {
	return net.JoinHostPort(cfg.ListenHost, cfg.Port)
}

// serve runs app on ln until ctx is done, then drains in-flight requests.
func serve(ctx context.Context, app *fiber.App, ln net.Listener, log *logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("server_listening", map[string]any{"addr": ln.Addr().String()})
		errCh <- app.Listener(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("server_shutting_down", nil)
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return err
	}
	log.Info("server_stopped", nil)
	return nil
}

// newApp builds the Fiber app with the global middleware chain and routes.
func newApp(db *sql.DB, cfg *config.AppConfig, log *logging.Logger, svc handlers.Services, prom *middleware.PrometheusMiddleware, reg *prometheus.Registry) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               database.ApplicationName,
		ErrorHandler:          handlers.ErrorHandler(log),
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(prom.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	handlers.RegisterRoutes(app, db, svc, cfg.Quiz, log)
	return app
}

// newCache prefers Redis and falls back to an in-process cache so the API
// still starts when Redis is absent or down.
func newCache(ctx context.Context, cfg config.RedisConfig, log *logging.Logger) cache.Cache {
	if cfg.Addr == "" {
		log.Info("cache_configured", map[string]any{"backend": "memory"})
		return cache.NewMemory()
	}
	c, err := cache.NewRedis(ctx, cfg)
	if err != nil {
		log.Error("redis_unavailable", err, map[string]any{"redis_addr": cfg.Addr, "backend": "memory"})
		return cache.NewMemory()
	}
	log.Info("cache_configured", map[string]any{"backend": "redis", "redis_addr": cfg.Addr})
	return c
}

// newArchive returns nil when object storage is not configured, which
// disables result archiving and export.
func newArchive(ctx context.Context, cfg config.MinIOConfig, log *logging.Logger) (storage.Storage, error) {
	if !cfg.Enabled() {
		log.Info("archive_configured", map[string]any{"enabled": false})
		return nil, nil
	}
	s, err := storage.NewMinIO(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize object storage: %w", err)
	}
	log.Info("archive_configured", map[string]any{"enabled": true, "bucket": cfg.Bucket})
	return s, nil
}
