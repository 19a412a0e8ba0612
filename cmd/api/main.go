package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"moviesapi/internal/config"
	"moviesapi/internal/database"
	"moviesapi/internal/database/migration"
	handlers "moviesapi/internal/http/handler"
	"moviesapi/internal/http/middleware"
	"moviesapi/internal/logger"
	"moviesapi/internal/otel"
	"moviesapi/internal/repository"
	"moviesapi/internal/repository/memory"
	"moviesapi/internal/repository/mongo"
	"moviesapi/internal/repository/postgres"
	"moviesapi/internal/service"
	"moviesapi/internal/validation"
)

const shutdownTimeout = 10 * time.Second

// @title Movies API
// @version 1.0
// @BasePath /api/v1
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: otel.ServiceName,
		Caller:  cfg.Log.Caller,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, *log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	repo, closeStore, err := openStore(ctx, cfg, *log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
	}

	v, err := validation.New(cfg.Pagination)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build validator")
	}
	movieSvc := service.NewMovieService(repo, v)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	app := fiber.New(fiber.Config{
		AppName:               "moviesapi",
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == middleware.MetricsPath
	})))
	// RequestID adds/propagates X-Request-ID; Logger reads it.
	app.Use(middleware.RequestID())
	app.Use(middleware.Deadline(time.Duration(cfg.RequestTimeoutSec) * time.Second))
	app.Use(middleware.Logger(*log, cfg.Location()))
	app.Use(metrics.Handler())

	app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	handlers.RegisterRoutes(app, repo, movieSvc)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("driver", cfg.StoreDriver).Msg("server starting")
		errCh <- app.Listen(addr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server stopped")
		}
	}

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	closeStore()

	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown")
	}
	log.Info().Msg("server stopped")
}

// openStore builds the configured Data Store and returns a release func.
func openStore(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) (repository.MovieRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, coll, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		repo := mongo.NewMovieMongo(client, coll)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("ensure indexes: %w", err)
		}
		log.Info().Str("database", cfg.Mongo.Database).Str("collection", cfg.Mongo.Collection).Msg("mongo store ready")
		return repo, func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				log.Error().Err(err).Msg("mongo disconnect")
			}
		}, nil

	case config.DriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info().Str("database", cfg.Database.Name).Msg("postgres store ready")
		return postgres.NewMoviePostgres(db), func() {
			if err := db.Close(); err != nil {
				log.Error().Err(err).Msg("postgres close")
			}
		}, nil

	case config.DriverMemory:
		log.Warn().Msg("memory store in use; records are lost on restart")
		return memory.NewMovieMemory(), func() {}, nil

	default:
		return nil, nil, errors.New("unsupported store driver " + cfg.StoreDriver)
	}
}
