package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lifedoc/lifedoc/internal/config"
	"github.com/lifedoc/lifedoc/internal/domain/aiusage"
	"github.com/lifedoc/lifedoc/internal/domain/diary"
	"github.com/lifedoc/lifedoc/internal/domain/doctorreport"
	"github.com/lifedoc/lifedoc/internal/domain/labreport"
	"github.com/lifedoc/lifedoc/internal/domain/measurement"
	"github.com/lifedoc/lifedoc/internal/domain/reference"
	"github.com/lifedoc/lifedoc/internal/domain/user"
	"github.com/lifedoc/lifedoc/internal/platform/auth"
	"github.com/lifedoc/lifedoc/internal/platform/db"
	"github.com/lifedoc/lifedoc/internal/platform/httpx"
	"github.com/lifedoc/lifedoc/internal/platform/logging"
	"github.com/lifedoc/lifedoc/internal/platform/middleware"
	"github.com/lifedoc/lifedoc/internal/platform/news"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:          "lifedoc-server",
		Short:        "LifeDoc health record API server",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(usersCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the LifeDoc API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func newLogger(cfg *config.Config) (zerolog.Logger, func()) {
	logger, closer := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		Console:    cfg.IsDev(),
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	return logger, func() { _ = closer.Close() }
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, closeLog := newLogger(cfg)
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		return err
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	e := newServer(ctx, cfg, logger, pool, reg)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newServer builds the echo instance with every route mounted. pool is only
// touched when a request reaches the store. Background cleanup stops with ctx.
func newServer(ctx context.Context, cfg *config.Config, logger zerolog.Logger, pool *pgxpool.Pool, reg *prometheus.Registry) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpx.ErrorHandler(logger)

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	if cfg.MetricsEnabled {
		e.Use(middleware.NewMetrics(reg).Middleware())
	}

	// Auth middleware
	e.Use(auth.JWTMiddleware(auth.JWTConfig{
		SigningKey: []byte(cfg.JWTSecret),
		Skipper:    auth.AuthSkipper,
	}))

	// Rate limiting keys on the authenticated user, so it runs after auth.
	rateLimitCfg := middleware.DefaultRateLimitConfig()
	if cfg.RateLimitRPS > 0 {
		rateLimitCfg.RequestsPerSecond = cfg.RateLimitRPS
		rateLimitCfg.BurstSize = cfg.RateLimitBurst
	}
	limiter := middleware.NewRateLimiter(rateLimitCfg)
	go limiter.StartCleanup(ctx, rateLimitCfg.IdleTTL/2)
	e.Use(limiter.Middleware())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/health/db", db.HealthHandler(pool, func() *db.PoolStats { return db.GetPoolStats(pool) }))
	if cfg.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	// Users double as the owner registry for every record kind.
	userRepo := user.NewRepoPG(pool)

	records := e.Group("")

	diarySvc := diary.NewService(diary.NewRepoPG(pool), userRepo)
	diary.NewHandler(diarySvc).RegisterRoutes(records)

	measurementSvc := measurement.NewService(measurement.NewRepoPG(pool), userRepo)
	measurement.NewHandler(measurementSvc).RegisterRoutes(records)

	labSvc := labreport.NewService(labreport.NewRepoPG(pool), userRepo)
	labreport.NewHandler(labSvc).RegisterRoutes(records)

	doctorSvc := doctorreport.NewService(doctorreport.NewRepoPG(pool), userRepo)
	doctorreport.NewHandler(doctorSvc).RegisterRoutes(records)

	// Admin console
	admin := e.Group("/admin", auth.RequireAdmin())

	user.NewHandler(user.NewService(userRepo)).RegisterRoutes(admin)

	refSvc := reference.NewService(reference.NewMedicineRepoPG(pool), reference.NewLabTestRepoPG(pool))
	reference.NewHandler(refSvc).RegisterRoutes(admin)

	aiusage.NewHandler(aiusage.NewService(aiusage.NewRepoPG(pool))).RegisterRoutes(admin)

	// Health news (public)
	newsOpts := []news.Option{news.WithTimeout(cfg.NewsTimeout), news.WithLogger(logger)}
	if cfg.MetricsEnabled {
		newsOpts = append(newsOpts, news.WithMetrics(reg))
	}
	news.NewHandler(news.NewRSSAggregator(cfg.NewsFeeds, newsOpts...)).RegisterRoutes(e)

	return e
}
