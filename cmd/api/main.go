// Gesco | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gesco-cm/gesco/internal/admin"
	"github.com/gesco-cm/gesco/internal/auth"
	"github.com/gesco-cm/gesco/internal/authz"
	"github.com/gesco-cm/gesco/internal/config"
	"github.com/gesco-cm/gesco/internal/core"
	"github.com/gesco-cm/gesco/internal/entreprise"
	"github.com/gesco-cm/gesco/internal/facture"
	"github.com/gesco-cm/gesco/internal/health"
	"github.com/gesco-cm/gesco/internal/licence"
	"github.com/gesco-cm/gesco/internal/middleware"
	"github.com/gesco-cm/gesco/internal/role"
	"github.com/gesco-cm/gesco/internal/server"
	"github.com/gesco-cm/gesco/internal/tiers"
	"github.com/gesco-cm/gesco/internal/token"
	"github.com/gesco-cm/gesco/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns(),
		"max_idle_conns", cfg.Database.PoolSize,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	codec := token.NewCodec(cfg.JWT.SecretKey)
	logger.Info("token codec initialized",
		"algorithm", cfg.JWT.Algorithm,
		"access_ttl", cfg.JWT.AccessTokenTTL(),
		"refresh_ttl", cfg.JWT.RefreshTokenTTL(),
	)

	roleRepo := role.NewRepository(db.DB)
	licenceRepo := licence.NewRepository(db.DB)
	authorizer := authz.New(roleRepo, licenceRepo, cfg.Auth.ClosedByDefault)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, roleRepo, cfg.Security.BcryptRounds)
	userHandler := user.NewHandler(userSvc, authorizer)

	authSvc := auth.NewService(userSvc, codec, cfg.JWT)
	authHandler := auth.NewHandler(authSvc)

	entrepriseRepo := entreprise.NewRepository(db.DB)
	entrepriseSvc := entreprise.NewService(entrepriseRepo)
	entrepriseHandler := entreprise.NewHandler(entrepriseSvc, authorizer)

	tiersRepo := tiers.NewRepository(db.DB)
	tiersSvc := tiers.NewService(tiersRepo)
	tiersHandler := tiers.NewHandler(tiersSvc, authorizer)

	factureRepo := facture.NewRepository(db.DB)
	factureSvc := facture.NewService(factureRepo, tiersSvc)
	factureHandler := facture.NewHandler(factureSvc, authorizer)

	licenceHandler := licence.NewHandler(licenceRepo, authorizer)
	roleHandler := role.NewHandler(roleRepo, authorizer)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.PerMinute,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.Recoverer)

	healthHandler.RegisterRoutes(router)

	authenticator := middleware.Authenticator(codec, userSvc)
	adminOnly := authorizer.Require(authz.ModuleParametrage, authz.ActionRead)

	router.Route(cfg.API.Prefix, func(r chi.Router) {
		r.Use(middleware.Transaction(db.DB))

		authHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterRoutes(r, authenticator)
		entrepriseHandler.RegisterRoutes(r, authenticator)
		licenceHandler.RegisterRoutes(r, authenticator)
		roleHandler.RegisterRoutes(r, authenticator)
		tiersHandler.RegisterRoutes(r, authenticator)
		factureHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
