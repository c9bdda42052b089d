package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/avetrov/reporthub/pkg/database"
	"github.com/avetrov/reporthub/pkg/health"
	"github.com/avetrov/reporthub/pkg/kafka"
	"github.com/avetrov/reporthub/pkg/middleware"
	"github.com/avetrov/reporthub/pkg/tracing"

	"github.com/avetrov/reporthub/internal/auth"
	"github.com/avetrov/reporthub/internal/config"
	"github.com/avetrov/reporthub/internal/event"
	handlerhttp "github.com/avetrov/reporthub/internal/handler/http"
	"github.com/avetrov/reporthub/internal/repository/postgres"
	"github.com/avetrov/reporthub/internal/service"
	"github.com/avetrov/reporthub/migrations"
)

// App owns the service's long-lived resources and the HTTP server.
type App struct {
	cfg    config.Config
	logger *slog.Logger

	pool     *pgxpool.Pool
	redis    *redis.Client
	producer *kafka.Producer
	server   *http.Server

	shutdownTracer func(context.Context) error
}

// New connects every dependency, runs migrations, and assembles the HTTP
// server. On error, resources opened so far are closed.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: log}

	shutdownTracer, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  cfg.ServiceName,
		Environment:  cfg.Environment,
		Enabled:      cfg.Tracing.Enabled,
		OTLPEndpoint: cfg.Tracing.Endpoint,
		SampleRate:   cfg.Tracing.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.shutdownTracer = shutdownTracer

	pool, err := database.NewPostgresPool(ctx, &cfg.Postgres, log)
	if err != nil {
		a.closePartial(ctx)
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	a.pool = pool

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		a.closePartial(ctx)
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	database.RegisterPoolMetrics(pool, cfg.ServiceName)

	// Redis only backs the rate limiter; the service starts without it.
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, rate limiting disabled", slog.String("error", err.Error()))
		redisClient = nil
	}
	a.redis = redisClient

	producer := kafka.NewProducer(kafka.DefaultProducerConfig(cfg.KafkaBrokers), log)
	a.producer = producer

	issuer := auth.NewTokenIssuer(auth.TokenIssuerConfig{
		Key:       cfg.JWT.Secret,
		Issuer:    cfg.JWT.Issuer,
		Audience:  cfg.JWT.Audience,
		AccessTTL: cfg.JWT.AccessTTL,
	})

	store := postgres.NewStore(pool)
	publisher := event.NewPublisher(producer, log)

	authService := service.NewAuthService(store, issuer, publisher, cfg.Auth.DefaultRole, cfg.Auth.RefreshTTL, log)
	tokenService := service.NewTokenService(store, issuer, log)
	roleService := service.NewRoleService(store, log)
	reportService := service.NewReportService(store, publisher, log)

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterNonCritical("kafka", producer.Ping)
	if redisClient != nil {
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	router := handlerhttp.NewRouter(handlerhttp.RouterConfig{
		ServiceName: cfg.ServiceName,
		Logger:      log,
		Health:      healthHandler,
		Auth:        handlerhttp.NewAuthHandler(authService, tokenService, log),
		Roles:       handlerhttp.NewRoleHandler(roleService, log),
		Reports:     handlerhttp.NewReportHandler(reportService, log),
		TokenValidator: func(token string) (*middleware.Claims, error) {
			claims, err := issuer.Validate(token)
			if err != nil {
				return nil, err
			}
			return &middleware.Claims{
				UserID: claims.UserID(),
				Login:  claims.Login,
				Roles:  claims.Roles,
			}, nil
		},
		RateLimiter: limiter,
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
		},
	})

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

// Run serves HTTP until ctx is cancelled, then shuts everything down in
// dependency order.
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
		a.closePartial(context.Background())
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http shutdown", slog.String("error", err.Error()))
	}
	a.closePartial(shutdownCtx)

	return nil
}

func (a *App) closePartial(ctx context.Context) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("close kafka producer", slog.String("error", err.Error()))
		}
		a.producer = nil
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("close redis", slog.String("error", err.Error()))
		}
		a.redis = nil
	}
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
	if a.shutdownTracer != nil {
		if err := a.shutdownTracer(ctx); err != nil {
			a.logger.Error("shutdown tracer", slog.String("error", err.Error()))
		}
		a.shutdownTracer = nil
	}
}
