package server

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/campusconnect-nz/campus-api/config"
	"github.com/campusconnect-nz/campus-api/internal/auth"
	"github.com/campusconnect-nz/campus-api/internal/handler"
	"github.com/campusconnect-nz/campus-api/internal/middleware"
	"github.com/campusconnect-nz/campus-api/internal/repository"
	"github.com/campusconnect-nz/campus-api/internal/router"
	"github.com/campusconnect-nz/campus-api/internal/service"
	"github.com/campusconnect-nz/campus-api/pkg/cache"
	"github.com/campusconnect-nz/campus-api/pkg/database"
	httpserver "github.com/campusconnect-nz/campus-api/pkg/server/http"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// TokenIssuer is the issuer claim stamped on and required of every token.
const TokenIssuer = "campus-connect-api"

// App owns the process-wide resources behind the HTTP server.
type App struct {
	HTTP  *httpserver.Server
	db    *database.PostgresDB
	redis *redis.Client
}

// NewCodec builds the token codec from config. A missing secret is fatal.
func NewCodec(cfg config.AuthConfig) (*auth.Codec, error) {
	return auth.NewCodec(cfg.JWTSecret, cfg.TokenTTL, auth.WithIssuer(TokenIssuer))
}

func newRevoker(ctx context.Context, env *config.Env) (auth.Revoker, *redis.Client, error) {
	if !env.RedisConfig.Enabled {
		zap.L().Warn("Redis disabled; tokens cannot be revoked before they expire")
		return auth.NopRevoker{}, nil, nil
	}
	client, err := cache.NewRedisClient(ctx, env.RedisConfig)
	if err != nil {
		return nil, nil, err
	}
	return auth.NewRedisRevoker(client, env.AuthConfig.TokenTTL), client, nil
}

// New connects to every backing service and mounts the API.
func New(ctx context.Context, env *config.Env) (*App, error) {
	codec, err := NewCodec(env.AuthConfig)
	if err != nil {
		return nil, fmt.Errorf("auth config: %w", err)
	}

	app := &App{db: database.NewPostgresDB(&env.PostgresConfig)}
	if err := app.db.Connect(ctx); err != nil {
		return nil, err
	}

	revoker, rdb, err := newRevoker(ctx, env)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.redis = rdb

	pool := app.db.Pool()
	users := repository.NewUserRepository(pool)
	courses := repository.NewCourseRepository(pool)
	reviews := repository.NewReviewRepository(pool)
	notes := repository.NewNoteRepository(pool)

	authService := service.NewAuthService(users, codec, revoker, service.AuthServiceConfig{
		VerifyURL: env.AuthConfig.VerifyURL,
		ResetURL:  env.AuthConfig.ResetURL,
		ResetTTL:  env.AuthConfig.ResetTTL,
	})

	app.HTTP = httpserver.New(env,
		httpserver.Port(strconv.Itoa(env.AppConfig.Port)),
		httpserver.Timeout(env.AppConfig.Timeout),
		httpserver.HealthCheck(app.db.Ping),
	)

	routes := router.Routes(router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Course: handler.NewCourseHandler(courses, reviews),
		Note:   handler.NewNoteHandler(notes, courses, env.UploadConfig.Dir, env.UploadConfig.MaxSizeMB),
		Admin:  handler.NewAdminHandler(authService),
	})
	router.Register(app.HTTP.API, middleware.NewAuthGate(codec, revoker), routes)

	zap.L().Info("Routes registered", zap.Int("count", len(routes)))
	return app, nil
}

// Run serves until ctx is cancelled or the listener fails, then drains.
func (a *App) Run(ctx context.Context) error {
	a.HTTP.Start()

	select {
	case <-ctx.Done():
		zap.L().Info("Shutdown signal received")
	case err := <-a.HTTP.Notify():
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	if err := a.HTTP.Shutdown(); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	zap.L().Info("HTTP server stopped")
	return nil
}

func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			zap.L().Warn("Failed to close redis client", zap.Error(err))
		}
	}
	a.db.Close()
}

// StartServer runs the API until SIGINT or SIGTERM.
func StartServer(env *config.Env) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, env)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Run(ctx)
}
