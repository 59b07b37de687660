package http_server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/campusconnect-nz/campus-api/config"
	"github.com/campusconnect-nz/campus-api/internal/constant"
	"github.com/campusconnect-nz/campus-api/internal/middleware"
	"github.com/campusconnect-nz/campus-api/pkg/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/campusconnect-nz/campus-api/docs"
)

type Server struct {
	App    *gin.Engine
	API    *gin.RouterGroup
	notify chan error

	httpServer      *http.Server
	address         string
	timeout         time.Duration
	shutdownTimeout time.Duration
	healthCheck     func(ctx context.Context) error
}

// New -.
func New(env *config.Env, opts ...Option) *Server {
	s := &Server{
		notify:          make(chan error, 1),
		address:         _defaultAddr,
		timeout:         _defaultTimeout,
		shutdownTimeout: _defaultShutdownTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.App = s.initGinServer(env)
	s.API = s.App.Group(pathPrefix(env))
	s.httpServer = &http.Server{
		Addr:              s.address,
		Handler:           s.App,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func pathPrefix(env *config.Env) string {
	if env.AppConfig.PathPrefix == "" {
		return "/api"
	}
	return env.AppConfig.PathPrefix
}

func timeoutResponse(c *gin.Context) {
	c.JSON(http.StatusRequestTimeout, constant.REQUEST_TIMEOUT)
}

func timeoutMiddleware(to time.Duration) gin.HandlerFunc {
	return timeout.New(
		timeout.WithTimeout(to),
		timeout.WithResponse(timeoutResponse),
	)
}

func (s *Server) initGinServer(env *config.Env) *gin.Engine {
	if env.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(middleware.CorrelationIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(middleware.DefaultMiddlewareConfig()).RequestLogger())
	r.Use(gin.Recovery())

	if env.MetricsConfig.Enabled {
		path := env.MetricsConfig.Path
		if path == "" {
			path = "/metrics"
		}
		m := metrics.GetMonitor(path)
		m.Use(r)
	}

	if env.CORSConfig.Enabled {
		corsConfig := cors.Config{
			AllowOrigins:     env.CORSConfig.AllowedOrigins,
			AllowMethods:     env.CORSConfig.AllowedMethods,
			AllowHeaders:     env.CORSConfig.AllowedHeaders,
			ExposeHeaders:    env.CORSConfig.ExposedHeaders,
			AllowCredentials: env.CORSConfig.AllowCredentials,
			MaxAge:           time.Duration(env.CORSConfig.MaxAge) * time.Second,
		}

		r.Use(cors.New(corsConfig))
	}

	r.Use(timeoutMiddleware(s.timeout))

	r.GET("/health", s.health)

	// Swagger documentation
	r.GET(pathPrefix(env)+"/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
	return r
}

// HealthCheck godoc
//
//	@Summary		Health Check
//	@Description	Returns status 200 if the service and its database are reachable
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		503	{object}	map[string]string
//	@Router			/health [get]
func (s *Server) health(c *gin.Context) {
	if s.healthCheck != nil {
		if err := s.healthCheck(c.Request.Context()); err != nil {
			zap.L().Warn("Health check failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.AbortWithStatusJSON(http.StatusOK, gin.H{"status": "ok"})
}

// Start -.
func (s *Server) Start() {
	go func() {
		zap.L().Info("HTTP server listening", zap.String("address", s.address))
		err := s.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.notify <- err
		close(s.notify)
	}()
}

// Notify -.
func (s *Server) Notify() <-chan error {
	return s.notify
}

// Shutdown drains in-flight requests, waiting at most the shutdown timeout.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}
