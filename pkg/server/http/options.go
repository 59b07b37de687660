package http_server

import (
	"context"
	"net"
	"time"
)

const (
	_defaultAddr            = ":8080"
	_defaultTimeout         = 30 * time.Second
	_defaultShutdownTimeout = 10 * time.Second
)

// Option -.
type Option func(*Server)

// Port -.
func Port(port string) Option {
	return func(s *Server) {
		s.address = net.JoinHostPort("", port)
	}
}

// Timeout bounds each request through gin-contrib/timeout.
func Timeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// ShutdownTimeout -.
func ShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.shutdownTimeout = timeout
		}
	}
}

// HealthCheck makes /health report 503 while check fails.
func HealthCheck(check func(ctx context.Context) error) Option {
	return func(s *Server) {
		s.healthCheck = check
	}
}
