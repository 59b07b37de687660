package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/campusconnect-nz/campus-api/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PostgresDB struct {
	config *config.PostgresConfig
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresDB(config *config.PostgresConfig) *PostgresDB {
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = 30
	}
	return &PostgresDB{
		config: config,
		logger: zap.L(),
	}
}

func (p *PostgresDB) Connect(ctx context.Context) error {
	p.logger.Info("Starting PostgreSQL connection",
		zap.String("host", p.config.Host),
		zap.Int("port", p.config.Port),
		zap.String("database", p.config.Database),
		zap.String("username", p.config.Username))

	ctx, cancel := context.WithTimeout(ctx, time.Duration(p.config.ConnectTimeout)*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(p.buildPgxDSN())
	if err != nil {
		p.logger.Error("Failed to parse pool config", zap.Error(err))
		return fmt.Errorf("failed to parse pool config: %w", err)
	}

	p.configurePool(poolConfig)
	p.pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		p.logger.Error("Failed to create pool", zap.Error(err))
		return fmt.Errorf("failed to create pool: %w", err)
	}

	if err := p.pool.Ping(ctx); err != nil {
		p.logger.Error("Failed to ping pool", zap.Error(err))
		p.Close()
		return fmt.Errorf("failed to ping pool: %w", err)
	}

	p.logger.Info("Successfully connected to PostgreSQL",
		zap.String("host", p.config.Host),
		zap.Int("port", p.config.Port))
	return nil
}

// Pool returns the connection pool. It is nil until Connect succeeds.
func (p *PostgresDB) Pool() *pgxpool.Pool {
	return p.pool
}

func (p *PostgresDB) Ping(ctx context.Context) error {
	if p.pool == nil {
		return fmt.Errorf("pool not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.pool.Ping(ctx); err != nil {
		p.logger.Error("Pool ping failed", zap.Error(err))
		return fmt.Errorf("pool ping failed: %w", err)
	}
	return nil
}

func (p *PostgresDB) Close() {
	if p.pool != nil {
		p.logger.Info("Closing PostgreSQL pool")
		p.pool.Close()
		p.pool = nil
	}
}

func (p *PostgresDB) buildPgxDSN() string {
	sslMode := p.config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.config.Username, p.config.Password),
		Host:   fmt.Sprintf("%s:%d", p.config.Host, p.config.Port),
		Path:   p.config.Database,
	}
	q := u.Query()
	q.Set("sslmode", sslMode)
	u.RawQuery = q.Encode()

	return u.String()
}

func (p *PostgresDB) configurePool(config *pgxpool.Config) {
	p.logger.Debug("Configuring connection pool",
		zap.Int32("max_conns", p.config.MaxConns),
		zap.Int32("min_conns", p.config.MinConns),
		zap.Int("conn_max_idle_time_minutes", p.config.ConnMaxIdleTime),
		zap.Int("conn_max_lifetime_hours", p.config.ConnMaxLifetime),
		zap.Int("health_check_period_minutes", p.config.HealthCheckPeriod))

	if p.config.MaxConns != 0 {
		config.MaxConns = p.config.MaxConns
	}

	if p.config.MinConns != 0 {
		config.MinConns = p.config.MinConns
	}

	if p.config.ConnMaxIdleTime != 0 {
		config.MaxConnIdleTime = time.Duration(p.config.ConnMaxIdleTime) * time.Minute
	}

	if p.config.ConnMaxLifetime != 0 {
		config.MaxConnLifetime = time.Duration(p.config.ConnMaxLifetime) * time.Hour
	}

	if p.config.HealthCheckPeriod != 0 {
		config.HealthCheckPeriod = time.Duration(p.config.HealthCheckPeriod) * time.Minute
	}
}
