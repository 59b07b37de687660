package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/campusconnect-nz/campus-api/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient connects to a single node ("NORMAL") or a sentinel group
// ("SENTINEL") and verifies the connection with a PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	var client *redis.Client

	switch strings.ToUpper(cfg.Type) {
	case "", "NORMAL":
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Addrs,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	case "SENTINEL":
		client = redis.NewFailoverClient(&redis.FailoverOptions{
			SentinelAddrs: strings.Fields(cfg.Addrs),
			MasterName:    cfg.MasterName,
			Password:      cfg.Password,
			DB:            cfg.DB,
			ReadTimeout:   100 * time.Millisecond,
		})
	default:
		return nil, fmt.Errorf("invalid redis type %q: must be NORMAL or SENTINEL", cfg.Type)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	zap.L().Info("Connected to Redis", zap.String("addrs", cfg.Addrs), zap.String("type", cfg.Type))
	return client, nil
}
