package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/campusconnect-nz/campus-api/internal/model"
	"github.com/redis/go-redis/v9"
)

// Revoker lets the server invalidate every token a user holds without
// tracking individual tokens: a token is revoked when it was issued before
// the user's revocation epoch.
type Revoker interface {
	Revoked(ctx context.Context, claims model.Claims) (bool, error)
	RevokeUser(ctx context.Context, userID string) error
}

// NopRevoker never revokes anything. Used when Redis is not configured.
type NopRevoker struct{}

func (NopRevoker) Revoked(context.Context, model.Claims) (bool, error) { return false, nil }
func (NopRevoker) RevokeUser(context.Context, string) error            { return nil }

const revokedKeyPrefix = "campus:revoked:"

type RedisRevoker struct {
	client redis.Cmdable
	// retention should be at least the token TTL; older tokens have expired anyway.
	retention time.Duration
	now       func() time.Time
}

func NewRedisRevoker(client redis.Cmdable, retention time.Duration) *RedisRevoker {
	if retention <= 0 {
		retention = DefaultTokenTTL
	}
	return &RedisRevoker{
		client:    client,
		retention: retention,
		now:       time.Now,
	}
}

func revokedKey(userID string) string {
	return revokedKeyPrefix + userID
}

func (r *RedisRevoker) RevokeUser(ctx context.Context, userID string) error {
	epoch := r.now().Unix()
	if err := r.client.Set(ctx, revokedKey(userID), epoch, r.retention).Err(); err != nil {
		return fmt.Errorf("revoke user %s: %w", userID, err)
	}
	return nil
}

func (r *RedisRevoker) Revoked(ctx context.Context, claims model.Claims) (bool, error) {
	raw, err := r.client.Get(ctx, revokedKey(claims.UserID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read revocation epoch: %w", err)
	}

	epoch, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse revocation epoch %q: %w", raw, err)
	}
	return claims.IssuedAt.Unix() < epoch, nil
}
