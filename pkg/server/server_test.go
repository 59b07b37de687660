package server

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/campusconnect-nz/campus-api/config"
	"github.com/campusconnect-nz/campus-api/internal/auth"
	"github.com/campusconnect-nz/campus-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_MissingSecretFailsBeforeConnecting(t *testing.T) {
	env := &config.Env{PostgresConfig: config.PostgresConfig{Host: "db.invalid", Port: 1}}

	_, err := New(t.Context(), env)

	assert.ErrorIs(t, err, auth.ErrMissingSecret)
}

func TestNewCodec_StampsIssuer(t *testing.T) {
	codec, err := NewCodec(config.AuthConfig{JWTSecret: "bootstrap-secret", TokenTTL: time.Hour})
	require.NoError(t, err)
	assert.Equal(t, time.Hour, codec.TTL())

	token, err := codec.Issue(model.Identity{UserID: "u1", Role: model.RoleStudent})
	require.NoError(t, err)

	other, err := auth.NewCodec("bootstrap-secret", time.Hour, auth.WithIssuer("someone-else"))
	require.NoError(t, err)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestNewRevoker(t *testing.T) {
	disabled, client, err := newRevoker(t.Context(), &config.Env{})
	require.NoError(t, err)
	assert.IsType(t, auth.NopRevoker{}, disabled)
	assert.Nil(t, client)

	mr := miniredis.RunT(t)
	env := &config.Env{RedisConfig: config.RedisConfig{Enabled: true, Type: "NORMAL", Addrs: mr.Addr()}}
	enabled, client, err := newRevoker(t.Context(), env)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	assert.IsType(t, &auth.RedisRevoker{}, enabled)
}
