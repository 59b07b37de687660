package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/campusconnect-nz/campus-api/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

type tokenClaims struct {
	jwt.RegisteredClaims
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
	Verified bool       `json:"verified"`
}

// Codec signs and verifies HS256 access tokens with a single secret that is
// fixed for the lifetime of the value.
type Codec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

type Option func(*Codec)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// WithIssuer sets the iss claim and requires it on verification.
func WithIssuer(issuer string) Option {
	return func(c *Codec) {
		c.issuer = issuer
	}
}

func NewCodec(secret string, ttl time.Duration, opts ...Option) (*Codec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	c := &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs the identity with iat=now and exp=now+ttl.
func (c *Codec) Issue(identity model.Identity) (string, error) {
	if c == nil || len(c.secret) == 0 {
		return "", ErrMissingSecret
	}
	if strings.TrimSpace(identity.UserID) == "" || !identity.Role.Valid() {
		return "", ErrInvalidIdentity
	}

	now := c.now().Truncate(time.Second)
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Email:    identity.Email,
		Role:     identity.Role,
		Verified: identity.Verified,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("token signing failed: %w", err)
	}
	return signed, nil
}

// Verify parses and checks a token. Every failure is reported as
// ErrInvalidToken; the cause is wrapped for logging only.
func (c *Codec) Verify(tokenString string) (model.Claims, error) {
	if c == nil || len(c.secret) == 0 {
		return model.Claims{}, ErrMissingSecret
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if c.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(c.issuer))
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	}, parserOpts...)
	if err != nil {
		return model.Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return model.Claims{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return model.Claims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if !claims.Role.Valid() {
		return model.Claims{}, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}

	out := model.Claims{
		Identity: model.Identity{
			UserID:   claims.Subject,
			Email:    claims.Email,
			Role:     claims.Role,
			Verified: claims.Verified,
		},
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	out.ExpiresAt = claims.ExpiresAt.Time
	return out, nil
}
