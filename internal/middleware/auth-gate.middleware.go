package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/campusconnect-nz/campus-api/internal/auth"
	"github.com/campusconnect-nz/campus-api/internal/constant"
	"github.com/campusconnect-nz/campus-api/internal/model"
	"github.com/campusconnect-nz/campus-api/internal/model/response"
	"github.com/campusconnect-nz/campus-api/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Rejection terminates a request with a status and JSON body. Err is the
// internal cause and is only logged.
type Rejection struct {
	Status int
	Body   response.ResponseData
	Err    error
}

// Gate either enriches the context and returns nil, or rejects.
type Gate func(c *gin.Context) *Rejection

// Guard runs gates in order. The first rejection aborts the request and no
// later gate runs.
func Guard(gates ...Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, gate := range gates {
			if r := gate(c); r != nil {
				reject(c, r)
				return
			}
		}
		c.Next()
	}
}

func reject(c *gin.Context, r *Rejection) {
	reason := "unknown"
	if r.Err != nil {
		reason = rejectionReason(r.Err)
	}
	zap.L().Warn("Request rejected by auth gate",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("ip", getClientIP(c)),
		zap.Int("status", r.Status),
		zap.String("reason", reason),
		zap.Error(r.Err))
	metrics.RecordAuthRejection(reason)

	c.AbortWithStatusJSON(r.Status, r.Body)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, auth.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, auth.ErrVerificationRequired):
		return "verification_required"
	case errors.Is(err, auth.ErrAdminRequired):
		return "admin_required"
	default:
		return "internal"
	}
}

// Level is the access a route requires.
type Level int

const (
	LevelPublic Level = iota
	LevelAuthenticated
	LevelVerified
	// LevelAdmin does not imply LevelVerified; admins are provisioned verified.
	LevelAdmin
)

func (l Level) String() string {
	switch l {
	case LevelPublic:
		return "public"
	case LevelAuthenticated:
		return "authenticated"
	case LevelVerified:
		return "verified"
	case LevelAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

type TokenVerifier interface {
	Verify(token string) (model.Claims, error)
}

// AuthGate trusts the claims embedded in the token; it does not look the user
// up on every request. The optional revoker is the only server-side check.
type AuthGate struct {
	verifier TokenVerifier
	revoker  auth.Revoker
}

// NewAuthGate builds the gate. revoker may be nil.
func NewAuthGate(verifier TokenVerifier, revoker auth.Revoker) *AuthGate {
	return &AuthGate{
		verifier: verifier,
		revoker:  revoker,
	}
}

// For returns the middleware enforcing level.
func (g *AuthGate) For(level Level) gin.HandlerFunc {
	switch level {
	case LevelAuthenticated:
		return Guard(g.Authenticate)
	case LevelVerified:
		return Guard(g.Authenticate, RequireVerified)
	case LevelAdmin:
		return Guard(g.Authenticate, RequireAdmin)
	default:
		return func(c *gin.Context) { c.Next() }
	}
}

// Authenticate requires a valid bearer token and attaches its claims.
func (g *AuthGate) Authenticate(c *gin.Context) *Rejection {
	token := extractToken(c)
	if token == "" {
		return &Rejection{Status: http.StatusUnauthorized, Body: constant.ACCESS_TOKEN_REQUIRED, Err: auth.ErrMissingToken}
	}

	claims, err := g.verifier.Verify(token)
	if err != nil {
		return &Rejection{Status: http.StatusForbidden, Body: constant.INVALID_TOKEN, Err: err}
	}

	if g.revoker != nil {
		revoked, err := g.revoker.Revoked(c.Request.Context(), claims)
		if err != nil {
			// fail closed
			return &Rejection{Status: http.StatusForbidden, Body: constant.INVALID_TOKEN, Err: errors.Join(auth.ErrInvalidToken, err)}
		}
		if revoked {
			return &Rejection{Status: http.StatusForbidden, Body: constant.INVALID_TOKEN, Err: auth.ErrInvalidToken}
		}
	}

	c.Set(constant.ClaimsKey, claims)

	zap.L().Debug("User authenticated successfully",
		zap.String("userId", claims.UserID),
		zap.String("role", string(claims.Role)),
		zap.String("path", c.Request.URL.Path))
	return nil
}

// RequireVerified treats a request without claims as unverified.
func RequireVerified(c *gin.Context) *Rejection {
	claims, ok := ClaimsFrom(c)
	if !ok || !claims.Verified {
		return &Rejection{Status: http.StatusForbidden, Body: constant.VERIFICATION_REQUIRED, Err: auth.ErrVerificationRequired}
	}
	return nil
}

func RequireAdmin(c *gin.Context) *Rejection {
	claims, ok := ClaimsFrom(c)
	if !ok || !claims.IsAdmin() {
		return &Rejection{Status: http.StatusForbidden, Body: constant.ADMIN_REQUIRED, Err: auth.ErrAdminRequired}
	}
	return nil
}

// ClaimsFrom returns the claims attached by Authenticate.
func ClaimsFrom(c *gin.Context) (model.Claims, bool) {
	v, exists := c.Get(constant.ClaimsKey)
	if !exists {
		return model.Claims{}, false
	}
	claims, ok := v.(model.Claims)
	return claims, ok
}

// extractToken returns the token of a "Bearer <token>" Authorization header,
// or "" for any other shape.
func extractToken(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return ""
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
