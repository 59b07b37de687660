package constant

// Constant package provides constants used throughout the application.

type ctxKey string

const (
	CorrelationIDKey ctxKey = "CorrelationID"
)

// gin context keys
const (
	ClaimsKey        = "claims"
	ValidatedBodyKey = "validatedBody"
	RequestIDKey     = "requestId"
)
