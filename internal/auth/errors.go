package auth

import "errors"

var (
	// ErrMissingSecret is a configuration error: the signing secret is empty.
	ErrMissingSecret = errors.New("auth: jwt secret is not configured")
	// ErrMissingToken means the request carried no bearer token.
	ErrMissingToken = errors.New("auth: access token required")
	// ErrInvalidToken covers bad signatures, malformed input, expiry and revocation alike.
	ErrInvalidToken = errors.New("auth: invalid or expired token")
	// ErrInvalidIdentity is returned by Issue for an identity that could never verify.
	ErrInvalidIdentity = errors.New("auth: identity needs a user id and a known role")

	ErrVerificationRequired = errors.New("auth: email verification required")
	ErrAdminRequired        = errors.New("auth: admin access required")
)
