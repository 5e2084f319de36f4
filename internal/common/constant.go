// Package common contains shared constants and sentinel errors used across
// the course-notes client components.
package common

const (
	// AuthorizationHeader carries the bearer token on outbound requests.
	AuthorizationHeader = "Authorization"
	// BearerPrefix precedes the token inside AuthorizationHeader.
	BearerPrefix = "Bearer "
	// RequestIDHeader carries a per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	// TokenKey is the durable store key of the bearer token.
	TokenKey = "auth_token"
	// OneTapDismissedKey is the session store key of the one-tap dismissal flag.
	OneTapDismissedKey = "oneTapDismissed"
)
