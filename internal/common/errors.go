package common

import "errors"

var (
	// transport
	ErrUnavailable       = errors.New("service unavailable")
	ErrMalformedResponse = errors.New("malformed response")

	// authorization
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// repository / resource
	ErrNotFound = errors.New("not found")

	// identity
	ErrDomainRestricted = errors.New("domain restricted")
	ErrIdentityNotReady = errors.New("identity provider not ready")

	// user actions
	ErrVoteInFlight = errors.New("vote already in flight")
	ErrNotPDF       = errors.New("only PDF files are allowed")
)
