package identity

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// CredentialEvent is a normalized credential callback. Email and HostedDomain
// come from the unverified ID-token claims and are for display and logging
// only; the server verifies the token.
type CredentialEvent struct {
	Raw          string
	Email        string
	HostedDomain string
	Name         string
	SelectBy     string
}

type idTokenClaims struct {
	Email        string `json:"email"`
	HostedDomain string `json:"hd"`
	Name         string `json:"name"`
	jwt.RegisteredClaims
}

// ParseCredential builds a CredentialEvent from a raw ID token. A token whose
// claims cannot be read still yields an event carrying Raw, together with the
// parse error.
func ParseCredential(raw, selectBy string) (CredentialEvent, error) {
	ev := CredentialEvent{Raw: strings.TrimSpace(raw), SelectBy: selectBy}
	if ev.Raw == "" {
		return ev, fmt.Errorf("empty credential")
	}

	var claims idTokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(ev.Raw, &claims); err != nil {
		return ev, fmt.Errorf("read credential claims: %w", err)
	}

	ev.Email = claims.Email
	ev.HostedDomain = claims.HostedDomain
	ev.Name = claims.Name
	if ev.HostedDomain == "" {
		if at := strings.LastIndex(ev.Email, "@"); at >= 0 {
			ev.HostedDomain = ev.Email[at+1:]
		}
	}
	return ev, nil
}
