// Package identity bridges the third-party identity provider SDK into the
// client: it owns the SDK's readiness state machine, normalizes credential
// callbacks into CredentialEvent and prompt outcomes into PromptMoment.
package identity

import (
	"context"
	"io"
)

// CredentialResponse is what the SDK hands to the credential callback.
type CredentialResponse struct {
	Credential string
	SelectBy   string
}

// Config is passed to SDK.Initialize.
type Config struct {
	ClientID           string
	HostedDomain       string
	AutoSelect         bool
	CancelOnTapOutside bool
	UXMode             string
	Context            string
	Callback           func(ctx context.Context, resp CredentialResponse)
}

// ButtonConfig controls how the explicit sign-in affordance is rendered.
type ButtonConfig struct {
	Type  string
	Theme string
	Size  string
	Text  string
	Shape string
	Width int
}

// SDK is the surface consumed from the identity provider.
//
// Available reports whether the loaded SDK can be initialized yet; some SDKs
// finish loading before their API is usable.
type SDK interface {
	Load(ctx context.Context) error
	Available() bool
	Initialize(cfg Config) error
	Prompt(ctx context.Context, notify func(PromptMoment)) error
	RenderButton(ctx context.Context, target io.Writer, cfg ButtonConfig) error
	DisableAutoSelect()
	Cancel()
}

// MomentKind classifies a prompt outcome.
type MomentKind int

const (
	MomentNotDisplayed MomentKind = iota
	MomentSkipped
	MomentDismissed
)

func (k MomentKind) String() string {
	switch k {
	case MomentNotDisplayed:
		return "not_displayed"
	case MomentSkipped:
		return "skipped"
	case MomentDismissed:
		return "dismissed"
	}
	return "unknown"
}

// Prompt outcome reasons reported by the provider.
const (
	ReasonSuppressedByUser   = "suppressed_by_user"
	ReasonUnregisteredOrigin = "unregistered_origin"
	ReasonCancelCalled       = "cancel_called"
	ReasonCredentialReturned = "credential_returned"
	ReasonTapOutside         = "tap_outside"
	ReasonUserCancel         = "user_cancel"
	ReasonUnknown            = "unknown_reason"
)

// PromptMoment is a normalized prompt notification.
type PromptMoment struct {
	Kind   MomentKind
	Reason string
}

// SuppressesSession reports whether the outcome must stop automatic prompts
// for the rest of the session: any dismissal, and the not-displayed reasons
// that would otherwise loop.
func (m PromptMoment) SuppressesSession() bool {
	switch m.Kind {
	case MomentDismissed:
		return true
	case MomentNotDisplayed:
		return m.Reason == ReasonSuppressedByUser || m.Reason == ReasonUnregisteredOrigin
	}
	return false
}
