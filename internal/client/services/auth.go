// Package services contains application services for the course-notes client.
// This file defines the auth session manager: session check, credential
// exchange, sign-out and invalidation, plus subscription to session changes.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/coursenotes/internal/client/client"
	"github.com/dmitrijs2005/coursenotes/internal/client/identity"
	"github.com/dmitrijs2005/coursenotes/internal/client/models"
	"github.com/dmitrijs2005/coursenotes/internal/client/store"
	"github.com/dmitrijs2005/coursenotes/internal/common"
	"github.com/dmitrijs2005/coursenotes/internal/logging"
)

const DefaultSessionCheckTimeout = 10 * time.Second

// AuthService owns the authenticated-user state machine:
//
//	Unknown -> Checking -> {Authenticated, Unauthenticated}
//	Authenticated -> Unauthenticated (sign-out, token invalidation)
//
// Contract:
//   - CheckSession: verify the stored token once at start.
//   - ExchangeCredential: trade an identity credential for an API token.
//   - SignOut: drop the token and every piece of dependent session state.
//   - Invalidate: react to a token rejected by the API.
//   - MaybePromptOneTap / TriggerOneTap / CancelOneTap: one-tap prompt.
//   - Subscribe: observe every session change; a bumped Generation means
//     dependent state must be discarded.
type AuthService interface {
	CheckSession(ctx context.Context) error
	ExchangeCredential(ctx context.Context, credential string) (*models.User, error)
	HandleCredential(ctx context.Context, ev identity.CredentialEvent)
	SignOut(ctx context.Context) error
	Invalidate(ctx context.Context)

	MaybePromptOneTap(ctx context.Context) (bool, error)
	TriggerOneTap(ctx context.Context) error
	CancelOneTap(ctx context.Context)
	OneTapState() models.OneTapState

	Session() models.Session
	IsAuthenticated() bool
	User() *models.User
	Subscribe(fn func(models.Session)) (unsubscribe func())
}

// IdentityBridge is the part of identity.Bridge the session manager drives.
type IdentityBridge interface {
	Ready() bool
	Prompt(ctx context.Context, notify func(identity.PromptMoment)) error
	DisableAutoSelect()
	Cancel()
}

// AuthOptions tune the session manager. Zero values are usable.
type AuthOptions struct {
	AllowedDomain       string
	SessionCheckTimeout time.Duration
	EnableOneTap        bool

	// OnSignIn runs after every successful credential exchange.
	OnSignIn func(ctx context.Context)
	// OnMoment observes every one-tap prompt outcome.
	OnMoment func(identity.PromptMoment)
	// OnError receives user-facing failures of flows nobody awaits
	// (credential callbacks).
	OnError func(ctx context.Context, err error)

	Logger logging.Logger
}

type authService struct {
	client client.Client
	tokens *store.TokenStore
	oneTap *store.OneTapFlag
	bridge IdentityBridge
	opts   AuthOptions
	log    logging.Logger

	mu              sync.Mutex
	state           models.SessionState
	user            *models.User
	token           string
	loading         bool
	oneTapDisplayed bool
	oneTapDismissed bool
	generation      uint64

	listeners map[int]func(models.Session)
	nextID    int
}

// NewAuthService builds the session manager. bridge may be nil when no
// identity provider is configured.
func NewAuthService(c client.Client, tokens *store.TokenStore, oneTap *store.OneTapFlag, bridge IdentityBridge, opts AuthOptions) AuthService {
	if opts.SessionCheckTimeout <= 0 {
		opts.SessionCheckTimeout = DefaultSessionCheckTimeout
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &authService{
		client:    c,
		tokens:    tokens,
		oneTap:    oneTap,
		bridge:    bridge,
		opts:      opts,
		log:       log.With("component", "auth"),
		listeners: make(map[int]func(models.Session)),
	}
}

func (a *authService) snapshotLocked() models.Session {
	return models.Session{
		State:      a.state,
		User:       a.user,
		Token:      a.token,
		IsLoading:  a.loading,
		Generation: a.generation,
	}
}

// update mutates state under the lock and then notifies subscribers.
func (a *authService) update(fn func()) {
	a.mu.Lock()
	fn()
	snap := a.snapshotLocked()
	listeners := make([]func(models.Session), 0, len(a.listeners))
	for _, l := range a.listeners {
		listeners = append(listeners, l)
	}
	a.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (a *authService) Subscribe(fn func(models.Session)) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

func (a *authService) Session() models.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *authService) IsAuthenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user != nil
}

func (a *authService) User() *models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

// resolveKeepingUserLocked leaves the cached user in place and resolves the
// state from it.
func (a *authService) resolveKeepingUserLocked() {
	if a.user != nil {
		a.state = models.StateAuthenticated
	} else {
		a.state = models.StateUnauthenticated
	}
}

// CheckSession verifies the stored token against the API.
//
// Outcomes:
//   - no token: Unauthenticated without a network call; the session's one-tap
//     dismissal is restored.
//   - 200: Authenticated with the returned user.
//   - 401/403 or an unreadable body: token cleared, Unauthenticated.
//   - 404: user cleared (the endpoint is missing), token kept.
//   - transport error or timeout: the prior state is kept.
//   - any other status: logged; Unauthenticated only if no user is cached.
func (a *authService) CheckSession(ctx context.Context) error {
	a.update(func() {
		a.state = models.StateChecking
		a.loading = true
	})

	token, err := a.tokens.Token(ctx)
	if err != nil {
		a.update(func() {
			a.loading = false
			a.resolveKeepingUserLocked()
		})
		return fmt.Errorf("check session: %w", err)
	}

	if token == "" {
		dismissed, derr := a.oneTap.Dismissed(ctx)
		if derr != nil {
			a.log.Warn(ctx, "one-tap flag unreadable", "error", derr)
		}
		a.update(func() {
			a.user = nil
			a.token = ""
			a.loading = false
			a.state = models.StateUnauthenticated
			if dismissed {
				a.oneTapDismissed = true
			}
		})
		return nil
	}

	cctx, cancel := context.WithTimeout(ctx, a.opts.SessionCheckTimeout)
	defer cancel()

	user, err := a.client.Me(cctx)
	if err == nil {
		a.log.Info(ctx, "session verified", "user", user.Email)
		a.update(func() {
			a.user = user
			a.token = token
			a.loading = false
			a.state = models.StateAuthenticated
			a.oneTapDisplayed = false
			a.oneTapDismissed = false
		})
		return nil
	}

	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrForbidden):
		a.log.Info(ctx, "token invalid or expired, clearing auth state")
		a.dropToken(ctx)
		a.update(func() {
			a.user = nil
			a.token = ""
			a.loading = false
			a.state = models.StateUnauthenticated
		})

	case errors.Is(err, client.ErrNotFound):
		a.log.Error(ctx, "auth endpoint not found, check the api base url")
		a.update(func() {
			a.user = nil
			a.token = token
			a.loading = false
			a.state = models.StateUnauthenticated
		})

	case errors.Is(err, client.ErrMalformedResponse):
		a.log.Error(ctx, "session check returned an unreadable body", "error", err)
		a.dropToken(ctx)
		a.update(func() {
			a.user = nil
			a.token = ""
			a.loading = false
			a.state = models.StateUnauthenticated
		})

	case errors.As(err, &apiErr):
		a.log.Warn(ctx, "session check failed", "status", apiErr.StatusCode)
		a.update(func() {
			a.token = token
			a.loading = false
			a.resolveKeepingUserLocked()
		})

	default:
		a.log.Warn(ctx, "session check unreachable, keeping existing state", "error", err)
		a.update(func() {
			a.token = token
			a.loading = false
			a.resolveKeepingUserLocked()
		})
	}
	return nil
}

func (a *authService) dropToken(ctx context.Context) {
	if err := a.tokens.ClearToken(ctx); err != nil {
		a.log.Error(ctx, "failed to clear token", "error", err)
	}
}

// ExchangeCredential posts an identity credential to the API and, on success,
// persists the returned token and signs the user in.
func (a *authService) ExchangeCredential(ctx context.Context, credential string) (*models.User, error) {
	a.update(func() { a.loading = true })

	resp, err := a.client.GoogleAuth(ctx, credential)
	if err != nil {
		err = a.exchangeError(err)
		a.log.Error(ctx, "authentication failed", "error", err)
		a.update(func() {
			a.loading = false
			a.resolveKeepingUserLocked()
		})
		return nil, err
	}

	if err := a.tokens.SetToken(ctx, resp.Token); err != nil {
		a.update(func() {
			a.loading = false
			a.resolveKeepingUserLocked()
		})
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if err := a.oneTap.Reset(ctx); err != nil {
		a.log.Warn(ctx, "failed to reset one-tap flag", "error", err)
	}

	a.update(func() {
		a.user = resp.User
		a.token = resp.Token
		a.loading = false
		a.state = models.StateAuthenticated
		a.oneTapDisplayed = false
		a.oneTapDismissed = false
	})
	a.log.Info(ctx, "authentication successful", "user", resp.User.Email)

	if a.opts.OnSignIn != nil {
		a.opts.OnSignIn(ctx)
	}
	return resp.User, nil
}

// HandleCredential is the identity bridge's credential callback.
func (a *authService) HandleCredential(ctx context.Context, ev identity.CredentialEvent) {
	a.log.Debug(ctx, "credential received", "email", ev.Email, "hd", ev.HostedDomain, "select_by", ev.SelectBy)

	if _, err := a.ExchangeCredential(ctx, ev.Raw); err != nil && a.opts.OnError != nil {
		a.opts.OnError(ctx, err)
	}
}

// AuthError is a failed credential exchange carrying the message to show.
type AuthError struct {
	Message string
	errs    []error
}

func (e *AuthError) Error() string   { return e.Message }
func (e *AuthError) Unwrap() []error { return e.errs }

// DomainRestrictedMessage is shown when the API rejects an account outside
// the allowed domain.
func DomainRestrictedMessage(domain string) string {
	return fmt.Sprintf("Only @%s email addresses are allowed. Please sign in with your institutional email.", domain)
}

func (a *authService) exchangeError(err error) error {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return &AuthError{Message: "authentication failed: " + err.Error(), errs: []error{err}}
	}

	domain := strings.TrimPrefix(a.opts.AllowedDomain, "@")
	if domain != "" && strings.Contains(apiErr.Message, domain) {
		return &AuthError{
			Message: DomainRestrictedMessage(domain),
			errs:    []error{common.ErrDomainRestricted, err},
		}
	}
	if apiErr.Message != "" {
		return &AuthError{Message: apiErr.Message, errs: []error{err}}
	}
	return &AuthError{Message: fmt.Sprintf("authentication failed: %d", apiErr.StatusCode), errs: []error{err}}
}

// SignOut clears the stored token and the session's one-tap flag, stops
// automatic account selection and resets every piece of session state.
// Subscribers see a new Generation and must discard dependent state.
func (a *authService) SignOut(ctx context.Context) error {
	var errs []error
	if err := a.tokens.ClearToken(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.oneTap.Reset(ctx); err != nil {
		errs = append(errs, err)
	}

	if a.bridge != nil && a.bridge.Ready() {
		a.bridge.DisableAutoSelect()
	}

	a.update(func() {
		a.user = nil
		a.token = ""
		a.loading = false
		a.state = models.StateUnauthenticated
		a.oneTapDisplayed = false
		a.oneTapDismissed = false
		a.generation++
	})

	if err := errors.Join(errs...); err != nil {
		a.log.Error(ctx, "sign out incomplete", "error", err)
		return fmt.Errorf("sign out: %w", err)
	}
	a.log.Info(ctx, "signed out")
	return nil
}

// Invalidate handles a token rejected by the API: the token is dropped and
// the session resets. The session's one-tap dismissal survives.
func (a *authService) Invalidate(ctx context.Context) {
	a.dropToken(ctx)

	dismissed, err := a.oneTap.Dismissed(ctx)
	if err != nil {
		a.log.Warn(ctx, "one-tap flag unreadable", "error", err)
	}

	a.update(func() {
		a.user = nil
		a.token = ""
		a.loading = false
		a.state = models.StateUnauthenticated
		a.oneTapDisplayed = false
		a.oneTapDismissed = dismissed
		a.generation++
	})
	a.log.Warn(ctx, "session invalidated by the api")
}
