package services

import (
	"context"

	"github.com/dmitrijs2005/coursenotes/internal/client/identity"
	"github.com/dmitrijs2005/coursenotes/internal/client/models"
)

// OneTapState reports where the one-tap prompt stands this session.
func (a *authService) OneTapState() models.OneTapState {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case a.oneTapDismissed:
		return models.OneTapDismissed
	case a.oneTapDisplayed:
		return models.OneTapDisplayed
	}
	return models.OneTapNotAttempted
}

// MaybePromptOneTap shows the one-tap prompt when every precondition holds:
// one-tap enabled, bridge ready, nobody signed in, not loading, prompt not
// already displayed and not dismissed this session. It reports whether the
// prompt was shown.
func (a *authService) MaybePromptOneTap(ctx context.Context) (bool, error) {
	if !a.opts.EnableOneTap || a.bridge == nil || !a.bridge.Ready() {
		return false, nil
	}

	a.mu.Lock()
	if a.user != nil || a.loading || a.oneTapDisplayed || a.oneTapDismissed {
		a.mu.Unlock()
		return false, nil
	}
	a.oneTapDisplayed = true
	a.mu.Unlock()

	return true, a.prompt(ctx)
}

// TriggerOneTap is the manual sign-in path: it forgets any dismissal and
// prompts even when automatic one-tap is disabled.
func (a *authService) TriggerOneTap(ctx context.Context) error {
	if a.IsAuthenticated() {
		return nil
	}
	if a.bridge == nil || !a.bridge.Ready() {
		return identity.ErrNotReady
	}

	if err := a.oneTap.Reset(ctx); err != nil {
		a.log.Warn(ctx, "failed to reset one-tap flag", "error", err)
	}
	a.mu.Lock()
	a.oneTapDismissed = false
	a.oneTapDisplayed = true
	a.mu.Unlock()

	return a.prompt(ctx)
}

// CancelOneTap closes a displayed prompt and counts as a dismissal.
func (a *authService) CancelOneTap(ctx context.Context) {
	if a.bridge != nil {
		a.bridge.Cancel()
	}
	a.mu.Lock()
	a.oneTapDisplayed = false
	a.mu.Unlock()
	a.markDismissed(ctx)
}

func (a *authService) prompt(ctx context.Context) error {
	a.log.Debug(ctx, "displaying one-tap prompt")
	err := a.bridge.Prompt(ctx, func(m identity.PromptMoment) { a.handleMoment(ctx, m) })
	if err != nil {
		a.mu.Lock()
		a.oneTapDisplayed = false
		a.mu.Unlock()
		return err
	}
	return nil
}

// handleMoment folds a prompt outcome into the one-tap state. The
// suppressed_by_user and unregistered_origin reasons count as a dismissal so
// the prompt cannot loop.
func (a *authService) handleMoment(ctx context.Context, m identity.PromptMoment) {
	a.log.Debug(ctx, "one-tap moment", "kind", m.Kind.String(), "reason", m.Reason)

	a.mu.Lock()
	a.oneTapDisplayed = false
	a.mu.Unlock()

	if m.SuppressesSession() {
		a.markDismissed(ctx)
	}

	if a.opts.OnMoment != nil {
		a.opts.OnMoment(m)
	}
}

func (a *authService) markDismissed(ctx context.Context) {
	a.mu.Lock()
	a.oneTapDismissed = true
	a.mu.Unlock()

	if err := a.oneTap.MarkDismissed(ctx); err != nil {
		a.log.Warn(ctx, "failed to persist one-tap dismissal", "error", err)
	}
}
