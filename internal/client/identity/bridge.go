package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/coursenotes/internal/common"
	"github.com/dmitrijs2005/coursenotes/internal/logging"
	"github.com/sethvargo/go-retry"
)

// State is the readiness of the identity SDK.
type State int

const (
	StateIdle State = iota
	StateScriptLoading
	StateInitializing
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScriptLoading:
		return "script_loading"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Event drives State transitions.
type Event int

const (
	EventLoadStarted Event = iota
	EventScriptLoaded
	EventScriptFailed
	EventInitialized
	EventInitFailed
)

// transition returns the next state, or false when ev does not apply to s.
// A script that is already present when the bridge starts takes the
// Idle -> Initializing edge directly.
func transition(s State, ev Event) (State, bool) {
	switch s {
	case StateIdle:
		switch ev {
		case EventLoadStarted:
			return StateScriptLoading, true
		case EventScriptLoaded:
			return StateInitializing, true
		}
	case StateScriptLoading:
		switch ev {
		case EventScriptLoaded:
			return StateInitializing, true
		case EventScriptFailed:
			return StateFailed, true
		}
	case StateInitializing:
		switch ev {
		case EventInitialized:
			return StateReady, true
		case EventInitFailed:
			return StateFailed, true
		}
	case StateFailed:
		if ev == EventLoadStarted {
			return StateScriptLoading, true
		}
	}
	return s, false
}

// ErrNotAvailable means the SDK never became usable.
var ErrNotAvailable = errors.New("identity sdk not available")

// ErrNotReady is returned by operations that need a Ready bridge.
var ErrNotReady = common.ErrIdentityNotReady

// Bridge owns the identity SDK lifecycle and turns its callbacks into
// CredentialEvent and PromptMoment values.
type Bridge struct {
	sdk SDK
	cfg Config
	log logging.Logger

	initRetries  uint64
	initInterval time.Duration

	mu          sync.Mutex
	state       State
	initialized bool
	onCred      func(ctx context.Context, ev CredentialEvent)
	onState     []func(State)
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithInitPolling bounds how long the bridge waits for a loaded SDK to become
// usable: at most retries extra attempts, interval apart.
func WithInitPolling(retries uint64, interval time.Duration) BridgeOption {
	return func(b *Bridge) {
		b.initRetries = retries
		b.initInterval = interval
	}
}

func WithBridgeLogger(l logging.Logger) BridgeOption {
	return func(b *Bridge) { b.log = l }
}

// NewBridge returns an Idle bridge over sdk. Call Start to load it.
func NewBridge(sdk SDK, cfg Config, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		sdk:          sdk,
		cfg:          cfg,
		log:          logging.Nop(),
		initRetries:  10,
		initInterval: 200 * time.Millisecond,
	}
	for _, o := range opts {
		o(b)
	}
	if b.initInterval <= 0 {
		b.initInterval = time.Millisecond
	}
	return b
}

// State returns the current readiness state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Ready reports whether the SDK is initialized.
func (b *Bridge) Ready() bool {
	return b.State() == StateReady
}

// OnCredential registers the handler for normalized credential events.
func (b *Bridge) OnCredential(fn func(ctx context.Context, ev CredentialEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onCred = fn
}

// OnStateChange registers fn to observe every applied transition.
func (b *Bridge) OnStateChange(fn func(State)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onState = append(b.onState, fn)
}

// Dispatch applies ev and reports whether it changed the state.
func (b *Bridge) Dispatch(ev Event) bool {
	b.mu.Lock()
	next, ok := transition(b.state, ev)
	if !ok {
		b.mu.Unlock()
		return false
	}
	b.state = next
	listeners := append([]func(State){}, b.onState...)
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return true
}

// Start loads the SDK and initializes it. It is safe to call more than once
// and concurrently with ScriptLoaded; Initialize runs at most once.
func (b *Bridge) Start(ctx context.Context) error {
	if b.Ready() {
		return nil
	}

	if b.Dispatch(EventLoadStarted) {
		if err := b.sdk.Load(ctx); err != nil {
			b.Dispatch(EventScriptFailed)
			b.log.Error(ctx, "identity sdk failed to load", "error", err)
			return fmt.Errorf("load identity sdk: %w", err)
		}
		b.Dispatch(EventScriptLoaded)
	}

	return b.initialize(ctx)
}

// ScriptLoaded reports an SDK load that completed outside Start.
func (b *Bridge) ScriptLoaded(ctx context.Context) error {
	b.Dispatch(EventScriptLoaded)
	return b.initialize(ctx)
}

func (b *Bridge) initialize(ctx context.Context) error {
	if b.State() != StateInitializing {
		return nil
	}

	backoff := retry.WithMaxRetries(b.initRetries, retry.NewConstant(b.initInterval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if !b.sdk.Available() {
			return retry.RetryableError(ErrNotAvailable)
		}
		return nil
	})
	if err != nil {
		b.Dispatch(EventInitFailed)
		b.log.Warn(ctx, "identity sdk did not become available", "retries", b.initRetries, "error", err)
		return fmt.Errorf("initialize identity sdk: %w", err)
	}

	b.mu.Lock()
	if b.initialized {
		b.mu.Unlock()
		return nil
	}
	b.initialized = true
	b.mu.Unlock()

	cfg := b.cfg
	cfg.Callback = b.handleCredential
	if err := b.sdk.Initialize(cfg); err != nil {
		b.mu.Lock()
		b.initialized = false
		b.mu.Unlock()
		b.Dispatch(EventInitFailed)
		return fmt.Errorf("initialize identity sdk: %w", err)
	}

	b.Dispatch(EventInitialized)
	b.log.Debug(ctx, "identity sdk ready")
	return nil
}

func (b *Bridge) handleCredential(ctx context.Context, resp CredentialResponse) {
	if resp.Credential == "" {
		b.log.Warn(ctx, "credential callback without credential")
		return
	}

	ev, err := ParseCredential(resp.Credential, resp.SelectBy)
	if err != nil {
		b.log.Debug(ctx, "credential claims unreadable", "error", err)
	}

	b.mu.Lock()
	fn := b.onCred
	b.mu.Unlock()
	if fn != nil {
		fn(ctx, ev)
	}
}

// Prompt shows the one-tap prompt. notify receives every outcome.
func (b *Bridge) Prompt(ctx context.Context, notify func(PromptMoment)) error {
	if !b.Ready() {
		return ErrNotReady
	}
	return b.sdk.Prompt(ctx, notify)
}

// RenderButton draws the sign-in button into target.
func (b *Bridge) RenderButton(ctx context.Context, target io.Writer, cfg ButtonConfig) error {
	if !b.Ready() {
		return ErrNotReady
	}
	return b.sdk.RenderButton(ctx, target, cfg)
}

// DisableAutoSelect is a no-op until the bridge is ready.
func (b *Bridge) DisableAutoSelect() {
	if b.Ready() {
		b.sdk.DisableAutoSelect()
	}
}

// Cancel closes an open prompt.
func (b *Bridge) Cancel() {
	if b.Ready() {
		b.sdk.Cancel()
	}
}
