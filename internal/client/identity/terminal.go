package identity

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// TerminalSDK is the identity SDK of the interactive client. The "one-tap"
// prompt asks the user to paste an ID token obtained from the provider; input
// is hidden when stdin is a terminal.
type TerminalSDK struct {
	in  *bufio.Reader
	out io.Writer
	fd  int

	isTerminal   func(fd int) bool
	readPassword func(fd int) ([]byte, error)

	mu         sync.Mutex
	cfg        Config
	ready      bool
	autoSelect bool
	canceled   bool
}

// NewTerminalSDK returns an SDK that prompts on out and reads from in.
func NewTerminalSDK(in io.Reader, out io.Writer) *TerminalSDK {
	fd := -1
	if f, ok := in.(*os.File); ok {
		fd = int(f.Fd())
	}
	return &TerminalSDK{
		in:           bufio.NewReader(in),
		out:          out,
		fd:           fd,
		isTerminal:   term.IsTerminal,
		readPassword: term.ReadPassword,
	}
}

// WithTerminal reads the token from fd without echo whenever fd is a
// terminal. It is for callers that wrap stdin in their own reader.
func (t *TerminalSDK) WithTerminal(fd int) *TerminalSDK {
	t.fd = fd
	return t
}

func (t *TerminalSDK) Load(context.Context) error {
	if t.out == nil {
		return errors.New("terminal sdk: no output")
	}
	return nil
}

func (t *TerminalSDK) Available() bool { return true }

func (t *TerminalSDK) Initialize(cfg Config) error {
	if cfg.ClientID == "" {
		return errors.New("terminal sdk: client id is required")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cfg = cfg
	t.ready = true
	t.autoSelect = cfg.AutoSelect
	return nil
}

// AutoSelect reports whether automatic account selection is still enabled.
func (t *TerminalSDK) AutoSelect() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.autoSelect
}

func (t *TerminalSDK) readSecret() (string, error) {
	if t.fd >= 0 && t.isTerminal(t.fd) {
		b, err := t.readPassword(t.fd)
		fmt.Fprintln(t.out)
		return string(b), err
	}
	line, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return line, nil
}

// Prompt asks for an ID token. Empty input is reported as a dismissal, a read
// failure as a skipped moment.
func (t *TerminalSDK) Prompt(ctx context.Context, notify func(PromptMoment)) error {
	t.mu.Lock()
	if !t.ready {
		t.mu.Unlock()
		return errors.New("terminal sdk: not initialized")
	}
	t.canceled = false
	cfg := t.cfg
	t.mu.Unlock()

	if notify == nil {
		notify = func(PromptMoment) {}
	}

	hint := ""
	if cfg.HostedDomain != "" {
		hint = " (@" + cfg.HostedDomain + " accounts only)"
	}
	fmt.Fprintf(t.out, "Sign in with Google%s.\nPaste your ID token (empty to cancel): ", hint)

	raw, err := t.readSecret()
	if err != nil {
		notify(PromptMoment{Kind: MomentSkipped, Reason: ReasonUnknown})
		return nil
	}

	t.mu.Lock()
	canceled := t.canceled
	t.mu.Unlock()

	raw = strings.TrimSpace(raw)
	if raw == "" || canceled {
		notify(PromptMoment{Kind: MomentDismissed, Reason: ReasonCancelCalled})
		return nil
	}

	if cfg.Callback != nil {
		cfg.Callback(ctx, CredentialResponse{Credential: raw, SelectBy: "user"})
	}
	notify(PromptMoment{Kind: MomentDismissed, Reason: ReasonCredentialReturned})
	return nil
}

func (t *TerminalSDK) RenderButton(_ context.Context, target io.Writer, cfg ButtonConfig) error {
	label := "Sign in with Google"
	switch cfg.Text {
	case "signup_with":
		label = "Sign up with Google"
	case "continue_with":
		label = "Continue with Google"
	case "signin":
		label = "Sign in"
	}
	_, err := fmt.Fprintf(target, "[ %s ]  type 'login' to continue\n", label)
	return err
}

func (t *TerminalSDK) DisableAutoSelect() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.autoSelect = false
}

func (t *TerminalSDK) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.canceled = true
}
