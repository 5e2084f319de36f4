package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/coursenotes/internal/client/identity"
	"github.com/dmitrijs2005/coursenotes/internal/client/signin"
)

// Presenter is the terminal sign-in surface and notice sink.
type Presenter struct {
	out io.Writer
	ui  identityUI
}

// NewPresenter writes to out; ui may be nil.
func NewPresenter(out io.Writer, ui identityUI) *Presenter {
	return &Presenter{out: out, ui: ui}
}

// Open prints the sign-in heading and, once the identity SDK is ready, the
// sign-in button.
func (p *Presenter) Open(pr signin.Presentation) {
	fmt.Fprintf(p.out, "\n%s\n%s\n", pr.Title, pr.Message)
	if p.ui != nil && p.ui.Ready() {
		_ = p.ui.RenderButton(context.Background(), p.out, identity.ButtonConfig{
			Type:  "standard",
			Theme: "outline",
			Size:  "large",
			Text:  "signin_with",
		})
	}
}

// Close has nothing to tear down on a terminal.
func (p *Presenter) Close() {}

// Notify prints a user-visible notice.
func (p *Presenter) Notify(msg string) {
	fmt.Fprintln(p.out, msg)
}

// NotifyError prints the message of a failed background flow such as a
// credential exchange.
func (p *Presenter) NotifyError(_ context.Context, err error) {
	fmt.Fprintln(p.out, err.Error())
}
