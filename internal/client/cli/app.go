package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"
	"sync"

	"github.com/dmitrijs2005/coursenotes/internal/client/client"
	"github.com/dmitrijs2005/coursenotes/internal/client/identity"
	"github.com/dmitrijs2005/coursenotes/internal/client/models"
	"github.com/dmitrijs2005/coursenotes/internal/client/services"
	"github.com/dmitrijs2005/coursenotes/internal/client/signin"
	"github.com/dmitrijs2005/coursenotes/internal/client/store"
	"github.com/dmitrijs2005/coursenotes/internal/logging"
)

// identityUI is the part of identity.Bridge the terminal shows.
type identityUI interface {
	Ready() bool
	RenderButton(ctx context.Context, target io.Writer, cfg identity.ButtonConfig) error
}

// Deps are the collaborators of App. Reader and Out default to stdin and
// stdout. Store is the durable session store wiped by "logout --purge".
type Deps struct {
	Auth     services.AuthService
	Identity identityUI
	Gate     *signin.Coordinator
	Catalog  *services.CatalogService
	Users    services.UserService
	Client   client.Client
	Store    store.Store
	Reader   *bufio.Reader
	Out      io.Writer
	Logger   logging.Logger
}

// App is the interactive client: it owns the session bootstrap and the
// REPL command handlers.
type App struct {
	auth    services.AuthService
	ui      identityUI
	gate    *signin.Coordinator
	catalog *services.CatalogService
	users   services.UserService
	client  client.Client
	store   store.Store
	reader  *bufio.Reader
	out     io.Writer
	log     logging.Logger

	mu         sync.Mutex
	generation uint64
	reprompt   bool
}

// NewApp fills in defaults for unset Deps.
func NewApp(d Deps) *App {
	if d.Reader == nil {
		d.Reader = bufio.NewReader(os.Stdin)
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.Logger == nil {
		d.Logger = logging.Nop()
	}
	return &App{
		auth:    d.Auth,
		ui:      d.Identity,
		gate:    d.Gate,
		catalog: d.Catalog,
		users:   d.Users,
		client:  d.Client,
		store:   d.Store,
		reader:  d.Reader,
		out:     d.Out,
		log:     d.Logger,
	}
}

// Start verifies the stored session and, when nobody is signed in, offers
// the one-tap prompt.
func (a *App) Start(ctx context.Context) {
	if err := a.auth.CheckSession(ctx); err != nil {
		log.Printf("session check failed: %v", err)
	}
	a.offerOneTap(ctx)
}

// offerOneTap shows the one-tap prompt when its guard allows it.
func (a *App) offerOneTap(ctx context.Context) {
	if a.auth.IsAuthenticated() {
		return
	}
	shown, err := a.auth.MaybePromptOneTap(ctx)
	if err != nil {
		log.Printf("sign-in prompt failed: %v", err)
		return
	}
	if shown && a.auth.IsAuthenticated() {
		a.greet()
	}
}

// Run starts the session and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	log.Println("Welcome to Course Notes CLI (type 'help' for commands)")

	a.generation = a.auth.Session().Generation
	unsubscribe := a.auth.Subscribe(a.onSession)
	defer unsubscribe()

	a.Start(ctx)
	runREPL(ctx, a, a.status, a.reader)
}

// onSession drops viewer-specific state whenever the session generation
// moves on. A session that ended (sign-out, rejected token) gets the one-tap
// prompt again once the running command is done.
func (a *App) onSession(s models.Session) {
	a.mu.Lock()
	changed := s.Generation != a.generation
	a.generation = s.Generation
	if changed && s.State == models.StateUnauthenticated {
		a.reprompt = true
	}
	a.mu.Unlock()

	if changed && a.catalog != nil {
		a.catalog.Reset()
	}
}

// settle runs after every REPL command.
func (a *App) settle(ctx context.Context) {
	a.mu.Lock()
	reprompt := a.reprompt
	a.reprompt = false
	a.mu.Unlock()

	if reprompt {
		a.offerOneTap(ctx)
	}
}

func (a *App) isLoggedIn() bool {
	return a.auth.IsAuthenticated()
}

func (a *App) status() string {
	if u := a.auth.User(); u != nil {
		return u.Email
	}
	return "guest"
}
