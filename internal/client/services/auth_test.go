package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/coursenotes/internal/client/client"
	"github.com/dmitrijs2005/coursenotes/internal/client/identity"
	"github.com/dmitrijs2005/coursenotes/internal/client/models"
	"github.com/dmitrijs2005/coursenotes/internal/client/store"
	"github.com/dmitrijs2005/coursenotes/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const allowedDomain = "kgpian.iitkgp.ac.in"

type authFixture struct {
	svc     AuthService
	fc      *fakeClient
	bridge  *fakeBridge
	durable *store.MemoryStore
	session *store.MemoryStore
	tokens  *store.TokenStore
	oneTap  *store.OneTapFlag
}

func newAuthFixture(t *testing.T, opts AuthOptions) *authFixture {
	t.Helper()
	f := &authFixture{
		fc:      &fakeClient{},
		bridge:  &fakeBridge{ready: true},
		durable: store.NewMemoryStore(),
		session: store.NewMemoryStore(),
	}
	f.tokens = store.NewTokenStore(f.durable)
	f.oneTap = store.NewOneTapFlag(f.session)
	if opts.AllowedDomain == "" {
		opts.AllowedDomain = allowedDomain
	}
	f.svc = NewAuthService(f.fc, f.tokens, f.oneTap, f.bridge, opts)
	return f
}

func (f *authFixture) storedToken(t *testing.T) string {
	t.Helper()
	tok, err := f.tokens.Token(context.Background())
	require.NoError(t, err)
	return tok
}

func TestCheckSession_NoTokenSkipsNetwork(t *testing.T) {
	f := newAuthFixture(t, AuthOptions{})

	require.NoError(t, f.svc.CheckSession(context.Background()))

	s := f.svc.Session()
	assert.Equal(t, models.StateUnauthenticated, s.State)
	assert.Nil(t, s.User)
	assert.False(t, s.IsLoading)
	assert.Zero(t, f.fc.calls("Me"))
}

func TestCheckSession_NoTokenRestoresOneTapDismissal(t *testing.T) {
	f := newAuthFixture(t, AuthOptions{})
	require.NoError(t, f.oneTap.MarkDismissed(context.Background()))

	require.NoError(t, f.svc.CheckSession(context.Background()))
	assert.Equal(t, models.OneTapDismissed, f.svc.OneTapState())
}

func TestCheckSession_Valid(t *testing.T) {
	f := newAuthFixture(t, AuthOptions{})
	ctx := context.Background()
	require.NoError(t, f.tokens.SetToken(ctx, "tok"))

	var deadlineSet bool
	f.fc.MeFn = func(ctx context.Context) (*models.User, error) {
		_, deadlineSet = ctx.Deadline()
		return &models.User{ID: "u1", Email: "a@" + allowedDomain}, nil
	}

	require.NoError(t, f.svc.CheckSession(ctx))

	s := f.svc.Session()
	assert.Equal(t, models.StateAuthenticated, s.State)
	assert.Equal(t, "u1", s.User.ID)
	assert.Equal(t, "tok", s.Token)
	assert.True(t, f.svc.IsAuthenticated())
	assert.True(t, deadlineSet, "session check must be bounded")
}

func TestCheckSession_RejectedTokenIsCleared(t *testing.T) {
	for _, status := range []int{401, 403} {
		t.Run(fmt.Sprint(status), func(t *testing.T) {
			f := newAuthFixture(t, AuthOptions{})
			ctx := context.Background()
			require.NoError(t, f.tokens.SetToken(ctx, "expired"))
			f.fc.MeFn = func(context.Context) (*models.User, error) {
				return nil, fmt.Errorf("me: %w", &client.APIError{StatusCode: status})
			}

			require.NoError(t, f.svc.CheckSession(ctx))

			assert.Equal(t, models.StateUnauthenticated, f.svc.Session().State)
			assert.Nil(t, f.svc.User())
			assert.Empty(t, f.storedToken(t))
		})
	}
}

func TestCheckSession_NotFoundClearsUserKeepsToken(t *testing.T) {
	f := newAuthFixture(t, AuthOptions{})
	ctx := context.Background()
	require.NoError(t, f.tokens.SetToken(ctx, "tok"))
	f.fc.MeFn = func(context.Context) (*models.User, error) {
		return nil, &client.APIError{StatusCode: 404}
	}

	require.NoError(t, f.svc.CheckSession(ctx))
	assert.Equal(t, models.StateUnauthenticated, f.svc.Session().State)
	assert.Equal(t, "tok", f.storedToken(t))
}

func TestCheckSession_TransportErrorKeepsState(t *testing.T) {
	f := newAuthFixture(t, AuthOptions{})
	ctx := context.Background()
	require.NoError(t, f.tokens.SetToken(ctx, "tok"))
	require.NoError(t, f.svc.CheckSession(ctx))
	require.True(t, f.svc.IsAuthenticated())

	f.fc.MeFn = func(context.Context) (*models.User, error) {
		return nil, fmt.Errorf("%w: connection refused", client.ErrUnavailable)
	}
	require.NoError(t, f.svc.CheckSession(ctx))

	s := f.svc.Session()
	assert.Equal(t, models.StateAuthenticated, s.State)
	assert.Equal(t, "u1", s.User.ID)
	assert.Equal(t, "tok", f.storedToken(t))
}

func TestCheckSession_TimeoutKeepsState(t *testing.T) {
	f := newAuthFixture(t, AuthOptions{SessionCheckTimeout: 20 * time.Millisecond})
	ctx := context.Background()
	require.NoError(t, f.tokens.SetToken(ctx, "tok"))

	f.fc.MeFn = func(ctx context.Context) (*models.User, error) {
		<-ctx.Done()
		return nil, fmt.Errorf("%w: %w", client.ErrUnavailable, ctx.Err())
	}

	start := time.Now()
	require.NoError(t, f.svc.CheckSession(ctx))
	assert.Less(t, time.Since(start), 2*time.Second)

	s := f.svc.Session()
	assert.Equal(t, models.StateUnauthenticated, s.State, "no cached user to keep")
	assert.False(t, s.IsLoading)
	assert.Equal(t, "tok", f.storedToken(t), "a timeout does not sign the user out")
}

func TestCheckSession_OtherStatus(t *testing.T) {
	f := newAuthFixture(t, AuthOptions{})
	ctx := context.Background()
	require.NoError(t, f.tokens.SetToken(ctx, "tok"))
	f.fc.MeFn = func(context.Context) (*models.User, error) {
		return nil, &client.APIError{StatusCode: 500, Message: "db down"}
	}

	require.NoError(t, f.svc.CheckSession(ctx))
	assert.Equal(t, models.StateUnauthenticated, f.svc.Session().State)
	assert.Equal(t, "tok", f.storedToken(t))
}

func TestCheckSession_MalformedClearsToken(t *testing.T) {
	f := newAuthFixture(t, AuthOptions{})
	ctx := context.Background()
	require.NoError(t, f.tokens.SetToken(ctx, "tok"))
	f.fc.MeFn = func(context.Context) (*models.User, error) {
		return nil, fmt.Errorf("%w: eof", client.ErrMalformedResponse)
	}

	require.NoError(t, f.svc.CheckSession(ctx))
	assert.Equal(t, models.StateUnauthenticated, f.svc.Session().State)
	assert.Empty(t, f.storedToken(t))
}

func TestCheckSession_PassesThroughChecking(t *testing.T) {
	f := newAuthFixture(t, AuthOptions{})
	ctx := context.Background()
	require.NoError(t, f.tokens.SetToken(ctx, "tok"))

	var states []models.SessionState
	f.svc.Subscribe(func(s models.Session) { states = append(states, s.State) })

	require.NoError(t, f.svc.CheckSession(ctx))
	require.NotEmpty(t, states)
	assert.Equal(t, models.StateChecking, states[0])
	assert.Equal(t, models.StateAuthenticated, states[len(states)-1])
}

func TestExchangeCredential_Success(t *testing.T) {
	signedIn := 0
	f := newAuthFixture(t, AuthOptions{OnSignIn: func(context.Context) { signedIn++ }})
	ctx := context.Background()
	require.NoError(t, f.oneTap.MarkDismissed(ctx))

	var gotCred string
	f.fc.GoogleAuthFn = func(cred string) (*models.AuthResponse, error) {
		gotCred = cred
		return &models.AuthResponse{Token: "api-token", User: &models.User{ID: "u9"}}, nil
	}

	u, err := f.svc.ExchangeCredential(ctx, "id-token")
	require.NoError(t, err)
	assert.Equal(t, "u9", u.ID)
	assert.Equal(t, "id-token", gotCred)
	assert.Equal(t, "api-token", f.storedToken(t))
	assert.Equal(t, models.StateAuthenticated, f.svc.Session().State)
	assert.Equal(t, models.OneTapNotAttempted, f.svc.OneTapState())
	assert.Equal(t, 1, signedIn)

	dismissed, _ := f.oneTap.Dismissed(ctx)
	assert.False(t, dismissed)
}

func TestExchangeCredential_Failures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
		domain  bool
	}{
		{
			name:    "domain restriction",
			err:     fmt.Errorf("google auth: %w", &client.APIError{StatusCode: 403, Message: "Only @kgpian.iitkgp.ac.in email addresses are allowed"}),
			wantMsg: "Only @kgpian.iitkgp.ac.in email addresses are allowed. Please sign in with your institutional email.",
			domain:  true,
		},
		{
			name:    "server message",
			err:     &client.APIError{StatusCode: 401, Message: "Invalid Google token"},
			wantMsg: "Invalid Google token",
		},
		{
			name:    "bare status",
			err:     &client.APIError{StatusCode: 500},
			wantMsg: "authentication failed: 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signedIn := 0
			f := newAuthFixture(t, AuthOptions{OnSignIn: func(context.Context) { signedIn++ }})
			f.fc.GoogleAuthFn = func(string) (*models.AuthResponse, error) { return nil, tt.err }

			_, err := f.svc.ExchangeCredential(context.Background(), "id-token")
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, tt.domain, errors.Is(err, common.ErrDomainRestricted))
			assert.Equal(t, models.StateUnauthenticated, f.svc.Session().State)
			assert.Empty(t, f.storedToken(t))
			assert.Zero(t, signedIn)
		})
	}
}

func TestHandleCredential_ReportsErrors(t *testing.T) {
	var reported error
	f := newAuthFixture(t, AuthOptions{OnError: func(_ context.Context, err error) { reported = err }})
	f.fc.GoogleAuthFn = func(string) (*models.AuthResponse, error) {
		return nil, &client.APIError{StatusCode: 403, Message: "must use @" + allowedDomain}
	}

	f.svc.HandleCredential(context.Background(), identity.CredentialEvent{Raw: "id-token", Email: "x@gmail.com"})
	require.ErrorIs(t, reported, common.ErrDomainRestricted)
}

func TestSignOut_ResetsEverything(t *testing.T) {
	f := newAuthFixture(t, AuthOptions{})
	ctx := context.Background()
	_, err := f.svc.ExchangeCredential(ctx, "id-token")
	require.NoError(t, err)
	require.NoError(t, f.oneTap.MarkDismissed(ctx))

	before := f.svc.Session().Generation
	var notified []models.Session
	f.svc.Subscribe(func(s models.Session) { notified = append(notified, s) })

	require.NoError(t, f.svc.SignOut(ctx))

	s := f.svc.Session()
	assert.Equal(t, models.StateUnauthenticated, s.State)
	assert.Nil(t, s.User)
	assert.Empty(t, s.Token)
	assert.Equal(t, before+1, s.Generation)
	assert.Empty(t, f.storedToken(t))
	assert.Equal(t, 1, f.bridge.disabled)
	assert.Equal(t, models.OneTapNotAttempted, f.svc.OneTapState())

	_, ok, _ := f.session.Get(ctx, "oneTapDismissed")
	assert.False(t, ok)

	require.Len(t, notified, 1)
	assert.Equal(t, before+1, notified[0].Generation)
}

func TestSignOut_BridgeNotReady(t *testing.T) {
	f := newAuthFixture(t, AuthOptions{})
	f.bridge.ready = false

	require.NoError(t, f.svc.SignOut(context.Background()))
	assert.Zero(t, f.bridge.disabled)
}

func TestInvalidate(t *testing.T) {
	f := newAuthFixture(t, AuthOptions{})
	ctx := context.Background()
	_, err := f.svc.ExchangeCredential(ctx, "id-token")
	require.NoError(t, err)
	before := f.svc.Session().Generation

	f.svc.Invalidate(ctx)

	s := f.svc.Session()
	assert.Equal(t, models.StateUnauthenticated, s.State)
	assert.Nil(t, s.User)
	assert.Equal(t, before+1, s.Generation)
	assert.Empty(t, f.storedToken(t))
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	f := newAuthFixture(t, AuthOptions{})
	n := 0
	unsubscribe := f.svc.Subscribe(func(models.Session) { n++ })

	f.svc.Invalidate(context.Background())
	unsubscribe()
	f.svc.Invalidate(context.Background())

	assert.Equal(t, 1, n)
}
