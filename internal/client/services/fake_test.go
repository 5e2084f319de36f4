package services

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/dmitrijs2005/coursenotes/internal/client/identity"
	"github.com/dmitrijs2005/coursenotes/internal/client/models"
)

// fakeClient implements client.Client for service tests. Unset funcs return
// zero values.
type fakeClient struct {
	mu sync.Mutex

	ListNotesFn   func(num int) ([]models.Note, error)
	SearchNotesFn func(q string) ([]models.Note, error)
	GetNoteFn     func(id string) (*models.Note, error)
	VoteFn        func(ctx context.Context, id string, vt models.VoteType) (*models.Vote, error)
	UploadNoteFn  func(form *models.Form) (*models.Note, error)
	UpdateNoteFn  func(id string, form *models.Form) (*models.Note, error)
	DeleteNoteFn  func(id string) error
	DownloadFn    func(id string) error
	FetchFileFn   func(url string) (io.ReadCloser, error)
	LeaderboardFn func(limit int) ([]models.LeaderboardEntry, error)
	PositionFn    func(ctx context.Context, userID string) (*models.LeaderboardEntry, error)
	UserNotesFn   func(ctx context.Context, userID string) ([]models.Note, error)
	GoogleAuthFn  func(cred string) (*models.AuthResponse, error)
	MeFn          func(ctx context.Context) (*models.User, error)

	Calls        []string
	LastVoteType models.VoteType
	LastForm     *models.Form
	LastNum      int
}

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, name)
}

func (f *fakeClient) calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeClient) ListNotes(_ context.Context, num int) ([]models.Note, error) {
	f.record("ListNotes")
	f.LastNum = num
	if f.ListNotesFn == nil {
		return nil, nil
	}
	return f.ListNotesFn(num)
}

func (f *fakeClient) SearchNotes(_ context.Context, q string) ([]models.Note, error) {
	f.record("SearchNotes")
	if f.SearchNotesFn == nil {
		return nil, nil
	}
	return f.SearchNotesFn(q)
}

func (f *fakeClient) GetNote(_ context.Context, id string) (*models.Note, error) {
	f.record("GetNote")
	if f.GetNoteFn == nil {
		return &models.Note{ID: id}, nil
	}
	return f.GetNoteFn(id)
}

func (f *fakeClient) Vote(ctx context.Context, id string, vt models.VoteType) (*models.Vote, error) {
	f.record("Vote")
	f.mu.Lock()
	f.LastVoteType = vt
	f.mu.Unlock()
	if f.VoteFn == nil {
		return nil, nil
	}
	return f.VoteFn(ctx, id, vt)
}

func (f *fakeClient) UploadNote(_ context.Context, form *models.Form) (*models.Note, error) {
	f.record("UploadNote")
	f.LastForm = form
	if f.UploadNoteFn == nil {
		return &models.Note{}, nil
	}
	return f.UploadNoteFn(form)
}

func (f *fakeClient) UpdateNote(_ context.Context, id string, form *models.Form) (*models.Note, error) {
	f.record("UpdateNote")
	f.LastForm = form
	if f.UpdateNoteFn == nil {
		return &models.Note{ID: id}, nil
	}
	return f.UpdateNoteFn(id, form)
}

func (f *fakeClient) DeleteNote(_ context.Context, id string) error {
	f.record("DeleteNote")
	if f.DeleteNoteFn == nil {
		return nil
	}
	return f.DeleteNoteFn(id)
}

func (f *fakeClient) DownloadNote(_ context.Context, id string) error {
	f.record("DownloadNote")
	if f.DownloadFn == nil {
		return nil
	}
	return f.DownloadFn(id)
}

func (f *fakeClient) FetchFile(_ context.Context, url string) (io.ReadCloser, error) {
	f.record("FetchFile")
	if f.FetchFileFn == nil {
		return io.NopCloser(strings.NewReader("%PDF-1.4")), nil
	}
	return f.FetchFileFn(url)
}

func (f *fakeClient) Leaderboard(_ context.Context, limit int) ([]models.LeaderboardEntry, error) {
	f.record("Leaderboard")
	f.LastNum = limit
	if f.LeaderboardFn == nil {
		return nil, nil
	}
	return f.LeaderboardFn(limit)
}

func (f *fakeClient) LeaderboardPosition(ctx context.Context, userID string) (*models.LeaderboardEntry, error) {
	f.record("LeaderboardPosition")
	if f.PositionFn == nil {
		return &models.LeaderboardEntry{ID: userID}, nil
	}
	return f.PositionFn(ctx, userID)
}

func (f *fakeClient) UserNotes(ctx context.Context, userID string) ([]models.Note, error) {
	f.record("UserNotes")
	if f.UserNotesFn == nil {
		return nil, nil
	}
	return f.UserNotesFn(ctx, userID)
}

func (f *fakeClient) GoogleAuth(_ context.Context, cred string) (*models.AuthResponse, error) {
	f.record("GoogleAuth")
	if f.GoogleAuthFn == nil {
		return &models.AuthResponse{Token: "api-token", User: &models.User{ID: "u1", Email: "a@kgpian.iitkgp.ac.in"}}, nil
	}
	return f.GoogleAuthFn(cred)
}

func (f *fakeClient) Me(ctx context.Context) (*models.User, error) {
	f.record("Me")
	if f.MeFn == nil {
		return &models.User{ID: "u1"}, nil
	}
	return f.MeFn(ctx)
}

// fakeBridge implements IdentityBridge.
type fakeBridge struct {
	ready     bool
	moment    *identity.PromptMoment
	onPrompt  func(ctx context.Context)
	promptErr error

	prompts  int
	disabled int
	canceled int
}

func (b *fakeBridge) Ready() bool { return b.ready }

func (b *fakeBridge) Prompt(ctx context.Context, notify func(identity.PromptMoment)) error {
	b.prompts++
	if b.promptErr != nil {
		return b.promptErr
	}
	if b.onPrompt != nil {
		b.onPrompt(ctx)
	}
	if b.moment != nil {
		notify(*b.moment)
	}
	return nil
}

func (b *fakeBridge) DisableAutoSelect() { b.disabled++ }
func (b *fakeBridge) Cancel()            { b.canceled++ }

// fakeGate implements Gate.
type fakeGate struct {
	authed  bool
	pending func()
	names   []string
}

func (g *fakeGate) RequireAuth(name string, action func()) bool {
	g.names = append(g.names, name)
	if g.authed {
		action()
		return true
	}
	g.pending = action
	return false
}

func (g *fakeGate) signIn() {
	g.authed = true
	if a := g.pending; a != nil {
		g.pending = nil
		a()
	}
}
