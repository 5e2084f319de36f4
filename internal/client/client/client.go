package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/coursenotes/internal/client/models"
)

// Client is the course-notes REST API as the client uses it. Errors match
// the package sentinels with errors.Is; other failures are *APIError.
type Client interface {
	ListNotes(ctx context.Context, num int) ([]models.Note, error)
	SearchNotes(ctx context.Context, query string) ([]models.Note, error)
	GetNote(ctx context.Context, id string) (*models.Note, error)
	Vote(ctx context.Context, id string, voteType models.VoteType) (*models.Vote, error)
	UploadNote(ctx context.Context, form *models.Form) (*models.Note, error)
	UpdateNote(ctx context.Context, id string, form *models.Form) (*models.Note, error)
	DeleteNote(ctx context.Context, id string) error
	DownloadNote(ctx context.Context, id string) error
	FetchFile(ctx context.Context, fileURL string) (io.ReadCloser, error)

	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	LeaderboardPosition(ctx context.Context, userID string) (*models.LeaderboardEntry, error)
	UserNotes(ctx context.Context, userID string) ([]models.Note, error)

	GoogleAuth(ctx context.Context, credential string) (*models.AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)
}

// TokenSource yields the current bearer token; "" means anonymous.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
