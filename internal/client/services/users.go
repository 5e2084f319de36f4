package services

import (
	"context"

	"github.com/dmitrijs2005/coursenotes/internal/client/client"
	"github.com/dmitrijs2005/coursenotes/internal/client/models"
	"github.com/dmitrijs2005/coursenotes/internal/logging"
	"golang.org/x/sync/errgroup"
)

// DefaultLeaderboardLimit is used when Leaderboard gets a non-positive limit.
const DefaultLeaderboardLimit = 20

// UserService reads the leaderboard and user profiles.
type UserService interface {
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	Profile(ctx context.Context, userID string) (*models.Profile, error)
}

type userService struct {
	client client.Client
	log    logging.Logger
}

// NewUserService returns a UserService over c.
func NewUserService(c client.Client, log logging.Logger) UserService {
	if log == nil {
		log = logging.Nop()
	}
	return &userService{client: c, log: log}
}

// Leaderboard returns the top limit users (DefaultLeaderboardLimit when
// limit <= 0).
func (s *userService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	return s.client.Leaderboard(ctx, limit)
}

// Profile loads a user's leaderboard position and notes concurrently. A
// failed position lookup leaves Stats nil; failing to load the notes fails
// the profile.
func (s *userService) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	p := &models.Profile{UserID: userID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.client.LeaderboardPosition(gctx, userID)
		if err != nil {
			s.log.Warn(ctx, "failed to get user leaderboard position", "user", userID, "error", err)
			return nil
		}
		p.Stats = stats
		return nil
	})
	g.Go(func() error {
		notes, err := s.client.UserNotes(gctx, userID)
		if err != nil {
			return err
		}
		p.Notes = notes
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}
