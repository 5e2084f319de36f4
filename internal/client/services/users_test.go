package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/coursenotes/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboard_DefaultLimit(t *testing.T) {
	fc := &fakeClient{LeaderboardFn: func(limit int) ([]models.LeaderboardEntry, error) {
		return []models.LeaderboardEntry{{ID: "u1", Rank: 1}}, nil
	}}
	s := NewUserService(fc, nil)

	rows, err := s.Leaderboard(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, DefaultLeaderboardLimit, fc.LastNum)

	_, err = s.Leaderboard(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, fc.LastNum)
}

func TestProfile(t *testing.T) {
	notes := []models.Note{{ID: "n1"}, {ID: "n2"}}

	tests := []struct {
		name      string
		position  func(ctx context.Context, id string) (*models.LeaderboardEntry, error)
		userNotes func(ctx context.Context, id string) ([]models.Note, error)
		wantErr   bool
		wantStats bool
	}{
		{
			name: "both succeed",
			position: func(_ context.Context, id string) (*models.LeaderboardEntry, error) {
				return &models.LeaderboardEntry{ID: id, Rank: 3}, nil
			},
			userNotes: func(context.Context, string) ([]models.Note, error) { return notes, nil },
			wantStats: true,
		},
		{
			name: "position fails",
			position: func(context.Context, string) (*models.LeaderboardEntry, error) {
				return nil, errors.New("500")
			},
			userNotes: func(context.Context, string) ([]models.Note, error) { return notes, nil },
		},
		{
			name: "notes fail",
			position: func(_ context.Context, id string) (*models.LeaderboardEntry, error) {
				return &models.LeaderboardEntry{ID: id}, nil
			},
			userNotes: func(context.Context, string) ([]models.Note, error) { return nil, errors.New("500") },
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{PositionFn: tt.position, UserNotesFn: tt.userNotes}

			p, err := NewUserService(fc, nil).Profile(context.Background(), "u7")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u7", p.UserID)
			assert.Equal(t, notes, p.Notes)
			if tt.wantStats {
				require.NotNil(t, p.Stats)
				assert.Equal(t, 3, p.Stats.Rank)
			} else {
				assert.Nil(t, p.Stats)
			}
		})
	}
}
