package store

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/coursenotes/internal/common"
)

// TokenStore is the sole source of truth for "is a user logged in".
type TokenStore struct {
	s Store
}

// NewTokenStore keeps the bearer token in s.
func NewTokenStore(s Store) *TokenStore {
	return &TokenStore{s: s}
}

// Token returns the stored bearer token or "" when none is stored.
func (t *TokenStore) Token(ctx context.Context) (string, error) {
	v, ok, err := t.s.Get(ctx, common.TokenKey)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	if !ok {
		return "", nil
	}
	return v, nil
}

func (t *TokenStore) SetToken(ctx context.Context, token string) error {
	if err := t.s.Set(ctx, common.TokenKey, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

func (t *TokenStore) ClearToken(ctx context.Context) error {
	if err := t.s.Delete(ctx, common.TokenKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// OneTapFlag records that the one-tap prompt was dismissed in this session.
type OneTapFlag struct {
	s Store
}

// NewOneTapFlag keeps the one-tap dismissal in s.
func NewOneTapFlag(s Store) *OneTapFlag {
	return &OneTapFlag{s: s}
}

func (f *OneTapFlag) Dismissed(ctx context.Context) (bool, error) {
	v, ok, err := f.s.Get(ctx, common.OneTapDismissedKey)
	if err != nil {
		return false, fmt.Errorf("read one-tap flag: %w", err)
	}
	return ok && v == "true", nil
}

func (f *OneTapFlag) MarkDismissed(ctx context.Context) error {
	if err := f.s.Set(ctx, common.OneTapDismissedKey, "true"); err != nil {
		return fmt.Errorf("store one-tap flag: %w", err)
	}
	return nil
}

func (f *OneTapFlag) Reset(ctx context.Context) error {
	if err := f.s.Delete(ctx, common.OneTapDismissedKey); err != nil {
		return fmt.Errorf("clear one-tap flag: %w", err)
	}
	return nil
}
