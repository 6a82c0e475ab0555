package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateDraft inserts a saved draft.
func (s *Store) CreateDraft(ctx context.Context, d *Draft) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO drafts (id, user_id, content, platform, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.UserID, d.Content, d.Platform, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create draft: %w", err)
	}
	return nil
}

// DraftsByUser returns the user's drafts, newest first.
func (s *Store) DraftsByUser(ctx context.Context, userID string) ([]Draft, error) {
	drafts := []Draft{}
	err := s.db.SelectContext(ctx, &drafts,
		`SELECT id, user_id, content, platform, created_at
		 FROM drafts WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	return drafts, nil
}

// DraftByID fetches one draft scoped to its owner.
func (s *Store) DraftByID(ctx context.Context, id, userID string) (*Draft, error) {
	d := &Draft{}
	err := s.db.GetContext(ctx, d,
		`SELECT id, user_id, content, platform, created_at
		 FROM drafts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return d, nil
}
