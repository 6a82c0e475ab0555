package store

import (
	"context"
	"fmt"
)

// CreatePost inserts a post record.
func (s *Store) CreatePost(ctx context.Context, p *Post) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, content, platforms, status, post_ids, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Content, p.Platforms, p.Status, p.PostIDs, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// DeletePost removes a post scoped to its owner. ErrNotFound when the post
// does not exist or belongs to someone else.
func (s *Store) DeletePost(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM posts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
