package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// CreateUser inserts a new user row. Duplicate emails and api keys map to
// ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, u *User) error {
	if u.Tier == "" {
		u.Tier = "free"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password, api_key, tier, is_admin)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, strings.ToLower(u.Email), u.Password, u.APIKey, u.Tier, u.IsAdmin,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UserByEmail looks up a user by (lowercased) email.
func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	return s.userBy(ctx, "email", strings.ToLower(email))
}

// UserByAPIKey resolves an API key to its user. This is the auth lookup.
func (s *Store) UserByAPIKey(ctx context.Context, apiKey string) (*User, error) {
	return s.userBy(ctx, "api_key", apiKey)
}

// UserByID fetches a user by primary key.
func (s *Store) UserByID(ctx context.Context, id string) (*User, error) {
	return s.userBy(ctx, "id", id)
}

func (s *Store) userBy(ctx context.Context, column, value string) (*User, error) {
	u := &User{}
	query := fmt.Sprintf(
		`SELECT id, email, password, api_key, tier, api_calls, monthly_posts, is_admin
		 FROM users WHERE %s = ?`, column)
	if err := s.db.GetContext(ctx, u, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by %s: %w", column, err)
	}
	return u, nil
}

// IncrementMonthlyPosts bumps the user's monthly post counter after a
// successful publish.
func (s *Store) IncrementMonthlyPosts(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET monthly_posts = monthly_posts + 1 WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("increment monthly posts: %w", err)
	}
	return nil
}
