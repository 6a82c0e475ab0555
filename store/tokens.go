package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// UpsertPlatformToken stores or replaces a user's token for one platform.
// Tokens are expected to arrive already encrypted.
func (s *Store) UpsertPlatformToken(ctx context.Context, t *PlatformToken) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO platform_tokens (user_id, platform, access_token, refresh_token, expiry)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, platform) DO UPDATE SET
		 access_token = excluded.access_token,
		 refresh_token = excluded.refresh_token,
		 expiry = excluded.expiry`,
		t.UserID, t.Platform, t.AccessToken, t.RefreshToken, t.Expiry,
	)
	if err != nil {
		return fmt.Errorf("upsert platform token: %w", err)
	}
	return nil
}

// PlatformTokenFor fetches a user's token for one platform.
func (s *Store) PlatformTokenFor(ctx context.Context, userID, platform string) (*PlatformToken, error) {
	t := &PlatformToken{}
	err := s.db.GetContext(ctx, t,
		`SELECT user_id, platform, access_token, refresh_token, expiry
		 FROM platform_tokens WHERE user_id = ? AND platform = ?`, userID, platform)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get platform token: %w", err)
	}
	return t, nil
}
