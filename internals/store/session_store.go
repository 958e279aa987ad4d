package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Oudwins/devtaskflow/internals/apperr"
	"github.com/Oudwins/devtaskflow/internals/schemas"
)

type SessionRecord struct {
	ID        string
	Identity  schemas.Identity
	ExpiresAt time.Time
}

type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Create(ctx context.Context, record SessionRecord) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO sessions (id, user_id, username, display_name, avatar_url, access_token, expires_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, record.ID, record.Identity.ID, record.Identity.Username, nullIfEmpty(record.Identity.DisplayName),
		nullIfEmpty(record.Identity.AvatarURL), record.Identity.AccessToken, record.ExpiresAt.UnixNano())
	return apperr.Store("create session", err)
}

func (s *SessionStore) Get(ctx context.Context, id string) (*SessionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, username, display_name, avatar_url, access_token, expires_at
FROM sessions
WHERE id = ?
`, id)

	var record SessionRecord
	var displayName sql.NullString
	var avatarURL sql.NullString
	var expiresAt int64
	if err := row.Scan(&record.ID, &record.Identity.ID, &record.Identity.Username, &displayName, &avatarURL, &record.Identity.AccessToken, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Store("get session", err)
	}
	record.Identity.DisplayName = displayName.String
	record.Identity.AvatarURL = avatarURL.String
	record.ExpiresAt = time.Unix(0, expiresAt)
	return &record, nil
}

func (s *SessionStore) Touch(ctx context.Context, id string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE sessions SET expires_at = ? WHERE id = ?`, expiresAt.UnixNano(), id)
	return apperr.Store("touch session", err)
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return apperr.Store("delete session", err)
}
