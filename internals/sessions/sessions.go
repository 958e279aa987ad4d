// Package sessions issues and validates login sessions. Expiry slides forward
// on every successful lookup and is only checked when a session is used.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Oudwins/devtaskflow/internals/apperr"
	"github.com/Oudwins/devtaskflow/internals/schemas"
	"github.com/Oudwins/devtaskflow/internals/store"
	"github.com/google/uuid"
)

var now = time.Now

var newID = uuid.NewString

type Store interface {
	Create(ctx context.Context, record store.SessionRecord) error
	Get(ctx context.Context, id string) (*store.SessionRecord, error)
	Touch(ctx context.Context, id string, expiresAt time.Time) error
	Delete(ctx context.Context, id string) error
}

type Session struct {
	ID        string
	Identity  schemas.Identity
	ExpiresAt time.Time
}

type Manager struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

func NewManager(store Store, ttl time.Duration, logger *slog.Logger) *Manager {
	return &Manager{store: store, ttl: ttl, logger: logger}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) Create(ctx context.Context, identity schemas.Identity) (*Session, error) {
	if identity.ID == "" {
		return nil, apperr.Validation("identity is required", map[string][]string{"id": {"identity id is required"}})
	}
	session := &Session{
		ID:        newID(),
		Identity:  identity,
		ExpiresAt: now().Add(m.ttl),
	}
	if err := m.store.Create(ctx, store.SessionRecord{
		ID:        session.ID,
		Identity:  session.Identity,
		ExpiresAt: session.ExpiresAt,
	}); err != nil {
		return nil, err
	}
	m.logger.Info("Session created", "user_id", identity.ID, "username", identity.Username)
	return session, nil
}

// Validate resolves id to a live session and extends its expiry. Unknown or
// expired sessions report ErrAuthenticationRequired; expired ones are removed.
func (m *Manager) Validate(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, apperr.ErrAuthenticationRequired
	}

	record, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrAuthenticationRequired
		}
		return nil, err
	}

	current := now()
	if !current.Before(record.ExpiresAt) {
		if err := m.store.Delete(ctx, id); err != nil {
			m.logger.Warn("Failed to delete expired session", "error", err)
		}
		return nil, fmt.Errorf("session expired: %w", apperr.ErrAuthenticationRequired)
	}
	if record.Identity.ID == "" {
		return nil, apperr.ErrAuthenticationRequired
	}

	expiresAt := current.Add(m.ttl)
	if err := m.store.Touch(ctx, id, expiresAt); err != nil {
		return nil, err
	}
	return &Session{ID: record.ID, Identity: record.Identity, ExpiresAt: expiresAt}, nil
}

func (m *Manager) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return m.store.Delete(ctx, id)
}
