package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Oudwins/devtaskflow/internals/apperr"
	"github.com/Oudwins/devtaskflow/internals/schemas"
	"github.com/Oudwins/devtaskflow/internals/store"
	"github.com/Oudwins/devtaskflow/internals/testutil"
)

func newTestManager(t *testing.T, ttl time.Duration) (*Manager, *store.SessionStore) {
	t.Helper()
	db, err := store.Open(context.Background(), testutil.TempDBPath(t))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	sessionStore := store.NewSessionStore(db)
	return NewManager(sessionStore, ttl, testutil.DiscardLogger()), sessionStore
}

func withClock(t *testing.T, start time.Time) *time.Time {
	t.Helper()
	current := start
	originalNow := now
	now = func() time.Time { return current }
	t.Cleanup(func() { now = originalNow })
	return &current
}

var octocat = schemas.Identity{ID: "583231", Username: "octocat", DisplayName: "The Octocat", AccessToken: "gho_token"}

func TestCreateAndValidate(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	withClock(t, base)
	manager, _ := newTestManager(t, 30*time.Minute)
	ctx := context.Background()

	session, err := manager.Create(ctx, octocat)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if session.ID == "" {
		t.Fatalf("expected session id")
	}
	if !session.ExpiresAt.Equal(base.Add(30 * time.Minute)) {
		t.Fatalf("unexpected expiry %v", session.ExpiresAt)
	}

	validated, err := manager.Validate(ctx, session.ID)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if validated.Identity.ID != octocat.ID || validated.Identity.AccessToken != octocat.AccessToken {
		t.Fatalf("unexpected identity %+v", validated.Identity)
	}
}

func TestValidateSlidesExpiry(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	current := withClock(t, base)
	manager, sessionStore := newTestManager(t, 30*time.Minute)
	ctx := context.Background()

	session, err := manager.Create(ctx, octocat)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	*current = base.Add(20 * time.Minute)
	if _, err := manager.Validate(ctx, session.ID); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	record, err := sessionStore.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !record.ExpiresAt.Equal(base.Add(50 * time.Minute)) {
		t.Fatalf("expected expiry slid to +50m, got %v", record.ExpiresAt)
	}

	*current = base.Add(45 * time.Minute)
	if _, err := manager.Validate(ctx, session.ID); err != nil {
		t.Fatalf("expected session alive after sliding, got %v", err)
	}
}

func TestValidateExpiredSessionIsDeleted(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	current := withClock(t, base)
	manager, sessionStore := newTestManager(t, 30*time.Minute)
	ctx := context.Background()

	session, err := manager.Create(ctx, octocat)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	*current = base.Add(31 * time.Minute)
	if _, err := manager.Validate(ctx, session.ID); !errors.Is(err, apperr.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
	if _, err := sessionStore.Get(ctx, session.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected expired session removed, got %v", err)
	}
}

func TestValidateUnknownSession(t *testing.T) {
	manager, _ := newTestManager(t, time.Minute)

	for _, id := range []string{"", "does-not-exist"} {
		if _, err := manager.Validate(context.Background(), id); !errors.Is(err, apperr.ErrAuthenticationRequired) {
			t.Fatalf("expected ErrAuthenticationRequired for %q, got %v", id, err)
		}
	}
}

func TestDestroy(t *testing.T) {
	manager, _ := newTestManager(t, time.Minute)
	ctx := context.Background()

	session, err := manager.Create(ctx, octocat)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := manager.Destroy(ctx, session.ID); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, err := manager.Validate(ctx, session.ID); !errors.Is(err, apperr.ErrAuthenticationRequired) {
		t.Fatalf("expected destroyed session rejected, got %v", err)
	}
}

func TestCreateRequiresIdentity(t *testing.T) {
	manager, _ := newTestManager(t, time.Minute)
	_, err := manager.Create(context.Background(), schemas.Identity{})
	var validation *apperr.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
