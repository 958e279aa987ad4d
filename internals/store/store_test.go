package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/Oudwins/devtaskflow/internals/apperr"
	"github.com/Oudwins/devtaskflow/internals/schemas"
	"github.com/Oudwins/devtaskflow/internals/testutil"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), testutil.TempDBPath(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenInitializesSchema(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"tasks", "sessions"} {
		row := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table)
		var name string
		if err := row.Scan(&name); err != nil {
			t.Fatalf("scan %s: %v", table, err)
		}
		if name != table {
			t.Fatalf("expected %s table, got %q", table, name)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestTaskStoreCreateAssignsIDs(t *testing.T) {
	tasks := NewTaskStore(openTestDB(t))
	ctx := context.Background()

	first, err := tasks.Create(ctx, schemas.Task{Title: "Fix bug", Status: schemas.TaskStatusOpen, CommitSHA: testutil.Ptr("abc123"), UserID: "u1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := tasks.Create(ctx, schemas.Task{Title: "Write docs", Status: schemas.TaskStatusOpen, UserID: "u1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", first.ID, second.ID)
	}

	listed, err := tasks.ListByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(listed))
	}
	if listed[0].CommitSHA == nil || *listed[0].CommitSHA != "abc123" {
		t.Fatalf("expected commit sha abc123, got %v", listed[0].CommitSHA)
	}
	if listed[1].CommitSHA != nil {
		t.Fatalf("expected nil commit sha, got %q", *listed[1].CommitSHA)
	}
}

func TestTaskStoreListFiltersByOwner(t *testing.T) {
	tasks := NewTaskStore(openTestDB(t))
	ctx := context.Background()

	if _, err := tasks.Create(ctx, schemas.Task{Title: "mine", Status: schemas.TaskStatusOpen, UserID: "a"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	listed, err := tasks.ListByOwner(ctx, "b")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected no tasks for b, got %d", len(listed))
	}
}

func TestTaskStoreUpdateStatusScopedByOwner(t *testing.T) {
	tasks := NewTaskStore(openTestDB(t))
	ctx := context.Background()

	created, err := tasks.Create(ctx, schemas.Task{Title: "t", Status: schemas.TaskStatusOpen, UserID: "a"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	affected, err := tasks.UpdateStatus(ctx, "b", created.ID, schemas.TaskStatusClosed)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected 0 rows for foreign owner, got %d", affected)
	}

	affected, err = tasks.UpdateStatus(ctx, "a", created.ID, schemas.TaskStatusClosed)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row, got %d", affected)
	}

	got, err := tasks.GetForOwner(ctx, "a", created.ID)
	if err != nil {
		t.Fatalf("GetForOwner: %v", err)
	}
	if got.Status != schemas.TaskStatusClosed {
		t.Fatalf("expected closed, got %s", got.Status)
	}

	if _, err := tasks.GetForOwner(ctx, "b", created.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskStoreRejectsUnknownStatus(t *testing.T) {
	tasks := NewTaskStore(openTestDB(t))
	_, err := tasks.Create(context.Background(), schemas.Task{Title: "t", Status: "done", UserID: "a"})
	var storeErr *apperr.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError from check constraint, got %v", err)
	}
}

func TestSessionStoreLifecycle(t *testing.T) {
	sessions := NewSessionStore(openTestDB(t))
	ctx := context.Background()
	expires := time.Date(2026, 1, 1, 0, 30, 0, 0, time.UTC)

	record := SessionRecord{
		ID:        "sid",
		Identity:  schemas.Identity{ID: "42", Username: "octo", DisplayName: "Octo Cat", AccessToken: "tok"},
		ExpiresAt: expires,
	}
	if err := sessions.Create(ctx, record); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := sessions.Get(ctx, "sid")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Identity != record.Identity {
		t.Fatalf("unexpected identity %+v", got.Identity)
	}
	if !got.ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected expiry %v", got.ExpiresAt)
	}

	later := expires.Add(30 * time.Minute)
	if err := sessions.Touch(ctx, "sid", later); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	got, err = sessions.Get(ctx, "sid")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.ExpiresAt.Equal(later) {
		t.Fatalf("expected touched expiry %v, got %v", later, got.ExpiresAt)
	}

	if err := sessions.Delete(ctx, "sid"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := sessions.Get(ctx, "sid"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
