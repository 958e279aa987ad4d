package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
)

func TempDBPath(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	return filepath.Join(root, "db", "devtaskflow.db")
}

func TempWorkspaceDir(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "workspaces")
}

func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func Ptr[T any](value T) *T {
	return &value
}
