// Package workspace persists the list of files a user had open for a task so
// an editor can reopen them later. Snapshots are replaced wholesale.
package workspace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Oudwins/devtaskflow/internals/apperr"
	"github.com/Oudwins/devtaskflow/internals/schemas"
	"github.com/Oudwins/zog/parsers/zjson"
)

type Store struct {
	dir    string
	fs     FS
	logger *slog.Logger
}

func NewStore(dir string, fs FS, logger *slog.Logger) *Store {
	if fs == nil {
		fs = NewOSFS()
	}
	return &Store{dir: filepath.Clean(dir), fs: fs, logger: logger}
}

func (s *Store) Save(taskID string, openFiles []string) error {
	path, err := s.pathFor(taskID)
	if err != nil {
		return err
	}
	if openFiles == nil {
		openFiles = []string{}
	}

	data, err := json.Marshal(schemas.WorkspaceSnapshot{OpenFiles: openFiles})
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create workspace dir: %w", err)
	}
	if err := s.fs.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write workspace %s: %w", taskID, err)
	}
	s.logger.Debug("Workspace saved", "task_id", taskID, "files", len(openFiles))
	return nil
}

// Restore returns the saved list verbatim, in saved order.
func (s *Store) Restore(taskID string) ([]string, error) {
	path, err := s.pathFor(taskID)
	if err != nil {
		return nil, err
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("workspace %s: %w", taskID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("read workspace %s: %w", taskID, err)
	}

	var snapshot schemas.WorkspaceSnapshot
	if errs := schemas.WorkspaceSnapshotSchema.Parse(zjson.Decode(bytes.NewReader(data)), &snapshot); errs != nil {
		return nil, fmt.Errorf("decode workspace %s: %v", taskID, errs)
	}
	if snapshot.OpenFiles == nil {
		snapshot.OpenFiles = []string{}
	}
	return snapshot.OpenFiles, nil
}

func (s *Store) pathFor(taskID string) (string, error) {
	if !schemas.TaskKeyRegex.MatchString(taskID) {
		return "", apperr.Validation("Invalid task id", map[string][]string{"task_id": {"task_id must be alphanumeric"}})
	}
	return filepath.Join(s.dir, "workspace_"+taskID+".json"), nil
}
