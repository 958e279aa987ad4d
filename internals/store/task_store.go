package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Oudwins/devtaskflow/internals/apperr"
	"github.com/Oudwins/devtaskflow/internals/schemas"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

func (s *TaskStore) ListByOwner(ctx context.Context, owner string) ([]schemas.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, title, status, commit_sha, user_id
FROM tasks
WHERE user_id = ?
ORDER BY id
`, owner)
	if err != nil {
		return nil, apperr.Store("list tasks", err)
	}
	defer rows.Close()

	tasks := []schemas.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, apperr.Store("list tasks", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("list tasks", err)
	}
	return tasks, nil
}

// Create inserts task and returns it with the id assigned by the store.
func (s *TaskStore) Create(ctx context.Context, task schemas.Task) (schemas.Task, error) {
	var commitSHA string
	if task.CommitSHA != nil {
		commitSHA = *task.CommitSHA
	}
	result, err := s.db.ExecContext(ctx, `
INSERT INTO tasks (title, status, commit_sha, user_id)
VALUES (?, ?, ?, ?)
`, task.Title, task.Status, nullIfEmpty(commitSHA), task.UserID)
	if err != nil {
		return schemas.Task{}, apperr.Store("create task", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return schemas.Task{}, apperr.Store("create task", err)
	}
	task.ID = id
	return task, nil
}

// UpdateStatus changes the status of the task matching both id and owner and
// reports how many rows matched.
func (s *TaskStore) UpdateStatus(ctx context.Context, owner string, id int64, status schemas.TaskStatus) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
UPDATE tasks
SET status = ?
WHERE id = ? AND user_id = ?
`, status, id, owner)
	if err != nil {
		return 0, apperr.Store("update task status", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperr.Store("update task status", err)
	}
	return affected, nil
}

func (s *TaskStore) GetForOwner(ctx context.Context, owner string, id int64) (schemas.Task, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, title, status, commit_sha, user_id
FROM tasks
WHERE id = ? AND user_id = ?
`, id, owner)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schemas.Task{}, apperr.ErrNotFound
		}
		return schemas.Task{}, apperr.Store("get task", err)
	}
	return task, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (schemas.Task, error) {
	var task schemas.Task
	var status string
	var commitSHA sql.NullString
	if err := row.Scan(&task.ID, &task.Title, &status, &commitSHA, &task.UserID); err != nil {
		return schemas.Task{}, err
	}
	task.Status = schemas.TaskStatus(status)
	if commitSHA.Valid {
		value := commitSHA.String
		task.CommitSHA = &value
	}
	return task, nil
}
