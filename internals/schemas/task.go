package schemas

import (
	z "github.com/Oudwins/zog"
)

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusClosed     TaskStatus = "closed"
)

var TaskStatuses = []TaskStatus{TaskStatusOpen, TaskStatusInProgress, TaskStatusClosed}

func (s TaskStatus) Valid() bool {
	for _, status := range TaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s TaskStatus) String() string {
	return string(s)
}

type Task struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Status    TaskStatus `json:"status"`
	CommitSHA *string    `json:"commit_sha"`
	UserID    string     `json:"user_id"`
}

type TaskCreateRequest struct {
	Title     string `json:"title" zog:"title"`
	CommitSHA string `json:"commit_sha" zog:"commit_sha"`
}

var TaskCreateSchema = z.Struct(z.Shape{
	"Title":     z.String().Trim().Required(z.Message("title is required")).Min(1, z.Message("title is required")),
	"CommitSHA": z.String().Optional().Trim(),
})

type TaskStatusUpdateRequest struct {
	Status TaskStatus `json:"status" zog:"status"`
}

var TaskStatusUpdateSchema = z.Struct(z.Shape{
	"Status": z.StringLike[TaskStatus]().Required(z.Message("status is required")).OneOf(TaskStatuses, z.Message("Invalid status")),
})
