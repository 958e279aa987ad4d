package schemas

import (
	"regexp"

	z "github.com/Oudwins/zog"
)

var TaskKeyRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type WorkspaceSaveRequest struct {
	TaskID    string   `json:"task_id" zog:"task_id"`
	OpenFiles []string `json:"open_files" zog:"open_files"`
}

var WorkspaceSaveSchema = z.Struct(z.Shape{
	"TaskID":    z.String().Trim().Required(z.Message("task_id is required")).Match(TaskKeyRegex, z.Message("task_id must be alphanumeric")),
	"OpenFiles": z.Slice(z.String()),
})

// WorkspaceSnapshot is both the on-disk blob and the restore response body.
type WorkspaceSnapshot struct {
	OpenFiles []string `json:"open_files" zog:"open_files"`
}

var WorkspaceSnapshotSchema = z.Struct(z.Shape{
	"OpenFiles": z.Slice(z.String()),
})

type WorkspaceSaveResponse struct {
	Message string `json:"message"`
}
