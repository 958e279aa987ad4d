package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Oudwins/devtaskflow/internals/apperr"
	"github.com/Oudwins/devtaskflow/internals/schemas"
	"github.com/go-chi/chi/v5"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/parsers/zjson"
)

func (s *Server) HandlerSaveWorkspace(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil || !json.Valid(body) {
		RenderJSON(w, r, JsonResponseError(messageInvalidJSON, nil), Render.Status(http.StatusBadRequest))
		return
	}
	// Parse rather than Validate so editors may send task_id as a number.
	var request schemas.WorkspaceSaveRequest
	if issues := schemas.WorkspaceSaveSchema.Parse(zjson.Decode(bytes.NewReader(body)), &request); len(issues) > 0 {
		RenderJSON(w, r, JsonResponseError("Schema validation failed", z.Issues.Flatten(issues)), Render.Status(http.StatusBadRequest))
		return
	}

	if err := s.workspace.Save(request.TaskID, request.OpenFiles); err != nil {
		renderError(w, r, err, "Failed to save workspace")
		return
	}
	RenderJSON(w, r, schemas.WorkspaceSaveResponse{Message: "Workspace saved"}, Render.Status(http.StatusCreated))
}

func (s *Server) HandlerRestoreWorkspace(w http.ResponseWriter, r *http.Request) {
	files, err := s.workspace.Restore(chi.URLParam(r, "taskId"))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			RenderJSON(w, r, JsonResponseError("Workspace not found", nil), Render.Status(http.StatusNotFound))
			return
		}
		renderError(w, r, err, "Failed to restore workspace")
		return
	}
	RenderJSON(w, r, schemas.WorkspaceSnapshot{OpenFiles: files})
}
