package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Oudwins/devtaskflow/internals/apperr"
	"github.com/Oudwins/devtaskflow/internals/reqlog"
	"github.com/Oudwins/devtaskflow/internals/schemas"
	"github.com/go-chi/chi/v5"

	z "github.com/Oudwins/zog"
)

func (s *Server) HandlerListTasks(w http.ResponseWriter, r *http.Request) {
	owner := identityFromRequest(r)
	tasks, err := s.tasks.List(r.Context(), owner)
	if err != nil {
		renderError(w, r, err, "Failed to fetch tasks")
		return
	}
	reqlog.FromContext(r.Context()).Debug("listed tasks", slog.Int("count", len(tasks)))
	RenderJSON(w, r, tasks)
}

func (s *Server) HandlerCreateTask(w http.ResponseWriter, r *http.Request) {
	var request schemas.TaskCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		RenderJSON(w, r, JsonResponseError(messageInvalidJSON, nil), Render.Status(http.StatusBadRequest))
		return
	}
	if issues := schemas.TaskCreateSchema.Validate(&request); len(issues) > 0 {
		RenderJSON(w, r, JsonResponseError("Title is required", z.Issues.Flatten(issues)), Render.Status(http.StatusBadRequest))
		return
	}

	var commitSHA *string
	if request.CommitSHA != "" {
		commitSHA = &request.CommitSHA
	}
	task, err := s.tasks.Create(r.Context(), identityFromRequest(r), request.Title, commitSHA)
	if err != nil {
		renderError(w, r, err, "Failed to create task")
		return
	}
	RenderJSON(w, r, task, Render.Status(http.StatusCreated))
}

func (s *Server) HandlerUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		RenderJSON(w, r, JsonResponseError("Invalid task id", nil), Render.Status(http.StatusBadRequest))
		return
	}

	var request schemas.TaskStatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		RenderJSON(w, r, JsonResponseError(messageInvalidJSON, nil), Render.Status(http.StatusBadRequest))
		return
	}
	if issues := schemas.TaskStatusUpdateSchema.Validate(&request); len(issues) > 0 {
		RenderJSON(w, r, JsonResponseError("Invalid status", z.Issues.Flatten(issues)), Render.Status(http.StatusBadRequest))
		return
	}

	task, err := s.tasks.UpdateStatus(r.Context(), identityFromRequest(r), id, request.Status)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			RenderJSON(w, r, JsonResponseError("Task not found", nil), Render.Status(http.StatusNotFound))
			return
		}
		renderError(w, r, err, "Failed to update task status")
		return
	}
	RenderJSON(w, r, task)
}
