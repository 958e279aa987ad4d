package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Oudwins/devtaskflow/internals/apperr"
	"github.com/Oudwins/devtaskflow/internals/reqlog"
)

const (
	messageUnauthorized = "Unauthorized"
	messageInvalidJSON  = "Invalid JSON"
)

type ErrorResponse struct {
	Error  string              `json:"error"`
	Issues map[string][]string `json:"issues,omitempty"`
}

func JsonResponseError(message string, issues map[string][]string) *ErrorResponse {
	return &ErrorResponse{Error: message, Issues: issues}
}

type RenderOption = func(w http.ResponseWriter, r *http.Request)

type Renderer struct {
}

func (r *Renderer) Status(status int) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}
}

var Render = Renderer{}

func RenderJSON(w http.ResponseWriter, r *http.Request, payload any, opts ...RenderOption) {
	w.Header().Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(w, r)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// renderError maps err onto the error taxonomy. internalMessage is the body
// for 5xx responses; the cause is logged on the request instead.
func renderError(w http.ResponseWriter, r *http.Request, err error, internalMessage string) {
	status := apperr.HTTPStatus(err)
	var validation *apperr.ValidationError
	switch {
	case status == http.StatusUnauthorized:
		RenderJSON(w, r, JsonResponseError(messageUnauthorized, nil), Render.Status(status))
	case errors.As(err, &validation):
		RenderJSON(w, r, JsonResponseError(validation.Message, validation.Issues), Render.Status(status))
	case status == http.StatusNotFound:
		RenderJSON(w, r, JsonResponseError("Not found", nil), Render.Status(status))
	default:
		reqlog.FromContext(r.Context()).Error(internalMessage, slog.String("error", err.Error()))
		RenderJSON(w, r, JsonResponseError(internalMessage, nil), Render.Status(status))
	}
}
