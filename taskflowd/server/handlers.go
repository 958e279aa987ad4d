package server

import (
	"net/http"

	"github.com/Oudwins/devtaskflow/internals/schemas"
)

const serviceName = "devtaskflow"

func (s *Server) HandlerRoot(w http.ResponseWriter, r *http.Request) {
	RenderJSON(w, r, schemas.ServiceInfo{Name: serviceName, Version: s.Base.Config.Version})
}

func (s *Server) HandlerNotFound(w http.ResponseWriter, r *http.Request) {
	RenderJSON(w, r, JsonResponseError("Not found", nil), Render.Status(http.StatusNotFound))
}
