package server

import (
	"net/http"
)

func (s *Server) HandlerListCommits(w http.ResponseWriter, r *http.Request) {
	owner := identityFromRequest(r)
	commits, err := s.commits.Commits(r.Context(), owner.AccessToken)
	if err != nil {
		renderError(w, r, err, "Failed to fetch commits")
		return
	}
	RenderJSON(w, r, commits)
}
