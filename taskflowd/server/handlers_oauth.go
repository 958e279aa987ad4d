package server

import (
	"log/slog"
	"net/http"

	"github.com/Oudwins/devtaskflow/internals/reqlog"
)

func (s *Server) HandlerGitHubLogin(w http.ResponseWriter, r *http.Request) {
	target, err := s.github.AuthCodeURL()
	if err != nil {
		reqlog.FromContext(r.Context()).Error("failed to create oauth state", slog.String("error", err.Error()))
		http.Redirect(w, r, s.Base.Config.Auth.FailurePath, http.StatusFound)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) HandlerGitHubCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	logger := reqlog.FromContext(r.Context())

	identity, err := s.github.Complete(r.Context(), query.Get("state"), query.Get("code"), query.Get("error"))
	if err != nil {
		logger.Warn("github login failed", slog.String("error", err.Error()))
		http.Redirect(w, r, s.Base.Config.Auth.FailurePath, http.StatusFound)
		return
	}

	session, err := s.sessions.Create(r.Context(), identity)
	if err != nil {
		logger.Error("failed to create session", slog.String("error", err.Error()))
		http.Redirect(w, r, s.Base.Config.Auth.FailurePath, http.StatusFound)
		return
	}

	s.setSessionCookie(w, session)
	logger.Add(slog.String("user_id", identity.ID))
	http.Redirect(w, r, s.Base.Env.FRONTEND_URL, http.StatusFound)
}

func (s *Server) HandlerCurrentUser(w http.ResponseWriter, r *http.Request) {
	session, err := s.currentSession(r)
	if err != nil {
		renderError(w, r, err, "Failed to load session")
		return
	}
	s.setSessionCookie(w, session)
	RenderJSON(w, r, session.Identity)
}

func (s *Server) HandlerLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.Base.Config.Sessions.CookieName); err == nil && cookie.Value != "" {
		if err := s.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			renderError(w, r, err, "Failed to log out")
			return
		}
	}
	s.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
