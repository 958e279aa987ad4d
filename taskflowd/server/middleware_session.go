package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/Oudwins/devtaskflow/internals/apperr"
	"github.com/Oudwins/devtaskflow/internals/schemas"
	"github.com/Oudwins/devtaskflow/internals/sessions"
)

type sessionContextKey struct{}

// MiddlewareSession rejects requests without a live session before any store
// work happens, and slides the session expiry on success.
func (s *Server) MiddlewareSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := s.currentSession(r)
		if err != nil {
			if errors.Is(err, apperr.ErrAuthenticationRequired) {
				s.clearSessionCookie(w)
			}
			renderError(w, r, err, "Failed to load session")
			return
		}

		s.setSessionCookie(w, session)
		ctx := context.WithValue(r.Context(), sessionContextKey{}, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) currentSession(r *http.Request) (*sessions.Session, error) {
	cookie, err := r.Cookie(s.Base.Config.Sessions.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, apperr.ErrAuthenticationRequired
	}
	return s.sessions.Validate(r.Context(), cookie.Value)
}

func sessionFromContext(ctx context.Context) (*sessions.Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(*sessions.Session)
	return session, ok && session != nil
}

// identityFromRequest is only valid behind MiddlewareSession.
func identityFromRequest(r *http.Request) schemas.Identity {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		return schemas.Identity{}
	}
	return session.Identity
}

func (s *Server) setSessionCookie(w http.ResponseWriter, session *sessions.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.Base.Config.Sessions.CookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(s.sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   s.Base.Env.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.Base.Config.Sessions.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Base.Env.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}
