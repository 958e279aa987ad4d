package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.MiddlewareLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.Base.Env.FRONTEND_URL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.HandlerRoot)
	r.Route("/auth", func(r chi.Router) {
		r.Get("/github", s.HandlerGitHubLogin)
		r.Get("/github/callback", s.HandlerGitHubCallback)
		r.Get("/user", s.HandlerCurrentUser)
		r.Post("/logout", s.HandlerLogout)
		r.NotFound(s.HandlerNotFound)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.MiddlewareSession)
		r.Get("/api/tasks", s.HandlerListTasks)
		r.Post("/api/tasks", s.HandlerCreateTask)
		r.Patch("/api/tasks/{id}/status", s.HandlerUpdateTaskStatus)
		r.Get("/api/github/commits", s.HandlerListCommits)
		r.Post("/api/workspace", s.HandlerSaveWorkspace)
		r.Get("/api/workspace/{taskId}", s.HandlerRestoreWorkspace)
		r.Get("/ws", s.HandlerPush)
	})

	r.NotFound(s.MiddlewareSession(http.HandlerFunc(s.HandlerNotFound)).ServeHTTP)
	return r
}
