package server

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/Oudwins/devtaskflow/internals/assert"
	"github.com/Oudwins/devtaskflow/internals/auth"
	"github.com/Oudwins/devtaskflow/internals/fanout"
	"github.com/Oudwins/devtaskflow/internals/remote"
	"github.com/Oudwins/devtaskflow/internals/sessions"
	"github.com/Oudwins/devtaskflow/internals/store"
	"github.com/Oudwins/devtaskflow/internals/tasks"
	"github.com/Oudwins/devtaskflow/internals/timeouts"
	"github.com/Oudwins/devtaskflow/internals/workspace"
	"github.com/Oudwins/devtaskflow/taskflowd/baseserver"
)

type Server struct {
	Base      *baseserver.BaseServer
	db        *sql.DB
	hub       *fanout.Hub
	tasks     *tasks.Service
	sessions  *sessions.Manager
	github    *auth.GitHub
	commits   *remote.GitHub
	workspace *workspace.Store

	httpServer *http.Server
	closing    chan struct{}
	closeOnce  sync.Once
}

func New() *Server {
	base := baseserver.New()
	server, err := NewWithBase(context.Background(), base)
	assert.AssertNil(err, "[SERVER] Failed to initialize server")
	return server
}

// NewWithBase wires every component from base. The caller owns the returned
// server and must call Shutdown to release the database.
func NewWithBase(ctx context.Context, base *baseserver.BaseServer) (*Server, error) {
	config := base.Config
	logger := base.Logger

	db, err := store.Open(ctx, config.DBPath())
	if err != nil {
		return nil, err
	}

	hub := fanout.NewHub(logger, fanout.DefaultBuffer)
	github := auth.NewGitHub(auth.Config{
		ClientID:     base.Env.GITHUB_CLIENT_ID,
		ClientSecret: base.Env.GITHUB_CLIENT_SECRET,
		RedirectURL:  base.Env.CALLBACK_URL,
		APIURL:       config.Github.APIURL,
	}, auth.NewStateStore(timeouts.OAuthState), logger)

	server := &Server{
		Base:     base,
		db:       db,
		hub:      hub,
		tasks:    tasks.NewService(store.NewTaskStore(db), hub, logger),
		sessions: sessions.NewManager(store.NewSessionStore(db), config.SessionTTL(), logger),
		github:   github,
		commits: remote.NewGitHub(remote.Config{
			APIURL:      config.Github.APIURL,
			Concurrency: config.Github.Concurrency,
			Timeout:     config.GitHubTimeout(),
		}, logger),
		workspace: workspace.NewStore(config.Workspace.Dir, workspace.NewOSFS(), logger),
		closing:   make(chan struct{}),
	}
	server.httpServer = &http.Server{
		Handler:           server.Router(),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	return server, nil
}

func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.Base.Env.LISTEN_ADDR)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

func (s *Server) Serve(listener net.Listener) error {
	s.Base.Logger.Info("Server listening", "addr", listener.Addr().String(), "version", s.Base.Config.Version)
	err := s.httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests, closes open push channels and waits for
// in-flight requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.closeOnce.Do(func() {
		close(s.closing)
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.Base.Logger.Error("shutdown failed", "error", err)
			shutdownErr = err
		}
		if err := s.db.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	})
	return shutdownErr
}
