package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Oudwins/devtaskflow/internals/reqlog"
	"github.com/Oudwins/devtaskflow/internals/timeouts"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// HandlerPush streams task events to the client until either side closes.
// Client messages are read and discarded so disconnects are noticed.
func (s *Server) HandlerPush(w http.ResponseWriter, r *http.Request) {
	frontend := s.Base.Env.FRONTEND_URL
	upgrader := upgrader
	upgrader.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || origin == frontend || origin == "http://"+r.Host
	}

	// Subscribe before the handshake completes so no event published after
	// the client sees the upgrade is missed.
	sub := s.hub.Subscribe()
	defer sub.Close()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		reqlog.FromContext(r.Context()).Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()
	logger := s.Base.Logger.With("subscription_id", sub.ID, "user_id", identityFromRequest(r).ID)
	logger.Debug("Push channel opened")

	disconnected := make(chan struct{})
	go func() {
		defer close(disconnected)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(timeouts.PushWrite))
			if err := conn.WriteJSON(event); err != nil {
				logger.Debug("Push write failed", "error", err)
				return
			}
		case <-disconnected:
			logger.Debug("Push channel closed by client")
			return
		case <-s.closing:
			_ = conn.SetWriteDeadline(time.Now().Add(timeouts.PushWrite))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		}
	}
}
