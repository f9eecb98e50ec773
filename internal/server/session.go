package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/plotcast/plotcast/plot"
)

// writeTimeout bounds a single WebSocket write so a dead transport cannot
// pin a session goroutine past shutdown.
const writeTimeout = 5 * time.Second

// upgrader performs the WebSocket handshake. Origin checks are disabled:
// the server binds loopback by default and access is gated by the token.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWS runs one viewer session: authorize, upgrade, replay history,
// then stream live artifacts until the connection or subscription ends.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !tokenValid(s.cfg.Token, r.URL.Query().Get("token")) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// snapshot and subscription are taken atomically so no artifact pushed
	// during session setup is missed or replayed twice
	history, live := s.store.SnapshotAndSubscribe()
	defer s.store.Unsubscribe(live)

	// discard client frames; the read loop exists to surface disconnects
	// and service control frames
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for _, a := range history {
		if err := s.writeArtifact(conn, a); err != nil {
			s.logger.Debug("viewer disconnected during replay", "error", err)
			return
		}
	}
	s.logger.Debug("history replayed to viewer", "count", len(history), "remote", conn.RemoteAddr().String())

	for {
		select {
		case a, ok := <-live:
			if !ok {
				// dropped from the fan-out: subscriber lag or server shutdown
				s.logger.Debug("viewer subscription ended", "remote", conn.RemoteAddr().String())
				deadline := time.Now().Add(writeTimeout)
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), deadline)
				return
			}
			if err := s.writeArtifact(conn, a); err != nil {
				s.logger.Debug("viewer disconnected", "error", err)
				return
			}

		case <-clientGone:
			return
		}
	}
}

// writeArtifact encodes one artifact and sends it as a single text message.
// An artifact that fails to encode is skipped, never fatal to the session.
func (s *Server) writeArtifact(conn *websocket.Conn, a plot.Artifact) error {
	data, err := json.Marshal(a)
	if err != nil {
		s.logger.Warn("failed to encode artifact, skipping", "id", a.ID, "error", err)
		return nil
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
