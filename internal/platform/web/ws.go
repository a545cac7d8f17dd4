package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-2048/internal/broadcast"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Pings go out every 54s, before the peer's pong deadline.
	pingPeriod = (pongWait * 9) / 10

	// Spectators only send control frames.
	maxMessageSize = 512

	subscriberBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Spectating is read-only and public.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWS streams a session's events as JSON envelopes until the game
// ends or the spectator disconnects.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session")
	if _, ok := s.hub.Topic(id); !ok {
		writeError(w, http.StatusNotFound, "unknown_session")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	sub, err := s.hub.Subscribe(id, subscriberBuffer)
	if err != nil {
		// The game ended between the lookup and the upgrade.
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		conn.Close()
		return
	}

	s.logger.Info("spectator joined", "session", id, "remote", r.RemoteAddr)
	go s.readPump(conn, sub)
	s.writePump(conn, sub)
	s.logger.Info("spectator left", "session", id, "dropped", sub.Dropped())
}

// readPump discards client messages and keeps the read deadline fresh.
// Any read error ends the subscription.
func (s *Server) readPump(conn *websocket.Conn, sub *broadcast.Subscriber) {
	defer s.hub.Unsubscribe(sub)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) &&
				!errors.Is(err, websocket.ErrCloseSent) {
				s.logger.Debug("websocket read", "session", sub.Topic(), "err", err)
			}
			return
		}
	}
}

// writePump sends envelopes and pings. It owns all writes to conn.
func (s *Server) writePump(conn *websocket.Conn, sub *broadcast.Subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.hub.Unsubscribe(sub)
		conn.Close()
	}()

	for {
		select {
		case env := <-sub.Events():
			if err := writeEnvelope(conn, env); err != nil {
				return
			}

		case <-sub.Done():
			if err := drain(conn, sub); err != nil {
				return
			}
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// drain writes the envelopes still queued on sub.
func drain(conn *websocket.Conn, sub *broadcast.Subscriber) error {
	for {
		select {
		case env := <-sub.Events():
			if err := writeEnvelope(conn, env); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func writeEnvelope(conn *websocket.Conn, env broadcast.Envelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
