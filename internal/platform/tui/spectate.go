package tui

import (
	"sync"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-2048/internal/broadcast"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

// Spectator publishes the events of the game a player is running to a hub,
// one topic per game. A nil Spectator or one without a hub does nothing.
type Spectator struct {
	hub  *broadcast.Hub
	user string

	mu    sync.Mutex
	topic string
}

// NewSpectator creates a spectator that publishes as user.
func NewSpectator(hub *broadcast.Hub, user string) *Spectator {
	return &Spectator{hub: hub, user: user}
}

// Attach closes the previous topic, opens a new one for game and forwards
// the game's events to it. Returns the topic ID, or "" if nothing is
// published.
func (s *Spectator) Attach(game registry.Game) string {
	if s == nil || s.hub == nil {
		return ""
	}
	src, ok := game.(registry.EventSource)
	if !ok {
		return ""
	}

	id := uuid.NewString()
	s.mu.Lock()
	prev := s.topic
	s.topic = id
	s.mu.Unlock()
	if prev != "" {
		s.hub.Close(prev)
	}

	s.hub.Open(id, broadcast.TopicInfo{GameID: game.ID(), User: s.user})
	hub := s.hub
	src.OnEvent(func(kind string, payload any) {
		hub.Publish(id, kind, payload)
	})
	return id
}

// Topic returns the current topic ID.
func (s *Spectator) Topic() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topic
}

// Stop closes the current topic.
func (s *Spectator) Stop() {
	if s == nil || s.hub == nil {
		return
	}
	s.mu.Lock()
	id := s.topic
	s.topic = ""
	s.mu.Unlock()
	if id != "" {
		s.hub.Close(id)
	}
}
