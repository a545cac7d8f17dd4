// Package broadcast fans out game events from live sessions to any number
// of spectators. Publishers never block on slow subscribers.
package broadcast

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// DefaultBuffer is the subscriber queue size used when none is given.
const DefaultBuffer = 64

// ErrUnknownTopic is returned when subscribing to a topic that is not open.
var ErrUnknownTopic = errors.New("broadcast: unknown topic")

// Envelope wraps one published event.
type Envelope struct {
	Topic   string    `json:"session"`
	Seq     uint64    `json:"seq"`
	Kind    string    `json:"kind"`
	Time    time.Time `json:"time"`
	Payload any       `json:"payload,omitempty"`
}

// TopicInfo describes an open topic, typically one live game session.
type TopicInfo struct {
	ID          string    `json:"id"`
	GameID      string    `json:"game_id"`
	User        string    `json:"user,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	Subscribers int       `json:"subscribers"`
	Events      uint64    `json:"events"`
}

type topic struct {
	info TopicInfo
	subs map[*Subscriber]struct{}
	seq  uint64
	// replay is handed to new subscribers so they can draw the board
	// before the next move.
	replay map[string]Envelope
}

// Hub routes envelopes from publishers to the subscribers of each topic.
// It is safe for concurrent use.
type Hub struct {
	mu         sync.RWMutex
	topics     map[string]*topic
	replayKind map[string]bool
	now        func() time.Time
}

// NewHub creates a hub. Events whose kind is listed in replayKinds are
// remembered per topic and sent first to each new subscriber.
func NewHub(replayKinds ...string) *Hub {
	h := &Hub{
		topics:     make(map[string]*topic),
		replayKind: make(map[string]bool, len(replayKinds)),
		now:        time.Now,
	}
	for _, k := range replayKinds {
		h.replayKind[k] = true
	}
	return h
}

// Open registers a topic. Opening an existing topic updates its info.
func (h *Hub) Open(id string, info TopicInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()

	info.ID = id
	if info.StartedAt.IsZero() {
		info.StartedAt = h.now()
	}
	if t, ok := h.topics[id]; ok {
		info.Events = t.info.Events
		t.info = info
		return
	}
	h.topics[id] = &topic{
		info:   info,
		subs:   make(map[*Subscriber]struct{}),
		replay: make(map[string]Envelope),
	}
}

// Close removes a topic and closes all of its subscribers.
func (h *Hub) Close(id string) {
	h.mu.Lock()
	t, ok := h.topics[id]
	delete(h.topics, id)
	h.mu.Unlock()

	if !ok {
		return
	}
	for sub := range t.subs {
		sub.Close()
	}
}

// Shutdown closes every topic.
func (h *Hub) Shutdown() {
	for _, info := range h.Topics() {
		h.Close(info.ID)
	}
}

// Publish sends an event to every subscriber of the topic. Publishing to a
// topic that is not open is a no-op and returns false.
func (h *Hub) Publish(id, kind string, payload any) bool {
	h.mu.Lock()
	t, ok := h.topics[id]
	if !ok {
		h.mu.Unlock()
		return false
	}
	t.seq++
	t.info.Events++
	env := Envelope{Topic: id, Seq: t.seq, Kind: kind, Time: h.now(), Payload: payload}
	if h.replayKind[kind] {
		t.replay[kind] = env
	}
	subs := make([]*Subscriber, 0, len(t.subs))
	for sub := range t.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.Send(env)
	}
	return true
}

// Subscribe attaches a new subscriber to an open topic. Remembered replay
// events are queued before anything published afterwards.
func (h *Hub) Subscribe(id string, buffer int) (*Subscriber, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, ok := h.topics[id]
	if !ok {
		return nil, ErrUnknownTopic
	}

	sub := newSubscriber(id, buffer)
	replay := make([]Envelope, 0, len(t.replay))
	for _, env := range t.replay {
		replay = append(replay, env)
	}
	sort.Slice(replay, func(i, j int) bool { return replay[i].Seq < replay[j].Seq })
	for _, env := range replay {
		sub.Send(env)
	}

	t.subs[sub] = struct{}{}
	return sub, nil
}

// Unsubscribe detaches and closes a subscriber.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	if t, ok := h.topics[sub.topic]; ok {
		delete(t.subs, sub)
	}
	h.mu.Unlock()
	sub.Close()
}

// Topics returns the open topics, oldest first.
func (h *Hub) Topics() []TopicInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]TopicInfo, 0, len(h.topics))
	for _, t := range h.topics {
		info := t.info
		info.Subscribers = len(t.subs)
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// Topic returns the info for one open topic.
func (h *Hub) Topic(id string) (TopicInfo, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	t, ok := h.topics[id]
	if !ok {
		return TopicInfo{}, false
	}
	info := t.info
	info.Subscribers = len(t.subs)
	return info, true
}
