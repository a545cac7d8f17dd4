package broadcast

import (
	"sync"
	"sync/atomic"
)

// Subscriber receives the envelopes published on one topic.
type Subscriber struct {
	topic    string
	events   chan Envelope
	done     chan struct{}
	doneOnce sync.Once
	dropped  atomic.Uint64
}

func newSubscriber(topic string, buffer int) *Subscriber {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	return &Subscriber{
		topic:  topic,
		events: make(chan Envelope, buffer),
		done:   make(chan struct{}),
	}
}

// Topic returns the topic this subscriber listens to.
func (s *Subscriber) Topic() string { return s.topic }

// Send queues an envelope without blocking. When the buffer is full the
// oldest queued envelope is dropped to make room.
func (s *Subscriber) Send(env Envelope) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- env:
		return
	default:
	}

	select {
	case <-s.events:
		s.dropped.Add(1)
	default:
	}
	select {
	case s.events <- env:
	default:
		// Lost a race with another sender; best effort.
		s.dropped.Add(1)
	}
}

// Events returns the channel envelopes arrive on.
func (s *Subscriber) Events() <-chan Envelope { return s.events }

// Done is closed when the subscriber is closed or its topic ends.
func (s *Subscriber) Done() <-chan struct{} { return s.done }

// Dropped returns how many envelopes were discarded on overflow.
func (s *Subscriber) Dropped() uint64 { return s.dropped.Load() }

// Close marks the subscriber as done. Safe to call multiple times.
func (s *Subscriber) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}
