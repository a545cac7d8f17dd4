package broadcast

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, sub *Subscriber) Envelope {
	t.Helper()
	select {
	case env := <-sub.Events():
		return env
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for envelope")
		return Envelope{}
	}
}

func TestPublishReachesSubscribers(t *testing.T) {
	h := NewHub()
	h.Open("s1", TopicInfo{GameID: "2048", User: "ana"})

	a, err := h.Subscribe("s1", 4)
	require.NoError(t, err)
	b, err := h.Subscribe("s1", 4)
	require.NoError(t, err)

	assert.True(t, h.Publish("s1", "board", map[string]int{"score": 4}))

	for _, sub := range []*Subscriber{a, b} {
		env := recv(t, sub)
		assert.Equal(t, "s1", env.Topic)
		assert.Equal(t, "board", env.Kind)
		assert.Equal(t, uint64(1), env.Seq)
		assert.False(t, env.Time.IsZero())
	}
}

func TestPublishUnknownTopic(t *testing.T) {
	h := NewHub()
	assert.False(t, h.Publish("nope", "board", nil))

	_, err := h.Subscribe("nope", 1)
	assert.ErrorIs(t, err, ErrUnknownTopic)
}

func TestSendDropsOldestWhenFull(t *testing.T) {
	h := NewHub()
	h.Open("s1", TopicInfo{})
	sub, err := h.Subscribe("s1", 2)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		h.Publish("s1", "tile_moved", i)
	}

	first, second := recv(t, sub), recv(t, sub)
	assert.Equal(t, uint64(4), first.Seq)
	assert.Equal(t, uint64(5), second.Seq)
	assert.Equal(t, uint64(3), sub.Dropped())
}

func TestPublishNeverBlocks(t *testing.T) {
	h := NewHub()
	h.Open("s1", TopicInfo{})
	_, err := h.Subscribe("s1", 1) // never drained
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			h.Publish("s1", "board", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}
}

func TestReplayForLateSubscriber(t *testing.T) {
	h := NewHub("board", "new_game")
	h.Open("s1", TopicInfo{})

	h.Publish("s1", "new_game", "a")
	h.Publish("s1", "tile_moved", "b")
	h.Publish("s1", "board", "c")
	h.Publish("s1", "board", "d")

	sub, err := h.Subscribe("s1", 8)
	require.NoError(t, err)

	first, second := recv(t, sub), recv(t, sub)
	assert.Equal(t, "new_game", first.Kind)
	assert.Equal(t, "board", second.Kind)
	assert.Equal(t, "d", second.Payload, "only the latest board is replayed")
	assert.Empty(t, sub.Events())
}

func TestCloseTopicClosesSubscribers(t *testing.T) {
	h := NewHub()
	h.Open("s1", TopicInfo{})
	sub, err := h.Subscribe("s1", 1)
	require.NoError(t, err)

	h.Close("s1")

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("subscriber not closed with its topic")
	}
	assert.Empty(t, h.Topics())

	// Closed subscribers ignore sends.
	sub.Send(Envelope{Kind: "late"})
	assert.Empty(t, sub.Events())
}

func TestUnsubscribe(t *testing.T) {
	h := NewHub()
	h.Open("s1", TopicInfo{})
	sub, err := h.Subscribe("s1", 1)
	require.NoError(t, err)

	info, ok := h.Topic("s1")
	require.True(t, ok)
	assert.Equal(t, 1, info.Subscribers)

	h.Unsubscribe(sub)
	h.Unsubscribe(sub) // idempotent
	h.Unsubscribe(nil)

	info, _ = h.Topic("s1")
	assert.Equal(t, 0, info.Subscribers)
	h.Publish("s1", "board", nil)
	assert.Empty(t, sub.Events())
}

func TestTopicsSortedByStart(t *testing.T) {
	h := NewHub()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h.Open("late", TopicInfo{StartedAt: base.Add(time.Minute)})
	h.Open("early", TopicInfo{StartedAt: base, GameID: "2048"})

	topics := h.Topics()
	require.Len(t, topics, 2)
	assert.Equal(t, "early", topics[0].ID)
	assert.Equal(t, "2048", topics[0].GameID)
	assert.Equal(t, "late", topics[1].ID)

	// Re-opening keeps the event counter.
	h.Publish("early", "board", nil)
	h.Open("early", TopicInfo{StartedAt: base, GameID: "2048-5x5"})
	info, _ := h.Topic("early")
	assert.Equal(t, "2048-5x5", info.GameID)
	assert.Equal(t, uint64(1), info.Events)

	h.Shutdown()
	assert.Empty(t, h.Topics())
}

func TestConcurrentPublishSubscribe(t *testing.T) {
	h := NewHub("board")
	h.Open("s1", TopicInfo{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h.Publish("s1", "board", j)
			}
		}()
		go func() {
			defer wg.Done()
			sub, err := h.Subscribe("s1", 4)
			if err != nil {
				return
			}
			h.Unsubscribe(sub)
		}()
	}
	wg.Wait()

	info, ok := h.Topic("s1")
	require.True(t, ok)
	assert.Equal(t, uint64(800), info.Events)
}
