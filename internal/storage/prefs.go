package storage

import (
	"sync"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// MemoryPrefs is an in-memory core.BestScoreStore for headless runs and
// tests. It is safe for concurrent use.
type MemoryPrefs struct {
	mu     sync.Mutex
	values map[string]int
}

var _ core.BestScoreStore = (*MemoryPrefs)(nil)

// NewMemoryPrefs returns an empty in-memory preference store.
func NewMemoryPrefs() *MemoryPrefs {
	return &MemoryPrefs{values: make(map[string]int)}
}

// BestScore returns the value for key, or 0 if absent.
func (m *MemoryPrefs) BestScore(key string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

// SetBestScore stores score under key.
func (m *MemoryPrefs) SetBestScore(key string, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = score
	return nil
}
