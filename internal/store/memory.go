// internal/store/memory.go
//
// In-memory registry of game sessions keyed by channel.
//
// Characteristics:
//   - Stores *game.Session objects keyed by channel ID in a map.
//   - Concurrency-safe via RWMutex; the lock guards the map only. Each session
//     serializes its own moves, so sessions in different channels never contend.
//   - State is lost when the process restarts.
//   - Idle sessions are dropped by Sweep, which the server runs on a ticker.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/codenames/internal/game"
)

// ErrNotFound is returned when a channel has no session.
var ErrNotFound = errors.New("session not found")

// Store defines the registry interface for game sessions.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Save registers or replaces the session for a channel.
	Save(ctx context.Context, channel string, s *game.Session) error

	// Get retrieves the session for a channel.
	// Returns ErrNotFound if the channel has none.
	Get(ctx context.Context, channel string) (*game.Session, error)

	// Delete drops the channel's session. Missing channels are not an error.
	Delete(ctx context.Context, channel string) error

	// Sweep drops sessions idle since before cutoff and returns their channels.
	Sweep(ctx context.Context, cutoff time.Time) []string
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex             // guards sessions map
	sessions map[string]*game.Session // keyed by channel
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*game.Session)}
}

func (m *memory) Save(ctx context.Context, channel string, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[channel] = s
	return nil
}

func (m *memory) Get(ctx context.Context, channel string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[channel]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, channel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, channel)
	return nil
}

func (m *memory) Sweep(ctx context.Context, cutoff time.Time) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var dropped []string
	for ch, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			delete(m.sessions, ch)
			dropped = append(dropped, ch)
		}
	}
	return dropped
}
