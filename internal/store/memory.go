// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// This is the default session store: games live in a map and are lost when
// the process restarts.
//
// Characteristics:
//   - Stores *game.Game values keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Get hands out copies, so callers never alias stored games.
//   - Errors are returned for missing game IDs (ErrNotFound).

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/musicwordle/internal/game"
)

// ErrNotFound is returned for unknown game IDs.
var ErrNotFound = errors.New("store: game not found")

// Store defines the persistence interface for game sessions.
// Implementations may be backed by memory (this file) or SQLite (sqlite.go).
type Store interface {
	// Save persists or replaces a game.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a copy of a game by ID.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Update loads a game, runs fn on it and saves the result, with no other
	// writer able to interleave. An error from fn aborts without saving.
	Update(ctx context.Context, id string, fn func(g *game.Game) error) (*game.Game, error)

	// Prune deletes games not updated since before and reports how many.
	Prune(ctx context.Context, before time.Time) (int, error)

	// Close releases resources held by the store.
	Close() error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex          // guards games map
	games map[string]*game.Game // keyed by Game.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*game.Game)}
}

// Save adds or updates the game in the map.
func (m *memory) Save(ctx context.Context, g *game.Game) error {
	cp := *g
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = &cp
	return nil
}

// Get looks up a game by ID.
func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, ErrNotFound
}

// Update runs fn under the write lock.
func (m *memory) Update(ctx context.Context, id string, fn func(g *game.Game) error) (*game.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *g
	if err := fn(&cp); err != nil {
		return nil, err
	}
	m.games[id] = &cp
	out := cp
	return &out, nil
}

// Prune drops idle games.
func (m *memory) Prune(ctx context.Context, before time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, g := range m.games {
		if g.UpdatedAt.Before(before) {
			delete(m.games, id)
			n++
		}
	}
	return n, nil
}

func (m *memory) Close() error { return nil }
