package merkle

import (
	"context"
	"sync"

	"github.com/shieldpool/core/pkg/types"
)

// Store persists the tree's single account-shaped state. Unlike the
// teacher's per-node TreeStore, this protocol's tree is one
// fixed-layout account (subtrees, root history, policy fields all
// together), so the store deals in whole TreeState snapshots rather
// than individual nodes.
type Store interface {
	Load(ctx context.Context) (*types.TreeState, error)
	Save(ctx context.Context, state *types.TreeState) error
}

// ErrNotInitialized is returned by Load before initialize() has run.
type notInitializedError struct{}

func (notInitializedError) Error() string { return "merkle: tree account not initialized" }

// ErrNotInitialized is the sentinel Load returns when no state has
// been saved yet.
var ErrNotInitialized error = notInitializedError{}

// InMemoryStore is a process-local Store, used by tests and the
// single-node daemon's default configuration.
type InMemoryStore struct {
	mu    sync.RWMutex
	state *types.TreeState
}

// NewInMemoryStore creates an empty in-memory tree store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Load returns a copy of the stored state.
func (s *InMemoryStore) Load(ctx context.Context) (*types.TreeState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, ErrNotInitialized
	}
	cp := *s.state
	return &cp, nil
}

// Save overwrites the stored state with a copy of state.
func (s *InMemoryStore) Save(ctx context.Context, state *types.TreeState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *state
	s.state = &cp
	return nil
}
