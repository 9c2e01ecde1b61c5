// Package merkle implements the fixed-height, append-only Poseidon
// Merkle tree: incremental right-frontier insertion and a bounded
// ring buffer of recent roots.
package merkle

import (
	"context"
	"errors"
	"fmt"

	"github.com/shieldpool/core/internal/field"
	"github.com/shieldpool/core/pkg/types"
)

// ErrTreeFull is returned by Insert when the tree is at capacity (I4).
var ErrTreeFull = errors.New("merkle: tree is full")

// Engine wraps a TreeState with the insertion and root-membership
// operations of §4.2. It holds no lock of its own: the caller (the
// transact handler) is the tree account's single exclusive writer for
// the duration of one call, per §5's concurrency model.
type Engine struct {
	Store Store
}

// NewEngine constructs an Engine over the given persistence backend.
func NewEngine(store Store) *Engine {
	return &Engine{Store: store}
}

// InitializeState builds the zero-state TreeState written by
// initialize(): next_index=0, root=empty_subtree(H), root_history[0]=root.
func InitializeState(height uint8, authority types.Address, bump uint8) (*types.TreeState, error) {
	ts := &types.TreeState{
		Height:           height,
		NextIndex:        0,
		MaxDepositAmount: types.DefaultMaxDepositAmount,
		Authority:        authority,
		Bump:             bump,
	}

	for k := 0; k <= int(height); k++ {
		empty, err := field.EmptySubtree(k)
		if err != nil {
			return nil, fmt.Errorf("merkle: initialize: %w", err)
		}
		ts.Subtrees[k] = empty
	}

	root, err := field.EmptySubtree(int(height))
	if err != nil {
		return nil, fmt.Errorf("merkle: initialize: %w", err)
	}
	ts.Root = root
	ts.RootHistory[0] = root
	ts.RootIndex = 0

	return ts, nil
}

// Insert performs the incremental insertion algorithm of §4.2: it
// walks the right frontier bit by bit, hashing with the empty
// subtree when the bit is 0 (this position becomes the new frontier
// node) and with the stored frontier sibling when the bit is 1.
func (e *Engine) Insert(ctx context.Context, ts *types.TreeState, leaf types.Hash) (types.Hash, uint64, error) {
	capacity := ts.Capacity()
	if ts.NextIndex >= capacity {
		return types.Hash{}, 0, ErrTreeFull
	}

	idx := ts.NextIndex
	current := leaf

	for k := 0; k < int(ts.Height); k++ {
		var left, right types.Hash
		if (idx>>uint(k))&1 == 0 {
			ts.Subtrees[k] = current
			empty, err := field.EmptySubtree(k)
			if err != nil {
				return types.Hash{}, 0, err
			}
			left, right = current, empty
		} else {
			left, right = ts.Subtrees[k], current
		}

		parent, err := field.Poseidon(left, right)
		if err != nil {
			return types.Hash{}, 0, fmt.Errorf("merkle: insert level %d: %w", k, err)
		}
		current = parent
	}

	newRoot := current
	ts.NextIndex++
	ts.Root = newRoot
	ts.RootIndex = uint32((uint64(ts.RootIndex) + 1) % types.RootHistorySize)
	ts.RootHistory[ts.RootIndex] = newRoot

	if e.Store != nil {
		if err := e.Store.Save(ctx, ts); err != nil {
			return types.Hash{}, 0, fmt.Errorf("merkle: insert: persist: %w", err)
		}
	}

	return newRoot, idx, nil
}

// IsKnownRoot reports whether root is non-zero and present in the
// tree's root history ring buffer.
func IsKnownRoot(ts *types.TreeState, root types.Hash) bool {
	if root.IsEmpty() {
		return false
	}
	for _, candidate := range ts.RootHistory {
		if candidate == root {
			return true
		}
	}
	return false
}

// HasCapacityFor reports whether n more leaves can be inserted
// without exceeding 2^H, letting the handler pre-check before any
// value moves (§4.5 "enforce by pre-checking next_index + 2 ≤ 2^H").
func HasCapacityFor(ts *types.TreeState, n uint64) bool {
	remaining := ts.Capacity() - ts.NextIndex
	return remaining >= n
}
