package registry

import (
	"context"
	"errors"
	"sync"

	"github.com/shieldpool/core/pkg/types"
)

// ErrAlreadyExists is returned by the Create* methods when the
// account already exists; to the handler this means the nullifier
// was already spent, or the commitment already inserted.
var ErrAlreadyExists = errors.New("registry: account already exists")

// AccountRegistry is the singleton-account store backing nullifier
// and commitment uniqueness. Implementations must make Exists and
// Create observe a single consistent view within one transact call,
// matching the host's exclusive-lock-per-writable-account semantics
// (§5).
type AccountRegistry interface {
	NullifierExists(ctx context.Context, addr types.Address) (bool, error)
	CreateNullifier(ctx context.Context, addr types.Address, acc *types.NullifierAccount) error

	CommitmentExists(ctx context.Context, addr types.Address) (bool, error)
	CreateCommitment(ctx context.Context, addr types.Address, acc *types.CommitmentAccount) error
}

// InMemoryRegistry is a process-local AccountRegistry, used by tests
// and the single-node daemon's default configuration.
type InMemoryRegistry struct {
	mu          sync.RWMutex
	nullifiers  map[types.Address]*types.NullifierAccount
	commitments map[types.Address]*types.CommitmentAccount
}

// NewInMemoryRegistry creates an empty in-memory registry.
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{
		nullifiers:  make(map[types.Address]*types.NullifierAccount),
		commitments: make(map[types.Address]*types.CommitmentAccount),
	}
}

func (r *InMemoryRegistry) NullifierExists(ctx context.Context, addr types.Address) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.nullifiers[addr]
	return ok, nil
}

func (r *InMemoryRegistry) CreateNullifier(ctx context.Context, addr types.Address, acc *types.NullifierAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.nullifiers[addr]; ok {
		return ErrAlreadyExists
	}
	cp := *acc
	r.nullifiers[addr] = &cp
	return nil
}

func (r *InMemoryRegistry) CommitmentExists(ctx context.Context, addr types.Address) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.commitments[addr]
	return ok, nil
}

func (r *InMemoryRegistry) CreateCommitment(ctx context.Context, addr types.Address, acc *types.CommitmentAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.commitments[addr]; ok {
		return ErrAlreadyExists
	}
	cp := *acc
	cp.EncryptedNote = append([]byte(nil), acc.EncryptedNote...)
	r.commitments[addr] = &cp
	return nil
}
