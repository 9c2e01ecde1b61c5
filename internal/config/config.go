// Package config implements the protocol's global fee configuration
// and the tree's deposit cap, both authority-gated, generalizing the
// teacher's Default*Config / authority-gated-update pattern from its
// governance and fee-market packages.
package config

import (
	"github.com/shieldpool/core/pkg/types"
)

// Store persists the GlobalConfig singleton.
type Store interface {
	LoadConfig() (*types.GlobalConfig, error)
	SaveConfig(cfg *types.GlobalConfig) error
}

// Manager applies authority-gated updates to the global config and
// the tree's deposit cap, and keeps an unbounded in-memory history of
// deposit-cap changes, read through DepositLimitHistory (a supplemented feature,
// SPEC_FULL.md §12 — bookkeeping only, no new externally visible
// operation).
type Manager struct {
	store   Store
	history []DepositLimitChange
}

// DepositLimitChange records one update_deposit_limit call.
type DepositLimitChange struct {
	Previous uint64
	New      uint64
}

// NewManager constructs a Manager over the given config store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Initialize writes the default config for a freshly-initialized pool.
func (m *Manager) Initialize(authority types.Address) (*types.GlobalConfig, error) {
	cfg := types.DefaultGlobalConfig(authority)
	if err := m.store.SaveConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UpdateDepositLimit is authority-gated; it overwrites
// tree.max_deposit_amount and records the change in history.
func (m *Manager) UpdateDepositLimit(ts *types.TreeState, caller types.Address, newLimit uint64) error {
	if caller != ts.Authority {
		return types.NewError(types.ErrUnauthorized, "update_deposit_limit")
	}
	m.history = append(m.history, DepositLimitChange{Previous: ts.MaxDepositAmount, New: newLimit})
	ts.MaxDepositAmount = newLimit
	return nil
}

// DepositLimitHistory returns the recorded deposit-cap changes, most
// recent last.
func (m *Manager) DepositLimitHistory() []DepositLimitChange {
	return append([]DepositLimitChange(nil), m.history...)
}

// GlobalConfigUpdate carries the optional (null = unchanged) fields
// of update_global_config.
type GlobalConfigUpdate struct {
	DepositRateBps    *uint16
	WithdrawalRateBps *uint16
	FeeErrorMarginBps *uint16
}

// UpdateGlobalConfig is authority-gated; every present field must be
// ≤ MaxFeeRateBasisPoints (InvalidFeeRate).
func (m *Manager) UpdateGlobalConfig(cfg *types.GlobalConfig, caller types.Address, update GlobalConfigUpdate) error {
	if caller != cfg.Authority {
		return types.NewError(types.ErrUnauthorized, "update_global_config")
	}

	if update.DepositRateBps != nil {
		if *update.DepositRateBps > types.MaxFeeRateBasisPoints {
			return types.NewError(types.ErrInvalidFeeRate, "deposit_rate")
		}
		cfg.DepositFeeRateBps = *update.DepositRateBps
	}
	if update.WithdrawalRateBps != nil {
		if *update.WithdrawalRateBps > types.MaxFeeRateBasisPoints {
			return types.NewError(types.ErrInvalidFeeRate, "withdrawal_rate")
		}
		cfg.WithdrawalFeeRateBps = *update.WithdrawalRateBps
	}
	if update.FeeErrorMarginBps != nil {
		if *update.FeeErrorMarginBps > types.MaxFeeRateBasisPoints {
			return types.NewError(types.ErrInvalidFeeRate, "fee_error_margin")
		}
		cfg.FeeErrorMarginBps = *update.FeeErrorMarginBps
	}

	return m.store.SaveConfig(cfg)
}

// InMemoryStore is a process-local Store.
type InMemoryStore struct {
	cfg *types.GlobalConfig
}

// NewInMemoryStore creates an empty in-memory config store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) LoadConfig() (*types.GlobalConfig, error) {
	if s.cfg == nil {
		return nil, types.NewError(types.ErrUnauthorized, "config not initialized")
	}
	cp := *s.cfg
	return &cp, nil
}

func (s *InMemoryStore) SaveConfig(cfg *types.GlobalConfig) error {
	cp := *cfg
	s.cfg = &cp
	return nil
}
