package config

import (
	"testing"

	"github.com/shieldpool/core/pkg/types"
)

func TestManagerInitialize(t *testing.T) {
	authority := types.Address{0x01}
	m := NewManager(NewInMemoryStore())

	cfg, err := m.Initialize(authority)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if cfg.Authority != authority {
		t.Fatal("initialized config should carry the given authority")
	}
	if cfg.DepositFeeRateBps != 0 || cfg.WithdrawalFeeRateBps != 0 || cfg.FeeErrorMarginBps != 0 {
		t.Fatal("default config should start with all rates at zero")
	}
}

func TestUpdateDepositLimitRequiresAuthority(t *testing.T) {
	authority := types.Address{0x01}
	other := types.Address{0x02}
	m := NewManager(NewInMemoryStore())
	ts := &types.TreeState{Authority: authority, MaxDepositAmount: 1000}

	err := m.UpdateDepositLimit(ts, other, 5000)
	assertUnauthorized(t, err)
	if ts.MaxDepositAmount != 1000 {
		t.Fatal("rejected update must not mutate the deposit cap")
	}
}

func TestUpdateDepositLimitRecordsHistory(t *testing.T) {
	authority := types.Address{0x01}
	m := NewManager(NewInMemoryStore())
	ts := &types.TreeState{Authority: authority, MaxDepositAmount: 1000}

	if err := m.UpdateDepositLimit(ts, authority, 5000); err != nil {
		t.Fatalf("UpdateDepositLimit failed: %v", err)
	}
	if ts.MaxDepositAmount != 5000 {
		t.Fatalf("MaxDepositAmount = %d, want 5000", ts.MaxDepositAmount)
	}

	history := m.DepositLimitHistory()
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	if history[0].Previous != 1000 || history[0].New != 5000 {
		t.Fatalf("history entry = %+v, want {1000 5000}", history[0])
	}
}

func TestUpdateGlobalConfigRequiresAuthority(t *testing.T) {
	authority := types.Address{0x01}
	other := types.Address{0x02}
	store := NewInMemoryStore()
	m := NewManager(store)
	cfg := types.DefaultGlobalConfig(authority)

	rate := uint16(100)
	err := m.UpdateGlobalConfig(cfg, other, GlobalConfigUpdate{DepositRateBps: &rate})
	assertUnauthorized(t, err)
}

func TestUpdateGlobalConfigNullOptionLeavesFieldsUnchanged(t *testing.T) {
	authority := types.Address{0x01}
	store := NewInMemoryStore()
	m := NewManager(store)
	cfg := types.DefaultGlobalConfig(authority)
	cfg.WithdrawalFeeRateBps = 42

	rate := uint16(100)
	if err := m.UpdateGlobalConfig(cfg, authority, GlobalConfigUpdate{DepositRateBps: &rate}); err != nil {
		t.Fatalf("UpdateGlobalConfig failed: %v", err)
	}
	if cfg.DepositFeeRateBps != 100 {
		t.Fatalf("DepositFeeRateBps = %d, want 100", cfg.DepositFeeRateBps)
	}
	if cfg.WithdrawalFeeRateBps != 42 {
		t.Fatal("fields omitted from the update (nil pointers) must not change")
	}
}

func TestUpdateGlobalConfigRejectsRateAboveMax(t *testing.T) {
	authority := types.Address{0x01}
	m := NewManager(NewInMemoryStore())
	cfg := types.DefaultGlobalConfig(authority)

	tooHigh := uint16(types.MaxFeeRateBasisPoints + 1)
	err := m.UpdateGlobalConfig(cfg, authority, GlobalConfigUpdate{WithdrawalRateBps: &tooHigh})
	code, ok := types.AsErrorCode(err)
	if !ok || code != types.ErrInvalidFeeRate {
		t.Fatalf("expected ErrInvalidFeeRate, got %v", err)
	}
}

func TestInMemoryStoreRoundTrip(t *testing.T) {
	store := NewInMemoryStore()
	cfg := types.DefaultGlobalConfig(types.Address{0x05})
	cfg.DepositFeeRateBps = 77

	if err := store.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	loaded, err := store.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.DepositFeeRateBps != 77 {
		t.Fatalf("loaded DepositFeeRateBps = %d, want 77", loaded.DepositFeeRateBps)
	}

	loaded.DepositFeeRateBps = 1
	reloaded, err := store.LoadConfig()
	if err != nil {
		t.Fatalf("second LoadConfig failed: %v", err)
	}
	if reloaded.DepositFeeRateBps != 77 {
		t.Fatal("LoadConfig should return an isolated copy")
	}
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	code, ok := types.AsErrorCode(err)
	if !ok || code != types.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
