package pool

import (
	"errors"
	"math"
	"testing"

	"github.com/shieldpool/core/pkg/types"
)

func TestPlanMovementDeposit(t *testing.T) {
	m, err := PlanMovement(1000, 10)
	if err != nil {
		t.Fatalf("PlanMovement failed: %v", err)
	}
	if m.SignerToVault != 1000 {
		t.Fatalf("SignerToVault = %d, want 1000", m.SignerToVault)
	}
	if m.VaultToFee != 10 {
		t.Fatalf("VaultToFee = %d, want 10", m.VaultToFee)
	}
	if m.VaultDelta != 990 {
		t.Fatalf("VaultDelta = %d, want 990", m.VaultDelta)
	}
}

func TestPlanMovementDepositFeeExceedsAmountOverflows(t *testing.T) {
	_, err := PlanMovement(10, 20)
	assertOverflow(t, err)
}

func TestPlanMovementWithdrawal(t *testing.T) {
	m, err := PlanMovement(-1000, 10)
	if err != nil {
		t.Fatalf("PlanMovement failed: %v", err)
	}
	if m.VaultToRecipient != 990 {
		t.Fatalf("VaultToRecipient = %d, want 990", m.VaultToRecipient)
	}
	if m.VaultToFee != 10 {
		t.Fatalf("VaultToFee = %d, want 10", m.VaultToFee)
	}
	if m.VaultDelta != -1000 {
		t.Fatalf("VaultDelta = %d, want -1000", m.VaultDelta)
	}
}

func TestPlanMovementWithdrawalFeeExceedsAmountOverflows(t *testing.T) {
	_, err := PlanMovement(-10, 20)
	assertOverflow(t, err)
}

func TestPlanMovementInternalTransfer(t *testing.T) {
	m, err := PlanMovement(0, 5)
	if err != nil {
		t.Fatalf("PlanMovement failed: %v", err)
	}
	if m.SignerToVault != 0 || m.VaultToRecipient != 0 {
		t.Fatal("internal transfer should move nothing to/from the vault besides the fee")
	}
	if m.VaultToFee != 5 {
		t.Fatalf("VaultToFee = %d, want 5", m.VaultToFee)
	}
	if m.VaultDelta != -5 {
		t.Fatalf("VaultDelta = %d, want -5", m.VaultDelta)
	}
}

func TestPlanMovementRejectsMinInt64(t *testing.T) {
	_, err := PlanMovement(math.MinInt64, 0)
	assertOverflow(t, err)
}

func TestVaultApplyDeposit(t *testing.T) {
	v := &Vault{Balance: 100}
	m, err := PlanMovement(50, 5)
	if err != nil {
		t.Fatalf("PlanMovement failed: %v", err)
	}
	if err := v.Apply(m); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if v.Balance != 145 {
		t.Fatalf("balance = %d, want 145 (100 + 50 - 5)", v.Balance)
	}
}

func TestVaultApplyWithdrawal(t *testing.T) {
	v := &Vault{Balance: 1000}
	m, err := PlanMovement(-400, 10)
	if err != nil {
		t.Fatalf("PlanMovement failed: %v", err)
	}
	if err := v.Apply(m); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if v.Balance != 600 {
		t.Fatalf("balance = %d, want 600 (1000 - 400)", v.Balance)
	}
}

func TestVaultApplyInsufficientBalance(t *testing.T) {
	v := &Vault{Balance: 100}
	m, err := PlanMovement(-1000, 10)
	if err != nil {
		t.Fatalf("PlanMovement failed: %v", err)
	}
	err = v.Apply(m)
	assertOverflow(t, err)
	if v.Balance != 100 {
		t.Fatal("a failed Apply must not mutate the vault balance")
	}
}

func assertOverflow(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	code, ok := types.AsErrorCode(err)
	if !ok || code != types.ErrArithmeticOverflow {
		t.Fatalf("expected ErrArithmeticOverflow, got %v", err)
	}
	if !errors.Is(err, types.SentinelArithmeticOverflow) {
		t.Fatal("errors.Is should match the ArithmeticOverflow sentinel")
	}
}
