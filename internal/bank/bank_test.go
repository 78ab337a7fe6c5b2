package bank

import (
	"context"
	"testing"
)

func TestTransfer(t *testing.T) {
	v := NewVault()
	v.Deposit("alice", 1000)

	if err := v.Transfer(context.Background(), "alice", "custody", 400); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	alice, _ := v.Balance(context.Background(), "alice")
	custody, _ := v.Balance(context.Background(), "custody")
	if alice != 600 || custody != 400 {
		t.Errorf("expected 600/400, got %d/%d", alice, custody)
	}
}

func TestTransfer_InsufficientFunds(t *testing.T) {
	v := NewVault()
	v.Deposit("alice", 100)

	err := v.Transfer(context.Background(), "alice", "custody", 101)
	if err != ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// A failed transfer moves nothing.
	alice, _ := v.Balance(context.Background(), "alice")
	custody, _ := v.Balance(context.Background(), "custody")
	if alice != 100 || custody != 0 {
		t.Errorf("failed transfer must not move funds: %d/%d", alice, custody)
	}
}

func TestTransfer_InvalidAmount(t *testing.T) {
	v := NewVault()
	v.Deposit("alice", 100)

	for _, amount := range []int64{0, -5} {
		if err := v.Transfer(context.Background(), "alice", "custody", amount); err != ErrInvalidAmount {
			t.Errorf("amount=%d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestReceipts(t *testing.T) {
	v := NewVault()
	v.Deposit("alice", 1000)

	v.Transfer(context.Background(), "alice", "custody", 300)
	v.Transfer(context.Background(), "custody", "alice", 100)

	receipts := v.Receipts()
	if len(receipts) != 2 {
		t.Fatalf("expected 2 receipts, got %d", len(receipts))
	}
	if receipts[0].ID == "" || receipts[0].ID == receipts[1].ID {
		t.Error("receipts must carry distinct ids")
	}
	if receipts[0].Amount != 300 || receipts[1].Amount != 100 {
		t.Errorf("unexpected receipt amounts: %d, %d", receipts[0].Amount, receipts[1].Amount)
	}
}

func TestUnknownAccountBalance(t *testing.T) {
	v := NewVault()
	b, err := v.Balance(context.Background(), "nobody")
	if err != nil || b != 0 {
		t.Errorf("unknown account should read 0, got %d err=%v", b, err)
	}
}
