// Package bank provides the fund-transfer primitive the ledger settles
// against: synchronous, atomic moves of int64 value between named
// accounts. A transfer either fully succeeds or leaves both balances
// untouched; the ledger never retries.
package bank

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrInsufficientFunds is returned when the source account cannot
	// cover the transfer.
	ErrInsufficientFunds = errors.New("bank: insufficient funds")

	// ErrInvalidAmount is returned for zero or negative transfer amounts.
	ErrInvalidAmount = errors.New("bank: amount must be positive")
)

// Ledger is the transfer interface the wager service depends on.
type Ledger interface {
	// Transfer atomically moves amount from one account to another.
	Transfer(ctx context.Context, from, to string, amount int64) error

	// Balance returns the current balance of an account (0 if unknown).
	Balance(ctx context.Context, account string) (int64, error)
}

// Receipt is the immutable record written for every successful transfer.
type Receipt struct {
	ID     string `json:"id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// Vault is an in-memory Ledger. Accounts are created implicitly on first
// credit; debits require sufficient balance.
type Vault struct {
	mu       sync.Mutex
	balances map[string]int64
	receipts []Receipt
}

// NewVault creates an empty vault.
func NewVault() *Vault {
	return &Vault{balances: make(map[string]int64)}
}

// Deposit credits an account, creating it if needed.
func (v *Vault) Deposit(account string, amount int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.balances[account] += amount
}

func (v *Vault) Transfer(_ context.Context, from, to string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.balances[from] < amount {
		return ErrInsufficientFunds
	}
	v.balances[from] -= amount
	v.balances[to] += amount

	v.receipts = append(v.receipts, Receipt{
		ID:     uuid.New().String(),
		From:   from,
		To:     to,
		Amount: amount,
	})
	return nil
}

func (v *Vault) Balance(_ context.Context, account string) (int64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.balances[account], nil
}

// Receipts returns a copy of the transfer audit trail.
func (v *Vault) Receipts() []Receipt {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Receipt, len(v.receipts))
	copy(out, v.receipts)
	return out
}
