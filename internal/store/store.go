// Package store defines the persistence interface for the bet engine.
// Implementations include PostgreSQL (source of truth), Redis (read-through
// cache), and in-memory (for testing).
package store

import (
	"context"
	"errors"

	"github.com/updown/bet-engine/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence interface. PostgreSQL is the source of truth;
// Redis provides a read-through cache layer.
type Store interface {
	// --- Bets (permanent records, resolution fields written once) ---

	// InsertBet persists a newly placed bet.
	InsertBet(ctx context.Context, bet *model.Bet) error

	// GetBet retrieves a bet by id.
	GetBet(ctx context.Context, id int64) (*model.Bet, error)

	// MarkResolved writes the resolution fields of a pending bet.
	MarkResolved(ctx context.Context, id, finalPrice int64, outcome model.Outcome, payout, resolvedAt int64) error

	// ListUnresolved returns all bets still pending, oldest first.
	ListUnresolved(ctx context.Context) ([]model.Bet, error)

	// --- Account stats (lazy zero record, merge-on-write) ---

	// GetStats retrieves an account's stats record, or ErrNotFound.
	GetStats(ctx context.Context, account string) (*model.AccountStats, error)

	// PutStats upserts an account's stats record.
	PutStats(ctx context.Context, s *model.AccountStats) error

	// --- Daily pools ---

	// GetDayPool retrieves a day bucket; absent buckets come back zeroed.
	GetDayPool(ctx context.Context, day int64) (*model.DailyPool, error)

	// PutDayPool upserts a day bucket.
	PutDayPool(ctx context.Context, p *model.DailyPool) error

	// --- Price points (append/overwrite only) ---

	// RecordPrice upserts the observation at its timestamp.
	RecordPrice(ctx context.Context, p model.PricePoint) error

	// --- Global counters ---

	// GetCounters loads the counter snapshot; a fresh store returns zeros.
	GetCounters(ctx context.Context) (*model.Counters, error)

	// PutCounters persists the counter snapshot.
	PutCounters(ctx context.Context, c *model.Counters) error
}
