// Package risk caps one-sided exposure per calendar day. A bet is admitted
// only if its side's share of the day's volume, after the bet, stays
// strictly below a configured fraction. This bounds the ledger's maximum
// one-sided payout exposure per day; it is advisory risk control, not a
// hard balance guarantee (it can be approached but never reached by many
// small bets, and reset by a day boundary).
package risk

import (
	"errors"

	"github.com/updown/bet-engine/internal/model"
)

// ErrPoolImbalance is returned when a bet would push its side's share of
// the day's volume to or past the cap.
var ErrPoolImbalance = errors.New("risk: bet would overload one side of the daily pool")

// DefaultMaxShareBps caps either side at strictly below 80% of daily volume.
const DefaultMaxShareBps int64 = 8000

const bpsDenominator int64 = 10000

// DefaultMinVolume exempts thin pools from the share cap. Without an
// exemption the very first bet of a day is 100% one-sided and nothing
// could ever be admitted.
const DefaultMinVolume int64 = 5_000_000

// Limiter enforces the per-day one-sided exposure cap.
type Limiter struct {
	// MaxShareBps is the exclusive upper bound, in basis points, on one
	// side's share of the day's total volume after the candidate bet.
	MaxShareBps int64

	// MinVolume disables the check while the hypothetical new total
	// volume is below this floor. Zero enforces the cap from the first
	// stake onward.
	MinVolume int64
}

// NewLimiter creates a limiter with the given cap and thin-pool floor.
func NewLimiter(maxShareBps, minVolume int64) *Limiter {
	if maxShareBps <= 0 {
		maxShareBps = DefaultMaxShareBps
	}
	return &Limiter{MaxShareBps: maxShareBps, MinVolume: minVolume}
}

// Admit checks whether adding stake on the given side keeps that side's
// share strictly below the cap. The pool itself is not modified.
//
// The comparison is cross-multiplied (newSide*10000 < cap*newTotal) so
// the boundary is exact in integer arithmetic: with rise=80, drop=20 and
// an 8000 bps cap, one more unit of rise (81/101 ≈ 80.2%) is rejected.
func (l *Limiter) Admit(pool *model.DailyPool, pred model.Prediction, stake int64) error {
	newSide := pool.SideVolume(pred) + stake
	newTotal := pool.TotalVolume + stake

	if newTotal < l.MinVolume {
		return nil
	}
	if newSide*bpsDenominator >= l.MaxShareBps*newTotal {
		return ErrPoolImbalance
	}
	return nil
}

// Record unconditionally adds stake to the correct side and to the
// volume/count totals. Called only after Admit has approved the same
// bet, so it cannot fail.
func Record(pool *model.DailyPool, pred model.Prediction, stake int64) {
	if pred == model.PredictionRise {
		pool.RiseVolume += stake
	} else {
		pool.DropVolume += stake
	}
	pool.TotalVolume += stake
	pool.BetCount++
}
