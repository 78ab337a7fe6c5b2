// Package model defines the core domain types shared across the bet engine.
// All monetary values are int64 — never float64 for money. Settlement math
// uses integer floor division only, so numeric outcomes are bit-exact.
package model

// Prediction is the bettor's declared price direction.
type Prediction string

const (
	PredictionRise Prediction = "RISE"
	PredictionDrop Prediction = "DROP"
)

// Valid reports whether p is one of the two supported directions.
func (p Prediction) Valid() bool {
	return p == PredictionRise || p == PredictionDrop
}

// Outcome is the resolution result of a bet.
type Outcome string

const (
	OutcomePending Outcome = "PENDING"
	OutcomeWin     Outcome = "WIN"
	OutcomeLose    Outcome = "LOSE"
	OutcomeDraw    Outcome = "DRAW"
)

// Bet is a permanent ledger record. Created exactly once by placement and
// immutable afterwards except for the resolution fields, which are written
// exactly once when the bet transitions out of PENDING.
//
// Invariants: Resolved == (Outcome != PENDING); FinalPrice is set iff
// Resolved; Payout == 0 while PENDING; ExpiresAt == CreatedAt + Duration.
type Bet struct {
	ID         int64      `json:"id" db:"id"`
	Bettor     string     `json:"bettor" db:"bettor"`
	Stake      int64      `json:"stake" db:"stake"`
	Prediction Prediction `json:"prediction" db:"prediction"`
	StartPrice int64      `json:"start_price" db:"start_price"`
	FinalPrice *int64     `json:"final_price,omitempty" db:"final_price"`
	Duration   int64      `json:"duration" db:"duration"` // seconds
	CreatedAt  int64      `json:"created_at" db:"created_at"`
	ExpiresAt  int64      `json:"expires_at" db:"expires_at"`
	Outcome    Outcome    `json:"outcome" db:"outcome"`
	Resolved   bool       `json:"resolved" db:"resolved"`
	ResolvedAt *int64     `json:"resolved_at,omitempty" db:"resolved_at"`
	Payout     int64      `json:"payout" db:"payout"`
}

// Expired reports whether the bet's deadline has passed at time now.
func (b *Bet) Expired(now int64) bool {
	return now > b.ExpiresAt
}

// AccountStats holds per-account cumulative wager bookkeeping. One record
// per account, created lazily on the first placement. All counters are
// monotonically non-decreasing except WinStreak, which resets on any
// non-win resolution. BestStreak >= WinStreak always.
type AccountStats struct {
	Account      string `json:"account" db:"account"`
	TotalBets    int64  `json:"total_bets" db:"total_bets"`
	TotalWagered int64  `json:"total_wagered" db:"total_wagered"`
	TotalWon     int64  `json:"total_won" db:"total_won"`
	TotalLost    int64  `json:"total_lost" db:"total_lost"`
	WinStreak    int64  `json:"win_streak" db:"win_streak"`
	BestStreak   int64  `json:"best_streak" db:"best_streak"`
	LastBetAt    int64  `json:"last_bet_at" db:"last_bet_at"`
}

// DailyPool aggregates one calendar day's exposure per side. Day is the
// bucket timestamp truncated to day granularity. TotalVolume always equals
// RiseVolume + DropVolume. Pools are only consulted for same-day admission
// checks and are never mutated retroactively.
type DailyPool struct {
	Day         int64 `json:"day" db:"day"`
	RiseVolume  int64 `json:"rise_volume" db:"rise_volume"`
	DropVolume  int64 `json:"drop_volume" db:"drop_volume"`
	TotalVolume int64 `json:"total_volume" db:"total_volume"`
	BetCount    int64 `json:"bet_count" db:"bet_count"`
}

// SideVolume returns the pool's current volume for one prediction side.
func (p *DailyPool) SideVolume(pred Prediction) int64 {
	if pred == PredictionRise {
		return p.RiseVolume
	}
	return p.DropVolume
}

// PricePoint is one submitted price observation, keyed by timestamp.
// A later submission at the identical timestamp overwrites the earlier
// one — last-writer-wins, no audit of prior values.
type PricePoint struct {
	Timestamp  int64  `json:"timestamp" db:"timestamp"`
	Price      int64  `json:"price" db:"price"`
	Source     string `json:"source" db:"source"`
	Block      int64  `json:"block" db:"block"`
	Confidence int64  `json:"confidence" db:"confidence"` // bps, fixed at max
}

// MaxConfidence is the confidence recorded on every price point in this
// design: the feed is a single trusted role, so declared confidence is
// always full.
const MaxConfidence int64 = 10000

// Counters is the ledger's explicit global state: the monotonic bet-id
// nonce, aggregate volume/count totals, and the house balance. Owned by
// the wager service (injected state, not process globals) and persisted
// through the store after every mutation.
type Counters struct {
	NextBetID    int64 `json:"next_bet_id" db:"next_bet_id"`
	TotalBets    int64 `json:"total_bets" db:"total_bets"`
	TotalVolume  int64 `json:"total_volume" db:"total_volume"`
	HouseBalance int64 `json:"house_balance" db:"house_balance"`
}
