// Package wager implements the bet lifecycle state machine: placement,
// expiry detection, and resolution, together with the bookkeeping that
// must stay consistent with every transition (daily risk pools, account
// stats, price feed, global counters, house balance).
package wager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/updown/bet-engine/internal/bank"
	"github.com/updown/bet-engine/internal/chain"
	"github.com/updown/bet-engine/internal/gate"
	"github.com/updown/bet-engine/internal/model"
	"github.com/updown/bet-engine/internal/oracle"
	"github.com/updown/bet-engine/internal/payout"
	"github.com/updown/bet-engine/internal/risk"
	"github.com/updown/bet-engine/internal/stats"
	"github.com/updown/bet-engine/internal/store"
)

// Limits bounds stake and duration at placement time. Bounds are not
// re-validated after creation.
type Limits struct {
	MinStake    int64
	MaxStake    int64
	MinDuration int64
	MaxDuration int64
}

// Params collects the collaborators a Service is built from.
type Params struct {
	Store   store.Store
	Bank    bank.Ledger
	Gate    gate.Gate
	Clock   chain.Clock
	Feed    *oracle.Feed
	Limiter *risk.Limiter
	Calc    *payout.Calculator
	Limits  Limits
	Custody string // account holding locked stakes
	Hub     *WSHub // optional, nil disables broadcasts
}

// Service handles bet operations. Uses a mutex so each placement and each
// resolution runs as one indivisible critical section spanning the fund
// transfer and every bookkeeping write (single-instance; for horizontal
// scaling, replace with database-level transactions).
type Service struct {
	store   store.Store
	bank    bank.Ledger
	gate    gate.Gate
	clock   chain.Clock
	feed    *oracle.Feed
	limiter *risk.Limiter
	calc    *payout.Calculator
	limits  Limits
	custody string
	wsHub   *WSHub

	mu       sync.Mutex
	counters model.Counters
}

// NewService creates a bet service, loading the counter snapshot from the
// store so a restarted instance continues the id sequence.
func NewService(ctx context.Context, p Params) (*Service, error) {
	counters, err := p.Store.GetCounters(ctx)
	if err != nil {
		return nil, fmt.Errorf("load counters: %w", err)
	}
	if counters.NextBetID == 0 {
		counters.NextBetID = 1
	}

	return &Service{
		store:    p.Store,
		bank:     p.Bank,
		gate:     p.Gate,
		clock:    p.Clock,
		feed:     p.Feed,
		limiter:  p.Limiter,
		calc:     p.Calc,
		limits:   p.Limits,
		custody:  p.Custody,
		wsHub:    p.Hub,
		counters: *counters,
	}, nil
}

type heightSource interface {
	Height() int64
}

func (s *Service) block() int64 {
	if h, ok := s.clock.(heightSource); ok {
		return h.Height()
	}
	return 0
}

// PlaceBet validates and creates a new bet. Preconditions are checked in
// order, first failure wins, and any failure leaves all state untouched.
// On success the stake has moved into custody and the bet is pending.
func (s *Service) PlaceBet(ctx context.Context, bettor string, stake int64, pred model.Prediction, duration, observedPrice int64) (*model.Bet, error) {
	if !s.gate.AcceptingBets() {
		return nil, ErrBetsPaused
	}
	if stake < s.limits.MinStake || stake > s.limits.MaxStake {
		return nil, ErrInvalidStake
	}
	if duration < s.limits.MinDuration || duration > s.limits.MaxDuration {
		return nil, ErrInvalidDuration
	}
	if !pred.Valid() {
		return nil, ErrInvalidPrediction
	}
	if observedPrice <= 0 {
		return nil, ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	day := chain.DayBucket(now)

	pool, err := s.store.GetDayPool(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("load day pool: %w", err)
	}
	if err := s.limiter.Admit(pool, pred, stake); err != nil {
		return nil, err
	}

	// Lock the stake. This is the only step before the bet record exists
	// that can fail, and it fails atomically.
	if err := s.bank.Transfer(ctx, bettor, s.custody, stake); err != nil {
		if errors.Is(err, bank.ErrInsufficientFunds) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	bet := &model.Bet{
		ID:         s.counters.NextBetID,
		Bettor:     bettor,
		Stake:      stake,
		Prediction: pred,
		StartPrice: observedPrice,
		Duration:   duration,
		CreatedAt:  now,
		ExpiresAt:  now + duration,
		Outcome:    model.OutcomePending,
	}

	if err := s.store.InsertBet(ctx, bet); err != nil {
		// Undo the stake lock so the failed placement commits nothing.
		if rbErr := s.bank.Transfer(ctx, s.custody, bettor, stake); rbErr != nil {
			slog.Error("stake rollback failed", "bet_id", bet.ID, "bettor", bettor, "err", rbErr)
		}
		return nil, fmt.Errorf("insert bet: %w", err)
	}

	risk.Record(pool, pred, stake)
	if err := s.store.PutDayPool(ctx, pool); err != nil {
		return nil, fmt.Errorf("update day pool: %w", err)
	}

	st, err := s.store.GetStats(ctx, bettor)
	if errors.Is(err, store.ErrNotFound) {
		st = stats.NewAccount(bettor)
	} else if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	stats.ApplyPlacement(st, stake, now)
	if err := s.store.PutStats(ctx, st); err != nil {
		return nil, fmt.Errorf("update stats: %w", err)
	}

	point := model.PricePoint{
		Timestamp:  now,
		Price:      observedPrice,
		Source:     bettor,
		Block:      s.block(),
		Confidence: model.MaxConfidence,
	}
	s.feed.Record(point)
	if err := s.store.RecordPrice(ctx, point); err != nil {
		return nil, fmt.Errorf("record price: %w", err)
	}

	s.counters.NextBetID++
	s.counters.TotalBets++
	s.counters.TotalVolume += stake
	if err := s.store.PutCounters(ctx, &s.counters); err != nil {
		return nil, fmt.Errorf("update counters: %w", err)
	}

	slog.Info("bet placed",
		"bet_id", bet.ID,
		"bettor", bettor,
		"prediction", pred,
		"stake", stake,
		"start_price", observedPrice,
		"expires_at", bet.ExpiresAt,
	)

	if s.wsHub != nil {
		s.wsHub.Broadcast(WSMessage{
			Type:       "bet_placed",
			BetID:      bet.ID,
			Bettor:     bettor,
			Prediction: string(pred),
			Stake:      stake,
			Price:      observedPrice,
		})
	}

	return bet, nil
}

// ResolveBet settles an expired pending bet against the submitted final
// price. Resolution is permissionless: any caller may resolve once the
// deadline has passed. The disbursement and the state update succeed or
// fail together.
func (s *Service) ResolveBet(ctx context.Context, id, finalPrice int64, resolver string) (*model.Bet, error) {
	if finalPrice <= 0 {
		return nil, ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bet, err := s.store.GetBet(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrBetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load bet: %w", err)
	}
	if bet.Resolved {
		return nil, ErrAlreadyResolved
	}

	now := s.clock.Now()
	if !bet.Expired(now) {
		return nil, ErrNotExpired
	}

	outcome := payout.Settle(bet.Prediction, bet.StartPrice, finalPrice)
	pay, house := s.calc.Disburse(bet.Stake, outcome)

	// Disburse before marking: if custody cannot cover the payout the
	// resolution must not be considered complete.
	if pay > 0 {
		if err := s.bank.Transfer(ctx, s.custody, bet.Bettor, pay); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
		}
	}

	if err := s.store.MarkResolved(ctx, id, finalPrice, outcome, pay, now); err != nil {
		if pay > 0 {
			if rbErr := s.bank.Transfer(ctx, bet.Bettor, s.custody, pay); rbErr != nil {
				slog.Error("payout rollback failed", "bet_id", id, "err", rbErr)
			}
		}
		return nil, fmt.Errorf("mark resolved: %w", err)
	}

	st, err := s.store.GetStats(ctx, bet.Bettor)
	if err != nil {
		// onPlace always precedes onResolve for an account; a missing
		// record here is a broken invariant, not a user error.
		return nil, fmt.Errorf("load stats for %s: %w", bet.Bettor, err)
	}
	stats.ApplyResolution(st, outcome, pay, bet.Stake)
	if err := s.store.PutStats(ctx, st); err != nil {
		return nil, fmt.Errorf("update stats: %w", err)
	}

	// House balance is credited only here: the fee on a win, the whole
	// stake on a loss, nothing on a draw.
	s.counters.HouseBalance += house
	if err := s.store.PutCounters(ctx, &s.counters); err != nil {
		return nil, fmt.Errorf("update counters: %w", err)
	}

	point := model.PricePoint{
		Timestamp:  now,
		Price:      finalPrice,
		Source:     resolver,
		Block:      s.block(),
		Confidence: model.MaxConfidence,
	}
	s.feed.Record(point)
	if err := s.store.RecordPrice(ctx, point); err != nil {
		return nil, fmt.Errorf("record price: %w", err)
	}

	fp := finalPrice
	ra := now
	bet.FinalPrice = &fp
	bet.Outcome = outcome
	bet.Payout = pay
	bet.Resolved = true
	bet.ResolvedAt = &ra

	slog.Info("bet resolved",
		"bet_id", id,
		"bettor", bet.Bettor,
		"outcome", outcome,
		"payout", pay,
		"house_credit", house,
		"final_price", finalPrice,
	)

	if s.wsHub != nil {
		s.wsHub.Broadcast(WSMessage{
			Type:       "bet_resolved",
			BetID:      id,
			Bettor:     bet.Bettor,
			Prediction: string(bet.Prediction),
			Stake:      bet.Stake,
			Outcome:    string(outcome),
			Payout:     pay,
			Price:      finalPrice,
		})
	}

	return bet, nil
}

// SubmitPrice records a standalone observation into the price feed. Only
// the authorized feed role may submit, and the declared timestamp must be
// within the freshness window of the current derived time.
func (s *Service) SubmitPrice(ctx context.Context, source string, price, timestamp int64) error {
	if !s.gate.IsPriceFeed(source) {
		return ErrUnauthorizedFeed
	}
	if price <= 0 {
		return ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if timestamp == 0 {
		timestamp = now
	}
	if !s.feed.Fresh(timestamp, now) {
		return ErrStalePrice
	}

	point := model.PricePoint{
		Timestamp:  timestamp,
		Price:      price,
		Source:     source,
		Block:      s.block(),
		Confidence: model.MaxConfidence,
	}
	s.feed.Record(point)
	if err := s.store.RecordPrice(ctx, point); err != nil {
		return fmt.Errorf("record price: %w", err)
	}

	slog.Info("price submitted", "source", source, "price", price, "timestamp", timestamp)
	return nil
}

// GetBet returns a bet by id.
func (s *Service) GetBet(ctx context.Context, id int64) (*model.Bet, error) {
	bet, err := s.store.GetBet(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrBetNotFound
	}
	return bet, err
}

// AccountStats returns an account's stats; accounts that never bet get a
// zeroed record.
func (s *Service) AccountStats(ctx context.Context, account string) (*model.AccountStats, error) {
	st, err := s.store.GetStats(ctx, account)
	if errors.Is(err, store.ErrNotFound) {
		return stats.NewAccount(account), nil
	}
	return st, err
}

// PoolForDay returns the day bucket containing ts (absent buckets zeroed).
func (s *Service) PoolForDay(ctx context.Context, ts int64) (*model.DailyPool, error) {
	return s.store.GetDayPool(ctx, chain.DayBucket(ts))
}

// ExpiredBets lists unresolved bets whose deadline has passed at the
// current derived time. Anyone may resolve them.
func (s *Service) ExpiredBets(ctx context.Context) ([]model.Bet, error) {
	pending, err := s.store.ListUnresolved(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()

	expired := pending[:0]
	for _, b := range pending {
		if b.Expired(now) {
			expired = append(expired, b)
		}
	}
	return expired, nil
}

// LatestPrice returns the most recent feed observation.
func (s *Service) LatestPrice() (model.PricePoint, error) {
	return s.feed.Latest(s.clock.Now())
}

// Counters returns a snapshot of the global counters and house balance.
func (s *Service) Counters() model.Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters
}
