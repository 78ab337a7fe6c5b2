package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/updown/bet-engine/internal/model"
)

// MemoryStore implements Store with in-memory maps. Used for testing
// and development. Not suitable for production (no persistence).
type MemoryStore struct {
	mu       sync.RWMutex
	bets     map[int64]*model.Bet
	stats    map[string]*model.AccountStats
	pools    map[int64]*model.DailyPool
	prices   map[int64]model.PricePoint
	counters model.Counters
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bets:   make(map[int64]*model.Bet),
		stats:  make(map[string]*model.AccountStats),
		pools:  make(map[int64]*model.DailyPool),
		prices: make(map[int64]model.PricePoint),
	}
}

func (s *MemoryStore) InsertBet(_ context.Context, bet *model.Bet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bets[bet.ID]; exists {
		return fmt.Errorf("bet %d already exists", bet.ID)
	}

	// Store a copy to avoid external mutation.
	copy := *bet
	s.bets[bet.ID] = &copy
	return nil
}

func (s *MemoryStore) GetBet(_ context.Context, id int64) (*model.Bet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bets[id]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *b
	return &copy, nil
}

func (s *MemoryStore) MarkResolved(_ context.Context, id, finalPrice int64, outcome model.Outcome, payout, resolvedAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bets[id]
	if !ok {
		return ErrNotFound
	}
	fp := finalPrice
	ra := resolvedAt
	b.FinalPrice = &fp
	b.Outcome = outcome
	b.Payout = payout
	b.Resolved = true
	b.ResolvedAt = &ra
	return nil
}

func (s *MemoryStore) ListUnresolved(_ context.Context) ([]model.Bet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Bet
	for _, b := range s.bets {
		if !b.Resolved {
			out = append(out, *b)
		}
	}
	// Oldest first; map iteration order is random.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].ID < out[j-1].ID; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (s *MemoryStore) GetStats(_ context.Context, account string) (*model.AccountStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.stats[account]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *st
	return &copy, nil
}

func (s *MemoryStore) PutStats(_ context.Context, st *model.AccountStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *st
	s.stats[st.Account] = &copy
	return nil
}

func (s *MemoryStore) GetDayPool(_ context.Context, day int64) (*model.DailyPool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pools[day]
	if !ok {
		return &model.DailyPool{Day: day}, nil
	}
	copy := *p
	return &copy, nil
}

func (s *MemoryStore) PutDayPool(_ context.Context, p *model.DailyPool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *p
	s.pools[p.Day] = &copy
	return nil
}

func (s *MemoryStore) RecordPrice(_ context.Context, p model.PricePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prices[p.Timestamp] = p
	return nil
}

func (s *MemoryStore) GetCounters(_ context.Context) (*model.Counters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copy := s.counters
	return &copy, nil
}

func (s *MemoryStore) PutCounters(_ context.Context, c *model.Counters) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters = *c
	return nil
}
