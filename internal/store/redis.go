package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/updown/bet-engine/internal/model"
)

// CachedStore wraps a primary Store (PostgreSQL) with a Redis read-through
// cache for bet and stats reads. Writes go to the primary store and
// invalidate the cache; reads check Redis first then fall back.
type CachedStore struct {
	primary Store
	rdb     *redis.Client
	ttl     time.Duration
}

// NewCachedStore creates a cached wrapper around a primary store.
func NewCachedStore(primary Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{
		primary: primary,
		rdb:     rdb,
		ttl:     ttl,
	}
}

// --- Write-through (write to primary, invalidate cache) ---

func (s *CachedStore) InsertBet(ctx context.Context, b *model.Bet) error {
	if err := s.primary.InsertBet(ctx, b); err != nil {
		return err
	}
	s.cacheBet(ctx, b)
	return nil
}

func (s *CachedStore) MarkResolved(ctx context.Context, id, finalPrice int64, outcome model.Outcome, payout, resolvedAt int64) error {
	if err := s.primary.MarkResolved(ctx, id, finalPrice, outcome, payout, resolvedAt); err != nil {
		return err
	}
	// Invalidate; next read re-populates with the resolved record.
	s.rdb.Del(ctx, betKey(id))
	return nil
}

func (s *CachedStore) PutStats(ctx context.Context, st *model.AccountStats) error {
	if err := s.primary.PutStats(ctx, st); err != nil {
		return err
	}
	s.rdb.Del(ctx, statsKey(st.Account))
	return nil
}

// --- Read-through (check cache first) ---

func (s *CachedStore) GetBet(ctx context.Context, id int64) (*model.Bet, error) {
	data, err := s.rdb.Get(ctx, betKey(id)).Bytes()
	if err == nil {
		var b model.Bet
		if json.Unmarshal(data, &b) == nil {
			return &b, nil
		}
	}

	// Cache miss: read from primary.
	b, err := s.primary.GetBet(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheBet(ctx, b)
	return b, nil
}

func (s *CachedStore) GetStats(ctx context.Context, account string) (*model.AccountStats, error) {
	data, err := s.rdb.Get(ctx, statsKey(account)).Bytes()
	if err == nil {
		var st model.AccountStats
		if json.Unmarshal(data, &st) == nil {
			return &st, nil
		}
	}

	st, err := s.primary.GetStats(ctx, account)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(st); err == nil {
		s.rdb.Set(ctx, statsKey(account), data, s.ttl)
	}
	return st, nil
}

// --- Passthrough (not cached) ---

func (s *CachedStore) ListUnresolved(ctx context.Context) ([]model.Bet, error) {
	return s.primary.ListUnresolved(ctx)
}

func (s *CachedStore) GetDayPool(ctx context.Context, day int64) (*model.DailyPool, error) {
	return s.primary.GetDayPool(ctx, day)
}

func (s *CachedStore) PutDayPool(ctx context.Context, p *model.DailyPool) error {
	return s.primary.PutDayPool(ctx, p)
}

func (s *CachedStore) RecordPrice(ctx context.Context, p model.PricePoint) error {
	return s.primary.RecordPrice(ctx, p)
}

func (s *CachedStore) GetCounters(ctx context.Context) (*model.Counters, error) {
	return s.primary.GetCounters(ctx)
}

func (s *CachedStore) PutCounters(ctx context.Context, c *model.Counters) error {
	return s.primary.PutCounters(ctx, c)
}

// --- Cache helpers ---

func (s *CachedStore) cacheBet(ctx context.Context, b *model.Bet) {
	if data, err := json.Marshal(b); err == nil {
		s.rdb.Set(ctx, betKey(b.ID), data, s.ttl)
	}
}

func betKey(id int64) string { return fmt.Sprintf("bet:%d", id) }

func statsKey(account string) string { return fmt.Sprintf("stats:%s", account) }
