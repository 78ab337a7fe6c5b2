package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/updown/bet-engine/internal/model"
)

// PostgresStore implements Store using PostgreSQL as the source of truth.
// All monetary values are stored as BIGINT; the ledger's arithmetic is
// integer-exact so no NUMERIC precision is needed.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) InsertBet(ctx context.Context, b *model.Bet) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO bets (id, bettor, stake, prediction, start_price, duration,
		                   created_at, expires_at, outcome, resolved, payout)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		b.ID, b.Bettor, b.Stake, string(b.Prediction), b.StartPrice, b.Duration,
		b.CreatedAt, b.ExpiresAt, string(b.Outcome), b.Resolved, b.Payout,
	)
	return err
}

func (s *PostgresStore) GetBet(ctx context.Context, id int64) (*model.Bet, error) {
	var b model.Bet
	var prediction, outcome string

	err := s.pool.QueryRow(ctx,
		`SELECT id, bettor, stake, prediction, start_price, final_price, duration,
		        created_at, expires_at, outcome, resolved, resolved_at, payout
		 FROM bets WHERE id = $1`, id).
		Scan(&b.ID, &b.Bettor, &b.Stake, &prediction, &b.StartPrice, &b.FinalPrice,
			&b.Duration, &b.CreatedAt, &b.ExpiresAt, &outcome, &b.Resolved,
			&b.ResolvedAt, &b.Payout)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get bet %d: %w", id, err)
	}

	b.Prediction = model.Prediction(prediction)
	b.Outcome = model.Outcome(outcome)
	return &b, nil
}

func (s *PostgresStore) MarkResolved(ctx context.Context, id, finalPrice int64, outcome model.Outcome, payout, resolvedAt int64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE bets
		 SET final_price = $2, outcome = $3, payout = $4,
		     resolved = TRUE, resolved_at = $5
		 WHERE id = $1 AND NOT resolved`,
		id, finalPrice, string(outcome), payout, resolvedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListUnresolved(ctx context.Context) ([]model.Bet, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, bettor, stake, prediction, start_price, final_price, duration,
		        created_at, expires_at, outcome, resolved, resolved_at, payout
		 FROM bets WHERE NOT resolved ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bets []model.Bet
	for rows.Next() {
		var b model.Bet
		var prediction, outcome string
		if err := rows.Scan(&b.ID, &b.Bettor, &b.Stake, &prediction, &b.StartPrice,
			&b.FinalPrice, &b.Duration, &b.CreatedAt, &b.ExpiresAt, &outcome,
			&b.Resolved, &b.ResolvedAt, &b.Payout); err != nil {
			return nil, err
		}
		b.Prediction = model.Prediction(prediction)
		b.Outcome = model.Outcome(outcome)
		bets = append(bets, b)
	}
	return bets, rows.Err()
}

func (s *PostgresStore) GetStats(ctx context.Context, account string) (*model.AccountStats, error) {
	var st model.AccountStats

	err := s.pool.QueryRow(ctx,
		`SELECT account, total_bets, total_wagered, total_won, total_lost,
		        win_streak, best_streak, last_bet_at
		 FROM account_stats WHERE account = $1`, account).
		Scan(&st.Account, &st.TotalBets, &st.TotalWagered, &st.TotalWon,
			&st.TotalLost, &st.WinStreak, &st.BestStreak, &st.LastBetAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get stats %s: %w", account, err)
	}
	return &st, nil
}

func (s *PostgresStore) PutStats(ctx context.Context, st *model.AccountStats) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO account_stats (account, total_bets, total_wagered, total_won,
		                            total_lost, win_streak, best_streak, last_bet_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (account) DO UPDATE SET
		   total_bets = EXCLUDED.total_bets,
		   total_wagered = EXCLUDED.total_wagered,
		   total_won = EXCLUDED.total_won,
		   total_lost = EXCLUDED.total_lost,
		   win_streak = EXCLUDED.win_streak,
		   best_streak = EXCLUDED.best_streak,
		   last_bet_at = EXCLUDED.last_bet_at`,
		st.Account, st.TotalBets, st.TotalWagered, st.TotalWon,
		st.TotalLost, st.WinStreak, st.BestStreak, st.LastBetAt,
	)
	return err
}

func (s *PostgresStore) GetDayPool(ctx context.Context, day int64) (*model.DailyPool, error) {
	var p model.DailyPool

	err := s.pool.QueryRow(ctx,
		`SELECT day, rise_volume, drop_volume, total_volume, bet_count
		 FROM daily_pools WHERE day = $1`, day).
		Scan(&p.Day, &p.RiseVolume, &p.DropVolume, &p.TotalVolume, &p.BetCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return &model.DailyPool{Day: day}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get day pool %d: %w", day, err)
	}
	return &p, nil
}

func (s *PostgresStore) PutDayPool(ctx context.Context, p *model.DailyPool) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO daily_pools (day, rise_volume, drop_volume, total_volume, bet_count)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (day) DO UPDATE SET
		   rise_volume = EXCLUDED.rise_volume,
		   drop_volume = EXCLUDED.drop_volume,
		   total_volume = EXCLUDED.total_volume,
		   bet_count = EXCLUDED.bet_count`,
		p.Day, p.RiseVolume, p.DropVolume, p.TotalVolume, p.BetCount,
	)
	return err
}

func (s *PostgresStore) RecordPrice(ctx context.Context, p model.PricePoint) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO price_points (timestamp, price, source, block, confidence)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (timestamp) DO UPDATE SET
		   price = EXCLUDED.price,
		   source = EXCLUDED.source,
		   block = EXCLUDED.block,
		   confidence = EXCLUDED.confidence`,
		p.Timestamp, p.Price, p.Source, p.Block, p.Confidence,
	)
	return err
}

func (s *PostgresStore) GetCounters(ctx context.Context) (*model.Counters, error) {
	var c model.Counters

	err := s.pool.QueryRow(ctx,
		`SELECT next_bet_id, total_bets, total_volume, house_balance
		 FROM counters WHERE id = 1`).
		Scan(&c.NextBetID, &c.TotalBets, &c.TotalVolume, &c.HouseBalance)
	if errors.Is(err, pgx.ErrNoRows) {
		return &model.Counters{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get counters: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) PutCounters(ctx context.Context, c *model.Counters) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO counters (id, next_bet_id, total_bets, total_volume, house_balance)
		 VALUES (1, $1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET
		   next_bet_id = EXCLUDED.next_bet_id,
		   total_bets = EXCLUDED.total_bets,
		   total_volume = EXCLUDED.total_volume,
		   house_balance = EXCLUDED.house_balance`,
		c.NextBetID, c.TotalBets, c.TotalVolume, c.HouseBalance,
	)
	return err
}
