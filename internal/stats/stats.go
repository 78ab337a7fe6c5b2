// Package stats mutates per-account wager bookkeeping. The functions are
// pure state transitions over a single AccountStats record; the wager
// service owns locking and persistence.
package stats

import "github.com/updown/bet-engine/internal/model"

// NewAccount returns the zeroed record created lazily on first bet.
func NewAccount(account string) *model.AccountStats {
	return &model.AccountStats{Account: account}
}

// ApplyPlacement records a newly placed bet.
func ApplyPlacement(s *model.AccountStats, stake, now int64) {
	s.TotalBets++
	s.TotalWagered += stake
	s.LastBetAt = now
}

// ApplyResolution records a resolved bet.
//
// A Draw takes the non-win path: the stake is added to TotalLost and the
// win streak resets, even though the stake itself is refunded. This is a
// deliberate carried-over policy, not an accounting bug.
func ApplyResolution(s *model.AccountStats, outcome model.Outcome, payout, stake int64) {
	if outcome == model.OutcomeWin {
		s.TotalWon += payout
		s.WinStreak++
		if s.WinStreak > s.BestStreak {
			s.BestStreak = s.WinStreak
		}
		return
	}
	s.TotalLost += stake
	s.WinStreak = 0
}
