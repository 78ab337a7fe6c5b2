package stats

import (
	"testing"

	"github.com/updown/bet-engine/internal/model"
)

func TestApplyPlacement(t *testing.T) {
	s := NewAccount("alice")

	ApplyPlacement(s, 1_000_000, 5000)
	ApplyPlacement(s, 2_000_000, 6000)

	if s.TotalBets != 2 {
		t.Errorf("expected 2 bets, got %d", s.TotalBets)
	}
	if s.TotalWagered != 3_000_000 {
		t.Errorf("expected wagered 3000000, got %d", s.TotalWagered)
	}
	if s.LastBetAt != 6000 {
		t.Errorf("expected last bet at 6000, got %d", s.LastBetAt)
	}
}

func TestApplyResolution_WinStreak(t *testing.T) {
	s := NewAccount("alice")

	ApplyResolution(s, model.OutcomeWin, 1_940_000, 1_000_000)
	ApplyResolution(s, model.OutcomeWin, 1_940_000, 1_000_000)

	if s.WinStreak != 2 || s.BestStreak != 2 {
		t.Errorf("expected streak 2/2, got %d/%d", s.WinStreak, s.BestStreak)
	}
	if s.TotalWon != 3_880_000 {
		t.Errorf("expected total won 3880000, got %d", s.TotalWon)
	}
}

func TestApplyResolution_LoseResetsStreak(t *testing.T) {
	s := NewAccount("alice")
	s.WinStreak = 3
	s.BestStreak = 3

	ApplyResolution(s, model.OutcomeLose, 0, 1_000_000)

	if s.WinStreak != 0 {
		t.Errorf("expected streak reset, got %d", s.WinStreak)
	}
	if s.BestStreak != 3 {
		t.Errorf("best streak must not decrease, got %d", s.BestStreak)
	}
	if s.TotalLost != 1_000_000 {
		t.Errorf("expected total lost 1000000, got %d", s.TotalLost)
	}
}

func TestApplyResolution_DrawCountsAsLoss(t *testing.T) {
	// The refunded stake still lands in TotalLost and resets the streak —
	// carried-over policy.
	s := NewAccount("alice")
	s.WinStreak = 2
	s.BestStreak = 2

	ApplyResolution(s, model.OutcomeDraw, 1_000_000, 1_000_000)

	if s.WinStreak != 0 {
		t.Errorf("draw must reset streak, got %d", s.WinStreak)
	}
	if s.TotalLost != 1_000_000 {
		t.Errorf("draw must add stake to total lost, got %d", s.TotalLost)
	}
	if s.TotalWon != 0 {
		t.Errorf("draw must not add to total won, got %d", s.TotalWon)
	}
}

func TestBestStreakHighWater(t *testing.T) {
	s := NewAccount("alice")

	outcomes := []model.Outcome{
		model.OutcomeWin, model.OutcomeWin, model.OutcomeWin,
		model.OutcomeLose,
		model.OutcomeWin,
	}
	for _, o := range outcomes {
		ApplyResolution(s, o, 100, 100)
		if s.BestStreak < s.WinStreak {
			t.Fatalf("invariant violated: best %d < current %d", s.BestStreak, s.WinStreak)
		}
	}

	if s.BestStreak != 3 {
		t.Errorf("expected best streak 3, got %d", s.BestStreak)
	}
	if s.WinStreak != 1 {
		t.Errorf("expected current streak 1, got %d", s.WinStreak)
	}
}
