package payout

import (
	"testing"

	"github.com/updown/bet-engine/internal/model"
)

func mustCalc(t *testing.T, feeBps int64) *Calculator {
	t.Helper()
	c, err := NewCalculator(feeBps)
	if err != nil {
		t.Fatalf("NewCalculator(%d): %v", feeBps, err)
	}
	return c
}

func TestNewCalculator_InvalidRates(t *testing.T) {
	for _, bps := range []int64{-1, 10000, 20000} {
		if _, err := NewCalculator(bps); err != ErrInvalidFeeRate {
			t.Errorf("feeBps=%d: expected ErrInvalidFeeRate, got %v", bps, err)
		}
	}
}

func TestDisburse_Win(t *testing.T) {
	c := mustCalc(t, DefaultFeeBps)

	// 2*stake minus 3% of the doubled amount, floor-rounded.
	pay, house := c.Disburse(1_000_000, model.OutcomeWin)
	if pay != 1_940_000 {
		t.Errorf("expected payout 1940000, got %d", pay)
	}
	if house != 60_000 {
		t.Errorf("expected house fee 60000, got %d", house)
	}
}

func TestDisburse_WinFeeRoundsDown(t *testing.T) {
	c := mustCalc(t, DefaultFeeBps)

	// gross=2*17=34, fee=floor(34*300/10000)=floor(1.02)=1.
	pay, house := c.Disburse(17, model.OutcomeWin)
	if house != 1 {
		t.Errorf("expected fee 1, got %d", house)
	}
	if pay != 33 {
		t.Errorf("expected payout 33, got %d", pay)
	}
}

func TestDisburse_DrawRefundsExactly(t *testing.T) {
	c := mustCalc(t, DefaultFeeBps)

	pay, house := c.Disburse(1_000_000, model.OutcomeDraw)
	if pay != 1_000_000 {
		t.Errorf("draw must refund the stake exactly, got %d", pay)
	}
	if house != 0 {
		t.Errorf("draw must not credit the house, got %d", house)
	}
}

func TestDisburse_LoseForfeitsStake(t *testing.T) {
	c := mustCalc(t, DefaultFeeBps)

	pay, house := c.Disburse(1_000_000, model.OutcomeLose)
	if pay != 0 {
		t.Errorf("lose must pay nothing, got %d", pay)
	}
	if house != 1_000_000 {
		t.Errorf("lose must credit the full stake, got %d", house)
	}
}

func TestSettle(t *testing.T) {
	cases := []struct {
		name  string
		pred  model.Prediction
		start int64
		final int64
		want  model.Outcome
	}{
		{"rise up big", model.PredictionRise, 1000, 1100, model.OutcomeWin},
		{"rise down big", model.PredictionRise, 1000, 900, model.OutcomeLose},
		{"drop down big", model.PredictionDrop, 1000, 900, model.OutcomeWin},
		{"drop up big", model.PredictionDrop, 1000, 1100, model.OutcomeLose},
		{"small move is draw", model.PredictionRise, 1000, 1005, model.OutcomeDraw},
		{"small drop is draw", model.PredictionDrop, 1000, 995, model.OutcomeDraw},
		{"unchanged is draw", model.PredictionRise, 1000, 1000, model.OutcomeDraw},
		{"exactly 1% up wins rise", model.PredictionRise, 1000, 1010, model.OutcomeWin},
		{"exactly 1% down wins drop", model.PredictionDrop, 1000, 990, model.OutcomeWin},
		{"exactly 1% up loses drop", model.PredictionDrop, 1000, 1010, model.OutcomeLose},
		{"just under 1% is draw", model.PredictionRise, 1000, 1009, model.OutcomeDraw},
		// Odd start price: 1% of 1050 is 10.5, so a move of 10 is a draw
		// and a move of 11 is not.
		{"fractional threshold draw", model.PredictionRise, 1050, 1060, model.OutcomeDraw},
		{"fractional threshold win", model.PredictionRise, 1050, 1061, model.OutcomeWin},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Settle(tc.pred, tc.start, tc.final)
			if got != tc.want {
				t.Errorf("Settle(%s, %d, %d) = %s, want %s",
					tc.pred, tc.start, tc.final, got, tc.want)
			}
		})
	}
}

func TestFee_FloorDivision(t *testing.T) {
	c := mustCalc(t, 300)

	if got := c.Fee(10000); got != 300 {
		t.Errorf("Fee(10000) = %d, want 300", got)
	}
	if got := c.Fee(33); got != 0 {
		t.Errorf("Fee(33) = %d, want 0 (floor)", got)
	}
	if got := c.Fee(3_880_000); got != 116_400 {
		t.Errorf("Fee(3880000) = %d, want 116400", got)
	}
}
