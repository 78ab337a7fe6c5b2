// Package payout implements the stateless settlement calculator: outcome
// derivation from prices and the fee/disbursement arithmetic.
//
// All math is integer-only with floor division. The fee always rounds
// down, so the truncated remainder stays with the winner and the house
// fee is never over-collected by rounding.
package payout

import (
	"errors"

	"github.com/updown/bet-engine/internal/model"
)

// BpsDenominator is the basis-point scale: fee rates are expressed out
// of 10,000.
const BpsDenominator int64 = 10000

// DefaultFeeBps is the baseline house fee: 3% of the doubled stake on a win.
const DefaultFeeBps int64 = 300

// ErrInvalidFeeRate is returned when the fee rate is outside [0, 10000).
var ErrInvalidFeeRate = errors.New("payout: fee rate must be in [0, 10000) basis points")

// Calculator computes fees and disbursements at a fixed basis-point rate.
// It is stateless — stake and outcome are passed as arguments, not stored.
type Calculator struct {
	feeBps int64
}

// NewCalculator creates a calculator with the given fee rate in basis points.
func NewCalculator(feeBps int64) (*Calculator, error) {
	if feeBps < 0 || feeBps >= BpsDenominator {
		return nil, ErrInvalidFeeRate
	}
	return &Calculator{feeBps: feeBps}, nil
}

// FeeBps returns the configured fee rate.
func (c *Calculator) FeeBps() int64 { return c.feeBps }

// Fee returns floor(amount * feeBps / 10000).
func (c *Calculator) Fee(amount int64) int64 {
	return amount * c.feeBps / BpsDenominator
}

// Disburse returns the amount paid to the bettor and the amount credited
// to the house for a given stake and outcome.
//
//	Win  → payout = 2*stake - fee(2*stake), house = fee(2*stake)
//	Draw → payout = stake (exact refund),   house = 0
//	Lose → payout = 0,                      house = stake
func (c *Calculator) Disburse(stake int64, outcome model.Outcome) (payout, house int64) {
	switch outcome {
	case model.OutcomeWin:
		gross := 2 * stake
		fee := c.Fee(gross)
		return gross - fee, fee
	case model.OutcomeDraw:
		return stake, 0
	default:
		return 0, stake
	}
}

// Settle derives the outcome of a bet from its stored start price, the
// submitted final price, and the prediction. Pure and deterministic.
//
// A move of less than 1% of the start price is a Draw. The comparison is
// cross-multiplied (diff*100 < start) so the 1% threshold is exact and
// never truncated by integer division.
func Settle(pred model.Prediction, startPrice, finalPrice int64) model.Outcome {
	diff := finalPrice - startPrice
	if diff < 0 {
		diff = -diff
	}
	if diff*100 < startPrice {
		return model.OutcomeDraw
	}
	if pred == model.PredictionRise && finalPrice > startPrice {
		return model.OutcomeWin
	}
	if pred == model.PredictionDrop && finalPrice < startPrice {
		return model.OutcomeWin
	}
	return model.OutcomeLose
}
