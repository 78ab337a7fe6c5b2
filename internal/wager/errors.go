package wager

import "errors"

// Errors are typed outcomes, not exceptions: every one is a local,
// recoverable rejection of a single operation and commits no state.
var (
	ErrBetsPaused        = errors.New("wager: not accepting bets")
	ErrInvalidStake      = errors.New("wager: stake outside configured bounds")
	ErrInvalidDuration   = errors.New("wager: duration outside configured bounds")
	ErrInvalidPrediction = errors.New("wager: prediction must be RISE or DROP")
	ErrInvalidPrice      = errors.New("wager: price must be positive")
	ErrBetNotFound       = errors.New("wager: bet not found")
	ErrAlreadyResolved   = errors.New("wager: bet already resolved")
	ErrNotExpired        = errors.New("wager: bet not yet expired")
	ErrTransferFailed    = errors.New("wager: fund transfer failed")
	ErrUnauthorizedFeed  = errors.New("wager: caller is not an authorized price feed")
	ErrStalePrice        = errors.New("wager: price observation is stale")
)
