// Package gate exposes the two access booleans the ledger consumes from
// its deployment environment: whether new bets are being accepted, and
// whether a caller is the authorized price feed. Pause audit logs and
// feed-role registration live outside this service.
package gate

import "sync"

// Gate answers the ledger's access questions.
type Gate interface {
	// AcceptingBets reports whether placement is currently allowed.
	AcceptingBets() bool

	// IsPriceFeed reports whether the account may submit prices.
	IsPriceFeed(account string) bool
}

// Memory is a Gate held in process memory, configured at startup.
type Memory struct {
	mu        sync.RWMutex
	accepting bool
	feeds     map[string]bool
}

// NewMemory creates a gate. Feeds lists the authorized price submitters.
func NewMemory(accepting bool, feeds ...string) *Memory {
	g := &Memory{accepting: accepting, feeds: make(map[string]bool)}
	for _, f := range feeds {
		g.feeds[f] = true
	}
	return g
}

func (g *Memory) AcceptingBets() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.accepting
}

func (g *Memory) IsPriceFeed(account string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.feeds[account]
}

// SetAccepting toggles bet acceptance.
func (g *Memory) SetAccepting(accepting bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.accepting = accepting
}

// AuthorizeFeed grants an account the price-feed role.
func (g *Memory) AuthorizeFeed(account string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.feeds[account] = true
}
