// Package book implements the consolidated order book: two independently
// ordered sides, each holding aggregate price levels that merge
// per-exchange contributions.
package book

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ExchangeCode identifies the exchange a level originated from. It is a
// short interned string, shared between an exchange's adapter and every
// aggregate level it ever contributes to — never allocated fresh per
// level.
type ExchangeCode string

// Ranking is the sort order a Side enforces.
type Ranking int

const (
	// Descending ranks higher prices first — the bid side.
	Descending Ranking = iota
	// Ascending ranks lower prices first — the ask side.
	Ascending
)

// DefaultDepth is the system-wide top-of-book depth.
const DefaultDepth = 10

// ExchangeLevel is a single (price, amount) quote tagged with its origin
// exchange.
type ExchangeLevel struct {
	Exchange ExchangeCode
	Price    decimal.Decimal
	Amount   decimal.Decimal
}

// Update is a full top-of-book snapshot from one exchange at one
// instant: its bid levels high to low and its ask levels low to high.
type Update struct {
	Exchange ExchangeCode
	Bids     []ExchangeLevel
	Asks     []ExchangeLevel
}

// ContractViolation marks a snapshot that broke the ordering contract
// the cursor-walk algorithm depends on. It is not a transport or decode
// failure: it means the exchange (or its decoder) sent an unordered
// snapshot, and the aggregate book that observed it can no longer be
// trusted.
type ContractViolation struct {
	Exchange ExchangeCode
	Side     Ranking
	Price    decimal.Decimal
	Prev     decimal.Decimal
}

func (e *ContractViolation) Error() string {
	side := "bid"
	if e.Side == Ascending {
		side = "ask"
	}
	return fmt.Sprintf("contract violation: %s side from %s: price %s is out of order after %s",
		side, e.Exchange, e.Price, e.Prev)
}
