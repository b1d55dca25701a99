package book

import (
	"math"
)

// Config tunes a Book's behavior.
type Config struct {
	// Depth bounds each side to at most this many aggregate levels.
	Depth int

	// SoftenOrderingViolations, when true, drops an unordered snapshot
	// and leaves the book unchanged instead of returning a fatal
	// *ContractViolation. Intended for exchanges known to occasionally
	// send a malformed snapshot; off by default because an ordering
	// break usually means a decoder bug worth surfacing.
	SoftenOrderingViolations bool
}

// Book is the consolidated, per-subscriber order book: two
// independently ordered, independently bounded sides.
type Book struct {
	cfg  Config
	bids *side
	asks *side
}

// New creates an empty book at the given configuration.
func New(cfg Config) *Book {
	if cfg.Depth <= 0 {
		cfg.Depth = DefaultDepth
	}
	return &Book{
		cfg:  cfg,
		bids: newSide(Descending, cfg.Depth),
		asks: newSide(Ascending, cfg.Depth),
	}
}

// Apply integrates a full snapshot from one exchange into both sides.
// A *ContractViolation is fatal unless Config.SoftenOrderingViolations
// is set, in which case the whole snapshot (both sides) is discarded and
// the book is left exactly as it was.
func (b *Book) Apply(u Update) error {
	if b.cfg.SoftenOrderingViolations && !(ordered(b.bids, u.Bids) && ordered(b.asks, u.Asks)) {
		return nil
	}
	if err := applySide(b.bids, u.Bids, u.Exchange, b.cfg.SoftenOrderingViolations); err != nil {
		return err
	}
	if err := applySide(b.asks, u.Asks, u.Exchange, b.cfg.SoftenOrderingViolations); err != nil {
		return err
	}
	return nil
}

func applySide(s *side, levels []ExchangeLevel, exchange ExchangeCode, soften bool) error {
	if !soften {
		return s.apply(levels, exchange)
	}

	saved := s.snapshot()
	if err := s.apply(levels, exchange); err != nil {
		if _, ok := err.(*ContractViolation); !ok {
			return err
		}
		s.restore(saved)
		return nil
	}
	return nil
}

// ordered reports whether levels respect s's ranking, the same check
// side.apply makes before it would return a *ContractViolation.
func ordered(s *side, levels []ExchangeLevel) bool {
	for k := 1; k < len(levels); k++ {
		if s.isBefore(levels[k].Price, levels[k-1].Price) {
			return false
		}
	}
	return true
}

// BestBids returns up to n bid exchange levels, descending by price and,
// within a price, descending by amount.
func (b *Book) BestBids(n int) []ExchangeLevel {
	return b.bids.top(n)
}

// BestAsks returns up to n ask exchange levels, ascending by price and,
// within a price, descending by amount.
func (b *Book) BestAsks(n int) []ExchangeLevel {
	return b.asks.top(n)
}

// Spread returns best-ask minus best-bid, or math.NaN() if either side
// is empty.
func (b *Book) Spread() float64 {
	bid, ok := b.bids.best()
	if !ok {
		return math.NaN()
	}
	ask, ok := b.asks.best()
	if !ok {
		return math.NaN()
	}
	spread, _ := ask.Sub(bid).Float64()
	return spread
}

// BidCount and AskCount report current side lengths, mostly useful for
// tests and metrics.
func (b *Book) BidCount() int { return b.bids.len() }
func (b *Book) AskCount() int { return b.asks.len() }
