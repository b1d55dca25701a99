package book

import (
	"sort"

	"github.com/shopspring/decimal"
)

// aggregateLevel is a price at which one or more exchanges hold a
// quote. It is created on first appearance of a price and compacted
// away once its exchange mapping empties out.
type aggregateLevel struct {
	price     decimal.Decimal
	exchanges map[ExchangeCode]ExchangeLevel
}

func newAggregateLevel(l ExchangeLevel) *aggregateLevel {
	return &aggregateLevel{
		price:     l.Price,
		exchanges: map[ExchangeCode]ExchangeLevel{l.Exchange: l},
	}
}

func (a *aggregateLevel) clone() *aggregateLevel {
	cp := &aggregateLevel{
		price:     a.price,
		exchanges: make(map[ExchangeCode]ExchangeLevel, len(a.exchanges)),
	}
	for k, v := range a.exchanges {
		cp.exchanges[k] = v
	}
	return cp
}

// side is one half of the aggregate book: a strictly monotone, depth
// bounded list of aggregate levels.
type side struct {
	ranking Ranking
	depth   int
	levels  []*aggregateLevel
}

func newSide(ranking Ranking, depth int) *side {
	return &side{ranking: ranking, depth: depth}
}

// isBefore reports whether price a sorts ahead of price b under the
// side's ranking.
func (s *side) isBefore(a, b decimal.Decimal) bool {
	if s.ranking == Descending {
		return a.GreaterThan(b)
	}
	return a.LessThan(b)
}

func (s *side) snapshot() []*aggregateLevel {
	cp := make([]*aggregateLevel, len(s.levels))
	for i, lvl := range s.levels {
		cp[i] = lvl.clone()
	}
	return cp
}

func (s *side) restore(saved []*aggregateLevel) {
	s.levels = saved
}

// apply integrates one exchange's fresh snapshot for this side, per the
// cursor-walk algorithm: ordering check, cursor-at-end (append or stop
// at the depth cap), cursor-inside (insert / merge / withdraw), then a
// compaction pass that drops any level whose mapping emptied out.
func (s *side) apply(levels []ExchangeLevel, exchange ExchangeCode) error {
	i := 0
	havePrev := false
	var prevPrice decimal.Decimal

updates:
	for _, u := range levels {
		if havePrev && s.isBefore(u.Price, prevPrice) {
			return &ContractViolation{
				Exchange: exchange,
				Side:     s.ranking,
				Price:    u.Price,
				Prev:     prevPrice,
			}
		}
		prevPrice = u.Price
		havePrev = true

		for {
			if i == len(s.levels) {
				if len(s.levels) >= s.depth {
					// Remaining updates are beyond the depth cap.
					break updates
				}
				s.levels = append(s.levels, newAggregateLevel(u))
				i++
				continue updates
			}

			p := s.levels[i].price
			switch {
			case s.isBefore(u.Price, p):
				s.levels = append(s.levels, nil)
				copy(s.levels[i+1:], s.levels[i:])
				s.levels[i] = newAggregateLevel(u)
				if len(s.levels) > s.depth {
					// The insert pushed the last level past the depth cap.
					s.levels = s.levels[:s.depth]
				}
				i++
				continue updates

			case u.Price.Equal(p):
				s.levels[i].exchanges[exchange] = u
				i++
				continue updates

			default:
				// u.Price is strictly past p: this exchange no longer
				// lists anything at p (or any level between the cursor
				// and u.Price). Withdraw its contribution and retry u
				// at the new cursor.
				for i < len(s.levels) && s.isBefore(s.levels[i].price, u.Price) {
					delete(s.levels[i].exchanges, exchange)
					i++
				}
			}
		}
	}

	s.compact()
	return nil
}

func (s *side) compact() {
	out := s.levels[:0]
	for _, lvl := range s.levels {
		if len(lvl.exchanges) > 0 {
			out = append(out, lvl)
		}
	}
	s.levels = out
}

// top returns up to n exchange levels, iterating aggregate levels in
// side order and, within a level, the exchange contributions sorted by
// amount descending.
func (s *side) top(n int) []ExchangeLevel {
	out := make([]ExchangeLevel, 0, n)
	for _, lvl := range s.levels {
		if len(out) >= n {
			break
		}
		entries := make([]ExchangeLevel, 0, len(lvl.exchanges))
		for _, e := range lvl.exchanges {
			entries = append(entries, e)
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Amount.GreaterThan(entries[j].Amount)
		})
		for _, e := range entries {
			if len(out) >= n {
				break
			}
			out = append(out, e)
		}
	}
	return out
}

func (s *side) best() (decimal.Decimal, bool) {
	if len(s.levels) == 0 {
		return decimal.Decimal{}, false
	}
	return s.levels[0].price, true
}

func (s *side) len() int {
	return len(s.levels)
}
