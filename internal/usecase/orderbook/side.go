package orderbook

import (
	"sort"

	v1 "github.com/muhammadchandra19/orderbook/internal/domain/orderbook/v1"
)

// bookSide holds one side's price levels ordered best-first: descending for
// bids, ascending for asks. The sorted slice gives best-price access and
// ordered iteration for snapshots; the map gives O(1) level lookup for
// cancellation.
type bookSide struct {
	levels  []*v1.PriceLevel
	byPrice map[int64]*v1.PriceLevel
	desc    bool
}

func newBookSide(desc bool) *bookSide {
	return &bookSide{
		byPrice: make(map[int64]*v1.PriceLevel),
		desc:    desc,
	}
}

func (s *bookSide) empty() bool {
	return len(s.levels) == 0
}

// best returns the level at the side's best price, or nil when empty. Empty
// levels never survive an operation, so a non-nil result always has orders.
func (s *bookSide) best() *v1.PriceLevel {
	if len(s.levels) == 0 {
		return nil
	}
	return s.levels[0]
}

func (s *bookSide) level(price int64) *v1.PriceLevel {
	return s.byPrice[price]
}

// getOrCreate returns the level at price, creating it in sorted position
// when absent.
func (s *bookSide) getOrCreate(price int64) *v1.PriceLevel {
	if level, ok := s.byPrice[price]; ok {
		return level
	}

	level := v1.NewPriceLevel(price)
	pos := s.searchPos(price)
	s.levels = append(s.levels, nil)
	copy(s.levels[pos+1:], s.levels[pos:])
	s.levels[pos] = level
	s.byPrice[price] = level
	return level
}

// remove drops the level at price from both containers.
func (s *bookSide) remove(price int64) {
	if _, ok := s.byPrice[price]; !ok {
		return
	}

	pos := s.searchPos(price)
	s.levels = append(s.levels[:pos], s.levels[pos+1:]...)
	delete(s.byPrice, price)
}

// searchPos returns the index of the level at price, or where it would be
// inserted to keep the slice ordered best-first.
func (s *bookSide) searchPos(price int64) int {
	if s.desc {
		return sort.Search(len(s.levels), func(i int) bool {
			return s.levels[i].Price <= price
		})
	}
	return sort.Search(len(s.levels), func(i int) bool {
		return s.levels[i].Price >= price
	})
}
