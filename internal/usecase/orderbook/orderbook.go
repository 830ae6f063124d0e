package orderbook

import (
	"fmt"

	v1 "github.com/muhammadchandra19/orderbook/internal/domain/orderbook/v1"
)

// Orderbook is the matching engine for a single instrument. It keeps the
// resting interest of both sides, an id index for O(1) cancellation, and
// resolves crossing interest into trades under price-time priority.
//
// All operations run to completion without blocking and without locks; the
// caller serializes access.
type Orderbook struct {
	bids   *bookSide
	asks   *bookSide
	orders map[uint64]*v1.Order
}

var _ v1.Orderbook = (*Orderbook)(nil)

// NewOrderbook creates an empty book.
func NewOrderbook() *Orderbook {
	return &Orderbook{
		bids:   newBookSide(true),
		asks:   newBookSide(false),
		orders: make(map[uint64]*v1.Order),
	}
}

// AddOrder inserts an order and runs the matching loop, returning the trades
// produced. A duplicate id is a no-op. An ImmediateOrCancel order that could
// not match anything right now is discarded before it ever enters the book.
func (ob *Orderbook) AddOrder(order *v1.Order) []v1.Trade {
	if order == nil {
		return nil
	}
	if _, ok := ob.orders[order.ID]; ok {
		return nil
	}
	if order.Type == v1.ImmediateOrCancel && !ob.canMatch(order.Side, order.Price) {
		return nil
	}

	ob.sideOf(order.Side).getOrCreate(order.Price).Enqueue(order)
	ob.orders[order.ID] = order

	return ob.match()
}

// CancelOrder removes a resting order. An unknown id is a no-op.
func (ob *Orderbook) CancelOrder(id uint64) {
	order, ok := ob.orders[id]
	if !ok {
		return
	}
	ob.unlink(order)
}

// ModifyOrder cancels the identified order and reinserts it with the
// requested side, price and quantity through the standard insertion path.
// The replacement keeps the original's type but always loses its queue
// position, even when only the quantity shrank. An unknown id is a no-op.
func (ob *Orderbook) ModifyOrder(request v1.ModifyRequest) []v1.Trade {
	existing, ok := ob.orders[request.ID]
	if !ok {
		return nil
	}

	orderType := existing.Type
	ob.unlink(existing)
	return ob.AddOrder(request.ToOrder(orderType))
}

// Size returns the number of currently resting orders.
func (ob *Orderbook) Size() int {
	return len(ob.orders)
}

// GetLevelSnapshot aggregates both sides per price level, best-first. The
// aggregates are computed from the live queues on every call.
func (ob *Orderbook) GetLevelSnapshot() v1.Snapshot {
	snapshot := v1.Snapshot{
		Bids: make([]v1.LevelInfo, 0, len(ob.bids.levels)),
		Asks: make([]v1.LevelInfo, 0, len(ob.asks.levels)),
	}

	for _, level := range ob.bids.levels {
		snapshot.Bids = append(snapshot.Bids, v1.LevelInfo{
			Price:    level.Price,
			Quantity: level.TotalQuantity(),
		})
	}
	for _, level := range ob.asks.levels {
		snapshot.Asks = append(snapshot.Asks, v1.LevelInfo{
			Price:    level.Price,
			Quantity: level.TotalQuantity(),
		})
	}

	return snapshot
}

// canMatch reports whether an order at price would cross the opposite side
// right now. This is the sole gate deciding whether an ImmediateOrCancel
// order may enter the book.
func (ob *Orderbook) canMatch(side v1.Side, price int64) bool {
	if side == v1.SideBuy {
		best := ob.asks.best()
		return best != nil && price >= best.Price
	}
	best := ob.bids.best()
	return best != nil && price <= best.Price
}

// match drains crossing interest. While the best bid price reaches the best
// ask price, the two best levels are worked front to front: each iteration
// fills both fronts by the smaller remaining quantity and records one trade
// with each side at its own price. Filled orders are popped and unindexed,
// emptied levels evicted immediately.
func (ob *Orderbook) match() []v1.Trade {
	var trades []v1.Trade

	for {
		if ob.bids.empty() || ob.asks.empty() {
			break
		}
		bidLevel := ob.bids.best()
		askLevel := ob.asks.best()
		if bidLevel.Price < askLevel.Price {
			break
		}

		for !bidLevel.Empty() && !askLevel.Empty() {
			bid := bidLevel.Front()
			ask := askLevel.Front()

			quantity := min(bid.RemainingQuantity, ask.RemainingQuantity)
			mustFill(bid, quantity)
			mustFill(ask, quantity)

			trades = append(trades, v1.Trade{
				Bid: v1.TradeInfo{OrderID: bid.ID, Price: bid.Price, Quantity: quantity},
				Ask: v1.TradeInfo{OrderID: ask.ID, Price: ask.Price, Quantity: quantity},
			})

			if bid.IsFilled() {
				bidLevel.Remove(bid)
				delete(ob.orders, bid.ID)
			}
			if ask.IsFilled() {
				askLevel.Remove(ask)
				delete(ob.orders, ask.ID)
			}
		}

		if bidLevel.Empty() {
			ob.bids.remove(bidLevel.Price)
		}
		if askLevel.Empty() {
			ob.asks.remove(askLevel.Price)
		}
	}

	// An ImmediateOrCancel order still at the top of either side is a
	// partial fill whose remainder must not rest.
	if !ob.bids.empty() {
		if front := ob.bids.best().Front(); front.Type == v1.ImmediateOrCancel {
			ob.unlink(front)
		}
	}
	if !ob.asks.empty() {
		if front := ob.asks.best().Front(); front.Type == v1.ImmediateOrCancel {
			ob.unlink(front)
		}
	}

	return trades
}

// unlink removes an order from its level's queue and the id index together,
// evicting the level when it empties. An order is either in both structures
// or in neither.
func (ob *Orderbook) unlink(order *v1.Order) {
	side := ob.sideOf(order.Side)
	level := side.level(order.Price)
	level.Remove(order)
	if level.Empty() {
		side.remove(order.Price)
	}
	delete(ob.orders, order.ID)
}

func (ob *Orderbook) sideOf(side v1.Side) *bookSide {
	if side == v1.SideBuy {
		return ob.bids
	}
	return ob.asks
}

// mustFill applies a fill the loop has already sized to fit both orders. A
// failure means the remaining-quantity ledger is broken, and continuing
// would corrupt matching, so it aborts.
func mustFill(order *v1.Order, quantity int64) {
	if err := order.Fill(quantity); err != nil {
		panic(fmt.Sprintf("orderbook: %v", err))
	}
}
