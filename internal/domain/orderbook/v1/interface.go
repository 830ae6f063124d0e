package orderbookv1

// LevelInfo is the aggregate view of one price level: the price and the sum
// of remaining quantities of every order resting there.
type LevelInfo struct {
	Price    int64 `json:"price"`
	Quantity int64 `json:"quantity"`
}

// Snapshot is the aggregate view of the whole book, both sides best-first.
type Snapshot struct {
	Bids []LevelInfo `json:"bids"`
	Asks []LevelInfo `json:"asks"`
}

// Orderbook maintains the resting interest of a single instrument and
// resolves crossing interest into trades under price-time priority.
//
// Implementations are sequential: callers must serialize access.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderbookv1_mock
type Orderbook interface {
	// AddOrder inserts an order and runs matching, returning the trades it
	// produced. Duplicate ids are ignored. An ImmediateOrCancel order that
	// cannot match anything on arrival is discarded without resting.
	AddOrder(order *Order) []Trade
	// CancelOrder removes a resting order. Unknown ids are ignored.
	CancelOrder(id uint64)
	// ModifyOrder cancels the identified order and reinserts it with the
	// requested side, price and quantity, keeping the original's type. The
	// replacement goes to the back of its level's queue and may trade
	// immediately. Unknown ids are ignored.
	ModifyOrder(request ModifyRequest) []Trade
	// Size returns the number of currently resting orders.
	Size() int
	// GetLevelSnapshot aggregates the book per price level, computed fresh
	// on every call.
	GetLevelSnapshot() Snapshot
}
