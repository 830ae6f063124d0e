package orderbookv1

// TradeInfo is one side's view of a match: the resting order's own identity,
// its own price, and the quantity exchanged.
type TradeInfo struct {
	OrderID  uint64 `json:"orderId"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

// Trade records one matched pair of fills. There is no single clearing
// price: each side trades at its own resting price, so an aggressive order
// can be filled better than it asked.
type Trade struct {
	Bid TradeInfo `json:"bid"`
	Ask TradeInfo `json:"ask"`
}
