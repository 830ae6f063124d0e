package tradepublisherv1

import (
	"time"

	"github.com/oklog/ulid/v2"

	orderbookv1 "github.com/muhammadchandra19/orderbook/internal/domain/orderbook/v1"
)

// TradeLeg is one side's participation in an execution. Price is the leg's
// own order price, which differ between the legs when the taker crossed the
// spread.
type TradeLeg struct {
	OrderID  uint64 `json:"order_id"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

// TradeEvent is the wire form of one execution on the trades topic.
type TradeEvent struct {
	ExecutionID string    `json:"execution_id"`
	Pair        string    `json:"pair"`
	Bid         TradeLeg  `json:"bid"`
	Ask         TradeLeg  `json:"ask"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewTradeEvent stamps a book trade with a fresh execution id and timestamp.
func NewTradeEvent(pair string, trade orderbookv1.Trade) *TradeEvent {
	return &TradeEvent{
		ExecutionID: ulid.Make().String(),
		Pair:        pair,
		Bid: TradeLeg{
			OrderID:  trade.Bid.OrderID,
			Price:    trade.Bid.Price,
			Quantity: trade.Bid.Quantity,
		},
		Ask: TradeLeg{
			OrderID:  trade.Ask.OrderID,
			Price:    trade.Ask.Price,
			Quantity: trade.Ask.Quantity,
		},
		OccurredAt: time.Now().UTC(),
	}
}
