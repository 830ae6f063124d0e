package marketdatav1

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// OrderSideBuy buys the symbol.
	OrderSideBuy = "buy"
	// OrderSideSell sells the symbol.
	OrderSideSell = "sell"

	// OrderTypeMarket executes at the venue's current price.
	OrderTypeMarket = "market"
	// OrderTypeLimit executes at the limit price or better.
	OrderTypeLimit = "limit"

	// TimeInForceDay keeps the order working until the session closes.
	TimeInForceDay = "day"
	// TimeInForceGTC keeps the order working until canceled.
	TimeInForceGTC = "gtc"
)

// Account is the trading account as the venue reports it. Money fields come
// over the wire as decimal strings.
type Account struct {
	ID            string          `json:"id"`
	AccountNumber string          `json:"account_number"`
	Status        string          `json:"status"`
	Currency      string          `json:"currency"`
	Cash          decimal.Decimal `json:"cash"`
	Equity        decimal.Decimal `json:"equity"`
	BuyingPower   decimal.Decimal `json:"buying_power"`
}

// Quote is the latest top-of-book quote for one symbol. The short field names
// are the venue's own.
type Quote struct {
	Symbol    string          `json:"symbol"`
	BidPrice  decimal.Decimal `json:"bp"`
	BidSize   int64           `json:"bs"`
	AskPrice  decimal.Decimal `json:"ap"`
	AskSize   int64           `json:"as"`
	Timestamp time.Time       `json:"t"`
}

// Clock is the venue's market clock.
type Clock struct {
	Timestamp time.Time `json:"timestamp"`
	IsOpen    bool      `json:"is_open"`
	NextOpen  time.Time `json:"next_open"`
	NextClose time.Time `json:"next_close"`
}

// Position is one open position in the account.
type Position struct {
	Symbol        string          `json:"symbol"`
	Qty           decimal.Decimal `json:"qty"`
	AvgEntryPrice decimal.Decimal `json:"avg_entry_price"`
	MarketValue   decimal.Decimal `json:"market_value"`
	UnrealizedPL  decimal.Decimal `json:"unrealized_pl"`
}

// OrderRequest is an order submission.
type OrderRequest struct {
	Symbol      string           `json:"symbol"`
	Qty         decimal.Decimal  `json:"qty"`
	Side        string           `json:"side"`
	Type        string           `json:"type"`
	TimeInForce string           `json:"time_in_force"`
	LimitPrice  *decimal.Decimal `json:"limit_price,omitempty"`
}

// LimitOrderRequest builds a day limit order submission.
func LimitOrderRequest(symbol string, qty decimal.Decimal, side string, limitPrice decimal.Decimal) OrderRequest {
	return OrderRequest{
		Symbol:      symbol,
		Qty:         qty,
		Side:        side,
		Type:        OrderTypeLimit,
		TimeInForce: TimeInForceDay,
		LimitPrice:  &limitPrice,
	}
}

// MarketOrderRequest builds a day market order submission.
func MarketOrderRequest(symbol string, qty decimal.Decimal, side string) OrderRequest {
	return OrderRequest{
		Symbol:      symbol,
		Qty:         qty,
		Side:        side,
		Type:        OrderTypeMarket,
		TimeInForce: TimeInForceDay,
	}
}

// PlacedOrder is the venue's record of a submitted order.
type PlacedOrder struct {
	ID            string           `json:"id"`
	ClientOrderID string           `json:"client_order_id"`
	Symbol        string           `json:"symbol"`
	Qty           decimal.Decimal  `json:"qty"`
	FilledQty     decimal.Decimal  `json:"filled_qty"`
	Side          string           `json:"side"`
	Type          string           `json:"type"`
	TimeInForce   string           `json:"time_in_force"`
	LimitPrice    *decimal.Decimal `json:"limit_price,omitempty"`
	Status        string           `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
}
