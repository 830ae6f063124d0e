package marketdatav1

import "context"

// Client defines the interface for talking to the market data and trading
// venue.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=marketdatav1_mock
type Client interface {
	// TestConnection verifies the credentials with a cheap probe
	TestConnection(ctx context.Context) error
	// GetAccount returns the trading account
	GetAccount(ctx context.Context) (*Account, error)
	// GetLatestQuote returns the latest top-of-book quote for the symbol
	GetLatestQuote(ctx context.Context, symbol string) (*Quote, error)
	// GetClock returns the venue's market clock
	GetClock(ctx context.Context) (*Clock, error)
	// GetPositions returns the account's open positions
	GetPositions(ctx context.Context) ([]Position, error)
	// PlaceOrder submits an order to the venue
	PlaceOrder(ctx context.Context, request OrderRequest) (*PlacedOrder, error)
	// CancelOrder cancels a working order by venue id
	CancelOrder(ctx context.Context, id string) error
	// GetOpenOrders returns the account's working orders
	GetOpenOrders(ctx context.Context) ([]PlacedOrder, error)
}
