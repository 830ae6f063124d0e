package tradepublisherv1

import (
	"context"

	orderbookv1 "github.com/muhammadchandra19/orderbook/internal/domain/orderbook/v1"
)

// Publisher defines the interface for publishing trade executions.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=tradepublisherv1_mock
type Publisher interface {
	// PublishTrades publishes one event per trade to the trades topic
	PublishTrades(ctx context.Context, pair string, trades []orderbookv1.Trade) error
	// Close closes the publisher
	Close() error
}
