package feed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	marketdatav1 "github.com/muhammadchandra19/orderbook/internal/domain/marketdata/v1"
	orderbookv1 "github.com/muhammadchandra19/orderbook/internal/domain/orderbook/v1"
	snapshotv1 "github.com/muhammadchandra19/orderbook/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/orderbook/internal/render"
	"github.com/muhammadchandra19/orderbook/internal/usecase/strategy"
	"github.com/muhammadchandra19/orderbook/pkg/logger"
)

// Feed mirrors a brokerage quote stream into the book. Each tick replaces the
// previous tick's synthetic top-of-book orders with fresh ones built from the
// latest quote, renders the book, and runs the spread strategy over it.
//
// The venue exposes quotes, not full depth, so the book carries at most one
// order per side at any time.
type Feed struct {
	marketData    marketdatav1.Client
	orderbook     orderbookv1.Orderbook
	strategy      *strategy.SpreadStrategy
	snapshotStore snapshotv1.Store
	out           io.Writer
	logger        *logger.Logger
	config        *Config

	nextOrderID uint64
	bidID       uint64
	askID       uint64
}

// NewFeed creates a feed. The snapshot store may be nil, in which case the
// book is only rendered, never published.
func NewFeed(
	marketData marketdatav1.Client,
	orderbook orderbookv1.Orderbook,
	spreadStrategy *strategy.SpreadStrategy,
	snapshotStore snapshotv1.Store,
	out io.Writer,
	logger *logger.Logger,
	config *Config,
) *Feed {
	return &Feed{
		marketData:    marketData,
		orderbook:     orderbook,
		strategy:      spreadStrategy,
		snapshotStore: snapshotStore,
		out:           out,
		logger:        logger,
		config:        config,
	}
}

// Run verifies the venue connection, reports account and market state, then
// polls quotes until the context is canceled or the configured number of
// iterations completes.
func (f *Feed) Run(ctx context.Context) error {
	if err := f.marketData.TestConnection(ctx); err != nil {
		f.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "test_connection"})
		return err
	}
	f.logger.Info("connected to market data", logger.Field{Key: "symbol", Value: f.config.Symbol})

	f.logStartupInfo(ctx)

	ticker := time.NewTicker(f.config.Interval)
	defer ticker.Stop()

	for iteration := 1; ; iteration++ {
		fmt.Fprintf(f.out, "═══ Update %d ═══\n", iteration)
		f.refresh(ctx, int64(iteration))

		if f.config.Iterations > 0 && iteration >= f.config.Iterations {
			f.logger.Info("feed finished", logger.Field{Key: "iterations", Value: iteration})
			return nil
		}

		select {
		case <-ctx.Done():
			f.logger.Info("feed canceled", logger.Field{Key: "iterations", Value: iteration})
			return nil
		case <-ticker.C:
		}
	}
}

// logStartupInfo reports account, clock and position state. These are
// informational: failures are logged and the feed carries on.
func (f *Feed) logStartupInfo(ctx context.Context) {
	if account, err := f.marketData.GetAccount(ctx); err != nil {
		f.logger.WarnContext(ctx, "could not fetch account", logger.Field{Key: "error", Value: err.Error()})
	} else {
		f.logger.Info("account",
			logger.Field{Key: "equity", Value: account.Equity.StringFixed(2)},
			logger.Field{Key: "buyingPower", Value: account.BuyingPower.StringFixed(2)},
		)
	}

	if clock, err := f.marketData.GetClock(ctx); err != nil {
		f.logger.WarnContext(ctx, "could not fetch market clock", logger.Field{Key: "error", Value: err.Error()})
	} else {
		status := "closed"
		if clock.IsOpen {
			status = "open"
		}
		f.logger.Info("market status",
			logger.Field{Key: "status", Value: status},
			logger.Field{Key: "nextOpen", Value: clock.NextOpen},
			logger.Field{Key: "nextClose", Value: clock.NextClose},
		)
	}

	if positions, err := f.marketData.GetPositions(ctx); err != nil {
		f.logger.WarnContext(ctx, "could not fetch positions", logger.Field{Key: "error", Value: err.Error()})
	} else {
		f.logger.Info("open positions", logger.Field{Key: "count", Value: len(positions)})
	}
}

// refresh pulls one quote and rebuilds the synthetic book around it. A failed
// fetch skips the tick; the previous book stays on screen.
func (f *Feed) refresh(ctx context.Context, sequence int64) {
	quote, err := f.marketData.GetLatestQuote(ctx, f.config.Symbol)
	if err != nil {
		f.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "fetch_quote"})
		return
	}

	hundred := decimal.NewFromInt(100)
	bidPrice := quote.BidPrice.Mul(hundred).IntPart()
	askPrice := quote.AskPrice.Mul(hundred).IntPart()

	f.replaceSyntheticOrders(bidPrice, quote.BidSize, askPrice, quote.AskSize)

	snap := f.orderbook.GetLevelSnapshot()
	render.Book(f.out, f.config.Symbol, snap, f.config.Depth)
	f.analyze(snap)

	if f.snapshotStore == nil {
		return
	}

	bookSnapshot := &snapshotv1.BookSnapshot{
		Pair:     f.config.Symbol,
		TakenAt:  time.Now().UTC(),
		Orders:   f.orderbook.Size(),
		Sequence: sequence,
		Levels:   snap,
	}
	if err := f.snapshotStore.Save(ctx, bookSnapshot); err != nil {
		f.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "store_snapshot"})
	}
}

// replaceSyntheticOrders swaps the previous quote's orders for the new
// quote's, bid first. A side with no price or size is left empty.
func (f *Feed) replaceSyntheticOrders(bidPrice, bidSize, askPrice, askSize int64) {
	if f.bidID != 0 {
		f.orderbook.CancelOrder(f.bidID)
		f.bidID = 0
	}
	if f.askID != 0 {
		f.orderbook.CancelOrder(f.askID)
		f.askID = 0
	}

	if bidPrice > 0 && bidSize > 0 {
		f.nextOrderID++
		f.orderbook.AddOrder(orderbookv1.NewOrder(f.nextOrderID, orderbookv1.SideBuy, orderbookv1.GoodTillCancel, bidPrice, bidSize))
		f.bidID = f.nextOrderID
	}
	if askPrice > 0 && askSize > 0 {
		f.nextOrderID++
		f.orderbook.AddOrder(orderbookv1.NewOrder(f.nextOrderID, orderbookv1.SideSell, orderbookv1.GoodTillCancel, askPrice, askSize))
		f.askID = f.nextOrderID
	}
}

// analyze runs the spread strategy over the book's top and renders the result.
func (f *Feed) analyze(snap orderbookv1.Snapshot) {
	var bestBid, bestAsk decimal.Decimal
	if len(snap.Bids) > 0 {
		bestBid = decimal.New(snap.Bids[0].Price, -2)
	}
	if len(snap.Asks) > 0 {
		bestAsk = decimal.New(snap.Asks[0].Price, -2)
	}

	analysis, err := f.strategy.Analyze(bestBid, bestAsk)
	if err != nil {
		render.Analysis(f.out, nil)
		return
	}
	render.Analysis(f.out, analysis)
}
