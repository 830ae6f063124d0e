package engine

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	orderreaderv1 "github.com/muhammadchandra19/orderbook/internal/domain/order-reader/v1"
	orderbookv1 "github.com/muhammadchandra19/orderbook/internal/domain/orderbook/v1"
	snapshotv1 "github.com/muhammadchandra19/orderbook/internal/domain/snapshot/v1"
	tradepublisherv1 "github.com/muhammadchandra19/orderbook/internal/domain/trade-publisher/v1"
	"github.com/muhammadchandra19/orderbook/pkg/errors"
	"github.com/muhammadchandra19/orderbook/pkg/logger"
	"github.com/muhammadchandra19/orderbook/pkg/util"
)

// Engine consumes order events, applies them to the book, publishes the
// trades they produce, and periodically snapshots the book for watchers.
type Engine struct {
	// Core components
	orderbook      orderbookv1.Orderbook
	orderReader    orderreaderv1.Reader
	tradePublisher tradepublisherv1.Publisher
	snapshotStore  snapshotv1.Store
	logger         *logger.Logger
	config         *Config

	// mu serializes book mutation against snapshot capture and guards the
	// sequence counters.
	mu                   sync.RWMutex
	appliedSequence      int64
	lastSnapshotSequence int64

	// Shutdown coordination
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Configuration
	snapshotInterval   time.Duration
	snapshotEventDelta int64

	// Trade statistics
	totalTrades int64
	tradesMutex sync.RWMutex
}

// NewEngine creates a new instance of Engine with the provided dependencies.
func NewEngine(
	orderbook orderbookv1.Orderbook,
	orderReader orderreaderv1.Reader,
	tradePublisher tradepublisherv1.Publisher,
	snapshotStore snapshotv1.Store,
	logger *logger.Logger,
	config *Config,
) *Engine {
	return NewEngineWithOptions(orderbook, orderReader, tradePublisher, snapshotStore, logger, config, DefaultEngineOptions())
}

// NewEngineWithOptions creates a new engine with custom options.
func NewEngineWithOptions(
	orderbook orderbookv1.Orderbook,
	orderReader orderreaderv1.Reader,
	tradePublisher tradepublisherv1.Publisher,
	snapshotStore snapshotv1.Store,
	logger *logger.Logger,
	config *Config,
	options *Options,
) *Engine {
	return &Engine{
		orderbook:      orderbook,
		orderReader:    orderReader,
		tradePublisher: tradePublisher,
		snapshotStore:  snapshotStore,
		logger:         logger,
		config:         config,

		snapshotInterval:   options.SnapshotInterval,
		snapshotEventDelta: options.SnapshotEventDelta,
	}
}

// Start launches the processing routines.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(util.WithPair(ctx, e.config.Pair))

	e.wg.Add(2)
	go e.runOrderProcessor()
	go e.runSnapshotManager()

	e.logger.Info("engine started", logger.Field{
		Key:   "pair",
		Value: e.config.Pair,
	})

	return nil
}

// Stop gracefully shuts down the engine. It cancels the processing routines,
// waits for them within the caller's deadline, then closes the stream ends.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
		e.logger.Info("engine stopped gracefully")
	case <-ctx.Done():
		e.logger.Warn("engine stop timeout exceeded")
		err = ctx.Err()
	}

	if closeErr := e.orderReader.Close(); closeErr != nil {
		e.logger.Error(closeErr, logger.Field{Key: "action", Value: "close_order_reader"})
	}
	if closeErr := e.tradePublisher.Close(); closeErr != nil {
		e.logger.Error(closeErr, logger.Field{Key: "action", Value: "close_trade_publisher"})
	}

	return err
}

// runOrderProcessor reads order events and applies them to the book, one at a
// time. Offsets are committed after processing so a crash replays the
// uncommitted tail instead of losing it.
func (e *Engine) runOrderProcessor() {
	defer e.wg.Done()

	e.logger.Info("starting order processor", logger.Field{
		Key:   "pair",
		Value: e.config.Pair,
	})

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("order processor shutting down")
			return
		default:
			msg, event, err := e.orderReader.ReadMessage(e.ctx)
			if err != nil {
				if e.ctx.Err() != nil {
					continue
				}
				if errors.ErrorCodeEquals(err, string(errors.OrderEventDecodeError)) {
					// Poison message: step past it or the partition wedges.
					e.commit(msg)
					continue
				}
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "read_order_message",
				})
				time.Sleep(100 * time.Millisecond)
				continue
			}

			ctx := util.WithEventID(e.ctx, strconv.FormatUint(event.ID, 10))
			if err := e.processEvent(ctx, event); err != nil {
				e.logger.ErrorContext(ctx, err,
					logger.Field{Key: "action", Value: "process_order_event"},
					logger.Field{Key: "event_action", Value: event.Action},
				)
				// An invalid event never becomes processable: commit and move on.
				e.commit(msg)
				continue
			}

			e.commit(msg)
			e.bumpAppliedSequence()
		}
	}
}

// runSnapshotManager periodically captures the book for watchers.
func (e *Engine) runSnapshotManager() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.snapshotInterval)
	defer ticker.Stop()

	e.logger.Info("starting snapshot manager")

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("snapshot manager shutting down")
			return
		case <-ticker.C:
			if e.shouldCreateSnapshot() {
				e.createAndStoreSnapshot()
			}
		}
	}
}

// processEvent applies a single order event. The returned error marks the
// event as invalid; transient infrastructure failures are handled internally.
func (e *Engine) processEvent(ctx context.Context, event *orderreaderv1.OrderEvent) error {
	if event.Pair != "" && event.Pair != e.config.Pair {
		e.logger.WarnContext(ctx, "dropping event for foreign pair",
			logger.Field{Key: "event_pair", Value: event.Pair},
		)
		return nil
	}

	e.logger.DebugContext(ctx, "processing order event",
		logger.Field{Key: "action", Value: event.Action},
	)

	switch event.Action {
	case orderreaderv1.ActionPlace:
		order, err := event.ToOrder()
		if err != nil {
			return err
		}
		e.publishTrades(ctx, e.addOrder(order))
	case orderreaderv1.ActionCancel:
		e.cancelOrder(event.ID)
	case orderreaderv1.ActionModify:
		request, err := event.ToModifyRequest()
		if err != nil {
			return err
		}
		e.publishTrades(ctx, e.modifyOrder(request))
	default:
		return errors.NewErrorDetails("unknown order event action: "+event.Action, string(errors.OrderEventInvalidError), "action")
	}

	return nil
}

// publishTrades records and publishes the trades one event produced. The
// book has already moved, so a publish failure is logged rather than allowed
// to force a replay that would double-apply the event.
func (e *Engine) publishTrades(ctx context.Context, trades []orderbookv1.Trade) {
	if len(trades) == 0 {
		return
	}

	e.recordTrades(trades)

	if err := e.tradePublisher.PublishTrades(ctx, e.config.Pair, trades); err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "publish_trades",
		})
	}
}

// recordTrades logs the trades and updates statistics.
func (e *Engine) recordTrades(trades []orderbookv1.Trade) {
	e.tradesMutex.Lock()
	e.totalTrades += int64(len(trades))
	currentTotal := e.totalTrades
	e.tradesMutex.Unlock()

	e.logger.Info("trades executed",
		logger.Field{Key: "tradeCount", Value: len(trades)},
		logger.Field{Key: "totalTrades", Value: currentTotal},
	)

	for i, trade := range trades {
		e.logger.Info("trade executed",
			logger.Field{Key: "tradeIndex", Value: i + 1},
			logger.Field{Key: "bidOrderID", Value: trade.Bid.OrderID},
			logger.Field{Key: "bidPrice", Value: trade.Bid.Price},
			logger.Field{Key: "askOrderID", Value: trade.Ask.OrderID},
			logger.Field{Key: "askPrice", Value: trade.Ask.Price},
			logger.Field{Key: "quantity", Value: trade.Bid.Quantity},
		)
	}
}

func (e *Engine) addOrder(order *orderbookv1.Order) []orderbookv1.Trade {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.orderbook.AddOrder(order)
}

func (e *Engine) cancelOrder(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orderbook.CancelOrder(id)
}

func (e *Engine) modifyOrder(request orderbookv1.ModifyRequest) []orderbookv1.Trade {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.orderbook.ModifyOrder(request)
}

func (e *Engine) commit(msg kafka.Message) {
	if err := e.orderReader.CommitMessages(e.ctx, msg); err != nil {
		e.logger.ErrorContext(e.ctx, err, logger.Field{
			Key:   "action",
			Value: "commit_order_message",
		})
	}
}

// shouldCreateSnapshot checks whether enough events have been applied since
// the last snapshot.
func (e *Engine) shouldCreateSnapshot() bool {
	e.mu.RLock()
	applied := e.appliedSequence
	lastSnapshot := e.lastSnapshotSequence
	e.mu.RUnlock()

	if applied == 0 {
		return false
	}

	return applied-lastSnapshot >= e.snapshotEventDelta
}

// captureSnapshot takes a consistent view of the book. The read lock keeps
// the processor from mutating the book mid-capture.
func (e *Engine) captureSnapshot() *snapshotv1.BookSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return &snapshotv1.BookSnapshot{
		Pair:     e.config.Pair,
		TakenAt:  time.Now().UTC(),
		Orders:   e.orderbook.Size(),
		Sequence: e.appliedSequence,
		Levels:   e.orderbook.GetLevelSnapshot(),
	}
}

// createAndStoreSnapshot captures and stores a snapshot.
func (e *Engine) createAndStoreSnapshot() {
	snapshot := e.captureSnapshot()

	if err := e.snapshotStore.Save(e.ctx, snapshot); err != nil {
		e.logger.ErrorContext(e.ctx, err, logger.Field{
			Key:   "action",
			Value: "store_snapshot",
		})
		return
	}

	e.setLastSnapshotSequence(snapshot.Sequence)
}

// Thread-safe counter access
func (e *Engine) bumpAppliedSequence() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.appliedSequence++
}

func (e *Engine) setLastSnapshotSequence(sequence int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSnapshotSequence = sequence
}

// GetAppliedSequence returns how many stream events have been applied.
func (e *Engine) GetAppliedSequence() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.appliedSequence
}

// GetLastSnapshotSequence returns the applied sequence at the last stored
// snapshot.
func (e *Engine) GetLastSnapshotSequence() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastSnapshotSequence
}

// GetTotalTrades returns the total number of trades produced so far.
func (e *Engine) GetTotalTrades() int64 {
	e.tradesMutex.RLock()
	defer e.tradesMutex.RUnlock()
	return e.totalTrades
}
