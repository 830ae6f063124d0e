package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderreaderv1 "github.com/muhammadchandra19/orderbook/internal/domain/order-reader/v1"
	orderbookv1 "github.com/muhammadchandra19/orderbook/internal/domain/orderbook/v1"
	snapshotv1 "github.com/muhammadchandra19/orderbook/internal/domain/snapshot/v1"
	tradepublisherv1 "github.com/muhammadchandra19/orderbook/internal/domain/trade-publisher/v1"
	"github.com/muhammadchandra19/orderbook/internal/usecase/orderbook"
	"github.com/muhammadchandra19/orderbook/pkg/errors"
	"github.com/muhammadchandra19/orderbook/pkg/logger"
)

// readStep is one scripted ReadMessage result.
type readStep struct {
	msg   kafka.Message
	event *orderreaderv1.OrderEvent
	err   error
}

// scriptedReader feeds a fixed sequence of read results, then blocks until
// the context is canceled the way a quiet partition would.
type scriptedReader struct {
	mu        sync.Mutex
	script    []readStep
	next      int
	commits   []kafka.Message
	commitErr error
	closed    bool
}

func (r *scriptedReader) ReadMessage(ctx context.Context) (kafka.Message, *orderreaderv1.OrderEvent, error) {
	r.mu.Lock()
	if r.next < len(r.script) {
		step := r.script[r.next]
		r.next++
		r.mu.Unlock()
		return step.msg, step.event, step.err
	}
	r.mu.Unlock()

	<-ctx.Done()
	return kafka.Message{}, nil, ctx.Err()
}

func (r *scriptedReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commits = append(r.commits, msgs...)
	return r.commitErr
}

func (r *scriptedReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *scriptedReader) committedOffsets() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	offsets := make([]int64, 0, len(r.commits))
	for _, msg := range r.commits {
		offsets = append(offsets, msg.Offset)
	}
	return offsets
}

func (r *scriptedReader) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// publishedBatch is one recorded PublishTrades call.
type publishedBatch struct {
	pair   string
	trades []orderbookv1.Trade
}

type recordingPublisher struct {
	mu         sync.Mutex
	batches    []publishedBatch
	publishErr error
	closed     bool
}

func (p *recordingPublisher) PublishTrades(_ context.Context, pair string, trades []orderbookv1.Trade) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.publishErr != nil {
		return p.publishErr
	}
	copied := make([]orderbookv1.Trade, len(trades))
	copy(copied, trades)
	p.batches = append(p.batches, publishedBatch{pair: pair, trades: copied})
	return nil
}

func (p *recordingPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *recordingPublisher) batchCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.batches)
}

func (p *recordingPublisher) batch(i int) publishedBatch {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.batches[i]
}

func (p *recordingPublisher) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

type recordingStore struct {
	mu      sync.Mutex
	saved   []*snapshotv1.BookSnapshot
	saveErr error
}

func (s *recordingStore) Save(_ context.Context, snapshot *snapshotv1.BookSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, snapshot)
	return nil
}

func (s *recordingStore) Latest(_ context.Context, _ string) (*snapshotv1.BookSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saved) == 0 {
		return nil, nil
	}
	return s.saved[len(s.saved)-1], nil
}

func (s *recordingStore) savedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func (s *recordingStore) lastSaved() *snapshotv1.BookSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[len(s.saved)-1]
}

var (
	_ orderreaderv1.Reader       = (*scriptedReader)(nil)
	_ tradepublisherv1.Publisher = (*recordingPublisher)(nil)
	_ snapshotv1.Store           = (*recordingStore)(nil)
)

// Test fixtures and helpers
type testFixture struct {
	reader    *scriptedReader
	publisher *recordingPublisher
	store     *recordingStore
	orderbook *orderbook.Orderbook
	logger    *logger.Logger
	config    *Config
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	return &testFixture{
		reader:    &scriptedReader{},
		publisher: &recordingPublisher{},
		store:     &recordingStore{},
		orderbook: orderbook.NewOrderbook(),
		logger:    logger.NewNop(),
		config: &Config{
			Pair: "BTC-USD",
			KafkaConfig: KafkaConfig{
				Brokers:    []string{"localhost:9092"},
				OrderTopic: "orders",
				TradeTopic: "trades",
				GroupID:    "matching-engine-test",
			},
		},
	}
}

// createTestEngine wires a fixture into an engine with an initialized
// context, so event handlers can run without Start.
func createTestEngine(fixture *testFixture) *Engine {
	engine := NewEngine(
		fixture.orderbook,
		fixture.reader,
		fixture.publisher,
		fixture.store,
		fixture.logger,
		fixture.config,
	)

	engine.ctx = context.Background()

	return engine
}

func placeEvent(id uint64, side, orderType string, price, quantity int64) *orderreaderv1.OrderEvent {
	return &orderreaderv1.OrderEvent{
		Action:   orderreaderv1.ActionPlace,
		ID:       id,
		Pair:     "BTC-USD",
		Side:     side,
		Type:     orderType,
		Price:    price,
		Quantity: quantity,
	}
}

func cancelEvent(id uint64) *orderreaderv1.OrderEvent {
	return &orderreaderv1.OrderEvent{
		Action: orderreaderv1.ActionCancel,
		ID:     id,
		Pair:   "BTC-USD",
	}
}

func modifyEvent(id uint64, side string, price, quantity int64) *orderreaderv1.OrderEvent {
	return &orderreaderv1.OrderEvent{
		Action:   orderreaderv1.ActionModify,
		ID:       id,
		Pair:     "BTC-USD",
		Side:     side,
		Price:    price,
		Quantity: quantity,
	}
}

func TestNewEngine(t *testing.T) {
	fixture := setupTestFixture(t)

	engine := NewEngine(
		fixture.orderbook,
		fixture.reader,
		fixture.publisher,
		fixture.store,
		fixture.logger,
		fixture.config,
	)

	require.NotNil(t, engine)
	assert.Equal(t, fixture.orderbook, engine.orderbook)
	assert.Equal(t, fixture.reader, engine.orderReader)
	assert.Equal(t, fixture.publisher, engine.tradePublisher)
	assert.Equal(t, fixture.store, engine.snapshotStore)
	assert.Equal(t, DefaultEngineOptions().SnapshotInterval, engine.snapshotInterval)
	assert.Equal(t, DefaultEngineOptions().SnapshotEventDelta, engine.snapshotEventDelta)
	assert.Equal(t, int64(0), engine.GetAppliedSequence())
	assert.Equal(t, int64(0), engine.GetLastSnapshotSequence())
	assert.Equal(t, int64(0), engine.GetTotalTrades())
}

func TestNewEngineWithOptions(t *testing.T) {
	testCases := []struct {
		name                     string
		options                  *Options
		expectedSnapshotInterval time.Duration
		expectedEventDelta       int64
	}{
		{
			name: "engine with custom options",
			options: &Options{
				SnapshotInterval:   10 * time.Second,
				SnapshotEventDelta: 500,
			},
			expectedSnapshotInterval: 10 * time.Second,
			expectedEventDelta:       500,
		},
		{
			name:                     "engine with default options",
			options:                  DefaultEngineOptions(),
			expectedSnapshotInterval: DefaultEngineOptions().SnapshotInterval,
			expectedEventDelta:       DefaultEngineOptions().SnapshotEventDelta,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fixture := setupTestFixture(t)

			engine := NewEngineWithOptions(
				fixture.orderbook,
				fixture.reader,
				fixture.publisher,
				fixture.store,
				fixture.logger,
				fixture.config,
				tc.options,
			)

			require.NotNil(t, engine)
			assert.Equal(t, tc.expectedSnapshotInterval, engine.snapshotInterval)
			assert.Equal(t, tc.expectedEventDelta, engine.snapshotEventDelta)
		})
	}
}

func TestConfig_EngineOptions(t *testing.T) {
	testCases := []struct {
		name         string
		config       *Config
		wantInterval time.Duration
		wantDelta    int64
	}{
		{
			name:         "zero values fall back to defaults",
			config:       &Config{},
			wantInterval: 30 * time.Second,
			wantDelta:    1000,
		},
		{
			name: "configured values override defaults",
			config: &Config{
				SnapshotInterval:   5 * time.Second,
				SnapshotEventDelta: 50,
			},
			wantInterval: 5 * time.Second,
			wantDelta:    50,
		},
		{
			name: "partial configuration keeps the other default",
			config: &Config{
				SnapshotInterval: time.Minute,
			},
			wantInterval: time.Minute,
			wantDelta:    1000,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			options := tc.config.EngineOptions()

			assert.Equal(t, tc.wantInterval, options.SnapshotInterval)
			assert.Equal(t, tc.wantDelta, options.SnapshotEventDelta)
		})
	}
}

func TestEngine_ProcessEvent(t *testing.T) {
	testCases := []struct {
		name        string
		setupBook   func(*orderbook.Orderbook)
		event       *orderreaderv1.OrderEvent
		wantErrCode string
		wantSize    int
		wantBatches int
		wantTrades  int64
	}{
		{
			name:     "place rests a new bid",
			event:    placeEvent(1, "buy", "gtc", 5000, 10),
			wantSize: 1,
		},
		{
			name: "place crossing order publishes trades",
			setupBook: func(ob *orderbook.Orderbook) {
				ob.AddOrder(orderbookv1.NewOrder(1, orderbookv1.SideSell, orderbookv1.GoodTillCancel, 5000, 10))
			},
			event:       placeEvent(2, "buy", "gtc", 5000, 4),
			wantSize:    1,
			wantBatches: 1,
			wantTrades:  1,
		},
		{
			name: "cancel removes a resting order",
			setupBook: func(ob *orderbook.Orderbook) {
				ob.AddOrder(orderbookv1.NewOrder(1, orderbookv1.SideBuy, orderbookv1.GoodTillCancel, 5000, 10))
			},
			event:    cancelEvent(1),
			wantSize: 0,
		},
		{
			name:     "cancel of an unknown id is a no-op",
			event:    cancelEvent(99),
			wantSize: 0,
		},
		{
			name: "modify replaces a resting order's terms",
			setupBook: func(ob *orderbook.Orderbook) {
				ob.AddOrder(orderbookv1.NewOrder(1, orderbookv1.SideBuy, orderbookv1.GoodTillCancel, 5000, 10))
			},
			event:    modifyEvent(1, "buy", 4900, 6),
			wantSize: 1,
		},
		{
			name: "events for a foreign pair are dropped",
			event: &orderreaderv1.OrderEvent{
				Action:   orderreaderv1.ActionPlace,
				ID:       7,
				Pair:     "ETH-USD",
				Side:     "buy",
				Type:     "gtc",
				Price:    5000,
				Quantity: 1,
			},
			wantSize: 0,
		},
		{
			name:        "place with an invalid side is rejected",
			event:       placeEvent(3, "sideways", "gtc", 5000, 10),
			wantErrCode: string(errors.OrderEventInvalidError),
			wantSize:    0,
		},
		{
			name: "modify with an invalid quantity is rejected",
			setupBook: func(ob *orderbook.Orderbook) {
				ob.AddOrder(orderbookv1.NewOrder(1, orderbookv1.SideBuy, orderbookv1.GoodTillCancel, 5000, 10))
			},
			event:       modifyEvent(1, "buy", 5000, 0),
			wantErrCode: string(errors.OrderEventInvalidError),
			wantSize:    1,
		},
		{
			name: "unknown action is rejected",
			event: &orderreaderv1.OrderEvent{
				Action: "replace",
				ID:     1,
				Pair:   "BTC-USD",
			},
			wantErrCode: string(errors.OrderEventInvalidError),
			wantSize:    0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fixture := setupTestFixture(t)
			engine := createTestEngine(fixture)

			if tc.setupBook != nil {
				tc.setupBook(fixture.orderbook)
			}

			err := engine.processEvent(context.Background(), tc.event)

			if tc.wantErrCode != "" {
				require.Error(t, err)
				assert.True(t, errors.ErrorCodeEquals(err, tc.wantErrCode))
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tc.wantSize, fixture.orderbook.Size())
			assert.Equal(t, tc.wantBatches, fixture.publisher.batchCount())
			assert.Equal(t, tc.wantTrades, engine.GetTotalTrades())
		})
	}
}

func TestEngine_ProcessEvent_TradeDetails(t *testing.T) {
	fixture := setupTestFixture(t)
	engine := createTestEngine(fixture)

	require.NoError(t, engine.processEvent(context.Background(), placeEvent(1, "sell", "gtc", 5000, 10)))
	require.NoError(t, engine.processEvent(context.Background(), placeEvent(2, "buy", "gtc", 5010, 4)))

	require.Equal(t, 1, fixture.publisher.batchCount())
	batch := fixture.publisher.batch(0)
	assert.Equal(t, "BTC-USD", batch.pair)
	require.Len(t, batch.trades, 1)
	assert.Equal(t, orderbookv1.Trade{
		Bid: orderbookv1.TradeInfo{OrderID: 2, Price: 5010, Quantity: 4},
		Ask: orderbookv1.TradeInfo{OrderID: 1, Price: 5000, Quantity: 4},
	}, batch.trades[0])
	assert.Equal(t, int64(1), engine.GetTotalTrades())
}

func TestEngine_SnapshotManagement(t *testing.T) {
	testCases := []struct {
		name                 string
		appliedSequence      int64
		lastSnapshotSequence int64
		snapshotEventDelta   int64
		saveErr              error
		wantShouldSnapshot   bool
		runCreate            bool
		wantStored           bool
	}{
		{
			name:               "stores a snapshot once enough events applied",
			appliedSequence:    1000,
			snapshotEventDelta: 500,
			wantShouldSnapshot: true,
			runCreate:          true,
			wantStored:         true,
		},
		{
			name:                 "skips when too few events since last snapshot",
			appliedSequence:      100,
			lastSnapshotSequence: 50,
			snapshotEventDelta:   500,
		},
		{
			name:               "skips before any event applied",
			snapshotEventDelta: 100,
		},
		{
			name:               "keeps last sequence when the store fails",
			appliedSequence:    1000,
			snapshotEventDelta: 500,
			saveErr:            fmt.Errorf("redis down"),
			wantShouldSnapshot: true,
			runCreate:          true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fixture := setupTestFixture(t)
			fixture.store.saveErr = tc.saveErr

			options := &Options{
				SnapshotInterval:   time.Minute,
				SnapshotEventDelta: tc.snapshotEventDelta,
			}

			engine := NewEngineWithOptions(
				fixture.orderbook,
				fixture.reader,
				fixture.publisher,
				fixture.store,
				fixture.logger,
				fixture.config,
				options,
			)
			engine.ctx = context.Background()

			engine.mu.Lock()
			engine.appliedSequence = tc.appliedSequence
			engine.lastSnapshotSequence = tc.lastSnapshotSequence
			engine.mu.Unlock()

			assert.Equal(t, tc.wantShouldSnapshot, engine.shouldCreateSnapshot())

			if !tc.runCreate {
				return
			}

			engine.createAndStoreSnapshot()

			if tc.wantStored {
				assert.Equal(t, tc.appliedSequence, engine.GetLastSnapshotSequence())
				require.Equal(t, 1, fixture.store.savedCount())
				snapshot := fixture.store.lastSaved()
				assert.Equal(t, "BTC-USD", snapshot.Pair)
				assert.Equal(t, tc.appliedSequence, snapshot.Sequence)
				assert.False(t, snapshot.TakenAt.IsZero())
			} else {
				assert.Equal(t, tc.lastSnapshotSequence, engine.GetLastSnapshotSequence())
				assert.Equal(t, 0, fixture.store.savedCount())
			}
		})
	}
}

func TestEngine_CaptureSnapshot(t *testing.T) {
	fixture := setupTestFixture(t)
	engine := createTestEngine(fixture)

	fixture.orderbook.AddOrder(orderbookv1.NewOrder(1, orderbookv1.SideBuy, orderbookv1.GoodTillCancel, 4990, 10))
	fixture.orderbook.AddOrder(orderbookv1.NewOrder(2, orderbookv1.SideSell, orderbookv1.GoodTillCancel, 5010, 3))
	engine.bumpAppliedSequence()
	engine.bumpAppliedSequence()

	snapshot := engine.captureSnapshot()

	assert.Equal(t, "BTC-USD", snapshot.Pair)
	assert.Equal(t, 2, snapshot.Orders)
	assert.Equal(t, int64(2), snapshot.Sequence)
	assert.Equal(t, []orderbookv1.LevelInfo{{Price: 4990, Quantity: 10}}, snapshot.Levels.Bids)
	assert.Equal(t, []orderbookv1.LevelInfo{{Price: 5010, Quantity: 3}}, snapshot.Levels.Asks)
	assert.WithinDuration(t, time.Now().UTC(), snapshot.TakenAt, time.Minute)
}

func TestEngine_ConcurrentAccess(t *testing.T) {
	testCases := []struct {
		name          string
		numGoroutines int
		numOperations int
		testOperation func(*Engine, int, int)
	}{
		{
			name:          "concurrent counter access",
			numGoroutines: 5,
			numOperations: 20,
			testOperation: func(engine *Engine, goroutineID, operationID int) {
				engine.bumpAppliedSequence()
				engine.setLastSnapshotSequence(int64(goroutineID*100 + operationID))

				_ = engine.GetAppliedSequence()
				_ = engine.GetLastSnapshotSequence()
				_ = engine.GetTotalTrades()
			},
		},
		{
			name:          "concurrent event processing and snapshot capture",
			numGoroutines: 4,
			numOperations: 10,
			testOperation: func(engine *Engine, goroutineID, operationID int) {
				id := uint64(goroutineID*1000 + operationID + 1)
				side := "buy"
				price := int64(4000 - goroutineID*10 - operationID)
				if goroutineID%2 == 0 {
					side = "sell"
					price = int64(6000 + goroutineID*10 + operationID)
				}

				_ = engine.processEvent(context.Background(), placeEvent(id, side, "gtc", price, 5))
				_ = engine.captureSnapshot()
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fixture := setupTestFixture(t)
			engine := createTestEngine(fixture)

			done := make(chan bool, tc.numGoroutines)

			for i := 0; i < tc.numGoroutines; i++ {
				go func(goroutineID int) {
					defer func() { done <- true }()
					for j := 0; j < tc.numOperations; j++ {
						tc.testOperation(engine, goroutineID, j)
					}
				}(i)
			}

			for i := 0; i < tc.numGoroutines; i++ {
				select {
				case <-done:
				case <-time.After(2 * time.Second):
					t.Fatal("test timeout - goroutines didn't complete")
				}
			}

			assert.GreaterOrEqual(t, engine.GetAppliedSequence(), int64(0))
			assert.GreaterOrEqual(t, fixture.orderbook.Size(), 0)
		})
	}
}

func TestEngine_GetTotalTrades(t *testing.T) {
	fixture := setupTestFixture(t)
	engine := createTestEngine(fixture)

	assert.Equal(t, int64(0), engine.GetTotalTrades())

	fixture.orderbook.AddOrder(orderbookv1.NewOrder(1, orderbookv1.SideSell, orderbookv1.GoodTillCancel, 5000, 10))

	require.NoError(t, engine.processEvent(context.Background(), placeEvent(2, "buy", "gtc", 5000, 5)))

	assert.Equal(t, int64(1), engine.GetTotalTrades())
}
