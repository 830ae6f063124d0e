package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	v9 "github.com/redis/go-redis/v9"

	snapshotv1 "github.com/muhammadchandra19/orderbook/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/orderbook/internal/render"
	"github.com/muhammadchandra19/orderbook/internal/usecase/snapshot"
	"github.com/muhammadchandra19/orderbook/pkg/errors"
	"github.com/muhammadchandra19/orderbook/pkg/logger"
	"github.com/muhammadchandra19/orderbook/pkg/redis"
)

// Watch renders book snapshots for one pair as the engine publishes them.
type Watch struct {
	redisclient   redis.Client
	snapshotStore snapshotv1.Store
	logger        *logger.Logger
	out           io.Writer
	config        *Config
}

// NewWatch creates a new instance of Watch.
func NewWatch(
	redisclient redis.Client,
	snapshotStore snapshotv1.Store,
	logger *logger.Logger,
	out io.Writer,
	config *Config,
) *Watch {
	return &Watch{
		redisclient:   redisclient,
		snapshotStore: snapshotStore,
		logger:        logger,
		out:           out,
		config:        config,
	}
}

// Run renders the latest stored snapshot, then follows the live channel
// until the context is canceled.
func (w *Watch) Run(ctx context.Context) error {
	w.renderLatest(ctx)

	pubsub, err := w.redisclient.Subscribe(ctx, snapshot.Channel(w.config.Pair))
	if err != nil {
		return err
	}
	defer pubsub.Close()

	w.logger.Info("watching book snapshots", logger.Field{
		Key:   "pair",
		Value: w.config.Pair,
	})

	w.consume(ctx, pubsub.Channel())
	return nil
}

// renderLatest shows the most recent stored snapshot so the watcher is not
// blank until the next publish.
func (w *Watch) renderLatest(ctx context.Context) {
	latest, err := w.snapshotStore.Latest(ctx, w.config.Pair)
	if err != nil {
		w.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "load_latest_snapshot"})
		return
	}
	if latest == nil {
		w.logger.Info("no stored snapshot yet", logger.Field{Key: "pair", Value: w.config.Pair})
		return
	}

	w.render(latest)
}

// consume renders each published snapshot until the channel closes or the
// context is canceled.
func (w *Watch) consume(ctx context.Context, messages <-chan *v9.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}

			var bookSnapshot snapshotv1.BookSnapshot
			if err := json.Unmarshal([]byte(msg.Payload), &bookSnapshot); err != nil {
				traced := errors.NewTracer(string(errors.SnapshotUnmarshalError)).Wrap(err)
				w.logger.ErrorContext(ctx, traced, logger.Field{Key: "action", Value: "decode_snapshot"})
				continue
			}

			w.render(&bookSnapshot)
		}
	}
}

func (w *Watch) render(bookSnapshot *snapshotv1.BookSnapshot) {
	fmt.Fprintf(w.out, "seq %d · %d orders · %s\n",
		bookSnapshot.Sequence,
		bookSnapshot.Orders,
		bookSnapshot.TakenAt.Format(time.RFC3339),
	)
	render.Book(w.out, bookSnapshot.Pair, bookSnapshot.Levels, w.config.Depth)
}
