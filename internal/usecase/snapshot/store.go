package snapshot

import (
	"context"
	"encoding/json"

	snapshotv1 "github.com/muhammadchandra19/orderbook/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/orderbook/pkg/errors"
	"github.com/muhammadchandra19/orderbook/pkg/logger"
	"github.com/muhammadchandra19/orderbook/pkg/redis"
)

// Key returns the Redis key a pair's latest snapshot is stored under.
func Key(pair string) string {
	return "orderbook:snapshot:" + pair
}

// Channel returns the pub/sub channel snapshots for a pair are announced on.
func Channel(pair string) string {
	return "orderbook:snapshot." + pair
}

// Store persists book snapshots in Redis. Every save also publishes the same
// payload on the pair's channel so live watchers see it without polling.
type Store struct {
	logger      *logger.Logger
	redisclient redis.Client
}

var _ snapshotv1.Store = (*Store)(nil)

// NewStore creates a snapshot store backed by the given Redis client.
func NewStore(redisclient redis.Client, log *logger.Logger) *Store {
	return &Store{
		redisclient: redisclient,
		logger:      log,
	}
}

// Save stores the snapshot under the pair's key and announces it on the
// pair's channel.
func (s *Store) Save(ctx context.Context, snapshot *snapshotv1.BookSnapshot) error {
	buf, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "pair",
			Value: snapshot.Pair,
		})
		return errors.NewTracer(string(errors.SnapshotMarshalError)).Wrap(err)
	}

	if err := s.redisclient.Set(ctx, Key(snapshot.Pair), buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "pair",
			Value: snapshot.Pair,
		}, logger.Field{
			Key:   "action",
			Value: "store snapshot",
		})
		return err
	}

	if _, err := s.redisclient.Publish(ctx, Channel(snapshot.Pair), buf); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "pair",
			Value: snapshot.Pair,
		}, logger.Field{
			Key:   "action",
			Value: "announce snapshot",
		})
		return err
	}

	s.logger.InfoContext(ctx, "snapshot saved",
		logger.Field{Key: "pair", Value: snapshot.Pair},
		logger.Field{Key: "orders", Value: snapshot.Orders},
		logger.Field{Key: "sequence", Value: snapshot.Sequence},
	)

	return nil
}

// Latest loads the most recent snapshot for the pair. A pair that has never
// been snapshotted yields (nil, nil).
func (s *Store) Latest(ctx context.Context, pair string) (*snapshotv1.BookSnapshot, error) {
	data, err := s.redisclient.Get(ctx, Key(pair))
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "pair",
			Value: pair,
		}, logger.Field{
			Key:   "action",
			Value: "load snapshot",
		})
		return nil, err
	}

	if data == "" {
		s.logger.WarnContext(ctx, "no snapshot found", logger.Field{
			Key:   "pair",
			Value: pair,
		})
		return nil, nil
	}

	var snapshot snapshotv1.BookSnapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "pair",
			Value: pair,
		}, logger.Field{
			Key:   "action",
			Value: "unmarshal snapshot",
		})
		return nil, errors.NewTracer(string(errors.SnapshotUnmarshalError)).Wrap(err)
	}

	return &snapshot, nil
}
