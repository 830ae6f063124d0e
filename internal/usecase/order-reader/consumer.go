package orderreader

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	orderreaderv1 "github.com/muhammadchandra19/orderbook/internal/domain/order-reader/v1"
	"github.com/muhammadchandra19/orderbook/pkg/errors"
	"github.com/muhammadchandra19/orderbook/pkg/logger"
)

// Config carries the Kafka settings for the order event consumer.
type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Consumer consumes order events from the orders topic. Offsets are committed
// by the caller once an event has actually been applied, so a crash replays
// unprocessed events instead of dropping them.
type Consumer struct {
	kafkaReader *kafka.Reader
	logger      *logger.Logger
}

var _ orderreaderv1.Reader = (*Consumer)(nil)

// NewConsumer creates a Kafka consumer for the order event topic.
// It returns an implementation of the Reader interface.
func NewConsumer(cfg Config, log *logger.Logger) *Consumer {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return &Consumer{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

// ReadMessage fetches the next message from the orders topic and decodes it.
// Transport failures come back traced; a payload that does not decode comes
// back as a coded error together with its message, so the caller can commit
// past the poison message instead of wedging the partition.
func (c *Consumer) ReadMessage(ctx context.Context) (kafka.Message, *orderreaderv1.OrderEvent, error) {
	msg, err := c.kafkaReader.FetchMessage(ctx)
	if err != nil {
		return kafka.Message{}, nil, errors.NewTracer(string(errors.KafkaReadError)).Wrap(err)
	}

	var event orderreaderv1.OrderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.ErrorContext(ctx, err,
			logger.Field{Key: "operation", Value: "decode_order_event"},
			logger.Field{Key: "offset", Value: msg.Offset},
			logger.Field{Key: "payload", Value: string(msg.Value)},
		)
		return msg, nil, errors.NewErrorDetails(err.Error(), string(errors.OrderEventDecodeError), "payload")
	}

	c.logger.DebugContext(ctx, "order event received",
		logger.Field{Key: "action", Value: event.Action},
		logger.Field{Key: "id", Value: event.ID},
		logger.Field{Key: "pair", Value: event.Pair},
		logger.Field{Key: "side", Value: event.Side},
		logger.Field{Key: "type", Value: event.Type},
		logger.Field{Key: "price", Value: event.Price},
		logger.Field{Key: "quantity", Value: event.Quantity},
		logger.Field{Key: "offset", Value: msg.Offset},
	)

	return msg, &event, nil
}

// CommitMessages marks the given messages as processed for the consumer group.
func (c *Consumer) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	if err := c.kafkaReader.CommitMessages(ctx, msgs...); err != nil {
		return errors.NewTracer(string(errors.KafkaCommitError)).Wrap(err)
	}
	return nil
}

// Close properly closes the Kafka reader.
func (c *Consumer) Close() error {
	if err := c.kafkaReader.Close(); err != nil {
		return errors.NewTracer(string(errors.KafkaCloseError)).Wrap(err)
	}
	return nil
}
