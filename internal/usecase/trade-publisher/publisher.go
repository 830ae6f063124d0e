package tradepublisher

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	orderbookv1 "github.com/muhammadchandra19/orderbook/internal/domain/orderbook/v1"
	tradepublisherv1 "github.com/muhammadchandra19/orderbook/internal/domain/trade-publisher/v1"
	"github.com/muhammadchandra19/orderbook/pkg/errors"
	"github.com/muhammadchandra19/orderbook/pkg/logger"
)

// Config carries the Kafka settings for the trade publisher.
type Config struct {
	Brokers []string
	Topic   string
}

// Publisher publishes trade executions to the trades topic.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      *logger.Logger
}

var _ tradepublisherv1.Publisher = (*Publisher)(nil)

// NewPublisher creates a Kafka publisher for trade executions.
func NewPublisher(cfg Config, log *logger.Logger) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      cfg.Brokers,
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: int(kafka.RequireAll),
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// PublishTrades stamps each trade with an execution id and timestamp and
// writes one message per trade. Messages are keyed by pair so executions for
// one book stay ordered on the topic.
func (p *Publisher) PublishTrades(ctx context.Context, pair string, trades []orderbookv1.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(trades))
	for _, trade := range trades {
		event := tradepublisherv1.NewTradeEvent(pair, trade)
		value, err := json.Marshal(event)
		if err != nil {
			return errors.NewTracer(string(errors.KafkaPublishError)).Wrap(err)
		}

		msgs = append(msgs, kafka.Message{
			Key:   []byte(pair),
			Value: value,
		})
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msgs...); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.Field{Key: "operation", Value: "publish_trades"},
			logger.Field{Key: "pair", Value: pair},
			logger.Field{Key: "count", Value: len(trades)},
		)
		return errors.NewTracer(string(errors.KafkaPublishError)).Wrap(err)
	}

	p.logger.DebugContext(ctx, "trades published",
		logger.Field{Key: "pair", Value: pair},
		logger.Field{Key: "count", Value: len(trades)},
	)

	return nil
}

// Close flushes and closes the Kafka writer.
func (p *Publisher) Close() error {
	if err := p.kafkaWriter.Close(); err != nil {
		return errors.NewTracer(string(errors.KafkaCloseError)).Wrap(err)
	}
	return nil
}
