package engine

import (
	"time"

	"github.com/muhammadchandra19/orderbook/pkg/redis"
)

// Config holds the configuration for the engine service.
type Config struct {
	Pair        string       `env:"PAIR,required"` // Trading pair, e.g. BTC-USD
	KafkaConfig `envPrefix:"KAFKA_"` // Kafka configuration
	Redis       redis.Config `envPrefix:"REDIS_"` // Redis configuration

	SnapshotInterval   time.Duration `env:"SNAPSHOT_INTERVAL" envDefault:"30s"`
	SnapshotEventDelta int64         `env:"SNAPSHOT_EVENT_DELTA" envDefault:"1000"`
}

// KafkaConfig holds the topics the engine consumes and produces.
type KafkaConfig struct {
	Brokers    []string `env:"BROKER,required"`
	OrderTopic string   `env:"ORDER_TOPIC,required"`
	TradeTopic string   `env:"TRADE_TOPIC,required"`
	GroupID    string   `env:"GROUP_ID" envDefault:"matching-engine"`
}

// EngineOptions builds the engine tuning options from the loaded config,
// falling back to the defaults for unset values.
func (c *Config) EngineOptions() *Options {
	options := DefaultEngineOptions()
	if c.SnapshotInterval > 0 {
		options.SnapshotInterval = c.SnapshotInterval
	}
	if c.SnapshotEventDelta > 0 {
		options.SnapshotEventDelta = c.SnapshotEventDelta
	}
	return options
}
