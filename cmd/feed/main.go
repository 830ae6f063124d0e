package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/muhammadchandra19/orderbook/internal/app/feed"
	snapshotv1 "github.com/muhammadchandra19/orderbook/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/orderbook/internal/usecase/marketdata"
	"github.com/muhammadchandra19/orderbook/internal/usecase/orderbook"
	"github.com/muhammadchandra19/orderbook/internal/usecase/snapshot"
	"github.com/muhammadchandra19/orderbook/internal/usecase/strategy"
	"github.com/muhammadchandra19/orderbook/pkg/config"
	"github.com/muhammadchandra19/orderbook/pkg/logger"
	"github.com/muhammadchandra19/orderbook/pkg/redis"
)

// Config wires the market data poller together with its optional snapshot
// publishing backend.
type Config struct {
	Feed       feed.Config       `envPrefix:"FEED_"`
	MarketData marketdata.Config `envPrefix:"ALPACA_"`
	Redis      redis.Config      `envPrefix:"REDIS_"`

	// PublishSnapshots mirrors every rendered book into the snapshot store so
	// bookwatch sessions can follow along.
	PublishSnapshots bool `env:"PUBLISH_SNAPSHOTS" envDefault:"false"`
}

var cfg *Config
var log *logger.Logger

func init() {
	cfg = &Config{}
	config.MustLoad(cfg)

	l, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := marketdata.NewClient(cfg.MarketData, log)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "init_market_data_client",
		})
		return
	}

	var store snapshotv1.Store
	if cfg.PublishSnapshots {
		redisConfig := cfg.Redis
		rclient := redis.NewClient(log, &redisConfig)
		if err := rclient.Connect(ctx); err != nil {
			// The feed keeps rendering locally even when the snapshot
			// backend is unreachable.
			log.Error(err, logger.Field{
				Key:   "action",
				Value: "connect_redis",
			})
		} else {
			store = snapshot.NewStore(rclient, log)
			defer func() {
				if err := rclient.Disconnect(context.Background()); err != nil {
					log.Error(err, logger.Field{
						Key:   "action",
						Value: "disconnect_redis",
					})
				}
			}()
		}
	}

	book := orderbook.NewOrderbook()
	spreadStrategy := strategy.NewSpreadStrategy(decimal.NewFromFloat(cfg.Feed.TargetSpreadPct))

	f := feed.NewFeed(client, book, spreadStrategy, store, os.Stdout, log, &cfg.Feed)
	if err := f.Run(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "run_feed",
		})
	}
}
