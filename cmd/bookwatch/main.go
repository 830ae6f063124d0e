package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/muhammadchandra19/orderbook/internal/app/watch"
	"github.com/muhammadchandra19/orderbook/internal/usecase/snapshot"
	"github.com/muhammadchandra19/orderbook/pkg/config"
	"github.com/muhammadchandra19/orderbook/pkg/logger"
	"github.com/muhammadchandra19/orderbook/pkg/redis"
)

// Config carries the pair to follow and the Redis backend holding its
// snapshots.
type Config struct {
	Watch watch.Config `envPrefix:"WATCH_"`
	Redis redis.Config `envPrefix:"REDIS_"`
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

	redisConfig := cfg.Redis
	rclient := redis.NewClient(log, &redisConfig)
	if err := rclient.Connect(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_redis",
		})
		return
	}
	defer func() {
		if err := rclient.Disconnect(context.Background()); err != nil {
			log.Error(err, logger.Field{
				Key:   "action",
				Value: "disconnect_redis",
			})
		}
	}()

	store := snapshot.NewStore(rclient, log)

	w := watch.NewWatch(rclient, store, log, os.Stdout, &cfg.Watch)
	if err := w.Run(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "run_watch",
		})
	}
}
