package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "github.com/muhammadchandra19/orderbook/internal/app/engine"
	orderreader "github.com/muhammadchandra19/orderbook/internal/usecase/order-reader"
	"github.com/muhammadchandra19/orderbook/internal/usecase/orderbook"
	"github.com/muhammadchandra19/orderbook/internal/usecase/snapshot"
	tradepublisher "github.com/muhammadchandra19/orderbook/internal/usecase/trade-publisher"
	"github.com/muhammadchandra19/orderbook/pkg/config"
	"github.com/muhammadchandra19/orderbook/pkg/logger"
	"github.com/muhammadchandra19/orderbook/pkg/redis"
)

var cfg *app.Config
var log *logger.Logger

func init() {
	cfg = &app.Config{}
	config.MustLoad(cfg)

	l, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	log = l
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	redisConfig := cfg.Redis
	rclient := redis.NewClient(log, &redisConfig)
	if err := rclient.Connect(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_redis",
		})
		return
	}

	ob := orderbook.NewOrderbook()
	orderReader := orderreader.NewConsumer(orderreader.Config{
		Brokers: cfg.Brokers,
		Topic:   cfg.OrderTopic,
		GroupID: cfg.GroupID,
	}, log)
	tradePublisher := tradepublisher.NewPublisher(tradepublisher.Config{
		Brokers: cfg.Brokers,
		Topic:   cfg.TradeTopic,
	}, log)
	snapshotStore := snapshot.NewStore(rclient, log)

	engine := app.NewEngineWithOptions(
		ob,
		orderReader,
		tradePublisher,
		snapshotStore,
		log,
		cfg,
		cfg.EngineOptions(),
	)

	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "start_engine",
		})
		return
	}

	log.Info("matching engine started", logger.Field{
		Key:   "pair",
		Value: cfg.Pair,
	})

	sig := <-sigChan
	log.Info("received shutdown signal", logger.Field{
		Key:   "signal",
		Value: sig.String(),
	})

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "stop_engine",
		})
	}

	if err := rclient.Disconnect(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "disconnect_redis",
		})
	}

	log.Info("matching engine shutdown complete")
}
