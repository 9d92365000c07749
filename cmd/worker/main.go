package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/zvrva/flightledger/config"
	"github.com/zvrva/flightledger/internal/kafka"
	"github.com/zvrva/flightledger/internal/settlement"
	"go.uber.org/zap"
)

// The worker consumes the ledger event stream and drives the external
// settlement layer: escrow funding on purchase, refund payout on
// cancellation. The ledger itself never moves value.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.LedgerTopic)
	defer consumer.Close()

	notifier := settlement.NewNotifier(sugar)

	sugar.Infow("settlement worker starting", "topic", cfg.Kafka.LedgerTopic, "group", cfg.Kafka.GroupID)
	if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
		var event kafka.LedgerEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			sugar.Warnw("decode event", "error", err)
			return nil
		}
		return notifier.Handle(ctx, event)
	}); err != nil && ctx.Err() == nil {
		sugar.Errorw("consumer stopped", "error", err)
	}
}
