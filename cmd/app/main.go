package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/flightledger/config"
	"github.com/zvrva/flightledger/internal/bootstrap"
	"github.com/zvrva/flightledger/internal/cache"
	"github.com/zvrva/flightledger/internal/guard"
	"github.com/zvrva/flightledger/internal/kafka"
	"github.com/zvrva/flightledger/internal/ledger"
	"github.com/zvrva/flightledger/internal/metrics"
	"github.com/zvrva/flightledger/internal/repository"
	"github.com/zvrva/flightledger/internal/vault"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store repository.FlightStore
	switch cfg.Database.Driver {
	case "", "postgres":
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			sugar.Fatalw("connect postgres", "error", err)
		}
		defer pool.Close()
		store = repository.NewPGFlightStore(pool)
	case "memory":
		store = repository.NewMemoryStore()
	default:
		sugar.Fatalw("unknown database driver", "driver", cfg.Database.Driver)
	}

	cacheTTL := time.Duration(cfg.Ledger.CacheTTLSeconds) * time.Second
	redisCache := cache.NewRedisCache(cfg.Redis, cacheTTL)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	reg := metrics.NewRegistry()
	ledgerSvc := ledger.NewService(store, guard.TrustOnCreate{}, sugar,
		ledger.WithCache(redisCache),
		ledger.WithProducer(producer, cfg.Kafka.LedgerTopic),
		ledger.WithMaxPayloadBytes(cfg.Ledger.MaxPayloadBytes),
		ledger.WithMetrics(reg),
	)
	vaultSvc := vault.NewService(store)

	sugar.Infow("ledger starting", "address", cfg.HTTP.Address, "driver", cfg.Database.Driver)
	if err := bootstrap.Run(ctx, cfg, ledgerSvc, vaultSvc, reg); err != nil {
		sugar.Fatalw("server error", "error", err)
	}
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
