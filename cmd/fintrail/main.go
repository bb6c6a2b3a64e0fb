package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/fintrail/fintrail/internal/audit"
	"github.com/fintrail/fintrail/internal/config"
	"github.com/fintrail/fintrail/internal/policy"
	"github.com/fintrail/fintrail/internal/screening"
	"github.com/fintrail/fintrail/internal/service"
	"github.com/fintrail/fintrail/internal/store"
	"github.com/fintrail/fintrail/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		query      = flag.String("query", "", "natural-language query to run")
		trail      = flag.Int("trail", 0, "print the last N audit records instead of running a query")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, db, err := store.Open(cfg.DatabaseDSN, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to open store", zap.Error(err))
	}

	if cfg.Seed.Enabled {
		screener := screening.NewScreener(zapLogger.Sugar(), screening.DefaultConfig(), cfg.SanctionedEntities)
		seeder := store.NewSeeder(db, zapLogger, screener, cfg.Seed.Source)
		if err := seeder.Seed(cfg.Seed.Suppliers, cfg.Seed.Transactions); err != nil {
			zapLogger.Fatal("Failed to seed database", zap.Error(err))
		}
	}

	table, err := policy.Load(cfg.PolicyFile)
	if err != nil {
		zapLogger.Fatal("Failed to load policy table", zap.Error(err))
	}

	svc := service.New(
		st,
		policy.NewEngine(zapLogger.Sugar()),
		table,
		audit.NewRecorder(db, zapLogger),
		service.NewMetrics(prometheus.DefaultRegisterer),
		zapLogger,
		service.Options{
			QueryLimit:      cfg.QueryLimit,
			Recommendations: cfg.Recommendations,
		},
	)

	switch {
	case *trail > 0:
		records, err := svc.Trail(ctx, *trail)
		if err != nil {
			zapLogger.Fatal("Failed to read audit trail", zap.Error(err))
		}
		printJSON(records)
	case *query != "":
		result, err := svc.Query(ctx, *query)
		if err != nil {
			zapLogger.Fatal("Query failed", zap.Error(err))
		}
		printJSON(result)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}
}
