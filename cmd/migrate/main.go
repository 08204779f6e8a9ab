package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"
	"storefront/internal/migrate"
)

func main() {
	configPath := flag.String("config", "", "config file or directory holding config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding}).Named("migrate")
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		log.Fatal("apply migrations", zap.Error(err))
	}

	version, ok, err := migrate.Version(ctx, pool)
	if err != nil {
		log.Fatal("read schema version", zap.Error(err))
	}
	log.Info("migrations applied", zap.Uint("version", version), zap.Bool("versioned", ok))
}
