package main

import (
	"context"
	"log"

	"plantshop/internal/config"
	"plantshop/internal/db"
	"plantshop/internal/logging"
	"plantshop/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.New()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Info("seed applied")
}
