package main

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/flatledger/flatledger/internal/config"
	"github.com/flatledger/flatledger/internal/db"
	"github.com/flatledger/flatledger/internal/logging"
)

// Schema migration runner. The HTTP shell that consumes the engine lives
// outside this repository; this entrypoint owns the startup the engine is
// responsible for: configuration, the structured logger, the database
// connection, and bringing the schema (including the payments period unique
// constraint) up to date.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, logFormatFor(cfg.Env))
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if _, err := db.ConnectAndMigrate(logger); err != nil {
		logger.Fatal("db connect/migrate failed", zap.Error(err))
	}
	logger.Info("migrations completed", zap.String("env", cfg.Env))
}

func logFormatFor(env string) string {
	if env == "development" {
		return "console"
	}
	return "json"
}
