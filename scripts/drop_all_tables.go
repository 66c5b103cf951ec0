//go:build ignore

// Rolls back every migration for the current environment's table prefix.
//
//	go run scripts/drop_all_tables.go
package main

import (
	"fmt"
	"log"
	"os"

	"studynotes/internal/config"
	"studynotes/internal/repository/postgres"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	if cfg.Environment == "prod" {
		log.Fatal("refusing to drop tables in prod")
	}

	logger := config.NewLogger(os.Stdout, cfg.Debug)
	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.MigrateDown(cfg.DatabaseURL, tables, logger); err != nil {
		log.Fatalf("Failed to drop tables: %v", err)
	}

	fmt.Printf("All tables dropped successfully (prefix: %s)\n", cfg.TablePrefix)
}
