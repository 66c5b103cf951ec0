package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"studynotes/internal/auth"
	"studynotes/internal/config"
	"studynotes/internal/repository/postgres"
	"studynotes/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	reset := flag.Bool("reset", false, "Roll back every migration before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only apply migrations, don't seed a workspace")
	email := flag.String("email", os.Getenv("SEED_EMAIL"), "Email of the demo user (created if missing)")
	password := flag.String("password", os.Getenv("SEED_PASSWORD"), "Password for a newly created demo user")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	logger := config.NewLogger(os.Stdout, cfg.Debug)

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *reset {
		log.Fatalf("BLOCKED: cannot run --reset in production environment")
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required")
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)
	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	if *reset {
		log.Println("Rolling back all migrations...")
		if err := postgres.MigrateDown(cfg.DatabaseURL, tables, logger); err != nil {
			log.Fatalf("Failed to roll back migrations: %v", err)
		}
	}

	log.Println("Applying migrations...")
	if err := postgres.MigrateUp(cfg.DatabaseURL, tables, logger); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}
	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	if *email == "" || cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		log.Fatalf("seeding needs --email, SUPABASE_URL and SUPABASE_KEY")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	admin := auth.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseKey)
	userID, err := admin.EnsureUser(ctx, *email, *password)
	if err != nil {
		log.Fatalf("Failed to ensure demo user: %v", err)
	}
	log.Printf("Demo user %s (ID: %s)", *email, userID)

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	seeder := seed.NewWorkspaceSeeder(
		postgres.NewFolderRepository(repoConfig),
		postgres.NewNoteRepository(repoConfig),
		postgres.NewPlanRepository(repoConfig),
		postgres.NewTransactionManager(pool, logger),
		logger,
	)

	target := time.Now().UTC().AddDate(0, 2, 0).Truncate(24 * time.Hour).Format(time.RFC3339)
	res, err := seeder.Seed(ctx, userID, seed.DemoFolders(), seed.DemoPlans(target))
	if err != nil {
		log.Fatalf("Failed to seed workspace: %v", err)
	}

	log.Printf("Seeding complete: %d folders, %d notes, %d plans", res.Folders, res.Notes, res.Plans)
}
