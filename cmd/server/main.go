package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studynotes/internal/auth"
	"studynotes/internal/config"
	"studynotes/internal/domain/services"
	"studynotes/internal/handler"
	"studynotes/internal/handler/sse"
	"studynotes/internal/middleware"
	"studynotes/internal/service/assistant"
	serviceLLM "studynotes/internal/service/llm"
	"studynotes/internal/service/study"
	"studynotes/internal/service/workspace"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup structured logging, optionally teed into a rotated log file
	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, config.MaxLogFiles, time.Now())
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}
	logger := config.NewLogger(logOut, cfg.Debug)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"store", cfg.StoreBackend,
		"blobs", cfg.BlobBackend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(ctx, cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Document store and attachment storage
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open document store: %v", err)
	}
	defer store.Close()

	blobs, err := openBlobs(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open blob storage: %v", err)
	}

	// AI assistant; runs in fallback mode when no provider is configured
	var completer services.Completer
	if cfg.AIProvider != config.BackendNone {
		c, err := serviceLLM.NewCompleterFromConfig(cfg, logger)
		if err != nil {
			log.Fatalf("Failed to setup AI provider: %v", err)
		}
		completer = c
	} else {
		logger.Warn("AI provider disabled, assistant replies with fallback text")
	}
	assistantService, err := assistant.NewService(completer, logger)
	if err != nil {
		log.Fatalf("Failed to load assistant prompts: %v", err)
	}

	// One workspace session per signed-in user
	registry := workspace.NewRegistry(ctx, func() *workspace.Session {
		return workspace.NewSession(store.folders, store.notes, store.plans, blobs.store, logger)
	}, logger)
	defer registry.Close()

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, &handler.Handlers{
		Workspace: handler.NewWorkspaceHandler(registry, sse.DefaultConfig(), logger),
		Folder:    handler.NewFolderHandler(logger),
		Note:      handler.NewNoteHandler(handler.NewMarkdownRenderer(), logger),
		Plan:      handler.NewPlanHandler(time.Now, logger),
		Quiz:      handler.NewQuizHandler(study.NewQuiz(nil), logger),
		Assistant: handler.NewAssistantHandler(assistantService, logger),
		Blob:      blobs.handler,
	})

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Session → Routes
	h = middleware.SessionMiddleware(registry, logger)(h)
	h = middleware.AuthMiddleware(jwtVerifier, logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Origins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}
