package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"studynotes/internal/config"
	wsrepo "studynotes/internal/domain/repositories/workspace"
	"studynotes/internal/handler"
	"studynotes/internal/repository/memory"
	"studynotes/internal/repository/postgres"
	"studynotes/internal/storage/s3"
)

// documentStore bundles the three repositories a session subscribes to.
type documentStore struct {
	folders wsrepo.FolderRepository
	notes   wsrepo.NoteRepository
	plans   wsrepo.PlanRepository
	close   func()
}

func (s *documentStore) Close() {
	if s.close != nil {
		s.close()
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*documentStore, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		logger.Warn("using in-memory document store, data is lost on restart")
		m := memory.NewStore()
		return &documentStore{folders: m.Folders(), notes: m.Notes(), plans: m.Plans()}, nil

	case config.BackendPostgres:
		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.MigrateUp(cfg.DatabaseURL, tables, logger); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}

		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("database connected",
			"max_conns", pool.Config().MaxConns,
			"min_conns", pool.Config().MinConns,
		)

		hub := postgres.NewHub(pool, tables, logger)
		hubCtx, cancel := context.WithCancel(ctx)
		go func() {
			if err := hub.Run(hubCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("change listener stopped", "error", err)
			}
		}()

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Hub:    hub,
			Logger: logger,
		}
		return &documentStore{
			folders: postgres.NewFolderRepository(repoConfig),
			notes:   postgres.NewNoteRepository(repoConfig),
			plans:   postgres.NewPlanRepository(repoConfig),
			close: func() {
				cancel()
				pool.Close()
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// blobBackend is the attachment store plus the handler behind the server's
// /blobs/ route, when attachment URLs point there.
type blobBackend struct {
	store   wsrepo.BlobStore
	handler *handler.BlobHandler
}

func openBlobs(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*blobBackend, error) {
	switch cfg.BlobBackend {
	case config.BackendNone:
		logger.Warn("blob storage disabled, attachments are not uploaded")
		return &blobBackend{}, nil

	case config.BackendMemory:
		m := memory.NewBlobStore(cfg.BlobBaseURL)
		return &blobBackend{store: m, handler: handler.NewBlobHandler(m)}, nil

	case config.BackendS3:
		publicBase := cfg.S3PublicBaseURL
		if publicBase == "" {
			publicBase = cfg.BlobBaseURL
		}
		store, err := s3.New(ctx, s3.Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   publicBase,
			URLTTL:          cfg.URLTTL,
		}, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("s3 blob storage ready", "bucket", cfg.S3Bucket, "endpoint", cfg.S3Endpoint)
		if cfg.S3PublicBaseURL != "" {
			return &blobBackend{store: store}, nil
		}
		return &blobBackend{store: store, handler: handler.NewSignedBlobHandler(store, logger)}, nil
	}
	return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
}
