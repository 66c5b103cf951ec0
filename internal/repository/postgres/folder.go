package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	models "studynotes/internal/domain/models/workspace"
	wsrepo "studynotes/internal/domain/repositories/workspace"
)

// PostgresFolderRepository implements wsrepo.FolderRepository
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	hub    *Hub
	logger *slog.Logger
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) wsrepo.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		hub:    config.Hub,
		logger: config.Logger,
	}
}

// Create inserts a folder and fills in its server-assigned id and time.
func (r *PostgresFolderRepository) Create(ctx context.Context, userID string, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, parent_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, r.tables.Folders)

	var created time.Time
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		userID,
		folder.Name,
		folder.ParentID,
	).Scan(&folder.ID, &created)
	if err != nil {
		return fmt.Errorf("create folder: %w", err)
	}
	folder.CreatedAt = models.NewTimestamp(created)
	return nil
}

// Update writes the folder's name and parent.
func (r *PostgresFolderRepository) Update(ctx context.Context, userID string, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, parent_id = $2, updated_at = clock_timestamp()
		WHERE id = $3 AND user_id = $4
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.Name,
		folder.ParentID,
		folder.ID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return notFound("folder", folder.ID)
	}
	return nil
}

// Delete removes a single folder. Children and notes are not touched.
func (r *PostgresFolderRepository) Delete(ctx context.Context, userID, folderID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, r.tables.Folders)
	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, folderID, userID); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	return nil
}

// List reads the user's folders, oldest first.
func (r *PostgresFolderRepository) List(ctx context.Context, userID string) ([]models.Folder, error) {
	return r.list(ctx, userID)
}

// Subscribe streams the user's folders, oldest first.
func (r *PostgresFolderRepository) Subscribe(ctx context.Context, userID string, fn func([]models.Folder)) (wsrepo.Unsubscribe, error) {
	return watch(ctx, r.hub, collectionFolders, userID, func(ctx context.Context) ([]models.Folder, error) {
		return r.list(ctx, userID)
	}, fn)
}

func (r *PostgresFolderRepository) list(ctx context.Context, userID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, name, parent_id, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`, r.tables.Folders)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		var (
			f       models.Folder
			created time.Time
		)
		if err := rows.Scan(&f.ID, &f.Name, &f.ParentID, &created); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		f.CreatedAt = models.NewTimestamp(created)
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	r.logger.Debug("folders loaded", "user_id", userID, "count", len(folders))
	return folders, nil
}
