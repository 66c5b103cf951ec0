package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	models "studynotes/internal/domain/models/workspace"
	wsrepo "studynotes/internal/domain/repositories/workspace"
)

const noteColumns = `id, folder_id, question, answer, hidden, attachments, created_at, updated_at`

// PostgresNoteRepository implements wsrepo.NoteRepository
type PostgresNoteRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	hub    *Hub
	logger *slog.Logger
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(config *RepositoryConfig) wsrepo.NoteRepository {
	return &PostgresNoteRepository{
		pool:   config.Pool,
		tables: config.Tables,
		hub:    config.Hub,
		logger: config.Logger,
	}
}

// Create inserts a note and fills in its id and timestamps.
func (r *PostgresNoteRepository) Create(ctx context.Context, userID string, note *models.Note) error {
	attachments, err := encodeAttachments(note.Attachments)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, folder_id, question, answer, hidden, attachments)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb)
		RETURNING id, created_at, updated_at
	`, r.tables.Notes)

	var created, updated time.Time
	err = GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		userID,
		note.FolderID,
		note.Question,
		note.Answer,
		note.Hidden,
		attachments,
	).Scan(&note.ID, &created, &updated)
	if err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	note.CreatedAt = models.NewTimestamp(created)
	note.UpdatedAt = models.NewTimestamp(updated)
	return nil
}

// Get returns the full note document.
func (r *PostgresNoteRepository) Get(ctx context.Context, userID, noteID string) (*models.Note, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND user_id = $2`, noteColumns, r.tables.Notes)

	note, err := scanNote(GetExecutor(ctx, r.pool).QueryRow(ctx, query, noteID, userID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, notFound("note", noteID)
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

// Patch writes the non-nil fields of patch and returns the stored note.
func (r *PostgresNoteRepository) Patch(ctx context.Context, userID, noteID string, patch models.NotePatch) (*models.Note, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any, cast string) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d%s", column, len(args), cast))
	}
	if patch.Question != nil {
		set("question", *patch.Question, "")
	}
	if patch.Answer != nil {
		set("answer", *patch.Answer, "")
	}
	if patch.Hidden != nil {
		set("hidden", *patch.Hidden, "")
	}
	if patch.Attachments != nil {
		encoded, err := encodeAttachments(*patch.Attachments)
		if err != nil {
			return nil, err
		}
		set("attachments", encoded, "::jsonb")
	}
	sets = append(sets, "updated_at = clock_timestamp()")
	args = append(args, noteID, userID)

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE id = $%d AND user_id = $%d
		RETURNING %s
	`, r.tables.Notes, strings.Join(sets, ", "), len(args)-1, len(args), noteColumns)

	note, err := scanNote(GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, notFound("note", noteID)
		}
		return nil, fmt.Errorf("patch note: %w", err)
	}
	return note, nil
}

// Delete removes the note row. Deleting a missing note is not an error.
func (r *PostgresNoteRepository) Delete(ctx context.Context, userID, noteID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, r.tables.Notes)
	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, noteID, userID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// List reads the thin projection of the user's notes, oldest first.
func (r *PostgresNoteRepository) List(ctx context.Context, userID string) ([]models.Note, error) {
	return r.listThin(ctx, userID)
}

// Subscribe streams the thin projection of the user's notes, oldest first.
func (r *PostgresNoteRepository) Subscribe(ctx context.Context, userID string, fn func([]models.Note)) (wsrepo.Unsubscribe, error) {
	return watch(ctx, r.hub, collectionNotes, userID, func(ctx context.Context) ([]models.Note, error) {
		return r.listThin(ctx, userID)
	}, fn)
}

func (r *PostgresNoteRepository) listThin(ctx context.Context, userID string) ([]models.Note, error) {
	query := fmt.Sprintf(`
		SELECT id, folder_id, question, hidden, created_at, updated_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`, r.tables.Notes)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var (
			n                models.Note
			created, updated time.Time
		)
		if err := rows.Scan(&n.ID, &n.FolderID, &n.Question, &n.Hidden, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		n.CreatedAt = models.NewTimestamp(created)
		n.UpdatedAt = models.NewTimestamp(updated)
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}

	r.logger.Debug("notes loaded", "user_id", userID, "count", len(notes))
	return notes, nil
}

func scanNote(row pgx.Row) (*models.Note, error) {
	var (
		n                models.Note
		attachments      []byte
		created, updated time.Time
	)
	err := row.Scan(&n.ID, &n.FolderID, &n.Question, &n.Answer, &n.Hidden, &attachments, &created, &updated)
	if err != nil {
		return nil, err
	}
	n.Attachments = []models.Attachment{}
	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &n.Attachments); err != nil {
			return nil, fmt.Errorf("decode attachments of note %s: %w", n.ID, err)
		}
	}
	n.CreatedAt = models.NewTimestamp(created)
	n.UpdatedAt = models.NewTimestamp(updated)
	return &n, nil
}

func encodeAttachments(atts []models.Attachment) (string, error) {
	if atts == nil {
		atts = []models.Attachment{}
	}
	data, err := json.Marshal(atts)
	if err != nil {
		return "", fmt.Errorf("encode attachments: %w", err)
	}
	return string(data), nil
}
