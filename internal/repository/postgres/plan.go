package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	models "studynotes/internal/domain/models/workspace"
	wsrepo "studynotes/internal/domain/repositories/workspace"
)

const planColumns = `id, title, target_date, created_at, updated_at`

// PostgresPlanRepository implements wsrepo.PlanRepository
type PostgresPlanRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	hub    *Hub
	logger *slog.Logger
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(config *RepositoryConfig) wsrepo.PlanRepository {
	return &PostgresPlanRepository{
		pool:   config.Pool,
		tables: config.Tables,
		hub:    config.Hub,
		logger: config.Logger,
	}
}

// Create inserts a plan and fills in its id and timestamps.
func (r *PostgresPlanRepository) Create(ctx context.Context, userID string, plan *models.Plan) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, title, target_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, r.tables.Plans)

	var created, updated time.Time
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, userID, plan.Title, plan.TargetDate).
		Scan(&plan.ID, &created, &updated)
	if err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	plan.CreatedAt = models.NewTimestamp(created)
	plan.UpdatedAt = models.NewTimestamp(updated)
	return nil
}

// Merge upserts: the patched fields are written, and a missing plan is
// created with them. A plan id owned by another user reports not found.
func (r *PostgresPlanRepository) Merge(ctx context.Context, userID, planID string, patch models.PlanPatch) (*models.Plan, error) {
	setDate := patch.TargetDate != nil
	var date *string
	if setDate && *patch.TargetDate != "" {
		date = patch.TargetDate
	}

	query := fmt.Sprintf(`
		INSERT INTO %[1]s AS p (id, user_id, title, target_date)
		VALUES ($1, $2, COALESCE($3, ''), $5)
		ON CONFLICT (id) DO UPDATE SET
			title = COALESCE($3, p.title),
			target_date = CASE WHEN $4 THEN $5 ELSE p.target_date END,
			updated_at = clock_timestamp()
		WHERE p.user_id = $2
		RETURNING %[2]s
	`, r.tables.Plans, planColumns)

	plan, err := scanPlan(GetExecutor(ctx, r.pool).QueryRow(ctx, query, planID, userID, patch.Title, setDate, date))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, notFound("plan", planID)
		}
		return nil, fmt.Errorf("merge plan: %w", err)
	}
	return plan, nil
}

// Delete removes the plan. Deleting a missing plan is not an error.
func (r *PostgresPlanRepository) Delete(ctx context.Context, userID, planID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, r.tables.Plans)
	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, planID, userID); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

// Subscribe streams the user's plans, oldest first.
func (r *PostgresPlanRepository) Subscribe(ctx context.Context, userID string, fn func([]models.Plan)) (wsrepo.Unsubscribe, error) {
	return watch(ctx, r.hub, collectionPlans, userID, func(ctx context.Context) ([]models.Plan, error) {
		return r.list(ctx, userID)
	}, fn)
}

func (r *PostgresPlanRepository) list(ctx context.Context, userID string) ([]models.Plan, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`, planColumns, r.tables.Plans)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	plans := []models.Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plans: %w", err)
	}

	r.logger.Debug("plans loaded", "user_id", userID, "count", len(plans))
	return plans, nil
}

func scanPlan(row pgx.Row) (*models.Plan, error) {
	var (
		p                models.Plan
		created, updated time.Time
	)
	if err := row.Scan(&p.ID, &p.Title, &p.TargetDate, &created, &updated); err != nil {
		return nil, err
	}
	p.CreatedAt = models.NewTimestamp(created)
	p.UpdatedAt = models.NewTimestamp(updated)
	return &p, nil
}
