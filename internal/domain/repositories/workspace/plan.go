package workspace

import (
	"context"

	models "studynotes/internal/domain/models/workspace"
)

// PlanRepository defines realtime data access for a user's study plans
type PlanRepository interface {
	// Create stores a new plan. The store assigns ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, userID string, plan *models.Plan) error

	// Merge upserts the patched fields and returns the stored plan
	Merge(ctx context.Context, userID, planID string, patch models.PlanPatch) (*models.Plan, error)

	// Delete removes the plan document
	Delete(ctx context.Context, userID, planID string) error

	// Subscribe delivers the plan list ordered by creation time ascending
	Subscribe(ctx context.Context, userID string, fn func([]models.Plan)) (Unsubscribe, error)
}
