package memory

import (
	"context"

	models "studynotes/internal/domain/models/workspace"
	wsrepo "studynotes/internal/domain/repositories/workspace"
)

// PlanRepository is the in-memory wsrepo.PlanRepository
type PlanRepository struct {
	store *Store
}

var _ wsrepo.PlanRepository = (*PlanRepository)(nil)

func (r *PlanRepository) Create(ctx context.Context, userID string, plan *models.Plan) error {
	if err := r.store.Faults.hit("plans.create", plan.Title); err != nil {
		return err
	}
	now := r.store.serverTime()
	plan.ID = r.store.ids.New()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	doc := *plan
	return r.store.plans.write(userID, func(docs map[string]models.Plan) (bool, error) {
		docs[doc.ID] = doc
		return true, nil
	})
}

// Merge upserts: a missing plan is created with the patched fields.
func (r *PlanRepository) Merge(ctx context.Context, userID, planID string, patch models.PlanPatch) (*models.Plan, error) {
	if err := r.store.Faults.hit("plans.merge", planID); err != nil {
		return nil, err
	}
	var out models.Plan
	err := r.store.plans.write(userID, func(docs map[string]models.Plan) (bool, error) {
		now := r.store.serverTime()
		doc, ok := docs[planID]
		if !ok {
			doc = models.Plan{ID: planID, CreatedAt: now}
		}
		patch.Apply(&doc)
		doc.UpdatedAt = now
		docs[planID] = doc
		out = doc
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *PlanRepository) Delete(ctx context.Context, userID, planID string) error {
	if err := r.store.Faults.hit("plans.delete", planID); err != nil {
		return err
	}
	return r.store.plans.write(userID, func(docs map[string]models.Plan) (bool, error) {
		if _, ok := docs[planID]; !ok {
			return false, nil
		}
		delete(docs, planID)
		return true, nil
	})
}

func (r *PlanRepository) Subscribe(ctx context.Context, userID string, fn func([]models.Plan)) (wsrepo.Unsubscribe, error) {
	if err := r.store.Faults.hit("plans.subscribe", userID); err != nil {
		return nil, err
	}
	return r.store.plans.subscribe(userID, fn), nil
}
