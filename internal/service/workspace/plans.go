package workspace

import (
	"context"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"studynotes/internal/domain"
	wsmodels "studynotes/internal/domain/models/workspace"
	wssvc "studynotes/internal/domain/services/workspace"
)

// NormalizeTargetDate parses a human-entered date ("2026-06-01",
// "June 1, 2026", "06/01/2026 09:00") and returns it as RFC 3339 UTC.
func NormalizeTargetDate(raw string) (string, error) {
	t, err := dateparse.ParseIn(strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return "", domain.NewValidationError("invalid target date %q", raw)
	}
	return t.UTC().Format(time.RFC3339), nil
}

// CreatePlan stores a new study plan.
func (s *Session) CreatePlan(ctx context.Context, req *wssvc.CreatePlanRequest) (*wsmodels.Plan, error) {
	if err := normalizeCreatePlan(req); err != nil {
		return nil, err
	}
	plan := &wsmodels.Plan{Title: req.Title}
	if req.TargetDate != "" {
		date, err := NormalizeTargetDate(req.TargetDate)
		if err != nil {
			return nil, err
		}
		plan.TargetDate = &date
	}

	uid, _, err := s.attached()
	if err != nil {
		return nil, err
	}
	if err := s.planRepo.Create(detachedContext(ctx), uid, plan); err != nil {
		return nil, domain.Transient("create plan", err)
	}

	s.logger.Info("plan created", "id", plan.ID, "title", plan.Title, "target_date", plan.TargetDate)
	return plan, nil
}

// UpdatePlan merges the given fields into the plan, creating it when it
// does not exist yet.
func (s *Session) UpdatePlan(ctx context.Context, req *wssvc.UpdatePlanRequest) (*wsmodels.Plan, error) {
	if err := normalizeUpdatePlan(req); err != nil {
		return nil, err
	}
	patch := wsmodels.PlanPatch{Title: req.Title}
	if req.TargetDate != nil {
		date := ""
		if *req.TargetDate != "" {
			var err error
			if date, err = NormalizeTargetDate(*req.TargetDate); err != nil {
				return nil, err
			}
		}
		patch.TargetDate = &date
	}

	uid, _, err := s.attached()
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.Merge(detachedContext(ctx), uid, req.PlanID, patch)
	if err != nil {
		return nil, domain.Transient("update plan", err)
	}

	s.logger.Info("plan updated", "id", plan.ID, "title", plan.Title, "target_date", plan.TargetDate)
	return plan, nil
}

// DeletePlan removes a study plan.
func (s *Session) DeletePlan(ctx context.Context, planID string) error {
	planID = strings.TrimSpace(planID)
	if planID == "" {
		return domain.NewValidationError("plan id is required")
	}
	uid, _, err := s.attached()
	if err != nil {
		return err
	}
	if err := s.planRepo.Delete(detachedContext(ctx), uid, planID); err != nil {
		return domain.Transient("delete plan", err)
	}
	s.logger.Info("plan deleted", "id", planID)
	return nil
}
