package handler

import (
	"log/slog"
	"net/http"
	"time"

	wsmodels "studynotes/internal/domain/models/workspace"
	wssvc "studynotes/internal/domain/services/workspace"
	"studynotes/internal/httputil"
	"studynotes/internal/service/study"
)

// PlanHandler handles study-plan HTTP requests
type PlanHandler struct {
	now    func() time.Time
	logger *slog.Logger
}

// NewPlanHandler creates a new plan handler. now defaults to time.Now.
func NewPlanHandler(now func() time.Time, logger *slog.Logger) *PlanHandler {
	if now == nil {
		now = time.Now
	}
	return &PlanHandler{now: now, logger: logger}
}

// CreatePlan creates a study plan
// POST /api/plans
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req wssvc.CreatePlanRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	plan, err := s.CreatePlan(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, plan)
}

type updatePlanBody struct {
	Title      *string `json:"title"`
	TargetDate *string `json:"target_date"`
}

// UpdatePlan merges title and/or target date into a plan. An empty
// target_date clears it.
// PATCH /api/plans/{id}
func (h *PlanHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Plan ID")
	if !ok {
		return
	}
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var body updatePlanBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	plan, err := s.UpdatePlan(r.Context(), &wssvc.UpdatePlanRequest{
		PlanID:     id,
		Title:      body.Title,
		TargetDate: body.TargetDate,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, plan)
}

// DeletePlan deletes a study plan
// DELETE /api/plans/{id}
func (h *PlanHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Plan ID")
	if !ok {
		return
	}
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	if err := s.DeletePlan(r.Context(), id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PlanCountdown pairs a plan with its countdown
type PlanCountdown struct {
	Plan      wsmodels.Plan   `json:"plan"`
	Countdown study.Countdown `json:"countdown"`
}

// ListCountdowns returns every plan with its countdown label
// GET /api/plans/countdowns
func (h *PlanHandler) ListCountdowns(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	now := h.now()
	plans := s.View().Plans
	out := make([]PlanCountdown, len(plans))
	for i, p := range plans {
		out[i] = PlanCountdown{Plan: p, Countdown: study.CountdownTo(p.TargetDate, now)}
	}
	httputil.RespondJSON(w, http.StatusOK, out)
}
