package workspace

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"studynotes/internal/config"
	"studynotes/internal/domain"
	wssvc "studynotes/internal/domain/services/workspace"
)

// validationError converts an ozzo-validation error into the domain type.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	return &domain.ValidationError{Message: err.Error()}
}

func validateFolderName(name string) error {
	return validationError(validation.Validate(name,
		validation.Required.Error("folder name is required"),
		validation.RuneLength(1, config.MaxFolderNameLength),
	))
}

func normalizeCreateNote(req *wssvc.CreateNoteRequest) error {
	req.FolderID = strings.TrimSpace(req.FolderID)
	req.Question = strings.TrimSpace(req.Question)
	req.Answer = strings.TrimSpace(req.Answer)
	return validationError(validation.ValidateStruct(req,
		validation.Field(&req.FolderID, validation.Required.Error("folder is required")),
		validation.Field(&req.Question,
			validation.Required.Error("question is required"),
			validation.RuneLength(1, config.MaxQuestionLength),
		),
		validation.Field(&req.Answer,
			validation.Required.Error("answer is required"),
			validation.RuneLength(1, config.MaxAnswerLength),
		),
	))
}

func normalizeUpdateNote(req *wssvc.UpdateNoteRequest) error {
	req.NoteID = strings.TrimSpace(req.NoteID)
	req.Question = strings.TrimSpace(req.Question)
	req.Answer = strings.TrimSpace(req.Answer)
	return validationError(validation.ValidateStruct(req,
		validation.Field(&req.NoteID, validation.Required.Error("note id is required")),
		validation.Field(&req.Question,
			validation.Required.Error("question is required"),
			validation.RuneLength(1, config.MaxQuestionLength),
		),
		validation.Field(&req.Answer,
			validation.Required.Error("answer is required"),
			validation.RuneLength(1, config.MaxAnswerLength),
		),
	))
}

func normalizeCreatePlan(req *wssvc.CreatePlanRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.TargetDate = strings.TrimSpace(req.TargetDate)
	return validationError(validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required.Error("plan title is required"),
			validation.RuneLength(1, config.MaxPlanTitleLength),
		),
	))
}

func normalizeUpdatePlan(req *wssvc.UpdatePlanRequest) error {
	req.PlanID = strings.TrimSpace(req.PlanID)
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		req.Title = &t
	}
	if req.TargetDate != nil {
		d := strings.TrimSpace(*req.TargetDate)
		req.TargetDate = &d
	}
	return validationError(validation.ValidateStruct(req,
		validation.Field(&req.PlanID, validation.Required.Error("plan id is required")),
		validation.Field(&req.Title,
			validation.NilOrNotEmpty.Error("plan title cannot be empty"),
			validation.RuneLength(1, config.MaxPlanTitleLength),
		),
	))
}
