package seed

import (
	"context"
	"fmt"
	"log/slog"

	wsmodels "studynotes/internal/domain/models/workspace"
	"studynotes/internal/domain/repositories"
	wsrepo "studynotes/internal/domain/repositories/workspace"
)

// FolderSeed is a folder with its notes and subfolders.
type FolderSeed struct {
	Name       string
	Notes      []NoteSeed
	Subfolders []FolderSeed
}

// NoteSeed is a question/answer pair.
type NoteSeed struct {
	Question string
	Answer   string
}

// PlanSeed is a study plan; TargetDate is RFC 3339 or empty.
type PlanSeed struct {
	Title      string
	TargetDate string
}

// Result counts what was written.
type Result struct {
	Folders int
	Notes   int
	Plans   int
}

// WorkspaceSeeder writes a demo workspace through the repositories.
type WorkspaceSeeder struct {
	folders wsrepo.FolderRepository
	notes   wsrepo.NoteRepository
	plans   wsrepo.PlanRepository
	tx      repositories.TransactionManager // nil runs without a transaction
	logger  *slog.Logger
}

// NewWorkspaceSeeder creates a new workspace seeder
func NewWorkspaceSeeder(
	folders wsrepo.FolderRepository,
	notes wsrepo.NoteRepository,
	plans wsrepo.PlanRepository,
	tx repositories.TransactionManager,
	logger *slog.Logger,
) *WorkspaceSeeder {
	return &WorkspaceSeeder{
		folders: folders,
		notes:   notes,
		plans:   plans,
		tx:      tx,
		logger:  logger,
	}
}

// Seed writes the folder trees and plans for userID in one transaction
// when a transaction manager is set.
func (s *WorkspaceSeeder) Seed(ctx context.Context, userID string, folders []FolderSeed, plans []PlanSeed) (Result, error) {
	var res Result
	run := func(ctx context.Context) error {
		res = Result{}
		for _, f := range folders {
			if err := s.seedFolder(ctx, userID, nil, f, &res); err != nil {
				return err
			}
		}
		for _, p := range plans {
			plan := &wsmodels.Plan{Title: p.Title}
			if p.TargetDate != "" {
				date := p.TargetDate
				plan.TargetDate = &date
			}
			if err := s.plans.Create(ctx, userID, plan); err != nil {
				return fmt.Errorf("create plan %q: %w", p.Title, err)
			}
			res.Plans++
		}
		return nil
	}

	var err error
	if s.tx != nil {
		err = s.tx.ExecTx(ctx, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("workspace seeded",
		"user_id", userID,
		"folders", res.Folders,
		"notes", res.Notes,
		"plans", res.Plans,
	)
	return res, nil
}

func (s *WorkspaceSeeder) seedFolder(ctx context.Context, userID string, parentID *string, f FolderSeed, res *Result) error {
	folder := &wsmodels.Folder{Name: f.Name, ParentID: parentID}
	if err := s.folders.Create(ctx, userID, folder); err != nil {
		return fmt.Errorf("create folder %q: %w", f.Name, err)
	}
	res.Folders++
	s.logger.Debug("seeded folder", "id", folder.ID, "name", folder.Name)

	for _, n := range f.Notes {
		note := &wsmodels.Note{
			FolderID:    folder.ID,
			Question:    n.Question,
			Answer:      n.Answer,
			Hidden:      true,
			Attachments: []wsmodels.Attachment{},
		}
		if err := s.notes.Create(ctx, userID, note); err != nil {
			return fmt.Errorf("create note %q: %w", n.Question, err)
		}
		res.Notes++
	}

	id := folder.ID
	for _, sub := range f.Subfolders {
		if err := s.seedFolder(ctx, userID, &id, sub, res); err != nil {
			return err
		}
	}
	return nil
}

// DemoFolders is the sample workspace: a biology course with a cells
// chapter, and a history course.
func DemoFolders() []FolderSeed {
	return []FolderSeed{
		{
			Name: "Biology",
			Notes: []NoteSeed{
				{Question: "What is osmosis?", Answer: "Diffusion of **water** across a semi-permeable membrane."},
			},
			Subfolders: []FolderSeed{
				{
					Name: "Cells",
					Notes: []NoteSeed{
						{Question: "Powerhouse of the cell?", Answer: "The mitochondrion."},
						{Question: "Where is DNA stored?", Answer: "In the nucleus.\nSome also in mitochondria."},
						{Question: "What do ribosomes make?", Answer: "Proteins"},
					},
				},
			},
		},
		{
			Name: "History",
			Notes: []NoteSeed{
				{Question: "When did the Berlin Wall fall?", Answer: "9 November 1989"},
			},
		},
	}
}

// DemoPlans is the sample plan list.
func DemoPlans(targetDate string) []PlanSeed {
	return []PlanSeed{
		{Title: "Biology final", TargetDate: targetDate},
		{Title: "Someday: history essay"},
	}
}
