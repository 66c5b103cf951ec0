package workspace

// Plan is a study-plan countdown toward a target date.
type Plan struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	TargetDate *string   `json:"target_date"` // RFC 3339, nil when unset
	CreatedAt  Timestamp `json:"created_at"`
	UpdatedAt  Timestamp `json:"updated_at"`
}

// PlanPatch is a merge write: nil fields are left untouched. A TargetDate
// pointing at "" clears the stored date.
type PlanPatch struct {
	Title      *string
	TargetDate *string
}

// Apply merges the patch into p.
func (patch PlanPatch) Apply(p *Plan) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.TargetDate != nil {
		if *patch.TargetDate == "" {
			p.TargetDate = nil
		} else {
			v := *patch.TargetDate
			p.TargetDate = &v
		}
	}
}
