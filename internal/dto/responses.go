package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/applicant-intake/internal/domain/entity"
)

// ApplicantResponse represents the applicant's own form data
type ApplicantResponse struct {
	ID                   uuid.UUID  `json:"id"`
	FirstName            string     `json:"first_name"`
	LastName             string     `json:"last_name"`
	Email                string     `json:"email"`
	Phone                *string    `json:"phone,omitempty"`
	Skills               []string   `json:"skills"`
	DeclarationsAccepted bool       `json:"declarations_accepted"`
	DeclarationsAt       *time.Time `json:"declarations_at,omitempty"`
	HasCV                bool       `json:"has_cv"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// NewApplicantResponse maps the entity to its API form
func NewApplicantResponse(a *entity.Applicant) ApplicantResponse {
	return ApplicantResponse{
		ID:                   a.ID,
		FirstName:            a.FirstName,
		LastName:             a.LastName,
		Email:                a.Email,
		Phone:                a.Phone,
		Skills:               a.Skills,
		DeclarationsAccepted: a.DeclarationsAccepted,
		DeclarationsAt:       a.DeclarationsAt,
		HasCV:                a.CVPath != nil,
		UpdatedAt:            a.UpdatedAt,
	}
}

// EmploymentResponse represents an employment period
type EmploymentResponse struct {
	ID                         uuid.UUID `json:"id"`
	EmployerName               string    `json:"employer_name"`
	JobTitle                   string    `json:"job_title"`
	StartDate                  *string   `json:"start_date"`
	EndDate                    *string   `json:"end_date"`
	IsCurrent                  bool      `json:"is_current"`
	WorkedWithVulnerablePeople bool      `json:"worked_with_vulnerable_people"`
	RefereeName                *string   `json:"referee_name,omitempty"`
	RefereeEmail               *string   `json:"referee_email,omitempty"`
}

// NewEmploymentResponse maps the entity to its API form
func NewEmploymentResponse(p entity.EmploymentPeriod) EmploymentResponse {
	return EmploymentResponse{
		ID:                         p.ID,
		EmployerName:               p.EmployerName,
		JobTitle:                   p.JobTitle,
		StartDate:                  formatDate(p.StartDate),
		EndDate:                    formatDate(p.EndDate),
		IsCurrent:                  p.IsCurrent,
		WorkedWithVulnerablePeople: p.WorkedWithVulnerablePeople,
		RefereeName:                p.RefereeName,
		RefereeEmail:               p.RefereeEmail,
	}
}

// NewEmploymentList maps a slice of periods, never returning nil
func NewEmploymentList(periods []entity.EmploymentPeriod) []EmploymentResponse {
	out := make([]EmploymentResponse, 0, len(periods))
	for _, p := range periods {
		out = append(out, NewEmploymentResponse(p))
	}
	return out
}

// RequiredReferenceResponse represents an employer that must provide a reference
type RequiredReferenceResponse struct {
	EmploymentID               uuid.UUID `json:"employment_id"`
	EmployerName               string    `json:"employer_name"`
	IsCurrent                  bool      `json:"is_current"`
	WorkedWithVulnerablePeople bool      `json:"worked_with_vulnerable_people"`
	HasReferee                 bool      `json:"has_referee"`
}

// NewRequiredReferences maps resolved periods to reference requirements
func NewRequiredReferences(periods []entity.EmploymentPeriod) []RequiredReferenceResponse {
	out := make([]RequiredReferenceResponse, 0, len(periods))
	for _, p := range periods {
		out = append(out, RequiredReferenceResponse{
			EmploymentID:               p.ID,
			EmployerName:               p.EmployerName,
			IsCurrent:                  p.IsCurrent,
			WorkedWithVulnerablePeople: p.WorkedWithVulnerablePeople,
			HasReferee:                 p.HasReferee(),
		})
	}
	return out
}

// GapResponse represents an unexplained or explained break in employment
type GapResponse struct {
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	LengthInDays int    `json:"length_in_days"`
	Explanation  string `json:"explanation"`
	Explained    bool   `json:"explained"`
}

// NewGapResponse maps a gap with its current explanation
func NewGapResponse(g entity.EmploymentGap, explanation string, explained bool) GapResponse {
	return GapResponse{
		StartDate:    g.StartDate.Format(DateLayout),
		EndDate:      g.EndDate.Format(DateLayout),
		LengthInDays: g.LengthInDays,
		Explanation:  explanation,
		Explained:    explained,
	}
}

// TimelineResponse represents the employment history step
type TimelineResponse struct {
	Periods            []EmploymentResponse        `json:"periods"`
	Gaps               []GapResponse               `json:"gaps"`
	AllGapsExplained   bool                        `json:"all_gaps_explained"`
	RequiredReferences []RequiredReferenceResponse `json:"required_references"`
	LastTwoEmployers   []EmploymentResponse        `json:"last_two_employers"`
	ReferencesComplete bool                        `json:"references_complete"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
