package dto

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format accepted and returned by the API.
const DateLayout = "2006-01-02"

// RegisterRequest represents the request to create an applicant account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdatePersonalRequest represents the personal details step
type UpdatePersonalRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
}

// UpdateSkillsRequest represents the skills step
type UpdateSkillsRequest struct {
	Skills []string `json:"skills"`
}

// EmploymentRequest represents one employment period in the form
type EmploymentRequest struct {
	EmployerName               string  `json:"employer_name" binding:"required"`
	JobTitle                   string  `json:"job_title"`
	StartDate                  *string `json:"start_date"`
	EndDate                    *string `json:"end_date"`
	IsCurrent                  bool    `json:"is_current"`
	WorkedWithVulnerablePeople bool    `json:"worked_with_vulnerable_people"`
	RefereeName                *string `json:"referee_name"`
	RefereeEmail               *string `json:"referee_email"`
}

// GapExplanationRequest explains one gap identified by its inclusive dates
type GapExplanationRequest struct {
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Explanation string `json:"explanation"`
}

// ExplainGapsRequest carries a batch of gap explanations
type ExplainGapsRequest struct {
	Explanations []GapExplanationRequest `json:"explanations" binding:"required"`
}

// RefereeRequest represents a referee contact for an employer
type RefereeRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// ReferencePolicyRequest toggles reference requirements; omitted fields keep their value
type ReferencePolicyRequest struct {
	RequireCurrentEmployer         *bool `json:"require_current_employer"`
	RequirePreviousEmployer        *bool `json:"require_previous_employer"`
	RequireVulnerableWorkEmployers *bool `json:"require_vulnerable_work_employers"`
}

// ParseDate parses an optional YYYY-MM-DD date; empty input yields nil.
func ParseDate(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(*value))
	if err != nil {
		return nil, fmt.Errorf("%s: ожидается дата в формате ГГГГ-ММ-ДД", field)
	}
	return &t, nil
}

// MustDate parses a required YYYY-MM-DD date.
func MustDate(field, value string) (time.Time, error) {
	t, err := ParseDate(field, &value)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, fmt.Errorf("%s обязательна", field)
	}
	return *t, nil
}
