package models

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей.
const (
	RoleApplicant = "applicant"
	RoleAdmin     = "admin"
)

// User описывает учётную запись.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         string     `db:"role" json:"role"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Session представляет сохранённую сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"-"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Progress - сохранённое положение соискателя в анкете.
type Progress struct {
	ApplicantID    uuid.UUID `db:"applicant_id" json:"applicant_id"`
	CurrentStep    int       `db:"current_step" json:"current_step"`
	CompletedSteps []int     `db:"-" json:"completed_steps"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// LastCompletedStep возвращает наибольший завершённый шаг или -1.
func (p *Progress) LastCompletedStep() int {
	last := -1
	for _, s := range p.CompletedSteps {
		if s > last {
			last = s
		}
	}
	return last
}

// RequiredReference - работодатель, от которого требуется рекомендация.
type RequiredReference struct {
	ApplicantID  uuid.UUID `db:"applicant_id" json:"-"`
	EmploymentID uuid.UUID `db:"employment_id" json:"employment_id"`
	EmployerName string    `db:"employer_name" json:"employer_name"`
	IsCurrent    bool      `db:"is_current" json:"is_current"`
	Vulnerable   bool      `db:"vulnerable" json:"worked_with_vulnerable_people"`
	HasReferee   bool      `db:"has_referee" json:"has_referee"`
	ResolvedAt   time.Time `db:"resolved_at" json:"resolved_at"`
}
