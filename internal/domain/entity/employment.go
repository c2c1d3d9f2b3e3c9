package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/applicant-intake/internal/pkg/apperror"
)

// EmploymentPeriod описывает одно место работы соискателя.
type EmploymentPeriod struct {
	ID                         uuid.UUID
	ApplicantID                uuid.UUID
	EmployerName               string
	JobTitle                   string
	StartDate                  *time.Time
	EndDate                    *time.Time
	IsCurrent                  bool
	WorkedWithVulnerablePeople bool
	RefereeName                *string
	RefereeEmail               *string
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// NewEmploymentPeriod создаёт запись о месте работы с базовой проверкой дат.
func NewEmploymentPeriod(applicantID uuid.UUID, employerName, jobTitle string, startDate, endDate *time.Time, isCurrent, vulnerable bool) (*EmploymentPeriod, error) {
	p := &EmploymentPeriod{
		ID:                         uuid.New(),
		ApplicantID:                applicantID,
		EmployerName:               strings.TrimSpace(employerName),
		JobTitle:                   strings.TrimSpace(jobTitle),
		StartDate:                  startDate,
		EndDate:                    endDate,
		IsCurrent:                  isCurrent,
		WorkedWithVulnerablePeople: vulnerable,
		CreatedAt:                  time.Now(),
		UpdatedAt:                  time.Now(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate проверяет инварианты записи.
func (p *EmploymentPeriod) Validate() error {
	if p.EmployerName == "" {
		return apperror.New(apperror.ErrCodeValidation, "название работодателя обязательно")
	}
	if p.StartDate == nil {
		return apperror.New(apperror.ErrCodeValidation, "дата начала работы обязательна")
	}
	if p.IsCurrent && p.EndDate != nil {
		return apperror.New(apperror.ErrCodeValidation, "у текущего места работы не может быть даты окончания")
	}
	if p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return apperror.New(apperror.ErrCodeValidation, "дата окончания раньше даты начала")
	}
	return nil
}

// IsOngoing сообщает, что период не закрыт датой окончания.
func (p *EmploymentPeriod) IsOngoing() bool {
	return p.IsCurrent || p.EndDate == nil
}

// HasReferee сообщает, что для периода указан контакт рекомендателя.
func (p *EmploymentPeriod) HasReferee() bool {
	return p.RefereeName != nil && strings.TrimSpace(*p.RefereeName) != "" &&
		p.RefereeEmail != nil && strings.TrimSpace(*p.RefereeEmail) != ""
}

// SetReferee сохраняет контакт рекомендателя.
func (p *EmploymentPeriod) SetReferee(name, email string) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	p.RefereeName = &name
	p.RefereeEmail = &email
	p.UpdatedAt = time.Now()
}

// IsOwnedBy проверяет принадлежность периода соискателю.
func (p *EmploymentPeriod) IsOwnedBy(applicantID uuid.UUID) bool {
	return p.ApplicantID == applicantID
}
