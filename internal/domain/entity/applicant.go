package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Applicant - анкета соискателя.
type Applicant struct {
	ID                   uuid.UUID
	UserID               uuid.UUID
	FirstName            string
	LastName             string
	Email                string
	Phone                *string
	Skills               []string
	DeclarationsAccepted bool
	DeclarationsAt       *time.Time
	CVPath               *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewApplicant создаёт пустую анкету для пользователя.
func NewApplicant(userID uuid.UUID, email string) *Applicant {
	now := time.Now()
	return &Applicant{
		ID:        uuid.New(),
		UserID:    userID,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Skills:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasPersonalInfo сообщает, заполнены ли обязательные личные данные.
func (a *Applicant) HasPersonalInfo() bool {
	return strings.TrimSpace(a.FirstName) != "" &&
		strings.TrimSpace(a.LastName) != "" &&
		strings.TrimSpace(a.Email) != ""
}

// UpdatePersonal обновляет личные данные.
func (a *Applicant) UpdatePersonal(firstName, lastName, email string, phone *string) {
	a.FirstName = strings.TrimSpace(firstName)
	a.LastName = strings.TrimSpace(lastName)
	a.Email = strings.ToLower(strings.TrimSpace(email))
	a.Phone = phone
	a.UpdatedAt = time.Now()
}

// AcceptDeclarations фиксирует согласие с декларациями.
func (a *Applicant) AcceptDeclarations() {
	now := time.Now()
	a.DeclarationsAccepted = true
	a.DeclarationsAt = &now
	a.UpdatedAt = now
}

// FullName возвращает имя и фамилию.
func (a *Applicant) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}
