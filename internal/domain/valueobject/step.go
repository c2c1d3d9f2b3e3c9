package valueobject

import "github.com/ignatzorin/applicant-intake/internal/pkg/apperror"

// StepKey - идентификатор раздела анкеты.
type StepKey string

const (
	StepPersonal     StepKey = "personal"
	StepEducation    StepKey = "education"
	StepEmployment   StepKey = "employment"
	StepSkills       StepKey = "skills"
	StepReferences   StepKey = "references"
	StepDeclarations StepKey = "declarations"
)

// DefaultSteps - порядок разделов по умолчанию.
var DefaultSteps = []StepKey{
	StepPersonal,
	StepEducation,
	StepEmployment,
	StepSkills,
	StepReferences,
	StepDeclarations,
}

func (s StepKey) IsValid() bool {
	switch s {
	case StepPersonal, StepEducation, StepEmployment, StepSkills, StepReferences, StepDeclarations:
		return true
	}
	return false
}

func NewStepKey(key string) (StepKey, error) {
	s := StepKey(key)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "неизвестный раздел анкеты: "+key)
	}
	return s, nil
}
