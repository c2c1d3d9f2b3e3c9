package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/applicant-intake/internal/domain/entity"
	"github.com/ignatzorin/applicant-intake/internal/logger"
	"github.com/ignatzorin/applicant-intake/internal/pkg/apperror"
	"github.com/ignatzorin/applicant-intake/internal/repository"
	"github.com/ignatzorin/applicant-intake/internal/storage"
	"github.com/ignatzorin/applicant-intake/internal/validation"
)

// ApplicantRepository описывает хранилище анкет.
type ApplicantRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Applicant, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Applicant, error)
	Update(ctx context.Context, a *entity.Applicant) error
}

// DocumentStore сохраняет файлы резюме.
type DocumentStore interface {
	Save(ctx context.Context, applicantID uuid.UUID, originalName string, r io.Reader) (string, int64, error)
	Delete(ctx context.Context, relativePath string) error
}

// ApplicantLookup находит анкету текущего пользователя.
type ApplicantLookup interface {
	ForUser(ctx context.Context, userID uuid.UUID) (*entity.Applicant, error)
}

// ApplicantService управляет личными данными, навыками, декларациями и резюме.
type ApplicantService struct {
	repo      ApplicantRepository
	documents DocumentStore
}

// NewApplicantService создаёт сервис анкет.
func NewApplicantService(repo ApplicantRepository, documents DocumentStore) *ApplicantService {
	return &ApplicantService{repo: repo, documents: documents}
}

// PersonalInput - данные шага «Личные данные».
type PersonalInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
}

// ForUser возвращает анкету пользователя.
func (s *ApplicantService) ForUser(ctx context.Context, userID uuid.UUID) (*entity.Applicant, error) {
	a, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicantNotFound) {
			return nil, apperror.ErrApplicantNotFound
		}
		return nil, fmt.Errorf("applicant service: %w", err)
	}
	return a, nil
}

// Get возвращает анкету по идентификатору.
func (s *ApplicantService) Get(ctx context.Context, applicantID uuid.UUID) (*entity.Applicant, error) {
	a, err := s.repo.GetByID(ctx, applicantID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicantNotFound) {
			return nil, apperror.ErrApplicantNotFound
		}
		return nil, fmt.Errorf("applicant service: %w", err)
	}
	return a, nil
}

// UpdatePersonal проверяет и сохраняет личные данные.
func (s *ApplicantService) UpdatePersonal(ctx context.Context, userID uuid.UUID, in PersonalInput) (*entity.Applicant, error) {
	if err := validation.ValidatePersonName("имя", in.FirstName); err != nil {
		return nil, validationError(err)
	}
	if err := validation.ValidatePersonName("фамилия", in.LastName); err != nil {
		return nil, validationError(err)
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, validationError(err)
	}
	if err := validation.ValidatePhone(in.Phone); err != nil {
		return nil, validationError(err)
	}

	a, err := s.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	a.UpdatePersonal(in.FirstName, in.LastName, in.Email, in.Phone)
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("applicant service: %w", err)
	}
	return a, nil
}

// UpdateSkills заменяет список навыков.
func (s *ApplicantService) UpdateSkills(ctx context.Context, userID uuid.UUID, skills []string) (*entity.Applicant, error) {
	if err := validation.ValidateSkills(skills); err != nil {
		return nil, validationError(err)
	}

	a, err := s.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	cleaned := make([]string, 0, len(skills))
	for _, skill := range skills {
		cleaned = append(cleaned, strings.TrimSpace(skill))
	}
	a.Skills = cleaned

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("applicant service: %w", err)
	}
	return a, nil
}

// AcceptDeclarations фиксирует согласие; повторный вызов сохраняет первую отметку времени.
func (s *ApplicantService) AcceptDeclarations(ctx context.Context, userID uuid.UUID) (*entity.Applicant, error) {
	a, err := s.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if a.DeclarationsAccepted {
		return a, nil
	}

	a.AcceptDeclarations()
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("applicant service: %w", err)
	}
	return a, nil
}

// AttachCV проверяет тип документа по заголовку и сохраняет его, заменяя прежний.
func (s *ApplicantService) AttachCV(ctx context.Context, userID uuid.UUID, filename string, header []byte, body io.Reader) (*entity.Applicant, error) {
	if _, err := storage.DetectDocument(header, filename); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, "допустимы только документы PDF, DOC или DOCX")
	}

	a, err := s.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	path, size, err := s.documents.Save(ctx, a.ID, filename, body)
	if err != nil {
		if errors.Is(err, storage.ErrDocumentTooLarge) {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, "файл слишком большой")
		}
		return nil, fmt.Errorf("applicant service: %w", err)
	}

	previous := a.CVPath
	a.CVPath = &path
	if err := s.repo.Update(ctx, a); err != nil {
		_ = s.documents.Delete(ctx, path)
		return nil, fmt.Errorf("applicant service: %w", err)
	}

	if previous != nil {
		if err := s.documents.Delete(ctx, *previous); err != nil {
			logger.Entry("applicant").WithError(err).WithField("applicant_id", a.ID).Warn("не удалось удалить прежнее резюме")
		}
	}

	logger.Entry("applicant").WithFields(map[string]interface{}{
		"applicant_id": a.ID,
		"size":         size,
	}).Info("резюме загружено")
	return a, nil
}

func validationError(err error) error {
	return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
}
