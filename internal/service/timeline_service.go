package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/applicant-intake/internal/domain/entity"
	"github.com/ignatzorin/applicant-intake/internal/logger"
	"github.com/ignatzorin/applicant-intake/internal/models"
	"github.com/ignatzorin/applicant-intake/internal/pkg/apperror"
	"github.com/ignatzorin/applicant-intake/internal/reference"
	"github.com/ignatzorin/applicant-intake/internal/repository"
	"github.com/ignatzorin/applicant-intake/internal/timeline"
	"github.com/ignatzorin/applicant-intake/internal/validation"
)

// EmploymentRepository описывает хранилище периодов занятости.
type EmploymentRepository interface {
	Create(ctx context.Context, p *entity.EmploymentPeriod) error
	Update(ctx context.Context, p *entity.EmploymentPeriod) error
	Delete(ctx context.Context, applicantID, id uuid.UUID) error
	GetByID(ctx context.Context, applicantID, id uuid.UUID) (*entity.EmploymentPeriod, error)
	ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]entity.EmploymentPeriod, error)
}

// GapExplanationRepository описывает хранилище объяснений перерывов.
type GapExplanationRepository interface {
	ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]entity.GapExplanation, error)
	ReplaceAll(ctx context.Context, applicantID uuid.UUID, records []entity.GapExplanation) error
}

// RequiredReferenceRepository хранит зафиксированный список требуемых рекомендаций.
type RequiredReferenceRepository interface {
	ReplaceRequired(ctx context.Context, applicantID uuid.UUID, refs []models.RequiredReference) error
	ListRequired(ctx context.Context, applicantID uuid.UUID) ([]models.RequiredReference, error)
}

// EmploymentInput - данные одного места работы.
type EmploymentInput struct {
	EmployerName               string
	JobTitle                   string
	StartDate                  *time.Time
	EndDate                    *time.Time
	IsCurrent                  bool
	WorkedWithVulnerablePeople bool
	RefereeName                *string
	RefereeEmail               *string
}

// GapExplanationInput - объяснение перерыва, заданного датами.
type GapExplanationInput struct {
	StartDate   time.Time
	EndDate     time.Time
	Explanation string
}

// GapView - перерыв вместе с текущим объяснением.
type GapView struct {
	Gap         entity.EmploymentGap
	Explanation string
	Explained   bool
}

// TimelineView - состояние шага «Трудовая история».
type TimelineView struct {
	ApplicantID        uuid.UUID
	Periods            []entity.EmploymentPeriod
	Gaps               []GapView
	AllGapsExplained   bool
	RequiredReferences []entity.EmploymentPeriod
	LastTwoEmployers   []entity.EmploymentPeriod
	Policy             reference.Policy
}

// ReferencesComplete сообщает, что у каждой требуемой рекомендации есть контакт рекомендателя.
func (v *TimelineView) ReferencesComplete() bool {
	for _, p := range v.RequiredReferences {
		if !p.HasReferee() {
			return false
		}
	}
	return true
}

// TimelineService связывает трудовую историю, объяснения перерывов и требования к рекомендациям.
type TimelineService struct {
	applicants   ApplicantLookup
	employment   EmploymentRepository
	explanations GapExplanationRepository
	references   RequiredReferenceRepository

	mu     sync.RWMutex
	policy reference.Policy
}

// NewTimelineService создаёт сервис трудовой истории с начальной политикой рекомендаций.
func NewTimelineService(
	applicants ApplicantLookup,
	employment EmploymentRepository,
	explanations GapExplanationRepository,
	references RequiredReferenceRepository,
	policy reference.Policy,
) *TimelineService {
	return &TimelineService{
		applicants:   applicants,
		employment:   employment,
		explanations: explanations,
		references:   references,
		policy:       policy,
	}
}

// ListPeriods возвращает периоды занятости пользователя.
func (s *TimelineService) ListPeriods(ctx context.Context, userID uuid.UUID) ([]entity.EmploymentPeriod, error) {
	a, err := s.applicants.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	periods, err := s.employment.ListByApplicant(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("timeline service: %w", err)
	}
	return periods, nil
}

// AddPeriod добавляет место работы.
func (s *TimelineService) AddPeriod(ctx context.Context, userID uuid.UUID, in EmploymentInput) (*entity.EmploymentPeriod, error) {
	if err := validateEmploymentInput(in); err != nil {
		return nil, err
	}

	a, err := s.applicants.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	p, err := entity.NewEmploymentPeriod(a.ID, in.EmployerName, in.JobTitle, in.StartDate, in.EndDate, in.IsCurrent, in.WorkedWithVulnerablePeople)
	if err != nil {
		return nil, err
	}
	if in.RefereeName != nil && in.RefereeEmail != nil {
		p.SetReferee(*in.RefereeName, *in.RefereeEmail)
	}

	if err := s.employment.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("timeline service: %w", err)
	}
	return p, nil
}

// UpdatePeriod перезаписывает место работы.
func (s *TimelineService) UpdatePeriod(ctx context.Context, userID, periodID uuid.UUID, in EmploymentInput) (*entity.EmploymentPeriod, error) {
	if err := validateEmploymentInput(in); err != nil {
		return nil, err
	}

	a, err := s.applicants.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	p, err := s.getPeriod(ctx, a.ID, periodID)
	if err != nil {
		return nil, err
	}

	p.EmployerName = in.EmployerName
	p.JobTitle = in.JobTitle
	p.StartDate = in.StartDate
	p.EndDate = in.EndDate
	p.IsCurrent = in.IsCurrent
	p.WorkedWithVulnerablePeople = in.WorkedWithVulnerablePeople
	if in.RefereeName != nil && in.RefereeEmail != nil {
		p.SetReferee(*in.RefereeName, *in.RefereeEmail)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.employment.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrEmploymentNotFound) {
			return nil, apperror.ErrEmploymentNotFound
		}
		return nil, fmt.Errorf("timeline service: %w", err)
	}
	return p, nil
}

// DeletePeriod удаляет место работы.
func (s *TimelineService) DeletePeriod(ctx context.Context, userID, periodID uuid.UUID) error {
	a, err := s.applicants.ForUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.employment.Delete(ctx, a.ID, periodID); err != nil {
		if errors.Is(err, repository.ErrEmploymentNotFound) {
			return apperror.ErrEmploymentNotFound
		}
		return fmt.Errorf("timeline service: %w", err)
	}
	return nil
}

// SetReferee сохраняет контакт рекомендателя для места работы.
func (s *TimelineService) SetReferee(ctx context.Context, userID, periodID uuid.UUID, name, email string) (*entity.EmploymentPeriod, error) {
	if err := validation.ValidateReferee(name, email); err != nil {
		return nil, validationError(err)
	}

	a, err := s.applicants.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	p, err := s.getPeriod(ctx, a.ID, periodID)
	if err != nil {
		return nil, err
	}

	p.SetReferee(name, email)
	if err := s.employment.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("timeline service: %w", err)
	}
	return p, nil
}

// Timeline собирает перерывы, объяснения и требуемые рекомендации пользователя.
func (s *TimelineService) Timeline(ctx context.Context, userID uuid.UUID) (*TimelineView, error) {
	a, err := s.applicants.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	view, _, err := s.load(ctx, a.ID)
	return view, err
}

// TimelineForApplicant собирает состояние по идентификатору анкеты.
func (s *TimelineService) TimelineForApplicant(ctx context.Context, applicantID uuid.UUID) (*TimelineView, error) {
	view, _, err := s.load(ctx, applicantID)
	return view, err
}

// ExplainGaps сохраняет объяснения перерывов. Объяснять можно только перерывы текущей истории;
// сохранённые ранее объяснения исчезнувших перерывов остаются в хранилище.
func (s *TimelineService) ExplainGaps(ctx context.Context, userID uuid.UUID, inputs []GapExplanationInput) (*TimelineView, error) {
	for _, in := range inputs {
		if err := validation.ValidateGapExplanation(in.Explanation); err != nil {
			return nil, validationError(err)
		}
	}

	a, err := s.applicants.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	view, store, err := s.load(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	current := make(map[string]entity.EmploymentGap, len(view.Gaps))
	for _, g := range view.Gaps {
		current[g.Gap.Key()] = g.Gap
	}

	for _, in := range inputs {
		gap, ok := current[entity.GapKey(in.StartDate, in.EndDate)]
		if !ok {
			return nil, apperror.New(apperror.ErrCodeNotFound, fmt.Sprintf("перерыв %s..%s не найден",
				in.StartDate.Format("2006-01-02"), in.EndDate.Format("2006-01-02")))
		}
		store.SetExplanation(gap, in.Explanation)
	}

	if err := s.explanations.ReplaceAll(ctx, a.ID, store.Records()); err != nil {
		return nil, fmt.Errorf("timeline service: %w", err)
	}

	s.fillGaps(view, store)
	return view, nil
}

// SaveTimeline фиксирует вычисленный список требуемых рекомендаций.
func (s *TimelineService) SaveTimeline(ctx context.Context, userID uuid.UUID) (*TimelineView, error) {
	a, err := s.applicants.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	view, store, err := s.load(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	if err := s.explanations.ReplaceAll(ctx, a.ID, store.Records()); err != nil {
		return nil, fmt.Errorf("timeline service: %w", err)
	}

	now := time.Now()
	refs := make([]models.RequiredReference, 0, len(view.RequiredReferences))
	for _, p := range view.RequiredReferences {
		refs = append(refs, models.RequiredReference{
			ApplicantID:  a.ID,
			EmploymentID: p.ID,
			EmployerName: p.EmployerName,
			IsCurrent:    p.IsCurrent,
			Vulnerable:   p.WorkedWithVulnerablePeople,
			HasReferee:   p.HasReferee(),
			ResolvedAt:   now,
		})
	}
	if err := s.references.ReplaceRequired(ctx, a.ID, refs); err != nil {
		return nil, fmt.Errorf("timeline service: %w", err)
	}

	logger.Entry("timeline").WithFields(map[string]interface{}{
		"applicant_id": a.ID,
		"gaps":         len(view.Gaps),
		"references":   len(refs),
	}).Info("трудовая история сохранена")
	return view, nil
}

// SavedReferences возвращает последний зафиксированный список рекомендаций.
func (s *TimelineService) SavedReferences(ctx context.Context, applicantID uuid.UUID) ([]models.RequiredReference, error) {
	refs, err := s.references.ListRequired(ctx, applicantID)
	if err != nil {
		return nil, fmt.Errorf("timeline service: %w", err)
	}
	return refs, nil
}

// ReferencePolicy возвращает действующую политику рекомендаций.
func (s *TimelineService) ReferencePolicy() reference.Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// UpdateReferencePolicy меняет переданные флаги политики; новые требования применяются к следующему расчёту.
func (s *TimelineService) UpdateReferencePolicy(update reference.PolicyUpdate) reference.Policy {
	s.mu.Lock()
	s.policy = s.policy.Apply(update)
	policy := s.policy
	s.mu.Unlock()

	logger.Entry("timeline").WithField("policy", policy).Info("политика рекомендаций обновлена")
	return policy
}

func (s *TimelineService) load(ctx context.Context, applicantID uuid.UUID) (*TimelineView, *timeline.ExplanationStore, error) {
	periods, err := s.employment.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, nil, fmt.Errorf("timeline service: %w", err)
	}
	records, err := s.explanations.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, nil, fmt.Errorf("timeline service: %w", err)
	}

	store := timeline.NewExplanationStore()
	store.Seed(records)

	resolver := reference.NewResolver(s.ReferencePolicy())
	resolver.SetPeriods(periods)

	view := &TimelineView{
		ApplicantID:        applicantID,
		Periods:            periods,
		RequiredReferences: resolver.Required(),
		LastTwoEmployers:   resolver.LastTwoEmployers(),
		Policy:             resolver.Policy(),
	}
	for _, g := range timeline.ComputeGaps(periods) {
		view.Gaps = append(view.Gaps, GapView{Gap: g})
	}
	s.fillGaps(view, store)
	return view, store, nil
}

func (s *TimelineService) fillGaps(view *TimelineView, store *timeline.ExplanationStore) {
	gaps := make([]entity.EmploymentGap, 0, len(view.Gaps))
	for i := range view.Gaps {
		gaps = append(gaps, view.Gaps[i].Gap)
	}
	explained := make(map[string]struct{}, len(gaps))
	for _, rec := range store.ExplainedGaps(gaps) {
		explained[rec.Key()] = struct{}{}
	}

	for i := range view.Gaps {
		g := &view.Gaps[i]
		g.Explanation = store.Explanation(g.Gap)
		_, g.Explained = explained[g.Gap.Key()]
	}
	view.AllGapsExplained = store.AllExplained(gaps)
}

func (s *TimelineService) getPeriod(ctx context.Context, applicantID, periodID uuid.UUID) (*entity.EmploymentPeriod, error) {
	p, err := s.employment.GetByID(ctx, applicantID, periodID)
	if err != nil {
		if errors.Is(err, repository.ErrEmploymentNotFound) {
			return nil, apperror.ErrEmploymentNotFound
		}
		return nil, fmt.Errorf("timeline service: %w", err)
	}
	return p, nil
}

func validateEmploymentInput(in EmploymentInput) error {
	if err := validation.ValidateEmployerName(in.EmployerName); err != nil {
		return validationError(err)
	}
	if err := validation.ValidateJobTitle(in.JobTitle); err != nil {
		return validationError(err)
	}
	if (in.RefereeName == nil) != (in.RefereeEmail == nil) {
		return apperror.New(apperror.ErrCodeValidation, "имя и email рекомендателя указываются вместе")
	}
	if in.RefereeName != nil {
		if err := validation.ValidateReferee(*in.RefereeName, *in.RefereeEmail); err != nil {
			return validationError(err)
		}
	}
	return nil
}
