package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/ignatzorin/applicant-intake/internal/config"
	"github.com/ignatzorin/applicant-intake/internal/domain/entity"
	"github.com/ignatzorin/applicant-intake/internal/domain/valueobject"
	"github.com/ignatzorin/applicant-intake/internal/logger"
	"github.com/ignatzorin/applicant-intake/internal/models"
	"github.com/ignatzorin/applicant-intake/internal/repository"
	"github.com/ignatzorin/applicant-intake/internal/stepper"
)

// EventStepChanged - событие WebSocket о смене шага анкеты.
const EventStepChanged = "application.step_changed"

// ProgressRepository хранит положение соискателя в анкете.
type ProgressRepository interface {
	Get(ctx context.Context, applicantID uuid.UUID) (*models.Progress, error)
	Save(ctx context.Context, p *models.Progress) error
}

// ApplicantReader читает анкету по идентификатору.
type ApplicantReader interface {
	Get(ctx context.Context, applicantID uuid.UUID) (*entity.Applicant, error)
}

// TimelineReader собирает состояние трудовой истории.
type TimelineReader interface {
	TimelineForApplicant(ctx context.Context, applicantID uuid.UUID) (*TimelineView, error)
}

// StepBroadcaster доставляет события пользователю.
type StepBroadcaster interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// StepInfo описывает шаг анкеты в ответе API.
type StepInfo struct {
	Index     int                 `json:"index"`
	Key       valueobject.StepKey `json:"key"`
	Title     string              `json:"title"`
	Completed bool                `json:"completed"`
}

// ProgressView - состояние навигации вместе с описанием шагов.
type ProgressView struct {
	stepper.State
	CurrentKey valueobject.StepKey `json:"current_key"`
	Steps      []StepInfo          `json:"steps"`
}

// TransitionResult - итог попытки перехода.
type TransitionResult struct {
	Outcome  stepper.Outcome `json:"outcome"`
	Progress ProgressView    `json:"progress"`
}

// StepChangedEvent - полезная нагрузка события EventStepChanged.
type StepChangedEvent struct {
	CurrentStep  int                 `json:"current_step"`
	PreviousStep int                 `json:"previous_step"`
	CurrentKey   valueobject.StepKey `json:"current_key"`
}

// ProgressService ведёт соискателя по шагам анкеты.
type ProgressService struct {
	applicants  ApplicantLookup
	reader      ApplicantReader
	timeline    TimelineReader
	repo        ProgressRepository
	cache       *NavigatorCache
	flow        *config.Flow
	broadcaster StepBroadcaster
}

// NewProgressService создаёт сервис прогресса.
func NewProgressService(
	applicants ApplicantLookup,
	reader ApplicantReader,
	timeline TimelineReader,
	repo ProgressRepository,
	cache *NavigatorCache,
	flow *config.Flow,
	broadcaster StepBroadcaster,
) *ProgressService {
	return &ProgressService{
		applicants:  applicants,
		reader:      reader,
		timeline:    timeline,
		repo:        repo,
		cache:       cache,
		flow:        flow,
		broadcaster: broadcaster,
	}
}

// Flow возвращает конфигурацию шагов.
func (s *ProgressService) Flow() *config.Flow {
	return s.flow
}

// Progress возвращает текущее состояние навигации пользователя.
func (s *ProgressService) Progress(ctx context.Context, userID uuid.UUID) (*ProgressView, error) {
	_, nav, err := s.navigator(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := s.view(nav.State())
	return &view, nil
}

// GoTo пытается перейти на шаг target.
func (s *ProgressService) GoTo(ctx context.Context, userID uuid.UUID, target int) (*TransitionResult, error) {
	return s.transition(ctx, userID, func(nav *stepper.Navigator) stepper.Outcome {
		return nav.GoToStep(ctx, target)
	})
}

// Next переходит на следующий шаг.
func (s *ProgressService) Next(ctx context.Context, userID uuid.UUID) (*TransitionResult, error) {
	return s.transition(ctx, userID, func(nav *stepper.Navigator) stepper.Outcome {
		return nav.NextStep(ctx)
	})
}

// Previous переходит на предыдущий шаг.
func (s *ProgressService) Previous(ctx context.Context, userID uuid.UUID) (*TransitionResult, error) {
	return s.transition(ctx, userID, func(nav *stepper.Navigator) stepper.Outcome {
		return nav.PreviousStep(ctx)
	})
}

// Complete отмечает шаг завершённым без перехода; используется на последнем шаге.
// Шаг отмечается только если его проверка проходит.
func (s *ProgressService) Complete(ctx context.Context, userID uuid.UUID, step int) (*TransitionResult, error) {
	return s.transition(ctx, userID, func(nav *stepper.Navigator) stepper.Outcome {
		return nav.CompleteStep(ctx, step)
	})
}

// Reset возвращает анкету к первому шагу и очищает завершённые шаги.
func (s *ProgressService) Reset(ctx context.Context, userID uuid.UUID) (*TransitionResult, error) {
	return s.transition(ctx, userID, func(nav *stepper.Navigator) stepper.Outcome {
		return nav.Reset()
	})
}

// ProgressForApplicant читает сохранённый прогресс без создания навигатора.
func (s *ProgressService) ProgressForApplicant(ctx context.Context, applicantID uuid.UUID) (*ProgressView, error) {
	if nav, ok := s.cache.Get(applicantID); ok {
		view := s.view(nav.State())
		return &view, nil
	}

	p, err := s.loadProgress(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	total := len(s.flow.Steps)
	completed := append([]int(nil), p.CompletedSteps...)
	sort.Ints(completed)
	view := s.view(stepper.State{
		CurrentStep:    p.CurrentStep,
		TotalSteps:     total,
		IsFirstStep:    p.CurrentStep == 0,
		IsLastStep:     p.CurrentStep == total-1,
		CompletedSteps: completed,
		IsFinished:     p.CurrentStep == total-1 && p.LastCompletedStep() == total-1,
	})
	return &view, nil
}

func (s *ProgressService) transition(ctx context.Context, userID uuid.UUID, move func(*stepper.Navigator) stepper.Outcome) (*TransitionResult, error) {
	a, nav, err := s.navigator(ctx, userID)
	if err != nil {
		return nil, err
	}

	outcome := move(nav)
	log := logger.Entry("progress").WithFields(map[string]interface{}{
		"applicant_id": a.ID,
		"step":         nav.CurrentStep(),
		"outcome":      outcome,
	})

	if outcome.OK() {
		if err := s.persist(ctx, a.ID, nav); err != nil {
			return nil, err
		}
		log.Info("переход выполнен")
	} else {
		log.Debug("переход отклонён")
	}

	return &TransitionResult{Outcome: outcome, Progress: s.view(nav.State())}, nil
}

func (s *ProgressService) navigator(ctx context.Context, userID uuid.UUID) (*entity.Applicant, *stepper.Navigator, error) {
	a, err := s.applicants.ForUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	nav, err := s.cache.GetOrLoad(ctx, a.ID, func(ctx context.Context) (*stepper.Navigator, error) {
		return s.restore(ctx, a.ID, userID)
	})
	if err != nil {
		return nil, nil, err
	}
	return a, nav, nil
}

func (s *ProgressService) restore(ctx context.Context, applicantID, userID uuid.UUID) (*stepper.Navigator, error) {
	p, err := s.loadProgress(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	total := len(s.flow.Steps)
	current := p.CurrentStep
	switch {
	case current < 0:
		current = 0
	case current >= total:
		current = total - 1
	}
	completed := make([]int, 0, len(p.CompletedSteps))
	for _, step := range p.CompletedSteps {
		if step >= 0 && step < total {
			completed = append(completed, step)
		}
	}

	nav, err := stepper.New(total,
		stepper.WithResumeStep(current),
		stepper.WithCompletedSteps(completed...),
		stepper.WithValidator(func(ctx context.Context, step int) (bool, error) {
			return s.validateStep(ctx, applicantID, step)
		}),
		stepper.WithObserver(func(newStep, previousStep int) {
			s.notify(userID, newStep, previousStep)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("progress service: %w", err)
	}
	return nav, nil
}

func (s *ProgressService) loadProgress(ctx context.Context, applicantID uuid.UUID) (*models.Progress, error) {
	p, err := s.repo.Get(ctx, applicantID)
	if err != nil {
		if errors.Is(err, repository.ErrProgressNotFound) {
			return &models.Progress{ApplicantID: applicantID, CompletedSteps: []int{}}, nil
		}
		return nil, fmt.Errorf("progress service: %w", err)
	}
	return p, nil
}

func (s *ProgressService) persist(ctx context.Context, applicantID uuid.UUID, nav *stepper.Navigator) error {
	state := nav.State()
	if err := s.repo.Save(ctx, &models.Progress{
		ApplicantID:    applicantID,
		CurrentStep:    state.CurrentStep,
		CompletedSteps: state.CompletedSteps,
	}); err != nil {
		return fmt.Errorf("progress service: %w", err)
	}
	return nil
}

func (s *ProgressService) notify(userID uuid.UUID, newStep, previousStep int) {
	if s.broadcaster == nil {
		return
	}
	event := StepChangedEvent{
		CurrentStep:  newStep,
		PreviousStep: previousStep,
		CurrentKey:   s.flow.Steps[newStep].Key,
	}
	if err := s.broadcaster.BroadcastToUser(userID, EventStepChanged, event); err != nil {
		logger.Entry("progress").WithError(err).WithField("user_id", userID).Warn("не удалось отправить событие")
	}
}

// validateStep проверяет, что данные шага заполнены.
func (s *ProgressService) validateStep(ctx context.Context, applicantID uuid.UUID, step int) (bool, error) {
	switch s.flow.Steps[step].Key {
	case valueobject.StepPersonal:
		a, err := s.reader.Get(ctx, applicantID)
		if err != nil {
			return false, err
		}
		return a.HasPersonalInfo(), nil
	case valueobject.StepSkills:
		a, err := s.reader.Get(ctx, applicantID)
		if err != nil {
			return false, err
		}
		return len(a.Skills) > 0, nil
	case valueobject.StepDeclarations:
		a, err := s.reader.Get(ctx, applicantID)
		if err != nil {
			return false, err
		}
		return a.DeclarationsAccepted, nil
	case valueobject.StepEmployment:
		view, err := s.timeline.TimelineForApplicant(ctx, applicantID)
		if err != nil {
			return false, err
		}
		return len(view.Periods) > 0 && view.AllGapsExplained, nil
	case valueobject.StepReferences:
		view, err := s.timeline.TimelineForApplicant(ctx, applicantID)
		if err != nil {
			return false, err
		}
		return view.ReferencesComplete(), nil
	default:
		return true, nil
	}
}

func (s *ProgressService) view(state stepper.State) ProgressView {
	completed := make(map[int]struct{}, len(state.CompletedSteps))
	for _, step := range state.CompletedSteps {
		completed[step] = struct{}{}
	}

	steps := make([]StepInfo, 0, len(s.flow.Steps))
	for i, st := range s.flow.Steps {
		_, done := completed[i]
		steps = append(steps, StepInfo{Index: i, Key: st.Key, Title: st.Title, Completed: done})
	}

	return ProgressView{
		State:      state,
		CurrentKey: s.flow.Steps[state.CurrentStep].Key,
		Steps:      steps,
	}
}
