package service

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/applicant-intake/internal/domain/entity"
	"github.com/ignatzorin/applicant-intake/internal/models"
	"github.com/ignatzorin/applicant-intake/internal/repository"
)

// fakeApplicants хранит анкеты в памяти.
type fakeApplicants struct {
	mu     sync.Mutex
	byUser map[uuid.UUID]*entity.Applicant
}

func newFakeApplicants() *fakeApplicants {
	return &fakeApplicants{byUser: make(map[uuid.UUID]*entity.Applicant)}
}

func (f *fakeApplicants) add(userID uuid.UUID) *entity.Applicant {
	a := entity.NewApplicant(userID, "applicant@example.com")
	f.mu.Lock()
	f.byUser[userID] = a
	f.mu.Unlock()
	return a
}

func (f *fakeApplicants) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Applicant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byUser[userID]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, repository.ErrApplicantNotFound
}

func (f *fakeApplicants) GetByID(ctx context.Context, id uuid.UUID) (*entity.Applicant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byUser {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrApplicantNotFound
}

func (f *fakeApplicants) Update(ctx context.Context, a *entity.Applicant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *a
	f.byUser[a.UserID] = &cp
	return nil
}

// fakeEmployment хранит периоды в порядке добавления.
type fakeEmployment struct {
	mu      sync.Mutex
	periods []entity.EmploymentPeriod
}

func (f *fakeEmployment) Create(ctx context.Context, p *entity.EmploymentPeriod) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.periods = append(f.periods, *p)
	return nil
}

func (f *fakeEmployment) Update(ctx context.Context, p *entity.EmploymentPeriod) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.periods {
		if f.periods[i].ID == p.ID && f.periods[i].ApplicantID == p.ApplicantID {
			f.periods[i] = *p
			return nil
		}
	}
	return repository.ErrEmploymentNotFound
}

func (f *fakeEmployment) Delete(ctx context.Context, applicantID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.periods {
		if f.periods[i].ID == id && f.periods[i].ApplicantID == applicantID {
			f.periods = append(f.periods[:i], f.periods[i+1:]...)
			return nil
		}
	}
	return repository.ErrEmploymentNotFound
}

func (f *fakeEmployment) GetByID(ctx context.Context, applicantID, id uuid.UUID) (*entity.EmploymentPeriod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.periods {
		if p.ID == id && p.ApplicantID == applicantID {
			cp := p
			return &cp, nil
		}
	}
	return nil, repository.ErrEmploymentNotFound
}

func (f *fakeEmployment) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]entity.EmploymentPeriod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.EmploymentPeriod{}
	for _, p := range f.periods {
		if p.ApplicantID == applicantID {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeExplanations хранит объяснения по анкетам.
type fakeExplanations struct {
	mu      sync.Mutex
	records map[uuid.UUID][]entity.GapExplanation
}

func newFakeExplanations() *fakeExplanations {
	return &fakeExplanations{records: make(map[uuid.UUID][]entity.GapExplanation)}
}

func (f *fakeExplanations) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]entity.GapExplanation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.GapExplanation(nil), f.records[applicantID]...), nil
}

func (f *fakeExplanations) ReplaceAll(ctx context.Context, applicantID uuid.UUID, records []entity.GapExplanation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[applicantID] = append([]entity.GapExplanation(nil), records...)
	return nil
}

// fakeReferences хранит зафиксированные рекомендации.
type fakeReferences struct {
	mu   sync.Mutex
	refs map[uuid.UUID][]models.RequiredReference
}

func newFakeReferences() *fakeReferences {
	return &fakeReferences{refs: make(map[uuid.UUID][]models.RequiredReference)}
}

func (f *fakeReferences) ReplaceRequired(ctx context.Context, applicantID uuid.UUID, refs []models.RequiredReference) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refs[applicantID] = append([]models.RequiredReference(nil), refs...)
	return nil
}

func (f *fakeReferences) ListRequired(ctx context.Context, applicantID uuid.UUID) ([]models.RequiredReference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.RequiredReference{}, f.refs[applicantID]...), nil
}

// fakeProgress хранит прогресс и считает сохранения.
type fakeProgress struct {
	mu     sync.Mutex
	saved  map[uuid.UUID]models.Progress
	writes int
}

func newFakeProgress() *fakeProgress {
	return &fakeProgress{saved: make(map[uuid.UUID]models.Progress)}
}

func (f *fakeProgress) Get(ctx context.Context, applicantID uuid.UUID) (*models.Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.saved[applicantID]
	if !ok {
		return nil, repository.ErrProgressNotFound
	}
	p.CompletedSteps = append([]int(nil), p.CompletedSteps...)
	return &p, nil
}

func (f *fakeProgress) Save(ctx context.Context, p *models.Progress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	cp.CompletedSteps = append([]int(nil), p.CompletedSteps...)
	sort.Ints(cp.CompletedSteps)
	cp.UpdatedAt = time.Now()
	f.saved[p.ApplicantID] = cp
	f.writes++
	return nil
}

// mockBroadcaster проверяет события WebSocket.
type mockBroadcaster struct {
	mock.Mock
}

func (m *mockBroadcaster) BroadcastToUser(userID uuid.UUID, event string, data any) error {
	args := m.Called(userID, event, data)
	return args.Error(0)
}

// mockDocumentStore подменяет файловое хранилище.
type mockDocumentStore struct {
	mock.Mock
}

func (m *mockDocumentStore) Save(ctx context.Context, applicantID uuid.UUID, originalName string, r io.Reader) (string, int64, error) {
	args := m.Called(ctx, applicantID, originalName, r)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *mockDocumentStore) Delete(ctx context.Context, relativePath string) error {
	args := m.Called(ctx, relativePath)
	return args.Error(0)
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
