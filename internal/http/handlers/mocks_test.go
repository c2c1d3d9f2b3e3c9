package handlers

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/applicant-intake/internal/domain/entity"
	"github.com/ignatzorin/applicant-intake/internal/http/middleware"
	"github.com/ignatzorin/applicant-intake/internal/service"
)

func newTestEngine(userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	if userID != uuid.Nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ContextUserIDKey, userID)
			c.Next()
		})
	}
	return r
}

type mockProgress struct{ mock.Mock }

func (m *mockProgress) Progress(ctx context.Context, userID uuid.UUID) (*service.ProgressView, error) {
	args := m.Called(ctx, userID)
	v, _ := args.Get(0).(*service.ProgressView)
	return v, args.Error(1)
}

func (m *mockProgress) GoTo(ctx context.Context, userID uuid.UUID, target int) (*service.TransitionResult, error) {
	args := m.Called(ctx, userID, target)
	v, _ := args.Get(0).(*service.TransitionResult)
	return v, args.Error(1)
}

func (m *mockProgress) Next(ctx context.Context, userID uuid.UUID) (*service.TransitionResult, error) {
	args := m.Called(ctx, userID)
	v, _ := args.Get(0).(*service.TransitionResult)
	return v, args.Error(1)
}

func (m *mockProgress) Previous(ctx context.Context, userID uuid.UUID) (*service.TransitionResult, error) {
	args := m.Called(ctx, userID)
	v, _ := args.Get(0).(*service.TransitionResult)
	return v, args.Error(1)
}

func (m *mockProgress) Complete(ctx context.Context, userID uuid.UUID, step int) (*service.TransitionResult, error) {
	args := m.Called(ctx, userID, step)
	v, _ := args.Get(0).(*service.TransitionResult)
	return v, args.Error(1)
}

func (m *mockProgress) Reset(ctx context.Context, userID uuid.UUID) (*service.TransitionResult, error) {
	args := m.Called(ctx, userID)
	v, _ := args.Get(0).(*service.TransitionResult)
	return v, args.Error(1)
}

type mockTimeline struct{ mock.Mock }

func (m *mockTimeline) Timeline(ctx context.Context, userID uuid.UUID) (*service.TimelineView, error) {
	args := m.Called(ctx, userID)
	v, _ := args.Get(0).(*service.TimelineView)
	return v, args.Error(1)
}

func (m *mockTimeline) ExplainGaps(ctx context.Context, userID uuid.UUID, inputs []service.GapExplanationInput) (*service.TimelineView, error) {
	args := m.Called(ctx, userID, inputs)
	v, _ := args.Get(0).(*service.TimelineView)
	return v, args.Error(1)
}

func (m *mockTimeline) SaveTimeline(ctx context.Context, userID uuid.UUID) (*service.TimelineView, error) {
	args := m.Called(ctx, userID)
	v, _ := args.Get(0).(*service.TimelineView)
	return v, args.Error(1)
}

func (m *mockTimeline) SetReferee(ctx context.Context, userID, periodID uuid.UUID, name, email string) (*entity.EmploymentPeriod, error) {
	args := m.Called(ctx, userID, periodID, name, email)
	v, _ := args.Get(0).(*entity.EmploymentPeriod)
	return v, args.Error(1)
}

type mockApplicants struct {
	mock.Mock
	uploaded []byte
}

func (m *mockApplicants) ForUser(ctx context.Context, userID uuid.UUID) (*entity.Applicant, error) {
	args := m.Called(ctx, userID)
	v, _ := args.Get(0).(*entity.Applicant)
	return v, args.Error(1)
}

func (m *mockApplicants) UpdatePersonal(ctx context.Context, userID uuid.UUID, in service.PersonalInput) (*entity.Applicant, error) {
	args := m.Called(ctx, userID, in)
	v, _ := args.Get(0).(*entity.Applicant)
	return v, args.Error(1)
}

func (m *mockApplicants) UpdateSkills(ctx context.Context, userID uuid.UUID, skills []string) (*entity.Applicant, error) {
	args := m.Called(ctx, userID, skills)
	v, _ := args.Get(0).(*entity.Applicant)
	return v, args.Error(1)
}

func (m *mockApplicants) AcceptDeclarations(ctx context.Context, userID uuid.UUID) (*entity.Applicant, error) {
	args := m.Called(ctx, userID)
	v, _ := args.Get(0).(*entity.Applicant)
	return v, args.Error(1)
}

func (m *mockApplicants) AttachCV(ctx context.Context, userID uuid.UUID, filename string, header []byte, body io.Reader) (*entity.Applicant, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	m.uploaded = raw
	args := m.Called(ctx, userID, filename, header)
	v, _ := args.Get(0).(*entity.Applicant)
	return v, args.Error(1)
}
