package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/applicant-intake/internal/domain/entity"
	"github.com/ignatzorin/applicant-intake/internal/models"
	"github.com/ignatzorin/applicant-intake/internal/pkg/apperror"
	"github.com/ignatzorin/applicant-intake/internal/repository"
)

// mockAuthRepository реализует AuthRepository на картах.
type mockAuthRepository struct {
	usersByEmail map[string]*models.User
	usersByID    map[uuid.UUID]*models.User
	sessions     map[string]*models.Session
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		usersByEmail: make(map[string]*models.User),
		usersByID:    make(map[uuid.UUID]*models.User),
		sessions:     make(map[string]*models.Session),
	}
}

func (m *mockAuthRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	user.IsActive = true
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user
	return nil
}

func (m *mockAuthRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := m.usersByID[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) CreateSession(ctx context.Context, session *models.Session) error {
	session.ID = uuid.New()
	session.CreatedAt = time.Now()
	m.sessions[session.RefreshToken] = session
	return nil
}

func (m *mockAuthRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	if _, ok := m.sessions[refreshToken]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(m.sessions, refreshToken)
	return nil
}

func (m *mockAuthRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	if user, ok := m.usersByID[userID]; ok {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

type fakeApplicantCreator struct {
	created []*entity.Applicant
}

func (f *fakeApplicantCreator) Create(ctx context.Context, a *entity.Applicant) error {
	f.created = append(f.created, a)
	return nil
}

func newTestAuthService() (*AuthService, *mockAuthRepository, *fakeApplicantCreator) {
	repo := newMockAuthRepository()
	applicants := &fakeApplicantCreator{}
	tm := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	return NewAuthService(repo, applicants, tm), repo, applicants
}

func TestAuthService_RegisterCreatesApplicant(t *testing.T) {
	svc, repo, applicants := newTestAuthService()
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Email: "Anna@Example.com", Password: "Secret123"}, SessionMeta{IP: "127.0.0.1"})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.User.ID)
	assert.Equal(t, models.RoleApplicant, res.User.Role)
	assert.Equal(t, "anna@example.com", res.User.Email)
	require.Len(t, applicants.created, 1)
	assert.Equal(t, res.User.ID, applicants.created[0].UserID)
	assert.Len(t, repo.sessions, 1)

	userID, role, err := svc.ParseAccess(res.TokenPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)
	assert.Equal(t, models.RoleApplicant, role)
}

func TestAuthService_RegisterRejectsDuplicateAndWeakPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "weak"}, SessionMeta{})
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "Secret123"}, SessionMeta{})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "Secret123"}, SessionMeta{})
	assert.ErrorIs(t, err, apperror.ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "b@example.com", Password: "Secret123"}, SessionMeta{})
	require.NoError(t, err)

	res, err := svc.Login(ctx, LoginInput{Email: "b@example.com", Password: "Secret123"}, SessionMeta{})
	require.NoError(t, err)
	assert.NotEmpty(t, res.TokenPair.AccessToken)
	assert.NotNil(t, res.User.LastLoginAt)

	_, err = svc.Login(ctx, LoginInput{Email: "b@example.com", Password: "Wrong1234"}, SessionMeta{})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "Secret123"}, SessionMeta{})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_RefreshRotatesSession(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Email: "c@example.com", Password: "Secret123"}, SessionMeta{})
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, res.TokenPair.RefreshToken, SessionMeta{})
	require.NoError(t, err)
	assert.NotEqual(t, res.TokenPair.RefreshToken, pair.RefreshToken)
	assert.Len(t, repo.sessions, 1)

	_, err = svc.Refresh(ctx, res.TokenPair.RefreshToken, SessionMeta{})
	assert.Equal(t, 401, apperror.StatusOf(err))

	_, err = svc.Refresh(ctx, "garbage", SessionMeta{})
	assert.Equal(t, 401, apperror.StatusOf(err))
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	pair, _, err := NewTokenManager("a", "r", time.Minute, time.Hour).GeneratePair(user)
	require.NoError(t, err)

	_, _, err = NewTokenManager("other", "r", time.Minute, time.Hour).ParseAccess(pair.AccessToken)
	assert.Error(t, err)

	_, err = NewTokenManager("a", "r", time.Minute, time.Hour).ParseRefresh(pair.AccessToken)
	assert.Error(t, err)
}
