package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/applicant-intake/internal/pkg/apperror"
)

var pdfBytes = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

func TestApplicantService_UpdatePersonal(t *testing.T) {
	apps := newFakeApplicants()
	userID := uuid.New()
	apps.add(userID)
	svc := NewApplicantService(apps, nil)
	ctx := context.Background()

	phone := "+7 999 123-45-67"
	a, err := svc.UpdatePersonal(ctx, userID, PersonalInput{FirstName: " Анна ", LastName: "Иванова", Email: "Anna@Example.com", Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Анна", a.FirstName)
	assert.Equal(t, "anna@example.com", a.Email)
	assert.True(t, a.HasPersonalInfo())

	_, err = svc.UpdatePersonal(ctx, userID, PersonalInput{FirstName: "", LastName: "Иванова", Email: "anna@example.com"})
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.UpdatePersonal(ctx, uuid.New(), PersonalInput{FirstName: "Анна", LastName: "Иванова", Email: "anna@example.com"})
	assert.ErrorIs(t, err, apperror.ErrApplicantNotFound)
}

func TestApplicantService_SkillsAndDeclarations(t *testing.T) {
	apps := newFakeApplicants()
	userID := uuid.New()
	apps.add(userID)
	svc := NewApplicantService(apps, nil)
	ctx := context.Background()

	a, err := svc.UpdateSkills(ctx, userID, []string{" Go ", "PostgreSQL"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, a.Skills)

	_, err = svc.UpdateSkills(ctx, userID, []string{"Go", "go"})
	assert.True(t, apperror.IsValidation(err))

	first, err := svc.AcceptDeclarations(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, first.DeclarationsAt)

	again, err := svc.AcceptDeclarations(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, *first.DeclarationsAt, *again.DeclarationsAt)
}

func TestApplicantService_AttachCVReplacesPrevious(t *testing.T) {
	apps := newFakeApplicants()
	userID := uuid.New()
	applicant := apps.add(userID)
	docs := new(mockDocumentStore)
	svc := NewApplicantService(apps, docs)
	ctx := context.Background()

	docs.On("Save", ctx, applicant.ID, "cv.pdf", mock.Anything).Return("a/cv_1.pdf", int64(len(pdfBytes)), nil).Once()
	a, err := svc.AttachCV(ctx, userID, "cv.pdf", pdfBytes, bytes.NewReader(pdfBytes))
	require.NoError(t, err)
	require.NotNil(t, a.CVPath)
	assert.Equal(t, "a/cv_1.pdf", *a.CVPath)

	docs.On("Save", ctx, applicant.ID, "cv2.pdf", mock.Anything).Return("a/cv_2.pdf", int64(len(pdfBytes)), nil).Once()
	docs.On("Delete", ctx, "a/cv_1.pdf").Return(nil).Once()
	a, err = svc.AttachCV(ctx, userID, "cv2.pdf", pdfBytes, bytes.NewReader(pdfBytes))
	require.NoError(t, err)
	assert.Equal(t, "a/cv_2.pdf", *a.CVPath)

	docs.AssertExpectations(t)
}

func TestApplicantService_AttachCVRejectsWrongType(t *testing.T) {
	apps := newFakeApplicants()
	userID := uuid.New()
	apps.add(userID)
	docs := new(mockDocumentStore)
	svc := NewApplicantService(apps, docs)

	_, err := svc.AttachCV(context.Background(), userID, "cv.docx", pdfBytes, bytes.NewReader(pdfBytes))
	assert.True(t, apperror.IsValidation(err))
	docs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
