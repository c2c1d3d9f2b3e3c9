package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/applicant-intake/internal/domain/entity"
	"github.com/ignatzorin/applicant-intake/internal/pkg/apperror"
	"github.com/ignatzorin/applicant-intake/internal/reference"
)

type timelineFixture struct {
	svc          *TimelineService
	applicants   *ApplicantService
	employment   *fakeEmployment
	explanations *fakeExplanations
	references   *fakeReferences
	userID       uuid.UUID
	applicant    *entity.Applicant
}

func newTimelineFixture() *timelineFixture {
	apps := newFakeApplicants()
	userID := uuid.New()
	a := apps.add(userID)

	f := &timelineFixture{
		applicants:   NewApplicantService(apps, nil),
		employment:   &fakeEmployment{},
		explanations: newFakeExplanations(),
		references:   newFakeReferences(),
		userID:       userID,
		applicant:    a,
	}
	f.svc = NewTimelineService(f.applicants, f.employment, f.explanations, f.references, reference.DefaultPolicy())
	return f
}

func (f *timelineFixture) addPeriod(t *testing.T, name string, start, end *time.Time, current bool) *entity.EmploymentPeriod {
	t.Helper()
	p, err := f.svc.AddPeriod(context.Background(), f.userID, EmploymentInput{
		EmployerName: name,
		StartDate:    start,
		EndDate:      end,
		IsCurrent:    current,
	})
	require.NoError(t, err)
	return p
}

func employerNames(periods []entity.EmploymentPeriod) []string {
	out := make([]string, 0, len(periods))
	for _, p := range periods {
		out = append(out, p.EmployerName)
	}
	return out
}

func TestTimelineService_GapLifecycle(t *testing.T) {
	f := newTimelineFixture()
	ctx := context.Background()

	f.addPeriod(t, "ACME", day(2020, 1, 1), day(2020, 6, 30), false)
	f.addPeriod(t, "Globex", day(2021, 1, 1), nil, true)

	view, err := f.svc.Timeline(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, view.Gaps, 1)
	assert.Equal(t, 184, view.Gaps[0].Gap.LengthInDays)
	assert.False(t, view.Gaps[0].Explained)
	assert.False(t, view.AllGapsExplained)

	view, err = f.svc.ExplainGaps(ctx, f.userID, []GapExplanationInput{{
		StartDate:   *day(2020, 7, 1),
		EndDate:     *day(2021, 1, 1),
		Explanation: "Учёба",
	}})
	require.NoError(t, err)
	assert.True(t, view.AllGapsExplained)
	assert.Equal(t, "Учёба", view.Gaps[0].Explanation)
	assert.Len(t, f.explanations.records[f.applicant.ID], 1)

	view, err = f.svc.Timeline(ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, view.AllGapsExplained)
	assert.True(t, view.Gaps[0].Explained)
}

func TestTimelineService_BlankExplanationDoesNotCount(t *testing.T) {
	f := newTimelineFixture()
	ctx := context.Background()

	f.addPeriod(t, "ACME", day(2020, 1, 1), day(2020, 6, 30), false)
	f.addPeriod(t, "Globex", day(2021, 1, 1), nil, true)

	view, err := f.svc.ExplainGaps(ctx, f.userID, []GapExplanationInput{{
		StartDate:   *day(2020, 7, 1),
		EndDate:     *day(2021, 1, 1),
		Explanation: "   ",
	}})
	require.NoError(t, err)
	assert.False(t, view.AllGapsExplained)
	assert.False(t, view.Gaps[0].Explained)
}

func TestTimelineService_ExplainUnknownGap(t *testing.T) {
	f := newTimelineFixture()
	f.addPeriod(t, "ACME", day(2020, 1, 1), day(2020, 6, 30), false)

	_, err := f.svc.ExplainGaps(context.Background(), f.userID, []GapExplanationInput{{
		StartDate:   *day(2020, 7, 1),
		EndDate:     *day(2021, 1, 1),
		Explanation: "Учёба",
	}})
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, f.explanations.records[f.applicant.ID])
}

func TestTimelineService_OrphanedExplanationKept(t *testing.T) {
	f := newTimelineFixture()
	ctx := context.Background()

	f.addPeriod(t, "ACME", day(2020, 1, 1), day(2020, 6, 30), false)
	current := f.addPeriod(t, "Globex", day(2021, 1, 1), nil, true)

	_, err := f.svc.ExplainGaps(ctx, f.userID, []GapExplanationInput{{
		StartDate:   *day(2020, 7, 1),
		EndDate:     *day(2021, 1, 1),
		Explanation: "Переезд",
	}})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeletePeriod(ctx, f.userID, current.ID))

	view, err := f.svc.SaveTimeline(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, view.Gaps)
	assert.True(t, view.AllGapsExplained)
	assert.Len(t, f.explanations.records[f.applicant.ID], 1)
}

func TestTimelineService_RequiredReferencesFollowPolicy(t *testing.T) {
	f := newTimelineFixture()
	ctx := context.Background()

	f.addPeriod(t, "P3", day(2012, 1, 1), day(2015, 12, 31), false)
	f.addPeriod(t, "P1", day(2019, 1, 1), day(2021, 12, 31), false)
	f.addPeriod(t, "Current", day(2022, 1, 1), nil, true)
	f.addPeriod(t, "P2", day(2016, 1, 1), day(2018, 12, 31), false)

	view, err := f.svc.SaveTimeline(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Current", "P1"}, employerNames(view.RequiredReferences))
	assert.Equal(t, []string{"Current", "P1"}, employerNames(view.LastTwoEmployers))

	saved, err := f.svc.SavedReferences(ctx, f.applicant.ID)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.True(t, saved[0].IsCurrent)

	off := false
	policy := f.svc.UpdateReferencePolicy(reference.PolicyUpdate{RequireCurrentEmployer: &off})
	assert.False(t, policy.RequireCurrentEmployer)
	assert.True(t, policy.RequirePreviousEmployer)

	view, err = f.svc.Timeline(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"P1", "P2"}, employerNames(view.RequiredReferences))
	assert.Equal(t, policy, view.Policy)
}

func TestTimelineService_SetRefereeCompletesReferences(t *testing.T) {
	f := newTimelineFixture()
	ctx := context.Background()

	prev := f.addPeriod(t, "P1", day(2019, 1, 1), day(2021, 12, 31), false)
	cur := f.addPeriod(t, "Current", day(2022, 1, 1), nil, true)

	view, err := f.svc.Timeline(ctx, f.userID)
	require.NoError(t, err)
	assert.False(t, view.ReferencesComplete())

	_, err = f.svc.SetReferee(ctx, f.userID, prev.ID, "Иван Петров", "ivan@example.com")
	require.NoError(t, err)
	_, err = f.svc.SetReferee(ctx, f.userID, cur.ID, "Анна Смирнова", "Anna@Example.com")
	require.NoError(t, err)

	view, err = f.svc.Timeline(ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, view.ReferencesComplete())

	_, err = f.svc.SetReferee(ctx, f.userID, uuid.New(), "Иван Петров", "ivan@example.com")
	assert.ErrorIs(t, err, apperror.ErrEmploymentNotFound)
}

func TestTimelineService_AddPeriodValidation(t *testing.T) {
	f := newTimelineFixture()
	ctx := context.Background()

	_, err := f.svc.AddPeriod(ctx, f.userID, EmploymentInput{EmployerName: "ACME", StartDate: day(2020, 5, 1), EndDate: day(2020, 1, 1)})
	assert.True(t, apperror.IsValidation(err))

	_, err = f.svc.AddPeriod(ctx, f.userID, EmploymentInput{EmployerName: "  ", StartDate: day(2020, 5, 1)})
	assert.True(t, apperror.IsValidation(err))

	name := "Иван Петров"
	_, err = f.svc.AddPeriod(ctx, f.userID, EmploymentInput{EmployerName: "ACME", StartDate: day(2020, 5, 1), RefereeName: &name})
	assert.True(t, apperror.IsValidation(err))

	_, err = f.svc.AddPeriod(ctx, f.userID, EmploymentInput{EmployerName: "ACME", StartDate: day(2020, 5, 1), EndDate: day(2021, 1, 1), IsCurrent: true})
	assert.True(t, apperror.IsValidation(err))

	assert.Empty(t, f.employment.periods)
}

func TestTimelineService_UpdateAndDeleteUnknownPeriod(t *testing.T) {
	f := newTimelineFixture()
	ctx := context.Background()

	_, err := f.svc.UpdatePeriod(ctx, f.userID, uuid.New(), EmploymentInput{EmployerName: "ACME", StartDate: day(2020, 1, 1)})
	assert.ErrorIs(t, err, apperror.ErrEmploymentNotFound)

	err = f.svc.DeletePeriod(ctx, f.userID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrEmploymentNotFound)

	_, err = f.svc.Timeline(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrApplicantNotFound)
}
