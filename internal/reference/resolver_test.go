package reference

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/applicant-intake/internal/domain/entity"
)

func ptrDate(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

type fixture struct {
	C, P1, P2, P3 entity.EmploymentPeriod
}

func newFixture() fixture {
	return fixture{
		C:  entity.EmploymentPeriod{ID: uuid.New(), EmployerName: "Current", StartDate: ptrDate(2022, 1, 1), IsCurrent: true},
		P1: entity.EmploymentPeriod{ID: uuid.New(), EmployerName: "P1", StartDate: ptrDate(2019, 1, 1), EndDate: ptrDate(2021, 12, 31)},
		P2: entity.EmploymentPeriod{ID: uuid.New(), EmployerName: "P2", StartDate: ptrDate(2016, 1, 1), EndDate: ptrDate(2018, 12, 31)},
		P3: entity.EmploymentPeriod{ID: uuid.New(), EmployerName: "P3", StartDate: ptrDate(2012, 1, 1), EndDate: ptrDate(2015, 12, 31)},
	}
}

func names(periods []entity.EmploymentPeriod) []string {
	out := make([]string, 0, len(periods))
	for _, p := range periods {
		out = append(out, p.EmployerName)
	}
	return out
}

func TestResolve_CurrentPlusOnePrevious(t *testing.T) {
	f := newFixture()
	periods := []entity.EmploymentPeriod{f.P3, f.P1, f.C, f.P2}

	assert.Equal(t, []string{"Current", "P1"}, names(Resolve(periods, DefaultPolicy())))
	assert.Equal(t, []string{"Current", "P1"}, names(LastTwoEmployers(periods)))
}

func TestResolve_NoCurrentRequiredRaisesPreviousLimit(t *testing.T) {
	f := newFixture()
	periods := []entity.EmploymentPeriod{f.C, f.P1, f.P2, f.P3}
	policy := DefaultPolicy()
	policy.RequireCurrentEmployer = false

	assert.Equal(t, []string{"P1", "P2"}, names(Resolve(periods, policy)))
	// Производное представление от политики не зависит.
	assert.Equal(t, []string{"Current", "P1"}, names(LastTwoEmployers(periods)))
}

func TestResolve_NoCurrentEmployerAtAll(t *testing.T) {
	f := newFixture()
	periods := []entity.EmploymentPeriod{f.P2, f.P3, f.P1}

	assert.Equal(t, []string{"P1", "P2"}, names(Resolve(periods, DefaultPolicy())))
	assert.Equal(t, []string{"P1", "P2"}, names(LastTwoEmployers(periods)))
}

func TestResolve_VulnerableWorkAddedWithoutDuplicates(t *testing.T) {
	f := newFixture()
	f.P1.WorkedWithVulnerablePeople = true
	f.P3.WorkedWithVulnerablePeople = true
	periods := []entity.EmploymentPeriod{f.C, f.P1, f.P2, f.P3}

	got := Resolve(periods, DefaultPolicy())

	assert.Equal(t, []string{"Current", "P1", "P3"}, names(got))
}

func TestResolve_AllTogglesOff(t *testing.T) {
	f := newFixture()
	f.P2.WorkedWithVulnerablePeople = true

	got := Resolve([]entity.EmploymentPeriod{f.C, f.P1, f.P2}, Policy{})

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestResolve_MissingEndDateSortsLast(t *testing.T) {
	f := newFixture()
	undated := entity.EmploymentPeriod{ID: uuid.New(), EmployerName: "Undated", StartDate: ptrDate(2020, 1, 1)}
	periods := []entity.EmploymentPeriod{undated, f.P2, f.P1}

	assert.Equal(t, []string{"P1", "P2"}, names(Resolve(periods, DefaultPolicy())))
}

func TestResolve_MultipleCurrentPicksFirst(t *testing.T) {
	f := newFixture()
	second := entity.EmploymentPeriod{ID: uuid.New(), EmployerName: "Second current", IsCurrent: true}
	periods := []entity.EmploymentPeriod{f.C, second, f.P1}

	assert.Equal(t, []string{"Current", "P1"}, names(Resolve(periods, DefaultPolicy())))
}

func TestResolve_StructuralIdentityForUnsavedPeriods(t *testing.T) {
	p := entity.EmploymentPeriod{EmployerName: "Draft", StartDate: ptrDate(2020, 1, 1), EndDate: ptrDate(2021, 1, 1), WorkedWithVulnerablePeople: true}
	policy := Policy{RequirePreviousEmployer: true, RequireVulnerableWorkEmployers: true}

	got := Resolve([]entity.EmploymentPeriod{p}, policy)

	assert.Len(t, got, 1)
}

func TestResolver_UpdatePolicyReflectedOnNextRead(t *testing.T) {
	f := newFixture()
	r := NewResolver(DefaultPolicy())
	r.SetPeriods([]entity.EmploymentPeriod{f.C, f.P1, f.P2, f.P3})
	assert.Equal(t, []string{"Current", "P1"}, names(r.Required()))

	off := false
	policy := r.UpdatePolicy(PolicyUpdate{RequireCurrentEmployer: &off})

	assert.False(t, policy.RequireCurrentEmployer)
	assert.True(t, policy.RequirePreviousEmployer)
	assert.Equal(t, []string{"P1", "P2"}, names(r.Required()))
	assert.Equal(t, []string{"Current", "P1"}, names(r.LastTwoEmployers()))
}

func TestPolicy_ApplyPartial(t *testing.T) {
	off := false
	p := DefaultPolicy().Apply(PolicyUpdate{RequireVulnerableWorkEmployers: &off})

	assert.True(t, p.RequireCurrentEmployer)
	assert.True(t, p.RequirePreviousEmployer)
	assert.False(t, p.RequireVulnerableWorkEmployers)
}
