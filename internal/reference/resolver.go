// Package reference определяет, каких работодателей нужно запросить о рекомендациях.
package reference

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/applicant-intake/internal/domain/entity"
)

const (
	// previousLimitWithCurrent - сколько прошлых работодателей нужно, если текущий уже учтён.
	previousLimitWithCurrent = 1
	// previousLimitWithoutCurrent - правило «два последних работодателя».
	previousLimitWithoutCurrent = 2
)

// Resolve возвращает множество периодов, для которых нужна рекомендация.
// Порядок детерминирован: текущий работодатель, затем прошлые (самые свежие первыми),
// затем работодатели, где соискатель работал с уязвимыми группами.
func Resolve(periods []entity.EmploymentPeriod, policy Policy) []entity.EmploymentPeriod {
	current, previous := partition(periods)
	set := newPeriodSet()

	currentIncluded := false
	if policy.RequireCurrentEmployer && current != nil {
		set.add(*current)
		currentIncluded = true
	}

	if policy.RequirePreviousEmployer {
		limit := previousLimitWithoutCurrent
		if currentIncluded {
			limit = previousLimitWithCurrent
		}
		for i := 0; i < len(previous) && i < limit; i++ {
			set.add(previous[i])
		}
	}

	if policy.RequireVulnerableWorkEmployers {
		for _, p := range periods {
			if p.WorkedWithVulnerablePeople {
				set.add(p)
			}
		}
	}

	return set.values()
}

// LastTwoEmployers возвращает текущего работодателя и последних прошлых
// по тому же правилу схлопывания, без учёта политики.
func LastTwoEmployers(periods []entity.EmploymentPeriod) []entity.EmploymentPeriod {
	current, previous := partition(periods)
	set := newPeriodSet()

	limit := previousLimitWithoutCurrent
	if current != nil {
		set.add(*current)
		limit = previousLimitWithCurrent
	}
	for i := 0; i < len(previous) && i < limit; i++ {
		set.add(previous[i])
	}

	return set.values()
}

// partition отделяет текущее место работы от прошлых.
// Если текущих несколько, берётся первое по порядку.
func partition(periods []entity.EmploymentPeriod) (*entity.EmploymentPeriod, []entity.EmploymentPeriod) {
	var current *entity.EmploymentPeriod
	previous := make([]entity.EmploymentPeriod, 0, len(periods))

	for i := range periods {
		if periods[i].IsCurrent {
			if current == nil {
				p := periods[i]
				current = &p
			}
			continue
		}
		previous = append(previous, periods[i])
	}

	sort.SliceStable(previous, func(i, j int) bool {
		return endsLater(previous[i].EndDate, previous[j].EndDate)
	})

	return current, previous
}

// endsLater упорядочивает по убыванию даты окончания; отсутствующая дата - самая старая.
func endsLater(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.After(*b)
	}
}

// periodSet - множество периодов с сохранением порядка вставки.
type periodSet struct {
	index map[string]int
	items []entity.EmploymentPeriod
}

func newPeriodSet() *periodSet {
	return &periodSet{index: make(map[string]int)}
}

func (s *periodSet) add(p entity.EmploymentPeriod) {
	key := identity(p)
	if _, ok := s.index[key]; ok {
		return
	}
	s.index[key] = len(s.items)
	s.items = append(s.items, p)
}

func (s *periodSet) values() []entity.EmploymentPeriod {
	if s.items == nil {
		return []entity.EmploymentPeriod{}
	}
	return s.items
}

// identity возвращает устойчивый ключ периода: ID либо структурный ключ для несохранённых записей.
func identity(p entity.EmploymentPeriod) string {
	if p.ID != uuid.Nil {
		return p.ID.String()
	}
	return "employer:" + p.EmployerName + "|" + formatDate(p.StartDate) + "|" + formatDate(p.EndDate)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return entity.DateOnly(*t).Format("2006-01-02")
}

// Resolver хранит периоды и политику и пересчитывает требования при каждом чтении.
type Resolver struct {
	mu      sync.RWMutex
	periods []entity.EmploymentPeriod
	policy  Policy
}

// NewResolver создаёт резолвер с заданной политикой.
func NewResolver(policy Policy) *Resolver {
	return &Resolver{policy: policy}
}

// SetPeriods заменяет набор периодов.
func (r *Resolver) SetPeriods(periods []entity.EmploymentPeriod) {
	copied := append([]entity.EmploymentPeriod(nil), periods...)
	r.mu.Lock()
	r.periods = copied
	r.mu.Unlock()
}

// UpdatePolicy применяет частичное изменение и возвращает итоговую политику.
func (r *Resolver) UpdatePolicy(update PolicyUpdate) Policy {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policy = r.policy.Apply(update)
	return r.policy
}

// Policy возвращает текущую политику.
func (r *Resolver) Policy() Policy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.policy
}

// Required возвращает работодателей, от которых нужна рекомендация.
func (r *Resolver) Required() []entity.EmploymentPeriod {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Resolve(r.periods, r.policy)
}

// LastTwoEmployers возвращает последних работодателей независимо от политики.
func (r *Resolver) LastTwoEmployers() []entity.EmploymentPeriod {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return LastTwoEmployers(r.periods)
}
