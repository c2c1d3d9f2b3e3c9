package timeline

import (
	"sort"
	"strings"

	"github.com/ignatzorin/applicant-intake/internal/domain/entity"
)

// ExplanationStore хранит пояснения соискателя к перерывам в занятости.
// Ключ - точная пара дат перерыва, поэтому при сдвиге границы перерыва
// старое пояснение остаётся «осиротевшим» и просто перестаёт учитываться.
//
// Хранилище живёт в рамках одного запроса и не предназначено для конкурентного доступа.
type ExplanationStore struct {
	entries map[string]entity.GapExplanation
	edited  map[string]struct{}
}

// NewExplanationStore создаёт пустое хранилище.
func NewExplanationStore() *ExplanationStore {
	return &ExplanationStore{
		entries: make(map[string]entity.GapExplanation),
		edited:  make(map[string]struct{}),
	}
}

// Seed заполняет хранилище ранее сохранёнными пояснениями.
// Ключи, уже изменённые через SetExplanation, не перезаписываются.
func (s *ExplanationStore) Seed(records []entity.GapExplanation) {
	for _, r := range records {
		key := r.Key()
		if _, ok := s.edited[key]; ok {
			continue
		}
		s.entries[key] = normalize(r)
	}
}

// SetExplanation сохраняет пояснение к перерыву.
func (s *ExplanationStore) SetExplanation(gap entity.EmploymentGap, text string) {
	key := gap.Key()
	s.entries[key] = entity.GapExplanation{
		StartDate:   entity.DateOnly(gap.StartDate),
		EndDate:     entity.DateOnly(gap.EndDate),
		Explanation: text,
	}
	s.edited[key] = struct{}{}
}

// Explanation возвращает пояснение к перерыву или пустую строку.
func (s *ExplanationStore) Explanation(gap entity.EmploymentGap) string {
	return s.entries[gap.Key()].Explanation
}

// AllExplained сообщает, что у каждого перерыва есть непустое пояснение.
// Пустой список перерывов считается полностью пояснённым.
func (s *ExplanationStore) AllExplained(gaps []entity.EmploymentGap) bool {
	for _, g := range gaps {
		if !isExplained(s.Explanation(g)) {
			return false
		}
	}
	return true
}

// ExplainedGaps возвращает пояснения к переданным перерывам в их порядке.
// Осиротевшие записи в результат не попадают.
func (s *ExplanationStore) ExplainedGaps(gaps []entity.EmploymentGap) []entity.GapExplanation {
	result := make([]entity.GapExplanation, 0, len(gaps))
	for _, g := range gaps {
		e, ok := s.entries[g.Key()]
		if !ok || !isExplained(e.Explanation) {
			continue
		}
		result = append(result, e)
	}
	return result
}

// Records возвращает все записи хранилища для сохранения, включая осиротевшие.
func (s *ExplanationStore) Records() []entity.GapExplanation {
	result := make([]entity.GapExplanation, 0, len(s.entries))
	for _, e := range s.entries {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].StartDate.Before(result[j].StartDate)
		}
		return result[i].EndDate.Before(result[j].EndDate)
	})
	return result
}

// Len возвращает количество записей.
func (s *ExplanationStore) Len() int {
	return len(s.entries)
}

func normalize(r entity.GapExplanation) entity.GapExplanation {
	r.StartDate = entity.DateOnly(r.StartDate)
	r.EndDate = entity.DateOnly(r.EndDate)
	return r
}

func isExplained(text string) bool {
	return strings.TrimSpace(text) != ""
}
