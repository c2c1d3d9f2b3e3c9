// Package timeline анализирует хронологию занятости соискателя:
// находит необъяснённые перерывы и хранит пояснения к ним.
package timeline

import (
	"sort"
	"time"

	"github.com/ignatzorin/applicant-intake/internal/domain/entity"
)

// MinGapDays - минимальная длина перерыва, который требует пояснения.
// Более короткие промежутки считаются обычным временем перехода между работами.
const MinGapDays = 31

const day = 24 * time.Hour

// ComputeGaps возвращает необъяснённые перерывы между соседними по дате начала периодами.
// Функция чистая: входной срез не изменяется, результат упорядочен от самого раннего перерыва.
func ComputeGaps(periods []entity.EmploymentPeriod) []entity.EmploymentGap {
	dated := make([]entity.EmploymentPeriod, 0, len(periods))
	for _, p := range periods {
		if p.StartDate != nil {
			dated = append(dated, p)
		}
	}
	if len(dated) < 2 {
		return []entity.EmploymentGap{}
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return entity.DateOnly(*dated[i].StartDate).Before(entity.DateOnly(*dated[j].StartDate))
	})

	gaps := make([]entity.EmploymentGap, 0)
	for i := 0; i+1 < len(dated); i++ {
		prev, next := dated[i], dated[i+1]
		if prev.EndDate == nil || next.StartDate == nil {
			continue
		}

		gapStart := entity.DateOnly(*prev.EndDate).Add(day)
		gapEnd := entity.DateOnly(*next.StartDate)

		// Пересечения и стык день в день перерывом не считаются.
		if !gapEnd.After(gapStart) {
			continue
		}

		length := daysBetween(gapStart, gapEnd)
		if length < MinGapDays {
			continue
		}

		gaps = append(gaps, entity.EmploymentGap{
			StartDate:    gapStart,
			EndDate:      gapEnd,
			LengthInDays: length,
		})
	}

	return gaps
}

// daysBetween считает количество календарных дней между двумя полуночами UTC.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Round(day) / day)
}
