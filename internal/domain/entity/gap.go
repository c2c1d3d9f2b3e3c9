package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmploymentGap - промежуток без работы между двумя соседними периодами.
// Значение вычисляемое: при любом изменении периодов пересчитывается целиком.
type EmploymentGap struct {
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	LengthInDays int       `json:"length_in_days"`
}

// Key возвращает канонический текстовый ключ промежутка.
func (g EmploymentGap) Key() string {
	return GapKey(g.StartDate, g.EndDate)
}

// GapKey строит ключ по паре дат в формате RFC 3339 (UTC, полночь).
func GapKey(start, end time.Time) string {
	return DateOnly(start).Format(time.RFC3339) + "/" + DateOnly(end).Format(time.RFC3339)
}

// DateOnly приводит момент времени к полуночи UTC той же календарной даты.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GapExplanation - пояснение соискателя к промежутку.
type GapExplanation struct {
	ApplicantID uuid.UUID `json:"-"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Explanation string    `json:"explanation"`
}

// Key возвращает ключ промежутка, к которому относится пояснение.
func (e GapExplanation) Key() string {
	return GapKey(e.StartDate, e.EndDate)
}
