package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// StatsRepository выполняет агрегирующие запросы для администратора.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository создаёт экземпляр репозитория.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// CountApplicants возвращает общее число анкет.
func (r *StatsRepository) CountApplicants(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM applicants`); err != nil {
		return 0, fmt.Errorf("stats repository: count applicants %w", err)
	}
	return n, nil
}

// CountByStep возвращает распределение соискателей по текущему шагу.
func (r *StatsRepository) CountByStep(ctx context.Context) (map[int]int, error) {
	var rows []struct {
		Step  int `db:"current_step"`
		Count int `db:"count"`
	}
	query := `SELECT current_step, COUNT(*) AS count FROM application_progress GROUP BY current_step`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("stats repository: count by step %w", err)
	}

	result := make(map[int]int, len(rows))
	for _, row := range rows {
		result[row.Step] = row.Count
	}
	return result, nil
}

// CountMissingReferees возвращает число требуемых рекомендаций без контакта рекомендателя.
func (r *StatsRepository) CountMissingReferees(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM required_references WHERE NOT has_referee`); err != nil {
		return 0, fmt.Errorf("stats repository: count missing referees %w", err)
	}
	return n, nil
}
