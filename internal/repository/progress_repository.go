package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/applicant-intake/internal/models"
)

// ErrProgressNotFound возвращается, если соискатель ещё не начинал анкету.
var ErrProgressNotFound = errors.New("progress not found")

// ProgressRepository хранит положение соискателя в анкете.
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository создаёт экземпляр репозитория.
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Get возвращает сохранённый прогресс.
func (r *ProgressRepository) Get(ctx context.Context, applicantID uuid.UUID) (*models.Progress, error) {
	var (
		p         models.Progress
		completed pq.Int64Array
	)
	query := `
		SELECT applicant_id, current_step, completed_steps, updated_at
		FROM application_progress
		WHERE applicant_id = $1
	`
	if err := r.db.QueryRowxContext(ctx, query, applicantID).
		Scan(&p.ApplicantID, &p.CurrentStep, &completed, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("progress repository: get %w", err)
	}

	p.CompletedSteps = make([]int, 0, len(completed))
	for _, s := range completed {
		p.CompletedSteps = append(p.CompletedSteps, int(s))
	}
	return &p, nil
}

// Save создаёт или обновляет прогресс.
func (r *ProgressRepository) Save(ctx context.Context, p *models.Progress) error {
	completed := make(pq.Int64Array, 0, len(p.CompletedSteps))
	for _, s := range p.CompletedSteps {
		completed = append(completed, int64(s))
	}

	query := `
		INSERT INTO application_progress (applicant_id, current_step, completed_steps, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (applicant_id) DO UPDATE
		SET current_step = EXCLUDED.current_step,
		    completed_steps = EXCLUDED.completed_steps,
		    updated_at = NOW()
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query, p.ApplicantID, p.CurrentStep, completed).Scan(&p.UpdatedAt); err != nil {
		return fmt.Errorf("progress repository: save %w", err)
	}
	return nil
}
