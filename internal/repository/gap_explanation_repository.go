package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/applicant-intake/internal/domain/entity"
	"github.com/ignatzorin/applicant-intake/internal/repository/common"
)

type gapExplanationRow struct {
	ApplicantID uuid.UUID `db:"applicant_id"`
	StartDate   time.Time `db:"start_date"`
	EndDate     time.Time `db:"end_date"`
	Explanation string    `db:"explanation"`
}

// GapExplanationRepository хранит объяснения перерывов в занятости.
type GapExplanationRepository struct {
	db *sqlx.DB
}

// NewGapExplanationRepository создаёт экземпляр репозитория.
func NewGapExplanationRepository(db *sqlx.DB) *GapExplanationRepository {
	return &GapExplanationRepository{db: db}
}

// ListByApplicant возвращает все сохранённые объяснения, включая осиротевшие.
func (r *GapExplanationRepository) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]entity.GapExplanation, error) {
	var rows []gapExplanationRow
	query := `
		SELECT applicant_id, start_date, end_date, explanation
		FROM gap_explanations
		WHERE applicant_id = $1
		ORDER BY start_date, end_date
	`
	if err := r.db.SelectContext(ctx, &rows, query, applicantID); err != nil {
		return nil, fmt.Errorf("gap explanation repository: list %w", err)
	}

	result := make([]entity.GapExplanation, 0, len(rows))
	for _, row := range rows {
		result = append(result, entity.GapExplanation{
			ApplicantID: row.ApplicantID,
			StartDate:   entity.DateOnly(row.StartDate),
			EndDate:     entity.DateOnly(row.EndDate),
			Explanation: row.Explanation,
		})
	}
	return result, nil
}

// ReplaceAll атомарно заменяет набор объяснений соискателя.
func (r *GapExplanationRepository) ReplaceAll(ctx context.Context, applicantID uuid.UUID, records []entity.GapExplanation) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM gap_explanations WHERE applicant_id = $1`, applicantID); err != nil {
			return fmt.Errorf("gap explanation repository: clear %w", err)
		}

		inserter := common.NewBatchInserter(tx,
			`INSERT INTO gap_explanations (applicant_id, start_date, end_date, explanation)`,
			`ON CONFLICT (applicant_id, start_date, end_date) DO UPDATE SET explanation = EXCLUDED.explanation`,
			4, 100)
		for _, rec := range records {
			if err := inserter.Add(ctx, applicantID, rec.StartDate, rec.EndDate, rec.Explanation); err != nil {
				return fmt.Errorf("gap explanation repository: insert %w", err)
			}
		}
		if err := inserter.Flush(ctx); err != nil {
			return fmt.Errorf("gap explanation repository: flush %w", err)
		}
		return nil
	})
}
