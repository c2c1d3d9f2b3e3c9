package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/applicant-intake/internal/models"
	"github.com/ignatzorin/applicant-intake/internal/repository/common"
)

// ReferenceRepository хранит последний вычисленный список требуемых рекомендаций.
type ReferenceRepository struct {
	db *sqlx.DB
}

// NewReferenceRepository создаёт экземпляр репозитория.
func NewReferenceRepository(db *sqlx.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// ReplaceRequired заменяет список требуемых рекомендаций соискателя.
func (r *ReferenceRepository) ReplaceRequired(ctx context.Context, applicantID uuid.UUID, refs []models.RequiredReference) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM required_references WHERE applicant_id = $1`, applicantID); err != nil {
			return fmt.Errorf("reference repository: clear %w", err)
		}

		inserter := common.NewBatchInserter(tx,
			`INSERT INTO required_references (applicant_id, employment_id, employer_name, is_current, vulnerable, has_referee, resolved_at)`,
			`ON CONFLICT DO NOTHING`, 7, 50)
		for _, ref := range refs {
			if err := inserter.Add(ctx, applicantID, ref.EmploymentID, ref.EmployerName,
				ref.IsCurrent, ref.Vulnerable, ref.HasReferee, ref.ResolvedAt); err != nil {
				return fmt.Errorf("reference repository: insert %w", err)
			}
		}
		return inserter.Flush(ctx)
	})
}

// ListRequired возвращает сохранённый список требуемых рекомендаций.
func (r *ReferenceRepository) ListRequired(ctx context.Context, applicantID uuid.UUID) ([]models.RequiredReference, error) {
	refs := []models.RequiredReference{}
	query := `
		SELECT applicant_id, employment_id, employer_name, is_current, vulnerable, has_referee, resolved_at
		FROM required_references
		WHERE applicant_id = $1
		ORDER BY is_current DESC, employer_name
	`
	if err := r.db.SelectContext(ctx, &refs, query, applicantID); err != nil {
		return nil, fmt.Errorf("reference repository: list %w", err)
	}
	return refs, nil
}
