package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/applicant-intake/internal/domain/entity"
)

// ErrEmploymentNotFound возвращается, когда период занятости не найден.
var ErrEmploymentNotFound = errors.New("employment period not found")

type employmentRow struct {
	ID                         uuid.UUID  `db:"id"`
	ApplicantID                uuid.UUID  `db:"applicant_id"`
	EmployerName               string     `db:"employer_name"`
	JobTitle                   string     `db:"job_title"`
	StartDate                  *time.Time `db:"start_date"`
	EndDate                    *time.Time `db:"end_date"`
	IsCurrent                  bool       `db:"is_current"`
	WorkedWithVulnerablePeople bool       `db:"worked_with_vulnerable_people"`
	RefereeName                *string    `db:"referee_name"`
	RefereeEmail               *string    `db:"referee_email"`
	CreatedAt                  time.Time  `db:"created_at"`
	UpdatedAt                  time.Time  `db:"updated_at"`
}

func (r employmentRow) toEntity() entity.EmploymentPeriod {
	return entity.EmploymentPeriod{
		ID:                         r.ID,
		ApplicantID:                r.ApplicantID,
		EmployerName:               r.EmployerName,
		JobTitle:                   r.JobTitle,
		StartDate:                  r.StartDate,
		EndDate:                    r.EndDate,
		IsCurrent:                  r.IsCurrent,
		WorkedWithVulnerablePeople: r.WorkedWithVulnerablePeople,
		RefereeName:                r.RefereeName,
		RefereeEmail:               r.RefereeEmail,
		CreatedAt:                  r.CreatedAt,
		UpdatedAt:                  r.UpdatedAt,
	}
}

const employmentColumns = `id, applicant_id, employer_name, job_title, start_date, end_date,
	is_current, worked_with_vulnerable_people, referee_name, referee_email, created_at, updated_at`

// EmploymentRepository отвечает за таблицу employment_periods.
type EmploymentRepository struct {
	db *sqlx.DB
}

// NewEmploymentRepository создаёт экземпляр репозитория.
func NewEmploymentRepository(db *sqlx.DB) *EmploymentRepository {
	return &EmploymentRepository{db: db}
}

// Create сохраняет период занятости.
func (r *EmploymentRepository) Create(ctx context.Context, p *entity.EmploymentPeriod) error {
	query := `
		INSERT INTO employment_periods (id, applicant_id, employer_name, job_title, start_date, end_date,
			is_current, worked_with_vulnerable_people, referee_name, referee_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		p.ID, p.ApplicantID, p.EmployerName, p.JobTitle, p.StartDate, p.EndDate,
		p.IsCurrent, p.WorkedWithVulnerablePeople, p.RefereeName, p.RefereeEmail,
	).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("employment repository: create %w", err)
	}
	return nil
}

// Update перезаписывает период занятости соискателя.
func (r *EmploymentRepository) Update(ctx context.Context, p *entity.EmploymentPeriod) error {
	query := `
		UPDATE employment_periods
		SET employer_name = $3, job_title = $4, start_date = $5, end_date = $6, is_current = $7,
		    worked_with_vulnerable_people = $8, referee_name = $9, referee_email = $10, updated_at = NOW()
		WHERE id = $1 AND applicant_id = $2
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		p.ID, p.ApplicantID, p.EmployerName, p.JobTitle, p.StartDate, p.EndDate,
		p.IsCurrent, p.WorkedWithVulnerablePeople, p.RefereeName, p.RefereeEmail,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEmploymentNotFound
		}
		return fmt.Errorf("employment repository: update %w", err)
	}
	return nil
}

// Delete удаляет период занятости соискателя.
func (r *EmploymentRepository) Delete(ctx context.Context, applicantID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM employment_periods WHERE id = $1 AND applicant_id = $2`, id, applicantID)
	if err != nil {
		return fmt.Errorf("employment repository: delete %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("employment repository: delete rows affected %w", err)
	}
	if rows == 0 {
		return ErrEmploymentNotFound
	}
	return nil
}

// GetByID возвращает период занятости соискателя.
func (r *EmploymentRepository) GetByID(ctx context.Context, applicantID, id uuid.UUID) (*entity.EmploymentPeriod, error) {
	var row employmentRow
	query := `SELECT ` + employmentColumns + ` FROM employment_periods WHERE id = $1 AND applicant_id = $2`
	if err := r.db.GetContext(ctx, &row, query, id, applicantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEmploymentNotFound
		}
		return nil, fmt.Errorf("employment repository: get by id %w", err)
	}
	p := row.toEntity()
	return &p, nil
}

// ListByApplicant возвращает все периоды соискателя в порядке добавления.
func (r *EmploymentRepository) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]entity.EmploymentPeriod, error) {
	var rows []employmentRow
	query := `SELECT ` + employmentColumns + ` FROM employment_periods WHERE applicant_id = $1 ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &rows, query, applicantID); err != nil {
		return nil, fmt.Errorf("employment repository: list %w", err)
	}

	periods := make([]entity.EmploymentPeriod, 0, len(rows))
	for _, row := range rows {
		periods = append(periods, row.toEntity())
	}
	return periods, nil
}
