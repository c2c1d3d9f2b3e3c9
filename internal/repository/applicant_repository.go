package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/applicant-intake/internal/domain/entity"
)

// ErrApplicantNotFound возвращается, когда анкета не найдена.
var ErrApplicantNotFound = errors.New("applicant not found")

// applicantRow - строка таблицы applicants.
type applicantRow struct {
	ID                   uuid.UUID      `db:"id"`
	UserID               uuid.UUID      `db:"user_id"`
	FirstName            string         `db:"first_name"`
	LastName             string         `db:"last_name"`
	Email                string         `db:"email"`
	Phone                *string        `db:"phone"`
	Skills               pq.StringArray `db:"skills"`
	DeclarationsAccepted bool           `db:"declarations_accepted"`
	DeclarationsAt       *time.Time     `db:"declarations_at"`
	CVPath               *string        `db:"cv_path"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
}

func (r applicantRow) toEntity() *entity.Applicant {
	skills := []string(r.Skills)
	if skills == nil {
		skills = []string{}
	}
	return &entity.Applicant{
		ID:                   r.ID,
		UserID:               r.UserID,
		FirstName:            r.FirstName,
		LastName:             r.LastName,
		Email:                r.Email,
		Phone:                r.Phone,
		Skills:               skills,
		DeclarationsAccepted: r.DeclarationsAccepted,
		DeclarationsAt:       r.DeclarationsAt,
		CVPath:               r.CVPath,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

const applicantColumns = `id, user_id, first_name, last_name, email, phone, skills,
	declarations_accepted, declarations_at, cv_path, created_at, updated_at`

// ApplicantRepository отвечает за таблицу applicants.
type ApplicantRepository struct {
	db *sqlx.DB
}

// NewApplicantRepository создаёт экземпляр репозитория.
func NewApplicantRepository(db *sqlx.DB) *ApplicantRepository {
	return &ApplicantRepository{db: db}
}

// Create сохраняет новую анкету.
func (r *ApplicantRepository) Create(ctx context.Context, a *entity.Applicant) error {
	query := `
		INSERT INTO applicants (id, user_id, first_name, last_name, email, phone, skills)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		a.ID, a.UserID, a.FirstName, a.LastName, a.Email, a.Phone, pq.Array(a.Skills),
	).Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		return fmt.Errorf("applicant repository: create %w", err)
	}
	return nil
}

// GetByID возвращает анкету по идентификатору.
func (r *ApplicantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Applicant, error) {
	return r.getOne(ctx, `SELECT `+applicantColumns+` FROM applicants WHERE id = $1`, id)
}

// GetByUserID возвращает анкету пользователя.
func (r *ApplicantRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Applicant, error) {
	return r.getOne(ctx, `SELECT `+applicantColumns+` FROM applicants WHERE user_id = $1`, userID)
}

func (r *ApplicantRepository) getOne(ctx context.Context, query string, arg uuid.UUID) (*entity.Applicant, error) {
	var row applicantRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicantNotFound
		}
		return nil, fmt.Errorf("applicant repository: get %w", err)
	}
	return row.toEntity(), nil
}

// Update сохраняет изменяемые поля анкеты.
func (r *ApplicantRepository) Update(ctx context.Context, a *entity.Applicant) error {
	query := `
		UPDATE applicants
		SET first_name = $2, last_name = $3, email = $4, phone = $5, skills = $6,
		    declarations_accepted = $7, declarations_at = $8, cv_path = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		a.ID, a.FirstName, a.LastName, a.Email, a.Phone, pq.Array(a.Skills),
		a.DeclarationsAccepted, a.DeclarationsAt, a.CVPath,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrApplicantNotFound
		}
		return fmt.Errorf("applicant repository: update %w", err)
	}
	return nil
}
