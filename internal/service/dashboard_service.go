package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ignatzorin/applicant-intake/internal/domain/entity"
	"github.com/ignatzorin/applicant-intake/internal/models"
)

// ProgressReader читает прогресс по идентификатору анкеты.
type ProgressReader interface {
	ProgressForApplicant(ctx context.Context, applicantID uuid.UUID) (*ProgressView, error)
}

// SavedReferenceReader читает зафиксированные требования к рекомендациям.
type SavedReferenceReader interface {
	SavedReferences(ctx context.Context, applicantID uuid.UUID) ([]models.RequiredReference, error)
}

// StatsRepository - агрегаты для администратора.
type StatsRepository interface {
	CountApplicants(ctx context.Context) (int, error)
	CountByStep(ctx context.Context) (map[int]int, error)
	CountMissingReferees(ctx context.Context) (int, error)
}

// Dashboard - сводка анкеты для соискателя.
type Dashboard struct {
	Applicant       *entity.Applicant
	Progress        *ProgressView
	Timeline        *TimelineView
	SavedReferences []models.RequiredReference
	UnexplainedGaps int
	MissingReferees int
}

// AdminStats - сводка по всем анкетам.
type AdminStats struct {
	Applicants      int         `json:"applicants"`
	ByStep          map[int]int `json:"by_step"`
	MissingReferees int         `json:"missing_referees"`
}

// DashboardService собирает сводку из нескольких источников параллельно.
type DashboardService struct {
	applicants ApplicantLookup
	progress   ProgressReader
	timeline   TimelineReader
	saved      SavedReferenceReader
	stats      StatsRepository
}

// NewDashboardService создаёт сервис сводки.
func NewDashboardService(applicants ApplicantLookup, progress ProgressReader, timeline TimelineReader, saved SavedReferenceReader, stats StatsRepository) *DashboardService {
	return &DashboardService{
		applicants: applicants,
		progress:   progress,
		timeline:   timeline,
		saved:      saved,
		stats:      stats,
	}
}

// Dashboard возвращает сводку анкеты пользователя.
func (s *DashboardService) Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	a, err := s.applicants.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{Applicant: a}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.progress.ProgressForApplicant(gctx, a.ID)
		if err != nil {
			return fmt.Errorf("progress: %w", err)
		}
		d.Progress = p
		return nil
	})
	g.Go(func() error {
		t, err := s.timeline.TimelineForApplicant(gctx, a.ID)
		if err != nil {
			return fmt.Errorf("timeline: %w", err)
		}
		d.Timeline = t
		return nil
	})
	g.Go(func() error {
		refs, err := s.saved.SavedReferences(gctx, a.ID)
		if err != nil {
			return fmt.Errorf("references: %w", err)
		}
		d.SavedReferences = refs
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard service: %w", err)
	}

	for _, gap := range d.Timeline.Gaps {
		if !gap.Explained {
			d.UnexplainedGaps++
		}
	}
	for _, p := range d.Timeline.RequiredReferences {
		if !p.HasReferee() {
			d.MissingReferees++
		}
	}
	return d, nil
}

// AdminStats возвращает агрегаты по всем анкетам.
func (s *DashboardService) AdminStats(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.Applicants, err = s.stats.CountApplicants(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ByStep, err = s.stats.CountByStep(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.MissingReferees, err = s.stats.CountMissingReferees(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard service: %w", err)
	}
	return &stats, nil
}
