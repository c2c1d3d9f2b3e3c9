package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/applicant-intake/internal/config"
	"github.com/ignatzorin/applicant-intake/internal/db"
	"github.com/ignatzorin/applicant-intake/internal/goroutine"
	httpHandlers "github.com/ignatzorin/applicant-intake/internal/http/handlers"
	httpRouter "github.com/ignatzorin/applicant-intake/internal/http/router"
	"github.com/ignatzorin/applicant-intake/internal/logger"
	"github.com/ignatzorin/applicant-intake/internal/repository"
	"github.com/ignatzorin/applicant-intake/internal/service"
	"github.com/ignatzorin/applicant-intake/internal/storage"
	"github.com/ignatzorin/applicant-intake/internal/ws"
)

// Период очистки просроченных навигаторов.
const navigatorSweepInterval = time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logLevel := "info"
	if cfg.IsDevelopment() {
		logLevel = "debug"
	}
	logger.Init(logLevel, cfg.IsDevelopment())
	mainLog := logger.Entry("main")

	flow, err := config.LoadFlow(cfg.FlowConfigPath)
	if err != nil {
		mainLog.WithError(err).Fatal("ошибка загрузки конфигурации анкеты")
	}

	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.DefaultPoolOptions())
	if err != nil {
		mainLog.WithError(err).Fatal("ошибка подключения к базе")
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		mainLog.WithError(err).Fatal("ошибка миграций")
	}

	documents, err := storage.NewDocumentStorage(cfg.DocumentStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		mainLog.WithError(err).Fatal("не удалось подготовить файловое хранилище")
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	userRepo := repository.NewUserRepository(dbConn)
	applicantRepo := repository.NewApplicantRepository(dbConn)
	employmentRepo := repository.NewEmploymentRepository(dbConn)
	explanationRepo := repository.NewGapExplanationRepository(dbConn)
	referenceRepo := repository.NewReferenceRepository(dbConn)
	progressRepo := repository.NewProgressRepository(dbConn)
	statsRepo := repository.NewStatsRepository(dbConn)

	hub := ws.NewHub()
	goroutine.SafeGoWithContext(ctx, "ws-hub", hub.Run)

	navigators := service.NewNavigatorCache(cfg.ProgressSessionTTL)
	goroutine.SafeGoWithContext(ctx, "navigator-cache", func(ctx context.Context) {
		navigators.Run(ctx, navigatorSweepInterval)
	})

	authService := service.NewAuthService(userRepo, applicantRepo, tokenManager)
	applicantService := service.NewApplicantService(applicantRepo, documents)
	timelineService := service.NewTimelineService(applicantService, employmentRepo, explanationRepo, referenceRepo, flow.References)
	progressService := service.NewProgressService(applicantService, applicantService, timelineService, progressRepo, navigators, flow, hub)
	dashboardService := service.NewDashboardService(applicantService, progressService, timelineService, timelineService, statsRepo)

	engine := httpRouter.SetupRouter(
		cfg,
		flow,
		authService,
		httpHandlers.NewAuthHandler(authService),
		httpHandlers.NewApplicantHandler(applicantService),
		httpHandlers.NewEmploymentHandler(timelineService),
		httpHandlers.NewTimelineHandler(timelineService),
		httpHandlers.NewProgressHandler(progressService),
		httpHandlers.NewDashboardHandler(dashboardService),
		httpHandlers.NewAdminHandler(timelineService, dashboardService),
		httpHandlers.NewWSHandler(hub, authService, cfg.AllowedOrigins),
		httpHandlers.NewHealthHandler(dbConn, hub),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			mainLog.WithError(err).Error("ошибка остановки http сервера")
		}
	}()

	mainLog.WithField("port", cfg.HTTPPort).WithField("steps", len(flow.Steps)).Info("HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		mainLog.WithError(err).Fatal("сервер завершился с ошибкой")
	}
}

func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
