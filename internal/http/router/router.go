package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/applicant-intake/internal/config"
	"github.com/ignatzorin/applicant-intake/internal/http/handlers"
	"github.com/ignatzorin/applicant-intake/internal/http/middleware"
	"github.com/ignatzorin/applicant-intake/internal/models"
)

func SetupRouter(
	cfg *config.Config,
	flow *config.Flow,
	tokens middleware.AccessTokenParser,
	authHandler *handlers.AuthHandler,
	applicantHandler *handlers.ApplicantHandler,
	employmentHandler *handlers.EmploymentHandler,
	timelineHandler *handlers.TimelineHandler,
	progressHandler *handlers.ProgressHandler,
	dashboardHandler *handlers.DashboardHandler,
	adminHandler *handlers.AdminHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	api.GET("/health", healthHandler.Health)
	api.GET("/ws", wsHandler.Handle)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		protected.GET("/dashboard", dashboardHandler.Get)

		app := protected.Group("/application")
		app.GET("/personal", applicantHandler.GetPersonal)
		app.PUT("/personal", applicantHandler.UpdatePersonal)
		app.PUT("/skills", applicantHandler.UpdateSkills)
		app.POST("/declarations", applicantHandler.AcceptDeclarations)
		app.POST("/cv", applicantHandler.UploadCV)

		app.GET("/employment", employmentHandler.List)
		app.POST("/employment", employmentHandler.Create)
		app.PUT("/employment/:id", middleware.UUIDValidator("id"), employmentHandler.Update)
		app.DELETE("/employment/:id", middleware.UUIDValidator("id"), employmentHandler.Delete)

		app.GET("/timeline", timelineHandler.Get)
		app.PUT("/timeline/explanations", timelineHandler.ExplainGaps)
		app.POST("/timeline/save", timelineHandler.Save)

		app.GET("/references", timelineHandler.References)
		app.PUT("/references/:id/referee", middleware.UUIDValidator("id"), timelineHandler.SetReferee)

		progress := app.Group("/progress")
		progress.GET("", progressHandler.Get)
		progress.POST("/goto/:step", middleware.StepParam("step", flow), progressHandler.GoTo)
		progress.POST("/next", progressHandler.Next)
		progress.POST("/previous", progressHandler.Previous)
		progress.POST("/complete/:step", middleware.StepParam("step", flow), progressHandler.Complete)
		progress.POST("/reset", progressHandler.Reset)

		admin := protected.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		admin.GET("/reference-policy", adminHandler.GetReferencePolicy)
		admin.PUT("/reference-policy", adminHandler.UpdateReferencePolicy)
		admin.GET("/stats", adminHandler.Stats)
	}

	return r
}
