package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/applicant-intake/internal/dto"
	"github.com/ignatzorin/applicant-intake/internal/http/handlers/common"
	"github.com/ignatzorin/applicant-intake/internal/service"
)

// DashboardSource собирает сводку соискателя.
type DashboardSource interface {
	Dashboard(ctx context.Context, userID uuid.UUID) (*service.Dashboard, error)
}

// DashboardHandler отдаёт сводку анкеты.
type DashboardHandler struct {
	dashboard DashboardSource
}

// NewDashboardHandler создаёт хэндлер.
func NewDashboardHandler(dashboard DashboardSource) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Get обрабатывает GET /dashboard.
func (h *DashboardHandler) Get(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	d, err := h.dashboard.Dashboard(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applicant":        dto.NewApplicantResponse(d.Applicant),
		"progress":         d.Progress,
		"timeline":         newTimelineResponse(d.Timeline),
		"saved_references": d.SavedReferences,
		"unexplained_gaps": d.UnexplainedGaps,
		"missing_referees": d.MissingReferees,
	})
}
