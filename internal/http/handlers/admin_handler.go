package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/applicant-intake/internal/dto"
	"github.com/ignatzorin/applicant-intake/internal/http/handlers/common"
	"github.com/ignatzorin/applicant-intake/internal/logger"
	"github.com/ignatzorin/applicant-intake/internal/reference"
	"github.com/ignatzorin/applicant-intake/internal/service"
)

// PolicyStore хранит политику рекомендаций.
type PolicyStore interface {
	ReferencePolicy() reference.Policy
	UpdateReferencePolicy(update reference.PolicyUpdate) reference.Policy
}

// StatsSource отдаёт агрегаты по анкетам.
type StatsSource interface {
	AdminStats(ctx context.Context) (*service.AdminStats, error)
}

// AdminHandler обслуживает административные эндпоинты.
type AdminHandler struct {
	policy PolicyStore
	stats  StatsSource
}

// NewAdminHandler создаёт хэндлер.
func NewAdminHandler(policy PolicyStore, stats StatsSource) *AdminHandler {
	return &AdminHandler{policy: policy, stats: stats}
}

// GetReferencePolicy обрабатывает GET /admin/reference-policy.
func (h *AdminHandler) GetReferencePolicy(c *gin.Context) {
	c.JSON(http.StatusOK, h.policy.ReferencePolicy())
}

// UpdateReferencePolicy обрабатывает PUT /admin/reference-policy.
func (h *AdminHandler) UpdateReferencePolicy(c *gin.Context) {
	var req dto.ReferencePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	policy := h.policy.UpdateReferencePolicy(reference.PolicyUpdate{
		RequireCurrentEmployer:         req.RequireCurrentEmployer,
		RequirePreviousEmployer:        req.RequirePreviousEmployer,
		RequireVulnerableWorkEmployers: req.RequireVulnerableWorkEmployers,
	})

	userID, _ := common.CurrentUserID(c)
	logger.Entry("admin").WithField("user_id", userID).WithField("policy", policy).Info("политика рекомендаций изменена")
	c.JSON(http.StatusOK, policy)
}

// Stats обрабатывает GET /admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.stats.AdminStats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
