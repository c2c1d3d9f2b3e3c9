package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/applicant-intake/internal/domain/entity"
	"github.com/ignatzorin/applicant-intake/internal/dto"
	"github.com/ignatzorin/applicant-intake/internal/http/handlers/common"
	"github.com/ignatzorin/applicant-intake/internal/service"
)

// EmploymentEditor - операции над местами работы.
type EmploymentEditor interface {
	ListPeriods(ctx context.Context, userID uuid.UUID) ([]entity.EmploymentPeriod, error)
	AddPeriod(ctx context.Context, userID uuid.UUID, in service.EmploymentInput) (*entity.EmploymentPeriod, error)
	UpdatePeriod(ctx context.Context, userID, periodID uuid.UUID, in service.EmploymentInput) (*entity.EmploymentPeriod, error)
	DeletePeriod(ctx context.Context, userID, periodID uuid.UUID) error
}

// EmploymentHandler обслуживает раздел «Опыт работы».
type EmploymentHandler struct {
	employment EmploymentEditor
}

// NewEmploymentHandler создаёт хэндлер.
func NewEmploymentHandler(employment EmploymentEditor) *EmploymentHandler {
	return &EmploymentHandler{employment: employment}
}

// List обрабатывает GET /application/employment.
func (h *EmploymentHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	periods, err := h.employment.ListPeriods(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"periods": dto.NewEmploymentList(periods)})
}

// Create обрабатывает POST /application/employment.
func (h *EmploymentHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	in, ok := bindEmployment(c)
	if !ok {
		return
	}

	p, err := h.employment.AddPeriod(c.Request.Context(), userID, in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewEmploymentResponse(*p))
}

// Update обрабатывает PUT /application/employment/:id.
func (h *EmploymentHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	periodID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	in, ok := bindEmployment(c)
	if !ok {
		return
	}

	p, err := h.employment.UpdatePeriod(c.Request.Context(), userID, periodID, in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewEmploymentResponse(*p))
}

// Delete обрабатывает DELETE /application/employment/:id.
func (h *EmploymentHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	periodID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.employment.DeletePeriod(c.Request.Context(), userID, periodID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindEmployment разбирает тело запроса; при ошибке ответ уже отправлен.
func bindEmployment(c *gin.Context) (service.EmploymentInput, bool) {
	var req dto.EmploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return service.EmploymentInput{}, false
	}

	start, err := dto.ParseDate("start_date", req.StartDate)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return service.EmploymentInput{}, false
	}
	end, err := dto.ParseDate("end_date", req.EndDate)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return service.EmploymentInput{}, false
	}

	return service.EmploymentInput{
		EmployerName:               req.EmployerName,
		JobTitle:                   req.JobTitle,
		StartDate:                  start,
		EndDate:                    end,
		IsCurrent:                  req.IsCurrent,
		WorkedWithVulnerablePeople: req.WorkedWithVulnerablePeople,
		RefereeName:                req.RefereeName,
		RefereeEmail:               req.RefereeEmail,
	}, true
}
