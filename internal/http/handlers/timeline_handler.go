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

// TimelineController - операции шага «Трудовая история».
type TimelineController interface {
	Timeline(ctx context.Context, userID uuid.UUID) (*service.TimelineView, error)
	ExplainGaps(ctx context.Context, userID uuid.UUID, inputs []service.GapExplanationInput) (*service.TimelineView, error)
	SaveTimeline(ctx context.Context, userID uuid.UUID) (*service.TimelineView, error)
	SetReferee(ctx context.Context, userID, periodID uuid.UUID, name, email string) (*entity.EmploymentPeriod, error)
}

// TimelineHandler обслуживает перерывы в занятости и рекомендации.
type TimelineHandler struct {
	timeline TimelineController
}

// NewTimelineHandler создаёт хэндлер.
func NewTimelineHandler(timeline TimelineController) *TimelineHandler {
	return &TimelineHandler{timeline: timeline}
}

// Get обрабатывает GET /application/timeline.
func (h *TimelineHandler) Get(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	view, err := h.timeline.Timeline(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, newTimelineResponse(view))
}

// ExplainGaps обрабатывает PUT /application/timeline/explanations.
func (h *TimelineHandler) ExplainGaps(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	var req dto.ExplainGapsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	inputs := make([]service.GapExplanationInput, 0, len(req.Explanations))
	for _, e := range req.Explanations {
		start, err := dto.MustDate("start_date", e.StartDate)
		if err != nil {
			common.RespondBadRequest(c, err.Error())
			return
		}
		end, err := dto.MustDate("end_date", e.EndDate)
		if err != nil {
			common.RespondBadRequest(c, err.Error())
			return
		}
		inputs = append(inputs, service.GapExplanationInput{
			StartDate:   start,
			EndDate:     end,
			Explanation: e.Explanation,
		})
	}

	view, err := h.timeline.ExplainGaps(c.Request.Context(), userID, inputs)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, newTimelineResponse(view))
}

// Save обрабатывает POST /application/timeline/save.
func (h *TimelineHandler) Save(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	view, err := h.timeline.SaveTimeline(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, newTimelineResponse(view))
}

// References обрабатывает GET /application/references.
func (h *TimelineHandler) References(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	view, err := h.timeline.Timeline(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"required":            dto.NewRequiredReferences(view.RequiredReferences),
		"last_two_employers":  dto.NewEmploymentList(view.LastTwoEmployers),
		"references_complete": view.ReferencesComplete(),
	})
}

// SetReferee обрабатывает PUT /application/references/:id/referee.
func (h *TimelineHandler) SetReferee(c *gin.Context) {
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

	var req dto.RefereeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	p, err := h.timeline.SetReferee(c.Request.Context(), userID, periodID, req.Name, req.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewEmploymentResponse(*p))
}

func newTimelineResponse(view *service.TimelineView) dto.TimelineResponse {
	gaps := make([]dto.GapResponse, 0, len(view.Gaps))
	for _, g := range view.Gaps {
		gaps = append(gaps, dto.NewGapResponse(g.Gap, g.Explanation, g.Explained))
	}
	return dto.TimelineResponse{
		Periods:            dto.NewEmploymentList(view.Periods),
		Gaps:               gaps,
		AllGapsExplained:   view.AllGapsExplained,
		RequiredReferences: dto.NewRequiredReferences(view.RequiredReferences),
		LastTwoEmployers:   dto.NewEmploymentList(view.LastTwoEmployers),
		ReferencesComplete: view.ReferencesComplete(),
	}
}
