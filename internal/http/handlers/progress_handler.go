package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/applicant-intake/internal/http/handlers/common"
	"github.com/ignatzorin/applicant-intake/internal/service"
)

// ProgressNavigator - навигация по шагам анкеты.
type ProgressNavigator interface {
	Progress(ctx context.Context, userID uuid.UUID) (*service.ProgressView, error)
	GoTo(ctx context.Context, userID uuid.UUID, target int) (*service.TransitionResult, error)
	Next(ctx context.Context, userID uuid.UUID) (*service.TransitionResult, error)
	Previous(ctx context.Context, userID uuid.UUID) (*service.TransitionResult, error)
	Complete(ctx context.Context, userID uuid.UUID, step int) (*service.TransitionResult, error)
	Reset(ctx context.Context, userID uuid.UUID) (*service.TransitionResult, error)
}

// ProgressHandler обслуживает переходы между шагами.
type ProgressHandler struct {
	progress ProgressNavigator
}

// NewProgressHandler создаёт хэндлер.
func NewProgressHandler(progress ProgressNavigator) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// Get обрабатывает GET /application/progress.
func (h *ProgressHandler) Get(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	view, err := h.progress.Progress(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GoTo обрабатывает POST /application/progress/goto/:step.
func (h *ProgressHandler) GoTo(c *gin.Context) {
	h.stepTransition(c, h.progress.GoTo)
}

// Complete обрабатывает POST /application/progress/complete/:step.
func (h *ProgressHandler) Complete(c *gin.Context) {
	h.stepTransition(c, h.progress.Complete)
}

// Next обрабатывает POST /application/progress/next.
func (h *ProgressHandler) Next(c *gin.Context) {
	h.transition(c, h.progress.Next)
}

// Previous обрабатывает POST /application/progress/previous.
func (h *ProgressHandler) Previous(c *gin.Context) {
	h.transition(c, h.progress.Previous)
}

// Reset обрабатывает POST /application/progress/reset.
func (h *ProgressHandler) Reset(c *gin.Context) {
	h.transition(c, h.progress.Reset)
}

func (h *ProgressHandler) stepTransition(c *gin.Context, move func(context.Context, uuid.UUID, int) (*service.TransitionResult, error)) {
	step, err := common.CurrentStep(c)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	h.transition(c, func(ctx context.Context, userID uuid.UUID) (*service.TransitionResult, error) {
		return move(ctx, userID, step)
	})
}

func (h *ProgressHandler) transition(c *gin.Context, move func(context.Context, uuid.UUID) (*service.TransitionResult, error)) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	result, err := move(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	status := http.StatusOK
	if !result.Outcome.OK() {
		status = http.StatusConflict
	}
	c.JSON(status, result)
}
