package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/applicant-intake/internal/domain/entity"
	"github.com/ignatzorin/applicant-intake/internal/dto"
	"github.com/ignatzorin/applicant-intake/internal/http/handlers/common"
	"github.com/ignatzorin/applicant-intake/internal/service"
)

// Размер заголовка, по которому определяется тип документа.
const sniffLen = 512

// ApplicantEditor - операции над анкетой соискателя.
type ApplicantEditor interface {
	ForUser(ctx context.Context, userID uuid.UUID) (*entity.Applicant, error)
	UpdatePersonal(ctx context.Context, userID uuid.UUID, in service.PersonalInput) (*entity.Applicant, error)
	UpdateSkills(ctx context.Context, userID uuid.UUID, skills []string) (*entity.Applicant, error)
	AcceptDeclarations(ctx context.Context, userID uuid.UUID) (*entity.Applicant, error)
	AttachCV(ctx context.Context, userID uuid.UUID, filename string, header []byte, body io.Reader) (*entity.Applicant, error)
}

// ApplicantHandler обслуживает личные разделы анкеты.
type ApplicantHandler struct {
	applicants ApplicantEditor
}

// NewApplicantHandler создаёт хэндлер.
func NewApplicantHandler(applicants ApplicantEditor) *ApplicantHandler {
	return &ApplicantHandler{applicants: applicants}
}

// GetPersonal обрабатывает GET /application/personal.
func (h *ApplicantHandler) GetPersonal(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	a, err := h.applicants.ForUser(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewApplicantResponse(a))
}

// UpdatePersonal обрабатывает PUT /application/personal.
func (h *ApplicantHandler) UpdatePersonal(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	var req dto.UpdatePersonalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	a, err := h.applicants.UpdatePersonal(c.Request.Context(), userID, service.PersonalInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewApplicantResponse(a))
}

// UpdateSkills обрабатывает PUT /application/skills.
func (h *ApplicantHandler) UpdateSkills(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	var req dto.UpdateSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	a, err := h.applicants.UpdateSkills(c.Request.Context(), userID, req.Skills)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewApplicantResponse(a))
}

// AcceptDeclarations обрабатывает POST /application/declarations.
func (h *ApplicantHandler) AcceptDeclarations(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	a, err := h.applicants.AcceptDeclarations(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewApplicantResponse(a))
}

// UploadCV обрабатывает POST /application/cv (multipart, поле file).
func (h *ApplicantHandler) UploadCV(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		common.RespondBadRequest(c, "поле file обязательно")
		return
	}
	if file.Size == 0 {
		common.RespondBadRequest(c, "файл не может быть пустым")
		return
	}

	src, err := file.Open()
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer src.Close()

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(src, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		common.RespondBadRequest(c, "не удалось прочитать файл")
		return
	}
	header = header[:n]

	// Прочитанный заголовок возвращается в поток целиком.
	body := io.MultiReader(bytes.NewReader(header), src)

	a, err := h.applicants.AttachCV(c.Request.Context(), userID, file.Filename, header, body)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewApplicantResponse(a))
}
