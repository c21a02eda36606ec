package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/danieltanurhan/study-planner-api/internal/dto"
	"github.com/danieltanurhan/study-planner-api/internal/service"
	appErrors "github.com/danieltanurhan/study-planner-api/pkg/errors"
	"github.com/danieltanurhan/study-planner-api/pkg/response"
)

// FixedScheduleHandler wires HTTP endpoints to the fixed-schedule service.
type FixedScheduleHandler struct {
	service *service.FixedScheduleService
}

// NewFixedScheduleHandler creates a new handler.
func NewFixedScheduleHandler(svc *service.FixedScheduleService) *FixedScheduleHandler {
	return &FixedScheduleHandler{service: svc}
}

// ListClasses godoc
// @Summary List weekly classes
// @Tags FixedSchedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /classes [get]
func (h *FixedScheduleHandler) ListClasses(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	classes, err := h.service.ListClasses(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// CreateClass godoc
// @Summary Create weekly class
// @Tags FixedSchedule
// @Accept json
// @Produce json
// @Param payload body dto.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /classes [post]
func (h *FixedScheduleHandler) CreateClass(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid class payload"))
		return
	}

	class, err := h.service.CreateClass(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}

// UpdateClass godoc
// @Summary Update weekly class
// @Tags FixedSchedule
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body dto.UpdateClassRequest true "Class payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /classes/{id} [put]
func (h *FixedScheduleHandler) UpdateClass(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid class payload"))
		return
	}

	class, err := h.service.UpdateClass(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// DeleteClass godoc
// @Summary Delete weekly class
// @Tags FixedSchedule
// @Param id path string true "Class ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/{id} [delete]
func (h *FixedScheduleHandler) DeleteClass(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.DeleteClass(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListBlocks godoc
// @Summary List recurring blocks
// @Tags FixedSchedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /blocks [get]
func (h *FixedScheduleHandler) ListBlocks(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	blocks, err := h.service.ListRegularBlocks(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, blocks, nil)
}

// CreateBlock godoc
// @Summary Create recurring block
// @Tags FixedSchedule
// @Accept json
// @Produce json
// @Param payload body dto.CreateRegularBlockRequest true "Block payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /blocks [post]
func (h *FixedScheduleHandler) CreateBlock(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateRegularBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid block payload"))
		return
	}

	block, err := h.service.CreateRegularBlock(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, block)
}

// UpdateBlock godoc
// @Summary Update recurring block
// @Tags FixedSchedule
// @Accept json
// @Produce json
// @Param id path string true "Block ID"
// @Param payload body dto.UpdateRegularBlockRequest true "Block payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /blocks/{id} [put]
func (h *FixedScheduleHandler) UpdateBlock(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateRegularBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid block payload"))
		return
	}

	block, err := h.service.UpdateRegularBlock(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, block, nil)
}

// DeleteBlock godoc
// @Summary Delete recurring block
// @Tags FixedSchedule
// @Param id path string true "Block ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /blocks/{id} [delete]
func (h *FixedScheduleHandler) DeleteBlock(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.DeleteRegularBlock(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
