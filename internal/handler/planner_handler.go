package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/danieltanurhan/study-planner-api/internal/dto"
	"github.com/danieltanurhan/study-planner-api/internal/service"
	appErrors "github.com/danieltanurhan/study-planner-api/pkg/errors"
	"github.com/danieltanurhan/study-planner-api/pkg/response"
)

// PlannerHandler wires HTTP endpoints to the planning pipeline.
type PlannerHandler struct {
	service *service.PlannerService
	metrics *service.MetricsService
}

// NewPlannerHandler creates a new handler.
func NewPlannerHandler(svc *service.PlannerService, metrics *service.MetricsService) *PlannerHandler {
	return &PlannerHandler{service: svc, metrics: metrics}
}

// Generate godoc
// @Summary Generate weekly schedule
// @Description Computes availability windows and allocates study and free blocks
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generation payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /planner/generate [post]
func (h *PlannerHandler) Generate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}

	start := time.Now()
	result, err := h.service.Generate(c.Request.Context(), claims.UserID, req)
	if err != nil {
		h.metrics.ObservePlanRun("unknown", "error", 0, time.Since(start))
		response.Error(c, err)
		return
	}
	outcome := "ok"
	if len(result.UnmetTasks) > 0 {
		outcome = "partial"
	}
	h.metrics.ObservePlanRun(result.Allocator, outcome, len(result.Schedule.Blocks), time.Since(start))
	if result.FellBack {
		h.metrics.ObserveOracle("fallback")
	}

	meta := map[string]interface{}{"allocator": result.Allocator}
	if result.FellBack {
		meta["fellBack"] = true
	}
	if result.Cached {
		meta["cached"] = true
	}
	response.JSON(c, http.StatusOK, result, nil, meta)
}

// Windows godoc
// @Summary Preview availability windows
// @Description Computes free windows over the horizon without allocating
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.WindowsRequest true "Windows payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /planner/windows [post]
func (h *PlannerHandler) Windows(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.WindowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid windows payload"))
		return
	}

	result, err := h.service.Windows(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Validate godoc
// @Summary Validate schedule blocks
// @Description Checks caller-supplied blocks for overlap conflicts
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.ValidateBlocksRequest true "Validation payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /planner/validate [post]
func (h *PlannerHandler) Validate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ValidateBlocksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid validation payload"))
		return
	}

	response.JSON(c, http.StatusOK, h.service.ValidateBlocks(req), nil)
}
