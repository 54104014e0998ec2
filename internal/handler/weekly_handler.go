package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/streetfare/schedule-api/internal/models"
	appErrors "github.com/streetfare/schedule-api/pkg/errors"
	"github.com/streetfare/schedule-api/pkg/response"
)

type weeklyService interface {
	Get(ctx context.Context, vendorID string) (*models.WeeklySchedule, error)
	Save(ctx context.Context, vendorID string, ws models.WeeklySchedule) (*models.WeeklySchedule, []models.ValidationError, error)
	ToggleDay(ctx context.Context, vendorID, dayName string) (*models.WeeklySchedule, error)
	AddSlot(ctx context.Context, vendorID, dayName string) (*models.WeeklySchedule, error)
	Copy(ctx context.Context, vendorID string, req models.CopyDayRequest) (*models.WeeklySchedule, error)
	Clear(ctx context.Context, vendorID string) (*models.WeeklySchedule, error)
	Summary(ctx context.Context, vendorID string) (*models.WeeklySummary, error)
}

// WeeklyHandler exposes the weekly schedule endpoints.
type WeeklyHandler struct {
	service weeklyService
}

// NewWeeklyHandler builds a new handler.
func NewWeeklyHandler(service weeklyService) *WeeklyHandler {
	return &WeeklyHandler{service: service}
}

// Get godoc
// @Summary Get weekly schedule
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule [get]
func (h *WeeklyHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	ws, err := h.service.Get(c.Request.Context(), claims.VendorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ws, nil)
}

// Save godoc
// @Summary Save weekly schedule
// @Description Validates and persists the full seven-day template. Returns 422 with every violation when invalid.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body models.WeeklySchedule true "Weekly schedule"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /schedule [put]
func (h *WeeklyHandler) Save(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var ws models.WeeklySchedule
	if err := c.ShouldBindJSON(&ws); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}

	saved, violations, err := h.service.Save(c.Request.Context(), claims.VendorID, ws)
	if err != nil {
		if len(violations) > 0 {
			response.ErrorWithMeta(c, err, map[string]interface{}{"violations": violations})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, saved, nil)
}

// ToggleDay godoc
// @Summary Toggle a day on or off
// @Description Enabling an empty day seeds a default 11:00-14:00 slot.
// @Tags Schedule
// @Produce json
// @Param day path string true "Day name (monday..sunday)"
// @Success 200 {object} response.Envelope
// @Router /schedule/days/{day}/toggle [post]
func (h *WeeklyHandler) ToggleDay(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	ws, err := h.service.ToggleDay(c.Request.Context(), claims.VendorID, c.Param("day"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ws, nil)
}

// AddSlot godoc
// @Summary Append a slot to a day
// @Description The new slot starts one hour after the day's last slot and inherits its location.
// @Tags Schedule
// @Produce json
// @Param day path string true "Day name (monday..sunday)"
// @Success 200 {object} response.Envelope
// @Router /schedule/days/{day}/slots [post]
func (h *WeeklyHandler) AddSlot(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	ws, err := h.service.AddSlot(c.Request.Context(), claims.VendorID, c.Param("day"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ws, nil)
}

// Copy godoc
// @Summary Copy a day's slots to other days
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body models.CopyDayRequest true "Copy payload"
// @Success 200 {object} response.Envelope
// @Router /schedule/copy [post]
func (h *WeeklyHandler) Copy(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CopyDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid copy payload"))
		return
	}

	ws, err := h.service.Copy(c.Request.Context(), claims.VendorID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ws, nil)
}

// Clear godoc
// @Summary Clear the weekly schedule
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule [delete]
func (h *WeeklyHandler) Clear(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	ws, err := h.service.Clear(c.Request.Context(), claims.VendorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ws, nil)
}

// Summary godoc
// @Summary Summarise the weekly schedule
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/summary [get]
func (h *WeeklyHandler) Summary(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), claims.VendorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
