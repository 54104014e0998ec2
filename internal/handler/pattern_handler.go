package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/streetfare/schedule-api/internal/models"
	appErrors "github.com/streetfare/schedule-api/pkg/errors"
	"github.com/streetfare/schedule-api/pkg/response"
)

type patternService interface {
	List(ctx context.Context, filter models.PatternFilter) ([]models.MonthlyPattern, *models.Pagination, error)
	Create(ctx context.Context, vendorID string, pattern models.MonthlyPattern) (*models.MonthlyPattern, []time.Time, error)
	Update(ctx context.Context, vendorID, id string, pattern models.MonthlyPattern) (*models.MonthlyPattern, []time.Time, error)
	Delete(ctx context.Context, vendorID, id string) error
	Toggle(ctx context.Context, vendorID, id string) (*models.MonthlyPattern, error)
	Extend(ctx context.Context, vendorID, id string, req models.ExtendRequest) (*models.MonthlyPattern, error)
	Duplicate(ctx context.Context, vendorID, id string) (*models.MonthlyPattern, error)
	Occurrences(ctx context.Context, vendorID, id string) ([]models.Occurrence, error)
	Status(ctx context.Context, vendorID, id string) (*models.PatternStatus, error)
	Conflicts(ctx context.Context, vendorID string, candidate models.MonthlyPattern) ([]time.Time, error)
	Templates() []models.PatternTemplate
}

// PatternHandler exposes the monthly pattern endpoints.
type PatternHandler struct {
	service patternService
}

// NewPatternHandler builds a new handler.
func NewPatternHandler(service patternService) *PatternHandler {
	return &PatternHandler{service: service}
}

// List godoc
// @Summary List monthly patterns
// @Tags Patterns
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param active query bool false "Filter by active flag"
// @Param type query string false "Filter by pattern type"
// @Success 200 {object} response.Envelope
// @Router /patterns [get]
func (h *PatternHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.PatternFilter{VendorID: claims.VendorID}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "active must be a boolean"))
			return
		}
		filter.Active = &active
	}
	filter.Type = models.PatternType(c.Query("type"))

	patterns, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, patterns, pagination)
}

// Create godoc
// @Summary Create a monthly pattern
// @Description Conflicts with existing active patterns are reported in meta but never block creation.
// @Tags Patterns
// @Accept json
// @Produce json
// @Param payload body models.MonthlyPattern true "Pattern payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /patterns [post]
func (h *PatternHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var pattern models.MonthlyPattern
	if err := c.ShouldBindJSON(&pattern); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pattern payload"))
		return
	}

	created, conflicts, err := h.service.Create(c.Request.Context(), claims.VendorID, pattern)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, created, nil, conflictMeta(conflicts))
}

// Update godoc
// @Summary Update a monthly pattern
// @Tags Patterns
// @Accept json
// @Produce json
// @Param id path string true "Pattern id"
// @Param payload body models.MonthlyPattern true "Pattern payload"
// @Success 200 {object} response.Envelope
// @Router /patterns/{id} [put]
func (h *PatternHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var pattern models.MonthlyPattern
	if err := c.ShouldBindJSON(&pattern); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pattern payload"))
		return
	}

	updated, conflicts, err := h.service.Update(c.Request.Context(), claims.VendorID, c.Param("id"), pattern)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil, conflictMeta(conflicts))
}

// Delete godoc
// @Summary Delete a monthly pattern
// @Tags Patterns
// @Param id path string true "Pattern id"
// @Success 204
// @Router /patterns/{id} [delete]
func (h *PatternHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims.VendorID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Toggle godoc
// @Summary Toggle a pattern's active flag
// @Tags Patterns
// @Produce json
// @Param id path string true "Pattern id"
// @Success 200 {object} response.Envelope
// @Router /patterns/{id}/toggle [post]
func (h *PatternHandler) Toggle(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	pattern, err := h.service.Toggle(c.Request.Context(), claims.VendorID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pattern, nil)
}

// Extend godoc
// @Summary Extend a pattern's duration
// @Tags Patterns
// @Accept json
// @Produce json
// @Param id path string true "Pattern id"
// @Param payload body models.ExtendRequest true "Extension payload"
// @Success 200 {object} response.Envelope
// @Router /patterns/{id}/extend [post]
func (h *PatternHandler) Extend(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.ExtendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid extend payload"))
		return
	}

	pattern, err := h.service.Extend(c.Request.Context(), claims.VendorID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pattern, nil)
}

// Duplicate godoc
// @Summary Duplicate a pattern
// @Description The copy gets a fresh identity and no start date, ready to schedule.
// @Tags Patterns
// @Produce json
// @Param id path string true "Pattern id"
// @Success 201 {object} response.Envelope
// @Router /patterns/{id}/duplicate [post]
func (h *PatternHandler) Duplicate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	pattern, err := h.service.Duplicate(c.Request.Context(), claims.VendorID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pattern)
}

// Occurrences godoc
// @Summary Expand a pattern into its dates
// @Tags Patterns
// @Produce json
// @Param id path string true "Pattern id"
// @Success 200 {object} response.Envelope
// @Router /patterns/{id}/occurrences [get]
func (h *PatternHandler) Occurrences(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	occurrences, err := h.service.Occurrences(c.Request.Context(), claims.VendorID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, occurrences, nil)
}

// Status godoc
// @Summary Compute a pattern's lifecycle status
// @Tags Patterns
// @Produce json
// @Param id path string true "Pattern id"
// @Success 200 {object} response.Envelope
// @Router /patterns/{id}/status [get]
func (h *PatternHandler) Status(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	status, err := h.service.Status(c.Request.Context(), claims.VendorID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Conflicts godoc
// @Summary Check a candidate pattern for conflicts
// @Description Advisory only. Lists calendar days the candidate shares with active patterns.
// @Tags Patterns
// @Accept json
// @Produce json
// @Param payload body models.MonthlyPattern true "Candidate pattern"
// @Success 200 {object} response.Envelope
// @Router /patterns/conflicts [post]
func (h *PatternHandler) Conflicts(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var candidate models.MonthlyPattern
	if err := c.ShouldBindJSON(&candidate); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pattern payload"))
		return
	}

	conflicts, err := h.service.Conflicts(c.Request.Context(), claims.VendorID, candidate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflictDates(conflicts), nil)
}

// Templates godoc
// @Summary List starter pattern templates
// @Tags Patterns
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /patterns/templates [get]
func (h *PatternHandler) Templates(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Templates(), nil)
}

func conflictDates(conflicts []time.Time) []string {
	dates := make([]string, 0, len(conflicts))
	for _, day := range conflicts {
		dates = append(dates, day.Format("2006-01-02"))
	}
	return dates
}

func conflictMeta(conflicts []time.Time) map[string]interface{} {
	if len(conflicts) == 0 {
		return nil
	}
	return map[string]interface{}{"conflicts": conflictDates(conflicts)}
}
