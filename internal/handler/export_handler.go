package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/streetfare/schedule-api/pkg/errors"
	"github.com/streetfare/schedule-api/pkg/response"
)

type exportService interface {
	OccurrencesCSV(ctx context.Context, vendorID string) ([]byte, error)
	OccurrencesPDF(ctx context.Context, vendorID string) ([]byte, error)
	CalendarICS(ctx context.Context, vendorID string) ([]byte, error)
}

// ExportHandler serves downloadable schedule feeds.
type ExportHandler struct {
	service exportService
}

// NewExportHandler builds a new handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// OccurrencesCSV godoc
// @Summary Download upcoming occurrences as CSV
// @Tags Export
// @Produce text/csv
// @Success 200 {file} file
// @Router /export/occurrences.csv [get]
func (h *ExportHandler) OccurrencesCSV(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	payload, err := h.service.OccurrencesCSV(c.Request.Context(), claims.VendorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="occurrences.csv"`)
	c.Data(http.StatusOK, "text/csv", payload)
}

// OccurrencesPDF godoc
// @Summary Download upcoming occurrences as PDF
// @Tags Export
// @Produce application/pdf
// @Success 200 {file} file
// @Router /export/occurrences.pdf [get]
func (h *ExportHandler) OccurrencesPDF(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	payload, err := h.service.OccurrencesPDF(c.Request.Context(), claims.VendorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="occurrences.pdf"`)
	c.Data(http.StatusOK, "application/pdf", payload)
}

// CalendarICS godoc
// @Summary Download the iCalendar feed
// @Description Weekly slots are emitted as recurring events, monthly occurrences as single events.
// @Tags Export
// @Produce text/calendar
// @Success 200 {file} file
// @Router /export/calendar.ics [get]
func (h *ExportHandler) CalendarICS(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	payload, err := h.service.CalendarICS(c.Request.Context(), claims.VendorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="calendar.ics"`)
	c.Data(http.StatusOK, "text/calendar", payload)
}
