package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/streetfare/schedule-api/pkg/errors"
)

type exportServiceMock struct {
	csv []byte
	pdf []byte
	ics []byte
	err error
}

func (m *exportServiceMock) OccurrencesCSV(ctx context.Context, vendorID string) ([]byte, error) {
	return m.csv, m.err
}

func (m *exportServiceMock) OccurrencesPDF(ctx context.Context, vendorID string) ([]byte, error) {
	return m.pdf, m.err
}

func (m *exportServiceMock) CalendarICS(ctx context.Context, vendorID string) ([]byte, error) {
	return m.ics, m.err
}

func TestExportHandlerCSV(t *testing.T) {
	handler := NewExportHandler(&exportServiceMock{csv: []byte("Date,Pattern\n")})
	c, w := newTestContext(t, http.MethodGet, "/export/occurrences.csv", nil)
	authed(c)

	handler.OccurrencesCSV(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "occurrences.csv")
}

func TestExportHandlerPDF(t *testing.T) {
	handler := NewExportHandler(&exportServiceMock{pdf: []byte("%PDF-1.4")})
	c, w := newTestContext(t, http.MethodGet, "/export/occurrences.pdf", nil)
	authed(c)

	handler.OccurrencesPDF(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}

func TestExportHandlerICS(t *testing.T) {
	handler := NewExportHandler(&exportServiceMock{ics: []byte("BEGIN:VCALENDAR\nEND:VCALENDAR\n")})
	c, w := newTestContext(t, http.MethodGet, "/export/calendar.ics", nil)
	authed(c)

	handler.CalendarICS(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/calendar", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "BEGIN:VCALENDAR")
}

func TestExportHandlerUnauthenticated(t *testing.T) {
	handler := NewExportHandler(&exportServiceMock{})
	c, w := newTestContext(t, http.MethodGet, "/export/calendar.ics", nil)

	handler.CalendarICS(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExportHandlerServiceError(t *testing.T) {
	handler := NewExportHandler(&exportServiceMock{err: appErrors.ErrInternal})
	c, w := newTestContext(t, http.MethodGet, "/export/occurrences.csv", nil)
	authed(c)

	handler.OccurrencesCSV(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
