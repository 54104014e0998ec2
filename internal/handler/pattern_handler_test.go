package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streetfare/schedule-api/internal/models"
	appErrors "github.com/streetfare/schedule-api/pkg/errors"
	"github.com/streetfare/schedule-api/pkg/response"
)

type patternServiceMock struct {
	pattern     *models.MonthlyPattern
	patterns    []models.MonthlyPattern
	occurrences []models.Occurrence
	status      *models.PatternStatus
	conflicts   []time.Time
	err         error
}

func (m *patternServiceMock) List(ctx context.Context, filter models.PatternFilter) ([]models.MonthlyPattern, *models.Pagination, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.patterns, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: len(m.patterns)}, nil
}

func (m *patternServiceMock) Create(ctx context.Context, vendorID string, pattern models.MonthlyPattern) (*models.MonthlyPattern, []time.Time, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	pattern.ID = "p1"
	pattern.VendorID = vendorID
	return &pattern, m.conflicts, nil
}

func (m *patternServiceMock) Update(ctx context.Context, vendorID, id string, pattern models.MonthlyPattern) (*models.MonthlyPattern, []time.Time, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	pattern.ID = id
	return &pattern, m.conflicts, nil
}

func (m *patternServiceMock) Delete(ctx context.Context, vendorID, id string) error {
	return m.err
}

func (m *patternServiceMock) Toggle(ctx context.Context, vendorID, id string) (*models.MonthlyPattern, error) {
	return m.pattern, m.err
}

func (m *patternServiceMock) Extend(ctx context.Context, vendorID, id string, req models.ExtendRequest) (*models.MonthlyPattern, error) {
	return m.pattern, m.err
}

func (m *patternServiceMock) Duplicate(ctx context.Context, vendorID, id string) (*models.MonthlyPattern, error) {
	return m.pattern, m.err
}

func (m *patternServiceMock) Occurrences(ctx context.Context, vendorID, id string) ([]models.Occurrence, error) {
	return m.occurrences, m.err
}

func (m *patternServiceMock) Status(ctx context.Context, vendorID, id string) (*models.PatternStatus, error) {
	return m.status, m.err
}

func (m *patternServiceMock) Conflicts(ctx context.Context, vendorID string, candidate models.MonthlyPattern) ([]time.Time, error) {
	return m.conflicts, m.err
}

func (m *patternServiceMock) Templates() []models.PatternTemplate {
	return models.PatternTemplates()
}

func TestPatternHandlerList(t *testing.T) {
	mock := &patternServiceMock{patterns: []models.MonthlyPattern{{ID: "p1", VendorID: "v1", Name: "Mid-month"}}}
	handler := NewPatternHandler(mock)
	c, w := newTestContext(t, http.MethodGet, "/patterns?page=1&page_size=10", nil)
	authed(c)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 1, envelope.Pagination.TotalCount)
}

func TestPatternHandlerListRejectsBadActiveFlag(t *testing.T) {
	handler := NewPatternHandler(&patternServiceMock{})
	c, w := newTestContext(t, http.MethodGet, "/patterns?active=banana", nil)
	authed(c)

	handler.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatternHandlerCreate(t *testing.T) {
	handler := NewPatternHandler(&patternServiceMock{})
	body, _ := json.Marshal(models.MonthlyPattern{Type: models.PatternSpecific, DayOfMonth: 15, DurationMonths: 3})
	c, w := newTestContext(t, http.MethodPost, "/patterns", body)
	authed(c)

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Meta)
}

func TestPatternHandlerCreateReportsConflictsInMeta(t *testing.T) {
	conflictDay := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	handler := NewPatternHandler(&patternServiceMock{conflicts: []time.Time{conflictDay}})
	body, _ := json.Marshal(models.MonthlyPattern{Type: models.PatternSpecific, DayOfMonth: 15, DurationMonths: 3})
	c, w := newTestContext(t, http.MethodPost, "/patterns", body)
	authed(c)

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code, "conflicts are advisory and never block")

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Contains(t, envelope.Meta, "conflicts")
	conflicts := envelope.Meta["conflicts"].([]interface{})
	assert.Equal(t, "2025-03-15", conflicts[0])
}

func TestPatternHandlerCreateIncompleteRule(t *testing.T) {
	handler := NewPatternHandler(&patternServiceMock{err: appErrors.ErrIncompleteRule})
	body, _ := json.Marshal(models.MonthlyPattern{Type: models.PatternRelative})
	c, w := newTestContext(t, http.MethodPost, "/patterns", body)
	authed(c)

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatternHandlerDelete(t *testing.T) {
	handler := NewPatternHandler(&patternServiceMock{})
	c, w := newTestContext(t, http.MethodDelete, "/patterns/p1", nil)
	c.Params = gin.Params{{Key: "id", Value: "p1"}}
	authed(c)

	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestPatternHandlerDeleteNotFound(t *testing.T) {
	handler := NewPatternHandler(&patternServiceMock{err: appErrors.ErrNotFound})
	c, w := newTestContext(t, http.MethodDelete, "/patterns/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	authed(c)

	handler.Delete(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPatternHandlerStatus(t *testing.T) {
	next := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	handler := NewPatternHandler(&patternServiceMock{status: &models.PatternStatus{IsActive: true, TotalMonths: 6, MonthsCompleted: 2, MonthsRemaining: 4, ProgressPercentage: 33, NextOccurrence: &next}})
	c, w := newTestContext(t, http.MethodGet, "/patterns/p1/status", nil)
	c.Params = gin.Params{{Key: "id", Value: "p1"}}
	authed(c)

	handler.Status(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"progress_percentage":33`)
}

func TestPatternHandlerConflicts(t *testing.T) {
	conflictDay := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	handler := NewPatternHandler(&patternServiceMock{conflicts: []time.Time{conflictDay}})
	body, _ := json.Marshal(models.MonthlyPattern{Type: models.PatternSpecific, DayOfMonth: 1, DurationMonths: 3})
	c, w := newTestContext(t, http.MethodPost, "/patterns/conflicts", body)
	authed(c)

	handler.Conflicts(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2025-04-01")
}

func TestPatternHandlerTemplates(t *testing.T) {
	handler := NewPatternHandler(&patternServiceMock{})
	c, w := newTestContext(t, http.MethodGet, "/patterns/templates", nil)
	authed(c)

	handler.Templates(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "First Friday of Month")
}

func TestPatternHandlerUnauthenticated(t *testing.T) {
	handler := NewPatternHandler(&patternServiceMock{})
	c, w := newTestContext(t, http.MethodGet, "/patterns", nil)

	handler.List(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
