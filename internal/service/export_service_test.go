package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/streetfare/schedule-api/internal/models"
)

type mockExportPatterns struct {
	patterns []models.MonthlyPattern
}

func (m *mockExportPatterns) ListActiveByVendor(ctx context.Context, vendorID string) ([]models.MonthlyPattern, error) {
	return m.patterns, nil
}

type mockExportWeekly struct {
	schedule *models.WeeklySchedule
}

func (m *mockExportWeekly) Get(ctx context.Context, vendorID string) (*models.WeeklySchedule, error) {
	if m.schedule == nil {
		return nil, sql.ErrNoRows
	}
	return m.schedule, nil
}

func newExportService(patterns []models.MonthlyPattern, weekly *models.WeeklySchedule) *ExportService {
	return NewExportService(
		&mockExportPatterns{patterns: patterns},
		&mockExportWeekly{schedule: weekly},
		zap.NewNop(),
		ExportOptions{FeedName: "Taco Cart", HorizonWeeks: 26},
		fixedNow,
	)
}

func upcomingFixture() models.MonthlyPattern {
	return *monthlyFixture("p1", "v1", 15)
}

func TestExportOccurrencesCSV(t *testing.T) {
	svc := newExportService([]models.MonthlyPattern{upcomingFixture()}, nil)

	payload, err := svc.OccurrencesCSV(context.Background(), "v1")
	require.NoError(t, err)

	out := string(payload)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "Date,Pattern,Start,End,Location", lines[0])
	// Past occurrences (January, February) are excluded.
	assert.NotContains(t, out, "2025-01-15")
	assert.Contains(t, out, "2025-03-15,Pattern p1,11:00,14:00,Depot")
	assert.Contains(t, out, "2025-06-15")
}

func TestExportOccurrencesCSVRespectsHorizon(t *testing.T) {
	svc := NewExportService(
		&mockExportPatterns{patterns: []models.MonthlyPattern{upcomingFixture()}},
		&mockExportWeekly{},
		zap.NewNop(),
		ExportOptions{HorizonWeeks: 4},
		fixedNow,
	)

	payload, err := svc.OccurrencesCSV(context.Background(), "v1")
	require.NoError(t, err)
	out := string(payload)
	assert.Contains(t, out, "2025-03-15")
	assert.NotContains(t, out, "2025-05-15")
}

func TestExportOccurrencesPDF(t *testing.T) {
	svc := newExportService([]models.MonthlyPattern{upcomingFixture()}, nil)

	payload, err := svc.OccurrencesPDF(context.Background(), "v1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestExportCalendarICSWeeklyRecurrence(t *testing.T) {
	ws := mondaySchedule(models.TimeSlot{ID: "s1", StartTime: "11:00", EndTime: "14:00", Location: "Market Square"})
	svc := newExportService(nil, &ws)

	payload, err := svc.CalendarICS(context.Background(), "v1")
	require.NoError(t, err)

	out := string(payload)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "BEGIN:VEVENT")
	assert.Contains(t, out, "FREQ=WEEKLY;BYDAY=MO")
	assert.Contains(t, out, "Market Square")
}

func TestExportCalendarICSMonthlyOccurrences(t *testing.T) {
	svc := newExportService([]models.MonthlyPattern{upcomingFixture()}, nil)

	payload, err := svc.CalendarICS(context.Background(), "v1")
	require.NoError(t, err)

	out := string(payload)
	assert.Contains(t, out, "BEGIN:VEVENT")
	assert.Contains(t, out, "Pattern p1")
	assert.NotContains(t, out, "RRULE", "monthly occurrences are emitted as single events")
}

func TestExportCalendarICSEmptyVendor(t *testing.T) {
	svc := newExportService(nil, nil)

	payload, err := svc.CalendarICS(context.Background(), "v1")
	require.NoError(t, err)
	assert.Contains(t, string(payload), "BEGIN:VCALENDAR")
	assert.NotContains(t, string(payload), "BEGIN:VEVENT")
}

func TestExportSkipsDisabledWeeklySchedule(t *testing.T) {
	ws := mondaySchedule(models.TimeSlot{ID: "s1", StartTime: "11:00", EndTime: "14:00", Location: "Market Square"})
	ws.Enabled = false
	svc := newExportService(nil, &ws)

	payload, err := svc.CalendarICS(context.Background(), "v1")
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "BEGIN:VEVENT")
}

func TestNextWeekday(t *testing.T) {
	// 2025-03-10 is a Monday.
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 10, nextWeekday(now, time.Monday).Day())
	assert.Equal(t, 11, nextWeekday(now, time.Tuesday).Day())
	assert.Equal(t, 16, nextWeekday(now, time.Sunday).Day())
}
