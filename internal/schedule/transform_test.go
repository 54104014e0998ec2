package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streetfare/schedule-api/internal/models"
)

func TestToggleDaySeedsDefaultSlot(t *testing.T) {
	ws := models.EmptyWeeklySchedule()

	ws = ToggleDay(ws, models.Monday)
	day := ws.Days[models.Monday]
	assert.True(t, day.Enabled)
	require.Len(t, day.TimeSlots, 1)
	assert.Equal(t, "11:00", day.TimeSlots[0].StartTime)
	assert.Equal(t, "14:00", day.TimeSlots[0].EndTime)
	assert.NotEmpty(t, day.TimeSlots[0].ID)
}

func TestToggleDayOffClearsSlots(t *testing.T) {
	ws := models.EmptyWeeklySchedule()
	ws = ToggleDay(ws, models.Monday)
	ws = ToggleDay(ws, models.Monday)

	day := ws.Days[models.Monday]
	assert.False(t, day.Enabled)
	assert.Empty(t, day.TimeSlots)
}

func TestNextSlotAfterChainsFromLastSlot(t *testing.T) {
	slots := []models.TimeSlot{
		{ID: "s1", StartTime: "11:00", EndTime: "14:00", Location: "Market Sq", Coordinates: &models.Coordinates{Lat: 59.9, Lon: 10.7}},
	}

	slot := NextSlotAfter(slots)
	assert.Equal(t, "15:00", slot.StartTime)
	assert.Equal(t, "18:00", slot.EndTime)
	assert.Equal(t, "Market Sq", slot.Location)
	require.NotNil(t, slot.Coordinates)
	assert.NotEmpty(t, slot.ID)
}

func TestNextSlotAfterEmptyDayUsesEveningDefault(t *testing.T) {
	slot := NextSlotAfter(nil)
	assert.Equal(t, "17:00", slot.StartTime)
	assert.Equal(t, "20:00", slot.EndTime)
}

func TestNextSlotAfterClampsToMidnight(t *testing.T) {
	slots := []models.TimeSlot{{ID: "s1", StartTime: "19:00", EndTime: "22:00", Location: "Docks"}}

	slot := NextSlotAfter(slots)
	assert.Equal(t, "22:00", slot.StartTime)
	assert.Equal(t, "23:00", slot.EndTime)
}

func TestCopyDayDeepCopiesWithFreshIDs(t *testing.T) {
	ws := models.EmptyWeeklySchedule()
	ws.Days[models.Monday] = models.DaySchedule{
		Enabled: true,
		TimeSlots: []models.TimeSlot{
			{ID: "src", StartTime: "11:00", EndTime: "14:00", Location: "Market Sq", Coordinates: &models.Coordinates{Lat: 59.9, Lon: 10.7}},
		},
	}

	ws = CopyDay(ws, models.Monday, []models.Weekday{models.Tuesday, models.Wednesday})

	for _, target := range []models.Weekday{models.Tuesday, models.Wednesday} {
		day := ws.Days[target]
		assert.True(t, day.Enabled)
		require.Len(t, day.TimeSlots, 1)
		assert.NotEqual(t, "src", day.TimeSlots[0].ID)
		assert.Equal(t, "Market Sq", day.TimeSlots[0].Location)
	}

	// Mutating the copy must not leak into the source day.
	ws.Days[models.Tuesday].TimeSlots[0].Coordinates.Lat = 0
	assert.Equal(t, 59.9, ws.Days[models.Monday].TimeSlots[0].Coordinates.Lat)
}

func TestCopyDayExcludesSourceDay(t *testing.T) {
	ws := models.EmptyWeeklySchedule()
	ws.Days[models.Monday] = models.DaySchedule{
		Enabled:   true,
		TimeSlots: []models.TimeSlot{{ID: "src", StartTime: "11:00", EndTime: "14:00", Location: "Market Sq"}},
	}

	ws = CopyDay(ws, models.Monday, PresetAllDays())
	assert.Equal(t, "src", ws.Days[models.Monday].TimeSlots[0].ID)
}

func TestCopyDayNoOpForDisabledOrEmptySource(t *testing.T) {
	ws := models.EmptyWeeklySchedule()
	got := CopyDay(ws, models.Monday, []models.Weekday{models.Tuesday})
	assert.Equal(t, ws, got)

	ws.Days[models.Monday] = models.DaySchedule{Enabled: true}
	got = CopyDay(ws, models.Monday, []models.Weekday{models.Tuesday})
	assert.False(t, got.Days[models.Tuesday].Enabled)
}

func TestPresets(t *testing.T) {
	assert.Equal(t, []models.Weekday{models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday}, PresetWeekdays())
	assert.Equal(t, []models.Weekday{models.Saturday, models.Sunday}, PresetWeekend())
	assert.Len(t, PresetAllDays(), 7)
}

func TestClearAll(t *testing.T) {
	ws := models.EmptyWeeklySchedule()
	ws = ToggleDay(ws, models.Friday)
	ws = DeriveEnabled(ws)
	require.True(t, ws.Enabled)

	ws = ClearAll(ws)
	assert.False(t, ws.Enabled)
	assert.True(t, ws.RepeatWeekly)
	for _, day := range ws.Days {
		assert.False(t, day.Enabled)
		assert.Empty(t, day.TimeSlots)
	}
}

func TestDeriveEnabled(t *testing.T) {
	ws := models.EmptyWeeklySchedule()
	ws.Enabled = true
	ws = DeriveEnabled(ws)
	assert.False(t, ws.Enabled, "no enabled day means a disabled schedule")

	ws = ToggleDay(ws, models.Saturday)
	ws = DeriveEnabled(ws)
	assert.True(t, ws.Enabled)
}

func TestSummarize(t *testing.T) {
	ws := models.EmptyWeeklySchedule()
	ws.Days[models.Monday] = models.DaySchedule{
		Enabled: true,
		TimeSlots: []models.TimeSlot{
			{ID: "s1", StartTime: "11:00", EndTime: "14:00", Location: "Market Sq"},
			{ID: "s2", StartTime: "17:00", EndTime: "20:00", Location: "Docks"},
		},
	}
	ws.Days[models.Saturday] = models.DaySchedule{
		Enabled:   true,
		TimeSlots: []models.TimeSlot{{ID: "s3", StartTime: "10:00", EndTime: "15:00", Location: "Park"}},
	}
	ws = DeriveEnabled(ws)

	summary := Summarize(ws)
	assert.Equal(t, 2, summary.ActiveDays)
	assert.Equal(t, 3, summary.TotalLocations)
	assert.Equal(t, []string{"Mon", "Sat"}, summary.ActiveDayNames)
}

func TestSummarizeDisabledScheduleIsZero(t *testing.T) {
	ws := models.EmptyWeeklySchedule()
	ws.Days[models.Monday] = models.DaySchedule{
		Enabled:   true,
		TimeSlots: []models.TimeSlot{{ID: "s1", StartTime: "11:00", EndTime: "14:00", Location: "Market Sq"}},
	}
	// Enabled not derived: the schedule-level flag wins.
	summary := Summarize(ws)
	assert.Equal(t, models.WeeklySummary{ActiveDayNames: []string{}}, summary)
}
