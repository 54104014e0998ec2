package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streetfare/schedule-api/internal/models"
)

func TestExpandFirstMondayScenario(t *testing.T) {
	p := relativePattern(models.WeekFirst, "monday", dateOf(2025, time.January, 1), 3)

	dates := Expand(p)
	require.Len(t, dates, 3)
	assert.Equal(t, time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC), dates[1])
	assert.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), dates[2])
}

func TestExpandLastDaySentinelScenario(t *testing.T) {
	p := specificPattern(models.LastDayOfMonth, dateOf(2025, time.January, 1), 2)

	dates := Expand(p)
	require.Len(t, dates, 2)
	assert.Equal(t, time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), dates[1])
}

func TestExpandSkipsIncompleteRule(t *testing.T) {
	p := models.MonthlyPattern{
		Type:           models.PatternRelative,
		StartDate:      dateOf(2025, time.January, 1),
		DurationMonths: 4,
	}
	assert.Empty(t, Expand(p))

	draft := specificPattern(15, nil, 4)
	assert.Empty(t, Expand(draft))
}

func TestStatusActiveMidWindow(t *testing.T) {
	p := specificPattern(15, dateOf(2025, time.January, 1), 6)
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	st := Status(p, now)
	assert.True(t, st.IsActive)
	assert.False(t, st.IsExpired)
	assert.Equal(t, 6, st.TotalMonths)
	assert.Equal(t, 2, st.MonthsCompleted)
	assert.Equal(t, 4, st.MonthsRemaining)
	assert.Equal(t, 33, st.ProgressPercentage)
	require.NotNil(t, st.NextOccurrence)
	assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), *st.NextOccurrence)
}

func TestStatusExpired(t *testing.T) {
	p := specificPattern(15, dateOf(2024, time.January, 1), 3)
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	st := Status(p, now)
	assert.True(t, st.IsExpired)
	assert.False(t, st.IsActive)
	assert.Equal(t, 3, st.MonthsCompleted)
	assert.Equal(t, 0, st.MonthsRemaining)
	assert.Equal(t, 100, st.ProgressPercentage)
	assert.Nil(t, st.NextOccurrence, "a fully past pattern has no next occurrence")
}

func TestStatusBeforeStart(t *testing.T) {
	p := specificPattern(15, dateOf(2025, time.June, 1), 3)
	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	st := Status(p, now)
	assert.False(t, st.IsActive)
	assert.False(t, st.IsExpired)
	assert.Equal(t, 0, st.MonthsCompleted)
	assert.Equal(t, 3, st.MonthsRemaining)
	require.NotNil(t, st.NextOccurrence)
	assert.Equal(t, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), *st.NextOccurrence)
}

func TestStatusDraftPattern(t *testing.T) {
	st := Status(specificPattern(15, nil, 3), time.Now())
	assert.False(t, st.IsActive)
	assert.False(t, st.IsExpired)
	assert.Nil(t, st.NextOccurrence)
}

func TestFindConflictsSharedDate(t *testing.T) {
	// First Monday of March 2025 is the 3rd; a specific day-3 pattern
	// collides with it.
	candidate := relativePattern(models.WeekFirst, "monday", dateOf(2025, time.March, 1), 1)
	other := specificPattern(3, dateOf(2025, time.March, 1), 1)
	other.ID = "p-other"
	other.Active = true

	conflicts := FindConflicts(candidate, []models.MonthlyPattern{other})
	require.Len(t, conflicts, 1)
	assert.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), conflicts[0])
}

func TestFindConflictsExcludesSelfAndInactive(t *testing.T) {
	p := specificPattern(10, dateOf(2025, time.January, 1), 3)
	p.Active = true

	// The same pattern id is never compared against itself.
	assert.Empty(t, FindConflicts(p, []models.MonthlyPattern{p}))

	inactive := specificPattern(10, dateOf(2025, time.January, 1), 3)
	inactive.ID = "p-inactive"
	inactive.Active = false
	assert.Empty(t, FindConflicts(p, []models.MonthlyPattern{inactive}))
}

func TestFindConflictsDeduplicatesAcrossPatterns(t *testing.T) {
	candidate := specificPattern(5, dateOf(2025, time.January, 1), 2)

	a := specificPattern(5, dateOf(2025, time.January, 1), 2)
	a.ID = "p-a"
	a.Active = true
	b := specificPattern(5, dateOf(2025, time.January, 1), 1)
	b.ID = "p-b"
	b.Active = true

	conflicts := FindConflicts(candidate, []models.MonthlyPattern{a, b})
	require.Len(t, conflicts, 2)
	assert.Equal(t, time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), conflicts[0])
	assert.Equal(t, time.Date(2025, time.February, 5, 0, 0, 0, 0, time.UTC), conflicts[1])
}

func TestExtendDoesNotMutateInput(t *testing.T) {
	p := specificPattern(15, dateOf(2025, time.January, 1), 3)
	p.TimeSlots = models.TimeSlotList{{ID: "s1", StartTime: "09:00", EndTime: "17:00", Location: "Pier"}}

	extended := Extend(p, 3)
	assert.Equal(t, 6, extended.DurationMonths)
	assert.Equal(t, 3, p.DurationMonths)

	extended.TimeSlots[0].Location = "Elsewhere"
	assert.Equal(t, "Pier", p.TimeSlots[0].Location)
}

func TestDuplicateResetsIdentityAndStartDate(t *testing.T) {
	now := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	p := specificPattern(15, dateOf(2025, time.January, 1), 3)
	p.Name = "Mid-Month"
	p.Active = false
	p.TimeSlots = models.TimeSlotList{
		{ID: "s1", StartTime: "09:00", EndTime: "17:00", Location: "Pier", Coordinates: &models.Coordinates{Lat: 59.9, Lon: 10.7}},
	}

	dup := Duplicate(p, now)
	assert.NotEqual(t, p.ID, dup.ID)
	assert.Equal(t, "Mid-Month (Copy)", dup.Name)
	assert.Nil(t, dup.StartDate)
	assert.True(t, dup.Active)
	assert.Equal(t, now, dup.CreatedAt)

	require.Len(t, dup.TimeSlots, 1)
	assert.NotEqual(t, p.TimeSlots[0].ID, dup.TimeSlots[0].ID)
	require.NotNil(t, dup.TimeSlots[0].Coordinates)
	dup.TimeSlots[0].Coordinates.Lat = 0
	assert.Equal(t, 59.9, p.TimeSlots[0].Coordinates.Lat, "coordinates are deep copied")
}
