package schedule

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/streetfare/schedule-api/internal/models"
)

// Slot seeded when a day is switched on with no slots of its own.
const (
	defaultSlotStart = "11:00"
	defaultSlotEnd   = "14:00"
)

// ToggleDay flips a day's enablement. Enabling a day with no slots seeds
// a default lunch slot so the day is immediately valid to edit; disabling
// clears its slots.
func ToggleDay(ws models.WeeklySchedule, day models.Weekday) models.WeeklySchedule {
	current := ws.Days[day]
	willEnable := !current.Enabled

	updated := models.DaySchedule{Enabled: willEnable}
	if willEnable {
		if len(current.TimeSlots) > 0 {
			updated.TimeSlots = append([]models.TimeSlot{}, current.TimeSlots...)
		} else {
			updated.TimeSlots = []models.TimeSlot{{
				ID:        uuid.NewString(),
				StartTime: defaultSlotStart,
				EndTime:   defaultSlotEnd,
			}}
		}
	} else {
		updated.TimeSlots = []models.TimeSlot{}
	}

	ws.Days[day] = updated
	return ws
}

// NextSlotAfter builds a new slot chained one hour after the last slot's
// end, inheriting its location, or an evening default for an empty day.
func NextSlotAfter(slots []models.TimeSlot) models.TimeSlot {
	slot := models.TimeSlot{
		ID:        uuid.NewString(),
		StartTime: "17:00",
		EndTime:   "20:00",
	}
	if len(slots) == 0 {
		return slot
	}

	last := slots[len(slots)-1]
	slot.Location = last.Location
	if last.Coordinates != nil {
		coords := *last.Coordinates
		slot.Coordinates = &coords
	}

	endMin, err := ParseClock(last.EndTime)
	if err != nil {
		return slot
	}
	startHour := endMin/60 + 1
	endHour := startHour + 3
	if endHour > 23 {
		endHour = 23
	}
	if startHour > 22 {
		startHour = 22
	}
	slot.StartTime = fmt.Sprintf("%02d:00", startHour)
	slot.EndTime = fmt.Sprintf("%02d:00", endHour)
	return slot
}

// CopyDay overwrites each target day with an enabled deep copy of the
// source day's slots under fresh ids. The source day itself is never a
// target. No-op when the source day is disabled or has no slots.
func CopyDay(ws models.WeeklySchedule, from models.Weekday, to []models.Weekday) models.WeeklySchedule {
	source := ws.Days[from]
	if !source.Enabled || len(source.TimeSlots) == 0 {
		return ws
	}

	for _, day := range to {
		if day == from {
			continue
		}
		copied := make([]models.TimeSlot, len(source.TimeSlots))
		for i, slot := range source.TimeSlots {
			dup := slot
			dup.ID = uuid.NewString()
			if slot.Coordinates != nil {
				coords := *slot.Coordinates
				dup.Coordinates = &coords
			}
			copied[i] = dup
		}
		ws.Days[day] = models.DaySchedule{Enabled: true, TimeSlots: copied}
	}
	return ws
}

// PresetWeekdays returns Monday through Friday.
func PresetWeekdays() []models.Weekday {
	return []models.Weekday{models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday}
}

// PresetWeekend returns Saturday and Sunday.
func PresetWeekend() []models.Weekday {
	return []models.Weekday{models.Saturday, models.Sunday}
}

// PresetAllDays returns every day of the week.
func PresetAllDays() []models.Weekday {
	return models.AllWeekdays()
}

// ClearAll resets every day to disabled with no slots.
func ClearAll(ws models.WeeklySchedule) models.WeeklySchedule {
	cleared := models.EmptyWeeklySchedule()
	cleared.RepeatWeekly = ws.RepeatWeekly
	return cleared
}

// DeriveEnabled recomputes the schedule-level Enabled flag as "any day
// enabled". The flag is derived at save time, never set directly.
func DeriveEnabled(ws models.WeeklySchedule) models.WeeklySchedule {
	ws.Enabled = false
	for _, day := range ws.Days {
		if day.Enabled {
			ws.Enabled = true
			break
		}
	}
	return ws
}

// Summarize aggregates active day and slot counts for display. A disabled
// schedule summarises to zeroes.
func Summarize(ws models.WeeklySchedule) models.WeeklySummary {
	summary := models.WeeklySummary{ActiveDayNames: []string{}}
	if !ws.Enabled {
		return summary
	}
	for _, day := range models.AllWeekdays() {
		ds := ws.Days[day]
		if !ds.Enabled {
			continue
		}
		summary.ActiveDays++
		summary.TotalLocations += len(ds.TimeSlots)
		summary.ActiveDayNames = append(summary.ActiveDayNames, day.Short())
	}
	return summary
}
