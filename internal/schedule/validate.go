package schedule

import (
	"fmt"

	"github.com/streetfare/schedule-api/internal/models"
)

// MinSlotMinutes is the minimum duration of a weekly time slot.
const MinSlotMinutes = 60

// Validate checks every enabled day of a weekly schedule and returns all
// violations found. It never stops at the first failure, so a caller can
// render every error simultaneously. Disabled days are not checked.
func Validate(ws models.WeeklySchedule) []models.ValidationError {
	var errs []models.ValidationError

	for _, day := range models.AllWeekdays() {
		ds := ws.Days[day]
		if !ds.Enabled {
			continue
		}

		if len(ds.TimeSlots) == 0 {
			errs = append(errs, models.ValidationError{
				Day:     day.String(),
				Code:    models.CodeEmptyEnabledDay,
				Message: fmt.Sprintf("%s is enabled but has no time slots", day),
			})
			continue
		}

		for _, slot := range ds.TimeSlots {
			errs = append(errs, validateSlot(day, slot)...)
		}

		// Overlap is flagged once per day, not once per pair.
		if dayHasOverlap(ds.TimeSlots) {
			errs = append(errs, models.ValidationError{
				Day:     day.String(),
				Code:    models.CodeOverlappingSlots,
				Message: fmt.Sprintf("%s has overlapping time slots", day),
			})
		}
	}

	return errs
}

func validateSlot(day models.Weekday, slot models.TimeSlot) []models.ValidationError {
	var errs []models.ValidationError

	if slot.Location == "" {
		errs = append(errs, models.ValidationError{
			Day:     day.String(),
			SlotID:  slot.ID,
			Code:    models.CodeMissingLocation,
			Message: "location is required",
		})
	}

	if slot.StartTime == "" || slot.EndTime == "" {
		errs = append(errs, models.ValidationError{
			Day:     day.String(),
			SlotID:  slot.ID,
			Code:    models.CodeMissingTime,
			Message: "start and end times are required",
		})
		return errs
	}

	start, startErr := ParseClock(slot.StartTime)
	end, endErr := ParseClock(slot.EndTime)
	if startErr != nil || endErr != nil {
		bad := slot.StartTime
		if startErr == nil {
			bad = slot.EndTime
		}
		errs = append(errs, models.ValidationError{
			Day:     day.String(),
			SlotID:  slot.ID,
			Code:    models.CodeInvalidFormat,
			Message: fmt.Sprintf("time %q is not a valid HH:MM value", bad),
		})
		return errs
	}

	if end <= start {
		errs = append(errs, models.ValidationError{
			Day:     day.String(),
			SlotID:  slot.ID,
			Code:    models.CodeEndBeforeStart,
			Message: "end time must be after start time",
		})
	}
	if end-start < MinSlotMinutes {
		errs = append(errs, models.ValidationError{
			Day:     day.String(),
			SlotID:  slot.ID,
			Code:    models.CodeSlotTooShort,
			Message: fmt.Sprintf("time slot must be at least %s", FormatDuration(MinSlotMinutes)),
		})
	}

	return errs
}

func dayHasOverlap(slots []models.TimeSlot) bool {
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			if SlotsOverlap(slots[i], slots[j]) {
				return true
			}
		}
	}
	return false
}
