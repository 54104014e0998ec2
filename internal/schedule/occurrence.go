package schedule

import (
	"errors"
	"time"

	"github.com/streetfare/schedule-api/internal/models"
)

var (
	// ErrNoStartDate marks a draft pattern that cannot produce dates yet.
	ErrNoStartDate = errors.New("pattern has no start date")

	// ErrIncompleteRule marks a pattern missing the fields its type needs.
	ErrIncompleteRule = errors.New("pattern rule is incomplete for its type")

	// ErrNoSuchWeekday is returned when a month has fewer matching
	// weekdays than the rule requests (e.g. a fifth Monday). The month is
	// skipped rather than silently moved to another date.
	ErrNoSuchWeekday = errors.New("month has no matching weekday occurrence")
)

// OccurrenceDate resolves the concrete calendar date a pattern produces at
// the given month offset from its start date. Month arithmetic normalises
// overflowing months into following years. Deterministic, no I/O.
func OccurrenceDate(p models.MonthlyPattern, monthOffset int) (time.Time, error) {
	if p.StartDate == nil {
		return time.Time{}, ErrNoStartDate
	}

	year := p.StartDate.Year()
	month := p.StartDate.Month() + time.Month(monthOffset)

	switch p.Type {
	case models.PatternSpecific:
		if p.DayOfMonth < 1 || p.DayOfMonth > 31 {
			return time.Time{}, ErrIncompleteRule
		}
		if p.DayOfMonth == models.LastDayOfMonth {
			// Sentinel: always the last calendar day of the target month.
			return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC), nil
		}
		day := p.DayOfMonth
		if last := daysInMonth(year, month); day > last {
			day = last
		}
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil

	case models.PatternRelative:
		if p.RelativeWeek == "" || p.RelativeDay == "" {
			return time.Time{}, ErrIncompleteRule
		}
		weekday, err := models.ParseWeekday(p.RelativeDay)
		if err != nil {
			return time.Time{}, ErrIncompleteRule
		}
		if p.RelativeWeek == models.WeekLast {
			return lastWeekdayOfMonth(year, month, weekday.Time()), nil
		}
		n := p.RelativeWeek.Ordinal()
		if n == 0 {
			return time.Time{}, ErrIncompleteRule
		}
		return nthWeekdayOfMonth(year, month, weekday.Time(), n)

	default:
		return time.Time{}, ErrIncompleteRule
	}
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func nthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, n int) (time.Time, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	day := 1 + offset + (n-1)*7
	if day > daysInMonth(first.Year(), first.Month()) {
		return time.Time{}, ErrNoSuchWeekday
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC), nil
}

func lastWeekdayOfMonth(year int, month time.Month, weekday time.Weekday) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	offset := (int(last.Weekday()) - int(weekday) + 7) % 7
	return last.AddDate(0, 0, -offset)
}
