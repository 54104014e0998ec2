// Package schedule implements the recurrence, validation and conflict
// engine for vendor schedules. Every function is a pure computation over
// plain values; "now" is always an explicit argument.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/streetfare/schedule-api/internal/models"
)

// ErrInvalidClock reports an unparsable "HH:MM" wall-clock string.
var ErrInvalidClock = errors.New("invalid clock time")

// ParseClock parses a "HH:MM" wall-clock string into minutes since
// midnight. Hours run 0-23, minutes 0-59.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return hours*60 + minutes, nil
}

// Overlaps reports whether two half-open minute intervals intersect.
// Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// SlotsOverlap reports whether two slots occupy intersecting intervals.
// Slots with unparsable times never overlap; format violations are
// flagged separately by Validate.
func SlotsOverlap(a, b models.TimeSlot) bool {
	aStart, err := ParseClock(a.StartTime)
	if err != nil {
		return false
	}
	aEnd, err := ParseClock(a.EndTime)
	if err != nil {
		return false
	}
	bStart, err := ParseClock(b.StartTime)
	if err != nil {
		return false
	}
	bEnd, err := ParseClock(b.EndTime)
	if err != nil {
		return false
	}
	return Overlaps(aStart, aEnd, bStart, bEnd)
}

// DurationMinutes returns end minus start in minutes. A negative result
// means the ordering is invalid; reporting that is the caller's job.
func DurationMinutes(start, end string) (int, error) {
	startMin, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	return endMin - startMin, nil
}

// FormatDuration renders a minute count as "2h 30m" / "45m" / "3h".
func FormatDuration(minutes int) string {
	if minutes < 0 {
		return fmt.Sprintf("-%s", FormatDuration(-minutes))
	}
	hours := minutes / 60
	rest := minutes % 60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", rest)
	case rest == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, rest)
	}
}
