package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Weekday indexes the seven-day schedule array, Monday first.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var weekdayShorts = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// AllWeekdays lists every weekday in schedule order.
func AllWeekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// Short returns the three-letter day label used in summaries.
func (d Weekday) Short() string {
	if d < Monday || d > Sunday {
		return ""
	}
	return weekdayShorts[d]
}

// Time maps the schedule weekday onto time.Weekday.
func (d Weekday) Time() time.Weekday {
	if d == Sunday {
		return time.Sunday
	}
	return time.Weekday(int(d) + 1)
}

// ParseWeekday resolves a lowercase day name to its Weekday index.
func ParseWeekday(name string) (Weekday, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range weekdayNames {
		if candidate == needle {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// DaySchedule holds the open windows for a single day of the weekly template.
type DaySchedule struct {
	Enabled   bool       `json:"enabled"`
	TimeSlots []TimeSlot `json:"time_slots"`
}

// WeeklySchedule is the seven-day recurring template. Days is indexed by
// Weekday; on the wire it is keyed by day name so clients cannot submit
// unknown days.
type WeeklySchedule struct {
	Enabled      bool
	RepeatWeekly bool
	Days         [7]DaySchedule
}

type weeklyScheduleJSON struct {
	Enabled      bool                   `json:"enabled"`
	RepeatWeekly bool                   `json:"repeat_weekly"`
	Schedule     map[string]DaySchedule `json:"schedule"`
}

// MarshalJSON encodes Days as a day-name keyed object.
func (w WeeklySchedule) MarshalJSON() ([]byte, error) {
	out := weeklyScheduleJSON{
		Enabled:      w.Enabled,
		RepeatWeekly: w.RepeatWeekly,
		Schedule:     make(map[string]DaySchedule, 7),
	}
	for _, day := range AllWeekdays() {
		out.Schedule[day.String()] = w.Days[day]
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the day-name keyed object, rejecting unknown days.
func (w *WeeklySchedule) UnmarshalJSON(data []byte) error {
	var raw weeklyScheduleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed := WeeklySchedule{Enabled: raw.Enabled, RepeatWeekly: raw.RepeatWeekly}
	for name, day := range raw.Schedule {
		idx, err := ParseWeekday(name)
		if err != nil {
			return err
		}
		parsed.Days[idx] = day
	}
	*w = parsed
	return nil
}

// EmptyWeeklySchedule returns the all-days-disabled template.
func EmptyWeeklySchedule() WeeklySchedule {
	ws := WeeklySchedule{RepeatWeekly: true}
	for i := range ws.Days {
		ws.Days[i] = DaySchedule{TimeSlots: []TimeSlot{}}
	}
	return ws
}

// WeeklySummary aggregates a schedule for display.
type WeeklySummary struct {
	ActiveDays     int      `json:"active_days"`
	TotalLocations int      `json:"total_locations"`
	ActiveDayNames []string `json:"active_day_names"`
}

// CopyDayRequest replicates one day's slots onto other days, either an
// explicit target list or a named preset.
type CopyDayRequest struct {
	From   string   `json:"from" validate:"required"`
	To     []string `json:"to" validate:"omitempty,dive,required"`
	Preset string   `json:"preset" validate:"omitempty,oneof=weekdays weekend all"`
}
