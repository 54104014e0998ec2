package models

import "time"

// PatternType discriminates the two monthly rule shapes.
type PatternType string

const (
	PatternSpecific PatternType = "specific"
	PatternRelative PatternType = "relative"
)

// RelativeWeek selects which matching weekday of the month applies.
type RelativeWeek string

const (
	WeekFirst  RelativeWeek = "first"
	WeekSecond RelativeWeek = "second"
	WeekThird  RelativeWeek = "third"
	WeekFourth RelativeWeek = "fourth"
	WeekLast   RelativeWeek = "last"
)

// Ordinal returns the 1-based occurrence index, 0 for "last".
func (w RelativeWeek) Ordinal() int {
	switch w {
	case WeekFirst:
		return 1
	case WeekSecond:
		return 2
	case WeekThird:
		return 3
	case WeekFourth:
		return 4
	default:
		return 0
	}
}

// LastDayOfMonth is the sentinel day-of-month meaning "always the last
// calendar day", as opposed to an ordinary day 31 that would be clamped.
const LastDayOfMonth = 31

// MonthlyPattern is a rule producing one date per month over a bounded
// window. Exactly one rule shape is populated according to Type: specific
// patterns carry DayOfMonth, relative patterns carry RelativeWeek and
// RelativeDay. A pattern without a start date is a draft.
type MonthlyPattern struct {
	ID             string       `db:"id" json:"id"`
	VendorID       string       `db:"vendor_id" json:"vendor_id"`
	Name           string       `db:"name" json:"name"`
	Type           PatternType  `db:"type" json:"type"`
	DayOfMonth     int          `db:"day_of_month" json:"day_of_month,omitempty"`
	RelativeWeek   RelativeWeek `db:"relative_week" json:"relative_week,omitempty"`
	RelativeDay    string       `db:"relative_day" json:"relative_day,omitempty"`
	StartDate      *time.Time   `db:"start_date" json:"start_date,omitempty"`
	DurationMonths int          `db:"duration_months" json:"duration_months"`
	TimeSlots      TimeSlotList `db:"time_slots" json:"time_slots"`
	Active         bool         `db:"active" json:"active"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`
}

// PatternStatus is the computed lifecycle snapshot of a pattern. It is
// derived on read and never written back.
type PatternStatus struct {
	IsActive           bool       `json:"is_active"`
	IsExpired          bool       `json:"is_expired"`
	TotalMonths        int        `json:"total_months"`
	MonthsCompleted    int        `json:"months_completed"`
	MonthsRemaining    int        `json:"months_remaining"`
	ProgressPercentage int        `json:"progress_percentage"`
	NextOccurrence     *time.Time `json:"next_occurrence,omitempty"`
}

// PatternFilter describes query params for listing patterns.
type PatternFilter struct {
	VendorID string
	Active   *bool
	Type     PatternType
	Page     int
	PageSize int
}

// Occurrence is one concrete calendar date produced by expanding a pattern,
// enriched for export feeds.
type Occurrence struct {
	Date        time.Time    `json:"date"`
	PatternID   string       `json:"pattern_id"`
	PatternName string       `json:"pattern_name"`
	TimeSlots   TimeSlotList `json:"time_slots"`
}

// ExtendRequest adds months to a pattern's duration window.
type ExtendRequest struct {
	Months int `json:"months" validate:"required,min=1,max=24"`
}

// PatternTemplate is a starter pattern offered for one-click creation.
type PatternTemplate struct {
	Name           string       `json:"name"`
	Type           PatternType  `json:"type"`
	DayOfMonth     int          `json:"day_of_month,omitempty"`
	RelativeWeek   RelativeWeek `json:"relative_week,omitempty"`
	RelativeDay    string       `json:"relative_day,omitempty"`
	DurationMonths int          `json:"duration_months"`
}

// PatternTemplates returns the canonical starter patterns.
func PatternTemplates() []PatternTemplate {
	return []PatternTemplate{
		{Name: "First Friday of Month", Type: PatternRelative, RelativeWeek: WeekFirst, RelativeDay: "friday", DurationMonths: 6},
		{Name: "Last Day of Each Month", Type: PatternSpecific, DayOfMonth: LastDayOfMonth, DurationMonths: 12},
		{Name: "Mid-Month (15th)", Type: PatternSpecific, DayOfMonth: 15, DurationMonths: 6},
		{Name: "First Monday of Month", Type: PatternRelative, RelativeWeek: WeekFirst, RelativeDay: "monday", DurationMonths: 6},
		{Name: "Last Friday of Month", Type: PatternRelative, RelativeWeek: WeekLast, RelativeDay: "friday", DurationMonths: 6},
	}
}
