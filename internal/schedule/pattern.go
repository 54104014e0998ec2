package schedule

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/streetfare/schedule-api/internal/models"
)

// avgDaysPerMonth is the mean Gregorian month length. Progress accounting
// deliberately uses this approximation instead of calendar-exact months.
const avgDaysPerMonth = 30.44

// Expand lists every concrete date the pattern produces over its active
// window, in month order. Offsets where the rule cannot produce a date
// (incomplete rule, missing nth weekday) are skipped rather than failing
// the whole expansion.
func Expand(p models.MonthlyPattern) []time.Time {
	var dates []time.Time
	for i := 0; i < p.DurationMonths; i++ {
		date, err := OccurrenceDate(p, i)
		if err != nil {
			continue
		}
		dates = append(dates, date)
	}
	return dates
}

// Status computes the lifecycle snapshot of a pattern at the given
// instant. Expiry and activation are derived on read, never written back.
func Status(p models.MonthlyPattern, now time.Time) models.PatternStatus {
	status := models.PatternStatus{TotalMonths: p.DurationMonths}
	if p.StartDate == nil || p.DurationMonths <= 0 {
		return status
	}

	start := *p.StartDate
	end := start.AddDate(0, p.DurationMonths, 0)

	status.IsExpired = now.After(end)
	status.IsActive = !now.Before(start) && !now.After(end)

	monthsPassed := 0
	if now.After(start) {
		monthsPassed = int(math.Floor(now.Sub(start).Hours() / 24 / avgDaysPerMonth))
	}
	status.MonthsCompleted = monthsPassed
	if status.MonthsCompleted > p.DurationMonths {
		status.MonthsCompleted = p.DurationMonths
	}
	status.MonthsRemaining = p.DurationMonths - monthsPassed
	if status.MonthsRemaining < 0 {
		status.MonthsRemaining = 0
	}
	status.ProgressPercentage = int(math.Round(float64(status.MonthsCompleted) / float64(p.DurationMonths) * 100))

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for _, date := range Expand(p) {
		if !date.Before(today) {
			next := date
			status.NextOccurrence = &next
			break
		}
	}

	return status
}

// FindConflicts returns the calendar dates where the candidate lands on
// the same day as another active pattern, de-duplicated and sorted. The
// candidate never conflicts with itself, and inactive patterns are not
// compared. Conflicts are advisory; they never block a save.
func FindConflicts(candidate models.MonthlyPattern, existing []models.MonthlyPattern) []time.Time {
	candidateDates := Expand(candidate)
	if len(candidateDates) == 0 {
		return nil
	}

	colliding := make(map[string]time.Time)
	for _, other := range existing {
		if other.ID == candidate.ID || !other.Active {
			continue
		}
		otherDays := make(map[string]struct{})
		for _, date := range Expand(other) {
			otherDays[dayKey(date)] = struct{}{}
		}
		for _, date := range candidateDates {
			if _, ok := otherDays[dayKey(date)]; ok {
				colliding[dayKey(date)] = date
			}
		}
	}

	if len(colliding) == 0 {
		return nil
	}
	conflicts := make([]time.Time, 0, len(colliding))
	for _, date := range colliding {
		conflicts = append(conflicts, date)
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].Before(conflicts[j]) })
	return conflicts
}

// Extend returns a copy of the pattern with its duration increased by the
// given number of months. The input is not mutated.
func Extend(p models.MonthlyPattern, months int) models.MonthlyPattern {
	extended := p
	extended.DurationMonths += months
	extended.TimeSlots = append(models.TimeSlotList{}, p.TimeSlots...)
	return extended
}

// Duplicate returns a draft copy of the pattern: fresh ids for the
// pattern and every slot, cleared start date, active. The caller must
// supply a new start date before the duplicate produces occurrences.
func Duplicate(p models.MonthlyPattern, now time.Time) models.MonthlyPattern {
	dup := p
	dup.ID = uuid.NewString()
	dup.Name = p.Name + " (Copy)"
	dup.StartDate = nil
	dup.Active = true
	dup.CreatedAt = now
	dup.UpdatedAt = now

	dup.TimeSlots = make(models.TimeSlotList, len(p.TimeSlots))
	for i, slot := range p.TimeSlots {
		copied := slot
		copied.ID = uuid.NewString()
		if slot.Coordinates != nil {
			coords := *slot.Coordinates
			copied.Coordinates = &coords
		}
		dup.TimeSlots[i] = copied
	}
	return dup
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
