package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	ical "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/streetfare/schedule-api/internal/models"
	"github.com/streetfare/schedule-api/internal/schedule"
	appErrors "github.com/streetfare/schedule-api/pkg/errors"
	"github.com/streetfare/schedule-api/pkg/export"
)

type exportPatternLister interface {
	ListActiveByVendor(ctx context.Context, vendorID string) ([]models.MonthlyPattern, error)
}

type exportScheduleReader interface {
	Get(ctx context.Context, vendorID string) (*models.WeeklySchedule, error)
}

// ExportOptions tunes the generated feeds.
type ExportOptions struct {
	FeedName     string
	HorizonWeeks int
}

// ExportService renders a vendor's upcoming occurrences as CSV, PDF and
// iCalendar feeds.
type ExportService struct {
	patterns exportPatternLister
	weekly   exportScheduleReader
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
	opts     ExportOptions
	now      func() time.Time
}

// NewExportService constructs an ExportService instance.
func NewExportService(patterns exportPatternLister, weekly exportScheduleReader, logger *zap.Logger, opts ExportOptions, now func() time.Time) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if opts.HorizonWeeks <= 0 {
		opts.HorizonWeeks = 12
	}
	if opts.FeedName == "" {
		opts.FeedName = "Vendor Schedule"
	}
	return &ExportService{
		patterns: patterns,
		weekly:   weekly,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
		opts:     opts,
		now:      now,
	}
}

var exportHeaders = []string{"Date", "Pattern", "Start", "End", "Location"}

// OccurrencesCSV renders the vendor's upcoming occurrences as CSV.
func (s *ExportService) OccurrencesCSV(ctx context.Context, vendorID string) ([]byte, error) {
	dataset, err := s.occurrenceDataset(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	payload, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
	}
	return payload, nil
}

// OccurrencesPDF renders the vendor's upcoming occurrences as a PDF table.
func (s *ExportService) OccurrencesPDF(ctx context.Context, vendorID string) ([]byte, error) {
	dataset, err := s.occurrenceDataset(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	payload, err := s.pdf.Render(dataset, s.opts.FeedName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
	}
	return payload, nil
}

// CalendarICS renders the weekly template as recurring events and the
// monthly occurrences as single events.
func (s *ExportService) CalendarICS(ctx context.Context, vendorID string) ([]byte, error) {
	now := s.now()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//streetfare//schedule-api//EN")
	cal.SetName(s.opts.FeedName)

	ws, err := s.weekly.Get(ctx, vendorID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weekly schedule")
	}
	if ws != nil && ws.Enabled {
		s.addWeeklyEvents(cal, vendorID, *ws, now)
	}

	occurrences, err := s.upcomingOccurrences(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	for _, occ := range occurrences {
		s.addOccurrenceEvents(cal, vendorID, occ, now)
	}

	return []byte(cal.Serialize()), nil
}

var icsByDay = [7]string{"MO", "TU", "WE", "TH", "FR", "SA", "SU"}

func (s *ExportService) addWeeklyEvents(cal *ical.Calendar, vendorID string, ws models.WeeklySchedule, now time.Time) {
	for _, day := range models.AllWeekdays() {
		ds := ws.Days[day]
		if !ds.Enabled {
			continue
		}
		for _, slot := range ds.TimeSlots {
			start, end, err := slotWindow(nextWeekday(now, day.Time()), slot)
			if err != nil {
				s.logger.Warn("skipping slot with invalid times", zap.String("slot_id", slot.ID), zap.Error(err))
				continue
			}
			event := cal.AddEvent(fmt.Sprintf("weekly-%s-%s@schedule-api", vendorID, slot.ID))
			event.SetDtStampTime(now)
			event.SetStartAt(start)
			event.SetEndAt(end)
			event.SetSummary(s.opts.FeedName)
			if slot.Location != "" {
				event.SetLocation(slot.Location)
			}
			if ws.RepeatWeekly {
				event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s;COUNT=%d", icsByDay[day], s.opts.HorizonWeeks))
			}
		}
	}
}

func (s *ExportService) addOccurrenceEvents(cal *ical.Calendar, vendorID string, occ models.Occurrence, now time.Time) {
	if len(occ.TimeSlots) == 0 {
		event := cal.AddEvent(fmt.Sprintf("pattern-%s-%s@schedule-api", occ.PatternID, occ.Date.Format("20060102")))
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(occ.Date)
		event.SetAllDayEndAt(occ.Date.AddDate(0, 0, 1))
		event.SetSummary(occ.PatternName)
		return
	}
	for _, slot := range occ.TimeSlots {
		start, end, err := slotWindow(occ.Date, slot)
		if err != nil {
			s.logger.Warn("skipping slot with invalid times", zap.String("slot_id", slot.ID), zap.Error(err))
			continue
		}
		event := cal.AddEvent(fmt.Sprintf("pattern-%s-%s-%s@schedule-api", occ.PatternID, occ.Date.Format("20060102"), slot.ID))
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(occ.PatternName)
		if slot.Location != "" {
			event.SetLocation(slot.Location)
		}
	}
}

func (s *ExportService) occurrenceDataset(ctx context.Context, vendorID string) (export.Dataset, error) {
	occurrences, err := s.upcomingOccurrences(ctx, vendorID)
	if err != nil {
		return export.Dataset{}, err
	}

	rows := make([]map[string]string, 0, len(occurrences))
	for _, occ := range occurrences {
		if len(occ.TimeSlots) == 0 {
			rows = append(rows, map[string]string{
				"Date":    occ.Date.Format("2006-01-02"),
				"Pattern": occ.PatternName,
			})
			continue
		}
		for _, slot := range occ.TimeSlots {
			rows = append(rows, map[string]string{
				"Date":     occ.Date.Format("2006-01-02"),
				"Pattern":  occ.PatternName,
				"Start":    slot.StartTime,
				"End":      slot.EndTime,
				"Location": slot.Location,
			})
		}
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}, nil
}

// upcomingOccurrences expands every active pattern and keeps dates from
// today through the configured horizon, sorted ascending.
func (s *ExportService) upcomingOccurrences(ctx context.Context, vendorID string) ([]models.Occurrence, error) {
	patterns, err := s.patterns.ListActiveByVendor(ctx, vendorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active patterns")
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	horizon := today.AddDate(0, 0, s.opts.HorizonWeeks*7)

	var occurrences []models.Occurrence
	for _, pattern := range patterns {
		for _, date := range schedule.Expand(pattern) {
			if date.Before(today) || date.After(horizon) {
				continue
			}
			occurrences = append(occurrences, models.Occurrence{
				Date:        date,
				PatternID:   pattern.ID,
				PatternName: pattern.Name,
				TimeSlots:   pattern.TimeSlots,
			})
		}
	}

	sort.Slice(occurrences, func(i, j int) bool {
		if occurrences[i].Date.Equal(occurrences[j].Date) {
			return occurrences[i].PatternName < occurrences[j].PatternName
		}
		return occurrences[i].Date.Before(occurrences[j].Date)
	})
	return occurrences, nil
}

func slotWindow(day time.Time, slot models.TimeSlot) (time.Time, time.Time, error) {
	startMin, err := schedule.ParseClock(slot.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endMin, err := schedule.ParseClock(slot.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	base := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(startMin) * time.Minute), base.Add(time.Duration(endMin) * time.Minute), nil
}

// nextWeekday returns the first date on or after now falling on the
// given weekday.
func nextWeekday(now time.Time, weekday time.Weekday) time.Time {
	delta := (int(weekday) - int(now.Weekday()) + 7) % 7
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, delta)
}
