package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/streetfare/schedule-api/internal/models"
	"github.com/streetfare/schedule-api/internal/schedule"
	appErrors "github.com/streetfare/schedule-api/pkg/errors"
)

type patternRepository interface {
	List(ctx context.Context, filter models.PatternFilter) ([]models.MonthlyPattern, int, error)
	ListActiveByVendor(ctx context.Context, vendorID string) ([]models.MonthlyPattern, error)
	FindByID(ctx context.Context, id string) (*models.MonthlyPattern, error)
	Create(ctx context.Context, pattern *models.MonthlyPattern) error
	Update(ctx context.Context, pattern *models.MonthlyPattern) error
	Delete(ctx context.Context, id string) error
	ListVendorIDs(ctx context.Context) ([]string, error)
}

// PatternLimits bounds what a single pattern may carry.
type PatternLimits struct {
	MaxDurationMonths int
	MaxSlots          int
	StatusCacheTTL    time.Duration
}

// PatternService manages monthly pattern CRUD and the derived views
// computed from them. The clock is injected so status math is testable.
type PatternService struct {
	repo      patternRepository
	cache     scheduleCache
	validator *validator.Validate
	logger    *zap.Logger
	limits    PatternLimits
	now       func() time.Time
}

// NewPatternService constructs a PatternService instance.
func NewPatternService(repo patternRepository, cache scheduleCache, validate *validator.Validate, logger *zap.Logger, limits PatternLimits, now func() time.Time) *PatternService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if limits.MaxDurationMonths <= 0 {
		limits.MaxDurationMonths = 24
	}
	if limits.MaxSlots <= 0 {
		limits.MaxSlots = 10
	}
	return &PatternService{repo: repo, cache: cache, validator: validate, logger: logger, limits: limits, now: now}
}

func statusCacheKey(patternID string) string {
	return fmt.Sprintf("pattern:status:%s", patternID)
}

// List returns the vendor's patterns with pagination metadata.
func (s *PatternService) List(ctx context.Context, filter models.PatternFilter) ([]models.MonthlyPattern, *models.Pagination, error) {
	patterns, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list patterns")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return patterns, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Create validates and stores a new pattern, returning any advisory
// conflicts with the vendor's existing active patterns.
func (s *PatternService) Create(ctx context.Context, vendorID string, pattern models.MonthlyPattern) (*models.MonthlyPattern, []time.Time, error) {
	pattern.ID = ""
	pattern.VendorID = vendorID
	if err := s.validatePattern(&pattern); err != nil {
		return nil, nil, err
	}

	existing, err := s.repo.ListActiveByVendor(ctx, vendorID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing patterns")
	}

	if pattern.Name == "" {
		pattern.Name = s.autoName(pattern, existing)
	}

	conflicts := schedule.FindConflicts(pattern, existing)
	if err := s.repo.Create(ctx, &pattern); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create pattern")
	}
	return &pattern, conflicts, nil
}

// Update validates and stores changes to an existing pattern.
func (s *PatternService) Update(ctx context.Context, vendorID, id string, pattern models.MonthlyPattern) (*models.MonthlyPattern, []time.Time, error) {
	current, err := s.findOwned(ctx, vendorID, id)
	if err != nil {
		return nil, nil, err
	}

	pattern.ID = current.ID
	pattern.VendorID = current.VendorID
	pattern.CreatedAt = current.CreatedAt
	if err := s.validatePattern(&pattern); err != nil {
		return nil, nil, err
	}
	if pattern.Name == "" {
		pattern.Name = current.Name
	}

	existing, err := s.repo.ListActiveByVendor(ctx, vendorID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing patterns")
	}

	conflicts := schedule.FindConflicts(pattern, existing)
	if err := s.repo.Update(ctx, &pattern); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update pattern")
	}
	s.invalidateStatus(ctx, id)
	return &pattern, conflicts, nil
}

// Delete removes the vendor's pattern.
func (s *PatternService) Delete(ctx context.Context, vendorID, id string) error {
	if _, err := s.findOwned(ctx, vendorID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete pattern")
	}
	s.invalidateStatus(ctx, id)
	return nil
}

// Toggle flips a pattern's active flag.
func (s *PatternService) Toggle(ctx context.Context, vendorID, id string) (*models.MonthlyPattern, error) {
	pattern, err := s.findOwned(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}

	pattern.Active = !pattern.Active
	if err := s.repo.Update(ctx, pattern); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle pattern")
	}
	s.invalidateStatus(ctx, id)
	return pattern, nil
}

// Extend adds months to a pattern's duration window.
func (s *PatternService) Extend(ctx context.Context, vendorID, id string, req models.ExtendRequest) (*models.MonthlyPattern, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid extend payload")
	}

	pattern, err := s.findOwned(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}

	extended := schedule.Extend(*pattern, req.Months)
	if extended.DurationMonths > s.limits.MaxDurationMonths {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duration may not exceed %d months", s.limits.MaxDurationMonths))
	}

	if err := s.repo.Update(ctx, &extended); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to extend pattern")
	}
	s.invalidateStatus(ctx, id)
	return &extended, nil
}

// Duplicate creates an inactive-start copy of the pattern with a fresh
// identity, no start date, and copied slots.
func (s *PatternService) Duplicate(ctx context.Context, vendorID, id string) (*models.MonthlyPattern, error) {
	pattern, err := s.findOwned(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}

	dup := schedule.Duplicate(*pattern, s.now())
	if err := s.repo.Create(ctx, &dup); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to duplicate pattern")
	}
	return &dup, nil
}

// Occurrences expands the pattern into its concrete dates.
func (s *PatternService) Occurrences(ctx context.Context, vendorID, id string) ([]models.Occurrence, error) {
	pattern, err := s.findOwned(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}

	dates := schedule.Expand(*pattern)
	occurrences := make([]models.Occurrence, 0, len(dates))
	for _, date := range dates {
		occurrences = append(occurrences, models.Occurrence{
			Date:        date,
			PatternID:   pattern.ID,
			PatternName: pattern.Name,
			TimeSlots:   pattern.TimeSlots,
		})
	}
	return occurrences, nil
}

// Status computes the pattern's lifecycle snapshot, served from cache
// when warm.
func (s *PatternService) Status(ctx context.Context, vendorID, id string) (*models.PatternStatus, error) {
	pattern, err := s.findOwned(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		var cached models.PatternStatus
		if err := s.cache.Get(ctx, statusCacheKey(id), &cached); err == nil {
			return &cached, nil
		}
	}

	status := schedule.Status(*pattern, s.now())
	s.warmStatus(ctx, id, status)
	return &status, nil
}

// Conflicts reports which calendar days a candidate pattern shares with
// the vendor's active patterns. The result is advisory and never blocks.
func (s *PatternService) Conflicts(ctx context.Context, vendorID string, candidate models.MonthlyPattern) ([]time.Time, error) {
	candidate.VendorID = vendorID
	if err := s.validatePattern(&candidate); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListActiveByVendor(ctx, vendorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing patterns")
	}
	return schedule.FindConflicts(candidate, existing), nil
}

// Templates returns the canonical starter patterns.
func (s *PatternService) Templates() []models.PatternTemplate {
	return models.PatternTemplates()
}

// Sweep recomputes every vendor's pattern statuses, logging expirations
// and warming the status cache. Run by the daily cron. Returns the number
// of patterns swept and how many were expired.
func (s *PatternService) Sweep(ctx context.Context) (int, int, error) {
	vendorIDs, err := s.repo.ListVendorIDs(ctx)
	if err != nil {
		return 0, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list vendors for sweep")
	}

	now := s.now()
	var swept, expired int
	for _, vendorID := range vendorIDs {
		patterns, err := s.repo.ListActiveByVendor(ctx, vendorID)
		if err != nil {
			s.logger.Warn("sweep skipped vendor", zap.String("vendor_id", vendorID), zap.Error(err))
			continue
		}
		for _, pattern := range patterns {
			status := schedule.Status(pattern, now)
			s.warmStatus(ctx, pattern.ID, status)
			swept++
			if status.IsExpired {
				expired++
				s.logger.Info("pattern expired",
					zap.String("pattern_id", pattern.ID),
					zap.String("vendor_id", vendorID),
					zap.String("name", pattern.Name))
			}
		}
	}

	s.logger.Info("pattern status sweep complete", zap.Int("swept", swept), zap.Int("expired", expired))
	return swept, expired, nil
}

func (s *PatternService) findOwned(ctx context.Context, vendorID, id string) (*models.MonthlyPattern, error) {
	pattern, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "pattern not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pattern")
	}
	if pattern.VendorID != vendorID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "pattern not found")
	}
	return pattern, nil
}

// validatePattern checks the rule shape and slot payload. Monthly slots
// have no minimum duration, unlike weekly ones.
func (s *PatternService) validatePattern(p *models.MonthlyPattern) error {
	switch p.Type {
	case models.PatternSpecific:
		if p.DayOfMonth < 1 || p.DayOfMonth > 31 {
			return appErrors.Clone(appErrors.ErrIncompleteRule, "specific patterns need a day of month between 1 and 31")
		}
		p.RelativeWeek = ""
		p.RelativeDay = ""
	case models.PatternRelative:
		if p.RelativeWeek.Ordinal() == 0 && p.RelativeWeek != models.WeekLast {
			return appErrors.Clone(appErrors.ErrIncompleteRule, "relative patterns need a week selector")
		}
		if _, err := models.ParseWeekday(p.RelativeDay); err != nil {
			return appErrors.Clone(appErrors.ErrIncompleteRule, "relative patterns need a valid weekday")
		}
		p.DayOfMonth = 0
	default:
		return appErrors.Clone(appErrors.ErrIncompleteRule, "unknown pattern type")
	}

	if p.DurationMonths < 1 || p.DurationMonths > s.limits.MaxDurationMonths {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duration must be between 1 and %d months", s.limits.MaxDurationMonths))
	}
	if len(p.TimeSlots) > s.limits.MaxSlots {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("patterns may carry at most %d time slots", s.limits.MaxSlots))
	}
	for _, slot := range p.TimeSlots {
		if slot.Location == "" {
			return appErrors.Clone(appErrors.ErrValidation, "every time slot needs a location")
		}
		minutes, err := schedule.DurationMinutes(slot.StartTime, slot.EndTime)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot times")
		}
		if minutes <= 0 {
			return appErrors.Clone(appErrors.ErrValidation, "slot end must be after its start")
		}
	}
	return nil
}

// autoName derives a readable name from the rule, suffixing an ordinal
// when the vendor already uses it.
func (s *PatternService) autoName(p models.MonthlyPattern, existing []models.MonthlyPattern) string {
	base := describeRule(p)
	taken := make(map[string]bool, len(existing))
	for _, other := range existing {
		taken[other.Name] = true
	}
	if !taken[base] {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s (%d)", base, i)
		if !taken[candidate] {
			return candidate
		}
	}
}

func describeRule(p models.MonthlyPattern) string {
	if p.Type == models.PatternSpecific {
		if p.DayOfMonth == models.LastDayOfMonth {
			return "Last Day of Month"
		}
		return fmt.Sprintf("%s of Month", dayOrdinal(p.DayOfMonth))
	}
	day, err := models.ParseWeekday(p.RelativeDay)
	if err != nil {
		return "Monthly Pattern"
	}
	return fmt.Sprintf("%s %s of Month", titleWord(string(p.RelativeWeek)), titleWord(day.String()))
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func dayOrdinal(day int) string {
	switch day % 100 {
	case 11, 12, 13:
		return fmt.Sprintf("%dth", day)
	}
	switch day % 10 {
	case 1:
		return fmt.Sprintf("%dst", day)
	case 2:
		return fmt.Sprintf("%dnd", day)
	case 3:
		return fmt.Sprintf("%drd", day)
	default:
		return fmt.Sprintf("%dth", day)
	}
}

func (s *PatternService) warmStatus(ctx context.Context, id string, status models.PatternStatus) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, statusCacheKey(id), status, s.limits.StatusCacheTTL); err != nil {
		s.logger.Warn("failed to cache pattern status", zap.String("pattern_id", id), zap.Error(err))
	}
}

func (s *PatternService) invalidateStatus(ctx context.Context, id string) {
	if s.cache != nil {
		s.cache.Delete(ctx, statusCacheKey(id))
	}
}
