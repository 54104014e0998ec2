package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/streetfare/schedule-api/internal/models"
	"github.com/streetfare/schedule-api/internal/schedule"
	appErrors "github.com/streetfare/schedule-api/pkg/errors"
)

type weeklyScheduleRepository interface {
	Get(ctx context.Context, vendorID string) (*models.WeeklySchedule, error)
	Upsert(ctx context.Context, vendorID string, ws models.WeeklySchedule) error
	Delete(ctx context.Context, vendorID string) error
}

type scheduleCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string)
}

// WeeklyService manages the vendor's seven-day recurring template.
type WeeklyService struct {
	repo      weeklyScheduleRepository
	cache     scheduleCache
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewWeeklyService constructs a WeeklyService instance.
func NewWeeklyService(repo weeklyScheduleRepository, cache scheduleCache, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *WeeklyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &WeeklyService{repo: repo, cache: cache, validator: validate, logger: logger, cacheTTL: cacheTTL}
}

func summaryCacheKey(vendorID string) string {
	return fmt.Sprintf("schedule:summary:%s", vendorID)
}

// Get loads the vendor's weekly schedule, returning the empty template
// when none has been saved yet.
func (s *WeeklyService) Get(ctx context.Context, vendorID string) (*models.WeeklySchedule, error) {
	ws, err := s.repo.Get(ctx, vendorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			empty := models.EmptyWeeklySchedule()
			return &empty, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weekly schedule")
	}
	return ws, nil
}

// Save validates and persists the vendor's weekly schedule. Validation
// violations are returned as a list alongside a typed 422 error; nothing
// is persisted when any violation exists.
func (s *WeeklyService) Save(ctx context.Context, vendorID string, ws models.WeeklySchedule) (*models.WeeklySchedule, []models.ValidationError, error) {
	if violations := schedule.Validate(ws); len(violations) > 0 {
		return nil, violations, appErrors.Clone(appErrors.ErrScheduleInvalid, "")
	}

	ws = schedule.DeriveEnabled(ws)
	if err := s.repo.Upsert(ctx, vendorID, ws); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save weekly schedule")
	}
	s.invalidate(ctx, vendorID)
	return &ws, nil, nil
}

// ToggleDay flips a day on or off, seeding a default slot on enable.
func (s *WeeklyService) ToggleDay(ctx context.Context, vendorID, dayName string) (*models.WeeklySchedule, error) {
	day, err := models.ParseWeekday(dayName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown day")
	}

	ws, err := s.Get(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	updated := schedule.DeriveEnabled(schedule.ToggleDay(*ws, day))
	if err := s.repo.Upsert(ctx, vendorID, updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save weekly schedule")
	}
	s.invalidate(ctx, vendorID)
	return &updated, nil
}

// AddSlot appends a slot to a day, chained one hour after the day's last
// slot and inheriting its location. The day is enabled if it was not.
func (s *WeeklyService) AddSlot(ctx context.Context, vendorID, dayName string) (*models.WeeklySchedule, error) {
	day, err := models.ParseWeekday(dayName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown day")
	}

	ws, err := s.Get(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	updated := *ws
	sched := updated.Days[day]
	sched.TimeSlots = append(sched.TimeSlots, schedule.NextSlotAfter(sched.TimeSlots))
	sched.Enabled = true
	updated.Days[day] = sched

	updated = schedule.DeriveEnabled(updated)
	if err := s.repo.Upsert(ctx, vendorID, updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save weekly schedule")
	}
	s.invalidate(ctx, vendorID)
	return &updated, nil
}

// Copy replicates one day's slots onto a target list or preset.
func (s *WeeklyService) Copy(ctx context.Context, vendorID string, req models.CopyDayRequest) (*models.WeeklySchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid copy payload")
	}

	from, err := models.ParseWeekday(req.From)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown source day")
	}

	var targets []models.Weekday
	switch req.Preset {
	case "weekdays":
		targets = schedule.PresetWeekdays()
	case "weekend":
		targets = schedule.PresetWeekend()
	case "all":
		targets = schedule.PresetAllDays()
	default:
		if len(req.To) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "copy requires target days or a preset")
		}
		for _, name := range req.To {
			day, err := models.ParseWeekday(name)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown target day")
			}
			targets = append(targets, day)
		}
	}

	ws, err := s.Get(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	updated := schedule.DeriveEnabled(schedule.CopyDay(*ws, from, targets))
	if err := s.repo.Upsert(ctx, vendorID, updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save weekly schedule")
	}
	s.invalidate(ctx, vendorID)
	return &updated, nil
}

// Clear disables every day and removes all slots.
func (s *WeeklyService) Clear(ctx context.Context, vendorID string) (*models.WeeklySchedule, error) {
	ws, err := s.Get(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	cleared := schedule.ClearAll(*ws)
	if err := s.repo.Upsert(ctx, vendorID, cleared); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear weekly schedule")
	}
	s.invalidate(ctx, vendorID)
	return &cleared, nil
}

// Summary returns aggregate counts for the vendor's schedule, served from
// cache when warm.
func (s *WeeklyService) Summary(ctx context.Context, vendorID string) (*models.WeeklySummary, error) {
	if s.cache != nil {
		var cached models.WeeklySummary
		if err := s.cache.Get(ctx, summaryCacheKey(vendorID), &cached); err == nil {
			return &cached, nil
		}
	}

	ws, err := s.Get(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	summary := schedule.Summarize(*ws)
	if s.cache != nil {
		if err := s.cache.Set(ctx, summaryCacheKey(vendorID), summary, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache schedule summary", zap.Error(err))
		}
	}
	return &summary, nil
}

func (s *WeeklyService) invalidate(ctx context.Context, vendorID string) {
	if s.cache != nil {
		s.cache.Delete(ctx, summaryCacheKey(vendorID))
	}
}
