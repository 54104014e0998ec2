package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/streetfare/schedule-api/internal/models"
)

const patternColumns = "id, vendor_id, name, type, day_of_month, relative_week, relative_day, start_date, duration_months, time_slots, active, created_at, updated_at"

// PatternRepository provides persistence for monthly patterns.
type PatternRepository struct {
	db *sqlx.DB
}

// NewPatternRepository creates a new pattern repository.
func NewPatternRepository(db *sqlx.DB) *PatternRepository {
	return &PatternRepository{db: db}
}

// List returns patterns with optional filtering and pagination.
func (r *PatternRepository) List(ctx context.Context, filter models.PatternFilter) ([]models.MonthlyPattern, int, error) {
	base := "FROM monthly_patterns WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.VendorID != "" {
		conditions = append(conditions, fmt.Sprintf("vendor_id = $%d", len(args)+1))
		args = append(args, filter.VendorID)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", patternColumns, base, size, offset)
	var patterns []models.MonthlyPattern
	if err := r.db.SelectContext(ctx, &patterns, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list patterns: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count patterns: %w", err)
	}

	return patterns, total, nil
}

// ListActiveByVendor returns the vendor's active patterns, used for
// conflict checks and export feeds.
func (r *PatternRepository) ListActiveByVendor(ctx context.Context, vendorID string) ([]models.MonthlyPattern, error) {
	query := fmt.Sprintf("SELECT %s FROM monthly_patterns WHERE vendor_id = $1 AND active = TRUE ORDER BY created_at ASC", patternColumns)
	var patterns []models.MonthlyPattern
	if err := r.db.SelectContext(ctx, &patterns, query, vendorID); err != nil {
		return nil, fmt.Errorf("list active patterns: %w", err)
	}
	return patterns, nil
}

// FindByID loads a pattern by id.
func (r *PatternRepository) FindByID(ctx context.Context, id string) (*models.MonthlyPattern, error) {
	query := fmt.Sprintf("SELECT %s FROM monthly_patterns WHERE id = $1", patternColumns)
	var pattern models.MonthlyPattern
	if err := r.db.GetContext(ctx, &pattern, query, id); err != nil {
		return nil, err
	}
	return &pattern, nil
}

// Create stores a new pattern record.
func (r *PatternRepository) Create(ctx context.Context, pattern *models.MonthlyPattern) error {
	if pattern.ID == "" {
		pattern.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if pattern.CreatedAt.IsZero() {
		pattern.CreatedAt = now
	}
	pattern.UpdatedAt = now

	const query = `INSERT INTO monthly_patterns (id, vendor_id, name, type, day_of_month, relative_week, relative_day, start_date, duration_months, time_slots, active, created_at, updated_at)
		VALUES (:id, :vendor_id, :name, :type, :day_of_month, :relative_week, :relative_day, :start_date, :duration_months, :time_slots, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, pattern); err != nil {
		return fmt.Errorf("create pattern: %w", err)
	}
	return nil
}

// Update modifies a pattern record.
func (r *PatternRepository) Update(ctx context.Context, pattern *models.MonthlyPattern) error {
	pattern.UpdatedAt = time.Now().UTC()
	const query = `UPDATE monthly_patterns SET name = :name, type = :type, day_of_month = :day_of_month, relative_week = :relative_week, relative_day = :relative_day, start_date = :start_date, duration_months = :duration_months, time_slots = :time_slots, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, pattern); err != nil {
		return fmt.Errorf("update pattern: %w", err)
	}
	return nil
}

// Delete removes a pattern by id.
func (r *PatternRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM monthly_patterns WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete pattern: %w", err)
	}
	return nil
}

// ListVendorIDs returns every vendor owning at least one pattern, used by
// the status sweep.
func (r *PatternRepository) ListVendorIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT DISTINCT vendor_id FROM monthly_patterns`); err != nil {
		return nil, fmt.Errorf("list pattern vendor ids: %w", err)
	}
	return ids, nil
}
