package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/streetfare/schedule-api/internal/models"
)

// WeeklyScheduleRepository persists the single weekly template each vendor
// owns. The seven-day template is stored as one JSONB document; the engine
// owns its shape.
type WeeklyScheduleRepository struct {
	db *sqlx.DB
}

// NewWeeklyScheduleRepository creates a new weekly schedule repository.
func NewWeeklyScheduleRepository(db *sqlx.DB) *WeeklyScheduleRepository {
	return &WeeklyScheduleRepository{db: db}
}

type weeklyScheduleRow struct {
	VendorID  string    `db:"vendor_id"`
	Enabled   bool      `db:"enabled"`
	Payload   []byte    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Get loads a vendor's weekly schedule. Returns sql.ErrNoRows when the
// vendor has never saved one.
func (r *WeeklyScheduleRepository) Get(ctx context.Context, vendorID string) (*models.WeeklySchedule, error) {
	const query = `SELECT vendor_id, enabled, payload, updated_at FROM weekly_schedules WHERE vendor_id = $1`
	var row weeklyScheduleRow
	if err := r.db.GetContext(ctx, &row, query, vendorID); err != nil {
		return nil, err
	}

	var ws models.WeeklySchedule
	if err := json.Unmarshal(row.Payload, &ws); err != nil {
		return nil, fmt.Errorf("unmarshal weekly schedule for %s: %w", vendorID, err)
	}
	return &ws, nil
}

// Upsert stores the vendor's weekly schedule, replacing any previous one.
func (r *WeeklyScheduleRepository) Upsert(ctx context.Context, vendorID string, ws models.WeeklySchedule) error {
	payload, err := json.Marshal(ws)
	if err != nil {
		return fmt.Errorf("marshal weekly schedule for %s: %w", vendorID, err)
	}

	const query = `INSERT INTO weekly_schedules (vendor_id, enabled, payload, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (vendor_id) DO UPDATE SET enabled = EXCLUDED.enabled, payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, vendorID, ws.Enabled, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert weekly schedule: %w", err)
	}
	return nil
}

// Delete removes the vendor's weekly schedule.
func (r *WeeklyScheduleRepository) Delete(ctx context.Context, vendorID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM weekly_schedules WHERE vendor_id = $1`, vendorID); err != nil {
		return fmt.Errorf("delete weekly schedule: %w", err)
	}
	return nil
}
