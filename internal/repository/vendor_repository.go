package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/streetfare/schedule-api/internal/models"
)

// VendorRepository provides persistence for vendor accounts.
type VendorRepository struct {
	db *sqlx.DB
}

// NewVendorRepository creates a new vendor repository.
func NewVendorRepository(db *sqlx.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

// FindByEmail loads a vendor by email.
func (r *VendorRepository) FindByEmail(ctx context.Context, email string) (*models.Vendor, error) {
	const query = `SELECT id, email, password_hash, name, active, last_login, created_at, updated_at FROM vendors WHERE email = $1`
	var vendor models.Vendor
	if err := r.db.GetContext(ctx, &vendor, query, email); err != nil {
		return nil, err
	}
	return &vendor, nil
}

// FindByID loads a vendor by id.
func (r *VendorRepository) FindByID(ctx context.Context, id string) (*models.Vendor, error) {
	const query = `SELECT id, email, password_hash, name, active, last_login, created_at, updated_at FROM vendors WHERE id = $1`
	var vendor models.Vendor
	if err := r.db.GetContext(ctx, &vendor, query, id); err != nil {
		return nil, err
	}
	return &vendor, nil
}

// Create stores a new vendor record.
func (r *VendorRepository) Create(ctx context.Context, vendor *models.Vendor) error {
	if vendor.ID == "" {
		vendor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if vendor.CreatedAt.IsZero() {
		vendor.CreatedAt = now
	}
	vendor.UpdatedAt = now

	const query = `INSERT INTO vendors (id, email, password_hash, name, active, created_at, updated_at) VALUES (:id, :email, :password_hash, :name, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, vendor); err != nil {
		return fmt.Errorf("create vendor: %w", err)
	}
	return nil
}

// UpdateLastLogin records the most recent successful login.
func (r *VendorRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE vendors SET last_login = $2, updated_at = $2 WHERE id = $1`, id, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}
