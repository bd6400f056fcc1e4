package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/septivank/energy-insights/internal/db"
)

const deviceColumns = `
	id, user_id, device_analysis_id, name, category, brand, model, location,
	typical_wattage, daily_kwh, annual_kwh, estimated_annual_cost, tips,
	is_active, created_at, updated_at`

func scanDevice(row pgx.Row) (*db.Device, error) {
	var d db.Device
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.DeviceAnalysisID,
		&d.Name,
		&d.Category,
		&d.Brand,
		&d.Model,
		&d.Location,
		&d.TypicalWattage,
		&d.DailyKWh,
		&d.AnnualKWh,
		&d.EstimatedAnnualCost,
		&d.Tips,
		&d.IsActive,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateDevice inserts a device and fills its generated fields
func (r *Repository) CreateDevice(ctx context.Context, device *db.Device) error {
	query := `
		INSERT INTO user_devices (
			user_id, device_analysis_id, name, category, brand, model, location,
			typical_wattage, daily_kwh, annual_kwh, estimated_annual_cost, tips, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	tips := device.Tips
	if tips == nil {
		tips = []string{}
	}

	err := r.pool.QueryRow(ctx, query,
		device.UserID,
		device.DeviceAnalysisID,
		device.Name,
		device.Category,
		device.Brand,
		device.Model,
		device.Location,
		device.TypicalWattage,
		device.DailyKWh,
		device.AnnualKWh,
		device.EstimatedAnnualCost,
		tips,
		device.IsActive,
	).Scan(&device.ID, &device.CreatedAt, &device.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert device: %w", err)
	}

	return nil
}

// ListActiveDevices returns the user's active devices, newest first
func (r *Repository) ListActiveDevices(ctx context.Context, userID uuid.UUID) ([]db.Device, error) {
	query := `SELECT ` + deviceColumns + `
		FROM user_devices
		WHERE user_id = $1 AND is_active
		ORDER BY created_at DESC, id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	defer rows.Close()

	devices := []db.Device{}
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return devices, nil
}

// GetDevice returns one of the user's devices, active or not
func (r *Repository) GetDevice(ctx context.Context, userID, deviceID uuid.UUID) (*db.Device, error) {
	query := `SELECT ` + deviceColumns + `
		FROM user_devices
		WHERE id = $1 AND user_id = $2
	`

	d, err := scanDevice(r.pool.QueryRow(ctx, query, deviceID, userID))
	if err != nil {
		return nil, notFound(err, "device")
	}
	return d, nil
}

// UpdateDevice applies a partial update and returns the stored device
func (r *Repository) UpdateDevice(ctx context.Context, userID, deviceID uuid.UUID, upd db.DeviceUpdate) (*db.Device, error) {
	query := `
		UPDATE user_devices
		SET name = COALESCE($3, name),
			location = CASE WHEN $4::boolean THEN NULL ELSE COALESCE($5, location) END,
			is_active = COALESCE($6, is_active),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + deviceColumns

	d, err := scanDevice(r.pool.QueryRow(ctx, query,
		deviceID,
		userID,
		upd.Name,
		upd.ClearLocation,
		upd.Location,
		upd.IsActive,
	))
	if err != nil {
		return nil, notFound(err, "device")
	}
	return d, nil
}

// DeactivateDevice soft deletes a device
func (r *Repository) DeactivateDevice(ctx context.Context, userID, deviceID uuid.UUID) error {
	query := `
		UPDATE user_devices
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, deviceID, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate device: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("device: %w", ErrNotFound)
	}
	return nil
}
