package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/septivank/energy-insights/internal/db"
)

// InsertDeviceAnalysis inserts a device analysis and fills its generated fields
func (r *Repository) InsertDeviceAnalysis(ctx context.Context, a *db.DeviceAnalysis) error {
	query := `
		INSERT INTO device_analyses (
			user_id, image_path, category, brand, model, confidence_level, fallback_level,
			typical_wattage, daily_kwh, annual_kwh, estimated_annual_cost, tips, raw_response
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`

	tips := a.Tips
	if tips == nil {
		tips = []string{}
	}

	err := r.pool.QueryRow(ctx, query,
		a.UserID,
		a.ImagePath,
		a.Category,
		a.Brand,
		a.Model,
		a.ConfidenceLevel,
		a.FallbackLevel,
		a.TypicalWattage,
		a.DailyKWh,
		a.AnnualKWh,
		a.EstimatedAnnualCost,
		tips,
		a.RawResponse,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert device analysis: %w", err)
	}

	return nil
}

// GetDeviceAnalysis returns one of the user's device analyses
func (r *Repository) GetDeviceAnalysis(ctx context.Context, userID, analysisID uuid.UUID) (*db.DeviceAnalysis, error) {
	query := `
		SELECT id, user_id, image_path, category, brand, model, confidence_level, fallback_level,
			typical_wattage, daily_kwh, annual_kwh, estimated_annual_cost, tips, raw_response, created_at
		FROM device_analyses
		WHERE id = $1 AND user_id = $2
	`

	var a db.DeviceAnalysis
	err := r.pool.QueryRow(ctx, query, analysisID, userID).Scan(
		&a.ID,
		&a.UserID,
		&a.ImagePath,
		&a.Category,
		&a.Brand,
		&a.Model,
		&a.ConfidenceLevel,
		&a.FallbackLevel,
		&a.TypicalWattage,
		&a.DailyKWh,
		&a.AnnualKWh,
		&a.EstimatedAnnualCost,
		&a.Tips,
		&a.RawResponse,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err, "device analysis")
	}

	return &a, nil
}
