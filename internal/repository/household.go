package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/septivank/energy-insights/internal/db"
)

// GetHouseholdProfile returns the user's household profile, or nil when none was saved
func (r *Repository) GetHouseholdProfile(ctx context.Context, userID uuid.UUID) (*db.HouseholdProfile, error) {
	query := `
		SELECT user_id, property_ownership, house_type, occupants, bedrooms, heating_type, property_age
		FROM household_profiles
		WHERE user_id = $1
	`

	var p db.HouseholdProfile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.PropertyOwnership,
		&p.HouseType,
		&p.Occupants,
		&p.Bedrooms,
		&p.HeatingType,
		&p.PropertyAge,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query household profile: %w", err)
	}

	return &p, nil
}

// UpsertHouseholdProfile stores the complete profile
func (r *Repository) UpsertHouseholdProfile(ctx context.Context, p *db.HouseholdProfile) error {
	query := `
		INSERT INTO household_profiles (
			user_id, property_ownership, house_type, occupants, bedrooms, heating_type, property_age, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			property_ownership = EXCLUDED.property_ownership,
			house_type = EXCLUDED.house_type,
			occupants = EXCLUDED.occupants,
			bedrooms = EXCLUDED.bedrooms,
			heating_type = EXCLUDED.heating_type,
			property_age = EXCLUDED.property_age,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		p.UserID,
		p.PropertyOwnership,
		p.HouseType,
		p.Occupants,
		p.Bedrooms,
		p.HeatingType,
		p.PropertyAge,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert household profile: %w", err)
	}

	return nil
}
