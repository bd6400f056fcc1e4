package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/septivank/energy-insights/internal/db"
	"github.com/septivank/energy-insights/internal/validator"
)

// ProfileService reads and updates household profiles
type ProfileService struct {
	store     ProfileStore
	validator *validator.Validator
	insights  *InsightsService
}

// NewProfileService creates a new profile service
func NewProfileService(store ProfileStore, v *validator.Validator, insightsService *InsightsService) *ProfileService {
	return &ProfileService{store: store, validator: v, insights: insightsService}
}

// Get returns the user's profile; a user without one gets an empty profile
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*db.HouseholdProfile, error) {
	profile, err := s.store.GetHouseholdProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &db.HouseholdProfile{UserID: userID}
	}
	return profile, nil
}

// Update merges a partial update over the stored profile
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, in validator.HouseholdInput) (*db.HouseholdProfile, error) {
	current, err := s.store.GetHouseholdProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.validator.ApplyHousehold(userID, current, in)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpsertHouseholdProfile(ctx, profile); err != nil {
		return nil, err
	}

	s.insights.Invalidate(ctx, userID)
	return profile, nil
}
