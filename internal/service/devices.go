package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/septivank/energy-insights/internal/db"
	"github.com/septivank/energy-insights/internal/logging"
	"github.com/septivank/energy-insights/internal/repository"
	"github.com/septivank/energy-insights/internal/validator"
	"go.uber.org/zap"
)

// DeviceService manages the user's device inventory. Every write drops the
// user's cached views.
type DeviceService struct {
	store     DeviceStore
	validator *validator.Validator
	insights  *InsightsService
	logger    *zap.Logger
}

// NewDeviceService creates a new device service
func NewDeviceService(store DeviceStore, v *validator.Validator, insightsService *InsightsService, logger *zap.Logger) *DeviceService {
	return &DeviceService{
		store:     store,
		validator: v,
		insights:  insightsService,
		logger:    logger,
	}
}

// Categories returns the fixed device category list
func (s *DeviceService) Categories() []string {
	return append([]string(nil), validator.DeviceCategories...)
}

// Create validates and stores a new device, seeding absent fields from the
// referenced device analysis.
func (s *DeviceService) Create(ctx context.Context, userID uuid.UUID, in validator.DeviceInput) (*db.Device, error) {
	device, err := s.validator.ValidateDevice(userID, in)
	if err != nil {
		return nil, err
	}

	if device.DeviceAnalysisID != nil {
		analysis, err := s.store.GetDeviceAnalysis(ctx, userID, *device.DeviceAnalysisID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &validator.ValidationError{Errors: []validator.FieldError{{
				Field:   "device_analysis_id",
				Code:    "invalid_device_analysis_id",
				Message: "does not exist",
			}}}
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load device analysis: %w", err)
		}
		seedFromAnalysis(device, analysis)
	}

	if err := s.store.CreateDevice(ctx, device); err != nil {
		return nil, err
	}

	s.insights.Invalidate(ctx, userID)
	logging.WithUserID(s.logger, userID).Info("device saved",
		zap.String("device_id", device.ID.String()),
		zap.String("category", device.Category),
	)
	return device, nil
}

// List returns the user's active devices, newest first
func (s *DeviceService) List(ctx context.Context, userID uuid.UUID) ([]db.Device, error) {
	return s.store.ListActiveDevices(ctx, userID)
}

// Get returns one of the user's devices
func (s *DeviceService) Get(ctx context.Context, userID, deviceID uuid.UUID) (*db.Device, error) {
	return s.store.GetDevice(ctx, userID, deviceID)
}

// Update applies a partial update to one of the user's devices
func (s *DeviceService) Update(ctx context.Context, userID, deviceID uuid.UUID, in validator.DeviceUpdateInput) (*db.Device, error) {
	upd, err := s.validator.ValidateDeviceUpdate(in)
	if err != nil {
		return nil, err
	}

	device, err := s.store.UpdateDevice(ctx, userID, deviceID, upd)
	if err != nil {
		return nil, err
	}

	s.insights.Invalidate(ctx, userID)
	return device, nil
}

// Delete soft deletes one of the user's devices
func (s *DeviceService) Delete(ctx context.Context, userID, deviceID uuid.UUID) error {
	if err := s.store.DeactivateDevice(ctx, userID, deviceID); err != nil {
		return err
	}

	s.insights.Invalidate(ctx, userID)
	logging.WithUserID(s.logger, userID).Info("device removed", zap.String("device_id", deviceID.String()))
	return nil
}

func seedFromAnalysis(d *db.Device, a *db.DeviceAnalysis) {
	d.Brand = firstPresent(d.Brand, a.Brand)
	d.Model = firstPresent(d.Model, a.Model)
	d.TypicalWattage = firstPresent(d.TypicalWattage, a.TypicalWattage)
	d.DailyKWh = firstPresent(d.DailyKWh, a.DailyKWh)
	d.AnnualKWh = firstPresent(d.AnnualKWh, a.AnnualKWh)
	d.EstimatedAnnualCost = firstPresent(d.EstimatedAnnualCost, a.EstimatedAnnualCost)
	if len(d.Tips) == 0 && len(a.Tips) > 0 {
		d.Tips = append([]string(nil), a.Tips...)
	}
}

func firstPresent(own, seed *string) *string {
	if own != nil {
		return own
	}
	return seed
}
