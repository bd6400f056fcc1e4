package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/septivank/energy-insights/internal/cache"
	"github.com/septivank/energy-insights/internal/insights"
	"github.com/septivank/energy-insights/internal/logging"
	"github.com/septivank/energy-insights/internal/metrics"
	"go.uber.org/zap"
)

// InsightsService loads a user's records, runs the engine and caches the views.
// Cache failures are logged and never fail a request.
type InsightsService struct {
	devices  DeviceStore
	bills    BillStore
	profiles ProfileStore
	engine   *insights.Engine
	cache    ViewCache
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewInsightsService creates a new insights service
func NewInsightsService(
	devices DeviceStore,
	bills BillStore,
	profiles ProfileStore,
	engine *insights.Engine,
	viewCache ViewCache,
	m *metrics.Metrics,
	logger *zap.Logger,
) *InsightsService {
	return &InsightsService{
		devices:  devices,
		bills:    bills,
		profiles: profiles,
		engine:   engine,
		cache:    viewCache,
		metrics:  m,
		logger:   logger,
	}
}

// DeviceInsights returns the device insights view for the user
func (s *InsightsService) DeviceInsights(ctx context.Context, userID uuid.UUID) (insights.DeviceInsights, error) {
	var view insights.DeviceInsights
	if s.cached(ctx, cache.ViewDeviceInsights, userID, &view) {
		return view, nil
	}

	view, err := s.computeDeviceInsights(ctx, userID)
	if err != nil {
		return insights.DeviceInsights{}, err
	}

	s.store(ctx, cache.ViewDeviceInsights, userID, view)
	return view, nil
}

// DashboardStats returns the dashboard view for the user
func (s *InsightsService) DashboardStats(ctx context.Context, userID uuid.UUID) (insights.DashboardStats, error) {
	var stats insights.DashboardStats
	if s.cached(ctx, cache.ViewDashboard, userID, &stats) {
		return stats, nil
	}

	stats, err := s.computeDashboard(ctx, userID)
	if err != nil {
		return insights.DashboardStats{}, err
	}

	s.store(ctx, cache.ViewDashboard, userID, stats)
	return stats, nil
}

// Refresh drops the user's cached views and recomputes the dashboard
func (s *InsightsService) Refresh(ctx context.Context, userID uuid.UUID) (insights.DashboardStats, error) {
	s.Invalidate(ctx, userID)

	stats, err := s.computeDashboard(ctx, userID)
	if err != nil {
		return insights.DashboardStats{}, err
	}

	s.store(ctx, cache.ViewDashboard, userID, stats)
	return stats, nil
}

// Invalidate drops the user's cached views
func (s *InsightsService) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logging.WithUserID(s.logger, userID).Warn("failed to invalidate cached views", zap.Error(err))
	}
}

func (s *InsightsService) computeDeviceInsights(ctx context.Context, userID uuid.UUID) (insights.DeviceInsights, error) {
	start := time.Now()

	devices, err := s.devices.ListActiveDevices(ctx, userID)
	if err != nil {
		return insights.DeviceInsights{}, fmt.Errorf("failed to load devices: %w", err)
	}
	profile, err := s.profiles.GetHouseholdProfile(ctx, userID)
	if err != nil {
		return insights.DeviceInsights{}, fmt.Errorf("failed to load household profile: %w", err)
	}

	view := s.engine.DeviceInsights(userID, devices, profile)
	s.metrics.ObserveView(cache.ViewDeviceInsights, time.Since(start))
	return view, nil
}

func (s *InsightsService) computeDashboard(ctx context.Context, userID uuid.UUID) (insights.DashboardStats, error) {
	start := time.Now()

	devices, err := s.devices.ListActiveDevices(ctx, userID)
	if err != nil {
		return insights.DashboardStats{}, fmt.Errorf("failed to load devices: %w", err)
	}
	bills, err := s.bills.ListBills(ctx, userID)
	if err != nil {
		return insights.DashboardStats{}, fmt.Errorf("failed to load bills: %w", err)
	}
	profile, err := s.profiles.GetHouseholdProfile(ctx, userID)
	if err != nil {
		return insights.DashboardStats{}, fmt.Errorf("failed to load household profile: %w", err)
	}

	stats := s.engine.DashboardStats(userID, devices, bills, profile)
	s.metrics.ObserveView(cache.ViewDashboard, time.Since(start))
	return stats, nil
}

func (s *InsightsService) cached(ctx context.Context, view string, userID uuid.UUID, dst any) bool {
	hit, err := s.cache.Get(ctx, view, userID, dst)
	switch {
	case err != nil:
		s.metrics.CacheResult(view, metrics.CacheError)
		logging.WithUserID(s.logger, userID).Warn("view cache read failed", zap.String("view", view), zap.Error(err))
		return false
	case hit:
		s.metrics.CacheResult(view, metrics.CacheHit)
		return true
	default:
		s.metrics.CacheResult(view, metrics.CacheMiss)
		return false
	}
}

func (s *InsightsService) store(ctx context.Context, view string, userID uuid.UUID, value any) {
	if err := s.cache.Set(ctx, view, userID, value); err != nil {
		logging.WithUserID(s.logger, userID).Warn("view cache write failed", zap.String("view", view), zap.Error(err))
	}
}
