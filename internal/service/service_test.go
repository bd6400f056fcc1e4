package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/septivank/energy-insights/internal/db"
	"github.com/septivank/energy-insights/internal/insights"
	"github.com/septivank/energy-insights/internal/metrics"
	"github.com/septivank/energy-insights/internal/repository"
	"github.com/septivank/energy-insights/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type harness struct {
	store     *memStore
	cache     *memCache
	publisher *recordingPublisher
	insights  *InsightsService
	devices   *DeviceService
	bills     *BillService
	profiles  *ProfileService
	scans     *ScanProcessor
}

func newHarness() *harness {
	store := newMemStore()
	viewCache := newMemCache()
	publisher := &recordingPublisher{}
	v := validator.NewValidator(validator.DefaultTariffs)
	m := metrics.New("test")
	logger := zap.NewNop()

	engine := insights.NewEngine(func() time.Time {
		return time.Date(2025, time.October, 15, 0, 0, 0, 0, time.UTC)
	})
	insightsService := NewInsightsService(store, store, store, engine, viewCache, m, logger)

	return &harness{
		store:     store,
		cache:     viewCache,
		publisher: publisher,
		insights:  insightsService,
		devices:   NewDeviceService(store, v, insightsService, logger),
		bills:     NewBillService(store, store),
		profiles:  NewProfileService(store, v, insightsService),
		scans:     NewScanProcessor(store, v, insightsService, publisher, m, logger),
	}
}

func str(s string) *string { return &s }

func TestInsightsService_CachesUntilInvalidated(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	userID := uuid.New()

	_, err := h.devices.Create(ctx, userID, validator.DeviceInput{Name: "TV", Category: "tv", EstimatedAnnualCost: str("$60")})
	require.NoError(t, err)

	first, err := h.insights.DeviceInsights(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalDevices)

	calls := h.store.listCalls
	second, err := h.insights.DeviceInsights(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, calls, h.store.listCalls, "second read should be served from cache")
	assert.Equal(t, 60.0, *second.Summary.EstimatedAnnualCost)

	_, err = h.devices.Create(ctx, userID, validator.DeviceInput{Name: "Router", Category: "router"})
	require.NoError(t, err)

	third, err := h.insights.DeviceInsights(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, third.TotalDevices)
}

func TestInsightsService_CacheFailureFallsBackToCompute(t *testing.T) {
	h := newHarness()
	h.cache.failGet = true

	stats, err := h.insights.DashboardStats(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, insights.NoDashboardMessage, stats.Summary.Message)
}

func TestInsightsService_StoreFailure(t *testing.T) {
	h := newHarness()
	h.store.failList = errors.New("[DATABASE] connection reset")

	_, err := h.insights.DashboardStats(context.Background(), uuid.New())

	assert.ErrorContains(t, err, "failed to load devices")
}

func TestDeviceService_SeedsFromAnalysis(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	userID := uuid.New()

	analysis := &db.DeviceAnalysis{
		UserID:              userID,
		Category:            "refrigerator",
		Brand:               str("LG"),
		DailyKWh:            str("1.2"),
		EstimatedAnnualCost: str("$65"),
		Tips:                []string{"Check the door seals"},
	}
	require.NoError(t, h.store.InsertDeviceAnalysis(ctx, analysis))

	device, err := h.devices.Create(ctx, userID, validator.DeviceInput{
		DeviceAnalysisID: &analysis.ID,
		Name:             "Fridge",
		Category:         "refrigerator",
		Brand:            str("Samsung"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Samsung", *device.Brand)
	assert.Equal(t, "1.2", *device.DailyKWh)
	assert.Equal(t, "$65", *device.EstimatedAnnualCost)
	assert.Equal(t, []string{"Check the door seals"}, device.Tips)
}

func TestDeviceService_RejectsForeignAnalysis(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	analysis := &db.DeviceAnalysis{UserID: uuid.New(), Category: "tv"}
	require.NoError(t, h.store.InsertDeviceAnalysis(ctx, analysis))

	_, err := h.devices.Create(ctx, uuid.New(), validator.DeviceInput{DeviceAnalysisID: &analysis.ID, Name: "TV", Category: "tv"})

	var verr *validator.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "device_analysis_id", verr.Errors[0].Field)
}

func TestDeviceService_UpdateAndDelete(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	userID := uuid.New()

	device, err := h.devices.Create(ctx, userID, validator.DeviceInput{Name: "Dryer", Category: "dryer", Location: str("Basement")})
	require.NoError(t, err)

	var in validator.DeviceUpdateInput
	require.NoError(t, json.Unmarshal([]byte(`{"device_name": "Tumble dryer", "location": null}`), &in))

	updated, err := h.devices.Update(ctx, userID, device.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Tumble dryer", updated.Name)
	assert.Nil(t, updated.Location)

	_, err = h.devices.Update(ctx, uuid.New(), device.ID, in)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, h.devices.Delete(ctx, userID, device.ID))

	devices, err := h.devices.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, devices)

	stored, err := h.devices.Get(ctx, userID, device.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestDeviceService_Categories(t *testing.T) {
	h := newHarness()

	categories := h.devices.Categories()
	categories[0] = "changed"

	assert.Equal(t, "laptop", h.devices.Categories()[0])
	assert.Len(t, categories, 15)
}

func TestProfileService_GetAndUpdate(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	userID := uuid.New()

	empty, err := h.profiles.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, empty.UserID)
	assert.Nil(t, empty.HeatingType)

	updated, err := h.profiles.Update(ctx, userID, validator.HouseholdInput{HeatingType: str("electric")})
	require.NoError(t, err)
	assert.Equal(t, "electric", *updated.HeatingType)
	assert.Equal(t, 1, h.cache.invalidations)

	_, err = h.profiles.Update(ctx, userID, validator.HouseholdInput{HeatingType: str("coal")})
	var verr *validator.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestBillService_Breakdown(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	userID := uuid.New()

	total := 300.0
	bill := &db.Bill{UserID: userID, TotalKWh: &total}
	require.NoError(t, h.store.InsertBill(ctx, bill))
	_, err := h.devices.Create(ctx, userID, validator.DeviceInput{Name: "Fridge", Category: "refrigerator", DailyKWh: str("1.5")})
	require.NoError(t, err)

	view, err := h.bills.Breakdown(ctx, userID, bill.ID)
	require.NoError(t, err)
	require.NotNil(t, view.DeviceShare)
	assert.Equal(t, 15, *view.DeviceShare)

	summaries, err := h.bills.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, summaries, 1)

	_, err = h.bills.Breakdown(ctx, uuid.New(), bill.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
