package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/septivank/energy-insights/internal/db"
	"github.com/septivank/energy-insights/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRepository connects to TEST_DATABASE_URL, skipping when it is unset.
func newTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.EnsureSchema(ctx, pool))
	return repository.NewRepository(pool)
}

func str(s string) *string { return &s }

func TestDevices_Lifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	userID := uuid.New()

	device := &db.Device{
		UserID:              userID,
		Name:                "Fridge",
		Category:            "refrigerator",
		Location:            str("Kitchen"),
		EstimatedAnnualCost: str("$120"),
		Tips:                []string{"Keep the door closed"},
		IsActive:            true,
	}
	require.NoError(t, repo.CreateDevice(ctx, device))
	require.NotEqual(t, uuid.Nil, device.ID)

	devices, err := repo.ListActiveDevices(ctx, userID)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, []string{"Keep the door closed"}, devices[0].Tips)

	updated, err := repo.UpdateDevice(ctx, userID, device.ID, db.DeviceUpdate{Name: str("Big fridge"), ClearLocation: true})
	require.NoError(t, err)
	assert.Equal(t, "Big fridge", updated.Name)
	assert.Nil(t, updated.Location)

	_, err = repo.GetDevice(ctx, uuid.New(), device.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.DeactivateDevice(ctx, userID, device.ID))

	devices, err = repo.ListActiveDevices(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, devices)

	stored, err := repo.GetDevice(ctx, userID, device.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestBills_InsertAndList(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	userID := uuid.New()

	total := 300.0
	for _, label := range []string{"October 2025", "November 2025"} {
		bill := &db.Bill{UserID: userID, ImagePath: "bill.jpg", PeriodLabel: str(label), TotalKWh: &total, Insights: []string{"tip"}}
		require.NoError(t, repo.InsertBill(ctx, bill))
	}

	bills, err := repo.ListBills(ctx, userID)
	require.NoError(t, err)
	require.Len(t, bills, 2)
	assert.Equal(t, "November 2025", *bills[0].PeriodLabel)
	assert.Equal(t, 300.0, *bills[0].TotalKWh)
	assert.Nil(t, bills[0].BillTotal)

	_, err = repo.GetBill(ctx, uuid.New(), bills[0].ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestHouseholdProfile_Upsert(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	userID := uuid.New()

	profile, err := repo.GetHouseholdProfile(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, profile)

	occupants := 3
	require.NoError(t, repo.UpsertHouseholdProfile(ctx, &db.HouseholdProfile{UserID: userID, HeatingType: str("gas"), Occupants: &occupants}))
	require.NoError(t, repo.UpsertHouseholdProfile(ctx, &db.HouseholdProfile{UserID: userID, HeatingType: str("heat_pump"), Occupants: &occupants}))

	profile, err = repo.GetHouseholdProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "heat_pump", *profile.HeatingType)
	assert.Equal(t, 3, *profile.Occupants)
}

func TestDeviceAnalysis_InsertAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	userID := uuid.New()

	analysis := &db.DeviceAnalysis{
		UserID:        userID,
		ImagePath:     "devices/tv.jpg",
		Category:      "tv",
		FallbackLevel: "category",
		DailyKWh:      str("0.24-0.40"),
		Tips:          []string{"Lower the brightness"},
		RawResponse:   []byte(`{"device":{"category":"tv"}}`),
	}
	require.NoError(t, repo.InsertDeviceAnalysis(ctx, analysis))

	stored, err := repo.GetDeviceAnalysis(ctx, userID, analysis.ID)
	require.NoError(t, err)
	assert.Equal(t, "category", stored.FallbackLevel)
	assert.Equal(t, "0.24-0.40", *stored.DailyKWh)
	assert.Equal(t, []string{"Lower the brightness"}, stored.Tips)

	_, err = repo.GetDeviceAnalysis(ctx, uuid.New(), analysis.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
