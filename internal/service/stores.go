package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/septivank/energy-insights/internal/db"
	"github.com/septivank/energy-insights/internal/mq"
)

// DeviceStore persists user devices and the analyses they may be seeded from
type DeviceStore interface {
	CreateDevice(ctx context.Context, device *db.Device) error
	ListActiveDevices(ctx context.Context, userID uuid.UUID) ([]db.Device, error)
	GetDevice(ctx context.Context, userID, deviceID uuid.UUID) (*db.Device, error)
	UpdateDevice(ctx context.Context, userID, deviceID uuid.UUID, upd db.DeviceUpdate) (*db.Device, error)
	DeactivateDevice(ctx context.Context, userID, deviceID uuid.UUID) error
	GetDeviceAnalysis(ctx context.Context, userID, analysisID uuid.UUID) (*db.DeviceAnalysis, error)
}

// BillStore reads stored bills
type BillStore interface {
	ListBills(ctx context.Context, userID uuid.UUID) ([]db.Bill, error)
	GetBill(ctx context.Context, userID, billID uuid.UUID) (*db.Bill, error)
}

// ProfileStore persists household profiles
type ProfileStore interface {
	GetHouseholdProfile(ctx context.Context, userID uuid.UUID) (*db.HouseholdProfile, error)
	UpsertHouseholdProfile(ctx context.Context, profile *db.HouseholdProfile) error
}

// ScanStore records scan results
type ScanStore interface {
	InsertBill(ctx context.Context, bill *db.Bill) error
	InsertDeviceAnalysis(ctx context.Context, analysis *db.DeviceAnalysis) error
}

// ViewCache caches computed views per user
type ViewCache interface {
	Get(ctx context.Context, view string, userID uuid.UUID, dst any) (bool, error)
	Set(ctx context.Context, view string, userID uuid.UUID, value any) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// EventPublisher announces refreshed insights
type EventPublisher interface {
	PublishInsightsRefreshed(ctx context.Context, event mq.InsightsRefreshedEvent) error
}
