package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Device represents a user-owned appliance in the database.
// Energy fields are measurement strings; nil means unknown, not zero.
type Device struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	DeviceAnalysisID    *uuid.UUID
	Name                string
	Category            string
	Brand               *string
	Model               *string
	Location            *string
	TypicalWattage      *string
	DailyKWh            *string
	AnnualKWh           *string
	EstimatedAnnualCost *string
	Tips                []string
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// DeviceUpdate is a partial update; nil fields are left untouched.
type DeviceUpdate struct {
	Name     *string
	Location *string
	IsActive *bool
	// ClearLocation sets location to NULL when Location is nil.
	ClearLocation bool
}

// DeviceAnalysis is a stored vision-AI device result that a device may be seeded from
type DeviceAnalysis struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	ImagePath           string
	Category            string
	Brand               *string
	Model               *string
	ConfidenceLevel     *string
	FallbackLevel       string
	TypicalWattage      *string
	DailyKWh            *string
	AnnualKWh           *string
	EstimatedAnnualCost *string
	Tips                []string
	RawResponse         []byte
	CreatedAt           time.Time
}

// Bill represents one monthly utility bill snapshot.
// Tariff buckets: A1/B1 daytime, A2/B1 nighttime, A1/B2 peak daytime, A2/B2 peak nighttime.
type Bill struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	ImagePath       string
	PeriodLabel     *string
	PeriodStart     *time.Time
	TotalKWh        *float64
	DayKWh          *float64
	NightKWh        *float64
	PeakDayKWh      *float64
	PeakNightKWh    *float64
	DayPrice        *float64
	NightPrice      *float64
	PeakDayPrice    *float64
	PeakNightPrice  *float64
	DayAmount       *float64
	NightAmount     *float64
	PeakDayAmount   *float64
	PeakNightAmount *float64
	FixedCharge     *float64
	NetTotal        *float64
	Tax             *float64
	BillTotal       *float64
	Debt            *float64

	// Opaque AI-authored payloads, never parsed by the engine.
	Breakdown       json.RawMessage
	DeviceEstimates json.RawMessage
	Insights        []string
	RawResponse     []byte

	CreatedAt time.Time
}

// HouseholdProfile holds the household metadata attached to a user
type HouseholdProfile struct {
	UserID            uuid.UUID
	PropertyOwnership *string
	HouseType         *string
	Occupants         *int
	Bedrooms          *int
	HeatingType       *string
	PropertyAge       *string
}
