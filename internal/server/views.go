package server

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/septivank/energy-insights/internal/db"
)

type deviceResponse struct {
	ID                  uuid.UUID  `json:"id"`
	DeviceAnalysisID    *uuid.UUID `json:"device_analysis_id"`
	Name                string     `json:"device_name"`
	Category            string     `json:"device_category"`
	Brand               *string    `json:"device_brand"`
	Model               *string    `json:"device_model"`
	Location            *string    `json:"location"`
	TypicalWattage      *string    `json:"typical_wattage"`
	DailyKWh            *string    `json:"daily_kwh"`
	AnnualKWh           *string    `json:"annual_kwh"`
	EstimatedAnnualCost *string    `json:"estimated_annual_cost"`
	Tips                []string   `json:"energy_saving_tips"`
	IsActive            bool       `json:"is_active"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func newDeviceResponse(d *db.Device) deviceResponse {
	tips := d.Tips
	if tips == nil {
		tips = []string{}
	}
	return deviceResponse{
		ID:                  d.ID,
		DeviceAnalysisID:    d.DeviceAnalysisID,
		Name:                d.Name,
		Category:            d.Category,
		Brand:               d.Brand,
		Model:               d.Model,
		Location:            d.Location,
		TypicalWattage:      d.TypicalWattage,
		DailyKWh:            d.DailyKWh,
		AnnualKWh:           d.AnnualKWh,
		EstimatedAnnualCost: d.EstimatedAnnualCost,
		Tips:                tips,
		IsActive:            d.IsActive,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}

type billConsumption struct {
	DayKWh       *float64 `json:"a1_b1_kwh"`
	NightKWh     *float64 `json:"a2_b1_kwh"`
	PeakDayKWh   *float64 `json:"a1_b2_kwh"`
	PeakNightKWh *float64 `json:"a2_b2_kwh"`
	TotalKWh     *float64 `json:"total_kwh"`
}

type billPricing struct {
	DayPrice       *float64 `json:"price_a1_b1"`
	NightPrice     *float64 `json:"price_a2_b1"`
	PeakDayPrice   *float64 `json:"price_a1_b2"`
	PeakNightPrice *float64 `json:"price_a2_b2"`
}

type billCosts struct {
	DayAmount       *float64 `json:"amount_a1_b1"`
	NightAmount     *float64 `json:"amount_a2_b1"`
	PeakDayAmount   *float64 `json:"amount_a1_b2"`
	PeakNightAmount *float64 `json:"amount_a2_b2"`
	FixedCharge     *float64 `json:"standing_charge"`
	NetTotal        *float64 `json:"net_total"`
	Tax             *float64 `json:"vat"`
	BillTotal       *float64 `json:"bill_total"`
	Debt            *float64 `json:"kesco_debt"`
}

type billResponse struct {
	ID              uuid.UUID       `json:"id"`
	BillMonth       *string         `json:"bill_month"`
	PeriodStart     *time.Time      `json:"period_start"`
	Consumption     billConsumption `json:"consumption"`
	Pricing         billPricing     `json:"pricing"`
	Costs           billCosts       `json:"costs"`
	Breakdown       json.RawMessage `json:"human_readable_breakdown,omitempty"`
	DeviceEstimates json.RawMessage `json:"device_estimates,omitempty"`
	Insights        []string        `json:"insights"`
	AnalyzedAt      time.Time       `json:"analyzed_at"`
}

func newBillResponse(b *db.Bill) billResponse {
	ins := b.Insights
	if ins == nil {
		ins = []string{}
	}
	return billResponse{
		ID:          b.ID,
		BillMonth:   b.PeriodLabel,
		PeriodStart: b.PeriodStart,
		Consumption: billConsumption{
			DayKWh:       b.DayKWh,
			NightKWh:     b.NightKWh,
			PeakDayKWh:   b.PeakDayKWh,
			PeakNightKWh: b.PeakNightKWh,
			TotalKWh:     b.TotalKWh,
		},
		Pricing: billPricing{
			DayPrice:       b.DayPrice,
			NightPrice:     b.NightPrice,
			PeakDayPrice:   b.PeakDayPrice,
			PeakNightPrice: b.PeakNightPrice,
		},
		Costs: billCosts{
			DayAmount:       b.DayAmount,
			NightAmount:     b.NightAmount,
			PeakDayAmount:   b.PeakDayAmount,
			PeakNightAmount: b.PeakNightAmount,
			FixedCharge:     b.FixedCharge,
			NetTotal:        b.NetTotal,
			Tax:             b.Tax,
			BillTotal:       b.BillTotal,
			Debt:            b.Debt,
		},
		Breakdown:       validJSON(b.Breakdown),
		DeviceEstimates: validJSON(b.DeviceEstimates),
		Insights:        ins,
		AnalyzedAt:      b.CreatedAt,
	}
}

// validJSON drops stored payloads that would corrupt the response body.
func validJSON(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || !json.Valid(raw) {
		return nil
	}
	return raw
}

type profileResponse struct {
	PropertyOwnership *string `json:"property_ownership"`
	HouseType         *string `json:"house_type"`
	Occupants         *int    `json:"number_of_occupants"`
	Bedrooms          *int    `json:"number_of_bedrooms"`
	HeatingType       *string `json:"heating_type"`
	PropertyAge       *string `json:"property_age"`
}

func newProfileResponse(p *db.HouseholdProfile) profileResponse {
	if p == nil {
		return profileResponse{}
	}
	return profileResponse{
		PropertyOwnership: p.PropertyOwnership,
		HouseType:         p.HouseType,
		Occupants:         p.Occupants,
		Bedrooms:          p.Bedrooms,
		HeatingType:       p.HeatingType,
		PropertyAge:       p.PropertyAge,
	}
}
