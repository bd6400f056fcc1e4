package insights

import (
	"time"

	"github.com/google/uuid"
	"github.com/septivank/energy-insights/internal/recommend"
	"github.com/septivank/energy-insights/internal/trend"
)

// Numeric pointers are nil when the underlying data is unknown; they are
// never filled with a zero that could be mistaken for a measurement.

// DeviceInsights is the view served to the device-collection surface.
type DeviceInsights struct {
	TotalDevices     int                        `json:"total_devices"`
	Message          string                     `json:"message,omitempty"`
	Summary          *DeviceSummary             `json:"summary,omitempty"`
	Breakdown        *Breakdown                 `json:"breakdown,omitempty"`
	HighestConsumers []Consumer                 `json:"highest_consumers,omitempty"`
	Household        *Household                 `json:"household_info,omitempty"`
	Recommendations  []recommend.Recommendation `json:"recommendations,omitempty"`
	PotentialSavings *PotentialSavings          `json:"potential_savings,omitempty"`
	GeneratedAt      time.Time                  `json:"generated_at"`
}

type DeviceSummary struct {
	TotalDevices         int      `json:"total_devices"`
	EstimatedDailyKWh    *float64 `json:"estimated_daily_kwh"`
	EstimatedAnnualKWh   *float64 `json:"estimated_annual_kwh"`
	EstimatedAnnualCost  *float64 `json:"estimated_annual_cost"`
	AverageCostPerDevice *float64 `json:"average_cost_per_device"`
}

type Breakdown struct {
	ByCategory []GroupStat `json:"by_category"`
	ByLocation []GroupStat `json:"by_location,omitempty"`
}

// GroupStat is one category or location bucket.
type GroupStat struct {
	Name        string   `json:"name"`
	Count       int      `json:"count"`
	MonthlyCost *float64 `json:"monthly_cost"`
	MonthlyKWh  *float64 `json:"monthly_kwh"`
}

// Consumer is a ranked device. Measurement strings are echoed as stored.
type Consumer struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Category            string    `json:"category"`
	DailyKWh            string    `json:"daily_kwh"`
	AnnualKWh           string    `json:"annual_kwh"`
	EstimatedAnnualCost string    `json:"estimated_annual_cost"`
	MonthlyCost         *float64  `json:"monthly_cost"`
}

type Household struct {
	PropertyOwnership *string `json:"property_ownership"`
	PropertyType      *string `json:"property_type"`
	Occupants         *int    `json:"occupants"`
	Bedrooms          *int    `json:"bedrooms"`
	HeatingType       *string `json:"heating_type"`
	PropertyAge       *string `json:"property_age"`
}

type PotentialSavings struct {
	Message                string   `json:"message"`
	EstimatedAnnualSavings *float64 `json:"estimated_annual_savings"`
}

// DashboardStats is the view served to the dashboard surface.
type DashboardStats struct {
	Summary         DashboardSummary           `json:"summary"`
	LatestBill      *LatestBill                `json:"latest_bill"`
	DeviceBreakdown DeviceBreakdown            `json:"device_breakdown"`
	Insights        []recommend.Recommendation `json:"insights"`
	QuickStats      QuickStats                 `json:"quick_stats"`
	GeneratedAt     time.Time                  `json:"generated_at"`
}

type DashboardSummary struct {
	TotalDevices         int      `json:"total_devices"`
	TotalBillsAnalyzed   int      `json:"total_bills_analyzed"`
	EstimatedMonthlyCost *float64 `json:"estimated_monthly_cost"`
	EstimatedMonthlyKWh  *float64 `json:"estimated_monthly_kwh"`
	Message              string   `json:"message,omitempty"`
}

type LatestBill struct {
	ID               uuid.UUID  `json:"id"`
	Month            *string    `json:"month"`
	TotalKWh         *float64   `json:"total_kwh"`
	TotalCost        *float64   `json:"total_cost"`
	AnalyzedAt       time.Time  `json:"analyzed_at"`
	ConsumptionTrend *TrendView `json:"consumption_trend"`
	CostTrend        *TrendView `json:"cost_trend"`
}

type TrendView struct {
	Percentage float64         `json:"percentage"`
	Direction  trend.Direction `json:"direction"`
	Message    string          `json:"message"`
}

type DeviceBreakdown struct {
	ByCategory   []GroupStat `json:"by_category"`
	TopConsumers []Consumer  `json:"top_consumers"`
}

type QuickStats struct {
	DaytimeUsage   *UsageSnapshot `json:"daytime_usage"`
	NighttimeUsage *UsageSnapshot `json:"nighttime_usage"`
}

// UsageSnapshot is one tariff bucket of the latest bill.
type UsageSnapshot struct {
	KWh        *float64 `json:"kwh"`
	Cost       *float64 `json:"cost"`
	Percentage *float64 `json:"percentage"`
}

// BillSummary is the list entry for a stored bill.
type BillSummary struct {
	ID         uuid.UUID `json:"id"`
	Month      *string   `json:"month"`
	TotalKWh   *float64  `json:"total_kwh"`
	TotalCost  *float64  `json:"total_cost"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// BillBreakdown is the detailed tariff and cost view of one bill.
type BillBreakdown struct {
	BillID          uuid.UUID        `json:"bill_id"`
	TotalKWh        *float64         `json:"total_kwh"`
	Tariffs         []TariffRow      `json:"tariffs"`
	Costs           CostBreakdown    `json:"cost_breakdown"`
	YourDevices     []DeviceEstimate `json:"your_devices"`
	DeviceShare     *int             `json:"device_share_percentage"`
	Recommendations []string         `json:"recommendations"`
}

type TariffRow struct {
	Name        string   `json:"name"`
	KWh         *float64 `json:"kwh"`
	PricePerKWh *float64 `json:"price_per_kwh"`
	Cost        *float64 `json:"total_cost"`
	Percentage  *float64 `json:"percentage"`
}

type CostBreakdown struct {
	EnergyCosts *float64 `json:"energy_costs"`
	FixedCharge *float64 `json:"standing_charge"`
	Subtotal    *float64 `json:"subtotal"`
	Tax         *float64 `json:"vat"`
	Total       *float64 `json:"total"`
	Debt        *float64 `json:"outstanding_debt"`
}

// DeviceEstimate is a device's estimated monthly cost next to a bill.
// EstimatedMonthlyCost is "N/A" when the device has no cost estimate.
type DeviceEstimate struct {
	Name                 string `json:"name"`
	Category             string `json:"category"`
	EstimatedMonthlyCost string `json:"estimated_monthly_cost"`
}
