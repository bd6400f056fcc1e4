// Package recommend applies the fixed battery of advisory rules to a user's
// aggregated state. Rules are evaluated independently and every match is
// emitted in rule order.
package recommend

import (
	"fmt"
	"strconv"
	"time"

	"github.com/septivank/energy-insights/internal/aggregate"
	"github.com/septivank/energy-insights/internal/db"
)

// Priority ranks an advisory item.
type Priority string

const (
	High   Priority = "high"
	Medium Priority = "medium"
	Low    Priority = "low"
)

// Rule thresholds.
const (
	OnboardingDeviceTarget    = 5
	DaytimeShareThreshold     = 70.0
	ShiftableDaytimeFraction  = 0.30
	HighCostMonthlyThreshold  = 10.0
	HighAnnualCostThreshold   = 500.0
	AirConditionerUpgradeOver = 2
	RefrigeratorDuplicateOver = 1
	GenericSavingsFraction    = 0.25

	CategoryAirConditioner = "air_conditioner"
	CategoryRefrigerator   = "refrigerator"
)

// Default KEDS unit prices used when a bill does not carry its own.
const (
	DefaultDayPrice       = 0.0779
	DefaultNightPrice     = 0.0334
	DefaultPeakDayPrice   = 0.1445
	DefaultPeakNightPrice = 0.0681
)

// Recommendation is one advisory item.
type Recommendation struct {
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Priority Priority `json:"priority"`
	Icon     string   `json:"icon,omitempty"`
}

// Input is the per-user state the rules are evaluated over.
type Input struct {
	Devices    []db.Device
	Totals     aggregate.Totals
	LatestBill *db.Bill
	Profile    *db.HouseholdProfile
	Month      time.Month
}

// Dashboard evaluates the onboarding, bill, high-cost and seasonal rules.
func Dashboard(in Input) []Recommendation {
	var out []Recommendation

	if r, ok := deviceOnboarding(in.Totals.Devices); ok {
		out = append(out, r)
	}
	if r, ok := billOnboarding(in.LatestBill); ok {
		out = append(out, r)
	}
	if r, ok := highCostDevices(in.Devices); ok {
		out = append(out, r)
	}
	if r, ok := seasonal(in.Month); ok {
		out = append(out, r)
	}

	return out
}

// DeviceInsights evaluates the rules of the per-device insights view. The
// general tip is always last.
func DeviceInsights(in Input) []Recommendation {
	var out []Recommendation

	if in.Totals.AnnualCost.Total > HighAnnualCostThreshold {
		out = append(out, Recommendation{
			Type:     "high_cost_alert",
			Title:    "High Energy Consumption Detected",
			Message:  "Your devices consume significant energy. Focus on the highest consumers first.",
			Priority: High,
		})
	}

	if aggregate.CountCategory(in.Devices, CategoryAirConditioner) > AirConditionerUpgradeOver {
		out = append(out, Recommendation{
			Type:     "heating_upgrade",
			Title:    "Consider Heat Pump Upgrade",
			Message:  "Switching to a heat pump could reduce heating costs by up to 50%.",
			Priority: Medium,
		})
	}

	if aggregate.CountCategory(in.Devices, CategoryRefrigerator) > RefrigeratorDuplicateOver {
		out = append(out, Recommendation{
			Type:     "appliance_optimization",
			Title:    "Multiple Refrigerators Detected",
			Message:  "Consider unplugging secondary refrigerators when not needed to save energy.",
			Priority: Medium,
		})
	}

	out = append(out, Recommendation{
		Type:     "general_tip",
		Title:    "Smart Power Strips",
		Message:  "Use smart power strips to eliminate phantom power draw from electronics.",
		Priority: Low,
	})

	return out
}

func deviceOnboarding(count int) (Recommendation, bool) {
	switch {
	case count == 0:
		return Recommendation{
			Type:     "action",
			Title:    "Start Tracking Devices",
			Message:  "Scan your devices to see which ones are using the most energy!",
			Priority: High,
			Icon:     "📸",
		}, true
	case count < OnboardingDeviceTarget:
		return Recommendation{
			Type:     "info",
			Title:    "Add More Devices",
			Message:  fmt.Sprintf("You have %d devices tracked. Scan more devices to get a complete picture of your energy usage.", count),
			Priority: Low,
			Icon:     "📱",
		}, true
	}
	return Recommendation{}, false
}

func billOnboarding(bill *db.Bill) (Recommendation, bool) {
	if bill == nil {
		return Recommendation{
			Type:     "action",
			Title:    "Upload Your KEDS Bill",
			Message:  "Upload a photo of your electricity bill to see detailed breakdowns and insights.",
			Priority: High,
			Icon:     "📄",
		}, true
	}

	share, ok := DaytimeShare(*bill)
	if !ok || share <= DaytimeShareThreshold {
		return Recommendation{}, false
	}

	savings := NightShiftSavings(*bill)
	return Recommendation{
		Type:  "savings",
		Title: "Shift to Nighttime Usage",
		Message: fmt.Sprintf(
			"You use %s%% of your electricity during the day. Try running heavy appliances (washing machine, dishwasher) between 22:00-06:00 to save approximately €%s per month.",
			strconv.FormatFloat(share, 'f', 1, 64),
			strconv.FormatFloat(savings, 'f', 2, 64),
		),
		Priority: Medium,
		Icon:     "🌙",
	}, true
}

func highCostDevices(devices []db.Device) (Recommendation, bool) {
	count := aggregate.CountMonthlyCostAbove(devices, HighCostMonthlyThreshold)
	if count == 0 {
		return Recommendation{}, false
	}
	return Recommendation{
		Type:     "warning",
		Title:    "High Energy Consumers Detected",
		Message:  fmt.Sprintf("You have %d device(s) costing over €10/month. Consider energy-efficient alternatives or adjust usage patterns.", count),
		Priority: High,
		Icon:     "⚠️",
	}, true
}

func seasonal(month time.Month) (Recommendation, bool) {
	switch month {
	case time.December, time.January, time.February:
		return Recommendation{
			Type:     "seasonal",
			Title:    "Winter Energy Tips",
			Message:  "Winter bills are typically higher due to heating. Set your heater to 20-21°C and use a timer to avoid running it overnight.",
			Priority: Low,
			Icon:     "❄️",
		}, true
	case time.June, time.July, time.August:
		return Recommendation{
			Type:     "seasonal",
			Title:    "Summer Energy Tips",
			Message:  "Keep your fridge efficient by not overfilling it and ensuring the door seals properly. This can save up to €5/month.",
			Priority: Low,
			Icon:     "☀️",
		}, true
	}
	return Recommendation{}, false
}

// DaytimeShare is the daytime bucket's percentage of the bill's total kWh.
func DaytimeShare(bill db.Bill) (float64, bool) {
	return bucketShare(bill.DayKWh, bill.TotalKWh)
}

// NighttimeShare is the nighttime bucket's percentage of the bill's total kWh.
func NighttimeShare(bill db.Bill) (float64, bool) {
	return bucketShare(bill.NightKWh, bill.TotalKWh)
}

func bucketShare(bucket, total *float64) (float64, bool) {
	if bucket == nil || total == nil || *total <= 0 {
		return 0, false
	}
	return *bucket / *total * 100, true
}

// NightShiftSavings estimates the monthly saving of moving 30% of daytime
// consumption to the nighttime tariff.
func NightShiftSavings(bill db.Bill) float64 {
	day := 0.0
	if bill.DayKWh != nil {
		day = *bill.DayKWh
	}
	dayPrice := valueOr(bill.DayPrice, DefaultDayPrice)
	nightPrice := valueOr(bill.NightPrice, DefaultNightPrice)
	return (day * ShiftableDaytimeFraction) * (dayPrice - nightPrice)
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
