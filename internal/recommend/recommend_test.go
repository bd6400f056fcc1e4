package recommend_test

import (
	"testing"
	"time"

	"github.com/septivank/energy-insights/internal/aggregate"
	"github.com/septivank/energy-insights/internal/db"
	"github.com/septivank/energy-insights/internal/recommend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }
func f(v float64) *float64 { return &v }

func devicesOf(category, annualCost string, n int) []db.Device {
	out := make([]db.Device, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, db.Device{
			Name:                category,
			Category:            category,
			EstimatedAnnualCost: str(annualCost),
			IsActive:            true,
		})
	}
	return out
}

func input(devices []db.Device, bill *db.Bill, month time.Month) recommend.Input {
	return recommend.Input{
		Devices:    devices,
		Totals:     aggregate.Summarize(devices),
		LatestBill: bill,
		Month:      month,
	}
}

func types(recs []recommend.Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Title)
	}
	return out
}

func TestDashboard_NoDevicesNoBills(t *testing.T) {
	recs := recommend.Dashboard(input(nil, nil, time.October))

	assert.Equal(t, []string{"Start Tracking Devices", "Upload Your KEDS Bill"}, types(recs))
	assert.Equal(t, recommend.High, recs[0].Priority)
}

func TestDashboard_NoDevicesNoBillsInWinter(t *testing.T) {
	recs := recommend.Dashboard(input(nil, nil, time.January))

	assert.Equal(t, []string{"Start Tracking Devices", "Upload Your KEDS Bill", "Winter Energy Tips"}, types(recs))
}

func TestDashboard_FewDevicesCitesCount(t *testing.T) {
	recs := recommend.Dashboard(input(devicesOf("tv", "$20", 3), nil, time.October))

	require.NotEmpty(t, recs)
	assert.Equal(t, "Add More Devices", recs[0].Title)
	assert.Contains(t, recs[0].Message, "You have 3 devices tracked.")
}

func TestDashboard_FiveDevicesSkipsOnboarding(t *testing.T) {
	recs := recommend.Dashboard(input(devicesOf("tv", "$20", 5), &db.Bill{}, time.October))

	assert.Empty(t, recs)
}

func TestDashboard_NighttimeShift(t *testing.T) {
	bill := &db.Bill{
		TotalKWh:   f(100),
		DayKWh:     f(80),
		DayPrice:   f(0.0779),
		NightPrice: f(0.0334),
	}

	recs := recommend.Dashboard(input(devicesOf("tv", "$20", 5), bill, time.October))

	require.Len(t, recs, 1)
	assert.Equal(t, "savings", recs[0].Type)
	assert.Contains(t, recs[0].Message, "You use 80.0% of your electricity during the day.")
	assert.Contains(t, recs[0].Message, "save approximately €1.07 per month.")
	assert.InDelta(t, 1.068, recommend.NightShiftSavings(*bill), 1e-9)
}

func TestDashboard_DaytimeAtThresholdDoesNotFire(t *testing.T) {
	bill := &db.Bill{TotalKWh: f(100), DayKWh: f(70)}

	recs := recommend.Dashboard(input(devicesOf("tv", "$20", 5), bill, time.October))

	assert.Empty(t, recs)
}

func TestDashboard_ZeroTotalKWhSkipsShift(t *testing.T) {
	bill := &db.Bill{TotalKWh: f(0), DayKWh: f(50)}

	recs := recommend.Dashboard(input(devicesOf("tv", "$20", 5), bill, time.October))

	assert.Empty(t, recs)
}

func TestDashboard_HighCostDevices(t *testing.T) {
	devices := append(devicesOf("dryer", "$240", 2), devicesOf("router", "$12", 3)...)

	recs := recommend.Dashboard(input(devices, &db.Bill{}, time.October))

	require.Len(t, recs, 1)
	assert.Equal(t, "warning", recs[0].Type)
	assert.Contains(t, recs[0].Message, "You have 2 device(s) costing over €10/month.")
}

func TestDashboard_Summer(t *testing.T) {
	recs := recommend.Dashboard(input(devicesOf("tv", "$20", 5), &db.Bill{}, time.July))

	require.Len(t, recs, 1)
	assert.Equal(t, "Summer Energy Tips", recs[0].Title)
}

func TestDashboard_RuleOrder(t *testing.T) {
	bill := &db.Bill{TotalKWh: f(100), DayKWh: f(90)}
	devices := devicesOf("dryer", "$600", 2)

	recs := recommend.Dashboard(input(devices, bill, time.December))

	assert.Equal(t, []string{
		"Add More Devices",
		"Shift to Nighttime Usage",
		"High Energy Consumers Detected",
		"Winter Energy Tips",
	}, types(recs))
}

func TestDeviceInsights_AirConditioners(t *testing.T) {
	recs := recommend.DeviceInsights(input(devicesOf(recommend.CategoryAirConditioner, "$100", 3), nil, time.October))

	assert.Equal(t, []string{"Consider Heat Pump Upgrade", "Smart Power Strips"}, types(recs))
}

func TestDeviceInsights_AllRules(t *testing.T) {
	devices := append(devicesOf(recommend.CategoryAirConditioner, "$150", 3), devicesOf(recommend.CategoryRefrigerator, "$80", 2)...)

	recs := recommend.DeviceInsights(input(devices, nil, time.October))

	require.Len(t, recs, 4)
	assert.Equal(t, "high_cost_alert", recs[0].Type)
	assert.Equal(t, recommend.High, recs[0].Priority)
	assert.Equal(t, "heating_upgrade", recs[1].Type)
	assert.Equal(t, "appliance_optimization", recs[2].Type)
	assert.Equal(t, "general_tip", recs[3].Type)
	assert.Equal(t, recommend.Low, recs[3].Priority)
}

func TestDeviceInsights_GeneralTipAlwaysPresent(t *testing.T) {
	recs := recommend.DeviceInsights(input(devicesOf("tv", "$10", 1), nil, time.October))

	assert.Equal(t, []string{"Smart Power Strips"}, types(recs))
}

func TestShares(t *testing.T) {
	bill := db.Bill{TotalKWh: f(200), DayKWh: f(50), NightKWh: f(150)}

	day, ok := recommend.DaytimeShare(bill)
	require.True(t, ok)
	assert.Equal(t, 25.0, day)

	night, ok := recommend.NighttimeShare(bill)
	require.True(t, ok)
	assert.Equal(t, 75.0, night)

	_, ok = recommend.DaytimeShare(db.Bill{DayKWh: f(50)})
	assert.False(t, ok)
}
