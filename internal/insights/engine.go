// Package insights assembles the device-insights and dashboard views from a
// user's devices, bills and household profile. Every operation is a pure
// function of its arguments plus the injected clock.
package insights

import (
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/septivank/energy-insights/internal/aggregate"
	"github.com/septivank/energy-insights/internal/db"
	"github.com/septivank/energy-insights/internal/measurement"
	"github.com/septivank/energy-insights/internal/recommend"
	"github.com/septivank/energy-insights/internal/trend"
)

const (
	TopConsumerCount = 3

	NoDevicesMessage   = "No devices saved yet. Start scanning devices to see insights!"
	NoDashboardMessage = "No data yet. Scan your devices and upload your electricity bill to see your dashboard."
	SavingsMessage     = "By following the energy-saving tips for your devices, you could save up to 20-30% on energy costs."
)

// Clock returns the current time.
type Clock func() time.Time

// Engine computes the insight views.
type Engine struct {
	now Clock
}

// NewEngine creates an engine reading time from now. A nil clock uses time.Now.
func NewEngine(now Clock) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// DeviceInsights builds the device insights view for userID.
func (e *Engine) DeviceInsights(userID uuid.UUID, devices []db.Device, profile *db.HouseholdProfile) DeviceInsights {
	now := e.now()
	active := ownedActive(userID, devices)
	totals := aggregate.Summarize(active)

	if totals.Empty() {
		return DeviceInsights{
			TotalDevices: 0,
			Message:      NoDevicesMessage,
			GeneratedAt:  now,
		}
	}

	avg, avgOK := totals.AverageCostPerDevice()
	var savings *float64
	if totals.AnnualCost.Known() {
		savings = rounded(totals.AnnualCost.Total*recommend.GenericSavingsFraction, true)
	}

	return DeviceInsights{
		TotalDevices: totals.Devices,
		Summary: &DeviceSummary{
			TotalDevices:         totals.Devices,
			EstimatedDailyKWh:    sumValue(totals.DailyKWh),
			EstimatedAnnualKWh:   sumValue(totals.AnnualKWh),
			EstimatedAnnualCost:  sumValue(totals.AnnualCost),
			AverageCostPerDevice: rounded(avg, avgOK),
		},
		Breakdown: &Breakdown{
			ByCategory: groupStats(aggregate.ByCategory(active)),
			ByLocation: groupStats(aggregate.ByLocation(active)),
		},
		HighestConsumers: consumers(aggregate.TopByAnnualCost(active, TopConsumerCount)),
		Household:        household(profile, userID),
		Recommendations: recommend.DeviceInsights(recommend.Input{
			Devices: active,
			Totals:  totals,
			Profile: profile,
			Month:   now.Month(),
		}),
		PotentialSavings: &PotentialSavings{
			Message:                SavingsMessage,
			EstimatedAnnualSavings: savings,
		},
		GeneratedAt: now,
	}
}

// DashboardStats builds the dashboard view for userID. Bills are expected
// newest first; they are re-sorted stably by creation time to be sure.
func (e *Engine) DashboardStats(userID uuid.UUID, devices []db.Device, bills []db.Bill, profile *db.HouseholdProfile) DashboardStats {
	now := e.now()
	active := ownedActive(userID, devices)
	owned := ownedBills(userID, bills)
	totals := aggregate.Summarize(active)

	monthlyCost, costOK := totals.MonthlyCost()
	monthlyKWh, kwhOK := totals.MonthlyKWh()

	stats := DashboardStats{
		Summary: DashboardSummary{
			TotalDevices:         totals.Devices,
			TotalBillsAnalyzed:   len(owned),
			EstimatedMonthlyCost: rounded(monthlyCost, costOK),
			EstimatedMonthlyKWh:  rounded(monthlyKWh, kwhOK),
		},
		DeviceBreakdown: DeviceBreakdown{
			ByCategory:   groupStats(aggregate.ByCategory(active)),
			TopConsumers: consumers(aggregate.TopByAnnualCost(active, TopConsumerCount)),
		},
		GeneratedAt: now,
	}

	if totals.Empty() && len(owned) == 0 {
		stats.Summary.Message = NoDashboardMessage
	}

	var latest *db.Bill
	if len(owned) > 0 {
		latest = &owned[0]
		stats.LatestBill = latestBill(owned)
		stats.QuickStats = quickStats(*latest)
	}

	stats.Insights = recommend.Dashboard(recommend.Input{
		Devices:    active,
		Totals:     totals,
		LatestBill: latest,
		Profile:    profile,
		Month:      now.Month(),
	})

	return stats
}

func latestBill(bills []db.Bill) *LatestBill {
	current := bills[0]
	view := &LatestBill{
		ID:         current.ID,
		Month:      current.PeriodLabel,
		TotalKWh:   current.TotalKWh,
		TotalCost:  roundedPtr(current.BillTotal),
		AnalyzedAt: current.CreatedAt,
	}

	if trends, ok := trend.Compare(bills); ok {
		view.ConsumptionTrend = trendView(trends.Consumption, "consumption")
		view.CostTrend = trendView(trends.Cost, "bill")
	}
	return view
}

func trendView(t *trend.Trend, subject string) *TrendView {
	if t == nil {
		return nil
	}
	return &TrendView{
		Percentage: t.Rounded(),
		Direction:  t.Direction,
		Message:    t.Message(subject),
	}
}

func quickStats(bill db.Bill) QuickStats {
	day := &UsageSnapshot{KWh: bill.DayKWh, Cost: roundedPtr(bill.DayAmount)}
	if share, ok := recommend.DaytimeShare(bill); ok {
		day.Percentage = percent(share)
	}

	night := &UsageSnapshot{KWh: bill.NightKWh, Cost: roundedPtr(bill.NightAmount)}
	if share, ok := recommend.NighttimeShare(bill); ok {
		night.Percentage = percent(share)
	}

	return QuickStats{DaytimeUsage: day, NighttimeUsage: night}
}

func groupStats(groups []aggregate.Group) []GroupStat {
	out := make([]GroupStat, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupStat{
			Name:        g.Key,
			Count:       g.Count,
			MonthlyCost: sumValue(g.MonthlyCost),
			MonthlyKWh:  sumValue(g.MonthlyKWh),
		})
	}
	return out
}

func consumers(ranked []aggregate.Ranked) []Consumer {
	out := make([]Consumer, 0, len(ranked))
	for _, r := range ranked {
		d := r.Device
		c := Consumer{
			ID:                  d.ID,
			Name:                d.Name,
			Category:            d.Category,
			DailyKWh:            measurement.Display(d.DailyKWh),
			AnnualKWh:           measurement.Display(d.AnnualKWh),
			EstimatedAnnualCost: measurement.Display(d.EstimatedAnnualCost),
		}
		if r.HasCost {
			c.MonthlyCost = rounded(r.AnnualCost/aggregate.MonthsPerYear, true)
		}
		out = append(out, c)
	}
	return out
}

func household(p *db.HouseholdProfile, userID uuid.UUID) *Household {
	if p == nil || p.UserID != userID {
		return nil
	}
	return &Household{
		PropertyOwnership: p.PropertyOwnership,
		PropertyType:      p.HouseType,
		Occupants:         p.Occupants,
		Bedrooms:          p.Bedrooms,
		HeatingType:       p.HeatingType,
		PropertyAge:       p.PropertyAge,
	}
}

func ownedActive(userID uuid.UUID, devices []db.Device) []db.Device {
	out := make([]db.Device, 0, len(devices))
	for _, d := range devices {
		if d.UserID == userID && d.IsActive {
			out = append(out, d)
		}
	}
	return out
}

func ownedBills(userID uuid.UUID, bills []db.Bill) []db.Bill {
	out := make([]db.Bill, 0, len(bills))
	for _, b := range bills {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func sumValue(s aggregate.Sum) *float64 {
	return rounded(s.Total, s.Known())
}

func rounded(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	r := measurement.Round2(v)
	return &r
}

func roundedPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return rounded(*v, true)
}

func percent(v float64) *float64 {
	r := measurement.Round1(v)
	return &r
}

// FormatEuro renders an amount the way bills print it, e.g. "€12.50".
func FormatEuro(v float64) string {
	return "€" + strconv.FormatFloat(measurement.Round2(v), 'f', 2, 64)
}
