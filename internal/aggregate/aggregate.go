// Package aggregate folds a user's device records into totals, group
// breakdowns and ranked lists. Only active devices are considered and
// absent measurements contribute nothing.
package aggregate

import (
	"math"
	"sort"
	"strings"

	"github.com/septivank/energy-insights/internal/db"
	"github.com/septivank/energy-insights/internal/measurement"
)

const (
	MonthsPerYear = 12
	DaysPerMonth  = 30

	// UnspecifiedLocation groups devices saved without a location label
	UnspecifiedLocation = "unspecified"
)

// Sum accumulates extracted values and remembers how many records contributed.
type Sum struct {
	Total        float64
	Contributors int
}

// Add includes a present value.
func (s *Sum) Add(v float64) {
	s.Total += v
	s.Contributors++
}

// Known reports whether at least one record contributed.
func (s Sum) Known() bool {
	return s.Contributors > 0
}

// Totals is the fold of one user's active devices.
type Totals struct {
	Devices    int
	DailyKWh   Sum
	AnnualKWh  Sum
	AnnualCost Sum
}

// Active drops soft-deleted devices, keeping the original order.
func Active(devices []db.Device) []db.Device {
	active := make([]db.Device, 0, len(devices))
	for _, d := range devices {
		if d.IsActive {
			active = append(active, d)
		}
	}
	return active
}

// Summarize sums the energy fields of all active devices.
func Summarize(devices []db.Device) Totals {
	var t Totals
	for _, d := range devices {
		if !d.IsActive {
			continue
		}
		t.Devices++
		if v, ok := measurement.Value(d.DailyKWh); ok {
			t.DailyKWh.Add(v)
		}
		if v, ok := measurement.Value(d.AnnualKWh); ok {
			t.AnnualKWh.Add(v)
		}
		if v, ok := measurement.Value(d.EstimatedAnnualCost); ok {
			t.AnnualCost.Add(v)
		}
	}
	return t
}

// Empty reports the "no devices" state.
func (t Totals) Empty() bool {
	return t.Devices == 0
}

// MonthlyCost is the annual cost total spread over twelve months.
func (t Totals) MonthlyCost() (float64, bool) {
	if !t.AnnualCost.Known() {
		return 0, false
	}
	return t.AnnualCost.Total / MonthsPerYear, true
}

// MonthlyKWh is the daily energy total over a thirty day month.
func (t Totals) MonthlyKWh() (float64, bool) {
	if !t.DailyKWh.Known() {
		return 0, false
	}
	return t.DailyKWh.Total * DaysPerMonth, true
}

// AverageCostPerDevice divides the annual cost total by the device count.
// It is undefined with no devices or when no device reports a cost.
func (t Totals) AverageCostPerDevice() (float64, bool) {
	if t.Devices == 0 || !t.AnnualCost.Known() {
		return 0, false
	}
	return t.AnnualCost.Total / float64(t.Devices), true
}

// MonthlyCost returns one device's annual cost divided by twelve.
func MonthlyCost(d db.Device) (float64, bool) {
	v, ok := measurement.Value(d.EstimatedAnnualCost)
	if !ok {
		return 0, false
	}
	return v / MonthsPerYear, true
}

// Group is one bucket of a category or location breakdown.
type Group struct {
	Key         string
	Count       int
	MonthlyCost Sum
	MonthlyKWh  Sum
}

// ByCategory partitions active devices by category in first-seen order.
func ByCategory(devices []db.Device) []Group {
	return groupBy(devices, func(d db.Device) string { return d.Category })
}

// ByLocation partitions active devices by location label in first-seen order.
func ByLocation(devices []db.Device) []Group {
	return groupBy(devices, func(d db.Device) string {
		if d.Location == nil || strings.TrimSpace(*d.Location) == "" {
			return UnspecifiedLocation
		}
		return *d.Location
	})
}

func groupBy(devices []db.Device, key func(db.Device) string) []Group {
	index := make(map[string]int)
	var groups []Group

	for _, d := range devices {
		if !d.IsActive {
			continue
		}
		k := key(d)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}

		g := &groups[i]
		g.Count++
		if v, ok := measurement.Value(d.EstimatedAnnualCost); ok {
			g.MonthlyCost.Add(v / MonthsPerYear)
		}
		if v, ok := measurement.Value(d.DailyKWh); ok {
			g.MonthlyKWh.Add(v * DaysPerMonth)
		}
	}

	return groups
}

// Ranked is a device together with the value it was ranked by.
type Ranked struct {
	Device     db.Device
	AnnualCost float64
	HasCost    bool
}

// TopByAnnualCost returns the n most expensive active devices.
// The sort is stable; devices without a cost estimate rank last.
func TopByAnnualCost(devices []db.Device, n int) []Ranked {
	ranked := make([]Ranked, 0, len(devices))
	for _, d := range devices {
		if !d.IsActive {
			continue
		}
		v, ok := measurement.Value(d.EstimatedAnnualCost)
		ranked = append(ranked, Ranked{Device: d, AnnualCost: v, HasCost: ok})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].HasCost != ranked[j].HasCost {
			return ranked[i].HasCost
		}
		return ranked[i].AnnualCost > ranked[j].AnnualCost
	})

	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// CountCategory counts active devices in the given category.
func CountCategory(devices []db.Device, category string) int {
	count := 0
	for _, d := range devices {
		if d.IsActive && d.Category == category {
			count++
		}
	}
	return count
}

// CountMonthlyCostAbove counts active devices whose monthly cost exceeds threshold.
func CountMonthlyCostAbove(devices []db.Device, threshold float64) int {
	count := 0
	for _, d := range devices {
		if !d.IsActive {
			continue
		}
		if monthly, ok := MonthlyCost(d); ok && monthly > threshold {
			count++
		}
	}
	return count
}

// DeviceShareOfBill estimates what percentage of a bill's consumption the
// tracked devices account for, capped at 100.
func DeviceShareOfBill(devices []db.Device, billKWh float64) (int, bool) {
	if billKWh <= 0 {
		return 0, false
	}
	totals := Summarize(devices)
	monthly, ok := totals.MonthlyKWh()
	if !ok || monthly <= 0 {
		return 0, false
	}
	share := math.Round(monthly / billKWh * 100)
	return int(math.Min(100, share)), true
}
