// Package trend computes period-over-period changes between the two most
// recent bills of a user.
package trend

import (
	"fmt"
	"math"
	"strconv"

	"github.com/septivank/energy-insights/internal/db"
	"github.com/septivank/energy-insights/internal/measurement"
)

// Direction labels the sign of a change.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Trend is a percentage change between two snapshots.
type Trend struct {
	Percentage float64
	Direction  Direction
}

// Change returns (current - previous) / previous * 100.
// A zero or absent previous value, or an absent current value, has no trend.
// Zero change is labelled Down: only strictly positive changes are Up.
func Change(current, previous *float64) *Trend {
	if current == nil || previous == nil || *previous == 0 {
		return nil
	}

	pct := (*current - *previous) / *previous * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return nil
	}

	dir := Down
	if pct > 0 {
		dir = Up
	}
	return &Trend{Percentage: pct, Direction: dir}
}

// Rounded is the percentage at one decimal place.
func (t Trend) Rounded() float64 {
	return measurement.Round1(t.Percentage)
}

// Message renders the user-facing sentence for subject ("consumption", "bill").
func (t Trend) Message(subject string) string {
	verb := "decreased"
	if t.Direction == Up {
		verb = "increased"
	}
	pct := strconv.FormatFloat(math.Abs(t.Rounded()), 'f', -1, 64)
	return fmt.Sprintf("Your %s %s by %s%% compared to last month", subject, verb, pct)
}

// BillTrends holds consumption and cost trends for the latest bill.
type BillTrends struct {
	Consumption *Trend
	Cost        *Trend
}

// Compare takes bills ordered by creation time descending and compares the
// first two. Fewer than two bills yields no trends at all.
func Compare(bills []db.Bill) (BillTrends, bool) {
	if len(bills) < 2 {
		return BillTrends{}, false
	}
	current, previous := bills[0], bills[1]

	return BillTrends{
		Consumption: Change(current.TotalKWh, previous.TotalKWh),
		Cost:        Change(current.BillTotal, previous.BillTotal),
	}, true
}
