package insights

import (
	"github.com/septivank/energy-insights/internal/aggregate"
	"github.com/septivank/energy-insights/internal/db"
	"github.com/septivank/energy-insights/internal/measurement"
)

const (
	DaytimeTariffName   = "A1/B1 - Daytime (Standard)"
	NighttimeTariffName = "A2/B1 - Nighttime (22:00-06:00)"
)

// BillSummaries lists bills in the order given.
func BillSummaries(bills []db.Bill) []BillSummary {
	out := make([]BillSummary, 0, len(bills))
	for _, b := range bills {
		out = append(out, BillSummary{
			ID:         b.ID,
			Month:      b.PeriodLabel,
			TotalKWh:   b.TotalKWh,
			TotalCost:  roundedPtr(b.BillTotal),
			AnalyzedAt: b.CreatedAt,
		})
	}
	return out
}

// BillBreakdownFor correlates one bill with the user's active devices.
func BillBreakdownFor(bill db.Bill, devices []db.Device) BillBreakdown {
	active := ownedActive(bill.UserID, devices)

	view := BillBreakdown{
		BillID:   bill.ID,
		TotalKWh: bill.TotalKWh,
		Tariffs: []TariffRow{
			tariffRow(DaytimeTariffName, bill.DayKWh, bill.DayPrice, bill.DayAmount, bill.TotalKWh),
			tariffRow(NighttimeTariffName, bill.NightKWh, bill.NightPrice, bill.NightAmount, bill.TotalKWh),
		},
		Costs: CostBreakdown{
			EnergyCosts: energyCosts(bill),
			FixedCharge: roundedPtr(bill.FixedCharge),
			Subtotal:    roundedPtr(bill.NetTotal),
			Tax:         roundedPtr(bill.Tax),
			Total:       roundedPtr(bill.BillTotal),
			Debt:        roundedPtr(bill.Debt),
		},
		YourDevices:     make([]DeviceEstimate, 0, len(active)),
		Recommendations: bill.Insights,
	}

	for _, d := range active {
		estimate := DeviceEstimate{
			Name:                 d.Name,
			Category:             d.Category,
			EstimatedMonthlyCost: measurement.NotAvailable,
		}
		if monthly, ok := aggregate.MonthlyCost(d); ok {
			estimate.EstimatedMonthlyCost = FormatEuro(monthly)
		}
		view.YourDevices = append(view.YourDevices, estimate)
	}

	if bill.TotalKWh != nil {
		if share, ok := aggregate.DeviceShareOfBill(active, *bill.TotalKWh); ok {
			view.DeviceShare = &share
		}
	}

	return view
}

func tariffRow(name string, kwh, price, amount, total *float64) TariffRow {
	row := TariffRow{
		Name:        name,
		KWh:         kwh,
		PricePerKWh: price,
		Cost:        roundedPtr(amount),
	}
	if kwh != nil && total != nil && *total > 0 {
		row.Percentage = percent(*kwh / *total * 100)
	}
	return row
}

func energyCosts(bill db.Bill) *float64 {
	if bill.DayAmount == nil && bill.NightAmount == nil {
		return nil
	}
	sum := 0.0
	if bill.DayAmount != nil {
		sum += *bill.DayAmount
	}
	if bill.NightAmount != nil {
		sum += *bill.NightAmount
	}
	return rounded(sum, true)
}
