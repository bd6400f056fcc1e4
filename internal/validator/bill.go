package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/septivank/energy-insights/internal/db"
	"github.com/septivank/energy-insights/tools/timeparser"
)

// UnknownBillMonth is the period label of a bill that could not be read.
const UnknownBillMonth = "Unknown"

// FallbackBillInsights are stored when a bill image could not be analysed.
var FallbackBillInsights = []string{
	"Could not analyze the bill image",
	"Please ensure the bill is clearly visible",
	"Try taking the photo in good lighting",
	"Make sure all text is readable",
}

// BillScan is the subset of the vision-AI bill answer the service relies on.
type BillScan struct {
	Extraction      *BillExtraction `json:"extraction"`
	Breakdown       json.RawMessage `json:"human_readable_breakdown"`
	Insights        []string        `json:"insights"`
	DeviceEstimates json.RawMessage `json:"device_estimates"`
	Confidence      string          `json:"confidence"`
	Warnings        []string        `json:"warnings"`
}

type BillExtraction struct {
	BillMonth   string          `json:"bill_month"`
	Consumption BillConsumption `json:"consumption"`
	Pricing     BillPricing     `json:"pricing"`
	Costs       BillCosts       `json:"costs"`
}

type BillConsumption struct {
	DayKWh       Number `json:"a1_b1_kwh"`
	NightKWh     Number `json:"a2_b1_kwh"`
	PeakDayKWh   Number `json:"a1_b2_kwh"`
	PeakNightKWh Number `json:"a2_b2_kwh"`
	TotalKWh     Number `json:"total_kwh"`
}

type BillPricing struct {
	Day       Number `json:"price_a1_b1"`
	Night     Number `json:"price_a2_b1"`
	PeakDay   Number `json:"price_a1_b2"`
	PeakNight Number `json:"price_a2_b2"`
}

type BillCosts struct {
	DayAmount       Number `json:"amount_a1_b1"`
	NightAmount     Number `json:"amount_a2_b1"`
	PeakDayAmount   Number `json:"amount_a1_b2"`
	PeakNightAmount Number `json:"amount_a2_b2"`
	FixedCharge     Number `json:"standing_charge"`
	NetTotal        Number `json:"net_total"`
	Tax             Number `json:"vat"`
	BillTotal       Number `json:"bill_total"`
	Debt            Number `json:"kesco_debt"`
}

// FallbackBillScan returns the payload stored when a bill could not be read:
// zero consumption and costs, default prices and generic insights.
func (v *Validator) FallbackBillScan() BillScan {
	zero := Number{Value: 0, Set: true}
	return BillScan{
		Extraction: &BillExtraction{
			BillMonth: UnknownBillMonth,
			Consumption: BillConsumption{
				DayKWh:       zero,
				NightKWh:     zero,
				PeakDayKWh:   zero,
				PeakNightKWh: zero,
				TotalKWh:     zero,
			},
			Costs: BillCosts{
				DayAmount:       zero,
				NightAmount:     zero,
				PeakDayAmount:   zero,
				PeakNightAmount: zero,
				FixedCharge:     zero,
				NetTotal:        zero,
				Tax:             zero,
				BillTotal:       zero,
				Debt:            zero,
			},
			Pricing: BillPricing{
				Day:       Number{Value: v.defaults.Day, Set: true},
				Night:     Number{Value: v.defaults.Night, Set: true},
				PeakDay:   Number{Value: v.defaults.PeakDay, Set: true},
				PeakNight: Number{Value: v.defaults.PeakNight, Set: true},
			},
		},
		Breakdown:  json.RawMessage(`{"summary":"Unable to read the bill. Please try taking a clearer photo.","tariff_explanation":{}}`),
		Insights:   append([]string(nil), FallbackBillInsights...),
		Confidence: "low",
		Warnings:   []string{"Failed to extract data from the bill image"},
	}
}

// ParseBillScan decodes an AI bill answer. A null, undecodable or incomplete
// answer is replaced by the fallback payload; negative amounts are invalid.
func (v *Validator) ParseBillScan(payload []byte) (BillScan, ValidationResult) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return v.FallbackBillScan(), ValidationResult{IsValid: true, Fallback: true, Reason: "empty bill payload"}
	}

	var scan BillScan
	if err := json.Unmarshal(payload, &scan); err != nil {
		return v.FallbackBillScan(), ValidationResult{IsValid: true, Fallback: true, Reason: fmt.Sprintf("undecodable bill payload: %v", err)}
	}
	if scan.Extraction == nil {
		return v.FallbackBillScan(), ValidationResult{IsValid: true, Fallback: true, Reason: "bill payload has no extraction"}
	}

	if field, ok := firstNegative(scan.Extraction); ok {
		return scan, ValidationResult{IsValid: false, Reason: fmt.Sprintf("negative value detected in %s", field)}
	}

	return scan, ValidationResult{IsValid: true}
}

// BillFromScan converts a parsed scan into a bill record. Missing consumption
// and cost figures become 0, missing prices take the default tariffs and a
// missing total is the sum of the four buckets.
func (v *Validator) BillFromScan(userID uuid.UUID, imagePath string, scan BillScan, raw []byte) *db.Bill {
	ex := scan.Extraction
	if ex == nil {
		ex = v.FallbackBillScan().Extraction
	}
	c := ex.Consumption

	total := c.TotalKWh.Or(c.DayKWh.Or(0) + c.NightKWh.Or(0) + c.PeakDayKWh.Or(0) + c.PeakNightKWh.Or(0))

	bill := &db.Bill{
		UserID:          userID,
		ImagePath:       imagePath,
		TotalKWh:        ptr(total),
		DayKWh:          ptr(c.DayKWh.Or(0)),
		NightKWh:        ptr(c.NightKWh.Or(0)),
		PeakDayKWh:      ptr(c.PeakDayKWh.Or(0)),
		PeakNightKWh:    ptr(c.PeakNightKWh.Or(0)),
		DayPrice:        ptr(ex.Pricing.Day.Or(v.defaults.Day)),
		NightPrice:      ptr(ex.Pricing.Night.Or(v.defaults.Night)),
		PeakDayPrice:    ptr(ex.Pricing.PeakDay.Or(v.defaults.PeakDay)),
		PeakNightPrice:  ptr(ex.Pricing.PeakNight.Or(v.defaults.PeakNight)),
		DayAmount:       ptr(ex.Costs.DayAmount.Or(0)),
		NightAmount:     ptr(ex.Costs.NightAmount.Or(0)),
		PeakDayAmount:   ptr(ex.Costs.PeakDayAmount.Or(0)),
		PeakNightAmount: ptr(ex.Costs.PeakNightAmount.Or(0)),
		FixedCharge:     ptr(ex.Costs.FixedCharge.Or(0)),
		NetTotal:        ptr(ex.Costs.NetTotal.Or(0)),
		Tax:             ptr(ex.Costs.Tax.Or(0)),
		BillTotal:       ptr(ex.Costs.BillTotal.Or(0)),
		Debt:            ptr(ex.Costs.Debt.Or(0)),
		Breakdown:       nonNull(scan.Breakdown),
		DeviceEstimates: nonNull(scan.DeviceEstimates),
		Insights:        scan.Insights,
		RawResponse:     raw,
	}
	if bill.Insights == nil {
		bill.Insights = []string{}
	}

	if label := strings.TrimSpace(ex.BillMonth); label != "" {
		bill.PeriodLabel = &label
		if start, err := timeparser.ParseBillPeriod(label); err == nil {
			bill.PeriodStart = &start
		}
	}

	return bill
}

func firstNegative(ex *BillExtraction) (string, bool) {
	fields := []struct {
		name string
		n    Number
	}{
		{"consumption.a1_b1_kwh", ex.Consumption.DayKWh},
		{"consumption.a2_b1_kwh", ex.Consumption.NightKWh},
		{"consumption.a1_b2_kwh", ex.Consumption.PeakDayKWh},
		{"consumption.a2_b2_kwh", ex.Consumption.PeakNightKWh},
		{"consumption.total_kwh", ex.Consumption.TotalKWh},
		{"pricing.price_a1_b1", ex.Pricing.Day},
		{"pricing.price_a2_b1", ex.Pricing.Night},
		{"pricing.price_a1_b2", ex.Pricing.PeakDay},
		{"pricing.price_a2_b2", ex.Pricing.PeakNight},
		{"costs.amount_a1_b1", ex.Costs.DayAmount},
		{"costs.amount_a2_b1", ex.Costs.NightAmount},
		{"costs.amount_a1_b2", ex.Costs.PeakDayAmount},
		{"costs.amount_a2_b2", ex.Costs.PeakNightAmount},
		{"costs.standing_charge", ex.Costs.FixedCharge},
		{"costs.net_total", ex.Costs.NetTotal},
		{"costs.vat", ex.Costs.Tax},
		{"costs.bill_total", ex.Costs.BillTotal},
		{"costs.kesco_debt", ex.Costs.Debt},
	}
	for _, f := range fields {
		if f.n.Set && f.n.Value < 0 {
			return f.name, true
		}
	}
	return "", false
}

func nonNull(raw json.RawMessage) json.RawMessage {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	return raw
}

func ptr(v float64) *float64 {
	return &v
}
