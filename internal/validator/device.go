package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/septivank/energy-insights/internal/db"
	"github.com/septivank/energy-insights/internal/measurement"
)

const (
	MaxNameLength     = 255
	MaxCategoryLength = 100
	MaxBrandLength    = 100
	MaxModelLength    = 255
	MaxLocationLength = 100
	MaxEnergyLength   = 50

	OtherCategory = "other"

	FallbackSpecific = "specific"
	FallbackCategory = "category"
	FallbackGeneric  = "generic"
)

// DeviceCategories is the fixed list of device categories, in display order.
var DeviceCategories = []string{
	"laptop",
	"desktop",
	"monitor",
	"tv",
	"refrigerator",
	"air_conditioner",
	"microwave",
	"washing_machine",
	"dryer",
	"dishwasher",
	"printer",
	"scanner",
	"router",
	"gaming_console",
	OtherCategory,
}

var confidenceLevels = []string{"high", "medium", "low"}

var fallbackLevels = []string{FallbackSpecific, FallbackCategory, FallbackGeneric}

// FallbackDeviceTips are stored when a device image could not be analysed.
var FallbackDeviceTips = []string{
	"Unplug devices when not in use to eliminate phantom power draw",
	"Use smart power strips to easily cut power to multiple devices",
	"Enable energy-saving modes available on most electronic devices",
	"Keep devices clean and well-maintained for optimal efficiency",
	"Consider upgrading to ENERGY STAR certified devices when replacing old equipment",
}

// NormalizeCategory maps a free-text category onto DeviceCategories.
func NormalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	c = strings.NewReplacer(" ", "_", "-", "_").Replace(c)
	if oneOf(c, DeviceCategories) {
		return c
	}
	return OtherCategory
}

// DeviceScan is the subset of the vision-AI device answer the service relies on.
type DeviceScan struct {
	Device struct {
		Category   string  `json:"category"`
		Brand      *string `json:"brand"`
		Model      *string `json:"model"`
		Confidence string  `json:"confidence"`
	} `json:"device"`
	Energy struct {
		TypicalWattage      *string `json:"typical_wattage"`
		DailyKWh            *string `json:"daily_kwh"`
		AnnualKWh           *string `json:"annual_kwh"`
		EstimatedAnnualCost *string `json:"estimated_annual_cost"`
	} `json:"energy"`
	Tips          []string `json:"tips"`
	FallbackLevel string   `json:"fallback_level"`
	Reasoning     string   `json:"reasoning"`
}

// FallbackDeviceScan returns the payload stored when a device could not be identified.
func FallbackDeviceScan() DeviceScan {
	unknown := "Unknown"
	undetermined := measurement.UnableToDetermine

	var scan DeviceScan
	scan.Device.Category = "unknown"
	scan.Device.Brand = &unknown
	scan.Device.Model = &unknown
	scan.Device.Confidence = "low"
	scan.Energy.TypicalWattage = &undetermined
	scan.Energy.DailyKWh = &undetermined
	scan.Energy.AnnualKWh = &undetermined
	scan.Energy.EstimatedAnnualCost = &undetermined
	scan.Tips = append([]string(nil), FallbackDeviceTips...)
	scan.FallbackLevel = FallbackGeneric
	scan.Reasoning = "Could not identify the device from the image. Please try taking a clearer photo with better lighting, or ensure the device is fully visible."
	return scan
}

// ParseDeviceScan decodes an AI device answer, substituting the fallback
// payload when it is null or undecodable.
func (v *Validator) ParseDeviceScan(payload []byte) (DeviceScan, ValidationResult) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return FallbackDeviceScan(), ValidationResult{IsValid: true, Fallback: true, Reason: "empty device payload"}
	}

	var scan DeviceScan
	if err := json.Unmarshal(payload, &scan); err != nil {
		return FallbackDeviceScan(), ValidationResult{IsValid: true, Fallback: true, Reason: fmt.Sprintf("undecodable device payload: %v", err)}
	}
	return scan, ValidationResult{IsValid: true}
}

// DeviceAnalysisFromScan converts a parsed scan into a device analysis record.
func (v *Validator) DeviceAnalysisFromScan(userID uuid.UUID, imagePath string, scan DeviceScan, raw []byte) *db.DeviceAnalysis {
	confidence := strings.ToLower(strings.TrimSpace(scan.Device.Confidence))
	if !oneOf(confidence, confidenceLevels) {
		confidence = "low"
	}

	level := strings.ToLower(strings.TrimSpace(scan.FallbackLevel))
	if !oneOf(level, fallbackLevels) {
		level = FallbackGeneric
	}

	tips := scan.Tips
	if tips == nil {
		tips = []string{}
	}

	return &db.DeviceAnalysis{
		UserID:              userID,
		ImagePath:           imagePath,
		Category:            NormalizeCategory(scan.Device.Category),
		Brand:               trimmed(scan.Device.Brand),
		Model:               trimmed(scan.Device.Model),
		ConfidenceLevel:     &confidence,
		FallbackLevel:       level,
		TypicalWattage:      trimmed(scan.Energy.TypicalWattage),
		DailyKWh:            trimmed(scan.Energy.DailyKWh),
		AnnualKWh:           trimmed(scan.Energy.AnnualKWh),
		EstimatedAnnualCost: trimmed(scan.Energy.EstimatedAnnualCost),
		Tips:                tips,
		RawResponse:         raw,
	}
}

// DeviceInput is the body of a save-device request.
type DeviceInput struct {
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
}

// ValidateDevice checks a save-device request and returns the device it
// describes. Analysis seeding is left to the caller.
func (v *Validator) ValidateDevice(userID uuid.UUID, in DeviceInput) (*db.Device, error) {
	verr := &ValidationError{}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		verr.add("device_name", "required", "is required")
	}
	checkLength(verr, "device_name", &name, MaxNameLength)

	category := strings.TrimSpace(in.Category)
	if category == "" {
		verr.add("device_category", "required", "is required")
	}
	checkLength(verr, "device_category", &category, MaxCategoryLength)

	checkLength(verr, "device_brand", in.Brand, MaxBrandLength)
	checkLength(verr, "device_model", in.Model, MaxModelLength)
	checkLength(verr, "location", in.Location, MaxLocationLength)
	checkLength(verr, "typical_wattage", in.TypicalWattage, MaxEnergyLength)
	checkLength(verr, "daily_kwh", in.DailyKWh, MaxEnergyLength)
	checkLength(verr, "annual_kwh", in.AnnualKWh, MaxEnergyLength)
	checkLength(verr, "estimated_annual_cost", in.EstimatedAnnualCost, MaxEnergyLength)

	if err := verr.errOrNil(); err != nil {
		return nil, err
	}

	tips := in.Tips
	if tips == nil {
		tips = []string{}
	}

	return &db.Device{
		UserID:              userID,
		DeviceAnalysisID:    in.DeviceAnalysisID,
		Name:                name,
		Category:            category,
		Brand:               trimmed(in.Brand),
		Model:               trimmed(in.Model),
		Location:            trimmed(in.Location),
		TypicalWattage:      trimmed(in.TypicalWattage),
		DailyKWh:            trimmed(in.DailyKWh),
		AnnualKWh:           trimmed(in.AnnualKWh),
		EstimatedAnnualCost: trimmed(in.EstimatedAnnualCost),
		Tips:                tips,
		IsActive:            true,
	}, nil
}

// NullableString tells an absent JSON key apart from an explicit null.
type NullableString struct {
	Value *string
	Set   bool
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

// DeviceUpdateInput is the body of an update-device request.
type DeviceUpdateInput struct {
	Name     *string        `json:"device_name"`
	Location NullableString `json:"location"`
	IsActive *bool          `json:"is_active"`
}

// ValidateDeviceUpdate checks an update-device request.
func (v *Validator) ValidateDeviceUpdate(in DeviceUpdateInput) (db.DeviceUpdate, error) {
	verr := &ValidationError{}
	var upd db.DeviceUpdate

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			verr.add("device_name", "required", "must not be empty")
		}
		checkLength(verr, "device_name", &name, MaxNameLength)
		upd.Name = &name
	}

	if in.Location.Set {
		checkLength(verr, "location", in.Location.Value, MaxLocationLength)
		upd.Location = trimmed(in.Location.Value)
		upd.ClearLocation = upd.Location == nil
	}

	upd.IsActive = in.IsActive

	if err := verr.errOrNil(); err != nil {
		return db.DeviceUpdate{}, err
	}
	return upd, nil
}
