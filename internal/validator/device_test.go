package validator_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/septivank/energy-insights/internal/measurement"
	"github.com/septivank/energy-insights/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalizeCategory(t *testing.T) {
	cases := map[string]string{
		"laptop":           "laptop",
		" Air Conditioner": "air_conditioner",
		"washing-machine":  "washing_machine",
		"unknown":          "other",
		"":                 "other",
	}
	for in, want := range cases {
		assert.Equal(t, want, validator.NormalizeCategory(in), in)
	}
}

func TestDeviceAnalysisFromScan(t *testing.T) {
	v := validator.NewValidator(validator.DefaultTariffs)
	userID := uuid.New()

	payload := `{
	  "device": {"category": "TV", "brand": "Samsung", "model": " ", "confidence": "HIGH"},
	  "energy": {"typical_wattage": "100W", "daily_kwh": "0.24-0.40", "estimated_annual_cost": "$13-22"},
	  "tips": ["Lower the brightness"],
	  "fallback_level": "category"
	}`

	scan, result := v.ParseDeviceScan([]byte(payload))
	require.True(t, result.IsValid)
	assert.False(t, result.Fallback)

	analysis := v.DeviceAnalysisFromScan(userID, "devices/1.jpg", scan, []byte(payload))

	assert.Equal(t, "tv", analysis.Category)
	assert.Equal(t, "Samsung", *analysis.Brand)
	assert.Nil(t, analysis.Model)
	assert.Equal(t, "high", *analysis.ConfidenceLevel)
	assert.Equal(t, validator.FallbackCategory, analysis.FallbackLevel)
	assert.Equal(t, "0.24-0.40", *analysis.DailyKWh)
	assert.Nil(t, analysis.AnnualKWh)
	assert.Equal(t, []string{"Lower the brightness"}, analysis.Tips)
}

func TestDeviceAnalysisFromScan_Fallback(t *testing.T) {
	v := validator.NewValidator(validator.DefaultTariffs)

	scan, result := v.ParseDeviceScan([]byte("null"))
	require.True(t, result.Fallback)

	analysis := v.DeviceAnalysisFromScan(uuid.New(), "x.jpg", scan, nil)

	assert.Equal(t, validator.OtherCategory, analysis.Category)
	assert.Equal(t, validator.FallbackGeneric, analysis.FallbackLevel)
	assert.Equal(t, "low", *analysis.ConfidenceLevel)
	assert.Equal(t, measurement.UnableToDetermine, *analysis.EstimatedAnnualCost)
	assert.Len(t, analysis.Tips, 5)
}

func TestDeviceAnalysisFromScan_UnknownFallbackLevel(t *testing.T) {
	v := validator.NewValidator(validator.DefaultTariffs)

	scan, _ := v.ParseDeviceScan([]byte(`{"device": {"category": "router"}, "fallback_level": "approximate"}`))
	analysis := v.DeviceAnalysisFromScan(uuid.New(), "x.jpg", scan, nil)

	assert.Equal(t, validator.FallbackGeneric, analysis.FallbackLevel)
	assert.Empty(t, analysis.Tips)
}

func TestValidateDevice(t *testing.T) {
	v := validator.NewValidator(validator.DefaultTariffs)
	userID := uuid.New()

	device, err := v.ValidateDevice(userID, validator.DeviceInput{
		Name:     "  Kitchen fridge ",
		Category: "refrigerator",
		Location: strPtr(""),
		DailyKWh: strPtr("1.2"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Kitchen fridge", device.Name)
	assert.Equal(t, userID, device.UserID)
	assert.True(t, device.IsActive)
	assert.Nil(t, device.Location)
	assert.Equal(t, "1.2", *device.DailyKWh)
	assert.NotNil(t, device.Tips)
}

func TestValidateDevice_Errors(t *testing.T) {
	v := validator.NewValidator(validator.DefaultTariffs)

	_, err := v.ValidateDevice(uuid.New(), validator.DeviceInput{
		Category: strings.Repeat("x", validator.MaxCategoryLength+1),
		DailyKWh: strPtr(strings.Repeat("1", validator.MaxEnergyLength+1)),
	})

	var verr *validator.ValidationError
	require.True(t, errors.As(err, &verr))

	fields := make([]string, 0, len(verr.Errors))
	for _, e := range verr.Errors {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"device_name", "device_category", "daily_kwh"}, fields)
}

func TestValidateDeviceUpdate(t *testing.T) {
	v := validator.NewValidator(validator.DefaultTariffs)

	var in validator.DeviceUpdateInput
	require.NoError(t, json.Unmarshal([]byte(`{"location": null, "is_active": false}`), &in))

	upd, err := v.ValidateDeviceUpdate(in)
	require.NoError(t, err)
	assert.Nil(t, upd.Name)
	assert.True(t, upd.ClearLocation)
	require.NotNil(t, upd.IsActive)
	assert.False(t, *upd.IsActive)

	in = validator.DeviceUpdateInput{}
	require.NoError(t, json.Unmarshal([]byte(`{"device_name": "Den TV"}`), &in))

	upd, err = v.ValidateDeviceUpdate(in)
	require.NoError(t, err)
	assert.Equal(t, "Den TV", *upd.Name)
	assert.False(t, upd.ClearLocation)
	assert.Nil(t, upd.Location)
}

func TestValidateDeviceUpdate_EmptyName(t *testing.T) {
	v := validator.NewValidator(validator.DefaultTariffs)

	_, err := v.ValidateDeviceUpdate(validator.DeviceUpdateInput{Name: strPtr("  ")})

	var verr *validator.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "device_name", verr.Errors[0].Field)
}
