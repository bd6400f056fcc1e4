package validator

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/septivank/energy-insights/internal/db"
)

const (
	MinRoomCount = 1
	MaxRoomCount = 20
)

var (
	PropertyOwnerships = []string{"own", "rent"}
	HouseTypes         = []string{"detached", "semi_detached", "terraced", "apartment", "flat", "bungalow", "other"}
	HeatingTypes       = []string{"gas", "electric", "oil", "solar", "heat_pump", "biomass", "district_heating", "other"}
	PropertyAges       = []string{"new_build", "modern", "established", "older", "historic"}
)

// HouseholdInput is a partial household profile update; nil fields are kept.
type HouseholdInput struct {
	PropertyOwnership *string `json:"property_ownership"`
	HouseType         *string `json:"house_type"`
	Occupants         *int    `json:"number_of_occupants"`
	Bedrooms          *int    `json:"number_of_bedrooms"`
	HeatingType       *string `json:"heating_type"`
	PropertyAge       *string `json:"property_age"`
}

// ApplyHousehold validates in and merges it over current, which may be nil.
func (v *Validator) ApplyHousehold(userID uuid.UUID, current *db.HouseholdProfile, in HouseholdInput) (*db.HouseholdProfile, error) {
	verr := &ValidationError{}

	checkEnum(verr, "property_ownership", in.PropertyOwnership, PropertyOwnerships)
	checkEnum(verr, "house_type", in.HouseType, HouseTypes)
	checkEnum(verr, "heating_type", in.HeatingType, HeatingTypes)
	checkEnum(verr, "property_age", in.PropertyAge, PropertyAges)
	checkRange(verr, "number_of_occupants", in.Occupants)
	checkRange(verr, "number_of_bedrooms", in.Bedrooms)

	if err := verr.errOrNil(); err != nil {
		return nil, err
	}

	out := db.HouseholdProfile{UserID: userID}
	if current != nil {
		out = *current
		out.UserID = userID
	}
	if in.PropertyOwnership != nil {
		out.PropertyOwnership = in.PropertyOwnership
	}
	if in.HouseType != nil {
		out.HouseType = in.HouseType
	}
	if in.Occupants != nil {
		out.Occupants = in.Occupants
	}
	if in.Bedrooms != nil {
		out.Bedrooms = in.Bedrooms
	}
	if in.HeatingType != nil {
		out.HeatingType = in.HeatingType
	}
	if in.PropertyAge != nil {
		out.PropertyAge = in.PropertyAge
	}
	return &out, nil
}

func checkEnum(verr *ValidationError, field string, value *string, allowed []string) {
	if value == nil {
		return
	}
	if !oneOf(*value, allowed) {
		verr.add(field, "invalid_"+field, fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")))
	}
}

func checkRange(verr *ValidationError, field string, value *int) {
	if value == nil {
		return
	}
	if *value < MinRoomCount || *value > MaxRoomCount {
		verr.add(field, "out_of_range", fmt.Sprintf("must be between %d and %d", MinRoomCount, MaxRoomCount))
	}
}
