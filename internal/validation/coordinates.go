package validation

import (
	"fmt"
	"math"
)

// CoordinateError describes a coordinate validation failure.
type CoordinateError struct {
	Field   string
	Value   float64
	Message string
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("%s: %s (value: %.6f)", e.Field, e.Message, e.Value)
}

// ValidateLatitude validates a latitude value.
func ValidateLatitude(lat float64, fieldName string) error {
	if math.IsNaN(lat) {
		return &CoordinateError{Field: fieldName, Value: lat, Message: "NaN is not allowed"}
	}
	if math.IsInf(lat, 0) {
		return &CoordinateError{Field: fieldName, Value: lat, Message: "infinite value is not allowed"}
	}
	if lat < -90 || lat > 90 {
		return &CoordinateError{Field: fieldName, Value: lat, Message: "must be between -90 and 90"}
	}
	return nil
}

// ValidateLongitude validates a longitude value.
func ValidateLongitude(lon float64, fieldName string) error {
	if math.IsNaN(lon) {
		return &CoordinateError{Field: fieldName, Value: lon, Message: "NaN is not allowed"}
	}
	if math.IsInf(lon, 0) {
		return &CoordinateError{Field: fieldName, Value: lon, Message: "infinite value is not allowed"}
	}
	if lon < -180 || lon > 180 {
		return &CoordinateError{Field: fieldName, Value: lon, Message: "must be between -180 and 180"}
	}
	return nil
}

// ValidateCoordinatePair validates a (lat, lon) pair.
func ValidateCoordinatePair(lat, lon float64, prefix string) error {
	if err := ValidateLatitude(lat, prefix+"_lat"); err != nil {
		return err
	}
	if err := ValidateLongitude(lon, prefix+"_lon"); err != nil {
		return err
	}
	return nil
}

// IsZeroCoordinate reports whether a coordinate is (0, 0), which messaging
// clients send when location sharing silently failed.
func IsZeroCoordinate(lat, lon float64) bool {
	return lat == 0 && lon == 0
}
