package validation

import (
	"math"
	"testing"
)

func TestValidateLatitudeRange(t *testing.T) {
	if err := ValidateLatitude(34.733, "lat"); err != nil {
		t.Errorf("Expected valid latitude, got %v", err)
	}
	if err := ValidateLatitude(91, "lat"); err == nil {
		t.Error("Expected error for latitude > 90")
	}
	if err := ValidateLatitude(math.NaN(), "lat"); err == nil {
		t.Error("Expected error for NaN latitude")
	}
}

func TestValidateLongitudeRange(t *testing.T) {
	if err := ValidateLongitude(135.341, "lon"); err != nil {
		t.Errorf("Expected valid longitude, got %v", err)
	}
	if err := ValidateLongitude(-181, "lon"); err == nil {
		t.Error("Expected error for longitude < -180")
	}
	if err := ValidateLongitude(math.Inf(1), "lon"); err == nil {
		t.Error("Expected error for infinite longitude")
	}
}

func TestValidateCoordinatePair(t *testing.T) {
	if err := ValidateCoordinatePair(34.733, 135.341, "origin"); err != nil {
		t.Errorf("Expected valid pair, got %v", err)
	}
	err := ValidateCoordinatePair(120, 135.341, "origin")
	if err == nil {
		t.Fatal("Expected error for invalid latitude")
	}
	ce, ok := err.(*CoordinateError)
	if !ok || ce.Field != "origin_lat" {
		t.Errorf("Expected origin_lat field in error, got %v", err)
	}
}

func TestIsZeroCoordinate(t *testing.T) {
	if !IsZeroCoordinate(0, 0) {
		t.Error("Expected (0,0) to be zero coordinate")
	}
	if IsZeroCoordinate(34.733, 0) {
		t.Error("Expected non-zero coordinate")
	}
}
