package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	all := []error{
		ErrRestaurantNameRequired,
		ErrInvalidRestaurant,
		ErrRestaurantRequired,
		ErrLocationLabelRequired,
		ErrSetupInFlight,
		ErrSessionCheckFailed,
		ErrProfileNotFound,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v must not match %v", a, b)
			}
		}
	}
}

func TestSentinelErrors_WrappedIdentity(t *testing.T) {
	wrapped := fmt.Errorf("save location: %w", ErrRestaurantRequired)
	if !errors.Is(wrapped, ErrRestaurantRequired) {
		t.Fatal("errors.Is must match wrapped ErrRestaurantRequired")
	}
}
