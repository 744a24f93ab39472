package domain

import "errors"

// Sentinel errors for the account domain. Use errors.Is() to check these.
var (
	// ErrRestaurantNameRequired indicates a blank restaurant name.
	ErrRestaurantNameRequired = errors.New("restaurant name is required")

	// ErrInvalidRestaurant indicates restaurant fields outside their limits.
	ErrInvalidRestaurant = errors.New("invalid restaurant")

	// ErrRestaurantRequired indicates a location save before any restaurant was created.
	ErrRestaurantRequired = errors.New("create a restaurant first")

	// ErrLocationLabelRequired indicates neither a label nor an address was given.
	ErrLocationLabelRequired = errors.New("location label or address is required")

	// ErrSetupInFlight indicates another setup action of the same profile is still running.
	ErrSetupInFlight = errors.New("a setup action is already in progress")

	// ErrProfileNotFound indicates no profile exists for the auth user.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrSessionCheckFailed indicates the current session could not be checked.
	ErrSessionCheckFailed = errors.New("couldn't check the current session")
)
