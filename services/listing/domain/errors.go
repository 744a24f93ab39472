package domain

import "errors"

// Sentinel errors for the listing domain. Use errors.Is() to check these.
var (
	// ErrSetupIncomplete indicates the profile has no cached restaurant or location yet.
	ErrSetupIncomplete = errors.New("set up restaurant and location first")

	// ErrItemIDMissing indicates the item insert returned no usable identifier.
	ErrItemIDMissing = errors.New("couldn't obtain created item id")

	// ErrInvalidListing indicates the listing violates quantity, window or lead time rules.
	ErrInvalidListing = errors.New("invalid listing")

	// ErrInvalidPrice indicates a negative price.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrPublishInFlight indicates another publish from the same profile is still running.
	ErrPublishInFlight = errors.New("a publish is already in progress")

	// ErrDuplicatePublish indicates a publish with the same idempotency key is still running.
	ErrDuplicatePublish = errors.New("publish with this idempotency key is already in progress")

	// ErrItemNotFound indicates no item exists with the requested id.
	ErrItemNotFound = errors.New("item not found")

	// ErrUnknownWindow indicates a quick-pick window name outside today, tonight and tomorrow.
	ErrUnknownWindow = errors.New("unknown pickup window")
)
