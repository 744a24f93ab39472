package models

// SetupStage is where a profile is in the setup flow. It is derived per
// request, never stored.
type SetupStage string

const (
	StageSignedOut       SetupStage = "signed_out"
	StageNeedsRestaurant SetupStage = "needs_restaurant"
	StageNeedsLocation   SetupStage = "needs_location"
	StageReady           SetupStage = "ready"
)

// StageFor derives the stage from the session and the cached identifiers.
func StageFor(signedIn, hasRestaurant, hasLocation bool) SetupStage {
	switch {
	case !signedIn:
		return StageSignedOut
	case !hasRestaurant:
		return StageNeedsRestaurant
	case !hasLocation:
		return StageNeedsLocation
	default:
		return StageReady
	}
}
