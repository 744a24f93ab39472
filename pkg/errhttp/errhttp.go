// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/morsel-app/morsel-restaurant/pkg/auth"
	"github.com/morsel-app/morsel-restaurant/pkg/backend"
	"github.com/morsel-app/morsel-restaurant/pkg/httpx"
	"github.com/morsel-app/morsel-restaurant/pkg/telemetry"
	accountdomain "github.com/morsel-app/morsel-restaurant/services/account/domain"
	listingdomain "github.com/morsel-app/morsel-restaurant/services/listing/domain"
)

// StepError is implemented by errors that name the write step that failed.
// Their text is shown to the client even when the status is a 500.
type StepError interface {
	error
	FailedStep() string
}

// WriteError maps err to an HTTP status code and writes a JSON error body
// carrying the request id. Sentinels are matched with errors.Is, so wrapped
// errors map like their sentinel. Every 5xx is reported to Sentry. An
// unrecognized 500 has its message withheld from the client unless it is a
// StepError.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToStatus(err)
	tags := map[string]string{"route": r.Method + " " + r.URL.Path}

	var stepErr StepError
	stepped := errors.As(err, &stepErr)
	if stepped {
		tags["step"] = stepErr.FailedStep()
	}
	if status >= http.StatusInternalServerError {
		telemetry.ReportError(r.Context(), err, tags)
	}
	masked := status == http.StatusInternalServerError && !stepped
	httpx.RequestError(w, r, status, httpx.SafeMessage(err, status, masked))
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, auth.ErrNotAuthenticated),
		errors.Is(err, auth.ErrProfileNotFound),
		errors.Is(err, backend.ErrInvalidCredentials):
		return http.StatusUnauthorized // 401
	case errors.Is(err, listingdomain.ErrItemNotFound),
		errors.Is(err, accountdomain.ErrProfileNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, listingdomain.ErrPublishInFlight),
		errors.Is(err, listingdomain.ErrDuplicatePublish),
		errors.Is(err, accountdomain.ErrSetupInFlight),
		errors.Is(err, backend.ErrEmailTaken),
		errors.Is(err, backend.ErrConflict):
		return http.StatusConflict // 409
	case errors.Is(err, listingdomain.ErrSetupIncomplete),
		errors.Is(err, listingdomain.ErrInvalidListing),
		errors.Is(err, listingdomain.ErrInvalidPrice),
		errors.Is(err, listingdomain.ErrUnknownWindow),
		errors.Is(err, accountdomain.ErrRestaurantNameRequired),
		errors.Is(err, accountdomain.ErrInvalidRestaurant),
		errors.Is(err, accountdomain.ErrRestaurantRequired),
		errors.Is(err, accountdomain.ErrLocationLabelRequired),
		errors.Is(err, backend.ErrConstraint):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, listingdomain.ErrItemIDMissing):
		return http.StatusBadGateway // 502
	case errors.Is(err, accountdomain.ErrSessionCheckFailed):
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}
