package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/morsel-app/morsel-restaurant/pkg/httpx"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// notblank rejects whitespace-only names and titles that "required" lets through.
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
}

// ValidationErrorResponse is the 422 body written by ValidateRequest.
type ValidationErrorResponse struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields"`
	RequestID string            `json:"request_id,omitempty"`
} // @name ValidationErrorResponse

// Validate runs struct-level validation using go-playground/validator tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationErrors converts validator.ValidationErrors into a map of
// JSON field name to message. Slice elements are keyed like "tags[2]".
func FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return errs
	}
	for _, e := range ve {
		errs[e.Field()] = formatFieldError(e)
	}
	return errs
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "notblank":
		return "Must not be blank"
	case "uuid", "uuid4":
		return "Must be a valid UUID"
	case "min", "gte":
		return boundMessage(e, "at least")
	case "max", "lte":
		return boundMessage(e, "at most")
	case "oneof":
		return "Must be one of: " + strings.Join(strings.Fields(e.Param()), ", ")
	case "email":
		return "Must be a valid email address"
	case "url":
		return "Must be a valid URL"
	default:
		return fmt.Sprintf("Validation failed on '%s'", e.Tag())
	}
}

// boundMessage words a min/max failure by the kind of the field: a length
// for strings, a count for slices and a value for numbers.
func boundMessage(e validator.FieldError, bound string) string {
	switch e.Kind() {
	case reflect.String:
		return fmt.Sprintf("Must be %s %s characters", bound, e.Param())
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("Must have %s %s entries", bound, e.Param())
	default:
		return fmt.Sprintf("Must be %s %s", bound, e.Param())
	}
}

// ValidateRequest decodes the JSON request body into T and validates it.
// On failure it writes the response itself: 413 past the body limit, 400 for
// an empty or malformed body and 422 with per-field messages.
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			httpx.RequestError(w, r, http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			httpx.RequestError(w, r, http.StatusBadRequest, "Request body is empty")
		default:
			httpx.RequestError(w, r, http.StatusBadRequest, "Invalid JSON")
		}
		return nil, false
	}
	if err := Validate(&req); err != nil {
		httpx.JSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{
			Error:     "Validation failed",
			Fields:    FormatValidationErrors(err),
			RequestID: httpx.RequestIDFrom(r),
		})
		return nil, false
	}
	return &req, true
}
