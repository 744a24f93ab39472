package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/morsel-app/morsel-restaurant/pkg/auth"
	"github.com/morsel-app/morsel-restaurant/pkg/backend"
	accountdomain "github.com/morsel-app/morsel-restaurant/services/account/domain"
	listingdomain "github.com/morsel-app/morsel-restaurant/services/listing/domain"
)

type writeStepError struct {
	step string
	err  error
}

func (e *writeStepError) Error() string      { return e.step + ": " + e.err.Error() }
func (e *writeStepError) Unwrap() error      { return e.err }
func (e *writeStepError) FailedStep() string { return e.step }

func TestWriteError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ErrNotAuthenticated", auth.ErrNotAuthenticated, http.StatusUnauthorized},
		{"ErrInvalidCredentials", backend.ErrInvalidCredentials, http.StatusUnauthorized},
		{"ErrItemNotFound", listingdomain.ErrItemNotFound, http.StatusNotFound},
		{"ErrPublishInFlight", listingdomain.ErrPublishInFlight, http.StatusConflict},
		{"ErrDuplicatePublish", listingdomain.ErrDuplicatePublish, http.StatusConflict},
		{"ErrSetupInFlight", accountdomain.ErrSetupInFlight, http.StatusConflict},
		{"ErrEmailTaken", backend.ErrEmailTaken, http.StatusConflict},
		{"ErrSetupIncomplete", listingdomain.ErrSetupIncomplete, http.StatusUnprocessableEntity},
		{"ErrInvalidPrice", listingdomain.ErrInvalidPrice, http.StatusUnprocessableEntity},
		{"ErrRestaurantRequired", accountdomain.ErrRestaurantRequired, http.StatusUnprocessableEntity},
		{"ErrSessionCheckFailed", accountdomain.ErrSessionCheckFailed, http.StatusServiceUnavailable},
		{"wrapped ErrInvalidListing", fmt.Errorf("%w: quantity must be at least 1", listingdomain.ErrInvalidListing), http.StatusUnprocessableEntity},
		{"wrapped ErrSessionCheckFailed", fmt.Errorf("%w: dial tcp", accountdomain.ErrSessionCheckFailed), http.StatusServiceUnavailable},
		{"ErrItemIDMissing", listingdomain.ErrItemIDMissing, http.StatusBadGateway},
		{"step wrapped ErrItemIDMissing", &writeStepError{"create item", listingdomain.ErrItemIDMissing}, http.StatusBadGateway},
		{"step wrapped ErrConstraint", &writeStepError{"create listing", backend.ErrConstraint}, http.StatusUnprocessableEntity},
		{"step wrapped transport error", &writeStepError{"create item", errors.New("connection refused")}, http.StatusInternalServerError},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError},
		{"generic wrapped error", fmt.Errorf("context: %w", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, httptest.NewRequest(http.MethodPost, "/api/listings", http.NoBody), tt.err)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestWriteError_JSONBody(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, httptest.NewRequest(http.MethodPost, "/api/listings", http.NoBody), listingdomain.ErrSetupIncomplete)

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if body["error"] != listingdomain.ErrSetupIncomplete.Error() {
		t.Fatalf("unexpected error message %q", body["error"])
	}
}

func TestWriteError_ContentType(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, httptest.NewRequest(http.MethodGet, "/api/listings", http.NoBody), listingdomain.ErrItemNotFound)

	ct := w.Header().Get("Content-Type")
	if ct == "" {
		t.Fatal("Content-Type header not set")
	}
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, httptest.NewRequest(http.MethodGet, "/api/listings", http.NoBody),
		fmt.Errorf("list active listings: %w", errors.New("pq: connection refused")))

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if body["error"] != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("expected generic message, got %q", body["error"])
	}
}

func TestWriteError_KeepsServiceUnavailableReason(t *testing.T) {
	w := httptest.NewRecorder()
	err := fmt.Errorf("%w: dial tcp", accountdomain.ErrSessionCheckFailed)
	WriteError(w, httptest.NewRequest(http.MethodGet, "/api/auth/session", http.NoBody), err)

	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != err.Error() {
		t.Fatalf("expected %q, got %q", err.Error(), body["error"])
	}
}

func TestWriteError_StepMessages(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"transport failure keeps step text", &writeStepError{"create item", errors.New("insert item: connection refused")},
			http.StatusInternalServerError, "create item: insert item: connection refused"},
		{"missing item id", &writeStepError{"create item", listingdomain.ErrItemIDMissing},
			http.StatusBadGateway, "create item: couldn't obtain created item id"},
		{"wrapped step error", fmt.Errorf("publish: %w", &writeStepError{"attach tags", errors.New("timeout")}),
			http.StatusInternalServerError, "publish: attach tags: timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, httptest.NewRequest(http.MethodPost, "/api/listings", http.NoBody), tt.err)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("response body is not valid JSON: %v", err)
			}
			if body["error"] != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, body["error"])
			}
		})
	}
}
