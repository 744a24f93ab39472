package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// JSON writes v as JSON with the given status code. The body is marshalled
// before any header is written, so an unencodable value answers 500 instead
// of a truncated success.
func JSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// JSONError writes a standard {"error": message} JSON response.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: message})
}

// RequestError is JSONError carrying the request id assigned by the router,
// so clients can quote it when reporting a failure.
func RequestError(w http.ResponseWriter, r *http.Request, status int, message string) {
	JSON(w, status, ErrorBody{Error: message, RequestID: RequestIDFrom(r)})
}

// RequestIDFrom returns the id the router assigned to r, or "".
func RequestIDFrom(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

// NoContent answers 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// SafeMessage returns the message sent to clients for err. In production,
// 5xx details are replaced with the status text.
func SafeMessage(err error, status int, isProduction bool) string {
	if isProduction && status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}
