package handlers

import (
	"net/http"

	"golang.org/x/text/language"

	domainsvcs "github.com/morsel-app/morsel-restaurant/services/listing/domain/services"
)

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error     string `json:"error"                example:"set up restaurant and location first"`
	RequestID string `json:"request_id,omitempty" example:"host/abc123-000001"`
} // @name ErrorResponse

// EarningsResponse is the estimated revenue of selling the whole quantity.
type EarningsResponse struct {
	TotalCents int64  `json:"total_cents" example:"1000"`
	Currency   string `json:"currency"    example:"USD"`
	Formatted  string `json:"formatted"   example:"$10.00"`
} // @name EarningsResponse

func newEarningsResponse(e domainsvcs.Earnings) EarningsResponse {
	return EarningsResponse{TotalCents: int64(e.Total), Currency: e.Currency, Formatted: e.Formatted}
}

var supportedTags = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.French,
	language.German,
	language.Spanish,
	language.Italian,
	language.Dutch,
	language.Portuguese,
}

var supportedLanguages = language.NewMatcher(supportedTags)

// requestLanguage picks the display language from Accept-Language.
func requestLanguage(r *http.Request) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return language.AmericanEnglish
	}
	_, idx, _ := supportedLanguages.Match(tags...)
	return supportedTags[idx]
}
