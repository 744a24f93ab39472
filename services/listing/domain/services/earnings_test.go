package services

import (
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/morsel-app/morsel-restaurant/services/listing/domain/models"
)

func TestEstimateEarnings(t *testing.T) {
	tests := []struct {
		name     string
		price    models.Money
		quantity int
		want     models.Money
		digits   string
	}{
		{"scenario price", 550, 3, 1650, "16.50"},
		{"zero price", 0, 10, 0, "0.00"},
		{"single unit", 1299, 1, 1299, "12.99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EstimateEarnings(tt.price, tt.quantity, "USD", language.AmericanEnglish)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Total != tt.want {
				t.Fatalf("expected total %d, got %d", tt.want, got.Total)
			}
			if got.Currency != "USD" {
				t.Fatalf("expected USD, got %s", got.Currency)
			}
			if !strings.Contains(got.Formatted, tt.digits) || !strings.Contains(got.Formatted, "$") {
				t.Fatalf("unexpected formatted total %q", got.Formatted)
			}
		})
	}
}

func TestEstimateEarnings_UnknownCurrency(t *testing.T) {
	if _, err := EstimateEarnings(100, 1, "XYZW", language.AmericanEnglish); err == nil {
		t.Fatal("expected error for unknown currency")
	}
}
