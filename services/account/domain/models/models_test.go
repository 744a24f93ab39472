package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	accountdomain "github.com/morsel-app/morsel-restaurant/services/account/domain"
)

func ptr(s string) *string { return &s }

func TestNewRestaurant(t *testing.T) {
	owner := uuid.New()
	tests := []struct {
		name    string
		owner   uuid.UUID
		input   string
		wantErr error
	}{
		{"valid", owner, "Joe's Deli", nil},
		{"trimmed", owner, "  Joe's Deli  ", nil},
		{"blank", owner, "   ", accountdomain.ErrRestaurantNameRequired},
		{"too long", owner, strings.Repeat("a", 256), accountdomain.ErrInvalidRestaurant},
		{"no owner", uuid.Nil, "Joe's Deli", accountdomain.ErrInvalidRestaurant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRestaurant(tt.owner, tt.input, RestaurantDetails{Phone: ptr(" "), Website: ptr("joes.example")})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Name != "Joe's Deli" || !r.Active || r.OwnerProfileID != owner {
				t.Fatalf("unexpected restaurant %+v", r)
			}
			if r.Phone != nil {
				t.Error("blank phone must be dropped")
			}
			if r.Website == nil || *r.Website != "joes.example" {
				t.Error("website must be kept")
			}
		})
	}
}

func TestNewLocation_Label(t *testing.T) {
	rid := uuid.New()
	tests := []struct {
		name    string
		label   string
		addr    Address
		pending string
		want    string
		wantErr error
	}{
		{"explicit label", "Main counter", Address{}, "1 Side St", "Main counter", nil},
		{"falls back to pending address", "", Address{}, "123 Main St", "123 Main St", nil},
		{"falls back to first line", " ", Address{Line1: ptr("9 Back Rd")}, "", "9 Back Rd", nil},
		{"nothing to label with", "", Address{}, "", "", accountdomain.ErrLocationLabelRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLocation(rid, tt.label, tt.addr, nil, true, tt.pending)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if l.Label != tt.want {
				t.Fatalf("expected label %q, got %q", tt.want, l.Label)
			}
		})
	}
}

func TestNewLocation_NeedsRestaurant(t *testing.T) {
	if _, err := NewLocation(uuid.Nil, "Counter", Address{}, nil, false, ""); !errors.Is(err, accountdomain.ErrRestaurantRequired) {
		t.Fatalf("expected ErrRestaurantRequired, got %v", err)
	}
}

func TestNewLocation_PendingAddressFillsLine1(t *testing.T) {
	l, err := NewLocation(uuid.New(), "Counter", Address{}, ptr("  "), false, "123 Main St")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Line1 == nil || *l.Line1 != "123 Main St" {
		t.Fatalf("expected pending address as line 1, got %v", l.Line1)
	}
	if l.Instructions != nil {
		t.Fatal("blank instructions must be dropped")
	}
}

func TestStageFor(t *testing.T) {
	tests := []struct {
		signedIn, restaurant, location bool
		want                           SetupStage
	}{
		{false, true, true, StageSignedOut},
		{true, false, false, StageNeedsRestaurant},
		{true, false, true, StageNeedsRestaurant},
		{true, true, false, StageNeedsLocation},
		{true, true, true, StageReady},
	}
	for _, tt := range tests {
		if got := StageFor(tt.signedIn, tt.restaurant, tt.location); got != tt.want {
			t.Errorf("StageFor(%v, %v, %v) = %s, want %s", tt.signedIn, tt.restaurant, tt.location, got, tt.want)
		}
	}
}

func TestNewProfile(t *testing.T) {
	p := NewProfile(uuid.New(), "  A@B.com ", ptr(" "))
	if p.Email != "a@b.com" {
		t.Fatalf("expected normalised email, got %q", p.Email)
	}
	if p.DisplayName != nil {
		t.Fatal("blank display name must be dropped")
	}
}
