// Package services contains stateless domain services for the listing bounded context.
package services

import (
	"fmt"
	"strings"
	"time"

	listingdomain "github.com/morsel-app/morsel-restaurant/services/listing/domain"
	"github.com/morsel-app/morsel-restaurant/services/listing/domain/models"
)

// QuickPick names a preset pickup window.
type QuickPick string

const (
	QuickPickToday    QuickPick = "today"
	QuickPickTonight  QuickPick = "tonight"
	QuickPickTomorrow QuickPick = "tomorrow"
)

// QuickPicks lists the presets in display order.
var QuickPicks = []QuickPick{QuickPickToday, QuickPickTonight, QuickPickTomorrow}

const (
	tonightStartHour  = 17
	tonightEndHour    = 20
	tomorrowStartHour = 9
	tomorrowEndHour   = 21
)

// ParseQuickPick accepts a preset name case-insensitively.
func ParseQuickPick(s string) (QuickPick, error) {
	p := QuickPick(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case QuickPickToday, QuickPickTonight, QuickPickTomorrow:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", listingdomain.ErrUnknownWindow, s)
	}
}

// QuickPickWindow computes a preset window relative to now in loc:
//
//	today     now → midnight
//	tonight   17:00 → 20:00, starting no earlier than now; after 20:00 it moves to tomorrow
//	tomorrow  tomorrow 09:00 → 21:00
func QuickPickWindow(p QuickPick, now time.Time, loc *time.Location) (models.PickupWindow, error) {
	now = now.In(loc)
	y, m, d := now.Date()
	at := func(dayOffset, hour int) time.Time {
		return time.Date(y, m, d+dayOffset, hour, 0, 0, 0, loc)
	}

	switch p {
	case QuickPickToday:
		return models.NewPickupWindow(now, at(1, 0))
	case QuickPickTonight:
		start, end := at(0, tonightStartHour), at(0, tonightEndHour)
		if !now.Before(end) {
			return models.NewPickupWindow(at(1, tonightStartHour), at(1, tonightEndHour))
		}
		if now.After(start) {
			start = now
		}
		return models.NewPickupWindow(start, end)
	case QuickPickTomorrow:
		return models.NewPickupWindow(at(1, tomorrowStartHour), at(1, tomorrowEndHour))
	default:
		return models.PickupWindow{}, fmt.Errorf("%w: %q", listingdomain.ErrUnknownWindow, p)
	}
}
