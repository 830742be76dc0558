package appointments

import (
	"context"
	"errors"
	"time"

	"salonportal/internal/model"
)

// Origin tells where a batch of appointments came from.
type Origin string

const (
	OriginAPI   Origin = "api"
	OriginCache Origin = "cache"
	OriginDemo  Origin = "demo"
)

// ErrUpstream wraps failures of the remote appointment API.
var ErrUpstream = errors.New("appointment source unavailable")

// Result is a batch of appointments for a date range.
// Stale is set when the data is not the stylist's real bookings.
type Result struct {
	Appointments []model.AppointmentBlock
	Origin       Origin
	Stale        bool
}

// Source supplies bookings to lay onto the grid. from and to are inclusive dates.
type Source interface {
	FetchAppointments(ctx context.Context, stylistID string, from, to time.Time) (Result, error)
}

// ForDate returns the appointments that belong to an ISO date.
func ForDate(appts []model.AppointmentBlock, date string) []model.AppointmentBlock {
	var out []model.AppointmentBlock
	for _, a := range appts {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out
}
