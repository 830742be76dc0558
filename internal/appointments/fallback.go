package appointments

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// FallbackSource serves the primary source and, only in demo mode,
// substitutes demo data when the primary fails. The substituted result is
// marked stale so callers never present it as real bookings.
type FallbackSource struct {
	primary  Source
	demo     Source
	demoMode bool
	logger   *zerolog.Logger
}

// NewFallbackSource wraps primary. demo may be nil when demoMode is false.
func NewFallbackSource(primary, demo Source, demoMode bool, logger *zerolog.Logger) *FallbackSource {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &FallbackSource{primary: primary, demo: demo, demoMode: demoMode, logger: logger}
}

// FetchAppointments implements Source.
func (f *FallbackSource) FetchAppointments(ctx context.Context, stylistID string, from, to time.Time) (Result, error) {
	res, err := f.primary.FetchAppointments(ctx, stylistID, from, to)
	if err == nil {
		return res, nil
	}
	if !f.demoMode || f.demo == nil {
		return Result{}, err
	}

	f.logger.Warn().Err(err).Str("stylist_id", stylistID).Msg("appointment fetch failed, serving demo data")
	demo, demoErr := f.demo.FetchAppointments(ctx, stylistID, from, to)
	if demoErr != nil {
		return Result{}, err
	}
	demo.Stale = true
	demo.Origin = OriginDemo
	return demo, nil
}
