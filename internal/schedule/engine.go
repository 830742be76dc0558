package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"salonportal/internal/appointments"
	"salonportal/internal/metrics"
	"salonportal/internal/model"
)

// Engine generates week grids for stylists from an injected appointment
// source. Settings are passed in as a snapshot on every call; the engine
// never reads storage.
type Engine struct {
	source appointments.Source
	policy PlacementPolicy
	logger *zerolog.Logger
}

// NewEngine creates an engine. logger may be nil.
func NewEngine(source appointments.Source, policy PlacementPolicy, logger *zerolog.Logger) *Engine {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Engine{source: source, policy: policy, logger: logger}
}

// GenerateWeek fetches the week's appointments and builds the grid.
func (e *Engine) GenerateWeek(ctx context.Context, stylistID string, anchor time.Time, snap model.SettingsSnapshot) (Week, error) {
	started := time.Now()
	from := WeekStart(anchor)
	to := from.AddDate(0, 0, DaysInWeek-1)

	var res appointments.Result
	if e.source != nil {
		var err error
		res, err = e.source.FetchAppointments(ctx, stylistID, from, to)
		if err != nil {
			metrics.IncAppointmentFetch("error")
			return Week{}, fmt.Errorf("fetch appointments: %w", err)
		}
		metrics.IncAppointmentFetch(string(res.Origin))
	}

	week := BuildWeek(anchor, snap.Clone(), res.Appointments, Options{Policy: e.policy})
	week.Stale = res.Stale
	week.Source = string(res.Origin)

	for _, a := range week.Anomalies {
		metrics.IncPlacementAnomaly(string(a.Kind))
		e.logger.Debug().
			Str("stylist_id", stylistID).
			Str("appointment_id", a.AppointmentID).
			Str("date", a.Date).
			Str("kind", string(a.Kind)).
			Msg("appointment placement anomaly")
	}
	metrics.ObserveWeekGenerated(time.Since(started))
	return week, nil
}
