package schedule

import (
	"time"

	"salonportal/internal/appointments"
	"salonportal/internal/model"
)

// DaysInWeek is the fixed width of the grid.
const DaysInWeek = 7

var shortDayNames = map[string][DaysInWeek]string{
	"en": {"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	"ja": {"日", "月", "火", "水", "木", "金", "土"},
}

// ShortDayName returns the localized short weekday label, English for unknown locales.
func ShortDayName(locale string, d time.Weekday) string {
	names, ok := shortDayNames[locale]
	if !ok {
		names = shortDayNames["en"]
	}
	return names[d]
}

// Options tunes week generation. Zero values mean: step from the calendar
// settings, last-write-wins placement, locale from the calendar settings.
type Options struct {
	Step   int
	Policy PlacementPolicy
	Locale string
}

// Week is the full grid handed to renderers.
type Week struct {
	Anchor       string              `json:"anchor"`
	Start        string              `json:"start"`
	End          string              `json:"end"`
	Step         int                 `json:"step"`
	VisibleRange model.TimeRange     `json:"visible_range"`
	Days         []model.ScheduleDay `json:"days"`
	Anomalies    []PlacementAnomaly  `json:"anomalies,omitempty"`
	Stale        bool                `json:"stale"`
	Source       string              `json:"source,omitempty"`
}

// WeekStart returns midnight of the Sunday on or before anchor.
func WeekStart(anchor time.Time) time.Time {
	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// BuildWeek generates the Sunday..Saturday grid containing anchor. It does no
// I/O and the same inputs always yield the same output.
func BuildWeek(anchor time.Time, snap model.SettingsSnapshot, appts []model.AppointmentBlock, opts Options) Week {
	step := opts.Step
	if step <= 0 {
		step = snap.Calendar.Step()
	}
	locale := opts.Locale
	if locale == "" {
		locale = snap.Calendar.Locale
	}

	start := WeekStart(anchor)
	week := Week{
		Anchor:       anchor.Format(dateLayout),
		Start:        start.Format(dateLayout),
		End:          start.AddDate(0, 0, DaysInWeek-1).Format(dateLayout),
		Step:         step,
		VisibleRange: ComputeVisibleTimeRange(snap.WorkingHours, snap.Extension),
		Days:         make([]model.ScheduleDay, 0, DaysInWeek),
	}

	inWeek := make(map[string]bool, DaysInWeek)
	for i := 0; i < DaysInWeek; i++ {
		date := start.AddDate(0, 0, i)
		dateKey := date.Format(dateLayout)
		inWeek[dateKey] = true
		free := GenerateDaySlots(date, date.Weekday(), snap, step)
		slots, anomalies := PlaceAppointmentsReport(free, appointments.ForDate(appts, dateKey), step, opts.Policy)
		week.Anomalies = append(week.Anomalies, anomalies...)
		week.Days = append(week.Days, model.ScheduleDay{
			Date:      dateKey,
			DayOfWeek: ShortDayName(locale, date.Weekday()),
			Slots:     slots,
		})
	}

	week.Anomalies = append(week.Anomalies, outsideWeek(appts, inWeek)...)

	week.VisibleRange = widenToSlots(week.VisibleRange, week.Days)
	return week
}

func outsideWeek(appts []model.AppointmentBlock, inWeek map[string]bool) []PlacementAnomaly {
	var out []PlacementAnomaly
	for _, a := range appts {
		if a.IsCancelled() || inWeek[a.Date] {
			continue
		}
		out = append(out, PlacementAnomaly{
			Kind:          AnomalyDateNotInWeek,
			AppointmentID: a.ID,
			Date:          a.Date,
			StartTime:     model.NormalizeClock(a.StartTime),
		})
	}
	return out
}

// widenToSlots stretches the axis over date overrides that fall outside the
// weekly hours, so every generated slot has a row to sit in.
func widenToSlots(r model.TimeRange, days []model.ScheduleDay) model.TimeRange {
	lo, hi := r.StartMinutes(), r.EndMinutes()
	if r.Empty {
		lo, hi = model.MinutesPerDay, 0
	}
	seen := false
	for _, d := range days {
		if len(d.Slots) == 0 {
			continue
		}
		seen = true
		s, _ := model.ParseClock(d.Slots[0].StartTime)
		e := s + len(d.Slots)*d.Slots[0].DurationMinutes
		lo, hi = min(lo, s), max(hi, e)
	}
	if !seen {
		return r
	}
	return model.RangeFromMinutes(lo, hi)
}
