package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"salonportal/internal/events"
	"salonportal/internal/export"
	"salonportal/internal/metrics"
	"salonportal/internal/model"
	"salonportal/internal/schedule"
)

// WeekResponse is the body of GET .../schedule/week.
type WeekResponse struct {
	schedule.Week
	Stats    schedule.WeekStats `json:"stats"`
	FreeTime []schedule.FreeRun `json:"free_time"`
}

// DurationOption is one bookable length offered from a start slot.
type DurationOption struct {
	Minutes int    `json:"minutes"`
	Label   string `json:"label"`
}

// DurationsResponse is the body of GET .../schedule/durations.
type DurationsResponse struct {
	Date      string           `json:"date"`
	Start     string           `json:"start"`
	Options   []DurationOption `json:"options"`
	Requested int              `json:"requested,omitempty"`
	Bookable  *bool            `json:"bookable,omitempty"`
}

// handleWeek returns the week grid containing ?date= (today by default).
// GET /api/v1/stylists/{stylistID}/schedule/week
func (s *HTTPServer) handleWeek(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("schedule_week")

	week, ok := s.generate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, WeekResponse{
		Week:     week,
		Stats:    schedule.Summarize(week),
		FreeTime: schedule.WeekFreeTime(week),
	})
}

// handleDurations lists the lengths that can be booked from ?start= on ?date=.
// With ?minutes= it also says whether that exact length fits.
// GET /api/v1/stylists/{stylistID}/schedule/durations
func (s *HTTPServer) handleDurations(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("schedule_durations")

	q := r.URL.Query()
	start, err := model.ParseClock(q.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	requested := 0
	if raw := q.Get("minutes"); raw != "" {
		requested, err = strconv.Atoi(raw)
		if err != nil || requested <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid minutes %q", raw))
			return
		}
	}

	week, ok := s.generate(w, r)
	if !ok {
		return
	}

	resp := DurationsResponse{Date: week.Anchor, Start: model.FormatClock(start), Options: []DurationOption{}}
	var slots []model.TimeSlot
	for _, d := range week.Days {
		if d.Date == week.Anchor {
			slots = d.Slots
			break
		}
	}
	for _, m := range schedule.DurationOptions(slots, resp.Start) {
		resp.Options = append(resp.Options, DurationOption{Minutes: m, Label: schedule.FormatDuration(m)})
	}
	if requested > 0 {
		count := (requested + week.Step - 1) / week.Step
		bookable := schedule.CanBookConsecutive(slots, resp.Start, count)
		resp.Requested = requested
		resp.Bookable = &bookable
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleWeekExport returns the same grid as an xlsx workbook.
// GET /api/v1/stylists/{stylistID}/schedule/week.xlsx
func (s *HTTPServer) handleWeekExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("schedule_week_xlsx")

	week, ok := s.generate(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWeek(&buf, week); err != nil {
		s.fail(w, r, fmt.Errorf("export week: %w", err))
		return
	}

	filename := fmt.Sprintf("schedule_%s_%s.xlsx", chi.URLParam(r, "stylistID"), week.Start)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// generate takes a settings snapshot and hands it to the engine. It writes
// the error response itself and reports whether the caller should go on.
func (s *HTTPServer) generate(w http.ResponseWriter, r *http.Request) (schedule.Week, bool) {
	stylistID := chi.URLParam(r, "stylistID")

	anchor, err := s.anchorDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return schedule.Week{}, false
	}

	snap, err := s.settings.LoadSnapshot(r.Context(), stylistID, s.defaultSnapshot())
	if err != nil {
		s.fail(w, r, err)
		return schedule.Week{}, false
	}

	week, err := s.weeks.GenerateWeek(r.Context(), stylistID, anchor, snap)
	if err != nil {
		s.fail(w, r, err)
		return schedule.Week{}, false
	}
	return week, true
}

func (s *HTTPServer) anchorDate(raw string) (time.Time, error) {
	if raw == "" {
		now := s.now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return d, nil
}

func (s *HTTPServer) defaultSnapshot() model.SettingsSnapshot {
	if s.defaults == nil {
		return model.SettingsSnapshot{}
	}
	return s.defaults.Snapshot()
}

// handleRefreshAppointments drops cached appointments so the next week
// request hits the booking backend.
// POST /api/v1/stylists/{stylistID}/appointments/refresh
func (s *HTTPServer) handleRefreshAppointments(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("appointments_refresh")

	stylistID := chi.URLParam(r, "stylistID")
	if err := s.bus.Publish(events.Event{Type: events.TypeAppointmentsChanged, StylistID: stylistID}); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
