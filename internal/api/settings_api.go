package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"salonportal/internal/db"
	"salonportal/internal/events"
	"salonportal/internal/metrics"
	"salonportal/internal/model"
)

const maxSettingsBody = 1 << 20

// handleGetSettings returns one settings blob, falling back to the defaults.
// GET /api/v1/stylists/{stylistID}/settings/{kind}
func (s *HTTPServer) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("settings_get")

	stylistID := chi.URLParam(r, "stylistID")
	kind, err := model.ParseSettingsKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	payload, err := s.settings.GetBlob(r.Context(), stylistID, kind)
	if errors.Is(err, db.ErrNotFound) {
		writeJSON(w, http.StatusOK, defaultBlob(s.defaultSnapshot(), kind))
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// handlePutSettings validates and replaces one settings blob.
// PUT /api/v1/stylists/{stylistID}/settings/{kind}
func (s *HTTPServer) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("settings_put")

	stylistID := chi.URLParam(r, "stylistID")
	kind, err := model.ParseSettingsKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSettingsBody+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if len(body) > maxSettingsBody {
		writeError(w, http.StatusRequestEntityTooLarge, "body too large")
		return
	}
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.settings.SaveSetting(r.Context(), stylistID, kind, body); err != nil {
		s.fail(w, r, err)
		return
	}

	event := events.Event{Type: events.TypeSettingsSaved, StylistID: stylistID, Kind: string(kind)}
	if err := s.bus.Publish(event); err != nil {
		// The save itself succeeded.
		s.logger.Warn().Err(err).Str("stylist_id", stylistID).Str("kind", string(kind)).Msg("settings.saved handler failed")
	}

	payload, err := s.settings.GetBlob(r.Context(), stylistID, kind)
	if err != nil {
		s.fail(w, r, fmt.Errorf("reload %s: %w", kind, err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func defaultBlob(snap model.SettingsSnapshot, kind model.SettingsKind) any {
	switch kind {
	case model.KindWorkingHours:
		if snap.WorkingHours == nil {
			return model.WorkingHours{}
		}
		return snap.WorkingHours
	case model.KindMonthlySchedule:
		if snap.Monthly == nil {
			return model.MonthlySchedule{}
		}
		return snap.Monthly
	case model.KindCalendar:
		return snap.Calendar
	default:
		return snap.Extension
	}
}
