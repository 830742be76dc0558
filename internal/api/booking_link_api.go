package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"salonportal/internal/db"
	"salonportal/internal/events"
	"salonportal/internal/metrics"
	"salonportal/internal/model"
)

// BookingLinkRequest is the editable part of a booking link. Omitted fields
// keep their stored values.
type BookingLinkRequest struct {
	MaxAdvanceDays    *int  `json:"max_advance_days,omitempty"`
	AllowGuestBooking *bool `json:"allow_guest_booking,omitempty"`
	IsActive          *bool `json:"is_active,omitempty"`
}

// handleGetBookingLink returns the stylist's booking link.
// GET /api/v1/stylists/{stylistID}/booking-link
func (s *HTTPServer) handleGetBookingLink(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("booking_link_get")

	link, err := s.links.GetBookingLink(r.Context(), chi.URLParam(r, "stylistID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.decorate(link)
	writeJSON(w, http.StatusOK, link)
}

// handlePostBookingLink creates the link on first call and updates it after.
// The unique code never changes once assigned.
// POST /api/v1/stylists/{stylistID}/booking-link
func (s *HTTPServer) handlePostBookingLink(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("booking_link_post")

	stylistID := chi.URLParam(r, "stylistID")

	var req BookingLinkRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	link, err := s.links.GetBookingLink(r.Context(), stylistID)
	switch {
	case errors.Is(err, db.ErrNotFound):
		link = &model.BookingLink{
			StylistID:         stylistID,
			UniqueCode:        newBookingCode(),
			MaxAdvanceDays:    model.DefaultBookingAdvanceDays,
			AllowGuestBooking: true,
			IsActive:          true,
		}
	case err != nil:
		s.fail(w, r, err)
		return
	}

	if req.MaxAdvanceDays != nil {
		link.MaxAdvanceDays = *req.MaxAdvanceDays
	}
	if req.AllowGuestBooking != nil {
		link.AllowGuestBooking = *req.AllowGuestBooking
	}
	if req.IsActive != nil {
		link.IsActive = *req.IsActive
	}

	if err := s.links.UpsertBookingLink(r.Context(), link); err != nil {
		s.fail(w, r, err)
		return
	}

	saved, err := s.links.GetBookingLink(r.Context(), stylistID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = s.bus.Publish(events.Event{Type: events.TypeBookingLinkSaved, StylistID: stylistID})

	s.decorate(saved)
	writeJSON(w, http.StatusOK, saved)
}

// decorate fills the derived URLs of a link.
func (s *HTTPServer) decorate(link *model.BookingLink) {
	link.BookingURL = strings.TrimRight(s.link.PublicBaseURL, "/") + "/book/" + link.UniqueCode
	if s.link.QRCodeEndpoint != "" {
		sep := "?"
		if strings.Contains(s.link.QRCodeEndpoint, "?") {
			sep = "&"
		}
		link.QRCodeURL = s.link.QRCodeEndpoint + sep + "data=" + url.QueryEscape(link.BookingURL)
	}
}

// newBookingCode returns 12 lowercase hex characters taken from a random UUID.
func newBookingCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
