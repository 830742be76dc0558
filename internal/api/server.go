package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"salonportal/internal/appointments"
	"salonportal/internal/db"
	"salonportal/internal/events"
	"salonportal/internal/model"
	"salonportal/internal/schedule"
)

// SettingsStore persists the four settings blobs of a stylist.
type SettingsStore interface {
	GetBlob(ctx context.Context, stylistID string, kind model.SettingsKind) ([]byte, error)
	SaveSetting(ctx context.Context, stylistID string, kind model.SettingsKind, payload []byte) error
	LoadSnapshot(ctx context.Context, stylistID string, defaults model.SettingsSnapshot) (model.SettingsSnapshot, error)
}

// BookingLinkStore persists booking links.
type BookingLinkStore interface {
	GetBookingLink(ctx context.Context, stylistID string) (*model.BookingLink, error)
	UpsertBookingLink(ctx context.Context, link *model.BookingLink) error
}

// WeekGenerator builds a week grid from a settings snapshot.
type WeekGenerator interface {
	GenerateWeek(ctx context.Context, stylistID string, anchor time.Time, snap model.SettingsSnapshot) (schedule.Week, error)
}

// DefaultsProvider returns the settings used where a stylist saved none.
type DefaultsProvider interface {
	Snapshot() model.SettingsSnapshot
}

// Checker is a dependency that /readyz asks before reporting ready.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// LinkConfig is used to build public booking URLs.
type LinkConfig struct {
	PublicBaseURL  string
	QRCodeEndpoint string
}

// Deps are the collaborators of the HTTP server.
type Deps struct {
	Settings       SettingsStore
	Links          BookingLinkStore
	Weeks          WeekGenerator
	Defaults       DefaultsProvider
	Bus            *events.EventBus
	Link           LinkConfig
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	Checks         map[string]Checker
	Logger         *zerolog.Logger
}

// HTTPServer serves the stylist portal API.
type HTTPServer struct {
	settings SettingsStore
	links    BookingLinkStore
	weeks    WeekGenerator
	defaults DefaultsProvider
	bus      *events.EventBus
	link     LinkConfig
	limiter  *RateLimiter
	origins  []string
	checks   map[string]Checker
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewHTTPServer(deps Deps) *HTTPServer {
	logger := deps.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	var limiter *RateLimiter
	if deps.RateLimitRPS > 0 {
		limiter = NewRateLimiter(deps.RateLimitRPS, deps.RateLimitBurst)
	}
	return &HTTPServer{
		settings: deps.Settings,
		links:    deps.Links,
		weeks:    deps.Weeks,
		defaults: deps.Defaults,
		bus:      deps.Bus,
		link:     deps.Link,
		limiter:  limiter,
		origins:  origins,
		checks:   deps.Checks,
		logger:   logger,
		now:      time.Now,
	}
}

// Router returns the chi router with all routes mounted.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	if s.limiter != nil {
		r.Use(s.limiter.Limit)
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api/v1/stylists/{stylistID}", func(r chi.Router) {
		r.Use(requireStylistID)

		r.Get("/schedule/week", s.handleWeek)
		r.Get("/schedule/week.xlsx", s.handleWeekExport)
		r.Get("/schedule/durations", s.handleDurations)

		r.Get("/settings/{kind}", s.handleGetSettings)
		r.Put("/settings/{kind}", s.handlePutSettings)

		r.Get("/booking-link", s.handleGetBookingLink)
		r.Post("/booking-link", s.handlePostBookingLink)

		r.Post("/appointments/refresh", s.handleRefreshAppointments)
	})
	return r
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

const readyTimeout = 2 * time.Second

// handleReady runs every registered check and answers 503 naming the ones
// that failed.
func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	failed := map[string]string{}
	for name, check := range s.checks {
		if err := check.HealthCheck(ctx); err != nil {
			s.logger.Warn().Err(err).Str("check", name).Msg("readiness check failed")
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "failed": failed})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

var stylistIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

func requireStylistID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !stylistIDPattern.MatchString(chi.URLParam(r, "stylistID")) {
			writeError(w, http.StatusBadRequest, "invalid stylist id")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidSettings):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, appointments.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// fail writes an error response; server errors are logged and their detail hidden.
func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
		writeError(w, status, http.StatusText(status))
		return
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
