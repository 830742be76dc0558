package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	weekGenerated = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "salon_portal",
			Name:      "week_generation_seconds",
			Help:      "Time spent generating a week grid, including the appointment fetch.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	appointmentFetch = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salon_portal",
			Name:      "appointment_fetch_total",
			Help:      "Appointment fetches by origin (api, cache, demo) or error.",
		},
		[]string{"origin"},
	)

	placementAnomaly = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salon_portal",
			Name:      "placement_anomaly_total",
			Help:      "Appointments that could not be placed as booked.",
		},
		[]string{"kind"},
	)

	settingsSaved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salon_portal",
			Name:      "settings_saved_total",
			Help:      "Settings blobs saved by kind.",
		},
		[]string{"kind"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "salon_portal",
			Name:      "http_requests_total",
			Help:      "HTTP API requests by route.",
		},
		[]string{"route"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(weekGenerated, appointmentFetch, placementAnomaly, settingsSaved, httpRequests)
	})
}

func ObserveWeekGenerated(d time.Duration) {
	weekGenerated.Observe(d.Seconds())
}

func IncAppointmentFetch(origin string) {
	appointmentFetch.WithLabelValues(origin).Inc()
}

func IncPlacementAnomaly(kind string) {
	placementAnomaly.WithLabelValues(kind).Inc()
}

func IncSettingsSaved(kind string) {
	settingsSaved.WithLabelValues(kind).Inc()
}

func IncHTTP(route string) {
	httpRequests.WithLabelValues(route).Inc()
}
