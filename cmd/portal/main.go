package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"salonportal/internal/api"
	"salonportal/internal/appointments"
	"salonportal/internal/config"
	"salonportal/internal/db"
	"salonportal/internal/events"
	"salonportal/internal/metrics"
	"salonportal/internal/schedule"
)

func main() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("PORTAL_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	logger = newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer database.Close()

	defaults := config.NewDefaultsHolder(nil)
	if err := defaults.Watch(ctx, cfg.ScheduleDefaultsPath, 30*time.Second, &logger); err != nil {
		logger.Warn().Err(err).Str("path", cfg.ScheduleDefaultsPath).Msg("schedule defaults unavailable, using builtin")
	}

	client := appointments.NewAPISource(cfg.Appointments.BaseURL, cfg.Appointments.APIKey)
	var rdb *redis.Client
	if cfg.Redis.Address != "" && cfg.AppointmentCacheTTL() > 0 {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		client.UseRedisCache(rdb, cfg.AppointmentCacheTTL())
	}

	var demo appointments.Source = appointments.NewDemoSource()
	if cfg.Appointments.DemoSeed != 0 {
		demo = appointments.NewRandomDemoSource(cfg.Appointments.DemoSeed)
	}
	source := appointments.NewFallbackSource(client, demo, cfg.Appointments.DemoMode, &logger)

	policy := schedule.PlacementLastWriteWins
	if cfg.Appointments.StrictPlacement {
		policy = schedule.PlacementStrict
	}
	engine := schedule.NewEngine(source, policy, &logger)

	bus := newEventBus(client, &logger)

	checks := map[string]api.Checker{"database": database}
	if cfg.Appointments.BaseURL != "" && !cfg.Appointments.DemoMode {
		checks["appointments_api"] = client
	}

	rps, burst := cfg.RateLimit()
	server := api.NewHTTPServer(api.Deps{
		Settings: database,
		Links:    database,
		Weeks:    engine,
		Defaults: defaults,
		Bus:      bus,
		Link: api.LinkConfig{
			PublicBaseURL:  cfg.PublicBaseURL(),
			QRCodeEndpoint: cfg.QRCodeEndpoint(),
		},
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitRPS:   rps,
		RateLimitBurst: burst,
		Checks:         checks,
		Logger:         &logger,
	})

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	go db.NewBackupService(database, cfg.Backup, &logger).Start(ctx)

	if cfg.Appointments.DemoMode {
		logger.Warn().Msg("demo mode enabled: upstream failures are answered with demo appointments")
	}
	logger.Info().Int("port", cfg.Server.Port).Msg("stylist portal started")
	serve(ctx, cfg.Server.Port, server.Router(), &logger)
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || cfg.Log.Level == "" {
		level = zerolog.InfoLevel
	}
	if cfg.Log.JSON {
		return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	}
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// newEventBus wires the side effects of settings and appointment changes.
func newEventBus(client *appointments.APISource, logger *zerolog.Logger) *events.EventBus {
	bus := events.NewEventBus()
	bus.Subscribe(events.TypeSettingsSaved, func(e events.Event) error {
		metrics.IncSettingsSaved(e.Kind)
		logger.Info().Str("stylist_id", e.StylistID).Str("kind", e.Kind).Msg("settings saved")
		return nil
	})
	bus.Subscribe(events.TypeBookingLinkSaved, func(e events.Event) error {
		logger.Info().Str("stylist_id", e.StylistID).Msg("booking link saved")
		return nil
	})
	bus.Subscribe(events.TypeAppointmentsChanged, func(e events.Event) error {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return client.Invalidate(ctx, e.StylistID)
	})
	return bus
}

func serve(ctx context.Context, port int, handler http.Handler, logger *zerolog.Logger) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("http server error")
	}
	logger.Info().Msg("stylist portal stopped")
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
