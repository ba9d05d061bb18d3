// Package app wires configuration, telemetry, the odds provider, the Gmail
// notifier, and the daily scheduler into a runnable process.
package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"mlb-odds-mailer/internal/config"
	"mlb-odds-mailer/internal/googleauth"
	"mlb-odds-mailer/internal/logging"
	"mlb-odds-mailer/internal/mail"
	"mlb-odds-mailer/internal/metrics"
	"mlb-odds-mailer/internal/providers"
	"mlb-odds-mailer/internal/providers/theoddsapi"
	"mlb-odds-mailer/internal/scheduler"
)

const (
	readTimeout     = 5 * time.Second
	writeTimeout    = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

var metricsSetup = metrics.Setup

// App owns the long-running pieces of the bot.
type App struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	scheduler     daily
	metricsServer httpServer
	metricsStop   func(context.Context) error
}

type daily interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() scheduler.Status
}

// New constructs an App with default provider and notifier wiring.
func New(cfg config.Config, logger *slog.Logger) *App {
	recorder, promHandler, metricsSrv, metricsShutdown := buildMetrics(cfg, logger)

	provider := theoddsapi.NewClient(theoddsapi.Config{
		BaseURL:         cfg.OddsAPI.BaseURL,
		APIKey:          cfg.OddsAPI.APIKey,
		Sport:           cfg.OddsAPI.Sport,
		Regions:         cfg.OddsAPI.Regions,
		Markets:         cfg.OddsAPI.Markets,
		Bookmakers:      cfg.OddsAPI.Bookmakers,
		Timezone:        cfg.Timezone,
		WindowStartHour: cfg.OddsAPI.WindowStartHour,
	})

	auth := googleauth.NewManager(googleauth.Config{
		ClientID:     cfg.Gmail.ClientID,
		ClientSecret: cfg.Gmail.ClientSecret,
		TokenFile:    cfg.Gmail.TokenFile,
	}, logger)
	notifier := mail.NewGmailNotifier(cfg.Gmail.Sender, cfg.Gmail.Recipient, auth, logger)

	a := newAppWithDeps(cfg, logger, recorder, provider, notifier, metricsSrv, metricsShutdown)
	a.mountMetricsHandler(promHandler)
	return a
}

// newAppWithDeps allows tests to inject provider and notifier fakes.
func newAppWithDeps(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder, provider providers.OddsProvider, notifier mail.Notifier, metricsSrv httpServer, metricsStop func(context.Context) error) *App {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logging.Warn(logger, "invalid timezone, falling back to UTC", "timezone", cfg.Timezone, "error", err)
		loc = time.UTC
	}

	sched := scheduler.New(provider, notifier, logger, recorder, scheduler.Config{
		Interval:     cfg.PollInterval,
		Location:     loc,
		ProviderName: theoddsapi.Name,
	})

	a := &App{
		cfg:         cfg,
		logger:      logger,
		metrics:     recorder,
		scheduler:   sched,
		metricsStop: metricsStop,
	}
	if metricsSrv != nil {
		a.metricsServer = metricsSrv
	}
	return a
}

// Run starts the scheduler and the metrics endpoint, then waits for context
// cancellation to shut down gracefully.
func (a *App) Run(ctx context.Context, stop context.CancelFunc) {
	_ = stop // metrics server failure is not fatal; the scheduler keeps running
	a.startMetrics()
	a.scheduler.Start(ctx)

	<-ctx.Done()
	logging.Info(a.logger, "shutdown signal received")
	a.gracefulShutdown()
}

func (a *App) startMetrics() {
	if a.metricsServer == nil {
		return
	}
	srv := a.metricsServer
	go func() {
		logging.Info(a.logger, "metrics server starting", "addr", srv.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(a.logger, "metrics server failed", "error", err)
		}
	}()
}

func (a *App) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.scheduler.Stop(shutdownCtx); err != nil {
		logging.Error(a.logger, "failed to stop scheduler", err)
	}

	if a.metricsStop != nil {
		if err := a.metricsStop(shutdownCtx); err != nil {
			logging.Warn(a.logger, "metrics shutdown failed", "error", err)
		}
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(a.logger, "metrics server shutdown failed", "error", err)
		}
	}

	logging.Info(a.logger, "shutdown complete")
}

// buildMetrics sets up telemetry and, when enabled, an HTTP server for the
// metrics port. The handler is mounted later once the scheduler exists.
func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, http.Handler, httpServer, func(context.Context) error) {
	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "error", err)
		return metrics.NewRecorder(), nil, nil, nil
	}

	var metricsSrv httpServer
	if recCfg.Enabled {
		metricsSrv = netHTTPServer{srv: &http.Server{
			Addr:         ":" + cfg.Metrics.Port,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		}}
	}
	return rec, handler, metricsSrv, shutdown
}

// mountMetricsHandler attaches /metrics and /healthz once the scheduler
// exists; the health payload reports the loop's recent cycle results.
func (a *App) mountMetricsHandler(promHandler http.Handler) {
	srv, ok := a.metricsServer.(netHTTPServer)
	if !ok || srv.srv == nil {
		return
	}
	mux := http.NewServeMux()
	if promHandler != nil {
		mux.Handle("/metrics", promHandler)
	}
	mux.HandleFunc("/healthz", a.handleHealth)
	srv.srv.Handler = mux
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := a.scheduler.Status()
	code := http.StatusOK
	status := "ok"
	if !st.IsReady() {
		code = http.StatusServiceUnavailable
		status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":               status,
		"consecutive_failures": st.ConsecutiveFailures,
		"last_error":           st.LastError,
		"last_attempt":         st.LastAttempt,
		"last_success":         st.LastSuccess,
		"last_processed_date":  st.LastProcessedDate,
	})
}
