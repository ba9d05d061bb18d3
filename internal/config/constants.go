package config

import "time"

const (
	envPollInterval = "POLL_INTERVAL"
	envTimezone     = "TIMEZONE"

	envSenderEmail    = "SENDER_EMAIL"
	envRecipientEmail = "RECIPIENT_EMAIL"

	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	// The day marker is checked once per interval; 60s keeps the day boundary
	// within a minute of wall clock without hammering anything.
	defaultPollInterval = time.Minute
	// The MLB betting day is tracked in US Eastern.
	defaultTimezone = "America/New_York"

	defaultMetricsPort = "9090"
	defaultServiceName = "mlb-odds-mailer"
)
