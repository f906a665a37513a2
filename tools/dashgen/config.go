package main

import "errors"

// KnownMetrics lists the metrics dealhound exports, the recording rules
// built on them and the standard series the dashboard reads.
var KnownMetrics = map[string]bool{
	// Status server.
	"dealhound_http_request_duration_seconds_bucket": true,
	"dealhound_http_requests_total":                  true,
	"dealhound_http_panics_total":                    true,
	"dealhound_healthz_up":                           true,
	"dealhound_readyz_up":                            true,

	// Visits.
	"dealhound_visits_total":                  true,
	"dealhound_visit_duration_seconds_bucket": true,
	"dealhound_screenshots_total":             true,
	"dealhound_last_run_timestamp_seconds":    true,

	// Storage.
	"dealhound_observations_stored_total": true,

	// Alerts.
	"dealhound_alerts_fired_total":                   true,
	"dealhound_notification_failures_total":          true,
	"dealhound_notification_duration_seconds_bucket": true,

	// Recording rules.
	"dealhound:http_requests:rate5m":   true,
	"dealhound:http_errors:rate5m":     true,
	"dealhound:visits:increase1h":      true,
	"dealhound:visit_failure_ratio:1h": true,

	// Standard series.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig writes everything to ../../deploy (relative to tools/dashgen).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
