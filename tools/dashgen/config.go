package main

import "errors"

// KnownMetrics is the set of metric names exported by resell-valuator
// plus recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"rv_http_request_duration_seconds": true,
	"rv_http_requests_total":           true,
	"rv_http_rate_limited_total":       true,

	// Health metrics.
	"rv_healthz_up": true,
	"rv_readyz_up":  true,

	// Valuation metrics.
	"rv_valuations_total":           true,
	"rv_valuation_errors_total":     true,
	"rv_valuation_duration_seconds": true,
	"rv_predicted_price":            true,

	// Batch metrics.
	"rv_batch_duration_seconds":  true,
	"rv_batch_size":              true,
	"rv_batch_rows_failed_total": true,

	// Reference price metrics.
	"rv_reference_entries":                          true,
	"rv_reference_upserts_total":                    true,
	"rv_reference_refresh_duration_seconds":         true,
	"rv_reference_refresh_errors_total":             true,
	"rv_scheduler_next_reference_refresh_timestamp": true,

	// Recording rules.
	"rv:http_requests:rate5m":     true,
	"rv:http_errors:rate5m":       true,
	"rv:valuations:rate5m":        true,
	"rv:valuation_errors:rate5m":  true,
	"rv:batch_rows_failed:rate5m": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
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
