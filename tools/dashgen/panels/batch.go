package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// BatchDuration returns a timeseries panel showing batch valuation latency.
func BatchDuration() *timeseries.PanelBuilder {
	return Timeseries("Batch Duration", "p95 duration of batch and bulk valuations", "s").
		Span(8).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(rv_batch_duration_seconds_bucket{job="resell-valuator"}[5m])) by (le))`,
			"p95", "A",
		))
}

// BatchSize returns a timeseries panel showing the mean records per batch.
func BatchSize() *timeseries.PanelBuilder {
	return Timeseries("Batch Size", "Mean number of records per batch", "short").
		Span(8).
		WithTarget(PromQuery(
			`sum(rate(rv_batch_size_sum{job="resell-valuator"}[5m])) / sum(rate(rv_batch_size_count{job="resell-valuator"}[5m]))`,
			"records", "A",
		))
}

// BatchRowsFailed returns a timeseries panel showing the rate of batch rows
// that could not be valued.
func BatchRowsFailed() *timeseries.PanelBuilder {
	return Timeseries("Failed Rows", "Batch rows rejected per second", "ops").
		Span(8).
		WithTarget(PromQuery(`rv:batch_rows_failed:rate5m`, "rows/s", "A")).
		Thresholds(ThresholdsGreenYellowRed(0.5, 5)).
		ColorScheme(ColorSchemeThresholds())
}
