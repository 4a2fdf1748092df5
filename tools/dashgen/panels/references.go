package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ReferenceUpserts returns a timeseries panel showing reference price
// changes by source.
func ReferenceUpserts() *timeseries.PanelBuilder {
	return Timeseries("Reference Upserts", "Reference price changes per source", "short").
		Span(8).
		WithTarget(PromQuery(
			`sum(increase(rv_reference_upserts_total{job="resell-valuator"}[1h])) by (source)`,
			"{{source}}", "A",
		)).
		DrawStyle(common.GraphDrawStyleBars)
}

// RefreshDuration returns a timeseries panel showing how long scheduled
// reference refreshes take.
func RefreshDuration() *timeseries.PanelBuilder {
	return Timeseries("Refresh Duration", "p95 duration of reference price refreshes", "s").
		Span(8).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(rv_reference_refresh_duration_seconds_bucket{job="resell-valuator"}[1h])) by (le))`,
			"p95", "A",
		))
}

// NextRefresh returns a stat panel counting down to the next scheduled
// reference refresh.
func NextRefresh() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Next Refresh").
		Description("Time until the next scheduled reference refresh").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`rv_scheduler_next_reference_refresh_timestamp{job="resell-valuator"} - time()`,
			"", "A",
		)).
		Unit("s").
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}
