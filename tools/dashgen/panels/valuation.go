package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/bargauge"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ValuationRate returns a timeseries panel showing valuations per second by
// outcome.
func ValuationRate() *timeseries.PanelBuilder {
	return Timeseries("Valuation Rate", "Device valuations per second by outcome", "ops").
		WithTarget(PromQuery(
			`sum(rate(rv_valuations_total{job="resell-valuator"}[5m])) by (outcome)`,
			"{{outcome}}", "A",
		)).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip())
}

// ValuationLatency returns a timeseries panel showing p50 and p99 latency of
// single valuations.
func ValuationLatency() *timeseries.PanelBuilder {
	return Timeseries("Valuation Latency", "Single device valuation duration percentiles", "s").
		WithTarget(PromQuery(
			`histogram_quantile(0.50, sum(rate(rv_valuation_duration_seconds_bucket{job="resell-valuator"}[5m])) by (le))`,
			"p50", "A",
		)).
		WithTarget(PromQuery(
			`histogram_quantile(0.99, sum(rate(rv_valuation_duration_seconds_bucket{job="resell-valuator"}[5m])) by (le))`,
			"p99", "B",
		)).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip())
}

// ErrorsByKind returns a timeseries panel showing failed valuations broken
// down by error kind.
func ErrorsByKind() *timeseries.PanelBuilder {
	return Timeseries("Errors by Kind", "Failed valuations per second by error kind", "ops").
		WithTarget(PromQuery(`rv:valuation_errors:rate5m`, "{{kind}}", "A")).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		DrawStyle(common.GraphDrawStyleBars)
}

// PriceDistribution returns a bar gauge panel showing the distribution of
// predicted prices across histogram buckets.
func PriceDistribution() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Predicted Price Distribution").
		Description("Predicted used prices over the last hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum(increase(rv_predicted_price_bucket{job="resell-valuator"}[1h])) by (le)`,
			"{{le}}", "A",
		)).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}
