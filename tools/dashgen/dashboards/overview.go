// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/resell-valuator/tools/dashgen/panels"
)

// BuildOverview constructs the RV Overview dashboard with all metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("RV Overview").
		Uid("rv-overview").
		Tags([]string{"rv", "resell-valuator"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.ReferenceEntriesStat()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()).
		WithPanel(panels.RateLimited()))

	b.WithRow(dashboard.NewRowBuilder("Valuations").
		WithPanel(panels.ValuationRate()).
		WithPanel(panels.ValuationLatency()).
		WithPanel(panels.ErrorsByKind()).
		WithPanel(panels.PriceDistribution()))

	b.WithRow(dashboard.NewRowBuilder("Batches").
		WithPanel(panels.BatchDuration()).
		WithPanel(panels.BatchSize()).
		WithPanel(panels.BatchRowsFailed()))

	b.WithRow(dashboard.NewRowBuilder("Reference Prices").
		WithPanel(panels.ReferenceUpserts()).
		WithPanel(panels.RefreshDuration()).
		WithPanel(panels.NextRefresh()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
