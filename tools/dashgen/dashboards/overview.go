// Package dashboards assembles Grafana dashboards from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/dealhound/tools/dashgen/panels"
)

// OverviewUID is the stable dashboard uid.
const OverviewUID = "dealhound-overview"

// BuildOverview constructs the DealHound overview dashboard.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("DealHound Overview").
		Uid(OverviewUID).
		Tags([]string{"dealhound"}).
		Refresh("1m").
		Time("now-24h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.LastRunStat()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("Visits").
		WithPanel(panels.VisitsByOutcome()).
		WithPanel(panels.VisitDuration()).
		WithPanel(panels.FailureRatio()).
		WithPanel(panels.StorageAndCaptures()))

	b.WithRow(dashboard.NewRowBuilder("Alerts").
		WithPanel(panels.AlertsFired()).
		WithPanel(panels.NotificationLatency()).
		WithPanel(panels.NotificationFailures()))

	b.WithRow(dashboard.NewRowBuilder("Status Server").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.RequestLatency()).
		WithPanel(panels.Panics()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
