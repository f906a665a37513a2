package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// VisitsByOutcome shows product page visits split by outcome.
func VisitsByOutcome() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Visits by Outcome").
		Description("Product page visits per hour by outcome (success, failure, skipped)").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum by (outcome) (increase(dealhound_visits_total{`+Job+`}[1h]))`,
			"{{outcome}}", "A",
		)).
		FillOpacity(20).
		LineWidth(1).
		Legend(TableLegend("sum")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleBars)
}

// VisitDuration shows p50 and p95 time spent on one product page.
func VisitDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Visit Duration").
		Description("Time to open and extract one product page").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(quantile("0.50", "dealhound_visit_duration_seconds"), "p50", "A")).
		WithTarget(PromQuery(quantile("0.95", "dealhound_visit_duration_seconds"), "p95", "B")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// FailureRatio shows the share of visits that failed.
func FailureRatio() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Failure %").
		Description("Failed visits as a percentage of attempted visits").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`dealhound:visit_failure_ratio:1h * 100`, "failed %", "A")).
		Unit("percent").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(20, 50)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// StorageAndCaptures shows observations stored per sink and screenshots.
func StorageAndCaptures() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Observations and Screenshots").
		Description("Observations stored per sink and diagnostic screenshots written, per hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum by (sink, result) (increase(dealhound_observations_stored_total{`+Job+`}[1h]))`,
			"{{sink}} {{result}}", "A",
		)).
		WithTarget(PromQuery(
			`increase(dealhound_screenshots_total{`+Job+`}[1h])`,
			"screenshots", "B",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("sum")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
