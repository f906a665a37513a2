package rules

// RecordingRules returns the pre-computed expressions used by the dashboard
// and the alert rules.
func RecordingRules() PrometheusRule {
	return newPrometheusRule("dealhound-recording-rules", RuleGroup{
		Name: "dealhound-recording",
		Rules: []Rule{
			{
				Record: "dealhound:http_requests:rate5m",
				Expr:   `sum(rate(dealhound_http_requests_total[5m]))`,
			},
			{
				Record: "dealhound:http_errors:rate5m",
				Expr:   `sum(rate(dealhound_http_requests_total{status=~"5.."}[5m]))`,
			},
			{
				Record: "dealhound:visits:increase1h",
				Expr:   `sum by (outcome) (increase(dealhound_visits_total[1h]))`,
			},
			{
				Record: "dealhound:visit_failure_ratio:1h",
				Expr: `sum(increase(dealhound_visits_total{outcome="failure"}[1h]))` +
					` / clamp_min(sum(increase(dealhound_visits_total{outcome=~"success|failure"}[1h])), 1)`,
			},
		},
	})
}
