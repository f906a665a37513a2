package rules

// AlertRules returns operational alerts for a scheduled dealhound.
func AlertRules() PrometheusRule {
	return newPrometheusRule("dealhound-alerts", RuleGroup{
		Name: "dealhound-alerts",
		Rules: []Rule{
			alert("DealhoundDown",
				`absent(up{job="dealhound"})`, "5m", "critical",
				"DealHound is down",
				"The dealhound scrape target has been absent for more than 5 minutes."),
			alert("DealhoundReadinessDown",
				`dealhound_readyz_up == 0`, "5m", "warning",
				"DealHound readiness check is failing",
				"A storage dependency has been unreachable for more than 5 minutes."),
			alert("DealhoundRunsStalled",
				`time() - dealhound_last_run_timestamp_seconds > 2 * 6 * 3600`, "15m", "warning",
				"No DealHound run finished recently",
				"No run has completed in twice the default schedule interval."),
			alert("DealhoundHighFailureRatio",
				`dealhound:visit_failure_ratio:1h > 0.5`, "30m", "warning",
				"Most product page visits are failing",
				"More than half of product page visits failed over the last hour; selectors may be outdated or the site is blocking requests."),
			alert("DealhoundStorageFailures",
				`increase(dealhound_observations_stored_total{result="error"}[15m]) > 0`, "1m", "warning",
				"Observations are not being stored",
				"One or more observation appends failed; check disk space for the CSV log and the Postgres connection."),
			alert("DealhoundNotificationFailures",
				`increase(dealhound_notification_failures_total[15m]) > 0`, "1m", "warning",
				"Price alert delivery is failing",
				"One or more email or Discord alerts failed to send."),
			alert("DealhoundHighErrorRate",
				`dealhound:http_errors:rate5m / dealhound:http_requests:rate5m > 0.05`, "10m", "info",
				"Status server is returning errors",
				"More than 5% of status server requests returned 5xx over the last 5 minutes."),
		},
	})
}
