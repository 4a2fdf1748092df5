package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "rv-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "rv-recording",
					Rules: []Rule{
						{
							Record: "rv:http_requests:rate5m",
							Expr:   `sum(rate(rv_http_requests_total[5m]))`,
						},
						{
							Record: "rv:http_errors:rate5m",
							Expr:   `sum(rate(rv_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "rv:valuations:rate5m",
							Expr:   `sum(rate(rv_valuations_total[5m]))`,
						},
						{
							Record: "rv:valuation_errors:rate5m",
							Expr:   `sum(rate(rv_valuation_errors_total[5m])) by (kind)`,
						},
						{
							Record: "rv:batch_rows_failed:rate5m",
							Expr:   `rate(rv_batch_rows_failed_total[5m])`,
						},
					},
				},
			},
		},
	}
}
