package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// resell-valuator operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "rv-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "rv-alerts",
					Rules: []Rule{
						{
							Alert: "RvDown",
							Expr:  `absent(up{job="resell-valuator"})`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Resell Valuator is down",
								"description": "The resell-valuator job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert: "RvReadinessDown",
							Expr:  `rv_readyz_up == 0`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Resell Valuator readiness check is failing",
								"description": "Model artifacts or the database have been unavailable for more than 2 minutes.",
							},
						},
						{
							Alert: "RvHighErrorRate",
							Expr:  `rv:http_errors:rate5m / rv:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on Resell Valuator",
								"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "RvSchemaMismatch",
							Expr:  `rv:valuation_errors:rate5m{kind="schema_mismatch"} > 0`,
							For:   "1m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Encoder and model feature layouts disagree",
								"description": "Valuations are failing with schema_mismatch. The deployed artifacts were built for different feature schemas.",
							},
						},
						{
							Alert: "RvUnknownLabels",
							Expr:  `rv:valuation_errors:rate5m{kind="unknown_label"} / rv:valuations:rate5m > 0.2`,
							For:   "15m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Many valuations reference unknown labels",
								"description": "More than 20% of valuations fail on labels the encoders do not know. The encoders may need retraining.",
							},
						},
						{
							Alert: "RvReferenceRefreshFailing",
							Expr:  `increase(rv_reference_refresh_errors_total[1h]) > 0`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Reference price refresh failed",
								"description": "A scheduled refresh of reference prices from recorded sales failed in the last hour.",
							},
						},
					},
				},
			},
		},
	}
}
