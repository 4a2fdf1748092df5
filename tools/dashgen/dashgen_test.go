package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/resell-valuator/tools/dashgen/dashboards"
	"github.com/donaldgifford/resell-valuator/tools/dashgen/rules"
	"github.com/donaldgifford/resell-valuator/tools/dashgen/validate"
)

func TestDefaultConfigValid(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate_EmptyOutputDir(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "", DashboardEnabled: true}
	assert.Error(t, cfg.Validate())
}

func TestConfigValidate_NothingEnabled(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "/tmp", DashboardEnabled: false, RulesEnabled: false}
	assert.Error(t, cfg.Validate())
}

func TestBuildOverviewDashboard(t *testing.T) {
	t.Parallel()

	builder := dashboards.BuildOverview()
	dash, err := builder.Build()
	require.NoError(t, err)

	require.NotNil(t, dash.Uid)
	assert.Equal(t, "rv-overview", *dash.Uid)

	require.NotNil(t, dash.Title)
	assert.Equal(t, "RV Overview", *dash.Title)

	require.NotNil(t, dash.Templating)
	assert.Len(t, dash.Templating.List, 1)
	assert.Equal(t, "datasource", dash.Templating.List[0].Name)

	assert.Len(t, dash.Panels, 5)

	totalPanels := 0
	for _, p := range dash.Panels {
		if p.RowPanel != nil {
			totalPanels += len(p.RowPanel.Panels)
		}
	}
	assert.Equal(t, 18, totalPanels)

	result := validate.Dashboard(dash, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
	assert.Empty(t, result.Warnings, "unexpected warnings: %v", result.Warnings)
}

func TestRecordingRules(t *testing.T) {
	t.Parallel()

	cr := rules.RecordingRules()
	assert.Equal(t, "monitoring.coreos.com/v1", cr.APIVersion)
	assert.Equal(t, "PrometheusRule", cr.Kind)
	assert.Equal(t, "rv-recording-rules", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, "rv-recording", group.Name)

	expectedRecords := []string{
		"rv:http_requests:rate5m",
		"rv:http_errors:rate5m",
		"rv:valuations:rate5m",
		"rv:valuation_errors:rate5m",
		"rv:batch_rows_failed:rate5m",
	}
	require.Len(t, group.Rules, len(expectedRecords))
	for i, rule := range group.Rules {
		assert.Equal(t, expectedRecords[i], rule.Record)
		assert.NotEmpty(t, rule.Expr)
	}

	res := validate.Rules(cr, KnownMetrics)
	assert.True(t, res.Ok(), "validation errors: %v", res.Errors)
	assert.Empty(t, res.Warnings)

	data, err := yaml.Marshal(cr)
	require.NoError(t, err)
	assert.Contains(t, string(data), "apiVersion: monitoring.coreos.com/v1")
}

func TestAlertRules(t *testing.T) {
	t.Parallel()

	cr := rules.AlertRules()
	assert.Equal(t, "rv-alerts", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, "rv-alerts", group.Name)

	expectedAlerts := []string{
		"RvDown",
		"RvReadinessDown",
		"RvHighErrorRate",
		"RvSchemaMismatch",
		"RvUnknownLabels",
		"RvReferenceRefreshFailing",
	}
	require.Len(t, group.Rules, len(expectedAlerts))
	for i, rule := range group.Rules {
		assert.Equal(t, expectedAlerts[i], rule.Alert)
		assert.NotEmpty(t, rule.Expr)
		assert.NotEmpty(t, rule.Labels["severity"], "alert %s missing severity", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["summary"], "alert %s missing summary", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["description"], "alert %s missing description", rule.Alert)
	}

	res := validate.Rules(cr, KnownMetrics)
	assert.True(t, res.Ok(), "validation errors: %v", res.Errors)
}

func TestRun_WritesArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := Config{OutputDir: dir, DashboardEnabled: true, RulesEnabled: true}
	require.NoError(t, run(cfg, false))

	for _, rel := range []string{
		filepath.Join("grafana", "data", "rv-overview.json"),
		filepath.Join("prometheus", "rv-recording-rules.yaml"),
		filepath.Join("prometheus", "rv-alerts.yaml"),
	} {
		data, err := os.ReadFile(filepath.Join(dir, rel))
		require.NoError(t, err, rel)
		assert.NotEmpty(t, data, rel)
	}

	alerts, err := os.ReadFile(filepath.Join(dir, "prometheus", "rv-alerts.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(alerts), generatedHeader)

	var back rules.PrometheusRule
	require.NoError(t, yaml.Unmarshal(alerts, &back))
	assert.Equal(t, "rv-alerts", back.Metadata.Name)
}

func TestRun_ValidateOnlyWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, run(Config{OutputDir: dir, RulesEnabled: true}, true))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
