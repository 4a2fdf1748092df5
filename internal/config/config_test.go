package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid minimal config",
			yaml: `
references:
  table_path: configs/references.yaml
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, ReferenceSourceTable, cfg.References.Source)
				assert.Equal(t, "configs/references.yaml", cfg.References.TablePath)
				assert.False(t, cfg.Database.Enabled())
			},
		},
		{
			name: "defaults applied for optional fields",
			yaml: `
references:
  table_path: refs.yaml
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 2*time.Minute, cfg.Server.WriteTimeout)
				assert.Equal(t, "10M", cfg.Server.BodyLimit)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, 10, cfg.Database.PoolSize)
				assert.Equal(t, "artifacts", cfg.Artifacts.Dir)
				assert.Equal(t, "Android 12", cfg.Features.OS)
				assert.Equal(t, 2020, cfg.Features.ReleaseYear)
				assert.Equal(t, 2025, cfg.Features.ReferenceYear)
				assert.InDelta(t, 1.20, cfg.References.DerivationFactor, 1e-12)
				assert.InDelta(t, 0.15, cfg.Pricing.Margin, 1e-12)
				assert.InDelta(t, 0.85, cfg.Pricing.DamageMultipliers["Moderate"], 1e-12)
				assert.Equal(t, map[int]int64{128: 5000, 256: 10000, 512: 18000}, cfg.Pricing.StoragePremium.Brackets)
				assert.Equal(t, 8, cfg.Batch.Concurrency)
				assert.Equal(t, 10000, cfg.Batch.MaxRows)
				assert.Zero(t, cfg.Schedule.ReferenceRefreshInterval)
				assert.Zero(t, cfg.Schedule.WatchCheckInterval)
				assert.Equal(t, DealsConfig{
					GreatSavingsPct:  50,
					GoodSavingsPct:   30,
					HighRetentionPct: 70,
					BatteryWarning:   80,
					AgeWarningMonths: 24,
				}, cfg.Pricing.Deals)
				assert.Equal(t, 12, cfg.Alerts.DefaultAgeMonths)
				assert.Equal(t, 85, cfg.Alerts.DefaultBatteryHealth)
				assert.False(t, cfg.Notifications.Discord.Enabled)
				assert.InDelta(t, 5.0, cfg.RateLimit.PerSecond, 1e-12)
				assert.Equal(t, 10, cfg.RateLimit.Burst)
				assert.Equal(t, "resell-valuator", cfg.Telemetry.ServiceName)
				assert.InDelta(t, 1.0, cfg.Telemetry.SampleRatio, 1e-12)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "per gb premium suppresses default brackets",
			yaml: `
references:
  table_path: refs.yaml
pricing:
  storage_premium:
    per_gb: 40
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Empty(t, cfg.Pricing.StoragePremium.Brackets)
				assert.Equal(t, int64(40), cfg.Pricing.StoragePremium.PerGB)
			},
		},
		{
			name: "env var substitution",
			yaml: `
database:
  host: ${RV_TEST_DB_HOST}
  name: valuator
  user: rv
  password: ${RV_TEST_DB_PASSWORD}
references:
  source: database
`,
			envVars: map[string]string{
				"RV_TEST_DB_HOST":     "db.internal",
				"RV_TEST_DB_PASSWORD": "s3cret",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.True(t, cfg.Database.Enabled())
				assert.Equal(t, "db.internal", cfg.Database.Host)
				assert.Equal(t, "s3cret", cfg.Database.Password)
			},
		},
		{
			name: "full config",
			yaml: `
server:
  port: 9090
artifacts:
  dir: /models
  model: /models/custom.json
features:
  os: iOS 17
  reference_year: 2026
references:
  source: sales
  sales_path: sales.csv
  derivation_factor: 1.3
pricing:
  margin: 0.1
  damage_multipliers:
    None: 1.0
    Minor: 0.9
    Moderate: 0.8
    Significant: 0.6
batch:
  concurrency: 2
  max_rows: 500
telemetry:
  enabled: true
  endpoint: otel:4317
  insecure: true
logging:
  level: debug
  format: json
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "/models/custom.json", cfg.Artifacts.Model)
				assert.Equal(t, "iOS 17", cfg.Features.OS)
				assert.Equal(t, 2026, cfg.Features.ReferenceYear)
				assert.Equal(t, "5G", cfg.Features.Network)
				assert.InDelta(t, 1.3, cfg.References.DerivationFactor, 1e-12)
				assert.InDelta(t, 0.6, cfg.Pricing.DamageMultipliers["Significant"], 1e-12)
				assert.Equal(t, 2, cfg.Batch.Concurrency)
				assert.True(t, cfg.Telemetry.Enabled)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
		{
			name: "partial deal cutoffs keep the other defaults",
			yaml: `
references: {table_path: refs.yaml}
pricing:
  deals: {great_savings_pct: 60, battery_warning: 75}
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, 60, cfg.Pricing.Deals.GreatSavingsPct)
				assert.Equal(t, 30, cfg.Pricing.Deals.GoodSavingsPct)
				assert.Equal(t, 75, cfg.Pricing.Deals.BatteryWarning)
				assert.False(t, cfg.Pricing.Deals.Disabled)
			},
		},
		{
			name: "watches and discord",
			yaml: `
database: {host: localhost, name: valuator, user: rv}
references: {table_path: refs.yaml}
schedule: {watch_check_interval: 30m}
alerts: {default_age_months: 6, default_battery_health: 95}
notifications:
  discord:
    enabled: true
    webhook_url: https://discord.example/hook
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, 30*time.Minute, cfg.Schedule.WatchCheckInterval)
				assert.Equal(t, 6, cfg.Alerts.DefaultAgeMonths)
				assert.Equal(t, 95, cfg.Alerts.DefaultBatteryHealth)
				assert.Equal(t, "https://discord.example/hook", cfg.Notifications.Discord.WebhookURL)
			},
		},
		{
			name:    "table source without path",
			yaml:    `references: {source: table}`,
			wantErr: "references.table_path is required",
		},
		{
			name:    "database source without database",
			yaml:    `references: {source: database}`,
			wantErr: "database.host is required when references.source is database",
		},
		{
			name:    "unknown reference source",
			yaml:    `references: {source: oracle}`,
			wantErr: "references.source must be one of",
		},
		{
			name: "database missing name and user",
			yaml: `
database: {host: localhost}
references: {source: database}
`,
			wantErr: "database.name is required",
		},
		{
			name: "margin out of range",
			yaml: `
references: {table_path: refs.yaml}
pricing: {margin: 1.5}
`,
			wantErr: "pricing.margin must be in [0, 1)",
		},
		{
			name: "unknown damage level",
			yaml: `
references: {table_path: refs.yaml}
pricing:
  damage_multipliers: {Shattered: 0.2}
`,
			wantErr: `unknown damage level "Shattered"`,
		},
		{
			name: "unsupported storage bracket",
			yaml: `
references: {table_path: refs.yaml}
pricing:
  storage_premium:
    brackets: {1024: 30000}
`,
			wantErr: "unsupported storage 1024GB",
		},
		{
			name: "scheduled refresh needs database",
			yaml: `
references: {table_path: refs.yaml}
schedule: {reference_refresh_interval: 1h}
`,
			wantErr: "reference refresh is scheduled",
		},
		{
			name: "good deal cutoff above great",
			yaml: `
references: {table_path: refs.yaml}
pricing:
  deals: {great_savings_pct: 40, good_savings_pct: 45}
`,
			wantErr: "pricing.deals.good_savings_pct (45) must not exceed great_savings_pct (40)",
		},
		{
			name: "scheduled watch check needs database",
			yaml: `
references: {table_path: refs.yaml}
schedule: {watch_check_interval: 1h}
`,
			wantErr: "watch check is scheduled",
		},
		{
			name: "alert battery default out of range",
			yaml: `
references: {table_path: refs.yaml}
alerts: {default_battery_health: 120}
`,
			wantErr: "alerts defaults out of range",
		},
		{
			name: "discord without webhook",
			yaml: `
references: {table_path: refs.yaml}
notifications:
  discord: {enabled: true}
`,
			wantErr: "notifications.discord.webhook_url is required",
		},
		{
			name: "telemetry without endpoint",
			yaml: `
references: {table_path: refs.yaml}
telemetry: {enabled: true}
`,
			wantErr: "telemetry.endpoint is required",
		},
		{
			name:    "invalid yaml",
			yaml:    "references: [unclosed",
			wantErr: "parsing config YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Only parallelize tests that don't modify env vars.
			if len(tt.envVars) == 0 {
				t.Parallel()
			}

			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			cfg, err := Load(path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

// Loads a .env file into the process environment, so not parallel.
func TestLoad_DotEnv(t *testing.T) {
	const key = "RV_TEST_DOTENV_TABLE"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(key+"=from-dotenv.yaml\n"), 0o600))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("references:\n  table_path: ${"+key+"}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.yaml", cfg.References.TablePath)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "basic DSN",
			cfg: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				Name:     "valuator",
				User:     "rv",
				Password: "testpass",
				SSLMode:  "disable",
				PoolSize: 10,
			},
			want: "host=localhost port=5432 dbname=valuator user=rv password=testpass sslmode=disable pool_max_conns=10",
		},
		{
			name: "production DSN",
			cfg: DatabaseConfig{
				Host:     "db.example.com",
				Port:     5433,
				Name:     "valuator",
				User:     "admin",
				Password: "s3cret",
				SSLMode:  "require",
				PoolSize: 25,
			},
			want: "host=db.example.com port=5433 dbname=valuator user=admin password=s3cret sslmode=require pool_max_conns=25",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}
}
