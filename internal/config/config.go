// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/resell-valuator/pkg/features"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// Reference sources.
const (
	ReferenceSourceTable    = "table"
	ReferenceSourceDatabase = "database"
	ReferenceSourceSales    = "sales"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Artifacts     ArtifactsConfig     `yaml:"artifacts"`
	Features      features.Defaults   `yaml:"features"`
	References    ReferencesConfig    `yaml:"references"`
	Pricing       PricingConfig       `yaml:"pricing"`
	Batch         BatchConfig         `yaml:"batch"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Alerts        AlertsConfig        `yaml:"alerts"`
	Notifications NotificationsConfig `yaml:"notifications"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	BodyLimit    string        `yaml:"body_limit"`
}

// DatabaseConfig defines PostgreSQL connection settings. The database is
// optional; leaving host empty disables persistence.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// Enabled reports whether a database is configured.
func (d *DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s pool_max_conns=%d",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode, d.PoolSize,
	)
}

// ArtifactsConfig locates the trained model and encoder files.
type ArtifactsConfig struct {
	Dir      string `yaml:"dir"`
	Model    string `yaml:"model"`    // default: model_lgb.json, then model.json in dir
	Encoders string `yaml:"encoders"` // default: encoders.yaml in dir
}

// ReferencesConfig selects where reference prices come from.
type ReferencesConfig struct {
	Source           string  `yaml:"source"` // table, database, sales
	TablePath        string  `yaml:"table_path"`
	SalesPath        string  `yaml:"sales_path"`
	DerivationFactor float64 `yaml:"derivation_factor"`
}

// PricingConfig defines the post-prediction adjustments.
type PricingConfig struct {
	Margin            float64              `yaml:"margin"`
	DamageMultipliers map[string]float64   `yaml:"damage_multipliers"`
	StoragePremium    StoragePremiumConfig `yaml:"storage_premium"`
	Deals             DealsConfig          `yaml:"deals"`
}

// DealsConfig defines the deal rating cutoffs. Unset cutoffs take the
// defaults; Disabled turns rating off.
type DealsConfig struct {
	Disabled         bool `yaml:"disabled"`
	GreatSavingsPct  int  `yaml:"great_savings_pct"`
	GoodSavingsPct   int  `yaml:"good_savings_pct"`
	HighRetentionPct int  `yaml:"high_retention_pct"`
	BatteryWarning   int  `yaml:"battery_warning"`
	AgeWarningMonths int  `yaml:"age_warning_months"`
}

// StoragePremiumConfig defines the reference price uplift per storage tier.
// PerGB, when set, replaces the brackets.
type StoragePremiumConfig struct {
	Brackets map[int]int64 `yaml:"brackets"`
	PerGB    int64         `yaml:"per_gb"`
}

// BatchConfig bounds batch and bulk valuation.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
	MaxRows     int `yaml:"max_rows"`
}

// ScheduleConfig defines cron intervals. A zero interval disables the job.
type ScheduleConfig struct {
	ReferenceRefreshInterval time.Duration `yaml:"reference_refresh_interval"`
	WatchCheckInterval       time.Duration `yaml:"watch_check_interval"`
}

// AlertsConfig defines the device assumed by price watches that omit it.
type AlertsConfig struct {
	DefaultAgeMonths     int `yaml:"default_age_months"`     // default: 12
	DefaultBatteryHealth int `yaml:"default_battery_health"` // default: 85
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// RateLimitConfig limits the batch and bulk endpoints.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// TelemetryConfig defines OTLP export settings.
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation. A .env file next to the config, if present,
// is loaded first; variables already set in the environment win.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil //nolint:nilerr // a missing .env is not an error
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyArtifactsDefaults(&cfg.Artifacts)
	applyFeatureDefaults(&cfg.Features)
	applyReferencesDefaults(&cfg.References)
	applyPricingDefaults(&cfg.Pricing)
	applyBatchDefaults(&cfg.Batch)
	applyAlertsDefaults(&cfg.Alerts)
	applyRateLimitDefaults(&cfg.RateLimit)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 2 * time.Minute
	}
	if s.BodyLimit == "" {
		s.BodyLimit = "10M"
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyArtifactsDefaults(a *ArtifactsConfig) {
	if a.Dir == "" {
		a.Dir = "artifacts"
	}
}

// applyFeatureDefaults fills zero-valued fields from the standard defaults.
// Seller rating and trade-in value default to zero either way.
func applyFeatureDefaults(f *features.Defaults) {
	std := features.StandardDefaults()
	if f.OS == "" {
		f.OS = std.OS
	}
	if f.Network == "" {
		f.Network = std.Network
	}
	if f.Color == "" {
		f.Color = std.Color
	}
	if f.CameraCount == 0 {
		f.CameraCount = std.CameraCount
	}
	if f.ScreenSize == 0 {
		f.ScreenSize = std.ScreenSize
	}
	if f.ReleaseYear == 0 {
		f.ReleaseYear = std.ReleaseYear
	}
	if f.ReferenceYear == 0 {
		f.ReferenceYear = std.ReferenceYear
	}
}

func applyReferencesDefaults(r *ReferencesConfig) {
	if r.Source == "" {
		r.Source = ReferenceSourceTable
	}
	if r.DerivationFactor == 0 {
		r.DerivationFactor = 1.20
	}
}

func applyPricingDefaults(p *PricingConfig) {
	if p.Margin == 0 {
		p.Margin = 0.15
	}
	if len(p.DamageMultipliers) == 0 {
		p.DamageMultipliers = map[string]float64{
			string(domain.DamageNone):        1.00,
			string(domain.DamageMinor):       0.95,
			string(domain.DamageModerate):    0.85,
			string(domain.DamageSignificant): 0.70,
		}
	}
	if len(p.StoragePremium.Brackets) == 0 && p.StoragePremium.PerGB == 0 {
		p.StoragePremium.Brackets = map[int]int64{128: 5000, 256: 10000, 512: 18000}
	}
	applyDealDefaults(&p.Deals)
}

func applyDealDefaults(d *DealsConfig) {
	if d.GreatSavingsPct == 0 {
		d.GreatSavingsPct = 50
	}
	if d.GoodSavingsPct == 0 {
		d.GoodSavingsPct = 30
	}
	if d.HighRetentionPct == 0 {
		d.HighRetentionPct = 70
	}
	if d.BatteryWarning == 0 {
		d.BatteryWarning = 80
	}
	if d.AgeWarningMonths == 0 {
		d.AgeWarningMonths = 24
	}
}

func applyBatchDefaults(b *BatchConfig) {
	if b.Concurrency == 0 {
		b.Concurrency = 8
	}
	if b.MaxRows == 0 {
		b.MaxRows = 10000
	}
}

func applyAlertsDefaults(a *AlertsConfig) {
	if a.DefaultAgeMonths == 0 {
		a.DefaultAgeMonths = 12
	}
	if a.DefaultBatteryHealth == 0 {
		a.DefaultBatteryHealth = 85
	}
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 5.0
	}
	if r.Burst == 0 {
		r.Burst = 10
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "resell-valuator"
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = 1.0
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Enabled() {
		if cfg.Database.Name == "" {
			errs = append(errs, errors.New("database.name is required"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, errors.New("database.user is required"))
		}
	}

	switch cfg.References.Source {
	case ReferenceSourceTable:
		if cfg.References.TablePath == "" {
			errs = append(errs, errors.New("references.table_path is required when source is table"))
		}
	case ReferenceSourceDatabase:
		if !cfg.Database.Enabled() {
			errs = append(errs, errors.New("database.host is required when references.source is database"))
		}
	case ReferenceSourceSales:
		if cfg.References.SalesPath == "" {
			errs = append(errs, errors.New("references.sales_path is required when source is sales"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"references.source must be one of: table, database, sales (got %q)",
			cfg.References.Source,
		))
	}
	if cfg.References.DerivationFactor <= 0 {
		errs = append(errs, errors.New("references.derivation_factor must be positive"))
	}

	if cfg.Pricing.Margin < 0 || cfg.Pricing.Margin >= 1 {
		errs = append(errs, fmt.Errorf("pricing.margin must be in [0, 1) (got %v)", cfg.Pricing.Margin))
	}
	for level := range cfg.Pricing.DamageMultipliers {
		if !domain.DamageLevel(level).Valid() {
			errs = append(errs, fmt.Errorf("pricing.damage_multipliers: unknown damage level %q", level))
		}
	}
	for gb := range cfg.Pricing.StoragePremium.Brackets {
		if !slices.Contains(domain.StorageOptions, gb) {
			errs = append(errs, fmt.Errorf("pricing.storage_premium.brackets: unsupported storage %dGB", gb))
		}
	}

	if d := cfg.Pricing.Deals; d.GoodSavingsPct > d.GreatSavingsPct {
		errs = append(errs, fmt.Errorf(
			"pricing.deals.good_savings_pct (%d) must not exceed great_savings_pct (%d)",
			d.GoodSavingsPct, d.GreatSavingsPct,
		))
	}

	if cfg.Batch.Concurrency < 0 {
		errs = append(errs, errors.New("batch.concurrency must be >= 0"))
	}
	if cfg.Batch.MaxRows < 0 {
		errs = append(errs, errors.New("batch.max_rows must be >= 0"))
	}

	if cfg.Schedule.ReferenceRefreshInterval < 0 {
		errs = append(errs, errors.New("schedule.reference_refresh_interval must be >= 0"))
	}
	if cfg.Schedule.ReferenceRefreshInterval > 0 && !cfg.Database.Enabled() {
		errs = append(errs, errors.New("database.host is required when the reference refresh is scheduled"))
	}

	if cfg.Schedule.WatchCheckInterval < 0 {
		errs = append(errs, errors.New("schedule.watch_check_interval must be >= 0"))
	}
	if cfg.Schedule.WatchCheckInterval > 0 && !cfg.Database.Enabled() {
		errs = append(errs, errors.New("database.host is required when the watch check is scheduled"))
	}

	if a := cfg.Alerts; a.DefaultAgeMonths < 0 || a.DefaultBatteryHealth < 0 || a.DefaultBatteryHealth > 100 {
		errs = append(errs, fmt.Errorf(
			"alerts defaults out of range (age %d months, battery %d%%)",
			a.DefaultAgeMonths, a.DefaultBatteryHealth,
		))
	}

	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL == "" {
		errs = append(errs, errors.New("notifications.discord.webhook_url is required when discord is enabled"))
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint is required when telemetry is enabled"))
	}
	if cfg.Telemetry.SampleRatio < 0 || cfg.Telemetry.SampleRatio > 1 {
		errs = append(errs, errors.New("telemetry.sample_ratio must be in [0, 1]"))
	}

	return errors.Join(errs...)
}
