package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"os"
	"time"

	"github.com/donaldgifford/resell-valuator/internal/artifacts"
	"github.com/donaldgifford/resell-valuator/internal/config"
	"github.com/donaldgifford/resell-valuator/internal/engine"
	"github.com/donaldgifford/resell-valuator/internal/metrics"
	"github.com/donaldgifford/resell-valuator/internal/notify"
	"github.com/donaldgifford/resell-valuator/internal/store"
	"github.com/donaldgifford/resell-valuator/pkg/bulk"
	"github.com/donaldgifford/resell-valuator/pkg/logger"
	"github.com/donaldgifford/resell-valuator/pkg/reference"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)
	return cfg, log, nil
}

// openStore connects to and migrates the database. It returns nil when no
// database is configured.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (*store.PostgresStore, error) {
	if !cfg.Database.Enabled() {
		return nil, nil
	}

	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	applied, err := st.Migrate(ctx)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	if len(applied) > 0 {
		log.Info("applied migrations", "versions", applied)
	}

	log.Info("database connected", "host", cfg.Database.Host, "name", cfg.Database.Name)
	return st, nil
}

func loadArtifacts(cfg *config.Config, log *slog.Logger) (*artifacts.Bundle, error) {
	return artifacts.Load(artifacts.Paths{
		Dir:      cfg.Artifacts.Dir,
		Model:    cfg.Artifacts.Model,
		Encoders: cfg.Artifacts.Encoders,
	}, cfg.Features, logger.Component(log, "artifacts"))
}

// referenceEntries reads the initial reference prices from the configured
// source.
func referenceEntries(
	ctx context.Context,
	cfg *config.Config,
	st *store.PostgresStore,
	log *slog.Logger,
) ([]domain.ReferencePriceEntry, error) {
	switch cfg.References.Source {
	case config.ReferenceSourceDatabase:
		if st == nil {
			return nil, fmt.Errorf("reference source %q requires a database", cfg.References.Source)
		}
		entries, err := st.ListReferencePrices(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading reference prices: %w", err)
		}
		return entries, nil
	case config.ReferenceSourceSales:
		sales, err := readSalesFile(cfg.References.SalesPath, log)
		if err != nil {
			return nil, err
		}
		return reference.Derive(sales, cfg.References.DerivationFactor)
	default:
		return reference.LoadTable(cfg.References.TablePath)
	}
}

func readSalesFile(path string, log *slog.Logger) ([]domain.SaleRecord, error) {
	f, err := os.Open(path) //nolint:gosec // path from trusted config or CLI flag
	if err != nil {
		return nil, fmt.Errorf("opening sales file: %w", err)
	}
	defer f.Close()

	sales, rejected, err := bulk.ReadSales(f)
	if err != nil {
		return nil, fmt.Errorf("reading sales file %s: %w", path, err)
	}
	if len(rejected) > 0 {
		log.Warn("sales rows rejected",
			"file", path,
			"rejected", len(rejected),
			"first_line", rejected[0].Line,
			"first_error", rejected[0].Err,
		)
	}
	return sales, nil
}

// newReferenceStore builds the live reference table. Upserts are written
// through to st when it is set.
func newReferenceStore(
	entries []domain.ReferencePriceEntry,
	st *store.PostgresStore,
	log *slog.Logger,
) (*reference.MemoryStore, error) {
	var refs *reference.MemoryStore

	opts := []reference.Option{
		reference.WithLogger(logger.Component(log, "references")),
		reference.WithUpsertHook(func(e domain.ReferencePriceEntry) {
			metrics.ReferenceUpsertsTotal.WithLabelValues(e.Source).Inc()
			metrics.ReferenceEntries.Set(float64(refs.Len()))
		}),
	}
	if st != nil {
		opts = append(opts, reference.WithPersister(st))
	}

	refs, err := reference.NewMemoryStore(entries, opts...)
	if err != nil {
		return nil, fmt.Errorf("building reference store: %w", err)
	}
	metrics.ReferenceEntries.Set(float64(refs.Len()))
	return refs, nil
}

func pricingFromConfig(p *config.PricingConfig) engine.Pricing {
	out := engine.Pricing{
		Margin:            p.Margin,
		DamageMultipliers: make(map[domain.DamageLevel]float64, len(p.DamageMultipliers)),
		StoragePremium:    engine.StoragePremium{PerGB: p.StoragePremium.PerGB},
	}
	for level, m := range p.DamageMultipliers {
		out.DamageMultipliers[domain.DamageLevel(level)] = m
	}
	if p.StoragePremium.PerGB == 0 {
		out.StoragePremium.Brackets = maps.Clone(p.StoragePremium.Brackets)
	}
	if !p.Deals.Disabled {
		out.Deals = engine.DealThresholds{
			GreatSavingsPct:  p.Deals.GreatSavingsPct,
			GoodSavingsPct:   p.Deals.GoodSavingsPct,
			HighRetentionPct: p.Deals.HighRetentionPct,
			BatteryWarning:   p.Deals.BatteryWarning,
			AgeWarningMonths: p.Deals.AgeWarningMonths,
		}
	}
	return out
}

func newEngine(
	cfg *config.Config,
	b *artifacts.Bundle,
	refs engine.ReferenceLookup,
	log *slog.Logger,
) (*engine.Engine, error) {
	eng, err := engine.NewEngine(b.Builder, b.Model,
		engine.WithLogger(logger.Component(log, "engine")),
		engine.WithReferences(refs),
		engine.WithPricing(pricingFromConfig(&cfg.Pricing)),
		engine.WithConcurrency(cfg.Batch.Concurrency),
	)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	return eng, nil
}

const notifyTimeout = 10 * time.Second

// newNotifier returns the Discord notifier when it is enabled and a notifier
// that only logs otherwise.
func newNotifier(cfg *config.NotificationsConfig, log *slog.Logger) notify.Notifier {
	if cfg.Discord.Enabled {
		return notify.NewDiscordNotifier(cfg.Discord.WebhookURL,
			notify.WithHTTPClient(&http.Client{Timeout: notifyTimeout}),
		)
	}
	return notify.NewNoOpNotifier(log)
}
