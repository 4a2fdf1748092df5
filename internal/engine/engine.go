package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/resell-valuator/internal/metrics"
	"github.com/donaldgifford/resell-valuator/pkg/features"
	"github.com/donaldgifford/resell-valuator/pkg/model"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

const (
	defaultConcurrency = 8
	tracerName         = "github.com/donaldgifford/resell-valuator/internal/engine"
)

// ReferenceLookup resolves a brand to its new-device reference price.
type ReferenceLookup interface {
	Lookup(brand string) (domain.ReferencePriceEntry, bool)
}

// Engine values devices: it builds feature vectors, runs the model and
// applies the post-prediction adjustments. It holds no mutable state of its
// own and is safe for concurrent use.
type Engine struct {
	builder *features.Builder
	model   model.Predictor
	refs    ReferenceLookup
	pricing Pricing
	log     *slog.Logger
	tracer  trace.Tracer

	concurrency int
}

// NewEngine creates an Engine. The builder and the model must agree on the
// feature schema.
func NewEngine(b *features.Builder, m model.Predictor, opts ...EngineOption) (*Engine, error) {
	if b == nil || m == nil {
		return nil, errors.New("engine requires a feature builder and a model")
	}
	if info := m.Info(); info.Schema != b.Schema() {
		return nil, &domain.SchemaMismatchError{
			Expected: string(info.Schema),
			Actual:   string(b.Schema()),
			Detail:   "feature builder schema differs from the model schema",
		}
	}

	eng := &Engine{
		builder:     b,
		model:       m,
		pricing:     DefaultPricing(),
		log:         slog.Default(),
		tracer:      otel.Tracer(tracerName),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if err := eng.pricing.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pricing: %w", err)
	}
	return eng, nil
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithReferences sets the reference price lookup. Without one, results carry
// no reference or savings fields.
func WithReferences(r ReferenceLookup) EngineOption {
	return func(e *Engine) {
		e.refs = r
	}
}

// WithPricing replaces the default adjustment constants.
func WithPricing(p Pricing) EngineOption {
	return func(e *Engine) {
		e.pricing = p
	}
}

// WithConcurrency sets how many records a batch values in parallel.
func WithConcurrency(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithTracer sets the tracer used for valuation spans.
func WithTracer(t trace.Tracer) EngineOption {
	return func(e *Engine) {
		e.tracer = t
	}
}

// Schema returns the feature schema of the active model.
func (eng *Engine) Schema() domain.SchemaVersion {
	return eng.builder.Schema()
}

// ModelInfo describes the active model.
func (eng *Engine) ModelInfo() model.Info {
	return eng.model.Info()
}

// Pricing returns the adjustment constants in use.
func (eng *Engine) Pricing() Pricing {
	return eng.pricing
}

// Valuate values a single device. Every failure is returned as a
// *domain.ValuationError tagged with its kind and, where known, the field.
func (eng *Engine) Valuate(
	ctx context.Context,
	rec domain.DeviceRecord,
	opts ...CallOption,
) (*domain.ValuationResult, error) {
	cfg, err := eng.callConfig(opts)
	if err != nil {
		return nil, domain.NewValuationError(err)
	}
	return eng.valuate(ctx, rec, cfg)
}

func (eng *Engine) valuate(
	ctx context.Context,
	rec domain.DeviceRecord,
	cfg callConfig,
) (*domain.ValuationResult, error) {
	ctx, span := eng.tracer.Start(ctx, "engine.Valuate", trace.WithAttributes(
		attribute.String("device.brand", rec.Brand),
		attribute.Int("device.storage_gb", rec.StorageGB),
	))
	defer span.End()

	start := time.Now()
	res, err := eng.compute(ctx, rec, cfg)
	metrics.ValuationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		ve := domain.NewValuationError(err)
		metrics.ValuationsTotal.WithLabelValues("error").Inc()
		metrics.ValuationErrorsTotal.WithLabelValues(string(ve.Kind)).Inc()
		span.RecordError(ve)
		span.SetStatus(codes.Error, string(ve.Kind))
		if !ve.BadInput() {
			eng.log.Error("valuation failed", "brand", rec.Brand, "kind", ve.Kind, "error", ve)
		}
		return nil, ve
	}

	metrics.ValuationsTotal.WithLabelValues("ok").Inc()
	metrics.PredictedPrice.Observe(float64(res.PredictedPrice))
	span.SetAttributes(attribute.Int64("valuation.adjusted_price", res.AdjustedPrice))
	return res, nil
}

func (eng *Engine) compute(
	ctx context.Context,
	rec domain.DeviceRecord,
	cfg callConfig,
) (*domain.ValuationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec, err := eng.builder.Build(rec)
	if err != nil {
		return nil, err
	}

	raw, err := eng.model.Predict(vec)
	if err != nil {
		return nil, fmt.Errorf("predicting price: %w", err)
	}
	return eng.adjust(rec, vec.Schema, raw, cfg), nil
}

// adjust turns a raw model output into a result: negative output is clamped
// to zero, then the damage, range and reference adjustments are applied.
func (eng *Engine) adjust(
	rec domain.DeviceRecord,
	schema domain.SchemaVersion,
	raw float64,
	cfg callConfig,
) *domain.ValuationResult {
	if raw < 0 {
		eng.log.Debug("negative model output clamped", "brand", rec.Brand, "raw", raw)
		raw = 0
	}

	rawD := decimal.NewFromFloat(raw)
	mult := eng.pricing.DamageMultiplier(rec.Damage())
	adjusted := rawD.Mul(decimal.NewFromFloat(mult)).IntPart()

	res := &domain.ValuationResult{
		Input:            rec,
		Schema:           schema,
		PredictedPrice:   rawD.IntPart(),
		DamageMultiplier: mult,
		AdjustedPrice:    adjusted,
		PriceRange:       PriceRange(adjusted, cfg.margin),
	}

	if eng.refs != nil {
		if entry, ok := eng.refs.Lookup(rec.Brand); ok {
			applyReference(res, entry.MRP, eng.pricing.StoragePremium.For(rec.StorageGB))
		}
	}
	res.Deal = eng.pricing.Deals.Rate(res)
	return res
}
