package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/resell-valuator/internal/metrics"
	"github.com/donaldgifford/resell-valuator/pkg/bulk"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// ValuateBatch values records in parallel and returns one outcome per record
// in input order. A failing record never affects the others. The only
// batch-level errors are an invalid call option and context cancellation.
func (eng *Engine) ValuateBatch(
	ctx context.Context,
	records []domain.DeviceRecord,
	opts ...CallOption,
) (*domain.BatchReport, error) {
	items := make([]batchItem, len(records))
	for i := range records {
		items[i] = batchItem{record: records[i]}
	}
	return eng.runBatch(ctx, items, opts)
}

// ValuateRows values parsed CSV rows. Rows that already failed to parse are
// reported with their parse error and are not sent to the model.
func (eng *Engine) ValuateRows(
	ctx context.Context,
	rows []bulk.Row,
	opts ...CallOption,
) (*domain.BatchReport, error) {
	items := make([]batchItem, len(rows))
	for i := range rows {
		items[i] = batchItem{record: rows[i].Record, line: rows[i].Line, err: rows[i].Err}
	}
	return eng.runBatch(ctx, items, opts)
}

// ValuateJSON decodes and values raw JSON records. A record that fails to
// decode is reported in its slot as a missing or invalid field and is not
// sent to the model.
func (eng *Engine) ValuateJSON(
	ctx context.Context,
	raws []json.RawMessage,
	opts ...CallOption,
) (*domain.BatchReport, error) {
	items := make([]batchItem, len(raws))
	for i := range raws {
		items[i].record, items[i].err = domain.DecodeDeviceRecord(raws[i])
	}
	return eng.runBatch(ctx, items, opts)
}

type batchItem struct {
	record domain.DeviceRecord
	line   int
	err    error
}

func (eng *Engine) runBatch(ctx context.Context, items []batchItem, opts []CallOption) (*domain.BatchReport, error) {
	cfg, err := eng.callConfig(opts)
	if err != nil {
		return nil, domain.NewValuationError(err)
	}

	ctx, span := eng.tracer.Start(ctx, "engine.ValuateBatch")
	defer span.End()
	span.SetAttributes(attribute.Int("batch.size", len(items)))

	start := time.Now()
	outcomes := make([]domain.BatchOutcome, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(eng.concurrency)

	for i := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = eng.valuateItem(gctx, i, &items[i], cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch valuation interrupted: %w", err)
	}

	report := &domain.BatchReport{Items: outcomes, Summary: Summarize(outcomes)}

	metrics.BatchDuration.Observe(time.Since(start).Seconds())
	metrics.BatchSize.Observe(float64(len(items)))
	metrics.BatchRowsFailedTotal.Add(float64(report.Summary.Failed))
	span.SetAttributes(
		attribute.Int("batch.succeeded", report.Summary.Succeeded),
		attribute.Int("batch.failed", report.Summary.Failed),
	)

	eng.log.Info("batch valuation complete",
		"total", report.Summary.Total,
		"succeeded", report.Summary.Succeeded,
		"failed", report.Summary.Failed,
		"duration", time.Since(start),
	)
	return report, nil
}

// valuateItem writes only to its own slot. Each record is predicted on its
// own so a model failure is reported against that record alone.
func (eng *Engine) valuateItem(ctx context.Context, idx int, it *batchItem, cfg callConfig) domain.BatchOutcome {
	out := domain.BatchOutcome{Index: idx, Line: it.line}
	if it.err != nil {
		ve := domain.NewValuationError(it.err)
		metrics.ValuationsTotal.WithLabelValues("error").Inc()
		metrics.ValuationErrorsTotal.WithLabelValues(string(ve.Kind)).Inc()
		out.Error = ve
		return out
	}

	res, err := eng.valuate(ctx, it.record, cfg)
	if err != nil {
		out.Error = domain.NewValuationError(err)
		return out
	}
	out.Result = res
	return out
}

// Summarize aggregates outcomes. Price statistics are computed over the
// predicted price of successful outcomes only and are zero when none
// succeeded.
func Summarize(outcomes []domain.BatchOutcome) domain.BatchSummary {
	s := domain.BatchSummary{Total: len(outcomes)}
	prices := make([]int64, 0, len(outcomes))

	for i := range outcomes {
		o := &outcomes[i]
		if o.OK() {
			s.Succeeded++
			prices = append(prices, o.Result.PredictedPrice)
			continue
		}
		s.Failed++
		kind := string(domain.KindInternal)
		if o.Error != nil {
			kind = string(o.Error.Kind)
		}
		if s.FailedKinds == nil {
			s.FailedKinds = make(map[string]int)
		}
		s.FailedKinds[kind]++
	}

	if len(prices) == 0 {
		return s
	}

	slices.Sort(prices)
	var sum int64
	for _, p := range prices {
		sum += p
	}

	n := len(prices)
	s.MinPrice = prices[0]
	s.MaxPrice = prices[n-1]
	s.MeanPrice = float64(sum) / float64(n)
	if n%2 == 1 {
		s.MedianPrice = float64(prices[n/2])
	} else {
		s.MedianPrice = float64(prices[n/2-1]+prices[n/2]) / 2
	}
	return s
}
