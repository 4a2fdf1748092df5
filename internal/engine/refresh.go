package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/donaldgifford/resell-valuator/internal/metrics"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// SalesDeriver computes reference prices from recorded sales.
type SalesDeriver interface {
	DeriveReferencePrices(ctx context.Context, factor float64) ([]domain.ReferencePriceEntry, error)
}

// ReferenceUpserter applies reference price changes.
type ReferenceUpserter interface {
	Upsert(ctx context.Context, e domain.ReferencePriceEntry) (domain.ReferencePriceEntry, error)
}

// ReferenceRefresher re-derives reference prices from historical sales and
// pushes them into the live reference store.
type ReferenceRefresher struct {
	sales  SalesDeriver
	refs   ReferenceUpserter
	factor float64
	log    *slog.Logger
}

// NewReferenceRefresher creates a ReferenceRefresher.
func NewReferenceRefresher(
	sales SalesDeriver,
	refs ReferenceUpserter,
	factor float64,
	log *slog.Logger,
) *ReferenceRefresher {
	if log == nil {
		log = slog.Default()
	}
	return &ReferenceRefresher{sales: sales, refs: refs, factor: factor, log: log}
}

// Run performs one refresh and returns the number of entries updated. Entry
// failures are collected; the remaining entries are still applied.
func (r *ReferenceRefresher) Run(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() {
		metrics.ReferenceRefreshDuration.Observe(time.Since(start).Seconds())
	}()

	entries, err := r.sales.DeriveReferencePrices(ctx, r.factor)
	if err != nil {
		metrics.ReferenceRefreshErrorsTotal.Inc()
		return 0, fmt.Errorf("deriving reference prices: %w", err)
	}

	var (
		updated int
		errs    []error
	)
	for i := range entries {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if _, err := r.refs.Upsert(ctx, entries[i]); err != nil {
			errs = append(errs, fmt.Errorf("upserting %s: %w", entries[i].Brand, err))
			continue
		}
		updated++
	}

	if err := errors.Join(errs...); err != nil {
		metrics.ReferenceRefreshErrorsTotal.Inc()
		return updated, err
	}

	r.log.Info("reference prices refreshed", "derived", len(entries), "updated", updated)
	return updated, nil
}
