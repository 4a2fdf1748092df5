// Package market summarizes the recorded resale prices: overall statistics,
// per-brand trends, storage premiums, breakdowns by device attribute and
// how much of the new-device price each brand retains.
package market

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/donaldgifford/resell-valuator/internal/store"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// BaseStorageGB is the storage tier premiums are measured against.
const BaseStorageGB = 64

var (
	// ErrNoSales is returned when no recorded sale matches the request.
	ErrNoSales = errors.New("no recorded sales")
	// ErrUnknownDimension is returned for a breakdown dimension that does
	// not exist.
	ErrUnknownDimension = errors.New("unknown dimension")
)

// SalesStore is the part of the store the analyzer reads.
type SalesStore interface {
	MarketSummary(ctx context.Context) (*domain.MarketSummary, error)
	SegmentStats(ctx context.Context, q *store.SegmentQuery) ([]domain.SegmentStats, error)
	SimilarSales(ctx context.Context, q *store.SimilarQuery) ([]domain.SaleRecord, error)
}

// References resolves a brand to its reference price.
type References interface {
	Lookup(brand string) (domain.ReferencePriceEntry, bool)
	Len() int
}

// Analyzer answers market questions over the recorded sales.
type Analyzer struct {
	store SalesStore
	refs  References
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(s SalesStore, refs References) *Analyzer {
	return &Analyzer{store: s, refs: refs}
}

// ParseDimension validates a breakdown dimension name.
func ParseDimension(s string) (store.Dimension, error) {
	d := store.Dimension(s)
	if !slices.Contains(store.Dimensions, d) {
		return "", fmt.Errorf("%w %q", ErrUnknownDimension, s)
	}
	return d, nil
}

// Summary returns the overall market statistics.
func (a *Analyzer) Summary(ctx context.Context) (*domain.MarketSummary, error) {
	m, err := a.store.MarketSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("summarizing market: %w", err)
	}
	if m.Conditions == nil {
		m.Conditions = []string{}
	}
	m.ReferenceBrands = a.refs.Len()
	return m, nil
}

// BrandTrend returns the sale price spread of one brand.
func (a *Analyzer) BrandTrend(ctx context.Context, brand string) (*domain.BrandTrend, error) {
	segs, err := a.store.SegmentStats(ctx, &store.SegmentQuery{
		Dimension: store.DimensionBrand,
		Brand:     &brand,
	})
	if err != nil {
		return nil, fmt.Errorf("brand stats: %w", err)
	}
	if len(segs) == 0 || segs[0].Count == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoSales, brand)
	}

	t := &domain.BrandTrend{Brand: brand, PriceStats: segs[0].PriceStats}
	if ref, ok := a.refs.Lookup(brand); ok && ref.MRP > 0 {
		mrp := ref.MRP
		pct := retention(t.Avg, mrp)
		t.MRP = &mrp
		t.RetentionPct = &pct
	}
	return t, nil
}

// StoragePremium compares the average price of each storage tier with the
// 64GB base. An empty brand covers the whole market. Tiers are listed only
// when base sales exist.
func (a *Analyzer) StoragePremium(ctx context.Context, brand string) (*domain.StoragePremium, error) {
	q := &store.SegmentQuery{Dimension: store.DimensionStorage}
	if brand != "" {
		q.Brand = &brand
	}

	segs, err := a.store.SegmentStats(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("storage stats: %w", err)
	}
	if len(segs) == 0 {
		if brand == "" {
			return nil, ErrNoSales
		}
		return nil, fmt.Errorf("%w for %q", ErrNoSales, brand)
	}

	out := &domain.StoragePremium{Brand: brand, BaseSize: BaseStorageGB, Tiers: []domain.StorageTier{}}

	tiers := make([]domain.StorageTier, 0, len(segs))
	haveBase := false
	for _, s := range segs {
		gb, err := strconv.Atoi(s.Segment)
		if err != nil {
			return nil, fmt.Errorf("parsing storage segment %q: %w", s.Segment, err)
		}
		if gb == BaseStorageGB {
			out.BaseAvg = s.Avg
			haveBase = true
			continue
		}
		if gb > BaseStorageGB {
			tiers = append(tiers, domain.StorageTier{StorageGB: gb, AvgPrice: s.Avg, Count: s.Count})
		}
	}
	if !haveBase {
		return out, nil
	}

	for i := range tiers {
		tiers[i].Premium = math.Round(tiers[i].AvgPrice - out.BaseAvg)
	}
	out.Tiers = tiers
	return out, nil
}

// Breakdown splits the recorded sales along one dimension and reports how
// far each segment's average sits from the overall average.
func (a *Analyzer) Breakdown(ctx context.Context, dim store.Dimension) (*domain.Breakdown, error) {
	segs, err := a.store.SegmentStats(ctx, &store.SegmentQuery{Dimension: dim})
	if err != nil {
		return nil, fmt.Errorf("%s breakdown: %w", dim, err)
	}

	out := &domain.Breakdown{Dimension: string(dim), Segments: make([]domain.BreakdownSegment, 0, len(segs))}

	var sum float64
	var n int
	for _, s := range segs {
		sum += s.Avg * float64(s.Count)
		n += s.Count
	}
	if n == 0 {
		return out, nil
	}
	out.OverallAvg = sum / float64(n)

	for _, s := range segs {
		out.Segments = append(out.Segments, domain.BreakdownSegment{
			SegmentStats: s,
			ImpactPct:    round1((s.Avg/out.OverallAvg - 1) * 100),
		})
	}
	return out, nil
}

// Retention lists, for every brand with a reference price, the share of
// that price its used sales average, highest first.
func (a *Analyzer) Retention(ctx context.Context) ([]domain.BrandRetention, error) {
	segs, err := a.store.SegmentStats(ctx, &store.SegmentQuery{Dimension: store.DimensionBrand})
	if err != nil {
		return nil, fmt.Errorf("brand stats: %w", err)
	}

	out := make([]domain.BrandRetention, 0, len(segs))
	for _, s := range segs {
		ref, ok := a.refs.Lookup(s.Segment)
		if !ok || ref.MRP <= 0 || s.Count == 0 {
			continue
		}
		out = append(out, domain.BrandRetention{
			Brand:        s.Segment,
			AvgPrice:     s.Avg,
			MRP:          ref.MRP,
			RetentionPct: retention(s.Avg, ref.MRP),
			Samples:      s.Count,
		})
	}

	slices.SortFunc(out, func(x, y domain.BrandRetention) int {
		if c := cmp.Compare(y.RetentionPct, x.RetentionPct); c != 0 {
			return c
		}
		return cmp.Compare(x.Brand, y.Brand)
	})
	return out, nil
}

// Similar returns recent sales of the same brand, storage and condition.
func (a *Analyzer) Similar(ctx context.Context, q *store.SimilarQuery) ([]domain.SaleRecord, error) {
	sales, err := a.store.SimilarSales(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("similar sales: %w", err)
	}
	if sales == nil {
		sales = []domain.SaleRecord{}
	}
	return sales, nil
}

func retention(avg float64, mrp int64) float64 {
	return round1(avg / float64(mrp) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
