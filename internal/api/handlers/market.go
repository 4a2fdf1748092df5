package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/resell-valuator/internal/market"
	"github.com/donaldgifford/resell-valuator/internal/store"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// MarketHandler serves analytics over the recorded sales.
type MarketHandler struct {
	analyzer *market.Analyzer
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(a *market.Analyzer) *MarketHandler {
	return &MarketHandler{analyzer: a}
}

// MarketSummaryOutput is the response body for the market summary.
type MarketSummaryOutput struct {
	Body *domain.MarketSummary
}

// BrandInput identifies a brand in the path.
type BrandInput struct {
	Brand string `path:"brand" doc:"Brand name" example:"iPhone 15"`
}

// BrandTrendOutput is the response body for a brand trend.
type BrandTrendOutput struct {
	Body *domain.BrandTrend
}

// StoragePremiumOutput is the response body for a storage premium.
type StoragePremiumOutput struct {
	Body *domain.StoragePremium
}

// BreakdownInput selects the dimension of a breakdown.
type BreakdownInput struct {
	Dimension string `path:"dimension" enum:"brand,condition,storage,age,battery" doc:"Dimension to group by"`
}

// BreakdownOutput is the response body for a breakdown.
type BreakdownOutput struct {
	Body *domain.Breakdown
}

// RetentionOutput is the response body for brand retention.
type RetentionOutput struct {
	Body []domain.BrandRetention
}

// SimilarInput selects the sales to compare a device against.
type SimilarInput struct {
	Brand     string `query:"brand"      required:"true" minLength:"1" doc:"Brand name"`
	StorageGB int    `query:"storage_gb" required:"true" doc:"Storage in GB"`
	Condition string `query:"condition"  required:"true" minLength:"1" doc:"Condition label"`
	Limit     int    `query:"limit"      minimum:"0" maximum:"100" doc:"Maximum sales to return (default 5)"`
}

// SimilarOutput is the response body for similar sales.
type SimilarOutput struct {
	Body []domain.SaleRecord
}

// Summary returns overall market statistics.
func (h *MarketHandler) Summary(ctx context.Context, _ *struct{}) (*MarketSummaryOutput, error) {
	m, err := h.analyzer.Summary(ctx)
	if err != nil {
		return nil, marketError(err)
	}
	return &MarketSummaryOutput{Body: m}, nil
}

// BrandTrend returns the sale price spread of one brand.
func (h *MarketHandler) BrandTrend(ctx context.Context, input *BrandInput) (*BrandTrendOutput, error) {
	t, err := h.analyzer.BrandTrend(ctx, input.Brand)
	if err != nil {
		return nil, marketError(err)
	}
	return &BrandTrendOutput{Body: t}, nil
}

// BrandStoragePremium returns the storage premium within one brand.
func (h *MarketHandler) BrandStoragePremium(ctx context.Context, input *BrandInput) (*StoragePremiumOutput, error) {
	p, err := h.analyzer.StoragePremium(ctx, input.Brand)
	if err != nil {
		return nil, marketError(err)
	}
	return &StoragePremiumOutput{Body: p}, nil
}

// StoragePremium returns the market-wide storage premium.
func (h *MarketHandler) StoragePremium(ctx context.Context, _ *struct{}) (*StoragePremiumOutput, error) {
	p, err := h.analyzer.StoragePremium(ctx, "")
	if err != nil {
		return nil, marketError(err)
	}
	return &StoragePremiumOutput{Body: p}, nil
}

// Breakdown splits the sales along one dimension.
func (h *MarketHandler) Breakdown(ctx context.Context, input *BreakdownInput) (*BreakdownOutput, error) {
	dim, err := market.ParseDimension(input.Dimension)
	if err != nil {
		return nil, marketError(err)
	}
	b, err := h.analyzer.Breakdown(ctx, dim)
	if err != nil {
		return nil, marketError(err)
	}
	return &BreakdownOutput{Body: b}, nil
}

// Retention lists how much of the reference price each brand keeps.
func (h *MarketHandler) Retention(ctx context.Context, _ *struct{}) (*RetentionOutput, error) {
	r, err := h.analyzer.Retention(ctx)
	if err != nil {
		return nil, marketError(err)
	}
	return &RetentionOutput{Body: r}, nil
}

// Similar returns recent sales of the same brand, storage and condition.
func (h *MarketHandler) Similar(ctx context.Context, input *SimilarInput) (*SimilarOutput, error) {
	sales, err := h.analyzer.Similar(ctx, &store.SimilarQuery{
		Brand:     input.Brand,
		StorageGB: input.StorageGB,
		Condition: input.Condition,
		Limit:     input.Limit,
	})
	if err != nil {
		return nil, marketError(err)
	}
	return &SimilarOutput{Body: sales}, nil
}

func marketError(err error) error {
	switch {
	case errors.Is(err, market.ErrNoSales):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, market.ErrUnknownDimension):
		return huma.Error422UnprocessableEntity(err.Error())
	default:
		return huma.Error500InternalServerError("market query failed: " + err.Error())
	}
}

// RegisterMarketRoutes registers market analytics endpoints with the Huma API.
func RegisterMarketRoutes(api huma.API, h *MarketHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "market-summary",
		Method:      http.MethodGet,
		Path:        "/api/v1/market/summary",
		Summary:     "Market summary",
		Description: "Price statistics over every recorded sale.",
		Tags:        []string{"market"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.Summary)

	huma.Register(api, huma.Operation{
		OperationID: "market-brand-trend",
		Method:      http.MethodGet,
		Path:        "/api/v1/market/brands/{brand}/trend",
		Summary:     "Brand price trend",
		Description: "Sale price spread of one brand and the share of its reference price it retains.",
		Tags:        []string{"market"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.BrandTrend)

	huma.Register(api, huma.Operation{
		OperationID: "market-brand-storage-premium",
		Method:      http.MethodGet,
		Path:        "/api/v1/market/brands/{brand}/storage-premium",
		Summary:     "Brand storage premium",
		Description: "Average price of each storage tier of one brand over its 64GB sales.",
		Tags:        []string{"market"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.BrandStoragePremium)

	huma.Register(api, huma.Operation{
		OperationID: "market-storage-premium",
		Method:      http.MethodGet,
		Path:        "/api/v1/market/storage-premium",
		Summary:     "Market storage premium",
		Tags:        []string{"market"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.StoragePremium)

	huma.Register(api, huma.Operation{
		OperationID: "market-breakdown",
		Method:      http.MethodGet,
		Path:        "/api/v1/market/breakdown/{dimension}",
		Summary:     "Market breakdown",
		Description: "Price statistics per brand, condition, storage, age bucket or battery bucket.",
		Tags:        []string{"market"},
		Errors:      []int{http.StatusUnprocessableEntity, http.StatusInternalServerError},
	}, h.Breakdown)

	huma.Register(api, huma.Operation{
		OperationID: "market-retention",
		Method:      http.MethodGet,
		Path:        "/api/v1/market/retention",
		Summary:     "Brand value retention",
		Tags:        []string{"market"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.Retention)

	huma.Register(api, huma.Operation{
		OperationID: "market-similar",
		Method:      http.MethodGet,
		Path:        "/api/v1/market/similar",
		Summary:     "Similar recorded sales",
		Tags:        []string{"market"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.Similar)
}
