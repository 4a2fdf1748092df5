package client

import (
	"context"
	"net/url"
	"strconv"

	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// MarketSummary returns overall statistics of the recorded sales.
func (c *Client) MarketSummary(ctx context.Context) (*domain.MarketSummary, error) {
	var m domain.MarketSummary
	if err := c.get(ctx, "/api/v1/market/summary", &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// BrandTrend returns the sale price spread of one brand.
func (c *Client) BrandTrend(ctx context.Context, brand string) (*domain.BrandTrend, error) {
	var t domain.BrandTrend
	if err := c.get(ctx, "/api/v1/market/brands/"+url.PathEscape(brand)+"/trend", &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// StoragePremium returns the storage premium of one brand, or of the whole
// market when brand is empty.
func (c *Client) StoragePremium(ctx context.Context, brand string) (*domain.StoragePremium, error) {
	path := "/api/v1/market/storage-premium"
	if brand != "" {
		path = "/api/v1/market/brands/" + url.PathEscape(brand) + "/storage-premium"
	}
	var p domain.StoragePremium
	if err := c.get(ctx, path, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Breakdown splits the recorded sales along dimension.
func (c *Client) Breakdown(ctx context.Context, dimension string) (*domain.Breakdown, error) {
	var b domain.Breakdown
	if err := c.get(ctx, "/api/v1/market/breakdown/"+url.PathEscape(dimension), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Retention lists the share of the reference price each brand keeps.
func (c *Client) Retention(ctx context.Context) ([]domain.BrandRetention, error) {
	var r []domain.BrandRetention
	if err := c.get(ctx, "/api/v1/market/retention", &r); err != nil {
		return nil, err
	}
	return r, nil
}

// SimilarSales returns recent sales of the same brand, storage and
// condition.
func (c *Client) SimilarSales(
	ctx context.Context,
	brand string,
	storageGB int,
	condition string,
	limit int,
) ([]domain.SaleRecord, error) {
	q := url.Values{}
	q.Set("brand", brand)
	q.Set("storage_gb", strconv.Itoa(storageGB))
	q.Set("condition", condition)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var sales []domain.SaleRecord
	if err := c.get(ctx, "/api/v1/market/similar?"+q.Encode(), &sales); err != nil {
		return nil, err
	}
	return sales, nil
}
