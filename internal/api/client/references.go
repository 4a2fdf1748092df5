package client

import (
	"context"
	"fmt"
	"net/url"

	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

type setReferenceRequest struct {
	MRP          int64 `json:"mrp"`
	ValidStorage []int `json:"valid_storage,omitempty"`
}

// ListReferences returns every reference price.
func (c *Client) ListReferences(ctx context.Context) ([]domain.ReferencePriceEntry, error) {
	var entries []domain.ReferencePriceEntry
	if err := c.get(ctx, "/api/v1/references", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetReference returns the reference price for brand.
func (c *Client) GetReference(ctx context.Context, brand string) (*domain.ReferencePriceEntry, error) {
	var e domain.ReferencePriceEntry
	if err := c.get(ctx, "/api/v1/references/"+url.PathEscape(brand), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// SetReference creates or replaces the reference price for brand.
func (c *Client) SetReference(
	ctx context.Context,
	brand string,
	mrp int64,
	validStorage []int,
) (*domain.ReferencePriceEntry, error) {
	var e domain.ReferencePriceEntry
	req := setReferenceRequest{MRP: mrp, ValidStorage: validStorage}
	if err := c.put(ctx, "/api/v1/references/"+url.PathEscape(brand), req, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// RefreshReferences re-derives reference prices from recorded sales and
// returns how many were updated.
func (c *Client) RefreshReferences(ctx context.Context) (int, error) {
	var out struct {
		Updated int    `json:"updated"`
		Error   string `json:"error"`
	}
	if err := c.post(ctx, "/api/v1/references/refresh", nil, &out); err != nil {
		return 0, err
	}
	if out.Error != "" {
		return out.Updated, fmt.Errorf("refresh partially applied: %s", out.Error)
	}
	return out.Updated, nil
}
