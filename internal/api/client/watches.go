package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// watchRequest contains only the fields the API accepts for create/update.
// Zero age and battery are sent so the caller's values win over server
// defaults.
type watchRequest struct {
	Name          string             `json:"name"`
	Brand         string             `json:"brand"`
	StorageGB     int                `json:"storage_gb"`
	Condition     string             `json:"condition"`
	AgeMonths     *int               `json:"age_months,omitempty"`
	BatteryHealth *int               `json:"battery_health,omitempty"`
	DamageLevel   domain.DamageLevel `json:"damage_level,omitempty"`
	TargetPrice   int64              `json:"target_price"`
	Enabled       bool               `json:"enabled"`
}

func newWatchRequest(w *domain.PriceWatch) watchRequest {
	req := watchRequest{
		Name:        w.Name,
		Brand:       w.Brand,
		StorageGB:   w.StorageGB,
		Condition:   w.Condition,
		DamageLevel: w.DamageLevel,
		TargetPrice: w.TargetPrice,
		Enabled:     w.Enabled,
	}
	if w.AgeMonths > 0 {
		req.AgeMonths = &w.AgeMonths
	}
	if w.BatteryHealth > 0 {
		req.BatteryHealth = &w.BatteryHealth
	}
	return req
}

// ListWatches returns all price watches, or only enabled ones.
func (c *Client) ListWatches(ctx context.Context, enabledOnly bool) ([]domain.PriceWatch, error) {
	path := "/api/v1/watches"
	if enabledOnly {
		path += "?enabled=true"
	}
	var watches []domain.PriceWatch
	if err := c.get(ctx, path, &watches); err != nil {
		return nil, err
	}
	return watches, nil
}

// GetWatch returns a single watch by ID.
func (c *Client) GetWatch(ctx context.Context, id string) (*domain.PriceWatch, error) {
	var w domain.PriceWatch
	if err := c.get(ctx, "/api/v1/watches/"+url.PathEscape(id), &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// CreateWatch creates a new watch. Zero AgeMonths or BatteryHealth take the
// server defaults.
func (c *Client) CreateWatch(ctx context.Context, w *domain.PriceWatch) (*domain.PriceWatch, error) {
	var created domain.PriceWatch
	if err := c.post(ctx, "/api/v1/watches", newWatchRequest(w), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateWatch replaces an existing watch.
func (c *Client) UpdateWatch(ctx context.Context, w *domain.PriceWatch) (*domain.PriceWatch, error) {
	var updated domain.PriceWatch
	if err := c.put(ctx, "/api/v1/watches/"+url.PathEscape(w.ID), newWatchRequest(w), &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetWatchEnabled enables or disables a watch.
func (c *Client) SetWatchEnabled(ctx context.Context, id string, enabled bool) error {
	body := map[string]bool{"enabled": enabled}
	return c.put(ctx, fmt.Sprintf("/api/v1/watches/%s/enabled", url.PathEscape(id)), body, nil)
}

// DeleteWatch removes a watch and its alerts.
func (c *Client) DeleteWatch(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/watches/"+url.PathEscape(id))
}

// ListWatchAlerts returns the latest alerts of a watch.
func (c *Client) ListWatchAlerts(ctx context.Context, id string, limit int) ([]domain.WatchAlert, error) {
	path := "/api/v1/watches/" + url.PathEscape(id) + "/alerts"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var alerts []domain.WatchAlert
	if err := c.get(ctx, path, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// CheckWatches values every enabled watch now.
func (c *Client) CheckWatches(ctx context.Context) (*domain.WatchCheck, error) {
	var res domain.WatchCheck
	if err := c.post(ctx, "/api/v1/watches/check", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
