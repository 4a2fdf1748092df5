package client

import (
	"context"
	"net/url"
	"strconv"
	"time"

	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// Vocabulary is the input vocabulary the active model accepts.
type Vocabulary struct {
	Schema         string              `json:"schema"`
	Labels         map[string][]string `json:"labels"`
	StorageOptions []int               `json:"storage_options"`
	DamageLevels   []string            `json:"damage_levels"`
	ValidStorage   map[string][]int    `json:"valid_storage"`
}

// ModelInfo describes the active model and pricing constants.
type ModelInfo struct {
	Model struct {
		Backend      string   `json:"backend"`
		Schema       string   `json:"schema"`
		FeatureNames []string `json:"feature_names"`
		Trees        int      `json:"trees"`
		Source       string   `json:"source"`
	} `json:"model"`
	Pricing struct {
		Margin            float64            `json:"margin"`
		DamageMultipliers map[string]float64 `json:"damage_multipliers"`
		StorageBrackets   map[string]int64   `json:"storage_brackets"`
		StoragePerGB      int64              `json:"storage_per_gb"`
	} `json:"pricing"`
}

// RunsFilter narrows a run listing. Zero values are omitted.
type RunsFilter struct {
	Source string
	Since  time.Time
	Limit  int
	Offset int
}

// RunsPage is one page of recorded valuation runs.
type RunsPage struct {
	Runs   []domain.ValuationRun `json:"runs"`
	Total  int                   `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// GetVocabulary returns the input vocabulary.
func (c *Client) GetVocabulary(ctx context.Context) (*Vocabulary, error) {
	var v Vocabulary
	if err := c.get(ctx, "/api/v1/vocabulary", &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetModel returns the active model description.
func (c *Client) GetModel(ctx context.Context) (*ModelInfo, error) {
	var m ModelInfo
	if err := c.get(ctx, "/api/v1/model", &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListRuns returns recorded valuation runs, newest first.
func (c *Client) ListRuns(ctx context.Context, f RunsFilter) (*RunsPage, error) {
	q := url.Values{}
	if f.Source != "" {
		q.Set("source", f.Source)
	}
	if !f.Since.IsZero() {
		q.Set("since", f.Since.UTC().Format(time.RFC3339))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}

	path := "/api/v1/runs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var page RunsPage
	if err := c.get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
