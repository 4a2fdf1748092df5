package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// Pricing selects the price range for a request. At most one field may be
// set; zero values mean the server default.
type Pricing struct {
	Margin     float64
	Confidence float64
}

type pricingBody struct {
	Margin     *float64 `json:"margin,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

func (p Pricing) body() pricingBody {
	var b pricingBody
	if p.Margin > 0 {
		b.Margin = &p.Margin
	}
	if p.Confidence > 0 {
		b.Confidence = &p.Confidence
	}
	return b
}

type valuateRequest struct {
	domain.DeviceRecord
	pricingBody
}

type batchRequest struct {
	Records []domain.DeviceRecord `json:"records"`
	pricingBody
}

// SchedulePoint is one age step of a depreciation schedule.
type SchedulePoint struct {
	AgeMonths      int   `json:"age_months"`
	PredictedPrice int64 `json:"predicted_price"`
	AdjustedPrice  int64 `json:"adjusted_price"`
}

// BulkResult is the CSV output of a bulk valuation.
type BulkResult struct {
	CSV       []byte
	RunID     string
	Succeeded int
	Failed    int
}

// Valuate values a single device.
func (c *Client) Valuate(
	ctx context.Context,
	rec domain.DeviceRecord,
	p Pricing,
) (*domain.ValuationResult, error) {
	var res domain.ValuationResult
	if err := c.post(ctx, "/api/v1/valuations", valuateRequest{rec, p.body()}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ValuateBatch values a list of devices.
func (c *Client) ValuateBatch(
	ctx context.Context,
	recs []domain.DeviceRecord,
	p Pricing,
) (*domain.BatchReport, error) {
	if recs == nil {
		recs = []domain.DeviceRecord{}
	}
	var rep domain.BatchReport
	if err := c.post(ctx, "/api/v1/valuations/batch", batchRequest{recs, p.body()}, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// DepreciationSchedule values a device at 6-month age steps.
func (c *Client) DepreciationSchedule(
	ctx context.Context,
	rec domain.DeviceRecord,
	p Pricing,
) ([]SchedulePoint, error) {
	var out struct {
		Points []SchedulePoint `json:"points"`
	}
	if err := c.post(ctx, "/api/v1/valuations/schedule", valuateRequest{rec, p.body()}, &out); err != nil {
		return nil, err
	}
	return out.Points, nil
}

// ValuateCSV uploads a CSV for bulk valuation. withRange adds the price
// range columns to the output.
func (c *Client) ValuateCSV(
	ctx context.Context,
	csv io.Reader,
	p Pricing,
	withRange bool,
) (*BulkResult, error) {
	q := url.Values{}
	if p.Margin > 0 {
		q.Set("margin", strconv.FormatFloat(p.Margin, 'f', -1, 64))
	}
	if p.Confidence > 0 {
		q.Set("confidence", strconv.FormatFloat(p.Confidence, 'f', -1, 64))
	}
	if withRange {
		q.Set("range", "true")
	}

	path := "/api/v1/valuations/bulk"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := c.send(ctx, http.MethodPost, path, "text/csv", csv)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, newAPIError(resp.StatusCode, body)
	}

	res := &BulkResult{CSV: body, RunID: resp.Header.Get("X-Run-ID")}
	res.Succeeded, _ = strconv.Atoi(resp.Header.Get("X-Batch-Succeeded"))
	res.Failed, _ = strconv.Atoi(resp.Header.Get("X-Batch-Failed"))
	return res, nil
}
