package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/donaldgifford/resell-valuator/internal/engine"
	"github.com/donaldgifford/resell-valuator/pkg/bulk"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// RunRecorder persists completed batch runs.
type RunRecorder interface {
	InsertValuationRun(ctx context.Context, run *domain.ValuationRun) error
}

// ValuationHandler serves single, batch and bulk valuations.
type ValuationHandler struct {
	engine  *engine.Engine
	runs    RunRecorder
	maxRows int
	log     *slog.Logger
}

// ValuationOption configures a ValuationHandler.
type ValuationOption func(*ValuationHandler)

// WithRunRecorder records every batch and bulk run through r.
func WithRunRecorder(r RunRecorder) ValuationOption {
	return func(h *ValuationHandler) {
		h.runs = r
	}
}

// WithMaxRows caps the number of records accepted by one batch or bulk
// request. Zero means unlimited.
func WithMaxRows(n int) ValuationOption {
	return func(h *ValuationHandler) {
		h.maxRows = n
	}
}

// WithLogger sets the handler logger.
func WithLogger(l *slog.Logger) ValuationOption {
	return func(h *ValuationHandler) {
		h.log = l
	}
}

// NewValuationHandler creates a new ValuationHandler.
func NewValuationHandler(eng *engine.Engine, opts ...ValuationOption) *ValuationHandler {
	h := &ValuationHandler{engine: eng, log: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// PricingParams are the optional per-request price range settings. At most
// one of them may be set.
type PricingParams struct {
	Margin     *float64 `json:"margin,omitempty"     minimum:"0"          exclusiveMaximum:"1" doc:"Relative half-width of the price range" example:"0.15"`
	Confidence *float64 `json:"confidence,omitempty" exclusiveMinimum:"0" maximum:"1"          doc:"Confidence level; the margin becomes (1-c)/2" example:"0.85"`
}

func (p PricingParams) callOptions() ([]engine.CallOption, error) {
	return callOptions(p.Margin, p.Confidence)
}

func callOptions(margin, confidence *float64) ([]engine.CallOption, error) {
	switch {
	case margin != nil && confidence != nil:
		return nil, huma.Error422UnprocessableEntity("margin and confidence are mutually exclusive")
	case margin != nil:
		return []engine.CallOption{engine.Margin(*margin)}, nil
	case confidence != nil:
		return []engine.CallOption{engine.Confidence(*confidence)}, nil
	default:
		return nil, nil
	}
}

// ValuateInput is the request body for a single valuation.
type ValuateInput struct {
	Body struct {
		domain.DeviceRecord
		PricingParams
	}
}

// ValuateOutput is the response body for a single valuation.
type ValuateOutput struct {
	Body *domain.ValuationResult
}

// Valuate values one device.
func (h *ValuationHandler) Valuate(ctx context.Context, input *ValuateInput) (*ValuateOutput, error) {
	opts, err := input.Body.callOptions()
	if err != nil {
		return nil, err
	}

	res, err := h.engine.Valuate(ctx, input.Body.DeviceRecord, opts...)
	if err != nil {
		return nil, valuationError(err)
	}
	return &ValuateOutput{Body: res}, nil
}

// BatchInput is the request body for a JSON batch valuation. Records are
// decoded one by one so a malformed record fails only its own slot.
type BatchInput struct {
	Body struct {
		Records []json.RawMessage `json:"records" doc:"Devices to value, in order; each has the shape of a single valuation body"`
		PricingParams
	}
}

// BatchOutput is the response for a JSON batch valuation.
type BatchOutput struct {
	RunID string `header:"X-Run-ID" doc:"Identifier of the recorded valuation run"`
	Body  *domain.BatchReport
}

// ValuateBatch values a list of devices. Per-record failures, including
// records that are not valid device objects, are reported in their slot;
// only invalid pricing parameters fail the whole request.
func (h *ValuationHandler) ValuateBatch(ctx context.Context, input *BatchInput) (*BatchOutput, error) {
	if h.maxRows > 0 && len(input.Body.Records) > h.maxRows {
		return nil, huma.Error413RequestEntityTooLarge(
			fmt.Sprintf("batch has %d records, limit is %d", len(input.Body.Records), h.maxRows),
		)
	}

	opts, err := input.Body.callOptions()
	if err != nil {
		return nil, err
	}

	started := time.Now()
	report, err := h.engine.ValuateJSON(ctx, input.Body.Records, opts...)
	if err != nil {
		return nil, valuationError(err)
	}

	return &BatchOutput{
		RunID: h.recordRun(ctx, domain.RunSourceAPI, started, &report.Summary),
		Body:  report,
	}, nil
}

// BulkInput is a CSV bulk valuation request.
type BulkInput struct {
	Margin     float64 `query:"margin"     minimum:"0" exclusiveMaximum:"1" doc:"Relative half-width of the price range (0 uses the server default)"`
	Confidence float64 `query:"confidence" minimum:"0" maximum:"1"          doc:"Confidence level (0 means unset)"`
	Range      bool    `query:"range"      doc:"Add price_lower and price_upper columns"`
	RawBody    []byte  `contentType:"text/csv"`
}

// BulkOutput is the CSV bulk valuation response.
type BulkOutput struct {
	ContentType string `header:"Content-Type"`
	RunID       string `header:"X-Run-ID"`
	Succeeded   int    `header:"X-Batch-Succeeded"`
	Failed      int    `header:"X-Batch-Failed"`
	Body        []byte
}

// ValuateBulk values a CSV upload and returns the input rows with valuation
// columns appended. Only an unreadable header or an oversized upload fails
// the whole request.
func (h *ValuationHandler) ValuateBulk(ctx context.Context, input *BulkInput) (*BulkOutput, error) {
	var margin, confidence *float64
	if input.Margin > 0 {
		margin = &input.Margin
	}
	if input.Confidence > 0 {
		confidence = &input.Confidence
	}
	opts, err := callOptions(margin, confidence)
	if err != nil {
		return nil, err
	}

	tbl, err := bulk.Read(bytes.NewReader(input.RawBody), bulk.WithMaxRows(h.maxRows))
	if err != nil {
		if errors.Is(err, bulk.ErrTooManyRows) {
			return nil, huma.Error413RequestEntityTooLarge(err.Error())
		}
		return nil, huma.Error400BadRequest(err.Error())
	}

	started := time.Now()
	report, err := h.engine.ValuateRows(ctx, tbl.Rows, opts...)
	if err != nil {
		return nil, valuationError(err)
	}

	var buf bytes.Buffer
	if err := bulk.Write(&buf, tbl, report.Items, bulk.WriteOptions{PriceRange: input.Range}); err != nil {
		return nil, huma.Error500InternalServerError("writing csv failed: " + err.Error())
	}

	return &BulkOutput{
		ContentType: "text/csv",
		RunID:       h.recordRun(ctx, domain.RunSourceBulk, started, &report.Summary),
		Succeeded:   report.Summary.Succeeded,
		Failed:      report.Summary.Failed,
		Body:        buf.Bytes(),
	}, nil
}

// ScheduleInput is the request body for a depreciation schedule.
type ScheduleInput struct {
	Body struct {
		domain.DeviceRecord
		PricingParams
	}
}

// ScheduleOutput is the response body for a depreciation schedule.
type ScheduleOutput struct {
	Body struct {
		Points []engine.SchedulePoint `json:"points" doc:"Valuations at 6-month age steps"`
	}
}

// Schedule values one device at ages 0 to 48 months.
func (h *ValuationHandler) Schedule(ctx context.Context, input *ScheduleInput) (*ScheduleOutput, error) {
	opts, err := input.Body.callOptions()
	if err != nil {
		return nil, err
	}

	points, err := h.engine.DepreciationSchedule(ctx, input.Body.DeviceRecord, opts...)
	if err != nil {
		return nil, valuationError(err)
	}

	out := &ScheduleOutput{}
	out.Body.Points = points
	return out, nil
}

// recordRun persists the run summary. Recording failures are logged and
// never fail the request.
func (h *ValuationHandler) recordRun(
	ctx context.Context,
	source string,
	started time.Time,
	s *domain.BatchSummary,
) string {
	if h.runs == nil {
		return ""
	}

	run := domain.NewValuationRun(uuid.NewString(), source, started, s)
	if err := h.runs.InsertValuationRun(ctx, run); err != nil {
		h.log.Warn("recording valuation run failed", "run_id", run.ID, "error", err)
		return ""
	}
	h.log.Debug("valuation run recorded",
		"run_id", run.ID,
		"source", source,
		"total", s.Total,
	)
	return run.ID
}

// RegisterValuationRoutes registers valuation endpoints with the Huma API.
func RegisterValuationRoutes(api huma.API, h *ValuationHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "valuate",
		Method:      http.MethodPost,
		Path:        "/api/v1/valuations",
		Summary:     "Value a device",
		Description: "Predicts the resale price of one device and applies the damage, range and reference adjustments.",
		Tags:        []string{"valuations"},
		Errors:      []int{http.StatusUnprocessableEntity, http.StatusServiceUnavailable},
	}, h.Valuate)

	huma.Register(api, huma.Operation{
		OperationID: "valuate-batch",
		Method:      http.MethodPost,
		Path:        "/api/v1/valuations/batch",
		Summary:     "Value a batch of devices",
		Description: "Values every record independently. Failed records are reported in place and never abort the batch.",
		Tags:        []string{"valuations"},
		Errors:      []int{http.StatusRequestEntityTooLarge, http.StatusUnprocessableEntity},
	}, h.ValuateBatch)

	huma.Register(api, huma.Operation{
		OperationID: "valuate-bulk",
		Method:      http.MethodPost,
		Path:        "/api/v1/valuations/bulk",
		Summary:     "Value a CSV upload",
		Description: "Accepts a CSV with a header row and returns it with predicted_price, adjusted_price, status and error columns appended.",
		Tags:        []string{"valuations"},
		Errors: []int{
			http.StatusBadRequest,
			http.StatusRequestEntityTooLarge,
			http.StatusUnprocessableEntity,
		},
	}, h.ValuateBulk)

	huma.Register(api, huma.Operation{
		OperationID: "depreciation-schedule",
		Method:      http.MethodPost,
		Path:        "/api/v1/valuations/schedule",
		Summary:     "Depreciation schedule",
		Description: "Values a device at ages 0, 6, ..., 48 months with every other attribute unchanged.",
		Tags:        []string{"valuations"},
		Errors:      []int{http.StatusUnprocessableEntity},
	}, h.Schedule)
}
