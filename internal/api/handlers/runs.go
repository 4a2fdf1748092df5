package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/resell-valuator/internal/store"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// RunsProvider defines the store methods required by the runs handler.
type RunsProvider interface {
	ListValuationRuns(ctx context.Context, q *store.RunQuery) ([]domain.ValuationRun, int, error)
}

// RunsHandler lists recorded valuation runs.
type RunsHandler struct {
	store RunsProvider
}

// NewRunsHandler creates a new RunsHandler.
func NewRunsHandler(s RunsProvider) *RunsHandler {
	return &RunsHandler{store: s}
}

// ListRunsInput holds the query parameters for listing runs.
type ListRunsInput struct {
	Source string `query:"source" doc:"Filter by run source"`
	Since  string `query:"since"  doc:"Only runs started at or after this RFC 3339 time" example:"2026-01-01T00:00:00Z"`
	Limit  int    `query:"limit"  minimum:"0" maximum:"500" doc:"Maximum runs to return (default 50)"`
	Offset int    `query:"offset" minimum:"0" doc:"Pagination offset"`
}

// ListRunsOutput is the response body for listing runs.
type ListRunsOutput struct {
	Body struct {
		Runs   []domain.ValuationRun `json:"runs"`
		Total  int                   `json:"total"`
		Limit  int                   `json:"limit"`
		Offset int                   `json:"offset"`
	}
}

// List returns recorded runs, newest first.
func (h *RunsHandler) List(ctx context.Context, input *ListRunsInput) (*ListRunsOutput, error) {
	q := &store.RunQuery{Limit: input.Limit, Offset: input.Offset}
	if input.Source != "" {
		q.Source = &input.Source
	}
	if input.Since != "" {
		since, err := time.Parse(time.RFC3339, input.Since)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("since must be an RFC 3339 time", &huma.ErrorDetail{
				Message:  err.Error(),
				Location: "query.since",
				Value:    input.Since,
			})
		}
		q.Since = &since
	}

	runs, total, err := h.store.ListValuationRuns(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing runs failed: " + err.Error())
	}
	if runs == nil {
		runs = []domain.ValuationRun{}
	}

	out := &ListRunsOutput{}
	out.Body.Runs = runs
	out.Body.Total = total
	out.Body.Limit = input.Limit
	out.Body.Offset = input.Offset
	return out, nil
}

// RegisterRunRoutes registers the run history endpoint with the Huma API.
func RegisterRunRoutes(api huma.API, h *RunsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-runs",
		Method:      http.MethodGet,
		Path:        "/api/v1/runs",
		Summary:     "List valuation runs",
		Description: "Returns recorded batch and bulk runs with their summaries, newest first.",
		Tags:        []string{"runs"},
		Errors:      []int{http.StatusUnprocessableEntity, http.StatusInternalServerError},
	}, h.List)
}
