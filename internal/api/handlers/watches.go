package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/donaldgifford/resell-valuator/internal/engine"
	"github.com/donaldgifford/resell-valuator/internal/store"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// WatchStore defines the store methods required by the watch handler.
type WatchStore interface {
	CreateWatch(ctx context.Context, w *domain.PriceWatch) error
	GetWatch(ctx context.Context, id string) (*domain.PriceWatch, error)
	ListWatches(ctx context.Context, enabledOnly bool) ([]domain.PriceWatch, error)
	UpdateWatch(ctx context.Context, w *domain.PriceWatch) error
	SetWatchEnabled(ctx context.Context, id string, enabled bool) error
	DeleteWatch(ctx context.Context, id string) error
	ListAlertsByWatch(ctx context.Context, watchID string, limit int) ([]domain.WatchAlert, error)
}

// WatchRunner checks every enabled watch and delivers the resulting alerts.
type WatchRunner interface {
	Run(ctx context.Context) (domain.WatchCheck, error)
}

// WatchDefaults fill the device fields a watch leaves unset.
type WatchDefaults struct {
	AgeMonths     int
	BatteryHealth int
}

// WatchHandler handles price watch CRUD operations.
type WatchHandler struct {
	store    WatchStore
	engine   *engine.Engine
	runner   WatchRunner
	defaults WatchDefaults
}

// NewWatchHandler creates a new WatchHandler. runner may be nil, in which
// case the on-demand check endpoint is not registered.
func NewWatchHandler(s WatchStore, eng *engine.Engine, runner WatchRunner, d WatchDefaults) *WatchHandler {
	return &WatchHandler{store: s, engine: eng, runner: runner, defaults: d}
}

// WatchBody is the editable part of a price watch.
type WatchBody struct {
	Name          string             `json:"name"                     minLength:"1" maxLength:"200" doc:"Display name" example:"Cheap iPhone"`
	Brand         string             `json:"brand"                    minLength:"1" doc:"Brand name" example:"iPhone 15"`
	StorageGB     int                `json:"storage_gb"               doc:"Storage in GB (64, 128, 256, 512)" example:"256"`
	Condition     string             `json:"condition"                minLength:"1" doc:"Condition label" example:"Excellent"`
	AgeMonths     *int               `json:"age_months,omitempty"     minimum:"0" doc:"Device age assumed for the valuation (default 12)"`
	BatteryHealth *int               `json:"battery_health,omitempty" minimum:"0" maximum:"100" doc:"Battery health assumed for the valuation (default 85)"`
	DamageLevel   domain.DamageLevel `json:"damage_level,omitempty"   doc:"None, Minor, Moderate or Significant"`
	TargetPrice   int64              `json:"target_price"             minimum:"1" doc:"Alert when the valuation is at or below this price" example:"50000"`
	Enabled       *bool              `json:"enabled,omitempty"        doc:"Whether scheduled checks include the watch (default true)"`
}

// WatchIDInput identifies a watch in the path.
type WatchIDInput struct {
	ID string `path:"id" doc:"Watch UUID"`
}

// ListWatchesInput holds the query parameters for listing watches.
type ListWatchesInput struct {
	Enabled bool `query:"enabled" doc:"Only enabled watches"`
}

// ListWatchesOutput is the response body for listing watches.
type ListWatchesOutput struct {
	Body []domain.PriceWatch
}

// WatchOutput is the response body for a single watch.
type WatchOutput struct {
	Body *domain.PriceWatch
}

// CreateWatchInput is the request body for creating a watch.
type CreateWatchInput struct {
	Body WatchBody
}

// UpdateWatchInput is the request for replacing a watch.
type UpdateWatchInput struct {
	ID   string `path:"id" doc:"Watch UUID"`
	Body WatchBody
}

// SetWatchEnabledInput is the request for enabling or disabling a watch.
type SetWatchEnabledInput struct {
	ID   string `path:"id" doc:"Watch UUID"`
	Body struct {
		Enabled bool `json:"enabled" doc:"Enabled status" example:"true"`
	}
}

// StatusOutput is a bare status acknowledgement.
type StatusOutput struct {
	Body struct {
		Status string `json:"status" example:"updated"`
	}
}

// ListWatchAlertsInput selects the alerts of one watch.
type ListWatchAlertsInput struct {
	ID    string `path:"id"     doc:"Watch UUID"`
	Limit int    `query:"limit" minimum:"0" maximum:"500" doc:"Maximum alerts to return (default 50)"`
}

// ListWatchAlertsOutput is the response body for a watch's alerts.
type ListWatchAlertsOutput struct {
	Body []domain.WatchAlert
}

// CheckWatchesOutput is the response body for an on-demand check.
type CheckWatchesOutput struct {
	Body domain.WatchCheck
}

// List returns all watches, optionally only enabled ones.
func (h *WatchHandler) List(ctx context.Context, input *ListWatchesInput) (*ListWatchesOutput, error) {
	watches, err := h.store.ListWatches(ctx, input.Enabled)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing watches: " + err.Error())
	}
	if watches == nil {
		watches = []domain.PriceWatch{}
	}
	return &ListWatchesOutput{Body: watches}, nil
}

// Get returns a single watch by ID.
func (h *WatchHandler) Get(ctx context.Context, input *WatchIDInput) (*WatchOutput, error) {
	if err := checkWatchID(input.ID); err != nil {
		return nil, err
	}
	w, err := h.store.GetWatch(ctx, input.ID)
	if err != nil {
		return nil, watchStoreError("getting watch", err)
	}
	return &WatchOutput{Body: w}, nil
}

// Create validates and stores a new watch.
func (h *WatchHandler) Create(ctx context.Context, input *CreateWatchInput) (*WatchOutput, error) {
	w, err := h.build(ctx, &input.Body)
	if err != nil {
		return nil, err
	}
	if err := h.store.CreateWatch(ctx, w); err != nil {
		return nil, watchStoreError("creating watch", err)
	}
	return &WatchOutput{Body: w}, nil
}

// Update replaces the editable fields of a watch and re-arms it.
func (h *WatchHandler) Update(ctx context.Context, input *UpdateWatchInput) (*WatchOutput, error) {
	if err := checkWatchID(input.ID); err != nil {
		return nil, err
	}
	w, err := h.build(ctx, &input.Body)
	if err != nil {
		return nil, err
	}
	w.ID = input.ID
	if err := h.store.UpdateWatch(ctx, w); err != nil {
		return nil, watchStoreError("updating watch", err)
	}
	return &WatchOutput{Body: w}, nil
}

// SetEnabled enables or disables a watch.
func (h *WatchHandler) SetEnabled(ctx context.Context, input *SetWatchEnabledInput) (*StatusOutput, error) {
	if err := checkWatchID(input.ID); err != nil {
		return nil, err
	}
	if err := h.store.SetWatchEnabled(ctx, input.ID, input.Body.Enabled); err != nil {
		return nil, watchStoreError("setting watch enabled", err)
	}
	out := &StatusOutput{}
	out.Body.Status = "updated"
	return out, nil
}

// Delete removes a watch and its alerts.
func (h *WatchHandler) Delete(ctx context.Context, input *WatchIDInput) (*struct{}, error) {
	if err := checkWatchID(input.ID); err != nil {
		return nil, err
	}
	if err := h.store.DeleteWatch(ctx, input.ID); err != nil {
		return nil, watchStoreError("deleting watch", err)
	}
	return nil, nil
}

// Alerts returns the latest alerts of one watch, newest first.
func (h *WatchHandler) Alerts(ctx context.Context, input *ListWatchAlertsInput) (*ListWatchAlertsOutput, error) {
	if err := checkWatchID(input.ID); err != nil {
		return nil, err
	}
	if _, err := h.store.GetWatch(ctx, input.ID); err != nil {
		return nil, watchStoreError("getting watch", err)
	}

	alerts, err := h.store.ListAlertsByWatch(ctx, input.ID, input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing alerts: " + err.Error())
	}
	if alerts == nil {
		alerts = []domain.WatchAlert{}
	}
	return &ListWatchAlertsOutput{Body: alerts}, nil
}

// Check values every enabled watch now and delivers the alerts.
func (h *WatchHandler) Check(ctx context.Context, _ *struct{}) (*CheckWatchesOutput, error) {
	res, err := h.runner.Run(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("checking watches: " + err.Error())
	}
	return &CheckWatchesOutput{Body: res}, nil
}

// build turns a request body into a watch, filling defaults, and rejects
// devices the model cannot value.
func (h *WatchHandler) build(ctx context.Context, b *WatchBody) (*domain.PriceWatch, error) {
	w := &domain.PriceWatch{
		Name:          b.Name,
		Brand:         b.Brand,
		StorageGB:     b.StorageGB,
		Condition:     b.Condition,
		AgeMonths:     h.defaults.AgeMonths,
		BatteryHealth: h.defaults.BatteryHealth,
		DamageLevel:   b.DamageLevel,
		TargetPrice:   b.TargetPrice,
		Enabled:       true,
	}
	if b.AgeMonths != nil {
		w.AgeMonths = *b.AgeMonths
	}
	if b.BatteryHealth != nil {
		w.BatteryHealth = *b.BatteryHealth
	}
	if b.Enabled != nil {
		w.Enabled = *b.Enabled
	}
	if w.DamageLevel == "" {
		w.DamageLevel = domain.DamageNone
	}

	if _, err := h.engine.Valuate(ctx, w.Record()); err != nil {
		return nil, valuationError(err)
	}
	return w, nil
}

func checkWatchID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return huma.Error404NotFound("watch not found")
	}
	return nil
}

func watchStoreError(op string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return huma.Error404NotFound("watch not found")
	case errors.Is(err, store.ErrConflict):
		return huma.Error409Conflict("a watch already exists for this brand, storage and condition")
	default:
		return huma.Error500InternalServerError(op + ": " + err.Error())
	}
}

// RegisterWatchRoutes registers price watch endpoints with the Huma API.
func RegisterWatchRoutes(api huma.API, h *WatchHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-watches",
		Method:      http.MethodGet,
		Path:        "/api/v1/watches",
		Summary:     "List price watches",
		Tags:        []string{"watches"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "get-watch",
		Method:      http.MethodGet,
		Path:        "/api/v1/watches/{id}",
		Summary:     "Get a price watch",
		Tags:        []string{"watches"},
		Errors:      []int{http.StatusNotFound},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID:   "create-watch",
		Method:        http.MethodPost,
		Path:          "/api/v1/watches",
		Summary:       "Create a price watch",
		Description:   "Watches one device configuration and alerts when its valuation drops to or below the target price.",
		Tags:          []string{"watches"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusConflict, http.StatusUnprocessableEntity, http.StatusInternalServerError},
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "update-watch",
		Method:      http.MethodPut,
		Path:        "/api/v1/watches/{id}",
		Summary:     "Update a price watch",
		Description: "Replaces the watch configuration. The watch is re-armed and alerts again on its next crossing.",
		Tags:        []string{"watches"},
		Errors: []int{
			http.StatusNotFound, http.StatusConflict,
			http.StatusUnprocessableEntity, http.StatusInternalServerError,
		},
	}, h.Update)

	huma.Register(api, huma.Operation{
		OperationID: "set-watch-enabled",
		Method:      http.MethodPut,
		Path:        "/api/v1/watches/{id}/enabled",
		Summary:     "Enable or disable a price watch",
		Tags:        []string{"watches"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.SetEnabled)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-watch",
		Method:        http.MethodDelete,
		Path:          "/api/v1/watches/{id}",
		Summary:       "Delete a price watch",
		Tags:          []string{"watches"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.Delete)

	huma.Register(api, huma.Operation{
		OperationID: "list-watch-alerts",
		Method:      http.MethodGet,
		Path:        "/api/v1/watches/{id}/alerts",
		Summary:     "List the alerts of a price watch",
		Tags:        []string{"watches"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.Alerts)

	if h.runner == nil {
		return
	}

	huma.Register(api, huma.Operation{
		OperationID: "check-watches",
		Method:      http.MethodPost,
		Path:        "/api/v1/watches/check",
		Summary:     "Check price watches now",
		Description: "Values every enabled watch, records alerts for new crossings and sends pending notifications.",
		Tags:        []string{"watches"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.Check)
}
