package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// ReferenceStore is the live reference price table.
type ReferenceStore interface {
	List() []domain.ReferencePriceEntry
	Lookup(brand string) (domain.ReferencePriceEntry, bool)
	Upsert(ctx context.Context, e domain.ReferencePriceEntry) (domain.ReferencePriceEntry, error)
}

// Refresher re-derives reference prices from recorded sales.
type Refresher interface {
	Run(ctx context.Context) (int, error)
}

// ReferenceHandler handles reference price requests.
type ReferenceHandler struct {
	store     ReferenceStore
	refresher Refresher
}

// NewReferenceHandler creates a new ReferenceHandler. refresher may be nil,
// in which case the refresh endpoint is not registered.
func NewReferenceHandler(s ReferenceStore, refresher Refresher) *ReferenceHandler {
	return &ReferenceHandler{store: s, refresher: refresher}
}

// ListReferencesOutput is the response body for listing reference prices.
type ListReferencesOutput struct {
	Body []domain.ReferencePriceEntry
}

// ReferenceBrandInput identifies a brand in the path.
type ReferenceBrandInput struct {
	Brand string `path:"brand" doc:"Brand name" example:"iPhone 15"`
}

// ReferenceOutput is the response body for a single reference price.
type ReferenceOutput struct {
	Body domain.ReferencePriceEntry
}

// SetReferenceInput is the request for creating or replacing a reference price.
type SetReferenceInput struct {
	Brand string `path:"brand" doc:"Brand name" example:"iPhone 15"`
	Body  struct {
		MRP          int64 `json:"mrp"                     minimum:"1" doc:"New-device price in whole currency units" example:"79900"`
		ValidStorage []int `json:"valid_storage,omitempty" doc:"Storage options sold for this brand (GB)"`
	}
}

// RefreshReferencesOutput is the response body for a reference refresh.
type RefreshReferencesOutput struct {
	Body struct {
		Updated int    `json:"updated"         doc:"Number of reference prices updated"`
		Error   string `json:"error,omitempty" doc:"Failures of a partially applied refresh"`
	}
}

// List returns every reference price, sorted by brand.
func (h *ReferenceHandler) List(_ context.Context, _ *struct{}) (*ListReferencesOutput, error) {
	entries := h.store.List()
	if entries == nil {
		entries = []domain.ReferencePriceEntry{}
	}
	return &ListReferencesOutput{Body: entries}, nil
}

// Get returns the reference price for one brand.
func (h *ReferenceHandler) Get(_ context.Context, input *ReferenceBrandInput) (*ReferenceOutput, error) {
	brand := unescapeBrand(input.Brand)
	e, ok := h.store.Lookup(brand)
	if !ok {
		return nil, huma.Error404NotFound("no reference price for " + brand)
	}
	return &ReferenceOutput{Body: e}, nil
}

// Set creates or replaces the reference price for one brand.
func (h *ReferenceHandler) Set(ctx context.Context, input *SetReferenceInput) (*ReferenceOutput, error) {
	e, err := h.store.Upsert(ctx, domain.ReferencePriceEntry{
		Brand:        unescapeBrand(input.Brand),
		MRP:          input.Body.MRP,
		ValidStorage: input.Body.ValidStorage,
		Source:       domain.ReferenceSourceManual,
	})
	if err != nil {
		return nil, valuationError(err)
	}
	return &ReferenceOutput{Body: e}, nil
}

// Refresh re-derives reference prices from recorded sales now.
func (h *ReferenceHandler) Refresh(ctx context.Context, _ *struct{}) (*RefreshReferencesOutput, error) {
	n, err := h.refresher.Run(ctx)
	if err != nil && n == 0 {
		return nil, huma.Error500InternalServerError("refreshing reference prices failed: " + err.Error())
	}

	out := &RefreshReferencesOutput{}
	out.Body.Updated = n
	if err != nil {
		out.Body.Error = err.Error()
	}
	return out, nil
}

func unescapeBrand(raw string) string {
	if s, err := url.PathUnescape(raw); err == nil {
		return s
	}
	return raw
}

// RegisterReferenceRoutes registers reference price endpoints with the Huma API.
func RegisterReferenceRoutes(api huma.API, h *ReferenceHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-references",
		Method:      http.MethodGet,
		Path:        "/api/v1/references",
		Summary:     "List reference prices",
		Description: "Returns the new-device reference price of every known brand.",
		Tags:        []string{"references"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "get-reference",
		Method:      http.MethodGet,
		Path:        "/api/v1/references/{brand}",
		Summary:     "Get a reference price",
		Tags:        []string{"references"},
		Errors:      []int{http.StatusNotFound},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "set-reference",
		Method:      http.MethodPut,
		Path:        "/api/v1/references/{brand}",
		Summary:     "Set a reference price",
		Description: "Creates or replaces the reference price for a brand. Valuations in flight keep the value they read.",
		Tags:        []string{"references"},
		Errors:      []int{http.StatusUnprocessableEntity, http.StatusInternalServerError},
	}, h.Set)

	if h.refresher == nil {
		return
	}

	huma.Register(api, huma.Operation{
		OperationID: "refresh-references",
		Method:      http.MethodPost,
		Path:        "/api/v1/references/refresh",
		Summary:     "Refresh reference prices from sales",
		Description: "Re-derives reference prices from the recorded sales and applies them.",
		Tags:        []string{"references"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.Refresh)
}
