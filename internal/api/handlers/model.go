package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/resell-valuator/internal/engine"
	"github.com/donaldgifford/resell-valuator/pkg/model"
)

// ModelHandler describes the active model and pricing constants.
type ModelHandler struct {
	engine *engine.Engine
}

// NewModelHandler creates a new ModelHandler.
func NewModelHandler(eng *engine.Engine) *ModelHandler {
	return &ModelHandler{engine: eng}
}

// PricingInfo is the wire form of the adjustment constants.
type PricingInfo struct {
	Margin            float64            `json:"margin"`
	DamageMultipliers map[string]float64 `json:"damage_multipliers"`
	StorageBrackets   map[string]int64   `json:"storage_brackets,omitempty"`
	StoragePerGB      int64              `json:"storage_per_gb,omitempty"`
}

// ModelOutput is the response body for the model endpoint.
type ModelOutput struct {
	Body struct {
		Model   model.Info  `json:"model"`
		Pricing PricingInfo `json:"pricing"`
	}
}

// Get returns the active model description.
func (h *ModelHandler) Get(_ context.Context, _ *struct{}) (*ModelOutput, error) {
	p := h.engine.Pricing()

	info := PricingInfo{
		Margin:            p.Margin,
		DamageMultipliers: make(map[string]float64, len(p.DamageMultipliers)),
		StoragePerGB:      p.StoragePremium.PerGB,
	}
	for level, m := range p.DamageMultipliers {
		info.DamageMultipliers[string(level)] = m
	}
	if len(p.StoragePremium.Brackets) > 0 {
		info.StorageBrackets = make(map[string]int64, len(p.StoragePremium.Brackets))
		for gb, premium := range p.StoragePremium.Brackets {
			info.StorageBrackets[strconv.Itoa(gb)] = premium
		}
	}

	out := &ModelOutput{}
	out.Body.Model = h.engine.ModelInfo()
	out.Body.Pricing = info
	return out, nil
}

// RegisterModelRoutes registers the model endpoint with the Huma API.
func RegisterModelRoutes(api huma.API, h *ModelHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-model",
		Method:      http.MethodGet,
		Path:        "/api/v1/model",
		Summary:     "Active model",
		Description: "Returns the backend, feature schema and tree count of the loaded model with the pricing constants in use.",
		Tags:        []string{"model"},
	}, h.Get)
}
