package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// Vocabulary exposes the categorical labels a model was trained on.
type Vocabulary interface {
	Schema() domain.SchemaVersion
	Fields() []string
	Labels(field string) []string
}

// StorageCatalog resolves the storage options sold per brand.
type StorageCatalog interface {
	List() []domain.ReferencePriceEntry
}

// VocabularyHandler serves the input vocabulary for form building and
// client-side validation.
type VocabularyHandler struct {
	vocab   Vocabulary
	catalog StorageCatalog
}

// NewVocabularyHandler creates a new VocabularyHandler.
func NewVocabularyHandler(v Vocabulary, c StorageCatalog) *VocabularyHandler {
	return &VocabularyHandler{vocab: v, catalog: c}
}

// VocabularyOutput is the response body for the vocabulary endpoint.
type VocabularyOutput struct {
	Body struct {
		Schema         domain.SchemaVersion `json:"schema"          doc:"Feature schema of the active model"`
		Labels         map[string][]string  `json:"labels"          doc:"Known labels per categorical field"`
		StorageOptions []int                `json:"storage_options" doc:"Accepted storage capacities (GB)"`
		DamageLevels   []domain.DamageLevel `json:"damage_levels"   doc:"Accepted damage levels, best first"`
		ValidStorage   map[string][]int     `json:"valid_storage"   doc:"Storage options sold per brand, where known"`
	}
}

// Get returns the vocabulary.
func (h *VocabularyHandler) Get(_ context.Context, _ *struct{}) (*VocabularyOutput, error) {
	out := &VocabularyOutput{}
	out.Body.Schema = h.vocab.Schema()
	out.Body.StorageOptions = domain.StorageOptions
	out.Body.DamageLevels = domain.DamageLevels

	out.Body.Labels = make(map[string][]string)
	for _, f := range h.vocab.Fields() {
		out.Body.Labels[f] = h.vocab.Labels(f)
	}

	out.Body.ValidStorage = make(map[string][]int)
	if h.catalog != nil {
		for _, e := range h.catalog.List() {
			if len(e.ValidStorage) > 0 {
				out.Body.ValidStorage[e.Brand] = e.ValidStorage
			}
		}
	}
	return out, nil
}

// RegisterVocabularyRoutes registers the vocabulary endpoint with the Huma API.
func RegisterVocabularyRoutes(api huma.API, h *VocabularyHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-vocabulary",
		Method:      http.MethodGet,
		Path:        "/api/v1/vocabulary",
		Summary:     "Input vocabulary",
		Description: "Returns the categorical labels, storage options and damage levels the active model accepts.",
		Tags:        []string{"model"},
	}, h.Get)
}
