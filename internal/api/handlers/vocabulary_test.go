package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/resell-valuator/internal/api/handlers"
)

func TestVocabularyHandler_Get(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	handlers.RegisterVocabularyRoutes(api, handlers.NewVocabularyHandler(testEncoders(t), testReferences(t)))

	resp := api.Get("/api/v1/vocabulary")
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Schema         string              `json:"schema"`
		Labels         map[string][]string `json:"labels"`
		StorageOptions []int               `json:"storage_options"`
		DamageLevels   []string            `json:"damage_levels"`
		ValidStorage   map[string][]int    `json:"valid_storage"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))

	assert.Equal(t, "basic", body.Schema)
	assert.ElementsMatch(t, []string{"iPhone 15", "Pixel 8", "Samsung S23"}, body.Labels["brand"])
	assert.Len(t, body.Labels["condition"], 4)
	assert.Equal(t, []int{64, 128, 256, 512}, body.StorageOptions)
	assert.Equal(t, []string{"None", "Minor", "Moderate", "Significant"}, body.DamageLevels)
	assert.Equal(t, map[string][]int{"iPhone 15": {128, 256, 512}}, body.ValidStorage)
}

func TestModelHandler_Get(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	handlers.RegisterModelRoutes(api, handlers.NewModelHandler(testEngine(t)))

	resp := api.Get("/api/v1/model")
	require.Equal(t, http.StatusOK, resp.Code)

	var body handlers.ModelOutput
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body.Body))

	assert.Equal(t, "lightgbm", string(body.Body.Model.Backend))
	assert.Equal(t, 3, body.Body.Model.Trees)
	assert.Len(t, body.Body.Model.FeatureNames, 5)
	assert.InDelta(t, 0.15, body.Body.Pricing.Margin, 1e-12)
	assert.InDelta(t, 0.85, body.Body.Pricing.DamageMultipliers["Moderate"], 1e-12)
	assert.Equal(t, int64(10000), body.Body.Pricing.StorageBrackets["256"])
}
