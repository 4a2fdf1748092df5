package handlers_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/resell-valuator/internal/engine"
	"github.com/donaldgifford/resell-valuator/pkg/encoder"
	"github.com/donaldgifford/resell-valuator/pkg/features"
	"github.com/donaldgifford/resell-valuator/pkg/logger"
	"github.com/donaldgifford/resell-valuator/pkg/model"
	"github.com/donaldgifford/resell-valuator/pkg/reference"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

func testEncoders(t *testing.T) *encoder.Registry {
	t.Helper()
	r, err := encoder.FromLabels(domain.SchemaBasic, map[string][]string{
		encoder.FieldBrand:     {"iPhone 15", "Pixel 8", "Samsung S23"},
		encoder.FieldCondition: {"Fair", "Good", "Excellent", "Like New"},
	})
	require.NoError(t, err)
	return r
}

// testModel prices iPhone 15 at 50000 and other brands at 40000, adds 10000
// above 192GB and takes 8000 off above 24 months.
func testModel(t *testing.T) *model.Ensemble {
	t.Helper()
	cols, err := features.Columns(domain.SchemaBasic)
	require.NoError(t, err)

	split := func(feature int, threshold, low, high float64) model.Tree {
		return model.Tree{Nodes: []model.Node{
			{Feature: feature, Threshold: threshold, Left: 1, Right: 2},
			{Left: -1, Right: -1, Value: low},
			{Left: -1, Right: -1, Value: high},
		}}
	}

	m, err := model.New(model.Artifact{
		Backend:      model.BackendLightGBM,
		Schema:       domain.SchemaBasic,
		FeatureNames: cols,
		Trees: []model.Tree{
			split(0, 1.5, 40000, 50000),
			split(1, 192, 0, 10000),
			split(3, 24, 0, -8000),
		},
	})
	require.NoError(t, err)
	return m
}

func testReferences(t *testing.T) *reference.MemoryStore {
	t.Helper()
	s, err := reference.NewMemoryStore([]domain.ReferencePriceEntry{
		{Brand: "iPhone 15", MRP: 80000, ValidStorage: []int{128, 256, 512}},
		{Brand: "Pixel 8", MRP: 70000},
	}, reference.WithLogger(logger.Discard()))
	require.NoError(t, err)
	return s
}

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	b, err := features.NewBuilder(domain.SchemaBasic, testEncoders(t))
	require.NoError(t, err)

	eng, err := engine.NewEngine(b, testModel(t),
		engine.WithLogger(logger.Discard()),
		engine.WithReferences(testReferences(t)),
	)
	require.NoError(t, err)
	return eng
}

func iphone() map[string]any {
	return map[string]any{
		"brand":          "iPhone 15",
		"storage_gb":     256,
		"condition":      "Excellent",
		"age_months":     12,
		"battery_health": 90,
	}
}
