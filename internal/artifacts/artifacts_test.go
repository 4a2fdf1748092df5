package artifacts

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/resell-valuator/pkg/features"
	"github.com/donaldgifford/resell-valuator/pkg/model"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

const nativeModel = `{
  "backend": "random_forest",
  "schema": "basic",
  "feature_names": ["brand_encoded", "storage_gb", "condition_encoded", "age_months", "battery_health"],
  "base_score": 0,
  "trees": [{"nodes": [{"left": -1, "right": -1, "value": 42000}]}]
}`

const lightGBMModel = `{
  "num_class": 1,
  "feature_names": ["brand_encoded", "storage_gb", "condition_encoded", "age_months", "battery_health"],
  "tree_info": [{"tree_index": 0, "tree_structure": {"leaf_value": 51000}}]
}`

const basicEncoders = `schema: basic
fields:
  brand:
    Pixel 8: 0
    iPhone 15: 1
  condition:
    Excellent: 0
    Fair: 1
    Good: 2
    Like New: 3
`

const extendedEncoders = `schema: extended
fields:
  brand: {Pixel 8: 0}
  condition: {Good: 0}
  os: {Android 12: 0}
  color: {Black: 0}
  network: {5G: 0}
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	return dir
}

func TestLoad_NativeModel(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		ModelFile:    nativeModel,
		EncodersFile: basicEncoders,
	})

	b, err := Load(Paths{Dir: dir}, features.StandardDefaults(), quietLogger())
	require.NoError(t, err)

	assert.Equal(t, domain.SchemaBasic, b.Schema())
	info := b.Model.Info()
	assert.Equal(t, model.BackendRandomForest, info.Backend)
	assert.Equal(t, filepath.Join(dir, ModelFile), info.Source)
	assert.Equal(t, []string{"Pixel 8", "iPhone 15"}, b.Encoders.Labels("brand"))

	v, err := b.Builder.Build(domain.DeviceRecord{
		Brand: "iPhone 15", StorageGB: 128, Condition: "Good", AgeMonths: 3, BatteryHealth: 95,
	})
	require.NoError(t, err)
	price, err := b.Model.Predict(v)
	require.NoError(t, err)
	assert.InDelta(t, 42000, price, 1e-9)
}

func TestLoad_PrefersLightGBM(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		ModelFile:         nativeModel,
		LightGBMModelFile: lightGBMModel,
		EncodersFile:      basicEncoders,
	})

	b, err := Load(Paths{Dir: dir}, features.StandardDefaults(), quietLogger())
	require.NoError(t, err)
	assert.Equal(t, model.BackendLightGBM, b.Model.Info().Backend)
}

func TestLoad_ExplicitPaths(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"custom-model.json": nativeModel,
		"vocab.yaml":        basicEncoders,
	})

	b, err := Load(Paths{
		Model:    filepath.Join(dir, "custom-model.json"),
		Encoders: filepath.Join(dir, "vocab.yaml"),
	}, features.StandardDefaults(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.SchemaBasic, b.Schema())
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		files     map[string]string
		assertErr func(t *testing.T, err error)
	}{
		{
			name:  "no model",
			files: map[string]string{EncodersFile: basicEncoders},
			assertErr: func(t *testing.T, err error) {
				var mue *domain.ModelUnavailableError
				require.ErrorAs(t, err, &mue)
			},
		},
		{
			name:  "corrupt model",
			files: map[string]string{ModelFile: "{not json", EncodersFile: basicEncoders},
			assertErr: func(t *testing.T, err error) {
				var mue *domain.ModelUnavailableError
				require.ErrorAs(t, err, &mue)
			},
		},
		{
			name:  "missing encoders",
			files: map[string]string{ModelFile: nativeModel},
			assertErr: func(t *testing.T, err error) {
				require.ErrorContains(t, err, "loading encoders")
			},
		},
		{
			name:  "schema mismatch",
			files: map[string]string{ModelFile: nativeModel, EncodersFile: extendedEncoders},
			assertErr: func(t *testing.T, err error) {
				var sme *domain.SchemaMismatchError
				require.ErrorAs(t, err, &sme)
				assert.Equal(t, "basic", sme.Expected)
				assert.Equal(t, "extended", sme.Actual)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := writeFiles(t, tt.files)
			_, err := Load(Paths{Dir: dir}, features.StandardDefaults(), quietLogger())
			require.Error(t, err)
			tt.assertErr(t, err)
		})
	}
}
