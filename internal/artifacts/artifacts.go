// Package artifacts loads the trained model and encoder registry a process
// serves with, and checks that they agree on a feature schema.
package artifacts

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/donaldgifford/resell-valuator/pkg/encoder"
	"github.com/donaldgifford/resell-valuator/pkg/features"
	"github.com/donaldgifford/resell-valuator/pkg/model"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// Default artifact file names inside the artifacts directory. The LightGBM
// dump takes precedence when both models are present.
const (
	LightGBMModelFile = "model_lgb.json"
	ModelFile         = "model.json"
	EncodersFile      = "encoders.yaml"
)

// Paths locates the artifacts. Empty Model and Encoders fields resolve
// inside Dir.
type Paths struct {
	Dir      string
	Model    string
	Encoders string
}

// Bundle is the loaded, mutually consistent artifact set.
type Bundle struct {
	Model    *model.Ensemble
	Encoders *encoder.Registry
	Builder  *features.Builder
}

// Schema returns the feature schema shared by the model and encoders.
func (b *Bundle) Schema() domain.SchemaVersion {
	return b.Builder.Schema()
}

// Load reads the model and encoders and builds the feature builder for
// their shared schema.
func Load(p Paths, defaults features.Defaults, log *slog.Logger) (*Bundle, error) {
	if log == nil {
		log = slog.Default()
	}

	modelPath, err := resolveModel(p)
	if err != nil {
		return nil, err
	}

	m, err := model.LoadFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}

	encPath := p.Encoders
	if encPath == "" {
		encPath = filepath.Join(p.Dir, EncodersFile)
	}
	enc, err := encoder.Load(encPath)
	if err != nil {
		return nil, fmt.Errorf("loading encoders: %w", err)
	}

	info := m.Info()
	if enc.Schema() != info.Schema {
		return nil, &domain.SchemaMismatchError{
			Expected: string(info.Schema),
			Actual:   string(enc.Schema()),
			Detail:   "encoder artifact schema differs from model schema",
		}
	}

	b, err := features.NewBuilder(info.Schema, enc, features.WithDefaults(defaults))
	if err != nil {
		return nil, fmt.Errorf("creating feature builder: %w", err)
	}

	log.Info("artifacts loaded",
		"model", modelPath,
		"backend", info.Backend,
		"schema", info.Schema,
		"trees", info.Trees,
		"encoders", encPath,
	)

	return &Bundle{Model: m, Encoders: enc, Builder: b}, nil
}

func resolveModel(p Paths) (string, error) {
	if p.Model != "" {
		return p.Model, nil
	}
	candidates := []string{
		filepath.Join(p.Dir, LightGBMModelFile),
		filepath.Join(p.Dir, ModelFile),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", &domain.ModelUnavailableError{Path: c, Err: err}
		}
	}
	return "", &domain.ModelUnavailableError{
		Path: p.Dir,
		Err:  fmt.Errorf("no %s or %s found", LightGBMModelFile, ModelFile),
	}
}
