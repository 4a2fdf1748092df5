// Package model evaluates trained tree-ensemble price models.
package model

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/donaldgifford/resell-valuator/pkg/features"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// Backend names the training algorithm that produced the trees. It selects
// how per-tree outputs are combined.
type Backend string

// Supported backends.
const (
	BackendRandomForest     Backend = "random_forest"
	BackendGradientBoosting Backend = "gradient_boosting"
	BackendLightGBM         Backend = "lightgbm"
)

// Predictor maps feature vectors to a raw price.
type Predictor interface {
	Predict(v domain.FeatureVector) (float64, error)
	PredictBatch(vs []domain.FeatureVector) ([]float64, error)
	Info() Info
}

// Info describes a loaded model.
type Info struct {
	Backend      Backend              `json:"backend"`
	Schema       domain.SchemaVersion `json:"schema"`
	FeatureNames []string             `json:"feature_names"`
	Trees        int                  `json:"trees"`
	Source       string               `json:"source,omitempty"`
}

// Node is one node of a binary decision tree. A node is a leaf when Left is
// negative; otherwise samples with x[Feature] <= Threshold go left. Leaves
// must set "left": -1 explicitly, since an omitted left decodes as 0 and
// makes the node a split pointing back at the root.
type Node struct {
	Feature     int     `json:"feature"`
	Threshold   float64 `json:"threshold"`
	Left        int     `json:"left"`
	Right       int     `json:"right"`
	Value       float64 `json:"value"`
	DefaultLeft bool    `json:"default_left,omitempty"`
}

// Tree is a flattened decision tree rooted at Nodes[0].
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Artifact is the serialized model layout.
type Artifact struct {
	Backend      Backend              `json:"backend"`
	Schema       domain.SchemaVersion `json:"schema"`
	FeatureNames []string             `json:"feature_names"`
	BaseScore    float64              `json:"base_score"`
	LearningRate float64              `json:"learning_rate,omitempty"`
	Trees        []Tree               `json:"trees"`
}

// Ensemble evaluates an Artifact. It is immutable and safe for concurrent use.
type Ensemble struct {
	art    Artifact
	source string
}

// New validates art and returns an Ensemble for it.
func New(art Artifact) (*Ensemble, error) {
	if err := validate(&art); err != nil {
		return nil, err
	}
	return &Ensemble{art: art}, nil
}

func validate(art *Artifact) error {
	switch art.Backend {
	case BackendRandomForest, BackendLightGBM:
	case BackendGradientBoosting:
		if art.LearningRate <= 0 {
			return fmt.Errorf("gradient boosting model needs a positive learning_rate, got %v", art.LearningRate)
		}
	default:
		return fmt.Errorf("unsupported model backend %q", art.Backend)
	}

	cols, err := features.Columns(art.Schema)
	if err != nil {
		return err
	}
	if !slices.Equal(cols, art.FeatureNames) {
		return &domain.SchemaMismatchError{
			Expected: string(art.Schema),
			Actual:   fmt.Sprintf("%v", art.FeatureNames),
			Detail:   "model feature names differ from the schema columns",
		}
	}

	if len(art.Trees) == 0 {
		return errors.New("model has no trees")
	}

	var errs []error
	for i := range art.Trees {
		if err := validateTree(&art.Trees[i], len(cols)); err != nil {
			errs = append(errs, fmt.Errorf("tree %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// validateTree requires children to come after their parent, which rules out
// cycles and guarantees evaluation terminates.
func validateTree(t *Tree, width int) error {
	n := len(t.Nodes)
	if n == 0 {
		return errors.New("empty tree")
	}
	for i, node := range t.Nodes {
		if node.Left < 0 {
			continue
		}
		if node.Feature < 0 || node.Feature >= width {
			return fmt.Errorf("node %d splits on feature %d outside 0..%d", i, node.Feature, width-1)
		}
		if node.Left <= i || node.Left >= n || node.Right <= i || node.Right >= n {
			return fmt.Errorf(
				"node %d has invalid children %d/%d: children must follow their parent, leaves need a negative left",
				i, node.Left, node.Right,
			)
		}
	}
	return nil
}

// Info reports the model's metadata.
func (e *Ensemble) Info() Info {
	return Info{
		Backend:      e.art.Backend,
		Schema:       e.art.Schema,
		FeatureNames: slices.Clone(e.art.FeatureNames),
		Trees:        len(e.art.Trees),
		Source:       e.source,
	}
}

// Predict evaluates one vector. The vector must carry the model's schema.
func (e *Ensemble) Predict(v domain.FeatureVector) (float64, error) {
	if v.Schema != e.art.Schema || len(v.Values) != len(e.art.FeatureNames) {
		return 0, &domain.SchemaMismatchError{
			Expected: string(e.art.Schema),
			Actual:   string(v.Schema),
			Detail:   fmt.Sprintf("vector has %d values, model expects %d", len(v.Values), len(e.art.FeatureNames)),
		}
	}

	var sum float64
	for i := range e.art.Trees {
		sum += e.art.Trees[i].eval(v.Values)
	}

	switch e.art.Backend {
	case BackendRandomForest:
		return e.art.BaseScore + sum/float64(len(e.art.Trees)), nil
	case BackendGradientBoosting:
		return e.art.BaseScore + e.art.LearningRate*sum, nil
	default:
		return e.art.BaseScore + sum, nil
	}
}

// PredictBatch evaluates vs in order. It stops at the first failing vector.
func (e *Ensemble) PredictBatch(vs []domain.FeatureVector) ([]float64, error) {
	out := make([]float64, len(vs))
	for i, v := range vs {
		p, err := e.Predict(v)
		if err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

func (t *Tree) eval(x []float64) float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Left < 0 {
			return n.Value
		}
		v := x[n.Feature]
		switch {
		case math.IsNaN(v):
			if n.DefaultLeft {
				i = n.Left
			} else {
				i = n.Right
			}
		case v <= n.Threshold:
			i = n.Left
		default:
			i = n.Right
		}
	}
}
