package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/donaldgifford/resell-valuator/pkg/features"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// LoadFile reads a model from path. Both the native artifact layout and a
// LightGBM dump_model() document are accepted. Read, parse and structural
// failures are reported as *domain.ModelUnavailableError; a feature layout
// that matches no schema is a *domain.SchemaMismatchError.
func LoadFile(path string) (*Ensemble, error) {
	data, err := os.ReadFile(path) //nolint:gosec // artifact path from trusted config
	if err != nil {
		return nil, &domain.ModelUnavailableError{Path: path, Err: err}
	}

	e, err := Parse(data)
	if err != nil {
		var sme *domain.SchemaMismatchError
		if errors.As(err, &sme) {
			return nil, err
		}
		return nil, &domain.ModelUnavailableError{Path: path, Err: err}
	}
	e.source = path
	return e, nil
}

// Parse decodes a model document.
func Parse(data []byte) (*Ensemble, error) {
	var head struct {
		TreeInfo json.RawMessage `json:"tree_info"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}

	var art Artifact
	if head.TreeInfo != nil {
		a, err := fromLightGBM(data)
		if err != nil {
			return nil, err
		}
		art = a
	} else if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}

	if art.Schema == "" {
		schema, err := features.SchemaFor(art.FeatureNames)
		if err != nil {
			return nil, err
		}
		art.Schema = schema
	}
	return New(art)
}

// lgbDump is the subset of LightGBM's dump_model() output needed to evaluate
// a regression booster.
type lgbDump struct {
	NumClass     int       `json:"num_class"`
	FeatureNames []string  `json:"feature_names"`
	TreeInfo     []lgbTree `json:"tree_info"`
}

type lgbTree struct {
	TreeIndex int     `json:"tree_index"`
	Structure lgbNode `json:"tree_structure"`
}

type lgbNode struct {
	SplitFeature *int     `json:"split_feature"`
	Threshold    float64  `json:"threshold"`
	DecisionType string   `json:"decision_type"`
	DefaultLeft  bool     `json:"default_left"`
	LeafValue    float64  `json:"leaf_value"`
	LeftChild    *lgbNode `json:"left_child"`
	RightChild   *lgbNode `json:"right_child"`
}

func fromLightGBM(data []byte) (Artifact, error) {
	var dump lgbDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return Artifact{}, fmt.Errorf("decoding lightgbm dump: %w", err)
	}
	if dump.NumClass > 1 {
		return Artifact{}, fmt.Errorf("lightgbm dump has %d classes, want a regression model", dump.NumClass)
	}

	art := Artifact{
		Backend:      BackendLightGBM,
		FeatureNames: dump.FeatureNames,
		Trees:        make([]Tree, 0, len(dump.TreeInfo)),
	}
	for _, ti := range dump.TreeInfo {
		var t Tree
		if _, err := flatten(&t, &ti.Structure); err != nil {
			return Artifact{}, fmt.Errorf("lightgbm tree %d: %w", ti.TreeIndex, err)
		}
		art.Trees = append(art.Trees, t)
	}
	return art, nil
}

// flatten appends n and its subtree to t in pre-order and returns n's index.
func flatten(t *Tree, n *lgbNode) (int, error) {
	idx := len(t.Nodes)

	if n.SplitFeature == nil {
		t.Nodes = append(t.Nodes, Node{Left: -1, Right: -1, Value: n.LeafValue})
		return idx, nil
	}

	if n.DecisionType != "" && n.DecisionType != "<=" {
		return 0, fmt.Errorf("unsupported decision type %q", n.DecisionType)
	}
	if n.LeftChild == nil || n.RightChild == nil {
		return 0, errors.New("split node without two children")
	}

	t.Nodes = append(t.Nodes, Node{
		Feature:     *n.SplitFeature,
		Threshold:   n.Threshold,
		DefaultLeft: n.DefaultLeft,
	})

	left, err := flatten(t, n.LeftChild)
	if err != nil {
		return 0, err
	}
	right, err := flatten(t, n.RightChild)
	if err != nil {
		return 0, err
	}
	t.Nodes[idx].Left = left
	t.Nodes[idx].Right = right
	return idx, nil
}
