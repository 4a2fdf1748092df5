// Package encoder holds the fitted label-to-code mappings for categorical
// device attributes. A Registry is built once from the encoder artifact and
// is read-only afterwards.
package encoder

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// Categorical field names.
const (
	FieldBrand     = "brand"
	FieldCondition = "condition"
	FieldOS        = "os"
	FieldColor     = "color"
	FieldNetwork   = "network"
)

// RequiredFields returns the categorical fields a schema encodes.
func RequiredFields(schema domain.SchemaVersion) ([]string, error) {
	switch schema {
	case domain.SchemaBasic:
		return []string{FieldBrand, FieldCondition}, nil
	case domain.SchemaExtended:
		return []string{FieldBrand, FieldCondition, FieldOS, FieldColor, FieldNetwork}, nil
	default:
		return nil, &domain.SchemaMismatchError{
			Expected: "basic|extended",
			Actual:   string(schema),
			Detail:   "unknown encoder schema",
		}
	}
}

type vocabulary struct {
	codes  map[string]int
	labels []string // index == code
}

// Registry maps labels to dense zero-based codes per field.
type Registry struct {
	schema domain.SchemaVersion
	fields map[string]*vocabulary
}

// New builds a Registry from explicit label→code maps. Codes must be dense
// and zero-based within each field, and every field the schema requires must
// be present.
func New(schema domain.SchemaVersion, fields map[string]map[string]int) (*Registry, error) {
	required, err := RequiredFields(schema)
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, f := range required {
		if _, ok := fields[f]; !ok {
			errs = append(errs, &domain.SchemaMismatchError{
				Expected: string(schema),
				Actual:   "incomplete",
				Detail:   fmt.Sprintf("encoder for field %q is missing", f),
			})
		}
	}

	r := &Registry{schema: schema, fields: make(map[string]*vocabulary, len(fields))}
	for name, m := range fields {
		v, err := newVocabulary(m)
		if err != nil {
			errs = append(errs, fmt.Errorf("field %s: %w", name, err))
			continue
		}
		r.fields[name] = v
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return r, nil
}

// FromLabels builds a Registry the way a label encoder is fitted: the sorted
// unique labels of each field receive codes 0..n-1.
func FromLabels(schema domain.SchemaVersion, labels map[string][]string) (*Registry, error) {
	fields := make(map[string]map[string]int, len(labels))
	for name, ls := range labels {
		uniq := slices.Clone(ls)
		sort.Strings(uniq)
		uniq = slices.Compact(uniq)

		m := make(map[string]int, len(uniq))
		for i, l := range uniq {
			m[l] = i
		}
		fields[name] = m
	}
	return New(schema, fields)
}

func newVocabulary(m map[string]int) (*vocabulary, error) {
	if len(m) == 0 {
		return nil, errors.New("empty vocabulary")
	}

	labels := make([]string, len(m))
	seen := make([]bool, len(m))
	for label, code := range m {
		if code < 0 || code >= len(m) {
			return nil, fmt.Errorf("code %d for %q is outside 0..%d", code, label, len(m)-1)
		}
		if seen[code] {
			return nil, fmt.Errorf("code %d is assigned more than once", code)
		}
		seen[code] = true
		labels[code] = label
	}

	return &vocabulary{codes: maps.Clone(m), labels: labels}, nil
}

// Schema returns the schema version the encoders were fitted for.
func (r *Registry) Schema() domain.SchemaVersion {
	return r.schema
}

// Encode returns the code for label in field.
func (r *Registry) Encode(field, label string) (int, error) {
	v, ok := r.fields[field]
	if !ok {
		return 0, &domain.UnknownLabelError{Field: field, Label: label}
	}
	code, ok := v.codes[label]
	if !ok {
		return 0, &domain.UnknownLabelError{Field: field, Label: label}
	}
	return code, nil
}

// Decode returns the label for code in field.
func (r *Registry) Decode(field string, code int) (string, error) {
	v, ok := r.fields[field]
	if !ok {
		return "", fmt.Errorf("no encoder for field %q", field)
	}
	if code < 0 || code >= len(v.labels) {
		return "", fmt.Errorf("code %d out of range for field %q", code, field)
	}
	return v.labels[code], nil
}

// Labels returns the known labels of field in code order.
func (r *Registry) Labels(field string) []string {
	v, ok := r.fields[field]
	if !ok {
		return nil
	}
	return slices.Clone(v.labels)
}

// Fields returns the encoded field names, sorted.
func (r *Registry) Fields() []string {
	return slices.Sorted(maps.Keys(r.fields))
}

// file is the on-disk encoder artifact layout.
type file struct {
	Schema domain.SchemaVersion      `yaml:"schema"`
	Fields map[string]map[string]int `yaml:"fields"`
}

// Load reads an encoder artifact from a YAML file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // artifact path from trusted config
	if err != nil {
		return nil, fmt.Errorf("reading encoder artifact: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing encoder artifact: %w", err)
	}

	r, err := New(f.Schema, f.Fields)
	if err != nil {
		return nil, fmt.Errorf("validating encoder artifact: %w", err)
	}
	return r, nil
}

// Marshal renders the registry in the artifact layout.
func (r *Registry) Marshal() ([]byte, error) {
	f := file{Schema: r.schema, Fields: make(map[string]map[string]int, len(r.fields))}
	for name, v := range r.fields {
		f.Fields[name] = maps.Clone(v.codes)
	}
	return yaml.Marshal(f)
}
