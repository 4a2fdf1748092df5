// Package features turns a DeviceRecord into the ordered feature vector a
// trained model expects.
package features

import (
	"fmt"
	"math"
	"slices"

	"github.com/donaldgifford/resell-valuator/pkg/encoder"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// Column names, matching the training pipeline.
const (
	ColBrand                 = "brand_encoded"
	ColStorage               = "storage_gb"
	ColCondition             = "condition_encoded"
	ColAge                   = "age_months"
	ColBattery               = "battery_health"
	ColOS                    = "os_encoded"
	ColCameraCount           = "camera_count"
	ColScreenSize            = "screen_size"
	ColColor                 = "color_encoded"
	ColNetwork               = "network_encoded"
	ColSellerRating          = "seller_rating"
	ColTradeIn               = "trade_in_value"
	ColModelAgeFactor        = "model_age_factor"
	ColStorageCategory       = "storage_category"
	ColScreenSizeCategory    = "screen_size_category"
	ColOverallConditionScore = "overall_condition_score"
)

var basicColumns = []string{ColBrand, ColStorage, ColCondition, ColAge, ColBattery}

var extendedColumns = []string{
	ColBrand, ColStorage, ColCondition, ColAge, ColBattery,
	ColOS, ColCameraCount, ColScreenSize, ColColor, ColNetwork,
	ColSellerRating, ColTradeIn, ColModelAgeFactor, ColStorageCategory,
	ColScreenSizeCategory, ColOverallConditionScore,
}

// Columns returns the ordered column names of a schema.
func Columns(schema domain.SchemaVersion) ([]string, error) {
	switch schema {
	case domain.SchemaBasic:
		return slices.Clone(basicColumns), nil
	case domain.SchemaExtended:
		return slices.Clone(extendedColumns), nil
	default:
		return nil, unknownSchema(schema)
	}
}

// SchemaFor returns the schema whose columns equal names exactly.
func SchemaFor(names []string) (domain.SchemaVersion, error) {
	switch {
	case slices.Equal(names, basicColumns):
		return domain.SchemaBasic, nil
	case slices.Equal(names, extendedColumns):
		return domain.SchemaExtended, nil
	default:
		return "", &domain.SchemaMismatchError{
			Expected: "basic|extended",
			Actual:   fmt.Sprintf("%d columns", len(names)),
			Detail:   "feature names do not match a known schema",
		}
	}
}

func unknownSchema(schema domain.SchemaVersion) error {
	return &domain.SchemaMismatchError{
		Expected: "basic|extended",
		Actual:   string(schema),
		Detail:   "unknown feature schema",
	}
}

// Encoder resolves categorical labels to codes.
type Encoder interface {
	Encode(field, label string) (int, error)
}

// Builder assembles feature vectors for one schema.
type Builder struct {
	schema   domain.SchemaVersion
	enc      Encoder
	defaults Defaults
}

// BuilderOption configures the Builder.
type BuilderOption func(*Builder)

// WithDefaults overrides the fill values for missing optional attributes.
func WithDefaults(d Defaults) BuilderOption {
	return func(b *Builder) {
		b.defaults = d
	}
}

// NewBuilder creates a Builder for schema. It fails with a
// SchemaMismatchError when the schema is not recognized.
func NewBuilder(schema domain.SchemaVersion, enc Encoder, opts ...BuilderOption) (*Builder, error) {
	if _, err := Columns(schema); err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("features: nil encoder")
	}
	b := &Builder{schema: schema, enc: enc, defaults: StandardDefaults()}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Schema returns the schema the builder produces.
func (b *Builder) Schema() domain.SchemaVersion {
	return b.schema
}

// Defaults returns the fill values in use.
func (b *Builder) Defaults() Defaults {
	return b.defaults
}

// Build encodes rec into a feature vector. Encoding failures propagate as
// *domain.UnknownLabelError.
func (b *Builder) Build(rec domain.DeviceRecord) (domain.FeatureVector, error) {
	if err := rec.Validate(); err != nil {
		return domain.FeatureVector{}, err
	}

	brand, err := b.enc.Encode(encoder.FieldBrand, rec.Brand)
	if err != nil {
		return domain.FeatureVector{}, err
	}
	cond, err := b.enc.Encode(encoder.FieldCondition, rec.Condition)
	if err != nil {
		return domain.FeatureVector{}, err
	}

	base := []float64{
		float64(brand),
		float64(rec.StorageGB),
		float64(cond),
		float64(rec.AgeMonths),
		float64(rec.BatteryHealth),
	}

	switch b.schema {
	case domain.SchemaBasic:
		return domain.FeatureVector{Schema: b.schema, Values: base}, nil
	case domain.SchemaExtended:
		ext, err := b.extended(rec, cond)
		if err != nil {
			return domain.FeatureVector{}, err
		}
		return domain.FeatureVector{Schema: b.schema, Values: append(base, ext...)}, nil
	default:
		return domain.FeatureVector{}, unknownSchema(b.schema)
	}
}

func (b *Builder) extended(rec domain.DeviceRecord, condCode int) ([]float64, error) {
	d := b.defaults

	osCode, err := b.enc.Encode(encoder.FieldOS, deref(rec.OS, d.OS))
	if err != nil {
		return nil, err
	}
	colorCode, err := b.enc.Encode(encoder.FieldColor, deref(rec.Color, d.Color))
	if err != nil {
		return nil, err
	}
	netCode, err := b.enc.Encode(encoder.FieldNetwork, deref(rec.Network, d.Network))
	if err != nil {
		return nil, err
	}

	screen := deref(rec.ScreenSize, d.ScreenSize)
	seller := deref(rec.SellerRating, d.SellerRating)

	return []float64{
		float64(osCode),
		float64(deref(rec.CameraCount, d.CameraCount)),
		screen,
		float64(colorCode),
		float64(netCode),
		seller,
		deref(rec.TradeInValue, d.TradeInValue),
		float64(ModelAgeFactor(d.ReferenceYear, deref(rec.ReleaseYear, d.ReleaseYear))),
		float64(StorageBucket(rec.StorageGB)),
		float64(ScreenSizeBucket(screen)),
		ConditionScore(rec.BatteryHealth, condCode, seller),
	}, nil
}

// StorageBucket maps storage to 0..3 as min((gb-64)/64, 3), clamped at 0.
func StorageBucket(storageGB int) int {
	return clamp((storageGB-64)/64, 0, 3)
}

// ScreenSizeBucket maps a screen diagonal to one of three bands over
// [5.0, 6.9) inches, each 0.7 wide.
func ScreenSizeBucket(inches float64) int {
	return clamp(int(math.Floor((inches-5.0)/0.7)), 0, 2)
}

// ModelAgeFactor is the number of years between release and the reference year.
func ModelAgeFactor(referenceYear, releaseYear int) int {
	return referenceYear - releaseYear
}

// ConditionScore is the composite condition feature:
// battery*0.4 + conditionCode*25 + sellerRating*20.
func ConditionScore(batteryHealth, conditionCode int, sellerRating float64) float64 {
	return float64(batteryHealth)*0.4 + float64(conditionCode)*25 + sellerRating*20
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
