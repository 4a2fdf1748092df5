// Package domain defines the core business types for the resale valuator.
package domain

import (
	"slices"
	"time"
)

// SchemaVersion identifies the ordered feature layout a trained model expects.
type SchemaVersion string

// Known schema versions.
const (
	SchemaBasic    SchemaVersion = "basic"
	SchemaExtended SchemaVersion = "extended"
)

// Condition labels used by the training data.
const (
	ConditionFair      = "Fair"
	ConditionGood      = "Good"
	ConditionExcellent = "Excellent"
	ConditionLikeNew   = "Like New"
)

// DamageLevel represents cosmetic or functional damage severity.
type DamageLevel string

// Damage level constants.
const (
	DamageNone        DamageLevel = "None"
	DamageMinor       DamageLevel = "Minor"
	DamageModerate    DamageLevel = "Moderate"
	DamageSignificant DamageLevel = "Significant"
)

// DamageLevels lists damage levels from best to worst.
var DamageLevels = []DamageLevel{DamageNone, DamageMinor, DamageModerate, DamageSignificant}

// Valid reports whether d is a known damage level.
func (d DamageLevel) Valid() bool {
	return slices.Contains(DamageLevels, d)
}

// StorageOptions are the storage capacities (GB) a device record may carry.
var StorageOptions = []int{64, 128, 256, 512}

// DeviceRecord is one device to be valued. It is passed by value and never
// modified after construction.
type DeviceRecord struct {
	Brand         string      `json:"brand"                    yaml:"brand"`
	Model         string      `json:"model,omitempty"          yaml:"model,omitempty"`
	StorageGB     int         `json:"storage_gb"               yaml:"storage_gb"`
	Condition     string      `json:"condition"                yaml:"condition"`
	AgeMonths     int         `json:"age_months"               yaml:"age_months"`
	BatteryHealth int         `json:"battery_health"           yaml:"battery_health"`
	DamageLevel   DamageLevel `json:"damage_level,omitempty"   yaml:"damage_level,omitempty"`

	// Extended attributes, only consumed by the extended schema.
	OS           *string  `json:"os,omitempty"             yaml:"os,omitempty"`
	Color        *string  `json:"color,omitempty"          yaml:"color,omitempty"`
	Network      *string  `json:"network,omitempty"        yaml:"network,omitempty"`
	CameraCount  *int     `json:"camera_count,omitempty"   yaml:"camera_count,omitempty"`
	ScreenSize   *float64 `json:"screen_size,omitempty"    yaml:"screen_size,omitempty"`
	SellerRating *float64 `json:"seller_rating,omitempty"  yaml:"seller_rating,omitempty"`
	TradeInValue *float64 `json:"trade_in_value,omitempty" yaml:"trade_in_value,omitempty"`
	ReleaseYear  *int     `json:"release_year,omitempty"   yaml:"release_year,omitempty"`
}

// Damage returns the record's damage level, treating an empty value as None.
func (r *DeviceRecord) Damage() DamageLevel {
	if r.DamageLevel == "" {
		return DamageNone
	}
	return r.DamageLevel
}

// Validate checks the numeric ranges and enumerations that do not depend on
// a trained vocabulary. Categorical labels are checked by the encoder.
func (r *DeviceRecord) Validate() error {
	if r.Brand == "" {
		return &MissingFieldError{Field: "brand"}
	}
	if r.Condition == "" {
		return &MissingFieldError{Field: "condition"}
	}
	if !slices.Contains(StorageOptions, r.StorageGB) {
		return &InvalidFieldError{
			Field:  "storage_gb",
			Value:  itoa(r.StorageGB),
			Reason: "must be one of 64, 128, 256, 512",
		}
	}
	if r.AgeMonths < 0 {
		return &InvalidFieldError{Field: "age_months", Value: itoa(r.AgeMonths), Reason: "must be >= 0"}
	}
	if r.BatteryHealth < 0 || r.BatteryHealth > 100 {
		return &InvalidFieldError{
			Field:  "battery_health",
			Value:  itoa(r.BatteryHealth),
			Reason: "must be between 0 and 100",
		}
	}
	if !r.Damage().Valid() {
		return &InvalidFieldError{
			Field:  "damage_level",
			Value:  string(r.DamageLevel),
			Reason: "must be one of None, Minor, Moderate, Significant",
		}
	}
	return nil
}

// FeatureVector is the ordered numeric input of a trained model.
type FeatureVector struct {
	Schema SchemaVersion `json:"schema"`
	Values []float64     `json:"values"`
}

// PriceRange is the confidence band around an adjusted price.
type PriceRange struct {
	Low  int64 `json:"low"`
	High int64 `json:"high"`
}

// ValuationResult is the outcome of valuing one device.
type ValuationResult struct {
	Input            DeviceRecord  `json:"input"`
	Schema           SchemaVersion `json:"schema"`
	PredictedPrice   int64         `json:"predicted_price"`
	DamageMultiplier float64       `json:"damage_multiplier"`
	AdjustedPrice    int64         `json:"adjusted_price"`
	PriceRange       PriceRange    `json:"price_range"`

	// Reference fields are nil when no reference price is known for the brand.
	ReferenceMRP *int64 `json:"reference_mrp,omitempty"`
	AdjustedMRP  *int64 `json:"adjusted_mrp,omitempty"`
	Savings      *int64 `json:"savings,omitempty"`
	SavingsPct   *int   `json:"savings_pct,omitempty"`
	RetentionPct *int   `json:"retention_pct,omitempty"`

	// Deal is nil when deal rating is disabled.
	Deal *Deal `json:"deal,omitempty"`
}

// DealRating classifies a valuation against the device's reference price.
type DealRating string

// Deal ratings, best first.
const (
	DealGreat DealRating = "great_deal"
	DealGood  DealRating = "good_deal"
	DealFair  DealRating = "fair"
)

// Deal warnings.
const (
	WarningLowBattery = "low_battery"
	WarningAged       = "aged_device"
)

// Deal is the buyer-facing assessment of a valuation. Rating and HoldsValue
// are only set when a reference price is known.
type Deal struct {
	Rating     DealRating `json:"rating,omitempty"`
	HoldsValue bool       `json:"holds_value,omitempty"`
	Warnings   []string   `json:"warnings,omitempty"`
}

// ReferencePriceEntry is the new-device baseline for a brand.
type ReferencePriceEntry struct {
	Brand        string    `json:"brand"                yaml:"brand"`
	MRP          int64     `json:"mrp"                  yaml:"mrp"`
	ValidStorage []int     `json:"valid_storage"        yaml:"valid_storage"`
	Source       string    `json:"source,omitempty"     yaml:"source,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitzero"  yaml:"-"`
}

// Reference entry sources.
const (
	ReferenceSourceTable   = "table"
	ReferenceSourceDerived = "derived"
	ReferenceSourceManual  = "manual"
)

// SaleRecord is one historical labeled sale used for reference derivation.
type SaleRecord struct {
	DeviceRecord
	Price int64 `json:"price"`
}

// BatchOutcome is one slot of a batch valuation: exactly one of Result and
// Error is set.
type BatchOutcome struct {
	Index  int              `json:"index"`
	Line   int              `json:"line,omitempty"`
	Result *ValuationResult `json:"result,omitempty"`
	Error  *ValuationError  `json:"error,omitempty"`
}

// OK reports whether the slot was valued successfully.
func (o *BatchOutcome) OK() bool {
	return o.Error == nil && o.Result != nil
}

// BatchSummary aggregates a batch. Price statistics cover successes only.
type BatchSummary struct {
	Total       int            `json:"total"`
	Succeeded   int            `json:"succeeded"`
	Failed      int            `json:"failed"`
	FailedKinds map[string]int `json:"failed_kinds,omitempty"`
	MinPrice    int64          `json:"min_price"`
	MaxPrice    int64          `json:"max_price"`
	MeanPrice   float64        `json:"mean_price"`
	MedianPrice float64        `json:"median_price"`
}

// BatchReport is the full result of a batch valuation, in input order.
type BatchReport struct {
	Items   []BatchOutcome `json:"items"`
	Summary BatchSummary   `json:"summary"`
}

// ValuationRun records a completed batch for observability.
type ValuationRun struct {
	ID          string     `json:"id"                     db:"id"`
	Source      string     `json:"source"                 db:"source"`
	Total       int        `json:"total"                  db:"total"`
	Succeeded   int        `json:"succeeded"              db:"succeeded"`
	Failed      int        `json:"failed"                 db:"failed"`
	MinPrice    int64      `json:"min_price"              db:"min_price"`
	MaxPrice    int64      `json:"max_price"              db:"max_price"`
	MeanPrice   float64    `json:"mean_price"             db:"mean_price"`
	MedianPrice float64    `json:"median_price"           db:"median_price"`
	StartedAt   time.Time  `json:"started_at"             db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// Valuation run sources.
const (
	RunSourceAPI  = "api"
	RunSourceBulk = "bulk"
	RunSourceCLI  = "cli"
)

// NewValuationRun builds a run record from a batch summary.
func NewValuationRun(id, source string, started time.Time, s *BatchSummary) *ValuationRun {
	completed := time.Now()
	return &ValuationRun{
		ID:          id,
		Source:      source,
		Total:       s.Total,
		Succeeded:   s.Succeeded,
		Failed:      s.Failed,
		MinPrice:    s.MinPrice,
		MaxPrice:    s.MaxPrice,
		MeanPrice:   s.MeanPrice,
		MedianPrice: s.MedianPrice,
		StartedAt:   started,
		CompletedAt: &completed,
	}
}
