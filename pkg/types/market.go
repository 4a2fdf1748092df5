package domain

// PriceStats summarizes the sale prices of a group of recorded sales.
// StdDev is the sample standard deviation and is 0 for a single sale.
type PriceStats struct {
	Count  int     `json:"count"`
	Avg    float64 `json:"avg_price"`
	Median float64 `json:"median_price"`
	Min    int64   `json:"min_price"`
	Max    int64   `json:"max_price"`
	StdDev float64 `json:"std_dev"`
}

// SegmentStats is PriceStats for one value of a market dimension.
type SegmentStats struct {
	Segment string `json:"segment"`
	PriceStats
}

// MarketSummary is the overall picture of the recorded sales.
type MarketSummary struct {
	PriceStats
	Brands           int      `json:"brands"`
	ReferenceBrands  int      `json:"reference_brands"`
	AvgAgeMonths     float64  `json:"avg_age_months"`
	AvgBatteryHealth float64  `json:"avg_battery_health"`
	Conditions       []string `json:"conditions"`
}

// BrandTrend is the sale price spread of one brand. MRP and RetentionPct are
// nil when no reference price is known.
type BrandTrend struct {
	Brand string `json:"brand"`
	PriceStats
	MRP          *int64   `json:"mrp,omitempty"`
	RetentionPct *float64 `json:"retention_pct,omitempty"`
}

// StorageTier is the average sale price of one storage size and its premium
// over the 64GB base.
type StorageTier struct {
	StorageGB int     `json:"storage_gb"`
	AvgPrice  float64 `json:"avg_price"`
	Count     int     `json:"count"`
	Premium   float64 `json:"premium"`
}

// StoragePremium lists the storage tiers above the 64GB base. Brand is empty
// for the market-wide view.
type StoragePremium struct {
	Brand    string        `json:"brand,omitempty"`
	BaseAvg  float64       `json:"base_avg_price"`
	BaseSize int           `json:"base_storage_gb"`
	Tiers    []StorageTier `json:"tiers"`
}

// BreakdownSegment is one bucket of a market breakdown. ImpactPct compares
// the bucket average with the overall average.
type BreakdownSegment struct {
	SegmentStats
	ImpactPct float64 `json:"impact_pct"`
}

// Breakdown splits the recorded sales along one dimension.
type Breakdown struct {
	Dimension  string             `json:"dimension"`
	OverallAvg float64            `json:"overall_avg_price"`
	Segments   []BreakdownSegment `json:"segments"`
}

// BrandRetention is the share of the new-device price a brand keeps on the
// used market.
type BrandRetention struct {
	Brand        string  `json:"brand"`
	AvgPrice     float64 `json:"avg_price"`
	MRP          int64   `json:"mrp"`
	RetentionPct float64 `json:"retention_pct"`
	Samples      int     `json:"samples"`
}
