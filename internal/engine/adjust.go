package engine

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// DefaultMargin is the relative half-width of the price range.
const DefaultMargin = 0.15

// baselineStorageGB is the capacity that carries no storage premium.
const baselineStorageGB = 64

// Pricing holds the post-prediction adjustment constants.
type Pricing struct {
	Margin            float64
	DamageMultipliers map[domain.DamageLevel]float64
	StoragePremium    StoragePremium
	Deals             DealThresholds
}

// StoragePremium adds to a reference MRP for capacity above the 64GB
// baseline. Brackets maps a capacity to its flat premium; the highest bracket
// not above the device's capacity applies. When Brackets is empty, PerGB is
// charged for every GB above the baseline.
type StoragePremium struct {
	Brackets map[int]int64
	PerGB    int64
}

// DefaultPricing returns the standard adjustment constants.
func DefaultPricing() Pricing {
	return Pricing{
		Margin: DefaultMargin,
		DamageMultipliers: map[domain.DamageLevel]float64{
			domain.DamageNone:        1.00,
			domain.DamageMinor:       0.95,
			domain.DamageModerate:    0.85,
			domain.DamageSignificant: 0.70,
		},
		StoragePremium: StoragePremium{
			Brackets: map[int]int64{128: 5000, 256: 10000, 512: 18000},
		},
		Deals: DefaultDealThresholds(),
	}
}

// Validate checks that multipliers exist for every damage level, lie in
// (0, 1] and never increase with severity.
func (p *Pricing) Validate() error {
	var errs []error

	if err := validateMargin(p.Margin); err != nil {
		errs = append(errs, err)
	}

	prev := 1.0
	for _, level := range domain.DamageLevels {
		m, ok := p.DamageMultipliers[level]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("damage multiplier for %s is missing", level))
		case m <= 0 || m > 1:
			errs = append(errs, fmt.Errorf("damage multiplier for %s must be in (0, 1], got %v", level, m))
		case m > prev:
			errs = append(errs, fmt.Errorf("damage multiplier for %s (%v) exceeds the previous level (%v)", level, m, prev))
		}
		if ok {
			prev = m
		}
	}

	if p.StoragePremium.PerGB < 0 {
		errs = append(errs, errors.New("storage premium per_gb must be >= 0"))
	}
	for gb, amount := range p.StoragePremium.Brackets {
		if amount < 0 {
			errs = append(errs, fmt.Errorf("storage premium for %dGB must be >= 0", gb))
		}
	}
	if err := p.Deals.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func validateMargin(m float64) error {
	if m < 0 || m >= 1 {
		return &domain.InvalidFieldError{Field: "margin", Value: fmt.Sprint(m), Reason: "must be in [0, 1)"}
	}
	return nil
}

// DamageMultiplier returns the discount factor for level.
func (p *Pricing) DamageMultiplier(level domain.DamageLevel) float64 {
	if m, ok := p.DamageMultipliers[level]; ok {
		return m
	}
	return 1
}

// For returns the premium for a device of storageGB capacity.
func (sp StoragePremium) For(storageGB int) int64 {
	if storageGB <= baselineStorageGB {
		return 0
	}
	if len(sp.Brackets) == 0 {
		return int64(storageGB-baselineStorageGB) * sp.PerGB
	}

	var premium int64
	for _, gb := range slices.Sorted(maps.Keys(sp.Brackets)) {
		if gb > storageGB {
			break
		}
		premium = sp.Brackets[gb]
	}
	return premium
}

// PriceRange returns [adjusted*(1-margin), adjusted*(1+margin)], each bound
// truncated toward zero.
func PriceRange(adjusted int64, margin float64) domain.PriceRange {
	a := decimal.NewFromInt(adjusted)
	m := decimal.NewFromFloat(margin)
	one := decimal.NewFromInt(1)
	return domain.PriceRange{
		Low:  a.Mul(one.Sub(m)).IntPart(),
		High: a.Mul(one.Add(m)).IntPart(),
	}
}

// MarginFromConfidence converts a confidence level to a range margin: the
// band keeps (1-confidence) of the price outside it, split evenly.
func MarginFromConfidence(confidence float64) float64 {
	return decimal.NewFromInt(1).
		Sub(decimal.NewFromFloat(confidence)).
		Div(decimal.NewFromInt(2)).
		InexactFloat64()
}

// applyReference fills the reference fields of res. Savings fields stay nil
// when the storage-adjusted MRP is not positive.
func applyReference(res *domain.ValuationResult, mrp, premium int64) {
	adjMRP := mrp + premium
	res.ReferenceMRP = &mrp
	res.AdjustedMRP = &adjMRP
	if adjMRP <= 0 {
		return
	}

	savings := adjMRP - res.AdjustedPrice
	pct := int(decimal.NewFromInt(savings * 100).
		Div(decimal.NewFromInt(adjMRP)).
		Round(0).
		IntPart())
	retention := 100 - pct

	res.Savings = &savings
	res.SavingsPct = &pct
	res.RetentionPct = &retention
}
