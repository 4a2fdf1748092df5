package engine

import (
	"errors"
	"fmt"

	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// DealThresholds rate a valuation from its savings against the reference
// price and flag devices a buyer should inspect. The zero value disables
// rating.
type DealThresholds struct {
	GreatSavingsPct  int // savings above this are a great deal
	GoodSavingsPct   int // savings at or above this are a good deal
	HighRetentionPct int // retention above this holds value
	BatteryWarning   int // battery health below this is flagged
	AgeWarningMonths int // age above this is flagged
}

// DefaultDealThresholds returns the standard cutoffs.
func DefaultDealThresholds() DealThresholds {
	return DealThresholds{
		GreatSavingsPct:  50,
		GoodSavingsPct:   30,
		HighRetentionPct: 70,
		BatteryWarning:   80,
		AgeWarningMonths: 24,
	}
}

// Enabled reports whether any threshold is set.
func (d DealThresholds) Enabled() bool {
	return d != DealThresholds{}
}

// Validate checks that percentages lie in [0, 100] and the good cutoff does
// not exceed the great one.
func (d DealThresholds) Validate() error {
	var errs []error
	for name, v := range map[string]int{
		"great_savings_pct":  d.GreatSavingsPct,
		"good_savings_pct":   d.GoodSavingsPct,
		"high_retention_pct": d.HighRetentionPct,
		"battery_warning":    d.BatteryWarning,
	} {
		if v < 0 || v > 100 {
			errs = append(errs, fmt.Errorf("deal threshold %s must be in [0, 100], got %d", name, v))
		}
	}
	if d.GoodSavingsPct > d.GreatSavingsPct {
		errs = append(errs, fmt.Errorf(
			"deal threshold good_savings_pct (%d) exceeds great_savings_pct (%d)",
			d.GoodSavingsPct, d.GreatSavingsPct,
		))
	}
	if d.AgeWarningMonths < 0 {
		errs = append(errs, errors.New("deal threshold age_warning_months must be >= 0"))
	}
	return errors.Join(errs...)
}

// Rate assesses res. It returns nil when the thresholds are disabled.
func (d DealThresholds) Rate(res *domain.ValuationResult) *domain.Deal {
	if !d.Enabled() {
		return nil
	}

	deal := &domain.Deal{}
	if res.SavingsPct != nil && res.RetentionPct != nil {
		switch savings := *res.SavingsPct; {
		case savings > d.GreatSavingsPct:
			deal.Rating = domain.DealGreat
		case savings >= d.GoodSavingsPct:
			deal.Rating = domain.DealGood
		default:
			deal.Rating = domain.DealFair
		}
		deal.HoldsValue = *res.RetentionPct > d.HighRetentionPct
	}

	if d.BatteryWarning > 0 && res.Input.BatteryHealth < d.BatteryWarning {
		deal.Warnings = append(deal.Warnings, domain.WarningLowBattery)
	}
	if d.AgeWarningMonths > 0 && res.Input.AgeMonths > d.AgeWarningMonths {
		deal.Warnings = append(deal.Warnings, domain.WarningAged)
	}
	return deal
}
