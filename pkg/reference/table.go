package reference

import (
	"fmt"
	"os"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// DefaultDerivationFactor is the multiplier applied to the highest observed
// used price of a brand to estimate its new price.
const DefaultDerivationFactor = 1.20

type tableFile struct {
	References []domain.ReferencePriceEntry `yaml:"references"`
}

// LoadTable reads a precomputed reference table from a YAML file.
func LoadTable(path string) ([]domain.ReferencePriceEntry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // table path from trusted config
	if err != nil {
		return nil, fmt.Errorf("reading reference table: %w", err)
	}

	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing reference table: %w", err)
	}
	if len(f.References) == 0 {
		return nil, fmt.Errorf("reference table %s has no entries", path)
	}

	for i := range f.References {
		if f.References[i].Source == "" {
			f.References[i].Source = domain.ReferenceSourceTable
		}
	}
	return f.References, nil
}

// MarshalTable renders entries in the table layout LoadTable reads.
func MarshalTable(entries []domain.ReferencePriceEntry) ([]byte, error) {
	return yaml.Marshal(tableFile{References: entries})
}

// Derive estimates reference prices from historical sales: for each brand
// the MRP is the highest observed price times factor, rounded to the nearest
// unit, and the valid storage is the set of capacities seen in its sales.
// Sales with a non-positive price are ignored. Results are sorted by brand.
func Derive(sales []domain.SaleRecord, factor float64) ([]domain.ReferencePriceEntry, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("derivation factor must be positive, got %v", factor)
	}

	type agg struct {
		max     int64
		storage []int
	}
	byBrand := make(map[string]*agg)
	for i := range sales {
		s := &sales[i]
		if s.Brand == "" || s.Price <= 0 {
			continue
		}
		a, ok := byBrand[s.Brand]
		if !ok {
			a = &agg{}
			byBrand[s.Brand] = a
		}
		a.max = max(a.max, s.Price)
		if slices.Contains(domain.StorageOptions, s.StorageGB) && !slices.Contains(a.storage, s.StorageGB) {
			a.storage = append(a.storage, s.StorageGB)
		}
	}

	f := decimal.NewFromFloat(factor)
	out := make([]domain.ReferencePriceEntry, 0, len(byBrand))
	for brand, a := range byBrand {
		sort.Ints(a.storage)
		out = append(out, domain.ReferencePriceEntry{
			Brand:        brand,
			MRP:          decimal.NewFromInt(a.max).Mul(f).Round(0).IntPart(),
			ValidStorage: a.storage,
			Source:       domain.ReferenceSourceDerived,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Brand < out[j].Brand })
	return out, nil
}
