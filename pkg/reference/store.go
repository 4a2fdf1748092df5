// Package reference holds new-device reference prices (MRP) per brand.
package reference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// Persister durably records reference price changes.
type Persister interface {
	UpsertReferencePrice(ctx context.Context, e *domain.ReferencePriceEntry) error
}

// MemoryStore is the in-process reference price lookup. Reads are lock-free
// with respect to each other; Upsert is the only mutation.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]domain.ReferencePriceEntry

	log       *slog.Logger
	persister Persister
	onUpsert  func(domain.ReferencePriceEntry)
	now       func() time.Time
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithLogger sets the logger for the store.
func WithLogger(l *slog.Logger) Option {
	return func(s *MemoryStore) {
		s.log = l
	}
}

// WithPersister makes every Upsert write through to p before it becomes
// visible to readers.
func WithPersister(p Persister) Option {
	return func(s *MemoryStore) {
		s.persister = p
	}
}

// WithUpsertHook registers fn to be called after each successful Upsert.
func WithUpsertHook(fn func(domain.ReferencePriceEntry)) Option {
	return func(s *MemoryStore) {
		s.onUpsert = fn
	}
}

// WithClock overrides the time source used to stamp entries.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore creates a store seeded with entries. Invalid or duplicate
// entries are rejected.
func NewMemoryStore(entries []domain.ReferencePriceEntry, opts ...Option) (*MemoryStore, error) {
	s := &MemoryStore{
		entries: make(map[string]domain.ReferencePriceEntry, len(entries)),
		log:     slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	var errs []error
	for i := range entries {
		e := normalize(entries[i])
		if err := Validate(&e); err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		if _, dup := s.entries[e.Brand]; dup {
			errs = append(errs, fmt.Errorf("entry %d: duplicate brand %q", i, e.Brand))
			continue
		}
		s.entries[e.Brand] = e
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks an entry for the invariants every stored entry holds.
func Validate(e *domain.ReferencePriceEntry) error {
	if strings.TrimSpace(e.Brand) == "" {
		return &domain.MissingFieldError{Field: "brand"}
	}
	if e.MRP <= 0 {
		return &domain.InvalidFieldError{Field: "mrp", Value: fmt.Sprint(e.MRP), Reason: "must be positive"}
	}
	for _, gb := range e.ValidStorage {
		if !slices.Contains(domain.StorageOptions, gb) {
			return &domain.InvalidFieldError{
				Field:  "valid_storage",
				Value:  fmt.Sprint(gb),
				Reason: "must be one of 64, 128, 256, 512",
			}
		}
	}
	return nil
}

func normalize(e domain.ReferencePriceEntry) domain.ReferencePriceEntry {
	e.Brand = strings.TrimSpace(e.Brand)
	e.ValidStorage = slices.Clone(e.ValidStorage)
	sort.Ints(e.ValidStorage)
	e.ValidStorage = slices.Compact(e.ValidStorage)
	return e
}

// Lookup returns the entry for brand. The second result is false when the
// brand has no reference price.
func (s *MemoryStore) Lookup(brand string) (domain.ReferencePriceEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[brand]
	if !ok {
		return domain.ReferencePriceEntry{}, false
	}
	e.ValidStorage = slices.Clone(e.ValidStorage)
	return e, true
}

// ValidStorageFor returns the storage options sold for brand, falling back to
// every storage option when the brand is unknown or lists none.
func (s *MemoryStore) ValidStorageFor(brand string) []int {
	if e, ok := s.Lookup(brand); ok && len(e.ValidStorage) > 0 {
		return e.ValidStorage
	}
	return slices.Clone(domain.StorageOptions)
}

// List returns all entries sorted by brand.
func (s *MemoryStore) List() []domain.ReferencePriceEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ReferencePriceEntry, 0, len(s.entries))
	for _, e := range s.entries {
		e.ValidStorage = slices.Clone(e.ValidStorage)
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Brand < out[j].Brand })
	return out
}

// Len returns the number of brands with a reference price.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Upsert inserts or replaces the entry for e.Brand. When a persister is
// configured the write goes there first; a persistence failure leaves the
// in-memory entry untouched.
func (s *MemoryStore) Upsert(ctx context.Context, e domain.ReferencePriceEntry) (domain.ReferencePriceEntry, error) {
	e = normalize(e)
	if err := Validate(&e); err != nil {
		return domain.ReferencePriceEntry{}, err
	}
	if e.Source == "" {
		e.Source = domain.ReferenceSourceManual
	}
	e.UpdatedAt = s.now().UTC()

	if s.persister != nil {
		if err := s.persister.UpsertReferencePrice(ctx, &e); err != nil {
			return domain.ReferencePriceEntry{}, fmt.Errorf("persisting reference price for %s: %w", e.Brand, err)
		}
	}

	s.mu.Lock()
	prev, existed := s.entries[e.Brand]
	s.entries[e.Brand] = e
	s.mu.Unlock()

	attrs := []any{"brand", e.Brand, "mrp", e.MRP, "source", e.Source}
	if existed {
		attrs = append(attrs, "previous_mrp", prev.MRP)
	}
	s.log.Info("reference price upserted", attrs...)

	if s.onUpsert != nil {
		s.onUpsert(e)
	}

	out := e
	out.ValidStorage = slices.Clone(e.ValidStorage)
	return out, nil
}
