// Package store defines the datastore abstraction for resell-valuator.
// Business logic depends on the Store interface, never on concrete
// implementations, so handlers and jobs can be tested against mocks.
package store

import (
	"context"
	"errors"
	"time"

	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write collides with a unique key.
var ErrConflict = errors.New("conflict")

// RunQuery defines optional filters for listing valuation runs.
type RunQuery struct {
	Source *string
	Since  *time.Time
	Limit  int // default 50
	Offset int
}

// Store defines all data access operations for resell-valuator.
type Store interface {
	// Reference prices
	ListReferencePrices(ctx context.Context) ([]domain.ReferencePriceEntry, error)
	GetReferencePrice(ctx context.Context, brand string) (*domain.ReferencePriceEntry, error)
	UpsertReferencePrice(ctx context.Context, e *domain.ReferencePriceEntry) error
	DeriveReferencePrices(ctx context.Context, factor float64) ([]domain.ReferencePriceEntry, error)

	// Sales
	InsertSales(ctx context.Context, sales []domain.SaleRecord) (int64, error)
	CountSales(ctx context.Context) (int, error)

	// Valuation runs
	InsertValuationRun(ctx context.Context, r *domain.ValuationRun) error
	ListValuationRuns(ctx context.Context, q *RunQuery) ([]domain.ValuationRun, int, error)

	// Price watches
	CreateWatch(ctx context.Context, w *domain.PriceWatch) error
	GetWatch(ctx context.Context, id string) (*domain.PriceWatch, error)
	ListWatches(ctx context.Context, enabledOnly bool) ([]domain.PriceWatch, error)
	UpdateWatch(ctx context.Context, w *domain.PriceWatch) error
	SetWatchEnabled(ctx context.Context, id string, enabled bool) error
	DeleteWatch(ctx context.Context, id string) error
	RecordWatchCheck(ctx context.Context, id string, price int64, triggered bool) error

	// Watch alerts
	CreateWatchAlert(ctx context.Context, a *domain.WatchAlert) error
	ListPendingAlerts(ctx context.Context) ([]domain.WatchAlert, error)
	ListAlertsByWatch(ctx context.Context, watchID string, limit int) ([]domain.WatchAlert, error)
	MarkAlertsNotified(ctx context.Context, ids []string) error

	// Market analytics
	MarketSummary(ctx context.Context) (*domain.MarketSummary, error)
	SegmentStats(ctx context.Context, q *SegmentQuery) ([]domain.SegmentStats, error)
	SimilarSales(ctx context.Context, q *SimilarQuery) ([]domain.SaleRecord, error)

	// Migrations
	Migrate(ctx context.Context) ([]string, error)

	// Health
	Ping(ctx context.Context) error
}
