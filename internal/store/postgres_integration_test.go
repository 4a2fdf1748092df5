//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/donaldgifford/resell-valuator/internal/store"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

func setupPostgres(t *testing.T) *store.PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("rv_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := store.NewPostgresStore(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	_, err = s.Migrate(ctx)
	require.NoError(t, err)

	return s
}

func sale(brand string, storage int, price int64) domain.SaleRecord {
	return domain.SaleRecord{
		DeviceRecord: domain.DeviceRecord{
			Brand:         brand,
			StorageGB:     storage,
			Condition:     domain.ConditionGood,
			AgeMonths:     12,
			BatteryHealth: 90,
		},
		Price: price,
	}
}

func TestPostgresStore_Ping(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestPostgresStore_MigrateIsIdempotent(t *testing.T) {
	s := setupPostgres(t)
	applied, err := s.Migrate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, applied, "second run applies nothing")
}

func TestPostgresStore_ReferencePrices(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	_, err := s.GetReferencePrice(ctx, "iPhone 15")
	require.ErrorIs(t, err, store.ErrNotFound)

	entry := &domain.ReferencePriceEntry{
		Brand:        "iPhone 15",
		MRP:          80000,
		ValidStorage: []int{128, 256},
		Source:       domain.ReferenceSourceTable,
	}
	require.NoError(t, s.UpsertReferencePrice(ctx, entry))

	got, err := s.GetReferencePrice(ctx, "iPhone 15")
	require.NoError(t, err)
	assert.Equal(t, int64(80000), got.MRP)
	assert.Equal(t, []int{128, 256}, got.ValidStorage)
	assert.Equal(t, domain.ReferenceSourceTable, got.Source)
	assert.False(t, got.UpdatedAt.IsZero())

	entry.MRP = 85000
	entry.Source = ""
	require.NoError(t, s.UpsertReferencePrice(ctx, entry))
	require.NoError(t, s.UpsertReferencePrice(ctx, &domain.ReferencePriceEntry{Brand: "Pixel 8", MRP: 70000}))

	all, err := s.ListReferencePrices(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Pixel 8", all[0].Brand)
	assert.Empty(t, all[0].ValidStorage)
	assert.Equal(t, int64(85000), all[1].MRP)
	assert.Equal(t, domain.ReferenceSourceManual, all[1].Source)
}

func TestPostgresStore_SalesAndDerivation(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	n, err := s.InsertSales(ctx, []domain.SaleRecord{
		sale("Pixel 8", 128, 41667),
		sale("Pixel 8", 256, 30000),
		sale("Pixel 8", 128, 20000),
		sale("Samsung S23", 512, 60000),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	count, err := s.CountSales(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	derived, err := s.DeriveReferencePrices(ctx, 1.2)
	require.NoError(t, err)
	require.Len(t, derived, 2)

	assert.Equal(t, "Pixel 8", derived[0].Brand)
	assert.Equal(t, int64(50000), derived[0].MRP)
	assert.Equal(t, []int{128, 256}, derived[0].ValidStorage)
	assert.Equal(t, domain.ReferenceSourceDerived, derived[0].Source)

	assert.Equal(t, int64(72000), derived[1].MRP)

	_, err = s.DeriveReferencePrices(ctx, 0)
	require.Error(t, err)
}

func TestPostgresStore_ValuationRuns(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Microsecond)
	for i, src := range []string{domain.RunSourceAPI, domain.RunSourceBulk, domain.RunSourceBulk} {
		run := domain.NewValuationRun(uuid.NewString(), src, base.Add(time.Duration(i)*time.Minute),
			&domain.BatchSummary{Total: 10, Succeeded: 9, Failed: 1, MinPrice: 100, MaxPrice: 900, MeanPrice: 500, MedianPrice: 450})
		require.NoError(t, s.InsertValuationRun(ctx, run))
	}

	runs, total, err := s.ListValuationRuns(ctx, &store.RunQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, runs, 3)
	assert.True(t, runs[0].StartedAt.After(runs[2].StartedAt), "newest first")
	require.NotNil(t, runs[0].CompletedAt)

	bulk := domain.RunSourceBulk
	runs, total, err = s.ListValuationRuns(ctx, &store.RunQuery{Source: &bulk, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.RunSourceBulk, runs[0].Source)
	assert.Equal(t, 9, runs[0].Succeeded)
}

func TestPostgresStore_MigrationsApplyInOrder(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	// Watches and analytics need the tables added after the initial schema.
	_, err := s.ListWatches(ctx, false)
	require.NoError(t, err)
	_, err = s.ListPendingAlerts(ctx)
	require.NoError(t, err)
}

func TestPostgresStore_Watches(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	w := &domain.PriceWatch{
		Name:          "Cheap iPhone",
		Brand:         "iPhone 15",
		StorageGB:     256,
		Condition:     "Excellent",
		AgeMonths:     12,
		BatteryHealth: 85,
		DamageLevel:   domain.DamageNone,
		TargetPrice:   55000,
		Enabled:       true,
	}
	require.NoError(t, s.CreateWatch(ctx, w))
	require.NotEmpty(t, w.ID)
	assert.False(t, w.CreatedAt.IsZero())

	dup := *w
	dup.ID = ""
	require.ErrorIs(t, s.CreateWatch(ctx, &dup), store.ErrConflict)

	_, err := s.GetWatch(ctx, uuid.NewString())
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.RecordWatchCheck(ctx, w.ID, 52000, true))
	got, err := s.GetWatch(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, got.Triggered)
	require.NotNil(t, got.LastPrice)
	assert.Equal(t, int64(52000), *got.LastPrice)
	require.NotNil(t, got.LastCheckedAt)

	got.TargetPrice = 50000
	require.NoError(t, s.UpdateWatch(ctx, got))
	assert.False(t, got.Triggered, "update re-arms the watch")
	assert.Equal(t, int64(50000), got.TargetPrice)

	require.NoError(t, s.SetWatchEnabled(ctx, w.ID, false))
	enabled, err := s.ListWatches(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, enabled)
	all, err := s.ListWatches(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.ErrorIs(t, s.SetWatchEnabled(ctx, uuid.NewString(), true), store.ErrNotFound)

	a1 := &domain.WatchAlert{WatchID: w.ID, Price: 49000, TargetPrice: 50000}
	a2 := &domain.WatchAlert{WatchID: w.ID, Price: 48000, TargetPrice: 50000}
	require.NoError(t, s.CreateWatchAlert(ctx, a1))
	require.NoError(t, s.CreateWatchAlert(ctx, a2))

	pending, err := s.ListPendingAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	require.NoError(t, s.MarkAlertsNotified(ctx, []string{a1.ID}))
	pending, err = s.ListPendingAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, a2.ID, pending[0].ID)

	history, err := s.ListAlertsByWatch(ctx, w.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	require.NoError(t, s.DeleteWatch(ctx, w.ID))
	require.ErrorIs(t, s.DeleteWatch(ctx, w.ID), store.ErrNotFound)
	pending, err = s.ListPendingAlerts(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending, "alerts are removed with their watch")
}

func TestPostgresStore_MarketQueries(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	empty, err := s.MarketSummary(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.Count)

	_, err = s.InsertSales(ctx, []domain.SaleRecord{
		sale("Pixel 8", 64, 30000),
		sale("Pixel 8", 64, 32000),
		sale("Pixel 8", 128, 36000),
		sale("Samsung S23", 256, 50000),
	})
	require.NoError(t, err)

	sum, err := s.MarketSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Count)
	assert.Equal(t, 2, sum.Brands)
	assert.InDelta(t, 37000, sum.Avg, 0.001)
	assert.InDelta(t, 34000, sum.Median, 0.001)
	assert.Equal(t, int64(30000), sum.Min)
	assert.Equal(t, int64(50000), sum.Max)
	assert.Equal(t, []string{domain.ConditionGood}, sum.Conditions)

	pixel := "Pixel 8"
	storage, err := s.SegmentStats(ctx, &store.SegmentQuery{Dimension: store.DimensionStorage, Brand: &pixel})
	require.NoError(t, err)
	require.Len(t, storage, 2)
	assert.Equal(t, "64", storage[0].Segment)
	assert.InDelta(t, 31000, storage[0].Avg, 0.001)
	assert.Equal(t, "128", storage[1].Segment)
	assert.Zero(t, storage[1].StdDev, "single sale has no spread")

	age, err := s.SegmentStats(ctx, &store.SegmentQuery{Dimension: store.DimensionAge})
	require.NoError(t, err)
	require.Len(t, age, 1)
	assert.Equal(t, "6-12mo", age[0].Segment)

	similar, err := s.SimilarSales(ctx, &store.SimilarQuery{
		Brand: "Pixel 8", StorageGB: 64, Condition: domain.ConditionGood, Limit: 1,
	})
	require.NoError(t, err)
	require.Len(t, similar, 1)
	assert.Equal(t, "Pixel 8", similar[0].Brand)
}
