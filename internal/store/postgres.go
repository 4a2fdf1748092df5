package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	if !strings.Contains(connString, "pool_max_conns") {
		cfg.MaxConns = defaultPoolSize
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations and returns their versions.
func (s *PostgresStore) Migrate(ctx context.Context) ([]string, error) {
	return RunMigrations(ctx, s.pool)
}

// ListReferencePrices returns every reference entry ordered by brand.
func (s *PostgresStore) ListReferencePrices(ctx context.Context) ([]domain.ReferencePriceEntry, error) {
	rows, err := s.pool.Query(ctx, queryListReferencePrices)
	if err != nil {
		return nil, fmt.Errorf("querying reference prices: %w", err)
	}
	defer rows.Close()

	var entries []domain.ReferencePriceEntry
	for rows.Next() {
		var e domain.ReferencePriceEntry
		if err := rows.Scan(&e.Brand, &e.MRP, &e.ValidStorage, &e.Source, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning reference price: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reference prices: %w", err)
	}

	return entries, nil
}

// GetReferencePrice returns the entry for brand, or ErrNotFound.
func (s *PostgresStore) GetReferencePrice(
	ctx context.Context,
	brand string,
) (*domain.ReferencePriceEntry, error) {
	e := &domain.ReferencePriceEntry{}
	err := s.pool.QueryRow(ctx, queryGetReferencePrice, brand).Scan(
		&e.Brand, &e.MRP, &e.ValidStorage, &e.Source, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("reference price %q: %w", brand, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting reference price: %w", err)
	}
	return e, nil
}

// UpsertReferencePrice inserts or replaces the entry keyed by brand.
func (s *PostgresStore) UpsertReferencePrice(ctx context.Context, e *domain.ReferencePriceEntry) error {
	source := e.Source
	if source == "" {
		source = domain.ReferenceSourceManual
	}
	updated := e.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	storage := e.ValidStorage
	if storage == nil {
		storage = []int{}
	}

	args := pgx.NamedArgs{
		"brand":         e.Brand,
		"mrp":           e.MRP,
		"valid_storage": storage,
		"source":        source,
		"updated_at":    updated,
	}

	if _, err := s.pool.Exec(ctx, queryUpsertReferencePrice, args); err != nil {
		return fmt.Errorf("upserting reference price: %w", err)
	}
	return nil
}

// DeriveReferencePrices computes one entry per brand from recorded sales.
func (s *PostgresStore) DeriveReferencePrices(
	ctx context.Context,
	factor float64,
) ([]domain.ReferencePriceEntry, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("derivation factor must be positive, got %v", factor)
	}

	rows, err := s.pool.Query(ctx, queryDeriveReferencePrices, factor)
	if err != nil {
		return nil, fmt.Errorf("deriving reference prices: %w", err)
	}
	defer rows.Close()

	var entries []domain.ReferencePriceEntry
	for rows.Next() {
		e := domain.ReferencePriceEntry{Source: domain.ReferenceSourceDerived}
		if err := rows.Scan(&e.Brand, &e.MRP, &e.ValidStorage); err != nil {
			return nil, fmt.Errorf("scanning derived reference price: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating derived reference prices: %w", err)
	}

	return entries, nil
}

// InsertSales bulk-loads historical sales with COPY and returns the number
// of rows written.
func (s *PostgresStore) InsertSales(ctx context.Context, sales []domain.SaleRecord) (int64, error) {
	if len(sales) == 0 {
		return 0, nil
	}

	n, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"device_sales"},
		deviceSalesColumns,
		pgx.CopyFromSlice(len(sales), func(i int) ([]any, error) {
			r := &sales[i]
			return []any{
				r.Brand, r.Model, r.StorageGB, r.Condition,
				r.AgeMonths, r.BatteryHealth, string(r.Damage()), r.Price,
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copying sales: %w", err)
	}
	return n, nil
}

// CountSales returns the number of recorded sales.
func (s *PostgresStore) CountSales(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, queryCountSales).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting sales: %w", err)
	}
	return n, nil
}

// InsertValuationRun records a completed batch.
func (s *PostgresStore) InsertValuationRun(ctx context.Context, r *domain.ValuationRun) error {
	args := pgx.NamedArgs{
		"id":           r.ID,
		"source":       r.Source,
		"total":        r.Total,
		"succeeded":    r.Succeeded,
		"failed":       r.Failed,
		"min_price":    r.MinPrice,
		"max_price":    r.MaxPrice,
		"mean_price":   r.MeanPrice,
		"median_price": r.MedianPrice,
		"started_at":   r.StartedAt,
		"completed_at": r.CompletedAt,
	}

	if _, err := s.pool.Exec(ctx, queryInsertValuationRun, args); err != nil {
		return fmt.Errorf("inserting valuation run: %w", err)
	}
	return nil
}

// ListValuationRuns queries runs with optional filters, returning results
// and total count.
func (s *PostgresStore) ListValuationRuns(
	ctx context.Context,
	q *RunQuery,
) ([]domain.ValuationRun, int, error) {
	if q == nil {
		q = &RunQuery{}
	}
	dataSQL, countSQL, args := q.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting valuation runs: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying valuation runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.ValuationRun
	for rows.Next() {
		var r domain.ValuationRun
		if err := rows.Scan(
			&r.ID, &r.Source, &r.Total, &r.Succeeded, &r.Failed,
			&r.MinPrice, &r.MaxPrice, &r.MeanPrice, &r.MedianPrice,
			&r.StartedAt, &r.CompletedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scanning valuation run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating valuation runs: %w", err)
	}

	return runs, total, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func scanWatch(row pgx.Row, w *domain.PriceWatch) error {
	return row.Scan(
		&w.ID, &w.Name, &w.Brand, &w.StorageGB, &w.Condition, &w.AgeMonths,
		&w.BatteryHealth, &w.DamageLevel, &w.TargetPrice, &w.Enabled, &w.Triggered,
		&w.LastPrice, &w.LastCheckedAt, &w.CreatedAt, &w.UpdatedAt,
	)
}

func watchArgs(w *domain.PriceWatch) pgx.NamedArgs {
	damage := w.DamageLevel
	if damage == "" {
		damage = domain.DamageNone
	}
	return pgx.NamedArgs{
		"id":             w.ID,
		"name":           w.Name,
		"brand":          w.Brand,
		"storage_gb":     w.StorageGB,
		"condition":      w.Condition,
		"age_months":     w.AgeMonths,
		"battery_health": w.BatteryHealth,
		"damage_level":   string(damage),
		"target_price":   w.TargetPrice,
		"enabled":        w.Enabled,
	}
}

// CreateWatch inserts w and fills in its generated fields. A second watch on
// the same brand, storage and condition returns ErrConflict.
func (s *PostgresStore) CreateWatch(ctx context.Context, w *domain.PriceWatch) error {
	if w.DamageLevel == "" {
		w.DamageLevel = domain.DamageNone
	}
	err := s.pool.QueryRow(ctx, queryInsertWatch, watchArgs(w)).Scan(
		&w.ID, &w.Triggered, &w.CreatedAt, &w.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("watch on %s %dGB %s: %w", w.Brand, w.StorageGB, w.Condition, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("inserting watch: %w", err)
	}
	return nil
}

// GetWatch returns the watch with id, or ErrNotFound.
func (s *PostgresStore) GetWatch(ctx context.Context, id string) (*domain.PriceWatch, error) {
	w := &domain.PriceWatch{}
	err := scanWatch(s.pool.QueryRow(ctx, queryGetWatch, id), w)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("watch %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting watch: %w", err)
	}
	return w, nil
}

// ListWatches returns watches in creation order.
func (s *PostgresStore) ListWatches(ctx context.Context, enabledOnly bool) ([]domain.PriceWatch, error) {
	query := queryListWatches
	if enabledOnly {
		query = queryListEnabledWatches
	}

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying watches: %w", err)
	}
	defer rows.Close()

	var watches []domain.PriceWatch
	for rows.Next() {
		var w domain.PriceWatch
		if err := scanWatch(rows, &w); err != nil {
			return nil, fmt.Errorf("scanning watch: %w", err)
		}
		watches = append(watches, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating watches: %w", err)
	}

	return watches, nil
}

// UpdateWatch replaces the editable fields of w and reloads it. The watch is
// re-armed so the new target can fire.
func (s *PostgresStore) UpdateWatch(ctx context.Context, w *domain.PriceWatch) error {
	err := scanWatch(s.pool.QueryRow(ctx, queryUpdateWatch, watchArgs(w)), w)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("watch %s: %w", w.ID, ErrNotFound)
	case isUniqueViolation(err):
		return fmt.Errorf("watch on %s %dGB %s: %w", w.Brand, w.StorageGB, w.Condition, ErrConflict)
	case err != nil:
		return fmt.Errorf("updating watch: %w", err)
	}
	return nil
}

// SetWatchEnabled enables or disables a watch.
func (s *PostgresStore) SetWatchEnabled(ctx context.Context, id string, enabled bool) error {
	tag, err := s.pool.Exec(ctx, querySetWatchEnabled, id, enabled)
	if err != nil {
		return fmt.Errorf("setting watch enabled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("watch %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteWatch removes a watch and its alerts.
func (s *PostgresStore) DeleteWatch(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, queryDeleteWatch, id)
	if err != nil {
		return fmt.Errorf("deleting watch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("watch %s: %w", id, ErrNotFound)
	}
	return nil
}

// RecordWatchCheck stores the latest valuation of a watch and whether it
// satisfies the target.
func (s *PostgresStore) RecordWatchCheck(ctx context.Context, id string, price int64, triggered bool) error {
	tag, err := s.pool.Exec(ctx, queryRecordWatchCheck, id, price, triggered)
	if err != nil {
		return fmt.Errorf("recording watch check: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("watch %s: %w", id, ErrNotFound)
	}
	return nil
}

// CreateWatchAlert inserts a pending alert and fills in its ID.
func (s *PostgresStore) CreateWatchAlert(ctx context.Context, a *domain.WatchAlert) error {
	err := s.pool.QueryRow(ctx, queryInsertWatchAlert, a.WatchID, a.Price, a.TargetPrice).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting watch alert: %w", err)
	}
	return nil
}

func (s *PostgresStore) queryAlerts(ctx context.Context, sql string, args ...any) ([]domain.WatchAlert, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying watch alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.WatchAlert
	for rows.Next() {
		var a domain.WatchAlert
		if err := rows.Scan(
			&a.ID, &a.WatchID, &a.Price, &a.TargetPrice, &a.Notified, &a.NotifiedAt, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning watch alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating watch alerts: %w", err)
	}

	return alerts, nil
}

// ListPendingAlerts returns alerts not yet notified, oldest first.
func (s *PostgresStore) ListPendingAlerts(ctx context.Context) ([]domain.WatchAlert, error) {
	return s.queryAlerts(ctx, queryListPendingAlerts)
}

// ListAlertsByWatch returns the latest alerts of one watch, newest first.
func (s *PostgresStore) ListAlertsByWatch(
	ctx context.Context,
	watchID string,
	limit int,
) ([]domain.WatchAlert, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	return s.queryAlerts(ctx, queryListAlertsByWatch, watchID, min(limit, maxLimit))
}

// MarkAlertsNotified flags alerts as delivered.
func (s *PostgresStore) MarkAlertsNotified(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.pool.Exec(ctx, queryMarkAlertsNotified, ids); err != nil {
		return fmt.Errorf("marking alerts notified: %w", err)
	}
	return nil
}

// MarketSummary aggregates every recorded sale. ReferenceBrands is left for
// the caller.
func (s *PostgresStore) MarketSummary(ctx context.Context) (*domain.MarketSummary, error) {
	m := &domain.MarketSummary{}
	ps := &m.PriceStats
	err := s.pool.QueryRow(ctx, queryMarketSummary).Scan(
		&ps.Count, &ps.Avg, &ps.Median, &ps.Min, &ps.Max, &ps.StdDev,
		&m.Brands, &m.AvgAgeMonths, &m.AvgBatteryHealth, &m.Conditions,
	)
	if err != nil {
		return nil, fmt.Errorf("summarizing sales: %w", err)
	}
	return m, nil
}

// SegmentStats returns price statistics per segment of q's dimension.
func (s *PostgresStore) SegmentStats(ctx context.Context, q *SegmentQuery) ([]domain.SegmentStats, error) {
	sql, args, err := q.ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s segments: %w", q.Dimension, err)
	}
	defer rows.Close()

	var out []domain.SegmentStats
	for rows.Next() {
		var seg domain.SegmentStats
		ps := &seg.PriceStats
		if err := rows.Scan(
			&seg.Segment, &ps.Count, &ps.Avg, &ps.Median, &ps.Min, &ps.Max, &ps.StdDev,
		); err != nil {
			return nil, fmt.Errorf("scanning segment: %w", err)
		}
		out = append(out, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating segments: %w", err)
	}

	return out, nil
}

// SimilarSales returns recorded sales matching q, newest first.
func (s *PostgresStore) SimilarSales(ctx context.Context, q *SimilarQuery) ([]domain.SaleRecord, error) {
	sql, args := q.ToSQL()

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying similar sales: %w", err)
	}
	defer rows.Close()

	var out []domain.SaleRecord
	for rows.Next() {
		var r domain.SaleRecord
		if err := rows.Scan(
			&r.Brand, &r.Model, &r.StorageGB, &r.Condition,
			&r.AgeMonths, &r.BatteryHealth, &r.DamageLevel, &r.Price,
		); err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating similar sales: %w", err)
	}

	return out, nil
}
