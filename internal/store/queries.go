package store

// SQL query constants organized by entity.

// Reference price queries.
const (
	queryListReferencePrices = `
		SELECT brand, mrp, valid_storage, source, updated_at
		FROM reference_prices
		ORDER BY brand`

	queryGetReferencePrice = `
		SELECT brand, mrp, valid_storage, source, updated_at
		FROM reference_prices
		WHERE brand = $1`

	queryUpsertReferencePrice = `
		INSERT INTO reference_prices (brand, mrp, valid_storage, source, updated_at)
		VALUES (@brand, @mrp, @valid_storage, @source, @updated_at)
		ON CONFLICT (brand) DO UPDATE SET
			mrp = EXCLUDED.mrp,
			valid_storage = EXCLUDED.valid_storage,
			source = EXCLUDED.source,
			updated_at = EXCLUDED.updated_at`

	// Highest observed sale scaled by the derivation factor, rounded half
	// away from zero.
	queryDeriveReferencePrices = `
		SELECT brand,
			ROUND(MAX(price)::numeric * $1::numeric)::bigint AS mrp,
			ARRAY_AGG(DISTINCT storage_gb ORDER BY storage_gb) AS valid_storage
		FROM device_sales
		WHERE price > 0 AND brand <> ''
		GROUP BY brand
		ORDER BY brand`
)

// Sales queries.
const (
	queryCountSales = `SELECT COUNT(*) FROM device_sales`
)

// Valuation run queries.
const (
	queryInsertValuationRun = `
		INSERT INTO valuation_runs (
			id, source, total, succeeded, failed,
			min_price, max_price, mean_price, median_price,
			started_at, completed_at
		) VALUES (
			@id, @source, @total, @succeeded, @failed,
			@min_price, @max_price, @mean_price, @median_price,
			@started_at, @completed_at
		)`
)

// Price watch queries.
const (
	watchColumns = `id, name, brand, storage_gb, condition, age_months, battery_health,
		damage_level, target_price, enabled, triggered, last_price, last_checked_at,
		created_at, updated_at`

	queryInsertWatch = `
		INSERT INTO price_watches (
			name, brand, storage_gb, condition, age_months, battery_health,
			damage_level, target_price, enabled
		) VALUES (
			@name, @brand, @storage_gb, @condition, @age_months, @battery_health,
			@damage_level, @target_price, @enabled
		)
		RETURNING id, triggered, created_at, updated_at`

	queryGetWatch = `SELECT ` + watchColumns + ` FROM price_watches WHERE id = $1`

	queryListWatches = `SELECT ` + watchColumns + ` FROM price_watches ORDER BY created_at`

	queryListEnabledWatches = `SELECT ` + watchColumns + `
		FROM price_watches WHERE enabled ORDER BY created_at`

	// A changed target re-arms the watch.
	queryUpdateWatch = `
		UPDATE price_watches SET
			name = @name,
			brand = @brand,
			storage_gb = @storage_gb,
			condition = @condition,
			age_months = @age_months,
			battery_health = @battery_health,
			damage_level = @damage_level,
			target_price = @target_price,
			enabled = @enabled,
			triggered = false,
			updated_at = now()
		WHERE id = @id
		RETURNING ` + watchColumns

	querySetWatchEnabled = `
		UPDATE price_watches SET enabled = $2, updated_at = now() WHERE id = $1`

	queryDeleteWatch = `DELETE FROM price_watches WHERE id = $1`

	queryRecordWatchCheck = `
		UPDATE price_watches SET
			last_price = $2,
			triggered = $3,
			last_checked_at = now()
		WHERE id = $1`
)

// Watch alert queries.
const (
	alertColumns = `id, watch_id, price, target_price, notified, notified_at, created_at`

	queryInsertWatchAlert = `
		INSERT INTO watch_alerts (watch_id, price, target_price)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	queryListPendingAlerts = `SELECT ` + alertColumns + `
		FROM watch_alerts WHERE NOT notified ORDER BY created_at`

	queryListAlertsByWatch = `SELECT ` + alertColumns + `
		FROM watch_alerts WHERE watch_id = $1 ORDER BY created_at DESC LIMIT $2`

	queryMarkAlertsNotified = `
		UPDATE watch_alerts SET notified = true, notified_at = now()
		WHERE id = ANY($1::uuid[]) AND NOT notified`
)

// Market analytics queries.
const (
	// priceStatsColumns scans into domain.PriceStats.
	priceStatsColumns = `COUNT(*),
	COALESCE(AVG(price), 0)::float8,
	COALESCE(PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY price), 0)::float8,
	COALESCE(MIN(price), 0),
	COALESCE(MAX(price), 0),
	COALESCE(STDDEV_SAMP(price), 0)::float8`

	queryMarketSummary = `
		SELECT ` + priceStatsColumns + `,
			COUNT(DISTINCT brand),
			COALESCE(AVG(age_months), 0)::float8,
			COALESCE(AVG(battery_health), 0)::float8,
			COALESCE(ARRAY_AGG(DISTINCT condition ORDER BY condition), '{}')
		FROM device_sales`
)

// deviceSalesColumns is the COPY column order for InsertSales.
var deviceSalesColumns = []string{
	"brand", "model", "storage_gb", "condition",
	"age_months", "battery_health", "damage_level", "price",
}
