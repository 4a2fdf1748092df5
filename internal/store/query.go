package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

const baseRunsSelect = `SELECT id, source, total, succeeded, failed,
	min_price, max_price, mean_price, median_price, started_at, completed_at
FROM valuation_runs`

const countRunsSelect = "SELECT COUNT(*) FROM valuation_runs"

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for a run query.
// It returns two SQL strings (one for the data query, one for the count query)
// and the positional parameters.
func (q *RunQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if q.Source != nil {
		conditions = append(conditions, fmt.Sprintf("source = $%d", paramIdx))
		args = append(args, *q.Source)
		paramIdx++
	}

	if q.Since != nil {
		conditions = append(conditions, fmt.Sprintf("started_at >= $%d", paramIdx))
		args = append(args, *q.Since)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY started_at DESC LIMIT %d OFFSET %d",
		baseRunsSelect, whereClause, limit, offset,
	)

	countSQL = countRunsSelect + whereClause

	return dataSQL, countSQL, args
}

// Dimension is a column the recorded sales can be grouped by.
type Dimension string

// Market dimensions.
const (
	DimensionBrand     Dimension = "brand"
	DimensionCondition Dimension = "condition"
	DimensionStorage   Dimension = "storage"
	DimensionAge       Dimension = "age"
	DimensionBattery   Dimension = "battery"
)

// Dimensions lists every supported dimension.
var Dimensions = []Dimension{
	DimensionBrand, DimensionCondition, DimensionStorage, DimensionAge, DimensionBattery,
}

// segmentExprs maps a dimension to its label and ordering expressions.
var segmentExprs = map[Dimension][2]string{
	DimensionBrand:     {"brand", "brand"},
	DimensionCondition: {"condition", "condition"},
	DimensionStorage:   {"storage_gb::text", "storage_gb"},
	DimensionAge: {`CASE
		WHEN age_months <= 6 THEN '0-6mo'
		WHEN age_months <= 12 THEN '6-12mo'
		WHEN age_months <= 24 THEN '12-24mo'
		WHEN age_months <= 36 THEN '24-36mo'
		WHEN age_months <= 48 THEN '36-48mo'
		ELSE '48mo+' END`, "age_months"},
	DimensionBattery: {`CASE
		WHEN battery_health <= 70 THEN '0-70%'
		WHEN battery_health <= 80 THEN '70-80%'
		WHEN battery_health <= 90 THEN '80-90%'
		ELSE '90-100%' END`, "battery_health"},
}

// SegmentQuery groups recorded sales by one dimension, optionally within a
// single brand.
type SegmentQuery struct {
	Dimension Dimension
	Brand     *string
}

// ToSQL builds the grouped statistics query. Segments come back in the
// natural order of the dimension.
func (q *SegmentQuery) ToSQL() (string, []any, error) {
	exprs, ok := segmentExprs[q.Dimension]
	if !ok {
		return "", nil, fmt.Errorf("unknown dimension %q", q.Dimension)
	}

	var (
		where string
		args  []any
	)
	if q.Brand != nil {
		where = " WHERE brand = $1"
		args = append(args, *q.Brand)
	}

	sql := fmt.Sprintf(`SELECT %s AS segment, %s
FROM device_sales%s
GROUP BY 1
ORDER BY MIN(%s)`, exprs[0], priceStatsColumns, where, exprs[1])
	return sql, args, nil
}

const (
	defaultSimilarLimit = 5
	maxSimilarLimit     = 100
)

// SimilarQuery selects recorded sales of the same brand, storage and
// condition.
type SimilarQuery struct {
	Brand     string
	StorageGB int
	Condition string
	Limit     int // default 5
}

// ToSQL builds the similar sales query, newest first.
func (q *SimilarQuery) ToSQL() (string, []any) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultSimilarLimit
	}
	if limit > maxSimilarLimit {
		limit = maxSimilarLimit
	}

	sql := fmt.Sprintf(`SELECT %s
FROM device_sales
WHERE brand = $1 AND storage_gb = $2 AND condition = $3
ORDER BY imported_at DESC, id DESC
LIMIT %d`, strings.Join(deviceSalesColumns, ", "), limit)
	return sql, []any{q.Brand, q.StorageGB, q.Condition}
}
