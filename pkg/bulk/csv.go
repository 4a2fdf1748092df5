// Package bulk reads device records from CSV and writes valuation results
// back in the same row order.
package bulk

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// Input column names.
const (
	ColBrand        = "brand"
	ColModel        = "model"
	ColStorage      = "storage_gb"
	ColCondition    = "condition"
	ColAge          = "age_months"
	ColBattery      = "battery_health"
	ColDamage       = "damage_level"
	ColOS           = "os"
	ColColor        = "color"
	ColNetwork      = "network"
	ColCameraCount  = "camera_count"
	ColScreenSize   = "screen_size"
	ColSellerRating = "seller_rating"
	ColTradeIn      = "trade_in_value"
	ColReleaseYear  = "release_year"
	ColPrice        = "price"
)

// RequiredColumns must be present and non-empty on every row.
var RequiredColumns = []string{ColBrand, ColStorage, ColCondition, ColAge, ColBattery}

// Output column names appended after the echoed input columns.
const (
	ColPredicted  = "predicted_price"
	ColAdjusted   = "adjusted_price"
	ColPriceLower = "price_lower"
	ColPriceUpper = "price_upper"
	ColStatus     = "status"
	ColError      = "error"
)

// Row status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ErrTooManyRows is returned when an input exceeds the configured row limit.
var ErrTooManyRows = errors.New("too many rows")

// Row is one parsed input record. Err is set when the row could not be turned
// into a DeviceRecord; such rows still occupy their slot in the output.
type Row struct {
	Line   int
	Fields []string
	Record domain.DeviceRecord
	Err    error
}

// Table is a parsed CSV input.
type Table struct {
	Header []string
	Rows   []Row
}

type readConfig struct {
	maxRows int
}

// ReadOption configures Read.
type ReadOption func(*readConfig)

// WithMaxRows caps the number of data rows Read accepts. Zero means no cap.
func WithMaxRows(n int) ReadOption {
	return func(c *readConfig) {
		c.maxRows = n
	}
}

// Read parses a CSV stream with a header row. Only an unreadable header (or
// exceeding the row cap) fails the whole read; everything else is reported
// per row.
func Read(r io.Reader, opts ...ReadOption) (*Table, error) {
	var cfg readConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("reading csv header: empty input")
		}
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	cols := headerIndex(header)

	t := &Table{Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if cfg.maxRows > 0 && len(t.Rows) >= cfg.maxRows {
			return nil, fmt.Errorf("%w: limit is %d", ErrTooManyRows, cfg.maxRows)
		}

		row := Row{Line: lineOf(reader, record, err, len(t.Rows)), Fields: record}
		if err != nil {
			row.Err = &domain.InvalidFieldError{Field: "row", Value: strconv.Itoa(row.Line), Reason: err.Error()}
		} else {
			row.Record, row.Err = parseRecord(record, cols)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func lineOf(reader *csv.Reader, record []string, err error, idx int) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.StartLine
	}
	if err == nil && len(record) > 0 {
		line, _ := reader.FieldPos(0)
		return line
	}
	return idx + 2
}

func headerIndex(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := m[key]; !dup {
			m[key] = i
		}
	}
	return m
}

type cells struct {
	record []string
	cols   map[string]int
}

func (c cells) get(col string) string {
	if idx, ok := c.cols[col]; ok && idx < len(c.record) {
		return strings.TrimSpace(c.record[idx])
	}
	return ""
}

func (c cells) required(col string) (string, error) {
	v := c.get(col)
	if v == "" {
		return "", &domain.MissingFieldError{Field: col}
	}
	return v, nil
}

func (c cells) requiredInt(col string) (int, error) {
	v, err := c.required(col)
	if err != nil {
		return 0, err
	}
	return parseInt(col, v)
}

func (c cells) optionalString(col string) *string {
	if v := c.get(col); v != "" {
		return &v
	}
	return nil
}

func (c cells) optionalInt(col string) (*int, error) {
	v := c.get(col)
	if v == "" {
		return nil, nil
	}
	n, err := parseInt(col, v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (c cells) optionalFloat(col string) (*float64, error) {
	v := c.get(col)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, &domain.InvalidFieldError{Field: col, Value: v, Reason: "not a number"}
	}
	return &f, nil
}

// parseInt accepts plain integers and integral decimals such as "128.0",
// which spreadsheet exports commonly produce.
func parseInt(col, v string) (int, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, &domain.InvalidFieldError{Field: col, Value: v, Reason: "not an integer"}
	}
	return int(f), nil
}

func parseRecord(record []string, cols map[string]int) (domain.DeviceRecord, error) {
	c := cells{record: record, cols: cols}
	var (
		rec domain.DeviceRecord
		err error
	)

	if rec.Brand, err = c.required(ColBrand); err != nil {
		return domain.DeviceRecord{}, err
	}
	if rec.StorageGB, err = c.requiredInt(ColStorage); err != nil {
		return domain.DeviceRecord{}, err
	}
	if rec.Condition, err = c.required(ColCondition); err != nil {
		return domain.DeviceRecord{}, err
	}
	if rec.AgeMonths, err = c.requiredInt(ColAge); err != nil {
		return domain.DeviceRecord{}, err
	}
	if rec.BatteryHealth, err = c.requiredInt(ColBattery); err != nil {
		return domain.DeviceRecord{}, err
	}

	rec.Model = c.get(ColModel)
	rec.DamageLevel = domain.DamageLevel(c.get(ColDamage))
	rec.OS = c.optionalString(ColOS)
	rec.Color = c.optionalString(ColColor)
	rec.Network = c.optionalString(ColNetwork)

	if rec.CameraCount, err = c.optionalInt(ColCameraCount); err != nil {
		return domain.DeviceRecord{}, err
	}
	if rec.ReleaseYear, err = c.optionalInt(ColReleaseYear); err != nil {
		return domain.DeviceRecord{}, err
	}
	if rec.ScreenSize, err = c.optionalFloat(ColScreenSize); err != nil {
		return domain.DeviceRecord{}, err
	}
	if rec.SellerRating, err = c.optionalFloat(ColSellerRating); err != nil {
		return domain.DeviceRecord{}, err
	}
	if rec.TradeInValue, err = c.optionalFloat(ColTradeIn); err != nil {
		return domain.DeviceRecord{}, err
	}

	if err := rec.Validate(); err != nil {
		return domain.DeviceRecord{}, err
	}
	return rec, nil
}

// ReadSales parses historical sales: the device columns plus a price column.
// Rows that cannot be parsed are returned separately.
func ReadSales(r io.Reader) (sales []domain.SaleRecord, rejected []Row, err error) {
	t, err := Read(r)
	if err != nil {
		return nil, nil, err
	}
	cols := headerIndex(t.Header)

	for _, row := range t.Rows {
		if row.Err != nil {
			rejected = append(rejected, row)
			continue
		}
		c := cells{record: row.Fields, cols: cols}
		raw, err := c.required(ColPrice)
		if err != nil {
			row.Err = err
			rejected = append(rejected, row)
			continue
		}
		price, err := decimal.NewFromString(raw)
		if err != nil || !price.IsPositive() {
			row.Err = &domain.InvalidFieldError{Field: ColPrice, Value: raw, Reason: "must be a positive number"}
			rejected = append(rejected, row)
			continue
		}
		sales = append(sales, domain.SaleRecord{DeviceRecord: row.Record, Price: price.Round(0).IntPart()})
	}
	return sales, rejected, nil
}

// WriteOptions control the output layout.
type WriteOptions struct {
	// PriceRange adds price_lower and price_upper columns.
	PriceRange bool
}

// Write emits one output row per input row, in input order: the input cells
// followed by the valuation columns. outcomes must be index-aligned with
// t.Rows. Failed rows carry empty price cells, status "error" and the error
// message; they are never dropped or priced at zero.
func Write(w io.Writer, t *Table, outcomes []domain.BatchOutcome, opts WriteOptions) error {
	if len(outcomes) != len(t.Rows) {
		return fmt.Errorf("have %d outcomes for %d rows", len(outcomes), len(t.Rows))
	}

	cw := csv.NewWriter(w)

	header := append([]string{}, t.Header...)
	header = append(header, ColPredicted, ColAdjusted)
	if opts.PriceRange {
		header = append(header, ColPriceLower, ColPriceUpper)
	}
	header = append(header, ColStatus, ColError)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	width := len(t.Header)
	for i := range t.Rows {
		out := make([]string, width, len(header))
		copy(out, t.Rows[i].Fields)

		o := &outcomes[i]
		if o.OK() {
			res := o.Result
			out = append(out, itoa(res.PredictedPrice), itoa(res.AdjustedPrice))
			if opts.PriceRange {
				out = append(out, itoa(res.PriceRange.Low), itoa(res.PriceRange.High))
			}
			out = append(out, StatusOK, "")
		} else {
			out = append(out, "", "")
			if opts.PriceRange {
				out = append(out, "", "")
			}
			msg := "not valued"
			if o.Error != nil {
				msg = o.Error.Message
			}
			out = append(out, StatusError, msg)
		}

		if err := cw.Write(out); err != nil {
			return fmt.Errorf("writing csv row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
