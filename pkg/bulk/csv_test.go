package bulk_test

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/resell-valuator/pkg/bulk"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

const header = "brand,storage_gb,condition,age_months,battery_health\n"

func TestRead_Basic(t *testing.T) {
	t.Parallel()

	in := header +
		"iPhone 15,256,Excellent,12,90\n" +
		"Pixel 8,128.0,Good,6,95\n"

	tbl, err := bulk.Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)

	r0 := tbl.Rows[0]
	require.NoError(t, r0.Err)
	assert.Equal(t, 2, r0.Line)
	assert.Equal(t, domain.DeviceRecord{
		Brand: "iPhone 15", StorageGB: 256, Condition: "Excellent", AgeMonths: 12, BatteryHealth: 90,
	}, r0.Record)

	require.NoError(t, tbl.Rows[1].Err)
	assert.Equal(t, 128, tbl.Rows[1].Record.StorageGB, "integral decimals are accepted")
}

func TestRead_ExtendedColumns(t *testing.T) {
	t.Parallel()

	in := "Brand,Storage_GB,Condition,Age_Months,Battery_Health,OS,Color,Network,Camera_Count,Screen_Size,Seller_Rating,Trade_In_Value,Release_Year,Damage_Level\n" +
		"iPhone 15,256,Excellent,12,90,iOS 17,Blue,5G,3,6.1,4.5,12000,2023,Minor\n" +
		"Pixel 8,128,Good,6,95,,,,,,,,,\n"

	tbl, err := bulk.Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)

	rec := tbl.Rows[0].Record
	require.NoError(t, tbl.Rows[0].Err)
	require.NotNil(t, rec.OS)
	assert.Equal(t, "iOS 17", *rec.OS)
	assert.Equal(t, 3, *rec.CameraCount)
	assert.InDelta(t, 4.5, *rec.SellerRating, 1e-9)
	assert.Equal(t, 2023, *rec.ReleaseYear)
	assert.Equal(t, domain.DamageMinor, rec.DamageLevel)

	empty := tbl.Rows[1].Record
	require.NoError(t, tbl.Rows[1].Err)
	assert.Nil(t, empty.OS)
	assert.Nil(t, empty.SellerRating)
	assert.Equal(t, domain.DamageNone, empty.Damage())
}

func TestRead_PerRowErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		line      string
		wantKind  domain.ErrorKind
		wantField string
	}{
		{name: "empty brand", line: ",256,Good,12,90", wantKind: domain.KindMissingField, wantField: "brand"},
		{name: "short row", line: "iPhone 15,256,Good", wantKind: domain.KindMissingField, wantField: "age_months"},
		{name: "non numeric storage", line: "iPhone 15,lots,Good,12,90", wantKind: domain.KindInvalidField, wantField: "storage_gb"},
		{name: "fractional age", line: "iPhone 15,256,Good,12.5,90", wantKind: domain.KindInvalidField, wantField: "age_months"},
		{name: "battery out of range", line: "iPhone 15,256,Good,12,150", wantKind: domain.KindInvalidField, wantField: "battery_health"},
		{name: "unsupported storage", line: "iPhone 15,32,Good,12,90", wantKind: domain.KindInvalidField, wantField: "storage_gb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tbl, err := bulk.Read(strings.NewReader(header + tt.line + "\n"))
			require.NoError(t, err, "row problems never fail the batch")
			require.Len(t, tbl.Rows, 1)

			ve := domain.NewValuationError(tbl.Rows[0].Err)
			require.NotNil(t, ve)
			assert.Equal(t, tt.wantKind, ve.Kind)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestRead_MissingRequiredColumn(t *testing.T) {
	t.Parallel()

	in := "brand,storage_gb,condition,age_months\n" +
		"iPhone 15,256,Good,12\n" +
		"Pixel 8,128,Fair,3\n"

	tbl, err := bulk.Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
	for _, r := range tbl.Rows {
		var mfe *domain.MissingFieldError
		require.ErrorAs(t, r.Err, &mfe)
		assert.Equal(t, "battery_health", mfe.Field)
	}
}

func TestRead_HeaderErrors(t *testing.T) {
	t.Parallel()

	_, err := bulk.Read(strings.NewReader(""))
	require.ErrorContains(t, err, "reading csv header")

	_, err = bulk.Read(strings.NewReader("brand,\"storage\n"))
	require.ErrorContains(t, err, "reading csv header")
}

func TestRead_MaxRows(t *testing.T) {
	t.Parallel()

	in := header + strings.Repeat("iPhone 15,256,Good,12,90\n", 3)

	_, err := bulk.Read(strings.NewReader(in), bulk.WithMaxRows(2))
	require.ErrorIs(t, err, bulk.ErrTooManyRows)

	tbl, err := bulk.Read(strings.NewReader(in), bulk.WithMaxRows(3))
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 3)
}

func TestRead_HundredRowsOneBad(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString(header)
	for i := 1; i <= 100; i++ {
		battery := 80 + i%20
		if i == 57 {
			fmt.Fprintf(&b, "Pixel 8,128,Good,%d,abc\n", i%48)
			continue
		}
		fmt.Fprintf(&b, "Pixel 8,128,Good,%d,%d\n", i%48, battery)
	}

	tbl, err := bulk.Read(strings.NewReader(b.String()))
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 100)

	var bad []int
	for i, r := range tbl.Rows {
		if r.Err != nil {
			bad = append(bad, i)
		}
	}
	assert.Equal(t, []int{56}, bad)
	assert.Equal(t, 58, tbl.Rows[56].Line)

	var ife *domain.InvalidFieldError
	require.ErrorAs(t, tbl.Rows[56].Err, &ife)
	assert.Equal(t, "battery_health", ife.Field)
}

func TestWrite(t *testing.T) {
	t.Parallel()

	in := header +
		"iPhone 15,256,Excellent,12,90\n" +
		"Unknown Brand X,128,Good,6,95\n"
	tbl, err := bulk.Read(strings.NewReader(in))
	require.NoError(t, err)

	outcomes := []domain.BatchOutcome{
		{Index: 0, Result: &domain.ValuationResult{
			PredictedPrice: 50000,
			AdjustedPrice:  47500,
			PriceRange:     domain.PriceRange{Low: 40375, High: 54625},
		}},
		{Index: 1, Error: domain.NewValuationError(&domain.UnknownLabelError{Field: "brand", Label: "Unknown Brand X"})},
	}

	tests := []struct {
		name       string
		opts       bulk.WriteOptions
		wantHeader []string
		wantRows   [][]string
	}{
		{
			name: "without range",
			wantHeader: []string{
				"brand", "storage_gb", "condition", "age_months", "battery_health",
				"predicted_price", "adjusted_price", "status", "error",
			},
			wantRows: [][]string{
				{"iPhone 15", "256", "Excellent", "12", "90", "50000", "47500", "ok", ""},
				{"Unknown Brand X", "128", "Good", "6", "95", "", "", "error", `unknown brand label "Unknown Brand X"`},
			},
		},
		{
			name: "with range",
			opts: bulk.WriteOptions{PriceRange: true},
			wantHeader: []string{
				"brand", "storage_gb", "condition", "age_months", "battery_health",
				"predicted_price", "adjusted_price", "price_lower", "price_upper", "status", "error",
			},
			wantRows: [][]string{
				{"iPhone 15", "256", "Excellent", "12", "90", "50000", "47500", "40375", "54625", "ok", ""},
				{"Unknown Brand X", "128", "Good", "6", "95", "", "", "", "", "error", `unknown brand label "Unknown Brand X"`},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, bulk.Write(&buf, tbl, outcomes, tt.opts))

			records, err := csv.NewReader(&buf).ReadAll()
			require.NoError(t, err)
			require.Len(t, records, 3)
			assert.Equal(t, tt.wantHeader, records[0])
			assert.Equal(t, tt.wantRows, records[1:])
		})
	}
}

func TestWrite_MisalignedOutcomes(t *testing.T) {
	t.Parallel()

	tbl, err := bulk.Read(strings.NewReader(header + "iPhone 15,256,Excellent,12,90\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	err = bulk.Write(&buf, tbl, nil, bulk.WriteOptions{})
	require.Error(t, err)
}

func TestReadSales(t *testing.T) {
	t.Parallel()

	in := "brand,storage_gb,condition,age_months,battery_health,price\n" +
		"iPhone 15,256,Excellent,12,90,60000\n" +
		"iPhone 15,128,Good,24,80,45000.6\n" +
		"Pixel 8,128,Good,24,80,\n" +
		"Pixel 8,128,Good,24,80,-10\n" +
		"Pixel 8,999,Good,24,80,30000\n"

	sales, rejected, err := bulk.ReadSales(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, int64(60000), sales[0].Price)
	assert.Equal(t, int64(45001), sales[1].Price)

	require.Len(t, rejected, 3)
	var mfe *domain.MissingFieldError
	require.ErrorAs(t, rejected[0].Err, &mfe)
	assert.Equal(t, "price", mfe.Field)
	assert.Equal(t, 5, rejected[1].Line)
}
