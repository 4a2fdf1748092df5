package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() DeviceRecord {
	return DeviceRecord{
		Brand:         "Pixel 8",
		StorageGB:     128,
		Condition:     ConditionGood,
		AgeMonths:     6,
		BatteryHealth: 92,
	}
}

func TestDeviceRecord_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*DeviceRecord)
		wantKind  ErrorKind
		wantField string
	}{
		{name: "valid", mutate: func(*DeviceRecord) {}},
		{name: "empty damage is none", mutate: func(r *DeviceRecord) { r.DamageLevel = "" }},
		{name: "battery bounds inclusive", mutate: func(r *DeviceRecord) { r.BatteryHealth = 100 }},
		{
			name:      "missing brand",
			mutate:    func(r *DeviceRecord) { r.Brand = "" },
			wantKind:  KindMissingField,
			wantField: "brand",
		},
		{
			name:      "missing condition",
			mutate:    func(r *DeviceRecord) { r.Condition = "" },
			wantKind:  KindMissingField,
			wantField: "condition",
		},
		{
			name:      "unsupported storage",
			mutate:    func(r *DeviceRecord) { r.StorageGB = 100 },
			wantKind:  KindInvalidField,
			wantField: "storage_gb",
		},
		{
			name:      "negative age",
			mutate:    func(r *DeviceRecord) { r.AgeMonths = -1 },
			wantKind:  KindInvalidField,
			wantField: "age_months",
		},
		{
			name:      "battery above 100",
			mutate:    func(r *DeviceRecord) { r.BatteryHealth = 101 },
			wantKind:  KindInvalidField,
			wantField: "battery_health",
		},
		{
			name:      "unknown damage",
			mutate:    func(r *DeviceRecord) { r.DamageLevel = "Shattered" },
			wantKind:  KindInvalidField,
			wantField: "damage_level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := validRecord()
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantKind == "" {
				require.NoError(t, err)
				return
			}
			ve := NewValuationError(err)
			require.NotNil(t, ve)
			assert.Equal(t, tt.wantKind, ve.Kind)
			assert.Equal(t, tt.wantField, ve.Field)
			assert.True(t, ve.BadInput())
		})
	}
}

func TestDeviceRecord_Damage(t *testing.T) {
	t.Parallel()

	r := validRecord()
	assert.Equal(t, DamageNone, r.Damage())
	r.DamageLevel = DamageModerate
	assert.Equal(t, DamageModerate, r.Damage())
}

func TestNewValuationError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		wantKind  ErrorKind
		wantField string
		badInput  bool
	}{
		{
			name:      "unknown label",
			err:       &UnknownLabelError{Field: "brand", Label: "Nokia 3310"},
			wantKind:  KindUnknownLabel,
			wantField: "brand",
			badInput:  true,
		},
		{
			name:      "wrapped missing field",
			err:       fmt.Errorf("row 3: %w", &MissingFieldError{Field: "condition"}),
			wantKind:  KindMissingField,
			wantField: "condition",
			badInput:  true,
		},
		{
			name:     "schema mismatch",
			err:      &SchemaMismatchError{Expected: "basic", Actual: "extended"},
			wantKind: KindSchemaMismatch,
		},
		{
			name:     "model unavailable",
			err:      &ModelUnavailableError{Path: "model.json", Err: errors.New("gone")},
			wantKind: KindModelUnavailable,
		},
		{
			name:     "anything else",
			err:      errors.New("boom"),
			wantKind: KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ve := NewValuationError(tt.err)
			require.NotNil(t, ve)
			assert.Equal(t, tt.wantKind, ve.Kind)
			assert.Equal(t, tt.wantField, ve.Field)
			assert.Equal(t, tt.badInput, ve.BadInput())
			assert.Equal(t, tt.err.Error(), ve.Error())
			assert.ErrorIs(t, ve, tt.err)
		})
	}

	assert.Nil(t, NewValuationError(nil))

	existing := &ValuationError{Kind: KindInvalidField, Field: "margin", Message: "bad"}
	assert.Same(t, existing, NewValuationError(fmt.Errorf("wrapped: %w", existing)))
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `unknown brand label "Nokia"`, (&UnknownLabelError{Field: "brand", Label: "Nokia"}).Error())
	assert.Equal(t, `missing required field "brand"`, (&MissingFieldError{Field: "brand"}).Error())
	assert.Equal(t,
		`schema mismatch: expected "basic", got "extended": encoder differs`,
		(&SchemaMismatchError{Expected: "basic", Actual: "extended", Detail: "encoder differs"}).Error(),
	)
	assert.Equal(t,
		`invalid battery_health "abc": not an integer`,
		(&InvalidFieldError{Field: "battery_health", Value: "abc", Reason: "not an integer"}).Error(),
	)
}

func TestNewValuationRun(t *testing.T) {
	t.Parallel()

	started := time.Now().Add(-time.Second)
	run := NewValuationRun("run-1", RunSourceBulk, started, &BatchSummary{
		Total: 3, Succeeded: 2, Failed: 1, MinPrice: 10, MaxPrice: 30, MeanPrice: 20, MedianPrice: 20,
	})

	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, RunSourceBulk, run.Source)
	assert.Equal(t, 2, run.Succeeded)
	assert.Equal(t, started, run.StartedAt)
	require.NotNil(t, run.CompletedAt)
	assert.False(t, run.CompletedAt.Before(started))
}

func TestBatchOutcome_OK(t *testing.T) {
	t.Parallel()

	assert.True(t, (&BatchOutcome{Result: &ValuationResult{}}).OK())
	assert.False(t, (&BatchOutcome{Error: &ValuationError{}}).OK())
	assert.False(t, (&BatchOutcome{}).OK())
}
