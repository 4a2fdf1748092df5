package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDeviceRecord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		want      DeviceRecord
		wantKind  ErrorKind
		wantField string
	}{
		{
			name:  "full record",
			input: `{"brand":"Pixel 8","storage_gb":128,"condition":"Good","age_months":6,"battery_health":92,"damage_level":"Minor"}`,
			want: DeviceRecord{
				Brand:         "Pixel 8",
				StorageGB:     128,
				Condition:     ConditionGood,
				AgeMonths:     6,
				BatteryHealth: 92,
				DamageLevel:   DamageMinor,
			},
		},
		{
			name:      "missing age",
			input:     `{"brand":"Pixel 8","storage_gb":128,"condition":"Good","battery_health":92}`,
			wantKind:  KindMissingField,
			wantField: "age_months",
		},
		{
			name:      "null brand",
			input:     `{"brand":null,"storage_gb":128,"condition":"Good","age_months":6,"battery_health":92}`,
			wantKind:  KindMissingField,
			wantField: "brand",
		},
		{
			name:      "string where a number belongs",
			input:     `{"brand":"Pixel 8","storage_gb":"lots","condition":"Good","age_months":6,"battery_health":92}`,
			wantKind:  KindInvalidField,
			wantField: "storage_gb",
		},
		{
			name:      "fractional battery",
			input:     `{"brand":"Pixel 8","storage_gb":128,"condition":"Good","age_months":6,"battery_health":91.5}`,
			wantKind:  KindInvalidField,
			wantField: "battery_health",
		},
		{
			name:      "not an object",
			input:     `42`,
			wantKind:  KindInvalidField,
			wantField: "record",
		},
		{
			name:      "null record",
			input:     `null`,
			wantKind:  KindInvalidField,
			wantField: "record",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DecodeDeviceRecord([]byte(tt.input))
			if tt.wantKind == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}

			require.Error(t, err)
			ve := NewValuationError(err)
			assert.Equal(t, tt.wantKind, ve.Kind)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}
