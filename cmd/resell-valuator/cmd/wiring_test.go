package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/resell-valuator/internal/config"
	"github.com/donaldgifford/resell-valuator/internal/notify"
	"github.com/donaldgifford/resell-valuator/pkg/logger"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

func TestPricingFromConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		cfg          config.PricingConfig
		wantBrackets map[int]int64
		wantPerGB    int64
	}{
		{
			name: "brackets",
			cfg: config.PricingConfig{
				Margin:            0.2,
				DamageMultipliers: map[string]float64{"None": 1, "Minor": 0.9, "Moderate": 0.8, "Significant": 0.6},
				StoragePremium:    config.StoragePremiumConfig{Brackets: map[int]int64{128: 4000}},
			},
			wantBrackets: map[int]int64{128: 4000},
		},
		{
			name: "per gb replaces brackets",
			cfg: config.PricingConfig{
				Margin:            0.2,
				DamageMultipliers: map[string]float64{"None": 1, "Minor": 0.9, "Moderate": 0.8, "Significant": 0.6},
				StoragePremium:    config.StoragePremiumConfig{Brackets: map[int]int64{128: 4000}, PerGB: 40},
			},
			wantPerGB: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := pricingFromConfig(&tt.cfg)
			require.NoError(t, p.Validate())
			assert.InDelta(t, 0.2, p.Margin, 1e-12)
			assert.InDelta(t, 0.9, p.DamageMultipliers[domain.DamageMinor], 1e-12)
			assert.Equal(t, tt.wantPerGB, p.StoragePremium.PerGB)
			if tt.wantBrackets == nil {
				assert.Empty(t, p.StoragePremium.Brackets)
			} else {
				assert.Equal(t, tt.wantBrackets, p.StoragePremium.Brackets)
			}
		})
	}
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := printSummary(&buf, &domain.BatchSummary{
		Total:       100,
		Succeeded:   99,
		Failed:      1,
		FailedKinds: map[string]int{"invalid_field": 1},
		MinPrice:    10000,
		MaxPrice:    90000,
		MeanPrice:   41234.5,
		MedianPrice: 40000,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Succeeded:")
	assert.Contains(t, out, "99")
	assert.Contains(t, out, "invalid_field=1")
	assert.Contains(t, out, "41234.50")
}

func TestStorageList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "-", storageList(nil))
	assert.Equal(t, "128GB,256GB", storageList([]int{128, 256}))
}

func TestNewNotifier(t *testing.T) {
	t.Parallel()

	n := newNotifier(&config.NotificationsConfig{}, logger.Discard())
	assert.IsType(t, &notify.NoOpNotifier{}, n)

	n = newNotifier(&config.NotificationsConfig{
		Discord: config.DiscordConfig{Enabled: true, WebhookURL: "https://discord.example/webhook"},
	}, logger.Discard())
	assert.IsType(t, &notify.DiscordNotifier{}, n)
}
