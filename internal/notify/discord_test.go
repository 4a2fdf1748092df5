package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/resell-valuator/internal/metrics"
)

func testAlert(price int64) AlertPayload {
	return AlertPayload{
		WatchName:   "Cheap iPhone",
		Device:      "iPhone 15 256GB Excellent, 12 months, 85% battery",
		Price:       price,
		TargetPrice: 50000,
		TriggeredAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestAlertPayload_BelowTargetPct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		price, target int64
		want          int
	}{
		{price: 40000, target: 50000, want: 20},
		{price: 49999, target: 50000, want: 0},
		{price: 50000, target: 50000, want: 0},
		{price: 60000, target: 50000, want: 0},
		{price: 100, target: 0, want: 0},
	}
	for _, tt := range tests {
		a := AlertPayload{Price: tt.price, TargetPrice: tt.target}
		assert.Equal(t, tt.want, a.BelowTargetPct(), "price %d target %d", tt.price, tt.target)
	}
}

func TestDiscordNotifier_SendAlert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		alert      AlertPayload
		statusCode int
		retryAfter string
		wantErr    bool
		errMsg     string
		wantColor  int
		wantUnder  string
	}{
		{
			name:       "far under target is green",
			alert:      testAlert(38000),
			statusCode: http.StatusNoContent,
			wantColor:  colorGreen,
			wantUnder:  "24%",
		},
		{
			name:       "moderately under target is yellow",
			alert:      testAlert(44000),
			statusCode: http.StatusNoContent,
			wantColor:  colorYellow,
			wantUnder:  "12%",
		},
		{
			name:       "at target is orange",
			alert:      testAlert(50000),
			statusCode: http.StatusNoContent,
			wantColor:  colorOrange,
			wantUnder:  "0%",
		},
		{
			name:       "discord returns 429 rate limited",
			alert:      testAlert(44000),
			statusCode: http.StatusTooManyRequests,
			wantErr:    true,
			errMsg:     "rate limited",
		},
		{
			name:       "429 reports retry after",
			alert:      testAlert(44000),
			statusCode: http.StatusTooManyRequests,
			retryAfter: "3",
			wantErr:    true,
			errMsg:     "retry after 3s",
		},
		{
			name:       "discord returns 400 error",
			alert:      testAlert(44000),
			statusCode: http.StatusBadRequest,
			wantErr:    true,
			errMsg:     "discord returned 400",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var received discordWebhookPayload

			srv := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
					assert.Equal(t, http.MethodPost, r.Method)

					err := json.NewDecoder(r.Body).Decode(&received)
					assert.NoError(t, err)

					if tt.retryAfter != "" {
						w.Header().Set("Retry-After", tt.retryAfter)
					}
					w.WriteHeader(tt.statusCode)
				}),
			)
			defer srv.Close()

			d := NewDiscordNotifier(srv.URL)
			err := d.SendAlert(context.Background(), &tt.alert)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			require.Len(t, received.Embeds, 1)

			embed := received.Embeds[0]
			assert.Equal(t, tt.wantColor, embed.Color)
			assert.Contains(t, embed.Title, tt.alert.WatchName)
			assert.Equal(t, tt.alert.Device, embed.Description)
			assert.Equal(t, "2026-03-01T09:30:00Z", embed.Timestamp)

			fieldMap := make(map[string]string)
			for _, f := range embed.Fields {
				fieldMap[f.Name] = f.Value
			}
			assert.Equal(t, "50000", fieldMap["Target"])
			assert.Equal(t, tt.wantUnder, fieldMap["Under Target"])
		})
	}
}

func TestDiscordNotifier_SendBatchAlert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		count      int
		wantEmbeds int
		wantLast   string
	}{
		{name: "small batch", count: 3, wantEmbeds: 3},
		{name: "exactly the embed limit", count: 10, wantEmbeds: 10},
		{name: "overflow is summarized", count: 13, wantEmbeds: 11, wantLast: "... and 3 more alerts for Cheap iPhone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var received discordWebhookPayload
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				err := json.NewDecoder(r.Body).Decode(&received)
				assert.NoError(t, err)
				w.WriteHeader(http.StatusNoContent)
			}))
			defer srv.Close()

			alerts := make([]AlertPayload, tt.count)
			for i := range alerts {
				alerts[i] = testAlert(int64(40000 + i*100))
			}

			d := NewDiscordNotifier(srv.URL)
			require.NoError(t, d.SendBatchAlert(context.Background(), alerts, "Cheap iPhone"))

			require.Len(t, received.Embeds, tt.wantEmbeds)
			if tt.wantLast != "" {
				assert.Equal(t, tt.wantLast, received.Embeds[len(received.Embeds)-1].Title)
			}
		})
	}
}

func TestDiscordNotifier_NetworkError(t *testing.T) {
	t.Parallel()

	d := NewDiscordNotifier("http://127.0.0.1:1")
	alert := testAlert(44000)
	err := d.SendAlert(context.Background(), &alert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending discord webhook")
}

func TestDiscordNotifier_InvalidWebhookURL(t *testing.T) {
	t.Parallel()

	d := NewDiscordNotifier("://not-a-valid-url")
	alert := testAlert(44000)
	err := d.SendAlert(context.Background(), &alert)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating discord request")
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	d := NewDiscordNotifier("https://example.com", WithHTTPClient(custom))
	assert.Same(t, custom, d.client)
}

func notificationSampleCount() uint64 {
	ch := make(chan prometheus.Metric, 1)
	metrics.NotificationDuration.Collect(ch)
	m := <-ch
	pb := &dto.Metric{}
	_ = m.Write(pb)
	return pb.GetHistogram().GetSampleCount()
}

func TestSendAlert_ObservesNotificationDuration(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	before := notificationSampleCount()

	alert := testAlert(44000)
	require.NoError(t, NewDiscordNotifier(srv.URL).SendAlert(context.Background(), &alert))

	assert.Greater(t, notificationSampleCount(), before)
}
