package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mw "github.com/donaldgifford/resell-valuator/internal/api/middleware"
	"github.com/donaldgifford/resell-valuator/internal/metrics"
)

func TestMetricsMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		route      string
		target     string
		handler    echo.HandlerFunc
		wantStatus int
	}{
		{
			name:   "records 200 response",
			method: http.MethodPost,
			route:  "/api/v1/valuations",
			target: "/api/v1/valuations",
			handler: func(c echo.Context) error {
				return c.JSON(http.StatusOK, map[string]int{"predicted_price": 1})
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "labels by route template",
			method: http.MethodGet,
			route:  "/api/v1/references/:brand",
			target: "/api/v1/references/Pixel%208",
			handler: func(c echo.Context) error {
				return c.NoContent(http.StatusNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "records 422 response",
			method: http.MethodPost,
			route:  "/api/v1/valuations/batch",
			target: "/api/v1/valuations/batch",
			handler: func(c echo.Context) error {
				return c.NoContent(http.StatusUnprocessableEntity)
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.Use(mw.Metrics())
			e.Add(tt.method, tt.route, tt.handler)

			req := httptest.NewRequest(tt.method, tt.target, http.NoBody)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			statusStr := strconv.Itoa(tt.wantStatus)

			counter, err := metrics.HTTPRequestsTotal.GetMetricWithLabelValues(
				tt.method, tt.route, statusStr,
			)
			require.NoError(t, err)

			m := &io_prometheus_client.Metric{}
			require.NoError(t, counter.Write(m))
			assert.Greater(t, m.GetCounter().GetValue(), float64(0))

			observer, err := metrics.HTTPRequestDuration.GetMetricWithLabelValues(
				tt.method, tt.route, statusStr,
			)
			require.NoError(t, err)

			hm := &io_prometheus_client.Metric{}
			require.NoError(t, observer.(prometheus.Metric).Write(hm))
			assert.Positive(t, hm.GetHistogram().GetSampleCount())
		})
	}
}

func TestMetricsMiddleware_HealthGauges(t *testing.T) {
	e := echo.New()
	e.Use(mw.Metrics())

	healthy := true
	e.GET("/readyz", func(c echo.Context) error {
		if healthy {
			return c.NoContent(http.StatusOK)
		}
		return c.NoContent(http.StatusServiceUnavailable)
	})

	before := ptestutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/readyz", "200"))

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody))
	assert.InDelta(t, 1.0, ptestutil.ToFloat64(metrics.ReadyzUp), 0)

	healthy = false
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody))
	assert.InDelta(t, 0.0, ptestutil.ToFloat64(metrics.ReadyzUp), 0)

	after := ptestutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/readyz", "200"))
	assert.InDelta(t, before, after, 0, "health requests are not counted")
}
