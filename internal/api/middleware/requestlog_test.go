package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		method        string
		path          string
		status        int
		providedReqID string
		wantLogFields []string
	}{
		{
			name:   "logs GET request with generated ID",
			method: http.MethodGet,
			path:   "/api/v1/references",
			status: http.StatusOK,
			wantLogFields: []string{
				"level=INFO",
				"method=GET",
				"path=/api/v1/references",
				"status=200",
				"duration_ms=",
				"request_id=",
			},
		},
		{
			name:   "client error logs at warn",
			method: http.MethodPost,
			path:   "/api/v1/valuations",
			status: http.StatusUnprocessableEntity,
			wantLogFields: []string{
				"level=WARN",
				"method=POST",
				"status=422",
			},
		},
		{
			name:   "server error logs at error",
			method: http.MethodPost,
			path:   "/api/v1/valuations/batch",
			status: http.StatusServiceUnavailable,
			wantLogFields: []string{
				"level=ERROR",
				"status=503",
			},
		},
		{
			name:          "uses provided request ID",
			method:        http.MethodGet,
			path:          "/api/v1/model",
			status:        http.StatusOK,
			providedReqID: "custom-req-id-123",
			wantLogFields: []string{
				"request_id=custom-req-id-123",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			e := echo.New()
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			if tt.providedReqID != "" {
				req.Header.Set(requestIDHeader, tt.providedReqID)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := RequestLog(logger)(func(c echo.Context) error {
				return c.NoContent(tt.status)
			})

			err := handler(c)
			require.NoError(t, err)

			logOutput := buf.String()
			for _, field := range tt.wantLogFields {
				assert.Contains(t, logOutput, field)
			}

			respID := rec.Header().Get(requestIDHeader)
			assert.NotEmpty(t, respID)

			if tt.providedReqID != "" {
				assert.Equal(t, tt.providedReqID, respID)
			}

			assert.Equal(t, respID, RequestID(c))
		})
	}
}

func TestRequestLog_HandlerErrorIsRendered(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/missing", http.NoBody), rec)

	handler := RequestLog(logger)(func(_ echo.Context) error {
		return echo.ErrNotFound
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, buf.String(), "status=404")
}

func TestRequestLog_HealthLoggedOnChange(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	status := http.StatusOK
	handler := RequestLog(logger)(func(c echo.Context) error {
		return c.NoContent(status)
	})

	hit := func() {
		req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
		require.NoError(t, handler(e.NewContext(req, httptest.NewRecorder())))
	}

	// First request: should be logged.
	hit()
	assert.Contains(t, buf.String(), "path=/healthz")
	assert.Contains(t, buf.String(), "status=200")
	firstLogLen := buf.Len()

	// Repeated success: suppressed.
	hit()
	hit()
	assert.Equal(t, firstLogLen, buf.Len(), "repeated successful checks should not log")

	// Transition to failure: logged.
	status = http.StatusServiceUnavailable
	hit()
	assert.Greater(t, buf.Len(), firstLogLen)
	assert.Contains(t, buf.String(), "status=503")
}
