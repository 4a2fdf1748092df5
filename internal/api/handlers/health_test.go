package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/resell-valuator/internal/api/handlers"
	"github.com/donaldgifford/resell-valuator/internal/store/mocks"
)

func TestHealthz(t *testing.T) {
	t.Parallel()

	h := handlers.NewHealthHandler(nil, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Healthz(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyz(t *testing.T) {
	t.Parallel()

	ready := func() bool { return true }
	notReady := func() bool { return false }

	tests := []struct {
		name       string
		ready      func() bool
		withDB     bool
		pingErr    error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "artifacts loaded without database",
			ready:      ready,
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready","checks":{"artifacts":"ok"}}`,
		},
		{
			name:       "artifacts loaded and store ping succeeds",
			ready:      ready,
			withDB:     true,
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready","checks":{"artifacts":"ok","database":"ok"}}`,
		},
		{
			name:       "store ping fails",
			ready:      ready,
			withDB:     true,
			pingErr:    errors.New("connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"unavailable","checks":{"artifacts":"ok","database":"connection refused"}}`,
		},
		{
			name:       "artifacts not loaded",
			ready:      notReady,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"unavailable","checks":{"artifacts":"not loaded"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var h *handlers.HealthHandler
			if tt.withDB {
				mockStore := mocks.NewMockStore(t)
				mockStore.EXPECT().Ping(mock.Anything).Return(tt.pingErr)
				h = handlers.NewHealthHandler(tt.ready, mockStore)
			} else {
				h = handlers.NewHealthHandler(tt.ready, nil)
			}

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := h.Readyz(c)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
