package handlers_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/resell-valuator/internal/api/handlers"
	"github.com/donaldgifford/resell-valuator/internal/store"
	"github.com/donaldgifford/resell-valuator/internal/store/mocks"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

func TestRunsHandler_List(t *testing.T) {
	t.Parallel()

	started := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		path       string
		setupMock  func(*mocks.MockStore)
		wantStatus int
		wantBody   []string
	}{
		{
			name: "returns runs with total",
			path: "/api/v1/runs",
			setupMock: func(m *mocks.MockStore) {
				m.EXPECT().
					ListValuationRuns(mock.Anything, &store.RunQuery{}).
					Return([]domain.ValuationRun{
						{ID: "run-1", Source: domain.RunSourceBulk, Total: 100, Succeeded: 99, Failed: 1, StartedAt: started},
					}, 1, nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"id":"run-1"`, `"total":1`, `"source":"bulk"`},
		},
		{
			name: "passes filters through",
			path: "/api/v1/runs?source=api&since=2026-09-01T00:00:00Z&limit=10&offset=20",
			setupMock: func(m *mocks.MockStore) {
				m.EXPECT().
					ListValuationRuns(mock.Anything, mock.MatchedBy(func(q *store.RunQuery) bool {
						return q.Source != nil && *q.Source == "api" &&
							q.Since != nil && q.Since.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)) &&
							q.Limit == 10 && q.Offset == 20
					})).
					Return(nil, 0, nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"runs":[]`, `"limit":10`, `"offset":20`},
		},
		{
			name:       "invalid since",
			path:       "/api/v1/runs?since=yesterday",
			setupMock:  func(_ *mocks.MockStore) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   []string{`query.since`},
		},
		{
			name: "store error returns 500",
			path: "/api/v1/runs",
			setupMock: func(m *mocks.MockStore) {
				m.EXPECT().
					ListValuationRuns(mock.Anything, mock.Anything).
					Return(nil, 0, errors.New("db down")).
					Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   []string{`listing runs failed`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ms := mocks.NewMockStore(t)
			tt.setupMock(ms)

			_, api := humatest.New(t)
			handlers.RegisterRunRoutes(api, handlers.NewRunsHandler(ms))

			resp := api.Get(tt.path)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			for _, want := range tt.wantBody {
				assert.Contains(t, resp.Body.String(), want)
			}
		})
	}
}
