package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/resell-valuator/internal/api/handlers"
	"github.com/donaldgifford/resell-valuator/internal/market"
	"github.com/donaldgifford/resell-valuator/internal/store"
	"github.com/donaldgifford/resell-valuator/internal/store/mocks"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

func stats(segment string, count int, avg float64) domain.SegmentStats {
	return domain.SegmentStats{
		Segment:    segment,
		PriceStats: domain.PriceStats{Count: count, Avg: avg, Median: avg, Min: int64(avg), Max: int64(avg)},
	}
}

func onDimension(d store.Dimension) any {
	return mock.MatchedBy(func(q *store.SegmentQuery) bool { return q.Dimension == d })
}

func TestMarketHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		setupMock  func(*mocks.MockStore)
		wantStatus int
		wantBody   []string
	}{
		{
			name: "summary counts reference brands",
			path: "/api/v1/market/summary",
			setupMock: func(m *mocks.MockStore) {
				m.EXPECT().
					MarketSummary(mock.Anything).
					Return(&domain.MarketSummary{
						PriceStats: domain.PriceStats{Count: 12, Avg: 45000},
						Brands:     3,
						Conditions: []string{"Excellent", "Good"},
					}, nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"count":12`, `"reference_brands":2`, `"conditions":["Excellent","Good"]`},
		},
		{
			name: "brand trend with retention",
			path: "/api/v1/market/brands/iPhone%2015/trend",
			setupMock: func(m *mocks.MockStore) {
				m.EXPECT().
					SegmentStats(mock.Anything, mock.MatchedBy(func(q *store.SegmentQuery) bool {
						return q.Brand != nil && *q.Brand == "iPhone 15"
					})).
					Return([]domain.SegmentStats{stats("iPhone 15", 4, 52000)}, nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"brand":"iPhone 15"`, `"mrp":80000`, `"retention_pct":65`},
		},
		{
			name: "brand trend without sales",
			path: "/api/v1/market/brands/Pixel%208/trend",
			setupMock: func(m *mocks.MockStore) {
				m.EXPECT().SegmentStats(mock.Anything, mock.Anything).Return(nil, nil).Once()
			},
			wantStatus: http.StatusNotFound,
			wantBody:   []string{`no recorded sales`},
		},
		{
			name: "brand storage premium",
			path: "/api/v1/market/brands/Pixel%208/storage-premium",
			setupMock: func(m *mocks.MockStore) {
				m.EXPECT().
					SegmentStats(mock.Anything, onDimension(store.DimensionStorage)).
					Return([]domain.SegmentStats{stats("64", 2, 30000), stats("128", 3, 34000)}, nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"brand":"Pixel 8"`, `"base_avg_price":30000`, `"premium":4000`},
		},
		{
			name: "market storage premium",
			path: "/api/v1/market/storage-premium",
			setupMock: func(m *mocks.MockStore) {
				m.EXPECT().
					SegmentStats(mock.Anything, mock.MatchedBy(func(q *store.SegmentQuery) bool {
						return q.Dimension == store.DimensionStorage && q.Brand == nil
					})).
					Return([]domain.SegmentStats{stats("64", 2, 30000), stats("256", 1, 45000)}, nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"storage_gb":256`, `"premium":15000`},
		},
		{
			name: "condition breakdown",
			path: "/api/v1/market/breakdown/condition",
			setupMock: func(m *mocks.MockStore) {
				m.EXPECT().
					SegmentStats(mock.Anything, onDimension(store.DimensionCondition)).
					Return([]domain.SegmentStats{stats("Good", 1, 40000), stats("Excellent", 1, 60000)}, nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"dimension":"condition"`, `"overall_avg_price":50000`, `"impact_pct":-20`, `"impact_pct":20`},
		},
		{
			name:       "unknown breakdown dimension",
			path:       "/api/v1/market/breakdown/colour",
			setupMock:  func(_ *mocks.MockStore) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "retention",
			path: "/api/v1/market/retention",
			setupMock: func(m *mocks.MockStore) {
				m.EXPECT().
					SegmentStats(mock.Anything, onDimension(store.DimensionBrand)).
					Return([]domain.SegmentStats{stats("iPhone 15", 2, 60000), stats("Samsung S23", 1, 30000)}, nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"brand":"iPhone 15"`, `"retention_pct":75`},
		},
		{
			name: "similar sales",
			path: "/api/v1/market/similar?brand=iPhone%2015&storage_gb=256&condition=Excellent&limit=2",
			setupMock: func(m *mocks.MockStore) {
				m.EXPECT().
					SimilarSales(mock.Anything, &store.SimilarQuery{
						Brand: "iPhone 15", StorageGB: 256, Condition: "Excellent", Limit: 2,
					}).
					Return([]domain.SaleRecord{{Price: 58000}}, nil).
					Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   []string{`58000`},
		},
		{
			name:       "similar sales need a brand",
			path:       "/api/v1/market/similar?storage_gb=256&condition=Excellent",
			setupMock:  func(_ *mocks.MockStore) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "store error",
			path: "/api/v1/market/summary",
			setupMock: func(m *mocks.MockStore) {
				m.EXPECT().MarketSummary(mock.Anything).Return(nil, errors.New("db down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   []string{`market query failed`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ms := mocks.NewMockStore(t)
			tt.setupMock(ms)

			_, api := humatest.New(t)
			handlers.RegisterMarketRoutes(api, handlers.NewMarketHandler(market.NewAnalyzer(ms, testReferences(t))))

			resp := api.Get(tt.path)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			for _, want := range tt.wantBody {
				assert.Contains(t, resp.Body.String(), want)
			}
		})
	}
}
