package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/resell-valuator/internal/notify"
	notifyMocks "github.com/donaldgifford/resell-valuator/internal/notify/mocks"
	"github.com/donaldgifford/resell-valuator/internal/store"
	storeMocks "github.com/donaldgifford/resell-valuator/internal/store/mocks"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// iphoneWatch values at 60000 with the test model.
func iphoneWatch(id string, target int64, triggered bool) domain.PriceWatch {
	return domain.PriceWatch{
		ID:            id,
		Name:          "watch " + id,
		Brand:         "iPhone 15",
		StorageGB:     256,
		Condition:     "Excellent",
		AgeMonths:     12,
		BatteryHealth: 85,
		DamageLevel:   domain.DamageNone,
		TargetPrice:   target,
		Enabled:       true,
		Triggered:     triggered,
	}
}

func TestWatchChecker_Check(t *testing.T) {
	t.Parallel()

	unknown := iphoneWatch("w4", 90000, false)
	unknown.Brand = "Nokia 3310"

	ms := storeMocks.NewMockStore(t)
	ms.EXPECT().
		ListWatches(mock.Anything, true).
		Return([]domain.PriceWatch{
			iphoneWatch("w1", 65000, false),
			iphoneWatch("w2", 55000, false),
			iphoneWatch("w3", 70000, true),
			unknown,
		}, nil).
		Once()

	ms.EXPECT().
		CreateWatchAlert(mock.Anything, mock.MatchedBy(func(a *domain.WatchAlert) bool {
			return a.WatchID == "w1" && a.Price == 60000 && a.TargetPrice == 65000
		})).
		Return(nil).
		Once()
	ms.EXPECT().RecordWatchCheck(mock.Anything, "w1", int64(60000), true).Return(nil).Once()
	ms.EXPECT().RecordWatchCheck(mock.Anything, "w2", int64(60000), false).Return(nil).Once()
	ms.EXPECT().RecordWatchCheck(mock.Anything, "w3", int64(60000), true).Return(nil).Once()

	c := NewWatchChecker(newTestEngine(t), ms, notifyMocks.NewMockNotifier(t), quietLogger())
	res, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.WatchCheck{Checked: 3, Triggered: 1, Failed: 1}, res)
}

func TestWatchChecker_Check_AlertFailureSkipsRecord(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	ms.EXPECT().
		ListWatches(mock.Anything, true).
		Return([]domain.PriceWatch{iphoneWatch("w1", 65000, false)}, nil).
		Once()
	ms.EXPECT().
		CreateWatchAlert(mock.Anything, mock.Anything).
		Return(errors.New("db down")).
		Once()

	c := NewWatchChecker(newTestEngine(t), ms, nil, quietLogger())
	res, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.WatchCheck{Failed: 1}, res)
}

func TestWatchChecker_Check_ListError(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	ms.EXPECT().ListWatches(mock.Anything, true).Return(nil, errors.New("db down")).Once()

	c := NewWatchChecker(newTestEngine(t), ms, nil, quietLogger())
	_, err := c.Check(context.Background())
	require.ErrorContains(t, err, "listing watches")
}

func pendingAlerts(watchID string, n int) []domain.WatchAlert {
	alerts := make([]domain.WatchAlert, n)
	for i := range alerts {
		alerts[i] = domain.WatchAlert{
			ID:          fmt.Sprintf("%s-a%d", watchID, i),
			WatchID:     watchID,
			Price:       60000,
			TargetPrice: 65000,
			CreatedAt:   time.Date(2026, 3, 1, 9, 0, i, 0, time.UTC),
		}
	}
	return alerts
}

func TestWatchChecker_ProcessAlerts(t *testing.T) {
	t.Parallel()

	single := iphoneWatch("w1", 65000, true)
	batch := iphoneWatch("w2", 65000, true)
	batch.Name = "Batch Watch"

	tests := []struct {
		name     string
		pending  []domain.WatchAlert
		setup    func(*storeMocks.MockStore, *notifyMocks.MockNotifier)
		wantSent int
		wantErr  string
	}{
		{
			name:     "nothing pending",
			setup:    func(*storeMocks.MockStore, *notifyMocks.MockNotifier) {},
			wantSent: 0,
		},
		{
			name:    "few alerts go singly, many as a batch",
			pending: append(pendingAlerts("w1", 2), pendingAlerts("w2", 5)...),
			setup: func(ms *storeMocks.MockStore, mn *notifyMocks.MockNotifier) {
				ms.EXPECT().GetWatch(mock.Anything, "w1").Return(&single, nil).Once()
				ms.EXPECT().GetWatch(mock.Anything, "w2").Return(&batch, nil).Once()

				mn.EXPECT().
					SendAlert(mock.Anything, mock.MatchedBy(func(p *notify.AlertPayload) bool {
						return p.WatchName == "watch w1" &&
							p.Device == "iPhone 15 256GB Excellent, 12 months, 85% battery" &&
							p.Price == 60000 && p.TargetPrice == 65000
					})).
					Return(nil).
					Twice()
				ms.EXPECT().MarkAlertsNotified(mock.Anything, []string{"w1-a0"}).Return(nil).Once()
				ms.EXPECT().MarkAlertsNotified(mock.Anything, []string{"w1-a1"}).Return(nil).Once()

				mn.EXPECT().
					SendBatchAlert(mock.Anything, mock.MatchedBy(func(ps []notify.AlertPayload) bool {
						return len(ps) == 5
					}), "Batch Watch").
					Return(nil).
					Once()
				ms.EXPECT().
					MarkAlertsNotified(mock.Anything, []string{"w2-a0", "w2-a1", "w2-a2", "w2-a3", "w2-a4"}).
					Return(nil).
					Once()
			},
			wantSent: 7,
		},
		{
			name:    "failed notification stays pending",
			pending: pendingAlerts("w1", 1),
			setup: func(ms *storeMocks.MockStore, mn *notifyMocks.MockNotifier) {
				ms.EXPECT().GetWatch(mock.Anything, "w1").Return(&single, nil).Once()
				mn.EXPECT().SendAlert(mock.Anything, mock.Anything).Return(errors.New("rate limited")).Once()
			},
			wantSent: 0,
		},
		{
			name:    "deleted watch is skipped",
			pending: pendingAlerts("gone", 1),
			setup: func(ms *storeMocks.MockStore, _ *notifyMocks.MockNotifier) {
				ms.EXPECT().
					GetWatch(mock.Anything, "gone").
					Return(nil, fmt.Errorf("watch gone: %w", store.ErrNotFound)).
					Once()
			},
			wantSent: 0,
		},
		{
			name:    "store failure aborts",
			pending: pendingAlerts("w1", 1),
			setup: func(ms *storeMocks.MockStore, _ *notifyMocks.MockNotifier) {
				ms.EXPECT().GetWatch(mock.Anything, "w1").Return(nil, errors.New("db down")).Once()
			},
			wantErr: "getting watch w1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ms := storeMocks.NewMockStore(t)
			mn := notifyMocks.NewMockNotifier(t)
			ms.EXPECT().ListPendingAlerts(mock.Anything).Return(tt.pending, nil).Once()
			tt.setup(ms, mn)

			c := NewWatchChecker(newTestEngine(t), ms, mn, quietLogger())
			sent, err := c.ProcessAlerts(context.Background())
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSent, sent)
		})
	}
}

func TestDescribeWatch(t *testing.T) {
	t.Parallel()

	w := iphoneWatch("w1", 1, false)
	assert.Equal(t, "iPhone 15 256GB Excellent, 12 months, 85% battery", describeWatch(&w))

	w.DamageLevel = domain.DamageModerate
	assert.Equal(t, "iPhone 15 256GB Excellent, 12 months, 85% battery, moderate damage", describeWatch(&w))
}
