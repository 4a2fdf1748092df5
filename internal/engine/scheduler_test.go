package engine

import (
	"testing"
	"time"

	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/resell-valuator/internal/metrics"
	storeMocks "github.com/donaldgifford/resell-valuator/internal/store/mocks"
)

func newTestScheduler(t *testing.T, refresh, watches time.Duration) *Scheduler {
	t.Helper()
	ms := storeMocks.NewMockStore(t)
	sched, err := NewScheduler(Schedule{
		Refresher:       NewReferenceRefresher(ms, testReferences(t), 1.2, quietLogger()),
		RefreshInterval: refresh,
		Watches:         NewWatchChecker(newTestEngine(t), ms, nil, quietLogger()),
		WatchInterval:   watches,
	}, quietLogger())
	require.NoError(t, err)
	return sched
}

func TestNewScheduler_RegistersCronEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		refresh       time.Duration
		watches       time.Duration
		wantEntries   int
		wantRefreshID bool
		wantWatchID   bool
	}{
		{name: "both jobs", refresh: 6 * time.Hour, watches: time.Hour, wantEntries: 2, wantRefreshID: true, wantWatchID: true},
		{name: "refresh only", refresh: 6 * time.Hour, wantEntries: 1, wantRefreshID: true},
		{name: "watches only", watches: 30 * time.Minute, wantEntries: 1, wantWatchID: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sched := newTestScheduler(t, tt.refresh, tt.watches)
			assert.Len(t, sched.Entries(), tt.wantEntries)
			assert.Equal(t, tt.wantRefreshID, sched.refreshEntryID != 0)
			assert.Equal(t, tt.wantWatchID, sched.watchEntryID != 0)
		})
	}
}

func TestNewScheduler_Invalid(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	r := NewReferenceRefresher(ms, testReferences(t), 1.2, quietLogger())

	_, err := NewScheduler(Schedule{Refresher: r}, quietLogger())
	require.ErrorContains(t, err, "no scheduled jobs")

	_, err = NewScheduler(Schedule{Refresher: r, RefreshInterval: -time.Minute}, quietLogger())
	require.ErrorContains(t, err, "must not be negative")

	_, err = NewScheduler(Schedule{WatchInterval: time.Hour}, quietLogger())
	require.ErrorContains(t, err, "no scheduled jobs", "an interval without a checker registers nothing")
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	sched := newTestScheduler(t, time.Hour, time.Hour)
	sched.Start()
	ctx := sched.Stop()
	<-ctx.Done()
}

func TestScheduler_SyncNextRunTimestamps(t *testing.T) {
	t.Parallel()

	sched := newTestScheduler(t, 15*time.Minute, 10*time.Minute)

	// Start so that cron populates Next times.
	sched.Start()
	defer sched.Stop()

	sched.SyncNextRunTimestamps()

	assert.Greater(t, ptestutil.ToFloat64(metrics.SchedulerNextRefreshTimestamp), float64(0))
	assert.Greater(t, ptestutil.ToFloat64(metrics.SchedulerNextWatchCheckTimestamp), float64(0))
}
