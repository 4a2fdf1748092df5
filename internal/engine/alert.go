package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/donaldgifford/resell-valuator/internal/metrics"
	"github.com/donaldgifford/resell-valuator/internal/notify"
	"github.com/donaldgifford/resell-valuator/internal/store"
	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

const batchThreshold = 5

// WatchChecker values every enabled price watch and raises an alert when a
// watch first reaches its target.
type WatchChecker struct {
	eng      *Engine
	store    store.Store
	notifier notify.Notifier
	log      *slog.Logger
}

// NewWatchChecker creates a WatchChecker. A nil notifier discards alerts.
func NewWatchChecker(eng *Engine, s store.Store, n notify.Notifier, log *slog.Logger) *WatchChecker {
	if log == nil {
		log = slog.Default()
	}
	if n == nil {
		n = notify.NewNoOpNotifier(log)
	}
	return &WatchChecker{eng: eng, store: s, notifier: n, log: log}
}

// Run checks the watches and then delivers pending alerts.
func (c *WatchChecker) Run(ctx context.Context) (domain.WatchCheck, error) {
	res, err := c.Check(ctx)
	if err != nil {
		return res, err
	}
	if _, err := c.ProcessAlerts(ctx); err != nil {
		return res, err
	}
	return res, nil
}

// Check values each enabled watch and records the price. A watch alerts only
// on the check where it goes from above to at-or-below its target; it
// re-arms once the valuation rises above the target again. Per-watch
// failures are counted and logged, not returned.
func (c *WatchChecker) Check(ctx context.Context) (domain.WatchCheck, error) {
	var res domain.WatchCheck

	watches, err := c.store.ListWatches(ctx, true)
	if err != nil {
		return res, fmt.Errorf("listing watches: %w", err)
	}

	for i := range watches {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		w := &watches[i]
		fired, err := c.checkOne(ctx, w)
		if err != nil {
			res.Failed++
			metrics.WatchChecksTotal.WithLabelValues("failed").Inc()
			c.log.Warn("watch check failed", "watch", w.ID, "name", w.Name, "error", err)
			continue
		}

		res.Checked++
		if fired {
			res.Triggered++
			metrics.WatchChecksTotal.WithLabelValues("triggered").Inc()
		} else {
			metrics.WatchChecksTotal.WithLabelValues("checked").Inc()
		}
	}

	c.log.Info("watches checked",
		"checked", res.Checked,
		"triggered", res.Triggered,
		"failed", res.Failed,
	)
	return res, nil
}

func (c *WatchChecker) checkOne(ctx context.Context, w *domain.PriceWatch) (bool, error) {
	val, err := c.eng.Valuate(ctx, w.Record())
	if err != nil {
		return false, fmt.Errorf("valuing: %w", err)
	}

	price := val.AdjustedPrice
	hit := w.Hit(price)
	fire := hit && !w.Triggered

	// The alert goes first so a crossing is never recorded without one.
	if fire {
		alert := &domain.WatchAlert{WatchID: w.ID, Price: price, TargetPrice: w.TargetPrice}
		if err := c.store.CreateWatchAlert(ctx, alert); err != nil {
			return false, err
		}
	}

	if err := c.store.RecordWatchCheck(ctx, w.ID, price, hit); err != nil {
		return false, err
	}
	return fire, nil
}

// ProcessAlerts sends notifications for pending alerts, then marks them as
// notified, and returns how many were delivered. Alerts are grouped by
// watch; a watch with 5 or more pending alerts is sent as one batch. Failed
// notifications stay pending for the next run.
func (c *WatchChecker) ProcessAlerts(ctx context.Context) (int, error) {
	pending, err := c.store.ListPendingAlerts(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing pending alerts: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	grouped := groupByWatch(pending)
	ids := make([]string, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	sent := 0
	for _, watchID := range ids {
		watch, err := c.store.GetWatch(ctx, watchID)
		if errors.Is(err, store.ErrNotFound) {
			continue // deleted while pending
		}
		if err != nil {
			return sent, fmt.Errorf("getting watch %s: %w", watchID, err)
		}

		n, err := c.sendAlerts(ctx, watch, grouped[watchID])
		sent += n
		if err != nil {
			metrics.NotificationFailuresTotal.Inc()
			c.log.Error("sending watch alerts failed", "watch", watchID, "error", err)
		}
	}

	return sent, nil
}

func groupByWatch(alerts []domain.WatchAlert) map[string][]domain.WatchAlert {
	grouped := make(map[string][]domain.WatchAlert)
	for _, a := range alerts {
		grouped[a.WatchID] = append(grouped[a.WatchID], a)
	}
	return grouped
}

func (c *WatchChecker) sendAlerts(
	ctx context.Context,
	watch *domain.PriceWatch,
	alerts []domain.WatchAlert,
) (int, error) {
	if len(alerts) >= batchThreshold {
		return c.sendBatch(ctx, watch, alerts)
	}

	for i := range alerts {
		if err := c.sendSingle(ctx, watch, &alerts[i]); err != nil {
			return i, err
		}
	}
	return len(alerts), nil
}

func (c *WatchChecker) sendSingle(ctx context.Context, watch *domain.PriceWatch, alert *domain.WatchAlert) error {
	if err := c.notifier.SendAlert(ctx, buildAlertPayload(watch, alert)); err != nil {
		return fmt.Errorf("sending alert: %w", err)
	}

	metrics.AlertsFiredTotal.Inc()

	return c.store.MarkAlertsNotified(ctx, []string{alert.ID})
}

func (c *WatchChecker) sendBatch(
	ctx context.Context,
	watch *domain.PriceWatch,
	alerts []domain.WatchAlert,
) (int, error) {
	payloads := make([]notify.AlertPayload, 0, len(alerts))
	alertIDs := make([]string, 0, len(alerts))
	for i := range alerts {
		payloads = append(payloads, *buildAlertPayload(watch, &alerts[i]))
		alertIDs = append(alertIDs, alerts[i].ID)
	}

	if err := c.notifier.SendBatchAlert(ctx, payloads, watch.Name); err != nil {
		return 0, fmt.Errorf("sending batch alert: %w", err)
	}

	metrics.AlertsFiredTotal.Add(float64(len(alertIDs)))

	if err := c.store.MarkAlertsNotified(ctx, alertIDs); err != nil {
		return 0, err
	}
	return len(alertIDs), nil
}

func buildAlertPayload(watch *domain.PriceWatch, alert *domain.WatchAlert) *notify.AlertPayload {
	return &notify.AlertPayload{
		WatchName:   watch.Name,
		Device:      describeWatch(watch),
		Price:       alert.Price,
		TargetPrice: alert.TargetPrice,
		TriggeredAt: alert.CreatedAt,
	}
}

// describeWatch renders the watched configuration, e.g.
// "iPhone 15 256GB Excellent, 12 months, 85% battery".
func describeWatch(w *domain.PriceWatch) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %dGB %s, %d months, %d%% battery",
		w.Brand, w.StorageGB, w.Condition, w.AgeMonths, w.BatteryHealth)
	if d := w.DamageLevel; d != "" && d != domain.DamageNone {
		fmt.Fprintf(&b, ", %s damage", strings.ToLower(string(d)))
	}
	return b.String()
}
