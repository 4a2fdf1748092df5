// Package notify defines the notification interface and implementations
// for price watch alerts.
package notify

import (
	"context"
	"time"
)

// AlertPayload contains the data needed to announce a watch reaching its
// target price.
type AlertPayload struct {
	WatchName   string
	Device      string
	Price       int64
	TargetPrice int64
	TriggeredAt time.Time
}

// BelowTargetPct is how far the price sits under the target, in whole
// percent of the target.
func (a *AlertPayload) BelowTargetPct() int {
	if a.TargetPrice <= 0 || a.Price >= a.TargetPrice {
		return 0
	}
	return int((a.TargetPrice - a.Price) * 100 / a.TargetPrice)
}

// Notifier defines the interface for sending price watch alerts.
type Notifier interface {
	SendAlert(ctx context.Context, alert *AlertPayload) error
	SendBatchAlert(ctx context.Context, alerts []AlertPayload, watchName string) error
}
