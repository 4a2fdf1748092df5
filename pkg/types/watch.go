package domain

import "time"

// PriceWatch tracks the valuation of one device configuration and fires an
// alert when it drops to or below TargetPrice.
type PriceWatch struct {
	ID            string      `json:"id"                        db:"id"`
	Name          string      `json:"name"                      db:"name"`
	Brand         string      `json:"brand"                     db:"brand"`
	StorageGB     int         `json:"storage_gb"                db:"storage_gb"`
	Condition     string      `json:"condition"                 db:"condition"`
	AgeMonths     int         `json:"age_months"                db:"age_months"`
	BatteryHealth int         `json:"battery_health"            db:"battery_health"`
	DamageLevel   DamageLevel `json:"damage_level,omitempty"    db:"damage_level"`
	TargetPrice   int64       `json:"target_price"              db:"target_price"`
	Enabled       bool        `json:"enabled"                   db:"enabled"`
	Triggered     bool        `json:"triggered"                 db:"triggered"`
	LastPrice     *int64      `json:"last_price,omitempty"      db:"last_price"`
	LastCheckedAt *time.Time  `json:"last_checked_at,omitempty" db:"last_checked_at"`
	CreatedAt     time.Time   `json:"created_at"                db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"                db:"updated_at"`
}

// Record returns the device configuration the watch values.
func (w *PriceWatch) Record() DeviceRecord {
	return DeviceRecord{
		Brand:         w.Brand,
		StorageGB:     w.StorageGB,
		Condition:     w.Condition,
		AgeMonths:     w.AgeMonths,
		BatteryHealth: w.BatteryHealth,
		DamageLevel:   w.DamageLevel,
	}
}

// Hit reports whether price satisfies the watch target.
func (w *PriceWatch) Hit(price int64) bool {
	return price <= w.TargetPrice
}

// WatchAlert records a watch crossing its target price.
type WatchAlert struct {
	ID          string     `json:"id"                    db:"id"`
	WatchID     string     `json:"watch_id"              db:"watch_id"`
	Price       int64      `json:"price"                 db:"price"`
	TargetPrice int64      `json:"target_price"          db:"target_price"`
	Notified    bool       `json:"notified"              db:"notified"`
	NotifiedAt  *time.Time `json:"notified_at,omitempty" db:"notified_at"`
	CreatedAt   time.Time  `json:"created_at"            db:"created_at"`
}

// WatchCheck summarizes one pass over the enabled watches.
type WatchCheck struct {
	Checked   int `json:"checked"`
	Triggered int `json:"triggered"`
	Failed    int `json:"failed"`
}
