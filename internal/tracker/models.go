// Package tracker holds the tracked-device resources: trackers owned by a
// user and the pings reported against them.
package tracker

import (
	"time"

	"github.com/uptrace/bun"
)

// Tracker is a device or subject a user collects pings for.
type Tracker struct {
	bun.BaseModel `bun:"table:trackers,alias:trk"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID    int64     `bun:"user_id,notnull" json:"user_id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Desc      string    `bun:"desc,notnull" json:"desc"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Ping is one position report for a tracker.
type Ping struct {
	bun.BaseModel `bun:"table:pings,alias:png"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	TrackerID int64     `bun:"tracker_id,notnull" json:"tracker_id"`
	Lat       float64   `bun:"lat,notnull" json:"lat"`
	Lon       float64   `bun:"lon,notnull" json:"lon"`
	Note      string    `bun:"note,notnull" json:"note"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
