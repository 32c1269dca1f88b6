package domain

import "time"

// Entity names recorded on activities
const (
	EntityBooking     = "booking"
	EntityVehicle     = "vehicle"
	EntityMaintenance = "maintenance_record"
	EntityReport      = "report"
)

// Activity actions
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
	ActionCancelled = "cancelled"
)

// Activity is an append-only audit entry.
type Activity struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

type ActivityFilter struct {
	UserID   int64
	Entity   string
	EntityID string
	Action   string
	From     *time.Time
	To       *time.Time
}
