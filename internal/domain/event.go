package domain

import "time"

// Event is a side effect produced by a lifecycle operation. Operations return
// events instead of writing audit rows or notifications themselves.
type Event interface {
	EventName() string
}

// ActivityRecorded asks for one audit row.
type ActivityRecorded struct {
	Activity Activity
}

func (ActivityRecorded) EventName() string { return "activity.recorded" }

// NotificationRequested addresses either one user or every user holding one of Roles.
type NotificationRequested struct {
	UserID  int64
	Roles   []Role
	Title   string
	Message string
	Type    NotificationType
	At      time.Time
}

func (NotificationRequested) EventName() string { return "notification.requested" }

// BookingChanged describes a booking state change for external subscribers.
type BookingChanged struct {
	Booking Booking
	From    BookingStatus
	To      BookingStatus
	ActorID int64
	At      time.Time
}

func (e BookingChanged) EventName() string {
	if e.From == "" {
		return "booking.created"
	}
	return "booking.status_changed"
}

// Key partitions published events by booking.
func (e BookingChanged) Key() int64 { return e.Booking.ID }
