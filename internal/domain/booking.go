package domain

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// bookingTransitions is the booking state machine.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusApproved, BookingStatusRejected, BookingStatusCancelled},
	BookingStatusApproved:  {BookingStatusActive, BookingStatusCancelled},
	BookingStatusActive:    {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusRejected:  {},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

// BlockingStatuses hold the vehicle: bookings in these states may not overlap.
var BlockingStatuses = []BookingStatus{BookingStatusApproved, BookingStatusActive}

// RevenueStatuses are counted as earned revenue and utilised days.
var RevenueStatuses = []BookingStatus{BookingStatusCompleted, BookingStatusActive}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range bookingTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// IsCustomerCancellable is true only while the booking has not started.
func (s BookingStatus) IsCustomerCancellable() bool {
	return s == BookingStatusPending || s == BookingStatusApproved
}

// IsBlocking reports whether a booking in this state reserves its vehicle.
func (s BookingStatus) IsBlocking() bool {
	return s == BookingStatusApproved || s == BookingStatusActive
}

func (s BookingStatus) IsRevenue() bool {
	return s == BookingStatusCompleted || s == BookingStatusActive
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}

type Booking struct {
	ID               int64         `json:"id"`
	CustomerID       int64         `json:"customer_id"`
	VehicleID        int64         `json:"vehicle_id"`
	StartDate        time.Time     `json:"start_date"`
	EndDate          time.Time     `json:"end_date"`
	TotalAmountCents int64         `json:"total_amount_cents"`
	Status           BookingStatus `json:"status"`
	Notes            string        `json:"notes,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`

	// Populated by joined reads
	Vehicle      *Vehicle `json:"vehicle,omitempty"`
	CustomerName string   `json:"customer_name,omitempty"`
}

func (b *Booking) Range() DateRange {
	return DateRange{Start: Day(b.StartDate), End: Day(b.EndDate)}
}

// RentalDays is the inclusive number of billed days.
func (b *Booking) RentalDays() int {
	return RentalDays(b.StartDate, b.EndDate)
}

// VehicleType returns the joined vehicle type, or "" when the vehicle was not loaded.
func (b *Booking) VehicleType() string {
	if b.Vehicle == nil {
		return ""
	}
	return b.Vehicle.Type
}

// BookingFilter narrows booking listings. Zero values are ignored.
type BookingFilter struct {
	CustomerID int64
	VehicleID  int64
	Status     BookingStatus
	StartFrom  *time.Time
	StartTo    *time.Time
}
