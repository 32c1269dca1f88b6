package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"vehicle-rental-backend/internal/domain"
)

const maxNotesLength = 500

// ErrAlreadyBooked is returned when an approved or active booking overlaps the requested dates.
var ErrAlreadyBooked = &domain.ConflictError{Message: "Vehicle is already booked for the selected dates"}

// CreateRequest is a customer's booking request.
type CreateRequest struct {
	VehicleID int64
	StartDate time.Time
	EndDate   time.Time
	Notes     string
}

// Validate checks the request shape against today's date.
func (r CreateRequest) Validate(today time.Time) error {
	verr := &domain.ValidationError{Message: "Validation error"}
	if r.VehicleID <= 0 {
		verr.Add("vehicle_id", "The vehicle id field is required.")
	}
	if r.StartDate.IsZero() {
		verr.Add("start_date", "The start date field is required.")
	} else if !domain.Day(r.StartDate).After(domain.Day(today)) {
		verr.Add("start_date", "The start date must be a date after today.")
	}
	if r.EndDate.IsZero() {
		verr.Add("end_date", "The end date field is required.")
	} else if !r.StartDate.IsZero() && !domain.Day(r.EndDate).After(domain.Day(r.StartDate)) {
		verr.Add("end_date", "The end date must be a date after start date.")
	}
	if len(r.Notes) > maxNotesLength {
		verr.Add("notes", fmt.Sprintf("The notes may not be greater than %d characters.", maxNotesLength))
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// Create decides a new pending booking. existing must hold the vehicle's
// current bookings (any status). Events are built with CreatedEvents once the
// booking has been persisted and carries an id.
func Create(customer *domain.User, vehicle *domain.Vehicle, req CreateRequest, existing []domain.Booking, now time.Time) (*domain.Booking, error) {
	if err := req.Validate(now); err != nil {
		return nil, err
	}
	if !vehicle.IsAvailable() {
		return nil, &domain.ConflictError{Message: "Vehicle is not available"}
	}
	r := domain.DateRange{Start: domain.Day(req.StartDate), End: domain.Day(req.EndDate)}
	if len(Conflicts(existing, r, 0)) > 0 {
		return nil, ErrAlreadyBooked
	}

	b := &domain.Booking{
		CustomerID:       customer.ID,
		VehicleID:        vehicle.ID,
		StartDate:        r.Start,
		EndDate:          r.End,
		TotalAmountCents: TotalAmountCents(r.Start, r.End, vehicle.DailyRateCents),
		Status:           domain.BookingStatusPending,
		Notes:            strings.TrimSpace(req.Notes),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return b, nil
}

// CreatedEvents are emitted once the new booking has an id.
func CreatedEvents(b *domain.Booking, customer *domain.User, vehicle *domain.Vehicle, now time.Time) []domain.Event {
	return []domain.Event{
		domain.ActivityRecorded{Activity: domain.Activity{
			UserID:    customer.ID,
			Action:    domain.ActionCreated,
			Entity:    domain.EntityBooking,
			EntityID:  strconv.FormatInt(b.ID, 10),
			Details:   "Created booking for vehicle: " + vehicle.DisplayName(),
			Timestamp: now,
		}},
		domain.NotificationRequested{
			Roles:   domain.ElevatedRoles,
			Title:   "New Booking Request",
			Message: fmt.Sprintf("New booking request for %s from %s", vehicle.DisplayName(), customer.Name),
			Type:    domain.NotificationInfo,
			At:      now,
		},
		domain.BookingChanged{Booking: *b, To: b.Status, ActorID: customer.ID, At: now},
	}
}

// StatusChange is an administrative status update.
type StatusChange struct {
	Status domain.BookingStatus
	Notes  *string
}

// ChangeStatus applies an elevated status change to b and vehicle. existing is
// only consulted when the target state holds the vehicle.
func ChangeStatus(b *domain.Booking, vehicle *domain.Vehicle, change StatusChange, actor *domain.User, existing []domain.Booking, now time.Time) ([]domain.Event, error) {
	if !change.Status.IsValid() {
		return nil, domain.NewValidationError("status", "The selected status is invalid.")
	}
	if change.Notes != nil && len(*change.Notes) > maxNotesLength {
		return nil, domain.NewValidationError("notes", fmt.Sprintf("The notes may not be greater than %d characters.", maxNotesLength))
	}
	from := b.Status
	if !from.CanTransitionTo(change.Status) {
		return nil, &domain.ConflictError{Message: fmt.Sprintf("Booking cannot move from %s to %s", from, change.Status)}
	}
	if change.Status.IsBlocking() && !from.IsBlocking() {
		if len(Conflicts(existing, b.Range(), b.ID)) > 0 {
			return nil, ErrAlreadyBooked
		}
	}

	b.Status = change.Status
	if change.Notes != nil {
		b.Notes = *change.Notes
	}
	b.UpdatedAt = now

	switch {
	case change.Status == domain.BookingStatusActive:
		vehicle.Status = domain.VehicleStatusRented
	case from == domain.BookingStatusActive &&
		(change.Status == domain.BookingStatusCompleted || change.Status == domain.BookingStatusCancelled):
		vehicle.Status = domain.VehicleStatusAvailable
	}

	return []domain.Event{
		domain.ActivityRecorded{Activity: domain.Activity{
			UserID:    actor.ID,
			Action:    domain.ActionUpdated,
			Entity:    domain.EntityBooking,
			EntityID:  strconv.FormatInt(b.ID, 10),
			Details:   fmt.Sprintf("Updated booking status from %s to %s", from, change.Status),
			Timestamp: now,
		}},
		domain.NotificationRequested{
			UserID:  b.CustomerID,
			Title:   "Booking Status Updated",
			Message: fmt.Sprintf("Your booking for %s has been %s", vehicle.DisplayName(), change.Status),
			Type:    statusNotificationType(change.Status),
			At:      now,
		},
		domain.BookingChanged{Booking: *b, From: from, To: change.Status, ActorID: actor.ID, At: now},
	}, nil
}

func statusNotificationType(s domain.BookingStatus) domain.NotificationType {
	switch s {
	case domain.BookingStatusApproved:
		return domain.NotificationSuccess
	case domain.BookingStatusRejected:
		return domain.NotificationError
	default:
		return domain.NotificationInfo
	}
}

// Cancel applies a cancellation by the booking's customer or an elevated user.
// Only pending and approved bookings can be cancelled and neither holds the
// vehicle, so the vehicle status is left alone: a rented vehicle belongs to
// some other, active booking.
func Cancel(b *domain.Booking, vehicle *domain.Vehicle, actor *domain.User, now time.Time) ([]domain.Event, error) {
	if b.CustomerID != actor.ID && !actor.Role.IsElevated() {
		return nil, domain.ErrUnauthorized
	}
	if !b.Status.IsCustomerCancellable() {
		return nil, &domain.ConflictError{Message: "Booking cannot be cancelled"}
	}

	from := b.Status
	b.Status = domain.BookingStatusCancelled
	b.UpdatedAt = now

	return []domain.Event{
		domain.ActivityRecorded{Activity: domain.Activity{
			UserID:    actor.ID,
			Action:    domain.ActionCancelled,
			Entity:    domain.EntityBooking,
			EntityID:  strconv.FormatInt(b.ID, 10),
			Details:   "Cancelled booking for vehicle: " + vehicle.DisplayName(),
			Timestamp: now,
		}},
		domain.BookingChanged{Booking: *b, From: from, To: b.Status, ActorID: actor.ID, At: now},
	}, nil
}
