package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-rental-backend/internal/domain"
)

func day(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

var (
	now      = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	customer = &domain.User{ID: 7, Name: "Jane Doe", Role: domain.RoleCustomer}
	staff    = &domain.User{ID: 2, Name: "Sam Staff", Role: domain.RoleStaff}
)

func newVehicle() *domain.Vehicle {
	return &domain.Vehicle{ID: 1, Make: "Toyota", Model: "Corolla", Type: "sedan", DailyRateCents: 4500, Status: domain.VehicleStatusAvailable}
}

func TestTotalAmountCents_InclusiveDays(t *testing.T) {
	assert.Equal(t, int64(13500), TotalAmountCents(day("2024-02-01"), day("2024-02-03"), 4500))
	assert.Equal(t, int64(4500), TotalAmountCents(day("2024-02-01"), day("2024-02-01"), 4500))
}

func TestConflicts(t *testing.T) {
	existing := []domain.Booking{
		{ID: 1, StartDate: day("2024-02-01"), EndDate: day("2024-02-03"), Status: domain.BookingStatusApproved},
		{ID: 2, StartDate: day("2024-02-10"), EndDate: day("2024-02-12"), Status: domain.BookingStatusPending},
		{ID: 3, StartDate: day("2024-02-20"), EndDate: day("2024-02-22"), Status: domain.BookingStatusCancelled},
	}

	tests := []struct {
		name      string
		start     string
		end       string
		available bool
	}{
		{"same-day turnover conflicts", "2024-02-03", "2024-02-05", false},
		{"ends on existing start", "2024-01-28", "2024-02-01", false},
		{"inside existing", "2024-02-02", "2024-02-02", false},
		{"day after existing", "2024-02-04", "2024-02-06", true},
		{"pending does not block", "2024-02-10", "2024-02-12", true},
		{"cancelled does not block", "2024-02-21", "2024-02-21", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.available, IsAvailable(existing, day(tt.start), day(tt.end)))
		})
	}

	t.Run("excluded booking is skipped", func(t *testing.T) {
		r := domain.DateRange{Start: day("2024-02-01"), End: day("2024-02-03")}
		assert.Empty(t, Conflicts(existing, r, 1))
	})
}

func TestCreate(t *testing.T) {
	req := CreateRequest{VehicleID: 1, StartDate: day("2024-02-01"), EndDate: day("2024-02-03"), Notes: "airport pickup"}

	t.Run("Success", func(t *testing.T) {
		b, err := Create(customer, newVehicle(), req, nil, now)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusPending, b.Status)
		assert.Equal(t, int64(13500), b.TotalAmountCents)
		assert.Equal(t, customer.ID, b.CustomerID)
	})

	t.Run("Overlap with approved booking", func(t *testing.T) {
		existing := []domain.Booking{{ID: 9, VehicleID: 1, StartDate: day("2024-02-01"), EndDate: day("2024-02-03"), Status: domain.BookingStatusApproved}}
		r := req
		r.StartDate, r.EndDate = day("2024-02-03"), day("2024-02-05")
		_, err := Create(customer, newVehicle(), r, existing, now)
		var cerr *domain.ConflictError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "Vehicle is already booked for the selected dates", cerr.Message)
	})

	t.Run("Vehicle not available", func(t *testing.T) {
		v := newVehicle()
		v.Status = domain.VehicleStatusMaintenance
		_, err := Create(customer, v, req, nil, now)
		var cerr *domain.ConflictError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "Vehicle is not available", cerr.Message)
	})

	t.Run("Validation", func(t *testing.T) {
		r := CreateRequest{VehicleID: 1, StartDate: day("2024-01-15"), EndDate: day("2024-01-15")}
		_, err := Create(customer, newVehicle(), r, nil, now)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "start_date")
		assert.Contains(t, verr.Fields, "end_date")
	})

	t.Run("Notes too long", func(t *testing.T) {
		r := req
		r.Notes = string(make([]byte, 501))
		_, err := Create(customer, newVehicle(), r, nil, now)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "notes")
	})
}

func TestCreatedEvents(t *testing.T) {
	b := &domain.Booking{ID: 42, CustomerID: customer.ID, Status: domain.BookingStatusPending}
	events := CreatedEvents(b, customer, newVehicle(), now)
	require.Len(t, events, 3)

	act := events[0].(domain.ActivityRecorded)
	assert.Equal(t, "42", act.Activity.EntityID)
	assert.Equal(t, domain.ActionCreated, act.Activity.Action)

	n := events[1].(domain.NotificationRequested)
	assert.Equal(t, domain.ElevatedRoles, n.Roles)
	assert.Equal(t, "New Booking Request", n.Title)
	assert.Equal(t, "booking.created", events[2].EventName())
}

func TestChangeStatus(t *testing.T) {
	newBooking := func(s domain.BookingStatus) *domain.Booking {
		return &domain.Booking{ID: 5, CustomerID: customer.ID, VehicleID: 1, StartDate: day("2024-02-01"), EndDate: day("2024-02-03"), Status: s}
	}

	t.Run("Activate rents vehicle", func(t *testing.T) {
		b, v := newBooking(domain.BookingStatusApproved), newVehicle()
		events, err := ChangeStatus(b, v, StatusChange{Status: domain.BookingStatusActive}, staff, nil, now)
		require.NoError(t, err)
		assert.Equal(t, domain.VehicleStatusRented, v.Status)
		require.Len(t, events, 3)
		assert.Equal(t, "Updated booking status from approved to active", events[0].(domain.ActivityRecorded).Activity.Details)
	})

	t.Run("Complete frees vehicle", func(t *testing.T) {
		b, v := newBooking(domain.BookingStatusActive), newVehicle()
		v.Status = domain.VehicleStatusRented
		_, err := ChangeStatus(b, v, StatusChange{Status: domain.BookingStatusCompleted}, staff, nil, now)
		require.NoError(t, err)
		assert.Equal(t, domain.VehicleStatusAvailable, v.Status)
	})

	t.Run("Approve notifies customer with success", func(t *testing.T) {
		notes := "see you at the desk"
		b := newBooking(domain.BookingStatusPending)
		events, err := ChangeStatus(b, newVehicle(), StatusChange{Status: domain.BookingStatusApproved, Notes: &notes}, staff, nil, now)
		require.NoError(t, err)
		n := events[1].(domain.NotificationRequested)
		assert.Equal(t, customer.ID, n.UserID)
		assert.Equal(t, domain.NotificationSuccess, n.Type)
		assert.Equal(t, notes, b.Notes)
	})

	t.Run("Approve rejected when overlapping", func(t *testing.T) {
		existing := []domain.Booking{{ID: 6, StartDate: day("2024-02-03"), EndDate: day("2024-02-04"), Status: domain.BookingStatusActive}}
		_, err := ChangeStatus(newBooking(domain.BookingStatusPending), newVehicle(), StatusChange{Status: domain.BookingStatusApproved}, staff, existing, now)
		assert.ErrorIs(t, err, ErrAlreadyBooked)
	})

	t.Run("Forbidden transition", func(t *testing.T) {
		b := newBooking(domain.BookingStatusCompleted)
		_, err := ChangeStatus(b, newVehicle(), StatusChange{Status: domain.BookingStatusActive}, staff, nil, now)
		var cerr *domain.ConflictError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, domain.BookingStatusCompleted, b.Status)
	})

	t.Run("Unknown status", func(t *testing.T) {
		_, err := ChangeStatus(newBooking(domain.BookingStatusPending), newVehicle(), StatusChange{Status: "archived"}, staff, nil, now)
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestCancel(t *testing.T) {
	t.Run("Owner cancels approved booking", func(t *testing.T) {
		b := &domain.Booking{ID: 3, CustomerID: customer.ID, Status: domain.BookingStatusApproved}
		events, err := Cancel(b, newVehicle(), customer, now)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, b.Status)
		assert.Equal(t, domain.ActionCancelled, events[0].(domain.ActivityRecorded).Activity.Action)
	})

	t.Run("Other customer is refused", func(t *testing.T) {
		b := &domain.Booking{ID: 3, CustomerID: 99, Status: domain.BookingStatusPending}
		_, err := Cancel(b, newVehicle(), customer, now)
		var aerr *domain.AuthorizationError
		assert.ErrorAs(t, err, &aerr)
	})

	t.Run("Active booking cannot be cancelled", func(t *testing.T) {
		b := &domain.Booking{ID: 3, CustomerID: customer.ID, Status: domain.BookingStatusActive}
		_, err := Cancel(b, newVehicle(), customer, now)
		var cerr *domain.ConflictError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "Booking cannot be cancelled", cerr.Message)
	})

	t.Run("Cancelling a future booking keeps the vehicle rented by the active one", func(t *testing.T) {
		v := newVehicle()
		v.Status = domain.VehicleStatusRented
		active := &domain.Booking{ID: 2, CustomerID: 99, VehicleID: v.ID, Status: domain.BookingStatusActive,
			StartDate: day("2024-02-20"), EndDate: day("2024-02-25")}
		future := &domain.Booking{ID: 3, CustomerID: customer.ID, VehicleID: v.ID, Status: domain.BookingStatusPending,
			StartDate: day("2024-03-01"), EndDate: day("2024-03-03")}

		_, err := Cancel(future, v, staff, now)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, future.Status)
		assert.Equal(t, domain.BookingStatusActive, active.Status)
		assert.Equal(t, domain.VehicleStatusRented, v.Status)
	})
}
