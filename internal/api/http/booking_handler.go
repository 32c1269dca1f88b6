package http

import (
	"net/http"

	"vehicle-rental-backend/internal/booking"
	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/security"
	"vehicle-rental-backend/internal/service"
)

const bookingsPerPage = 15

type BookingHandler struct {
	svc    service.BookingService
	policy *security.Policy
}

func NewBookingHandler(svc service.BookingService, policy *security.Policy) *BookingHandler {
	return &BookingHandler{svc: svc, policy: policy}
}

type createBookingRequest struct {
	VehicleID int64  `json:"vehicle_id" validate:"required,gt=0"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Notes     string `json:"notes" validate:"max=500"`
}

type updateBookingRequest struct {
	Status string  `json:"status" validate:"required,oneof=pending approved rejected active completed cancelled"`
	Notes  *string `json:"notes" validate:"omitempty,max=500"`
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := domain.BookingFilter{
		CustomerID: q.integer("customer_id"),
		VehicleID:  q.integer("vehicle_id"),
		Status:     domain.BookingStatus(q.str("status")),
	}
	// The start-date window applies only when both ends are given.
	if q.has("start_date") && q.has("end_date") {
		filter.StartFrom = q.date("start_date")
		filter.StartTo = q.date("end_date")
	}
	if err := q.err(); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.svc.List(r.Context(), currentUser(r), filter, page(r, bookingsPerPage))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, mapPage(res, toBooking))
}

func (h *BookingHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.svc.Get(r.Context(), currentUser(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, toBooking(b))
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if verr := bind(r, &req); verr.HasErrors() {
		writeError(w, r, verr)
		return
	}

	b, err := h.svc.Create(r.Context(), currentUser(r), booking.CreateRequest{
		VehicleID: req.VehicleID,
		StartDate: parseDay(req.StartDate),
		EndDate:   parseDay(req.EndDate),
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, "Booking created successfully", toBooking(b))
}

// Update changes the booking status. Staff may move a booking along the
// lifecycle; a customer may only cancel their own.
func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateBookingRequest
	if verr := bind(r, &req); verr.HasErrors() {
		writeError(w, r, verr)
		return
	}

	actor := currentUser(r)
	status := domain.BookingStatus(req.Status)
	var b *domain.Booking
	if status == domain.BookingStatusCancelled && !h.policy.Can(actor, security.CapUpdateBookingStatus) {
		b, err = h.svc.Cancel(r.Context(), actor, id)
	} else {
		b, err = h.svc.UpdateStatus(r.Context(), actor, id, booking.StatusChange{Status: status, Notes: req.Notes})
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, "Booking updated successfully", toBooking(b))
}

// Delete cancels the booking; bookings are never removed.
func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.svc.Cancel(r.Context(), currentUser(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, "Booking cancelled successfully", nil)
}
