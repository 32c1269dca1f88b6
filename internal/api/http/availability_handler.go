package http

import (
	"net/http"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/service"
)

type AvailabilityHandler struct {
	svc service.AvailabilityService
}

func NewAvailabilityHandler(svc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

type availabilityResponse struct {
	VehicleID int64  `json:"vehicle_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Available bool   `json:"available"`
}

// Check answers whether one vehicle is free for every day of the window.
func (h *AvailabilityHandler) Check(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := newQuery(r)
	start, end := q.date("start_date"), q.date("end_date")
	if start == nil && !q.has("start_date") {
		q.verr.Add("start_date", "The start date field is required.")
	}
	if end == nil && !q.has("end_date") {
		q.verr.Add("end_date", "The end date field is required.")
	}
	if err := q.err(); err != nil {
		writeError(w, r, err)
		return
	}

	ok, err := h.svc.IsAvailable(r.Context(), id, *start, *end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, availabilityResponse{
		VehicleID: id,
		StartDate: start.Format(domain.DateLayout),
		EndDate:   end.Format(domain.DateLayout),
		Available: ok,
	})
}
