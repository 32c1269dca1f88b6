package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/service"
)

const (
	activitiesPerPage       = 20
	entityActivitiesPerPage = 10
	userActivitiesPerPage   = 15
)

type ActivityHandler struct {
	svc service.ActivityService
}

func NewActivityHandler(svc service.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := domain.ActivityFilter{
		UserID: q.integer("user_id"),
		Entity: q.str("entity"),
		Action: q.str("action"),
		From:   q.date("start_date"),
		To:     q.date("end_date"),
	}
	if err := q.err(); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.svc.List(r.Context(), currentUser(r), filter, page(r, activitiesPerPage))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, res)
}

func (h *ActivityHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := h.svc.Get(r.Context(), currentUser(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, a)
}

func (h *ActivityHandler) ByEntity(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := h.svc.ByEntity(r.Context(), currentUser(r), vars["entity"], vars["entityId"], page(r, entityActivitiesPerPage))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, res)
}

func (h *ActivityHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.ByUser(r.Context(), currentUser(r), userID, page(r, userActivitiesPerPage))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, res)
}
