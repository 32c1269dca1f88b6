package http

import (
	"fmt"
	"net/http"

	"vehicle-rental-backend/internal/service"
)

type DashboardHandler struct {
	svc service.DashboardService
}

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Dashboard answers with the admin or customer view depending on the caller.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Dashboard(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	switch d := view.(type) {
	case *service.AdminDashboard:
		respondOK(w, toAdminDashboard(d))
	case *service.CustomerDashboard:
		respondOK(w, toCustomerDashboard(d))
	default:
		writeError(w, r, fmt.Errorf("unexpected dashboard view %T", view))
	}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, toStats(stats))
}
