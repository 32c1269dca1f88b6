package http

import (
	"net/http"
	"strings"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/service"
	"vehicle-rental-backend/internal/utils"
)

const maintenancePerPage = 15

type MaintenanceHandler struct {
	svc service.MaintenanceService
}

func NewMaintenanceHandler(svc service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{svc: svc}
}

type maintenanceRequest struct {
	VehicleID   int64    `json:"vehicle_id" validate:"required,gt=0"`
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
	Type        string   `json:"type" validate:"required,max=100"`
	Description string   `json:"description" validate:"required,max=1000"`
	Cost        *float64 `json:"cost" validate:"required,min=0"`
	PerformedBy string   `json:"performed_by" validate:"required,max=100"`
}

type maintenanceUpdateRequest struct {
	VehicleID   *int64   `json:"vehicle_id" validate:"omitempty,gt=0"`
	Date        *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Type        *string  `json:"type" validate:"omitempty,min=1,max=100"`
	Description *string  `json:"description" validate:"omitempty,min=1,max=1000"`
	Cost        *float64 `json:"cost" validate:"omitempty,min=0"`
	PerformedBy *string  `json:"performed_by" validate:"omitempty,min=1,max=100"`
}

func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := domain.MaintenanceFilter{
		VehicleID: q.integer("vehicle_id"),
		Type:      q.str("type"),
	}
	if q.has("start_date") && q.has("end_date") {
		filter.From = q.date("start_date")
		filter.To = q.date("end_date")
	}
	if err := q.err(); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.svc.List(r.Context(), filter, page(r, maintenancePerPage))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, mapPage(res, toMaintenance))
}

func (h *MaintenanceHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, toMaintenance(rec))
}

func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req maintenanceRequest
	if verr := bind(r, &req); verr.HasErrors() {
		writeError(w, r, verr)
		return
	}

	rec := &domain.MaintenanceRecord{
		VehicleID:   req.VehicleID,
		Date:        parseDay(req.Date),
		Type:        strings.TrimSpace(req.Type),
		Description: strings.TrimSpace(req.Description),
		CostCents:   utils.AmountToCents(*req.Cost),
		PerformedBy: strings.TrimSpace(req.PerformedBy),
	}
	if err := h.svc.Create(r.Context(), currentUser(r), rec); err != nil {
		writeError(w, r, err)
		return
	}
	created(w, "Maintenance record created successfully", toMaintenance(rec))
}

func (h *MaintenanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req maintenanceUpdateRequest
	if verr := bind(r, &req); verr.HasErrors() {
		writeError(w, r, verr)
		return
	}

	patch := service.MaintenancePatch{
		VehicleID:   req.VehicleID,
		Type:        req.Type,
		Description: req.Description,
		PerformedBy: req.PerformedBy,
	}
	if req.Date != nil {
		d := parseDay(*req.Date)
		patch.Date = &d
	}
	if req.Cost != nil {
		cents := utils.AmountToCents(*req.Cost)
		patch.CostCents = &cents
	}

	rec, err := h.svc.Update(r.Context(), currentUser(r), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, "Maintenance record updated successfully", toMaintenance(rec))
}

func (h *MaintenanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), currentUser(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, "Maintenance record deleted successfully", nil)
}

func (h *MaintenanceHandler) ByVehicle(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathID(r, "vehicleId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	records, err := h.svc.ListByVehicle(r.Context(), vehicleID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, mapSlice(records, toMaintenance))
}
