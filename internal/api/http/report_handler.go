package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/service"
)

const (
	reportsPerPage = 15
	xlsxType       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ReportHandler struct {
	svc service.ReportService
}

func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

type rangeRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

type createReportRequest struct {
	Title     string `json:"title" validate:"required,max=255"`
	Type      string `json:"type" validate:"required,oneof=revenue utilization booking-trends"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := domain.ReportFilter{
		Type:        domain.ReportType(q.str("type")),
		GeneratedBy: q.integer("generated_by"),
	}
	if err := q.err(); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.svc.List(r.Context(), currentUser(r), filter, page(r, reportsPerPage))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, mapPage(res, toReport))
}

func (h *ReportHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rp, err := h.svc.Get(r.Context(), currentUser(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, toReport(rp))
}

func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	verr := bind(r, &req)
	window := dateRange(req.StartDate, req.EndDate, verr)
	if verr.HasErrors() {
		writeError(w, r, verr)
		return
	}

	rp, err := h.svc.Create(r.Context(), currentUser(r), service.CreateReportInput{
		Title: strings.TrimSpace(req.Title),
		Type:  domain.ReportType(req.Type),
		Range: window,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, "Report generated successfully", toReport(rp))
}

func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), currentUser(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, "Report deleted successfully", nil)
}

// Generate returns an ad-hoc aggregation without storing it.
func (h *ReportHandler) Generate(kind domain.ReportType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rangeRequest
		verr := bind(r, &req)
		window := dateRange(req.StartDate, req.EndDate, verr)
		if verr.HasErrors() {
			writeError(w, r, verr)
			return
		}

		data, err := h.svc.Generate(r.Context(), currentUser(r), kind, window)
		if err != nil {
			writeError(w, r, err)
			return
		}
		respondOK(w, data)
	}
}

func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, filename, err := h.svc.Export(r.Context(), currentUser(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
