package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/service"
	"vehicle-rental-backend/internal/utils"
)

const vehiclesPerPage = 15

type VehicleHandler struct {
	svc          service.VehicleService
	allowedTypes map[string]string // content type -> file extension
	maxImageSize int64
}

// NewVehicleHandler accepts image uploads of the given content types up to
// maxImageMB megabytes.
func NewVehicleHandler(svc service.VehicleService, allowedTypes []string, maxImageMB int64) *VehicleHandler {
	h := &VehicleHandler{svc: svc, allowedTypes: map[string]string{}, maxImageSize: maxImageMB << 20}
	for _, t := range allowedTypes {
		if ext, ok := imageExtensions[t]; ok {
			h.allowedTypes[t] = ext
		}
	}
	return h
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type vehicleRequest struct {
	Make         string   `json:"make" validate:"required,max=100"`
	Model        string   `json:"model" validate:"required,max=100"`
	Year         int      `json:"year" validate:"required,min=1900"`
	Type         string   `json:"type" validate:"required,max=50"`
	RentalPrice  *float64 `json:"rental_price" validate:"required,min=0"`
	Status       string   `json:"status" validate:"omitempty,oneof=available rented maintenance"`
	LicensePlate string   `json:"license_plate" validate:"required,max=20"`
	Color        string   `json:"color" validate:"required,max=50"`
	FuelType     string   `json:"fuel_type" validate:"required,max=50"`
	Transmission string   `json:"transmission" validate:"required,max=50"`
	Seats        int      `json:"seats" validate:"required,min=1,max=50"`
	ImageURL     string   `json:"image_url" validate:"omitempty,url"`
}

type vehicleUpdateRequest struct {
	Make         *string  `json:"make" validate:"omitempty,min=1,max=100"`
	Model        *string  `json:"model" validate:"omitempty,min=1,max=100"`
	Year         *int     `json:"year" validate:"omitempty,min=1900"`
	Type         *string  `json:"type" validate:"omitempty,min=1,max=50"`
	RentalPrice  *float64 `json:"rental_price" validate:"omitempty,min=0"`
	Status       *string  `json:"status" validate:"omitempty,oneof=available rented maintenance"`
	LicensePlate *string  `json:"license_plate" validate:"omitempty,min=1,max=20"`
	Color        *string  `json:"color" validate:"omitempty,min=1,max=50"`
	FuelType     *string  `json:"fuel_type" validate:"omitempty,min=1,max=50"`
	Transmission *string  `json:"transmission" validate:"omitempty,min=1,max=50"`
	Seats        *int     `json:"seats" validate:"omitempty,min=1,max=50"`
	ImageURL     *string  `json:"image_url" validate:"omitempty,url"`
}

func checkYear(year int, verr *domain.ValidationError) {
	if limit := time.Now().Year() + 1; year > limit {
		verr.Add("year", fmt.Sprintf("The year may not be greater than %d.", limit))
	}
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := domain.VehicleFilter{
		Status:        domain.VehicleStatus(q.str("status")),
		Type:          q.str("type"),
		Search:        q.str("search"),
		MinPriceCents: q.cents("min_price"),
		MaxPriceCents: q.cents("max_price"),
	}
	if err := q.err(); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.svc.List(r.Context(), filter, page(r, vehiclesPerPage))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, mapPage(res, toVehicle))
}

func (h *VehicleHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, toVehicle(v))
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	verr := bind(r, &req)
	if req.Year != 0 {
		checkYear(req.Year, verr)
	}
	if verr.HasErrors() {
		writeError(w, r, verr)
		return
	}

	v := &domain.Vehicle{
		Make:           strings.TrimSpace(req.Make),
		Model:          strings.TrimSpace(req.Model),
		Year:           req.Year,
		Type:           strings.TrimSpace(req.Type),
		DailyRateCents: utils.AmountToCents(*req.RentalPrice),
		Status:         domain.VehicleStatus(req.Status),
		LicensePlate:   req.LicensePlate,
		Color:          req.Color,
		FuelType:       req.FuelType,
		Transmission:   req.Transmission,
		Seats:          req.Seats,
		ImageURL:       req.ImageURL,
	}
	if err := h.svc.Create(r.Context(), currentUser(r), v); err != nil {
		writeError(w, r, err)
		return
	}
	created(w, "Vehicle created successfully", toVehicle(v))
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req vehicleUpdateRequest
	verr := bind(r, &req)
	if req.Year != nil {
		checkYear(*req.Year, verr)
	}
	if verr.HasErrors() {
		writeError(w, r, verr)
		return
	}

	patch := service.VehiclePatch{
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		Type:         req.Type,
		LicensePlate: req.LicensePlate,
		Color:        req.Color,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		Seats:        req.Seats,
		ImageURL:     req.ImageURL,
	}
	if req.RentalPrice != nil {
		cents := utils.AmountToCents(*req.RentalPrice)
		patch.DailyRateCents = &cents
	}
	if req.Status != nil {
		status := domain.VehicleStatus(*req.Status)
		patch.Status = &status
	}

	v, err := h.svc.Update(r.Context(), currentUser(r), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, "Vehicle updated successfully", toVehicle(v))
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), currentUser(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	okMessage(w, "Vehicle deleted successfully", nil)
}

// Available lists bookable vehicles, optionally excluding those held
// between start_date and end_date.
func (h *VehicleHandler) Available(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	start, end := q.date("start_date"), q.date("end_date")
	if (start == nil) != (end == nil) && q.err() == nil {
		q.verr.Add("end_date", "Both start date and end date are required to filter by dates.")
	}
	if start != nil && end != nil && end.Before(*start) {
		q.verr.Add("end_date", "The end date must be a date after or equal to start date.")
	}
	if err := q.err(); err != nil {
		writeError(w, r, err)
		return
	}

	var window *domain.DateRange
	if start != nil && end != nil {
		window = &domain.DateRange{Start: *start, End: *end}
	}
	vehicles, err := h.svc.Available(r.Context(), window)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondOK(w, mapSlice(vehicles, toVehicle))
}

// UploadImage takes the raw image as the request body.
func (h *VehicleHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	contentType := strings.TrimSpace(strings.SplitN(r.Header.Get("Content-Type"), ";", 2)[0])
	ext, ok := h.allowedTypes[contentType]
	if !ok {
		writeError(w, r, domain.NewValidationError("image", "The image must be a file of an allowed image type."))
		return
	}
	if r.ContentLength > h.maxImageSize {
		writeError(w, r, domain.NewValidationError("image", fmt.Sprintf("The image may not be greater than %d kilobytes.", h.maxImageSize>>10)))
		return
	}

	body := http.MaxBytesReader(w, r.Body, h.maxImageSize)
	v, err := h.svc.UploadImage(r.Context(), currentUser(r), id, ext, body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, domain.NewValidationError("image", fmt.Sprintf("The image may not be greater than %d kilobytes.", h.maxImageSize>>10)))
			return
		}
		writeError(w, r, err)
		return
	}
	okMessage(w, "Vehicle image uploaded successfully", toVehicle(v))
}
