package http

import (
	"encoding/json"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/service"
	"vehicle-rental-backend/internal/utils"
)

// Response shapes. Amounts leave the API as decimal currency units and
// calendar dates as yyyy-mm-dd.

type vehicleResponse struct {
	ID                 int64                 `json:"id"`
	Make               string                `json:"make"`
	Model              string                `json:"model"`
	Year               int                   `json:"year"`
	Type               string                `json:"type"`
	RentalPrice        float64               `json:"rental_price"`
	Status             domain.VehicleStatus  `json:"status"`
	LicensePlate       string                `json:"license_plate"`
	Color              string                `json:"color"`
	FuelType           string                `json:"fuel_type"`
	Transmission       string                `json:"transmission"`
	Seats              int                   `json:"seats"`
	ImageURL           *string               `json:"image_url"`
	MaintenanceRecords []maintenanceResponse `json:"maintenance_records,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

type customerSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type bookingResponse struct {
	ID          int64                `json:"id"`
	CustomerID  int64                `json:"customer_id"`
	VehicleID   int64                `json:"vehicle_id"`
	StartDate   string               `json:"start_date"`
	EndDate     string               `json:"end_date"`
	TotalAmount float64              `json:"total_amount"`
	Status      domain.BookingStatus `json:"status"`
	Notes       *string              `json:"notes"`
	Vehicle     *vehicleResponse     `json:"vehicle,omitempty"`
	Customer    *customerSummary     `json:"customer,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type maintenanceResponse struct {
	ID          int64            `json:"id"`
	VehicleID   int64            `json:"vehicle_id"`
	Date        string           `json:"date"`
	Type        string           `json:"type"`
	Description string           `json:"description"`
	Cost        float64          `json:"cost"`
	PerformedBy string           `json:"performed_by"`
	Vehicle     *vehicleResponse `json:"vehicle,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type dateRangeResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type reportResponse struct {
	ID              int64             `json:"id"`
	Title           string            `json:"title"`
	Type            domain.ReportType `json:"type"`
	DateRange       dateRangeResponse `json:"date_range"`
	Data            json.RawMessage   `json:"data"`
	GeneratedBy     int64             `json:"generated_by"`
	GeneratedByName string            `json:"generated_by_name,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

func toVehicle(v *domain.Vehicle) *vehicleResponse {
	if v == nil {
		return nil
	}
	out := &vehicleResponse{
		ID:           v.ID,
		Make:         v.Make,
		Model:        v.Model,
		Year:         v.Year,
		Type:         v.Type,
		RentalPrice:  utils.CentsToAmount(v.DailyRateCents),
		Status:       v.Status,
		LicensePlate: v.LicensePlate,
		Color:        v.Color,
		FuelType:     v.FuelType,
		Transmission: v.Transmission,
		Seats:        v.Seats,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
	if v.ImageURL != "" {
		out.ImageURL = &v.ImageURL
	}
	if v.Maintenance != nil {
		out.MaintenanceRecords = mapSlice(v.Maintenance, toMaintenance)
	}
	return out
}

func toBooking(b *domain.Booking) *bookingResponse {
	if b == nil {
		return nil
	}
	out := &bookingResponse{
		ID:          b.ID,
		CustomerID:  b.CustomerID,
		VehicleID:   b.VehicleID,
		StartDate:   b.StartDate.Format(domain.DateLayout),
		EndDate:     b.EndDate.Format(domain.DateLayout),
		TotalAmount: utils.CentsToAmount(b.TotalAmountCents),
		Status:      b.Status,
		Vehicle:     toVehicle(b.Vehicle),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if b.Notes != "" {
		out.Notes = &b.Notes
	}
	if b.CustomerName != "" {
		out.Customer = &customerSummary{ID: b.CustomerID, Name: b.CustomerName}
	}
	return out
}

func toMaintenance(m *domain.MaintenanceRecord) *maintenanceResponse {
	if m == nil {
		return nil
	}
	return &maintenanceResponse{
		ID:          m.ID,
		VehicleID:   m.VehicleID,
		Date:        m.Date.Format(domain.DateLayout),
		Type:        m.Type,
		Description: m.Description,
		Cost:        utils.CentsToAmount(m.CostCents),
		PerformedBy: m.PerformedBy,
		Vehicle:     toVehicle(m.Vehicle),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toReport(rp *domain.Report) *reportResponse {
	if rp == nil {
		return nil
	}
	return &reportResponse{
		ID:    rp.ID,
		Title: rp.Title,
		Type:  rp.Type,
		DateRange: dateRangeResponse{
			Start: rp.StartDate.Format(domain.DateLayout),
			End:   rp.EndDate.Format(domain.DateLayout),
		},
		Data:            rp.Data,
		GeneratedBy:     rp.GeneratedBy,
		GeneratedByName: rp.GeneratorName,
		CreatedAt:       rp.CreatedAt,
	}
}

// mapSlice converts a slice element-wise, never returning nil.
func mapSlice[T, R any](in []T, f func(*T) *R) []R {
	out := make([]R, 0, len(in))
	for i := range in {
		out = append(out, *f(&in[i]))
	}
	return out
}

// mapPage keeps the paginator fields and converts the items.
func mapPage[T, R any](p domain.PageResult[T], f func(*T) *R) domain.PageResult[R] {
	return domain.PageResult[R]{
		Data:        mapSlice(p.Data, f),
		CurrentPage: p.CurrentPage,
		PerPage:     p.PerPage,
		Total:       p.Total,
		LastPage:    p.LastPage,
	}
}

// Dashboard payloads

type typeCountResponse struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type dayCountResponse struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type adminDashboardResponse struct {
	TotalVehicles       int                 `json:"total_vehicles"`
	AvailableVehicles   int                 `json:"available_vehicles"`
	RentedVehicles      int                 `json:"rented_vehicles"`
	MaintenanceVehicles int                 `json:"maintenance_vehicles"`
	TotalCustomers      int                 `json:"total_customers"`
	TotalBookings       int                 `json:"total_bookings"`
	PendingBookings     int                 `json:"pending_bookings"`
	ActiveBookings      int                 `json:"active_bookings"`
	MonthlyRevenue      float64             `json:"monthly_revenue"`
	RecentBookings      []bookingResponse   `json:"recent_bookings"`
	RecentActivities    []domain.Activity   `json:"recent_activities"`
	VehicleTypes        []typeCountResponse `json:"vehicle_types"`
	BookingTrends       []dayCountResponse  `json:"booking_trends"`
}

type customerDashboardResponse struct {
	TotalBookings     int               `json:"total_bookings"`
	ActiveBookings    int               `json:"active_bookings"`
	PendingBookings   int               `json:"pending_bookings"`
	CompletedBookings int               `json:"completed_bookings"`
	RecentBookings    []bookingResponse `json:"recent_bookings"`
	CurrentBooking    *bookingResponse  `json:"current_booking"`
	AvailableVehicles []vehicleResponse `json:"available_vehicles"`
	RecentActivities  []domain.Activity `json:"recent_activities"`
}

type revenueStats struct {
	Total     float64 `json:"total"`
	ThisMonth float64 `json:"this_month"`
	ThisYear  float64 `json:"this_year"`
}

type statsResponse struct {
	Vehicles map[string]int `json:"vehicles"`
	Bookings map[string]int `json:"bookings"`
	Users    map[string]int `json:"users"`
	Revenue  revenueStats   `json:"revenue"`
}

func toAdminDashboard(d *service.AdminDashboard) *adminDashboardResponse {
	out := &adminDashboardResponse{
		TotalVehicles:       d.TotalVehicles,
		AvailableVehicles:   d.AvailableVehicles,
		RentedVehicles:      d.RentedVehicles,
		MaintenanceVehicles: d.MaintenanceVehicles,
		TotalCustomers:      d.TotalCustomers,
		TotalBookings:       d.TotalBookings,
		PendingBookings:     d.PendingBookings,
		ActiveBookings:      d.ActiveBookings,
		MonthlyRevenue:      utils.CentsToAmount(d.MonthlyRevenueCents),
		RecentBookings:      mapSlice(d.RecentBookings, toBooking),
		RecentActivities:    nonNil(d.RecentActivities),
		VehicleTypes:        make([]typeCountResponse, 0, len(d.VehicleTypes)),
		BookingTrends:       make([]dayCountResponse, 0, len(d.BookingTrends)),
	}
	for _, tc := range d.VehicleTypes {
		out.VehicleTypes = append(out.VehicleTypes, typeCountResponse{Type: tc.Type, Count: tc.Count})
	}
	for _, dc := range d.BookingTrends {
		out.BookingTrends = append(out.BookingTrends, dayCountResponse{Date: dc.Date, Count: dc.Count})
	}
	return out
}

func toCustomerDashboard(d *service.CustomerDashboard) *customerDashboardResponse {
	return &customerDashboardResponse{
		TotalBookings:     d.TotalBookings,
		ActiveBookings:    d.ActiveBookings,
		PendingBookings:   d.PendingBookings,
		CompletedBookings: d.CompletedBookings,
		RecentBookings:    mapSlice(d.RecentBookings, toBooking),
		CurrentBooking:    toBooking(d.CurrentBooking),
		AvailableVehicles: mapSlice(d.AvailableVehicles, toVehicle),
		RecentActivities:  nonNil(d.RecentActivities),
	}
}

func toStats(s *service.Stats) *statsResponse {
	return &statsResponse{
		Vehicles: stringKeys(s.Vehicles),
		Bookings: stringKeys(s.Bookings),
		Users:    stringKeys(s.Users),
		Revenue: revenueStats{
			Total:     utils.CentsToAmount(s.TotalRevenueCents),
			ThisMonth: utils.CentsToAmount(s.MonthRevenueCents),
			ThisYear:  utils.CentsToAmount(s.YearRevenueCents),
		},
	}
}

func stringKeys[K ~string](m map[K]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
