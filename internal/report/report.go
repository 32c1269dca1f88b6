// Package report aggregates booking and fleet snapshots into revenue,
// utilization and booking-trend figures. It performs no I/O.
package report

import (
	"encoding/json"
	"fmt"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/utils"
)

const unknownType = "unknown"

// Snapshot is the read-only input of one report run. Bookings should carry
// their joined Vehicle so type breakdowns can be computed.
type Snapshot struct {
	Vehicles []domain.Vehicle
	Bookings []domain.Booking
}

type RevenueData struct {
	TotalRevenue        float64            `json:"total_revenue"`
	BookingCount        int                `json:"booking_count"`
	AverageBookingValue float64            `json:"average_booking_value"`
	RevenueByType       map[string]float64 `json:"revenue_by_type"`
	DailyRevenue        map[string]float64 `json:"daily_revenue"`
}

type TypeUtilization struct {
	TotalVehicles   int     `json:"total_vehicles"`
	UtilizationRate float64 `json:"utilization_rate"`
}

type UtilizationData struct {
	TotalVehicles     int                        `json:"total_vehicles"`
	TotalDays         int                        `json:"total_days"`
	UtilizedDays      int                        `json:"utilized_days"`
	UtilizationRate   float64                    `json:"utilization_rate"`
	UtilizationByType map[string]TypeUtilization `json:"utilization_by_type"`
}

type BookingTrendsData struct {
	TotalBookings    int            `json:"total_bookings"`
	BookingsByStatus map[string]int `json:"bookings_by_status"`
	BookingsByMonth  map[string]int `json:"bookings_by_month"`
	BookingsByType   map[string]int `json:"bookings_by_type"`
	SuccessRate      float64        `json:"success_rate"`
	AverageDuration  float64        `json:"average_duration"`
}

// Generate runs the aggregator for kind and returns its JSON document.
func Generate(kind domain.ReportType, s Snapshot, r domain.DateRange) (json.RawMessage, error) {
	var data any
	switch kind {
	case domain.ReportRevenue:
		data = Revenue(s.Bookings, r)
	case domain.ReportUtilization:
		data = Utilization(s.Vehicles, s.Bookings, r)
	case domain.ReportBookingTrends:
		data = BookingTrends(s.Bookings, r)
	default:
		return nil, fmt.Errorf("unknown report type: %s", kind)
	}
	return json.Marshal(data)
}

// earning keeps completed and active bookings whose start date lies in r.
func earning(bookings []domain.Booking, r domain.DateRange) []domain.Booking {
	var out []domain.Booking
	for _, b := range bookings {
		if b.Status.IsRevenue() && r.Contains(b.StartDate) {
			out = append(out, b)
		}
	}
	return out
}

func typeOf(b domain.Booking) string {
	if t := b.VehicleType(); t != "" {
		return t
	}
	return unknownType
}

// Revenue sums completed and active bookings starting inside r.
func Revenue(bookings []domain.Booking, r domain.DateRange) RevenueData {
	qualifying := earning(bookings, r)

	var totalCents int64
	byType := map[string]int64{}
	byDay := map[string]int64{}
	for _, b := range qualifying {
		totalCents += b.TotalAmountCents
		byType[typeOf(b)] += b.TotalAmountCents
		byDay[b.StartDate.Format(domain.DateLayout)] += b.TotalAmountCents
	}

	data := RevenueData{
		TotalRevenue:  utils.CentsToAmount(totalCents),
		BookingCount:  len(qualifying),
		RevenueByType: centsMap(byType),
		DailyRevenue:  centsMap(byDay),
	}
	if data.BookingCount > 0 {
		data.AverageBookingValue = utils.Round(data.TotalRevenue/float64(data.BookingCount), 2)
	}
	return data
}

func centsMap(m map[string]int64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = utils.CentsToAmount(v)
	}
	return out
}

// Utilization compares booked vehicle-days with the fleet's capacity over r.
func Utilization(vehicles []domain.Vehicle, bookings []domain.Booking, r domain.DateRange) UtilizationData {
	qualifying := earning(bookings, r)
	totalDays := r.Days()

	utilized := 0
	byVehicle := map[int64]int{}
	for _, b := range qualifying {
		d := b.RentalDays()
		utilized += d
		byVehicle[b.VehicleID] += d
	}

	typeVehicles := map[string]int{}
	typeDays := map[string]int{}
	for _, v := range vehicles {
		t := v.Type
		if t == "" {
			t = unknownType
		}
		typeVehicles[t]++
		typeDays[t] += byVehicle[v.ID]
	}

	byType := make(map[string]TypeUtilization, len(typeVehicles))
	for t, n := range typeVehicles {
		byType[t] = TypeUtilization{
			TotalVehicles:   n,
			UtilizationRate: utils.Percent(float64(typeDays[t]), float64(n*totalDays), 2),
		}
	}

	return UtilizationData{
		TotalVehicles:     len(vehicles),
		TotalDays:         totalDays,
		UtilizedDays:      utilized,
		UtilizationRate:   utils.Percent(float64(utilized), float64(len(vehicles)*totalDays), 2),
		UtilizationByType: byType,
	}
}

// BookingTrends describes every booking created on a day inside r.
func BookingTrends(bookings []domain.Booking, r domain.DateRange) BookingTrendsData {
	data := BookingTrendsData{
		BookingsByStatus: map[string]int{},
		BookingsByMonth:  map[string]int{},
		BookingsByType:   map[string]int{},
	}

	completed, completedDays := 0, 0
	for _, b := range bookings {
		if !r.Contains(b.CreatedAt) {
			continue
		}
		data.TotalBookings++
		data.BookingsByStatus[string(b.Status)]++
		data.BookingsByMonth[b.CreatedAt.UTC().Format("2006-01")]++
		data.BookingsByType[typeOf(b)]++
		if b.Status == domain.BookingStatusCompleted {
			completed++
			completedDays += b.RentalDays()
		}
	}

	data.SuccessRate = utils.Percent(float64(completed), float64(data.TotalBookings), 2)
	if completed > 0 {
		data.AverageDuration = utils.Round(float64(completedDays)/float64(completed), 1)
	}
	return data
}
