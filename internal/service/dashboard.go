package service

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/security"
)

const (
	dashboardRecentBookings   = 5
	dashboardRecentActivities = 10
	customerRecentActivities  = 5
	customerAvailableVehicles = 6
	dashboardTrendDays        = 7
)

// DayCount is the number of bookings created on one day.
type DayCount struct {
	Date  string
	Count int
}

type AdminDashboard struct {
	TotalVehicles       int
	AvailableVehicles   int
	RentedVehicles      int
	MaintenanceVehicles int
	TotalCustomers      int
	TotalBookings       int
	PendingBookings     int
	ActiveBookings      int
	MonthlyRevenueCents int64
	RecentBookings      []domain.Booking
	RecentActivities    []domain.Activity
	VehicleTypes        []domain.TypeCount
	BookingTrends       []DayCount
}

type CustomerDashboard struct {
	TotalBookings     int
	ActiveBookings    int
	PendingBookings   int
	CompletedBookings int
	RecentBookings    []domain.Booking
	CurrentBooking    *domain.Booking
	AvailableVehicles []domain.Vehicle
	RecentActivities  []domain.Activity
}

// Stats is the fleet-wide summary shown to staff.
type Stats struct {
	Vehicles map[domain.VehicleStatus]int
	Bookings map[domain.BookingStatus]int
	Users    map[domain.Role]int

	TotalRevenueCents int64
	MonthRevenueCents int64
	YearRevenueCents  int64
}

type dashboardService struct {
	Deps
}

func NewDashboardService(deps Deps) DashboardService {
	return &dashboardService{Deps: deps}
}

// Dashboard returns an *AdminDashboard for users holding the stats
// capability and a *CustomerDashboard for everyone else.
func (s *dashboardService) Dashboard(ctx context.Context, actor *domain.User) (any, error) {
	if s.Policy.Can(actor, security.CapViewStats) {
		return s.admin(ctx)
	}
	return s.customer(ctx, actor)
}

func (s *dashboardService) admin(ctx context.Context) (*AdminDashboard, error) {
	now := s.now()
	d := &AdminDashboard{}

	vehicles, err := s.Repos.Vehicles.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	d.AvailableVehicles = vehicles[domain.VehicleStatusAvailable]
	d.RentedVehicles = vehicles[domain.VehicleStatusRented]
	d.MaintenanceVehicles = vehicles[domain.VehicleStatusMaintenance]
	d.TotalVehicles = sumCounts(vehicles)

	users, err := s.Repos.Users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	d.TotalCustomers = users[domain.RoleCustomer]

	bookings, err := s.Repos.Bookings.CountByStatus(ctx, 0)
	if err != nil {
		return nil, err
	}
	d.TotalBookings = sumCounts(bookings)
	d.PendingBookings = bookings[domain.BookingStatusPending]
	d.ActiveBookings = bookings[domain.BookingStatusActive]

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if d.MonthlyRevenueCents, err = s.Repos.Bookings.SumRevenueCreatedBetween(ctx, monthStart, monthStart.AddDate(0, 1, 0)); err != nil {
		return nil, err
	}
	if d.RecentBookings, err = s.Repos.Bookings.Recent(ctx, 0, dashboardRecentBookings); err != nil {
		return nil, err
	}
	if d.RecentActivities, err = s.Repos.Activities.Recent(ctx, 0, dashboardRecentActivities); err != nil {
		return nil, err
	}
	if d.VehicleTypes, err = s.Repos.Vehicles.CountByType(ctx); err != nil {
		return nil, err
	}

	today := domain.Day(now)
	trend := domain.DateRange{Start: today.AddDate(0, 0, -(dashboardTrendDays - 1)), End: today}
	perDay, err := s.Repos.Bookings.CountCreatedPerDay(ctx, trend)
	if err != nil {
		return nil, err
	}
	for day := trend.Start; !day.After(trend.End); day = day.AddDate(0, 0, 1) {
		key := day.Format(domain.DateLayout)
		d.BookingTrends = append(d.BookingTrends, DayCount{Date: key, Count: perDay[key]})
	}
	return d, nil
}

func (s *dashboardService) customer(ctx context.Context, actor *domain.User) (*CustomerDashboard, error) {
	d := &CustomerDashboard{}

	counts, err := s.Repos.Bookings.CountByStatus(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	d.TotalBookings = sumCounts(counts)
	d.ActiveBookings = counts[domain.BookingStatusActive]
	d.PendingBookings = counts[domain.BookingStatusPending]
	d.CompletedBookings = counts[domain.BookingStatusCompleted]

	if d.RecentBookings, err = s.Repos.Bookings.Recent(ctx, actor.ID, dashboardRecentBookings); err != nil {
		return nil, err
	}
	if d.CurrentBooking, err = s.Repos.Bookings.Current(ctx, actor.ID, s.now()); err != nil {
		return nil, err
	}
	if d.AvailableVehicles, err = s.Repos.Vehicles.ListAvailable(ctx, nil, customerAvailableVehicles); err != nil {
		return nil, err
	}
	if d.RecentActivities, err = s.Repos.Activities.Recent(ctx, actor.ID, customerRecentActivities); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *dashboardService) Stats(ctx context.Context, actor *domain.User) (*Stats, error) {
	if err := s.Policy.Authorize(actor, security.CapViewStats); err != nil {
		return nil, err
	}

	st := &Stats{}
	var err error
	if st.Vehicles, err = s.Repos.Vehicles.CountByStatus(ctx); err != nil {
		return nil, err
	}
	if st.Bookings, err = s.Repos.Bookings.CountByStatus(ctx, 0); err != nil {
		return nil, err
	}
	if st.Users, err = s.Repos.Users.CountByRole(ctx); err != nil {
		return nil, err
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	if st.TotalRevenueCents, err = s.Repos.Bookings.SumRevenueCreatedBetween(ctx, time.Time{}, now.AddDate(100, 0, 0)); err != nil {
		return nil, err
	}
	if st.MonthRevenueCents, err = s.Repos.Bookings.SumRevenueCreatedBetween(ctx, monthStart, monthStart.AddDate(0, 1, 0)); err != nil {
		return nil, err
	}
	if st.YearRevenueCents, err = s.Repos.Bookings.SumRevenueCreatedBetween(ctx, yearStart, yearStart.AddDate(1, 0, 0)); err != nil {
		return nil, err
	}
	return st, nil
}

func sumCounts[K comparable](m map[K]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}
