package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository/mocks"
	"vehicle-rental-backend/internal/service"
)

func TestDashboardService_Admin(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewStore()
	svc := service.NewDashboardService(newDeps(store, &recordingSink{}))

	store.Vehicles.On("CountByStatus", ctx).Return(map[domain.VehicleStatus]int{
		domain.VehicleStatusAvailable: 4, domain.VehicleStatusRented: 2, domain.VehicleStatusMaintenance: 1,
	}, nil)
	store.Users.On("CountByRole", ctx).Return(map[domain.Role]int{domain.RoleCustomer: 12, domain.RoleAdmin: 1}, nil)
	store.Bookings.On("CountByStatus", ctx, int64(0)).Return(map[domain.BookingStatus]int{
		domain.BookingStatusPending: 3, domain.BookingStatusActive: 2, domain.BookingStatusCompleted: 5,
	}, nil)
	store.Bookings.On("SumRevenueCreatedBetween", ctx, day("2024-01-01"), day("2024-02-01")).Return(int64(99000), nil)
	store.Bookings.On("Recent", ctx, int64(0), 5).Return([]domain.Booking{}, nil)
	store.Activities.On("Recent", ctx, int64(0), 10).Return([]domain.Activity{}, nil)
	store.Vehicles.On("CountByType", ctx).Return([]domain.TypeCount{{Type: "sedan", Count: 7}}, nil)
	store.Bookings.On("CountCreatedPerDay", ctx, domain.DateRange{Start: day("2024-01-09"), End: day("2024-01-15")}).
		Return(map[string]int{"2024-01-10": 2, "2024-01-15": 1}, nil)

	got, err := svc.Dashboard(ctx, admin)
	require.NoError(t, err)
	d, ok := got.(*service.AdminDashboard)
	require.True(t, ok)

	assert.Equal(t, 7, d.TotalVehicles)
	assert.Equal(t, 12, d.TotalCustomers)
	assert.Equal(t, 10, d.TotalBookings)
	assert.Equal(t, 3, d.PendingBookings)
	assert.Equal(t, int64(99000), d.MonthlyRevenueCents)
	require.Len(t, d.BookingTrends, 7)
	assert.Equal(t, service.DayCount{Date: "2024-01-09", Count: 0}, d.BookingTrends[0])
	assert.Equal(t, service.DayCount{Date: "2024-01-10", Count: 2}, d.BookingTrends[1])
	assert.Equal(t, service.DayCount{Date: "2024-01-15", Count: 1}, d.BookingTrends[6])
}

func TestDashboardService_Customer(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewStore()
	svc := service.NewDashboardService(newDeps(store, &recordingSink{}))

	current := &domain.Booking{ID: 4, CustomerID: customer.ID, Status: domain.BookingStatusActive}
	store.Bookings.On("CountByStatus", ctx, customer.ID).Return(map[domain.BookingStatus]int{
		domain.BookingStatusActive: 1, domain.BookingStatusCompleted: 2,
	}, nil)
	store.Bookings.On("Recent", ctx, customer.ID, 5).Return([]domain.Booking{*current}, nil)
	store.Bookings.On("Current", ctx, customer.ID, testNow).Return(current, nil)
	store.Vehicles.On("ListAvailable", ctx, mock.Anything, 6).Return([]domain.Vehicle{*sedan()}, nil)
	store.Activities.On("Recent", ctx, customer.ID, 5).Return([]domain.Activity{}, nil)

	got, err := svc.Dashboard(ctx, customer)
	require.NoError(t, err)
	d, ok := got.(*service.CustomerDashboard)
	require.True(t, ok)

	assert.Equal(t, 3, d.TotalBookings)
	assert.Equal(t, 2, d.CompletedBookings)
	assert.Equal(t, int64(4), d.CurrentBooking.ID)
	assert.Len(t, d.AvailableVehicles, 1)
}

func TestDashboardService_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("Customer is refused", func(t *testing.T) {
		svc := service.NewDashboardService(newDeps(mocks.NewStore(), &recordingSink{}))
		_, err := svc.Stats(ctx, customer)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Revenue windows", func(t *testing.T) {
		store := mocks.NewStore()
		svc := service.NewDashboardService(newDeps(store, &recordingSink{}))
		store.Vehicles.On("CountByStatus", ctx).Return(map[domain.VehicleStatus]int{}, nil)
		store.Bookings.On("CountByStatus", ctx, int64(0)).Return(map[domain.BookingStatus]int{}, nil)
		store.Users.On("CountByRole", ctx).Return(map[domain.Role]int{}, nil)
		store.Bookings.On("SumRevenueCreatedBetween", ctx, mock.MatchedBy(func(from time.Time) bool {
			return from.IsZero()
		}), mock.Anything).Return(int64(500000), nil)
		store.Bookings.On("SumRevenueCreatedBetween", ctx, day("2024-01-01"), day("2024-02-01")).Return(int64(20000), nil)
		store.Bookings.On("SumRevenueCreatedBetween", ctx, day("2024-01-01"), day("2025-01-01")).Return(int64(20000), nil)

		st, err := svc.Stats(ctx, staff)
		require.NoError(t, err)
		assert.Equal(t, int64(500000), st.TotalRevenueCents)
		assert.Equal(t, int64(20000), st.MonthRevenueCents)
		assert.Equal(t, int64(20000), st.YearRevenueCents)
	})
}
