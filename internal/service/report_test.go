package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository/mocks"
	"vehicle-rental-backend/internal/service"
)

func februaryBookings() []domain.Booking {
	v := sedan()
	return []domain.Booking{
		{ID: 1, VehicleID: 1, StartDate: day("2024-02-01"), EndDate: day("2024-02-03"), TotalAmountCents: 13500,
			Status: domain.BookingStatusCompleted, Vehicle: v},
		{ID: 2, VehicleID: 1, StartDate: day("2024-02-10"), EndDate: day("2024-02-10"), TotalAmountCents: 4500,
			Status: domain.BookingStatusActive, Vehicle: v},
	}
}

func TestReportService_Generate(t *testing.T) {
	ctx := context.Background()
	r := domain.DateRange{Start: day("2024-02-01"), End: day("2024-02-29")}

	t.Run("Revenue", func(t *testing.T) {
		store := mocks.NewStore()
		svc := service.NewReportService(newDeps(store, &recordingSink{}))
		store.Bookings.On("ListStartingBetween", ctx, r, domain.RevenueStatuses).Return(februaryBookings(), nil)

		raw, err := svc.Generate(ctx, staff, domain.ReportRevenue, r)
		require.NoError(t, err)

		var data map[string]any
		require.NoError(t, json.Unmarshal(raw, &data))
		assert.Equal(t, 180.0, data["total_revenue"])
		assert.Equal(t, 2.0, data["booking_count"])
		assert.Equal(t, 90.0, data["average_booking_value"])
	})

	t.Run("Utilization loads the fleet", func(t *testing.T) {
		store := mocks.NewStore()
		svc := service.NewReportService(newDeps(store, &recordingSink{}))
		store.Vehicles.On("ListAll", ctx).Return([]domain.Vehicle{*sedan()}, nil)
		store.Bookings.On("ListStartingBetween", ctx, r, domain.RevenueStatuses).Return(februaryBookings(), nil)

		raw, err := svc.Generate(ctx, admin, domain.ReportUtilization, r)
		require.NoError(t, err)

		var data map[string]any
		require.NoError(t, json.Unmarshal(raw, &data))
		assert.Equal(t, 1.0, data["total_vehicles"])
		assert.Equal(t, 29.0, data["total_days"])
		assert.Equal(t, 4.0, data["utilized_days"])
	})

	t.Run("Unknown type", func(t *testing.T) {
		svc := service.NewReportService(newDeps(mocks.NewStore(), &recordingSink{}))
		_, err := svc.Generate(ctx, admin, domain.ReportType("profit"), r)
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("Customer is refused", func(t *testing.T) {
		svc := service.NewReportService(newDeps(mocks.NewStore(), &recordingSink{}))
		_, err := svc.Generate(ctx, customer, domain.ReportRevenue, r)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("End must follow start", func(t *testing.T) {
		store := mocks.NewStore()
		svc := service.NewReportService(newDeps(store, &recordingSink{}))
		sameDay := domain.DateRange{Start: day("2024-02-01"), End: day("2024-02-01")}

		_, err := svc.Generate(ctx, admin, domain.ReportRevenue, sameDay)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"The end date must be a date after start date."}, verr.Fields["end_date"])

		_, err = svc.Create(ctx, admin, service.CreateReportInput{Title: "One day", Type: domain.ReportRevenue, Range: sameDay})
		assert.ErrorAs(t, err, &verr)
		store.Bookings.AssertNotCalled(t, "ListStartingBetween", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReportService_CreateAndExport(t *testing.T) {
	ctx := context.Background()
	r := domain.DateRange{Start: day("2024-02-01"), End: day("2024-02-29")}
	store := mocks.NewStore()
	svc := service.NewReportService(newDeps(store, &recordingSink{}))

	store.Bookings.On("ListCreatedBetween", ctx, r).Return(februaryBookings(), nil)
	store.Reports.On("Create", ctx, mock.AnythingOfType("*domain.Report")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Report).ID = 11 }).
		Return(nil)
	store.Activities.On("Create", ctx, mock.MatchedBy(func(a *domain.Activity) bool {
		return a.Entity == domain.EntityReport && a.EntityID == "11"
	})).Return(nil)

	rp, err := svc.Create(ctx, admin, service.CreateReportInput{Title: " February trends ", Type: domain.ReportBookingTrends, Range: r})
	require.NoError(t, err)
	assert.Equal(t, "February trends", rp.Title)
	assert.Equal(t, admin.ID, rp.GeneratedBy)
	assert.Contains(t, string(rp.Data), `"total_bookings":2`)

	store.Reports.On("GetByID", ctx, int64(11)).Return(rp, nil)
	data, name, err := svc.Export(ctx, admin, 11)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "report-11-booking-trends-2024-02-01_2024-02-29.xlsx", name)
}

func TestReportService_Snapshot(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewStore()
	svc := service.NewReportService(newDeps(store, &recordingSink{}))

	d := day("2024-01-14")
	store.Bookings.On("ListStartingBetween", ctx, domain.DateRange{Start: d, End: d}, domain.RevenueStatuses).Return([]domain.Booking{}, nil)
	store.Reports.On("Create", ctx, mock.MatchedBy(func(rp *domain.Report) bool {
		return rp.Title == "Daily revenue 2024-01-14" && rp.GeneratedBy == 1
	})).Return(nil)

	rp, err := svc.Snapshot(ctx, 1, d.Add(15*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, domain.ReportRevenue, rp.Type)
	store.Reports.AssertExpectations(t)
}
