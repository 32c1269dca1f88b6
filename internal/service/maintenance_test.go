package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository/mocks"
	"vehicle-rental-backend/internal/service"
)

func TestMaintenanceService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Truncates date and records activity", func(t *testing.T) {
		store := mocks.NewStore()
		svc := service.NewMaintenanceService(newDeps(store, &recordingSink{}))
		store.Vehicles.On("GetByID", ctx, int64(1)).Return(sedan(), nil)
		store.Maintenance.On("Create", ctx, mock.AnythingOfType("*domain.MaintenanceRecord")).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.MaintenanceRecord).ID = 8 }).
			Return(nil)
		store.Activities.On("Create", ctx, mock.MatchedBy(func(a *domain.Activity) bool {
			return a.Entity == domain.EntityMaintenance && a.EntityID == "8" &&
				a.Details == "Added maintenance record for vehicle: Toyota Camry"
		})).Return(nil)

		rec := &domain.MaintenanceRecord{VehicleID: 1, Date: testNow, Type: "oil change", CostCents: 7999}
		require.NoError(t, svc.Create(ctx, staff, rec))
		assert.Equal(t, day("2024-01-15"), rec.Date)
		assert.Equal(t, "Toyota", rec.Vehicle.Make)
		store.Activities.AssertExpectations(t)
	})

	t.Run("Unknown vehicle", func(t *testing.T) {
		store := mocks.NewStore()
		svc := service.NewMaintenanceService(newDeps(store, &recordingSink{}))
		store.Vehicles.On("GetByID", ctx, int64(99)).Return(nil, &domain.NotFoundError{Entity: "Vehicle"})

		err := svc.Create(ctx, admin, &domain.MaintenanceRecord{VehicleID: 99, Date: testNow, Type: "tyres"})
		var nf *domain.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, 0, store.Commits)
	})

	t.Run("Customer is refused", func(t *testing.T) {
		svc := service.NewMaintenanceService(newDeps(mocks.NewStore(), &recordingSink{}))
		err := svc.Create(ctx, customer, &domain.MaintenanceRecord{VehicleID: 1})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestMaintenanceService_Update(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewStore()
	svc := service.NewMaintenanceService(newDeps(store, &recordingSink{}))

	van := &domain.Vehicle{ID: 2, Make: "Ford", Model: "Transit"}
	store.Maintenance.On("GetByID", ctx, int64(8)).
		Return(&domain.MaintenanceRecord{ID: 8, VehicleID: 1, Vehicle: sedan(), Type: "oil change", CostCents: 7999}, nil)
	store.Vehicles.On("GetByID", ctx, int64(2)).Return(van, nil)
	store.Maintenance.On("Update", ctx, mock.AnythingOfType("*domain.MaintenanceRecord")).Return(nil)
	store.Activities.On("Create", ctx, mock.MatchedBy(func(a *domain.Activity) bool {
		return a.Details == "Updated maintenance record for vehicle: Ford Transit"
	})).Return(nil)

	vehicleID, cost := int64(2), int64(12000)
	rec, err := svc.Update(ctx, admin, 8, service.MaintenancePatch{VehicleID: &vehicleID, CostCents: &cost})
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.VehicleID)
	assert.Equal(t, int64(12000), rec.CostCents)
	assert.Equal(t, "oil change", rec.Type)
	store.Activities.AssertExpectations(t)
}

func TestMaintenanceService_ListByVehicle(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewStore()
	svc := service.NewMaintenanceService(newDeps(store, &recordingSink{}))
	store.Vehicles.On("GetByID", ctx, int64(1)).Return(sedan(), nil)
	store.Maintenance.On("ListByVehicle", ctx, int64(1)).Return([]domain.MaintenanceRecord(nil), nil)

	records, err := svc.ListByVehicle(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}
