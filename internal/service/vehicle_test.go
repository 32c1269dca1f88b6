package service_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository/mocks"
	"vehicle-rental-backend/internal/service"
	"vehicle-rental-backend/internal/storage"
)

type memStore struct {
	objects map[string][]byte
	deleted []string
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (m *memStore) Save(ctx context.Context, key string, r io.Reader) (int64, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.objects[key] = b
	return int64(len(b)), nil
}

func (m *memStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	b, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memStore) URL(key string) string { return "http://cdn.test/" + key }

func (m *memStore) KeyFromURL(u string) (string, bool) {
	if !strings.HasPrefix(u, "http://cdn.test/") {
		return "", false
	}
	return strings.TrimPrefix(u, "http://cdn.test/"), true
}

func TestVehicleService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Records activity", func(t *testing.T) {
		store := mocks.NewStore()
		svc := service.NewVehicleService(newDeps(store, &recordingSink{}), newMemStore())
		store.Vehicles.On("Create", ctx, mock.AnythingOfType("*domain.Vehicle")).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.Vehicle).ID = 3 }).
			Return(nil)
		store.Activities.On("Create", ctx, mock.MatchedBy(func(a *domain.Activity) bool {
			return a.Entity == domain.EntityVehicle && a.EntityID == "3" && a.Details == "Created vehicle: Toyota Camry"
		})).Return(nil)

		v := sedan()
		v.ID = 0
		v.Status = ""
		require.NoError(t, svc.Create(ctx, staff, v))
		assert.Equal(t, domain.VehicleStatusAvailable, v.Status)
		store.Activities.AssertExpectations(t)
	})

	t.Run("Duplicate plate", func(t *testing.T) {
		store := mocks.NewStore()
		svc := service.NewVehicleService(newDeps(store, &recordingSink{}), newMemStore())
		store.Vehicles.On("Create", ctx, mock.Anything).Return(&domain.ConflictError{Message: "The license plate has already been taken."})

		err := svc.Create(ctx, admin, sedan())
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "license_plate")
	})

	t.Run("Customer is refused", func(t *testing.T) {
		svc := service.NewVehicleService(newDeps(mocks.NewStore(), &recordingSink{}), newMemStore())
		assert.ErrorIs(t, svc.Create(ctx, customer, sedan()), domain.ErrUnauthorized)
	})
}

func TestVehicleService_Update(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewStore()
	svc := service.NewVehicleService(newDeps(store, &recordingSink{}), newMemStore())

	store.Vehicles.On("GetByIDForUpdate", ctx, int64(1)).Return(sedan(), nil)
	store.Vehicles.On("Update", ctx, mock.AnythingOfType("*domain.Vehicle")).Return(nil)
	store.Activities.On("Create", ctx, mock.AnythingOfType("*domain.Activity")).Return(nil)

	rate := int64(5000)
	status := domain.VehicleStatusMaintenance
	v, err := svc.Update(ctx, admin, 1, service.VehiclePatch{DailyRateCents: &rate, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), v.DailyRateCents)
	assert.Equal(t, domain.VehicleStatusMaintenance, v.Status)
	assert.Equal(t, "Camry", v.Model)

	bad := domain.VehicleStatus("scrapped")
	_, err = svc.Update(ctx, admin, 1, service.VehiclePatch{Status: &bad})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestVehicleService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Refused while booked", func(t *testing.T) {
		store := mocks.NewStore()
		svc := service.NewVehicleService(newDeps(store, &recordingSink{}), newMemStore())
		store.Vehicles.On("GetByIDForUpdate", ctx, int64(1)).Return(sedan(), nil)
		store.Bookings.On("CountBlocking", ctx, int64(1)).Return(2, nil)

		err := svc.Delete(ctx, admin, 1)
		var conflict *domain.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "Cannot delete vehicle with active bookings", conflict.Message)
		store.Vehicles.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Soft deletes", func(t *testing.T) {
		store := mocks.NewStore()
		svc := service.NewVehicleService(newDeps(store, &recordingSink{}), newMemStore())
		store.Vehicles.On("GetByIDForUpdate", ctx, int64(1)).Return(sedan(), nil)
		store.Bookings.On("CountBlocking", ctx, int64(1)).Return(0, nil)
		store.Bookings.On("ListByVehicle", ctx, int64(1), []domain.BookingStatus{domain.BookingStatusPending}).Return([]domain.Booking{}, nil)
		store.Vehicles.On("Delete", ctx, int64(1)).Return(nil)
		store.Activities.On("Create", ctx, mock.MatchedBy(func(a *domain.Activity) bool {
			return a.Action == domain.ActionDeleted && a.Details == "Deleted vehicle: Toyota Camry"
		})).Return(nil)

		require.NoError(t, svc.Delete(ctx, staff, 1))
		assert.Equal(t, 1, store.Commits)
	})

	t.Run("Cancels pending requests with the vehicle", func(t *testing.T) {
		store := mocks.NewStore()
		sink := &recordingSink{}
		svc := service.NewVehicleService(newDeps(store, sink), newMemStore())
		waiting := domain.Booking{ID: 42, CustomerID: customer.ID, VehicleID: 1,
			StartDate: day("2024-03-01"), EndDate: day("2024-03-03"), Status: domain.BookingStatusPending}
		store.Vehicles.On("GetByIDForUpdate", ctx, int64(1)).Return(sedan(), nil)
		store.Bookings.On("CountBlocking", ctx, int64(1)).Return(0, nil)
		store.Bookings.On("ListByVehicle", ctx, int64(1), []domain.BookingStatus{domain.BookingStatusPending}).
			Return([]domain.Booking{waiting}, nil)
		store.Bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.ID == 42 && b.Status == domain.BookingStatusCancelled
		})).Return(nil)
		store.Vehicles.On("Delete", ctx, int64(1)).Return(nil)
		store.Activities.On("Create", ctx, mock.AnythingOfType("*domain.Activity")).Return(nil)
		store.Users.On("GetByID", ctx, customer.ID).Return(customer, nil)
		store.Notifications.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == customer.ID && n.Title == "Booking Cancelled" && n.Type == domain.NotificationWarning
		})).Return(nil)

		require.NoError(t, svc.Delete(ctx, admin, 1))
		store.Bookings.AssertExpectations(t)
		store.Notifications.AssertExpectations(t)
		store.Activities.AssertNumberOfCalls(t, "Create", 2)
		assert.Equal(t, 1, store.Commits)
	})

}

func TestVehicleService_Get(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewStore()
	svc := service.NewVehicleService(newDeps(store, &recordingSink{}), newMemStore())
	store.Vehicles.On("GetByID", ctx, int64(1)).Return(sedan(), nil)
	store.Maintenance.On("ListByVehicle", ctx, int64(1)).Return([]domain.MaintenanceRecord{{ID: 4, Type: "oil change"}}, nil)

	v, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, v.Maintenance, 1)
	assert.Equal(t, "oil change", v.Maintenance[0].Type)
}

func TestVehicleService_UploadImage(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewStore()
	images := newMemStore()
	images.objects["vehicles/1/old.jpg"] = []byte("old")
	svc := service.NewVehicleService(newDeps(store, &recordingSink{}), images)

	current := sedan()
	current.ImageURL = "http://cdn.test/vehicles/1/old.jpg"
	store.Vehicles.On("GetByID", ctx, int64(1)).Return(sedan(), nil)
	store.Vehicles.On("GetByIDForUpdate", ctx, int64(1)).Return(current, nil)
	store.Vehicles.On("Update", ctx, mock.AnythingOfType("*domain.Vehicle")).Return(nil)
	store.Activities.On("Create", ctx, mock.AnythingOfType("*domain.Activity")).Return(nil)

	v, err := svc.UploadImage(ctx, admin, 1, ".png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(v.ImageURL, "http://cdn.test/vehicles/1/"))
	assert.True(t, strings.HasSuffix(v.ImageURL, ".png"))
	assert.Equal(t, []string{"vehicles/1/old.jpg"}, images.deleted)
	assert.Len(t, images.objects, 1)
}
