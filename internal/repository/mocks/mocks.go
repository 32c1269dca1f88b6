// Package mocks provides testify mocks of the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) ListByRoles(ctx context.Context, roles []domain.Role) ([]domain.User, error) {
	args := m.Called(ctx, roles)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) CountByRole(ctx context.Context) (map[domain.Role]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[domain.Role]int), args.Error(1)
}

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) Create(ctx context.Context, v *domain.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockVehicleRepo) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) Update(ctx context.Context, v *domain.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockVehicleRepo) UpdateStatus(ctx context.Context, id int64, status domain.VehicleStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockVehicleRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockVehicleRepo) List(ctx context.Context, f domain.VehicleFilter, page domain.Page) ([]domain.Vehicle, int, error) {
	args := m.Called(ctx, f, page)
	return args.Get(0).([]domain.Vehicle), args.Int(1), args.Error(2)
}
func (m *MockVehicleRepo) ListAll(ctx context.Context) ([]domain.Vehicle, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) ListAvailable(ctx context.Context, r *domain.DateRange, limit int) ([]domain.Vehicle, error) {
	args := m.Called(ctx, r, limit)
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) CountByStatus(ctx context.Context) (map[domain.VehicleStatus]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[domain.VehicleStatus]int), args.Error(1)
}
func (m *MockVehicleRepo) CountByType(ctx context.Context) ([]domain.TypeCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.TypeCount), args.Error(1)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) List(ctx context.Context, f domain.BookingFilter, page domain.Page) ([]domain.Booking, int, error) {
	args := m.Called(ctx, f, page)
	return args.Get(0).([]domain.Booking), args.Int(1), args.Error(2)
}
func (m *MockBookingRepo) ListByVehicle(ctx context.Context, vehicleID int64, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	args := m.Called(ctx, vehicleID, statuses)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) CountBlocking(ctx context.Context, vehicleID int64) (int, error) {
	args := m.Called(ctx, vehicleID)
	return args.Int(0), args.Error(1)
}
func (m *MockBookingRepo) ListStartingBetween(ctx context.Context, r domain.DateRange, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	args := m.Called(ctx, r, statuses)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListCreatedBetween(ctx context.Context, r domain.DateRange) ([]domain.Booking, error) {
	args := m.Called(ctx, r)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Recent(ctx context.Context, customerID int64, limit int) ([]domain.Booking, error) {
	args := m.Called(ctx, customerID, limit)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Current(ctx context.Context, customerID int64, today time.Time) (*domain.Booking, error) {
	args := m.Called(ctx, customerID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) CountByStatus(ctx context.Context, customerID int64) (map[domain.BookingStatus]int, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(map[domain.BookingStatus]int), args.Error(1)
}
func (m *MockBookingRepo) SumRevenueCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockBookingRepo) CountCreatedPerDay(ctx context.Context, r domain.DateRange) (map[string]int, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(map[string]int), args.Error(1)
}

// MockMaintenanceRepo
type MockMaintenanceRepo struct {
	mock.Mock
}

func (m *MockMaintenanceRepo) Create(ctx context.Context, rec *domain.MaintenanceRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}
func (m *MockMaintenanceRepo) GetByID(ctx context.Context, id int64) (*domain.MaintenanceRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaintenanceRecord), args.Error(1)
}
func (m *MockMaintenanceRepo) Update(ctx context.Context, rec *domain.MaintenanceRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}
func (m *MockMaintenanceRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockMaintenanceRepo) List(ctx context.Context, f domain.MaintenanceFilter, page domain.Page) ([]domain.MaintenanceRecord, int, error) {
	args := m.Called(ctx, f, page)
	return args.Get(0).([]domain.MaintenanceRecord), args.Int(1), args.Error(2)
}
func (m *MockMaintenanceRepo) ListByVehicle(ctx context.Context, vehicleID int64) ([]domain.MaintenanceRecord, error) {
	args := m.Called(ctx, vehicleID)
	return args.Get(0).([]domain.MaintenanceRecord), args.Error(1)
}

// MockActivityRepo
type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockActivityRepo) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Activity), args.Error(1)
}
func (m *MockActivityRepo) List(ctx context.Context, f domain.ActivityFilter, page domain.Page) ([]domain.Activity, int, error) {
	args := m.Called(ctx, f, page)
	return args.Get(0).([]domain.Activity), args.Int(1), args.Error(2)
}
func (m *MockActivityRepo) Recent(ctx context.Context, userID int64, limit int) ([]domain.Activity, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]domain.Activity), args.Error(1)
}
func (m *MockActivityRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepo) GetByID(ctx context.Context, id, userID int64) (*domain.Notification, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int64, f domain.NotificationFilter, page domain.Page) ([]domain.Notification, int, error) {
	args := m.Called(ctx, userID, f, page)
	return args.Get(0).([]domain.Notification), args.Int(1), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
func (m *MockNotificationRepo) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotificationRepo) UnreadCount(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
func (m *MockNotificationRepo) Delete(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
func (m *MockNotificationRepo) PurgeReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockReportRepo
type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) Create(ctx context.Context, r *domain.Report) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReportRepo) GetByID(ctx context.Context, id int64) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}
func (m *MockReportRepo) List(ctx context.Context, f domain.ReportFilter, page domain.Page) ([]domain.Report, int, error) {
	args := m.Called(ctx, f, page)
	return args.Get(0).([]domain.Report), args.Int(1), args.Error(2)
}
func (m *MockReportRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Store bundles one mock per repository and acts as a Transactor that runs
// the callback against the same mocks.
type Store struct {
	Users         *MockUserRepo
	Vehicles      *MockVehicleRepo
	Bookings      *MockBookingRepo
	Maintenance   *MockMaintenanceRepo
	Activities    *MockActivityRepo
	Notifications *MockNotificationRepo
	Reports       *MockReportRepo

	// Commits counts transactions whose callback returned nil.
	Commits int
}

func NewStore() *Store {
	return &Store{
		Users:         new(MockUserRepo),
		Vehicles:      new(MockVehicleRepo),
		Bookings:      new(MockBookingRepo),
		Maintenance:   new(MockMaintenanceRepo),
		Activities:    new(MockActivityRepo),
		Notifications: new(MockNotificationRepo),
		Reports:       new(MockReportRepo),
	}
}

func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Users:         s.Users,
		Vehicles:      s.Vehicles,
		Bookings:      s.Bookings,
		Maintenance:   s.Maintenance,
		Activities:    s.Activities,
		Notifications: s.Notifications,
		Reports:       s.Reports,
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos *repository.Repositories) error) error {
	if err := fn(ctx, s.Repositories()); err != nil {
		return err
	}
	s.Commits++
	return nil
}
