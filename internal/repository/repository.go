package repository

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	ListByRoles(ctx context.Context, roles []domain.Role) ([]domain.User, error)
	CountByRole(ctx context.Context) (map[domain.Role]int, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	// GetByIDForUpdate locks the vehicle row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Vehicle, error)
	Update(ctx context.Context, vehicle *domain.Vehicle) error
	UpdateStatus(ctx context.Context, id int64, status domain.VehicleStatus) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.VehicleFilter, page domain.Page) ([]domain.Vehicle, int, error)
	ListAll(ctx context.Context) ([]domain.Vehicle, error)
	// ListAvailable returns vehicles with status available, cheapest first. A
	// non-nil range also excludes vehicles held by an approved or active booking
	// on any day of it. limit <= 0 means no limit.
	ListAvailable(ctx context.Context, r *domain.DateRange, limit int) ([]domain.Vehicle, error)
	CountByStatus(ctx context.Context) (map[domain.VehicleStatus]int, error)
	CountByType(ctx context.Context) ([]domain.TypeCount, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	// GetByIDForUpdate locks the booking row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
	List(ctx context.Context, filter domain.BookingFilter, page domain.Page) ([]domain.Booking, int, error)
	// ListByVehicle returns the vehicle's bookings in any of statuses.
	ListByVehicle(ctx context.Context, vehicleID int64, statuses []domain.BookingStatus) ([]domain.Booking, error)
	CountBlocking(ctx context.Context, vehicleID int64) (int, error)
	// ListStartingBetween and ListCreatedBetween join the vehicle for report breakdowns.
	ListStartingBetween(ctx context.Context, r domain.DateRange, statuses []domain.BookingStatus) ([]domain.Booking, error)
	ListCreatedBetween(ctx context.Context, r domain.DateRange) ([]domain.Booking, error)
	Recent(ctx context.Context, customerID int64, limit int) ([]domain.Booking, error)
	Current(ctx context.Context, customerID int64, today time.Time) (*domain.Booking, error)
	CountByStatus(ctx context.Context, customerID int64) (map[domain.BookingStatus]int, error)
	SumRevenueCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountCreatedPerDay(ctx context.Context, r domain.DateRange) (map[string]int, error)
}

type MaintenanceRepository interface {
	Create(ctx context.Context, record *domain.MaintenanceRecord) error
	GetByID(ctx context.Context, id int64) (*domain.MaintenanceRecord, error)
	Update(ctx context.Context, record *domain.MaintenanceRecord) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.MaintenanceFilter, page domain.Page) ([]domain.MaintenanceRecord, int, error)
	ListByVehicle(ctx context.Context, vehicleID int64) ([]domain.MaintenanceRecord, error)
}

type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	GetByID(ctx context.Context, id int64) (*domain.Activity, error)
	List(ctx context.Context, filter domain.ActivityFilter, page domain.Page) ([]domain.Activity, int, error)
	Recent(ctx context.Context, userID int64, limit int) ([]domain.Activity, error)
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id, userID int64) (*domain.Notification, error)
	List(ctx context.Context, userID int64, filter domain.NotificationFilter, page domain.Page) ([]domain.Notification, int, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) (int64, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	Delete(ctx context.Context, id, userID int64) error
	PurgeReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id int64) (*domain.Report, error)
	List(ctx context.Context, filter domain.ReportFilter, page domain.Page) ([]domain.Report, int, error)
	Delete(ctx context.Context, id int64) error
}

// Repositories groups every repository bound to one connection or transaction.
type Repositories struct {
	Users         UserRepository
	Vehicles      VehicleRepository
	Bookings      BookingRepository
	Maintenance   MaintenanceRepository
	Activities    ActivityRepository
	Notifications NotificationRepository
	Reports       ReportRepository
}

// Transactor runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error
}
