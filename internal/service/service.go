package service

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"vehicle-rental-backend/internal/booking"
	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/events"
	"vehicle-rental-backend/internal/repository"
	"vehicle-rental-backend/internal/security"
)

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Logout(ctx context.Context, claims *security.UserClaims) error
	// Authenticate validates a bearer token and loads its user.
	Authenticate(ctx context.Context, token string) (*domain.User, *security.UserClaims, error)
	Me(ctx context.Context, userID int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, in ProfileInput) (*domain.User, error)
}

type VehicleService interface {
	List(ctx context.Context, filter domain.VehicleFilter, page domain.Page) (domain.PageResult[domain.Vehicle], error)
	Get(ctx context.Context, id int64) (*domain.Vehicle, error)
	Create(ctx context.Context, actor *domain.User, v *domain.Vehicle) error
	Update(ctx context.Context, actor *domain.User, id int64, patch VehiclePatch) (*domain.Vehicle, error)
	Delete(ctx context.Context, actor *domain.User, id int64) error
	Available(ctx context.Context, r *domain.DateRange) ([]domain.Vehicle, error)
	UploadImage(ctx context.Context, actor *domain.User, id int64, ext string, body io.Reader) (*domain.Vehicle, error)
}

type AvailabilityService interface {
	IsAvailable(ctx context.Context, vehicleID int64, start, end time.Time) (bool, error)
}

type BookingService interface {
	Create(ctx context.Context, actor *domain.User, req booking.CreateRequest) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, actor *domain.User, id int64, change booking.StatusChange) (*domain.Booking, error)
	Cancel(ctx context.Context, actor *domain.User, id int64) (*domain.Booking, error)
	Get(ctx context.Context, actor *domain.User, id int64) (*domain.Booking, error)
	List(ctx context.Context, actor *domain.User, filter domain.BookingFilter, page domain.Page) (domain.PageResult[domain.Booking], error)
}

type MaintenanceService interface {
	List(ctx context.Context, filter domain.MaintenanceFilter, page domain.Page) (domain.PageResult[domain.MaintenanceRecord], error)
	Get(ctx context.Context, id int64) (*domain.MaintenanceRecord, error)
	Create(ctx context.Context, actor *domain.User, rec *domain.MaintenanceRecord) error
	Update(ctx context.Context, actor *domain.User, id int64, patch MaintenancePatch) (*domain.MaintenanceRecord, error)
	Delete(ctx context.Context, actor *domain.User, id int64) error
	ListByVehicle(ctx context.Context, vehicleID int64) ([]domain.MaintenanceRecord, error)
}

type ActivityService interface {
	List(ctx context.Context, actor *domain.User, filter domain.ActivityFilter, page domain.Page) (domain.PageResult[domain.Activity], error)
	Get(ctx context.Context, actor *domain.User, id int64) (*domain.Activity, error)
	ByEntity(ctx context.Context, actor *domain.User, entity, entityID string, page domain.Page) (domain.PageResult[domain.Activity], error)
	ByUser(ctx context.Context, actor *domain.User, userID int64, page domain.Page) (domain.PageResult[domain.Activity], error)
}

type NotificationService interface {
	List(ctx context.Context, userID int64, filter domain.NotificationFilter, page domain.Page) (domain.PageResult[domain.Notification], error)
	Get(ctx context.Context, userID, id int64) (*domain.Notification, error)
	MarkAsRead(ctx context.Context, userID, id int64) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context, userID int64) (int64, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	Delete(ctx context.Context, userID, id int64) error
	Send(ctx context.Context, actor *domain.User, in SendNotificationInput) (*domain.Notification, error)
}

type ReportService interface {
	Generate(ctx context.Context, actor *domain.User, kind domain.ReportType, r domain.DateRange) (json.RawMessage, error)
	Create(ctx context.Context, actor *domain.User, in CreateReportInput) (*domain.Report, error)
	List(ctx context.Context, actor *domain.User, filter domain.ReportFilter, page domain.Page) (domain.PageResult[domain.Report], error)
	Get(ctx context.Context, actor *domain.User, id int64) (*domain.Report, error)
	Delete(ctx context.Context, actor *domain.User, id int64) error
	// Export renders a stored report as an XLSX workbook.
	Export(ctx context.Context, actor *domain.User, id int64) (data []byte, filename string, err error)
	// Snapshot stores a revenue report for one day on behalf of ownerID. Used by the scheduler.
	Snapshot(ctx context.Context, ownerID int64, day time.Time) (*domain.Report, error)
}

type DashboardService interface {
	Dashboard(ctx context.Context, actor *domain.User) (any, error)
	Stats(ctx context.Context, actor *domain.User) (*Stats, error)
}

// Deps is what every service needs. Repos is bound to the pool; Tx hands out
// transaction-bound repositories for multi-row mutations.
type Deps struct {
	Repos      *repository.Repositories
	Tx         repository.Transactor
	Dispatcher *events.Dispatcher
	Policy     *security.Policy
	Now        func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

// txFunc runs inside a transaction and returns the events it decided on.
type txFunc func(ctx context.Context, repos *repository.Repositories) ([]domain.Event, error)

// inTx runs fn in one transaction together with the persistence of its events,
// then publishes the applied events once the transaction has committed.
func (d Deps) inTx(ctx context.Context, fn txFunc) error {
	_, err := d.inTxMessages(ctx, fn)
	return err
}

// inTxMessages is inTx for callers that need the applied messages, such as
// the notifications a NotificationRequested produced.
func (d Deps) inTxMessages(ctx context.Context, fn txFunc) ([]events.Message, error) {
	var msgs []events.Message
	err := d.Tx.WithinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		evts, err := fn(ctx, repos)
		if err != nil {
			return err
		}
		msgs, err = d.Dispatcher.Apply(ctx, repos, evts)
		return err
	})
	if err != nil {
		return nil, err
	}
	d.Dispatcher.Publish(context.WithoutCancel(ctx), msgs)
	return msgs, nil
}

// activity builds the audit event every fleet mutation records.
func activity(actor *domain.User, action, entity string, entityID int64, details string, at time.Time) domain.Event {
	return domain.ActivityRecorded{Activity: domain.Activity{
		UserID:    actor.ID,
		Action:    action,
		Entity:    entity,
		EntityID:  formatID(entityID),
		Details:   details,
		Timestamp: at,
	}}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
