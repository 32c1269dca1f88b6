package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"vehicle-rental-backend/internal/booking"
	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
	"vehicle-rental-backend/internal/security"
	"vehicle-rental-backend/internal/storage"
)

// VehiclePatch is a partial vehicle update. Nil fields are left unchanged.
type VehiclePatch struct {
	Make           *string
	Model          *string
	Year           *int
	Type           *string
	DailyRateCents *int64
	Status         *domain.VehicleStatus
	LicensePlate   *string
	Color          *string
	FuelType       *string
	Transmission   *string
	Seats          *int
	ImageURL       *string
}

func (p VehiclePatch) apply(v *domain.Vehicle) {
	setIf(&v.Make, p.Make)
	setIf(&v.Model, p.Model)
	setIf(&v.Year, p.Year)
	setIf(&v.Type, p.Type)
	setIf(&v.DailyRateCents, p.DailyRateCents)
	setIf(&v.Status, p.Status)
	setIf(&v.LicensePlate, p.LicensePlate)
	setIf(&v.Color, p.Color)
	setIf(&v.FuelType, p.FuelType)
	setIf(&v.Transmission, p.Transmission)
	setIf(&v.Seats, p.Seats)
	setIf(&v.ImageURL, p.ImageURL)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

type vehicleService struct {
	Deps
	images storage.ObjectStore
}

func NewVehicleService(deps Deps, images storage.ObjectStore) VehicleService {
	return &vehicleService{Deps: deps, images: images}
}

func (s *vehicleService) List(ctx context.Context, filter domain.VehicleFilter, page domain.Page) (domain.PageResult[domain.Vehicle], error) {
	vehicles, total, err := s.Repos.Vehicles.List(ctx, filter, page)
	if err != nil {
		return domain.PageResult[domain.Vehicle]{}, err
	}
	return domain.NewPageResult(vehicles, total, page), nil
}

// Get returns the vehicle with its maintenance history.
func (s *vehicleService) Get(ctx context.Context, id int64) (*domain.Vehicle, error) {
	v, err := s.Repos.Vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	records, err := s.Repos.Maintenance.ListByVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Maintenance = records
	return v, nil
}

func (s *vehicleService) Create(ctx context.Context, actor *domain.User, v *domain.Vehicle) error {
	if err := s.Policy.Authorize(actor, security.CapManageVehicles); err != nil {
		return err
	}
	if v.Status == "" {
		v.Status = domain.VehicleStatusAvailable
	}
	if !v.Status.IsValid() {
		return domain.NewValidationError("status", "The selected status is invalid.")
	}
	v.LicensePlate = strings.TrimSpace(v.LicensePlate)

	now := s.now()
	return s.inTx(ctx, func(ctx context.Context, repos *repository.Repositories) ([]domain.Event, error) {
		if err := repos.Vehicles.Create(ctx, v); err != nil {
			return nil, plateError(err)
		}
		return []domain.Event{
			activity(actor, domain.ActionCreated, domain.EntityVehicle, v.ID, "Created vehicle: "+v.DisplayName(), now),
		}, nil
	})
}

func (s *vehicleService) Update(ctx context.Context, actor *domain.User, id int64, patch VehiclePatch) (*domain.Vehicle, error) {
	if err := s.Policy.Authorize(actor, security.CapManageVehicles); err != nil {
		return nil, err
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		return nil, domain.NewValidationError("status", "The selected status is invalid.")
	}

	var v *domain.Vehicle
	now := s.now()
	err := s.inTx(ctx, func(ctx context.Context, repos *repository.Repositories) ([]domain.Event, error) {
		var err error
		if v, err = repos.Vehicles.GetByIDForUpdate(ctx, id); err != nil {
			return nil, err
		}
		patch.apply(v)
		if err := repos.Vehicles.Update(ctx, v); err != nil {
			return nil, plateError(err)
		}
		return []domain.Event{
			activity(actor, domain.ActionUpdated, domain.EntityVehicle, v.ID, "Updated vehicle: "+v.DisplayName(), now),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Delete soft-deletes the vehicle unless an approved or active booking still
// holds it. Pending requests for the vehicle are cancelled in the same transaction.
func (s *vehicleService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	if err := s.Policy.Authorize(actor, security.CapManageVehicles); err != nil {
		return err
	}

	now := s.now()
	return s.inTx(ctx, func(ctx context.Context, repos *repository.Repositories) ([]domain.Event, error) {
		v, err := repos.Vehicles.GetByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		n, err := repos.Bookings.CountBlocking(ctx, id)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, &domain.ConflictError{Message: "Cannot delete vehicle with active bookings"}
		}
		evts, err := cancelPending(ctx, repos, v, actor, now)
		if err != nil {
			return nil, err
		}
		if err := repos.Vehicles.Delete(ctx, id); err != nil {
			return nil, err
		}
		return append(evts,
			activity(actor, domain.ActionDeleted, domain.EntityVehicle, id, "Deleted vehicle: "+v.DisplayName(), now),
		), nil
	})
}

// cancelPending cancels the requests still waiting on a vehicle that is being
// removed. Nothing can move them once the vehicle row is gone.
func cancelPending(ctx context.Context, repos *repository.Repositories, v *domain.Vehicle, actor *domain.User, now time.Time) ([]domain.Event, error) {
	pending, err := repos.Bookings.ListByVehicle(ctx, v.ID, []domain.BookingStatus{domain.BookingStatusPending})
	if err != nil {
		return nil, err
	}
	var evts []domain.Event
	for i := range pending {
		b := &pending[i]
		cancelled, err := booking.Cancel(b, v, actor, now)
		if err != nil {
			return nil, err
		}
		if err := repos.Bookings.Update(ctx, b); err != nil {
			return nil, err
		}
		evts = append(evts, cancelled...)
		evts = append(evts, domain.NotificationRequested{
			UserID:  b.CustomerID,
			Title:   "Booking Cancelled",
			Message: fmt.Sprintf("Your booking for %s has been cancelled because the vehicle is no longer available", v.DisplayName()),
			Type:    domain.NotificationWarning,
			At:      now,
		})
	}
	return evts, nil
}

// Available lists vehicles that can be booked, cheapest first. A non-nil r
// excludes vehicles held on any of its days.
func (s *vehicleService) Available(ctx context.Context, r *domain.DateRange) ([]domain.Vehicle, error) {
	vehicles, err := s.Repos.Vehicles.ListAvailable(ctx, r, 0)
	if err != nil {
		return nil, err
	}
	if vehicles == nil {
		vehicles = []domain.Vehicle{}
	}
	return vehicles, nil
}

// UploadImage stores a new image for the vehicle and points image_url at it.
// The previous image is removed once the row is updated.
func (s *vehicleService) UploadImage(ctx context.Context, actor *domain.User, id int64, ext string, body io.Reader) (*domain.Vehicle, error) {
	logger.EnterMethod("vehicleService.UploadImage", "vehicleID", id)

	if err := s.Policy.Authorize(actor, security.CapManageVehicles); err != nil {
		return nil, err
	}
	if _, err := s.Repos.Vehicles.GetByID(ctx, id); err != nil {
		return nil, err
	}

	key := storage.NewVehicleImageKey(id, ext)
	size, err := s.images.Save(ctx, key, body)
	if err != nil {
		logger.ExitMethodWithError("vehicleService.UploadImage", err, "key", key)
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	var v *domain.Vehicle
	var oldURL string
	now := s.now()
	err = s.inTx(ctx, func(ctx context.Context, repos *repository.Repositories) ([]domain.Event, error) {
		var err error
		if v, err = repos.Vehicles.GetByIDForUpdate(ctx, id); err != nil {
			return nil, err
		}
		oldURL = v.ImageURL
		v.ImageURL = s.images.URL(key)
		if err := repos.Vehicles.Update(ctx, v); err != nil {
			return nil, err
		}
		return []domain.Event{
			activity(actor, domain.ActionUpdated, domain.EntityVehicle, v.ID, "Updated vehicle image: "+v.DisplayName(), now),
		}, nil
	})
	if err != nil {
		if delErr := s.images.Delete(ctx, key); delErr != nil {
			logger.Warn("Failed to remove orphaned image", "key", key, "error", delErr)
		}
		return nil, err
	}

	if oldKey, ok := s.images.KeyFromURL(oldURL); ok {
		if err := s.images.Delete(ctx, oldKey); err != nil {
			logger.Warn("Failed to remove previous image", "key", oldKey, "error", err)
		}
	}
	logger.ExitMethod("vehicleService.UploadImage", "vehicleID", id, "size", size)
	return v, nil
}

// plateError reports a duplicate plate against the license_plate field.
func plateError(err error) error {
	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		return domain.NewValidationError("license_plate", conflict.Message)
	}
	return err
}
