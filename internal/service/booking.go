package service

import (
	"context"

	"vehicle-rental-backend/internal/booking"
	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
	"vehicle-rental-backend/internal/security"
)

type bookingService struct {
	Deps
}

func NewBookingService(deps Deps) BookingService {
	return &bookingService{Deps: deps}
}

// Create books a vehicle for the acting customer. The vehicle row stays locked
// from the overlap check until the booking is committed, so two concurrent
// requests for the same dates cannot both succeed.
func (s *bookingService) Create(ctx context.Context, actor *domain.User, req booking.CreateRequest) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.Create", "customerID", actor.ID, "vehicleID", req.VehicleID)

	if err := s.Policy.Authorize(actor, security.CapCreateBooking); err != nil {
		return nil, err
	}
	now := s.now()
	if err := req.Validate(now); err != nil {
		return nil, err
	}

	var b *domain.Booking
	err := s.inTx(ctx, func(ctx context.Context, repos *repository.Repositories) ([]domain.Event, error) {
		vehicle, err := repos.Vehicles.GetByIDForUpdate(ctx, req.VehicleID)
		if err != nil {
			return nil, err
		}
		existing, err := repos.Bookings.ListByVehicle(ctx, vehicle.ID, domain.BlockingStatuses)
		if err != nil {
			return nil, err
		}
		if b, err = booking.Create(actor, vehicle, req, existing, now); err != nil {
			return nil, err
		}
		if err := repos.Bookings.Create(ctx, b); err != nil {
			return nil, err
		}
		b.Vehicle = vehicle
		b.CustomerName = actor.Name
		return booking.CreatedEvents(b, actor, vehicle, now), nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.Create", err)
		return nil, err
	}

	logger.ExitMethod("bookingService.Create", "bookingID", b.ID, "total", b.TotalAmountCents)
	return b, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, actor *domain.User, id int64, change booking.StatusChange) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.UpdateStatus", "bookingID", id, "status", change.Status)

	if err := s.Policy.Authorize(actor, security.CapUpdateBookingStatus); err != nil {
		return nil, err
	}

	var b *domain.Booking
	now := s.now()
	err := s.inTx(ctx, func(ctx context.Context, repos *repository.Repositories) ([]domain.Event, error) {
		current, err := repos.Bookings.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		var vehicle *domain.Vehicle
		if b, vehicle, err = lockForTransition(ctx, repos, current); err != nil {
			return nil, err
		}
		existing, err := repos.Bookings.ListByVehicle(ctx, vehicle.ID, domain.BlockingStatuses)
		if err != nil {
			return nil, err
		}

		prev := vehicle.Status
		evts, err := booking.ChangeStatus(b, vehicle, change, actor, existing, now)
		if err != nil {
			return nil, err
		}
		if err := repos.Bookings.Update(ctx, b); err != nil {
			return nil, err
		}
		if vehicle.Status != prev {
			if err := repos.Vehicles.UpdateStatus(ctx, vehicle.ID, vehicle.Status); err != nil {
				return nil, err
			}
		}
		b.Vehicle = vehicle
		return evts, nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.UpdateStatus", err, "bookingID", id)
		return nil, err
	}

	logger.ExitMethod("bookingService.UpdateStatus", "bookingID", id, "status", b.Status)
	return b, nil
}

func (s *bookingService) Cancel(ctx context.Context, actor *domain.User, id int64) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.Cancel", "bookingID", id, "actorID", actor.ID)

	var b *domain.Booking
	now := s.now()
	err := s.inTx(ctx, func(ctx context.Context, repos *repository.Repositories) ([]domain.Event, error) {
		current, err := repos.Bookings.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !s.Policy.CanAccessOwned(actor, current.CustomerID, security.CapCancelAnyBooking) {
			return nil, domain.ErrUnauthorized
		}
		var vehicle *domain.Vehicle
		if b, vehicle, err = lockForTransition(ctx, repos, current); err != nil {
			return nil, err
		}

		evts, err := booking.Cancel(b, vehicle, actor, now)
		if err != nil {
			return nil, err
		}
		if err := repos.Bookings.Update(ctx, b); err != nil {
			return nil, err
		}
		b.Vehicle = vehicle
		return evts, nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.Cancel", err, "bookingID", id)
		return nil, err
	}

	logger.ExitMethod("bookingService.Cancel", "bookingID", id)
	return b, nil
}

// lockForTransition locks the booking's vehicle and then the booking row, the
// same vehicle-first order Create and vehicle deletion use, and re-reads the
// booking so a transition committed meanwhile is seen.
func lockForTransition(ctx context.Context, repos *repository.Repositories, b *domain.Booking) (*domain.Booking, *domain.Vehicle, error) {
	vehicle, err := repos.Vehicles.GetByIDForUpdate(ctx, b.VehicleID)
	if err != nil {
		return nil, nil, err
	}
	locked, err := repos.Bookings.GetByIDForUpdate(ctx, b.ID)
	if err != nil {
		return nil, nil, err
	}
	return locked, vehicle, nil
}

func (s *bookingService) Get(ctx context.Context, actor *domain.User, id int64) (*domain.Booking, error) {
	b, err := s.Repos.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.Policy.CanAccessOwned(actor, b.CustomerID, security.CapViewAllBookings) {
		return nil, domain.ErrUnauthorized
	}
	return b, nil
}

// List pages bookings, newest first. Users without the view-all capability
// only ever see their own bookings, whatever customer filter they pass.
func (s *bookingService) List(ctx context.Context, actor *domain.User, filter domain.BookingFilter, page domain.Page) (domain.PageResult[domain.Booking], error) {
	if !s.Policy.Can(actor, security.CapViewAllBookings) {
		filter.CustomerID = actor.ID
	}
	bookings, total, err := s.Repos.Bookings.List(ctx, filter, page)
	if err != nil {
		return domain.PageResult[domain.Booking]{}, err
	}
	return domain.NewPageResult(bookings, total, page), nil
}
