package service

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/booking"
	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
)

type availabilityService struct {
	repos *repository.Repositories
}

func NewAvailabilityService(repos *repository.Repositories) AvailabilityService {
	return &availabilityService{repos: repos}
}

// IsAvailable reports whether no approved or active booking of the vehicle
// shares a day with [start, end]. An unknown or deleted vehicle is NotFound.
func (s *availabilityService) IsAvailable(ctx context.Context, vehicleID int64, start, end time.Time) (bool, error) {
	logger.EnterMethod("availabilityService.IsAvailable", "vehicleID", vehicleID)

	r, err := domain.NewDateRange(start, end)
	if err != nil {
		return false, domain.NewValidationError("end_date", "The end date must be a date after or equal to start date.")
	}
	if _, err := s.repos.Vehicles.GetByID(ctx, vehicleID); err != nil {
		logger.ExitMethodWithError("availabilityService.IsAvailable", err, "vehicleID", vehicleID)
		return false, err
	}
	existing, err := s.repos.Bookings.ListByVehicle(ctx, vehicleID, domain.BlockingStatuses)
	if err != nil {
		return false, err
	}

	ok := booking.IsAvailable(existing, r.Start, r.End)
	logger.ExitMethod("availabilityService.IsAvailable", "vehicleID", vehicleID, "available", ok)
	return ok, nil
}
