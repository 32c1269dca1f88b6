package service

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository"
	"vehicle-rental-backend/internal/security"
)

// MaintenancePatch is a partial maintenance update. Nil fields are left unchanged.
type MaintenancePatch struct {
	VehicleID   *int64
	Date        *time.Time
	Type        *string
	Description *string
	CostCents   *int64
	PerformedBy *string
}

type maintenanceService struct {
	Deps
}

func NewMaintenanceService(deps Deps) MaintenanceService {
	return &maintenanceService{Deps: deps}
}

func (s *maintenanceService) List(ctx context.Context, filter domain.MaintenanceFilter, page domain.Page) (domain.PageResult[domain.MaintenanceRecord], error) {
	records, total, err := s.Repos.Maintenance.List(ctx, filter, page)
	if err != nil {
		return domain.PageResult[domain.MaintenanceRecord]{}, err
	}
	return domain.NewPageResult(records, total, page), nil
}

func (s *maintenanceService) Get(ctx context.Context, id int64) (*domain.MaintenanceRecord, error) {
	return s.Repos.Maintenance.GetByID(ctx, id)
}

func (s *maintenanceService) Create(ctx context.Context, actor *domain.User, rec *domain.MaintenanceRecord) error {
	if err := s.Policy.Authorize(actor, security.CapManageMaintenance); err != nil {
		return err
	}
	rec.Date = domain.Day(rec.Date)

	now := s.now()
	return s.inTx(ctx, func(ctx context.Context, repos *repository.Repositories) ([]domain.Event, error) {
		v, err := repos.Vehicles.GetByID(ctx, rec.VehicleID)
		if err != nil {
			return nil, err
		}
		if err := repos.Maintenance.Create(ctx, rec); err != nil {
			return nil, err
		}
		rec.Vehicle = v
		return []domain.Event{
			activity(actor, domain.ActionCreated, domain.EntityMaintenance, rec.ID,
				"Added maintenance record for vehicle: "+v.DisplayName(), now),
		}, nil
	})
}

func (s *maintenanceService) Update(ctx context.Context, actor *domain.User, id int64, patch MaintenancePatch) (*domain.MaintenanceRecord, error) {
	if err := s.Policy.Authorize(actor, security.CapManageMaintenance); err != nil {
		return nil, err
	}

	var rec *domain.MaintenanceRecord
	now := s.now()
	err := s.inTx(ctx, func(ctx context.Context, repos *repository.Repositories) ([]domain.Event, error) {
		var err error
		if rec, err = repos.Maintenance.GetByID(ctx, id); err != nil {
			return nil, err
		}
		if patch.VehicleID != nil && *patch.VehicleID != rec.VehicleID {
			v, err := repos.Vehicles.GetByID(ctx, *patch.VehicleID)
			if err != nil {
				return nil, err
			}
			rec.VehicleID = v.ID
			rec.Vehicle = v
		}
		if patch.Date != nil {
			rec.Date = domain.Day(*patch.Date)
		}
		setIf(&rec.Type, patch.Type)
		setIf(&rec.Description, patch.Description)
		setIf(&rec.CostCents, patch.CostCents)
		setIf(&rec.PerformedBy, patch.PerformedBy)

		if err := repos.Maintenance.Update(ctx, rec); err != nil {
			return nil, err
		}
		return []domain.Event{
			activity(actor, domain.ActionUpdated, domain.EntityMaintenance, rec.ID,
				"Updated maintenance record for vehicle: "+rec.Vehicle.DisplayName(), now),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *maintenanceService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	if err := s.Policy.Authorize(actor, security.CapManageMaintenance); err != nil {
		return err
	}

	now := s.now()
	return s.inTx(ctx, func(ctx context.Context, repos *repository.Repositories) ([]domain.Event, error) {
		rec, err := repos.Maintenance.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := repos.Maintenance.Delete(ctx, id); err != nil {
			return nil, err
		}
		return []domain.Event{
			activity(actor, domain.ActionDeleted, domain.EntityMaintenance, id,
				"Deleted maintenance record for vehicle: "+rec.Vehicle.DisplayName(), now),
		}, nil
	})
}

// ListByVehicle returns the vehicle's records, newest first.
func (s *maintenanceService) ListByVehicle(ctx context.Context, vehicleID int64) ([]domain.MaintenanceRecord, error) {
	if _, err := s.Repos.Vehicles.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}
	records, err := s.Repos.Maintenance.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.MaintenanceRecord{}
	}
	return records, nil
}
