package service_test

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/events"
	"vehicle-rental-backend/internal/repository/mocks"
	"vehicle-rental-backend/internal/security"
	"vehicle-rental-backend/internal/service"
)

var testNow = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

var (
	admin    = &domain.User{ID: 1, Name: "Admin User", Email: "admin@example.com", Role: domain.RoleAdmin}
	staff    = &domain.User{ID: 2, Name: "Staff User", Email: "staff@example.com", Role: domain.RoleStaff}
	customer = &domain.User{ID: 5, Name: "Jane Customer", Email: "jane@example.com", Role: domain.RoleCustomer}
	other    = &domain.User{ID: 6, Name: "Other Customer", Email: "other@example.com", Role: domain.RoleCustomer}
)

// recordingSink captures published messages.
type recordingSink struct {
	got []events.Message
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Deliver(ctx context.Context, msgs []events.Message) error {
	s.got = append(s.got, msgs...)
	return nil
}

func newDeps(store *mocks.Store, sink *recordingSink) service.Deps {
	return service.Deps{
		Repos:      store.Repositories(),
		Tx:         store,
		Dispatcher: events.NewDispatcher(sink),
		Policy:     security.DefaultPolicy(),
		Now:        func() time.Time { return testNow },
	}
}

func day(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func sedan() *domain.Vehicle {
	return &domain.Vehicle{
		ID:             1,
		Make:           "Toyota",
		Model:          "Camry",
		Type:           "sedan",
		DailyRateCents: 4500,
		Status:         domain.VehicleStatusAvailable,
		LicensePlate:   "ABC-123",
	}
}
