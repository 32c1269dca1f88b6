package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository"
)

var vehicleRowColumns = []string{"id", "make", "model", "year", "type", "daily_rate_cents", "status", "license_plate",
	"color", "fuel_type", "transmission", "seats", "image_url", "created_at", "updated_at"}

var bookingRowColumns = []string{"id", "customer_id", "vehicle_id", "start_date", "end_date", "total_amount_cents", "status",
	"notes", "created_at", "updated_at", "make", "model", "type", "daily_rate_cents", "vehicle_status", "name"}

func day(s string) time.Time {
	d, _ := domain.ParseDate(s)
	return d
}

func TestStore_WithinTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	store := NewStore(db)
	ctx := context.Background()

	t.Run("Commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE vehicles SET status").
			WithArgs(domain.VehicleStatusRented, sqlmock.AnyArg(), int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.WithinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
			return repos.Vehicles.UpdateStatus(ctx, 3, domain.VehicleStatusRented)
		})
		assert.NoError(t, err)
	})

	t.Run("Rollback on error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := store.WithinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleRepository_GetByIDForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewVehicleRepository(db)
	ctx := context.Background()

	t.Run("Locks row", func(t *testing.T) {
		rows := sqlmock.NewRows(vehicleRowColumns).
			AddRow(1, "Toyota", "Corolla", 2022, "sedan", 4500, "available", "ABC-123", "white", "petrol", "automatic", 5, "", time.Now(), time.Now())
		mock.ExpectQuery(`SELECT (.+) FROM vehicles v WHERE v.id = \$1 AND v.deleted_at IS NULL FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(rows)

		v, err := repo.GetByIDForUpdate(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Toyota Corolla", v.DisplayName())
		assert.Equal(t, int64(4500), v.DailyRateCents)
		assert.True(t, v.IsAvailable())
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM vehicles v").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(vehicleRowColumns))

		_, err := repo.GetByIDForUpdate(ctx, 99)
		var nf *domain.NotFoundError
		assert.ErrorAs(t, err, &nf)
	})
}

func TestVehicleRepository_CreateDuplicatePlate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewVehicleRepository(db)
	mock.ExpectQuery("INSERT INTO vehicles").
		WillReturnError(&pq.Error{Code: "23505"})

	err = repo.Create(context.Background(), &domain.Vehicle{Make: "Ford", Model: "Focus", LicensePlate: "ABC-123"})
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, plateTaken, conflict.Message)
}

func TestVehicleRepository_ListAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewVehicleRepository(db)
	r := domain.DateRange{Start: day("2024-02-03"), End: day("2024-02-05")}

	mock.ExpectQuery(`NOT EXISTS (.+) b.start_date <= \$1 AND b.end_date >= \$2\) ORDER BY v.daily_rate_cents ASC, v.id ASC LIMIT \$3`).
		WithArgs(r.End, r.Start, 6).
		WillReturnRows(sqlmock.NewRows(vehicleRowColumns).
			AddRow(2, "Honda", "Civic", 2021, "sedan", 4000, "available", "XYZ-9", "", "", "", 0, "", time.Now(), time.Now()))

	vehicles, err := repo.ListAvailable(context.Background(), &r, 6)
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, int64(2), vehicles[0].ID)
}

func TestVehicleRepository_ListPaginates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewVehicleRepository(db)
	filter := domain.VehicleFilter{Status: domain.VehicleStatusAvailable, Search: "toy"}

	mock.ExpectQuery(`SELECT count\(\*\) FROM \(SELECT (.+) v.status = \$1 AND \(v.make ILIKE \$2 OR v.model ILIKE \$2\)\) AS sub`).
		WithArgs(domain.VehicleStatusAvailable, "%toy%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(16))
	mock.ExpectQuery(`LIMIT \$3 OFFSET \$4`).
		WithArgs(domain.VehicleStatusAvailable, "%toy%", 15, 15).
		WillReturnRows(sqlmock.NewRows(vehicleRowColumns))

	_, total, err := repo.List(context.Background(), filter, domain.NewPage(2, 15, 15))
	require.NoError(t, err)
	assert.Equal(t, 16, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_ListByVehicle(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	rows := sqlmock.NewRows(bookingRowColumns).
		AddRow(5, 7, 1, day("2024-02-01"), day("2024-02-03"), 13500, "approved", "", time.Now(), time.Now(), "Toyota", "Corolla", "sedan", 4500, "available", "Jane Doe")
	mock.ExpectQuery(`FROM bookings b (.+) WHERE b.vehicle_id = \$1 AND b.status = ANY\(\$2\)`).
		WithArgs(int64(1), sqlmock.AnyArg()).
		WillReturnRows(rows)

	bookings, err := repo.ListByVehicle(context.Background(), 1, domain.BlockingStatuses)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, domain.BookingStatusApproved, bookings[0].Status)
	assert.Equal(t, "sedan", bookings[0].VehicleType())
	assert.Equal(t, "Jane Doe", bookings[0].CustomerName)
	assert.Equal(t, 3, bookings[0].RentalDays())
}

func TestBookingRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	b := &domain.Booking{CustomerID: 7, VehicleID: 1, StartDate: day("2024-02-01"), EndDate: day("2024-02-03"),
		TotalAmountCents: 13500, Status: domain.BookingStatusPending}

	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(int64(7), int64(1), b.StartDate, b.EndDate, int64(13500), domain.BookingStatusPending, "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	require.NoError(t, repo.Create(context.Background(), b))
	assert.Equal(t, int64(11), b.ID)
}

func TestBookingRepository_GetByIDForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Locks the booking row", func(t *testing.T) {
		rows := sqlmock.NewRows(bookingRowColumns).
			AddRow(5, 7, 1, day("2024-02-01"), day("2024-02-03"), 13500, "pending", "", time.Now(), time.Now(), "Toyota", "Corolla", "sedan", 4500, "available", "Jane Doe")
		mock.ExpectQuery(`FROM bookings b (.+) WHERE b.id = \$1 FOR UPDATE OF b`).
			WithArgs(int64(5)).
			WillReturnRows(rows)

		b, err := repo.GetByIDForUpdate(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusPending, b.Status)
		assert.Equal(t, int64(1), b.VehicleID)
	})

	t.Run("Missing booking is not found", func(t *testing.T) {
		mock.ExpectQuery(`FOR UPDATE OF b`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(bookingRowColumns))

		_, err := repo.GetByIDForUpdate(ctx, 99)
		var nf *domain.NotFoundError
		assert.True(t, errors.As(err, &nf))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkAsRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewNotificationRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE notifications SET read = TRUE WHERE id = \\$1 AND user_id = \\$2").
			WithArgs(int64(4), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.MarkAsRead(ctx, 4, 7))
	})

	t.Run("Foreign notification", func(t *testing.T) {
		mock.ExpectExec("UPDATE notifications SET read = TRUE").
			WithArgs(int64(4), int64(8)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		var nf *domain.NotFoundError
		assert.ErrorAs(t, repo.MarkAsRead(ctx, 4, 8), &nf)
	})
}

func TestActivityRepository_PurgeBefore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	cutoff := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("DELETE FROM activities WHERE timestamp < \\$1").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 42))

	n, err := NewActivityRepository(db).PurgeBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestReportRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewReportRepository(db)
	rows := sqlmock.NewRows([]string{"id", "title", "type", "start_date", "end_date", "data", "generated_by", "name", "created_at"}).
		AddRow(3, "February", "revenue", day("2024-02-01"), day("2024-02-29"), []byte(`{"total_revenue":135}`), 1, "Admin", time.Now())
	mock.ExpectQuery(`FROM reports r (.+) WHERE r.id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	rp, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportRevenue, rp.Type)
	assert.JSONEq(t, `{"total_revenue":135}`, string(rp.Data))
	assert.Equal(t, "Admin", rp.GeneratorName)
}
