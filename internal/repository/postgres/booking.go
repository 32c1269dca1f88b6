package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
)

type bookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingSelect = `SELECT b.id, b.customer_id, b.vehicle_id, b.start_date, b.end_date, b.total_amount_cents, b.status,
	COALESCE(b.notes, ''), b.created_at, b.updated_at, v.make, v.model, v.type, v.daily_rate_cents, v.status, u.name
	FROM bookings b
	JOIN vehicles v ON v.id = b.vehicle_id
	JOIN users u ON u.id = b.customer_id`

func scanBooking(row interface{ Scan(...any) error }, b *domain.Booking) error {
	v := &domain.Vehicle{}
	err := row.Scan(&b.ID, &b.CustomerID, &b.VehicleID, &b.StartDate, &b.EndDate, &b.TotalAmountCents, &b.Status,
		&b.Notes, &b.CreatedAt, &b.UpdatedAt, &v.Make, &v.Model, &v.Type, &v.DailyRateCents, &v.Status, &b.CustomerName)
	if err != nil {
		return err
	}
	v.ID = b.VehicleID
	b.Vehicle = v
	b.StartDate = domain.Day(b.StartDate)
	b.EndDate = domain.Day(b.EndDate)
	return nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	logger.EnterMethod("bookingRepository.Create", "customerID", b.CustomerID, "vehicleID", b.VehicleID)
	query := `INSERT INTO bookings (customer_id, vehicle_id, start_date, end_date, total_amount_cents, status, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9) RETURNING id`
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
		b.UpdatedAt = b.CreatedAt
	}
	logger.DatabaseCall("INSERT", "bookings", "vehicleID", b.VehicleID)
	err := r.db.QueryRowContext(ctx, query, b.CustomerID, b.VehicleID, b.StartDate, b.EndDate, b.TotalAmountCents, b.Status,
		b.Notes, b.CreatedAt, b.UpdatedAt).Scan(&b.ID)
	logger.DatabaseResult("INSERT", 1, err, "bookingID", b.ID)
	if err != nil {
		logger.ExitMethodWithError("bookingRepository.Create", err)
		return err
	}
	logger.ExitMethod("bookingRepository.Create", "bookingID", b.ID)
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b := &domain.Booking{}
	if err := scanBooking(r.db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = $1`, id), b); err != nil {
		return nil, notFound(err, "Booking", id)
	}
	return b, nil
}

func (r *bookingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	logger.DatabaseCall("SELECT FOR UPDATE", "bookings", "bookingID", id)
	b := &domain.Booking{}
	err := scanBooking(r.db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = $1 FOR UPDATE OF b`, id), b)
	logger.DatabaseResult("SELECT FOR UPDATE", 1, err, "bookingID", id)
	if err != nil {
		return nil, notFound(err, "Booking", id)
	}
	return b, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET status=$1, notes=NULLIF($2, ''), updated_at=$3 WHERE id=$4`
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = time.Now().UTC()
	}
	logger.DatabaseCall("UPDATE", "bookings", "bookingID", b.ID, "status", b.Status)
	result, err := r.db.ExecContext(ctx, query, b.Status, b.Notes, b.UpdatedAt, b.ID)
	if err != nil {
		return err
	}
	return requireRow(result, "Booking", b.ID)
}

func (r *bookingRepository) List(ctx context.Context, f domain.BookingFilter, page domain.Page) ([]domain.Booking, int, error) {
	var c conditions
	if f.CustomerID != 0 {
		c.add("b.customer_id = $%d", f.CustomerID)
	}
	if f.VehicleID != 0 {
		c.add("b.vehicle_id = $%d", f.VehicleID)
	}
	if f.Status != "" {
		c.add("b.status = $%d", f.Status)
	}
	if f.StartFrom != nil {
		c.add("b.start_date >= $%d", *f.StartFrom)
	}
	if f.StartTo != nil {
		c.add("b.start_date <= $%d", *f.StartTo)
	}

	query, args, total, err := paginate(ctx, r.db, bookingSelect+c.where(), c.args, "b.created_at DESC, b.id DESC", page)
	if err != nil {
		return nil, 0, err
	}
	bookings, err := r.query(ctx, query, args...)
	return bookings, total, err
}

func (r *bookingRepository) ListByVehicle(ctx context.Context, vehicleID int64, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	return r.query(ctx, bookingSelect+` WHERE b.vehicle_id = $1 AND b.status = ANY($2) ORDER BY b.start_date`,
		vehicleID, pq.Array(statusStrings(statuses)))
}

func (r *bookingRepository) CountBlocking(ctx context.Context, vehicleID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM bookings WHERE vehicle_id = $1 AND status = ANY($2)`,
		vehicleID, pq.Array(statusStrings(domain.BlockingStatuses))).Scan(&n)
	return n, err
}

func (r *bookingRepository) ListStartingBetween(ctx context.Context, dr domain.DateRange, statuses []domain.BookingStatus) ([]domain.Booking, error) {
	return r.query(ctx, bookingSelect+` WHERE b.start_date BETWEEN $1 AND $2 AND b.status = ANY($3) ORDER BY b.start_date`,
		dr.Start, dr.End, pq.Array(statusStrings(statuses)))
}

// ListCreatedBetween matches on the calendar day of created_at, both ends inclusive.
func (r *bookingRepository) ListCreatedBetween(ctx context.Context, dr domain.DateRange) ([]domain.Booking, error) {
	return r.query(ctx, bookingSelect+` WHERE b.created_at >= $1 AND b.created_at < $2 ORDER BY b.created_at`,
		dr.Start, dr.End.AddDate(0, 0, 1))
}

// Recent returns the latest bookings; customerID 0 spans all customers.
func (r *bookingRepository) Recent(ctx context.Context, customerID int64, limit int) ([]domain.Booking, error) {
	if customerID == 0 {
		return r.query(ctx, bookingSelect+` ORDER BY b.created_at DESC LIMIT $1`, limit)
	}
	return r.query(ctx, bookingSelect+` WHERE b.customer_id = $1 ORDER BY b.created_at DESC LIMIT $2`, customerID, limit)
}

// Current returns the customer's active booking covering today, or nil.
func (r *bookingRepository) Current(ctx context.Context, customerID int64, today time.Time) (*domain.Booking, error) {
	bookings, err := r.query(ctx, bookingSelect+` WHERE b.customer_id = $1 AND b.status = 'active'
		AND b.start_date <= $2 AND b.end_date >= $2 ORDER BY b.start_date LIMIT 1`, customerID, domain.Day(today))
	if err != nil || len(bookings) == 0 {
		return nil, err
	}
	return &bookings[0], nil
}

// CountByStatus counts bookings per status; customerID 0 spans all customers.
func (r *bookingRepository) CountByStatus(ctx context.Context, customerID int64) (map[domain.BookingStatus]int, error) {
	query := `SELECT status, count(*) FROM bookings GROUP BY status`
	var args []any
	if customerID != 0 {
		query = `SELECT status, count(*) FROM bookings WHERE customer_id = $1 GROUP BY status`
		args = append(args, customerID)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[domain.BookingStatus]int{}
	for rows.Next() {
		var s domain.BookingStatus
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		counts[s] = n
	}
	return counts, rows.Err()
}

// SumRevenueCreatedBetween sums completed and active bookings created in [from, to).
func (r *bookingRepository) SumRevenueCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(total_amount_cents), 0) FROM bookings
		WHERE created_at >= $1 AND created_at < $2 AND status = ANY($3)`,
		from, to, pq.Array(statusStrings(domain.RevenueStatuses))).Scan(&total)
	return total, err
}

func (r *bookingRepository) CountCreatedPerDay(ctx context.Context, dr domain.DateRange) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT to_char(created_at, 'YYYY-MM-DD') AS day, count(*) FROM bookings
		WHERE created_at >= $1 AND created_at < $2 GROUP BY day`, dr.Start, dr.End.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var day string
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, err
		}
		counts[day] = n
	}
	return counts, rows.Err()
}

func (r *bookingRepository) query(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
