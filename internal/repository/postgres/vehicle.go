package postgres

import (
	"context"
	"fmt"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
)

type vehicleRepository struct {
	db DBTX
}

func NewVehicleRepository(db DBTX) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

const vehicleColumns = `v.id, v.make, v.model, v.year, v.type, v.daily_rate_cents, v.status, v.license_plate,
	COALESCE(v.color, ''), COALESCE(v.fuel_type, ''), COALESCE(v.transmission, ''), COALESCE(v.seats, 0),
	COALESCE(v.image_url, ''), v.created_at, v.updated_at`

const plateTaken = "The license plate has already been taken."

func scanVehicle(row interface{ Scan(...any) error }, v *domain.Vehicle) error {
	return row.Scan(&v.ID, &v.Make, &v.Model, &v.Year, &v.Type, &v.DailyRateCents, &v.Status, &v.LicensePlate,
		&v.Color, &v.FuelType, &v.Transmission, &v.Seats, &v.ImageURL, &v.CreatedAt, &v.UpdatedAt)
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `INSERT INTO vehicles (make, model, year, type, daily_rate_cents, status, license_plate, color, fuel_type, transmission, seats, image_url, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), $13, $14) RETURNING id`
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	logger.DatabaseCall("INSERT", "vehicles", "plate", v.LicensePlate)
	err := r.db.QueryRowContext(ctx, query, v.Make, v.Model, v.Year, v.Type, v.DailyRateCents, v.Status, v.LicensePlate,
		v.Color, v.FuelType, v.Transmission, v.Seats, v.ImageURL, v.CreatedAt, v.UpdatedAt).Scan(&v.ID)
	logger.DatabaseResult("INSERT", 1, err, "vehicleID", v.ID)
	return uniqueConflict(err, plateTaken)
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return r.get(ctx, id, "")
}

func (r *vehicleRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *vehicleRepository) get(ctx context.Context, id int64, lock string) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	query := `SELECT ` + vehicleColumns + ` FROM vehicles v WHERE v.id = $1 AND v.deleted_at IS NULL` + lock
	if err := scanVehicle(r.db.QueryRowContext(ctx, query, id), v); err != nil {
		return nil, notFound(err, "Vehicle", id)
	}
	return v, nil
}

func (r *vehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	query := `UPDATE vehicles SET make=$1, model=$2, year=$3, type=$4, daily_rate_cents=$5, status=$6, license_plate=$7,
	          color=$8, fuel_type=$9, transmission=$10, seats=$11, image_url=NULLIF($12, ''), updated_at=$13
	          WHERE id=$14 AND deleted_at IS NULL`
	v.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query, v.Make, v.Model, v.Year, v.Type, v.DailyRateCents, v.Status, v.LicensePlate,
		v.Color, v.FuelType, v.Transmission, v.Seats, v.ImageURL, v.UpdatedAt, v.ID)
	if err != nil {
		return uniqueConflict(err, plateTaken)
	}
	return requireRow(result, "Vehicle", v.ID)
}

func (r *vehicleRepository) UpdateStatus(ctx context.Context, id int64, status domain.VehicleStatus) error {
	logger.DatabaseCall("UPDATE", "vehicles", "vehicleID", id, "status", status)
	result, err := r.db.ExecContext(ctx, `UPDATE vehicles SET status=$1, updated_at=$2 WHERE id=$3 AND deleted_at IS NULL`, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(result, "Vehicle", id)
}

// Delete soft-deletes the vehicle. The plate is kept so history stays readable.
func (r *vehicleRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE vehicles SET deleted_at=$1 WHERE id=$2 AND deleted_at IS NULL`, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(result, "Vehicle", id)
}

func (r *vehicleRepository) List(ctx context.Context, f domain.VehicleFilter, page domain.Page) ([]domain.Vehicle, int, error) {
	var c conditions
	c.clauses = append(c.clauses, "v.deleted_at IS NULL")
	if f.Status != "" {
		c.add("v.status = $%d", f.Status)
	}
	if f.Type != "" {
		c.add("v.type = $%d", f.Type)
	}
	if f.Search != "" {
		c.add("(v.make ILIKE $%[1]d OR v.model ILIKE $%[1]d)", "%"+f.Search+"%")
	}
	if f.MinPriceCents != nil {
		c.add("v.daily_rate_cents >= $%d", *f.MinPriceCents)
	}
	if f.MaxPriceCents != nil {
		c.add("v.daily_rate_cents <= $%d", *f.MaxPriceCents)
	}

	query, args, total, err := paginate(ctx, r.db, `SELECT `+vehicleColumns+` FROM vehicles v`+c.where(), c.args, "v.created_at DESC, v.id DESC", page)
	if err != nil {
		return nil, 0, err
	}
	vehicles, err := r.query(ctx, query, args...)
	return vehicles, total, err
}

func (r *vehicleRepository) ListAll(ctx context.Context) ([]domain.Vehicle, error) {
	return r.query(ctx, `SELECT `+vehicleColumns+` FROM vehicles v WHERE v.deleted_at IS NULL ORDER BY v.id`)
}

func (r *vehicleRepository) ListAvailable(ctx context.Context, dr *domain.DateRange, limit int) ([]domain.Vehicle, error) {
	var c conditions
	c.clauses = append(c.clauses, "v.deleted_at IS NULL", "v.status = 'available'")
	if dr != nil {
		c.add(`NOT EXISTS (SELECT 1 FROM bookings b WHERE b.vehicle_id = v.id
		       AND b.status IN ('approved', 'active')
		       AND b.start_date <= $%d AND b.end_date >= $%d)`, dr.End, dr.Start)
	}
	query := `SELECT ` + vehicleColumns + ` FROM vehicles v` + c.where() + ` ORDER BY v.daily_rate_cents ASC, v.id ASC`
	if limit > 0 {
		c.args = append(c.args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(c.args))
	}
	return r.query(ctx, query, c.args...)
}

func (r *vehicleRepository) CountByStatus(ctx context.Context) (map[domain.VehicleStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, count(*) FROM vehicles WHERE deleted_at IS NULL GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[domain.VehicleStatus]int{}
	for rows.Next() {
		var s domain.VehicleStatus
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		counts[s] = n
	}
	return counts, rows.Err()
}

func (r *vehicleRepository) CountByType(ctx context.Context) ([]domain.TypeCount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT type, count(*) FROM vehicles WHERE deleted_at IS NULL GROUP BY type ORDER BY type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.TypeCount
	for rows.Next() {
		var tc domain.TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, tc)
	}
	return counts, rows.Err()
}

func (r *vehicleRepository) query(ctx context.Context, query string, args ...any) ([]domain.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := scanVehicle(rows, &v); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}
