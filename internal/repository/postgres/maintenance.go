package postgres

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository"
)

type maintenanceRepository struct {
	db DBTX
}

func NewMaintenanceRepository(db DBTX) repository.MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

const maintenanceSelect = `SELECT m.id, m.vehicle_id, m.date, m.type, COALESCE(m.description, ''), m.cost_cents,
	COALESCE(m.performed_by, ''), m.created_at, m.updated_at, v.make, v.model, v.license_plate
	FROM maintenance_records m
	JOIN vehicles v ON v.id = m.vehicle_id`

func scanMaintenance(row interface{ Scan(...any) error }, m *domain.MaintenanceRecord) error {
	v := &domain.Vehicle{}
	err := row.Scan(&m.ID, &m.VehicleID, &m.Date, &m.Type, &m.Description, &m.CostCents,
		&m.PerformedBy, &m.CreatedAt, &m.UpdatedAt, &v.Make, &v.Model, &v.LicensePlate)
	if err != nil {
		return err
	}
	v.ID = m.VehicleID
	m.Vehicle = v
	m.Date = domain.Day(m.Date)
	return nil
}

func (r *maintenanceRepository) Create(ctx context.Context, m *domain.MaintenanceRecord) error {
	query := `INSERT INTO maintenance_records (vehicle_id, date, type, description, cost_cents, performed_by, created_at, updated_at)
	          VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7, $8) RETURNING id`
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	return r.db.QueryRowContext(ctx, query, m.VehicleID, m.Date, m.Type, m.Description, m.CostCents, m.PerformedBy, m.CreatedAt, m.UpdatedAt).Scan(&m.ID)
}

func (r *maintenanceRepository) GetByID(ctx context.Context, id int64) (*domain.MaintenanceRecord, error) {
	m := &domain.MaintenanceRecord{}
	if err := scanMaintenance(r.db.QueryRowContext(ctx, maintenanceSelect+` WHERE m.id = $1`, id), m); err != nil {
		return nil, notFound(err, "Maintenance record", id)
	}
	return m, nil
}

func (r *maintenanceRepository) Update(ctx context.Context, m *domain.MaintenanceRecord) error {
	query := `UPDATE maintenance_records SET vehicle_id=$1, date=$2, type=$3, description=NULLIF($4, ''), cost_cents=$5,
	          performed_by=NULLIF($6, ''), updated_at=$7 WHERE id=$8`
	m.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query, m.VehicleID, m.Date, m.Type, m.Description, m.CostCents, m.PerformedBy, m.UpdatedAt, m.ID)
	if err != nil {
		return err
	}
	return requireRow(result, "Maintenance record", m.ID)
}

func (r *maintenanceRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM maintenance_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result, "Maintenance record", id)
}

func (r *maintenanceRepository) List(ctx context.Context, f domain.MaintenanceFilter, page domain.Page) ([]domain.MaintenanceRecord, int, error) {
	var c conditions
	if f.VehicleID != 0 {
		c.add("m.vehicle_id = $%d", f.VehicleID)
	}
	if f.Type != "" {
		c.add("m.type = $%d", f.Type)
	}
	if f.From != nil {
		c.add("m.date >= $%d", *f.From)
	}
	if f.To != nil {
		c.add("m.date <= $%d", *f.To)
	}

	query, args, total, err := paginate(ctx, r.db, maintenanceSelect+c.where(), c.args, "m.date DESC, m.id DESC", page)
	if err != nil {
		return nil, 0, err
	}
	records, err := r.query(ctx, query, args...)
	return records, total, err
}

func (r *maintenanceRepository) ListByVehicle(ctx context.Context, vehicleID int64) ([]domain.MaintenanceRecord, error) {
	return r.query(ctx, maintenanceSelect+` WHERE m.vehicle_id = $1 ORDER BY m.date DESC, m.id DESC`, vehicleID)
}

func (r *maintenanceRepository) query(ctx context.Context, query string, args ...any) ([]domain.MaintenanceRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.MaintenanceRecord
	for rows.Next() {
		var m domain.MaintenanceRecord
		if err := scanMaintenance(rows, &m); err != nil {
			return nil, err
		}
		records = append(records, m)
	}
	return records, rows.Err()
}
