package postgres

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository"
)

type reportRepository struct {
	db DBTX
}

func NewReportRepository(db DBTX) repository.ReportRepository {
	return &reportRepository{db: db}
}

const reportSelect = `SELECT r.id, r.title, r.type, r.start_date, r.end_date, r.data, r.generated_by, COALESCE(u.name, ''), r.created_at
	FROM reports r
	LEFT JOIN users u ON u.id = r.generated_by`

func scanReport(row interface{ Scan(...any) error }, rp *domain.Report) error {
	var data []byte
	if err := row.Scan(&rp.ID, &rp.Title, &rp.Type, &rp.StartDate, &rp.EndDate, &data, &rp.GeneratedBy, &rp.GeneratorName, &rp.CreatedAt); err != nil {
		return err
	}
	rp.Data = data
	rp.StartDate = domain.Day(rp.StartDate)
	rp.EndDate = domain.Day(rp.EndDate)
	return nil
}

func (r *reportRepository) Create(ctx context.Context, rp *domain.Report) error {
	if rp.CreatedAt.IsZero() {
		rp.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO reports (title, type, start_date, end_date, data, generated_by, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query, rp.Title, rp.Type, rp.StartDate, rp.EndDate, []byte(rp.Data), rp.GeneratedBy, rp.CreatedAt).Scan(&rp.ID)
}

func (r *reportRepository) GetByID(ctx context.Context, id int64) (*domain.Report, error) {
	rp := &domain.Report{}
	if err := scanReport(r.db.QueryRowContext(ctx, reportSelect+` WHERE r.id = $1`, id), rp); err != nil {
		return nil, notFound(err, "Report", id)
	}
	return rp, nil
}

func (r *reportRepository) List(ctx context.Context, f domain.ReportFilter, page domain.Page) ([]domain.Report, int, error) {
	var c conditions
	if f.Type != "" {
		c.add("r.type = $%d", f.Type)
	}
	if f.GeneratedBy != 0 {
		c.add("r.generated_by = $%d", f.GeneratedBy)
	}

	query, args, total, err := paginate(ctx, r.db, reportSelect+c.where(), c.args, "r.created_at DESC, r.id DESC", page)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var rp domain.Report
		if err := scanReport(rows, &rp); err != nil {
			return nil, 0, err
		}
		reports = append(reports, rp)
	}
	return reports, total, rows.Err()
}

func (r *reportRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result, "Report", id)
}
