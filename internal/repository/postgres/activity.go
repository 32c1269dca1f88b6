package postgres

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
)

type activityRepository struct {
	db DBTX
}

func NewActivityRepository(db DBTX) repository.ActivityRepository {
	return &activityRepository{db: db}
}

const activitySelect = `SELECT a.id, a.user_id, COALESCE(u.name, ''), a.action, a.entity, a.entity_id, COALESCE(a.details, ''), a.timestamp
	FROM activities a
	LEFT JOIN users u ON u.id = a.user_id`

func scanActivity(row interface{ Scan(...any) error }, a *domain.Activity) error {
	return row.Scan(&a.ID, &a.UserID, &a.UserName, &a.Action, &a.Entity, &a.EntityID, &a.Details, &a.Timestamp)
}

func (r *activityRepository) Create(ctx context.Context, a *domain.Activity) error {
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	query := `INSERT INTO activities (user_id, action, entity, entity_id, details, timestamp)
	          VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6) RETURNING id`
	logger.DatabaseCall("INSERT", "activities", "entity", a.Entity, "entityID", a.EntityID)
	err := r.db.QueryRowContext(ctx, query, a.UserID, a.Action, a.Entity, a.EntityID, a.Details, a.Timestamp).Scan(&a.ID)
	logger.DatabaseResult("INSERT", 1, err, "activityID", a.ID)
	return err
}

func (r *activityRepository) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	a := &domain.Activity{}
	if err := scanActivity(r.db.QueryRowContext(ctx, activitySelect+` WHERE a.id = $1`, id), a); err != nil {
		return nil, notFound(err, "Activity", id)
	}
	return a, nil
}

func (r *activityRepository) List(ctx context.Context, f domain.ActivityFilter, page domain.Page) ([]domain.Activity, int, error) {
	var c conditions
	if f.UserID != 0 {
		c.add("a.user_id = $%d", f.UserID)
	}
	if f.Entity != "" {
		c.add("a.entity = $%d", f.Entity)
	}
	if f.EntityID != "" {
		c.add("a.entity_id = $%d", f.EntityID)
	}
	if f.Action != "" {
		c.add("a.action = $%d", f.Action)
	}
	if f.From != nil {
		c.add("a.timestamp >= $%d", *f.From)
	}
	if f.To != nil {
		c.add("a.timestamp <= $%d", *f.To)
	}

	query, args, total, err := paginate(ctx, r.db, activitySelect+c.where(), c.args, "a.timestamp DESC, a.id DESC", page)
	if err != nil {
		return nil, 0, err
	}
	activities, err := r.query(ctx, query, args...)
	return activities, total, err
}

// Recent returns the latest activities; userID 0 spans all users.
func (r *activityRepository) Recent(ctx context.Context, userID int64, limit int) ([]domain.Activity, error) {
	if userID == 0 {
		return r.query(ctx, activitySelect+` ORDER BY a.timestamp DESC LIMIT $1`, limit)
	}
	return r.query(ctx, activitySelect+` WHERE a.user_id = $1 ORDER BY a.timestamp DESC LIMIT $2`, userID, limit)
}

func (r *activityRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	logger.DatabaseCall("DELETE", "activities", "cutoff", cutoff)
	result, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE timestamp < $1`, cutoff)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err)
		return 0, err
	}
	n, err := result.RowsAffected()
	logger.DatabaseResult("DELETE", n, err)
	return n, err
}

func (r *activityRepository) query(ctx context.Context, query string, args ...any) ([]domain.Activity, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		var a domain.Activity
		if err := scanActivity(rows, &a); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
