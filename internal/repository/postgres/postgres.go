package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every repository can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
	*repository.Repositories
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		Repositories: newRepositories(db),
	}
}

func newRepositories(db DBTX) *repository.Repositories {
	return &repository.Repositories{
		Users:         NewUserRepository(db),
		Vehicles:      NewVehicleRepository(db),
		Bookings:      NewBookingRepository(db),
		Maintenance:   NewMaintenanceRepository(db),
		Activities:    NewActivityRepository(db),
		Notifications: NewNotificationRepository(db),
		Reports:       NewReportRepository(db),
	}
}

// WithinTx implements repository.Transactor.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos *repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, newRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		logger.Error("Transaction commit failed", "error", err)
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// notFound maps sql.ErrNoRows to a domain NotFoundError.
func notFound(err error, entity string, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}
	return err
}

// uniqueConflict maps a unique-constraint violation to a domain ConflictError.
func uniqueConflict(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return &domain.ConflictError{Message: msg}
	}
	return err
}

// requireRow turns an UPDATE/DELETE that matched nothing into a NotFoundError.
func requireRow(result sql.Result, entity string, id any) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}

// conditions accumulates WHERE clauses with positional placeholders.
type conditions struct {
	clauses []string
	args    []any
}

// add appends clause, formatting each %d verb with the placeholder index of
// the matching arg.
func (c *conditions) add(clause string, args ...any) {
	idx := make([]any, len(args))
	for i, a := range args {
		c.args = append(c.args, a)
		idx[i] = len(c.args)
	}
	c.clauses = append(c.clauses, fmt.Sprintf(clause, idx...))
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	out := " WHERE " + c.clauses[0]
	for _, cl := range c.clauses[1:] {
		out += " AND " + cl
	}
	return out
}

// paginate counts the rows of query then appends ORDER BY, LIMIT and OFFSET.
func paginate(ctx context.Context, db DBTX, query string, args []any, orderBy string, page domain.Page) (string, []any, int, error) {
	var total int
	countSQL := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return "", nil, 0, err
	}
	n := len(args)
	query += fmt.Sprintf(" ORDER BY %s LIMIT $%d OFFSET $%d", orderBy, n+1, n+2)
	return query, append(args, page.Size, page.Offset()), total, nil
}

func statusStrings[T ~string](statuses []T) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
