package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medsched/internal/domain"
	"medsched/pkg/database"
)

type ExceptionRepo struct {
	db *pgxpool.Pool
}

func NewExceptionRepository(db *pgxpool.Pool) *ExceptionRepo {
	return &ExceptionRepo{db: db}
}

const exceptionColumns = `
	id, physician_id, location_id, exception_date, kind, override_start_minute, override_end_minute,
	reason, alternate_location_id, created_at, updated_at
`

func scanException(row pgx.Row) (*domain.AvailabilityException, error) {
	var (
		e                          domain.AvailabilityException
		overrideStart, overrideEnd *int
	)

	err := row.Scan(
		&e.ID,
		&e.PhysicianID,
		&e.LocationID,
		&e.Date,
		&e.Kind,
		&overrideStart,
		&overrideEnd,
		&e.Reason,
		&e.AlternateLocationID,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.OverrideStart = clockFromMinutes(overrideStart)
	e.OverrideEnd = clockFromMinutes(overrideEnd)

	return &e, nil
}

func isExceptionDuplicate(err error) bool {
	return database.IsUniqueViolation(err, "uq_exceptions_location") ||
		database.IsUniqueViolation(err, "uq_exceptions_any_location")
}

func (r *ExceptionRepo) Create(ctx context.Context, e domain.AvailabilityException) (int64, error) {
	query := `
		INSERT INTO availability_exceptions (
			physician_id, location_id, exception_date, kind, override_start_minute, override_end_minute,
			reason, alternate_location_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		e.PhysicianID,
		e.LocationID,
		e.Date,
		e.Kind,
		minutesOf(e.OverrideStart),
		minutesOf(e.OverrideEnd),
		e.Reason,
		e.AlternateLocationID,
		time.Now(),
	).Scan(&id)
	if err != nil {
		if isExceptionDuplicate(err) {
			return 0, domain.ErrExceptionExists
		}
		return 0, fmt.Errorf("failed to create availability exception: %w", err)
	}

	return id, nil
}

func (r *ExceptionRepo) GetByID(ctx context.Context, id int64) (*domain.AvailabilityException, error) {
	query := `SELECT ` + exceptionColumns + ` FROM availability_exceptions WHERE id = $1`

	e, err := scanException(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get availability exception: %w", err)
	}

	return e, nil
}

func (r *ExceptionRepo) Update(ctx context.Context, e domain.AvailabilityException) error {
	query := `
		UPDATE availability_exceptions
		SET kind = $1, override_start_minute = $2, override_end_minute = $3, reason = $4,
			alternate_location_id = $5, updated_at = $6
		WHERE id = $7
	`

	tag, err := r.db.Exec(ctx, query,
		e.Kind,
		minutesOf(e.OverrideStart),
		minutesOf(e.OverrideEnd),
		e.Reason,
		e.AlternateLocationID,
		time.Now(),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update availability exception: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExceptionNotFound
	}

	return nil
}

func (r *ExceptionRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM availability_exceptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete availability exception: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExceptionNotFound
	}

	return nil
}

func (r *ExceptionRepo) List(ctx context.Context, ef domain.ExceptionFilter) ([]domain.AvailabilityException, int, error) {
	var f filter

	if ef.PhysicianID != nil {
		f.where("physician_id = %s", *ef.PhysicianID)
	}
	if ef.LocationID != nil {
		f.where("(location_id = %s OR location_id IS NULL)", *ef.LocationID)
	}
	if ef.DateFrom != nil {
		f.where("exception_date >= %s", *ef.DateFrom)
	}
	if ef.DateTo != nil {
		f.where("exception_date <= %s", *ef.DateTo)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM availability_exceptions`+f.clause(), f.values...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count availability exceptions: %w", err)
	}

	limit, offset := pagination(ef.Limit, ef.Offset)
	query := `SELECT ` + exceptionColumns + ` FROM availability_exceptions` + f.clause() +
		fmt.Sprintf(" ORDER BY exception_date, id LIMIT %s OFFSET %s", f.add(limit), f.add(offset))

	exceptions, err := r.query(ctx, query, f.values...)
	if err != nil {
		return nil, 0, err
	}

	return exceptions, total, nil
}

func (r *ExceptionRepo) ListForDate(ctx context.Context, physicianID int64, date time.Time) ([]domain.AvailabilityException, error) {
	query := `SELECT ` + exceptionColumns + `
		FROM availability_exceptions
		WHERE physician_id = $1 AND exception_date = $2
		ORDER BY location_id NULLS LAST, id`

	return r.query(ctx, query, physicianID, domain.DateOf(date))
}

func (r *ExceptionRepo) query(ctx context.Context, query string, values ...any) ([]domain.AvailabilityException, error) {
	rows, err := r.db.Query(ctx, query, values...)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability exceptions: %w", err)
	}
	defer rows.Close()

	exceptions := make([]domain.AvailabilityException, 0)
	for rows.Next() {
		e, err := scanException(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan availability exception: %w", err)
		}
		exceptions = append(exceptions, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate availability exceptions: %w", err)
	}

	return exceptions, nil
}
