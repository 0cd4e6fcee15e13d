package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medsched/internal/domain"
	"medsched/pkg/database"
)

type WorkingPeriodRepo struct {
	db *pgxpool.Pool
}

func NewWorkingPeriodRepository(db *pgxpool.Pool) *WorkingPeriodRepo {
	return &WorkingPeriodRepo{db: db}
}

const workingPeriodColumns = `
	id, physician_id, location_id, day_of_week, start_minute, end_minute,
	lunch_start_minute, lunch_end_minute, breaks, slot_minutes,
	effective_date, expiry_date, is_active, created_at, updated_at
`

func scanWorkingPeriod(row pgx.Row) (*domain.WorkingPeriod, error) {
	var (
		wp                   domain.WorkingPeriod
		start, end           int
		lunchStart, lunchEnd *int
		breaks               []byte
	)

	err := row.Scan(
		&wp.ID,
		&wp.PhysicianID,
		&wp.LocationID,
		&wp.DayOfWeek,
		&start,
		&end,
		&lunchStart,
		&lunchEnd,
		&breaks,
		&wp.SlotMinutes,
		&wp.EffectiveDate,
		&wp.ExpiryDate,
		&wp.IsActive,
		&wp.CreatedAt,
		&wp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	wp.StartTime = domain.Clock(start)
	wp.EndTime = domain.Clock(end)
	wp.LunchStart = clockFromMinutes(lunchStart)
	wp.LunchEnd = clockFromMinutes(lunchEnd)

	wp.Breaks = []domain.BreakInterval{}
	if len(breaks) > 0 {
		if err := json.Unmarshal(breaks, &wp.Breaks); err != nil {
			return nil, fmt.Errorf("failed to decode breaks: %w", err)
		}
	}

	return &wp, nil
}

func (r *WorkingPeriodRepo) Create(ctx context.Context, wp domain.WorkingPeriod) (int64, error) {
	breaks, err := encodeBreaks(wp.Breaks)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO working_periods (
			physician_id, location_id, day_of_week, start_minute, end_minute,
			lunch_start_minute, lunch_end_minute, breaks, slot_minutes,
			effective_date, expiry_date, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		RETURNING id
	`

	var id int64
	err = r.db.QueryRow(ctx, query,
		wp.PhysicianID,
		wp.LocationID,
		wp.DayOfWeek,
		wp.StartTime.Minutes(),
		wp.EndTime.Minutes(),
		minutesOf(wp.LunchStart),
		minutesOf(wp.LunchEnd),
		breaks,
		wp.SlotMinutes,
		wp.EffectiveDate,
		wp.ExpiryDate,
		wp.IsActive,
		time.Now(),
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err, "uq_working_periods_day") {
			return 0, domain.ErrWorkingPeriodExists
		}
		return 0, fmt.Errorf("failed to create working period: %w", err)
	}

	return id, nil
}

func (r *WorkingPeriodRepo) GetByID(ctx context.Context, id int64) (*domain.WorkingPeriod, error) {
	query := `SELECT ` + workingPeriodColumns + ` FROM working_periods WHERE id = $1`

	wp, err := scanWorkingPeriod(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get working period: %w", err)
	}

	return wp, nil
}

// Update rewrites the mutable columns. The weekday, location and effective date identify the period and stay fixed.
func (r *WorkingPeriodRepo) Update(ctx context.Context, wp domain.WorkingPeriod) error {
	breaks, err := encodeBreaks(wp.Breaks)
	if err != nil {
		return err
	}

	query := `
		UPDATE working_periods
		SET start_minute = $1, end_minute = $2, lunch_start_minute = $3, lunch_end_minute = $4,
			breaks = $5, slot_minutes = $6, expiry_date = $7, is_active = $8, updated_at = $9
		WHERE id = $10
	`

	tag, err := r.db.Exec(ctx, query,
		wp.StartTime.Minutes(),
		wp.EndTime.Minutes(),
		minutesOf(wp.LunchStart),
		minutesOf(wp.LunchEnd),
		breaks,
		wp.SlotMinutes,
		wp.ExpiryDate,
		wp.IsActive,
		time.Now(),
		wp.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update working period: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWorkingPeriodNotFound
	}

	return nil
}

func (r *WorkingPeriodRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM working_periods WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete working period: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWorkingPeriodNotFound
	}

	return nil
}

func (r *WorkingPeriodRepo) List(ctx context.Context, wf domain.WorkingPeriodFilter) ([]domain.WorkingPeriod, error) {
	var f filter

	if wf.PhysicianID != nil {
		f.where("physician_id = %s", *wf.PhysicianID)
	}
	if wf.LocationID != nil {
		f.where("location_id = %s", *wf.LocationID)
	}
	if wf.DayOfWeek != nil {
		f.where("day_of_week = %s", *wf.DayOfWeek)
	}
	if wf.OnlyActive {
		f.raw("is_active")
	}

	query := `SELECT ` + workingPeriodColumns + ` FROM working_periods` + f.clause() +
		` ORDER BY physician_id, location_id, day_of_week, effective_date, id`

	return r.query(ctx, query, f.values...)
}

func (r *WorkingPeriodRepo) ListForDay(ctx context.Context, physicianID int64, locationID *int64, dayOfWeek int) ([]domain.WorkingPeriod, error) {
	var f filter
	f.where("physician_id = %s", physicianID)
	f.where("day_of_week = %s", dayOfWeek)
	if locationID != nil {
		f.where("location_id = %s", *locationID)
	}

	query := `SELECT ` + workingPeriodColumns + ` FROM working_periods` + f.clause() + ` ORDER BY location_id, id`

	return r.query(ctx, query, f.values...)
}

func (r *WorkingPeriodRepo) query(ctx context.Context, query string, values ...any) ([]domain.WorkingPeriod, error) {
	rows, err := r.db.Query(ctx, query, values...)
	if err != nil {
		return nil, fmt.Errorf("failed to list working periods: %w", err)
	}
	defer rows.Close()

	periods := make([]domain.WorkingPeriod, 0)
	for rows.Next() {
		wp, err := scanWorkingPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan working period: %w", err)
		}
		periods = append(periods, *wp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate working periods: %w", err)
	}

	return periods, nil
}

func encodeBreaks(breaks []domain.BreakInterval) ([]byte, error) {
	if breaks == nil {
		breaks = []domain.BreakInterval{}
	}
	data, err := json.Marshal(breaks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode breaks: %w", err)
	}
	return data, nil
}

func minutesOf(c *domain.Clock) *int {
	if c == nil {
		return nil
	}
	m := c.Minutes()
	return &m
}

func clockFromMinutes(m *int) *domain.Clock {
	if m == nil {
		return nil
	}
	c := domain.Clock(*m)
	return &c
}
