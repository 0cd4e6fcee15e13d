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

type AppointmentRepo struct {
	db *pgxpool.Pool
}

func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepo {
	return &AppointmentRepo{
		db: db,
	}
}

const appointmentColumns = `
	a.id, a.reference, a.patient_id, a.physician_id, a.location_id, a.appointment_date,
	a.start_minute, a.end_minute, a.appointment_type, a.status, a.notes, a.copay_amount,
	a.created_at, a.updated_at, p.first_name || ' ' || p.last_name, l.name
`

const appointmentFrom = `
	FROM appointments a
	JOIN physicians p ON p.id = a.physician_id
	JOIN locations l ON l.id = a.location_id
`

// occupyingStatus excludes the statuses that release a slot.
const occupyingStatus = `status NOT IN ('cancelled', 'no_show')`

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var (
		a          domain.Appointment
		start, end int
	)

	err := row.Scan(
		&a.ID,
		&a.Reference,
		&a.PatientID,
		&a.PhysicianID,
		&a.LocationID,
		&a.AppointmentDate,
		&start,
		&end,
		&a.AppointmentType,
		&a.Status,
		&a.Notes,
		&a.CopayAmount,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.PhysicianName,
		&a.LocationName,
	)
	if err != nil {
		return nil, err
	}

	a.StartTime = domain.Clock(start)
	a.EndTime = domain.Clock(end)

	return &a, nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + appointmentFrom + ` WHERE a.id = $1`

	a, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	return a, nil
}

func (r *AppointmentRepo) List(ctx context.Context, af domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	var f filter

	if af.PatientID != nil {
		f.where("a.patient_id = %s", *af.PatientID)
	}
	if af.PhysicianID != nil {
		f.where("a.physician_id = %s", *af.PhysicianID)
	}
	if af.LocationID != nil {
		f.where("a.location_id = %s", *af.LocationID)
	}
	if af.Status != nil {
		f.where("a.status = %s", *af.Status)
	}
	if af.DateFrom != nil {
		f.where("a.appointment_date >= %s", *af.DateFrom)
	}
	if af.DateTo != nil {
		f.where("a.appointment_date <= %s", *af.DateTo)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM appointments a`+f.clause(), f.values...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	limit, offset := pagination(af.Limit, af.Offset)
	query := `SELECT ` + appointmentColumns + appointmentFrom + f.clause() +
		fmt.Sprintf(" ORDER BY a.appointment_date, a.start_minute, a.id LIMIT %s OFFSET %s", f.add(limit), f.add(offset))

	rows, err := r.db.Query(ctx, query, f.values...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate appointments: %w", err)
	}

	return appointments, total, nil
}

func (r *AppointmentRepo) ListBooked(ctx context.Context, physicianID int64, locationID *int64, date time.Time) ([]domain.BookedInterval, error) {
	var f filter
	f.where("physician_id = %s", physicianID)
	f.where("appointment_date = %s", domain.DateOf(date))
	f.raw(occupyingStatus)
	if locationID != nil {
		f.where("location_id = %s", *locationID)
	}

	query := `
		SELECT id, physician_id, location_id, appointment_date, start_minute, end_minute, status
		FROM appointments` + f.clause() + `
		ORDER BY start_minute, id`

	rows, err := r.db.Query(ctx, query, f.values...)
	if err != nil {
		return nil, fmt.Errorf("failed to list booked intervals: %w", err)
	}
	defer rows.Close()

	booked := make([]domain.BookedInterval, 0)
	for rows.Next() {
		var (
			b          domain.BookedInterval
			start, end int
		)
		if err := rows.Scan(&b.AppointmentID, &b.PhysicianID, &b.LocationID, &b.Date, &start, &end, &b.Status); err != nil {
			return nil, fmt.Errorf("failed to scan booked interval: %w", err)
		}
		b.Start = domain.Clock(start)
		b.End = domain.Clock(end)
		booked = append(booked, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate booked intervals: %w", err)
	}

	return booked, nil
}

// UpdateStatus moves the appointment from one status to another. It fails with
// ErrInvalidStatusTransition if the stored status is no longer from.
func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	tag, err := r.db.Exec(ctx, query, to, time.Now(), id, from)
	if err != nil {
		if database.IsUniqueViolation(err, "uq_appointments_slot") {
			return domain.ErrSlotConflict
		}
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM appointments WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check appointment: %w", err)
	}
	if !exists {
		return domain.ErrAppointmentNotFound
	}
	return domain.ErrInvalidStatusTransition
}

func (r *AppointmentRepo) WithinSlotLock(ctx context.Context, key domain.SlotLockKey, fn func(tx AppointmentTx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Released on commit or rollback. Every booking for the physician-day queues here.
	lockQuery := `SELECT pg_advisory_xact_lock(hashtextextended(format('%s:%s', $1::bigint, $2::date), 0))`
	if _, err := tx.Exec(ctx, lockQuery, key.PhysicianID, domain.DateOf(key.Date)); err != nil {
		return fmt.Errorf("failed to acquire slot lock: %w", err)
	}

	if err := fn(&appointmentTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if database.IsUniqueViolation(err, "uq_appointments_slot") {
			return domain.ErrSlotConflict
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type appointmentTx struct {
	tx pgx.Tx
}

func (t *appointmentTx) CountConflicts(ctx context.Context, req domain.SlotRequest, excludeID *int64) (int, error) {
	var f filter
	f.where("physician_id = %s", req.PhysicianID)
	f.where("appointment_date = %s", domain.DateOf(req.Date))
	f.raw(occupyingStatus)
	f.where("start_minute < %s", req.Interval.End.Minutes())
	f.where("end_minute > %s", req.Interval.Start.Minutes())
	if excludeID != nil {
		f.where("id <> %s", *excludeID)
	}

	var count int
	if err := t.tx.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`+f.clause(), f.values...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to check slot availability: %w", err)
	}

	return count, nil
}

func (t *appointmentTx) Insert(ctx context.Context, appt *domain.Appointment) error {
	query := `
		INSERT INTO appointments (
			reference, patient_id, physician_id, location_id, appointment_date, start_minute, end_minute,
			appointment_type, status, notes, copay_amount, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		RETURNING id, created_at, updated_at
	`

	err := t.tx.QueryRow(ctx, query,
		appt.Reference,
		appt.PatientID,
		appt.PhysicianID,
		appt.LocationID,
		domain.DateOf(appt.AppointmentDate),
		appt.StartTime.Minutes(),
		appt.EndTime.Minutes(),
		appt.AppointmentType,
		appt.Status,
		appt.Notes,
		appt.CopayAmount,
		time.Now(),
	).Scan(&appt.ID, &appt.CreatedAt, &appt.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "uq_appointments_slot") {
			return domain.ErrSlotConflict
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	return nil
}

func (t *appointmentTx) Reschedule(ctx context.Context, id int64, req domain.SlotRequest) error {
	query := `
		UPDATE appointments
		SET location_id = $1, appointment_date = $2, start_minute = $3, end_minute = $4, updated_at = $5
		WHERE id = $6 AND status IN ($7, $8)
	`

	tag, err := t.tx.Exec(ctx, query,
		req.LocationID,
		domain.DateOf(req.Date),
		req.Interval.Start.Minutes(),
		req.Interval.End.Minutes(),
		time.Now(),
		id,
		domain.AppointmentStatusScheduled,
		domain.AppointmentStatusConfirmed,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "uq_appointments_slot") {
			return domain.ErrSlotConflict
		}
		return fmt.Errorf("failed to reschedule appointment: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := t.tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM appointments WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check appointment: %w", err)
	}
	if !exists {
		return domain.ErrAppointmentNotFound
	}
	return domain.ErrInvalidStatusTransition
}
