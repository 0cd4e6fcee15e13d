package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medsched/internal/domain"
)

type PhysicianRepo struct {
	db *pgxpool.Pool
}

func NewPhysicianRepository(db *pgxpool.Pool) *PhysicianRepo {
	return &PhysicianRepo{db: db}
}

const physicianColumns = `
	p.id, p.first_name, p.last_name, p.specialty_id, s.name, p.email, p.phone, p.bio,
	p.profile_photo_url, p.is_active, p.created_at, p.updated_at,
	COALESCE(
		(SELECT array_agg(pl.location_id ORDER BY pl.location_id)
		 FROM physician_locations pl
		 WHERE pl.physician_id = p.id AND pl.is_active),
		'{}'::bigint[]
	)
`

func scanPhysician(row pgx.Row) (*domain.Physician, error) {
	var p domain.Physician
	err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.SpecialtyID,
		&p.SpecialtyName,
		&p.Email,
		&p.Phone,
		&p.Bio,
		&p.ProfilePhotoURL,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.LocationIDs,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PhysicianRepo) Create(ctx context.Context, dto domain.CreatePhysicianDTO) (int64, error) {
	query := `
		INSERT INTO physicians (first_name, last_name, specialty_id, email, phone, bio, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		dto.FirstName,
		dto.LastName,
		dto.SpecialtyID,
		dto.Email,
		dto.Phone,
		dto.Bio,
		time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create physician: %w", err)
	}

	return id, nil
}

func (r *PhysicianRepo) GetByID(ctx context.Context, id int64) (*domain.Physician, error) {
	query := `SELECT ` + physicianColumns + `
		FROM physicians p
		JOIN specialties s ON s.id = p.specialty_id
		WHERE p.id = $1 AND p.deleted_at IS NULL
	`

	p, err := scanPhysician(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get physician: %w", err)
	}

	return p, nil
}

func (r *PhysicianRepo) Update(ctx context.Context, id int64, dto domain.UpdatePhysicianDTO) error {
	var u updateSet

	if dto.FirstName != nil {
		u.set("first_name", *dto.FirstName)
	}
	if dto.LastName != nil {
		u.set("last_name", *dto.LastName)
	}
	if dto.SpecialtyID != nil {
		u.set("specialty_id", *dto.SpecialtyID)
	}
	if dto.Email != nil {
		u.set("email", *dto.Email)
	}
	if dto.Phone != nil {
		u.set("phone", *dto.Phone)
	}
	if dto.Bio != nil {
		u.set("bio", *dto.Bio)
	}
	if dto.IsActive != nil {
		u.set("is_active", *dto.IsActive)
	}
	u.set("updated_at", time.Now())

	query := fmt.Sprintf(`UPDATE physicians SET %s WHERE id = %s AND deleted_at IS NULL`, u.clause(), u.add(id))

	tag, err := r.db.Exec(ctx, query, u.values...)
	if err != nil {
		return fmt.Errorf("failed to update physician: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPhysicianNotFound
	}

	return nil
}

// Delete is a soft delete; appointments keep pointing at the row.
func (r *PhysicianRepo) Delete(ctx context.Context, id int64) error {
	query := `UPDATE physicians SET deleted_at = $1, is_active = FALSE, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete physician: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPhysicianNotFound
	}

	return nil
}

func (r *PhysicianRepo) List(ctx context.Context, pf domain.PhysicianFilter) ([]domain.Physician, int, error) {
	var f filter
	f.raw("p.deleted_at IS NULL")

	if pf.SpecialtyID != nil {
		f.where("p.specialty_id = %s", *pf.SpecialtyID)
	}
	if pf.LocationID != nil {
		f.where("EXISTS (SELECT 1 FROM physician_locations pl WHERE pl.physician_id = p.id AND pl.is_active AND pl.location_id = %s)", *pf.LocationID)
	}
	if pf.SearchTerm != nil && *pf.SearchTerm != "" {
		f.where("(p.first_name || ' ' || p.last_name) ILIKE %s", "%"+*pf.SearchTerm+"%")
	}
	if pf.OnlyActive {
		f.raw("p.is_active")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM physicians p` + f.clause()
	if err := r.db.QueryRow(ctx, countQuery, f.values...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count physicians: %w", err)
	}

	limit, offset := pagination(pf.Limit, pf.Offset)
	query := `SELECT ` + physicianColumns + `
		FROM physicians p
		JOIN specialties s ON s.id = p.specialty_id` + f.clause() +
		fmt.Sprintf(" ORDER BY p.last_name, p.first_name, p.id LIMIT %s OFFSET %s", f.add(limit), f.add(offset))

	physicians, err := r.query(ctx, query, f.values...)
	if err != nil {
		return nil, 0, err
	}

	return physicians, total, nil
}

func (r *PhysicianRepo) ListBySpecialty(ctx context.Context, specialtyID int64, locationID *int64) ([]domain.Physician, error) {
	var f filter
	f.raw("p.deleted_at IS NULL")
	f.raw("p.is_active")
	f.where("p.specialty_id = %s", specialtyID)
	if locationID != nil {
		f.where("EXISTS (SELECT 1 FROM physician_locations pl WHERE pl.physician_id = p.id AND pl.is_active AND pl.location_id = %s)", *locationID)
	}

	query := `SELECT ` + physicianColumns + `
		FROM physicians p
		JOIN specialties s ON s.id = p.specialty_id` + f.clause() + `
		ORDER BY p.last_name, p.first_name, p.id`

	return r.query(ctx, query, f.values...)
}

func (r *PhysicianRepo) query(ctx context.Context, query string, values ...any) ([]domain.Physician, error) {
	rows, err := r.db.Query(ctx, query, values...)
	if err != nil {
		return nil, fmt.Errorf("failed to list physicians: %w", err)
	}
	defer rows.Close()

	physicians := make([]domain.Physician, 0)
	for rows.Next() {
		p, err := scanPhysician(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan physician: %w", err)
		}
		physicians = append(physicians, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate physicians: %w", err)
	}

	return physicians, nil
}

func (r *PhysicianRepo) UpdatePhotoURL(ctx context.Context, id int64, url string) error {
	query := `UPDATE physicians SET profile_photo_url = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`

	if _, err := r.db.Exec(ctx, query, url, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update physician photo: %w", err)
	}

	return nil
}

func (r *PhysicianRepo) AssignLocation(ctx context.Context, physicianID, locationID int64) error {
	query := `
		INSERT INTO physician_locations (physician_id, location_id, is_active, created_at)
		VALUES ($1, $2, TRUE, $3)
		ON CONFLICT (physician_id, location_id) DO UPDATE SET is_active = TRUE
	`

	if _, err := r.db.Exec(ctx, query, physicianID, locationID, time.Now()); err != nil {
		return fmt.Errorf("failed to assign location: %w", err)
	}

	return nil
}

func (r *PhysicianRepo) UnassignLocation(ctx context.Context, physicianID, locationID int64) error {
	query := `UPDATE physician_locations SET is_active = FALSE WHERE physician_id = $1 AND location_id = $2`

	if _, err := r.db.Exec(ctx, query, physicianID, locationID); err != nil {
		return fmt.Errorf("failed to unassign location: %w", err)
	}

	return nil
}

func (r *PhysicianRepo) IsAssigned(ctx context.Context, physicianID, locationID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM physician_locations pl
			JOIN physicians p ON p.id = pl.physician_id
			JOIN locations l ON l.id = pl.location_id
			WHERE pl.physician_id = $1 AND pl.location_id = $2
			AND pl.is_active AND p.is_active AND p.deleted_at IS NULL AND l.is_active
		)
	`

	var assigned bool
	if err := r.db.QueryRow(ctx, query, physicianID, locationID).Scan(&assigned); err != nil {
		return false, fmt.Errorf("failed to check physician location: %w", err)
	}

	return assigned, nil
}
