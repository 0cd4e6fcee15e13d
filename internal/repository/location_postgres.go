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

type LocationRepo struct {
	db *pgxpool.Pool
}

func NewLocationRepository(db *pgxpool.Pool) *LocationRepo {
	return &LocationRepo{db: db}
}

func (r *LocationRepo) Create(ctx context.Context, dto domain.CreateLocationDTO) (int64, error) {
	query := `
		INSERT INTO locations (name, address, phone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, $4, $4)
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRow(ctx, query, dto.Name, dto.Address, dto.Phone, time.Now()).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create location: %w", err)
	}

	return id, nil
}

func (r *LocationRepo) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	query := `
		SELECT id, name, address, phone, is_active, created_at, updated_at
		FROM locations
		WHERE id = $1
	`

	var l domain.Location
	err := r.db.QueryRow(ctx, query, id).Scan(
		&l.ID,
		&l.Name,
		&l.Address,
		&l.Phone,
		&l.IsActive,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get location: %w", err)
	}

	return &l, nil
}

func (r *LocationRepo) Update(ctx context.Context, id int64, dto domain.UpdateLocationDTO) error {
	var u updateSet

	if dto.Name != nil {
		u.set("name", *dto.Name)
	}
	if dto.Address != nil {
		u.set("address", *dto.Address)
	}
	if dto.Phone != nil {
		u.set("phone", *dto.Phone)
	}
	if dto.IsActive != nil {
		u.set("is_active", *dto.IsActive)
	}
	u.set("updated_at", time.Now())

	query := fmt.Sprintf(`UPDATE locations SET %s WHERE id = %s`, u.clause(), u.add(id))

	tag, err := r.db.Exec(ctx, query, u.values...)
	if err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLocationNotFound
	}

	return nil
}

// Delete deactivates the location. Rows stay so that past appointments keep their reference.
func (r *LocationRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE locations SET is_active = FALSE, updated_at = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLocationNotFound
	}

	return nil
}

func (r *LocationRepo) List(ctx context.Context, onlyActive bool) ([]domain.Location, error) {
	query := `SELECT id, name, address, phone, is_active, created_at, updated_at FROM locations`
	if onlyActive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	locations := make([]domain.Location, 0)
	for rows.Next() {
		var l domain.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.Phone, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate locations: %w", err)
	}

	return locations, nil
}
