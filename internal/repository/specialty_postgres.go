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

type SpecialtyRepo struct {
	db *pgxpool.Pool
}

func NewSpecialtyRepository(db *pgxpool.Pool) *SpecialtyRepo {
	return &SpecialtyRepo{db: db}
}

func (r *SpecialtyRepo) Create(ctx context.Context, dto domain.CreateSpecialtyDTO) (int64, error) {
	query := `
		INSERT INTO specialties (name, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRow(ctx, query, dto.Name, dto.Description, dto.IsActive, time.Now()).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create specialty: %w", err)
	}

	return id, nil
}

func (r *SpecialtyRepo) GetByID(ctx context.Context, id int64) (*domain.Specialty, error) {
	query := `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM specialties
		WHERE id = $1
	`

	var s domain.Specialty
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get specialty: %w", err)
	}

	return &s, nil
}

func (r *SpecialtyRepo) Update(ctx context.Context, id int64, dto domain.UpdateSpecialtyDTO) error {
	var u updateSet

	if dto.Name != nil {
		u.set("name", *dto.Name)
	}
	if dto.Description != nil {
		u.set("description", *dto.Description)
	}
	if dto.IsActive != nil {
		u.set("is_active", *dto.IsActive)
	}
	u.set("updated_at", time.Now())

	query := fmt.Sprintf(`UPDATE specialties SET %s WHERE id = %s`, u.clause(), u.add(id))

	tag, err := r.db.Exec(ctx, query, u.values...)
	if err != nil {
		return fmt.Errorf("failed to update specialty: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSpecialtyNotFound
	}

	return nil
}

func (r *SpecialtyRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM specialties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete specialty: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSpecialtyNotFound
	}

	return nil
}

func (r *SpecialtyRepo) List(ctx context.Context, onlyActive bool) ([]domain.Specialty, error) {
	query := `SELECT id, name, description, is_active, created_at, updated_at FROM specialties`
	if onlyActive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list specialties: %w", err)
	}
	defer rows.Close()

	specialties := make([]domain.Specialty, 0)
	for rows.Next() {
		var s domain.Specialty
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan specialty: %w", err)
		}
		specialties = append(specialties, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate specialties: %w", err)
	}

	return specialties, nil
}
