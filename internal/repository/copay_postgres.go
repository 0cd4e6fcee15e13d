package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medsched/internal/domain"
)

type CopayRepo struct {
	db *pgxpool.Pool
}

func NewCopayRepository(db *pgxpool.Pool) *CopayRepo {
	return &CopayRepo{db: db}
}

func (r *CopayRepo) GetByAppointmentType(ctx context.Context, appointmentType string) (*domain.CopayEstimate, error) {
	query := `SELECT appointment_type, amount, currency FROM copay_rates WHERE appointment_type = $1`

	var estimate domain.CopayEstimate
	err := r.db.QueryRow(ctx, query, appointmentType).Scan(&estimate.AppointmentType, &estimate.Amount, &estimate.Currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get copay rate: %w", err)
	}

	return &estimate, nil
}
