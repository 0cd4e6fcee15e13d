package service

import (
	"context"

	"go.uber.org/zap"

	"medsched/internal/domain"
	"medsched/internal/repository"
	"medsched/pkg/validator"
)

type CopayServiceImpl struct {
	repo   repository.CopayRepository
	logger *zap.Logger
}

func NewCopayService(repo repository.CopayRepository, logger *zap.Logger) *CopayServiceImpl {
	return &CopayServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

// Estimate returns the flat copay for an appointment type. Insurance-specific pricing is out of scope.
func (s *CopayServiceImpl) Estimate(ctx context.Context, appointmentType string) (*domain.CopayEstimate, error) {
	if !validator.ValidateAppointmentType(appointmentType) {
		return nil, domain.ErrInvalidAppointmentType
	}

	estimate, err := s.repo.GetByAppointmentType(ctx, appointmentType)
	if err != nil {
		s.logger.Error("failed to get copay rate", zap.String("appointment_type", appointmentType), zap.Error(err))
		return nil, err
	}
	if estimate == nil {
		return nil, domain.ErrCopayRateNotFound
	}

	return estimate, nil
}
