package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"medsched/internal/domain"
	"medsched/internal/repository"
	"medsched/pkg/validator"
)

type SpecialtyServiceImpl struct {
	repo   repository.SpecialtyRepository
	logger *zap.Logger
}

func NewSpecialtyService(repo repository.SpecialtyRepository, logger *zap.Logger) *SpecialtyServiceImpl {
	return &SpecialtyServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *SpecialtyServiceImpl) Create(ctx context.Context, dto domain.CreateSpecialtyDTO) (int64, error) {
	dto.Name = strings.TrimSpace(validator.SanitizeString(dto.Name))
	if dto.Name == "" {
		return 0, fmt.Errorf("%w: specialty name is required", domain.ErrInvalidInput)
	}
	dto.Description = validator.SanitizeString(dto.Description)

	id, err := s.repo.Create(ctx, dto)
	if err != nil {
		s.logger.Error("failed to create specialty", zap.Error(err))
		return 0, err
	}

	return id, nil
}

func (s *SpecialtyServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Specialty, error) {
	specialty, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get specialty", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if specialty == nil {
		return nil, domain.ErrSpecialtyNotFound
	}

	return specialty, nil
}

func (s *SpecialtyServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateSpecialtyDTO) error {
	if dto.Name != nil {
		dto.Name = PointerTo(validator.SanitizeString(*dto.Name))
	}
	if dto.Description != nil {
		dto.Description = PointerTo(validator.SanitizeString(*dto.Description))
	}

	if err := s.repo.Update(ctx, id, dto); err != nil {
		if !errors.Is(err, domain.ErrSpecialtyNotFound) {
			s.logger.Error("failed to update specialty", zap.Int64("id", id), zap.Error(err))
		}
		return err
	}

	return nil
}

func (s *SpecialtyServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrSpecialtyNotFound) {
			s.logger.Error("failed to delete specialty", zap.Int64("id", id), zap.Error(err))
		}
		return err
	}

	return nil
}

func (s *SpecialtyServiceImpl) List(ctx context.Context, onlyActive bool) ([]domain.Specialty, error) {
	specialties, err := s.repo.List(ctx, onlyActive)
	if err != nil {
		s.logger.Error("failed to list specialties", zap.Error(err))
		return nil, err
	}

	return specialties, nil
}
