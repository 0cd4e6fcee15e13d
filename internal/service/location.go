package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"medsched/internal/domain"
	"medsched/internal/repository"
	"medsched/pkg/validator"
)

type LocationServiceImpl struct {
	repo      repository.LocationRepository
	directory Directory
	logger    *zap.Logger
}

func NewLocationService(repo repository.LocationRepository, directory Directory, logger *zap.Logger) *LocationServiceImpl {
	return &LocationServiceImpl{
		repo:      repo,
		directory: directory,
		logger:    logger,
	}
}

func (s *LocationServiceImpl) Create(ctx context.Context, dto domain.CreateLocationDTO) (int64, error) {
	dto.Name = validator.SanitizeString(dto.Name)
	dto.Address = validator.SanitizeString(dto.Address)
	if dto.Phone != "" {
		if !validator.ValidatePhone(dto.Phone) {
			return 0, fmt.Errorf("%w: phone", domain.ErrInvalidInput)
		}
		dto.Phone = validator.FormatPhone(dto.Phone)
	}

	id, err := s.repo.Create(ctx, dto)
	if err != nil {
		s.logger.Error("failed to create location", zap.Error(err))
		return 0, err
	}

	s.logger.Info("location created", zap.Int64("location_id", id), zap.String("name", dto.Name))
	return id, nil
}

func (s *LocationServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	location, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get location", zap.Int64("location_id", id), zap.Error(err))
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrLocationNotFound
	}
	return location, nil
}

func (s *LocationServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateLocationDTO) error {
	if dto.Name != nil {
		dto.Name = PointerTo(validator.SanitizeString(*dto.Name))
	}
	if dto.Address != nil {
		dto.Address = PointerTo(validator.SanitizeString(*dto.Address))
	}
	if dto.Phone != nil && *dto.Phone != "" {
		if !validator.ValidatePhone(*dto.Phone) {
			return fmt.Errorf("%w: phone", domain.ErrInvalidInput)
		}
		dto.Phone = PointerTo(validator.FormatPhone(*dto.Phone))
	}

	if err := s.repo.Update(ctx, id, dto); err != nil {
		if !errors.Is(err, domain.ErrLocationNotFound) {
			s.logger.Error("failed to update location", zap.Int64("location_id", id), zap.Error(err))
		}
		return err
	}

	s.directory.InvalidateLocation(id)
	return nil
}

// Delete deactivates the location; its history stays queryable.
func (s *LocationServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrLocationNotFound) {
			s.logger.Error("failed to delete location", zap.Int64("location_id", id), zap.Error(err))
		}
		return err
	}

	s.directory.InvalidateLocation(id)
	s.logger.Info("location deactivated", zap.Int64("location_id", id))
	return nil
}

func (s *LocationServiceImpl) List(ctx context.Context, onlyActive bool) ([]domain.Location, error) {
	locations, err := s.repo.List(ctx, onlyActive)
	if err != nil {
		s.logger.Error("failed to list locations", zap.Error(err))
		return nil, err
	}
	return locations, nil
}
