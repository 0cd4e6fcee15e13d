package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"medsched/internal/domain"
	"medsched/internal/repository"
	"medsched/pkg/validator"
)

type ExceptionServiceImpl struct {
	repo      repository.ExceptionRepository
	directory Directory
	logger    *zap.Logger
}

func NewExceptionService(repo repository.ExceptionRepository, directory Directory, logger *zap.Logger) *ExceptionServiceImpl {
	return &ExceptionServiceImpl{
		repo:      repo,
		directory: directory,
		logger:    logger,
	}
}

func sanitizeReason(reason *string) *string {
	if reason == nil {
		return nil
	}
	return PointerTo(validator.SanitizeString(*reason))
}

func (s *ExceptionServiceImpl) Create(ctx context.Context, dto domain.CreateExceptionDTO) (int64, error) {
	e := domain.AvailabilityException{
		PhysicianID:         dto.PhysicianID,
		LocationID:          dto.LocationID,
		Kind:                dto.Kind,
		Reason:              sanitizeReason(dto.Reason),
		AlternateLocationID: dto.AlternateLocationID,
	}

	var err error
	if e.Date, err = domain.ParseDate(dto.Date); err != nil {
		return 0, err
	}
	if e.OverrideStart, err = parseClockPtr(dto.OverrideStart); err != nil {
		return 0, err
	}
	if e.OverrideEnd, err = parseClockPtr(dto.OverrideEnd); err != nil {
		return 0, err
	}

	if err := e.Validate(); err != nil {
		return 0, err
	}

	if _, err := s.directory.GetPhysician(ctx, e.PhysicianID); err != nil {
		return 0, err
	}
	for _, loc := range []*int64{e.LocationID, e.AlternateLocationID} {
		if loc == nil {
			continue
		}
		if _, err := s.directory.GetLocation(ctx, *loc); err != nil {
			return 0, err
		}
	}
	if err := s.checkAlternate(ctx, e.PhysicianID, e.AlternateLocationID); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, e)
	if err != nil {
		if !errors.Is(err, domain.ErrExceptionExists) {
			s.logger.Error("failed to create availability exception", zap.Int64("physician_id", e.PhysicianID), zap.Error(err))
		}
		return 0, err
	}

	s.logger.Info("availability exception created",
		zap.Int64("exception_id", id),
		zap.Int64("physician_id", e.PhysicianID),
		zap.String("date", e.Date.Format(domain.DateLayout)),
		zap.String("kind", string(e.Kind)))

	return id, nil
}

// checkAlternate refuses to relocate a physician to a location they do not work at.
func (s *ExceptionServiceImpl) checkAlternate(ctx context.Context, physicianID int64, locationID *int64) error {
	if locationID == nil {
		return nil
	}
	assigned, err := s.directory.IsAssigned(ctx, physicianID, *locationID)
	if err != nil {
		return err
	}
	if !assigned {
		return domain.ErrPhysicianNotAtLocation
	}
	return nil
}

func (s *ExceptionServiceImpl) GetByID(ctx context.Context, id int64) (*domain.AvailabilityException, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get availability exception", zap.Int64("exception_id", id), zap.Error(err))
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrExceptionNotFound
	}
	return e, nil
}

func (s *ExceptionServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateExceptionDTO) error {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if dto.Kind != nil {
		e.Kind = *dto.Kind
	}
	if dto.OverrideStart != nil {
		if e.OverrideStart, err = parseClockPtr(dto.OverrideStart); err != nil {
			return err
		}
	}
	if dto.OverrideEnd != nil {
		if e.OverrideEnd, err = parseClockPtr(dto.OverrideEnd); err != nil {
			return err
		}
	}
	if dto.Reason != nil {
		e.Reason = sanitizeReason(dto.Reason)
	}
	if dto.AlternateLocationID != nil {
		if _, err := s.directory.GetLocation(ctx, *dto.AlternateLocationID); err != nil {
			return err
		}
		if err := s.checkAlternate(ctx, e.PhysicianID, dto.AlternateLocationID); err != nil {
			return err
		}
		e.AlternateLocationID = dto.AlternateLocationID
	}

	// Fields that no longer apply to the kind are dropped.
	switch e.Kind {
	case domain.ExceptionUnavailable:
		e.OverrideStart, e.OverrideEnd, e.AlternateLocationID = nil, nil, nil
	case domain.ExceptionModifiedHours:
		e.AlternateLocationID = nil
	}

	if err := e.Validate(); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, *e); err != nil {
		s.logger.Error("failed to update availability exception", zap.Int64("exception_id", id), zap.Error(err))
		return err
	}

	return nil
}

func (s *ExceptionServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrExceptionNotFound) {
			s.logger.Error("failed to delete availability exception", zap.Int64("exception_id", id), zap.Error(err))
		}
		return err
	}
	return nil
}

func (s *ExceptionServiceImpl) List(ctx context.Context, filter domain.ExceptionFilter) ([]domain.AvailabilityException, int, error) {
	exceptions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list availability exceptions", zap.Error(err))
		return nil, 0, err
	}
	return exceptions, total, nil
}
