package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"medsched/internal/domain"
	"medsched/internal/repository"
)

type WorkingPeriodServiceImpl struct {
	repo      repository.WorkingPeriodRepository
	directory Directory
	logger    *zap.Logger
}

func NewWorkingPeriodService(repo repository.WorkingPeriodRepository, directory Directory, logger *zap.Logger) *WorkingPeriodServiceImpl {
	return &WorkingPeriodServiceImpl{
		repo:      repo,
		directory: directory,
		logger:    logger,
	}
}

func parseClockPtr(s *string) (*domain.Clock, error) {
	if s == nil {
		return nil, nil
	}
	c, err := domain.ParseClock(*s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// parseDatePtr treats an empty string as "no date".
func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseBreaks(dtos []domain.BreakDTO) ([]domain.BreakInterval, error) {
	breaks := make([]domain.BreakInterval, 0, len(dtos))
	for _, b := range dtos {
		iv, err := domain.ParseInterval(b.Start, b.End)
		if err != nil {
			return nil, err
		}
		breaks = append(breaks, domain.BreakInterval{Name: b.Name, Start: iv.Start, End: iv.End})
	}
	return breaks, nil
}

func (s *WorkingPeriodServiceImpl) Create(ctx context.Context, dto domain.CreateWorkingPeriodDTO) (int64, error) {
	hours, err := domain.ParseInterval(dto.StartTime, dto.EndTime)
	if err != nil {
		return 0, err
	}

	wp := domain.WorkingPeriod{
		PhysicianID: dto.PhysicianID,
		LocationID:  dto.LocationID,
		StartTime:   hours.Start,
		EndTime:     hours.End,
		SlotMinutes: dto.SlotMinutes,
		IsActive:    true,
	}
	if dto.DayOfWeek != nil {
		wp.DayOfWeek = *dto.DayOfWeek
	}
	if wp.SlotMinutes == 0 {
		wp.SlotMinutes = domain.DefaultSlotMinutes
	}

	if wp.LunchStart, err = parseClockPtr(dto.LunchStart); err != nil {
		return 0, err
	}
	if wp.LunchEnd, err = parseClockPtr(dto.LunchEnd); err != nil {
		return 0, err
	}
	if wp.Breaks, err = parseBreaks(dto.Breaks); err != nil {
		return 0, err
	}
	if wp.EffectiveDate, err = domain.ParseDate(dto.EffectiveDate); err != nil {
		return 0, err
	}
	if wp.ExpiryDate, err = parseDatePtr(dto.ExpiryDate); err != nil {
		return 0, err
	}

	if err := wp.Validate(); err != nil {
		return 0, err
	}

	assigned, err := s.directory.IsAssigned(ctx, wp.PhysicianID, wp.LocationID)
	if err != nil {
		return 0, err
	}
	if !assigned {
		return 0, domain.ErrPhysicianNotAtLocation
	}

	id, err := s.repo.Create(ctx, wp)
	if err != nil {
		if !errors.Is(err, domain.ErrWorkingPeriodExists) {
			s.logger.Error("failed to create working period", zap.Int64("physician_id", wp.PhysicianID), zap.Error(err))
		}
		return 0, err
	}

	s.logger.Info("working period created",
		zap.Int64("working_period_id", id),
		zap.Int64("physician_id", wp.PhysicianID),
		zap.Int64("location_id", wp.LocationID),
		zap.Int("day_of_week", wp.DayOfWeek))

	return id, nil
}

func (s *WorkingPeriodServiceImpl) GetByID(ctx context.Context, id int64) (*domain.WorkingPeriod, error) {
	wp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get working period", zap.Int64("working_period_id", id), zap.Error(err))
		return nil, err
	}
	if wp == nil {
		return nil, domain.ErrWorkingPeriodNotFound
	}
	return wp, nil
}

func (s *WorkingPeriodServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateWorkingPeriodDTO) error {
	wp, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if dto.StartTime != nil {
		if wp.StartTime, err = domain.ParseClock(*dto.StartTime); err != nil {
			return err
		}
	}
	if dto.EndTime != nil {
		if wp.EndTime, err = domain.ParseClock(*dto.EndTime); err != nil {
			return err
		}
	}

	if dto.ClearLunch {
		wp.LunchStart, wp.LunchEnd = nil, nil
	}
	if dto.LunchStart != nil {
		if wp.LunchStart, err = parseClockPtr(dto.LunchStart); err != nil {
			return err
		}
	}
	if dto.LunchEnd != nil {
		if wp.LunchEnd, err = parseClockPtr(dto.LunchEnd); err != nil {
			return err
		}
	}

	if dto.Breaks != nil {
		if wp.Breaks, err = parseBreaks(*dto.Breaks); err != nil {
			return err
		}
	}
	if dto.SlotMinutes != nil {
		wp.SlotMinutes = *dto.SlotMinutes
	}
	if dto.ExpiryDate != nil {
		if wp.ExpiryDate, err = parseDatePtr(dto.ExpiryDate); err != nil {
			return err
		}
	}
	if dto.IsActive != nil {
		wp.IsActive = *dto.IsActive
	}

	if err := wp.Validate(); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, *wp); err != nil {
		s.logger.Error("failed to update working period", zap.Int64("working_period_id", id), zap.Error(err))
		return err
	}

	return nil
}

func (s *WorkingPeriodServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrWorkingPeriodNotFound) {
			s.logger.Error("failed to delete working period", zap.Int64("working_period_id", id), zap.Error(err))
		}
		return err
	}
	return nil
}

func (s *WorkingPeriodServiceImpl) List(ctx context.Context, filter domain.WorkingPeriodFilter) ([]domain.WorkingPeriod, error) {
	periods, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list working periods", zap.Error(err))
		return nil, err
	}
	return periods, nil
}
