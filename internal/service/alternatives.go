package service

import (
	"context"
	"errors"
	"fmt"

	"medsched/internal/domain"
	"medsched/internal/scheduling"
)

// FindAlternatives walks physicians of the reference appointment's specialty and the next
// windowDays days (today included) collecting open slots.
//
// Cancellation by the caller returns ctx.Err(). Hitting the configured search timeout
// returns whatever was collected so far.
func (s *AvailabilityServiceImpl) FindAlternatives(ctx context.Context, referenceAppointmentID int64, preferredLocationID *int64, windowDays int) ([]domain.AlternativeOption, error) {
	if windowDays < 0 || windowDays > s.cfg.AlternativesMaxWindowDays {
		return nil, fmt.Errorf("%w: window must be between 0 and %d days", domain.ErrInvalidWindow, s.cfg.AlternativesMaxWindowDays)
	}

	ref, err := s.appointmentRepo.GetByID(ctx, referenceAppointmentID)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, domain.ErrAppointmentNotFound
	}

	physician, err := s.directory.GetPhysician(ctx, ref.PhysicianID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.directory.ListBySpecialty(ctx, physician.SpecialtyID, preferredLocationID)
	if err != nil {
		return nil, err
	}

	searchCtx := ctx
	if s.cfg.AlternativesTimeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, s.cfg.AlternativesTimeout)
		defer cancel()
	}

	today, nowClock := s.today()
	limit := s.cfg.OptionLimit()
	perOption := s.cfg.SlotsPerAlternative

	options := make([]domain.AlternativeOption, 0, limit)
	defer func() { s.metrics.ObserveAlternatives(len(options)) }()

	for _, candidate := range candidates {
		for offset := 0; offset <= windowDays; offset++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if searchCtx.Err() != nil {
				return options, nil
			}

			date := today.AddDate(0, 0, offset)
			result, err := s.availability(searchCtx, candidate.ID, date, preferredLocationID)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				if errors.Is(err, context.DeadlineExceeded) || searchCtx.Err() != nil {
					return options, nil
				}
				return nil, err
			}

			for _, report := range result.Locations {
				slots := report.Slots
				if offset == 0 {
					slots = upcoming(slots, nowClock)
				}
				if len(slots) == 0 {
					continue
				}

				options = append(options, domain.AlternativeOption{
					PhysicianID:   candidate.ID,
					PhysicianName: candidate.FullName(),
					LocationID:    report.LocationID,
					LocationName:  report.LocationName,
					Date:          date,
					Slots:         scheduling.FirstN(slots, perOption),
				})
				if len(options) >= limit {
					return options, nil
				}
			}
		}
	}

	return options, nil
}

// upcoming drops slots that already started.
func upcoming(slots []domain.Slot, now domain.Clock) []domain.Slot {
	for i, slot := range slots {
		if slot.Start > now {
			return slots[i:]
		}
	}
	return nil
}
