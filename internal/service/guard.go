package service

import (
	"context"

	"medsched/internal/domain"
	"medsched/internal/repository"
)

// SlotGuard serializes bookings per physician-day: the overlap check and the write
// happen in one transaction under the (physician, date) lock.
type SlotGuard struct {
	repo repository.AppointmentRepository
}

func NewSlotGuard(repo repository.AppointmentRepository) *SlotGuard {
	return &SlotGuard{repo: repo}
}

// Reserve inserts appt for req unless an occupying booking overlaps it.
func (g *SlotGuard) Reserve(ctx context.Context, req domain.SlotRequest, appt *domain.Appointment) error {
	return g.repo.WithinSlotLock(ctx, req.LockKey(), func(tx repository.AppointmentTx) error {
		conflicts, err := tx.CountConflicts(ctx, req, nil)
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return domain.ErrSlotConflict
		}

		return tx.Insert(ctx, appt)
	})
}

// Reschedule moves appointment id to req. The appointment itself never conflicts with its new slot.
func (g *SlotGuard) Reschedule(ctx context.Context, id int64, req domain.SlotRequest) error {
	return g.repo.WithinSlotLock(ctx, req.LockKey(), func(tx repository.AppointmentTx) error {
		conflicts, err := tx.CountConflicts(ctx, req, &id)
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return domain.ErrSlotConflict
		}

		return tx.Reschedule(ctx, id, req)
	})
}
