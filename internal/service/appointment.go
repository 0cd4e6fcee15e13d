package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"medsched/internal/domain"
	"medsched/internal/events"
	"medsched/internal/repository"
	"medsched/pkg/metrics"
	"medsched/pkg/validator"
)

// WorkingHoursChecker rejects requests that fall outside the resolved schedule.
type WorkingHoursChecker interface {
	CheckWithinHours(ctx context.Context, req domain.SlotRequest) error
}

type AppointmentServiceImpl struct {
	repo      repository.AppointmentRepository
	guard     *SlotGuard
	hours     WorkingHoursChecker
	directory Directory
	copay     CopayEstimator
	publisher events.Publisher
	metrics   Metrics
	logger    *zap.Logger
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	guard *SlotGuard,
	hours WorkingHoursChecker,
	directory Directory,
	copay CopayEstimator,
	publisher events.Publisher,
	metrics Metrics,
	logger *zap.Logger,
) *AppointmentServiceImpl {
	return &AppointmentServiceImpl{
		repo:      repo,
		guard:     guard,
		hours:     hours,
		directory: directory,
		copay:     copay,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

func parseSlotRequest(physicianID, locationID int64, date, start, end string) (domain.SlotRequest, error) {
	d, err := domain.ParseDate(date)
	if err != nil {
		return domain.SlotRequest{}, err
	}

	interval, err := domain.ParseInterval(start, end)
	if err != nil {
		return domain.SlotRequest{}, err
	}

	return domain.SlotRequest{PhysicianID: physicianID, LocationID: locationID, Date: d, Interval: interval}, nil
}

// checkTarget runs the checks shared by reserve and reschedule, before the guard is involved.
func (s *AppointmentServiceImpl) checkTarget(ctx context.Context, req domain.SlotRequest) error {
	assigned, err := s.directory.IsAssigned(ctx, req.PhysicianID, req.LocationID)
	if err != nil {
		return err
	}
	if !assigned {
		return domain.ErrPhysicianNotAtLocation
	}

	return s.hours.CheckWithinHours(ctx, req)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeBooked
	case errors.Is(err, domain.ErrSlotConflict):
		return metrics.OutcomeConflict
	case errors.Is(err, domain.ErrPhysicianNotAtLocation),
		errors.Is(err, domain.ErrOutsideWorkingHours),
		errors.Is(err, domain.ErrInvalidTimeFormat),
		errors.Is(err, domain.ErrInvalidInterval),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidAppointmentType),
		errors.Is(err, domain.ErrInvalidStatusTransition),
		errors.Is(err, domain.ErrAppointmentNotFound):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

func (s *AppointmentServiceImpl) Reserve(ctx context.Context, dto domain.ReserveSlotDTO) (appt *domain.Appointment, err error) {
	defer func() { s.metrics.RecordBooking("reserve", outcomeOf(err)) }()

	req, err := parseSlotRequest(dto.PhysicianID, dto.LocationID, dto.Date, dto.StartTime, dto.EndTime)
	if err != nil {
		return nil, err
	}

	if !validator.ValidateAppointmentType(dto.AppointmentType) {
		return nil, domain.ErrInvalidAppointmentType
	}

	if err := s.checkTarget(ctx, req); err != nil {
		return nil, err
	}

	appt = &domain.Appointment{
		Reference:       uuid.New(),
		PatientID:       dto.PatientID,
		PhysicianID:     req.PhysicianID,
		LocationID:      req.LocationID,
		AppointmentDate: req.Date,
		StartTime:       req.Interval.Start,
		EndTime:         req.Interval.End,
		AppointmentType: dto.AppointmentType,
		Status:          domain.AppointmentStatusScheduled,
		Notes:           validator.SanitizeString(dto.Notes),
	}

	estimate, err := s.copay.Estimate(ctx, dto.AppointmentType)
	switch {
	case err == nil:
		appt.CopayAmount = &estimate.Amount
	case errors.Is(err, domain.ErrCopayRateNotFound):
		s.logger.Warn("no copay rate for appointment type", zap.String("appointment_type", dto.AppointmentType))
	default:
		return nil, err
	}

	if err := s.guard.Reserve(ctx, req, appt); err != nil {
		if errors.Is(err, domain.ErrSlotConflict) {
			s.logger.Info("slot already booked",
				zap.Int64("physician_id", req.PhysicianID),
				zap.Int64("location_id", req.LocationID),
				zap.String("date", req.Date.Format(domain.DateLayout)),
				zap.Stringer("interval", req.Interval))
		} else {
			s.logger.Error("failed to reserve slot", zap.Int64("physician_id", req.PhysicianID), zap.Error(err))
		}
		return nil, err
	}

	s.fillNames(ctx, appt)
	s.publish(ctx, events.AppointmentBooked, *appt)

	s.logger.Info("appointment reserved",
		zap.Int64("appointment_id", appt.ID),
		zap.Int64("physician_id", appt.PhysicianID),
		zap.Int64("location_id", appt.LocationID))

	return appt, nil
}

func (s *AppointmentServiceImpl) Reschedule(ctx context.Context, id int64, dto domain.RescheduleDTO) (appt *domain.Appointment, err error) {
	defer func() { s.metrics.RecordBooking("reschedule", outcomeOf(err)) }()

	appt, err = s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if appt.Status != domain.AppointmentStatusScheduled && appt.Status != domain.AppointmentStatusConfirmed {
		return nil, domain.ErrInvalidStatusTransition
	}

	locationID := appt.LocationID
	if dto.LocationID != nil {
		locationID = *dto.LocationID
	}

	req, err := parseSlotRequest(appt.PhysicianID, locationID, dto.Date, dto.StartTime, dto.EndTime)
	if err != nil {
		return nil, err
	}

	if err := s.checkTarget(ctx, req); err != nil {
		return nil, err
	}

	if err := s.guard.Reschedule(ctx, id, req); err != nil {
		if !errors.Is(err, domain.ErrSlotConflict) {
			s.logger.Error("failed to reschedule appointment", zap.Int64("appointment_id", id), zap.Error(err))
		}
		return nil, err
	}

	appt.LocationID = req.LocationID
	appt.AppointmentDate = req.Date
	appt.StartTime = req.Interval.Start
	appt.EndTime = req.Interval.End
	s.fillNames(ctx, appt)
	s.publish(ctx, events.AppointmentRescheduled, *appt)

	return appt, nil
}

func (s *AppointmentServiceImpl) Cancel(ctx context.Context, id int64) error {
	return s.UpdateStatus(ctx, id, domain.AppointmentStatusCancelled)
}

func (s *AppointmentServiceImpl) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	appt, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !appt.Status.CanTransitionTo(status) {
		s.logger.Info("rejected status transition",
			zap.Int64("appointment_id", id),
			zap.String("from", string(appt.Status)),
			zap.String("to", string(status)))
		return domain.ErrInvalidStatusTransition
	}

	if err := s.repo.UpdateStatus(ctx, id, appt.Status, status); err != nil {
		if errors.Is(err, domain.ErrInvalidStatusTransition) {
			s.logger.Info("status changed concurrently",
				zap.Int64("appointment_id", id),
				zap.String("from", string(appt.Status)),
				zap.String("to", string(status)))
			return err
		}
		s.logger.Error("failed to update appointment status", zap.Int64("appointment_id", id), zap.Error(err))
		return err
	}

	appt.Status = status
	eventType := events.AppointmentStatus
	if status == domain.AppointmentStatusCancelled {
		eventType = events.AppointmentCancelled
	}
	s.publish(ctx, eventType, *appt)

	return nil
}

func (s *AppointmentServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get appointment", zap.Int64("appointment_id", id), zap.Error(err))
		return nil, err
	}
	if appt == nil {
		return nil, domain.ErrAppointmentNotFound
	}
	return appt, nil
}

func (s *AppointmentServiceImpl) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	appointments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list appointments", zap.Error(err))
		return nil, 0, err
	}
	return appointments, total, nil
}

func (s *AppointmentServiceImpl) fillNames(ctx context.Context, appt *domain.Appointment) {
	if p, err := s.directory.GetPhysician(ctx, appt.PhysicianID); err == nil {
		appt.PhysicianName = p.FullName()
	}
	if l, err := s.directory.GetLocation(ctx, appt.LocationID); err == nil {
		appt.LocationName = l.Name
	}
}

// publish is best effort: the booking is already committed.
func (s *AppointmentServiceImpl) publish(ctx context.Context, t events.Type, appt domain.Appointment) {
	if err := s.publisher.Publish(ctx, events.NewAppointmentEvent(t, appt)); err != nil {
		s.logger.Error("failed to publish appointment event",
			zap.String("event", string(t)),
			zap.Int64("appointment_id", appt.ID),
			zap.Error(err))
	}
}
