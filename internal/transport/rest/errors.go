package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medsched/internal/domain"
	"medsched/internal/storage"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{domain.ErrInvalidTimeFormat, http.StatusBadRequest},
	{domain.ErrInvalidInterval, http.StatusBadRequest},
	{domain.ErrInvalidDate, http.StatusBadRequest},
	{domain.ErrInvalidWindow, http.StatusBadRequest},
	{domain.ErrInvalidAppointmentType, http.StatusBadRequest},
	{domain.ErrInvalidInput, http.StatusBadRequest},
	{storage.ErrEmptyFile, http.StatusBadRequest},
	{storage.ErrNotAnImage, http.StatusBadRequest},

	{domain.ErrAppointmentNotFound, http.StatusNotFound},
	{domain.ErrPhysicianNotFound, http.StatusNotFound},
	{domain.ErrLocationNotFound, http.StatusNotFound},
	{domain.ErrSpecialtyNotFound, http.StatusNotFound},
	{domain.ErrWorkingPeriodNotFound, http.StatusNotFound},
	{domain.ErrExceptionNotFound, http.StatusNotFound},
	{domain.ErrCopayRateNotFound, http.StatusNotFound},

	{domain.ErrSlotConflict, http.StatusConflict},
	{domain.ErrWorkingPeriodExists, http.StatusConflict},
	{domain.ErrExceptionExists, http.StatusConflict},
	{domain.ErrInvalidStatusTransition, http.StatusConflict},

	{domain.ErrPhysicianNotAtLocation, http.StatusUnprocessableEntity},
	{domain.ErrOutsideWorkingHours, http.StatusUnprocessableEntity},
	{domain.ErrInvalidSchedule, http.StatusUnprocessableEntity},
	{domain.ErrInvalidException, http.StatusUnprocessableEntity},

	{domain.ErrFileStorageDisabled, http.StatusServiceUnavailable},
}

func statusOf(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// handleError writes the response for a service error. Domain errors keep their message;
// anything else is logged and reported as an internal error.
func (h *Handler) handleError(c *gin.Context, err error, msg string) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(msg, zap.Error(err), zap.String("request_id", c.GetString(requestIDCtx)))
		_ = c.Error(err)
		internalServerErrorResponse(c)
		return
	}

	errorResponse(c, status, err.Error())
}
