package rest

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"medsched/internal/domain"
)

// @Summary Physician availability for a date
// @Description Bookable slots per location. Without location_id every assigned location is reported.
// @Tags Availability
// @Produce json
// @Param id path int true "Physician ID"
// @Param date query string true "YYYY-MM-DD"
// @Param location_id query int false "Location ID"
// @Success 200 {object} domain.PhysicianAvailabilityResult
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 422 {object} errorResponseBody "Physician not at location"
// @Security ApiKeyAuth
// @Router /physicians/{id}/availability [get]
func (h *Handler) getAvailability(c *gin.Context) {
	physicianID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	date, err := domain.ParseDate(c.Query("date"))
	if err != nil {
		badRequestResponse(c, err.Error())
		return
	}

	locationID, ok := optionalInt64Query(c, "location_id")
	if !ok {
		return
	}

	result, err := h.services.Availability.GetAvailability(c.Request.Context(), physicianID, date, locationID)
	if err != nil {
		h.handleError(c, err, "failed to get availability")
		return
	}

	okResponse(c, result)
}

// @Summary Alternative slots for an appointment
// @Description Up to ten options from physicians of the same specialty, in name order, each with its first three open slots.
// @Tags Availability
// @Produce json
// @Param id path int true "Reference appointment ID"
// @Param location_id query int false "Preferred location ID"
// @Param window_days query int false "Days to search after today, 0 to the configured maximum" default(14)
// @Success 200 {object} successResponseBody
// @Failure 400 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /appointments/{id}/alternatives [get]
func (h *Handler) getAlternatives(c *gin.Context) {
	appt, ok := h.loadAppointment(c)
	if !ok {
		return
	}

	preferred, ok := optionalInt64Query(c, "location_id")
	if !ok {
		return
	}

	windowDays := h.config.Scheduling.AlternativesWindowDays
	if raw := c.Query("window_days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			badRequestResponse(c, domain.ErrInvalidWindow.Error())
			return
		}
		windowDays = v
	}

	options, err := h.services.Availability.FindAlternatives(c.Request.Context(), appt.ID, preferred, windowDays)
	if err != nil {
		h.handleError(c, err, "failed to find alternatives")
		return
	}

	okResponse(c, options)
}
