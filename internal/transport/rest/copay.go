package rest

import "github.com/gin-gonic/gin"

// @Summary Copay estimate
// @Tags Appointments
// @Produce json
// @Param appointment_type query string true "Appointment type, such as new_patient or follow_up"
// @Success 200 {object} domain.CopayEstimate
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody "No rate configured"
// @Security ApiKeyAuth
// @Router /copay [get]
func (h *Handler) getCopayEstimate(c *gin.Context) {
	appointmentType := c.Query("appointment_type")
	if appointmentType == "" {
		badRequestResponse(c, "appointment_type is required")
		return
	}

	estimate, err := h.services.Copay.Estimate(c.Request.Context(), appointmentType)
	if err != nil {
		h.handleError(c, err, "failed to estimate copay")
		return
	}

	okResponse(c, estimate)
}
