package rest

import (
	"github.com/gin-gonic/gin"

	"medsched/internal/domain"
	"medsched/pkg/auth"
)

func canViewAppointment(claims *auth.Claims, appt *domain.Appointment) bool {
	switch claims.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleStaff:
		return claims.CanAccessLocation(appt.LocationID)
	case auth.RolePhysician:
		return claims.PhysicianID != nil && *claims.PhysicianID == appt.PhysicianID
	case auth.RolePatient:
		return appt.PatientID == claims.UserID
	}
	return false
}

// @Summary Reserve a slot
// @Description Books the interval if it is free. Patients book for themselves; staff and admins must pass patient_id.
// @Tags Appointments
// @Accept json
// @Produce json
// @Param input body domain.ReserveSlotDTO true "Reservation"
// @Success 201 {object} domain.Appointment
// @Failure 400 {object} errorResponseBody "Invalid time format or appointment type"
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 409 {object} errorResponseBody "Slot already booked"
// @Failure 422 {object} errorResponseBody "Physician not at location or outside working hours"
// @Security ApiKeyAuth
// @Router /appointments [post]
func (h *Handler) reserveSlot(c *gin.Context) {
	var req domain.ReserveSlotDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body: "+err.Error())
		return
	}

	claims, _ := getClaims(c)
	switch claims.Role {
	case auth.RolePatient:
		if req.PatientID != 0 && req.PatientID != claims.UserID {
			forbiddenResponse(c, "patients may only book for themselves")
			return
		}
		req.PatientID = claims.UserID
	case auth.RoleStaff:
		if !claims.CanAccessLocation(req.LocationID) {
			forbiddenResponse(c)
			return
		}
	}
	if req.PatientID <= 0 {
		badRequestResponse(c, "patient_id is required")
		return
	}

	appt, err := h.services.Appointment.Reserve(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, "failed to reserve slot")
		return
	}

	createdResponse(c, appt)
}

// @Summary Get appointment
// @Tags Appointments
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} domain.Appointment
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /appointments/{id} [get]
func (h *Handler) getAppointmentByID(c *gin.Context) {
	appt, ok := h.loadAppointment(c)
	if !ok {
		return
	}

	okResponse(c, appt)
}

// @Summary List appointments
// @Description Patients see their own appointments and physicians their own schedule.
// @Tags Appointments
// @Produce json
// @Param patient_id query int false "Patient ID"
// @Param physician_id query int false "Physician ID"
// @Param location_id query int false "Location ID"
// @Param status query string false "Status"
// @Param date_from query string false "YYYY-MM-DD"
// @Param date_to query string false "YYYY-MM-DD"
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} paginatedResponse
// @Failure 400 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /appointments [get]
func (h *Handler) getAppointments(c *gin.Context) {
	var filter domain.AppointmentFilter
	var ok bool

	if filter.PatientID, ok = optionalInt64Query(c, "patient_id"); !ok {
		return
	}
	if filter.PhysicianID, ok = optionalInt64Query(c, "physician_id"); !ok {
		return
	}
	if filter.LocationID, ok = optionalInt64Query(c, "location_id"); !ok {
		return
	}
	if filter.DateFrom, ok = optionalDateQuery(c, "date_from"); !ok {
		return
	}
	if filter.DateTo, ok = optionalDateQuery(c, "date_to"); !ok {
		return
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.AppointmentStatus(raw)
		filter.Status = &status
	}

	claims, _ := getClaims(c)
	switch claims.Role {
	case auth.RolePatient:
		filter.PatientID = &claims.UserID
	case auth.RolePhysician:
		if claims.PhysicianID == nil {
			forbiddenResponse(c)
			return
		}
		filter.PhysicianID = claims.PhysicianID
	case auth.RoleStaff:
		if len(claims.LocationIDs) == 0 {
			break
		}
		if filter.LocationID == nil && len(claims.LocationIDs) == 1 {
			filter.LocationID = &claims.LocationIDs[0]
		}
		if filter.LocationID == nil {
			badRequestResponse(c, "location_id is required for location-scoped tokens")
			return
		}
		if !claims.CanAccessLocation(*filter.LocationID) {
			forbiddenResponse(c)
			return
		}
	}

	page, pageSize, offset := pageQuery(c)
	filter.Limit, filter.Offset = pageSize, offset

	appointments, total, err := h.services.Appointment.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err, "failed to list appointments")
		return
	}

	paginatedSuccessResponse(c, appointments, total, page, pageSize)
}

// @Summary Reschedule appointment
// @Description Moves the appointment to a new free interval. location_id defaults to the current location.
// @Tags Appointments
// @Accept json
// @Produce json
// @Param id path int true "Appointment ID"
// @Param input body domain.RescheduleDTO true "New slot"
// @Success 200 {object} domain.Appointment
// @Failure 400 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 409 {object} errorResponseBody
// @Failure 422 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /appointments/{id}/reschedule [put]
func (h *Handler) rescheduleAppointment(c *gin.Context) {
	var req domain.RescheduleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body: "+err.Error())
		return
	}

	current, ok := h.loadAppointment(c)
	if !ok {
		return
	}

	claims, _ := getClaims(c)
	if req.LocationID != nil && claims.Role == auth.RoleStaff && !claims.CanAccessLocation(*req.LocationID) {
		forbiddenResponse(c)
		return
	}

	appt, err := h.services.Appointment.Reschedule(c.Request.Context(), current.ID, req)
	if err != nil {
		h.handleError(c, err, "failed to reschedule appointment")
		return
	}

	okResponse(c, appt)
}

// @Summary Cancel appointment
// @Tags Appointments
// @Param id path int true "Appointment ID"
// @Success 200 {object} messageResponseType
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 409 {object} errorResponseBody "Appointment can no longer be cancelled"
// @Security ApiKeyAuth
// @Router /appointments/{id} [delete]
func (h *Handler) cancelAppointment(c *gin.Context) {
	appt, ok := h.loadAppointment(c)
	if !ok {
		return
	}

	if err := h.services.Appointment.Cancel(c.Request.Context(), appt.ID); err != nil {
		h.handleError(c, err, "failed to cancel appointment")
		return
	}

	messageResponse(c, "appointment cancelled")
}

// @Summary Update appointment status
// @Tags Appointments
// @Accept json
// @Produce json
// @Param id path int true "Appointment ID"
// @Param input body domain.UpdateStatusDTO true "New status"
// @Success 200 {object} messageResponseType
// @Failure 400 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 409 {object} errorResponseBody "Transition not allowed"
// @Security ApiKeyAuth
// @Router /appointments/{id}/status [patch]
func (h *Handler) updateAppointmentStatus(c *gin.Context) {
	var req domain.UpdateStatusDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body: "+err.Error())
		return
	}

	appt, ok := h.loadAppointment(c)
	if !ok {
		return
	}

	if err := h.services.Appointment.UpdateStatus(c.Request.Context(), appt.ID, req.Status); err != nil {
		h.handleError(c, err, "failed to update appointment status")
		return
	}

	messageResponse(c, "appointment status updated")
}

func (h *Handler) loadAppointment(c *gin.Context) (*domain.Appointment, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}

	appt, err := h.services.Appointment.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, "failed to get appointment")
		return nil, false
	}

	claims, _ := getClaims(c)
	if !canViewAppointment(claims, appt) {
		forbiddenResponse(c)
		return nil, false
	}

	return appt, true
}
