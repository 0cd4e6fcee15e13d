package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"medsched/internal/domain"
	"medsched/pkg/auth"
)

// @Summary Create working period
// @Description Recurring weekly hours of a physician at one location. day_of_week is 0 (Sunday) to 6.
// @Tags Working periods
// @Accept json
// @Produce json
// @Param input body domain.CreateWorkingPeriodDTO true "Working period"
// @Success 201 {object} idResponse
// @Failure 400 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Failure 409 {object} errorResponseBody "A period already starts on that date"
// @Failure 422 {object} errorResponseBody "Invalid hours or physician not at location"
// @Security ApiKeyAuth
// @Router /working-periods [post]
func (h *Handler) createWorkingPeriod(c *gin.Context) {
	var req domain.CreateWorkingPeriodDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body: "+err.Error())
		return
	}

	claims, _ := getClaims(c)
	if !canManageLocation(claims, req.PhysicianID, req.LocationID) {
		forbiddenResponse(c)
		return
	}

	id, err := h.services.WorkingPeriod.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, "failed to create working period")
		return
	}

	createdIDResponse(c, id)
}

// @Summary Get working period
// @Tags Working periods
// @Produce json
// @Param id path int true "Working period ID"
// @Success 200 {object} domain.WorkingPeriod
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /working-periods/{id} [get]
func (h *Handler) getWorkingPeriodByID(c *gin.Context) {
	wp, ok := h.loadWorkingPeriod(c, false)
	if !ok {
		return
	}

	okResponse(c, wp)
}

// @Summary List working periods
// @Tags Working periods
// @Produce json
// @Param physician_id query int false "Physician ID"
// @Param location_id query int false "Location ID"
// @Param day_of_week query int false "0 (Sunday) to 6"
// @Param only_active query bool false "Only active periods"
// @Success 200 {object} successResponseBody
// @Failure 400 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /working-periods [get]
func (h *Handler) getWorkingPeriods(c *gin.Context) {
	physicianID, ok := optionalInt64Query(c, "physician_id")
	if !ok {
		return
	}
	locationID, ok := optionalInt64Query(c, "location_id")
	if !ok {
		return
	}

	filter := domain.WorkingPeriodFilter{
		PhysicianID: physicianID,
		LocationID:  locationID,
		OnlyActive:  c.Query("only_active") == "true",
	}
	if raw := c.Query("day_of_week"); raw != "" {
		day, err := strconv.Atoi(raw)
		if err != nil || day < 0 || day > 6 {
			badRequestResponse(c, "invalid day_of_week")
			return
		}
		filter.DayOfWeek = &day
	}

	if claims, _ := getClaims(c); claims.Role == auth.RolePhysician {
		filter.PhysicianID = claims.PhysicianID
	}

	periods, err := h.services.WorkingPeriod.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err, "failed to list working periods")
		return
	}

	okResponse(c, periods)
}

// @Summary Update working period
// @Tags Working periods
// @Accept json
// @Produce json
// @Param id path int true "Working period ID"
// @Param input body domain.UpdateWorkingPeriodDTO true "Fields to update"
// @Success 200 {object} messageResponseType
// @Failure 400 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 422 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /working-periods/{id} [put]
func (h *Handler) updateWorkingPeriod(c *gin.Context) {
	var req domain.UpdateWorkingPeriodDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body: "+err.Error())
		return
	}

	wp, ok := h.loadWorkingPeriod(c, true)
	if !ok {
		return
	}

	if err := h.services.WorkingPeriod.Update(c.Request.Context(), wp.ID, req); err != nil {
		h.handleError(c, err, "failed to update working period")
		return
	}

	messageResponse(c, "working period updated")
}

// @Summary Delete working period
// @Tags Working periods
// @Param id path int true "Working period ID"
// @Success 204
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /working-periods/{id} [delete]
func (h *Handler) deleteWorkingPeriod(c *gin.Context) {
	wp, ok := h.loadWorkingPeriod(c, true)
	if !ok {
		return
	}

	if err := h.services.WorkingPeriod.Delete(c.Request.Context(), wp.ID); err != nil {
		h.handleError(c, err, "failed to delete working period")
		return
	}

	c.Status(http.StatusNoContent)
}

// loadWorkingPeriod fetches the period named by the id param and checks the caller's scope.
// Reads are open to every scheduler role except physicians, who only see their own.
func (h *Handler) loadWorkingPeriod(c *gin.Context, write bool) (*domain.WorkingPeriod, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}

	wp, err := h.services.WorkingPeriod.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, "failed to get working period")
		return nil, false
	}

	claims, _ := getClaims(c)
	allowed := canManageLocation(claims, wp.PhysicianID, wp.LocationID)
	if !write && claims.Role != auth.RolePhysician {
		allowed = true
	}
	if !allowed {
		forbiddenResponse(c)
		return nil, false
	}

	return wp, true
}
