package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medsched/internal/domain"
	"medsched/pkg/auth"
)

func canManageException(claims *auth.Claims, physicianID int64, locationID *int64) bool {
	if locationID == nil {
		return canManagePhysician(claims, physicianID)
	}
	return canManageLocation(claims, physicianID, *locationID)
}

// @Summary Create availability exception
// @Description Date-specific override: unavailable, modified_hours or location_change. Omit location_id to cover every location.
// @Tags Exceptions
// @Accept json
// @Produce json
// @Param input body domain.CreateExceptionDTO true "Exception"
// @Success 201 {object} idResponse
// @Failure 400 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody "Physician or location not found"
// @Failure 409 {object} errorResponseBody "An exception already exists for that date"
// @Failure 422 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /exceptions [post]
func (h *Handler) createException(c *gin.Context) {
	var req domain.CreateExceptionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body: "+err.Error())
		return
	}

	claims, _ := getClaims(c)
	if !canManageException(claims, req.PhysicianID, req.LocationID) {
		forbiddenResponse(c)
		return
	}

	id, err := h.services.Exception.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, "failed to create exception")
		return
	}

	createdIDResponse(c, id)
}

// @Summary Get availability exception
// @Tags Exceptions
// @Produce json
// @Param id path int true "Exception ID"
// @Success 200 {object} domain.AvailabilityException
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /exceptions/{id} [get]
func (h *Handler) getExceptionByID(c *gin.Context) {
	e, ok := h.loadException(c, false)
	if !ok {
		return
	}

	okResponse(c, e)
}

// @Summary List availability exceptions
// @Tags Exceptions
// @Produce json
// @Param physician_id query int false "Physician ID"
// @Param location_id query int false "Location ID"
// @Param date_from query string false "YYYY-MM-DD"
// @Param date_to query string false "YYYY-MM-DD"
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} paginatedResponse
// @Failure 400 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /exceptions [get]
func (h *Handler) getExceptions(c *gin.Context) {
	physicianID, ok := optionalInt64Query(c, "physician_id")
	if !ok {
		return
	}
	locationID, ok := optionalInt64Query(c, "location_id")
	if !ok {
		return
	}
	dateFrom, ok := optionalDateQuery(c, "date_from")
	if !ok {
		return
	}
	dateTo, ok := optionalDateQuery(c, "date_to")
	if !ok {
		return
	}

	page, pageSize, offset := pageQuery(c)
	filter := domain.ExceptionFilter{
		PhysicianID: physicianID,
		LocationID:  locationID,
		DateFrom:    dateFrom,
		DateTo:      dateTo,
		Limit:       pageSize,
		Offset:      offset,
	}
	if claims, _ := getClaims(c); claims.Role == auth.RolePhysician {
		filter.PhysicianID = claims.PhysicianID
	}

	exceptions, total, err := h.services.Exception.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err, "failed to list exceptions")
		return
	}

	paginatedSuccessResponse(c, exceptions, total, page, pageSize)
}

// @Summary Update availability exception
// @Tags Exceptions
// @Accept json
// @Produce json
// @Param id path int true "Exception ID"
// @Param input body domain.UpdateExceptionDTO true "Fields to update"
// @Success 200 {object} messageResponseType
// @Failure 400 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 422 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /exceptions/{id} [put]
func (h *Handler) updateException(c *gin.Context) {
	var req domain.UpdateExceptionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body: "+err.Error())
		return
	}

	e, ok := h.loadException(c, true)
	if !ok {
		return
	}

	if err := h.services.Exception.Update(c.Request.Context(), e.ID, req); err != nil {
		h.handleError(c, err, "failed to update exception")
		return
	}

	messageResponse(c, "exception updated")
}

// @Summary Delete availability exception
// @Tags Exceptions
// @Param id path int true "Exception ID"
// @Success 204
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /exceptions/{id} [delete]
func (h *Handler) deleteException(c *gin.Context) {
	e, ok := h.loadException(c, true)
	if !ok {
		return
	}

	if err := h.services.Exception.Delete(c.Request.Context(), e.ID); err != nil {
		h.handleError(c, err, "failed to delete exception")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) loadException(c *gin.Context, write bool) (*domain.AvailabilityException, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}

	e, err := h.services.Exception.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, "failed to get exception")
		return nil, false
	}

	claims, _ := getClaims(c)
	allowed := canManageException(claims, e.PhysicianID, e.LocationID)
	if !write && claims.Role != auth.RolePhysician {
		allowed = true
	}
	if !allowed {
		forbiddenResponse(c)
		return nil, false
	}

	return e, true
}
