package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medsched/internal/domain"
)

// @Summary Create location
// @Tags Locations
// @Accept json
// @Produce json
// @Param input body domain.CreateLocationDTO true "Location data"
// @Success 201 {object} idResponse
// @Failure 400 {object} errorResponseBody
// @Failure 401 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /locations [post]
func (h *Handler) createLocation(c *gin.Context) {
	var req domain.CreateLocationDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body: "+err.Error())
		return
	}

	id, err := h.services.Location.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, "failed to create location")
		return
	}

	createdIDResponse(c, id)
}

// @Summary Get location
// @Tags Locations
// @Produce json
// @Param id path int true "Location ID"
// @Success 200 {object} domain.Location
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Router /locations/{id} [get]
func (h *Handler) getLocationByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.services.Location.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, "failed to get location")
		return
	}

	okResponse(c, item)
}

// @Summary List locations
// @Tags Locations
// @Produce json
// @Param include_inactive query bool false "Include inactive entries"
// @Success 200 {object} successResponseBody
// @Failure 500 {object} errorResponseBody
// @Router /locations [get]
func (h *Handler) getLocations(c *gin.Context) {
	items, err := h.services.Location.List(c.Request.Context(), c.Query("include_inactive") != "true")
	if err != nil {
		h.handleError(c, err, "failed to list locations")
		return
	}

	okResponse(c, items)
}

// @Summary Update location
// @Tags Locations
// @Accept json
// @Produce json
// @Param id path int true "Location ID"
// @Param input body domain.UpdateLocationDTO true "Fields to update"
// @Success 200 {object} messageResponseType
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /locations/{id} [put]
func (h *Handler) updateLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.UpdateLocationDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.services.Location.Update(c.Request.Context(), id, req); err != nil {
		h.handleError(c, err, "failed to update location")
		return
	}

	messageResponse(c, "location updated")
}

// @Summary Delete location
// @Tags Locations
// @Param id path int true "Location ID"
// @Success 204
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /locations/{id} [delete]
func (h *Handler) deleteLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Location.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err, "failed to delete location")
		return
	}

	c.Status(http.StatusNoContent)
}
