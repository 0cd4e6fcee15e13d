package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medsched/internal/domain"
)

// @Summary Create specialty
// @Tags Specialties
// @Accept json
// @Produce json
// @Param input body domain.CreateSpecialtyDTO true "Specialty data"
// @Success 201 {object} idResponse
// @Failure 400 {object} errorResponseBody
// @Failure 401 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /specialties [post]
func (h *Handler) createSpecialty(c *gin.Context) {
	var req domain.CreateSpecialtyDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body: "+err.Error())
		return
	}

	id, err := h.services.Specialty.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, "failed to create specialty")
		return
	}

	createdIDResponse(c, id)
}

// @Summary Get specialty
// @Tags Specialties
// @Produce json
// @Param id path int true "Specialty ID"
// @Success 200 {object} domain.Specialty
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Router /specialties/{id} [get]
func (h *Handler) getSpecialtyByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.services.Specialty.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, "failed to get specialty")
		return
	}

	okResponse(c, item)
}

// @Summary List specialties
// @Tags Specialties
// @Produce json
// @Param include_inactive query bool false "Include inactive entries"
// @Success 200 {object} successResponseBody
// @Failure 500 {object} errorResponseBody
// @Router /specialties [get]
func (h *Handler) getSpecialties(c *gin.Context) {
	items, err := h.services.Specialty.List(c.Request.Context(), c.Query("include_inactive") != "true")
	if err != nil {
		h.handleError(c, err, "failed to list specialties")
		return
	}

	okResponse(c, items)
}

// @Summary Update specialty
// @Tags Specialties
// @Accept json
// @Produce json
// @Param id path int true "Specialty ID"
// @Param input body domain.UpdateSpecialtyDTO true "Fields to update"
// @Success 200 {object} messageResponseType
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /specialties/{id} [put]
func (h *Handler) updateSpecialty(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.UpdateSpecialtyDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.services.Specialty.Update(c.Request.Context(), id, req); err != nil {
		h.handleError(c, err, "failed to update specialty")
		return
	}

	messageResponse(c, "specialty updated")
}

// @Summary Delete specialty
// @Tags Specialties
// @Param id path int true "Specialty ID"
// @Success 204
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /specialties/{id} [delete]
func (h *Handler) deleteSpecialty(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Specialty.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err, "failed to delete specialty")
		return
	}

	c.Status(http.StatusNoContent)
}
