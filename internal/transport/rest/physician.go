package rest

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medsched/internal/domain"
)

const maxPhotoSize = 5 << 20

// @Summary Create physician
// @Tags Physicians
// @Accept json
// @Produce json
// @Param input body domain.CreatePhysicianDTO true "Physician data"
// @Success 201 {object} idResponse
// @Failure 400 {object} errorResponseBody
// @Failure 401 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody "Specialty not found"
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /physicians [post]
func (h *Handler) createPhysician(c *gin.Context) {
	var req domain.CreatePhysicianDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body: "+err.Error())
		return
	}

	id, err := h.services.Physician.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, "failed to create physician")
		return
	}

	createdIDResponse(c, id)
}

// @Summary Get physician
// @Tags Physicians
// @Produce json
// @Param id path int true "Physician ID"
// @Success 200 {object} domain.Physician
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Router /physicians/{id} [get]
func (h *Handler) getPhysicianByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	physician, err := h.services.Physician.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, "failed to get physician")
		return
	}

	okResponse(c, physician)
}

// @Summary List physicians
// @Tags Physicians
// @Produce json
// @Param specialty_id query int false "Specialty ID"
// @Param location_id query int false "Location ID"
// @Param search query string false "Name search"
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} paginatedResponse
// @Failure 400 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Router /physicians [get]
func (h *Handler) getPhysicians(c *gin.Context) {
	specialtyID, ok := optionalInt64Query(c, "specialty_id")
	if !ok {
		return
	}
	locationID, ok := optionalInt64Query(c, "location_id")
	if !ok {
		return
	}

	page, pageSize, offset := pageQuery(c)
	filter := domain.PhysicianFilter{
		SpecialtyID: specialtyID,
		LocationID:  locationID,
		OnlyActive:  c.Query("include_inactive") != "true",
		Limit:       pageSize,
		Offset:      offset,
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}

	physicians, total, err := h.services.Physician.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err, "failed to list physicians")
		return
	}

	paginatedSuccessResponse(c, physicians, total, page, pageSize)
}

// @Summary Update physician
// @Tags Physicians
// @Accept json
// @Produce json
// @Param id path int true "Physician ID"
// @Param input body domain.UpdatePhysicianDTO true "Fields to update"
// @Success 200 {object} messageResponseType
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /physicians/{id} [put]
func (h *Handler) updatePhysician(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.UpdatePhysicianDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.services.Physician.Update(c.Request.Context(), id, req); err != nil {
		h.handleError(c, err, "failed to update physician")
		return
	}

	messageResponse(c, "physician updated")
}

// @Summary Delete physician
// @Tags Physicians
// @Param id path int true "Physician ID"
// @Success 204
// @Failure 404 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /physicians/{id} [delete]
func (h *Handler) deletePhysician(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Physician.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err, "failed to delete physician")
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Upload physician photo
// @Tags Physicians
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Physician ID"
// @Param photo formData file true "Image, at most 5 MB"
// @Success 200 {object} successResponseBody
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 503 {object} errorResponseBody "File storage is not configured"
// @Security ApiKeyAuth
// @Router /physicians/{id}/photo [post]
func (h *Handler) uploadPhysicianPhoto(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile("photo")
	if err != nil {
		badRequestResponse(c, "photo file is required")
		return
	}
	if header.Size > maxPhotoSize {
		badRequestResponse(c, "photo must not exceed 5 MB")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Error("failed to open uploaded photo", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read uploaded photo", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	url, err := h.services.Physician.UploadProfilePhoto(c.Request.Context(), id, data, header.Filename)
	if err != nil {
		h.handleError(c, err, "failed to upload physician photo")
		return
	}

	okResponse(c, gin.H{"profile_photo_url": url})
}

// @Summary Delete physician photo
// @Tags Physicians
// @Param id path int true "Physician ID"
// @Success 204
// @Failure 404 {object} errorResponseBody
// @Failure 503 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /physicians/{id}/photo [delete]
func (h *Handler) deletePhysicianPhoto(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Physician.DeleteProfilePhoto(c.Request.Context(), id); err != nil {
		h.handleError(c, err, "failed to delete physician photo")
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Assign physician to location
// @Tags Physicians
// @Param id path int true "Physician ID"
// @Param locationId path int true "Location ID"
// @Success 200 {object} messageResponseType
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /physicians/{id}/locations/{locationId} [post]
func (h *Handler) assignPhysicianLocation(c *gin.Context) {
	physicianID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	locationID, ok := parseIDParam(c, "locationId")
	if !ok {
		return
	}

	if err := h.services.Physician.AssignLocation(c.Request.Context(), physicianID, locationID); err != nil {
		h.handleError(c, err, "failed to assign location")
		return
	}

	messageResponse(c, "location assigned")
}

// @Summary Unassign physician from location
// @Tags Physicians
// @Param id path int true "Physician ID"
// @Param locationId path int true "Location ID"
// @Success 204
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /physicians/{id}/locations/{locationId} [delete]
func (h *Handler) unassignPhysicianLocation(c *gin.Context) {
	physicianID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	locationID, ok := parseIDParam(c, "locationId")
	if !ok {
		return
	}

	if err := h.services.Physician.UnassignLocation(c.Request.Context(), physicianID, locationID); err != nil {
		h.handleError(c, err, "failed to unassign location")
		return
	}

	c.Status(http.StatusNoContent)
}
