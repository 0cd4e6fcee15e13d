package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type errorResponseBody struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Code      int    `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type successResponseBody struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type messageResponseType struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

type paginatedResponse struct {
	Data       interface{} `json:"data"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

func okResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, successResponseBody{Status: statusSuccess, Data: data})
}

func createdIDResponse(c *gin.Context, id int64) {
	c.JSON(http.StatusCreated, successResponseBody{Status: statusSuccess, Data: idResponse{ID: id}})
}

func createdResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, successResponseBody{Status: statusSuccess, Data: data})
}

func messageResponse(c *gin.Context, message string) {
	c.JSON(http.StatusOK, messageResponseType{Status: statusSuccess, Message: message})
}

// paginatedSuccessResponse writes the page without the success envelope.
func paginatedSuccessResponse(c *gin.Context, data interface{}, totalCount, page, pageSize int) {
	resp := paginatedResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
	}
	if pageSize > 0 {
		resp.TotalPages = (totalCount + pageSize - 1) / pageSize
	}

	c.JSON(http.StatusOK, resp)
}

// errorResponse aborts the chain and echoes the request id.
func errorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, errorResponseBody{
		Status:    statusError,
		Message:   message,
		Code:      statusCode,
		RequestID: c.GetString(requestIDCtx),
	})
}

func badRequestResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, message)
}

func unauthorizedResponse(c *gin.Context) {
	errorResponse(c, http.StatusUnauthorized, "authorization required")
}

func forbiddenResponse(c *gin.Context, message ...string) {
	if len(message) > 0 && message[0] != "" {
		errorResponse(c, http.StatusForbidden, message[0])
		return
	}
	errorResponse(c, http.StatusForbidden, "access denied")
}

func internalServerErrorResponse(c *gin.Context) {
	errorResponse(c, http.StatusInternalServerError, "internal server error")
}
