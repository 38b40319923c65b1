// Package dto provides HTTP layer data transfer objects.
package dto

import (
	"net/http"

	apperrors "hp-adventure-api/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Response is the uniform success envelope.
type Response[T any] struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Data      T      `json:"data,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorDetail carries machine-readable error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error     ErrorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

// Success writes a 200 response.
func Success[T any](c *gin.Context, data T) {
	c.JSON(http.StatusOK, Response[T]{
		Code:      string(apperrors.CodeSuccess),
		Message:   "success",
		Data:      data,
		RequestID: c.GetString("request_id"),
	})
}

// Error writes the error with its mapped HTTP status.
func Error(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:    string(appErr.Code),
			Message: appErr.Message,
			Detail:  appErr.Detail,
		},
		RequestID: c.GetString("request_id"),
	})
}

// BadRequest writes a 400 response.
func BadRequest(c *gin.Context, message string) {
	Error(c, apperrors.New(apperrors.CodeInvalidParam, message))
}
