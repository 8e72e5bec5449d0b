package api

import (
	"net/http"

	"approval-reminders/internal/common/errors"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Error writes an ErrorResponse. Status codes outside 4xx/5xx become 500.
func Error(c *gin.Context, status int, code, message, detail string) {
	if status < 400 || status >= 600 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: message,
		Detail:  detail,
	})
}

// AbortWithError writes err as an ErrorResponse and stops the handler chain.
func AbortWithError(c *gin.Context, status int, err error) {
	stdErr := errors.Normalize(err)
	Error(c, status, string(stdErr.Code), stdErr.Message, stdErr.Details)
	c.Abort()
}
