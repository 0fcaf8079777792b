// Package httputil provides shared HTTP response helpers.
package httputil

import "github.com/gin-gonic/gin"

// requestIDKey mirrors middleware.RequestIDKey; importing middleware here
// would create a cycle.
const requestIDKey = "request_id"

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// RespondError writes a standardized JSON error response and aborts the request.
func RespondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{
		Code:      code,
		Message:   message,
		RequestID: c.GetString(requestIDKey),
	})
}
