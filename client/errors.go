package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
)

// APIError represents a structured error response from the visitgraph API.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("visitgraph: %d %s: %s (request_id=%s)", e.StatusCode, e.Code, e.Message, e.RequestID)
	}

	return fmt.Sprintf("visitgraph: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

func statusIs(err error, code int) bool {
	var e *APIError

	return errors.As(err, &e) && e.StatusCode == code
}

// IsNotFound returns true if the error is a 404 not found.
func IsNotFound(err error) bool {
	return statusIs(err, http.StatusNotFound)
}

// IsBadRequest returns true if the error is a 400, such as an invalid graph name.
func IsBadRequest(err error) bool {
	return statusIs(err, http.StatusBadRequest)
}

// IsRateLimited returns true if the error is a 429 rate limit.
func IsRateLimited(err error) bool {
	return statusIs(err, http.StatusTooManyRequests)
}

// parseAPIError attempts to decode a JSON error body; falls back to raw text.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if err := sonic.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = "unknown"
		apiErr.Message = string(body)
	}

	return apiErr
}
