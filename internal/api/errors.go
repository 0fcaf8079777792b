package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/visitgraph/internal/httputil"
	"github.com/persistorai/visitgraph/internal/metrics"
	"github.com/persistorai/visitgraph/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeInvalidName    = "invalid_graph_name"
	ErrCodeMalformedGraph = "malformed_graph"
	ErrCodeCorruptGraph   = "corrupt_graph"
	ErrCodeNotFound       = "not_found"
	ErrCodeInternalError  = "internal_error"
	ErrCodeRateLimited    = "rate_limited"
	ErrCodeTooLarge       = "payload_too_large"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondGraphError maps a service error to its HTTP response. Unexpected
// errors are logged under op and reported as 500.
func respondGraphError(c *gin.Context, log *logrus.Logger, op string, err error) {
	switch {
	case errors.Is(err, models.ErrGraphNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "graph not found")
	case errors.Is(err, models.ErrInvalidGraphName):
		respondError(c, http.StatusBadRequest, ErrCodeInvalidName, err.Error())
	case errors.Is(err, models.ErrCorruptGraph):
		log.WithError(err).WithField("graph", c.Param("name")).Error(op)
		respondError(c, http.StatusInternalServerError, ErrCodeCorruptGraph, "stored graph could not be decoded")
	case errors.Is(err, models.ErrMalformedGraph):
		respondError(c, http.StatusBadRequest, ErrCodeMalformedGraph, err.Error())
	default:
		log.WithError(err).WithField("graph", c.Param("name")).Error(op)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
