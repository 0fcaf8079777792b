package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/persistorai/visitgraph/internal/httputil"
	"github.com/persistorai/visitgraph/internal/metrics"
)

// respondError counts the rejection and writes the standard error body.
func respondError(c *gin.Context, code int, errCode, message string) {
	metrics.ErrorsTotal.WithLabelValues(errCode).Inc()
	httputil.RespondError(c, code, errCode, message)
}
