package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// RequestIDKey is the gin context key for the request ID.
	RequestIDKey = "request_id"

	// RequestIDHeader is the HTTP header used to propagate the request ID.
	RequestIDHeader = "X-Request-ID"
)

// RequestID assigns every request a UUID. A client-supplied X-Request-ID is
// adopted when it is itself a well-formed UUID, so the CLI can correlate its
// own logs; anything else is replaced and logged as client_request_id.
func RequestID(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetHeader(RequestIDHeader)

		id := uuid.NewString()
		if parsed, err := uuid.Parse(clientID); err == nil {
			id = parsed.String()
		} else if clientID != "" {
			log.WithFields(logrus.Fields{
				"request_id":        id,
				"client_request_id": clientID,
			}).Debug("client request ID replaced")
			c.Set("client_request_id", clientID)
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
