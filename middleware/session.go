package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const SessionHeader = "X-Session-ID"

// SessionMiddleware keeps the client's session id, or assigns a new one, and
// echoes it back in the response header.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if _, err := uuid.Parse(sessionID); err != nil {
			sessionID = uuid.NewString()
		}

		c.Set("sessionId", sessionID)
		c.Writer.Header().Set(SessionHeader, sessionID)

		c.Next()
	}
}
