package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header names shared across the service. Upstream gateways authenticate
// the caller and forward identity in headers; this service trusts them.
const (
	HeaderRequestID = "X-Request-ID"
	HeaderUserID    = "X-User-ID"
)

type contextKey string

// RequestIDKey is the context key under which the request ID travels.
const RequestIDKey contextKey = "request_id"

// UserIDContextKey is the gin context key for the authenticated caller.
const UserIDContextKey = "user_id"

// RequestID assigns a request ID to every request, honouring one supplied
// by the caller, and echoes it back in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(string(RequestIDKey), requestID)
		c.Writer.Header().Set(HeaderRequestID, requestID)

		ctx := context.WithValue(c.Request.Context(), RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// Identity pulls the caller's user ID from the gateway header into the
// gin context. Routes that need an identity check it themselves; public
// routes ignore it.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader(HeaderUserID); userID != "" {
			c.Set(UserIDContextKey, userID)
		}
		c.Next()
	}
}

// GetUserID returns the caller's user ID, or "" when the request carried
// no identity.
func GetUserID(c *gin.Context) string {
	if v, ok := c.Get(UserIDContextKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetRequestID returns the request ID assigned by RequestID middleware.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(RequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
