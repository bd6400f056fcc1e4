package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// HeaderUserID is set by the gateway after it authenticated the caller.
	HeaderUserID = "X-User-ID"

	contextUserID = "user_id"
)

// RequireUser rejects requests without a valid user id header
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(strings.TrimSpace(c.GetHeader(HeaderUserID)))
		if err != nil || userID == uuid.Nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Set(contextUserID, userID)
		c.Next()
	}
}

func userIDFrom(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(contextUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// pathID parses a uuid path parameter; malformed ids are reported as not found.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// RequestLogger logs every request once it completed
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
		}
		if userID := userIDFrom(c); userID != uuid.Nil {
			fields = append(fields, zap.String("user_id", userID.String()))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Error(c.Errors.Last().Err))
		}

		if c.Writer.Status() >= 500 {
			logger.Error("request failed", fields...)
			return
		}
		logger.Debug("request completed", fields...)
	}
}
