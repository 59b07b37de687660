package middleware

import (
	"context"

	"github.com/campusconnect-nz/campus-api/internal/constant"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const CorrelationIDHeader = "X-Correlation-ID"

func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader(CorrelationIDHeader)
		if cid == "" {
			cid = uuid.New().String()
		}
		ctx := context.WithValue(c.Request.Context(), constant.CorrelationIDKey, cid)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(CorrelationIDHeader, cid)
		c.Next()
	}
}

// CorrelationID returns the id stored by CorrelationIDMiddleware, or "".
func CorrelationID(ctx context.Context) string {
	cid, _ := ctx.Value(constant.CorrelationIDKey).(string)
	return cid
}
