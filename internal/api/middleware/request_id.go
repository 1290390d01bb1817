package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// 客户端传入的 Request-ID 超长时丢弃重新生成
const requestIDMaxLen = 64

// RequestID 请求 ID 中间件
// 透传客户端的 X-Request-ID，缺失或非法时生成新的 UUID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" || len(requestID) > requestIDMaxLen {
			requestID = uuid.NewString()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}
