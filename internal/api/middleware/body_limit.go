package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LJxknzk/QRA/pkg/response"
)

// BodyLimit 请求体大小限制中间件
// 超限时由后续读取触发 http.MaxBytesReader 错误
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
