package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-course-market/internal/transport/http/ez"
)

// MaxBodyBytes 超限的读取返回 *http.MaxBytesError，由 ez 映射为 413。
// 路由级可再套一层更小的限制（如头像上传）。
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			ez.Fail(c, &http.MaxBytesError{Limit: n})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
