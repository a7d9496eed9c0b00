package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"go-course-market/internal/transport/http/ez"
)

// ConcurrencyLimit 限制同时在处理的请求数（保护 DB 下游）。
// 排队超过 wait 直接 503，不占满整个请求超时。
func ConcurrencyLimit(max int64, wait time.Duration) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if wait > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, wait)
			defer cancel()
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			ez.Fail(c, ez.Unavailable("server busy"))
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
