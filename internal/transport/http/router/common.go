package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-course-market/internal/core/server"
	mdw "go-course-market/internal/transport/http/middleware"
)

// Limits 全局限流 / 并发
type Limits struct {
	RPS         float64
	Burst       int
	Concurrency int64
}

func (l Limits) withDefaults() Limits {
	if l.RPS <= 0 {
		l.RPS = 200
	}
	if l.Burst <= 0 {
		l.Burst = 400
	}
	if l.Concurrency <= 0 {
		l.Concurrency = 300
	}
	return l
}

// baseEngine 两个入口共用的中间件链 + /health + /metrics
func baseEngine(name string, l *zap.Logger, lim Limits) *gin.Engine {
	lim = lim.withDefaults()
	r := server.NewRouter(l)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
		mdw.ConcurrencyLimit(lim.Concurrency, 2*time.Second),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(name),
		mdw.AccessLog(l),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
