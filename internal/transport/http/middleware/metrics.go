package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// server 标签区分 api / admin 两个入口
var (
	httpReqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "course_market",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		},
		[]string{"server", "route", "method", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "course_market",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"server", "route", "method"},
	)
	httpInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "course_market",
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served.",
		}, []string{"server"},
	)
)

func init() { prometheus.MustRegister(httpReqTotal, httpLatency, httpInFlight) }

// Metrics 未命中路由的请求统一记为 unmatched，避免 path 标签基数失控
func Metrics(server string) gin.HandlerFunc {
	inflight := httpInFlight.WithLabelValues(server)
	return func(c *gin.Context) {
		start := time.Now()
		inflight.Inc()
		defer inflight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		httpReqTotal.WithLabelValues(server, route, method, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(server, route, method).Observe(time.Since(start).Seconds())
	}
}
