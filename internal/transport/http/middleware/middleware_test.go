package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"go-course-market/internal/core/auth"
	"go-course-market/internal/transport/http/ez"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthJWT(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("k"), Issuer: "test", TTL: time.Minute, RefreshTTL: time.Hour}
	r := gin.New()
	r.GET("/me", AuthJWT(j, ""), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": ez.UserID(c), "role": c.GetString(ez.KeyRole)})
	})
	r.GET("/admin", AuthJWT(j, "admin"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	pair, err := j.IssuePair(auth.Subject{UserID: 9, Role: "user"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Refresh)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code, "refresh token is not an access token")

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Access)
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":9,"role":"user"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Access)
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimitPerIP(0.0001, 2), func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = ip + ":1234"
		return serve(r, req).Code
	}
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2"), "buckets are per ip")
}

func TestRequestIDAndAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.New(core)))
	r.GET("/q", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/q?otp=1234567&page=2", nil)
	req.Header.Set(KeyRequestID, "rid-1")
	w := serve(r, req)
	assert.Equal(t, "rid-1", w.Header().Get(KeyRequestID))

	entries := logs.FilterMessage("HTTP").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "rid-1", fields["rid"])
	q := fields["query"].(map[string][]string)
	assert.Equal(t, []string{"****"}, q["otp"])
	assert.Equal(t, []string{"2"}, q["page"])
}

func TestRequestID_RejectsBadHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/q", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/q", nil)
	req.Header.Set(KeyRequestID, "has space")
	rid := serve(r, req).Header().Get(KeyRequestID)
	assert.NotEqual(t, "has space", rid)
	assert.Len(t, rid, 36)
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.POST("/b", MaxBodyBytes(8), func(c *gin.Context) {
		var in map[string]any
		if err := c.ShouldBindJSON(&in); err != nil {
			ez.Fail(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/b", strings.NewReader(`{"a":"0123456789"}`))
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(r, req).Code)

	// 未声明长度时在读取阶段截断
	req = httptest.NewRequest(http.MethodPost, "/b", strings.NewReader(`{"a":"0123456789"}`))
	req.ContentLength = -1
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/b", strings.NewReader(`{}`))
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestConcurrencyLimit(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	r := gin.New()
	r.GET("/slow", ConcurrencyLimit(1, 20*time.Millisecond), func(c *gin.Context) {
		close(entered)
		<-release
		c.Status(http.StatusOK)
	})

	done := make(chan int)
	go func() { done <- serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil)).Code }()
	<-entered

	assert.Equal(t, http.StatusServiceUnavailable, serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil)).Code)
	close(release)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.GET("/t", Timeout(10*time.Millisecond), func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	assert.Equal(t, http.StatusGatewayTimeout, serve(r, httptest.NewRequest(http.MethodGet, "/t", nil)).Code)
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	r := gin.New()
	r.Use(Metrics("test"))
	r.GET("/known/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, httptest.NewRequest(http.MethodGet, "/known/1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(httpReqTotal.WithLabelValues("test", "/known/:id", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(httpReqTotal.WithLabelValues("test", "unmatched", "GET", "404")))
}
