package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-course-market/internal/core/config"
	"go-course-market/internal/core/mail"
	"go-course-market/internal/service"
	resp "go-course-market/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

type inbox struct {
	mu   sync.Mutex
	msgs []mail.Message
}

func (b *inbox) Send(_ context.Context, m mail.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, m)
	return nil
}

var linkRe = regexp.MustCompile(`https?://\S+`)

// lastLink 取最近一封邮件里的重置链接参数
func (b *inbox) lastLink(t *testing.T) url.Values {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(t, b.msgs)
	raw := linkRe.FindString(b.msgs[len(b.msgs)-1].Text)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query()
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		JWT: config.JWT{Secret: "e2e-secret", Issuer: "e2e", AccessTokenTTLMin: 5, RefreshTokenTTLMin: 60},
		DB: config.DB{
			Driver:   "sqlite",
			DSN:      fmt.Sprintf("file:e2e_%d?mode=memory&cache=shared", time.Now().UnixNano()),
			LogLevel: "silent",
		},
		Reset:  config.Reset{LinkBase: "http://localhost:5173", OTPLength: 7, VerifyToken: true},
		Limits: config.Limits{RPS: 1000, Burst: 1000, Concurrency: 100, ResetPerIPPerMin: 100},
	}
}

func newTestApp(t *testing.T) (*App, *inbox) {
	t.Helper()
	cfg := testConfig(t)
	db, err := OpenDB(cfg, zap.NewNop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, Migrate(db))

	box := &inbox{}
	a, err := New(context.Background(), cfg, zap.NewNop(), db, WithMailer(box))
	require.NoError(t, err)
	return a, box
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) (int, resp.Resp) {
	t.Helper()
	var rd *strings.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = strings.NewReader(string(b))
	} else {
		rd = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var out resp.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func data(t *testing.T, r resp.Resp) map[string]any {
	t.Helper()
	m, ok := r.Data.(map[string]any)
	require.True(t, ok, "data is %T", r.Data)
	return m
}

const api = "/api/v1/user"

func TestAPI_RegisterResetLogin(t *testing.T) {
	a, box := newTestApp(t)
	h := a.APIEngine()

	code, out := call(t, h, http.MethodPost, api+"/register/", "", gin.H{
		"full_name": "Demo User", "email": "user@example.com", "password": "pw1", "password2": "pw1",
	})
	require.Equal(t, http.StatusCreated, code, out.Msg)
	user := data(t, out)
	uid := fmt.Sprint(user["id"])
	assert.Equal(t, "user", user["username"])
	assert.NotContains(t, user, "PasswordHash")
	assert.NotContains(t, user, "otp")

	code, _ = call(t, h, http.MethodPost, api+"/register/", "", gin.H{
		"full_name": "Again", "email": "user@example.com", "password": "x",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	// 40 个字符、80 字节：过了绑定，由 bcrypt 长度校验拦下
	long := strings.Repeat("é", 40)
	code, out = call(t, h, http.MethodPost, api+"/register/", "", gin.H{
		"full_name": "Long", "email": "long@example.com", "password": long,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, resp.CodeBadRequest, out.Code)

	code, out = call(t, h, http.MethodGet, api+"/profile/"+uid+"/", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Demo User", data(t, out)["full_name"])
	assert.Equal(t, "default/default-user.jpg", data(t, out)["image"])

	code, out = call(t, h, http.MethodGet, api+"/password-email-verify/user@example.com/", "", nil)
	require.Equal(t, http.StatusOK, code, out.Msg)
	assert.NotContains(t, data(t, out), "otp")

	link := box.lastLink(t)
	otp := link.Get("otp")
	assert.Regexp(t, `^[0-9]{7}$`, otp)
	assert.Equal(t, uid, link.Get("uidb64"))
	require.NotEmpty(t, link.Get("reset_token"))

	code, _ = call(t, h, http.MethodGet, api+"/password-email-verify/ghost@example.com/", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	wrong := "0000000"
	if otp == wrong {
		wrong = "1111111"
	}
	code, out = call(t, h, http.MethodPost, api+"/password-change/", "", gin.H{
		"otp": wrong, "uidb64": uid, "reset_token": link.Get("reset_token"), "password": "pw2",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, resp.CodeUnauthorized, out.Code)

	code, out = call(t, h, http.MethodPost, api+"/password-change/", "", gin.H{
		"otp": otp, "uidb64": uid, "reset_token": link.Get("reset_token"), "password": long,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, resp.CodeBadRequest, out.Code)

	code, out = call(t, h, http.MethodPost, api+"/password-change/", "", gin.H{
		"otp": otp, "uidb64": uid, "reset_token": link.Get("reset_token"), "password": "pw2",
	})
	require.Equal(t, http.StatusCreated, code, out.Msg)

	// 同一 otp 不能再用
	code, _ = call(t, h, http.MethodPost, api+"/password-change/", "", gin.H{
		"otp": otp, "uidb64": uid, "reset_token": link.Get("reset_token"), "password": "pw3",
	})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, h, http.MethodPost, api+"/token/", "", gin.H{"email": "user@example.com", "password": "pw1"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, out = call(t, h, http.MethodPost, api+"/token/", "", gin.H{"email": "user@example.com", "password": "pw2"})
	require.Equal(t, http.StatusOK, code, out.Msg)
	access := data(t, out)["access"].(string)
	refresh := data(t, out)["refresh"].(string)

	code, out = call(t, h, http.MethodGet, api+"/me/", access, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "user@example.com", data(t, out)["email"])

	code, _ = call(t, h, http.MethodGet, api+"/me/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, out = call(t, h, http.MethodPost, api+"/token/refresh/", "", gin.H{"refresh": refresh})
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, data(t, out)["access"])
}

func TestAPI_ProfileAndVendor(t *testing.T) {
	a, _ := newTestApp(t)
	h := a.APIEngine()

	_, err := a.Registration.Register(context.Background(), service.RegisterInput{
		Email: "vendor@example.com", Password: "pw", FullName: "Val",
	})
	require.NoError(t, err)
	_, out := call(t, h, http.MethodPost, api+"/token/", "", gin.H{"email": "vendor@example.com", "password": "pw"})
	access := data(t, out)["access"].(string)

	code, out := call(t, h, http.MethodPut, api+"/me/profile/", access, gin.H{"country": "Chile", "about": "hola"})
	require.Equal(t, http.StatusOK, code, out.Msg)
	assert.Equal(t, "Chile", data(t, out)["country"])

	code, out = call(t, h, http.MethodPost, api+"/vendor/", access, gin.H{"name": "Val's Courses"})
	require.Equal(t, http.StatusCreated, code, out.Msg)
	assert.Equal(t, "vals-courses", data(t, out)["slug"])
	assert.Equal(t, false, data(t, out)["active"])

	code, _ = call(t, h, http.MethodPost, api+"/vendor/", access, gin.H{"name": "Second"})
	assert.Equal(t, http.StatusBadRequest, code)

	// 未配置对象存储
	req := httptest.NewRequest(http.MethodPost, api+"/me/avatar/", strings.NewReader(""))
	req.Header.Set("Authorization", "Bearer "+access)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminAPI(t *testing.T) {
	a, _ := newTestApp(t)
	apiH := a.APIEngine()
	adminH := a.AdminEngine()
	ctx := context.Background()

	_, err := a.Registration.RegisterAdmin(ctx, service.RegisterInput{Email: "root@example.com", Password: "pw", FullName: "Root"})
	require.NoError(t, err)
	u, err := a.Registration.Register(ctx, service.RegisterInput{Email: "joe@example.com", Password: "pw", FullName: "Joe"})
	require.NoError(t, err)

	_, out := call(t, apiH, http.MethodPost, api+"/token/", "", gin.H{"email": "root@example.com", "password": "pw"})
	adminTok := data(t, out)["access"].(string)
	_, out = call(t, apiH, http.MethodPost, api+"/token/", "", gin.H{"email": "joe@example.com", "password": "pw"})
	userTok := data(t, out)["access"].(string)

	code, _ := call(t, adminH, http.MethodGet, "/admin/v1/users", userTok, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, out = call(t, adminH, http.MethodGet, "/admin/v1/users?q=joe", adminTok, nil)
	require.Equal(t, http.StatusOK, code, out.Msg)
	assert.EqualValues(t, 1, data(t, out)["total"])

	from := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	to := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	code, out = call(t, adminH, http.MethodGet, "/admin/v1/profiles?from="+from+"&to="+to, adminTok, nil)
	require.Equal(t, http.StatusOK, code, out.Msg)
	assert.EqualValues(t, 2, data(t, out)["total"])

	code, _ = call(t, adminH, http.MethodGet, "/admin/v1/profiles?from=yesterday", adminTok, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, out = call(t, adminH, http.MethodPost, fmt.Sprintf("/admin/v1/users/%d/ban", u.ID), adminTok, nil)
	require.Equal(t, http.StatusOK, code, out.Msg)

	code, _ = call(t, apiH, http.MethodPost, api+"/token/", "", gin.H{"email": "joe@example.com", "password": "pw"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, adminH, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
}
