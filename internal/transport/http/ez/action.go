package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-course-market/internal/domain"
	resp "go-course-market/internal/transport/http/response"
)

// 上下文键，由 AuthJWT 写入
const (
	KeyUserID = "userId"
	KeyRole   = "role"
	KeyClaims = "claims"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindURI   Binder = "uri"   // 从路径参数绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.FormFile 取
)

// 统一错误对象（配合 resp.Error(int, msg)）
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Conflict(msg string) error     { return &AErr{Code: resp.CodeConflict, Msg: msg} }
func TooMany(msg string) error      { return &AErr{Code: resp.CodeTooManyRequests, Msg: msg} }
func Unavailable(msg string) error  { return &AErr{Code: resp.CodeUnavailable, Msg: msg} }
func Timeout(msg string) error      { return &AErr{Code: resp.CodeTimeout, Msg: msg} }
func TooLarge(msg string) error     { return &AErr{Code: resp.CodeTooLarge, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// FromError 把业务错误映射为 AErr；未识别的错误一律 500 且不外泄细节
func FromError(err error) *AErr {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae
	}
	// MaxBodyBytes 超限，绑定或读 multipart 时冒出来
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return &AErr{Code: resp.CodeTooLarge, Msg: "request body too large", Err: err}
	}
	code := resp.CodeServerError
	switch {
	// 先判 validation：重复注册同时包了 ErrConstraint，按 400 返回
	case errors.Is(err, domain.ErrValidation):
		code = resp.CodeBadRequest
	case errors.Is(err, domain.ErrNotFound):
		code = resp.CodeNotFound
	case errors.Is(err, domain.ErrAuth):
		code = resp.CodeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		code = resp.CodeForbidden
	case errors.Is(err, domain.ErrConstraint):
		code = resp.CodeConflict
	case errors.Is(err, domain.ErrUnavailable):
		code = resp.CodeUnavailable
	default:
		return &AErr{Code: code, Msg: "internal error", Err: err}
	}
	return &AErr{Code: code, Msg: err.Error(), Err: err}
}

// Fail 写失败响应，错误挂到 c.Errors 供访问日志输出
func Fail(c *gin.Context, err error) {
	ae := FromError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(resp.HTTPStatus(ae.Code), resp.Error(ae.Code, ae.Error()))
}

func UserID(c *gin.Context) uint {
	v, _ := c.Get(KeyUserID)
	id, _ := v.(uint)
	return id
}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string            // "GET" | "POST" | "PUT" | "DELETE"
	Path    string            // 例："/token/"、"/users/:id/ban"
	Binder  Binder            // 绑定方式
	Auth    bool              // 是否要求登录（检查 userId）
	Roles   []string          // 限定角色（可选）
	Status  int               // 成功时的 HTTP 状态，默认 200
	Use     []gin.HandlerFunc // 路由级中间件，如单独限流
	Handler func(c *gin.Context, in *I) (O, error)
}

// 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Auth {
			if UserID(c) == 0 {
				Fail(c, Unauthorized("authentication credentials were not provided"))
				return
			}
			if len(a.Roles) > 0 {
				role := c.GetString(KeyRole)
				ok := false
				for _, r := range a.Roles {
					if role == r {
						ok = true
						break
					}
				}
				if !ok {
					Fail(c, Forbidden("forbidden"))
					return
				}
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindURI:
			bindErr = c.ShouldBindUri(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			var tooBig *http.MaxBytesError
			if errors.As(bindErr, &tooBig) {
				Fail(c, bindErr)
				return
			}
			Fail(c, BadRequest(bindErr.Error()))
			return
		}

		// 3) 执行 + 统一错误映射
		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, err)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, resp.OK(out))
	}

	handlers := append(append([]gin.HandlerFunc{}, a.Use...), h)
	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, handlers...)
	case http.MethodPut:
		e.g.PUT(a.Path, handlers...)
	case http.MethodPatch:
		e.g.PATCH(a.Path, handlers...)
	case http.MethodDelete:
		e.g.DELETE(a.Path, handlers...)
	default: // 默认 POST
		e.g.POST(a.Path, handlers...)
	}
}
