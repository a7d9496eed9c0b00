package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-course-market/internal/core/auth"
	"go-course-market/internal/domain"
	"go-course-market/internal/service"
	httpez "go-course-market/internal/transport/http/ez"
)

// AccountHandler 登录 / 刷新 / 注册 / 当前用户
type AccountHandler struct {
	reg      *service.Registration
	accounts *service.Accounts
}

func NewAccountHandler(reg *service.Registration, accounts *service.Accounts) *AccountHandler {
	return &AccountHandler{reg: reg, accounts: accounts}
}

func (h *AccountHandler) Priority() int { return 10 }

type tokenIn struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshIn struct {
	Refresh string `json:"refresh" binding:"required"`
}

type registerIn struct {
	FullName  string `json:"full_name" binding:"required,max=100"`
	Email     string `json:"email"     binding:"required,email"`
	Username  string `json:"username"  binding:"omitempty,max=100"`
	Phone     string `json:"phone"     binding:"omitempty,max=15"`
	Password  string `json:"password"  binding:"required,max=72"`
	Password2 string `json:"password2"`
}

func (h *AccountHandler) MountAPI(pub, authed *gin.RouterGroup) {
	ezPub := httpez.New(pub)

	httpez.RegisterAction(ezPub, httpez.Action[tokenIn, auth.TokenPair]{
		Method: http.MethodPost,
		Path:   "/token/",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *tokenIn) (auth.TokenPair, error) {
			return h.accounts.Login(c.Request.Context(), in.Email, in.Password)
		},
	})

	httpez.RegisterAction(ezPub, httpez.Action[refreshIn, auth.TokenPair]{
		Method: http.MethodPost,
		Path:   "/token/refresh/",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *refreshIn) (auth.TokenPair, error) {
			return h.accounts.Refresh(c.Request.Context(), in.Refresh)
		},
	})

	httpez.RegisterAction(ezPub, httpez.Action[registerIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/register/",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *registerIn) (*domain.User, error) {
			return h.reg.Register(c.Request.Context(), service.RegisterInput{
				Email:     in.Email,
				Username:  in.Username,
				Password:  in.Password,
				Password2: in.Password2,
				FullName:  in.FullName,
				Phone:     in.Phone,
			})
		},
	})

	// 需要登录
	httpez.RegisterAction(httpez.New(authed), httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me/",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.accounts.Me(c.Request.Context(), httpez.UserID(c))
		},
	})
}
