package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-course-market/internal/core/auth"
	mdw "go-course-market/internal/transport/http/middleware"
)

const APIPrefix = "/api/v1/user"

func NewAPIEngine(l *zap.Logger, jwter *auth.JWTer, lim Limits, reg *Registry) *gin.Engine {
	r := baseEngine("api", l, lim)

	// 前缀
	pub := r.Group(APIPrefix)

	// 鉴权分组（/me 等必须挂这里，才能拿到 userId）
	authed := r.Group(APIPrefix)
	authed.Use(mdw.AuthJWT(jwter, ""))

	reg.MountAPI(pub, authed)
	return r
}
