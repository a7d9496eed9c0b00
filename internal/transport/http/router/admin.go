package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-course-market/internal/core/auth"
	"go-course-market/internal/domain"
	mdw "go-course-market/internal/transport/http/middleware"
)

const AdminPrefix = "/admin/v1"

func NewAdminEngine(l *zap.Logger, jwter *auth.JWTer, lim Limits, reg *Registry) *gin.Engine {
	r := baseEngine("admin", l, lim)

	// 管理端 v1（统一要求 admin 角色）
	admin := r.Group(AdminPrefix)
	admin.Use(mdw.AuthJWT(jwter, domain.RoleAdmin))

	reg.MountAdmin(admin)
	return r
}
