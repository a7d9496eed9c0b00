package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"go-course-market/internal/core/auth"
	"go-course-market/internal/transport/http/ez"
)

// AuthJWT 校验 access token，写入 claims / userId / role
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			ez.Fail(c, ez.Unauthorized("authentication credentials were not provided"))
			return
		}
		claims, err := j.ValidateAccess(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "token expired"
			}
			ez.Fail(c, ez.Unauthorized(msg))
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			ez.Fail(c, ez.Forbidden("forbidden"))
			return
		}
		c.Set(ez.KeyClaims, claims)
		c.Set(ez.KeyUserID, claims.UID)
		c.Set(ez.KeyRole, claims.Role)
		c.Next()
	}
}
