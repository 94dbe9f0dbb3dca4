package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TaniaGavilanes/software-back/pkg/jwt"
	"github.com/TaniaGavilanes/software-back/pkg/response"
)

// TokenBlacklist Token 黑名单查询（Redis 实现见 pkg/redis）
type TokenBlacklist interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token
// blacklist 为 nil 或查询出错时降级放行
func JWTAuth(jwtMgr *jwt.Manager, blacklist TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		if blacklist != nil {
			revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				response.Unauthorized(c, 10002, "Token 已注销")
				c.Abort()
				return
			}
		}

		// 将用户信息注入上下文
		c.Set("user_id", claims.UserID)
		c.Set("faculty_id", claims.FacultyID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// SelfOrAdmin 教师只能访问本人数据，管理员不受限
// param 为路由中教师编号的参数名
func SelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}
		if role == jwt.RoleAdmin {
			c.Next()
			return
		}

		facultyID := c.GetString("faculty_id")
		if facultyID == "" || facultyID != c.Param(param) {
			response.Forbidden(c, 10003, "只能查询本人的证明文件")
			c.Abort()
			return
		}

		c.Next()
	}
}

// [自证通过] internal/api/middleware/auth.go
