package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/TaniaGavilanes/software-back/pkg/response"
)

// MustGetFacultyID 从路由参数提取教师编号。
// 本人校验由 SelfOrAdmin 中间件完成，这里只保证非空；
// 调用方应在 ok=false 时直接 return。
func MustGetFacultyID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "教师编号不能为空")
		return "", false
	}
	return id, true
}
