package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/TaniaGavilanes/software-back/config"
	"github.com/TaniaGavilanes/software-back/internal/api/handler"
	"github.com/TaniaGavilanes/software-back/internal/api/middleware"
	"github.com/TaniaGavilanes/software-back/pkg/jwt"
)

// maxRequestBody 只读接口不接受请求体
const maxRequestBody = 1 << 10

// Deps 路由依赖
// Blacklist / Limiter 为 nil 时对应功能降级关闭；Gatherer 为 nil 时不暴露 /metrics
type Deps struct {
	JWT       *jwt.Manager
	Blacklist middleware.TokenBlacklist
	Limiter   middleware.RateLimiter
	Gatherer  prometheus.Gatherer
	Logger    *zap.Logger
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxRequestBody))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	rateLimit := middleware.RateLimit(deps.Limiter, cfg.Generation.RateLimit, cfg.Generation.RateWindow)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(deps.JWT, deps.Blacklist))
	{
		// 证明文件类型目录
		v1.GET("/certificates", h.Certificate.ListCertificateTypes)

		// 教师证明文件（本人或管理员）
		faculty := v1.Group("/faculty/:id")
		faculty.Use(middleware.SelfOrAdmin("id"))
		{
			faculty.GET("/certificates", rateLimit, h.Certificate.ListFacultyCertificates)
			faculty.GET("/certificates/export", rateLimit, h.Export.ExportCertificates)
			faculty.GET("/certificates/:code", rateLimit, h.Certificate.GetCertificate)
			faculty.GET("/requirements", h.Certificate.CheckRequirements)
		}
	}

	return r
}
