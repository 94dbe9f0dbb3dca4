package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/TaniaGavilanes/software-back/config"
	"github.com/TaniaGavilanes/software-back/internal/api/handler"
	"github.com/TaniaGavilanes/software-back/internal/api/router"
	"github.com/TaniaGavilanes/software-back/internal/certificate"
	"github.com/TaniaGavilanes/software-back/internal/metrics"
	"github.com/TaniaGavilanes/software-back/internal/repository"
	"github.com/TaniaGavilanes/software-back/internal/service"
	"github.com/TaniaGavilanes/software-back/pkg/database"
	"github.com/TaniaGavilanes/software-back/pkg/jwt"
	applogger "github.com/TaniaGavilanes/software-back/pkg/logger"
	"github.com/TaniaGavilanes/software-back/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("CERT_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接主库（教师、部门、活动目录）
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行主库迁移；部门库由各部门维护，迁移走 certctl migrate --departments
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, database.MigrationsCore, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 3.2 连接部门库，构建路由表
	deptDBs, err := database.NewDepartmentDBs(cfg.Departments, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("部门库连接失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	deps := router.Deps{Logger: logger}
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单与限流将不可用", zap.Error(err))
	} else {
		deps.Blacklist = rdb
		deps.Limiter = rdb
	}

	// 5. 初始化 JWT 管理器与指标
	jwtMgr := jwt.NewManager(&cfg.Auth)
	deps.JWT = jwtMgr
	m := metrics.New(prometheus.DefaultRegisterer)
	deps.Gatherer = prometheus.DefaultGatherer

	// 6. 依赖注入: Repository / Executor → Service → Handler
	repo := repository.NewRepository(db)
	exec := repository.NewDepartmentExecutor(deptDBs, logger, m)
	logger.Info("部门库路由表已加载",
		zap.Strings("departments", exec.Departments()),
		zap.Int("certificate_types", certificate.DefaultRegistry().Len()),
	)
	if depts, err := repo.Department.ListAll(context.Background()); err != nil {
		logger.Warn("读取部门列表失败", zap.Error(err))
	} else {
		ids := make([]string, 0, len(depts))
		for _, d := range depts {
			ids = append(ids, d.ClaveDepartamento)
		}
		// 这些部门的教师生成证明文件时会返回部门库未注册错误
		if missing := exec.Unrouted(ids); len(missing) > 0 {
			logger.Warn("部分部门未配置部门库", zap.Strings("departments", missing))
		}
	}
	svc := service.NewService(cfg, repo, exec, logger, m)
	h := handler.NewHandler(svc)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, deps)

	// 8. 启动 HTTP 服务器（优雅关闭）
	// 编排可能跨多个部门库，写超时需覆盖 generation.timeout
	writeTimeout := 15 * time.Second
	if cfg.Generation.Timeout+5*time.Second > writeTimeout {
		writeTimeout = cfg.Generation.Timeout + 5*time.Second
	}
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	sqlDB.Close()
	database.CloseAll(deptDBs)

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
