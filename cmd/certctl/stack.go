package main

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/TaniaGavilanes/software-back/internal/repository"
	"github.com/TaniaGavilanes/software-back/internal/service"
	"github.com/TaniaGavilanes/software-back/pkg/database"
)

// stack 命令行使用的数据访问与业务依赖，不启用指标
type stack struct {
	db      *gorm.DB
	deptDBs map[string]*gorm.DB
	svc     *service.Service
}

func (c *cli) openStack() (*stack, error) {
	db, err := database.NewDB(&c.cfg.Database, c.cfg.Log.Level, c.logger)
	if err != nil {
		return nil, err
	}

	deptDBs, err := database.NewDepartmentDBs(c.cfg.Departments, c.cfg.Log.Level, c.logger)
	if err != nil {
		database.CloseAll(map[string]*gorm.DB{"core": db})
		return nil, err
	}

	repo := repository.NewRepository(db)
	exec := repository.NewDepartmentExecutor(deptDBs, c.logger, nil)
	c.logger.Debug("命令行依赖初始化完成", zap.Int("departments", len(deptDBs)))

	return &stack{
		db:      db,
		deptDBs: deptDBs,
		svc:     service.NewService(c.cfg, repo, exec, c.logger, nil),
	}, nil
}

func (s *stack) Close() {
	database.CloseAll(s.deptDBs)
	database.CloseAll(map[string]*gorm.DB{"core": s.db})
}
