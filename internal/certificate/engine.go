package certificate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/TaniaGavilanes/software-back/internal/metrics"
)

// Engine 证明文件生成引擎
// 无共享可变状态，可被多个 goroutine 同时调用
type Engine struct {
	registry *Registry
	exec     Executor
	resolver DepartmentResolver
	heads    HeadLookup
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewEngine 创建生成引擎；registry 为 nil 时使用 DefaultRegistry
func NewEngine(registry *Registry, exec Executor, resolver DepartmentResolver, heads HeadLookup, logger *zap.Logger, m *metrics.Metrics) *Engine {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Engine{
		registry: registry,
		exec:     exec,
		resolver: resolver,
		heads:    heads,
		logger:   logger,
		metrics:  m,
	}
}

// Registry 当前使用的证明文件目录
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Generate 生成一种证明文件的数据
//
// 流程：
//  1. 编码未注册 → ErrUnknownCode
//  2. 未指定部门时按教师所属部门推导；无法确定 → NotApplicable（记录日志，不报错）
//  3. 主查询无结果 → NotApplicable，不查询签署人
//  4. 整形后附上部门负责人作为签署人
//
// 部门库查询失败原样向上返回，不做重试。
func (e *Engine) Generate(ctx context.Context, req Request) (Result, error) {
	def, ok := e.registry.Lookup(req.Code)
	if !ok {
		e.metrics.IncrementUnknownCode()
		return NotApplicable(), fmt.Errorf("%w: %s", ErrUnknownCode, req.Code)
	}
	if err := req.Period.Validate(); err != nil {
		return NotApplicable(), err
	}

	if req.DepartmentID == "" {
		dept, err := e.resolver.ResolveDepartment(ctx, req.FacultyID)
		if err != nil {
			return NotApplicable(), fmt.Errorf("查询教师所属部门失败: %w", err)
		}
		if dept == "" {
			e.logger.Warn("无法确定教师所属部门，跳过生成",
				zap.String("faculty_id", req.FacultyID),
				zap.String("code", string(req.Code)),
			)
			e.metrics.IncrementOutcome(string(req.Code), metrics.OutcomeUnresolved)
			return NotApplicable(), nil
		}
		req.DepartmentID = dept
	}

	start := time.Now()
	res, err := e.generate(ctx, def, req)
	outcome := metrics.OutcomeNotApplicable
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
	case res.IsFound():
		outcome = metrics.OutcomeFound
	}
	e.metrics.ObserveGeneration(string(def.Code), outcome, time.Since(start))

	return res, err
}

func (e *Engine) generate(ctx context.Context, def Definition, req Request) (Result, error) {
	var (
		rows []Row
		err  error
	)
	if def.Run != nil {
		rows, err = def.Run(ctx, e.exec, req)
	} else {
		rows, err = e.exec.Execute(ctx, req.DepartmentID, def.Query, def.params(req))
	}
	if err != nil {
		return NotApplicable(), fmt.Errorf("生成 %s 失败: %w", def.Code, err)
	}
	if len(rows) == 0 {
		return NotApplicable(), nil
	}

	if def.Shape != nil {
		if rows, err = def.Shape(rows); err != nil {
			return NotApplicable(), fmt.Errorf("整形 %s 失败: %w", def.Code, err)
		}
		if len(rows) == 0 {
			return NotApplicable(), nil
		}
	}

	signatory, err := e.heads.DepartmentHead(ctx, req.DepartmentID)
	if err != nil {
		return NotApplicable(), fmt.Errorf("查询部门 %s 负责人失败: %w", req.DepartmentID, err)
	}

	e.logger.Debug("证明文件数据已生成",
		zap.String("code", string(def.Code)),
		zap.String("faculty_id", req.FacultyID),
		zap.String("department_id", req.DepartmentID),
		zap.Int("rows", len(rows)),
	)

	return Found(def, rows, signatory), nil
}

// IsUnknownCode 错误是否因编码未注册
func IsUnknownCode(err error) bool {
	return errors.Is(err, ErrUnknownCode)
}
