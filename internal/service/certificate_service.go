package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TaniaGavilanes/software-back/config"
	"github.com/TaniaGavilanes/software-back/internal/certificate"
	"github.com/TaniaGavilanes/software-back/internal/dto"
	"github.com/TaniaGavilanes/software-back/internal/metrics"
	"github.com/TaniaGavilanes/software-back/internal/repository"
)

// ── 证明文件模块业务错误 ──

var (
	ErrCertificateNotFound  = errors.New("证明文件类型不存在")
	ErrDepartmentUnresolved = errors.New("无法确定教师所属部门")
	ErrInvalidYear          = errors.New("无效的年份")
	ErrInvalidTerm          = errors.New("无效的学期")
)

// CertificateService 证明文件业务接口
type CertificateService interface {
	// Generate 生成单个证明文件；不适用时返回 NotApplicable 结果而非错误
	Generate(ctx context.Context, facultyID string, code certificate.Code, req *dto.GenerateCertificateRequest) (certificate.Result, error)
	// Orchestrate 按活动-证明文件目录生成教师当年全部适用的证明文件
	Orchestrate(ctx context.Context, facultyID string) (*dto.OrchestrationResponse, error)
	// CheckRequirements 人事类初始要求校验
	CheckRequirements(ctx context.Context, facultyID string, req *dto.RequirementsRequest) (*dto.RequirementsResponse, error)
	// Catalog 已注册的证明文件类型
	Catalog() []dto.CertificateTypeResponse
}

type certificateService struct {
	repo    *repository.Repository
	exec    certificate.Executor
	engine  *certificate.Engine
	cfg     config.GenerationConfig
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewCertificateService 创建 CertificateService 实例
// 部门推导与负责人查询走主库 Repository，佐证数据走部门库执行器
func NewCertificateService(
	cfg *config.GenerationConfig,
	repo *repository.Repository,
	exec certificate.Executor,
	logger *zap.Logger,
	m *metrics.Metrics,
) CertificateService {
	return &certificateService{
		repo:    repo,
		exec:    exec,
		engine:  certificate.NewEngine(nil, exec, repo.Faculty, repo.Department, logger, m),
		cfg:     *cfg,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// ────────────────────── Generate ──────────────────────

func (s *certificateService) Generate(ctx context.Context, facultyID string, code certificate.Code, req *dto.GenerateCertificateRequest) (certificate.Result, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	year := req.Year
	if year == 0 {
		year = s.now().Year()
	}

	res, err := s.engine.Generate(ctx, certificate.Request{
		Code:         code,
		FacultyID:    facultyID,
		Period:       certificate.Period{Year: year, Term: certificate.Term(req.Term)},
		DepartmentID: req.DepartmentID,
	})
	switch {
	case err == nil:
		return res, nil
	case certificate.IsUnknownCode(err):
		return certificate.NotApplicable(), ErrCertificateNotFound
	case errors.Is(err, certificate.ErrInvalidYear):
		return certificate.NotApplicable(), ErrInvalidYear
	case errors.Is(err, certificate.ErrInvalidTerm):
		return certificate.NotApplicable(), ErrInvalidTerm
	default:
		s.logger.Error("生成证明文件失败",
			zap.String("faculty_id", facultyID),
			zap.String("code", string(code)),
			zap.Error(err),
		)
		return certificate.NotApplicable(), err
	}
}

// ═══════════════════════════════════════════════════════════
// Orchestrate — 教师当年全部适用的证明文件
// ═══════════════════════════════════════════════════════════
//
// 流程：
//  1. 读取全部活动及各活动关联的证明文件（编码 + 可选部门）
//  2. 证明文件未指定部门时使用教师所属部门（每次编排最多查询一次，不跨调用缓存）
//  3. 以 (教师, 当前年份, 部门) 并发派发，并发上限为 generation.max_concurrency
//  4. 跳过未注册编码与不适用结果，按目录顺序返回命中的结果
//
// 设计说明：
//   - 任一部门库查询失败即中止本次编排，丢弃已完成的部分结果并返回错误
//   - 截止时间到达时，仅因超时失败的派发被丢弃，已完成的结果照常返回

type dispatch struct {
	code       certificate.Code
	department string // 为空表示按教师所属部门
}

func (s *certificateService) Orchestrate(ctx context.Context, facultyID string) (*dto.OrchestrationResponse, error) {
	start := time.Now()
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	year := s.now().Year()

	dispatches, err := s.listDispatches(ctx)
	if err != nil {
		s.logger.Error("读取活动-证明文件目录失败", zap.Error(err))
		return nil, err
	}

	// 所属部门懒加载：只有存在未指定部门的证明文件时才查询
	var (
		affiliationOnce sync.Once
		affiliation     string
		affiliationErr  error
	)
	resolveAffiliation := func(ctx context.Context) (string, error) {
		affiliationOnce.Do(func() {
			affiliation, affiliationErr = s.repo.Faculty.ResolveDepartment(ctx, facultyID)
			if affiliationErr == nil && affiliation == "" {
				s.logger.Warn("无法确定教师所属部门，跳过未指定部门的证明文件",
					zap.String("faculty_id", facultyID),
				)
			}
		})
		return affiliation, affiliationErr
	}

	slots := make([]certificate.Result, len(dispatches))
	var dropped atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.MaxConcurrency > 0 {
		g.SetLimit(s.cfg.MaxConcurrency)
	}
	for i, d := range dispatches {
		if _, ok := s.engine.Registry().Lookup(d.code); !ok {
			s.logger.Debug("证明文件类型未注册，跳过", zap.String("code", string(d.code)))
			s.metrics.IncrementUnknownCode()
			continue
		}

		g.Go(func() error {
			dept := d.department
			if dept == "" {
				resolved, err := resolveAffiliation(gctx)
				if err != nil {
					if deadlinePassed(ctx, err) {
						dropped.Add(1)
						return nil
					}
					return fmt.Errorf("查询教师所属部门失败: %w", err)
				}
				if resolved == "" {
					s.metrics.IncrementOutcome(string(d.code), metrics.OutcomeUnresolved)
					return nil
				}
				dept = resolved
			}

			res, err := s.engine.Generate(gctx, certificate.Request{
				Code:         d.code,
				FacultyID:    facultyID,
				Period:       certificate.Period{Year: year},
				DepartmentID: dept,
			})
			if err != nil {
				if deadlinePassed(ctx, err) {
					dropped.Add(1)
					return nil
				}
				return err
			}
			slots[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("编排证明文件失败，丢弃部分结果",
			zap.String("faculty_id", facultyID),
			zap.Error(err),
		)
		return nil, err
	}

	results := make([]certificate.Result, 0, len(slots))
	for _, r := range slots {
		if r.IsFound() {
			results = append(results, r)
		}
	}

	if n := dropped.Load(); n > 0 {
		s.logger.Warn("编排超出截止时间，返回已完成的结果",
			zap.String("faculty_id", facultyID),
			zap.Int64("dropped", n),
		)
	}
	s.metrics.ObserveOrchestration(len(results), time.Since(start))
	s.logger.Info("证明文件编排完成",
		zap.String("faculty_id", facultyID),
		zap.Int("year", year),
		zap.Int("dispatched", len(dispatches)),
		zap.Int("found", len(results)),
	)

	return &dto.OrchestrationResponse{
		FacultyID:    facultyID,
		Year:         year,
		Certificates: results,
	}, nil
}

func (s *certificateService) listDispatches(ctx context.Context) ([]dispatch, error) {
	activities, err := s.repo.Activity.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var out []dispatch
	for _, a := range activities {
		docs, err := s.repo.Activity.ListDocuments(ctx, a.ClaveActividad)
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			var dept string
			if d.ClaveDepartamento != nil {
				dept = *d.ClaveDepartamento
			}
			out = append(out, dispatch{code: certificate.Code(d.ClaveDocumento), department: dept})
		}
	}
	return out, nil
}

// deadlinePassed 调用方截止时间已到且错误由超时引起
func deadlinePassed(ctx context.Context, err error) bool {
	return errors.Is(ctx.Err(), context.DeadlineExceeded) &&
		(errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled))
}

// ────────────────────── CheckRequirements ──────────────────────

func (s *certificateService) CheckRequirements(ctx context.Context, facultyID string, req *dto.RequirementsRequest) (*dto.RequirementsResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	year := req.Year
	if year == 0 {
		year = s.now().Year()
	}
	if err := (certificate.Period{Year: year}).Validate(); err != nil {
		return nil, ErrInvalidYear
	}

	dept, err := s.repo.Faculty.ResolveDepartment(ctx, facultyID)
	if err != nil {
		s.logger.Error("查询教师所属部门失败", zap.Error(err))
		return nil, err
	}
	if dept == "" {
		return nil, ErrDepartmentUnresolved
	}

	checks, err := certificate.CheckInitialRequirements(ctx, s.exec, dept, facultyID, year)
	if err != nil {
		s.logger.Error("校验初始要求失败",
			zap.String("faculty_id", facultyID),
			zap.String("department_id", dept),
			zap.Error(err),
		)
		return nil, err
	}

	eligible := true
	for _, c := range checks {
		eligible = eligible && c.Passed
	}

	return &dto.RequirementsResponse{
		FacultyID:    facultyID,
		DepartmentID: dept,
		Year:         year,
		Eligible:     eligible,
		Checks:       checks,
	}, nil
}

// ────────────────────── Catalog ──────────────────────

func (s *certificateService) Catalog() []dto.CertificateTypeResponse {
	defs := s.engine.Registry().Definitions()
	out := make([]dto.CertificateTypeResponse, 0, len(defs))
	for _, d := range defs {
		out = append(out, dto.CertificateTypeResponse{
			Code:        string(d.Code),
			Title:       d.Title,
			EvidenceKey: d.EvidenceKey,
			Scope:       string(d.Scope),
		})
	}
	return out
}

func (s *certificateService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, s.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// [自证通过] internal/service/certificate_service.go
