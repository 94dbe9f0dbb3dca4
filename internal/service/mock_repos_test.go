package service

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/TaniaGavilanes/software-back/config"
	"github.com/TaniaGavilanes/software-back/internal/certificate"
	"github.com/TaniaGavilanes/software-back/internal/model"
	"github.com/TaniaGavilanes/software-back/internal/repository"
)

// ── Mock FacultyRepository ──

type mockFacultyRepo struct {
	departments map[string]string
	err         error
	resolves    atomic.Int32
}

func newMockFacultyRepo() *mockFacultyRepo {
	return &mockFacultyRepo{departments: make(map[string]string)}
}

func (m *mockFacultyRepo) GetByID(_ context.Context, id string) (*model.Faculty, error) {
	dept, ok := m.departments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.Faculty{ClaveDocente: id, Nombre: "Docente", ApellidoPaterno: id, ClaveDepartamento: &dept}, nil
}

func (m *mockFacultyRepo) ResolveDepartment(_ context.Context, facultyID string) (string, error) {
	m.resolves.Add(1)
	if m.err != nil {
		return "", m.err
	}
	return m.departments[facultyID], nil
}

// ── Mock DepartmentRepository ──

type mockDeptRepo struct {
	depts map[string]*model.Department
}

func newMockDeptRepo() *mockDeptRepo {
	return &mockDeptRepo{depts: make(map[string]*model.Department)}
}

func (m *mockDeptRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.depts[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) ListAll(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.depts {
		result = append(result, *d)
	}
	return result, nil
}

func (m *mockDeptRepo) DepartmentHead(_ context.Context, id string) (*string, error) {
	if d, ok := m.depts[id]; ok {
		return d.HeadName(), nil
	}
	return nil, nil
}

// ── Mock ActivityRepository ──

type mockActivityRepo struct {
	activities []model.Activity
	documents  map[string][]model.ActivityDocument
	err        error
}

func newMockActivityRepo() *mockActivityRepo {
	return &mockActivityRepo{documents: make(map[string][]model.ActivityDocument)}
}

// add 登记活动及其关联的证明文件；dept 为空表示按教师所属部门
func (m *mockActivityRepo) add(activityID string, docs ...model.ActivityDocument) {
	m.activities = append(m.activities, model.Activity{ClaveActividad: activityID, Nombre: activityID})
	for i := range docs {
		docs[i].ClaveActividad = activityID
	}
	m.documents[activityID] = append(m.documents[activityID], docs...)
}

func (m *mockActivityRepo) ListAll(_ context.Context) ([]model.Activity, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := append([]model.Activity(nil), m.activities...)
	sort.Slice(out, func(i, j int) bool { return out[i].ClaveActividad < out[j].ClaveActividad })
	return out, nil
}

func (m *mockActivityRepo) ListDocuments(_ context.Context, activityID string) ([]model.ActivityDocument, error) {
	return m.documents[activityID], nil
}

func doc(code string) model.ActivityDocument {
	return model.ActivityDocument{ClaveDocumento: code}
}

func docIn(code, dept string) model.ActivityDocument {
	return model.ActivityDocument{ClaveDocumento: code, ClaveDepartamento: &dept}
}

// ── Mock 部门库执行器 ──

type execCall struct {
	dept   string
	query  string
	params map[string]any
}

type mockExecutor struct {
	mu     sync.Mutex
	calls  []execCall
	handle func(ctx context.Context, dept, query string, params map[string]any) ([]certificate.Row, error)
}

func (m *mockExecutor) Execute(ctx context.Context, dept, query string, params []certificate.Param) ([]certificate.Row, error) {
	p := make(map[string]any, len(params))
	for _, param := range params {
		p[param.Name] = param.Value
	}
	m.mu.Lock()
	m.calls = append(m.calls, execCall{dept: dept, query: query, params: p})
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.handle == nil {
		return []certificate.Row{}, nil
	}
	rows, err := m.handle(ctx, dept, query, p)
	if rows == nil && err == nil {
		rows = []certificate.Row{}
	}
	return rows, err
}

func (m *mockExecutor) snapshot() []execCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]execCall(nil), m.calls...)
}

// queryOf 证明文件类型的主查询
func queryOf(code string) string {
	def, _ := certificate.DefaultRegistry().Lookup(certificate.Code(code))
	return def.Query
}

// ── 测试辅助 ──

type testDeps struct {
	faculty  *mockFacultyRepo
	dept     *mockDeptRepo
	activity *mockActivityRepo
	exec     *mockExecutor
}

func setupTestCertificateService(cfg config.GenerationConfig) (*certificateService, *testDeps) {
	deps := &testDeps{
		faculty:  newMockFacultyRepo(),
		dept:     newMockDeptRepo(),
		activity: newMockActivityRepo(),
		exec:     &mockExecutor{},
	}
	repo := &repository.Repository{
		Faculty:    deps.faculty,
		Department: deps.dept,
		Activity:   deps.activity,
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = 4
	}
	svc := NewCertificateService(&cfg, repo, deps.exec, zap.NewNop(), nil).(*certificateService)
	svc.now = func() time.Time { return time.Date(2024, time.October, 1, 9, 0, 0, 0, time.UTC) }
	return svc, deps
}
