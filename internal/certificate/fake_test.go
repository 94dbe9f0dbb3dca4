package certificate

import (
	"context"
	"sync"
)

// fakeExecutor 按查询文本与参数返回预置结果，并记录调用
type fakeExecutor struct {
	mu     sync.Mutex
	calls  []fakeCall
	handle func(dept, query string, params map[string]any) ([]Row, error)
}

type fakeCall struct {
	dept   string
	query  string
	params map[string]any
}

func (f *fakeExecutor) Execute(_ context.Context, dept, query string, params []Param) ([]Row, error) {
	p := make(map[string]any, len(params))
	for _, param := range params {
		p[param.Name] = param.Value
	}

	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{dept: dept, query: query, params: p})
	f.mu.Unlock()

	if f.handle == nil {
		return []Row{}, nil
	}
	rows, err := f.handle(dept, query, p)
	if rows == nil && err == nil {
		rows = []Row{}
	}
	return rows, err
}

func (f *fakeExecutor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeResolver struct {
	departments map[string]string
	err         error
	calls       int
}

func (r *fakeResolver) ResolveDepartment(_ context.Context, facultyID string) (string, error) {
	r.calls++
	return r.departments[facultyID], r.err
}

type fakeHeads struct {
	mu    sync.Mutex
	names map[string]string
	err   error
	calls int
}

func (h *fakeHeads) DepartmentHead(_ context.Context, departmentID string) (*string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	if h.err != nil {
		return nil, h.err
	}
	name, ok := h.names[departmentID]
	if !ok {
		return nil, nil
	}
	return &name, nil
}

// teachingLoad 某学期的任课情况：total 门课中 postgrad 门为研究生课程
type teachingLoad struct {
	total, postgrad int
	grade           any // 该学期部门评估分数，nil 表示无记录
}

// teachingHandler 模拟 asignatura_docente / evaluacion_departamental 两张表
func teachingHandler(load map[Term]teachingLoad) func(string, string, map[string]any) ([]Row, error) {
	return func(_ string, query string, p map[string]any) ([]Row, error) {
		s, _ := p["Semestre"].(string)
		term := Term(s)
		l := load[term]
		switch query {
		case assignmentCountQuery:
			return []Row{{"total": int64(l.total)}}, nil
		case postgraduateCountQuery:
			return []Row{{"total": int64(l.postgrad)}}, nil
		case evaluationByTermQuery:
			if l.grade == nil {
				return nil, nil
			}
			return []Row{{"year": p["Anio"], "term": string(term), "grade": l.grade}}, nil
		}
		return nil, nil
	}
}
