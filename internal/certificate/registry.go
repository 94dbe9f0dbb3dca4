package certificate

import (
	"context"
	"fmt"
	"sort"
)

// ShapeFunc 对查询结果做类型相关的整形（聚合、派生字段等）
type ShapeFunc func(rows []Row) ([]Row, error)

// RunFunc 需要多次查询的类型（如按学期拆分）自行取数，替代默认的单查询流程
type RunFunc func(ctx context.Context, exec Executor, req Request) ([]Row, error)

// Definition 一种证明文件类型的登记信息
type Definition struct {
	Code        Code
	Title       string
	EvidenceKey string
	Scope       Scope
	Query       string
	Shape       ShapeFunc
	Run         RunFunc
}

// params 按统计粒度绑定查询参数
func (d Definition) params(req Request) []Param {
	params := []Param{{Name: "ClaveDocente", Value: req.FacultyID}}
	switch d.Scope {
	case ScopeYear:
		params = append(params, Param{Name: "Anio", Value: req.Period.Year})
	case ScopeTerm:
		params = append(params,
			Param{Name: "Anio", Value: req.Period.Year},
			Param{Name: "Semestre", Value: string(req.Period.Term)},
		)
	}
	return params
}

func (d Definition) validate() error {
	switch {
	case d.Code == "":
		return fmt.Errorf("证明文件编码不能为空")
	case d.EvidenceKey == "":
		return fmt.Errorf("%s: evidence key 不能为空", d.Code)
	case d.EvidenceKey == "code" || d.EvidenceKey == "title" || d.EvidenceKey == "signatory":
		return fmt.Errorf("%s: evidence key %q 与保留字段冲突", d.Code, d.EvidenceKey)
	case d.Query == "" && d.Run == nil:
		return fmt.Errorf("%s: 必须提供 Query 或 Run", d.Code)
	}
	return nil
}

// Registry 证明文件类型注册表，构建后只读，可并发查询
type Registry struct {
	defs  map[Code]Definition
	codes []Code
}

// NewRegistry 构建注册表；编码重复或登记信息不完整时返回错误
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{defs: make(map[Code]Definition, len(defs))}
	for _, d := range defs {
		if err := d.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.defs[d.Code]; dup {
			return nil, fmt.Errorf("证明文件编码重复: %s", d.Code)
		}
		r.defs[d.Code] = d
		r.codes = append(r.codes, d.Code)
	}
	sort.Slice(r.codes, func(i, j int) bool { return r.codes[i] < r.codes[j] })
	return r, nil
}

// MustRegistry 同 NewRegistry，出错时 panic；仅用于启动期的静态登记
func MustRegistry(defs ...Definition) *Registry {
	r, err := NewRegistry(defs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup 按编码查找
func (r *Registry) Lookup(code Code) (Definition, bool) {
	d, ok := r.defs[code]
	return d, ok
}

// Definitions 按编码排序返回全部登记信息
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.codes))
	for _, c := range r.codes {
		out = append(out, r.defs[c])
	}
	return out
}

// Len 已登记类型数量
func (r *Registry) Len() int {
	return len(r.codes)
}

var defaultRegistry = MustRegistry(catalog()...)

// DefaultRegistry 进程级证明文件目录（DOC033 ~ DOC063）
func DefaultRegistry() *Registry {
	return defaultRegistry
}
