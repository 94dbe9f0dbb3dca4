// Package certificate 证明文件资格判定与数据生成引擎。
//
// 给定教师与统计周期，判定适用的证明文件类型，从教师所属（或活动指定）的部门库中
// 取出佐证记录，并附上部门负责人作为签署人。引擎只产出数据，不负责渲染文档。
package certificate

import (
	"context"
	"errors"
	"fmt"
)

// Code 证明文件类型编码，如 DOC033
type Code string

// Term 半年学期标签
type Term string

const (
	TermFirstHalf  Term = "ENERO-JUNIO"
	TermSecondHalf Term = "AGOSTO-DICIEMBRE"
)

// Terms 按时间先后返回一年内的两个学期
func Terms() []Term {
	return []Term{TermFirstHalf, TermSecondHalf}
}

// Valid 是否为合法学期
func (t Term) Valid() bool {
	return t == TermFirstHalf || t == TermSecondHalf
}

// Scope 证明文件的统计粒度，由类型决定，调用方不能更改
type Scope string

const (
	ScopeProfile Scope = "profile" // 不按周期过滤（教师档案类）
	ScopeYear    Scope = "year"
	ScopeTerm    Scope = "term" // 年 + 学期
)

var (
	ErrUnknownCode = errors.New("未注册的证明文件类型")
	ErrInvalidTerm = errors.New("无效的学期")
	ErrInvalidYear = errors.New("无效的年份")
	ErrNonNumeric  = errors.New("计数列不是整数")
)

// Period 统计周期；Term 为空表示整年
type Period struct {
	Year int
	Term Term
}

// Validate 校验周期
func (p Period) Validate() error {
	if p.Year < 1900 || p.Year > 9999 {
		return fmt.Errorf("%w: %d", ErrInvalidYear, p.Year)
	}
	if p.Term != "" && !p.Term.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTerm, p.Term)
	}
	return nil
}

// Row 一条佐证记录，字段由各证明文件类型自行决定
type Row = map[string]any

// Param 具名查询参数，对应 SQL 中的 @Name 占位符
type Param struct {
	Name  string
	Value any
}

// Request 单次生成请求
// DepartmentID 为空时由 DepartmentResolver 根据教师所属部门推导
type Request struct {
	Code         Code
	FacultyID    string
	Period       Period
	DepartmentID string
}

// Executor 部门库查询执行器
// 无结果时返回空切片而非 nil；连接或 SQL 错误直接返回，不做重试
type Executor interface {
	Execute(ctx context.Context, departmentID, query string, params []Param) ([]Row, error)
}

// DepartmentResolver 教师所属部门查询；返回 "" 表示无法确定所属部门
type DepartmentResolver interface {
	ResolveDepartment(ctx context.Context, facultyID string) (string, error)
}

// HeadLookup 部门负责人查询；未登记负责人时返回 nil
type HeadLookup interface {
	DepartmentHead(ctx context.Context, departmentID string) (*string, error)
}
