package errors

import (
	"errors"
	"fmt"
)

// ErrDepartmentDBNotRegistered 部门未在路由表中注册数据库
var ErrDepartmentDBNotRegistered = errors.New("部门数据库未注册")

// QueryError 部门库查询失败（连接、SQL、未注册部门等），调用方不应重试
type QueryError struct {
	DepartmentID string
	Err          error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("部门 %s 查询失败: %v", e.DepartmentID, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// IsQueryError 判断错误链中是否包含部门库查询失败
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}
