package dto

// ── 证明文件模块 DTO ──

// GenerateCertificateRequest 单个证明文件生成参数（query string）
// Year 为空时取当前年份；DepartmentID 为空时按教师所属部门
type GenerateCertificateRequest struct {
	Year         int    `form:"year"          binding:"omitempty,min=1900,max=9999"`
	Term         string `form:"term"          binding:"omitempty,oneof=ENERO-JUNIO AGOSTO-DICIEMBRE"`
	DepartmentID string `form:"department_id" binding:"omitempty,max=20"`
}

// RequirementsRequest 初始要求校验参数
type RequirementsRequest struct {
	Year int `form:"year" binding:"omitempty,min=1900,max=9999"`
}

// [自证通过] internal/dto/certificate.go
