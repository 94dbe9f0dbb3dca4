package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TaniaGavilanes/software-back/internal/certificate"
	"github.com/TaniaGavilanes/software-back/internal/dto"
	"github.com/TaniaGavilanes/software-back/internal/service"
	pkgerrors "github.com/TaniaGavilanes/software-back/pkg/errors"
	"github.com/TaniaGavilanes/software-back/pkg/response"
)

// CertificateHandler 证明文件模块 HTTP 处理器
type CertificateHandler struct {
	certSvc service.CertificateService
}

// NewCertificateHandler 创建 CertificateHandler
func NewCertificateHandler(certSvc service.CertificateService) *CertificateHandler {
	return &CertificateHandler{certSvc: certSvc}
}

// ListCertificateTypes 已注册的证明文件类型
// GET /api/v1/certificates
func (h *CertificateHandler) ListCertificateTypes(c *gin.Context) {
	response.OK(c, gin.H{"list": h.certSvc.Catalog()})
}

// ListFacultyCertificates 教师当年全部适用的证明文件
// GET /api/v1/faculty/:id/certificates
func (h *CertificateHandler) ListFacultyCertificates(c *gin.Context) {
	facultyID, ok := MustGetFacultyID(c)
	if !ok {
		return
	}

	resp, err := h.certSvc.Orchestrate(c.Request.Context(), facultyID)
	if err != nil {
		handleCertificateError(c, err)
		return
	}

	response.OK(c, resp)
}

// GetCertificate 生成单个证明文件
// GET /api/v1/faculty/:id/certificates/:code?year=2024&term=ENERO-JUNIO&department_id=SIS
// 不适用时 data 为 null
func (h *CertificateHandler) GetCertificate(c *gin.Context) {
	facultyID, ok := MustGetFacultyID(c)
	if !ok {
		return
	}

	var req dto.GenerateCertificateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	code := certificate.Code(strings.ToUpper(c.Param("code")))
	res, err := h.certSvc.Generate(c.Request.Context(), facultyID, code, &req)
	if err != nil {
		handleCertificateError(c, err)
		return
	}

	response.OK(c, res)
}

// CheckRequirements 人事类初始要求校验
// GET /api/v1/faculty/:id/requirements?year=2024
func (h *CertificateHandler) CheckRequirements(c *gin.Context) {
	facultyID, ok := MustGetFacultyID(c)
	if !ok {
		return
	}

	var req dto.RequirementsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.certSvc.CheckRequirements(c.Request.Context(), facultyID, &req)
	if err != nil {
		handleCertificateError(c, err)
		return
	}

	response.OK(c, resp)
}

func handleCertificateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCertificateNotFound):
		response.NotFound(c, 20401, "证明文件类型不存在")
	case errors.Is(err, service.ErrInvalidYear):
		response.BadRequest(c, 10001, "无效的年份")
	case errors.Is(err, service.ErrInvalidTerm):
		response.BadRequest(c, 10001, "无效的学期")
	case errors.Is(err, service.ErrDepartmentUnresolved):
		response.NotFound(c, 20402, "无法确定教师所属部门")
	case errors.Is(err, context.DeadlineExceeded):
		response.GatewayTimeout(c, 20501, "部门数据查询超时")
	case pkgerrors.IsQueryError(err):
		response.BadGateway(c, 20502, "部门数据查询失败")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/certificate_handler.go
