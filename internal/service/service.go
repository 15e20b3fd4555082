package service

import (
	"go.uber.org/zap"

	"github.com/0xniki/rezzy-backend/config"
	"github.com/0xniki/rezzy-backend/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Table        TableService
	Reservation  ReservationService
	Availability AvailabilityService
	Hours        HoursService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) *Service {
	return &Service{
		Table:        NewTableService(repo, logger),
		Reservation:  NewReservationService(&cfg.Booking, repo, logger),
		Availability: NewAvailabilityService(&cfg.Booking, repo, logger),
		Hours:        NewHoursService(repo, logger),
		Export:       NewExportService(repo, logger),
	}
}
