package handler

import "github.com/0xniki/rezzy-backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Table        *TableHandler
	Reservation  *ReservationHandler
	Availability *AvailabilityHandler
	Hours        *HoursHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Table:        NewTableHandler(svc.Table),
		Reservation:  NewReservationHandler(svc.Reservation),
		Availability: NewAvailabilityHandler(svc.Availability),
		Hours:        NewHoursHandler(svc.Hours),
		Export:       NewExportHandler(svc.Export),
	}
}
