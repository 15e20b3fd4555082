package dto

// ── 营业时间模块 DTO ──

// SetHoursRequest 设置某个星期的营业时间（按 day_of_week 幂等覆盖）
type SetHoursRequest struct {
	DayOfWeek           *int   `json:"day_of_week"           binding:"required,min=0,max=6"`
	OpenTime            string `json:"open_time"             binding:"required"`
	CloseTime           string `json:"close_time"            binding:"required"`
	LastReservationTime string `json:"last_reservation_time" binding:"required"`
}

// HoursResponse 每周营业时间响应
type HoursResponse struct {
	ID                  string `json:"id"`
	DayOfWeek           int    `json:"day_of_week"`
	OpenTime            string `json:"open_time"`
	CloseTime           string `json:"close_time"`
	LastReservationTime string `json:"last_reservation_time"`
}

// SetSpecialHoursRequest 设置特殊营业时间（按日期幂等覆盖）
type SetSpecialHoursRequest struct {
	Date                string  `json:"date"                  binding:"required,datetime=2006-01-02"`
	Name                string  `json:"name"                  binding:"required,min=1,max=100"`
	Description         *string `json:"description"           binding:"omitempty,max=1000"`
	IsClosed            bool    `json:"is_closed"`
	OpenTime            *string `json:"open_time"`
	CloseTime           *string `json:"close_time"`
	LastReservationTime *string `json:"last_reservation_time"`
}

// SpecialHoursListRequest 特殊营业时间列表查询参数
type SpecialHoursListRequest struct {
	DateFrom *string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   *string `form:"date_to"   binding:"omitempty,datetime=2006-01-02"`
}

// SpecialHoursResponse 特殊营业时间响应
type SpecialHoursResponse struct {
	ID                  string  `json:"id"`
	Date                string  `json:"date"`
	Name                string  `json:"name"`
	Description         *string `json:"description,omitempty"`
	IsClosed            bool    `json:"is_closed"`
	OpenTime            *string `json:"open_time,omitempty"`
	CloseTime           *string `json:"close_time,omitempty"`
	LastReservationTime *string `json:"last_reservation_time,omitempty"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

// ExportRequest 预订导出查询参数（Excel / iCalendar 共用）
type ExportRequest struct {
	DateFrom string `form:"date_from" binding:"required,datetime=2006-01-02"`
	DateTo   string `form:"date_to"   binding:"required,datetime=2006-01-02"`
}
