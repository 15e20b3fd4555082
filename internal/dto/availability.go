package dto

// ── 可用性模块 DTO ──

// AvailabilityRequest 桌位可用性查询请求
type AvailabilityRequest struct {
	PartySize       int    `json:"party_size"       binding:"required,min=1"`
	ReservationDate string `json:"reservation_date" binding:"required,datetime=2006-01-02"`
	StartTime       string `json:"start_time"       binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"omitempty,min=1"`
}

// AvailableTable 可用桌位（共享桌附带剩余容量）
type AvailableTable struct {
	TableBrief
	RemainingCapacity *int `json:"remaining_capacity,omitempty"`
}

// AvailabilityResponse 可用性查询响应
// is_valid_time=false 时 available_tables 恒为空
type AvailabilityResponse struct {
	AvailableTables []AvailableTable `json:"available_tables"`
	IsValidTime     bool             `json:"is_valid_time"`
}
