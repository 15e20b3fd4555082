package dto

// ── 预订模块 DTO ──

// CustomerPayload 预订请求中携带的顾客信息
type CustomerPayload struct {
	Name  string  `json:"name"  binding:"required,min=1,max=100"`
	Email *string `json:"email" binding:"omitempty,email,max=255"`
	Phone *string `json:"phone" binding:"omitempty,min=5,max=30"`
	Notes string  `json:"notes" binding:"omitempty,max=1000"`
}

// CreateReservationRequest 创建预订请求
type CreateReservationRequest struct {
	PartySize       int             `json:"party_size"       binding:"required,min=1"`
	ReservationDate string          `json:"reservation_date" binding:"required,datetime=2006-01-02"`
	StartTime       string          `json:"start_time"       binding:"required"`
	DurationMinutes int             `json:"duration_minutes" binding:"omitempty,min=1"`
	Notes           string          `json:"notes"            binding:"omitempty,max=1000"`
	Status          string          `json:"status"           binding:"omitempty,oneof=pending confirmed seated completed cancelled no_show"`
	Customer        CustomerPayload `json:"customer"         binding:"required"`
	TableIDs        []string        `json:"table_ids"        binding:"required,min=1,dive,uuid"`
}

// UpdateReservationRequest 更新预订请求（部分更新，仅修改出现的字段）
type UpdateReservationRequest struct {
	PartySize       *int      `json:"party_size"       binding:"omitempty,min=1"`
	ReservationDate *string   `json:"reservation_date" binding:"omitempty,datetime=2006-01-02"`
	StartTime       *string   `json:"start_time"`
	DurationMinutes *int      `json:"duration_minutes" binding:"omitempty,min=1"`
	Notes           *string   `json:"notes"            binding:"omitempty,max=1000"`
	Status          *string   `json:"status"           binding:"omitempty,oneof=pending confirmed seated completed cancelled no_show"`
	TableIDs        *[]string `json:"table_ids"        binding:"omitempty,min=1,dive,uuid"`
}

// UpdateStatusRequest 状态变更请求（窄路径，不触发时间/容量校验）
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed seated completed cancelled no_show"`
}

// ReservationListRequest 预订列表查询参数
type ReservationListRequest struct {
	DateFrom   *string `form:"date_from"   binding:"omitempty,datetime=2006-01-02"`
	DateTo     *string `form:"date_to"     binding:"omitempty,datetime=2006-01-02"`
	TableID    *string `form:"table_id"    binding:"omitempty,uuid"`
	Status     *string `form:"status"      binding:"omitempty,oneof=pending confirmed seated completed cancelled no_show"`
	CustomerID *string `form:"customer_id" binding:"omitempty,uuid"`
	Limit      int     `form:"limit"       binding:"omitempty,min=1,max=500"`
	Offset     int     `form:"offset"      binding:"omitempty,min=0"`
}

// CustomerBrief 顾客简要信息（嵌入预订响应）
type CustomerBrief struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// ReservationResponse 预订详情响应
type ReservationResponse struct {
	ID              string        `json:"id"`
	PartySize       int           `json:"party_size"`
	ReservationDate string        `json:"reservation_date"`
	StartTime       string        `json:"start_time"`
	EndTime         string        `json:"end_time"`
	DurationMinutes int           `json:"duration_minutes"`
	Notes           string        `json:"notes,omitempty"`
	Status          string        `json:"status"`
	CreatedAt       string        `json:"created_at"`
	Customer        CustomerBrief `json:"customer"`
	Tables          []TableBrief  `json:"tables"`
}
