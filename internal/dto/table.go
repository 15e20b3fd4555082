package dto

// ── 桌位模块 DTO ──

// CreateTableRequest 创建桌位请求
type CreateTableRequest struct {
	TableNumber string  `json:"table_number" binding:"required,min=1,max=20"`
	MinCapacity int     `json:"min_capacity" binding:"required,min=1"`
	MaxCapacity int     `json:"max_capacity" binding:"required,min=1"`
	IsShared    bool    `json:"is_shared"`
	Location    *string `json:"location"     binding:"omitempty,max=100"`
}

// UpdateTableRequest 更新桌位请求（整体覆盖，与创建字段一致）
type UpdateTableRequest struct {
	TableNumber string  `json:"table_number" binding:"required,min=1,max=20"`
	MinCapacity int     `json:"min_capacity" binding:"required,min=1"`
	MaxCapacity int     `json:"max_capacity" binding:"required,min=1"`
	IsShared    bool    `json:"is_shared"`
	Location    *string `json:"location"     binding:"omitempty,max=100"`
}

// TableListRequest 桌位列表查询参数
type TableListRequest struct {
	MinCapacity *int    `form:"min_capacity" binding:"omitempty,min=1"`
	MaxCapacity *int    `form:"max_capacity" binding:"omitempty,min=1"`
	IsShared    *bool   `form:"is_shared"`
	Location    *string `form:"location"     binding:"omitempty,max=100"`
}

// TableResponse 桌位信息响应
type TableResponse struct {
	ID          string  `json:"id"`
	TableNumber string  `json:"table_number"`
	MinCapacity int     `json:"min_capacity"`
	MaxCapacity int     `json:"max_capacity"`
	IsShared    bool    `json:"is_shared"`
	Location    *string `json:"location,omitempty"`
	ChairCount  int     `json:"chair_count"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// TableBrief 桌位简要信息（嵌入预订/可用性响应）
type TableBrief struct {
	ID          string  `json:"id"`
	TableNumber string  `json:"table_number"`
	MinCapacity int     `json:"min_capacity"`
	MaxCapacity int     `json:"max_capacity"`
	IsShared    bool    `json:"is_shared"`
	Location    *string `json:"location,omitempty"`
}
