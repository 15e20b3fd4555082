package model

import "time"

// Table 桌位表 — 对应 tables
type Table struct {
	TableID     string  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TableNumber string  `gorm:"type:varchar(20);not null;uniqueIndex"                    json:"table_number"`
	MinCapacity int     `gorm:"type:smallint;not null"                                   json:"min_capacity"`
	MaxCapacity int     `gorm:"type:smallint;not null"                                   json:"max_capacity"`
	IsShared    bool    `gorm:"not null;default:false"                                   json:"is_shared"`
	Location    *string `gorm:"type:varchar(100)"                                        json:"location,omitempty"`
	BaseModel

	// 关联
	Chairs []Chair `gorm:"foreignKey:TableID;constraint:OnDelete:CASCADE" json:"chairs,omitempty"`
}

// TableName 指定表名
func (Table) TableName() string { return "tables" }

// Chair 座椅表 — 对应 chairs
// 座椅数量与桌位 max_capacity 同步，仅作容量核算用途，无独立业务含义
type Chair struct {
	ChairID    string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TableID    string    `gorm:"type:uuid;not null"                                       json:"table_id"`
	IsAssigned bool      `gorm:"not null;default:true"                                    json:"is_assigned"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                       json:"created_at"`
}

func (Chair) TableName() string { return "chairs" }
