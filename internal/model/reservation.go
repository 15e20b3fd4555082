package model

import "time"

// ── 预订状态（闭合枚举）──

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusSeated    = "seated"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// ValidStatuses 全部合法状态，按业务流转顺序排列
var ValidStatuses = []string{
	StatusPending, StatusConfirmed, StatusSeated,
	StatusCompleted, StatusCancelled, StatusNoShow,
}

// IsValidStatus 校验状态是否属于闭合枚举
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsBlockingStatus 该状态的预订是否占用桌位容量
// cancelled / no_show 不占用，其余状态均占用
func IsBlockingStatus(s string) bool {
	return s != StatusCancelled && s != StatusNoShow
}

// Reservation 预订表 — 对应 reservations
type Reservation struct {
	ReservationID   string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CustomerID      string    `gorm:"type:uuid;not null"                                       json:"customer_id"`
	PartySize       int       `gorm:"type:smallint;not null"                                   json:"party_size"`
	ReservationDate time.Time `gorm:"type:date;not null;index"                                 json:"reservation_date"`
	StartTime       string    `gorm:"type:time;not null"                                       json:"start_time"`
	DurationMinutes int       `gorm:"not null;default:90"                                      json:"duration_minutes"`
	Notes           string    `gorm:"type:text;not null;default:''"                            json:"notes,omitempty"`
	Status          string    `gorm:"type:varchar(20);not null;default:'pending'"              json:"status"`
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                       json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                       json:"updated_at"`

	// 关联
	Customer *Customer `gorm:"foreignKey:CustomerID;references:CustomerID"                                                            json:"customer,omitempty"`
	Tables   []Table   `gorm:"many2many:table_assignments;foreignKey:ReservationID;joinForeignKey:ReservationID;references:TableID;joinReferences:TableID" json:"tables,omitempty"`
}

func (Reservation) TableName() string { return "reservations" }

// Window 返回预订占用的时间窗口
func (r *Reservation) Window() (TimeWindow, error) {
	return NewTimeWindow(FormatDate(r.ReservationDate), r.StartTime, r.DurationMinutes)
}

// TableAssignment 预订-桌位分配表 — 对应 table_assignments
// (reservation_id, table_id) 组合唯一，数据库层兜底防止重复分配
type TableAssignment struct {
	AssignmentID  string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"  json:"id"`
	ReservationID string    `gorm:"type:uuid;not null;uniqueIndex:uniq_reservation_table"     json:"reservation_id"`
	TableID       string    `gorm:"type:uuid;not null;uniqueIndex:uniq_reservation_table"     json:"table_id"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                        json:"created_at"`
}

func (TableAssignment) TableName() string { return "table_assignments" }
