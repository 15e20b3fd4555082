package model

import "time"

// RestaurantHours 每周营业时间表 — 对应 restaurant_hours
// day_of_week: 周一=0 .. 周日=6，每个星期最多一行
type RestaurantHours struct {
	HoursID             string `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DayOfWeek           int    `gorm:"type:smallint;not null;uniqueIndex"                       json:"day_of_week"`
	OpenTime            string `gorm:"type:time;not null"                                       json:"open_time"`
	CloseTime           string `gorm:"type:time;not null"                                       json:"close_time"`
	LastReservationTime string `gorm:"type:time;not null"                                       json:"last_reservation_time"`
}

func (RestaurantHours) TableName() string { return "restaurant_hours" }

// SpecialHours 特定日期营业时间覆盖表 — 对应 special_hours
// 命中日期时优先于每周营业时间；is_closed=true 表示当日闭店
type SpecialHours struct {
	SpecialHoursID      string  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Date                time.Time `gorm:"type:date;not null;uniqueIndex"                         json:"date"`
	Name                string  `gorm:"type:varchar(100);not null"                               json:"name"`
	Description         *string `gorm:"type:text"                                                json:"description,omitempty"`
	IsClosed            bool    `gorm:"not null;default:false"                                   json:"is_closed"`
	OpenTime            *string `gorm:"type:time"                                                json:"open_time,omitempty"`
	CloseTime           *string `gorm:"type:time"                                                json:"close_time,omitempty"`
	LastReservationTime *string `gorm:"type:time"                                                json:"last_reservation_time,omitempty"`
	BaseModel
}

func (SpecialHours) TableName() string { return "special_hours" }
