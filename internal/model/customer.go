package model

// Customer 顾客表 — 对应 customers
// email / phone 至少应有一个可用于联系；小型散客可由系统生成占位邮箱
type Customer struct {
	CustomerID string  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name       string  `gorm:"type:varchar(100);not null"                               json:"name"`
	Email      *string `gorm:"type:varchar(255);index"                                  json:"email,omitempty"`
	Phone      *string `gorm:"type:varchar(30);index"                                   json:"phone,omitempty"`
	Notes      string  `gorm:"type:text;not null;default:''"                            json:"notes,omitempty"`
	BaseModel
}

func (Customer) TableName() string { return "customers" }
